package fontregistry

import "sync"

// Fallbacks remembers, per base font, the fonts which have been used to
// substitute characters the base font does not cover. Lists are kept in
// the order fallbacks have been discovered and never contain duplicates or
// the base font itself.
//
// Fallbacks is safe for concurrent use.
type Fallbacks[ID comparable] struct {
	mx    sync.RWMutex
	lists map[ID][]ID
}

// NewFallbacks creates an empty fallback table.
func NewFallbacks[ID comparable]() *Fallbacks[ID] {
	return &Fallbacks[ID]{lists: make(map[ID][]ID)}
}

// Add appends fb to the fallback list of base. It returns false if fb is
// already known for base.
func (fbs *Fallbacks[ID]) Add(base, fb ID) bool {
	if base == fb {
		return false
	}
	fbs.mx.Lock()
	defer fbs.mx.Unlock()
	for _, id := range fbs.lists[base] {
		if id == fb {
			return false
		}
	}
	fbs.lists[base] = append(fbs.lists[base], fb)
	tracer().Debugf("fallback #%d registered for base font", len(fbs.lists[base]))
	return true
}

// List returns a copy of the fallback list of base.
func (fbs *Fallbacks[ID]) List(base ID) []ID {
	fbs.mx.RLock()
	defer fbs.mx.RUnlock()
	l := fbs.lists[base]
	if len(l) == 0 {
		return nil
	}
	return append([]ID(nil), l...)
}

// Find returns the first fallback of base for which accept returns true.
func (fbs *Fallbacks[ID]) Find(base ID, accept func(ID) bool) (ID, bool) {
	for _, id := range fbs.List(base) {
		if accept(id) {
			return id, true
		}
	}
	var none ID
	return none, false
}

// Drop forgets every list mentioning id, either as base or as fallback.
func (fbs *Fallbacks[ID]) Drop(id ID) {
	fbs.mx.Lock()
	defer fbs.mx.Unlock()
	delete(fbs.lists, id)
	for base, l := range fbs.lists {
		k := 0
		for _, fb := range l {
			if fb != id {
				l[k] = fb
				k++
			}
		}
		fbs.lists[base] = l[:k]
	}
}
