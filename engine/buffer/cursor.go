package buffer

import (
	"fmt"
	"sort"

	"github.com/npillmayer/tyed/core/grapheme"
)

// record is a cursor as stored in the registry.
type record struct {
	charIdx  int
	lineNum  int
	lineOff  int  // character offset within the line
	lineGidx int  // display column within the line
	globalX  int  // column to aim for when moving vertically
	pastEnd  bool // may the cursor rest behind the last character of a line?
	refs     int  // number of handles; 0 means dead
	gen      uint32
}

// registry is an arena of cursor records. order holds the slots of live
// records, sorted by character offset. Dead records stay in order until the
// next purge.
type registry struct {
	slots []record
	free  []int
	order []int
}

// purge removes dead records from the registry.
func (reg *registry) purge() {
	live := reg.order[:0]
	for _, slot := range reg.order {
		if reg.slots[slot].refs > 0 {
			live = append(live, slot)
			continue
		}
		reg.slots[slot].gen++
		reg.free = append(reg.free, slot)
	}
	reg.order = live
}

// search returns the index in order of the first record with a character
// offset of at least idx.
func (reg *registry) search(idx int) int {
	return sort.Search(len(reg.order), func(i int) bool {
		return reg.slots[reg.order[i]].charIdx >= idx
	})
}

func (reg *registry) alloc(rec record) int {
	var slot int
	if n := len(reg.free); n > 0 {
		slot = reg.free[n-1]
		reg.free = reg.free[:n-1]
		rec.gen = reg.slots[slot].gen
		reg.slots[slot] = rec
	} else {
		slot = len(reg.slots)
		reg.slots = append(reg.slots, rec)
	}
	return slot
}

// sort restores the order of the registry after cursors have moved.
func (reg *registry) sort() {
	sort.SliceStable(reg.order, func(i, j int) bool {
		return reg.slots[reg.order[i]].charIdx < reg.slots[reg.order[j]].charIdx
	})
}

// live calls f for every live record.
func (reg *registry) live(f func(slot int, rec *record)) {
	for _, slot := range reg.order {
		if rec := &reg.slots[slot]; rec.refs > 0 {
			f(slot, rec)
		}
	}
}

// Cursor is a handle to a cursor of a buffer. Handles to the same cursor
// share its position.
type Cursor struct {
	buf      *Buffer
	slot     int
	gen      uint32
	released bool
}

// CursorAt returns a cursor at pos. If a cursor already rests at this
// position, a new handle to it is returned. New cursors may rest behind the
// last character of a line.
//
// pos should be current. A position from before the last edit is
// re-evaluated by its character offset.
func (b *Buffer) CursorAt(pos BufferPos) *Cursor {
	if !b.isCurrent(pos) {
		tracer().Infof("cursor requested at outdated position %d", pos.CharIdx)
		pos = b.PositionAt(pos.CharIdx)
	}
	reg := &b.cursors
	reg.purge()
	i := reg.search(pos.CharIdx)
	if i < len(reg.order) {
		slot := reg.order[i]
		if rec := &reg.slots[slot]; rec.charIdx == pos.CharIdx {
			rec.refs++
			return &Cursor{buf: b, slot: slot, gen: rec.gen}
		}
	}
	slot := reg.alloc(record{
		charIdx:  pos.CharIdx,
		lineNum:  pos.LineNum,
		lineOff:  pos.LineOff,
		lineGidx: pos.LineGidx,
		globalX:  pos.LineGidx,
		pastEnd:  true,
		refs:     1,
	})
	reg.order = append(reg.order, 0)
	copy(reg.order[i+1:], reg.order[i:])
	reg.order[i] = slot
	tracer().Debugf("new cursor at %d in slot %d", pos.CharIdx, slot)
	return &Cursor{buf: b, slot: slot, gen: reg.slots[slot].gen}
}

// CursorCount returns the number of live cursors.
func (b *Buffer) CursorCount() int {
	b.cursors.purge()
	return len(b.cursors.order)
}

// own returns the record of cursor c. It panics for released or foreign
// handles.
func (b *Buffer) own(c *Cursor) *record {
	if c == nil || c.buf != b {
		tracer().Errorf("cursor does not belong to buffer")
		panic("buffer: cursor does not belong to this buffer")
	}
	rec := c.rec()
	if rec == nil {
		tracer().Errorf("cursor is not registered with buffer")
		panic("buffer: cursor has been released")
	}
	return rec
}

func (c *Cursor) rec() *record {
	if c.released || c.buf == nil || c.slot >= len(c.buf.cursors.slots) {
		return nil
	}
	rec := &c.buf.cursors.slots[c.slot]
	if rec.gen != c.gen || rec.refs == 0 {
		return nil
	}
	return rec
}

func (c *Cursor) mustRec() *record {
	rec := c.rec()
	if rec == nil {
		panic("buffer: use of released cursor")
	}
	return rec
}

// Clone returns a new handle to the same cursor.
func (c *Cursor) Clone() *Cursor {
	rec := c.mustRec()
	rec.refs++
	return &Cursor{buf: c.buf, slot: c.slot, gen: c.gen}
}

// Release gives up this handle. The cursor is removed from its buffer after
// its last handle has been released. Releasing a handle twice is a no-op.
func (c *Cursor) Release() {
	rec := c.rec()
	if rec == nil {
		return
	}
	rec.refs--
	c.released = true
}

// Valid reports whether the handle may still be used.
func (c *Cursor) Valid() bool {
	return c.rec() != nil
}

// CharIdx returns the character offset of the cursor.
func (c *Cursor) CharIdx() int {
	return c.mustRec().charIdx
}

// LineNum returns the line number of the cursor.
func (c *Cursor) LineNum() int {
	return c.mustRec().lineNum
}

// LineOff returns the character offset of the cursor within its line.
func (c *Cursor) LineOff() int {
	return c.mustRec().lineOff
}

// LineGidx returns the display column of the cursor, with tabs expanded.
func (c *Cursor) LineGidx() int {
	return c.mustRec().lineGidx
}

// Position returns the cursor's position.
func (c *Cursor) Position() BufferPos {
	rec := c.mustRec()
	return BufferPos{
		CharIdx:  rec.charIdx,
		LineNum:  rec.lineNum,
		LineOff:  rec.lineOff,
		LineGidx: rec.lineGidx,
		version:  c.buf.version,
	}
}

// PastEnd reports whether the cursor may rest behind the last character of
// a line.
func (c *Cursor) PastEnd() bool {
	return c.mustRec().pastEnd
}

// SetPastEnd allows or forbids the cursor to rest behind the last character
// of a line. Forbidding it moves a cursor at the end of a line onto the
// line's last grapheme.
func (c *Cursor) SetPastEnd(v bool) {
	rec := c.mustRec()
	rec.pastEnd = v
	if !v {
		c.buf.place(rec, rec.charIdx, true)
		c.buf.cursors.sort()
	}
}

func (c *Cursor) String() string {
	rec := c.rec()
	if rec == nil {
		return "cursor(released)"
	}
	return fmt.Sprintf("cursor(%d @ %d:%d, col %d)", rec.charIdx, rec.lineNum, rec.lineOff, rec.lineGidx)
}

// place moves a record to character offset idx, snapped to a grapheme
// boundary, and recomputes its line fields. With clampEnd set, a cursor not
// allowed past the end of its line is pulled back onto the line's last
// grapheme.
func (b *Buffer) place(rec *record, idx int, clampEnd bool) {
	idx = b.snap(idx)
	ln := b.data.CharToLine(idx)
	start := b.data.LineToChar(ln)
	line := b.lineText(ln)
	off := idx - start
	if clampEnd {
		off = b.clampToLine(line, off, rec.pastEnd)
	}
	rec.charIdx = start + off
	rec.lineNum = ln
	rec.lineOff = off
	rec.lineGidx = grapheme.Column(line, off, b.tabsize)
	rec.globalX = rec.lineGidx
}

// clampToLine limits a line offset to the characters of line. Without
// pastEnd, the end of a non-empty line is replaced by the start of its last
// grapheme.
func (b *Buffer) clampToLine(line string, off int, pastEnd bool) int {
	n := grapheme.CharOffset(line, len(line))
	if off > n {
		off = n
	}
	if !pastEnd && off == n && n > 0 {
		off = grapheme.PrevCharBoundary(line, n)
	}
	return off
}
