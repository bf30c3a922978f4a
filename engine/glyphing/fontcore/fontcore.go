/*
Package fontcore implements a font service for OpenType fonts.

A Core keeps font families, identified by glyphing.FontID, and answers the
questions of the shaping pipeline: which font covers a character, what are
the metrics of a font at a given size, and which glyphs does a run of text
map to. Shaping is delegated to HarfBuzz.

If a font lacks a glyph, Core searches for a substitute. It first tries
fallbacks it already knows for the base font, then the packaged Go fonts and
finally the fonts installed on the system. Substitutes are remembered per
base font.

Core is safe for concurrent use. It is the only shared state of the editor's
text pipeline.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package fontcore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/tyed/core/font"
	"github.com/npillmayer/tyed/core/font/fontregistry"
	"github.com/npillmayer/tyed/core/locate/resources"
	"github.com/npillmayer/tyed/engine/glyphing"
	"github.com/npillmayer/tyed/engine/glyphing/harfbuzz"
	"github.com/npillmayer/tyed/engine/text"
)

// tracer traces with key 'tyed.fonts'.
func tracer() tracing.Trace {
	return tracing.Select("tyed.fonts")
}

type family struct {
	name  string
	path  string // empty for families with style variants
	fonts map[int]*font.ScalableFont
	load  func(text.Style) (*font.ScalableFont, error)
}

var errClosed = errors.New("font service is closed")

// Core is a glyphing.FontService for OpenType fonts. Create one with New.
type Core struct {
	mx        sync.Mutex
	conf      schuko.Configuration
	ctx       context.Context
	cancel    context.CancelFunc
	registry  *fontregistry.Registry
	shaper    *harfbuzz.Shaper
	families  []*family
	byName    map[string]glyphing.FontID
	fallbacks *fontregistry.Fallbacks[glyphing.FontID]
	missing   map[rune]struct{} // characters no font on the system covers
	params    glyphing.Params   // shaping parameters for every run
	closed    bool
	// system searches installed fonts for a character
	system func(ctx context.Context, r rune, exclude func(string) bool) (*font.ScalableFont, error)
}

// New creates a font service. conf is consulted for font lookup, e.g. the
// location of fontconfig's fc-list binary. Clients should call Close when
// done with the service.
func New(conf schuko.Configuration) *Core {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Core{
		conf:      conf,
		ctx:       ctx,
		cancel:    cancel,
		registry:  fontregistry.NewRegistry(),
		shaper:    harfbuzz.NewShaper(),
		byName:    make(map[string]glyphing.FontID),
		fallbacks: fontregistry.NewFallbacks[glyphing.FontID](),
		missing:   make(map[rune]struct{}),
	}
	c.system = func(ctx context.Context, r rune, exclude func(string) bool) (*font.ScalableFont, error) {
		return resources.ResolveFontForChar(ctx, conf, r, exclude).FontWithContext(ctx)
	}
	return c
}

// Close releases all fonts and aborts pending font searches. After Close,
// the service answers every question with a zero value.
func (c *Core) Close() error {
	c.cancel()
	c.mx.Lock()
	defer c.mx.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	for _, fam := range c.families {
		for _, sf := range fam.fonts {
			c.shaper.Forget(sf)
		}
	}
	c.families = nil
	c.byName = nil
	tracer().Infof("font service closed")
	return nil
}

// Load returns the family of fonts with the given name, loading its regular
// variant if the family is not known yet. Style variants are loaded on
// demand.
func (c *Core) Load(name string) (glyphing.FontID, error) {
	c.mx.Lock()
	if id, ok := c.byName[name]; ok {
		c.mx.Unlock()
		return id, nil
	}
	c.mx.Unlock()
	regular, err := resources.ResolveFont(c.conf, name, text.DefaultTextFont).FontWithContext(c.ctx)
	if err != nil {
		return 0, err
	}
	conf := c.conf
	fam := &family{
		name:  name,
		fonts: map[int]*font.ScalableFont{text.DefaultTextFont.Index(): regular},
		load: func(style text.Style) (*font.ScalableFont, error) {
			return resources.ResolveFont(conf, name, style).Font()
		},
	}
	return c.add(fam)
}

// LoadPackaged returns the family of packaged Go fonts, either Go Mono or Go
// Sans.
func (c *Core) LoadPackaged(mono bool) glyphing.FontID {
	name := font.PackagedSans
	if mono {
		name = font.PackagedMono
	}
	fam := &family{
		name:  name,
		fonts: make(map[int]*font.ScalableFont),
		load: func(style text.Style) (*font.ScalableFont, error) {
			return font.PackagedFont(mono, style.Weight == text.Bold, style.Slant != text.Roman), nil
		},
	}
	id, _ := c.add(fam)
	return id
}

// AddFont registers a single font as a family of its own. It is used for
// every style.
func (c *Core) AddFont(sf *font.ScalableFont) (glyphing.FontID, error) {
	c.mx.Lock()
	defer c.mx.Unlock()
	if c.closed {
		return 0, errClosed
	}
	return c.addLocked(sf), nil
}

func (c *Core) add(fam *family) (glyphing.FontID, error) {
	c.mx.Lock()
	defer c.mx.Unlock()
	if c.closed {
		return 0, errClosed
	}
	if id, ok := c.byName[fam.name]; ok {
		return id, nil
	}
	id := glyphing.FontID(len(c.families))
	c.families = append(c.families, fam)
	c.byName[fam.name] = id
	tracer().Debugf("font family %s has ID %d", fam.name, id)
	return id, nil
}

// Name returns the name of a font family.
func (c *Core) Name(id glyphing.FontID) string {
	c.mx.Lock()
	defer c.mx.Unlock()
	if fam := c.family(id); fam != nil {
		return fam.name
	}
	return ""
}

// Fallbacks returns the fonts known to substitute glyphs for base, in the
// order they have been found.
func (c *Core) Fallbacks(base glyphing.FontID) []glyphing.FontID {
	return c.fallbacks.List(base)
}

func (c *Core) family(id glyphing.FontID) *family {
	if c.closed || int(id) >= len(c.families) {
		return nil
	}
	return c.families[id]
}

// font returns the font of family id for a style, loading it if necessary.
// If the style variant is unavailable, the family's regular font is
// returned. The caller must hold the lock.
func (c *Core) font(id glyphing.FontID, style text.Style) *font.ScalableFont {
	fam := c.family(id)
	if fam == nil {
		return nil
	}
	if sf, ok := fam.fonts[style.Index()]; ok {
		return sf
	}
	if fam.load != nil {
		sf, err := fam.load(style)
		if err == nil && sf != nil {
			fam.fonts[style.Index()] = sf
			return sf
		}
		tracer().Infof("font %s has no variant %s", fam.name, style)
	}
	if style == text.DefaultTextFont {
		return nil
	}
	sf := c.font(id, text.DefaultTextFont)
	if sf != nil {
		fam.fonts[style.Index()] = sf
	}
	return sf
}

// --- FontService -----------------------------------------------------------

// HasGlyph is part of interface glyphing.FontService.
func (c *Core) HasGlyph(f glyphing.FontID, style text.Style, r rune) bool {
	c.mx.Lock()
	defer c.mx.Unlock()
	sf := c.font(f, style)
	return sf != nil && sf.HasGlyph(r)
}

// Metrics is part of interface glyphing.FontService.
func (c *Core) Metrics(f glyphing.FontID, style text.Style, size text.Size, dpi text.DPI) glyphing.Metrics {
	c.mx.Lock()
	defer c.mx.Unlock()
	tc := c.typecase(f, style, size, dpi)
	if tc == nil {
		return glyphing.Metrics{}
	}
	return glyphing.MetricsFrom(tc.Metrics())
}

// Shape is part of interface glyphing.FontService.
func (c *Core) Shape(f glyphing.FontID, style text.Style, size text.Size, dpi text.DPI,
	runes []rune) []glyphing.Glyph {
	//
	c.mx.Lock()
	tc := c.typecase(f, style, size, dpi)
	params := c.params
	c.mx.Unlock()
	if tc == nil {
		return nil
	}
	glyphs, err := c.shaper.Shape(tc, runes, params)
	if err != nil {
		tracer().Errorf("cannot shape text with font %d: %v", f, err)
		return nil
	}
	return glyphs
}

// SetParams sets the shaping parameters used for all subsequent calls to
// Shape, e.g. the language of the text or ligature features.
func (c *Core) SetParams(params glyphing.Params) {
	c.mx.Lock()
	defer c.mx.Unlock()
	c.params = params
}

// typecase returns a cached typecase. The caller must hold the lock.
func (c *Core) typecase(id glyphing.FontID, style text.Style, size text.Size, dpi text.DPI) *font.TypeCase {
	sf := c.font(id, style)
	if sf == nil {
		return nil
	}
	key := fmt.Sprintf("%d:%s", id, fontregistry.NormalizeFontname(c.families[id].name, style))
	c.registry.StoreFont(key, sf)
	tc, err := c.registry.TypeCase(key, size, dpi.X)
	if err != nil {
		tracer().Errorf("no typecase for font %d at %s: %v", id, size, err)
	}
	return tc
}

// ResolveForChar is part of interface glyphing.FontService.
//
// It returns base if base covers r. Otherwise it searches the fallbacks
// known for base, the packaged fonts and finally the system's fonts.
// Characters which no font covers are remembered and not searched for
// again.
func (c *Core) ResolveForChar(base glyphing.FontID, style text.Style, r rune) (glyphing.FontID, bool) {
	c.mx.Lock()
	defer c.mx.Unlock()
	if c.closed {
		return base, false
	}
	covers := func(id glyphing.FontID) bool {
		sf := c.font(id, style)
		return sf != nil && sf.HasGlyph(r)
	}
	if covers(base) {
		return base, true
	}
	if id, ok := c.fallbacks.Find(base, covers); ok {
		return id, true
	}
	if _, ok := c.missing[r]; ok {
		return base, false
	}
	for id := range c.families { // fonts already loaded for other bases
		if fid := glyphing.FontID(id); fid != base && covers(fid) {
			c.fallbacks.Add(base, fid)
			return fid, true
		}
	}
	if sf := c.searchSystem(r); sf != nil {
		fid := c.addLocked(sf)
		c.fallbacks.Add(base, fid)
		return fid, true
	}
	tracer().Infof("no font covers %#U", r)
	c.missing[r] = struct{}{}
	return base, false
}

// searchSystem looks for a system font covering r. It keeps the lock while
// searching, so concurrent clients wait for the result instead of starting
// the same search. The caller must hold the lock.
func (c *Core) searchSystem(r rune) *font.ScalableFont {
	for _, packaged := range []*font.ScalableFont{
		font.PackagedFont(true, false, false),
		font.PackagedFont(false, false, false),
	} {
		if packaged.HasGlyph(r) {
			return packaged
		}
	}
	known := make(map[string]bool, len(c.families))
	for _, fam := range c.families {
		if fam.path != "" {
			known[fam.path] = true
		}
	}
	sf, err := c.system(c.ctx, r, func(path string) bool { return known[path] })
	if err != nil || sf == nil || !sf.HasGlyph(r) {
		return nil
	}
	return sf
}

// addLocked is AddFont for callers holding the lock.
func (c *Core) addLocked(sf *font.ScalableFont) glyphing.FontID {
	name := sf.Fontname
	if sf.Filepath != "" && sf.Filepath != "internal" {
		name = sf.Filepath
	}
	if id, ok := c.byName[name]; ok {
		return id
	}
	id := glyphing.FontID(len(c.families))
	c.families = append(c.families, &family{
		name:  name,
		path:  sf.Filepath,
		fonts: map[int]*font.ScalableFont{text.DefaultTextFont.Index(): sf},
	})
	c.byName[name] = id
	tracer().Infof("font %s registered as fallback, ID %d", sf.Fontname, id)
	return id
}

var _ glyphing.FontService = (*Core)(nil)
