/*
Package font is for typeface and font handling.

We will stick to the following nomenclature:

* A "typeface" is a family of fonts. An example is "Go Mono".

* A "scalable font" is a font, i.e. a variant of a typeface with a
certain weight and slant. An example is "Go Mono Bold".

* A "typecase" is a scaled font, i.e. a font at a certain size and
resolution. Editor text is set from typecases.

Please note that Go (Golang) does use the terms "font" and "face"
differently, more or less in an opposite manner.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package font

import (
	"fmt"
	"os"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// tracer traces with key 'tyed.fonts'.
func tracer() tracing.Trace {
	return tracing.Select("tyed.fonts")
}

// ScalableFont is a font loaded from an OpenType/TrueType file.
//
// sfnt.Font is safe for concurrent use, but its scratch buffer is not. A
// ScalableFont therefore guards its buffer with a mutex.
type ScalableFont struct {
	Fontname string
	Filepath string     // file path, or "internal" for packaged fonts
	Binary   []byte     // raw data
	SFNT     *sfnt.Font // the font's container
	mx       sync.Mutex
	buf      sfnt.Buffer
}

// Descriptor describes a font variant found on the system, without loading it.
type Descriptor struct {
	Family   string
	Path     string
	Variants []string
}

// LoadOpenTypeFont loads a font from a file.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	f, err := ParseOpenTypeFont(bytez)
	if err != nil {
		return nil, err
	}
	f.Filepath = fontfile
	return f, nil
}

// ParseOpenTypeFont parses the binary data of a font.
func ParseOpenTypeFont(fbytes []byte) (f *ScalableFont, err error) {
	f = &ScalableFont{Binary: fbytes}
	f.SFNT, err = sfnt.Parse(f.Binary)
	if err != nil {
		return nil, err
	}
	f.Fontname, _ = f.SFNT.Name(nil, sfnt.NameIDFull)
	return
}

// HasGlyph reports whether the font maps r to a glyph other than notdef.
func (sf *ScalableFont) HasGlyph(r rune) bool {
	sf.mx.Lock()
	defer sf.mx.Unlock()
	gid, err := sf.SFNT.GlyphIndex(&sf.buf, r)
	return err == nil && gid != 0
}

// UnitsPerEm returns the font's design grid size.
func (sf *ScalableFont) UnitsPerEm() int {
	return int(sf.SFNT.UnitsPerEm())
}

// PrepareCase creates a typecase for a given size in points and a
// resolution in dots per inch.
func (sf *ScalableFont) PrepareCase(ptsize float64, dpi float64) (*TypeCase, error) {
	if ptsize < 1.0 || ptsize > 500.0 {
		tracer().Errorf("font size must be 1pt < size < 500pt, is %g (set to 10pt)", ptsize)
		ptsize = 10.0
	}
	if dpi <= 0 {
		dpi = 72
	}
	tc := &TypeCase{
		scalableFontParent: sf,
		size:               ptsize,
		dpi:                dpi,
		ppem:               fixed.Int26_6(ptsize*dpi/72*64 + 0.5),
	}
	var err error
	tc.metrics, err = sf.scaledMetrics(tc.ppem)
	return tc, err
}

// --- Typecases -------------------------------------------------------------

// TypeCase is a font at a given size and resolution.
type TypeCase struct {
	scalableFontParent *ScalableFont
	size               float64
	dpi                float64
	ppem               fixed.Int26_6
	metrics            ScaledMetrics
	face               font.Face // created on demand
}

// ScaledMetrics are the metrics of a typecase in whole pixels. Ascender is
// positive above the baseline, Descender and UnderlinePos are negative
// below the baseline.
type ScaledMetrics struct {
	Ascender           int
	Descender          int
	AdvanceWidth       int // advance of the space glyph
	UnderlinePos       int
	UnderlineThickness int
}

// Height returns the line height for these metrics.
func (m ScaledMetrics) Height() int {
	return m.Ascender - m.Descender
}

// ScalableFontParent returns the font the typecase has been derived from.
func (tc *TypeCase) ScalableFontParent() *ScalableFont {
	return tc.scalableFontParent
}

// PtSize returns the size of the typecase in points.
func (tc *TypeCase) PtSize() float64 {
	return tc.size
}

// PPEM returns the pixels per em of the typecase.
func (tc *TypeCase) PPEM() fixed.Int26_6 {
	return tc.ppem
}

// Metrics returns the pixel metrics of the typecase.
func (tc *TypeCase) Metrics() ScaledMetrics {
	return tc.metrics
}

// Face returns a font.Face for rasterization.
func (tc *TypeCase) Face() (font.Face, error) {
	if tc.face != nil {
		return tc.face, nil
	}
	f, err := opentype.NewFace(tc.scalableFontParent.SFNT, &opentype.FaceOptions{
		Size:    tc.size,
		DPI:     tc.dpi,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	tc.face = f
	return f, nil
}

// Scale converts a value in font design units to whole pixels of this
// typecase, rounding to nearest.
func (tc *TypeCase) Scale(units int32) int {
	return scale(units, tc.ppem, tc.scalableFontParent.UnitsPerEm())
}

func scale(units int32, ppem fixed.Int26_6, upem int) int {
	if upem == 0 {
		return 0
	}
	v := int64(units) * int64(ppem) // 26.6 fixed point
	q := v / int64(upem)
	return int(fixed.Int26_6(q).Round())
}

func (sf *ScalableFont) scaledMetrics(ppem fixed.Int26_6) (ScaledMetrics, error) {
	sf.mx.Lock()
	defer sf.mx.Unlock()
	m, err := sf.SFNT.Metrics(&sf.buf, ppem, font.HintingNone)
	if err != nil {
		return ScaledMetrics{}, fmt.Errorf("font %s has no metrics: %w", sf.Fontname, err)
	}
	sm := ScaledMetrics{
		Ascender:  m.Ascent.Ceil(),
		Descender: -m.Descent.Ceil(),
	}
	if post := sf.SFNT.PostTable(); post != nil {
		upem := int(sf.SFNT.UnitsPerEm())
		sm.UnderlinePos = scale(int32(post.UnderlinePosition), ppem, upem)
		sm.UnderlineThickness = scale(int32(post.UnderlineThickness), ppem, upem)
	}
	if sm.UnderlineThickness < 1 {
		sm.UnderlineThickness = 1
	}
	if gid, err := sf.SFNT.GlyphIndex(&sf.buf, ' '); err == nil {
		if adv, err := sf.SFNT.GlyphAdvance(&sf.buf, gid, ppem, font.HintingNone); err == nil {
			sm.AdvanceWidth = adv.Round()
		}
	}
	return sm, nil
}

// --- Packaged fonts --------------------------------------------------------

// Packaged fonts are the Go fonts, compiled into the binary. They are always
// present and serve as a fallback if everything else fails.
const (
	PackagedSans = "Go"
	PackagedMono = "Go Mono"
)

type packagedKey struct {
	mono, bold, italic bool
}

var packagedBinaries = map[packagedKey][]byte{
	{false, false, false}: goregular.TTF,
	{false, true, false}:  gobold.TTF,
	{false, false, true}:  goitalic.TTF,
	{false, true, true}:   gobolditalic.TTF,
	{true, false, false}:  gomono.TTF,
	{true, true, false}:   gomonobold.TTF,
	{true, false, true}:   gomonoitalic.TTF,
	{true, true, true}:    gomonobolditalic.TTF,
}

var packagedFonts = struct {
	sync.Mutex
	fonts map[packagedKey]*ScalableFont
}{fonts: make(map[packagedKey]*ScalableFont)}

// PackagedFont returns one of the Go fonts.
func PackagedFont(mono, bold, italic bool) *ScalableFont {
	key := packagedKey{mono, bold, italic}
	packagedFonts.Lock()
	defer packagedFonts.Unlock()
	if f, ok := packagedFonts.fonts[key]; ok {
		return f
	}
	f, err := ParseOpenTypeFont(packagedBinaries[key])
	if err != nil {
		panic("cannot load packaged font") // this cannot happen
	}
	f.Filepath = "internal"
	packagedFonts.fonts[key] = f
	return f
}

// FallbackFont returns a font to be used if everything else fails. It is
// always present. Currently we use Go Sans.
func FallbackFont() *ScalableFont {
	return PackagedFont(false, false, false)
}
