/*
Package glyphing defines the interface between the editor's layout code and
font/shaping services.

Layout code never touches fonts directly. It refers to fonts by FontID and
asks a FontService for glyph coverage, metrics, fallback fonts and shaped
glyphs. Subpackages provide services backed by OpenType fonts and HarfBuzz
(fontcore, harfbuzz) and by a fixed character cell (monospace).

All geometry returned by a FontService is in whole pixels for a given text
size and DPI context.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package glyphing

import (
	"fmt"
	"image"

	"github.com/npillmayer/tyed/core/font"
	"github.com/npillmayer/tyed/engine/text"
	"golang.org/x/text/language"
)

// Direction is the direction to typeset text in.
type Direction int

// Direction to typeset text in. AutoDirection derives the direction from
// the script of the text.
const (
	AutoDirection Direction = iota
	LeftToRight
	RightToLeft
	TopToBottom
	BottomToTop
)

// FontID identifies a font family known to a FontService.
type FontID uint32

// Glyph is a positioned glyph, result of shaping.
type Glyph struct {
	GID     uint32      // glyph index within font
	Cluster int         // index of the first character of the cluster, relative to the shaped run
	Advance image.Point // advance after glyph has been set, in pixels
	Offset  image.Point // offset of the glyph's origin, in pixels
}

func (g Glyph) String() string {
	return fmt.Sprintf("(GID=%d, cluster=%d, advance=%v)", g.GID, g.Cluster, g.Advance)
}

// Metrics are font metrics at a given size and resolution, in pixels.
// Ascender is positive, Descender and UnderlinePos are negative for values
// below the baseline.
type Metrics struct {
	Ascender           int
	Descender          int
	AdvanceWidth       int
	UnderlinePos       int
	UnderlineThickness int
}

// Height returns ascender minus descender.
func (m Metrics) Height() int {
	return m.Ascender - m.Descender
}

// MetricsFrom converts typecase metrics.
func MetricsFrom(sm font.ScaledMetrics) Metrics {
	return Metrics{
		Ascender:           sm.Ascender,
		Descender:          sm.Descender,
		AdvanceWidth:       sm.AdvanceWidth,
		UnderlinePos:       sm.UnderlinePos,
		UnderlineThickness: sm.UnderlineThickness,
	}
}

// FontService is the collaborator which owns fonts and knows how to shape
// text with them.
//
// ResolveForChar returns a font able to render r in the given style, to be
// used in place of base. If base covers r it may be returned as is. If no
// font can be found, the second return value is false.
//
// Shape returns glyphs for runes. Glyph clusters are indices into runes.
type FontService interface {
	ResolveForChar(base FontID, style text.Style, r rune) (FontID, bool)
	HasGlyph(f FontID, style text.Style, r rune) bool
	Metrics(f FontID, style text.Style, size text.Size, dpi text.DPI) Metrics
	Shape(f FontID, style text.Style, size text.Size, dpi text.DPI, runes []rune) []Glyph
}

// Params collects shaping parameters. Zero values let the shaper guess
// script and direction from the text.
type Params struct {
	Direction Direction       // writing direction
	Script    language.Script // 4-letter ISO 15924 script identifier
	Language  language.Tag    // BCP 47 language tag
	Features  []FeatureRange  // OpenType features to apply
}

// FeatureRange tells a shaper to turn a certain OpenType feature on or off for a
// run of code-points.
type FeatureRange struct {
	Feature    string // 4-letter feature tag, e.g. "liga"
	Arg        int    // optional argument for this feature
	On         bool   // turn it on or off?
	Start, End int    // position of code-points to apply feature for; End < 0 is the end of the run
}

// Ligatures returns the feature switches for standard and contextual
// ligatures over a whole run.
func Ligatures(on bool) []FeatureRange {
	return []FeatureRange{
		{Feature: "liga", On: on, End: -1},
		{Feature: "clig", On: on, End: -1},
	}
}

// Width sums up the horizontal advances of glyphs. The result is never
// negative.
func Width(glyphs []Glyph) int {
	w := 0
	for _, g := range glyphs {
		w += g.Advance.X
	}
	if w < 0 {
		return 0
	}
	return w
}
