/*
Package line assembles shaped text spans into lines of text and walks them
for drawing.

A ShapedTextLine is built from the styled spans of a line of text. Every span
is run through the shaping pipeline, possibly falling apart into several
shaped spans if font fallback takes place. The line's metrics aggregate the
metrics of its spans.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package line

import (
	"fmt"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/tyed/engine/glyphing"
	"github.com/npillmayer/tyed/engine/glyphing/shaping"
	"github.com/npillmayer/tyed/engine/text"
	"github.com/npillmayer/tyed/engine/text/styled"
)

// tracer traces with key 'tyed.frame'.
func tracer() tracing.Trace {
	return tracing.Select("tyed.frame")
}

// Fonts are the base fonts for shaping, one per pitch.
type Fonts struct {
	Fixed    glyphing.FontID
	Variable glyphing.FontID
}

// Shaper bundles everything needed to shape lines of text.
type Shaper struct {
	Fonts   Fonts
	Service glyphing.FontService
	DPI     text.DPI
}

// ShapedTextLine is a line of shaped text spans.
type ShapedTextLine struct {
	Spans     []*shaping.ShapedTextSpan
	Ascender  int // maximum ascender of all spans
	Descender int // minimum descender of all spans
	Width     int // sum of all advances, never negative
}

// Height returns the height of the line.
func (l *ShapedTextLine) Height() int {
	return l.Ascender - l.Descender
}

// Graphemes returns the number of grapheme clusters of the line.
func (l *ShapedTextLine) Graphemes() int {
	n := 0
	for _, s := range l.Spans {
		n += s.Graphemes()
	}
	return n
}

func (l *ShapedTextLine) String() string {
	var b strings.Builder
	for _, s := range l.Spans {
		b.WriteString(s.Text)
	}
	return fmt.Sprintf("line[%q asc=%d desc=%d w=%d]", b.String(), l.Ascender, l.Descender, l.Width)
}

// FromSpans shapes a sequence of styled spans into a line.
//
// A line without any text is shaped as a single space, formatted like the
// first span, so that it still takes up the height of a line.
//
// FromSpans panics if the resulting line does not have a positive height,
// as this hints at broken font metrics.
func (sh Shaper) FromSpans(spans text.Line) *ShapedTextLine {
	l := &ShapedTextLine{}
	for _, span := range spans {
		it := shaping.Shape(span, sh.Fonts.Fixed, sh.Fonts.Variable, sh.Service, sh.DPI)
		l.Spans = append(l.Spans, it.All()...)
	}
	if len(l.Spans) == 0 {
		placeholder := styled.TextFormat().Span(" ")
		if len(spans) > 0 {
			placeholder = spans[0]
			placeholder.Text = " "
		}
		tracer().Debugf("empty line shaped as a space")
		it := shaping.Shape(placeholder, sh.Fonts.Fixed, sh.Fonts.Variable, sh.Service, sh.DPI)
		l.Spans = it.All()
	}
	l.measure()
	return l
}

// FromSpan shapes a single styled span into a line.
func (sh Shaper) FromSpan(span text.Span) *ShapedTextLine {
	return sh.FromSpans(text.Line{span})
}

// FromStyled shapes a formatted line of text.
func (sh Shaper) FromStyled(sl *styled.Line) *ShapedTextLine {
	return sh.FromSpans(sl.Spans())
}

// Gutter shapes a line number for the gutter, right-aligned to a width of
// digits characters. Line numbers are zero-based, the gutter displays them
// starting at 1.
func (sh Shaper) Gutter(n int, digits int) *ShapedTextLine {
	num := fmt.Sprintf("%*d", digits, n+1)
	return sh.FromSpan(styled.GutterFormat().Span(num))
}

func (l *ShapedTextLine) measure() {
	l.Ascender, l.Descender, l.Width = 0, 0, 0
	w := 0
	for _, s := range l.Spans {
		if s.Metrics.Ascender > l.Ascender {
			l.Ascender = s.Metrics.Ascender
		}
		if s.Metrics.Descender < l.Descender {
			l.Descender = s.Metrics.Descender
		}
		for _, g := range s.Glyphs {
			w += g.Advance.X
		}
	}
	if w > 0 {
		l.Width = w
	}
	if l.Ascender <= l.Descender {
		tracer().Errorf("line metrics broken: ascender %d, descender %d", l.Ascender, l.Descender)
		panic(fmt.Sprintf("line has non-positive height: ascender=%d, descender=%d",
			l.Ascender, l.Descender))
	}
}
