/*
Package shaping turns styled spans of text into shaped spans.

A span is shaped with the font matching its pitch. Whenever a character is
not covered by the current font, the span is split and the font service is
asked for a fallback font. After the fallback run, shaping resumes with the
base font. Splitting never separates characters of a grapheme cluster.

Shaping is lazy: Shape returns an iterator which shapes one run per call to
Next.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package shaping

import (
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/tyed/core/grapheme"
	"github.com/npillmayer/tyed/engine/glyphing"
	"github.com/npillmayer/tyed/engine/text"
)

// tracer traces with key 'tyed.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("tyed.glyphs")
}

// ShapedTextSpan is the result of shaping a run of text with a single font.
type ShapedTextSpan struct {
	Text            string          // the run's text
	Font            glyphing.FontID // font used for the run
	Size            text.Size
	Style           text.Style
	Color           text.Color
	Underline       *text.Color
	CursorPositions []int            // number of characters before each grapheme
	Glyphs          []glyphing.Glyph // glyph clusters are character indices into Text
	Metrics         glyphing.Metrics
}

// Width returns the sum of the glyphs' advances, clamped at zero.
func (s *ShapedTextSpan) Width() int {
	return glyphing.Width(s.Glyphs)
}

// Graphemes returns the number of grapheme clusters of the span.
func (s *ShapedTextSpan) Graphemes() int {
	return len(s.CursorPositions)
}

// Cluster is a group of glyphs sharing a cluster index, together with the
// graphemes they represent.
type Cluster struct {
	Glyphs    []glyphing.Glyph
	Grapheme  int // index of the first grapheme within the span
	Graphemes int // number of graphemes covered
}

// Width returns the sum of the cluster's advances.
func (c Cluster) Width() int {
	w := 0
	for _, g := range c.Glyphs {
		w += g.Advance.X
	}
	return w
}

// Clusters groups the span's glyphs by cluster index. Each group is paired
// with the graphemes starting at or after its cluster index and before the
// next group's. The last group takes all remaining graphemes.
func (s *ShapedTextSpan) Clusters() []Cluster {
	if len(s.Glyphs) == 0 {
		return nil
	}
	var clusters []Cluster
	cpi := 0
	for start := 0; start < len(s.Glyphs); {
		end := start + 1
		for end < len(s.Glyphs) && s.Glyphs[end].Cluster == s.Glyphs[start].Cluster {
			end++
		}
		c := Cluster{Glyphs: s.Glyphs[start:end], Grapheme: cpi}
		if end == len(s.Glyphs) {
			c.Graphemes = len(s.CursorPositions) - cpi
		} else {
			next := s.Glyphs[end].Cluster
			for cpi < len(s.CursorPositions) && s.CursorPositions[cpi] < next {
				cpi++
				c.Graphemes++
			}
		}
		clusters = append(clusters, c)
		start = end
	}
	return clusters
}

// --- Iterator --------------------------------------------------------------

// Iterator shapes a span run by run.
type Iterator struct {
	span    text.Span
	base    glyphing.FontID
	service glyphing.FontService
	dpi     text.DPI
	runes   []rune
	pos     int
}

// Shape creates an iterator over the shaped runs of span. The base font is
// fixed or variable, depending on the span's pitch.
func Shape(span text.Span, fixed, variable glyphing.FontID, service glyphing.FontService,
	dpi text.DPI) *Iterator {
	//
	base := fixed
	if span.Pitch == text.Variable {
		base = variable
	}
	return &Iterator{
		span:    span,
		base:    base,
		service: service,
		dpi:     dpi,
		runes:   []rune(span.Text),
	}
}

// Next shapes the next run. It returns false after the last run.
func (it *Iterator) Next() (*ShapedTextSpan, bool) {
	if it.pos >= len(it.runes) {
		return nil, false
	}
	style := it.span.Style
	f := it.fontFor(it.runes[it.pos])
	end := it.pos + 1
	for end < len(it.runes) && it.service.HasGlyph(f, style, it.runes[end]) {
		end++
	}
	run := it.runes[it.pos:end]
	if end < len(it.runes) { // do not split a grapheme
		s := string(it.runes[it.pos:])
		end = it.pos + grapheme.SnapChar(s, len(run))
		run = it.runes[it.pos:end]
	}
	it.pos = end
	s := string(run)
	shaped := &ShapedTextSpan{
		Text:            s,
		Font:            f,
		Size:            it.span.Size,
		Style:           style,
		Color:           it.span.Color,
		Underline:       it.span.Underline,
		CursorPositions: grapheme.CursorPositions(s),
		Glyphs:          it.service.Shape(f, style, it.span.Size, it.dpi, run),
		Metrics:         it.service.Metrics(f, style, it.span.Size, it.dpi),
	}
	return shaped, true
}

// fontFor selects the font for a run starting with c.
func (it *Iterator) fontFor(c rune) glyphing.FontID {
	if it.service.HasGlyph(it.base, it.span.Style, c) {
		return it.base
	}
	if f, ok := it.service.ResolveForChar(it.base, it.span.Style, c); ok {
		return f
	}
	tracer().Infof("no font for %#U, will render notdef", c)
	return it.base
}

// All drains the iterator.
func (it *Iterator) All() []*ShapedTextSpan {
	var spans []*ShapedTextSpan
	for s, ok := it.Next(); ok; s, ok = it.Next() {
		spans = append(spans, s)
	}
	return spans
}
