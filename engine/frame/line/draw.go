package line

import (
	"image"
	"sort"

	"github.com/npillmayer/tyed/engine/glyphing"
	"github.com/npillmayer/tyed/engine/glyphing/shaping"
	"github.com/npillmayer/tyed/engine/text"
)

// CursorStyle is the visual shape of a text cursor.
type CursorStyle uint8

// Cursor styles
const (
	Beam CursorStyle = iota
	Block
	Underline
)

// BeamWidth is the width of a beam cursor in pixels.
const BeamWidth = 2

func (cs CursorStyle) String() string {
	switch cs {
	case Block:
		return "block"
	case Underline:
		return "underline"
	}
	return "beam"
}

// CursorSpec asks Draw to place a cursor in front of a grapheme.
type CursorSpec struct {
	Style    CursorStyle
	Grapheme int // index of the grapheme within the line
	Color    text.Color
}

// DrawContext describes the line box a line is drawn into. Lines of
// different fonts may be aligned by drawing them with the same context.
// Zero values are replaced by the line's own metrics.
type DrawContext struct {
	Ascender int // distance from the top of the line box to the baseline
	Height   int // height of the line box
}

// Item is an element yielded by Draw, either a *GlyphPlacement or a
// *CursorRect.
type Item interface {
	isItem()
}

// GlyphPlacement is a glyph positioned on the baseline.
type GlyphPlacement struct {
	Span  *shaping.ShapedTextSpan
	Glyph glyphing.Glyph
	Pos   image.Point // position of the glyph's origin
}

// CursorRect is the geometry of a cursor.
type CursorRect struct {
	X, Y, W, H int
	Color      text.Color
	Style      CursorStyle
}

// Rect returns the cursor geometry as a rectangle.
func (c CursorRect) Rect() image.Rectangle {
	return image.Rect(c.X, c.Y, c.X+c.W, c.Y+c.H)
}

func (*GlyphPlacement) isItem() {}
func (*CursorRect) isItem()     {}

// Draw walks the glyphs of the line, left to right, and calls visit for
// each of them. origin is the top left corner of the line box.
//
// visit is called with the geometry of every cursor as well, at the cluster
// containing the cursor's grapheme. cursors are expected in order of their
// graphemes; an unordered slice is sorted first. Cursors with a negative
// grapheme index are ignored. A cluster with a glyph count which is a
// multiple of its grapheme count is split evenly, and every cursor is
// reported before the glyphs of its grapheme. For other clusters, e.g.
// ligatures, all glyphs are reported first and cursor positions are
// interpolated across the cluster's width. Cursors after the last grapheme
// are placed at the end of the line.
func (l *ShapedTextLine) Draw(origin image.Point, ctx DrawContext, cursors []CursorSpec, visit func(Item)) {
	if ctx.Ascender == 0 {
		ctx.Ascender = l.Ascender
	}
	if ctx.Height == 0 {
		ctx.Height = l.Height()
	}
	byGrapheme := func(i, j int) bool { return cursors[i].Grapheme < cursors[j].Grapheme }
	if !sort.SliceIsSorted(cursors, byGrapheme) {
		cursors = append([]CursorSpec(nil), cursors...)
		sort.SliceStable(cursors, byGrapheme)
	}
	baseline := origin.Y + ctx.Ascender
	rect := func(cursor CursorSpec, span *shaping.ShapedTextSpan, x, w int) *CursorRect {
		c := &CursorRect{X: x, Y: origin.Y, W: w, H: ctx.Height, Color: cursor.Color, Style: cursor.Style}
		switch cursor.Style {
		case Beam:
			c.W = BeamWidth
		case Underline:
			c.Y = baseline - span.Metrics.UnderlinePos
			c.H = span.Metrics.UnderlineThickness
		}
		return c
	}
	x := origin.X
	emit := func(span *shaping.ShapedTextSpan, glyphs []glyphing.Glyph) {
		for _, g := range glyphs {
			visit(&GlyphPlacement{
				Span:  span,
				Glyph: g,
				Pos:   image.Pt(x+g.Offset.X, baseline+g.Offset.Y),
			})
			x += g.Advance.X
		}
	}
	ci := 0
	for ci < len(cursors) && cursors[ci].Grapheme < 0 {
		ci++
	}
	// pending reports whether the next cursor sits in front of grapheme end.
	pending := func(end int) bool {
		return ci < len(cursors) && cursors[ci].Grapheme < end
	}
	gidx := 0
	var last *shaping.ShapedTextSpan
	for _, span := range l.Spans {
		last = span
		for _, cl := range span.Clusters() {
			end := gidx + cl.Graphemes
			if cl.Graphemes == 0 || !pending(end) {
				emit(span, cl.Glyphs)
				gidx = end
				continue
			}
			if n := len(cl.Glyphs); n%cl.Graphemes == 0 {
				gpg := n / cl.Graphemes
				for k := 0; k < cl.Graphemes; k++ {
					glyphs := cl.Glyphs[k*gpg : (k+1)*gpg]
					for pending(gidx + k + 1) {
						visit(rect(cursors[ci], span, x, glyphing.Width(glyphs)))
						ci++
					}
					emit(span, glyphs)
				}
			} else {
				start := x
				emit(span, cl.Glyphs)
				w := cl.Width()
				for pending(end) {
					diff := cursors[ci].Grapheme - gidx
					visit(rect(cursors[ci], span, start+w*diff/cl.Graphemes, w/cl.Graphemes))
					ci++
				}
			}
			gidx = end
		}
	}
	if last == nil {
		return
	}
	for ; ci < len(cursors); ci++ {
		visit(rect(cursors[ci], last, x, last.Metrics.AdvanceWidth))
	}
}

// CursorX returns the horizontal offset and the width of a cursor in front
// of grapheme gidx, relative to the start of the line. Cursors after the
// last grapheme are placed at the end of the line.
func (l *ShapedTextLine) CursorX(gidx int) (x, w int) {
	spec := []CursorSpec{{Style: Block, Grapheme: gidx}}
	l.Draw(image.Point{}, DrawContext{}, spec, func(item Item) {
		if c, ok := item.(*CursorRect); ok {
			x, w = c.X, c.W
		}
	})
	return
}
