package line

import (
	"image"
	"testing"
	"unicode"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tyed/engine/glyphing"
	"github.com/npillmayer/tyed/engine/glyphing/monospace"
	"github.com/npillmayer/tyed/engine/text"
	"github.com/npillmayer/tyed/engine/text/styled"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// At 8pt and 96 dpi the monospace service has cells 6 pixels wide, an
// ascender of 9 and a descender of -2.
func testShaper() Shaper {
	ms := monospace.New(
		monospace.Face{Name: "latin", Covers: func(r rune) bool { return r < 0x2000 }},
		monospace.Face{Name: "han", Covers: func(r rune) bool { return unicode.Is(unicode.Han, r) }},
	)
	return Shaper{Fonts: Fonts{Fixed: 0, Variable: 0}, Service: ms, DPI: text.DefaultDPI}
}

// ligatures shapes "fi" into a single glyph.
type ligatures struct {
	*monospace.Service
}

func (lig ligatures) Shape(f glyphing.FontID, style text.Style, size text.Size, dpi text.DPI,
	runes []rune) []glyphing.Glyph {
	//
	glyphs := lig.Service.Shape(f, style, size, dpi, runes)
	var out []glyphing.Glyph
	for i := 0; i < len(glyphs); i++ {
		g := glyphs[i]
		if g.GID == 'f' && i+1 < len(glyphs) && glyphs[i+1].GID == 'i' {
			g.GID = 0xfb01
			g.Advance.X += glyphs[i+1].Advance.X
			i++
		}
		out = append(out, g)
	}
	return out
}

func span(s string) text.Span {
	return styled.TextFormat().Span(s)
}

func collect(l *ShapedTextLine, origin image.Point, specs ...CursorSpec) ([]*GlyphPlacement, []*CursorRect, []Item) {
	var glyphs []*GlyphPlacement
	var cursors []*CursorRect
	var items []Item
	l.Draw(origin, DrawContext{}, specs, func(item Item) {
		items = append(items, item)
		switch it := item.(type) {
		case *GlyphPlacement:
			glyphs = append(glyphs, it)
		case *CursorRect:
			cursors = append(cursors, it)
		}
	})
	return glyphs, cursors, items
}

func TestLineMetrics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyed.frame")
	defer teardown()
	//
	sh := testShaper()
	l := sh.FromSpans(text.Line{span("ab"), span("中c")})
	require.Len(t, l.Spans, 3)
	assert.Equal(t, 9, l.Ascender)
	assert.Equal(t, -2, l.Descender)
	assert.Equal(t, 11, l.Height())
	assert.Equal(t, 6+6+12+6, l.Width)
	assert.Equal(t, 4, l.Graphemes())
	//
	big := styled.TextFormat()
	big.Size = text.SizeFromPoints(16)
	l = sh.FromSpans(text.Line{span("a"), big.Span("b")})
	assert.Equal(t, 17, l.Ascender)
	assert.Equal(t, -4, l.Descender)
	assert.Equal(t, l.Ascender-l.Descender, l.Height())
}

func TestEmptyLineHasHeight(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyed.frame")
	defer teardown()
	//
	sh := testShaper()
	for _, l := range []*ShapedTextLine{
		sh.FromSpans(nil),
		sh.FromSpan(span("")),
		sh.FromStyled(styled.NewLine("", styled.TextFormat())),
	} {
		require.Len(t, l.Spans, 1)
		assert.Equal(t, " ", l.Spans[0].Text)
		assert.Equal(t, 11, l.Height())
		assert.Equal(t, 6, l.Width)
	}
}

// flat reports metrics without any height.
type flat struct {
	*monospace.Service
}

func (flat) Metrics(glyphing.FontID, text.Style, text.Size, text.DPI) glyphing.Metrics {
	return glyphing.Metrics{AdvanceWidth: 6}
}

func TestBrokenMetricsPanic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyed.frame")
	defer teardown()
	//
	sh := testShaper()
	sh.Service = flat{sh.Service.(*monospace.Service)}
	assert.Panics(t, func() {
		sh.FromSpan(span("x"))
	})
	sh = testShaper()
	sh.DPI = text.DPI{}
	assert.NotPanics(t, func() {
		// a collapsed font keeps an ascender of 1
		sh.FromSpan(span("x"))
	})
}

func TestFromStyledAndGutter(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyed.frame")
	defer teardown()
	//
	sh := testShaper()
	sl := styled.NewLine("abc", styled.TextFormat())
	l := sh.FromStyled(sl)
	require.Len(t, l.Spans, 1)
	assert.Equal(t, "abc", l.Spans[0].Text)
	g := sh.Gutter(8, 3)
	assert.Equal(t, "  9", g.Spans[0].Text)
	assert.Equal(t, text.GutterColor, g.Spans[0].Color)
	assert.Equal(t, text.GutterTextSize, g.Spans[0].Size)
}

func TestDrawGlyphPositions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyed.frame")
	defer teardown()
	//
	l := testShaper().FromSpan(span("a中b"))
	glyphs, cursors, _ := collect(l, image.Pt(10, 100))
	assert.Empty(t, cursors)
	require.Len(t, glyphs, 3)
	assert.Equal(t, image.Pt(10, 109), glyphs[0].Pos)
	assert.Equal(t, image.Pt(16, 109), glyphs[1].Pos)
	assert.Equal(t, image.Pt(28, 109), glyphs[2].Pos)
	assert.Equal(t, uint32('中'), glyphs[1].Glyph.GID)
}

func TestDrawCursorStyles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyed.frame")
	defer teardown()
	//
	l := testShaper().FromSpan(span("a中b"))
	red := text.Color{R: 255, A: 255}
	_, cursors, items := collect(l, image.Pt(10, 100), CursorSpec{Style: Beam, Grapheme: 1, Color: red})
	require.Len(t, cursors, 1)
	assert.Equal(t, CursorRect{X: 16, Y: 100, W: 2, H: 11, Color: red, Style: Beam}, *cursors[0])
	require.Len(t, items, 4)
	_, ok := items[1].(*CursorRect)
	assert.True(t, ok, "cursor is drawn before its glyph")
	//
	_, cursors, _ = collect(l, image.Pt(10, 100), CursorSpec{Style: Block, Grapheme: 1})
	require.Len(t, cursors, 1)
	assert.Equal(t, image.Rect(16, 100, 28, 111), cursors[0].Rect())
	//
	_, cursors, _ = collect(l, image.Pt(10, 100), CursorSpec{Style: Underline, Grapheme: 2})
	require.Len(t, cursors, 1)
	assert.Equal(t, 28, cursors[0].X)
	assert.Equal(t, 6, cursors[0].W)
	assert.Equal(t, 110, cursors[0].Y, "underline sits below the baseline")
	assert.Equal(t, 1, cursors[0].H)
}

func TestDrawContextAlignsLines(t *testing.T) {
	l := testShaper().FromSpan(span("x"))
	var pos image.Point
	var cur *CursorRect
	l.Draw(image.Pt(0, 0), DrawContext{Ascender: 20, Height: 30}, []CursorSpec{{Grapheme: 0}}, func(item Item) {
		switch it := item.(type) {
		case *GlyphPlacement:
			pos = it.Pos
		case *CursorRect:
			cur = it
		}
	})
	assert.Equal(t, 20, pos.Y)
	require.NotNil(t, cur)
	assert.Equal(t, 30, cur.H)
}

func TestCursorAtEndOfLine(t *testing.T) {
	l := testShaper().FromSpan(span("ab"))
	x, w := l.CursorX(2)
	assert.Equal(t, 12, x)
	assert.Equal(t, 6, w)
	x, w = l.CursorX(1)
	assert.Equal(t, 6, x)
	assert.Equal(t, 6, w)
}

func TestLigatureCursorIsInterpolated(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyed.frame")
	defer teardown()
	//
	sh := testShaper()
	sh.Service = ligatures{sh.Service.(*monospace.Service)}
	l := sh.FromSpan(span("xfiy"))
	require.Len(t, l.Spans, 1)
	require.Len(t, l.Spans[0].Glyphs, 3)
	glyphs, cursors, items := collect(l, image.Point{}, CursorSpec{Style: Block, Grapheme: 2})
	require.Len(t, cursors, 1)
	assert.Len(t, glyphs, 3)
	assert.Equal(t, 6+6, cursors[0].X, "halfway into the ligature")
	assert.Equal(t, 6, cursors[0].W)
	_, ok := items[2].(*CursorRect)
	assert.True(t, ok, "cursor follows the ligature glyph")
	x, w := l.CursorX(1)
	assert.Equal(t, 6, x)
	assert.Equal(t, 6, w)
}

func TestDrawSeveralCursors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyed.frame")
	defer teardown()
	//
	l := testShaper().FromSpan(span("a中b"))
	blue := text.Color{B: 255, A: 255}
	specs := []CursorSpec{
		{Style: Block, Grapheme: 5},
		{Style: Beam, Grapheme: 2, Color: blue},
		{Style: Block, Grapheme: 0},
		{Style: Block, Grapheme: -1},
	}
	_, cursors, items := collect(l, image.Pt(10, 100), specs...)
	require.Len(t, cursors, 3, "negative graphemes are ignored")
	assert.Equal(t, image.Rect(10, 100, 16, 111), cursors[0].Rect())
	assert.Equal(t, 28, cursors[1].X)
	assert.Equal(t, blue, cursors[1].Color)
	assert.Equal(t, Beam, cursors[1].Style)
	assert.Equal(t, 34, cursors[2].X, "placed at the end of the line")
	require.Len(t, items, 6)
	for i, want := range []bool{true, false, false, true, false, true} {
		_, isCursor := items[i].(*CursorRect)
		assert.Equal(t, want, isCursor, "item %d", i)
	}
	assert.Equal(t, Block, specs[0].Style, "caller's slice is left unsorted")
	assert.Equal(t, 5, specs[0].Grapheme)
}

func TestDrawCursorsInsideLigature(t *testing.T) {
	sh := testShaper()
	sh.Service = ligatures{sh.Service.(*monospace.Service)}
	l := sh.FromSpan(span("xfiy"))
	_, cursors, items := collect(l, image.Point{}, CursorSpec{Grapheme: 1}, CursorSpec{Grapheme: 2})
	require.Len(t, cursors, 2)
	assert.Equal(t, 6, cursors[0].X)
	assert.Equal(t, 12, cursors[1].X)
	_, ok := items[2].(*CursorRect)
	assert.True(t, ok, "both cursors follow the ligature glyph")
	_, ok = items[3].(*CursorRect)
	assert.True(t, ok)
}
