package monospace

import (
	"testing"
	"unicode"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tyed/engine/glyphing"
	"github.com/npillmayer/tyed/engine/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService() *Service {
	return New(
		Face{Name: "latin", Covers: func(r rune) bool { return r < 0x2000 }},
		Face{Name: "han", Covers: func(r rune) bool { return unicode.Is(unicode.Han, r) }},
	)
}

func TestMetrics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyed.glyphs")
	defer teardown()
	//
	ms := testService()
	m := ms.Metrics(0, text.DefaultTextFont, text.TextSize, text.DefaultDPI)
	assert.Equal(t, 9, m.Ascender)
	assert.Equal(t, -2, m.Descender)
	assert.Equal(t, 11, m.Height())
	assert.Equal(t, 6, m.AdvanceWidth)
	assert.Equal(t, -1, m.UnderlinePos)
	assert.Equal(t, 1, m.UnderlineThickness)
	tiny := ms.Metrics(0, text.DefaultTextFont, 1, text.UniformDPI(72))
	assert.Greater(t, tiny.Ascender, tiny.Descender)
}

func TestResolve(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyed.glyphs")
	defer teardown()
	//
	ms := testService()
	f, ok := ms.ResolveForChar(0, text.DefaultTextFont, 'a')
	assert.True(t, ok)
	assert.Equal(t, glyphing.FontID(0), f)
	f, ok = ms.ResolveForChar(0, text.DefaultTextFont, '中')
	assert.True(t, ok)
	assert.Equal(t, glyphing.FontID(1), f)
	_, ok = ms.ResolveForChar(0, text.DefaultTextFont, '\U0001F600')
	assert.False(t, ok)
	assert.True(t, ms.HasGlyph(1, text.DefaultTextFont, '中'))
	assert.False(t, ms.HasGlyph(1, text.DefaultTextFont, 'a'))
	assert.False(t, ms.HasGlyph(7, text.DefaultTextFont, 'a'))
	id := ms.Add(Face{Name: "all"})
	assert.Equal(t, glyphing.FontID(2), id)
	f, ok = ms.ResolveForChar(0, text.DefaultTextFont, '\U0001F600')
	assert.True(t, ok)
	assert.Equal(t, id, f)
}

func TestShapeGraphemes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyed.glyphs")
	defer teardown()
	//
	ms := testService()
	glyphs := ms.Shape(0, text.DefaultTextFont, text.TextSize, text.DefaultDPI, []rune("e\u0301x中"))
	require.Len(t, glyphs, 3)
	assert.Equal(t, []int{0, 2, 3}, []int{glyphs[0].Cluster, glyphs[1].Cluster, glyphs[2].Cluster})
	assert.Equal(t, uint32('e'), glyphs[0].GID)
	assert.Equal(t, 6, glyphs[0].Advance.X)
	assert.Equal(t, 12, glyphs[2].Advance.X, "wide characters take two cells")
	assert.Equal(t, 24, glyphing.Width(glyphs))
	assert.Empty(t, ms.Shape(0, text.DefaultTextFont, text.TextSize, text.DefaultDPI, nil))
}
