package styled

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tyed/engine/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleRun(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyed.text")
	defer teardown()
	//
	l := NewLine("hello world", TextFormat())
	assert.Equal(t, 11, l.Len())
	spans := l.Spans()
	require.Len(t, spans, 1)
	assert.Equal(t, "hello world", spans[0].Text)
	assert.Equal(t, text.TextSize, spans[0].Size)
	assert.Equal(t, text.TextColor, spans[0].Color)
	assert.Equal(t, text.Fixed, spans[0].Pitch)
}

func TestFormatRange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyed.text")
	defer teardown()
	//
	l := NewLine("f\u00fcnf vier", TextFormat())
	bold := TextFormat()
	bold.Style.Weight = text.Bold
	require.NoError(t, l.Format(bold, 0, 4))
	spans := l.Spans()
	require.Len(t, spans, 2)
	assert.Equal(t, "f\u00fcnf", spans[0].Text)
	assert.Equal(t, text.Bold, spans[0].Style.Weight)
	assert.Equal(t, " vier", spans[1].Text)
	assert.Equal(t, text.Medium, spans[1].Style.Weight)
	assert.Equal(t, "f\u00fcnf vier", l.String())
}

func TestIllegalRange(t *testing.T) {
	l := NewLine("abc", TextFormat())
	assert.Error(t, l.Format(TextFormat(), 2, 1))
	assert.Error(t, l.Format(TextFormat(), 0, 4))
	assert.Error(t, l.Format(TextFormat(), -1, 2))
}

func TestFormatEquality(t *testing.T) {
	red := text.Color{R: 255, A: 255}
	f, g := TextFormat(), TextFormat()
	assert.True(t, f.Equals(g))
	g.Underline = &red
	assert.False(t, f.Equals(g))
	f.Underline = &text.Color{R: 255, A: 255}
	assert.True(t, f.Equals(g))
	assert.False(t, f.Equals(GutterFormat()))
	assert.Contains(t, g.String(), "underline")
	span := g.Span("x")
	require.NotNil(t, span.Underline)
	assert.Equal(t, red, *span.Underline)
}
