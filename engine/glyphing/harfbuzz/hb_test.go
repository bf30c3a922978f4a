package harfbuzz_test

import (
	"fmt"
	"testing"

	hb "github.com/benoitkugler/textlayout/harfbuzz"
	hblang "github.com/benoitkugler/textlayout/language"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tyed/core/font"
	"github.com/npillmayer/tyed/engine/glyphing"
	"github.com/npillmayer/tyed/engine/glyphing/harfbuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/language"
)

func TestHBScript(t *testing.T) {
	id := "Plrd"
	script := language.MustParseScript(id)
	hbScript := harfbuzz.Script4HB(script)
	assert.Equal(t, "706c7264", fmt.Sprintf("%x", uint32(hbScript)))
}

func TestHBLang(t *testing.T) {
	langT, err := language.Parse("de_DE")
	require.NoError(t, err)
	assert.Equal(t, "de-de", string(harfbuzz.Lang4HB(langT)))
}

func TestHBDir(t *testing.T) {
	assert.Equal(t, hb.TopToBottom, harfbuzz.Direction4HB(glyphing.TopToBottom))
	assert.Equal(t, hb.LeftToRight, harfbuzz.Direction4HB(glyphing.Direction(17)))
}

func TestHBFeature(t *testing.T) {
	f := harfbuzz.FeatureRange4HB(glyphing.FeatureRange{Feature: "liga", On: true, End: 5})
	assert.Equal(t, uint32(1), f.Value)
	assert.Equal(t, 5, f.End)
	off := harfbuzz.FeatureRange4HB(glyphing.Ligatures(false)[0])
	assert.Equal(t, uint32(0), off.Value)
	assert.Equal(t, hb.FeatureGlobalEnd, off.End)
	assert.Equal(t, uint32(0x6c696761), uint32(f.Tag))
	assert.Equal(t, uint32(0x6b657220), uint32(harfbuzz.Feature4HB("ker")))
}

func TestHBShape(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyed.glyphs")
	defer teardown()
	//
	tc := loadGoFont(t)
	sh := harfbuzz.NewShaper()
	glyphs, err := sh.Shape(tc, []rune("Hello"), glyphing.Params{})
	require.NoError(t, err)
	require.Len(t, glyphs, 5)
	for i, g := range glyphs {
		assert.Equal(t, i, g.Cluster)
		assert.Greater(t, g.Advance.X, 0)
		assert.Equal(t, 0, g.Advance.Y)
	}
	// advances agree with the font's own metrics, up to rounding
	var buf sfnt.Buffer
	sf := tc.ScalableFontParent().SFNT
	gid, _ := sf.GlyphIndex(&buf, 'H')
	assert.Equal(t, uint32(gid), glyphs[0].GID)
	adv, err := sf.GlyphAdvance(&buf, gid, fixed.I(12), xfont.HintingNone)
	require.NoError(t, err)
	assert.InDelta(t, adv.Round(), glyphs[0].Advance.X, 1)
}

func TestHBShapeCombiningMark(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyed.glyphs")
	defer teardown()
	//
	tc := loadGoFont(t)
	glyphs, err := harfbuzz.NewShaper().Shape(tc, []rune("xe\u0301"), glyphing.Params{})
	require.NoError(t, err)
	require.NotEmpty(t, glyphs)
	assert.Equal(t, 0, glyphs[0].Cluster)
	for _, g := range glyphs[1:] {
		assert.Equal(t, 1, g.Cluster, "mark is merged into its base cluster")
	}
}

func TestHBScriptAndDirection(t *testing.T) {
	assert.Equal(t, hblang.Latin, harfbuzz.ScriptOf([]rune("1. Abc")))
	assert.Equal(t, hblang.Hebrew, harfbuzz.ScriptOf([]rune("(\u05e9\u05dc)")))
	assert.Equal(t, hblang.Common, harfbuzz.ScriptOf([]rune("12 + 3")))
	assert.Equal(t, glyphing.RightToLeft, harfbuzz.DirectionOf(hblang.Hebrew))
	assert.Equal(t, glyphing.RightToLeft, harfbuzz.DirectionOf(hblang.Arabic))
	assert.Equal(t, glyphing.LeftToRight, harfbuzz.DirectionOf(hblang.Latin))
	assert.Equal(t, glyphing.LeftToRight, harfbuzz.DirectionOf(hblang.Common))
}

func TestHBShapeRightToLeftInLogicalOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyed.glyphs")
	defer teardown()
	//
	tc := loadGoFont(t)
	sh := harfbuzz.NewShaper()
	hebrew := []rune("\u05e9\u05dc\u05d5\u05dd")
	glyphs, err := sh.Shape(tc, hebrew, glyphing.Params{})
	require.NoError(t, err)
	require.Len(t, glyphs, 4)
	for i, g := range glyphs {
		assert.Equal(t, i, g.Cluster)
	}
	latin := []rune("abc")
	glyphs, err = sh.Shape(tc, latin, glyphing.Params{Direction: glyphing.RightToLeft})
	require.NoError(t, err)
	require.Len(t, glyphs, 3)
	for i, g := range glyphs {
		assert.Equal(t, i, g.Cluster, "explicit direction is honored and reordered")
	}
}

func TestHBShapeWithoutLigatures(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyed.glyphs")
	defer teardown()
	//
	tc := loadGoFont(t)
	params := glyphing.Params{Features: glyphing.Ligatures(false)}
	glyphs, err := harfbuzz.NewShaper().Shape(tc, []rune("office"), params)
	require.NoError(t, err)
	assert.Len(t, glyphs, 6)
}

func TestHBShapeEmpty(t *testing.T) {
	glyphs, err := harfbuzz.NewShaper().Shape(loadGoFont(t), nil, glyphing.Params{})
	assert.NoError(t, err)
	assert.Empty(t, glyphs)
}

// ---------------------------------------------------------------------------

func loadGoFont(t testing.TB) *font.TypeCase {
	typecase, err := font.FallbackFont().PrepareCase(12.0, 72)
	if err != nil {
		t.Fatal(err)
	}
	return typecase
}

// ---------------------------------------------------------------------------

func BenchmarkHBShape(b *testing.B) {
	typecase := loadGoFont(b)
	sh := harfbuzz.NewShaper()
	for i := 0; i < b.N; i++ {
		for _, line := range corpus {
			glyphs, err := sh.Shape(typecase, line, glyphing.Params{})
			if err != nil || glyphs == nil {
				b.Fatal("expected shaping output to be non-nil")
			}
		}
	}
}

var corpus = [][]rune{
	[]rune(`Im deutschen Grundgesetz ist der soziale Gedanke grundlegend verankert und sogar vor Änderungen geschützt.`),
	[]rune(`Soziale Gerechtigkeit ist nicht gleichbedeutend mit vollständiger Gleichheit.`),
	[]rune(`func (sh *Shaper) Shape(tc *font.TypeCase, runes []rune) ([]glyphing.Glyph, error) {`),
	[]rune("\tif err != nil {\t// tabs and „quotes“"),
}
