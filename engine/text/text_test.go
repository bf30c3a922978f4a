package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/image/math/fixed"
)

func TestSizeConversion(t *testing.T) {
	sz := SizeFromPoints(8)
	assert.Equal(t, Size(32), sz)
	assert.Equal(t, float32(8), sz.Points())
	assert.Equal(t, int64(8*64), sz.Fixed64())
	x, y := sz.PixelsPerEm(DPI{X: 72, Y: 144})
	assert.Equal(t, float32(8), x)
	assert.Equal(t, float32(16), y)
	assert.Equal(t, fixed.I(8), sz.PPEM(UniformDPI(72)))
	assert.Equal(t, Size(29), SizeFromPoints(7.3))
	assert.Equal(t, Size(0), SizeFromPoints(-1))
}

func TestStyleIndexUnique(t *testing.T) {
	seen := map[int]Style{}
	for _, w := range []Weight{Medium, Light, Bold} {
		for _, s := range []Slant{Roman, Italic, Oblique} {
			st := Style{Weight: w, Slant: s}
			_, dup := seen[st.Index()]
			assert.False(t, dup, "duplicate index for %s", st)
			seen[st.Index()] = st
		}
	}
	assert.Equal(t, 0, DefaultTextFont.Index())
}

func TestParseStyleNames(t *testing.T) {
	w, ok := ParseWeight("Bold")
	assert.True(t, ok)
	assert.Equal(t, Bold, w)
	_, ok = ParseWeight("heavy")
	assert.False(t, ok)
	s, ok := ParseSlant(" italic ")
	assert.True(t, ok)
	assert.Equal(t, Italic, s)
}

func TestColor(t *testing.T) {
	r, g, b, a := TextColor.RGBA()
	assert.Equal(t, uint32(0x6060), r)
	assert.Equal(t, r, g)
	assert.Equal(t, r, b)
	assert.Equal(t, uint32(0xffff), a)
	assert.Equal(t, "#c4c4c4ff", GutterColor.String())
}
