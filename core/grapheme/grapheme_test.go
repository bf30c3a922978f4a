package grapheme

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

const (
	combining = "e\u0301"                               // e + combining acute, 3 bytes
	thumbs    = "\U0001F44D\U0001F3FD"                  // thumbs up + skin tone, 8 bytes
	family    = "\U0001F468\u200D\U0001F469\u200D\U0001F467" // ZWJ sequence, 18 bytes
	flag      = "\U0001F1E9\U0001F1EA"                  // regional indicators D E, 8 bytes
	mixed     = "a" + combining + thumbs + "b"          // 4 graphemes
)

func TestCount(t *testing.T) {
	assert.Equal(t, 0, Count(""))
	assert.Equal(t, 5, Count("hello"))
	assert.Equal(t, 1, Count(combining))
	assert.Equal(t, 1, Count(family))
	assert.Equal(t, 1, Count(flag))
	assert.Equal(t, 4, Count(mixed))
	assert.Equal(t, 2, Count("a\r\n"))
}

func TestIsBoundary(t *testing.T) {
	assert.True(t, IsBoundary(mixed, 0))
	assert.True(t, IsBoundary(mixed, 1))
	assert.False(t, IsBoundary(mixed, 2), "inside combining sequence")
	assert.True(t, IsBoundary(mixed, 4))
	assert.False(t, IsBoundary(mixed, 8), "between emoji and modifier")
	assert.True(t, IsBoundary(mixed, 12))
	assert.True(t, IsBoundary(mixed, len(mixed)))
	assert.True(t, IsBoundary(mixed, -3))
	assert.True(t, IsBoundary(mixed, 100))
	assert.False(t, IsBoundary("\r\n", 1), "CR LF is a single cluster")
}

func TestNextPrevBoundary(t *testing.T) {
	assert.Equal(t, 1, NextBoundary(mixed, 0))
	assert.Equal(t, 4, NextBoundary(mixed, 1))
	assert.Equal(t, 4, NextBoundary(mixed, 2))
	assert.Equal(t, 12, NextBoundary(mixed, 5))
	assert.Equal(t, len(mixed), NextBoundary(mixed, 12))
	assert.Equal(t, len(mixed), NextBoundary(mixed, len(mixed)))
	assert.Equal(t, 0, NextBoundary(mixed, -1))
	//
	assert.Equal(t, 0, PrevBoundary(mixed, 0))
	assert.Equal(t, 0, PrevBoundary(mixed, 1))
	assert.Equal(t, 1, PrevBoundary(mixed, 3))
	assert.Equal(t, 1, PrevBoundary(mixed, 4))
	assert.Equal(t, 4, PrevBoundary(mixed, 12))
	assert.Equal(t, len(mixed), PrevBoundary(mixed, 99))
}

func TestSnapRoundsForward(t *testing.T) {
	assert.Equal(t, 4, SnapBoundary(mixed, 2))
	assert.Equal(t, 12, SnapBoundary(mixed, 7))
	assert.Equal(t, 12, SnapBoundary(mixed, 12))
	assert.Equal(t, 0, SnapBoundary(mixed, -5))
	assert.Equal(t, len(mixed), SnapBoundary(mixed, 50))
	assert.Equal(t, len(family), SnapBoundary(family, 5))
}

func TestIndexOffsetTranslation(t *testing.T) {
	assert.Equal(t, 0, OffsetOfIndex(mixed, 0))
	assert.Equal(t, 1, OffsetOfIndex(mixed, 1))
	assert.Equal(t, 4, OffsetOfIndex(mixed, 2))
	assert.Equal(t, 12, OffsetOfIndex(mixed, 3))
	assert.Equal(t, len(mixed), OffsetOfIndex(mixed, 4))
	assert.Equal(t, len(mixed), OffsetOfIndex(mixed, 17))
	//
	assert.Equal(t, 0, IndexOfOffset(mixed, 0))
	assert.Equal(t, 2, IndexOfOffset(mixed, 2), "mid-cluster rounds forward")
	assert.Equal(t, 2, IndexOfOffset(mixed, 4))
	assert.Equal(t, 3, IndexOfOffset(mixed, 9))
	assert.Equal(t, 4, IndexOfOffset(mixed, len(mixed)))
}

func TestCharOffsets(t *testing.T) {
	// mixed in chars: a e ◌́ 👍 🏽 b
	assert.Equal(t, 6, CharOffset(mixed, len(mixed)))
	assert.Equal(t, 4, ByteOffset(mixed, 3))
	assert.Equal(t, len(mixed), ByteOffset(mixed, 10))
	assert.True(t, IsCharBoundary(mixed, 1))
	assert.False(t, IsCharBoundary(mixed, 2))
	assert.False(t, IsCharBoundary(mixed, 4))
	assert.Equal(t, 3, NextCharBoundary(mixed, 1))
	assert.Equal(t, 5, NextCharBoundary(mixed, 3))
	assert.Equal(t, 3, PrevCharBoundary(mixed, 5))
	assert.Equal(t, 3, SnapChar(mixed, 2))
	assert.Equal(t, 5, SnapChar(mixed, 4))
	assert.Equal(t, 6, SnapChar(mixed, 9))
}

func TestCursorPositions(t *testing.T) {
	assert.Equal(t, []int{0, 1, 3, 5}, CursorPositions(mixed))
	assert.Equal(t, []int{0}, CursorPositions(family))
	assert.Empty(t, CursorPositions(""))
}

func TestColumns(t *testing.T) {
	line := "ab\tc"
	for cidx, col := range []int{0, 1, 2, 4, 5, 6, 7} {
		assert.Equal(t, col, Column(line, cidx, 4), "column of char %d", cidx)
	}
	assert.Equal(t, 1, Column(combining+"x", 2, 8), "combining marks share a column")
	assert.Equal(t, 8, Column("\t", 1, 8))
	//
	cidx, start := ColumnToChar(line, 3, 4)
	assert.Equal(t, 2, cidx, "column 3 lies inside the tab")
	assert.Equal(t, 2, start)
	cidx, start = ColumnToChar(line, 4, 4)
	assert.Equal(t, 3, cidx)
	assert.Equal(t, 4, start)
	cidx, start = ColumnToChar(line, 10, 4)
	assert.Equal(t, 4, cidx)
	assert.Equal(t, 5, start)
}

func TestExpandTabs(t *testing.T) {
	assert.Equal(t, "ab  c", ExpandTabs("ab\tc", 4))
	assert.Equal(t, combining+"   x", ExpandTabs(combining+"\tx", 4), "combining marks share a column")
	assert.Equal(t, "no tabs", ExpandTabs("no tabs", 4))
	line := thumbs + "\t" + flag + "\tz"
	expanded := ExpandTabs(line, 4)
	assert.Equal(t, thumbs+"   "+flag+"   z", expanded)
	assert.Equal(t, 8, Column(line, utf8.RuneCountInString(line)-1, 4))
	assert.Equal(t, 9, Count(expanded), "z is the ninth grapheme")
}
