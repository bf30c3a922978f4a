package grapheme

import (
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Each calls f for every grapheme cluster of text, in order. off is the byte
// offset of the cluster, chars its number of code-points. Iteration stops
// early if f returns false.
func Each(text string, f func(cluster string, off int, chars int) bool) {
	state := -1
	off := 0
	for len(text) > 0 {
		cluster, rest, _, newState := uniseg.StepString(text, state)
		if !f(cluster, off, utf8.RuneCountInString(cluster)) {
			return
		}
		off += len(cluster)
		text, state = rest, newState
	}
}

// Count returns the number of grapheme clusters in text.
func Count(text string) int {
	if text == "" {
		return 0
	}
	return uniseg.GraphemeClusterCount(text)
}

// IsBoundary reports whether byte offset off lies on a grapheme cluster
// boundary of text. Start and end of text are always boundaries, as are
// offsets outside of text.
func IsBoundary(text string, off int) bool {
	if off <= 0 || off >= len(text) {
		return true
	}
	found := false
	Each(text, func(cluster string, at int, _ int) bool {
		if at >= off {
			found = at == off
			return false
		}
		return true
	})
	return found
}

// NextBoundary returns the first cluster boundary strictly after byte offset
// off. Offsets before the start of text map to 0, offsets at or after the
// end of text map to len(text).
func NextBoundary(text string, off int) int {
	if off < 0 {
		return 0
	}
	if off >= len(text) {
		return len(text)
	}
	next := len(text)
	Each(text, func(cluster string, at int, _ int) bool {
		if end := at + len(cluster); end > off {
			next = end
			return false
		}
		return true
	})
	return next
}

// PrevBoundary returns the last cluster boundary strictly before byte offset
// off. Offsets at or before the start of text map to 0, offsets beyond the
// end of text map to len(text).
func PrevBoundary(text string, off int) int {
	if off <= 0 {
		return 0
	}
	if off > len(text) {
		return len(text)
	}
	prev := 0
	Each(text, func(cluster string, at int, _ int) bool {
		if at >= off {
			return false
		}
		prev = at
		return true
	})
	return prev
}

// SnapBoundary returns off if it is a boundary, otherwise the next boundary
// after off. A mid-cluster offset is never truncated towards the start of
// the cluster.
func SnapBoundary(text string, off int) int {
	if IsBoundary(text, off) {
		if off < 0 {
			return 0
		}
		if off > len(text) {
			return len(text)
		}
		return off
	}
	return NextBoundary(text, off)
}

// OffsetOfIndex returns the byte offset of the grapheme with index gidx.
// Indices beyond the last grapheme map to len(text).
func OffsetOfIndex(text string, gidx int) int {
	if gidx <= 0 {
		return 0
	}
	off, i := len(text), 0
	Each(text, func(cluster string, at int, _ int) bool {
		if i == gidx {
			off = at
			return false
		}
		i++
		return true
	})
	return off
}

// IndexOfOffset returns the index of the grapheme starting at byte offset
// off. A mid-cluster offset is rounded forward to the next grapheme.
func IndexOfOffset(text string, off int) int {
	if off <= 0 {
		return 0
	}
	off = SnapBoundary(text, off)
	i := 0
	Each(text, func(cluster string, at int, _ int) bool {
		if at >= off {
			return false
		}
		i++
		return true
	})
	return i
}

// --- Character offsets -----------------------------------------------------

// ByteOffset converts a character offset into a byte offset of text.
func ByteOffset(text string, cidx int) int {
	if cidx <= 0 {
		return 0
	}
	n := 0
	for i := range text {
		if n == cidx {
			return i
		}
		n++
	}
	return len(text)
}

// CharOffset converts a byte offset into a character offset of text.
func CharOffset(text string, off int) int {
	if off <= 0 {
		return 0
	}
	if off > len(text) {
		off = len(text)
	}
	return utf8.RuneCountInString(text[:off])
}

// IsCharBoundary is IsBoundary for character offsets.
func IsCharBoundary(text string, cidx int) bool {
	return IsBoundary(text, ByteOffset(text, cidx))
}

// NextCharBoundary is NextBoundary for character offsets.
func NextCharBoundary(text string, cidx int) int {
	if cidx < 0 {
		return 0
	}
	return CharOffset(text, NextBoundary(text, ByteOffset(text, cidx)))
}

// PrevCharBoundary is PrevBoundary for character offsets.
func PrevCharBoundary(text string, cidx int) int {
	return CharOffset(text, PrevBoundary(text, ByteOffset(text, cidx)))
}

// SnapChar is SnapBoundary for character offsets. cidx is clamped to the
// number of characters in text.
func SnapChar(text string, cidx int) int {
	if cidx <= 0 {
		return 0
	}
	return CharOffset(text, SnapBoundary(text, ByteOffset(text, cidx)))
}

// CursorPositions returns, for each grapheme of text, the number of
// characters preceding it.
func CursorPositions(text string) []int {
	positions := make([]int, 0, len(text))
	chars := 0
	Each(text, func(_ string, _ int, n int) bool {
		positions = append(positions, chars)
		chars += n
		return true
	})
	return positions
}

// --- Columns ---------------------------------------------------------------

// Column returns the display column of character offset cidx within a line
// of text. Every grapheme occupies one column, except a tab, which advances
// to the next multiple of tabsize. Offsets beyond the text count as
// additional columns.
func Column(text string, cidx int, tabsize int) int {
	if tabsize < 1 {
		tabsize = 1
	}
	col, chars := 0, 0
	Each(text, func(cluster string, _ int, n int) bool {
		if chars >= cidx {
			return false
		}
		col = advanceColumn(cluster, col, tabsize)
		chars += n
		return true
	})
	if chars < cidx {
		col += cidx - chars
	}
	return col
}

// ColumnToChar is the inverse of Column. It returns the character offset of
// the grapheme covering display column col, together with the column at
// which this grapheme starts. Columns beyond the end of text map to the
// end of text.
func ColumnToChar(text string, col int, tabsize int) (cidx int, start int) {
	if tabsize < 1 {
		tabsize = 1
	}
	Each(text, func(cluster string, _ int, n int) bool {
		next := advanceColumn(cluster, start, tabsize)
		if next > col {
			return false
		}
		start = next
		cidx += n
		return true
	})
	return cidx, start
}

// ExpandTabs replaces every tab by spaces up to the next tab stop. Columns
// are counted in graphemes, as for Column, so the grapheme at column c of
// the result is the one Column reports at c.
func ExpandTabs(text string, tabsize int) string {
	if !strings.ContainsRune(text, '\t') {
		return text
	}
	if tabsize < 1 {
		tabsize = 1
	}
	var sb strings.Builder
	col := 0
	Each(text, func(cluster string, _ int, _ int) bool {
		next := advanceColumn(cluster, col, tabsize)
		if cluster == "\t" {
			sb.WriteString(strings.Repeat(" ", next-col))
		} else {
			sb.WriteString(cluster)
		}
		col = next
		return true
	})
	return sb.String()
}

func advanceColumn(cluster string, col int, tabsize int) int {
	if cluster == "\t" {
		return (col/tabsize)*tabsize + tabsize
	}
	return col + 1
}
