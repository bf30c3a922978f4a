package buffer

import (
	"fmt"
	"strconv"

	"github.com/npillmayer/tyed/core/grapheme"
	"github.com/npillmayer/tyed/engine/text/styled"
)

// FormatLine returns line n formatted for display: line breaks trimmed,
// tabs expanded to spaces. An empty line is formatted as a single space.
func (b *Buffer) FormatLine(n int) *styled.Line {
	return styled.NewLine(expandTabs(b.lineText(n), b.tabsize), b.textFmt)
}

// FormatLinesFrom calls yield with every formatted line, starting at the line
// of pos, until yield returns false.
func (b *Buffer) FormatLinesFrom(pos BufferPos, yield func(n int, line *styled.Line) bool) {
	if !b.isCurrent(pos) {
		pos = b.PositionAt(pos.CharIdx)
	}
	for n := pos.LineNum; n < b.LenLines(); n++ {
		if !yield(n, b.FormatLine(n)) {
			return
		}
	}
}

// GutterLine returns the line number for line n as displayed in the gutter,
// starting at 1 and right-aligned to the width of the highest line number.
func (b *Buffer) GutterLine(n int) *styled.Line {
	digits := len(strconv.Itoa(b.LenLines()))
	return styled.NewLine(fmt.Sprintf("%*d", digits, n+1), b.gutter)
}

// expandTabs replaces tabs by spaces up to the next tab stop, counting
// columns the way PositionAt does.
func expandTabs(line string, tabsize int) string {
	if line == "" {
		return " "
	}
	return grapheme.ExpandTabs(line, tabsize)
}
