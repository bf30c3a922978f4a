package buffer

import (
	"github.com/npillmayer/tyed/core/grapheme"
)

// Cursor motions work on graphemes and respect a cursor's past-end flag.
// Horizontal motions stay within a line. Vertical motions aim for the column
// the cursor had after its last horizontal motion.

// MoveLeft moves cursor c up to n graphemes to the left.
func (b *Buffer) MoveLeft(c *Cursor, n int) {
	rec := b.own(c)
	line := b.lineText(rec.lineNum)
	off := rec.lineOff
	for i := 0; i < n && off > 0; i++ {
		off = grapheme.PrevCharBoundary(line, off)
	}
	b.moveInLine(rec, off)
}

// MoveRight moves cursor c up to n graphemes to the right.
func (b *Buffer) MoveRight(c *Cursor, n int) {
	rec := b.own(c)
	line := b.lineText(rec.lineNum)
	off := rec.lineOff
	for i := 0; i < n; i++ {
		next := grapheme.NextCharBoundary(line, off)
		if next == off {
			break
		}
		off = next
	}
	b.moveInLine(rec, b.clampToLine(line, off, rec.pastEnd))
}

// MoveToLineStart moves cursor c to the start of its line.
func (b *Buffer) MoveToLineStart(c *Cursor) {
	b.moveInLine(b.own(c), 0)
}

// MoveToLineEnd moves cursor c to the end of its line, or onto the line's
// last grapheme if c may not rest past the end.
func (b *Buffer) MoveToLineEnd(c *Cursor) {
	rec := b.own(c)
	line := b.lineText(rec.lineNum)
	b.moveInLine(rec, b.clampToLine(line, len(line), rec.pastEnd))
}

// MoveUp moves cursor c up n lines. On the first line, the cursor moves to
// the start of text.
func (b *Buffer) MoveUp(c *Cursor, n int) {
	rec := b.own(c)
	if rec.lineNum == 0 {
		b.moveInLine(rec, 0)
		return
	}
	ln := rec.lineNum - n
	if ln < 0 {
		ln = 0
	}
	b.moveVertically(rec, ln)
}

// MoveDown moves cursor c down n lines. Moving beyond the last line puts the
// cursor at the end of text.
func (b *Buffer) MoveDown(c *Cursor, n int) {
	rec := b.own(c)
	ln := rec.lineNum + n
	if ln >= b.LenLines() {
		b.place(rec, b.LenChars(), true)
		b.cursors.sort()
		return
	}
	b.moveVertically(rec, ln)
}

// MoveToLine moves cursor c to line n, keeping its column if possible. Line
// numbers beyond the last line select the last line.
func (b *Buffer) MoveToLine(c *Cursor, n int) {
	b.moveVertically(b.own(c), b.clampLine(n))
}

// MoveToLastLine moves cursor c to the last line.
func (b *Buffer) MoveToLastLine(c *Cursor) {
	b.MoveToLine(c, b.LenLines())
}

// MoveToLineColumn moves cursor c to display column col of line n. If col
// falls into a tab, the cursor rests on the tab.
func (b *Buffer) MoveToLineColumn(c *Cursor, n int, col int) {
	rec := b.own(c)
	rec.lineNum = b.clampLine(n)
	rec.globalX = col
	b.syncFromColumn(rec)
	rec.globalX = rec.lineGidx
	b.cursors.sort()
}

func (b *Buffer) clampLine(n int) int {
	if n < 0 {
		return 0
	}
	if last := b.LenLines() - 1; n > last {
		return last
	}
	return n
}

// moveInLine sets the line offset of rec and makes its column sticky.
func (b *Buffer) moveInLine(rec *record, off int) {
	line := b.lineText(rec.lineNum)
	rec.lineOff = off
	rec.charIdx = b.data.LineToChar(rec.lineNum) + off
	rec.lineGidx = grapheme.Column(line, off, b.tabsize)
	rec.globalX = rec.lineGidx
	b.cursors.sort()
}

// moveVertically moves rec to line ln, aiming for its sticky column.
func (b *Buffer) moveVertically(rec *record, ln int) {
	rec.lineNum = ln
	b.syncFromColumn(rec)
	b.cursors.sort()
}

// syncFromColumn positions rec on its line at the grapheme covering its
// sticky column, without changing the sticky column.
func (b *Buffer) syncFromColumn(rec *record) {
	line := b.lineText(rec.lineNum)
	off, _ := grapheme.ColumnToChar(line, rec.globalX, b.tabsize)
	off = b.clampToLine(line, off, rec.pastEnd)
	rec.lineOff = off
	rec.charIdx = b.data.LineToChar(rec.lineNum) + off
	rec.lineGidx = grapheme.Column(line, off, b.tabsize)
}
