package buffer

import (
	"unicode/utf8"

	"github.com/npillmayer/tyed/core/grapheme"
)

// InsertChar inserts a character at cursor c. See InsertText.
func (b *Buffer) InsertChar(c *Cursor, r rune) {
	b.InsertText(c, string(r))
}

// InsertText inserts s at cursor c. Afterwards c rests behind the inserted
// text. Other cursors behind the insertion point move along with the text,
// cursors at or before the insertion point stay where they are.
//
// InsertText panics if c does not belong to b.
func (b *Buffer) InsertText(c *Cursor, s string) {
	rec := b.own(c)
	if s == "" {
		return
	}
	at := rec.charIdx
	data, err := b.data.Insert(at, s)
	if err != nil {
		tracer().Errorf("insert at %d failed: %v", at, err)
		panic("buffer: cursor out of sync with text")
	}
	b.data = data
	b.version++
	k := utf8.RuneCountInString(s)
	ln := rec.lineNum
	b.cursors.purge()
	b.cursors.live(func(_ int, r *record) {
		if r == rec || r.charIdx > at {
			b.place(r, r.charIdx+k, false)
		} else if r.lineNum == ln {
			b.place(r, r.charIdx, false) // columns may change with combining text
		}
	})
	b.cursors.sort()
	tracer().Debugf("inserted %d chars at %d", k, at)
}

// DeleteLeft deletes up to n graphemes before cursor c.
func (b *Buffer) DeleteLeft(c *Cursor, n int) {
	rec := b.own(c)
	from := rec.charIdx
	for i := 0; i < n && from > 0; i++ {
		from = b.prevGrapheme(from)
	}
	b.remove(from, rec.charIdx)
}

// DeleteRight deletes up to n graphemes after cursor c.
func (b *Buffer) DeleteRight(c *Cursor, n int) {
	rec := b.own(c)
	to := rec.charIdx
	for i := 0; i < n && to < b.LenChars(); i++ {
		to = b.nextGrapheme(to)
	}
	b.remove(rec.charIdx, to)
}

// DeleteToLineStart deletes the text between the start of the line and
// cursor c.
func (b *Buffer) DeleteToLineStart(c *Cursor) {
	rec := b.own(c)
	b.remove(b.data.LineToChar(rec.lineNum), rec.charIdx)
}

// DeleteToLineEnd deletes the text between cursor c and the end of its
// line. The line break is kept.
func (b *Buffer) DeleteToLineEnd(c *Cursor) {
	rec := b.own(c)
	line := b.lineText(rec.lineNum)
	end := b.data.LineToChar(rec.lineNum) + utf8.RuneCountInString(line)
	b.remove(rec.charIdx, end)
}

// DeleteLines deletes n lines, starting with the line of cursor c.
func (b *Buffer) DeleteLines(c *Cursor, n int) {
	rec := b.own(c)
	if n <= 0 {
		return
	}
	start := b.data.LineToChar(rec.lineNum)
	end := b.data.LineToChar(rec.lineNum + n) // clamped to end of text
	b.remove(start, end)
}

// remove deletes the characters in [from, to). Cursors inside the range
// collapse to its start, cursors behind it move back.
func (b *Buffer) remove(from, to int) {
	if from >= to {
		return
	}
	data, err := b.data.Remove(from, to)
	if err != nil {
		tracer().Errorf("remove [%d,%d) failed: %v", from, to, err)
		panic("buffer: cursor out of sync with text")
	}
	b.data = data
	b.version++
	b.cursors.purge()
	b.cursors.live(func(_ int, r *record) {
		switch {
		case r.charIdx < from:
			if b.data.CharToLine(r.charIdx) == b.data.CharToLine(from) {
				b.place(r, r.charIdx, true)
			}
		case r.charIdx <= to:
			b.place(r, from, true)
		default:
			b.place(r, r.charIdx-(to-from), true)
		}
	})
	b.cursors.sort()
	tracer().Debugf("removed [%d,%d)", from, to)
}

// GraphemeSafe reports whether every live cursor rests on a grapheme
// boundary. It is intended for consistency checks.
func (b *Buffer) GraphemeSafe() bool {
	ok := true
	b.cursors.live(func(slot int, r *record) {
		ln := b.data.CharToLine(r.charIdx)
		start := b.data.LineToChar(ln)
		if ln != r.lineNum || r.charIdx-start != r.lineOff ||
			!grapheme.IsCharBoundary(b.data.Line(ln), r.lineOff) {
			tracer().Errorf("cursor in slot %d is off: %d @ %d:%d", slot, r.charIdx, r.lineNum, r.lineOff)
			ok = false
		}
	})
	return ok
}
