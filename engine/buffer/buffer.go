package buffer

import (
	"io"
	"os"

	"github.com/npillmayer/tyed/core"
	"github.com/npillmayer/tyed/core/grapheme"
	"github.com/npillmayer/tyed/core/rope"
	"github.com/npillmayer/tyed/engine/text"
	"github.com/npillmayer/tyed/engine/text/styled"
)

// Buffer is a text document with cursors.
type Buffer struct {
	data    rope.Rope
	path    string
	tabsize int
	version uint64 // incremented by every edit
	cursors registry
	textFmt styled.Format
	gutter  styled.Format
}

// Option configures a buffer.
type Option func(*Buffer)

// WithTabSize sets the tab size used to compute display columns.
func WithTabSize(n int) Option {
	return func(b *Buffer) {
		if n > 0 {
			b.tabsize = n
		}
	}
}

// WithFormats sets the formats of text lines and of gutter lines.
func WithFormats(textFmt, gutterFmt styled.Format) Option {
	return func(b *Buffer) {
		b.textFmt, b.gutter = textFmt, gutterFmt
	}
}

// Empty creates a buffer without text and without cursors.
func Empty(opts ...Option) *Buffer {
	b := &Buffer{
		tabsize: text.DefaultTabSize,
		textFmt: styled.TextFormat(),
		gutter:  styled.GutterFormat(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// FromSource creates a buffer from the complete content of r, decoded as
// UTF-8. If r cannot be read, an error with code core.EIO is returned.
func FromSource(r io.Reader, opts ...Option) (*Buffer, error) {
	data, err := rope.FromReader(r)
	if err != nil {
		return nil, core.WrapError(err, core.EIO, "cannot read text source")
	}
	b := Empty(opts...)
	b.data = data
	tracer().Debugf("buffer with %d lines created", b.LenLines())
	return b, nil
}

// FromFile creates a buffer from a file. The buffer remembers the path for
// Reload. A missing file results in an error with code core.EMISSING.
func FromFile(path string, opts ...Option) (*Buffer, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	b := Empty(opts...)
	b.data = data
	b.path = path
	tracer().Infof("loaded %s, %d lines", path, b.LenLines())
	return b, nil
}

func readFile(path string) (rope.Rope, error) {
	f, err := os.Open(path)
	if err != nil {
		return rope.Rope{}, core.WrapIOError(err, path)
	}
	defer f.Close()
	data, err := rope.FromReader(f)
	if err != nil {
		return rope.Rope{}, core.WrapIOError(err, path)
	}
	return data, nil
}

// Reload reads the buffer's file again. Cursors keep their character
// positions, clamped to the new text.
func (b *Buffer) Reload() error {
	if b.path == "" {
		return core.Error(core.EINVALID, "buffer is not backed by a file")
	}
	data, err := readFile(b.path)
	if err != nil {
		return err
	}
	b.data = data
	b.version++
	b.cursors.purge()
	for _, slot := range b.cursors.order {
		rec := &b.cursors.slots[slot]
		b.place(rec, rec.charIdx, true)
	}
	b.cursors.sort()
	tracer().Infof("reloaded %s", b.path)
	return nil
}

// Path returns the path of the file the buffer has been loaded from, if any.
func (b *Buffer) Path() string {
	return b.path
}

// TabSize returns the tab size of the buffer.
func (b *Buffer) TabSize() int {
	return b.tabsize
}

// SetTabSize changes the tab size and updates the columns of all cursors.
func (b *Buffer) SetTabSize(n int) {
	if n < 1 || n == b.tabsize {
		return
	}
	b.tabsize = n
	b.cursors.purge()
	for _, slot := range b.cursors.order {
		rec := &b.cursors.slots[slot]
		rec.lineGidx = grapheme.Column(b.lineText(rec.lineNum), rec.lineOff, b.tabsize)
		rec.globalX = rec.lineGidx
	}
}

// LenLines returns the number of lines. A text ending in a line break has an
// empty last line.
func (b *Buffer) LenLines() int {
	return b.data.LenLines()
}

// LenChars returns the number of characters.
func (b *Buffer) LenChars() int {
	return b.data.LenChars()
}

// String returns the buffer's text.
func (b *Buffer) String() string {
	return b.data.String()
}

// Line returns line n without its line break.
func (b *Buffer) Line(n int) string {
	return b.lineText(n)
}

func (b *Buffer) lineText(n int) string {
	return rope.TrimLineBreaks(b.data.Line(n))
}

// --- Positions -------------------------------------------------------------

// BufferPos is a position within a buffer. It is valid only until the next
// edit of the buffer.
type BufferPos struct {
	CharIdx  int // character offset from the start of text
	LineNum  int // line number, starting at 0
	LineOff  int // character offset within the line
	LineGidx int // display column within the line
	version  uint64
}

// PositionAtLine returns the position at the start of line n. For n at or
// beyond the number of lines, the position at the end of text is returned.
func (b *Buffer) PositionAtLine(n int) BufferPos {
	if n < 0 {
		n = 0
	}
	if n >= b.LenLines() {
		return b.PositionAt(b.LenChars())
	}
	return BufferPos{
		CharIdx: b.data.LineToChar(n),
		LineNum: n,
		version: b.version,
	}
}

// PositionAt returns the position of character offset idx. An offset inside
// a grapheme cluster is moved to the end of the cluster.
func (b *Buffer) PositionAt(idx int) BufferPos {
	idx = b.snap(idx)
	ln := b.data.CharToLine(idx)
	off := idx - b.data.LineToChar(ln)
	return BufferPos{
		CharIdx:  idx,
		LineNum:  ln,
		LineOff:  off,
		LineGidx: grapheme.Column(b.lineText(ln), off, b.tabsize),
		version:  b.version,
	}
}

func (b *Buffer) isCurrent(pos BufferPos) bool {
	return pos.version == b.version
}

// snap clamps idx to the text and moves it forward to a grapheme boundary.
func (b *Buffer) snap(idx int) int {
	if idx <= 0 {
		return 0
	}
	if n := b.data.LenChars(); idx >= n {
		return n
	}
	ln := b.data.CharToLine(idx)
	start := b.data.LineToChar(ln)
	return start + grapheme.SnapChar(b.data.Line(ln), idx-start)
}

// nextGrapheme returns the character offset of the grapheme following the
// one at idx. A CR LF pair counts as a single grapheme.
func (b *Buffer) nextGrapheme(idx int) int {
	if idx >= b.data.LenChars() {
		return b.data.LenChars()
	}
	ln := b.data.CharToLine(idx)
	start := b.data.LineToChar(ln)
	return start + grapheme.NextCharBoundary(b.data.Line(ln), idx-start)
}

// prevGrapheme returns the character offset of the grapheme preceding idx.
func (b *Buffer) prevGrapheme(idx int) int {
	if idx <= 0 {
		return 0
	}
	ln := b.data.CharToLine(idx)
	start := b.data.LineToChar(ln)
	if idx == start && ln > 0 {
		ln--
		start = b.data.LineToChar(ln)
	}
	s := b.data.Line(ln)
	return start + grapheme.PrevCharBoundary(s, idx-start)
}
