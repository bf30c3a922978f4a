package rope

import (
	"errors"
	"io"
	"strings"
	"unicode/utf8"
)

// ErrIndexOutOfBounds is returned for positions outside of a rope.
var ErrIndexOutOfBounds = errors.New("rope index out of bounds")

// maxLeaf is the soft upper bound of a chunk's size in bytes.
const maxLeaf = 512

// Summary describes a piece of text.
type Summary struct {
	Bytes  int // length in bytes
	Chars  int // number of Unicode scalar values
	Breaks int // number of line breaks
	Leaves int // number of chunks
}

func (s Summary) add(o Summary) Summary {
	return Summary{
		Bytes:  s.Bytes + o.Bytes,
		Chars:  s.Chars + o.Chars,
		Breaks: s.Breaks + o.Breaks,
		Leaves: s.Leaves + o.Leaves,
	}
}

// Rope is an immutable text. The zero value is an empty rope.
type Rope struct {
	root *node
}

// FromString creates a rope holding s.
func FromString(s string) Rope {
	if s == "" {
		return Rope{}
	}
	return Rope{root: build(chunk(s))}
}

// FromReader reads r until EOF and creates a rope from its content.
// Invalid UTF-8 is replaced by U+FFFD.
func FromReader(r io.Reader) (Rope, error) {
	var sb strings.Builder
	if _, err := io.Copy(&sb, r); err != nil {
		return Rope{}, err
	}
	s := sb.String()
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "\uFFFD")
	}
	return FromString(s), nil
}

// Summary returns the summary of the whole rope.
func (r Rope) Summary() Summary {
	if r.root == nil {
		return Summary{}
	}
	return r.root.sum
}

// LenBytes returns the length of the text in bytes.
func (r Rope) LenBytes() int {
	return r.Summary().Bytes
}

// LenChars returns the number of characters of the text.
func (r Rope) LenChars() int {
	return r.Summary().Chars
}

// LenLines returns the number of lines. It is always one more than the
// number of line breaks, i.e. text ending with a line break has an empty
// last line.
func (r Rope) LenLines() int {
	return r.Summary().Breaks + 1
}

// String returns the text as a string.
func (r Rope) String() string {
	var sb strings.Builder
	sb.Grow(r.LenBytes())
	r.EachChunk(func(chunk string) bool {
		sb.WriteString(chunk)
		return true
	})
	return sb.String()
}

// EachChunk calls f for every chunk of text, in order, until f returns false.
func (r Rope) EachChunk(f func(chunk string) bool) {
	if r.root != nil {
		r.root.each(f)
	}
}

// Slice returns the text between character positions from and to. Positions
// are clamped to the rope.
func (r Rope) Slice(from, to int) string {
	from, to = r.clamp(from), r.clamp(to)
	if from >= to {
		return ""
	}
	var sb strings.Builder
	r.root.slice(from, to, &sb)
	return sb.String()
}

// Line returns line number n including its line break, if any. An empty
// string is returned if n is out of range.
func (r Rope) Line(n int) string {
	if n < 0 || n >= r.LenLines() {
		return ""
	}
	return r.Slice(r.LineToChar(n), r.LineToChar(n+1))
}

// CharToLine returns the number of the line containing character position
// pos. Positions beyond the end of text are clamped.
func (r Rope) CharToLine(pos int) int {
	pos = r.clamp(pos)
	if r.root == nil || pos == 0 {
		return 0
	}
	return r.root.breaksBefore(pos)
}

// LineToChar returns the character position of the start of line n. Line
// numbers at or beyond LenLines are clamped to the end of text.
func (r Rope) LineToChar(n int) int {
	if n <= 0 || r.root == nil {
		return 0
	}
	if n >= r.LenLines() {
		return r.LenChars()
	}
	return r.root.startOfLine(n)
}

// CharToByte converts a character position to a byte offset.
func (r Rope) CharToByte(pos int) int {
	pos = r.clamp(pos)
	if r.root == nil {
		return 0
	}
	return r.root.byteOffset(pos)
}

// Insert returns a new rope with s inserted at character position pos.
func (r Rope) Insert(pos int, s string) (Rope, error) {
	if pos < 0 || pos > r.LenChars() {
		return r, ErrIndexOutOfBounds
	}
	if s == "" {
		return r, nil
	}
	if r.root != nil && len(s) <= maxLeaf {
		if n, ok := r.root.insertInLeaf(pos, s); ok {
			return Rope{root: n}, nil
		}
	}
	left, right := split(r.root, pos)
	mid := build(chunk(s))
	return Rope{root: concat(concat(left, mid), right)}, nil
}

// Remove returns a new rope with the characters between from and to deleted.
func (r Rope) Remove(from, to int) (Rope, error) {
	if from < 0 || to > r.LenChars() || from > to {
		return r, ErrIndexOutOfBounds
	}
	if from == to {
		return r, nil
	}
	left, rest := split(r.root, from)
	_, right := split(rest, to-from)
	return Rope{root: concat(left, right)}, nil
}

// Height returns the height of the rope's tree. An empty rope has height 0.
func (r Rope) Height() int {
	if r.root == nil {
		return 0
	}
	return r.root.height
}

func (r Rope) clamp(pos int) int {
	if pos < 0 {
		return 0
	}
	if n := r.LenChars(); pos > n {
		return n
	}
	return pos
}

// --- Line breaks -----------------------------------------------------------

// IsLineBreak reports whether c terminates a line.
func IsLineBreak(c rune) bool {
	switch c {
	case '\n', '\v', '\f', '\r', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// TrimLineBreaks removes all trailing line break characters from s.
func TrimLineBreaks(s string) string {
	return strings.TrimRightFunc(s, IsLineBreak)
}

// countBreaks counts line breaks in s. CR LF counts once, a trailing CR
// counts as a break.
func countBreaks(s string) int {
	n := 0
	for i := 0; i < len(s); {
		c, size := utf8.DecodeRuneInString(s[i:])
		i += size
		if c == '\r' && i < len(s) && s[i] == '\n' {
			continue
		}
		if IsLineBreak(c) {
			n++
		}
	}
	return n
}

// --- Chunks ----------------------------------------------------------------

// chunk cuts s into pieces of at most maxLeaf bytes, never inside a UTF-8
// sequence and never between CR and LF.
func chunk(s string) []string {
	var chunks []string
	for len(s) > maxLeaf {
		cut := maxLeaf
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		if cut > 0 && s[cut-1] == '\r' && s[cut] == '\n' {
			cut++
		}
		chunks = append(chunks, s[:cut])
		s = s[cut:]
	}
	if s != "" {
		chunks = append(chunks, s)
	}
	return chunks
}

// build creates a perfectly balanced tree over a sequence of chunks.
func build(chunks []string) *node {
	switch len(chunks) {
	case 0:
		return nil
	case 1:
		return newLeaf(chunks[0])
	}
	m := len(chunks) / 2
	return newInner(build(chunks[:m]), build(chunks[m:]))
}
