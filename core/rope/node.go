package rope

import (
	"strings"
	"unicode/utf8"
)

// node is either a leaf holding a chunk of text or an inner node with two
// children. Nodes are never mutated after construction.
type node struct {
	left, right *node
	text        string
	sum         Summary
	height      int
}

func newLeaf(s string) *node {
	return &node{
		text: s,
		sum: Summary{
			Bytes:  len(s),
			Chars:  utf8.RuneCountInString(s),
			Breaks: countBreaks(s),
			Leaves: 1,
		},
		height: 1,
	}
}

func newInner(l, r *node) *node {
	h := l.height
	if r.height > h {
		h = r.height
	}
	return &node{
		left:   l,
		right:  r,
		sum:    l.sum.add(r.sum),
		height: h + 1,
	}
}

func (n *node) isLeaf() bool {
	return n.left == nil
}

func (n *node) each(f func(string) bool) bool {
	if n.isLeaf() {
		return f(n.text)
	}
	return n.left.each(f) && n.right.each(f)
}

func (n *node) slice(from, to int, sb *strings.Builder) {
	if n.isLeaf() {
		s := n.text
		sb.WriteString(s[byteIndex(s, from):byteIndex(s, to)])
		return
	}
	lc := n.left.sum.Chars
	if from < lc {
		end := to
		if end > lc {
			end = lc
		}
		n.left.slice(from, end, sb)
	}
	if to > lc {
		start := from - lc
		if start < 0 {
			start = 0
		}
		n.right.slice(start, to-lc, sb)
	}
}

// breaksBefore counts line breaks within the first pos characters.
func (n *node) breaksBefore(pos int) int {
	breaks := 0
	for !n.isLeaf() {
		if pos <= n.left.sum.Chars {
			n = n.left
			continue
		}
		pos -= n.left.sum.Chars
		breaks += n.left.sum.Breaks
		n = n.right
	}
	return breaks + countBreaks(n.text[:byteIndex(n.text, pos)])
}

// startOfLine returns the character position following the k-th line
// break, k > 0. The tree must contain at least k breaks.
func (n *node) startOfLine(k int) int {
	pos := 0
	for !n.isLeaf() {
		if k <= n.left.sum.Breaks {
			n = n.left
			continue
		}
		k -= n.left.sum.Breaks
		pos += n.left.sum.Chars
		n = n.right
	}
	s := n.text
	chars := 0
	for i := 0; i < len(s); {
		c, size := utf8.DecodeRuneInString(s[i:])
		i += size
		chars++
		if c == '\r' && i < len(s) && s[i] == '\n' {
			continue
		}
		if IsLineBreak(c) {
			k--
			if k == 0 {
				return pos + chars
			}
		}
	}
	return pos + chars
}

func (n *node) byteOffset(pos int) int {
	off := 0
	for !n.isLeaf() {
		if pos <= n.left.sum.Chars {
			n = n.left
			continue
		}
		pos -= n.left.sum.Chars
		off += n.left.sum.Bytes
		n = n.right
	}
	return off + byteIndex(n.text, pos)
}

func (n *node) firstChar() rune {
	for !n.isLeaf() {
		n = n.left
	}
	c, _ := utf8.DecodeRuneInString(n.text)
	return c
}

func (n *node) lastChar() rune {
	for !n.isLeaf() {
		n = n.right
	}
	c, _ := utf8.DecodeLastRuneInString(n.text)
	return c
}

func (n *node) lastLeaf() *node {
	for !n.isLeaf() {
		n = n.right
	}
	return n
}

func (n *node) firstLeaf() *node {
	for !n.isLeaf() {
		n = n.left
	}
	return n
}

// insertInLeaf inserts s at character position pos into the chunk covering
// pos, copying the path to it. At a chunk boundary the following chunk is
// tried if the preceding one is full. It fails if the chunk would outgrow
// maxLeaf or if a CR LF pair might end up split across chunks.
func (n *node) insertInLeaf(pos int, s string) (*node, bool) {
	if n.isLeaf() {
		if n.sum.Bytes+len(s) > maxLeaf {
			return nil, false
		}
		i := byteIndex(n.text, pos)
		if i == len(n.text) && s[len(s)-1] == '\r' || i == 0 && s[0] == '\n' {
			return nil, false
		}
		return newLeaf(n.text[:i] + s + n.text[i:]), true
	}
	lc := n.left.sum.Chars
	if pos <= lc {
		if l, ok := n.left.insertInLeaf(pos, s); ok {
			return newInner(l, n.right), true
		}
		if pos < lc {
			return nil, false
		}
	}
	r, ok := n.right.insertInLeaf(pos-lc, s)
	if !ok {
		return nil, false
	}
	return newInner(n.left, r), true
}

// appendToLast returns a copy of n with s appended to its last chunk.
func (n *node) appendToLast(s string) *node {
	if n.isLeaf() {
		return newLeaf(n.text + s)
	}
	return newInner(n.left, n.right.appendToLast(s))
}

// prependToFirst returns a copy of n with s prepended to its first chunk.
func (n *node) prependToFirst(s string) *node {
	if n.isLeaf() {
		return newLeaf(s + n.text)
	}
	return newInner(n.left.prependToFirst(s), n.right)
}

// --- Split and concatenation -----------------------------------------------

// split cuts a tree at character position pos. Either result may be nil.
func split(n *node, pos int) (*node, *node) {
	if n == nil {
		return nil, nil
	}
	if pos <= 0 {
		return nil, n
	}
	if pos >= n.sum.Chars {
		return n, nil
	}
	if n.isLeaf() {
		i := byteIndex(n.text, pos)
		return newLeaf(n.text[:i]), newLeaf(n.text[i:])
	}
	lc := n.left.sum.Chars
	if pos <= lc {
		ll, lr := split(n.left, pos)
		return ll, join(lr, n.right)
	}
	rl, rr := split(n.right, pos-lc)
	return join(n.left, rl), rr
}

// join combines two trees. A leaf is merged into the neighbouring chunk of
// the other tree if both fit into maxLeaf. Otherwise the shorter tree is
// grafted onto the facing spine of the taller one. Both trees must be height
// balanced, and so is the result: the heights of the children of every
// inner node differ by at most one.
func join(a, b *node) *node {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if b.isLeaf() && a.lastLeaf().sum.Bytes+b.sum.Bytes <= maxLeaf {
		return a.appendToLast(b.text)
	}
	if a.isLeaf() && a.sum.Bytes+b.firstLeaf().sum.Bytes <= maxLeaf {
		return b.prependToFirst(a.text)
	}
	return graft(a, b)
}

// graft descends the taller tree until heights differ by at most one and
// rebalances on the way back up. Cost is proportional to the difference in
// height.
func graft(a, b *node) *node {
	switch {
	case a.height > b.height+1:
		return rebalance(a.left, graft(a.right, b))
	case b.height > a.height+1:
		return rebalance(graft(a, b.left), b.right)
	}
	return newInner(a, b)
}

// rebalance creates an inner node over l and r, rotating if their heights
// differ by two.
func rebalance(l, r *node) *node {
	switch {
	case l.height > r.height+1:
		if l.left.height >= l.right.height {
			return newInner(l.left, newInner(l.right, r))
		}
		lr := l.right
		return newInner(newInner(l.left, lr.left), newInner(lr.right, r))
	case r.height > l.height+1:
		if r.right.height >= r.left.height {
			return newInner(newInner(l, r.left), r.right)
		}
		rl := r.left
		return newInner(newInner(l, rl.left), newInner(rl.right, r.right))
	}
	return newInner(l, r)
}

// concat joins two trees and keeps a CR and a following LF in the same chunk.
func concat(a, b *node) *node {
	if a == nil || b == nil {
		return join(a, b)
	}
	if a.lastChar() == '\r' && b.firstChar() == '\n' {
		a = a.appendToLast("\n")
		_, b = split(b, 1)
	}
	return join(a, b)
}

// byteIndex returns the byte offset of the pos-th character of s.
func byteIndex(s string, pos int) int {
	if pos <= 0 {
		return 0
	}
	for i := range s {
		if pos == 0 {
			return i
		}
		pos--
	}
	return len(s)
}
