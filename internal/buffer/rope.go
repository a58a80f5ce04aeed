// internal/buffer/rope.go
package buffer

import (
	"strings"
	"unicode/utf8"
)

// Rope is a tree-structured character sequence supporting indexed edits
// and line lookups without rewriting the whole text. Leaves hold short
// string chunks; internal nodes cache subtree totals so every query is a
// single root-to-leaf descent.
type Rope struct {
	root *ropeNode
}

const (
	// maxLeafBytes bounds leaf size; splits keep edits cheap on long lines.
	maxLeafBytes = 512
	// maxDepth triggers a rebuild from leaves when edits skew the tree.
	maxDepth = 48
)

// ropeNode is either a leaf (data set, left/right nil) or an internal node.
// chars, bytes and newlines are subtree totals in both cases.
type ropeNode struct {
	left, right *ropeNode
	data        string
	chars       int
	bytes       int
	newlines    int
	depth       int
}

func newLeaf(s string) *ropeNode {
	return &ropeNode{
		data:     s,
		chars:    utf8.RuneCountInString(s),
		bytes:    len(s),
		newlines: strings.Count(s, "\n"),
		depth:    1,
	}
}

func (n *ropeNode) isLeaf() bool { return n.left == nil }

func concat(a, b *ropeNode) *ropeNode {
	if a == nil || a.bytes == 0 {
		return b
	}
	if b == nil || b.bytes == 0 {
		return a
	}
	// Merge small neighbours instead of growing the tree.
	if a.isLeaf() && b.isLeaf() && a.bytes+b.bytes <= maxLeafBytes {
		return newLeaf(a.data + b.data)
	}
	d := a.depth
	if b.depth > d {
		d = b.depth
	}
	return &ropeNode{
		left:     a,
		right:    b,
		chars:    a.chars + b.chars,
		bytes:    a.bytes + b.bytes,
		newlines: a.newlines + b.newlines,
		depth:    d + 1,
	}
}

// buildBalanced constructs a node from leaves by repeated halving.
func buildBalanced(leaves []*ropeNode) *ropeNode {
	switch len(leaves) {
	case 0:
		return newLeaf("")
	case 1:
		return leaves[0]
	}
	mid := len(leaves) / 2
	return concat(buildBalanced(leaves[:mid]), buildBalanced(leaves[mid:]))
}

func collectLeaves(n *ropeNode, out []*ropeNode) []*ropeNode {
	if n == nil {
		return out
	}
	if n.isLeaf() {
		if n.bytes > 0 {
			out = append(out, n)
		}
		return out
	}
	out = collectLeaves(n.left, out)
	return collectLeaves(n.right, out)
}

// NewRope creates a rope from an initial string.
func NewRope(s string) *Rope {
	r := &Rope{root: newLeaf("")}
	if s != "" {
		r.root = fromString(s)
	}
	return r
}

func fromString(s string) *ropeNode {
	var leaves []*ropeNode
	for len(s) > 0 {
		n := maxLeafBytes
		if n > len(s) {
			n = len(s)
		}
		// Never split inside a UTF-8 sequence.
		for n < len(s) && !utf8.RuneStart(s[n]) {
			n++
		}
		leaves = append(leaves, newLeaf(s[:n]))
		s = s[n:]
	}
	return buildBalanced(leaves)
}

// LenChars returns the number of runes in the rope.
func (r *Rope) LenChars() int { return r.root.chars }

// LenBytes returns the number of bytes in the rope.
func (r *Rope) LenBytes() int { return r.root.bytes }

// LineCount returns the number of lines (newline count + 1).
func (r *Rope) LineCount() int { return r.root.newlines + 1 }

// String materialises the full text.
func (r *Rope) String() string {
	var sb strings.Builder
	sb.Grow(r.root.bytes)
	writeNode(r.root, &sb)
	return sb.String()
}

func writeNode(n *ropeNode, sb *strings.Builder) {
	if n == nil {
		return
	}
	if n.isLeaf() {
		sb.WriteString(n.data)
		return
	}
	writeNode(n.left, sb)
	writeNode(n.right, sb)
}

// split divides a node at charIdx into two nodes.
func split(n *ropeNode, charIdx int) (*ropeNode, *ropeNode) {
	if n == nil {
		return nil, nil
	}
	if n.isLeaf() {
		if charIdx <= 0 {
			return nil, n
		}
		if charIdx >= n.chars {
			return n, nil
		}
		byteIdx := charToByteInString(n.data, charIdx)
		return newLeaf(n.data[:byteIdx]), newLeaf(n.data[byteIdx:])
	}
	if charIdx < n.left.chars {
		l, m := split(n.left, charIdx)
		return l, concat(m, n.right)
	}
	m, rt := split(n.right, charIdx-n.left.chars)
	return concat(n.left, m), rt
}

func charToByteInString(s string, charIdx int) int {
	b := 0
	for i := 0; i < charIdx; i++ {
		_, size := utf8.DecodeRuneInString(s[b:])
		b += size
	}
	return b
}

// Insert places text at the given rune index.
func (r *Rope) Insert(charIdx int, text string) {
	if text == "" {
		return
	}
	left, right := split(r.root, charIdx)
	r.root = concat(concat(left, fromString(text)), right)
	r.maybeRebalance()
}

// Remove deletes runes in [startChar, endChar).
func (r *Rope) Remove(startChar, endChar int) {
	if startChar >= endChar {
		return
	}
	left, rest := split(r.root, startChar)
	_, right := split(rest, endChar-startChar)
	r.root = concat(left, right)
	if r.root == nil {
		r.root = newLeaf("")
	}
	r.maybeRebalance()
}

// Slice returns the runes in [startChar, endChar) as a string.
func (r *Rope) Slice(startChar, endChar int) string {
	if startChar >= endChar {
		return ""
	}
	var sb strings.Builder
	sliceNode(r.root, startChar, endChar, &sb)
	return sb.String()
}

func sliceNode(n *ropeNode, start, end int, sb *strings.Builder) {
	if n == nil || start >= end || start >= n.chars || end <= 0 {
		return
	}
	if n.isLeaf() {
		if start < 0 {
			start = 0
		}
		if end > n.chars {
			end = n.chars
		}
		from := charToByteInString(n.data, start)
		to := from + charToByteInString(n.data[from:], end-start)
		sb.WriteString(n.data[from:to])
		return
	}
	sliceNode(n.left, start, end, sb)
	sliceNode(n.right, start-n.left.chars, end-n.left.chars, sb)
}

// CharToByte converts a rune index to a byte offset.
func (r *Rope) CharToByte(charIdx int) int {
	if charIdx <= 0 {
		return 0
	}
	if charIdx >= r.root.chars {
		return r.root.bytes
	}
	n := r.root
	byteOff := 0
	for !n.isLeaf() {
		if charIdx < n.left.chars {
			n = n.left
		} else {
			charIdx -= n.left.chars
			byteOff += n.left.bytes
			n = n.right
		}
	}
	return byteOff + charToByteInString(n.data, charIdx)
}

// ByteToChar converts a byte offset to a rune index. Offsets inside a
// multi-byte sequence map to the rune containing them.
func (r *Rope) ByteToChar(byteIdx int) int {
	if byteIdx <= 0 {
		return 0
	}
	if byteIdx >= r.root.bytes {
		return r.root.chars
	}
	n := r.root
	charOff := 0
	for !n.isLeaf() {
		if byteIdx < n.left.bytes {
			n = n.left
		} else {
			byteIdx -= n.left.bytes
			charOff += n.left.chars
			n = n.right
		}
	}
	chars := 0
	b := 0
	for b < byteIdx {
		_, size := utf8.DecodeRuneInString(n.data[b:])
		if b+size > byteIdx {
			break
		}
		b += size
		chars++
	}
	return charOff + chars
}

// LineStartChar returns the rune index of the first character of the line.
// Line numbers past the last line return the rope length.
func (r *Rope) LineStartChar(line int) int {
	if line <= 0 {
		return 0
	}
	if line > r.root.newlines {
		return r.root.chars
	}
	// Find the rune index just after the line-th newline.
	n := r.root
	charOff := 0
	target := line // newlines still to skip
	for !n.isLeaf() {
		if target <= n.left.newlines {
			n = n.left
		} else {
			target -= n.left.newlines
			charOff += n.left.chars
			n = n.right
		}
	}
	seen := 0
	chars := 0
	for _, ch := range n.data {
		chars++
		if ch == '\n' {
			seen++
			if seen == target {
				return charOff + chars
			}
		}
	}
	return charOff + chars
}

// LineAtChar returns the 0-based line containing the given rune index.
func (r *Rope) LineAtChar(charIdx int) int {
	if charIdx <= 0 {
		return 0
	}
	if charIdx >= r.root.chars {
		return r.root.newlines
	}
	n := r.root
	newlines := 0
	for !n.isLeaf() {
		if charIdx < n.left.chars {
			n = n.left
		} else {
			charIdx -= n.left.chars
			newlines += n.left.newlines
			n = n.right
		}
	}
	chars := 0
	for _, ch := range n.data {
		if chars >= charIdx {
			break
		}
		chars++
		if ch == '\n' {
			newlines++
		}
	}
	return newlines
}

// Line returns the content of a line without its trailing newline.
func (r *Rope) Line(line int) string {
	if line < 0 || line >= r.LineCount() {
		return ""
	}
	start := r.LineStartChar(line)
	end := r.LineStartChar(line + 1)
	s := r.Slice(start, end)
	return strings.TrimSuffix(s, "\n")
}

// LineLenChars returns the rune length of a line excluding its newline.
func (r *Rope) LineLenChars(line int) int {
	if line < 0 || line >= r.LineCount() {
		return 0
	}
	start := r.LineStartChar(line)
	end := r.LineStartChar(line + 1)
	n := end - start
	if line < r.LineCount()-1 {
		n-- // drop the newline
	}
	return n
}

func (r *Rope) maybeRebalance() {
	if r.root.depth <= maxDepth {
		return
	}
	leaves := collectLeaves(r.root, nil)
	r.root = buildBalanced(leaves)
	if r.root == nil {
		r.root = newLeaf("")
	}
}
