// internal/tui/pane.go
package tui

import "errors"

// ErrLayout is returned when an area is too small to split further.
var ErrLayout = errors.New("area too small to split")

// SplitDir is the orientation of a pane split.
type SplitDir int

const (
	SplitHorizontal SplitDir = iota // side by side
	SplitVertical                   // stacked
)

// minPaneWidth leaves room for the gutter plus a few content columns.
const (
	minPaneWidth  = GutterWidth + 4
	minPaneHeight = 2
)

// Pane is a node in the binary split tree. A leaf shows one buffer; an
// interior node splits its area between two children.
type Pane struct {
	BufferID int64

	Dir    SplitDir
	First  *Pane
	Second *Pane
}

// NewPane creates a leaf pane showing the given buffer.
func NewPane(bufferID int64) *Pane {
	return &Pane{BufferID: bufferID}
}

// IsLeaf reports whether the pane has no children.
func (p *Pane) IsLeaf() bool { return p.First == nil }

// PaneRect is a laid-out leaf: the pane and its screen area.
type PaneRect struct {
	Pane *Pane
	Area Rect
}

// Layout assigns areas to every leaf by walking the tree, halving the
// area at each interior node (first child gets the extra cell).
func (p *Pane) Layout(area Rect) []PaneRect {
	if p.IsLeaf() {
		return []PaneRect{{Pane: p, Area: area}}
	}
	var a, b Rect
	if p.Dir == SplitHorizontal {
		half := (area.W + 1) / 2
		a = Rect{X: area.X, Y: area.Y, W: half, H: area.H}
		b = Rect{X: area.X + half, Y: area.Y, W: area.W - half, H: area.H}
	} else {
		half := (area.H + 1) / 2
		a = Rect{X: area.X, Y: area.Y, W: area.W, H: half}
		b = Rect{X: area.X, Y: area.Y + half, W: area.W, H: area.H - half}
	}
	return append(p.First.Layout(a), p.Second.Layout(b)...)
}

// Split turns a leaf into an interior node with two leaves: the
// original buffer first and bufferID second. The returned pane is the
// new second leaf. area is the leaf's current area, used to reject
// splits that would leave either half unusably small.
func (p *Pane) Split(dir SplitDir, bufferID int64, area Rect) (*Pane, error) {
	if !p.IsLeaf() {
		return nil, errors.New("cannot split an interior pane")
	}
	if dir == SplitHorizontal && area.W/2 < minPaneWidth {
		return nil, ErrLayout
	}
	if dir == SplitVertical && area.H/2 < minPaneHeight {
		return nil, ErrLayout
	}
	first := &Pane{BufferID: p.BufferID}
	second := &Pane{BufferID: bufferID}
	p.BufferID = 0
	p.Dir = dir
	p.First = first
	p.Second = second
	return second, nil
}

// Close removes the leaf `target` from the tree rooted at p, promoting
// its sibling into the parent. Closing the root leaf is not allowed;
// it reports whether the target was found.
func (p *Pane) Close(target *Pane) bool {
	if p.IsLeaf() {
		return false
	}
	if p.First == target || p.Second == target {
		keep := p.First
		if p.First == target {
			keep = p.Second
		}
		*p = *keep
		return true
	}
	return p.First.Close(target) || p.Second.Close(target)
}

// Leaves returns every leaf in layout order.
func (p *Pane) Leaves() []*Pane {
	if p.IsLeaf() {
		return []*Pane{p}
	}
	return append(p.First.Leaves(), p.Second.Leaves()...)
}

// NextLeaf returns the leaf after cur in layout order, wrapping.
func (p *Pane) NextLeaf(cur *Pane) *Pane {
	leaves := p.Leaves()
	for i, leaf := range leaves {
		if leaf == cur {
			return leaves[(i+1)%len(leaves)]
		}
	}
	return leaves[0]
}
