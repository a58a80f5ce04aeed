// internal/tui/pane_test.go
package tui

import (
	"errors"
	"testing"
)

func TestLayoutSingleLeaf(t *testing.T) {
	p := NewPane(1)
	area := Rect{X: 0, Y: 0, W: 80, H: 24}
	rects := p.Layout(area)
	if len(rects) != 1 {
		t.Fatalf("leaves = %d, want 1", len(rects))
	}
	if rects[0].Area != area {
		t.Errorf("area = %+v, want %+v", rects[0].Area, area)
	}
}

func TestSplitHorizontalLayout(t *testing.T) {
	p := NewPane(1)
	area := Rect{W: 81, H: 24}
	second, err := p.Split(SplitHorizontal, 2, area)
	if err != nil {
		t.Fatal(err)
	}
	if second.BufferID != 2 {
		t.Errorf("second buffer = %d", second.BufferID)
	}

	rects := p.Layout(area)
	if len(rects) != 2 {
		t.Fatalf("leaves = %d, want 2", len(rects))
	}
	// Odd width: first child takes the extra column.
	if rects[0].Area.W != 41 || rects[1].Area.W != 40 {
		t.Errorf("widths = %d, %d, want 41, 40", rects[0].Area.W, rects[1].Area.W)
	}
	if rects[1].Area.X != 41 {
		t.Errorf("second X = %d, want 41", rects[1].Area.X)
	}
	if rects[0].Pane.BufferID != 1 || rects[1].Pane.BufferID != 2 {
		t.Errorf("buffer order = %d, %d", rects[0].Pane.BufferID, rects[1].Pane.BufferID)
	}
}

func TestSplitVerticalLayout(t *testing.T) {
	p := NewPane(1)
	area := Rect{W: 80, H: 25}
	if _, err := p.Split(SplitVertical, 2, area); err != nil {
		t.Fatal(err)
	}
	rects := p.Layout(area)
	if rects[0].Area.H != 13 || rects[1].Area.H != 12 {
		t.Errorf("heights = %d, %d, want 13, 12", rects[0].Area.H, rects[1].Area.H)
	}
	if rects[1].Area.Y != 13 {
		t.Errorf("second Y = %d, want 13", rects[1].Area.Y)
	}
}

func TestSplitTooSmall(t *testing.T) {
	p := NewPane(1)
	if _, err := p.Split(SplitHorizontal, 2, Rect{W: 2 * minPaneWidth, H: 24}); err != nil {
		t.Errorf("split at the minimum failed: %v", err)
	}

	q := NewPane(1)
	if _, err := q.Split(SplitHorizontal, 2, Rect{W: 2*minPaneWidth - 1, H: 24}); !errors.Is(err, ErrLayout) {
		t.Errorf("err = %v, want ErrLayout", err)
	}
	r := NewPane(1)
	if _, err := r.Split(SplitVertical, 2, Rect{W: 80, H: 2*minPaneHeight - 1}); !errors.Is(err, ErrLayout) {
		t.Errorf("err = %v, want ErrLayout", err)
	}
}

func TestSplitInterior(t *testing.T) {
	p := NewPane(1)
	area := Rect{W: 80, H: 24}
	if _, err := p.Split(SplitHorizontal, 2, area); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Split(SplitHorizontal, 3, area); err == nil {
		t.Error("splitting an interior pane succeeded")
	}
}

func TestClosePromotesSibling(t *testing.T) {
	root := NewPane(1)
	area := Rect{W: 80, H: 24}
	second, err := root.Split(SplitHorizontal, 2, area)
	if err != nil {
		t.Fatal(err)
	}
	if !root.Close(second) {
		t.Fatal("Close did not find the target")
	}
	if !root.IsLeaf() || root.BufferID != 1 {
		t.Errorf("root after close: leaf=%v buffer=%d", root.IsLeaf(), root.BufferID)
	}
}

func TestCloseNested(t *testing.T) {
	root := NewPane(1)
	area := Rect{W: 200, H: 60}
	second, _ := root.Split(SplitHorizontal, 2, area)
	third, _ := second.Split(SplitVertical, 3, Rect{W: 100, H: 60})

	if !root.Close(third) {
		t.Fatal("Close failed on nested leaf")
	}
	leaves := root.Leaves()
	if len(leaves) != 2 {
		t.Fatalf("leaves = %d, want 2", len(leaves))
	}
	if leaves[0].BufferID != 1 || leaves[1].BufferID != 2 {
		t.Errorf("buffers = %d, %d", leaves[0].BufferID, leaves[1].BufferID)
	}
}

func TestNextLeafWraps(t *testing.T) {
	root := NewPane(1)
	area := Rect{W: 200, H: 60}
	second, _ := root.Split(SplitHorizontal, 2, area)

	leaves := root.Leaves()
	first := leaves[0]
	if got := root.NextLeaf(first); got != second {
		t.Error("NextLeaf did not advance")
	}
	if got := root.NextLeaf(second); got != first {
		t.Error("NextLeaf did not wrap")
	}
}
