// internal/cursor/cursor_test.go
package cursor

import (
	"testing"

	"github.com/smash-editor/smash/internal/types"
)

func pos(line, col int) types.Position { return types.Position{Line: line, Col: col} }

func TestRemapPosition(t *testing.T) {
	tests := []struct {
		name                    string
		p, editPos, oldEnd, newEnd types.Position
		want                    types.Position
	}{
		{
			name: "before edit unchanged",
			p:    pos(0, 2), editPos: pos(0, 5), oldEnd: pos(0, 5), newEnd: pos(0, 8),
			want: pos(0, 2),
		},
		{
			name: "at edit start unchanged",
			p:    pos(0, 5), editPos: pos(0, 5), oldEnd: pos(0, 5), newEnd: pos(0, 8),
			want: pos(0, 5),
		},
		{
			name: "after insert on same line shifts by columns",
			p:    pos(0, 7), editPos: pos(0, 5), oldEnd: pos(0, 5), newEnd: pos(0, 8),
			want: pos(0, 10),
		},
		{
			name: "after multi-line insert shifts lines",
			p:    pos(2, 3), editPos: pos(0, 1), oldEnd: pos(0, 1), newEnd: pos(1, 0),
			want: pos(3, 3),
		},
		{
			name: "later line keeps column on single-line edit",
			p:    pos(3, 4), editPos: pos(1, 0), oldEnd: pos(1, 2), newEnd: pos(1, 0),
			want: pos(3, 4),
		},
		{
			name: "after delete on same line shifts left",
			p:    pos(0, 8), editPos: pos(0, 2), oldEnd: pos(0, 5), newEnd: pos(0, 2),
			want: pos(0, 5),
		},
		{
			name: "inside replaced region clamps to new end",
			p:    pos(0, 4), editPos: pos(0, 2), oldEnd: pos(0, 6), newEnd: pos(0, 3),
			want: pos(0, 3),
		},
		{
			name: "line join pulls trailing text up",
			p:    pos(2, 1), editPos: pos(1, 3), oldEnd: pos(2, 0), newEnd: pos(1, 3),
			want: pos(1, 4),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RemapPosition(tt.p, tt.editPos, tt.oldEnd, tt.newEnd)
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

// Remapping preserves relative order: two positions never swap sides
// across an edit.
func TestRemapMonotone(t *testing.T) {
	editPos, oldEnd, newEnd := pos(1, 2), pos(2, 4), pos(1, 5)
	points := []types.Position{
		pos(0, 0), pos(1, 1), pos(1, 2), pos(1, 9), pos(2, 0), pos(2, 4), pos(3, 3),
	}
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			a := RemapPosition(points[i], editPos, oldEnd, newEnd)
			b := RemapPosition(points[j], editPos, oldEnd, newEnd)
			if b.Before(a) {
				t.Errorf("order inverted: %v -> %v, %v -> %v",
					points[i], a, points[j], b)
			}
		}
	}
}

func TestSetMergesSamePosition(t *testing.T) {
	s := NewSet()
	s.SetPrimary(pos(1, 3))
	s.Add(Cursor{Pos: pos(1, 3)})
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1 after merging same-position cursors", s.Len())
	}
	if got := s.Primary().Pos; got != pos(1, 3) {
		t.Errorf("primary = %v", got)
	}
}

func TestSetMergesOverlappingSelections(t *testing.T) {
	s := NewSet()
	anchor1 := pos(0, 0)
	s.SetPrimarySelection(anchor1, pos(0, 5))
	s.Add(Cursor{Pos: pos(0, 8), Anchor: &types.Position{Line: 0, Col: 3}})

	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
	sel, ok := s.Primary().Selection()
	if !ok {
		t.Fatal("merged cursor lost its selection")
	}
	want := types.Range{Start: pos(0, 0), End: pos(0, 8)}
	if sel != want {
		t.Errorf("merged selection = %v, want %v", sel, want)
	}
}

func TestSetKeepsDisjointCursors(t *testing.T) {
	s := NewSet()
	s.SetPrimary(pos(0, 0))
	s.Add(Cursor{Pos: pos(2, 0)})
	s.Add(Cursor{Pos: pos(1, 0)})
	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}
	all := s.All()
	for i := 1; i < len(all); i++ {
		if all[i].Pos.Before(all[i-1].Pos) {
			t.Error("cursors not sorted by position")
		}
	}
}

func TestRemapAfterEditMovesAnchors(t *testing.T) {
	s := NewSet()
	s.SetPrimarySelection(pos(0, 6), pos(0, 9))
	// Insert two characters at column 2: both ends shift right.
	s.RemapAfterEdit(pos(0, 2), pos(0, 2), pos(0, 4))
	sel, ok := s.Primary().Selection()
	if !ok {
		t.Fatal("selection lost")
	}
	want := types.Range{Start: pos(0, 8), End: pos(0, 11)}
	if sel != want {
		t.Errorf("selection = %v, want %v", sel, want)
	}
}

func TestRemapMergesCollapsedCursors(t *testing.T) {
	s := NewSet()
	s.SetPrimary(pos(0, 3))
	s.Add(Cursor{Pos: pos(0, 5)})
	// Delete [2, 6): both cursors clamp to the edit start and merge.
	s.RemapAfterEdit(pos(0, 2), pos(0, 6), pos(0, 2))
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
	if got := s.Primary().Pos; got != pos(0, 2) {
		t.Errorf("cursor = %v, want %v", got, pos(0, 2))
	}
}

func TestResetCollapsesToPrimary(t *testing.T) {
	s := NewSet()
	s.Add(Cursor{Pos: pos(4, 0)})
	s.Reset(pos(1, 1))
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
	if got := s.Primary().Pos; got != pos(1, 1) {
		t.Errorf("primary = %v", got)
	}
	if _, ok := s.Primary().Selection(); ok {
		t.Error("Reset kept a selection")
	}
}
