// internal/history/tree_test.go
package history

import (
	"fmt"
	"testing"

	"github.com/smash-editor/smash/internal/edit"
	"github.com/smash-editor/smash/internal/types"
)

func ins(text string) edit.Command {
	return edit.Insert{Pos: types.Position{}, Text: text}
}

func TestEmptyTree(t *testing.T) {
	tr := New()
	if tr.CanUndo() {
		t.Error("CanUndo on empty tree")
	}
	if tr.CanRedo() {
		t.Error("CanRedo on empty tree")
	}
	if _, _, ok := tr.Undo(); ok {
		t.Error("Undo succeeded at root")
	}
	if _, ok := tr.Redo(); ok {
		t.Error("Redo succeeded without children")
	}
	if tr.Len() != 1 {
		t.Errorf("Len = %d, want 1 (sentinel root)", tr.Len())
	}
}

func TestRecordUndoRedo(t *testing.T) {
	tr := New()
	cursor := types.Position{Line: 2, Col: 7}
	tr.Record(ins("undo-a"), ins("redo-a"), cursor)

	if !tr.CanUndo() {
		t.Fatal("CanUndo false after record")
	}
	cmd, before, ok := tr.Undo()
	if !ok {
		t.Fatal("Undo failed")
	}
	if got := cmd.(edit.Insert).Text; got != "undo-a" {
		t.Errorf("backward command = %q", got)
	}
	if before != cursor {
		t.Errorf("cursorBefore = %v, want %v", before, cursor)
	}

	if !tr.CanRedo() {
		t.Fatal("CanRedo false after undo")
	}
	cmd, ok = tr.Redo()
	if !ok {
		t.Fatal("Redo failed")
	}
	if got := cmd.(edit.Insert).Text; got != "redo-a" {
		t.Errorf("forward command = %q", got)
	}
}

// Recording after an undo keeps the old branch; redo prefers the
// newest child.
func TestBranching(t *testing.T) {
	tr := New()
	tr.Record(ins("u1"), ins("r1"), types.Position{})
	tr.Undo()
	tr.Record(ins("u2"), ins("r2"), types.Position{})
	tr.Undo()

	if tr.Len() != 3 {
		t.Fatalf("Len = %d, want 3 (both branches kept)", tr.Len())
	}
	cmd, ok := tr.Redo()
	if !ok {
		t.Fatal("Redo failed")
	}
	if got := cmd.(edit.Insert).Text; got != "r2" {
		t.Errorf("redo picked %q, want newest branch %q", got, "r2")
	}
}

func TestClear(t *testing.T) {
	tr := New()
	tr.Record(ins("u"), ins("r"), types.Position{})
	tr.Clear()
	if tr.Len() != 1 || tr.CanUndo() || tr.CanRedo() {
		t.Error("Clear did not reset to sentinel root")
	}
}

func TestPruneBoundsArena(t *testing.T) {
	const limit = 50
	tr := NewWithLimit(limit)
	for i := 0; i < limit*3; i++ {
		tr.Record(ins(fmt.Sprintf("u%d", i)), ins(fmt.Sprintf("r%d", i)), types.Position{})
	}
	if tr.Len() > limit+1 {
		t.Errorf("Len = %d, want <= %d", tr.Len(), limit+1)
	}

	// Everything still on the path undoes cleanly back to the root.
	steps := 0
	for tr.CanUndo() {
		if _, _, ok := tr.Undo(); !ok {
			t.Fatal("CanUndo true but Undo failed")
		}
		steps++
		if steps > limit+1 {
			t.Fatal("undo chain longer than the arena")
		}
	}
	if steps == 0 {
		t.Error("no undo steps survived pruning")
	}
}

// Pruning with branches drops off-path leaves first; the current path
// stays reachable.
func TestPrunePrefersOffPathLeaves(t *testing.T) {
	const limit = 20
	tr := NewWithLimit(limit)

	// A chain of edits, an undo, then a branch; then enough records to
	// trigger pruning on the new branch.
	for i := 0; i < 5; i++ {
		tr.Record(ins("old"), ins("old"), types.Position{})
	}
	tr.Undo()
	for i := 0; i < limit; i++ {
		tr.Record(ins("new"), ins("new"), types.Position{})
	}

	if tr.Len() > limit+1 {
		t.Errorf("Len = %d, want <= %d", tr.Len(), limit+1)
	}
	for tr.CanUndo() {
		if _, _, ok := tr.Undo(); !ok {
			t.Fatal("current path broken after pruning")
		}
	}
}
