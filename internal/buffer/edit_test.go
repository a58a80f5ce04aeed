// internal/buffer/edit_test.go
package buffer

import (
	"testing"

	"github.com/smash-editor/smash/internal/edit"
	"github.com/smash-editor/smash/internal/types"
)

func pos(line, col int) types.Position { return types.Position{Line: line, Col: col} }

func rng(sl, sc, el, ec int) types.Range {
	return types.Range{Start: pos(sl, sc), End: pos(el, ec)}
}

func TestApplyEditCommands(t *testing.T) {
	tests := []struct {
		name string
		base string
		cmd  edit.Command
		want string
	}{
		{
			name: "insert",
			base: "hello world",
			cmd:  edit.Insert{Pos: pos(0, 5), Text: ","},
			want: "hello, world",
		},
		{
			name: "insert newline splits line",
			base: "ab",
			cmd:  edit.Insert{Pos: pos(0, 1), Text: "\n"},
			want: "a\nb",
		},
		{
			name: "delete within line",
			base: "hello world",
			cmd:  edit.Delete{Range: rng(0, 5, 0, 11)},
			want: "hello",
		},
		{
			name: "delete across lines",
			base: "one\ntwo\nthree",
			cmd:  edit.Delete{Range: rng(0, 2, 2, 3)},
			want: "onee",
		},
		{
			name: "delete with reversed endpoints",
			base: "hello",
			cmd:  edit.Delete{Range: types.Range{Start: pos(0, 5), End: pos(0, 2)}},
			want: "he",
		},
		{
			name: "replace",
			base: "hello world",
			cmd:  edit.Replace{Range: rng(0, 6, 0, 11), Text: "there"},
			want: "hello there",
		},
		{
			name: "batch",
			base: "ac",
			cmd: edit.Batch{Commands: []edit.Command{
				edit.Insert{Pos: pos(0, 1), Text: "b"},
				edit.Insert{Pos: pos(0, 3), Text: "d"},
			}},
			want: "abcd",
		},
		{
			name: "indent in",
			base: "a\nb",
			cmd:  edit.IndentLines{Lines: []int{0, 1}, Direction: edit.IndentIn},
			want: "    a\n    b",
		},
		{
			name: "indent out partial",
			base: "  a\nb",
			cmd:  edit.IndentLines{Lines: []int{0, 1}, Direction: edit.IndentOut},
			want: "a\nb",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewFromString(tt.base)
			if _, err := b.ApplyEdit(tt.cmd); err != nil {
				t.Fatalf("ApplyEdit: %v", err)
			}
			if got := b.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if !b.IsDirty() {
				t.Error("buffer not dirty after edit")
			}
		})
	}
}

func TestApplyEditOutOfBounds(t *testing.T) {
	b := NewFromString("ab")
	cmds := []edit.Command{
		edit.Insert{Pos: pos(0, 3), Text: "x"},
		edit.Insert{Pos: pos(1, 0), Text: "x"},
		edit.Delete{Range: rng(0, 0, 0, 5)},
	}
	for _, cmd := range cmds {
		if _, err := b.ApplyEdit(cmd); err == nil {
			t.Errorf("ApplyEdit(%#v): expected out-of-bounds error", cmd)
		}
	}
	if b.String() != "ab" {
		t.Errorf("content changed by failed edit: %q", b.String())
	}
	if b.History.CanUndo() {
		t.Error("failed edit was recorded in history")
	}
}

// Edit events carry byte offsets with start <= new end, and the
// untouched side of each event equals the start.
func TestEditEventByteInvariants(t *testing.T) {
	b := NewFromString("one\ntwo\nthree")

	events, err := b.ApplyEdit(edit.Insert{Pos: pos(1, 1), Text: "xx"})
	if err != nil {
		t.Fatal(err)
	}
	ev := events[0]
	if ev.StartByte != ev.OldEndByte {
		t.Errorf("insert: OldEndByte %d != StartByte %d", ev.OldEndByte, ev.StartByte)
	}
	if ev.NewEndByte < ev.StartByte {
		t.Errorf("insert: NewEndByte %d < StartByte %d", ev.NewEndByte, ev.StartByte)
	}
	if ev.StartByte != 5 || ev.NewEndByte != 7 {
		t.Errorf("insert bytes = (%d, %d), want (5, 7)", ev.StartByte, ev.NewEndByte)
	}

	events, err = b.ApplyEdit(edit.Delete{Range: rng(1, 0, 1, 2)})
	if err != nil {
		t.Fatal(err)
	}
	ev = events[0]
	if ev.StartByte != ev.NewEndByte {
		t.Errorf("delete: NewEndByte %d != StartByte %d", ev.NewEndByte, ev.StartByte)
	}
	if ev.OldEndByte < ev.StartByte {
		t.Errorf("delete: OldEndByte %d < StartByte %d", ev.OldEndByte, ev.StartByte)
	}
}

func TestUndoRestoresContentAndCursor(t *testing.T) {
	b := NewFromString("hello")
	b.Cursors.Reset(pos(0, 5))

	if _, err := b.ApplyEdit(edit.Insert{Pos: pos(0, 5), Text: " world"}); err != nil {
		t.Fatal(err)
	}
	if b.String() != "hello world" {
		t.Fatalf("after edit: %q", b.String())
	}

	_, ok, err := b.Undo()
	if err != nil || !ok {
		t.Fatalf("Undo: ok=%v err=%v", ok, err)
	}
	if b.String() != "hello" {
		t.Errorf("after undo: %q, want %q", b.String(), "hello")
	}
	if got := b.Cursors.Primary().Pos; got != pos(0, 5) {
		t.Errorf("cursor after undo = %v, want %v", got, pos(0, 5))
	}

	_, ok, err = b.Redo()
	if err != nil || !ok {
		t.Fatalf("Redo: ok=%v err=%v", ok, err)
	}
	if b.String() != "hello world" {
		t.Errorf("after redo: %q, want %q", b.String(), "hello world")
	}
}

func TestUndoRedoSequence(t *testing.T) {
	b := NewFromString("")
	words := []string{"a", "b", "c"}
	for i, w := range words {
		if _, err := b.ApplyEdit(edit.Insert{Pos: pos(0, i), Text: w}); err != nil {
			t.Fatal(err)
		}
	}
	if b.String() != "abc" {
		t.Fatalf("content = %q", b.String())
	}

	for range words {
		if _, ok, _ := b.Undo(); !ok {
			t.Fatal("Undo returned !ok before reaching root")
		}
	}
	if b.String() != "" {
		t.Errorf("after full undo: %q, want empty", b.String())
	}
	if _, ok, _ := b.Undo(); ok {
		t.Error("Undo succeeded at root")
	}

	for range words {
		if _, ok, _ := b.Redo(); !ok {
			t.Fatal("Redo returned !ok before replaying all edits")
		}
	}
	if b.String() != "abc" {
		t.Errorf("after full redo: %q, want %q", b.String(), "abc")
	}
}

func TestUndoBranching(t *testing.T) {
	b := NewFromString("x")
	if _, err := b.ApplyEdit(edit.Insert{Pos: pos(0, 1), Text: "a"}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := b.Undo(); err != nil {
		t.Fatal(err)
	}
	// New edit after undo branches; redo now replays the newest child.
	if _, err := b.ApplyEdit(edit.Insert{Pos: pos(0, 1), Text: "b"}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := b.Undo(); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := b.Redo(); !ok {
		t.Fatal("Redo failed after branching")
	}
	if b.String() != "xb" {
		t.Errorf("redo picked %q, want %q", b.String(), "xb")
	}
}

// A batch and the same commands applied one at a time produce the same
// content; the batch undoes in a single step.
func TestBatchEquivalence(t *testing.T) {
	cmds := []edit.Command{
		edit.Insert{Pos: pos(0, 0), Text: "one\n"},
		edit.Insert{Pos: pos(1, 0), Text: "two\n"},
		edit.Delete{Range: rng(0, 0, 0, 1)},
	}

	batched := NewFromString("")
	if _, err := batched.ApplyEdit(edit.Batch{Commands: cmds}); err != nil {
		t.Fatal(err)
	}
	sequential := NewFromString("")
	for _, cmd := range cmds {
		if _, err := sequential.ApplyEdit(cmd); err != nil {
			t.Fatal(err)
		}
	}
	if batched.String() != sequential.String() {
		t.Errorf("batch %q != sequential %q", batched.String(), sequential.String())
	}

	if _, ok, _ := batched.Undo(); !ok {
		t.Fatal("batch undo failed")
	}
	if batched.String() != "" {
		t.Errorf("after batch undo: %q, want empty", batched.String())
	}
}

func TestIndentRoundTrip(t *testing.T) {
	b := NewFromString("a\n    b\nc")
	if _, err := b.ApplyEdit(edit.IndentLines{Lines: []int{0, 1, 2}, Direction: edit.IndentIn}); err != nil {
		t.Fatal(err)
	}
	if b.String() != "    a\n        b\n    c" {
		t.Fatalf("after indent: %q", b.String())
	}
	if _, ok, _ := b.Undo(); !ok {
		t.Fatal("undo failed")
	}
	if b.String() != "a\n    b\nc" {
		t.Errorf("after undo: %q", b.String())
	}
}

// Outdent's inverse lists only lines that actually lost spaces, so
// undoing does not indent lines that had no leading whitespace.
func TestOutdentInverseSkipsUnchangedLines(t *testing.T) {
	b := NewFromString("    a\nb")
	if _, err := b.ApplyEdit(edit.IndentLines{Lines: []int{0, 1}, Direction: edit.IndentOut}); err != nil {
		t.Fatal(err)
	}
	if b.String() != "a\nb" {
		t.Fatalf("after outdent: %q", b.String())
	}
	if _, ok, _ := b.Undo(); !ok {
		t.Fatal("undo failed")
	}
	if b.String() != "    a\nb" {
		t.Errorf("after undo: %q, want %q", b.String(), "    a\nb")
	}
}

func TestCursorRemapOnEdit(t *testing.T) {
	b := NewFromString("hello world")
	b.Cursors.Reset(pos(0, 8))
	if _, err := b.ApplyEdit(edit.Insert{Pos: pos(0, 5), Text: "!!"}); err != nil {
		t.Fatal(err)
	}
	if got := b.Cursors.Primary().Pos; got != pos(0, 10) {
		t.Errorf("cursor = %v, want %v", got, pos(0, 10))
	}
}

func TestLineEndingRoundTrip(t *testing.T) {
	b := NewFromString("a\r\nb\r\n")
	// CRLF input is normalised to LF internally.
	if b.String() != "a\nb\n" {
		t.Errorf("internal content = %q", b.String())
	}
	if b.LineCount() != 3 {
		t.Errorf("LineCount = %d, want 3", b.LineCount())
	}
}
