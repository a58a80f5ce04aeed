// internal/buffer/edit.go
package buffer

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/smash-editor/smash/internal/edit"
	"github.com/smash-editor/smash/internal/types"
)

// ApplyEdit runs a command through the edit engine, records it on the
// undo tree, marks the buffer dirty and remaps every cursor. It is the
// only entry point that records history; recursive sub-commands go
// through applyEditInner.
func (b *Buffer) ApplyEdit(cmd edit.Command) ([]types.EditInfo, error) {
	cursorBefore := b.Cursors.Primary().Pos
	events, inverse, err := b.applyEditInner(cmd)
	if err != nil {
		return nil, err
	}
	b.History.Record(inverse, cmd, cursorBefore)
	b.dirty = true
	b.remapCursors(events)
	return events, nil
}

// Undo reverts the current history node and restores the cursor recorded
// before the original edit. Returns false when there is nothing to undo.
func (b *Buffer) Undo() ([]types.EditInfo, bool, error) {
	cmd, cursorBefore, ok := b.History.Undo()
	if !ok {
		return nil, false, nil
	}
	events, _, err := b.applyEditInner(cmd)
	if err != nil {
		return nil, false, fmt.Errorf("undo failed: %w", err)
	}
	b.dirty = true
	b.Cursors.Reset(cursorBefore)
	return events, true, nil
}

// Redo reapplies the most recently added child of the current node.
func (b *Buffer) Redo() ([]types.EditInfo, bool, error) {
	cmd, ok := b.History.Redo()
	if !ok {
		return nil, false, nil
	}
	events, _, err := b.applyEditInner(cmd)
	if err != nil {
		return nil, false, fmt.Errorf("redo failed: %w", err)
	}
	b.dirty = true
	b.remapCursors(events)
	return events, true, nil
}

func (b *Buffer) remapCursors(events []types.EditInfo) {
	for _, ev := range events {
		b.Cursors.RemapAfterEdit(ev.StartPos, ev.OldEndPos, ev.NewEndPos)
	}
}

// applyEditInner dispatches a command, mutates the rope and returns the
// emitted edit events plus the inverse command. It never touches the
// undo tree; Batch and IndentLines recurse through it.
func (b *Buffer) applyEditInner(cmd edit.Command) ([]types.EditInfo, edit.Command, error) {
	switch c := cmd.(type) {
	case edit.Insert:
		return b.applyInsert(c)
	case edit.Delete:
		return b.applyDelete(c)
	case edit.Replace:
		return b.applyReplace(c)
	case edit.IndentLines:
		return b.applyIndent(c)
	case edit.Batch:
		return b.applyBatch(c)
	default:
		return nil, nil, fmt.Errorf("unknown edit command %T", cmd)
	}
}

func (b *Buffer) applyInsert(c edit.Insert) ([]types.EditInfo, edit.Command, error) {
	charIdx, err := b.PosToChar(c.Pos)
	if err != nil {
		return nil, nil, err
	}
	startByte := b.rope.CharToByte(charIdx)
	b.rope.Insert(charIdx, c.Text)

	newCharIdx := charIdx + utf8.RuneCountInString(c.Text)
	newEndByte := b.rope.CharToByte(newCharIdx)
	newEndPos := b.CharToPos(newCharIdx)

	ev := types.EditInfo{
		StartByte:  uint32(startByte),
		OldEndByte: uint32(startByte),
		NewEndByte: uint32(newEndByte),
		StartPos:   c.Pos,
		OldEndPos:  c.Pos,
		NewEndPos:  newEndPos,
	}
	inverse := edit.Delete{Range: types.Range{Start: c.Pos, End: newEndPos}}
	return []types.EditInfo{ev}, inverse, nil
}

func (b *Buffer) applyDelete(c edit.Delete) ([]types.EditInfo, edit.Command, error) {
	r := types.NewRange(c.Range.Start, c.Range.End)
	startChar, err := b.PosToChar(r.Start)
	if err != nil {
		return nil, nil, err
	}
	endChar, err := b.PosToChar(r.End)
	if err != nil {
		return nil, nil, err
	}
	startByte := b.rope.CharToByte(startChar)
	oldEndByte := b.rope.CharToByte(endChar)
	captured := b.rope.Slice(startChar, endChar)
	b.rope.Remove(startChar, endChar)

	ev := types.EditInfo{
		StartByte:  uint32(startByte),
		OldEndByte: uint32(oldEndByte),
		NewEndByte: uint32(startByte),
		StartPos:   r.Start,
		OldEndPos:  r.End,
		NewEndPos:  r.Start,
	}
	inverse := edit.Insert{Pos: r.Start, Text: captured}
	return []types.EditInfo{ev}, inverse, nil
}

func (b *Buffer) applyReplace(c edit.Replace) ([]types.EditInfo, edit.Command, error) {
	r := types.NewRange(c.Range.Start, c.Range.End)
	startChar, err := b.PosToChar(r.Start)
	if err != nil {
		return nil, nil, err
	}
	endChar, err := b.PosToChar(r.End)
	if err != nil {
		return nil, nil, err
	}
	startByte := b.rope.CharToByte(startChar)
	oldEndByte := b.rope.CharToByte(endChar)
	oldText := b.rope.Slice(startChar, endChar)

	b.rope.Remove(startChar, endChar)
	b.rope.Insert(startChar, c.Text)

	newCharIdx := startChar + utf8.RuneCountInString(c.Text)
	newEndByte := b.rope.CharToByte(newCharIdx)
	newEndPos := b.CharToPos(newCharIdx)

	ev := types.EditInfo{
		StartByte:  uint32(startByte),
		OldEndByte: uint32(oldEndByte),
		NewEndByte: uint32(newEndByte),
		StartPos:   r.Start,
		OldEndPos:  r.End,
		NewEndPos:  newEndPos,
	}
	inverse := edit.Replace{Range: types.Range{Start: r.Start, End: newEndPos}, Text: oldText}
	return []types.EditInfo{ev}, inverse, nil
}

// applyIndent processes target lines in reverse so earlier line positions
// stay valid while later ones are rewritten.
func (b *Buffer) applyIndent(c edit.IndentLines) ([]types.EditInfo, edit.Command, error) {
	lines := append([]int(nil), c.Lines...)
	sort.Ints(lines)

	var events []types.EditInfo
	indent := strings.Repeat(" ", edit.IndentWidth)

	if c.Direction == edit.IndentIn {
		for i := len(lines) - 1; i >= 0; i-- {
			line := lines[i]
			evs, _, err := b.applyEditInner(edit.Insert{
				Pos:  types.Position{Line: line, Col: 0},
				Text: indent,
			})
			if err != nil {
				return nil, nil, err
			}
			events = append(events, evs...)
		}
		inverse := edit.IndentLines{Lines: lines, Direction: edit.IndentOut}
		return events, inverse, nil
	}

	// Outdent: only lines that actually lost spaces appear in the inverse.
	var outdented []int
	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		if line < 0 || line >= b.rope.LineCount() {
			return nil, nil, &OutOfBoundsError{Pos: types.Position{Line: line}}
		}
		n := leadingSpaces(b.rope.Line(line), edit.IndentWidth)
		if n == 0 {
			continue
		}
		evs, _, err := b.applyEditInner(edit.Delete{
			Range: types.Range{
				Start: types.Position{Line: line, Col: 0},
				End:   types.Position{Line: line, Col: n},
			},
		})
		if err != nil {
			return nil, nil, err
		}
		events = append(events, evs...)
		outdented = append(outdented, line)
	}
	sort.Ints(outdented)
	inverse := edit.IndentLines{Lines: outdented, Direction: edit.IndentIn}
	return events, inverse, nil
}

func (b *Buffer) applyBatch(c edit.Batch) ([]types.EditInfo, edit.Command, error) {
	var events []types.EditInfo
	inverses := make([]edit.Command, 0, len(c.Commands))
	for _, sub := range c.Commands {
		evs, inv, err := b.applyEditInner(sub)
		if err != nil {
			return nil, nil, err
		}
		events = append(events, evs...)
		inverses = append(inverses, inv)
	}
	// Inverse applies the sub-inverses in reverse order.
	for i, j := 0, len(inverses)-1; i < j; i, j = i+1, j-1 {
		inverses[i], inverses[j] = inverses[j], inverses[i]
	}
	return events, edit.Batch{Commands: inverses}, nil
}

func leadingSpaces(line string, max int) int {
	n := 0
	for _, ch := range line {
		if ch != ' ' || n >= max {
			break
		}
		n++
	}
	return n
}
