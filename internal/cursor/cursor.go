// Package cursor maintains the multi-cursor set of a buffer: a primary
// cursor, any number of secondaries, selection ranges and the remapping
// that keeps all of them valid across edits.
package cursor

import (
	"sort"

	"github.com/smash-editor/smash/internal/types"
)

// Cursor is a caret with an optional selection anchor. With an anchor the
// selection range is the (min, max) of the two positions.
type Cursor struct {
	Pos     types.Position
	Anchor  *types.Position
	primary bool
}

// Selection returns the selected range, if any.
func (c Cursor) Selection() (types.Range, bool) {
	if c.Anchor == nil {
		return types.Range{}, false
	}
	return types.NewRange(*c.Anchor, c.Pos), true
}

// span is the cursor's footprint for overlap checks: the selection range,
// or the empty range at the caret.
func (c Cursor) span() types.Range {
	if sel, ok := c.Selection(); ok {
		return sel
	}
	return types.Range{Start: c.Pos, End: c.Pos}
}

// Set is a sequence of cursors kept sorted by position. Cursors sharing a
// position or with intersecting selections merge on insertion.
type Set struct {
	cursors []Cursor
}

// NewSet creates a set holding a single primary cursor at the origin.
func NewSet() *Set {
	return &Set{cursors: []Cursor{{primary: true}}}
}

// Reset collapses the set to a single primary cursor at pos.
func (s *Set) Reset(pos types.Position) {
	s.cursors = s.cursors[:0]
	s.cursors = append(s.cursors, Cursor{Pos: pos, primary: true})
}

// Primary returns the primary cursor.
func (s *Set) Primary() Cursor {
	for _, c := range s.cursors {
		if c.primary {
			return c
		}
	}
	return s.cursors[0]
}

// SetPrimary moves the primary cursor, clearing its anchor.
func (s *Set) SetPrimary(pos types.Position) {
	for i := range s.cursors {
		if s.cursors[i].primary {
			s.cursors[i].Pos = pos
			s.cursors[i].Anchor = nil
			s.normalize()
			return
		}
	}
}

// SetPrimarySelection moves the primary cursor keeping an anchor.
func (s *Set) SetPrimarySelection(anchor, pos types.Position) {
	for i := range s.cursors {
		if s.cursors[i].primary {
			a := anchor
			s.cursors[i].Pos = pos
			s.cursors[i].Anchor = &a
			s.normalize()
			return
		}
	}
}

// Add inserts a secondary cursor and re-normalises the set.
func (s *Set) Add(c Cursor) {
	s.cursors = append(s.cursors, c)
	s.normalize()
}

// All returns the cursors in position order.
func (s *Set) All() []Cursor {
	out := make([]Cursor, len(s.cursors))
	copy(out, s.cursors)
	return out
}

// Len returns the number of cursors.
func (s *Set) Len() int { return len(s.cursors) }

// normalize sorts by position and merges overlapping cursors.
func (s *Set) normalize() {
	sort.SliceStable(s.cursors, func(i, j int) bool {
		return s.cursors[i].Pos.Before(s.cursors[j].Pos)
	})
	merged := s.cursors[:0]
	for _, c := range s.cursors {
		if len(merged) == 0 {
			merged = append(merged, c)
			continue
		}
		last := &merged[len(merged)-1]
		if overlaps(*last, c) {
			*last = merge(*last, c)
		} else {
			merged = append(merged, c)
		}
	}
	s.cursors = merged
	// The set always keeps a primary; adopt the first cursor if merging
	// dropped the flag entirely.
	for i := range s.cursors {
		if s.cursors[i].primary {
			return
		}
	}
	if len(s.cursors) > 0 {
		s.cursors[0].primary = true
	}
}

// overlaps reports whether two cursors share a position or their
// selections intersect.
func overlaps(a, b Cursor) bool {
	if a.Pos == b.Pos {
		return true
	}
	as, bs := a.span(), b.span()
	return as.Start.Before(bs.End) && bs.Start.Before(as.End)
}

// merge combines two overlapping cursors. Two selections merge into the
// enclosing range; otherwise the later position wins.
func merge(a, b Cursor) Cursor {
	primary := a.primary || b.primary
	selA, okA := a.Selection()
	selB, okB := b.Selection()
	if okA && okB {
		start := selA.Start
		if selB.Start.Before(start) {
			start = selB.Start
		}
		end := selA.End
		if end.Before(selB.End) {
			end = selB.End
		}
		anchor := start
		return Cursor{Pos: end, Anchor: &anchor, primary: primary}
	}
	later := a
	if later.Pos.Before(b.Pos) {
		later = b
	}
	later.primary = primary
	return later
}

// RemapAfterEdit adjusts every cursor position and anchor for one edit
// described by its (start, old end, new end) position triple.
func (s *Set) RemapAfterEdit(editPos, oldEnd, newEnd types.Position) {
	for i := range s.cursors {
		s.cursors[i].Pos = RemapPosition(s.cursors[i].Pos, editPos, oldEnd, newEnd)
		if s.cursors[i].Anchor != nil {
			a := RemapPosition(*s.cursors[i].Anchor, editPos, oldEnd, newEnd)
			s.cursors[i].Anchor = &a
		}
	}
	s.normalize()
}

// RemapPosition maps one point across an edit:
//   - points at or before the edit start are unchanged;
//   - points at or past the old end shift by the edit's line delta (and
//     column delta when they shared the old end's line);
//   - points strictly inside the replaced region clamp to the new end.
func RemapPosition(p, editPos, oldEnd, newEnd types.Position) types.Position {
	if !editPos.Before(p) {
		return p
	}
	if !p.Before(oldEnd) {
		lineDelta := newEnd.Line - oldEnd.Line
		out := types.Position{Line: p.Line + lineDelta, Col: p.Col}
		if p.Line == oldEnd.Line {
			out.Col += newEnd.Col - oldEnd.Col
		}
		return out
	}
	return newEnd
}
