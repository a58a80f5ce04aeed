// internal/types/position.go
package types

// Position represents a cursor or text position within a buffer.
// Line is the 0-based line index.
// Col is the 0-based column (rune) index within the line.
// Using rune index is important for Unicode handling.
type Position struct {
	Line int
	Col  int // Rune index
}

// Before reports whether p orders strictly before other (line first, then column).
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Col < other.Col
}

// After reports whether p orders strictly after other.
func (p Position) After(other Position) bool {
	return other.Before(p)
}

// Compare returns -1, 0 or 1 depending on the order of p relative to other.
func (p Position) Compare(other Position) int {
	switch {
	case p.Before(other):
		return -1
	case p.After(other):
		return 1
	default:
		return 0
	}
}

// Range is a span of text between two positions with Start <= End.
type Range struct {
	Start Position
	End   Position
}

// NewRange builds a Range, swapping the endpoints if they arrive out of order.
func NewRange(a, b Position) Range {
	if b.Before(a) {
		a, b = b, a
	}
	return Range{Start: a, End: b}
}

// IsEmpty reports whether the range covers no text.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Contains reports whether pos lies within [Start, End).
func (r Range) Contains(pos Position) bool {
	return !pos.Before(r.Start) && pos.Before(r.End)
}

// Overlaps reports whether two ranges intersect. Touching ranges do not overlap.
func (r Range) Overlaps(other Range) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}
