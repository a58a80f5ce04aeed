package cursor

import "github.com/smash-editor/smash/internal/types"

// RectSelection is a rectangular (column) selection stored as its two
// corners. It expands to per-line selections only when an edit needs
// them, so it never holds stale per-line data.
type RectSelection struct {
	CornerA types.Position
	CornerB types.Position
}

// Expand produces one selection per covered line using the supplied line
// lengths. Lines shorter than the start column are skipped; end columns
// clamp to the line length.
func (r RectSelection) Expand(lineLens []int) []types.Range {
	topLine, bottomLine := r.CornerA.Line, r.CornerB.Line
	if bottomLine < topLine {
		topLine, bottomLine = bottomLine, topLine
	}
	startCol, endCol := r.CornerA.Col, r.CornerB.Col
	if endCol < startCol {
		startCol, endCol = endCol, startCol
	}

	var out []types.Range
	for line := topLine; line <= bottomLine; line++ {
		if line < 0 || line >= len(lineLens) {
			continue
		}
		lineLen := lineLens[line]
		if lineLen < startCol {
			continue
		}
		to := endCol
		if to > lineLen {
			to = lineLen
		}
		out = append(out, types.Range{
			Start: types.Position{Line: line, Col: startCol},
			End:   types.Position{Line: line, Col: to},
		})
	}
	return out
}
