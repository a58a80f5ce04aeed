package types

import sitter "github.com/smacker/go-tree-sitter"

// EditInfo is the byte- and position-delta record for one buffer mutation.
// Incremental parsers (tree-sitter) consume exactly this shape.
type EditInfo struct {
	StartByte  uint32 // Start byte of the edit
	OldEndByte uint32 // End byte of the old text
	NewEndByte uint32 // End byte of the new text
	StartPos   Position
	OldEndPos  Position
	NewEndPos  Position
}

// TreeSitterInput converts the edit record into tree-sitter's EditInput
// so an existing syntax tree can be adjusted before reparsing.
func (e EditInfo) TreeSitterInput() sitter.EditInput {
	return sitter.EditInput{
		StartIndex:  e.StartByte,
		OldEndIndex: e.OldEndByte,
		NewEndIndex: e.NewEndByte,
		StartPoint:  sitter.Point{Row: uint32(e.StartPos.Line), Column: uint32(e.StartPos.Col)},
		OldEndPoint: sitter.Point{Row: uint32(e.OldEndPos.Line), Column: uint32(e.OldEndPos.Col)},
		NewEndPoint: sitter.Point{Row: uint32(e.NewEndPos.Line), Column: uint32(e.NewEndPos.Col)},
	}
}
