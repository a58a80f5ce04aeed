// Package edit defines the reversible edit commands applied to buffers.
package edit

import "github.com/smash-editor/smash/internal/types"

// IndentDirection selects whether IndentLines adds or removes indentation.
type IndentDirection int

const (
	IndentIn IndentDirection = iota
	IndentOut
)

// IndentWidth is the number of spaces inserted or removed per indent step.
const IndentWidth = 4

// Command is a single buffer mutation. Commands are pure data; the buffer's
// edit engine interprets them and computes their inverses.
type Command interface {
	isCommand()
}

// Insert places Text at Pos.
type Insert struct {
	Pos  types.Position
	Text string
}

// Delete removes the text covered by Range.
type Delete struct {
	Range types.Range
}

// Replace swaps the text covered by Range for Text atomically.
type Replace struct {
	Range types.Range
	Text  string
}

// IndentLines shifts the listed lines in or out by IndentWidth spaces.
type IndentLines struct {
	Lines     []int
	Direction IndentDirection
}

// Batch applies sub-commands in order; its inverse is the reversed list
// of sub-inverses.
type Batch struct {
	Commands []Command
}

func (Insert) isCommand()      {}
func (Delete) isCommand()      {}
func (Replace) isCommand()     {}
func (IndentLines) isCommand() {}
func (Batch) isCommand()       {}
