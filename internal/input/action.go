// internal/input/action.go
package input

// Action is an editor operation produced by the key resolver.
type Action int

const (
	ActionUnknown Action = iota
	ActionPending // partial sequence match, wait for the next key

	// Application
	ActionQuit
	ActionForceQuit
	ActionSave

	// Cursor movement
	ActionMoveUp
	ActionMoveDown
	ActionMoveLeft
	ActionMoveRight
	ActionMovePageUp
	ActionMovePageDown
	ActionMoveHome
	ActionMoveEnd
	ActionMoveFileStart
	ActionMoveFileEnd

	// Editing
	ActionInsertChar // carries a rune
	ActionInsertNewLine
	ActionDeleteCharForward
	ActionDeleteCharBackward
	ActionIndent
	ActionOutdent
	ActionUndo
	ActionRedo

	// Clipboard
	ActionCopy
	ActionCut
	ActionPaste
	ActionSelectAll

	// Search
	ActionSearchPrompt
	ActionSearchNext
	ActionSearchPrev

	// Language server
	ActionCompletion
	ActionHover
	ActionGotoDefinition
	ActionFormat

	// Embedded terminal
	ActionToggleTerminal

	// Prompts
	ActionCancel
	ActionConfirm
)

// ActionEvent is a resolved input: the action plus its payload.
type ActionEvent struct {
	Action Action
	Rune   rune // for ActionInsertChar
}
