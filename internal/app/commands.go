// internal/app/commands.go
package app

import (
	"github.com/smash-editor/smash/internal/input"
	"github.com/smash-editor/smash/internal/lsp"
)

// dispatch executes one resolved action against the editor.
func (a *App) dispatch(ev input.ActionEvent) {
	switch ev.Action {
	case input.ActionUnknown, input.ActionPending:
		return

	case input.ActionQuit:
		if a.editor.Buffer.IsDirty() {
			a.setStatus("unsaved changes: save first or force quit")
			return
		}
		a.quit = true
	case input.ActionForceQuit:
		a.quit = true
	case input.ActionSave:
		a.save()

	case input.ActionMoveUp:
		a.editor.MoveCursor(-1, 0, false)
	case input.ActionMoveDown:
		a.editor.MoveCursor(1, 0, false)
	case input.ActionMoveLeft:
		a.editor.MoveCursor(0, -1, false)
	case input.ActionMoveRight:
		a.editor.MoveCursor(0, 1, false)
	case input.ActionMovePageUp:
		a.editor.MovePage(-1, false)
	case input.ActionMovePageDown:
		a.editor.MovePage(1, false)
	case input.ActionMoveHome:
		a.editor.MoveHome(false)
	case input.ActionMoveEnd:
		a.editor.MoveEnd(false)
	case input.ActionMoveFileStart:
		a.editor.MoveFileStart(false)
	case input.ActionMoveFileEnd:
		a.editor.MoveFileEnd(false)

	case input.ActionInsertChar:
		a.editing(a.editor.InsertRune(ev.Rune))
	case input.ActionInsertNewLine:
		a.editing(a.editor.InsertNewLine())
	case input.ActionDeleteCharForward:
		a.editing(a.editor.DeleteForward())
	case input.ActionDeleteCharBackward:
		a.editing(a.editor.DeleteBackward())
	case input.ActionIndent:
		a.editing(a.editor.Indent())
	case input.ActionOutdent:
		a.editing(a.editor.Outdent())

	case input.ActionUndo:
		if ok, err := a.editor.Undo(); err != nil {
			a.setStatus("undo failed: %v", err)
		} else if !ok {
			a.setStatus("nothing to undo")
		} else {
			a.documentChanged()
		}
	case input.ActionRedo:
		if ok, err := a.editor.Redo(); err != nil {
			a.setStatus("redo failed: %v", err)
		} else if !ok {
			a.setStatus("nothing to redo")
		} else {
			a.documentChanged()
		}

	case input.ActionCopy:
		if !a.editor.Copy() {
			a.setStatus("nothing selected")
		}
	case input.ActionCut:
		if cut, err := a.editor.Cut(); err != nil {
			a.setStatus("cut failed: %v", err)
		} else if cut {
			a.documentChanged()
		}
	case input.ActionPaste:
		a.editing(a.editor.Paste())
	case input.ActionSelectAll:
		a.editor.SelectAll()

	case input.ActionSearchPrompt:
		a.prompt.Open(PromptSearch, "search: ")
	case input.ActionSearchNext:
		if !a.editor.NextMatch() {
			a.setStatus("no matches")
		}
	case input.ActionSearchPrev:
		if !a.editor.PrevMatch() {
			a.setStatus("no matches")
		}

	case input.ActionCompletion:
		a.lsp.RequestCompletion(a.editor.LanguageID(), a.editor.URI(), a.cursorLspPos())
	case input.ActionHover:
		a.lsp.RequestHover(a.editor.LanguageID(), a.editor.URI(), a.cursorLspPos())
	case input.ActionGotoDefinition:
		a.lsp.RequestDefinition(a.editor.LanguageID(), a.editor.URI(), a.cursorLspPos())
	case input.ActionFormat:
		a.lsp.RequestFormatting(a.editor.LanguageID(), a.editor.URI())

	case input.ActionToggleTerminal:
		a.toggleTerminal()

	case input.ActionCancel:
		a.editor.ClearSelection()
		a.editor.ClearSearch()
		a.statusMessage = ""
	}
}

// editing reports an edit error and syncs the document to the
// language server on success.
func (a *App) editing(err error) {
	if err != nil {
		a.setStatus("edit failed: %v", err)
		return
	}
	a.documentChanged()
}

func (a *App) documentChanged() {
	if uri := a.editor.URI(); uri != "" && a.editor.LanguageID() != "" {
		a.lsp.ChangeDocument(a.editor.LanguageID(), uri, a.editor.Version(), a.editor.Buffer.String())
	}
}

func (a *App) save() {
	if a.editor.Buffer.FilePath() == "" {
		a.prompt.Open(PromptSaveAs, "save as: ")
		return
	}
	if err := a.editor.Save(); err != nil {
		a.setStatus("save failed: %v", err)
		return
	}
	a.lsp.SaveDocument(a.editor.LanguageID(), a.editor.URI())
}

func (a *App) cursorLspPos() lsp.Position {
	pos := a.editor.CursorPos()
	return lsp.Position{Line: pos.Line, Character: pos.Col}
}
