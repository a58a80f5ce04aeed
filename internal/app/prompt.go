// internal/app/prompt.go
package app

import (
	"github.com/gdamore/tcell/v2"
)

// PromptKind selects what a committed prompt does.
type PromptKind int

const (
	PromptNone PromptKind = iota
	PromptSearch
	PromptSaveAs
)

// Prompt is the one-line input shown in the status bar. While active,
// keys edit the prompt text; Esc cancels, Enter commits.
type Prompt struct {
	kind  PromptKind
	label string
	text  []rune
}

func (p *Prompt) Active() bool { return p.kind != PromptNone }

func (p *Prompt) Open(kind PromptKind, label string) {
	p.kind = kind
	p.label = label
	p.text = nil
}

func (p *Prompt) close() {
	p.kind = PromptNone
	p.label = ""
	p.text = nil
}

// Render is the status-bar representation of the prompt.
func (p *Prompt) Render() string {
	return p.label + string(p.text)
}

// handlePromptKey edits the active prompt; commit and cancel fall
// through to the app.
func (a *App) handlePromptKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		a.prompt.close()
	case tcell.KeyEnter:
		kind, text := a.prompt.kind, string(a.prompt.text)
		a.prompt.close()
		a.commitPrompt(kind, text)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if n := len(a.prompt.text); n > 0 {
			a.prompt.text = a.prompt.text[:n-1]
		}
	case tcell.KeyRune:
		if ev.Modifiers()&^tcell.ModShift == 0 {
			a.prompt.text = append(a.prompt.text, ev.Rune())
		}
	}
}

func (a *App) commitPrompt(kind PromptKind, text string) {
	switch kind {
	case PromptSearch:
		if text == "" {
			return
		}
		if !a.editor.StartSearch(text, false) {
			a.setStatus("no matches for %q", text)
		}
	case PromptSaveAs:
		if text == "" {
			return
		}
		if err := a.editor.SaveAs(text); err != nil {
			a.setStatus("save failed: %v", err)
			return
		}
		a.lsp.SaveDocument(a.editor.LanguageID(), a.editor.URI())
	}
}
