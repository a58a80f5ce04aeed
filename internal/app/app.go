// internal/app/app.go
package app

import (
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/smash-editor/smash/internal/config"
	"github.com/smash-editor/smash/internal/event"
	"github.com/smash-editor/smash/internal/input"
	"github.com/smash-editor/smash/internal/logger"
	"github.com/smash-editor/smash/internal/theme"
	"github.com/smash-editor/smash/internal/tui"
	"github.com/smash-editor/smash/internal/types"
)

// pollInterval bounds how long the loop waits for input before
// draining background work again.
const pollInterval = 50 * time.Millisecond

// statusMessageTTL is how long a transient status message stays up.
const statusMessageTTL = 4 * time.Second

// workDir is the project root reported to language servers.
func workDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return dir
}

// App wires the editor core, renderer, input resolver, language
// server bridge, and embedded terminal into the main loop.
type App struct {
	cfg      config.Config
	backend  *tui.TcellBackend
	renderer *tui.Renderer
	theme    *theme.Theme
	editor   *Editor
	resolver *input.Resolver
	events   *event.Manager
	lsp      *LspManager
	prompt   *Prompt
	terminal *Terminal

	quit        bool
	renderDirty bool

	statusMessage string
	statusTime    time.Time

	tcellEvents  chan tcell.Event
	autoSaveTick <-chan time.Time
}

// New builds the application for an optional file path.
func New(path string, cfg config.Config) (*App, error) {
	backend, err := tui.NewTcellBackend()
	if err != nil {
		return nil, err
	}
	if err := backend.EnableRawMode(); err != nil {
		return nil, err
	}

	events := event.NewManager()
	editor, err := NewEditor(path, cfg.Editor, events)
	if err != nil {
		_ = backend.DisableRawMode()
		return nil, err
	}

	th := theme.ByName(cfg.Display.Theme)
	resolver := input.NewResolver()
	if layer := input.LayerForPreset(cfg.Keymap.Preset); layer != nil {
		resolver.Push(layer)
	}

	a := &App{
		cfg:         cfg,
		backend:     backend,
		renderer:    tui.NewRenderer(backend, th),
		theme:       th,
		editor:      editor,
		resolver:    resolver,
		events:      events,
		lsp:         NewLspManager(cfg.Lsp, workDir()),
		prompt:      &Prompt{},
		renderDirty: true,
		tcellEvents: make(chan tcell.Event, 16),
	}
	if cfg.AutoSaveIntervalSecs > 0 {
		a.autoSaveTick = time.Tick(time.Duration(cfg.AutoSaveIntervalSecs) * time.Second)
	}

	a.events.Subscribe(event.TypeBufferModified, func(event.Event) bool {
		a.renderDirty = true
		return false
	})
	a.events.Subscribe(event.TypeCursorMoved, func(event.Event) bool {
		a.renderDirty = true
		return false
	})
	a.events.Subscribe(event.TypeBufferSaved, func(e event.Event) bool {
		if data, ok := e.Data.(event.BufferSavedData); ok {
			a.setStatus("saved %s", data.FilePath)
		}
		return false
	})

	a.syncViewSize()
	a.openDocument()
	return a, nil
}

func (a *App) openDocument() {
	if uri := a.editor.URI(); uri != "" && a.editor.LanguageID() != "" {
		a.lsp.OpenDocument(a.editor.LanguageID(), uri, a.editor.Version(), a.editor.Buffer.String())
	}
}

func (a *App) syncViewSize() {
	w, h := a.backend.Size()
	a.renderer.Resize(w, h)
	a.editor.Resize(w-tui.GutterWidth, h-1) // one row for the status bar
	if a.terminal != nil {
		a.terminal.Resize(w, (h-1)-(h-1)/2)
	}
}

// Run drives the loop until quit. It always restores the terminal.
func (a *App) Run() error {
	defer a.backend.DisableRawMode()
	defer a.editor.Close()
	defer a.lsp.Shutdown()
	defer a.closeTerminal()

	go func() {
		screen := a.backend.Screen()
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(a.tcellEvents)
				return
			}
			a.tcellEvents <- ev
		}
	}()

	a.render()
	for !a.quit {
		a.drainBackground()
		select {
		case ev, ok := <-a.tcellEvents:
			if !ok {
				return nil
			}
			a.handleTcellEvent(ev)
		case <-a.autoSaveTick:
			a.autoSave()
		case <-time.After(pollInterval):
		}
		if a.renderDirty {
			a.render()
			a.renderDirty = false
		}
	}
	a.events.Dispatch(event.TypeAppQuit, event.AppQuitData{})
	return nil
}

func (a *App) autoSave() {
	if a.editor.Buffer.FilePath() == "" || !a.editor.Buffer.IsDirty() {
		return
	}
	if err := a.editor.Save(); err != nil {
		a.setStatus("auto-save failed: %v", err)
		return
	}
	a.lsp.SaveDocument(a.editor.LanguageID(), a.editor.URI())
	a.renderDirty = true
}

// drainBackground pulls pending LSP events and terminal output without
// blocking.
func (a *App) drainBackground() {
	for _, ev := range a.lsp.Drain() {
		a.handleLspEvent(ev)
	}
	if a.terminal != nil && a.terminal.Drain() {
		a.renderDirty = true
	}
}

func (a *App) handleLspEvent(ev LspEvent) {
	a.renderDirty = true
	switch ev.Kind {
	case LspEventDiagnostics:
		a.events.Dispatch(event.TypeDiagnosticsUpdated, event.DiagnosticsUpdatedData{
			URI:   ev.URI,
			Count: len(ev.Diagnostics),
		})
		if ev.URI == a.editor.URI() && len(ev.Diagnostics) > 0 {
			a.setStatus("%d diagnostic(s)", len(ev.Diagnostics))
		}
	case LspEventHover:
		if ev.HoverText != "" {
			a.setStatus("%s", firstLine(ev.HoverText))
		}
	case LspEventCompletion:
		if len(ev.Completions) > 0 {
			a.setStatus("completion: %s", ev.Completions[0].Label)
		}
	case LspEventDefinition:
		if len(ev.Locations) > 0 {
			loc := ev.Locations[0]
			if loc.URI == a.editor.URI() {
				pos := types.Position{Line: loc.Range.Start.Line, Col: loc.Range.Start.Character}
				a.editor.moveTo(a.editor.clamp(pos), false)
			} else {
				a.setStatus("definition: %s:%d", loc.URI, loc.Range.Start.Line+1)
			}
		}
	case LspEventFormatting:
		if err := a.editor.ApplyTextEdits(ev.Edits); err != nil {
			a.setStatus("format failed: %v", err)
		}
	case LspEventFailure:
		if ev.Err != nil {
			a.setStatus("lsp: %v", ev.Err)
		}
	}
}

func (a *App) handleTcellEvent(ev tcell.Event) {
	switch tev := ev.(type) {
	case *tcell.EventResize:
		a.syncViewSize()
		a.renderDirty = true
	case *tcell.EventKey:
		a.handleKey(tev)
	}
}

func (a *App) handleKey(ev *tcell.EventKey) {
	a.renderDirty = true

	// A focused embedded terminal captures keys; Esc returns focus to
	// the buffer.
	if a.terminal != nil && a.terminal.Focused {
		if ev.Key() == tcell.KeyEscape {
			a.terminal.Focused = false
			return
		}
		if data := input.EncodeKey(ev); data != nil {
			if err := a.terminal.Write(data); err != nil {
				a.setStatus("terminal: %v", err)
			}
		}
		return
	}

	if a.prompt.Active() {
		a.handlePromptKey(ev)
		return
	}

	a.dispatch(a.resolver.Resolve(ev))
}

func (a *App) render() {
	w, h := a.renderer.Size()
	if w <= 0 || h <= 1 {
		return
	}
	bufArea := tui.Rect{X: 0, Y: 0, W: w, H: h - 1}
	if a.terminal != nil {
		split := (h - 1) / 2
		bufArea.H = split
		a.terminal.Render(a.renderer, tui.Rect{X: 0, Y: split, W: w, H: h - 1 - split}, a.theme)
	}

	a.renderer.RenderBuffer(a.editor.Buffer, bufArea, a.editor.View, a.editor.SpansFor)
	if rng, ok := a.editor.Selection(); ok {
		a.renderer.OverlayRange(bufArea, a.editor.View, rng, a.theme.GetStyle("Selection"))
	}
	for _, m := range a.editor.Buffer.Search.Matches() {
		a.renderer.OverlayRange(bufArea, a.editor.View, m.Range, a.theme.GetStyle("SearchHighlight"))
	}

	statusArea := tui.Rect{X: 0, Y: h - 1, W: w, H: 1}
	a.renderer.RenderStatusBar(statusArea, a.editor.StatusName(), a.editor.Buffer.IsDirty(), a.editor.CursorPos(), a.statusText())

	if a.terminal != nil && a.terminal.Focused {
		a.terminal.SetCursor(a.backend)
	} else {
		a.renderer.SetCursor(bufArea, a.editor.View, a.editor.CursorPos(), a.editor.CursorLine())
	}
	if err := a.renderer.Flush(); err != nil {
		logger.Errorf("render: %v", err)
	}
}

func (a *App) statusText() string {
	if a.prompt.Active() {
		return a.prompt.Render()
	}
	if a.statusMessage != "" && time.Since(a.statusTime) < statusMessageTTL {
		return a.statusMessage
	}
	return ""
}

func (a *App) setStatus(format string, args ...interface{}) {
	a.statusMessage = fmt.Sprintf(format, args...)
	a.statusTime = time.Now()
	a.renderDirty = true
}

func firstLine(s string) string {
	for i, ch := range s {
		if ch == '\n' {
			return s[:i]
		}
	}
	return s
}
