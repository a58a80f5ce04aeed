// internal/app/lspmanager.go
package app

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"

	"github.com/smash-editor/smash/internal/config"
	"github.com/smash-editor/smash/internal/logger"
	"github.com/smash-editor/smash/internal/lsp"
)

const lspCommandQueueSize = 64

// lspCommandKind enumerates what the editor can ask of the manager.
type lspCommandKind int

const (
	lspCmdOpen lspCommandKind = iota
	lspCmdChange
	lspCmdSave
	lspCmdClose
	lspCmdCompletion
	lspCmdHover
	lspCmdDefinition
	lspCmdFormatting
	lspCmdShutdown
)

// lspCommand crosses from the editor loop to the manager goroutine.
type lspCommand struct {
	kind     lspCommandKind
	language string
	uri      string
	version  int
	text     string
	pos      lsp.Position
}

// LspEventKind enumerates what the manager reports back.
type LspEventKind int

const (
	LspEventDiagnostics LspEventKind = iota
	LspEventCompletion
	LspEventHover
	LspEventDefinition
	LspEventFormatting
	LspEventFailure
)

// LspEvent is drained by the editor loop each tick.
type LspEvent struct {
	Kind        LspEventKind
	URI         string
	Diagnostics []lsp.Diagnostic
	Completions []lsp.CompletionItem
	HoverText   string
	Locations   []lsp.Location
	Edits       []lsp.TextEdit
	Err         error
}

// LspManager hosts the registry on its own goroutine. The editor loop
// sends commands over a bounded channel and drains events
// non-blockingly; it never waits on the language server.
type LspManager struct {
	cfg      config.LspConfig
	rootURI  string
	registry *lsp.Registry
	commands chan lspCommand

	mu     sync.Mutex
	events []LspEvent

	done chan struct{}
}

// NewLspManager starts the manager goroutine. rootDir is the project
// directory servers receive as rootUri.
func NewLspManager(cfg config.LspConfig, rootDir string) *LspManager {
	m := &LspManager{
		cfg:      cfg,
		rootURI:  rootURIFromDir(rootDir),
		registry: lsp.NewRegistry(),
		commands: make(chan lspCommand, lspCommandQueueSize),
		done:     make(chan struct{}),
	}
	go m.run()
	return m
}

// rootURIFromDir renders the project directory as a file URI for the
// initialize handshake; empty when no directory is known.
func rootURIFromDir(dir string) string {
	if dir == "" {
		return ""
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	return "file://" + filepath.ToSlash(abs)
}

// send enqueues a command, dropping it when the queue is full so the
// editor loop never blocks.
func (m *LspManager) send(cmd lspCommand) {
	if !m.cfg.Enabled {
		return
	}
	select {
	case m.commands <- cmd:
	default:
		logger.Warnf("lsp: command queue full, dropping %d", cmd.kind)
	}
}

func (m *LspManager) OpenDocument(language, uri string, version int, text string) {
	m.send(lspCommand{kind: lspCmdOpen, language: language, uri: uri, version: version, text: text})
}

func (m *LspManager) ChangeDocument(language, uri string, version int, text string) {
	m.send(lspCommand{kind: lspCmdChange, language: language, uri: uri, version: version, text: text})
}

func (m *LspManager) SaveDocument(language, uri string) {
	m.send(lspCommand{kind: lspCmdSave, language: language, uri: uri})
}

func (m *LspManager) CloseDocument(language, uri string) {
	m.send(lspCommand{kind: lspCmdClose, language: language, uri: uri})
}

func (m *LspManager) RequestCompletion(language, uri string, pos lsp.Position) {
	m.send(lspCommand{kind: lspCmdCompletion, language: language, uri: uri, pos: pos})
}

func (m *LspManager) RequestHover(language, uri string, pos lsp.Position) {
	m.send(lspCommand{kind: lspCmdHover, language: language, uri: uri, pos: pos})
}

func (m *LspManager) RequestDefinition(language, uri string, pos lsp.Position) {
	m.send(lspCommand{kind: lspCmdDefinition, language: language, uri: uri, pos: pos})
}

func (m *LspManager) RequestFormatting(language, uri string) {
	m.send(lspCommand{kind: lspCmdFormatting, language: language, uri: uri})
}

// Shutdown stops every server and the manager goroutine.
func (m *LspManager) Shutdown() {
	select {
	case m.commands <- lspCommand{kind: lspCmdShutdown}:
	default:
		close(m.commands)
	}
	<-m.done
}

// Drain returns and clears the pending events.
func (m *LspManager) Drain() []LspEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := m.events
	m.events = nil
	return events
}

func (m *LspManager) push(ev LspEvent) {
	m.mu.Lock()
	m.events = append(m.events, ev)
	m.mu.Unlock()
}

func (m *LspManager) run() {
	defer close(m.done)
	for cmd := range m.commands {
		if cmd.kind == lspCmdShutdown {
			break
		}
		m.handle(cmd)
	}
	m.registry.ShutdownAll()
}

// client returns the running client for a language, starting one on
// first use.
func (m *LspManager) client(language string) *lsp.Client {
	if c := m.registry.Client(language); c != nil && c.State() == lsp.StateRunning {
		return c
	}
	server, ok := m.cfg.Servers[language]
	if !ok {
		return nil
	}
	client, err := m.registry.StartServer(context.Background(), lsp.ServerConfig{
		Language: language,
		Command:  server.Command,
		Args:     server.Args,
		RootURI:  m.rootURI,
	})
	if err != nil {
		logger.Warnf("lsp: cannot start %s server: %v", language, err)
		m.push(LspEvent{Kind: LspEventFailure, Err: err})
		return nil
	}
	client.SetNotificationHandler(func(msg *lsp.Message) {
		if msg.Method != "textDocument/publishDiagnostics" {
			return
		}
		var params lsp.PublishDiagnosticsParams
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return
		}
		m.push(LspEvent{Kind: LspEventDiagnostics, URI: params.URI, Diagnostics: params.Diagnostics})
	})
	return client
}

func (m *LspManager) handle(cmd lspCommand) {
	client := m.client(cmd.language)
	if client == nil {
		return
	}
	ctx := context.Background()
	var err error
	switch cmd.kind {
	case lspCmdOpen:
		err = client.DidOpen(cmd.uri, cmd.language, cmd.version, cmd.text)
	case lspCmdChange:
		err = client.DidChange(cmd.uri, cmd.version, cmd.text)
	case lspCmdSave:
		err = client.DidSave(cmd.uri)
	case lspCmdClose:
		err = client.DidClose(cmd.uri)
	case lspCmdCompletion:
		var list *lsp.CompletionList
		list, err = client.Completion(ctx, cmd.uri, cmd.pos)
		if err == nil {
			m.push(LspEvent{Kind: LspEventCompletion, URI: cmd.uri, Completions: list.Items})
		}
	case lspCmdHover:
		var hover *lsp.Hover
		hover, err = client.Hover(ctx, cmd.uri, cmd.pos)
		if err == nil {
			m.push(LspEvent{Kind: LspEventHover, URI: cmd.uri, HoverText: hover.Text()})
		}
	case lspCmdDefinition:
		var locs []lsp.Location
		locs, err = client.Definition(ctx, cmd.uri, cmd.pos)
		if err == nil {
			m.push(LspEvent{Kind: LspEventDefinition, URI: cmd.uri, Locations: locs})
		}
	case lspCmdFormatting:
		var edits []lsp.TextEdit
		edits, err = client.Formatting(ctx, cmd.uri, lsp.FormattingOptions{TabSize: 4, InsertSpaces: true})
		if err == nil {
			m.push(LspEvent{Kind: LspEventFormatting, URI: cmd.uri, Edits: edits})
		}
	}
	if err != nil {
		logger.Debugf("lsp: command %d failed: %v", cmd.kind, err)
		m.push(LspEvent{Kind: LspEventFailure, URI: cmd.uri, Err: err})
	}
}
