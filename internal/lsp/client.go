// internal/lsp/client.go
package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/smash-editor/smash/internal/logger"
)

// RequestTimeout bounds every request round-trip.
const RequestTimeout = 10 * time.Second

const writerQueueSize = 64

// State is the client lifecycle stage.
type State int

const (
	StateCreated State = iota
	StateInitializing
	StateRunning
	StateShuttingDown
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateShuttingDown:
		return "shutting-down"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// ServerConfig describes how to launch one language server.
type ServerConfig struct {
	Language string
	Command  string
	Args     []string
	RootURI  string
}

// Client manages one language server process: a writer goroutine owns
// stdin, a reader goroutine parses stdout frames and routes them
// through the dispatcher.
type Client struct {
	ID     int64
	Config ServerConfig

	dispatcher  *Dispatcher
	Diagnostics *DiagnosticStore

	mu           sync.Mutex
	state        State
	caps         Capability
	cmd          *exec.Cmd
	writerCh     chan []byte
	writerClosed bool
	done         chan struct{}
}

// NewClient creates a client in the Created state.
func NewClient(id int64, cfg ServerConfig) *Client {
	return &Client{
		ID:          id,
		Config:      cfg,
		dispatcher:  NewDispatcher(),
		Diagnostics: NewDiagnosticStore(),
		done:        make(chan struct{}),
	}
}

// State returns the lifecycle stage.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Capabilities returns the flattened server capability bitset.
func (c *Client) Capabilities() Capability {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.caps
}

// Start spawns the server process, launches the reader and writer
// goroutines, and runs the initialize handshake.
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateCreated {
		c.mu.Unlock()
		return fmt.Errorf("cannot start client in state %s", c.state)
	}
	c.state = StateInitializing

	cmd := exec.Command(c.Config.Command, c.Config.Args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		c.state = StateStopped
		c.mu.Unlock()
		return fmt.Errorf("failed to open stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		c.state = StateStopped
		c.mu.Unlock()
		return fmt.Errorf("failed to open stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		c.state = StateStopped
		c.mu.Unlock()
		return fmt.Errorf("failed to start %s: %w", c.Config.Command, err)
	}
	c.cmd = cmd
	c.writerCh = make(chan []byte, writerQueueSize)
	writerCh := c.writerCh
	c.mu.Unlock()

	go c.writerLoop(writerCh, stdin)
	go c.readerLoop(stdout)

	if err := c.initialize(ctx); err != nil {
		_ = c.Shutdown()
		return err
	}
	c.mu.Lock()
	c.state = StateRunning
	c.mu.Unlock()
	logger.Infof("lsp: %s server running (client %d)", c.Config.Language, c.ID)
	return nil
}

func (c *Client) writerLoop(ch <-chan []byte, stdin io.WriteCloser) {
	defer stdin.Close()
	for frame := range ch {
		if _, err := stdin.Write(frame); err != nil {
			logger.Errorf("lsp: write to %s failed: %v", c.Config.Language, err)
			return
		}
	}
}

func (c *Client) readerLoop(stdout io.Reader) {
	fr := NewFrameReader(stdout)
	for {
		body, err := fr.ReadFrame()
		if err != nil {
			if err != io.EOF {
				logger.Warnf("lsp: read from %s failed: %v", c.Config.Language, err)
			}
			c.markCrashed()
			return
		}
		var msg Message
		if err := json.Unmarshal(body, &msg); err != nil {
			logger.Warnf("lsp: undecodable frame from %s: %v", c.Config.Language, err)
			continue
		}
		if msg.Method == "textDocument/publishDiagnostics" {
			var params PublishDiagnosticsParams
			if err := json.Unmarshal(msg.Params, &params); err != nil {
				logger.Warnf("lsp: bad publishDiagnostics params: %v", err)
				continue
			}
			c.Diagnostics.Set(params.URI, params.Diagnostics)
		}
		c.dispatcher.Deliver(&msg)
	}
}

// markCrashed closes the writer so subsequent sends fail fast, and
// fails every awaiting requester.
func (c *Client) markCrashed() {
	c.mu.Lock()
	if !c.writerClosed && c.writerCh != nil {
		c.writerClosed = true
		close(c.writerCh)
	}
	wasShutdown := c.state == StateShuttingDown || c.state == StateStopped
	if !wasShutdown {
		c.state = StateStopped
	}
	c.mu.Unlock()
	c.dispatcher.CancelAll()
	select {
	case <-c.done:
	default:
		close(c.done)
	}
	if !wasShutdown {
		logger.Errorf("lsp: %s server exited unexpectedly", c.Config.Language)
	}
}

// SetNotificationHandler forwards non-diagnostic notifications.
func (c *Client) SetNotificationHandler(h NotificationHandler) {
	c.dispatcher.SetNotificationHandler(h)
}

func (c *Client) send(msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}
	frame := EncodeFrame(body)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writerClosed || c.writerCh == nil {
		return ErrServerCrashed
	}
	select {
	case c.writerCh <- frame:
		return nil
	default:
		return fmt.Errorf("writer queue full for %s", c.Config.Language)
	}
}

func (c *Client) notify(method string, params any) error {
	msg, err := newNotification(method, params)
	if err != nil {
		return fmt.Errorf("failed to encode %s params: %w", method, err)
	}
	return c.send(msg)
}

// request sends a request and decodes the result into out (which may
// be nil when the result is ignored).
func (c *Client) request(ctx context.Context, method string, params, out any) error {
	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	id, reply := c.dispatcher.Register()
	msg, err := newRequest(id, method, params)
	if err != nil {
		c.dispatcher.Cancel(id)
		return fmt.Errorf("failed to encode %s params: %w", method, err)
	}
	if err := c.send(msg); err != nil {
		c.dispatcher.Cancel(id)
		return err
	}

	select {
	case resp, ok := <-reply:
		if !ok {
			return ErrServerCrashed
		}
		if resp.Error != nil {
			return resp.Error
		}
		if out != nil && len(resp.Result) > 0 {
			if err := json.Unmarshal(resp.Result, out); err != nil {
				return fmt.Errorf("failed to decode %s result: %w", method, err)
			}
		}
		return nil
	case <-ctx.Done():
		c.dispatcher.Cancel(id)
		if ctx.Err() == context.DeadlineExceeded {
			return ErrTimeout
		}
		return ctx.Err()
	}
}

// requireRunning gates the typed helpers.
func (c *Client) requireRunning() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case StateRunning:
		return nil
	case StateStopped, StateShuttingDown:
		return ErrServerCrashed
	default:
		return ErrNotInitialized
	}
}

func (c *Client) initialize(ctx context.Context) error {
	params := InitializeParams{
		ProcessID:    os.Getpid(),
		RootURI:      c.Config.RootURI,
		Capabilities: clientCapabilities(),
	}

	var result InitializeResult
	if err := c.request(ctx, "initialize", params, &result); err != nil {
		return fmt.Errorf("initialize handshake failed: %w", err)
	}
	c.mu.Lock()
	c.caps = parseCapabilities(result.Capabilities)
	c.mu.Unlock()
	return c.notify("initialized", struct{}{})
}

// --- Document sync notifications ---

func (c *Client) DidOpen(uri, languageID string, version int, text string) error {
	if err := c.requireRunning(); err != nil {
		return err
	}
	return c.notify("textDocument/didOpen", DidOpenTextDocumentParams{
		TextDocument: TextDocumentItem{URI: uri, LanguageID: languageID, Version: version, Text: text},
	})
}

// DidChange sends the whole document; sync is full-text.
func (c *Client) DidChange(uri string, version int, text string) error {
	if err := c.requireRunning(); err != nil {
		return err
	}
	return c.notify("textDocument/didChange", DidChangeTextDocumentParams{
		TextDocument:   VersionedTextDocumentIdentifier{URI: uri, Version: version},
		ContentChanges: []TextDocumentContentChangeEvent{{Text: text}},
	})
}

func (c *Client) DidSave(uri string) error {
	if err := c.requireRunning(); err != nil {
		return err
	}
	return c.notify("textDocument/didSave", DidSaveTextDocumentParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
	})
}

func (c *Client) DidClose(uri string) error {
	if err := c.requireRunning(); err != nil {
		return err
	}
	return c.notify("textDocument/didClose", DidCloseTextDocumentParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
	})
}

// --- Requests ---

func (c *Client) Completion(ctx context.Context, uri string, pos Position) (*CompletionList, error) {
	if err := c.requireRunning(); err != nil {
		return nil, err
	}
	var result CompletionList
	err := c.request(ctx, "textDocument/completion", TextDocumentPositionParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Position:     pos,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Hover(ctx context.Context, uri string, pos Position) (*Hover, error) {
	if err := c.requireRunning(); err != nil {
		return nil, err
	}
	var result Hover
	err := c.request(ctx, "textDocument/hover", TextDocumentPositionParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Position:     pos,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Definition accepts both the single-location and array response forms.
func (c *Client) Definition(ctx context.Context, uri string, pos Position) ([]Location, error) {
	if err := c.requireRunning(); err != nil {
		return nil, err
	}
	var raw json.RawMessage
	err := c.request(ctx, "textDocument/definition", TextDocumentPositionParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Position:     pos,
	}, &raw)
	if err != nil {
		return nil, err
	}
	return decodeLocations(raw)
}

func (c *Client) References(ctx context.Context, uri string, pos Position, includeDecl bool) ([]Location, error) {
	if err := c.requireRunning(); err != nil {
		return nil, err
	}
	var result []Location
	err := c.request(ctx, "textDocument/references", ReferenceParams{
		TextDocumentPositionParams: TextDocumentPositionParams{
			TextDocument: TextDocumentIdentifier{URI: uri},
			Position:     pos,
		},
		Context: ReferenceContext{IncludeDeclaration: includeDecl},
	}, &result)
	return result, err
}

func (c *Client) CodeAction(ctx context.Context, uri string, rng Range, diags []Diagnostic) ([]CodeAction, error) {
	if err := c.requireRunning(); err != nil {
		return nil, err
	}
	var result []CodeAction
	err := c.request(ctx, "textDocument/codeAction", CodeActionParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Range:        rng,
		Context:      CodeActionContext{Diagnostics: diags},
	}, &result)
	return result, err
}

func (c *Client) Formatting(ctx context.Context, uri string, opts FormattingOptions) ([]TextEdit, error) {
	if err := c.requireRunning(); err != nil {
		return nil, err
	}
	var result []TextEdit
	err := c.request(ctx, "textDocument/formatting", DocumentFormattingParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Options:      opts,
	}, &result)
	return result, err
}

func (c *Client) Rename(ctx context.Context, uri string, pos Position, newName string) (*WorkspaceEdit, error) {
	if err := c.requireRunning(); err != nil {
		return nil, err
	}
	var result WorkspaceEdit
	err := c.request(ctx, "textDocument/rename", RenameParams{
		TextDocumentPositionParams: TextDocumentPositionParams{
			TextDocument: TextDocumentIdentifier{URI: uri},
			Position:     pos,
		},
		NewName: newName,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) DocumentSymbol(ctx context.Context, uri string) ([]DocumentSymbol, error) {
	if err := c.requireRunning(); err != nil {
		return nil, err
	}
	var result []DocumentSymbol
	err := c.request(ctx, "textDocument/documentSymbol", DocumentSymbolParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
	}, &result)
	return result, err
}

func decodeLocations(raw json.RawMessage) ([]Location, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var many []Location
	if err := json.Unmarshal(raw, &many); err == nil {
		return many, nil
	}
	var one Location
	if err := json.Unmarshal(raw, &one); err != nil {
		return nil, fmt.Errorf("failed to decode definition result: %w", err)
	}
	return []Location{one}, nil
}

// Shutdown performs the polite exit: shutdown request (errors
// ignored), exit notification, close the writer, wait for the child.
func (c *Client) Shutdown() error {
	c.mu.Lock()
	if c.state == StateStopped {
		c.mu.Unlock()
		return nil
	}
	c.state = StateShuttingDown
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	_ = c.request(ctx, "shutdown", nil, nil)
	cancel()
	_ = c.notify("exit", nil)

	c.mu.Lock()
	if !c.writerClosed && c.writerCh != nil {
		c.writerClosed = true
		close(c.writerCh)
	}
	cmd := c.cmd
	c.state = StateStopped
	c.mu.Unlock()

	c.dispatcher.CancelAll()
	if cmd != nil {
		if err := cmd.Wait(); err != nil {
			logger.Debugf("lsp: %s exited: %v", c.Config.Language, err)
		}
	}
	logger.Infof("lsp: %s server stopped (client %d)", c.Config.Language, c.ID)
	return nil
}
