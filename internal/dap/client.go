// internal/dap/client.go
package dap

import (
	"encoding/json"
	"fmt"

	"github.com/smash-editor/smash/internal/logger"
)

// Breakpoint is a client-side breakpoint. AdapterID and Verified are
// filled in from the adapter's setBreakpoints response.
type Breakpoint struct {
	Line      int
	Condition string
	Verified  bool
	AdapterID int
}

// Client builds protocol requests: it allocates sequence numbers,
// enforces the session-state gate per request kind, and serialises
// arguments. The returned Request goes out over whatever transport the
// caller runs.
type Client struct {
	session     *Session
	nextSeq     int64
	breakpoints map[string][]Breakpoint
}

func NewClient() *Client {
	return &Client{
		session:     NewSession(),
		breakpoints: make(map[string][]Breakpoint),
	}
}

// Session exposes the state machine for event-driven transitions.
func (c *Client) Session() *Session { return c.session }

func (c *Client) newRequest(command string, args any) (*Request, error) {
	var raw json.RawMessage
	if args != nil {
		encoded, err := json.Marshal(args)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s arguments: %w", command, err)
		}
		raw = encoded
	}
	c.nextSeq++
	return &Request{Seq: c.nextSeq, Type: "request", Command: command, Arguments: raw}, nil
}

// gate variants for the per-command state requirements.

func (c *Client) requireStopped(command string) error {
	switch c.session.State() {
	case SessionStopped:
		return nil
	case SessionTerminated:
		return ErrTerminated
	case SessionUninitialized:
		return ErrNotInitialized
	default:
		return rejected("%s requires a stopped debuggee (state %s)", command, c.session.State())
	}
}

func (c *Client) requireInitialized(command string) error {
	switch c.session.State() {
	case SessionTerminated:
		return ErrTerminated
	case SessionUninitialized:
		return ErrNotInitialized
	default:
		return nil
	}
}

// Initialize builds the handshake request. The caller feeds the
// response capabilities to HandleInitializeResponse.
func (c *Client) Initialize(adapterID string) (*Request, error) {
	if c.session.State() == SessionTerminated {
		return nil, ErrTerminated
	}
	if c.session.State() != SessionUninitialized {
		return nil, rejected("initialize in state %s", c.session.State())
	}
	return c.newRequest("initialize", InitializeArguments{
		ClientID:        "smash",
		ClientName:      "smash",
		AdapterID:       adapterID,
		LinesStartAt1:   true,
		ColumnsStartAt1: true,
		PathFormat:      "path",
	})
}

// HandleInitializeResponse records capabilities and transitions the
// session to Initialized.
func (c *Client) HandleInitializeResponse(resp *Response) error {
	if !resp.Success {
		return rejected("initialize failed: %s", resp.Message)
	}
	var caps Capabilities
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &caps); err != nil {
			return fmt.Errorf("failed to decode capabilities: %w", err)
		}
	}
	return c.session.Initialize(caps)
}

// Launch builds the launch request and transitions to Running.
func (c *Client) Launch(args LaunchArguments) (*Request, error) {
	if err := c.session.Launched(); err != nil {
		return nil, err
	}
	return c.newRequest("launch", args)
}

// Attach builds the attach request and transitions to Running.
func (c *Client) Attach(args AttachArguments) (*Request, error) {
	if err := c.session.Launched(); err != nil {
		return nil, err
	}
	return c.newRequest("attach", args)
}

// --- Breakpoints ---

// SetBreakpoint records a breakpoint for a file. The change reaches
// the adapter on the next BreakpointsRequest for that file.
func (c *Client) SetBreakpoint(path string, line int, condition string) {
	c.breakpoints[path] = append(c.breakpoints[path], Breakpoint{Line: line, Condition: condition})
}

// ClearBreakpoints drops every breakpoint for a file.
func (c *Client) ClearBreakpoints(path string) {
	delete(c.breakpoints, path)
}

// Breakpoints returns the recorded breakpoints for a file.
func (c *Client) Breakpoints(path string) []Breakpoint {
	out := make([]Breakpoint, len(c.breakpoints[path]))
	copy(out, c.breakpoints[path])
	return out
}

// BreakpointsRequest serialises the stored breakpoints for one file
// into a setBreakpoints request.
func (c *Client) BreakpointsRequest(path string) (*Request, error) {
	if err := c.requireInitialized("setBreakpoints"); err != nil {
		return nil, err
	}
	stored := c.breakpoints[path]
	bps := make([]SourceBreakpoint, len(stored))
	for i, bp := range stored {
		bps[i] = SourceBreakpoint{Line: bp.Line, Condition: bp.Condition}
	}
	return c.newRequest("setBreakpoints", SetBreakpointsArguments{
		Source:      Source{Path: path},
		Breakpoints: bps,
	})
}

// HandleBreakpointsResponse applies adapter verification to the stored
// breakpoints, matching by position.
func (c *Client) HandleBreakpointsResponse(path string, resp *Response) error {
	if !resp.Success {
		return rejected("setBreakpoints failed: %s", resp.Message)
	}
	var body SetBreakpointsResponseBody
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return fmt.Errorf("failed to decode setBreakpoints body: %w", err)
	}
	stored := c.breakpoints[path]
	for i := range stored {
		if i >= len(body.Breakpoints) {
			break
		}
		stored[i].Verified = body.Breakpoints[i].Verified
		stored[i].AdapterID = body.Breakpoints[i].ID
		if info := body.Breakpoints[i]; info.Line != 0 {
			stored[i].Line = info.Line
		}
	}
	return nil
}

// --- Execution control ---

// Continue builds the continue request; Stopped → Running.
func (c *Client) Continue(threadID int) (*Request, error) {
	if err := c.session.Continued(); err != nil {
		return nil, err
	}
	return c.newRequest("continue", ThreadArguments{ThreadID: threadID})
}

// Pause asks a running debuggee to halt; requires at least an
// initialized session.
func (c *Client) Pause(threadID int) (*Request, error) {
	if err := c.requireInitialized("pause"); err != nil {
		return nil, err
	}
	return c.newRequest("pause", ThreadArguments{ThreadID: threadID})
}

func (c *Client) StepOver(threadID int) (*Request, error) {
	if err := c.requireStopped("next"); err != nil {
		return nil, err
	}
	return c.newRequest("next", ThreadArguments{ThreadID: threadID})
}

func (c *Client) StepIn(threadID int) (*Request, error) {
	if err := c.requireStopped("stepIn"); err != nil {
		return nil, err
	}
	return c.newRequest("stepIn", ThreadArguments{ThreadID: threadID})
}

func (c *Client) StepOut(threadID int) (*Request, error) {
	if err := c.requireStopped("stepOut"); err != nil {
		return nil, err
	}
	return c.newRequest("stepOut", ThreadArguments{ThreadID: threadID})
}

// --- Inspection ---

func (c *Client) StackTrace(threadID, startFrame, levels int) (*Request, error) {
	if err := c.requireStopped("stackTrace"); err != nil {
		return nil, err
	}
	return c.newRequest("stackTrace", StackTraceArguments{
		ThreadID:   threadID,
		StartFrame: startFrame,
		Levels:     levels,
	})
}

func (c *Client) Scopes(frameID int) (*Request, error) {
	if err := c.requireStopped("scopes"); err != nil {
		return nil, err
	}
	return c.newRequest("scopes", ScopesArguments{FrameID: frameID})
}

func (c *Client) Variables(reference int) (*Request, error) {
	if err := c.requireStopped("variables"); err != nil {
		return nil, err
	}
	return c.newRequest("variables", VariablesArguments{VariablesReference: reference})
}

// Disconnect builds the disconnect request and terminates the session.
func (c *Client) Disconnect(terminate bool) (*Request, error) {
	if err := c.session.Disconnect(); err != nil {
		return nil, err
	}
	return c.newRequest("disconnect", DisconnectArguments{TerminateDebuggee: terminate})
}

// HandleEvent applies adapter-initiated transitions: "stopped" and
// "terminated"/"exited". Other events are logged and ignored.
func (c *Client) HandleEvent(ev *Event) error {
	switch ev.Event {
	case "stopped":
		var body StoppedEventBody
		if len(ev.Body) > 0 {
			if err := json.Unmarshal(ev.Body, &body); err != nil {
				logger.Warnf("dap: bad stopped event body: %v", err)
			}
		}
		logger.Debugf("dap: stopped (%s)", body.Reason)
		return c.session.StoppedEvent()
	case "terminated", "exited":
		if c.session.State() == SessionTerminated {
			return nil
		}
		return c.session.Disconnect()
	default:
		logger.Debugf("dap: ignoring event %q", ev.Event)
		return nil
	}
}
