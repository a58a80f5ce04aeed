// Package dap implements the client half of the Debug Adapter
// Protocol: a session state machine, request construction with
// sequence numbering, and client-side breakpoint bookkeeping. The
// caller owns the transport to the adapter.
package dap

import (
	"bytes"
	"encoding/json"
)

// Request is one outgoing protocol message. The adapter echoes seq in
// its response's requestSeq.
type Request struct {
	Seq       int64           `json:"seq"`
	Type      string          `json:"type"`
	Command   string          `json:"command"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// Response is the adapter's reply to a request.
type Response struct {
	Seq        int64           `json:"seq"`
	Type       string          `json:"type"`
	RequestSeq int64           `json:"request_seq"`
	Success    bool            `json:"success"`
	Command    string          `json:"command"`
	Message    string          `json:"message,omitempty"`
	Body       json.RawMessage `json:"body,omitempty"`
}

// Event is an adapter-initiated message such as "stopped" or
// "terminated".
type Event struct {
	Seq   int64           `json:"seq"`
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Body  json.RawMessage `json:"body,omitempty"`
}

// StoppedEventBody carries the reason execution halted.
type StoppedEventBody struct {
	Reason      string `json:"reason"`
	ThreadID    int    `json:"threadId,omitempty"`
	Description string `json:"description,omitempty"`
	Text        string `json:"text,omitempty"`
}

// InitializeArguments advertises this client to the adapter.
type InitializeArguments struct {
	ClientID        string `json:"clientID,omitempty"`
	ClientName      string `json:"clientName,omitempty"`
	AdapterID       string `json:"adapterID"`
	LinesStartAt1   bool   `json:"linesStartAt1"`
	ColumnsStartAt1 bool   `json:"columnsStartAt1"`
	PathFormat      string `json:"pathFormat,omitempty"`
}

// Capabilities holds the adapter feature flags this client reads.
// Boolean-or-object fields stay raw and go through flagEnabled.
type Capabilities struct {
	SupportsConfigurationDoneRequest bool            `json:"supportsConfigurationDoneRequest,omitempty"`
	SupportsConditionalBreakpoints   bool            `json:"supportsConditionalBreakpoints,omitempty"`
	SupportsFunctionBreakpoints      bool            `json:"supportsFunctionBreakpoints,omitempty"`
	SupportsStepBack                 bool            `json:"supportsStepBack,omitempty"`
	SupportsRestartRequest           bool            `json:"supportsRestartRequest,omitempty"`
	ExceptionBreakpointFilters       json.RawMessage `json:"exceptionBreakpointFilters,omitempty"`
}

// flagEnabled accepts both `true` and the object form a few adapters
// emit for capability flags.
func flagEnabled(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return false
	}
	return trimmed[0] == 't' || trimmed[0] == '{'
}

// SourceBreakpoint is one requested breakpoint in setBreakpoints.
type SourceBreakpoint struct {
	Line      int    `json:"line"`
	Condition string `json:"condition,omitempty"`
}

// Source identifies the file breakpoints apply to.
type Source struct {
	Path string `json:"path,omitempty"`
	Name string `json:"name,omitempty"`
}

type SetBreakpointsArguments struct {
	Source      Source             `json:"source"`
	Breakpoints []SourceBreakpoint `json:"breakpoints"`
}

// BreakpointInfo is the adapter's view of one breakpoint, returned in
// the setBreakpoints response body.
type BreakpointInfo struct {
	ID       int  `json:"id,omitempty"`
	Verified bool `json:"verified"`
	Line     int  `json:"line,omitempty"`
}

type SetBreakpointsResponseBody struct {
	Breakpoints []BreakpointInfo `json:"breakpoints"`
}

type LaunchArguments struct {
	Program     string   `json:"program"`
	Args        []string `json:"args,omitempty"`
	Cwd         string   `json:"cwd,omitempty"`
	StopOnEntry bool     `json:"stopOnEntry,omitempty"`
	NoDebug     bool     `json:"noDebug,omitempty"`
}

type AttachArguments struct {
	ProcessID int `json:"processId,omitempty"`
	Port      int `json:"port,omitempty"`
}

type ThreadArguments struct {
	ThreadID int `json:"threadId"`
}

type StackTraceArguments struct {
	ThreadID   int `json:"threadId"`
	StartFrame int `json:"startFrame,omitempty"`
	Levels     int `json:"levels,omitempty"`
}

type StackFrame struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Source Source `json:"source,omitempty"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

type ScopesArguments struct {
	FrameID int `json:"frameId"`
}

type Scope struct {
	Name               string `json:"name"`
	VariablesReference int    `json:"variablesReference"`
	Expensive          bool   `json:"expensive"`
}

type VariablesArguments struct {
	VariablesReference int `json:"variablesReference"`
}

type Variable struct {
	Name               string `json:"name"`
	Value              string `json:"value"`
	Type               string `json:"type,omitempty"`
	VariablesReference int    `json:"variablesReference"`
}

type DisconnectArguments struct {
	TerminateDebuggee bool `json:"terminateDebuggee,omitempty"`
}
