// internal/dap/session.go
package dap

import (
	"errors"
	"fmt"
)

var (
	// ErrTerminated means the session already ended.
	ErrTerminated = errors.New("debug session terminated")
	// ErrNotInitialized means no initialize handshake has run yet.
	ErrNotInitialized = errors.New("debug session not initialized")
)

// RejectedError is an attempted state transition the machine forbids.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("transition rejected: %s", e.Message)
}

func rejected(format string, args ...any) error {
	return &RejectedError{Message: fmt.Sprintf(format, args...)}
}

// SessionState is the debug session stage.
type SessionState int

const (
	SessionUninitialized SessionState = iota
	SessionInitialized
	SessionRunning
	SessionStopped
	SessionTerminated
)

func (s SessionState) String() string {
	switch s {
	case SessionUninitialized:
		return "uninitialized"
	case SessionInitialized:
		return "initialized"
	case SessionRunning:
		return "running"
	case SessionStopped:
		return "stopped"
	case SessionTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Session is the debug lifecycle state machine. Transitions outside
// the machine fail with RejectedError; anything after Terminated fails
// with ErrTerminated; anything before Initialize has run fails with
// ErrNotInitialized.
type Session struct {
	state SessionState
	caps  Capabilities
}

func NewSession() *Session {
	return &Session{state: SessionUninitialized}
}

// State returns the current stage.
func (s *Session) State() SessionState { return s.state }

// gate applies the shared preconditions: nothing runs after Terminated,
// and nothing but initialize runs before Initialized.
func (s *Session) gate() error {
	switch s.state {
	case SessionTerminated:
		return ErrTerminated
	case SessionUninitialized:
		return ErrNotInitialized
	default:
		return nil
	}
}

// Capabilities returns the adapter capabilities recorded at initialize.
func (s *Session) Capabilities() Capabilities { return s.caps }

// Initialize records the adapter capabilities.
// Uninitialized → Initialized.
func (s *Session) Initialize(caps Capabilities) error {
	if s.state == SessionTerminated {
		return ErrTerminated
	}
	if s.state != SessionUninitialized {
		return rejected("initialize in state %s", s.state)
	}
	s.state = SessionInitialized
	s.caps = caps
	return nil
}

// Launched moves Initialized → Running after launch or attach.
func (s *Session) Launched() error {
	if err := s.gate(); err != nil {
		return err
	}
	if s.state != SessionInitialized {
		return rejected("launch in state %s", s.state)
	}
	s.state = SessionRunning
	return nil
}

// StoppedEvent moves Running → Stopped when the adapter reports a
// halt.
func (s *Session) StoppedEvent() error {
	if err := s.gate(); err != nil {
		return err
	}
	if s.state != SessionRunning {
		return rejected("stopped event in state %s", s.state)
	}
	s.state = SessionStopped
	return nil
}

// Continued moves Stopped → Running.
func (s *Session) Continued() error {
	if err := s.gate(); err != nil {
		return err
	}
	if s.state != SessionStopped {
		return rejected("continue in state %s", s.state)
	}
	s.state = SessionRunning
	return nil
}

// Disconnect ends the session from any non-terminated state.
func (s *Session) Disconnect() error {
	if s.state == SessionTerminated {
		return ErrTerminated
	}
	s.state = SessionTerminated
	return nil
}
