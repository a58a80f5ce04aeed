// internal/dap/session_test.go
package dap

import (
	"errors"
	"testing"
)

func TestSessionLifecycle(t *testing.T) {
	s := NewSession()
	if s.State() != SessionUninitialized {
		t.Fatalf("fresh state = %s", s.State())
	}
	if err := s.Initialize(Capabilities{SupportsConditionalBreakpoints: true}); err != nil {
		t.Fatal(err)
	}
	if !s.Capabilities().SupportsConditionalBreakpoints {
		t.Error("capabilities not recorded")
	}
	if err := s.Launched(); err != nil {
		t.Fatal(err)
	}
	if err := s.StoppedEvent(); err != nil {
		t.Fatal(err)
	}
	if err := s.Continued(); err != nil {
		t.Fatal(err)
	}
	if s.State() != SessionRunning {
		t.Errorf("state = %s, want running", s.State())
	}
	if err := s.Disconnect(); err != nil {
		t.Fatal(err)
	}
	if s.State() != SessionTerminated {
		t.Errorf("state = %s, want terminated", s.State())
	}
}

func TestSessionBeforeInitialize(t *testing.T) {
	s := NewSession()
	checks := map[string]func() error{
		"launch":   s.Launched,
		"stopped":  s.StoppedEvent,
		"continue": s.Continued,
	}
	for name, f := range checks {
		if err := f(); !errors.Is(err, ErrNotInitialized) {
			t.Errorf("%s before initialize: %v, want ErrNotInitialized", name, err)
		}
	}
}

func TestSessionRejectsOutOfOrder(t *testing.T) {
	var rej *RejectedError

	s := NewSession()
	if err := s.Initialize(Capabilities{}); err != nil {
		t.Fatal(err)
	}
	if err := s.Initialize(Capabilities{}); !errors.As(err, &rej) {
		t.Errorf("double initialize: %v", err)
	}
	if err := s.StoppedEvent(); !errors.As(err, &rej) {
		t.Errorf("stopped before running: %v", err)
	}
	if err := s.Continued(); !errors.As(err, &rej) {
		t.Errorf("continue before stopped: %v", err)
	}

	if err := s.Launched(); err != nil {
		t.Fatal(err)
	}
	if err := s.Launched(); !errors.As(err, &rej) {
		t.Errorf("double launch: %v", err)
	}
}

func TestSessionTerminatedIsFinal(t *testing.T) {
	s := NewSession()
	if err := s.Disconnect(); err != nil {
		t.Fatal(err)
	}
	checks := []func() error{
		func() error { return s.Initialize(Capabilities{}) },
		s.Launched,
		s.StoppedEvent,
		s.Continued,
		s.Disconnect,
	}
	for i, f := range checks {
		if err := f(); !errors.Is(err, ErrTerminated) {
			t.Errorf("transition %d after terminate: %v, want ErrTerminated", i, err)
		}
	}
}

func TestDisconnectFromAnyState(t *testing.T) {
	states := []func(s *Session){
		func(s *Session) {},
		func(s *Session) { s.Initialize(Capabilities{}) },
		func(s *Session) { s.Initialize(Capabilities{}); s.Launched() },
		func(s *Session) { s.Initialize(Capabilities{}); s.Launched(); s.StoppedEvent() },
	}
	for i, setup := range states {
		s := NewSession()
		setup(s)
		if err := s.Disconnect(); err != nil {
			t.Errorf("disconnect from state %d: %v", i, err)
		}
	}
}
