// internal/lsp/diagnostics.go
package lsp

import "sync"

// DiagnosticStore holds the latest published diagnostics per URI.
// Updates are last-writer-wins.
type DiagnosticStore struct {
	mu    sync.Mutex
	byURI map[string][]Diagnostic
}

func NewDiagnosticStore() *DiagnosticStore {
	return &DiagnosticStore{byURI: make(map[string][]Diagnostic)}
}

// Set replaces the diagnostics for a URI. An empty slice clears the
// previous set, per the protocol.
func (s *DiagnosticStore) Set(uri string, diags []Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(diags) == 0 {
		delete(s.byURI, uri)
		return
	}
	s.byURI[uri] = diags
}

// Get returns a copy of the diagnostics for a URI.
func (s *DiagnosticStore) Get(uri string) []Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()
	diags := s.byURI[uri]
	out := make([]Diagnostic, len(diags))
	copy(out, diags)
	return out
}

// Count returns the number of diagnostics for a URI.
func (s *DiagnosticStore) Count(uri string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byURI[uri])
}

// Clear drops everything, used when a server goes away.
func (s *DiagnosticStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byURI = make(map[string][]Diagnostic)
}
