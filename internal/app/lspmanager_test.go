// internal/app/lspmanager_test.go
package app

import "testing"

func TestRootURIFromDir(t *testing.T) {
	if got := rootURIFromDir(""); got != "" {
		t.Errorf("empty dir = %q", got)
	}
	if got := rootURIFromDir("/proj/x"); got != "file:///proj/x" {
		t.Errorf("rootURIFromDir = %q, want %q", got, "file:///proj/x")
	}
}
