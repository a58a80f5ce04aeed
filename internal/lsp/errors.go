// internal/lsp/errors.go
package lsp

import (
	"errors"
	"fmt"
)

var (
	// ErrServerCrashed means the server process or its writer is gone.
	ErrServerCrashed = errors.New("language server crashed")
	// ErrNotInitialized means a request ran before the client reached
	// the Running state.
	ErrNotInitialized = errors.New("language server not initialized")
	// ErrTimeout means the server did not reply within the deadline.
	ErrTimeout = errors.New("language server request timed out")
	// ErrAlreadyRunning means a server for the language is active.
	ErrAlreadyRunning = errors.New("language server already running")
)

// RpcError is an error object returned by the server in a response.
type RpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}
