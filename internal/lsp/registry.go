// internal/lsp/registry.go
package lsp

import (
	"context"
	"fmt"

	"github.com/smash-editor/smash/internal/logger"
)

// Registry tracks at most one running client per language id.
type Registry struct {
	clients map[string]*Client
	nextID  int64
}

func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]*Client)}
}

// StartServer launches a server for cfg.Language. A server that is
// still running for that language refuses the start; a stopped one is
// replaced.
func (r *Registry) StartServer(ctx context.Context, cfg ServerConfig) (*Client, error) {
	if existing, ok := r.clients[cfg.Language]; ok && existing.State() != StateStopped {
		return nil, fmt.Errorf("%w for %s", ErrAlreadyRunning, cfg.Language)
	}
	r.nextID++
	client := NewClient(r.nextID, cfg)
	if err := client.Start(ctx); err != nil {
		return nil, err
	}
	r.clients[cfg.Language] = client
	return client, nil
}

// Client returns the client for a language, or nil.
func (r *Registry) Client(language string) *Client {
	return r.clients[language]
}

// ShutdownServer stops the server for a language if one exists.
func (r *Registry) ShutdownServer(language string) error {
	client, ok := r.clients[language]
	if !ok {
		return nil
	}
	delete(r.clients, language)
	return client.Shutdown()
}

// ShutdownAll stops every running server.
func (r *Registry) ShutdownAll() {
	for lang, client := range r.clients {
		if err := client.Shutdown(); err != nil {
			logger.Warnf("lsp: shutdown of %s failed: %v", lang, err)
		}
		delete(r.clients, lang)
	}
}
