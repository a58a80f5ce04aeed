// internal/event/manager.go
package event

import (
	"sync"

	"github.com/smash-editor/smash/internal/logger"
)

// Handler is the subscriber signature. Returning true marks the event
// consumed and stops propagation to later handlers.
type Handler func(e Event) bool

// Manager handles event subscriptions and synchronous dispatch.
type Manager struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
}

func NewManager() *Manager {
	return &Manager{
		handlers: make(map[Type][]Handler),
	}
}

// Subscribe adds a handler for one event type.
func (m *Manager) Subscribe(eventType Type, handler Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[eventType] = append(m.handlers[eventType], handler)
}

// Dispatch sends an event to every handler registered for its type,
// in subscription order, on the caller's goroutine.
func (m *Manager) Dispatch(eventType Type, data interface{}) {
	m.mu.RLock()
	handlers := m.handlers[eventType]
	handlersCopy := make([]Handler, len(handlers))
	copy(handlersCopy, handlers)
	m.mu.RUnlock()

	if len(handlersCopy) == 0 {
		return
	}
	logger.Debugf("event: dispatching %v to %d handler(s)", eventType, len(handlersCopy))
	for _, handler := range handlersCopy {
		if handler(Event{Type: eventType, Data: data}) {
			break
		}
	}
}
