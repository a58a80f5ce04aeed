// internal/lsp/dispatcher.go
package lsp

import (
	"sync"

	"github.com/smash-editor/smash/internal/logger"
)

// NotificationHandler receives server-initiated notifications that the
// reader did not consume itself.
type NotificationHandler func(msg *Message)

// Dispatcher routes responses to the requester that registered the id.
// Ids are allocated from a monotone counter starting at 1.
type Dispatcher struct {
	mu      sync.Mutex
	nextID  int64
	pending map[int64]chan *Message
	onNote  NotificationHandler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{pending: make(map[int64]chan *Message)}
}

// SetNotificationHandler installs the handler for notifications.
func (d *Dispatcher) SetNotificationHandler(h NotificationHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onNote = h
}

// Register allocates a request id and its one-shot reply channel. The
// channel is buffered so Deliver never blocks on a slow requester.
func (d *Dispatcher) Register() (int64, <-chan *Message) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	ch := make(chan *Message, 1)
	d.pending[d.nextID] = ch
	return d.nextID, ch
}

// Deliver routes one incoming message. Responses find-and-consume the
// pending entry; unknown ids are logged and dropped. Server-initiated
// requests are logged only.
func (d *Dispatcher) Deliver(msg *Message) {
	switch msg.Kind() {
	case KindResponse:
		d.mu.Lock()
		ch, ok := d.pending[*msg.ID]
		if ok {
			delete(d.pending, *msg.ID)
		}
		d.mu.Unlock()
		if !ok {
			logger.Warnf("lsp: dropping response for unknown id %d", *msg.ID)
			return
		}
		ch <- msg
	case KindNotification:
		d.mu.Lock()
		h := d.onNote
		d.mu.Unlock()
		if h != nil {
			h(msg)
		}
	case KindRequest:
		logger.Infof("lsp: ignoring server request %q (id %d)", msg.Method, *msg.ID)
	default:
		logger.Warnf("lsp: dropping malformed message (no id, no method)")
	}
}

// Cancel drops a pending entry; the awaiting caller sees the channel
// close as a transport failure.
func (d *Dispatcher) Cancel(id int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if ch, ok := d.pending[id]; ok {
		delete(d.pending, id)
		close(ch)
	}
}

// CancelAll drops every pending entry, used on shutdown and crash.
func (d *Dispatcher) CancelAll() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for id, ch := range d.pending {
		delete(d.pending, id)
		close(ch)
	}
}
