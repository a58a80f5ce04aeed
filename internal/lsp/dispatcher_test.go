// internal/lsp/dispatcher_test.go
package lsp

import (
	"encoding/json"
	"testing"
)

func TestRegisterAllocatesSequentialIDs(t *testing.T) {
	d := NewDispatcher()
	id1, _ := d.Register()
	id2, _ := d.Register()
	if id1 != 1 || id2 != 2 {
		t.Errorf("ids = %d, %d, want 1, 2", id1, id2)
	}
}

func TestDeliverResponse(t *testing.T) {
	d := NewDispatcher()
	id, ch := d.Register()

	reply := &Message{ID: &id, Result: json.RawMessage(`"ok"`)}
	d.Deliver(reply)

	select {
	case got := <-ch:
		if got != reply {
			t.Error("wrong message delivered")
		}
	default:
		t.Fatal("no reply on the channel")
	}

	// The entry is consumed: a duplicate response is dropped.
	d.Deliver(reply)
	select {
	case <-ch:
		t.Error("duplicate response delivered")
	default:
	}
}

func TestDeliverUnknownID(t *testing.T) {
	d := NewDispatcher()
	id := int64(99)
	// Must not panic or block.
	d.Deliver(&Message{ID: &id, Result: json.RawMessage(`{}`)})
}

func TestDeliverNotification(t *testing.T) {
	d := NewDispatcher()
	var got *Message
	d.SetNotificationHandler(func(msg *Message) { got = msg })

	note := &Message{Method: "textDocument/publishDiagnostics", Params: json.RawMessage(`{}`)}
	d.Deliver(note)
	if got != note {
		t.Error("notification not handed to the handler")
	}
}

func TestCancelClosesChannel(t *testing.T) {
	d := NewDispatcher()
	id, ch := d.Register()
	d.Cancel(id)

	if _, ok := <-ch; ok {
		t.Error("cancelled channel produced a message")
	}

	// A late response for the cancelled id is dropped silently.
	d.Deliver(&Message{ID: &id, Result: json.RawMessage(`{}`)})
}

func TestCancelAll(t *testing.T) {
	d := NewDispatcher()
	_, ch1 := d.Register()
	_, ch2 := d.Register()
	d.CancelAll()

	for _, ch := range []<-chan *Message{ch1, ch2} {
		if _, ok := <-ch; ok {
			t.Error("channel survived CancelAll")
		}
	}
}
