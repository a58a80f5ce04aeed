// internal/event/event.go
package event

import (
	"github.com/smash-editor/smash/internal/types"
)

// Type identifies the kind of event.
type Type int

const (
	TypeUnknown Type = iota

	TypeBufferModified // buffer content changed
	TypeBufferLoaded   // buffer read from disk
	TypeBufferSaved    // buffer written to disk
	TypeCursorMoved
	TypeModeChanged // Normal <-> prompt modes

	TypeDiagnosticsUpdated // language server pushed diagnostics
	TypeThemeChanged

	TypeAppReady
	TypeAppQuit
)

// Event is the structure passed through the event bus.
type Event struct {
	Type Type
	Data interface{}
}

// BufferModifiedData carries the change record so subscribers (swap
// recorder, highlighter, LSP sync) can react incrementally.
type BufferModifiedData struct {
	BufferID int64
	Edit     types.EditInfo
}

type BufferLoadedData struct {
	FilePath string
}

type BufferSavedData struct {
	FilePath string
}

type CursorMovedData struct {
	NewPosition types.Position
}

type DiagnosticsUpdatedData struct {
	URI   string
	Count int
}

type AppQuitData struct{}
