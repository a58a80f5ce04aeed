// internal/tui/backend.go
package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Backend abstracts the terminal the renderer flushes to. The production
// implementation wraps tcell; tests substitute an in-memory fake.
type Backend interface {
	MoveCursor(col, row int)
	ShowCursor()
	HideCursor()
	Clear()
	WriteCell(col, row int, cell Cell)
	Flush() error
	EnterAlternateScreen()
	LeaveAlternateScreen()
	EnableRawMode() error
	DisableRawMode() error
	Size() (int, int)
}

// TcellBackend drives a real terminal through tcell. tcell couples raw
// mode and the alternate screen to screen Init/Fini, so those methods
// track state instead of issuing separate sequences.
type TcellBackend struct {
	screen      tcell.Screen
	initialized bool
	cursorCol   int
	cursorRow   int
	cursorShown bool
}

// NewTcellBackend creates an uninitialised backend. EnableRawMode
// initialises the screen.
func NewTcellBackend() (*TcellBackend, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create tcell screen: %w", err)
	}
	return &TcellBackend{screen: s}, nil
}

// Screen exposes the underlying tcell screen for event polling.
func (b *TcellBackend) Screen() tcell.Screen { return b.screen }

func (b *TcellBackend) EnableRawMode() error {
	if b.initialized {
		return nil
	}
	if err := b.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize tcell screen: %w", err)
	}
	b.initialized = true
	return nil
}

func (b *TcellBackend) DisableRawMode() error {
	if b.initialized {
		b.screen.Fini()
		b.initialized = false
	}
	return nil
}

// EnterAlternateScreen is part of tcell's Init; nothing extra to do.
func (b *TcellBackend) EnterAlternateScreen() {}

// LeaveAlternateScreen is part of tcell's Fini; nothing extra to do.
func (b *TcellBackend) LeaveAlternateScreen() {}

func (b *TcellBackend) MoveCursor(col, row int) {
	b.cursorCol, b.cursorRow = col, row
	if b.cursorShown {
		b.screen.ShowCursor(col, row)
	}
}

func (b *TcellBackend) ShowCursor() {
	b.cursorShown = true
	b.screen.ShowCursor(b.cursorCol, b.cursorRow)
}

func (b *TcellBackend) HideCursor() {
	b.cursorShown = false
	b.screen.HideCursor()
}

func (b *TcellBackend) Clear() {
	b.screen.Clear()
}

func (b *TcellBackend) WriteCell(col, row int, cell Cell) {
	b.screen.SetContent(col, row, cell.Ch, nil, cell.Style)
}

func (b *TcellBackend) Flush() error {
	b.screen.Show()
	return nil
}

func (b *TcellBackend) Size() (int, int) {
	return b.screen.Size()
}
