// internal/buffer/buffer.go
package buffer

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/smash-editor/smash/internal/cursor"
	"github.com/smash-editor/smash/internal/history"
	"github.com/smash-editor/smash/internal/search"
	"github.com/smash-editor/smash/internal/types"
)

// LineEnding selects how the buffer encodes line breaks on save.
type LineEnding int

const (
	LineEndingAuto LineEnding = iota // Keep whatever the file used
	LineEndingLF
	LineEndingCRLF
)

var nextBufferID atomic.Int64

// Buffer is an open document: rope content plus the per-buffer state that
// travels with it (cursors, search, undo history).
type Buffer struct {
	id         int64
	rope       *Rope
	path       string
	dirty      bool
	lineEnding LineEnding
	hadCRLF    bool // Line ending observed on load, used by Auto mode

	Cursors *cursor.Set
	Search  *search.State
	History *history.Tree
}

// New creates an empty unnamed buffer.
func New() *Buffer {
	return newBuffer("", "")
}

// NewFromString creates an unnamed buffer with initial content.
func NewFromString(content string) *Buffer {
	return newBuffer(content, "")
}

func newBuffer(content, path string) *Buffer {
	b := &Buffer{
		id:      nextBufferID.Add(1),
		path:    path,
		Cursors: cursor.NewSet(),
		Search:  search.NewState(),
		History: history.New(),
	}
	b.setContent(content)
	return b
}

// Open reads a file into a new buffer, failing if it does not exist.
func Open(path string) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("file not found: %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to open file '%s': %w", path, err)
	}
	b := newBuffer(string(data), path)
	return b, nil
}

// OpenOrCreate reads a file if it exists; otherwise it returns an empty
// buffer with the path attached so a later save creates the file.
func OpenOrCreate(path string) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return newBuffer("", path), nil
		}
		return nil, fmt.Errorf("failed to open file '%s': %w", path, err)
	}
	return newBuffer(string(data), path), nil
}

// setContent normalises line endings to LF internally, remembering
// whether the source used CRLF for the Auto save mode.
func (b *Buffer) setContent(content string) {
	b.hadCRLF = strings.Contains(content, "\r\n")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	b.rope = NewRope(content)
	b.dirty = false
}

// ID returns the buffer's unique id.
func (b *Buffer) ID() int64 { return b.id }

// FilePath returns the attached filesystem path, if any.
func (b *Buffer) FilePath() string { return b.path }

// IsDirty reports whether the buffer has unsaved changes.
func (b *Buffer) IsDirty() bool { return b.dirty }

// LineEnding returns the configured line-ending mode.
func (b *Buffer) LineEnding() LineEnding { return b.lineEnding }

// SetLineEnding changes the line-ending mode used on save.
func (b *Buffer) SetLineEnding(le LineEnding) { b.lineEnding = le }

// Rope exposes the underlying rope for read-only callers (renderer, search).
func (b *Buffer) Rope() *Rope { return b.rope }

// LenChars returns the rune count of the content.
func (b *Buffer) LenChars() int { return b.rope.LenChars() }

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int { return b.rope.LineCount() }

// Line returns a line's content without its newline.
func (b *Buffer) Line(i int) string { return b.rope.Line(i) }

// String materialises the buffer content with LF line endings.
func (b *Buffer) String() string { return b.rope.String() }

// Save writes the full content to the buffer's path and clears dirty.
func (b *Buffer) Save() error {
	return b.SaveAs(b.path)
}

// SaveAs writes the content to path and adopts it as the buffer's path.
func (b *Buffer) SaveAs(path string) error {
	if path == "" {
		return ErrNoFilePath
	}
	content := b.rope.String()
	if b.useCRLF() {
		content = strings.ReplaceAll(content, "\n", "\r\n")
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write file '%s': %w", path, err)
	}
	b.path = path
	b.dirty = false
	return nil
}

func (b *Buffer) useCRLF() bool {
	switch b.lineEnding {
	case LineEndingCRLF:
		return true
	case LineEndingAuto:
		return b.hadCRLF
	default:
		return false
	}
}

// --- Coordinate Translation ---

// PosToChar converts a (line, col) position to a rune index. Positions
// past the last line or past a line's content fail with OutOfBounds.
func (b *Buffer) PosToChar(pos types.Position) (int, error) {
	if pos.Line < 0 || pos.Col < 0 || pos.Line >= b.rope.LineCount() {
		return 0, &OutOfBoundsError{Pos: pos}
	}
	if pos.Col > b.rope.LineLenChars(pos.Line) {
		return 0, &OutOfBoundsError{Pos: pos}
	}
	return b.rope.LineStartChar(pos.Line) + pos.Col, nil
}

// CharToPos converts a rune index back to a (line, col) position.
func (b *Buffer) CharToPos(charIdx int) types.Position {
	if charIdx < 0 {
		charIdx = 0
	}
	if charIdx > b.rope.LenChars() {
		charIdx = b.rope.LenChars()
	}
	line := b.rope.LineAtChar(charIdx)
	return types.Position{Line: line, Col: charIdx - b.rope.LineStartChar(line)}
}

// PosToByte converts a position to a byte offset.
func (b *Buffer) PosToByte(pos types.Position) (int, error) {
	charIdx, err := b.PosToChar(pos)
	if err != nil {
		return 0, err
	}
	return b.rope.CharToByte(charIdx), nil
}

// ByteToPos converts a byte offset to a position.
func (b *Buffer) ByteToPos(byteOff int) types.Position {
	return b.CharToPos(b.rope.ByteToChar(byteOff))
}

// EndPosition returns the position just past the last character.
func (b *Buffer) EndPosition() types.Position {
	return b.CharToPos(b.rope.LenChars())
}
