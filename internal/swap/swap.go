// Package swap records unsaved edits into a sibling swap file so a crash
// can be recovered by replaying the log against the on-disk content.
package swap

import (
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"

	"github.com/smash-editor/smash/internal/edit"
	"github.com/smash-editor/smash/internal/logger"
	"github.com/smash-editor/smash/internal/types"
)

// ErrSwapCorrupted is returned when a swap file holds invalid JSON.
var ErrSwapCorrupted = errors.New("swap file corrupted")

const fileSuffix = ".smash-swap"

// LineReader supplies line content for expanding IndentLines commands at
// record time, before the edit is applied.
type LineReader interface {
	Line(i int) string
}

// File is the serialised swap content.
type File struct {
	OriginalHash string    `json:"original_hash"`
	OriginalPath string    `json:"original_path"`
	Edits        []Command `json:"edits"`
}

// Command is the JSON shape of one serialisable edit command.
// IndentLines never appears here; it is expanded to a batch on record.
type Command struct {
	Kind     string          `json:"kind"` // insert | delete | replace | batch
	Pos      *types.Position `json:"pos,omitempty"`
	Start    *types.Position `json:"start,omitempty"`
	End      *types.Position `json:"end,omitempty"`
	Text     string          `json:"text,omitempty"`
	Commands []Command       `json:"commands,omitempty"`
}

// Recorder accumulates the edit log for one buffer and keeps the swap
// file on disk in sync after every edit.
type Recorder struct {
	path         string // swap file path
	originalPath string
	originalHash string
	edits        []Command
}

// PathFor returns the swap path for an original file: a hidden sibling
// named .<name>.smash-swap.
func PathFor(original string) string {
	dir := filepath.Dir(original)
	name := filepath.Base(original)
	return filepath.Join(dir, "."+name+fileSuffix)
}

// NewRecorder creates a recorder for a file with the given content.
func NewRecorder(originalPath, content string) *Recorder {
	abs, err := filepath.Abs(originalPath)
	if err != nil {
		abs = originalPath
	}
	return &Recorder{
		path:         PathFor(abs),
		originalPath: abs,
		originalHash: ContentHash(content),
	}
}

// ContentHash renders the lower 64 bits of a non-cryptographic content
// hash as 16 hex digits.
func ContentHash(content string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(content))
	return fmt.Sprintf("%016x", h.Sum64())
}

// Record appends a command to the log and rewrites the swap file. The
// reader supplies pre-edit line content for IndentLines expansion.
func (r *Recorder) Record(cmd edit.Command, reader LineReader) error {
	return r.Append(Encode(cmd, reader))
}

// Append persists an already-encoded command. Callers that must encode
// against pre-edit content but commit only after the edit succeeds use
// Encode then Append.
func (r *Recorder) Append(cmd Command) error {
	r.edits = append(r.edits, cmd)
	return r.write()
}

// write persists the log atomically: write a temp file, then rename.
func (r *Recorder) write() error {
	data, err := json.Marshal(File{
		OriginalHash: r.originalHash,
		OriginalPath: r.originalPath,
		Edits:        r.edits,
	})
	if err != nil {
		return fmt.Errorf("failed to encode swap file: %w", err)
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write swap file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("failed to move swap file into place: %w", err)
	}
	return nil
}

// Remove deletes the swap file. Call after a successful save.
func (r *Recorder) Remove() {
	r.edits = r.edits[:0]
	if err := os.Remove(r.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warnf("swap: failed to remove %s: %v", r.path, err)
	}
}

// Path returns the swap file location.
func (r *Recorder) Path() string { return r.path }

// Load reads a swap file back. Invalid JSON fails with ErrSwapCorrupted.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read swap file '%s': %w", path, err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSwapCorrupted, path)
	}
	return &f, nil
}

// Commands decodes the edit log back into applicable commands.
func (f *File) Commands() []edit.Command {
	out := make([]edit.Command, 0, len(f.Edits))
	for _, c := range f.Edits {
		out = append(out, Decode(c))
	}
	return out
}

// Encode converts a command to its serialisable shape. IndentLines
// becomes a batch of per-line inserts or deletes computed from the
// pre-edit line content.
func Encode(cmd edit.Command, reader LineReader) Command {
	switch c := cmd.(type) {
	case edit.Insert:
		pos := c.Pos
		return Command{Kind: "insert", Pos: &pos, Text: c.Text}
	case edit.Delete:
		start, end := c.Range.Start, c.Range.End
		return Command{Kind: "delete", Start: &start, End: &end}
	case edit.Replace:
		start, end := c.Range.Start, c.Range.End
		return Command{Kind: "replace", Start: &start, End: &end, Text: c.Text}
	case edit.Batch:
		out := Command{Kind: "batch"}
		for _, sub := range c.Commands {
			out.Commands = append(out.Commands, Encode(sub, reader))
		}
		return out
	case edit.IndentLines:
		return encodeIndent(c, reader)
	default:
		logger.Warnf("swap: unknown command %T recorded as empty batch", cmd)
		return Command{Kind: "batch"}
	}
}

func encodeIndent(c edit.IndentLines, reader LineReader) Command {
	out := Command{Kind: "batch"}
	for _, line := range c.Lines {
		if c.Direction == edit.IndentIn {
			pos := types.Position{Line: line}
			out.Commands = append(out.Commands, Command{
				Kind: "insert", Pos: &pos, Text: "    ",
			})
			continue
		}
		n := 0
		if reader != nil {
			for _, ch := range reader.Line(line) {
				if ch != ' ' || n >= edit.IndentWidth {
					break
				}
				n++
			}
		}
		if n == 0 {
			continue
		}
		start := types.Position{Line: line}
		end := types.Position{Line: line, Col: n}
		out.Commands = append(out.Commands, Command{Kind: "delete", Start: &start, End: &end})
	}
	return out
}

// Decode converts a serialised command back to an applicable one.
func Decode(c Command) edit.Command {
	switch c.Kind {
	case "insert":
		var pos types.Position
		if c.Pos != nil {
			pos = *c.Pos
		}
		return edit.Insert{Pos: pos, Text: c.Text}
	case "delete":
		return edit.Delete{Range: rangeOf(c)}
	case "replace":
		return edit.Replace{Range: rangeOf(c), Text: c.Text}
	case "batch":
		batch := edit.Batch{}
		for _, sub := range c.Commands {
			batch.Commands = append(batch.Commands, Decode(sub))
		}
		return batch
	default:
		logger.Warnf("swap: unknown command kind %q decoded as empty batch", c.Kind)
		return edit.Batch{}
	}
}

func rangeOf(c Command) types.Range {
	var start, end types.Position
	if c.Start != nil {
		start = *c.Start
	}
	if c.End != nil {
		end = *c.End
	}
	return types.Range{Start: start, End: end}
}
