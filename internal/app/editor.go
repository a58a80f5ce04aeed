// internal/app/editor.go
package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/atotto/clipboard"

	"github.com/smash-editor/smash/internal/buffer"
	"github.com/smash-editor/smash/internal/config"
	"github.com/smash-editor/smash/internal/edit"
	"github.com/smash-editor/smash/internal/event"
	"github.com/smash-editor/smash/internal/highlight"
	"github.com/smash-editor/smash/internal/logger"
	"github.com/smash-editor/smash/internal/lsp"
	"github.com/smash-editor/smash/internal/search"
	"github.com/smash-editor/smash/internal/swap"
	"github.com/smash-editor/smash/internal/tui"
	"github.com/smash-editor/smash/internal/types"
)

// Editor owns the active buffer, its view state, and the machinery
// that reacts to edits: swap recording, highlighting, event dispatch.
type Editor struct {
	Buffer *buffer.Buffer
	View   tui.View

	cfg    config.EditorConfig
	events *event.Manager

	viewWidth  int // text columns, gutter excluded
	viewHeight int

	recorder *swap.Recorder
	language *highlight.Language
	tsEngine *highlight.TreeSitterEngine
	tsSpans  map[int][]highlight.Span
	version  int // LSP document version, bumped per change

	clipboardFallback string // used when the system clipboard is unavailable
}

// NewEditor opens path (empty path for a scratch buffer) and replays
// any leftover swap file against the on-disk content.
func NewEditor(path string, cfg config.EditorConfig, events *event.Manager) (*Editor, error) {
	var buf *buffer.Buffer
	var err error
	if path == "" {
		buf = buffer.New()
	} else {
		buf, err = buffer.OpenOrCreate(path)
		if err != nil {
			return nil, err
		}
	}
	switch cfg.LineEnding {
	case "lf":
		buf.SetLineEnding(buffer.LineEndingLF)
	case "crlf":
		buf.SetLineEnding(buffer.LineEndingCRLF)
	}

	e := &Editor{
		Buffer:  buf,
		cfg:     cfg,
		events:  events,
		version: 1,
	}
	if path != "" {
		ext := filepath.Ext(path)
		e.language = highlight.ForExtension(ext)
		if ext == ".go" {
			if engine, err := highlight.NewGoEngine(); err == nil {
				e.tsEngine = engine
				e.refreshTreeSitter()
			} else {
				logger.Warnf("highlight: tree-sitter unavailable for %s: %v", path, err)
			}
		}
		e.recoverFromSwap(path)
		e.recorder = swap.NewRecorder(path, buf.String())
		events.Dispatch(event.TypeBufferLoaded, event.BufferLoadedData{FilePath: path})
	}
	return e, nil
}

// recoverFromSwap replays a leftover edit log when it matches the
// on-disk content. A stale or corrupt swap file is discarded.
func (e *Editor) recoverFromSwap(path string) {
	swapPath := swap.PathFor(path)
	if _, err := os.Stat(swapPath); err != nil {
		return
	}
	f, err := swap.Load(swapPath)
	if err != nil {
		if errors.Is(err, swap.ErrSwapCorrupted) {
			logger.Warnf("swap: %s is corrupted, discarding", swapPath)
			_ = os.Remove(swapPath)
		}
		return
	}
	if f.OriginalHash != swap.ContentHash(e.Buffer.String()) {
		logger.Warnf("swap: %s does not match on-disk content, discarding", swapPath)
		_ = os.Remove(swapPath)
		return
	}
	for _, enc := range f.Edits {
		if _, err := e.Buffer.ApplyEdit(swap.Decode(enc)); err != nil {
			logger.Errorf("swap: replay failed, keeping on-disk content: %v", err)
			return
		}
	}
	logger.Infof("swap: recovered %d edit(s) for %s", len(f.Edits), path)
}

// Resize records the text area size used for scrolling and paging.
func (e *Editor) Resize(textWidth, textHeight int) {
	e.viewWidth = textWidth
	e.viewHeight = textHeight
	e.ScrollToCursor()
}

// --- Cursor movement ---

// CursorPos returns the primary cursor position.
func (e *Editor) CursorPos() types.Position {
	return e.Buffer.Cursors.Primary().Pos
}

// CursorLine returns the text of the cursor's line without its
// terminator, for width-aware cursor placement.
func (e *Editor) CursorLine() string {
	return strings.TrimRight(e.Buffer.Line(e.CursorPos().Line), "\r\n")
}

func (e *Editor) lineLen(line int) int {
	return utf8.RuneCountInString(strings.TrimRight(e.Buffer.Line(line), "\r\n"))
}

// MoveCursor moves the primary cursor by a delta, wrapping across line
// boundaries on horizontal moves and clamping to line lengths.
// extend keeps (or starts) a selection anchored at the old position.
func (e *Editor) MoveCursor(deltaLine, deltaCol int, extend bool) {
	cur := e.Buffer.Cursors.Primary()
	pos := cur.Pos
	lineCount := e.Buffer.LineCount()

	if deltaLine == 0 && deltaCol > 0 && pos.Col >= e.lineLen(pos.Line) && pos.Line < lineCount-1 {
		e.moveTo(types.Position{Line: pos.Line + 1, Col: 0}, extend)
		return
	}
	if deltaLine == 0 && deltaCol < 0 && pos.Col <= 0 && pos.Line > 0 {
		e.moveTo(types.Position{Line: pos.Line - 1, Col: e.lineLen(pos.Line - 1)}, extend)
		return
	}

	target := types.Position{Line: pos.Line + deltaLine, Col: pos.Col + deltaCol}
	e.moveTo(e.clamp(target), extend)
}

func (e *Editor) clamp(pos types.Position) types.Position {
	lineCount := e.Buffer.LineCount()
	if pos.Line < 0 {
		pos.Line = 0
	}
	if pos.Line >= lineCount {
		pos.Line = lineCount - 1
	}
	if pos.Col < 0 {
		pos.Col = 0
	}
	if max := e.lineLen(pos.Line); pos.Col > max {
		pos.Col = max
	}
	return pos
}

func (e *Editor) moveTo(pos types.Position, extend bool) {
	cur := e.Buffer.Cursors.Primary()
	if extend {
		anchor := cur.Pos
		if cur.Anchor != nil {
			anchor = *cur.Anchor
		}
		e.Buffer.Cursors.SetPrimarySelection(anchor, pos)
	} else {
		e.Buffer.Cursors.SetPrimary(pos)
	}
	e.ScrollToCursor()
	e.events.Dispatch(event.TypeCursorMoved, event.CursorMovedData{NewPosition: pos})
}

// MovePage moves by one view height, keeping the column.
func (e *Editor) MovePage(dir int, extend bool) {
	step := e.viewHeight - 1
	if step < 1 {
		step = 1
	}
	e.MoveCursor(dir*step, 0, extend)
}

func (e *Editor) MoveHome(extend bool) {
	pos := e.CursorPos()
	e.moveTo(types.Position{Line: pos.Line, Col: 0}, extend)
}

func (e *Editor) MoveEnd(extend bool) {
	pos := e.CursorPos()
	e.moveTo(types.Position{Line: pos.Line, Col: e.lineLen(pos.Line)}, extend)
}

func (e *Editor) MoveFileStart(extend bool) {
	e.moveTo(types.Position{}, extend)
}

func (e *Editor) MoveFileEnd(extend bool) {
	e.moveTo(e.Buffer.EndPosition(), extend)
}

// ScrollToCursor adjusts the view so the primary cursor is visible.
func (e *Editor) ScrollToCursor() {
	if e.viewWidth <= 0 || e.viewHeight <= 0 {
		return
	}
	pos := e.CursorPos()
	if pos.Line < e.View.TopLine {
		e.View.TopLine = pos.Line
	}
	if pos.Line >= e.View.TopLine+e.viewHeight {
		e.View.TopLine = pos.Line - e.viewHeight + 1
	}
	if pos.Col < e.View.LeftCol {
		e.View.LeftCol = pos.Col
	}
	if pos.Col >= e.View.LeftCol+e.viewWidth {
		e.View.LeftCol = pos.Col - e.viewWidth + 1
	}
}

// --- Selection ---

// Selection returns the primary selection range if one is active.
func (e *Editor) Selection() (types.Range, bool) {
	return e.Buffer.Cursors.Primary().Selection()
}

func (e *Editor) SelectAll() {
	e.Buffer.Cursors.SetPrimarySelection(types.Position{}, e.Buffer.EndPosition())
}

func (e *Editor) ClearSelection() {
	e.Buffer.Cursors.SetPrimary(e.CursorPos())
}

// selectedText extracts the text covered by the primary selection.
func (e *Editor) selectedText(rng types.Range) string {
	start, err1 := e.Buffer.PosToChar(rng.Start)
	end, err2 := e.Buffer.PosToChar(rng.End)
	if err1 != nil || err2 != nil {
		return ""
	}
	return e.Buffer.Rope().Slice(start, end)
}

// --- Editing ---

// apply runs one command through the buffer, records it for recovery,
// and fans the change out to subscribers. The swap entry is encoded
// against pre-edit content but committed only when the edit succeeds,
// so a rejected command never enters the recovery log.
func (e *Editor) apply(cmd edit.Command) ([]types.EditInfo, error) {
	var encoded swap.Command
	if e.recorder != nil {
		encoded = swap.Encode(cmd, e.Buffer)
	}
	events, err := e.Buffer.ApplyEdit(cmd)
	if err != nil {
		return nil, err
	}
	if e.recorder != nil {
		if err := e.recorder.Append(encoded); err != nil {
			logger.Warnf("swap: %v", err)
		}
	}
	e.afterChange(events)
	return events, nil
}

func (e *Editor) afterChange(events []types.EditInfo) {
	e.version++
	for _, info := range events {
		if e.tsEngine != nil {
			e.tsEngine.ApplyEdit(info)
		}
		e.events.Dispatch(event.TypeBufferModified, event.BufferModifiedData{
			BufferID: e.Buffer.ID(),
			Edit:     info,
		})
	}
	e.refreshTreeSitter()
	if e.Buffer.Search.HasQuery() {
		e.Buffer.Search.Recompute(e.Buffer.String())
	}
	e.ScrollToCursor()
}

func (e *Editor) refreshTreeSitter() {
	if e.tsEngine == nil {
		return
	}
	spans, err := e.tsEngine.Highlight([]byte(e.Buffer.String()))
	if err != nil {
		logger.Warnf("highlight: %v", err)
		return
	}
	e.tsSpans = spans
}

// SpansFor is the renderer's highlight source: tree-sitter spans when
// a grammar engine is active, regex rules otherwise.
func (e *Editor) SpansFor(line int, text string) []highlight.Span {
	if e.tsSpans != nil {
		return e.tsSpans[line]
	}
	if e.language != nil {
		return highlight.HighlightLine(e.language, text)
	}
	return nil
}

// deleteSelection removes the active selection, if any.
func (e *Editor) deleteSelection() (bool, error) {
	rng, ok := e.Selection()
	if !ok {
		return false, nil
	}
	if _, err := e.apply(edit.Delete{Range: rng}); err != nil {
		return false, err
	}
	return true, nil
}

// insertAt applies an insert and leaves the cursor at its end. The
// remap rule keeps a cursor sitting exactly on the insert position in
// place, so typing advances the cursor explicitly.
func (e *Editor) insertAt(pos types.Position, text string) (types.Position, error) {
	events, err := e.apply(edit.Insert{Pos: pos, Text: text})
	if err != nil {
		return pos, err
	}
	end := events[len(events)-1].NewEndPos
	e.moveTo(end, false)
	return end, nil
}

// InsertRune types one character at the cursor, replacing the
// selection when one is active.
func (e *Editor) InsertRune(r rune) error {
	if _, err := e.deleteSelection(); err != nil {
		return err
	}
	text := string(r)
	autoClosed := false
	if e.cfg.AutoCloseBrackets {
		if closing, ok := closingBracket(r); ok {
			text += string(closing)
			autoClosed = true
		}
	}
	end, err := e.insertAt(e.CursorPos(), text)
	if err != nil {
		return err
	}
	if autoClosed {
		e.moveTo(types.Position{Line: end.Line, Col: end.Col - 1}, false)
	}
	return nil
}

func closingBracket(r rune) (rune, bool) {
	switch r {
	case '(':
		return ')', true
	case '[':
		return ']', true
	case '{':
		return '}', true
	default:
		return 0, false
	}
}

// InsertNewLine breaks the line, carrying the current indentation over
// when auto-indent is on.
func (e *Editor) InsertNewLine() error {
	if _, err := e.deleteSelection(); err != nil {
		return err
	}
	text := "\n"
	if e.cfg.AutoIndent {
		line := e.Buffer.Line(e.CursorPos().Line)
		for _, ch := range line {
			if ch != ' ' && ch != '\t' {
				break
			}
			text += string(ch)
		}
	}
	_, err := e.insertAt(e.CursorPos(), text)
	return err
}

// InsertText inserts a block of text (paste) at the cursor.
func (e *Editor) InsertText(text string) error {
	if _, err := e.deleteSelection(); err != nil {
		return err
	}
	if text == "" {
		return nil
	}
	_, err := e.insertAt(e.CursorPos(), text)
	return err
}

// DeleteBackward is Backspace: selection, or the char before the
// cursor, joining lines at column 0.
func (e *Editor) DeleteBackward() error {
	if deleted, err := e.deleteSelection(); deleted || err != nil {
		return err
	}
	pos := e.CursorPos()
	if pos.Col == 0 {
		if pos.Line == 0 {
			return nil
		}
		prev := types.Position{Line: pos.Line - 1, Col: e.lineLen(pos.Line - 1)}
		_, err := e.apply(edit.Delete{Range: types.Range{Start: prev, End: pos}})
		return err
	}
	start := types.Position{Line: pos.Line, Col: pos.Col - 1}
	_, err := e.apply(edit.Delete{Range: types.Range{Start: start, End: pos}})
	return err
}

// DeleteForward is Delete: selection, or the char under the cursor,
// joining with the next line at end of line.
func (e *Editor) DeleteForward() error {
	if deleted, err := e.deleteSelection(); deleted || err != nil {
		return err
	}
	pos := e.CursorPos()
	if pos.Col >= e.lineLen(pos.Line) {
		if pos.Line >= e.Buffer.LineCount()-1 {
			return nil
		}
		next := types.Position{Line: pos.Line + 1, Col: 0}
		_, err := e.apply(edit.Delete{Range: types.Range{Start: pos, End: next}})
		return err
	}
	end := types.Position{Line: pos.Line, Col: pos.Col + 1}
	_, err := e.apply(edit.Delete{Range: types.Range{Start: pos, End: end}})
	return err
}

// selectedLines returns the lines covered by the selection, or the
// cursor line.
func (e *Editor) selectedLines() []int {
	rng, ok := e.Selection()
	if !ok {
		return []int{e.CursorPos().Line}
	}
	last := rng.End.Line
	if rng.End.Col == 0 && last > rng.Start.Line {
		last-- // selection ending at column 0 does not include that line
	}
	lines := make([]int, 0, last-rng.Start.Line+1)
	for l := rng.Start.Line; l <= last; l++ {
		lines = append(lines, l)
	}
	return lines
}

func (e *Editor) Indent() error {
	_, err := e.apply(edit.IndentLines{Lines: e.selectedLines(), Direction: edit.IndentIn})
	return err
}

func (e *Editor) Outdent() error {
	_, err := e.apply(edit.IndentLines{Lines: e.selectedLines(), Direction: edit.IndentOut})
	return err
}

// --- Undo / redo ---

func (e *Editor) Undo() (bool, error) {
	events, ok, err := e.Buffer.Undo()
	if err != nil || !ok {
		return ok, err
	}
	e.afterChange(events)
	return true, nil
}

func (e *Editor) Redo() (bool, error) {
	events, ok, err := e.Buffer.Redo()
	if err != nil || !ok {
		return ok, err
	}
	e.afterChange(events)
	return true, nil
}

// --- Clipboard ---

// Copy puts the selection on the system clipboard, falling back to an
// in-process buffer when no system clipboard is reachable.
func (e *Editor) Copy() bool {
	rng, ok := e.Selection()
	if !ok {
		return false
	}
	text := e.selectedText(rng)
	if err := clipboard.WriteAll(text); err != nil {
		logger.Debugf("clipboard: system clipboard unavailable: %v", err)
		e.clipboardFallback = text
	}
	return true
}

func (e *Editor) Cut() (bool, error) {
	if !e.Copy() {
		return false, nil
	}
	deleted, err := e.deleteSelection()
	return deleted, err
}

func (e *Editor) Paste() error {
	text, err := clipboard.ReadAll()
	if err != nil {
		text = e.clipboardFallback
	}
	return e.InsertText(text)
}

// --- Search ---

// StartSearch compiles a plain-text query and jumps to the first match
// at or after the cursor.
func (e *Editor) StartSearch(query string, caseSensitive bool) bool {
	e.Buffer.Search.SetPlainQuery(query, caseSensitive)
	e.Buffer.Search.Recompute(e.Buffer.String())
	return e.seekMatch(e.Buffer.Search.SeekForwardFrom(e.CursorPos()))
}

func (e *Editor) NextMatch() bool {
	return e.seekMatch(e.Buffer.Search.Next())
}

func (e *Editor) PrevMatch() bool {
	return e.seekMatch(e.Buffer.Search.Prev())
}

func (e *Editor) seekMatch(m search.Match, ok bool) bool {
	if !ok {
		return false
	}
	e.Buffer.Cursors.SetPrimarySelection(m.Range.Start, m.Range.End)
	e.ScrollToCursor()
	return true
}

// ClearSearch drops the query and its matches.
func (e *Editor) ClearSearch() {
	e.Buffer.Search.Clear()
}

// --- Persistence ---

// Save writes the buffer and retires the swap file.
func (e *Editor) Save() error {
	if err := e.Buffer.Save(); err != nil {
		return err
	}
	if e.recorder != nil {
		e.recorder.Remove()
	}
	e.recorder = swap.NewRecorder(e.Buffer.FilePath(), e.Buffer.String())
	e.events.Dispatch(event.TypeBufferSaved, event.BufferSavedData{FilePath: e.Buffer.FilePath()})
	return nil
}

// SaveAs writes the buffer to a new path and rebinds recovery to it.
func (e *Editor) SaveAs(path string) error {
	if err := e.Buffer.SaveAs(path); err != nil {
		return err
	}
	if e.recorder != nil {
		e.recorder.Remove()
	}
	e.recorder = swap.NewRecorder(path, e.Buffer.String())
	e.language = highlight.ForExtension(filepath.Ext(path))
	e.events.Dispatch(event.TypeBufferSaved, event.BufferSavedData{FilePath: path})
	return nil
}

// --- LSP bridging ---

// Version is the LSP document version.
func (e *Editor) Version() int { return e.version }

// LanguageID is the language identifier used for LSP routing, derived
// from the file extension.
func (e *Editor) LanguageID() string {
	if e.language != nil {
		return e.language.Name
	}
	return ""
}

// URI renders the buffer path as a file URI.
func (e *Editor) URI() string {
	path := e.Buffer.FilePath()
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return "file://" + filepath.ToSlash(abs)
}

// ApplyTextEdits applies formatting edits from a language server as
// one undoable batch, last edit first so earlier positions stay valid.
func (e *Editor) ApplyTextEdits(edits []lsp.TextEdit) error {
	if len(edits) == 0 {
		return nil
	}
	cmds := make([]edit.Command, 0, len(edits))
	for i := len(edits) - 1; i >= 0; i-- {
		te := edits[i]
		rng := types.Range{
			Start: types.Position{Line: te.Range.Start.Line, Col: te.Range.Start.Character},
			End:   types.Position{Line: te.Range.End.Line, Col: te.Range.End.Character},
		}
		if rng.IsEmpty() {
			cmds = append(cmds, edit.Insert{Pos: rng.Start, Text: te.NewText})
		} else {
			cmds = append(cmds, edit.Replace{Range: rng, Text: te.NewText})
		}
	}
	_, err := e.apply(edit.Batch{Commands: cmds})
	return err
}

// Close releases resources held by the editor.
func (e *Editor) Close() {
	if e.tsEngine != nil {
		e.tsEngine.Close()
	}
}

// StatusName is the name shown in the status bar.
func (e *Editor) StatusName() string {
	if path := e.Buffer.FilePath(); path != "" {
		return filepath.Base(path)
	}
	return "[scratch]"
}
