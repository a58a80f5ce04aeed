// internal/tui/renderer.go
package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/smash-editor/smash/internal/buffer"
	"github.com/smash-editor/smash/internal/highlight"
	"github.com/smash-editor/smash/internal/theme"
	"github.com/smash-editor/smash/internal/types"
)

// GutterWidth is the fixed width of the line-number column.
const GutterWidth = 5

// View is the scroll state of a buffer shown in an area.
type View struct {
	TopLine int
	LeftCol int
}

// Renderer composes editor state into a cell grid and flushes only the
// cells that changed since the last flush.
type Renderer struct {
	backend  Backend
	theme    *theme.Theme
	current  *Screen
	previous *Screen
}

// NewRenderer creates a renderer sized to the backend.
func NewRenderer(backend Backend, th *theme.Theme) *Renderer {
	w, h := backend.Size()
	return &Renderer{
		backend: backend,
		theme:   th,
		current: NewScreen(w, h),
	}
}

// Resize replaces both screens; the next flush repaints everything.
func (r *Renderer) Resize(w, h int) {
	r.current = NewScreen(w, h)
	r.previous = nil
}

// Size returns the current screen size.
func (r *Renderer) Size() (int, int) { return r.current.Size() }

// SetTheme switches the active theme.
func (r *Renderer) SetTheme(th *theme.Theme) { r.theme = th }

// Screen exposes the screen under construction, for overlays drawn on
// top of the buffer view (selections, search matches, prompts).
func (r *Renderer) Screen() *Screen { return r.current }

// SpanSource supplies highlight spans for one line of text. nil
// renders plain text.
type SpanSource func(line int, text string) []highlight.Span

// RenderBuffer fills area with a view of buf. Rows past the end of the
// buffer get a tilde gutter.
func (r *Renderer) RenderBuffer(buf *buffer.Buffer, area Rect, view View, spansFor SpanSource) {
	defaultStyle := r.theme.GetStyle("Default")
	gutterStyle := r.theme.GetStyle("Gutter")
	lineCount := buf.LineCount()

	for row := 0; row < area.H; row++ {
		lineIdx := view.TopLine + row
		y := area.Y + row
		if lineIdx >= lineCount {
			r.writeString(area.X, y, "   ~ ", gutterStyle)
			r.fillBlank(area.X+GutterWidth, area.X+area.W, y, defaultStyle)
			continue
		}
		r.writeString(area.X, y, fmt.Sprintf("%4d ", lineIdx+1), gutterStyle)

		line := strings.TrimRight(buf.Line(lineIdx), "\r\n")
		var spans []highlight.Span
		if spansFor != nil {
			spans = spansFor(lineIdx, line)
		}
		r.drawLine(line, spans, area, y, view.LeftCol, defaultStyle)
	}
}

// drawLine emits the visible slice of one buffer line. Highlight spans
// carry byte offsets; the horizontal clip is in character columns.
func (r *Renderer) drawLine(line string, spans []highlight.Span, area Rect, y, leftCol int, defaultStyle tcell.Style) {
	x := area.X + GutterWidth
	limit := area.X + area.W
	col := 0
	byteOff := 0
	for _, ch := range line {
		chBytes := len(string(ch))
		if col < leftCol {
			col++
			byteOff += chBytes
			continue
		}
		if x >= limit {
			return
		}
		style := defaultStyle
		for _, span := range spans {
			if byteOff >= span.Start && byteOff < span.End {
				style = r.theme.StyleForScope(span.Scope)
				break
			}
		}
		r.current.Set(x, y, Cell{Ch: ch, Style: style})
		x += runewidth.RuneWidth(ch)
		col++
		byteOff += chBytes
	}
	r.fillBlank(x, limit, y, defaultStyle)
}

// RenderStatusBar draws the one-row status bar: " <filename>[+]" on the
// left (plus an optional transient message) and "<line>:<col> "
// right-justified. pos is the primary cursor position.
func (r *Renderer) RenderStatusBar(area Rect, name string, dirty bool, pos types.Position, message string) {
	style := r.theme.GetStyle("StatusBar")
	r.fillBlankStyle(area, style)

	left := " " + name
	if dirty {
		left += "[+]"
	}
	if message != "" {
		left += "  " + message
	}
	leftStyle := style
	if dirty {
		leftStyle = r.theme.GetStyle("StatusBarModified")
	}
	r.writeStringClipped(area.X, area.Y, left, leftStyle, area.X+area.W)

	right := fmt.Sprintf("%d:%d ", pos.Line+1, pos.Col+1)
	rx := area.X + area.W - runewidth.StringWidth(right)
	if rx > area.X {
		r.writeString(rx, area.Y, right, style)
	}
}

// OverlayRange re-styles the cells covering a buffer range on one
// rendered area, used for selections and search matches.
func (r *Renderer) OverlayRange(area Rect, view View, rng types.Range, style tcell.Style) {
	w, _ := r.current.Size()
	for line := rng.Start.Line; line <= rng.End.Line; line++ {
		row := line - view.TopLine
		if row < 0 || row >= area.H {
			continue
		}
		y := area.Y + row
		fromCol, toCol := 0, w
		if line == rng.Start.Line {
			fromCol = rng.Start.Col
		}
		if line == rng.End.Line {
			toCol = rng.End.Col
		}
		for col := fromCol; col < toCol; col++ {
			x := area.X + GutterWidth + col - view.LeftCol
			if x < area.X+GutterWidth || x >= area.X+area.W {
				continue
			}
			cell := r.current.Get(x, y)
			cell.Style = style
			r.current.Set(x, y, cell)
		}
	}
}

// Flush writes the cells that changed since the previous flush and
// swaps the screens. A size change repaints every cell.
func (r *Renderer) Flush() error {
	for _, change := range r.current.Diff(r.previous) {
		r.backend.WriteCell(change.X, change.Y, change.Cell)
	}
	if err := r.backend.Flush(); err != nil {
		return fmt.Errorf("backend flush failed: %w", err)
	}
	r.previous = r.current
	r.current = r.previous.Clone()
	return nil
}

// SetCursor positions the terminal cursor at a buffer position within
// the rendered area, hiding it when scrolled out of view. line is the
// text of the cursor's line, used for grapheme-aware placement.
func (r *Renderer) SetCursor(area Rect, view View, pos types.Position, line string) {
	x := area.X + GutterWidth + VisualWidth(line, pos.Col) - VisualWidth(line, view.LeftCol)
	y := area.Y + pos.Line - view.TopLine
	if !area.Contains(x, y) || x < area.X+GutterWidth {
		r.backend.HideCursor()
		return
	}
	r.backend.MoveCursor(x, y)
	r.backend.ShowCursor()
}

// VisualWidth is the on-screen width of the first col characters of
// line. Grapheme clusters count once at the cluster's width, so a
// cursor past a combining sequence or an emoji lands on the right cell.
func VisualWidth(line string, col int) int {
	if col <= 0 {
		return 0
	}
	width := 0
	chars := 0
	gr := uniseg.NewGraphemes(line)
	for gr.Next() {
		if chars >= col {
			break
		}
		width += gr.Width()
		chars += len(gr.Runes())
	}
	return width
}

func (r *Renderer) writeString(x, y int, text string, style tcell.Style) {
	for _, ch := range text {
		r.current.Set(x, y, Cell{Ch: ch, Style: style})
		x += runewidth.RuneWidth(ch)
	}
}

func (r *Renderer) writeStringClipped(x, y int, text string, style tcell.Style, limit int) {
	for _, ch := range text {
		if x >= limit {
			return
		}
		r.current.Set(x, y, Cell{Ch: ch, Style: style})
		x += runewidth.RuneWidth(ch)
	}
}

func (r *Renderer) fillBlank(from, to, y int, style tcell.Style) {
	for x := from; x < to; x++ {
		r.current.Set(x, y, Cell{Ch: ' ', Style: style})
	}
}

func (r *Renderer) fillBlankStyle(area Rect, style tcell.Style) {
	r.current.FillRect(area, ' ', style)
}
