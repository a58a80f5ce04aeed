// internal/app/terminal.go
package app

import (
	"github.com/gdamore/tcell/v2"

	"github.com/smash-editor/smash/internal/term"
	"github.com/smash-editor/smash/internal/theme"
	"github.com/smash-editor/smash/internal/tui"
)

// Terminal is the embedded shell pane shown below the buffer.
type Terminal struct {
	proc    *term.Process
	Focused bool
	area    tui.Rect
	exited  bool
	code    int
}

// OpenTerminal starts the configured shell in a pane of the given size.
func OpenTerminal(shell string, cols, rows int) (*Terminal, error) {
	proc, err := term.StartProcess(shell, cols, rows)
	if err != nil {
		return nil, err
	}
	return &Terminal{proc: proc, Focused: true}, nil
}

// Drain processes pending shell output; reports whether anything
// changed on screen.
func (t *Terminal) Drain() bool {
	events := t.proc.Drain()
	for _, ev := range events {
		switch ev.Kind {
		case term.EventExited:
			t.exited = true
			t.code = ev.Code
			t.Focused = false
		}
	}
	return len(events) > 0
}

// Exited reports whether the shell ended, with its exit code.
func (t *Terminal) Exited() (bool, int) { return t.exited, t.code }

func (t *Terminal) Resize(cols, rows int) {
	if rows > 1 {
		rows-- // top row is the pane title
	}
	t.proc.Grid.Resize(cols, rows)
}

func (t *Terminal) Write(data []byte) error {
	if t.exited {
		return nil
	}
	return t.proc.Write(data)
}

func (t *Terminal) Close() {
	t.proc.Close()
}

// Render blits the grid into the pane area: a title row, then the
// cells. Detected hyperlinks get an underline.
func (t *Terminal) Render(r *tui.Renderer, area tui.Rect, th *theme.Theme) {
	t.area = area
	screen := r.Screen()
	base := th.GetStyle("Default")
	titleStyle := th.GetStyle("StatusBar")

	title := " terminal"
	if gt := t.proc.Grid.Title(); gt != "" {
		title = " " + gt
	}
	if t.exited {
		title += " [exited]"
	}
	screen.FillRect(tui.Rect{X: area.X, Y: area.Y, W: area.W, H: 1}, ' ', titleStyle)
	for i, ch := range title {
		if area.X+i >= area.X+area.W {
			break
		}
		screen.Set(area.X+i, area.Y, tui.Cell{Ch: ch, Style: titleStyle})
	}

	_, rows := t.proc.Grid.Size()
	for row := 0; row < rows && row+1 < area.H; row++ {
		links := term.DetectLinks(t.proc.Grid, row)
		for col := 0; col < area.W; col++ {
			cell := t.proc.Grid.Cell(row, col)
			style := cellStyle(cell, base)
			if linkAtCol(links, col) {
				style = style.Underline(true)
			}
			screen.Set(area.X+col, area.Y+1+row, tui.Cell{Ch: cell.Ch, Style: style})
		}
	}
}

// SetCursor places the hardware cursor on the grid cursor.
func (t *Terminal) SetCursor(backend tui.Backend) {
	row, col := t.proc.Grid.Cursor()
	x := t.area.X + col
	y := t.area.Y + 1 + row
	if !t.area.Contains(x, y) {
		backend.HideCursor()
		return
	}
	backend.MoveCursor(x, y)
	backend.ShowCursor()
}

func linkAtCol(links []term.Link, col int) bool {
	for _, l := range links {
		if col >= l.StartCol && col < l.EndCol {
			return true
		}
	}
	return false
}

// cellStyle maps a grid cell's colors and attributes onto tcell.
func cellStyle(c term.Cell, base tcell.Style) tcell.Style {
	style := base
	if fg := mapColor(c.FG); fg != tcell.ColorDefault {
		style = style.Foreground(fg)
	}
	if bg := mapColor(c.BG); bg != tcell.ColorDefault {
		style = style.Background(bg)
	}
	if c.Attrs.Has(term.AttrBold) {
		style = style.Bold(true)
	}
	if c.Attrs.Has(term.AttrItalic) {
		style = style.Italic(true)
	}
	if c.Attrs.Has(term.AttrUnderline) {
		style = style.Underline(true)
	}
	if c.Attrs.Has(term.AttrStrikethrough) {
		style = style.StrikeThrough(true)
	}
	if c.Attrs.Has(term.AttrDim) {
		style = style.Dim(true)
	}
	if c.Attrs.Has(term.AttrReverse) {
		style = style.Reverse(true)
	}
	return style
}

func mapColor(c term.Color) tcell.Color {
	switch c.Kind {
	case term.ColorIndexed:
		return tcell.PaletteColor(int(c.Index))
	case term.ColorRGB:
		return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	default:
		return tcell.ColorDefault
	}
}

// toggleTerminal opens the pane on first use and flips focus after.
func (a *App) toggleTerminal() {
	if a.terminal == nil {
		w, h := a.renderer.Size()
		rows := (h - 1) - (h-1)/2
		t, err := OpenTerminal(a.cfg.TerminalShell, w, rows)
		if err != nil {
			a.setStatus("terminal: %v", err)
			return
		}
		a.terminal = t
		a.syncViewSize()
		return
	}
	if exited, _ := a.terminal.Exited(); exited {
		a.closeTerminal()
		return
	}
	a.terminal.Focused = !a.terminal.Focused
}

func (a *App) closeTerminal() {
	if a.terminal == nil {
		return
	}
	a.terminal.Close()
	a.terminal = nil
	a.syncViewSize()
}
