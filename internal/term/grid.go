// internal/term/grid.go
package term

// DefaultScrollbackCap bounds the scrollback ring; the oldest row is
// dropped on overflow.
const DefaultScrollbackCap = 10000

// Grid is the terminal screen state the parser mutates: primary and
// alternate cell buffers, cursor, scroll region, current SGR attributes
// and the scrollback of the primary buffer.
type Grid struct {
	rows, cols int

	primary   [][]Cell
	alternate [][]Cell
	altActive bool

	scrollback    [][]Cell
	scrollbackCap int

	cursorRow, cursorCol int
	savedRow, savedCol   int

	// Scroll region, inclusive rows.
	regionTop, regionBottom int

	curFG    Color
	curBG    Color
	curAttrs Attr
	curLink  string

	title string
}

// NewGrid creates a rows x cols grid with full-screen scroll region.
func NewGrid(cols, rows int) *Grid {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	g := &Grid{
		rows:          rows,
		cols:          cols,
		scrollbackCap: DefaultScrollbackCap,
		regionBottom:  rows - 1,
	}
	g.primary = makeBuffer(rows, cols)
	g.alternate = makeBuffer(rows, cols)
	return g
}

func makeBuffer(rows, cols int) [][]Cell {
	buf := make([][]Cell, rows)
	for i := range buf {
		buf[i] = blankRow(cols)
	}
	return buf
}

func blankRow(cols int) []Cell {
	row := make([]Cell, cols)
	for i := range row {
		row[i] = blankCell
	}
	return row
}

// Resize reallocates both buffers, keeping the top-left content that
// still fits. The scroll region resets to full screen.
func (g *Grid) Resize(cols, rows int) {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	if cols == g.cols && rows == g.rows {
		return
	}
	g.primary = resizeBuffer(g.primary, rows, cols)
	g.alternate = resizeBuffer(g.alternate, rows, cols)
	g.rows, g.cols = rows, cols
	g.regionTop, g.regionBottom = 0, rows-1
	g.MoveCursor(g.cursorRow, g.cursorCol)
}

func resizeBuffer(buf [][]Cell, rows, cols int) [][]Cell {
	out := makeBuffer(rows, cols)
	for r := 0; r < rows && r < len(buf); r++ {
		copy(out[r], buf[r])
	}
	return out
}

// Size returns (cols, rows).
func (g *Grid) Size() (int, int) { return g.cols, g.rows }

// Cursor returns the cursor (row, col).
func (g *Grid) Cursor() (int, int) { return g.cursorRow, g.cursorCol }

// Title returns the window title set via OSC 0/2.
func (g *Grid) Title() string { return g.title }

// SetTitle records the window title.
func (g *Grid) SetTitle(t string) { g.title = t }

// AltActive reports whether the alternate buffer is showing.
func (g *Grid) AltActive() bool { return g.altActive }

// Scrollback returns the scrollback rows, oldest first.
func (g *Grid) Scrollback() [][]Cell { return g.scrollback }

// buffer returns the active cell buffer.
func (g *Grid) buffer() [][]Cell {
	if g.altActive {
		return g.alternate
	}
	return g.primary
}

// Cell returns the cell at (row, col) of the active buffer.
func (g *Grid) Cell(row, col int) Cell {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return blankCell
	}
	return g.buffer()[row][col]
}

// Row returns a copy of one row of the active buffer.
func (g *Grid) Row(row int) []Cell {
	if row < 0 || row >= g.rows {
		return nil
	}
	out := make([]Cell, g.cols)
	copy(out, g.buffer()[row])
	return out
}

// RowText returns the characters of a row as a string.
func (g *Grid) RowText(row int) string {
	if row < 0 || row >= g.rows {
		return ""
	}
	runes := make([]rune, g.cols)
	for i, c := range g.buffer()[row] {
		runes[i] = c.Ch
	}
	return string(runes)
}

// --- Writing ---

// WriteChar writes ch at the cursor with the current attributes, then
// advances. Past the right edge it wraps to the next line, scrolling the
// region when the cursor sits on its bottom row.
func (g *Grid) WriteChar(ch rune) {
	if g.cursorCol >= g.cols {
		g.CarriageReturn()
		g.LineFeed()
	}
	buf := g.buffer()
	buf[g.cursorRow][g.cursorCol] = Cell{
		Ch:        ch,
		FG:        g.curFG,
		BG:        g.curBG,
		Attrs:     g.curAttrs,
		Hyperlink: g.curLink,
	}
	g.cursorCol++
}

// CarriageReturn moves the cursor to column 0.
func (g *Grid) CarriageReturn() { g.cursorCol = 0 }

// LineFeed moves down one row, scrolling the region at its bottom.
func (g *Grid) LineFeed() {
	if g.cursorRow == g.regionBottom {
		g.ScrollUp(1)
		return
	}
	if g.cursorRow < g.rows-1 {
		g.cursorRow++
	}
}

// ReverseIndex moves up one row, scrolling down at the region top.
func (g *Grid) ReverseIndex() {
	if g.cursorRow == g.regionTop {
		g.ScrollDown(1)
		return
	}
	if g.cursorRow > 0 {
		g.cursorRow--
	}
}

// Tab advances to the next 8-column tab stop, clamped at the right edge.
func (g *Grid) Tab() {
	next := (g.cursorCol/8 + 1) * 8
	if next > g.cols-1 {
		next = g.cols - 1
	}
	g.cursorCol = next
}

// Backspace moves the cursor one column left.
func (g *Grid) Backspace() {
	if g.cursorCol > 0 {
		g.cursorCol--
	}
}

// --- Cursor Movement ---

// MoveCursor sets an absolute position, clamped to the screen.
func (g *Grid) MoveCursor(row, col int) {
	g.cursorRow = clamp(row, 0, g.rows-1)
	g.cursorCol = clamp(col, 0, g.cols-1)
}

// CursorUp moves up n rows.
func (g *Grid) CursorUp(n int) { g.MoveCursor(g.cursorRow-max1(n), g.cursorCol) }

// CursorDown moves down n rows.
func (g *Grid) CursorDown(n int) { g.MoveCursor(g.cursorRow+max1(n), g.cursorCol) }

// CursorRight moves right n columns.
func (g *Grid) CursorRight(n int) { g.MoveCursor(g.cursorRow, g.cursorCol+max1(n)) }

// CursorLeft moves left n columns.
func (g *Grid) CursorLeft(n int) { g.MoveCursor(g.cursorRow, g.cursorCol-max1(n)) }

// SetColumn moves to an absolute column (CHA).
func (g *Grid) SetColumn(col int) { g.MoveCursor(g.cursorRow, col) }

// SetRow moves to an absolute row (VPA).
func (g *Grid) SetRow(row int) { g.MoveCursor(row, g.cursorCol) }

// SaveCursor stores the cursor position.
func (g *Grid) SaveCursor() {
	g.savedRow, g.savedCol = g.cursorRow, g.cursorCol
}

// RestoreCursor returns to the saved position.
func (g *Grid) RestoreCursor() {
	g.MoveCursor(g.savedRow, g.savedCol)
}

// --- Scrolling ---

// SetScrollRegion sets the inclusive [top, bottom] region and homes the
// cursor. Invalid regions reset to the full screen.
func (g *Grid) SetScrollRegion(top, bottom int) {
	if top < 0 || bottom >= g.rows || top >= bottom {
		top, bottom = 0, g.rows-1
	}
	g.regionTop, g.regionBottom = top, bottom
	g.MoveCursor(0, 0)
}

// ScrollRegion returns the inclusive scroll region rows.
func (g *Grid) ScrollRegion() (int, int) { return g.regionTop, g.regionBottom }

// ScrollUp removes n rows from the region top, inserting blanks at the
// bottom. On the primary buffer with a full-screen region, removed rows
// go to scrollback.
func (g *Grid) ScrollUp(n int) {
	buf := g.buffer()
	for ; n > 0; n-- {
		top := buf[g.regionTop]
		if !g.altActive && g.regionTop == 0 && g.regionBottom == g.rows-1 {
			g.pushScrollback(top)
		}
		copy(buf[g.regionTop:g.regionBottom], buf[g.regionTop+1:g.regionBottom+1])
		buf[g.regionBottom] = blankRow(g.cols)
	}
}

// ScrollDown inserts n blank rows at the region top.
func (g *Grid) ScrollDown(n int) {
	buf := g.buffer()
	for ; n > 0; n-- {
		copy(buf[g.regionTop+1:g.regionBottom+1], buf[g.regionTop:g.regionBottom])
		buf[g.regionTop] = blankRow(g.cols)
	}
}

func (g *Grid) pushScrollback(row []Cell) {
	saved := make([]Cell, len(row))
	copy(saved, row)
	g.scrollback = append(g.scrollback, saved)
	if len(g.scrollback) > g.scrollbackCap {
		g.scrollback = g.scrollback[1:]
	}
}

// --- Erasing ---

// EraseDisplay clears part of the screen: 0 cursor to end, 1 start to
// cursor, 2 or 3 the whole screen.
func (g *Grid) EraseDisplay(mode int) {
	buf := g.buffer()
	switch mode {
	case 0:
		g.eraseRowSpan(buf[g.cursorRow], g.cursorCol, g.cols)
		for r := g.cursorRow + 1; r < g.rows; r++ {
			buf[r] = blankRow(g.cols)
		}
	case 1:
		g.eraseRowSpan(buf[g.cursorRow], 0, g.cursorCol+1)
		for r := 0; r < g.cursorRow; r++ {
			buf[r] = blankRow(g.cols)
		}
	case 2, 3:
		for r := 0; r < g.rows; r++ {
			buf[r] = blankRow(g.cols)
		}
	}
}

// EraseLine clears part of the cursor's row: 0 cursor to end, 1 start to
// cursor, 2 the whole line.
func (g *Grid) EraseLine(mode int) {
	row := g.buffer()[g.cursorRow]
	switch mode {
	case 0:
		g.eraseRowSpan(row, g.cursorCol, g.cols)
	case 1:
		g.eraseRowSpan(row, 0, g.cursorCol+1)
	case 2:
		g.eraseRowSpan(row, 0, g.cols)
	}
}

func (g *Grid) eraseRowSpan(row []Cell, from, to int) {
	from = clamp(from, 0, g.cols)
	to = clamp(to, 0, g.cols)
	for i := from; i < to; i++ {
		row[i] = blankCell
	}
}

// --- Alternate Screen ---

// EnterAlternate switches to the alternate buffer, saving the cursor and
// clearing the alternate screen. The alternate never touches scrollback.
func (g *Grid) EnterAlternate() {
	if g.altActive {
		return
	}
	g.SaveCursor()
	g.altActive = true
	g.alternate = makeBuffer(g.rows, g.cols)
	g.MoveCursor(0, 0)
}

// LeaveAlternate restores the primary buffer and the saved cursor.
func (g *Grid) LeaveAlternate() {
	if !g.altActive {
		return
	}
	g.altActive = false
	g.RestoreCursor()
}

// --- SGR State ---

// ResetAttrs clears the current colors and attribute bits (SGR 0).
func (g *Grid) ResetAttrs() {
	g.curFG = Color{}
	g.curBG = Color{}
	g.curAttrs = 0
}

// SetAttr turns attribute bits on.
func (g *Grid) SetAttr(a Attr) { g.curAttrs |= a }

// ClearAttr turns attribute bits off.
func (g *Grid) ClearAttr(a Attr) { g.curAttrs &^= a }

// SetFG sets the current foreground color.
func (g *Grid) SetFG(c Color) { g.curFG = c }

// SetBG sets the current background color.
func (g *Grid) SetBG(c Color) { g.curBG = c }

// SetHyperlink attaches an OSC 8 URI to subsequently written cells.
// An empty URI ends the link.
func (g *Grid) SetHyperlink(uri string) { g.curLink = uri }

// Reset clears the whole grid state (ESC c).
func (g *Grid) Reset() {
	g.primary = makeBuffer(g.rows, g.cols)
	g.alternate = makeBuffer(g.rows, g.cols)
	g.altActive = false
	g.cursorRow, g.cursorCol = 0, 0
	g.savedRow, g.savedCol = 0, 0
	g.regionTop, g.regionBottom = 0, g.rows-1
	g.ResetAttrs()
	g.curLink = ""
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
