// internal/term/grid_test.go
package term

import (
	"strings"
	"testing"
)

func writeString(g *Grid, s string) {
	for _, ch := range s {
		g.WriteChar(ch)
	}
}

func TestWriteAndWrap(t *testing.T) {
	g := NewGrid(5, 3)
	writeString(g, "abcdefg")

	if got := strings.TrimRight(g.RowText(0), " "); got != "abcde" {
		t.Errorf("row 0 = %q", got)
	}
	if got := strings.TrimRight(g.RowText(1), " "); got != "fg" {
		t.Errorf("row 1 = %q", got)
	}
	row, col := g.Cursor()
	if row != 1 || col != 2 {
		t.Errorf("cursor = (%d, %d), want (1, 2)", row, col)
	}
}

func TestLineFeedScrollsAtBottom(t *testing.T) {
	g := NewGrid(10, 2)
	writeString(g, "one")
	g.CarriageReturn()
	g.LineFeed()
	writeString(g, "two")
	g.CarriageReturn()
	g.LineFeed() // at the bottom row: scrolls

	if got := strings.TrimRight(g.RowText(0), " "); got != "two" {
		t.Errorf("row 0 = %q, want %q", got, "two")
	}
	sb := g.Scrollback()
	if len(sb) != 1 {
		t.Fatalf("scrollback rows = %d, want 1", len(sb))
	}
	if sb[0][0].Ch != 'o' {
		t.Errorf("scrollback row starts with %q", sb[0][0].Ch)
	}
}

func TestScrollbackCap(t *testing.T) {
	g := NewGrid(4, 2)
	g.scrollbackCap = 3
	for i := 0; i < 10; i++ {
		g.ScrollUp(1)
	}
	if got := len(g.Scrollback()); got != 3 {
		t.Errorf("scrollback rows = %d, want 3", got)
	}
}

func TestScrollRegion(t *testing.T) {
	g := NewGrid(10, 5)
	for i, s := range []string{"aa", "bb", "cc", "dd", "ee"} {
		g.MoveCursor(i, 0)
		writeString(g, s)
	}
	g.SetScrollRegion(1, 3)
	g.ScrollUp(1)

	want := []string{"aa", "cc", "dd", "", "ee"}
	for i, w := range want {
		if got := strings.TrimRight(g.RowText(i), " "); got != w {
			t.Errorf("row %d = %q, want %q", i, got, w)
		}
	}
	// A partial region never feeds scrollback.
	if len(g.Scrollback()) != 0 {
		t.Error("partial-region scroll reached scrollback")
	}

	g.ScrollDown(1)
	want = []string{"aa", "", "cc", "dd", "ee"}
	for i, w := range want {
		if got := strings.TrimRight(g.RowText(i), " "); got != w {
			t.Errorf("after ScrollDown: row %d = %q, want %q", i, got, w)
		}
	}
}

func TestInvalidScrollRegionResets(t *testing.T) {
	g := NewGrid(10, 5)
	g.SetScrollRegion(3, 3)
	top, bottom := g.ScrollRegion()
	if top != 0 || bottom != 4 {
		t.Errorf("region = (%d, %d), want full screen", top, bottom)
	}
}

func TestCursorClamping(t *testing.T) {
	g := NewGrid(10, 5)
	g.MoveCursor(-3, 99)
	row, col := g.Cursor()
	if row != 0 || col != 9 {
		t.Errorf("cursor = (%d, %d), want (0, 9)", row, col)
	}
	g.CursorDown(100)
	if row, _ := g.Cursor(); row != 4 {
		t.Errorf("row = %d, want 4", row)
	}
}

func TestTabStops(t *testing.T) {
	g := NewGrid(20, 2)
	g.Tab()
	if _, col := g.Cursor(); col != 8 {
		t.Errorf("col = %d, want 8", col)
	}
	writeString(g, "ab")
	g.Tab()
	if _, col := g.Cursor(); col != 16 {
		t.Errorf("col = %d, want 16", col)
	}
	g.Tab()
	// Clamped to the last column.
	if _, col := g.Cursor(); col != 19 {
		t.Errorf("col = %d, want 19", col)
	}
}

func TestEraseLine(t *testing.T) {
	g := NewGrid(6, 1)
	writeString(g, "abcdef")
	g.MoveCursor(0, 3)

	g.EraseLine(0)
	if got := strings.TrimRight(g.RowText(0), " "); got != "abc" {
		t.Errorf("erase to end: %q", got)
	}

	writeString2 := func(s string) {
		g.MoveCursor(0, 0)
		writeString(g, s)
	}
	writeString2("abcdef")
	g.MoveCursor(0, 2)
	g.EraseLine(1)
	if got := g.RowText(0); got != "   def" {
		t.Errorf("erase to cursor: %q", got)
	}

	g.EraseLine(2)
	if got := strings.TrimRight(g.RowText(0), " "); got != "" {
		t.Errorf("erase line: %q", got)
	}
}

func TestEraseDisplay(t *testing.T) {
	g := NewGrid(3, 3)
	for i := 0; i < 3; i++ {
		g.MoveCursor(i, 0)
		writeString(g, "xxx")
	}
	g.MoveCursor(1, 1)
	g.EraseDisplay(0)
	rows := []string{"xxx", "x", ""}
	for i, w := range rows {
		if got := strings.TrimRight(g.RowText(i), " "); got != w {
			t.Errorf("row %d = %q, want %q", i, got, w)
		}
	}

	g.EraseDisplay(2)
	for i := 0; i < 3; i++ {
		if got := strings.TrimRight(g.RowText(i), " "); got != "" {
			t.Errorf("row %d not cleared: %q", i, got)
		}
	}
}

func TestAlternateScreen(t *testing.T) {
	g := NewGrid(10, 3)
	writeString(g, "primary")
	g.MoveCursor(2, 4)

	g.EnterAlternate()
	if !g.AltActive() {
		t.Fatal("alternate not active")
	}
	if row, col := g.Cursor(); row != 0 || col != 0 {
		t.Errorf("cursor = (%d, %d), want home", row, col)
	}
	writeString(g, "alt")
	if got := strings.TrimRight(g.RowText(0), " "); got != "alt" {
		t.Errorf("alt row 0 = %q", got)
	}

	// Scrolling the alternate buffer never touches scrollback.
	g.ScrollUp(1)
	if len(g.Scrollback()) != 0 {
		t.Error("alternate scroll fed scrollback")
	}

	g.LeaveAlternate()
	if got := strings.TrimRight(g.RowText(0), " "); got != "primary" {
		t.Errorf("primary row 0 = %q after leaving alternate", got)
	}
	if row, col := g.Cursor(); row != 2 || col != 4 {
		t.Errorf("cursor = (%d, %d), want restored (2, 4)", row, col)
	}
}

func TestResizeKeepsTopLeft(t *testing.T) {
	g := NewGrid(10, 4)
	writeString(g, "keep me")
	g.SetScrollRegion(1, 2)
	g.Resize(4, 2)

	cols, rows := g.Size()
	if cols != 4 || rows != 2 {
		t.Fatalf("size = (%d, %d)", cols, rows)
	}
	if got := g.RowText(0); got != "keep" {
		t.Errorf("row 0 = %q, want %q", got, "keep")
	}
	top, bottom := g.ScrollRegion()
	if top != 0 || bottom != 1 {
		t.Errorf("region = (%d, %d), want full screen", top, bottom)
	}
	row, col := g.Cursor()
	if row > 1 || col > 3 {
		t.Errorf("cursor (%d, %d) outside the resized grid", row, col)
	}
}

func TestWriteCharAttributes(t *testing.T) {
	g := NewGrid(5, 1)
	g.SetAttr(AttrBold)
	g.SetFG(IndexedColor(2))
	g.SetHyperlink("https://example.com")
	g.WriteChar('x')

	c := g.Cell(0, 0)
	if !c.Attrs.Has(AttrBold) {
		t.Error("bold not recorded")
	}
	if c.FG != IndexedColor(2) {
		t.Errorf("FG = %+v", c.FG)
	}
	if c.Hyperlink != "https://example.com" {
		t.Errorf("hyperlink = %q", c.Hyperlink)
	}

	g.SetHyperlink("")
	g.ResetAttrs()
	g.WriteChar('y')
	c = g.Cell(0, 1)
	if c.Attrs != 0 || c.FG != (Color{}) || c.Hyperlink != "" {
		t.Errorf("attributes leaked into %+v", c)
	}
}
