// internal/term/parser_test.go
package term

import (
	"strings"
	"testing"
)

func feed(t *testing.T, cols, rows int, input string) (*Grid, []Event) {
	t.Helper()
	g := NewGrid(cols, rows)
	p := NewParser(g)
	events := p.Feed([]byte(input))
	return g, events
}

func TestPlainText(t *testing.T) {
	g, _ := feed(t, 20, 3, "hello\r\nworld")
	if got := strings.TrimRight(g.RowText(0), " "); got != "hello" {
		t.Errorf("row 0 = %q", got)
	}
	if got := strings.TrimRight(g.RowText(1), " "); got != "world" {
		t.Errorf("row 1 = %q", got)
	}
}

func TestCursorMovement(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		row, col int
	}{
		{"CUP", "\x1b[2;5H", 1, 4},
		{"CUP no params", "abc\x1b[H", 0, 0},
		{"CUU", "\n\n\x1b[A", 1, 0},
		{"CUD", "\x1b[2B", 2, 0},
		{"CUF", "\x1b[3C", 0, 3},
		{"CUB", "abcd\x1b[2D", 0, 2},
		{"CHA", "abcd\x1b[2G", 0, 1},
		{"VPA", "\x1b[3d", 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := feed(t, 10, 5, tt.input)
			row, col := g.Cursor()
			if row != tt.row || col != tt.col {
				t.Errorf("cursor = (%d, %d), want (%d, %d)", row, col, tt.row, tt.col)
			}
		})
	}
}

func TestEraseSequences(t *testing.T) {
	g, _ := feed(t, 10, 2, "abcdef\x1b[3G\x1b[K")
	if got := strings.TrimRight(g.RowText(0), " "); got != "ab" {
		t.Errorf("after EL: %q", got)
	}

	g, _ = feed(t, 10, 2, "abc\r\ndef\x1b[2J")
	for i := 0; i < 2; i++ {
		if got := strings.TrimRight(g.RowText(i), " "); got != "" {
			t.Errorf("row %d not cleared: %q", i, got)
		}
	}
}

func TestSgrBasic(t *testing.T) {
	g, _ := feed(t, 10, 1, "\x1b[1;31mX\x1b[0mY")
	x := g.Cell(0, 0)
	if !x.Attrs.Has(AttrBold) {
		t.Error("X not bold")
	}
	if x.FG != IndexedColor(1) {
		t.Errorf("X FG = %+v, want red", x.FG)
	}
	y := g.Cell(0, 1)
	if y.Attrs != 0 || y.FG != (Color{}) {
		t.Errorf("reset did not apply: %+v", y)
	}
}

func TestSgrBrightAndClear(t *testing.T) {
	g, _ := feed(t, 10, 1, "\x1b[92;4ma\x1b[24mb")
	a := g.Cell(0, 0)
	if a.FG != IndexedColor(10) {
		t.Errorf("bright green = %+v", a.FG)
	}
	if !a.Attrs.Has(AttrUnderline) {
		t.Error("underline not set")
	}
	if g.Cell(0, 1).Attrs.Has(AttrUnderline) {
		t.Error("SGR 24 did not clear underline")
	}
}

func TestSgrExtendedColors(t *testing.T) {
	g, _ := feed(t, 10, 1, "\x1b[38;5;208ma\x1b[48;2;10;20;30mb")
	if got := g.Cell(0, 0).FG; got != IndexedColor(208) {
		t.Errorf("256-color FG = %+v", got)
	}
	if got := g.Cell(0, 1).BG; got != RGBColor(10, 20, 30) {
		t.Errorf("RGB BG = %+v", got)
	}
}

func TestSgrMalformedExtendedColor(t *testing.T) {
	// Truncated 38;5 with no index: sequence abandoned, text still writes.
	g, _ := feed(t, 10, 1, "\x1b[38;5mok")
	if got := strings.TrimRight(g.RowText(0), " "); got != "ok" {
		t.Errorf("row = %q", got)
	}
}

func TestOscTitle(t *testing.T) {
	g, events := feed(t, 10, 1, "\x1b]0;my title\x07after")
	if g.Title() != "my title" {
		t.Errorf("title = %q", g.Title())
	}
	var saw bool
	for _, ev := range events {
		if ev.Kind == EventTitleChanged && ev.Title == "my title" {
			saw = true
		}
	}
	if !saw {
		t.Error("no title event emitted")
	}
	if got := strings.TrimRight(g.RowText(0), " "); got != "after" {
		t.Errorf("text after OSC = %q", got)
	}
}

func TestOscStringTerminator(t *testing.T) {
	g, _ := feed(t, 10, 1, "\x1b]2;st title\x1b\\x")
	if g.Title() != "st title" {
		t.Errorf("title = %q", g.Title())
	}
	if got := strings.TrimRight(g.RowText(0), " "); got != "x" {
		t.Errorf("text after ST = %q", got)
	}
}

func TestOscHyperlink(t *testing.T) {
	g, _ := feed(t, 20, 1, "\x1b]8;;https://x.test\x07link\x1b]8;;\x07plain")
	if got := g.Cell(0, 0).Hyperlink; got != "https://x.test" {
		t.Errorf("link cell URI = %q", got)
	}
	if got := g.Cell(0, 4).Hyperlink; got != "" {
		t.Errorf("plain cell carries URI %q", got)
	}
}

func TestAlternateScreenMode(t *testing.T) {
	g, _ := feed(t, 10, 2, "main\x1b[?1049halt\x1b[?1049l")
	if g.AltActive() {
		t.Error("still on alternate after ?1049l")
	}
	if got := strings.TrimRight(g.RowText(0), " "); got != "main" {
		t.Errorf("primary row = %q", got)
	}
}

func TestBellEvent(t *testing.T) {
	_, events := feed(t, 10, 1, "a\x07b")
	var bells int
	for _, ev := range events {
		if ev.Kind == EventBell {
			bells++
		}
	}
	if bells != 1 {
		t.Errorf("bells = %d, want 1", bells)
	}
}

func TestUtf8Output(t *testing.T) {
	g, _ := feed(t, 10, 1, "é漢x")
	if got := g.Cell(0, 0).Ch; got != 'é' {
		t.Errorf("cell 0 = %q", got)
	}
	if got := g.Cell(0, 1).Ch; got != '漢' {
		t.Errorf("cell 1 = %q", got)
	}
	if got := g.Cell(0, 2).Ch; got != 'x' {
		t.Errorf("cell 2 = %q", got)
	}
}

func TestUtf8SplitAcrossFeeds(t *testing.T) {
	g := NewGrid(10, 1)
	p := NewParser(g)
	raw := []byte("漢")
	p.Feed(raw[:1])
	p.Feed(raw[1:])
	if got := g.Cell(0, 0).Ch; got != '漢' {
		t.Errorf("cell = %q, want 漢", got)
	}
}

func TestScrollRegionSequence(t *testing.T) {
	g, _ := feed(t, 10, 5, "\x1b[2;4r")
	top, bottom := g.ScrollRegion()
	if top != 1 || bottom != 3 {
		t.Errorf("region = (%d, %d), want (1, 3)", top, bottom)
	}
}

func TestSaveRestoreCursor(t *testing.T) {
	g, _ := feed(t, 10, 5, "\x1b[3;3H\x1b7\x1b[H\x1b8")
	row, col := g.Cursor()
	if row != 2 || col != 2 {
		t.Errorf("cursor = (%d, %d), want (2, 2)", row, col)
	}
}

func TestFullReset(t *testing.T) {
	g, _ := feed(t, 10, 2, "junk\x1b[1m\x1bcx")
	if got := strings.TrimRight(g.RowText(0), " "); got != "x" {
		t.Errorf("row 0 = %q", got)
	}
	if g.Cell(0, 0).Attrs != 0 {
		t.Error("attributes survived RIS")
	}
}

func TestUnknownSequencesIgnored(t *testing.T) {
	g, _ := feed(t, 10, 1, "\x1b[99Z\x1b(Bok")
	if got := strings.TrimRight(g.RowText(0), " "); got != "ok" {
		t.Errorf("row = %q", got)
	}
}
