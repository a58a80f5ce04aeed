// Package tui renders editor state into a double-buffered cell grid and
// flushes the cell diff through a terminal backend.
package tui

import "github.com/gdamore/tcell/v2"

// Cell is one screen cell: a character plus its style.
type Cell struct {
	Ch    rune
	Style tcell.Style
}

// Rect is a screen rectangle.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Screen is a fixed-size grid of cells under construction.
type Screen struct {
	w, h  int
	cells []Cell
}

// NewScreen creates a blank screen of the given size.
func NewScreen(w, h int) *Screen {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	s := &Screen{w: w, h: h, cells: make([]Cell, w*h)}
	s.Fill(' ', tcell.StyleDefault)
	return s
}

// Size returns (width, height).
func (s *Screen) Size() (int, int) { return s.w, s.h }

// Set writes a cell; out-of-bounds writes are dropped.
func (s *Screen) Set(x, y int, c Cell) {
	if x < 0 || x >= s.w || y < 0 || y >= s.h {
		return
	}
	s.cells[y*s.w+x] = c
}

// Get reads a cell; out-of-bounds reads return a blank.
func (s *Screen) Get(x, y int) Cell {
	if x < 0 || x >= s.w || y < 0 || y >= s.h {
		return Cell{Ch: ' ', Style: tcell.StyleDefault}
	}
	return s.cells[y*s.w+x]
}

// Fill sets every cell to ch with the given style.
func (s *Screen) Fill(ch rune, style tcell.Style) {
	for i := range s.cells {
		s.cells[i] = Cell{Ch: ch, Style: style}
	}
}

// FillRect fills a rectangle, clipped to the screen.
func (s *Screen) FillRect(r Rect, ch rune, style tcell.Style) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			s.Set(x, y, Cell{Ch: ch, Style: style})
		}
	}
}

// CellChange is one differing cell between two screens.
type CellChange struct {
	X, Y int
	Cell Cell
}

// Diff returns the cells in s that differ from prev. A size mismatch
// returns every cell (full repaint).
func (s *Screen) Diff(prev *Screen) []CellChange {
	var out []CellChange
	if prev == nil || prev.w != s.w || prev.h != s.h {
		for y := 0; y < s.h; y++ {
			for x := 0; x < s.w; x++ {
				out = append(out, CellChange{X: x, Y: y, Cell: s.cells[y*s.w+x]})
			}
		}
		return out
	}
	for i, c := range s.cells {
		if c != prev.cells[i] {
			out = append(out, CellChange{X: i % s.w, Y: i / s.w, Cell: c})
		}
	}
	return out
}

// Clone returns a deep copy of the screen.
func (s *Screen) Clone() *Screen {
	out := &Screen{w: s.w, h: s.h, cells: make([]Cell, len(s.cells))}
	copy(out.cells, s.cells)
	return out
}
