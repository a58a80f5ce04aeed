// internal/search/search_test.go
package search

import (
	"testing"

	"github.com/smash-editor/smash/internal/types"
)

func TestPlainSearch(t *testing.T) {
	s := NewState()
	s.SetPlainQuery("foo", true)
	s.Recompute("foo bar foo")

	matches := s.Matches()
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].ByteStart != 0 || matches[0].ByteEnd != 3 {
		t.Errorf("match 0 bytes = (%d, %d), want (0, 3)", matches[0].ByteStart, matches[0].ByteEnd)
	}
	if matches[1].ByteStart != 8 || matches[1].ByteEnd != 11 {
		t.Errorf("match 1 bytes = (%d, %d), want (8, 11)", matches[1].ByteStart, matches[1].ByteEnd)
	}
	want := types.Range{
		Start: types.Position{Line: 0, Col: 8},
		End:   types.Position{Line: 0, Col: 11},
	}
	if matches[1].Range != want {
		t.Errorf("match 1 range = %v, want %v", matches[1].Range, want)
	}
}

func TestCaseInsensitive(t *testing.T) {
	s := NewState()
	s.SetPlainQuery("foo", false)
	s.Recompute("FOO foo FoO")
	if got := s.MatchCount(); got != 3 {
		t.Errorf("got %d matches, want 3", got)
	}

	s.SetPlainQuery("foo", true)
	s.Recompute("FOO foo FoO")
	if got := s.MatchCount(); got != 1 {
		t.Errorf("case sensitive: got %d matches, want 1", got)
	}
}

func TestOverlappingMatches(t *testing.T) {
	s := NewState()
	s.SetPlainQuery("aa", true)
	s.Recompute("aaa")
	if got := s.MatchCount(); got != 2 {
		t.Errorf("got %d matches, want 2 (overlapping)", got)
	}
}

func TestMultiLinePositions(t *testing.T) {
	s := NewState()
	s.SetPlainQuery("two", true)
	s.Recompute("one\ntwo\nthree")
	matches := s.Matches()
	if len(matches) != 1 {
		t.Fatalf("got %d matches", len(matches))
	}
	want := types.Position{Line: 1, Col: 0}
	if matches[0].Range.Start != want {
		t.Errorf("start = %v, want %v", matches[0].Range.Start, want)
	}
}

func TestRegexSearch(t *testing.T) {
	s := NewState()
	if err := s.SetRegexQuery(`\bfo+\b`); err != nil {
		t.Fatal(err)
	}
	s.Recompute("fo foo fooo x")
	if got := s.MatchCount(); got != 3 {
		t.Errorf("got %d matches, want 3", got)
	}

	if err := s.SetRegexQuery(`[unclosed`); err == nil {
		t.Error("invalid pattern accepted")
	}
}

func TestNextPrevWrap(t *testing.T) {
	s := NewState()
	s.SetPlainQuery("x", true)
	s.Recompute("x x x")

	for i := 0; i < 3; i++ {
		if _, ok := s.Next(); !ok {
			t.Fatal("Next failed")
		}
	}
	m, ok := s.Next() // wraps to the first match
	if !ok || m.ByteStart != 0 {
		t.Errorf("wrap: ByteStart = %d, want 0", m.ByteStart)
	}

	m, ok = s.Prev() // wraps back to the last match
	if !ok || m.ByteStart != 4 {
		t.Errorf("prev wrap: ByteStart = %d, want 4", m.ByteStart)
	}
}

func TestSeekForwardFrom(t *testing.T) {
	s := NewState()
	s.SetPlainQuery("m", true)
	s.Recompute("m\nm\nm")

	m, ok := s.SeekForwardFrom(types.Position{Line: 1, Col: 0})
	if !ok {
		t.Fatal("seek failed")
	}
	if m.Range.Start.Line != 1 {
		t.Errorf("seek landed on line %d, want 1", m.Range.Start.Line)
	}

	// Past the last match: wraps to the first.
	m, ok = s.SeekForwardFrom(types.Position{Line: 2, Col: 1})
	if !ok || m.Range.Start.Line != 0 {
		t.Errorf("seek wrap landed on line %d, want 0", m.Range.Start.Line)
	}
}

func TestEmptyAndCleared(t *testing.T) {
	s := NewState()
	if s.HasQuery() {
		t.Error("HasQuery on fresh state")
	}
	if _, ok := s.Next(); ok {
		t.Error("Next succeeded with no matches")
	}

	s.SetPlainQuery("", true)
	s.Recompute("anything")
	if got := s.MatchCount(); got != 0 {
		t.Errorf("empty term produced %d matches", got)
	}

	s.SetPlainQuery("a", true)
	s.Recompute("aaa")
	s.Clear()
	if s.HasQuery() || s.MatchCount() != 0 {
		t.Error("Clear left state behind")
	}
}
