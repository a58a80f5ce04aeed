// Package search implements plain and regex buffer search with a
// wrapping forward/backward match cursor.
package search

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/smash-editor/smash/internal/types"
)

// Match is one occurrence: its position range plus the byte range within
// the searched text.
type Match struct {
	Range     types.Range
	ByteStart int
	ByteEnd   int
}

// query holds either a plain term or a compiled regex.
type query struct {
	term          string
	caseSensitive bool
	re            *regexp.Regexp
}

// State is the per-buffer search state: the active query, the match list
// and the current match index. Recomputation happens at the caller's
// discretion when the query or buffer changes.
type State struct {
	mu      sync.Mutex
	query   *query
	matches []Match
	current int
}

// NewState creates an empty search state.
func NewState() *State {
	return &State{current: -1}
}

// SetPlainQuery installs a literal search term.
func (s *State) SetPlainQuery(term string, caseSensitive bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = &query{term: term, caseSensitive: caseSensitive}
	s.matches = nil
	s.current = -1
}

// SetRegexQuery compiles and installs a regex pattern.
func (s *State) SetRegexQuery(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid search pattern: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = &query{re: re}
	s.matches = nil
	s.current = -1
	return nil
}

// Clear drops the query and all matches.
func (s *State) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = nil
	s.matches = nil
	s.current = -1
}

// HasQuery reports whether a query is installed.
func (s *State) HasQuery() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query != nil
}

// Recompute scans text for the active query and rebuilds the match list.
func (s *State) Recompute(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches = nil
	s.current = -1
	if s.query == nil {
		return
	}
	if s.query.re != nil {
		for _, loc := range s.query.re.FindAllStringIndex(text, -1) {
			s.matches = append(s.matches, makeMatch(text, loc[0], loc[1]))
		}
		return
	}
	s.matches = findPlain(text, s.query.term, s.query.caseSensitive)
}

// findPlain scans by byte offset, advancing one byte past each match so
// overlapping occurrences are all reported.
func findPlain(text, term string, caseSensitive bool) []Match {
	if term == "" {
		return nil
	}
	haystack := text
	needle := term
	if !caseSensitive {
		haystack = strings.ToLower(text)
		needle = strings.ToLower(term)
	}
	var out []Match
	from := 0
	for {
		i := strings.Index(haystack[from:], needle)
		if i < 0 {
			break
		}
		start := from + i
		out = append(out, makeMatch(text, start, start+len(term)))
		from = start + 1
	}
	return out
}

// makeMatch translates byte offsets to (line, col) by scanning characters.
func makeMatch(text string, byteStart, byteEnd int) Match {
	return Match{
		Range: types.Range{
			Start: bytePos(text, byteStart),
			End:   bytePos(text, byteEnd),
		},
		ByteStart: byteStart,
		ByteEnd:   byteEnd,
	}
}

func bytePos(text string, byteOff int) types.Position {
	line, col := 0, 0
	for b := 0; b < byteOff && b < len(text); {
		r, size := utf8.DecodeRuneInString(text[b:])
		if r == '\n' {
			line++
			col = 0
		} else {
			col++
		}
		b += size
	}
	return types.Position{Line: line, Col: col}
}

// Matches returns a copy of the current match list.
func (s *State) Matches() []Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Match, len(s.matches))
	copy(out, s.matches)
	return out
}

// MatchCount returns the number of matches.
func (s *State) MatchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.matches)
}

// Current returns the active match, if any.
func (s *State) Current() (Match, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current < 0 || s.current >= len(s.matches) {
		return Match{}, false
	}
	return s.matches[s.current], true
}

// Next advances to the following match, wrapping at the end.
func (s *State) Next() (Match, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.matches) == 0 {
		return Match{}, false
	}
	s.current = (s.current + 1) % len(s.matches)
	return s.matches[s.current], true
}

// Prev steps back to the previous match, wrapping at the start.
func (s *State) Prev() (Match, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.matches) == 0 {
		return Match{}, false
	}
	if s.current <= 0 {
		s.current = len(s.matches) - 1
	} else {
		s.current--
	}
	return s.matches[s.current], true
}

// SeekForwardFrom positions the cursor on the first match at or after pos
// and returns it, wrapping to the first match overall.
func (s *State) SeekForwardFrom(pos types.Position) (Match, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.matches) == 0 {
		return Match{}, false
	}
	for i, m := range s.matches {
		if !m.Range.Start.Before(pos) {
			s.current = i
			return m, true
		}
	}
	s.current = 0
	return s.matches[0], true
}
