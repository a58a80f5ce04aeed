// internal/highlight/engine.go
package highlight

import (
	"regexp"
	"sort"
	"sync"
)

// Rule pairs a compiled pattern with the scope its matches receive.
// Rule order encodes priority: earlier rules win overlaps.
type Rule struct {
	Pattern *regexp.Regexp
	Scope   Scope
}

// Language is an ordered rule set for one language id.
type Language struct {
	Name       string
	Extensions []string
	Rules      []Rule
}

var registry struct {
	sync.RWMutex
	byName map[string]*Language
	byExt  map[string]*Language
}

// Register adds a language to the global registry.
func Register(lang *Language) {
	registry.Lock()
	defer registry.Unlock()
	if registry.byName == nil {
		registry.byName = make(map[string]*Language)
		registry.byExt = make(map[string]*Language)
	}
	registry.byName[lang.Name] = lang
	for _, ext := range lang.Extensions {
		registry.byExt[ext] = lang
	}
}

// ForName returns the language registered under the given id.
func ForName(name string) *Language {
	registry.RLock()
	defer registry.RUnlock()
	return registry.byName[name]
}

// ForExtension returns the language for a file extension like ".go".
func ForExtension(ext string) *Language {
	registry.RLock()
	defer registry.RUnlock()
	return registry.byExt[ext]
}

// HighlightLine produces the non-overlapping spans for one line. Rules
// run in order; a match is kept only when it does not overlap a span
// accepted by an earlier rule. The result is sorted by start offset.
// A nil language yields no spans.
func HighlightLine(lang *Language, line string) []Span {
	if lang == nil {
		return nil
	}
	var spans []Span
	for _, rule := range lang.Rules {
		for _, loc := range rule.Pattern.FindAllStringIndex(line, -1) {
			candidate := Span{Start: loc[0], End: loc[1], Scope: rule.Scope}
			if candidate.Start == candidate.End {
				continue
			}
			clash := false
			for _, accepted := range spans {
				if candidate.overlaps(accepted) {
					clash = true
					break
				}
			}
			if !clash {
				spans = append(spans, candidate)
			}
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	return spans
}

// ScopeAt returns the scope covering a byte offset in the span list.
func ScopeAt(spans []Span, off int) Scope {
	for _, s := range spans {
		if off >= s.Start && off < s.End {
			return s.Scope
		}
	}
	return ScopePlain
}
