// internal/highlight/treesitter.go
package highlight

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	gosrc "github.com/smacker/go-tree-sitter/golang"

	"github.com/smash-editor/smash/internal/logger"
	"github.com/smash-editor/smash/internal/types"
)

// goHighlightsQuery drives capture extraction for the Go grammar.
const goHighlightsQuery = `
(comment) @comment
(interpreted_string_literal) @string
(raw_string_literal) @string
(rune_literal) @string
(int_literal) @number
(float_literal) @number
(imaginary_literal) @number
(type_identifier) @type
(package_identifier) @namespace
(label_name) @label
(function_declaration name: (identifier) @function)
(method_declaration name: (field_identifier) @function)
(call_expression function: (identifier) @function)
(true) @constant
(false) @constant
(nil) @constant
(iota) @constant
[
  "func" "return" "if" "else" "for" "range" "switch" "case" "default"
  "break" "continue" "goto" "fallthrough" "defer" "go" "select"
  "package" "import" "var" "const" "type" "struct" "interface"
  "map" "chan"
] @keyword
`

var captureScopes = map[string]Scope{
	"comment":   ScopeComment,
	"string":    ScopeString,
	"number":    ScopeNumber,
	"type":      ScopeType,
	"namespace": ScopeNamespace,
	"label":     ScopeLabel,
	"function":  ScopeFunction,
	"constant":  ScopeConstant,
	"keyword":   ScopeKeyword,
}

// TreeSitterEngine highlights Go buffers with a real parser instead of
// the regex rules, keeping the syntax tree across edits for incremental
// reparsing. Output is the same per-line span map the regex engine
// produces, so the renderer does not care which engine ran.
type TreeSitterEngine struct {
	mu     sync.Mutex
	parser *sitter.Parser
	query  *sitter.Query
	tree   *sitter.Tree
}

// NewGoEngine creates a tree-sitter engine for the Go grammar.
func NewGoEngine() (*TreeSitterEngine, error) {
	lang := gosrc.GetLanguage()
	query, err := sitter.NewQuery([]byte(goHighlightsQuery), lang)
	if err != nil {
		return nil, fmt.Errorf("failed to parse highlight query: %w", err)
	}
	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	return &TreeSitterEngine{parser: parser, query: query}, nil
}

// ApplyEdit adjusts the retained tree for a buffer edit so the next
// Highlight call can reparse incrementally.
func (e *TreeSitterEngine) ApplyEdit(info types.EditInfo) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.tree != nil {
		e.tree.Edit(info.TreeSitterInput())
	}
}

// Highlight parses source and returns spans keyed by line number.
func (e *TreeSitterEngine) Highlight(source []byte) (map[int][]Span, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	tree, err := e.parser.ParseCtx(context.Background(), e.tree, source)
	if err != nil {
		return nil, fmt.Errorf("parsing failed: %w", err)
	}
	if e.tree != nil {
		e.tree.Close()
	}
	e.tree = tree

	lines := strings.Split(string(source), "\n")
	result := make(map[int][]Span)

	qc := sitter.NewQueryCursor()
	qc.Exec(e.query, tree.RootNode())
	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, capture := range match.Captures {
			name := e.query.CaptureNameForId(capture.Index)
			scope, known := captureScopes[name]
			if !known {
				logger.Debugf("highlight: unmapped capture %q", name)
				continue
			}
			addNodeSpans(result, lines, capture.Node, scope)
		}
	}

	for line := range result {
		result[line] = dedupeSpans(result[line])
	}
	return result, nil
}

// addNodeSpans clips a (possibly multi-line) node to per-line spans.
// Tree-sitter points carry byte columns, matching the Span offsets.
func addNodeSpans(result map[int][]Span, lines []string, node *sitter.Node, scope Scope) {
	start := node.StartPoint()
	end := node.EndPoint()
	for row := int(start.Row); row <= int(end.Row) && row < len(lines); row++ {
		from := 0
		to := len(lines[row])
		if row == int(start.Row) {
			from = int(start.Column)
		}
		if row == int(end.Row) {
			to = int(end.Column)
		}
		if from >= to {
			continue
		}
		result[row] = append(result[row], Span{Start: from, End: to, Scope: scope})
	}
}

// dedupeSpans sorts spans and drops any that overlap an earlier one,
// preserving the non-overlap invariant shared with the regex engine.
func dedupeSpans(spans []Span) []Span {
	if len(spans) < 2 {
		return spans
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	out := spans[:1]
	for _, s := range spans[1:] {
		if s.Start >= out[len(out)-1].End {
			out = append(out, s)
		}
	}
	return out
}

// Close releases the retained tree.
func (e *TreeSitterEngine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.tree != nil {
		e.tree.Close()
		e.tree = nil
	}
}
