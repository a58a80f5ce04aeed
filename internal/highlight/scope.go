// Package highlight computes syntax highlight spans for buffer lines.
// The general engine is an ordered set of regex rules per language; Go
// buffers can additionally use a tree-sitter engine producing the same
// span output.
package highlight

// Scope classifies a highlight span.
type Scope int

const (
	ScopePlain Scope = iota
	ScopeKeyword
	ScopeType
	ScopeFunction
	ScopeString
	ScopeNumber
	ScopeComment
	ScopeOperator
	ScopeConstant
	ScopeMacro
	ScopeAttribute
	ScopeVariable
	ScopePunctuation
	ScopeNamespace
	ScopeLabel
)

var scopeNames = map[Scope]string{
	ScopePlain:       "plain",
	ScopeKeyword:     "keyword",
	ScopeType:        "type",
	ScopeFunction:    "function",
	ScopeString:      "string",
	ScopeNumber:      "number",
	ScopeComment:     "comment",
	ScopeOperator:    "operator",
	ScopeConstant:    "constant",
	ScopeMacro:       "macro",
	ScopeAttribute:   "attribute",
	ScopeVariable:    "variable",
	ScopePunctuation: "punctuation",
	ScopeNamespace:   "namespace",
	ScopeLabel:       "label",
}

func (s Scope) String() string {
	if name, ok := scopeNames[s]; ok {
		return name
	}
	return "plain"
}

// Span is a half-open byte interval within a single line, tagged with
// the scope it should be styled as.
type Span struct {
	Start int // byte offset, inclusive
	End   int // byte offset, exclusive
	Scope Scope
}

func (s Span) overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}
