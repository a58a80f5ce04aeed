// internal/highlight/languages.go
package highlight

import "regexp"

// Built-in rule sets. Ordering within each language encodes priority:
// comments first, then strings, then numbers/macros/keywords/types/
// constants/attributes/operators.

func init() {
	Register(goLang())
	Register(rustLang())
	Register(pythonLang())
	Register(javascriptLang())
	Register(cLang())
}

func rules(pairs ...Rule) []Rule { return pairs }

func rule(pattern string, scope Scope) Rule {
	return Rule{Pattern: regexp.MustCompile(pattern), Scope: scope}
}

func goLang() *Language {
	return &Language{
		Name:       "go",
		Extensions: []string{".go"},
		Rules: rules(
			rule(`//.*$`, ScopeComment),
			rule(`"(?:[^"\\]|\\.)*"`, ScopeString),
			rule("`[^`]*`?", ScopeString),
			rule(`'(?:[^'\\]|\\.)*'`, ScopeString),
			rule(`\b\d+(?:\.\d+)?(?:e[+-]?\d+)?\b|\b0x[0-9a-fA-F_]+\b`, ScopeNumber),
			rule(`\b(?:func|return|if|else|for|range|switch|case|default|break|continue|goto|fallthrough|defer|go|select|package|import|var|const|type|struct|interface|map|chan)\b`, ScopeKeyword),
			rule(`\b(?:bool|byte|complex64|complex128|error|float32|float64|int|int8|int16|int32|int64|rune|string|uint|uint8|uint16|uint32|uint64|uintptr|any)\b`, ScopeType),
			rule(`\b(?:true|false|nil|iota)\b`, ScopeConstant),
			rule(`\b[a-zA-Z_][a-zA-Z0-9_]*(?:\()`, ScopeFunction),
			rule(`[+\-*/%=<>!&|^~:]+`, ScopeOperator),
		),
	}
}

func rustLang() *Language {
	return &Language{
		Name:       "rust",
		Extensions: []string{".rs"},
		Rules: rules(
			rule(`//.*$`, ScopeComment),
			rule(`"(?:[^"\\]|\\.)*"`, ScopeString),
			rule(`\b\d[\d_]*(?:\.\d+)?(?:[iuf](?:8|16|32|64|128|size))?\b|\b0x[0-9a-fA-F_]+\b`, ScopeNumber),
			rule(`\b[a-z_][a-zA-Z0-9_]*!`, ScopeMacro),
			rule(`#\!?\[[^\]]*\]`, ScopeAttribute),
			rule(`\b(?:fn|let|mut|pub|use|mod|crate|impl|trait|struct|enum|match|if|else|while|for|in|loop|return|break|continue|where|unsafe|async|await|move|ref|dyn|static|const|as|self|Self|super|type)\b`, ScopeKeyword),
			rule(`\b(?:bool|char|str|String|i8|i16|i32|i64|i128|isize|u8|u16|u32|u64|u128|usize|f32|f64|Vec|Option|Result|Box|Rc|Arc)\b`, ScopeType),
			rule(`\b(?:true|false|None|Some|Ok|Err)\b`, ScopeConstant),
			rule(`'[a-z_][a-zA-Z0-9_]*\b`, ScopeLabel),
			rule(`[+\-*/%=<>!&|^~?:]+`, ScopeOperator),
		),
	}
}

func pythonLang() *Language {
	return &Language{
		Name:       "python",
		Extensions: []string{".py", ".pyw"},
		Rules: rules(
			rule(`#.*$`, ScopeComment),
			rule(`"(?:[^"\\]|\\.)*"|'(?:[^'\\]|\\.)*'`, ScopeString),
			rule(`\b\d+(?:\.\d+)?(?:e[+-]?\d+)?[jJ]?\b|\b0x[0-9a-fA-F_]+\b`, ScopeNumber),
			rule(`@[a-zA-Z_][a-zA-Z0-9_.]*`, ScopeAttribute),
			rule(`\b(?:def|class|return|if|elif|else|for|while|in|not|and|or|is|import|from|as|with|try|except|finally|raise|yield|lambda|pass|break|continue|global|nonlocal|assert|del|async|await|match|case)\b`, ScopeKeyword),
			rule(`\b(?:int|float|str|bytes|bool|list|dict|set|tuple|frozenset|object|type)\b`, ScopeType),
			rule(`\b(?:True|False|None|self|cls|__name__)\b`, ScopeConstant),
			rule(`\b[a-zA-Z_][a-zA-Z0-9_]*(?:\()`, ScopeFunction),
			rule(`[+\-*/%=<>!&|^~@:]+`, ScopeOperator),
		),
	}
}

func javascriptLang() *Language {
	return &Language{
		Name:       "javascript",
		Extensions: []string{".js", ".mjs", ".cjs", ".ts", ".tsx", ".jsx"},
		Rules: rules(
			rule(`//.*$`, ScopeComment),
			rule("`[^`]*`?", ScopeString),
			rule(`"(?:[^"\\]|\\.)*"|'(?:[^'\\]|\\.)*'`, ScopeString),
			rule(`\b\d+(?:\.\d+)?(?:e[+-]?\d+)?n?\b|\b0x[0-9a-fA-F_]+\b`, ScopeNumber),
			rule(`\b(?:function|return|if|else|for|while|do|switch|case|default|break|continue|var|let|const|class|extends|new|delete|typeof|instanceof|in|of|this|super|import|export|from|try|catch|finally|throw|async|await|yield|static|get|set)\b`, ScopeKeyword),
			rule(`\b(?:true|false|null|undefined|NaN|Infinity)\b`, ScopeConstant),
			rule(`\b[A-Z][a-zA-Z0-9_]*\b`, ScopeType),
			rule(`\b[a-zA-Z_$][a-zA-Z0-9_$]*(?:\()`, ScopeFunction),
			rule(`[+\-*/%=<>!&|^~?:]+`, ScopeOperator),
		),
	}
}

func cLang() *Language {
	return &Language{
		Name:       "c",
		Extensions: []string{".c", ".h", ".cc", ".cpp", ".hpp"},
		Rules: rules(
			rule(`//.*$`, ScopeComment),
			rule(`"(?:[^"\\]|\\.)*"|'(?:[^'\\]|\\.)*'`, ScopeString),
			rule(`^\s*#\s*[a-z]+`, ScopeMacro),
			rule(`\b\d+(?:\.\d+)?[uUlLfF]*\b|\b0x[0-9a-fA-F]+[uUlL]*\b`, ScopeNumber),
			rule(`\b(?:if|else|for|while|do|switch|case|default|break|continue|return|goto|sizeof|typedef|struct|union|enum|static|extern|inline|const|volatile|register|auto|restrict)\b`, ScopeKeyword),
			rule(`\b(?:void|char|short|int|long|float|double|signed|unsigned|size_t|ssize_t|uint8_t|uint16_t|uint32_t|uint64_t|int8_t|int16_t|int32_t|int64_t|bool)\b`, ScopeType),
			rule(`\b(?:true|false|NULL)\b`, ScopeConstant),
			rule(`\b[a-zA-Z_][a-zA-Z0-9_]*(?:\()`, ScopeFunction),
			rule(`[+\-*/%=<>!&|^~?:]+`, ScopeOperator),
		),
	}
}
