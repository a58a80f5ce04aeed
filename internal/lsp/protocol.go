// internal/lsp/protocol.go
package lsp

import (
	"bytes"
	"encoding/json"
)

// MessageKind classifies a decoded JSON-RPC message.
type MessageKind int

const (
	KindMalformed MessageKind = iota
	KindRequest
	KindResponse
	KindNotification
)

// Message is the JSON-RPC envelope. Requests carry id+method, responses
// id+result/error, notifications method only.
type Message struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *int64          `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RpcError       `json:"error,omitempty"`
}

// Kind reports which of the three wire shapes the message has.
func (m *Message) Kind() MessageKind {
	switch {
	case m.ID != nil && m.Method != "":
		return KindRequest
	case m.ID != nil:
		return KindResponse
	case m.Method != "":
		return KindNotification
	default:
		return KindMalformed
	}
}

func newRequest(id int64, method string, params any) (*Message, error) {
	raw, err := marshalParams(params)
	if err != nil {
		return nil, err
	}
	return &Message{JSONRPC: "2.0", ID: &id, Method: method, Params: raw}, nil
}

func newNotification(method string, params any) (*Message, error) {
	raw, err := marshalParams(params)
	if err != nil {
		return nil, err
	}
	return &Message{JSONRPC: "2.0", Method: method, Params: raw}, nil
}

func marshalParams(params any) (json.RawMessage, error) {
	if params == nil {
		return nil, nil
	}
	return json.Marshal(params)
}

// --- Basic structures ---

// Position is a zero-based line/character pair. The protocol counts
// characters in UTF-16 code units; ASCII-safe columns pass through.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

type Location struct {
	URI   string `json:"uri"`
	Range Range  `json:"range"`
}

type TextDocumentIdentifier struct {
	URI string `json:"uri"`
}

type VersionedTextDocumentIdentifier struct {
	URI     string `json:"uri"`
	Version int    `json:"version"`
}

type TextDocumentItem struct {
	URI        string `json:"uri"`
	LanguageID string `json:"languageId"`
	Version    int    `json:"version"`
	Text       string `json:"text"`
}

type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

type WorkspaceEdit struct {
	Changes map[string][]TextEdit `json:"changes,omitempty"`
}

// --- Diagnostics ---

type DiagnosticSeverity int

const (
	SeverityError DiagnosticSeverity = iota + 1
	SeverityWarning
	SeverityInformation
	SeverityHint
)

type Diagnostic struct {
	Range    Range              `json:"range"`
	Severity DiagnosticSeverity `json:"severity,omitempty"`
	Code     json.RawMessage    `json:"code,omitempty"`
	Source   string             `json:"source,omitempty"`
	Message  string             `json:"message"`
}

type PublishDiagnosticsParams struct {
	URI         string       `json:"uri"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// --- Lifecycle ---

type InitializeParams struct {
	ProcessID    int                `json:"processId"`
	RootURI      string             `json:"rootUri,omitempty"`
	Capabilities ClientCapabilities `json:"capabilities"`
}

// ClientCapabilities advertises what this editor consumes.
type ClientCapabilities struct {
	TextDocument TextDocumentClientCapabilities `json:"textDocument"`
}

type TextDocumentClientCapabilities struct {
	Synchronization struct {
		DidSave  bool `json:"didSave"`
		WillSave bool `json:"willSave"`
	} `json:"synchronization"`
	Completion struct {
		CompletionItem struct {
			SnippetSupport      bool     `json:"snippetSupport"`
			DocumentationFormat []string `json:"documentationFormat"`
		} `json:"completionItem"`
	} `json:"completion"`
	Hover struct {
		ContentFormat []string `json:"contentFormat"`
	} `json:"hover"`
	Definition struct{} `json:"definition"`
	References struct{} `json:"references"`
	CodeAction struct{} `json:"codeAction"`
	Formatting struct{} `json:"formatting"`
	Rename     struct {
		PrepareSupport bool `json:"prepareSupport"`
	} `json:"rename"`
	PublishDiagnostics struct {
		RelatedInformation bool `json:"relatedInformation"`
	} `json:"publishDiagnostics"`
	DocumentSymbol struct {
		HierarchicalDocumentSymbolSupport bool `json:"hierarchicalDocumentSymbolSupport"`
	} `json:"documentSymbol"`
	SignatureHelp struct{} `json:"signatureHelp"`
}

// clientCapabilities is the capability object sent at initialize:
// full-text sync with save notifications (no will-save), plain-text
// completion docs without snippets, plain-text hover, no rename
// prepare, no diagnostic related-information, flat document symbols.
func clientCapabilities() ClientCapabilities {
	var caps ClientCapabilities
	td := &caps.TextDocument
	td.Synchronization.DidSave = true
	td.Completion.CompletionItem.DocumentationFormat = []string{"plaintext"}
	td.Hover.ContentFormat = []string{"plaintext"}
	return caps
}

type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
}

// ServerCapabilities keeps the boolean-or-object provider fields raw;
// parseCapabilities folds them into the flat bitset.
type ServerCapabilities struct {
	CompletionProvider     json.RawMessage `json:"completionProvider,omitempty"`
	HoverProvider          json.RawMessage `json:"hoverProvider,omitempty"`
	DefinitionProvider     json.RawMessage `json:"definitionProvider,omitempty"`
	ReferencesProvider     json.RawMessage `json:"referencesProvider,omitempty"`
	CodeActionProvider     json.RawMessage `json:"codeActionProvider,omitempty"`
	DocumentFormatting     json.RawMessage `json:"documentFormattingProvider,omitempty"`
	RenameProvider         json.RawMessage `json:"renameProvider,omitempty"`
	DocumentSymbolProvider json.RawMessage `json:"documentSymbolProvider,omitempty"`
	SignatureHelpProvider  json.RawMessage `json:"signatureHelpProvider,omitempty"`
}

// Capability is a flat bitset of server-side features.
type Capability uint16

const (
	CapCompletion Capability = 1 << iota
	CapHover
	CapDefinition
	CapReferences
	CapCodeAction
	CapFormatting
	CapRename
	CapDocumentSymbol
	CapSignatureHelp
	CapDiagnostics
)

// Has reports whether every bit in want is set.
func (c Capability) Has(want Capability) bool { return c&want == want }

// parseCapabilities flattens advertised providers into a bitset.
// Diagnostics are push-based and always on.
func parseCapabilities(sc ServerCapabilities) Capability {
	caps := CapDiagnostics
	set := func(raw json.RawMessage, bit Capability) {
		if providerEnabled(raw) {
			caps |= bit
		}
	}
	set(sc.CompletionProvider, CapCompletion)
	set(sc.HoverProvider, CapHover)
	set(sc.DefinitionProvider, CapDefinition)
	set(sc.ReferencesProvider, CapReferences)
	set(sc.CodeActionProvider, CapCodeAction)
	set(sc.DocumentFormatting, CapFormatting)
	set(sc.RenameProvider, CapRename)
	set(sc.DocumentSymbolProvider, CapDocumentSymbol)
	set(sc.SignatureHelpProvider, CapSignatureHelp)
	return caps
}

// providerEnabled accepts both `true` and the provider-object form;
// `false`, `null`, and absence all disable.
func providerEnabled(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return false
	}
	switch trimmed[0] {
	case 't':
		return true
	case '{', '[':
		return true
	default:
		return false
	}
}

// --- Document sync ---

type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

type DidChangeTextDocumentParams struct {
	TextDocument   VersionedTextDocumentIdentifier  `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

// TextDocumentContentChangeEvent with no range is a full-text replace.
type TextDocumentContentChangeEvent struct {
	Text string `json:"text"`
}

type DidSaveTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Text         string                 `json:"text,omitempty"`
}

type DidCloseTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// --- Language features ---

type CompletionItem struct {
	Label      string `json:"label"`
	Kind       int    `json:"kind,omitempty"`
	Detail     string `json:"detail,omitempty"`
	InsertText string `json:"insertText,omitempty"`
}

// CompletionList also accepts the bare-array response form.
type CompletionList struct {
	IsIncomplete bool             `json:"isIncomplete"`
	Items        []CompletionItem `json:"items"`
}

func (cl *CompletionList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &cl.Items)
	}
	type alias CompletionList
	return json.Unmarshal(data, (*alias)(cl))
}

type MarkupContent struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

type Hover struct {
	Contents json.RawMessage `json:"contents"`
	Range    *Range          `json:"range,omitempty"`
}

// Text extracts a plain string from the MarkupContent, MarkedString,
// or array-of-MarkedString forms of Hover.Contents.
func (h Hover) Text() string {
	var mc MarkupContent
	if err := json.Unmarshal(h.Contents, &mc); err == nil && mc.Value != "" {
		return mc.Value
	}
	var s string
	if err := json.Unmarshal(h.Contents, &s); err == nil {
		return s
	}
	var parts []json.RawMessage
	if err := json.Unmarshal(h.Contents, &parts); err == nil {
		var out string
		for _, p := range parts {
			if out != "" {
				out += "\n"
			}
			out += (Hover{Contents: p}).Text()
		}
		return out
	}
	return ""
}

type ReferenceParams struct {
	TextDocumentPositionParams
	Context ReferenceContext `json:"context"`
}

type ReferenceContext struct {
	IncludeDeclaration bool `json:"includeDeclaration"`
}

type CodeActionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Range        Range                  `json:"range"`
	Context      CodeActionContext      `json:"context"`
}

type CodeActionContext struct {
	Diagnostics []Diagnostic `json:"diagnostics"`
}

type CodeAction struct {
	Title string         `json:"title"`
	Kind  string         `json:"kind,omitempty"`
	Edit  *WorkspaceEdit `json:"edit,omitempty"`
}

type DocumentFormattingParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Options      FormattingOptions      `json:"options"`
}

type FormattingOptions struct {
	TabSize      int  `json:"tabSize"`
	InsertSpaces bool `json:"insertSpaces"`
}

type RenameParams struct {
	TextDocumentPositionParams
	NewName string `json:"newName"`
}

type DocumentSymbolParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

type DocumentSymbol struct {
	Name           string           `json:"name"`
	Detail         string           `json:"detail,omitempty"`
	Kind           int              `json:"kind"`
	Range          Range            `json:"range"`
	SelectionRange Range            `json:"selectionRange"`
	Children       []DocumentSymbol `json:"children,omitempty"`
}
