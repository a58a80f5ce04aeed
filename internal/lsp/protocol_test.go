// internal/lsp/protocol_test.go
package lsp

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestClientCapabilities(t *testing.T) {
	caps := clientCapabilities()
	td := caps.TextDocument
	if !td.Synchronization.DidSave || td.Synchronization.WillSave {
		t.Errorf("synchronization = %+v", td.Synchronization)
	}
	if td.Completion.CompletionItem.SnippetSupport {
		t.Error("snippets advertised")
	}
	if got := td.Completion.CompletionItem.DocumentationFormat; len(got) != 1 || got[0] != "plaintext" {
		t.Errorf("completion docs = %v", got)
	}
	if got := td.Hover.ContentFormat; len(got) != 1 || got[0] != "plaintext" {
		t.Errorf("hover format = %v", got)
	}
	if td.PublishDiagnostics.RelatedInformation {
		t.Error("related information advertised")
	}
	if td.Rename.PrepareSupport {
		t.Error("rename prepare advertised")
	}
	if td.DocumentSymbol.HierarchicalDocumentSymbolSupport {
		t.Error("hierarchical symbols advertised")
	}

	// Every section the server may inspect appears on the wire.
	data, err := json.Marshal(caps)
	if err != nil {
		t.Fatal(err)
	}
	sections := []string{
		"synchronization", "completion", "hover", "definition",
		"references", "codeAction", "formatting", "rename",
		"publishDiagnostics", "documentSymbol", "signatureHelp",
	}
	for _, section := range sections {
		if !strings.Contains(string(data), `"`+section+`"`) {
			t.Errorf("capability object missing %q", section)
		}
	}
}

func TestMessageKind(t *testing.T) {
	id := int64(3)
	tests := []struct {
		name string
		msg  Message
		want MessageKind
	}{
		{"request", Message{ID: &id, Method: "initialize"}, KindRequest},
		{"response", Message{ID: &id, Result: json.RawMessage(`{}`)}, KindResponse},
		{"error response", Message{ID: &id, Error: &RpcError{Code: -32600}}, KindResponse},
		{"notification", Message{Method: "initialized"}, KindNotification},
		{"malformed", Message{}, KindMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.msg.Kind(); got != tt.want {
				t.Errorf("Kind = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseCapabilities(t *testing.T) {
	raw := `{
		"completionProvider": {"triggerCharacters": ["."]},
		"hoverProvider": true,
		"definitionProvider": false,
		"referencesProvider": null,
		"documentFormattingProvider": true
	}`
	var sc ServerCapabilities
	if err := json.Unmarshal([]byte(raw), &sc); err != nil {
		t.Fatal(err)
	}
	caps := parseCapabilities(sc)

	if !caps.Has(CapCompletion) {
		t.Error("object provider not enabled")
	}
	if !caps.Has(CapHover) {
		t.Error("true provider not enabled")
	}
	if caps.Has(CapDefinition) {
		t.Error("false provider enabled")
	}
	if caps.Has(CapReferences) {
		t.Error("null provider enabled")
	}
	if !caps.Has(CapFormatting) {
		t.Error("formatting not enabled")
	}
	// Diagnostics are push-based and always advertised.
	if !caps.Has(CapDiagnostics) {
		t.Error("diagnostics bit missing")
	}
	if caps.Has(CapRename) {
		t.Error("absent provider enabled")
	}
}

func TestCompletionListBothForms(t *testing.T) {
	var list CompletionList
	if err := json.Unmarshal([]byte(`{"isIncomplete":true,"items":[{"label":"Foo"}]}`), &list); err != nil {
		t.Fatal(err)
	}
	if !list.IsIncomplete || len(list.Items) != 1 || list.Items[0].Label != "Foo" {
		t.Errorf("object form: %+v", list)
	}

	var bare CompletionList
	if err := json.Unmarshal([]byte(`[{"label":"Bar"},{"label":"Baz"}]`), &bare); err != nil {
		t.Fatal(err)
	}
	if len(bare.Items) != 2 || bare.Items[0].Label != "Bar" {
		t.Errorf("array form: %+v", bare)
	}
}

func TestHoverText(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		want     string
	}{
		{"markup", `{"kind":"markdown","value":"doc text"}`, "doc text"},
		{"string", `"plain text"`, "plain text"},
		{"array", `["first","second"]`, "first\nsecond"},
		{"empty", `""`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Hover{Contents: json.RawMessage(tt.contents)}
			if got := h.Text(); got != tt.want {
				t.Errorf("Text = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequestSerialization(t *testing.T) {
	msg, err := newRequest(7, "textDocument/hover", TextDocumentPositionParams{
		TextDocument: TextDocumentIdentifier{URI: "file:///a.go"},
		Position:     Position{Line: 1, Character: 2},
	})
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}
	var back Message
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Kind() != KindRequest || *back.ID != 7 || back.Method != "textDocument/hover" {
		t.Errorf("round trip: %+v", back)
	}
}

func TestNotificationHasNoID(t *testing.T) {
	msg, err := newNotification("initialized", nil)
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		t.Fatal(err)
	}
	if _, ok := probe["id"]; ok {
		t.Error("notification carries an id")
	}
}
