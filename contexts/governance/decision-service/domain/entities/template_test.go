package entities

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestTemplateDocumentKeepsDeclarationOrder(t *testing.T) {
	raw := `{"x-field-order":["a"],"properties":{"b":{"type":"string"},"a":{"type":"string","x-format":"long-text"},"c":{"type":"number"}}}`

	var doc TemplateDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(doc.PropertyKeys) != 3 {
		t.Fatalf("expected three property keys, got %v", doc.PropertyKeys)
	}
	for i, key := range []string{"b", "a", "c"} {
		if doc.PropertyKeys[i] != key {
			t.Fatalf("expected declaration order b,a,c, got %v", doc.PropertyKeys)
		}
	}
	if doc.Properties["a"].Format != FieldFormatLongText {
		t.Fatalf("expected x-format resolved, got %q", doc.Properties["a"].Format)
	}
	if len(doc.FieldOrder) != 1 || doc.FieldOrder[0] != "a" {
		t.Fatalf("expected x-field-order [a], got %v", doc.FieldOrder)
	}

	out, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	text := string(out)
	if strings.Index(text, `"b"`) > strings.Index(text, `"a":{`) {
		t.Fatalf("expected b before a in output, got %s", text)
	}

	var round TemplateDocument
	if err := json.Unmarshal(out, &round); err != nil {
		t.Fatalf("round trip unmarshal failed: %v", err)
	}
	for i := range doc.PropertyKeys {
		if round.PropertyKeys[i] != doc.PropertyKeys[i] {
			t.Fatalf("round trip changed order: %v vs %v", round.PropertyKeys, doc.PropertyKeys)
		}
	}
}

func TestTemplateDocumentRejectsNonObject(t *testing.T) {
	var doc TemplateDocument
	if err := json.Unmarshal([]byte(`["not", "an", "object"]`), &doc); err == nil {
		t.Fatalf("expected error for non-object document")
	}
}
