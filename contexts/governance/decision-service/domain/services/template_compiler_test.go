package services

import (
	"encoding/json"
	"testing"

	"agora/contexts/governance/decision-service/domain/entities"
)

func TestCompileProposalTemplateHonorsFieldOrder(t *testing.T) {
	raw := []byte(`{
		"x-field-order": ["b", "missing", "a"],
		"properties": {
			"title": {"type": "string", "x-format": "short-text"},
			"a": {"type": "string", "x-format": "long-text"},
			"b": {"type": "string", "x-format": "dropdown", "enum": ["x", "y"]},
			"c": {"type": "string"}
		}
	}`)
	var template entities.TemplateDocument
	if err := json.Unmarshal(raw, &template); err != nil {
		t.Fatalf("unmarshal template: %v", err)
	}

	fields := CompileProposalTemplate(&template, nil)
	keys := make([]string, 0, len(fields))
	for _, field := range fields {
		keys = append(keys, field.Key)
	}
	// x-field-order entries first, skipping unknown keys, then the
	// remaining properties in declaration order.
	want := []string{"b", "a", "title", "c"}
	if len(keys) != len(want) {
		t.Fatalf("expected %d fields, got %v", len(want), keys)
	}
	for i, key := range want {
		if keys[i] != key {
			t.Fatalf("expected order %v, got %v", want, keys)
		}
	}

	if !fields[2].IsSystem {
		t.Fatalf("expected title to be flagged as system field")
	}
	if fields[0].Format != entities.FieldFormatDropdown {
		t.Fatalf("expected dropdown format, got %q", fields[0].Format)
	}
	if fields[3].Format != entities.FieldFormatShortText {
		t.Fatalf("expected short-text fallback, got %q", fields[3].Format)
	}
}

func TestCompileTemplatePreservesDeclarationOrder(t *testing.T) {
	raw := []byte(`{"properties": {"b": {}, "a": {}, "c": {}}}`)
	var template entities.TemplateDocument
	if err := json.Unmarshal(raw, &template); err != nil {
		t.Fatalf("unmarshal template: %v", err)
	}

	fields := CompileRubricTemplate(&template)
	if len(fields) != 3 {
		t.Fatalf("expected three fields, got %d", len(fields))
	}
	for i, key := range []string{"b", "a", "c"} {
		if fields[i].Key != key {
			t.Fatalf("expected declaration order b,a,c, got %s at %d", fields[i].Key, i)
		}
	}
	if fields[0].IsSystem {
		t.Fatalf("rubric fields must never be system fields")
	}
}

func TestCompileTemplateEmptyAndNil(t *testing.T) {
	if fields := CompileProposalTemplate(nil, nil); len(fields) != 0 {
		t.Fatalf("expected no fields for nil template, got %v", fields)
	}
	fields := CompileRubricTemplate(&entities.TemplateDocument{})
	if len(fields) != 0 {
		t.Fatalf("expected no fields for empty template, got %v", fields)
	}
}

func TestCompileTemplateCodeBuiltDocument(t *testing.T) {
	template := &entities.TemplateDocument{
		FieldOrder: []string{"score"},
		Properties: map[string]entities.TemplateProperty{
			"score":   {Format: entities.FieldFormatShortText},
			"comment": {Format: entities.FieldFormatLongText},
			"axis":    {},
		},
	}
	fields := CompileRubricTemplate(template)
	if len(fields) != 3 {
		t.Fatalf("expected three fields, got %d", len(fields))
	}
	// No PropertyKeys: ordered entry first, leftovers sorted.
	for i, key := range []string{"score", "axis", "comment"} {
		if fields[i].Key != key {
			t.Fatalf("unexpected order at %d: got %s, want %s", i, fields[i].Key, key)
		}
	}
}
