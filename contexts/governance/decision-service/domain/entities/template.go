package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Field formats carried in the x-format vendor extension. Unset formats
// compile to short-text.
const (
	FieldFormatShortText = "short-text"
	FieldFormatLongText  = "long-text"
	FieldFormatDropdown  = "dropdown"
)

// TemplateProperty is one property of a proposal/rubric template schema.
type TemplateProperty struct {
	Format string
	Schema map[string]any
}

// TemplateDocument is a JSON-Schema-shaped template with the x-field-order
// and x-format vendor extensions resolved into typed fields. PropertyKeys
// preserves declaration order, which standard map decoding would lose and
// which the compiler's tie-break rule depends on.
type TemplateDocument struct {
	FieldOrder   []string
	PropertyKeys []string
	Properties   map[string]TemplateProperty
}

// FieldDescriptor is the compiled, renderer-facing shape of one field.
type FieldDescriptor struct {
	Key      string         `json:"key"`
	Format   string         `json:"format"`
	IsSystem bool           `json:"isSystem"`
	Schema   map[string]any `json:"schema"`
}

func (t *TemplateDocument) UnmarshalJSON(data []byte) error {
	var doc struct {
		FieldOrder []string                   `json:"x-field-order"`
		Properties map[string]json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	keys, err := propertyKeyOrder(data)
	if err != nil {
		return err
	}

	properties := make(map[string]TemplateProperty, len(doc.Properties))
	for key, raw := range doc.Properties {
		var schema map[string]any
		if err := json.Unmarshal(raw, &schema); err != nil {
			return fmt.Errorf("template property %q: %w", key, err)
		}
		format, _ := schema["x-format"].(string)
		properties[key] = TemplateProperty{Format: format, Schema: schema}
	}

	t.FieldOrder = doc.FieldOrder
	t.PropertyKeys = keys
	t.Properties = properties
	return nil
}

func (t TemplateDocument) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if len(t.FieldOrder) > 0 {
		order, err := json.Marshal(t.FieldOrder)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`"x-field-order":`)
		buf.Write(order)
		buf.WriteByte(',')
	}
	buf.WriteString(`"properties":{`)
	for i, key := range t.PropertyKeys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		schema, err := json.Marshal(t.Properties[key].Schema)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(schema)
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

// propertyKeyOrder walks the raw document tokens to recover the declaration
// order of the properties object.
func propertyKeyOrder(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("template document must be a JSON object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)
		if key != "properties" {
			if err := skipValue(dec); err != nil {
				return nil, err
			}
			continue
		}

		open, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if delim, ok := open.(json.Delim); !ok || delim != '{' {
			return nil, fmt.Errorf("template properties must be a JSON object")
		}
		var keys []string
		for dec.More() {
			propTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			name, _ := propTok.(string)
			keys = append(keys, name)
			if err := skipValue(dec); err != nil {
				return nil, err
			}
		}
		return keys, nil
	}
	return nil, nil
}

func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok || (delim != '{' && delim != '[') {
		return nil
	}
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}
