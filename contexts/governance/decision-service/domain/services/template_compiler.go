package services

import (
	"log/slog"
	"sort"

	"agora/contexts/governance/decision-service/domain/entities"
)

// SystemFieldKeys marks template fields the platform owns. System fields are
// rendered like any other field but the UI treats them as non-removable.
var SystemFieldKeys = map[string]bool{
	"title":       true,
	"description": true,
}

// RequiredSystemFields must exist in every proposal template. A missing entry
// is a diagnostic, not a failure: compilation proceeds with whatever
// properties exist.
var RequiredSystemFields = []string{"title"}

// CompileProposalTemplate turns a proposal template into ordered, renderable
// field descriptors. System fields are flagged via SystemFieldKeys.
func CompileProposalTemplate(template *entities.TemplateDocument, logger *slog.Logger) []entities.FieldDescriptor {
	if template != nil {
		for _, key := range RequiredSystemFields {
			if _, ok := template.Properties[key]; !ok {
				if logger == nil {
					logger = slog.Default()
				}
				logger.Warn("proposal template is missing a required system field",
					"event", "decision_template_system_field_missing",
					"module", "governance/decision-service",
					"layer", "domain",
					"field", key,
				)
			}
		}
	}
	return compileTemplate(template, true)
}

// CompileRubricTemplate turns a rubric template into ordered field
// descriptors. Rubric templates have no system fields.
func CompileRubricTemplate(template *entities.TemplateDocument) []entities.FieldDescriptor {
	return compileTemplate(template, false)
}

// compileTemplate resolves the render order: x-field-order entries first
// (existing, unseen keys only, in the given order), then every remaining
// property in declaration order. Every declared property is rendered exactly
// once. The function is pure with respect to its input.
func compileTemplate(template *entities.TemplateDocument, markSystem bool) []entities.FieldDescriptor {
	if template == nil || len(template.Properties) == 0 {
		return []entities.FieldDescriptor{}
	}

	seen := make(map[string]bool, len(template.Properties))
	ordered := make([]string, 0, len(template.Properties))
	for _, key := range template.FieldOrder {
		if _, exists := template.Properties[key]; !exists || seen[key] {
			continue
		}
		seen[key] = true
		ordered = append(ordered, key)
	}
	for _, key := range template.PropertyKeys {
		if _, exists := template.Properties[key]; !exists || seen[key] {
			continue
		}
		seen[key] = true
		ordered = append(ordered, key)
	}
	if len(ordered) < len(template.Properties) {
		// Documents built in code may not carry PropertyKeys; pick up the
		// leftovers in a stable order.
		leftovers := make([]string, 0, len(template.Properties))
		for key := range template.Properties {
			if !seen[key] {
				leftovers = append(leftovers, key)
			}
		}
		sort.Strings(leftovers)
		ordered = append(ordered, leftovers...)
	}

	descriptors := make([]entities.FieldDescriptor, 0, len(ordered))
	for _, key := range ordered {
		property := template.Properties[key]
		format := property.Format
		if format == "" {
			format = entities.FieldFormatShortText
		}
		descriptors = append(descriptors, entities.FieldDescriptor{
			Key:      key,
			Format:   format,
			IsSystem: markSystem && SystemFieldKeys[key],
			Schema:   property.Schema,
		})
	}
	return descriptors
}
