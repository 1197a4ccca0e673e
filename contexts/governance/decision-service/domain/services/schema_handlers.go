package services

import (
	"fmt"
	"sort"

	"agora/contexts/governance/decision-service/domain/entities"
)

func defaultSchemaHandler() SchemaHandler {
	return SchemaHandler{
		SchemaType: "default",
		Validate: func(data map[string]any) bool {
			_, hasProposals := boolField(data, "allowProposals")
			_, hasDecisions := boolField(data, "allowDecisions")
			_, hasInstance := objectField(data, "instanceData")
			return hasProposals && hasDecisions && hasInstance
		},
		ValidateSchema:        validateBaseSchema,
		ExtractVotingConfig:   extractBaseVotingConfig,
		ExtractProposalConfig: extractBaseProposalConfig,
	}
}

func simpleSchemaHandler() SchemaHandler {
	return SchemaHandler{
		SchemaType: "simple",
		Validate: func(data map[string]any) bool {
			_, hasProposals := boolField(data, "allowProposals")
			_, hasDecisions := boolField(data, "allowDecisions")
			return hasProposals && hasDecisions
		},
		ValidateSchema:        validateBaseSchema,
		ExtractVotingConfig:   extractBaseVotingConfig,
		ExtractProposalConfig: extractBaseProposalConfig,
	}
}

func advancedSchemaHandler() SchemaHandler {
	return SchemaHandler{
		SchemaType: "advanced",
		Validate: func(data map[string]any) bool {
			_, hasVoting := objectField(data, "advancedVotingConfig")
			_, hasProposal := objectField(data, "advancedProposalConfig")
			return hasVoting || hasProposal
		},
		ValidateSchema: func(data map[string]any) []string {
			errs := validateBaseSchema(data)
			for _, key := range []string{"advancedVotingConfig", "advancedProposalConfig"} {
				raw, present := data[key]
				if !present {
					continue
				}
				if _, ok := raw.(map[string]any); !ok {
					errs = append(errs, fmt.Sprintf("%s must be an object", key))
				}
			}
			if advanced, ok := objectField(data, "advancedProposalConfig"); ok {
				for _, key := range []string{"requiredFields", "optionalFields"} {
					if raw, present := advanced[key]; present {
						if _, ok := stringList(raw); !ok {
							errs = append(errs, fmt.Sprintf("advancedProposalConfig.%s must be a string array", key))
						}
					}
				}
			}
			return errs
		},
		ExtractVotingConfig: func(data map[string]any) entities.VotingConfig {
			config := extractBaseVotingConfig(data)
			advanced, ok := objectField(data, "advancedVotingConfig")
			if !ok {
				return config
			}
			config.AdditionalConfig = shallowMerge(config.AdditionalConfig, advanced)
			if limit, ok := intField(advanced, "maxVotesPerMember"); ok && limit > 0 {
				config.MaxVotesPerMember = limit
			}
			if allow, ok := boolField(advanced, "allowDecisions"); ok {
				config.AllowDecisions = allow
			}
			return config
		},
		ExtractProposalConfig: func(data map[string]any) entities.ProposalConfig {
			config := extractBaseProposalConfig(data)
			advanced, ok := objectField(data, "advancedProposalConfig")
			if !ok {
				return config
			}
			if fields, ok := stringList(advanced["requiredFields"]); ok {
				config.RequiredFields = unionFields(config.RequiredFields, fields)
			}
			if fields, ok := stringList(advanced["optionalFields"]); ok {
				config.OptionalFields = unionFields(config.OptionalFields, fields)
			}
			if constraints, ok := objectField(advanced, "fieldConstraints"); ok {
				config.FieldConstraints = shallowMerge(config.FieldConstraints, constraints)
			}
			return config
		},
	}
}

// validateBaseSchema checks the structural shape every dialect shares.
func validateBaseSchema(data map[string]any) []string {
	var errs []string
	for _, key := range []string{"allowProposals", "allowDecisions"} {
		raw, present := data[key]
		if !present {
			errs = append(errs, fmt.Sprintf("%s is required", key))
			continue
		}
		if _, ok := raw.(bool); !ok {
			errs = append(errs, fmt.Sprintf("%s must be a boolean", key))
		}
	}
	if raw, present := data["schemaType"]; present {
		if _, ok := raw.(string); !ok {
			errs = append(errs, "schemaType must be a string")
		}
	}
	if raw, present := data["instanceData"]; present {
		instance, ok := raw.(map[string]any)
		if !ok {
			errs = append(errs, "instanceData must be an object")
		} else if rawLimit, present := instance["maxVotesPerMember"]; present {
			if limit, ok := numberValue(rawLimit); !ok || limit < 1 {
				errs = append(errs, "instanceData.maxVotesPerMember must be a number greater than zero")
			}
		}
	}
	return errs
}

func extractBaseVotingConfig(data map[string]any) entities.VotingConfig {
	config := entities.VotingConfig{
		MaxVotesPerMember: DefaultMaxVotesPerMember,
	}
	if allow, ok := boolField(data, "allowDecisions"); ok {
		config.AllowDecisions = allow
	}
	if instance, ok := objectField(data, "instanceData"); ok {
		if limit, ok := intField(instance, "maxVotesPerMember"); ok && limit > 0 {
			config.MaxVotesPerMember = limit
		}
	}
	if additional, ok := objectField(data, "additionalConfig"); ok {
		config.AdditionalConfig = shallowMerge(nil, additional)
	}
	return config
}

func extractBaseProposalConfig(data map[string]any) entities.ProposalConfig {
	config := entities.ProposalConfig{
		RequiredFields:   []string{"title"},
		OptionalFields:   []string{},
		FieldConstraints: map[string]any{},
	}
	base, ok := objectField(data, "proposalConfig")
	if !ok {
		return config
	}
	if fields, ok := stringList(base["requiredFields"]); ok {
		config.RequiredFields = unionFields(config.RequiredFields, fields)
	}
	if fields, ok := stringList(base["optionalFields"]); ok {
		config.OptionalFields = unionFields(config.OptionalFields, fields)
	}
	if constraints, ok := objectField(base, "fieldConstraints"); ok {
		config.FieldConstraints = shallowMerge(config.FieldConstraints, constraints)
	}
	return config
}

func boolField(data map[string]any, key string) (bool, bool) {
	value, ok := data[key].(bool)
	return value, ok
}

func objectField(data map[string]any, key string) (map[string]any, bool) {
	value, ok := data[key].(map[string]any)
	return value, ok
}

// numberValue accepts the numeric shapes JSON decoding and typed callers
// produce.
func numberValue(raw any) (float64, bool) {
	switch value := raw.(type) {
	case float64:
		return value, true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	default:
		return 0, false
	}
}

func intField(data map[string]any, key string) (int, bool) {
	value, ok := numberValue(data[key])
	if !ok {
		return 0, false
	}
	return int(value), true
}

func stringList(raw any) ([]string, bool) {
	switch value := raw.(type) {
	case []string:
		return value, true
	case []any:
		fields := make([]string, 0, len(value))
		for _, item := range value {
			text, ok := item.(string)
			if !ok {
				return nil, false
			}
			fields = append(fields, text)
		}
		return fields, true
	default:
		return nil, false
	}
}

// unionFields merges two field lists with set semantics. Output is sorted so
// extraction stays deterministic regardless of input order.
func unionFields(base []string, extra []string) []string {
	seen := make(map[string]bool, len(base)+len(extra))
	merged := make([]string, 0, len(base)+len(extra))
	for _, field := range append(append([]string(nil), base...), extra...) {
		if field == "" || seen[field] {
			continue
		}
		seen[field] = true
		merged = append(merged, field)
	}
	sort.Strings(merged)
	return merged
}

// shallowMerge copies base then overlays extra; later values win per key.
func shallowMerge(base map[string]any, extra map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(extra))
	for key, value := range base {
		merged[key] = value
	}
	for key, value := range extra {
		merged[key] = value
	}
	return merged
}
