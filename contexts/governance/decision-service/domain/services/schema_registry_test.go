package services

import (
	"reflect"
	"testing"

	"agora/contexts/governance/decision-service/domain/entities"
)

func TestDetectSchemaTypeExplicitWins(t *testing.T) {
	registry := NewSchemaRegistry(nil)
	schemaType := registry.DetectSchemaType(map[string]any{
		"schemaType":     "advanced",
		"allowProposals": true,
		"allowDecisions": false,
	})
	if schemaType != "advanced" {
		t.Fatalf("expected explicit schemaType to win, got %q", schemaType)
	}
}

func TestDetectSchemaTypeByShape(t *testing.T) {
	registry := NewSchemaRegistry(nil)

	withInstance := registry.DetectSchemaType(map[string]any{
		"allowProposals": true,
		"allowDecisions": true,
		"instanceData":   map[string]any{},
	})
	if withInstance != "default" {
		t.Fatalf("expected default dialect, got %q", withInstance)
	}

	boolsOnly := registry.DetectSchemaType(map[string]any{
		"allowProposals": false,
		"allowDecisions": true,
	})
	if boolsOnly != "simple" {
		t.Fatalf("expected simple dialect, got %q", boolsOnly)
	}

	advanced := registry.DetectSchemaType(map[string]any{
		"advancedVotingConfig": map[string]any{"maxVotesPerMember": 5},
	})
	if advanced != "advanced" {
		t.Fatalf("expected advanced dialect, got %q", advanced)
	}

	if unknown := registry.DetectSchemaType(map[string]any{"foo": "bar"}); unknown != entities.SchemaTypeUnknown {
		t.Fatalf("expected unknown dialect, got %q", unknown)
	}
}

func TestProcessSchemaUnregisteredTypeUsesDefaultHandler(t *testing.T) {
	registry := NewSchemaRegistry(nil)
	result := registry.ProcessSchema(map[string]any{
		"schemaType":     "consensus",
		"allowProposals": true,
		"allowDecisions": true,
		"instanceData":   map[string]any{"maxVotesPerMember": 2},
	})
	if result.SchemaType != "consensus" {
		t.Fatalf("expected reported type consensus, got %q", result.SchemaType)
	}
	if !result.IsValid {
		t.Fatalf("expected fallback handler to validate, errors: %v", result.Errors)
	}
	if result.VotingConfig.MaxVotesPerMember != 2 {
		t.Fatalf("expected instance override 2, got %d", result.VotingConfig.MaxVotesPerMember)
	}
}

func TestProcessSchemaReportsStructuralErrors(t *testing.T) {
	registry := NewSchemaRegistry(nil)
	result := registry.ProcessSchema(map[string]any{
		"schemaType":     "simple",
		"allowProposals": "yes",
		"instanceData":   map[string]any{"maxVotesPerMember": 0},
	})
	if result.IsValid {
		t.Fatalf("expected invalid result")
	}
	if len(result.Errors) != 3 {
		t.Fatalf("expected three structural errors, got %v", result.Errors)
	}
}

func TestProcessSchemaDefaultVoteLimit(t *testing.T) {
	registry := NewSchemaRegistry(nil)
	result := registry.ProcessSchema(map[string]any{
		"allowProposals": false,
		"allowDecisions": true,
	})
	if !result.IsValid {
		t.Fatalf("expected valid result, errors: %v", result.Errors)
	}
	if result.VotingConfig.MaxVotesPerMember != DefaultMaxVotesPerMember {
		t.Fatalf("expected default limit %d, got %d", DefaultMaxVotesPerMember, result.VotingConfig.MaxVotesPerMember)
	}
	if !reflect.DeepEqual(result.ProposalConfig.RequiredFields, []string{"title"}) {
		t.Fatalf("expected title as the only required field, got %v", result.ProposalConfig.RequiredFields)
	}
}

func TestProcessSchemaAdvancedOverridesAndUnions(t *testing.T) {
	registry := NewSchemaRegistry(nil)
	result := registry.ProcessSchema(map[string]any{
		"allowProposals": true,
		"allowDecisions": false,
		"instanceData":   map[string]any{"maxVotesPerMember": 2},
		"advancedVotingConfig": map[string]any{
			"maxVotesPerMember": 7,
			"allowDecisions":    true,
			"quorum":            0.5,
		},
		"advancedProposalConfig": map[string]any{
			"requiredFields": []any{"budget", "title"},
			"optionalFields": []any{"attachments"},
			"fieldConstraints": map[string]any{
				"budget": map[string]any{"minimum": 0},
			},
		},
	})
	if !result.IsValid {
		t.Fatalf("expected valid result, errors: %v", result.Errors)
	}
	if result.SchemaType != "advanced" {
		t.Fatalf("expected advanced dialect, got %q", result.SchemaType)
	}
	if result.VotingConfig.MaxVotesPerMember != 7 {
		t.Fatalf("expected advanced override 7, got %d", result.VotingConfig.MaxVotesPerMember)
	}
	if !result.VotingConfig.AllowDecisions {
		t.Fatalf("expected advanced allowDecisions override")
	}
	if result.VotingConfig.AdditionalConfig["quorum"] != 0.5 {
		t.Fatalf("expected quorum merged into additional config, got %v", result.VotingConfig.AdditionalConfig)
	}
	if !reflect.DeepEqual(result.ProposalConfig.RequiredFields, []string{"budget", "title"}) {
		t.Fatalf("expected sorted deduplicated union, got %v", result.ProposalConfig.RequiredFields)
	}
	if !reflect.DeepEqual(result.ProposalConfig.OptionalFields, []string{"attachments"}) {
		t.Fatalf("unexpected optional fields %v", result.ProposalConfig.OptionalFields)
	}
	if _, ok := result.ProposalConfig.FieldConstraints["budget"]; !ok {
		t.Fatalf("expected budget constraint merged, got %v", result.ProposalConfig.FieldConstraints)
	}
}

func TestRegisterLastWinsKeepsDetectionOrder(t *testing.T) {
	registry := NewSchemaRegistry(nil)
	registry.Register(SchemaHandler{
		SchemaType: "simple",
		Validate: func(map[string]any) bool {
			return true
		},
		ExtractVotingConfig: func(map[string]any) entities.VotingConfig {
			return entities.VotingConfig{MaxVotesPerMember: 99}
		},
	})

	// default still comes first, so an empty object with bools and
	// instanceData resolves before the replacement handler.
	if got := registry.DetectSchemaType(map[string]any{
		"allowProposals": true,
		"allowDecisions": true,
		"instanceData":   map[string]any{},
	}); got != "default" {
		t.Fatalf("expected default to keep first place, got %q", got)
	}

	result := registry.ProcessSchema(map[string]any{"schemaType": "simple"})
	if result.VotingConfig.MaxVotesPerMember != 99 {
		t.Fatalf("expected replaced handler to serve, got %d", result.VotingConfig.MaxVotesPerMember)
	}
}
