package services

import (
	"fmt"
	"log/slog"

	"agora/contexts/governance/decision-service/domain/entities"
)

// DefaultMaxVotesPerMember applies when neither the instance nor the dialect
// configuration sets a limit. The canonical default is 3.
const DefaultMaxVotesPerMember = 3

// SchemaHandler classifies and interprets one configuration dialect.
// Validate is the dialect type predicate; ValidateSchema is structural
// validation independent of the predicate.
type SchemaHandler struct {
	SchemaType            string
	Validate              func(data map[string]any) bool
	ValidateSchema        func(data map[string]any) []string
	ExtractVotingConfig   func(data map[string]any) entities.VotingConfig
	ExtractProposalConfig func(data map[string]any) entities.ProposalConfig
}

// SchemaRegistry resolves configuration blobs to dialect handlers. Build one
// in the composition root and pass it into the services that need it; the
// registry is not safe for concurrent Register calls after readers start, so
// treat it as read-only once the process is serving.
type SchemaRegistry struct {
	handlers    map[string]SchemaHandler
	order       []string
	defaultType string
	logger      *slog.Logger
}

// NewSchemaRegistry builds a registry with the built-in default, simple and
// advanced dialects registered in that order.
func NewSchemaRegistry(logger *slog.Logger) *SchemaRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	registry := &SchemaRegistry{
		handlers:    make(map[string]SchemaHandler),
		defaultType: "default",
		logger:      logger,
	}
	registry.Register(defaultSchemaHandler())
	registry.Register(simpleSchemaHandler())
	registry.Register(advancedSchemaHandler())
	return registry
}

// Register adds or replaces the handler for a schema type. Registration is
// idempotent per key; the last registration wins. Detection order follows
// first registration order per key.
func (r *SchemaRegistry) Register(handler SchemaHandler) {
	if handler.SchemaType == "" {
		return
	}
	if _, exists := r.handlers[handler.SchemaType]; !exists {
		r.order = append(r.order, handler.SchemaType)
	}
	r.handlers[handler.SchemaType] = handler
}

// DetectSchemaType resolves the dialect for a configuration blob. An explicit
// schemaType field wins verbatim over predicate inference; otherwise the
// first registered predicate that matches decides; otherwise "unknown".
func (r *SchemaRegistry) DetectSchemaType(data map[string]any) string {
	if explicit, ok := data["schemaType"].(string); ok && explicit != "" {
		return explicit
	}
	for _, schemaType := range r.order {
		handler := r.handlers[schemaType]
		if handler.Validate != nil && handler.Validate(data) {
			return schemaType
		}
	}
	return entities.SchemaTypeUnknown
}

// ProcessSchema classifies the blob, validates it against the resolved
// dialect, and extracts the voting and proposal sub-configs. Malformed input
// is reported through the result, never through an error.
func (r *SchemaRegistry) ProcessSchema(data map[string]any) entities.SchemaResult {
	schemaType := r.DetectSchemaType(data)
	handler, registered := r.handlers[schemaType]
	if !registered {
		handler = r.handlers[r.defaultType]
		r.logger.Debug("schema type has no registered handler, using default",
			"event", "decision_schema_handler_fallback",
			"module", "governance/decision-service",
			"layer", "domain",
			"schema_type", schemaType,
		)
	}

	result := entities.SchemaResult{SchemaType: schemaType}
	if handler.ValidateSchema != nil {
		if errs := handler.ValidateSchema(data); len(errs) > 0 {
			result.Errors = errs
			return result
		}
	}
	if handler.Validate != nil && !handler.Validate(data) {
		result.Errors = []string{
			fmt.Sprintf("configuration does not satisfy the %s dialect", handler.SchemaType),
		}
		return result
	}

	result.IsValid = true
	if handler.ExtractVotingConfig != nil {
		result.VotingConfig = handler.ExtractVotingConfig(data)
	}
	if handler.ExtractProposalConfig != nil {
		result.ProposalConfig = handler.ExtractProposalConfig(data)
	}
	return result
}
