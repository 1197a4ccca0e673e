package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "agora/contexts/governance/decision-service/application"
	"agora/contexts/governance/decision-service/domain/entities"
	domainerrors "agora/contexts/governance/decision-service/domain/errors"
	"agora/contexts/governance/decision-service/domain/services"
	"agora/contexts/governance/decision-service/ports"
)

// SubmitProposalCommand is the write-model input for proposal submission.
type SubmitProposalCommand struct {
	InstanceID   string
	ProfileID    string
	ProposalData map[string]any
}

// ProposalUseCase validates proposal submissions against the current phase
// and the process's proposal configuration.
type ProposalUseCase struct {
	Processes ports.ProcessRepository
	Proposals ports.ProposalRepository
	Registry  *services.SchemaRegistry
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

// SubmitProposal records a member proposal in submitted status. The current
// phase must allow proposals and every required template field must be
// present and non-empty.
func (uc ProposalUseCase) SubmitProposal(ctx context.Context, cmd SubmitProposalCommand) (entities.Proposal, error) {
	logger := application.ResolveLogger(uc.Logger)
	instanceID := strings.TrimSpace(cmd.InstanceID)
	profileID := strings.TrimSpace(cmd.ProfileID)
	if instanceID == "" || profileID == "" {
		return entities.Proposal{}, domainerrors.ErrInvalidInput
	}

	voting, err := application.ResolveVotingContext(ctx, uc.Processes, uc.Registry, instanceID)
	if err != nil {
		return entities.Proposal{}, err
	}
	if !voting.State.Config.AllowProposals {
		logger.Warn("proposal rejected, proposals closed for current phase",
			"event", "decision_proposal_phase_closed",
			"module", "governance/decision-service",
			"layer", "application",
			"instance_id", instanceID,
			"current_state_id", voting.Instance.InstanceData.CurrentStateID,
		)
		return entities.Proposal{}, domainerrors.ErrProposalsClosed
	}

	config := mergeTemplateConstraints(voting.Schema.ProposalConfig, voting.Process.ProposalTemplate)
	if fieldErrors := validateProposalData(cmd.ProposalData, config); len(fieldErrors) > 0 {
		return entities.Proposal{}, domainerrors.NewValidationError("invalid proposal data", fieldErrors)
	}

	now := uc.now()
	proposalID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Proposal{}, err
	}
	proposal := entities.Proposal{
		ProposalID:           proposalID,
		InstanceID:           instanceID,
		SubmittedByProfileID: profileID,
		Status:               entities.ProposalStatusSubmitted,
		ProposalData:         cmd.ProposalData,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := uc.Proposals.SaveProposal(ctx, proposal); err != nil {
		return entities.Proposal{}, err
	}

	logger.Info("proposal submitted",
		"event", "decision_proposal_submitted",
		"module", "governance/decision-service",
		"layer", "application",
		"instance_id", instanceID,
		"profile_id", profileID,
		"proposal_id", proposalID,
	)
	return proposal, nil
}

// mergeTemplateConstraints folds the process template's property schemas
// into the effective field constraints. Explicit schema-level constraints
// win over template ones for the same field.
func mergeTemplateConstraints(config entities.ProposalConfig, template *entities.TemplateDocument) entities.ProposalConfig {
	if template == nil || len(template.Properties) == 0 {
		return config
	}
	merged := make(map[string]any, len(config.FieldConstraints)+len(template.Properties))
	for key, property := range template.Properties {
		if len(property.Schema) > 0 {
			merged[key] = property.Schema
		}
	}
	for key, constraint := range config.FieldConstraints {
		merged[key] = constraint
	}
	config.FieldConstraints = merged
	return config
}

// validateProposalData enforces required fields and the shallow constraints
// the proposal configuration carries (minLength/maxLength on strings).
func validateProposalData(data map[string]any, config entities.ProposalConfig) map[string][]string {
	fieldErrors := map[string][]string{}
	for _, field := range config.RequiredFields {
		value, present := data[field]
		if !present || isEmptyValue(value) {
			fieldErrors[field] = append(fieldErrors[field], fmt.Sprintf("%s is required", field))
		}
	}
	for field, rawConstraint := range config.FieldConstraints {
		constraint, ok := rawConstraint.(map[string]any)
		if !ok {
			continue
		}
		text, ok := data[field].(string)
		if !ok {
			continue
		}
		if min, ok := numberConstraint(constraint, "minLength"); ok && len(text) < min {
			fieldErrors[field] = append(fieldErrors[field], fmt.Sprintf("%s must be at least %d characters", field, min))
		}
		if max, ok := numberConstraint(constraint, "maxLength"); ok && len(text) > max {
			fieldErrors[field] = append(fieldErrors[field], fmt.Sprintf("%s must be at most %d characters", field, max))
		}
	}
	return fieldErrors
}

func isEmptyValue(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(typed) == ""
	default:
		return false
	}
}

func numberConstraint(constraint map[string]any, key string) (int, bool) {
	switch value := constraint[key].(type) {
	case float64:
		return int(value), true
	case int:
		return value, true
	default:
		return 0, false
	}
}

func (uc ProposalUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
