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
	"agora/contexts/governance/decision-service/ports"
)

// CreateProcessCommand defines a new decision process for an organization.
type CreateProcessCommand struct {
	OrganizationID   string
	Name             string
	Description      string
	SchemaType       string
	States           []entities.StateDefinition
	ProposalTemplate *entities.TemplateDocument
	RubricTemplate   *entities.TemplateDocument
}

// LaunchInstanceCommand starts one execution of a process.
type LaunchInstanceCommand struct {
	ProcessID         string
	OwnerProfileID    string
	ProfileID         string
	MaxVotesPerMember int
}

// AdvanceStateCommand moves an instance to another phase of its process.
type AdvanceStateCommand struct {
	InstanceID string
	ToStateID  string
}

// ProcessUseCase owns the process/instance lifecycle.
type ProcessUseCase struct {
	Processes ports.ProcessRepository
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (uc ProcessUseCase) CreateProcess(ctx context.Context, cmd CreateProcessCommand) (entities.Process, error) {
	logger := application.ResolveLogger(uc.Logger)
	if fieldErrors := validateProcessDefinition(cmd); len(fieldErrors) > 0 {
		return entities.Process{}, domainerrors.NewValidationError("invalid process definition", fieldErrors)
	}

	now := uc.now()
	processID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Process{}, err
	}
	process := entities.Process{
		ProcessID:        processID,
		OrganizationID:   strings.TrimSpace(cmd.OrganizationID),
		Name:             strings.TrimSpace(cmd.Name),
		Description:      strings.TrimSpace(cmd.Description),
		SchemaType:       strings.TrimSpace(cmd.SchemaType),
		States:           cmd.States,
		ProposalTemplate: cmd.ProposalTemplate,
		RubricTemplate:   cmd.RubricTemplate,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.Processes.SaveProcess(ctx, process); err != nil {
		return entities.Process{}, err
	}
	logger.Info("decision process created",
		"event", "decision_process_created",
		"module", "governance/decision-service",
		"layer", "application",
		"process_id", processID,
		"organization_id", process.OrganizationID,
		"state_count", len(process.States),
	)
	return process, nil
}

func (uc ProcessUseCase) LaunchInstance(ctx context.Context, cmd LaunchInstanceCommand) (entities.ProcessInstance, error) {
	logger := application.ResolveLogger(uc.Logger)
	processID := strings.TrimSpace(cmd.ProcessID)
	ownerProfileID := strings.TrimSpace(cmd.OwnerProfileID)
	if processID == "" || ownerProfileID == "" {
		return entities.ProcessInstance{}, domainerrors.ErrInvalidInput
	}

	process, err := uc.Processes.GetProcess(ctx, processID)
	if err != nil {
		return entities.ProcessInstance{}, err
	}
	if len(process.States) == 0 {
		return entities.ProcessInstance{}, domainerrors.NewValidationError("process has no states", nil)
	}

	now := uc.now()
	instanceID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.ProcessInstance{}, err
	}
	instance := entities.ProcessInstance{
		InstanceID:     instanceID,
		ProcessID:      processID,
		OrganizationID: process.OrganizationID,
		OwnerProfileID: ownerProfileID,
		ProfileID:      strings.TrimSpace(cmd.ProfileID),
		Status:         entities.InstanceStatusActive,
		InstanceData: entities.InstanceData{
			CurrentStateID:    process.States[0].ID,
			MaxVotesPerMember: cmd.MaxVotesPerMember,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.Processes.SaveInstance(ctx, instance); err != nil {
		return entities.ProcessInstance{}, err
	}
	logger.Info("process instance launched",
		"event", "decision_instance_launched",
		"module", "governance/decision-service",
		"layer", "application",
		"process_id", processID,
		"instance_id", instanceID,
		"initial_state_id", instance.InstanceData.CurrentStateID,
	)
	return instance, nil
}

func (uc ProcessUseCase) AdvanceState(ctx context.Context, cmd AdvanceStateCommand) (entities.ProcessInstance, error) {
	logger := application.ResolveLogger(uc.Logger)
	instanceID := strings.TrimSpace(cmd.InstanceID)
	toStateID := strings.TrimSpace(cmd.ToStateID)
	if instanceID == "" || toStateID == "" {
		return entities.ProcessInstance{}, domainerrors.ErrInvalidInput
	}

	instance, err := uc.Processes.GetInstance(ctx, instanceID)
	if err != nil {
		return entities.ProcessInstance{}, err
	}
	if instance.Status == entities.InstanceStatusCancelled {
		return entities.ProcessInstance{}, domainerrors.ErrInstanceCancelled
	}
	process, err := uc.Processes.GetProcess(ctx, instance.ProcessID)
	if err != nil {
		return entities.ProcessInstance{}, err
	}

	found := false
	for _, state := range process.States {
		if state.ID == toStateID {
			found = true
			break
		}
	}
	if !found {
		return entities.ProcessInstance{}, domainerrors.NewValidationError("target state not found", map[string][]string{
			"toStateId": {fmt.Sprintf("state %s is not defined on the process", toStateID)},
		})
	}

	now := uc.now()
	instance.InstanceData.Transitions = append(instance.InstanceData.Transitions, entities.StateTransition{
		FromStateID:  instance.InstanceData.CurrentStateID,
		ToStateID:    toStateID,
		TransitionAt: now,
	})
	instance.InstanceData.CurrentStateID = toStateID
	instance.UpdatedAt = now
	if err := uc.Processes.SaveInstance(ctx, instance); err != nil {
		return entities.ProcessInstance{}, err
	}
	logger.Info("process instance advanced",
		"event", "decision_instance_advanced",
		"module", "governance/decision-service",
		"layer", "application",
		"instance_id", instanceID,
		"to_state_id", toStateID,
	)
	return instance, nil
}

// CancelInstance soft-cancels instances that already advanced through a
// phase; untouched instances are removed outright.
func (uc ProcessUseCase) CancelInstance(ctx context.Context, instanceID string) error {
	logger := application.ResolveLogger(uc.Logger)
	instanceID = strings.TrimSpace(instanceID)
	if instanceID == "" {
		return domainerrors.ErrInvalidInput
	}

	instance, err := uc.Processes.GetInstance(ctx, instanceID)
	if err != nil {
		return err
	}
	if !instance.HasTransitionHistory() {
		if err := uc.Processes.DeleteInstance(ctx, instanceID); err != nil {
			return err
		}
		logger.Info("process instance deleted",
			"event", "decision_instance_deleted",
			"module", "governance/decision-service",
			"layer", "application",
			"instance_id", instanceID,
		)
		return nil
	}

	instance.Status = entities.InstanceStatusCancelled
	instance.UpdatedAt = uc.now()
	if err := uc.Processes.SaveInstance(ctx, instance); err != nil {
		return err
	}
	logger.Info("process instance cancelled",
		"event", "decision_instance_cancelled",
		"module", "governance/decision-service",
		"layer", "application",
		"instance_id", instanceID,
	)
	return nil
}

func validateProcessDefinition(cmd CreateProcessCommand) map[string][]string {
	fieldErrors := map[string][]string{}
	if strings.TrimSpace(cmd.OrganizationID) == "" {
		fieldErrors["organizationId"] = append(fieldErrors["organizationId"], "organizationId is required")
	}
	if strings.TrimSpace(cmd.Name) == "" {
		fieldErrors["name"] = append(fieldErrors["name"], "name is required")
	}
	if len(cmd.States) == 0 {
		fieldErrors["states"] = append(fieldErrors["states"], "at least one state is required")
	}
	seen := make(map[string]bool, len(cmd.States))
	for _, state := range cmd.States {
		if strings.TrimSpace(state.ID) == "" {
			fieldErrors["states"] = append(fieldErrors["states"], "every state needs an id")
			continue
		}
		if seen[state.ID] {
			fieldErrors["states"] = append(fieldErrors["states"], fmt.Sprintf("state id %s is duplicated", state.ID))
		}
		seen[state.ID] = true
	}
	return fieldErrors
}

func (uc ProcessUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
