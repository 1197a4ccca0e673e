package application

import (
	"context"

	"agora/contexts/governance/decision-service/domain/entities"
	domainerrors "agora/contexts/governance/decision-service/domain/errors"
	"agora/contexts/governance/decision-service/domain/services"
	"agora/contexts/governance/decision-service/ports"
)

// VotingContext is the resolved chain a ballot operation runs against: the
// instance, its parent process, the active state, and the schema result for
// the current phase. Commands and queries resolve it the same way.
type VotingContext struct {
	Instance entities.ProcessInstance
	Process  entities.Process
	State    entities.StateDefinition
	Schema   entities.SchemaResult
}

// ResolveVotingContext loads the instance chain and runs the current phase
// configuration through the schema registry.
func ResolveVotingContext(
	ctx context.Context,
	processes ports.ProcessRepository,
	registry *services.SchemaRegistry,
	instanceID string,
) (VotingContext, error) {
	instance, err := processes.GetInstance(ctx, instanceID)
	if err != nil {
		return VotingContext{}, err
	}
	if instance.Status == entities.InstanceStatusCancelled {
		return VotingContext{}, domainerrors.ErrInstanceCancelled
	}

	process, err := processes.GetProcess(ctx, instance.ProcessID)
	if err != nil {
		return VotingContext{}, err
	}

	state, found := services.CurrentState(process.States, instance.InstanceData.CurrentStateID)
	if !found {
		return VotingContext{}, domainerrors.ErrCurrentStateNotFound
	}

	schema := registry.ProcessSchema(SchemaDetectionPayload(process, instance, state))
	if !schema.IsValid {
		return VotingContext{}, domainerrors.NewValidationError(
			domainerrors.ErrInvalidProcessSchema.Error(),
			map[string][]string{"processSchema": schema.Errors},
		)
	}

	return VotingContext{
		Instance: instance,
		Process:  process,
		State:    state,
		Schema:   schema,
	}, nil
}

// SchemaDetectionPayload builds the registry input from the current state's
// capabilities and the instance overrides. Exact field names are part of the
// cross-service contract.
func SchemaDetectionPayload(
	process entities.Process,
	instance entities.ProcessInstance,
	state entities.StateDefinition,
) map[string]any {
	instanceData := map[string]any{}
	if instance.InstanceData.MaxVotesPerMember > 0 {
		instanceData["maxVotesPerMember"] = instance.InstanceData.MaxVotesPerMember
	}
	payload := map[string]any{
		"allowProposals": state.Config.AllowProposals,
		"allowDecisions": state.Config.AllowDecisions,
		"instanceData":   instanceData,
	}
	if process.SchemaType != "" {
		payload["schemaType"] = process.SchemaType
	}
	if len(instance.InstanceData.AdditionalConfig) > 0 {
		payload["additionalConfig"] = instance.InstanceData.AdditionalConfig
	}
	return payload
}

// EligibleProposalIDs filters the instance's proposals down to those that can
// appear on a ballot.
func EligibleProposalIDs(ctx context.Context, proposals ports.ProposalRepository, instanceID string) ([]string, error) {
	items, err := proposals.ListProposalsByInstance(ctx, instanceID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(items))
	for _, proposal := range items {
		if proposal.VoteEligible() {
			ids = append(ids, proposal.ProposalID)
		}
	}
	return ids, nil
}
