package queries

import (
	"context"
	"strings"

	application "agora/contexts/governance/decision-service/application"
	"agora/contexts/governance/decision-service/domain/entities"
	domainerrors "agora/contexts/governance/decision-service/domain/errors"
	"agora/contexts/governance/decision-service/domain/services"
	"agora/contexts/governance/decision-service/ports"
)

// VotingStatus is the read model the voting UI consumes: whether the current
// phase accepts ballots, the viewer's own ballot state, and what happens
// next.
type VotingStatus struct {
	InstanceID          string
	CurrentState        entities.StateDefinition
	VotingConfig        entities.VotingConfig
	HasVoted            bool
	ReadOnly            bool
	EligibleProposalIDs []string
	NextSteps           []entities.StateDefinition
}

// VotingStatusUseCase serves the read-only side of the ballot pipeline; it
// never mutates.
type VotingStatusUseCase struct {
	Processes ports.ProcessRepository
	Proposals ports.ProposalRepository
	Ballots   ports.BallotRepository
	Registry  *services.SchemaRegistry
}

// GetVotingStatus resolves the same chain as ballot submission, without
// writing. A viewer with a recorded ballot sees the UI read-only, as does
// anyone outside a voting phase.
func (uc VotingStatusUseCase) GetVotingStatus(ctx context.Context, instanceID string, profileID string) (VotingStatus, error) {
	instanceID = strings.TrimSpace(instanceID)
	profileID = strings.TrimSpace(profileID)
	if instanceID == "" || profileID == "" {
		return VotingStatus{}, domainerrors.ErrInvalidInput
	}

	voting, err := application.ResolveVotingContext(ctx, uc.Processes, uc.Registry, instanceID)
	if err != nil {
		return VotingStatus{}, err
	}

	_, hasVoted, err := uc.Ballots.GetBallotByVoter(ctx, instanceID, profileID)
	if err != nil {
		return VotingStatus{}, err
	}

	eligibleIDs, err := application.EligibleProposalIDs(ctx, uc.Proposals, instanceID)
	if err != nil {
		return VotingStatus{}, err
	}

	return VotingStatus{
		InstanceID:          instanceID,
		CurrentState:        voting.State,
		VotingConfig:        voting.Schema.VotingConfig,
		HasVoted:            hasVoted,
		ReadOnly:            hasVoted || !voting.Schema.VotingConfig.AllowDecisions,
		EligibleProposalIDs: eligibleIDs,
		NextSteps:           services.NextSteps(voting.Process.States, voting.Instance.InstanceData.CurrentStateID),
	}, nil
}

// ValidateVoteSelection is the read-only variant of ballot validation. Phase
// and schema failures propagate as errors; selection problems come back in
// the structured result.
func (uc VotingStatusUseCase) ValidateVoteSelection(
	ctx context.Context,
	instanceID string,
	selectedProposalIDs []string,
) (entities.SelectionValidation, error) {
	instanceID = strings.TrimSpace(instanceID)
	if instanceID == "" {
		return entities.SelectionValidation{}, domainerrors.ErrInvalidInput
	}

	voting, err := application.ResolveVotingContext(ctx, uc.Processes, uc.Registry, instanceID)
	if err != nil {
		return entities.SelectionValidation{}, err
	}
	if !voting.Schema.VotingConfig.AllowDecisions {
		return entities.SelectionValidation{}, domainerrors.ErrVotingClosed
	}

	eligibleIDs, err := application.EligibleProposalIDs(ctx, uc.Proposals, instanceID)
	if err != nil {
		return entities.SelectionValidation{}, err
	}
	return services.ValidateSelection(selectedProposalIDs, eligibleIDs, voting.Schema.VotingConfig.MaxVotesPerMember), nil
}
