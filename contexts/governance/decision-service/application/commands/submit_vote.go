package commands

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"sort"
	"strings"
	"time"

	application "agora/contexts/governance/decision-service/application"
	"agora/contexts/governance/decision-service/domain/entities"
	domainerrors "agora/contexts/governance/decision-service/domain/errors"
	"agora/contexts/governance/decision-service/domain/services"
	"agora/contexts/governance/decision-service/ports"
)

// SubmitVoteCommand is the write-model input for ballot submission.
type SubmitVoteCommand struct {
	InstanceID          string
	ProfileID           string
	SelectedProposalIDs []string
	UserAgent           string
}

// SubmitVoteResult returns the recorded ballot and its selections.
type SubmitVoteResult struct {
	Submission entities.VoteSubmission
	Selections []entities.VoteProposalSelection
}

// VoteUseCase orchestrates ballot submission: schema-driven phase checks,
// one-ballot-per-member enforcement, selection validation, and the atomic
// ballot write. A ballot is terminal; there is no edit or retraction path.
type VoteUseCase struct {
	Processes ports.ProcessRepository
	Proposals ports.ProposalRepository
	Ballots   ports.BallotRepository
	Registry  *services.SchemaRegistry
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

// SubmitVote validates and records a member's ballot exactly once. The
// duplicate pre-check produces the friendly error; the storage unique index
// on (instance, profile) is the authoritative guarantee and its violation
// surfaces as the same already-voted conflict.
func (uc VoteUseCase) SubmitVote(ctx context.Context, cmd SubmitVoteCommand) (SubmitVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	instanceID := strings.TrimSpace(cmd.InstanceID)
	profileID := strings.TrimSpace(cmd.ProfileID)
	logger.Info("ballot submission started",
		"event", "decision_ballot_submit_started",
		"module", "governance/decision-service",
		"layer", "application",
		"instance_id", instanceID,
		"profile_id", profileID,
		"selection_count", len(cmd.SelectedProposalIDs),
	)
	if instanceID == "" || profileID == "" {
		return SubmitVoteResult{}, domainerrors.ErrInvalidInput
	}

	voting, err := application.ResolveVotingContext(ctx, uc.Processes, uc.Registry, instanceID)
	if err != nil {
		return SubmitVoteResult{}, err
	}

	if !voting.Schema.VotingConfig.AllowDecisions {
		logger.Warn("ballot rejected, voting closed for current phase",
			"event", "decision_ballot_voting_closed",
			"module", "governance/decision-service",
			"layer", "application",
			"instance_id", instanceID,
			"current_state_id", voting.Instance.InstanceData.CurrentStateID,
		)
		return SubmitVoteResult{}, domainerrors.ErrVotingClosed
	}

	if _, found, err := uc.Ballots.GetBallotByVoter(ctx, instanceID, profileID); err != nil {
		return SubmitVoteResult{}, err
	} else if found {
		return SubmitVoteResult{}, domainerrors.ErrAlreadyVoted
	}

	eligibleIDs, err := application.EligibleProposalIDs(ctx, uc.Proposals, instanceID)
	if err != nil {
		return SubmitVoteResult{}, err
	}
	validation := services.ValidateSelection(cmd.SelectedProposalIDs, eligibleIDs, voting.Schema.VotingConfig.MaxVotesPerMember)
	if !validation.IsValid {
		logger.Warn("ballot selection validation failed",
			"event", "decision_ballot_selection_invalid",
			"module", "governance/decision-service",
			"layer", "application",
			"instance_id", instanceID,
			"profile_id", profileID,
		)
		return SubmitVoteResult{}, domainerrors.NewValidationError("invalid proposal selection", validation.Errors)
	}

	now := uc.now()
	signature, err := validationSignature(cmd.SelectedProposalIDs, profileID, now)
	if err != nil {
		return SubmitVoteResult{}, err
	}

	submissionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return SubmitVoteResult{}, err
	}
	submission := entities.VoteSubmission{
		SubmissionID:         submissionID,
		InstanceID:           instanceID,
		SubmittedByProfileID: profileID,
		VoteData: entities.VoteData{
			SchemaVersion: "1",
			SchemaType:    voting.Schema.SchemaType,
			SubmissionMetadata: entities.SubmissionMetadata{
				Timestamp: now,
				UserAgent: strings.TrimSpace(cmd.UserAgent),
			},
			ValidationSignature: signature,
		},
		Signature: signature,
		CreatedAt: now,
	}

	selections := make([]entities.VoteProposalSelection, 0, len(cmd.SelectedProposalIDs))
	for _, proposalID := range cmd.SelectedProposalIDs {
		selections = append(selections, entities.VoteProposalSelection{
			SubmissionID: submissionID,
			ProposalID:   proposalID,
		})
	}

	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return SubmitVoteResult{}, err
	}
	envelope, err := newGovernanceEnvelope(eventID, "governance.ballot.recorded", instanceID, now, map[string]any{
		"submission_id":   submissionID,
		"instance_id":     instanceID,
		"process_id":      voting.Process.ProcessID,
		"profile_id":      profileID,
		"proposal_ids":    sortedCopy(cmd.SelectedProposalIDs),
		"selection_count": len(selections),
	})
	if err != nil {
		return SubmitVoteResult{}, err
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return SubmitVoteResult{}, err
	}

	err = uc.Ballots.RecordBallot(ctx, submission, selections, ports.OutboxMessage{
		OutboxID:     eventID,
		EventType:    envelope.EventType,
		PartitionKey: instanceID,
		Payload:      payload,
		CreatedAt:    now,
	})
	if err != nil {
		return SubmitVoteResult{}, err
	}

	logger.Info("ballot recorded",
		"event", "decision_ballot_recorded",
		"module", "governance/decision-service",
		"layer", "application",
		"instance_id", instanceID,
		"profile_id", profileID,
		"submission_id", submissionID,
		"selection_count", len(selections),
	)
	return SubmitVoteResult{Submission: submission, Selections: selections}, nil
}

func (uc VoteUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

// signaturePayload is the canonical shape the ballot signature commits to.
// It is an integrity marker for later audits, not a keyed commitment.
type signaturePayload struct {
	ProposalIDs []string  `json:"proposalIds"`
	UserID      string    `json:"userId"`
	Timestamp   time.Time `json:"timestamp"`
}

func validationSignature(proposalIDs []string, profileID string, timestamp time.Time) (string, error) {
	payload, err := json.Marshal(signaturePayload{
		ProposalIDs: sortedCopy(proposalIDs),
		UserID:      profileID,
		Timestamp:   timestamp,
	})
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(payload), nil
}

func sortedCopy(ids []string) []string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	return sorted
}
