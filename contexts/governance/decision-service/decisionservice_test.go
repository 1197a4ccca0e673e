package decisionservice_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	decisionservice "agora/contexts/governance/decision-service"
	domainerrors "agora/contexts/governance/decision-service/domain/errors"
	"agora/contexts/governance/decision-service/ports"
	httptransport "agora/contexts/governance/decision-service/transport/http"
)

type capturePublisher struct {
	mu     sync.Mutex
	topics []string
	events []ports.EventEnvelope
}

func (p *capturePublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func newProcessWithInstance(t *testing.T, module decisionservice.Module) (string, string) {
	t.Helper()
	votingStart := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	process, err := module.Handler.CreateProcessHandler(context.Background(), httptransport.CreateProcessRequest{
		OrganizationID: "org-1",
		Name:           "Community Budget 2026",
		States: []httptransport.StateDefinitionDTO{
			{
				ID:     "submission",
				Name:   "Submission",
				Config: httptransport.StateConfigDTO{AllowProposals: true},
			},
			{
				ID:     "voting",
				Name:   "Voting",
				Config: httptransport.StateConfigDTO{AllowDecisions: true},
				Phase:  &httptransport.PhaseWindowDTO{StartDate: &votingStart},
			},
			{
				ID:   "results",
				Name: "Results",
			},
		},
		ProposalTemplate: json.RawMessage(`{
			"x-field-order": ["title", "summary"],
			"properties": {
				"title": {"type": "string", "x-format": "short-text", "minLength": 3},
				"summary": {"type": "string", "x-format": "long-text"}
			}
		}`),
	})
	if err != nil {
		t.Fatalf("create process failed: %v", err)
	}

	instance, err := module.Handler.LaunchInstanceHandler(context.Background(), process.ID, "owner-1", httptransport.LaunchInstanceRequest{
		MaxVotesPerMember: 2,
	})
	if err != nil {
		t.Fatalf("launch instance failed: %v", err)
	}
	if instance.CurrentStateID != "submission" {
		t.Fatalf("expected instance to start in submission, got %s", instance.CurrentStateID)
	}
	return process.ID, instance.ID
}

func TestBallotLifecycle(t *testing.T) {
	publisher := &capturePublisher{}
	module := decisionservice.NewInMemoryModule(publisher, nil)
	_, instanceID := newProcessWithInstance(t, module)

	first, err := module.Handler.SubmitProposalHandler(context.Background(), instanceID, "member-1", httptransport.SubmitProposalRequest{
		ProposalData: map[string]any{"title": "New playground", "summary": "Rebuild the east park playground"},
	})
	if err != nil {
		t.Fatalf("submit first proposal failed: %v", err)
	}
	second, err := module.Handler.SubmitProposalHandler(context.Background(), instanceID, "member-2", httptransport.SubmitProposalRequest{
		ProposalData: map[string]any{"title": "Tool library"},
	})
	if err != nil {
		t.Fatalf("submit second proposal failed: %v", err)
	}

	// Voting is closed during the submission phase.
	_, err = module.Handler.SubmitVoteHandler(context.Background(), instanceID, "member-3", "unit-test", httptransport.SubmitVoteRequest{
		SelectedProposalIDs: []string{first.ID},
	})
	if !errors.Is(err, domainerrors.ErrVotingClosed) {
		t.Fatalf("expected voting closed before the voting phase, got %v", err)
	}

	if _, err := module.Handler.AdvanceStateHandler(context.Background(), instanceID, httptransport.AdvanceStateRequest{
		ToStateID: "voting",
	}); err != nil {
		t.Fatalf("advance to voting failed: %v", err)
	}

	// Proposals are closed once the voting phase starts.
	_, err = module.Handler.SubmitProposalHandler(context.Background(), instanceID, "member-3", httptransport.SubmitProposalRequest{
		ProposalData: map[string]any{"title": "Late idea"},
	})
	if !errors.Is(err, domainerrors.ErrProposalsClosed) {
		t.Fatalf("expected proposals closed during voting, got %v", err)
	}

	status, err := module.Handler.VotingStatusHandler(context.Background(), instanceID, "member-3")
	if err != nil {
		t.Fatalf("voting status failed: %v", err)
	}
	if status.HasVoted || status.ReadOnly {
		t.Fatalf("expected open voting status before ballot, got %+v", status)
	}
	if status.VotingConfig.MaxVotesPerMember != 2 {
		t.Fatalf("expected instance vote limit 2, got %d", status.VotingConfig.MaxVotesPerMember)
	}
	if len(status.EligibleProposalIDs) != 2 {
		t.Fatalf("expected two eligible proposals, got %v", status.EligibleProposalIDs)
	}

	validation, err := module.Handler.ValidateSelectionHandler(context.Background(), instanceID, httptransport.ValidateSelectionRequest{
		SelectedProposalIDs: []string{first.ID, second.ID, "p-unknown"},
	})
	if err != nil {
		t.Fatalf("validate selection failed: %v", err)
	}
	if validation.IsValid {
		t.Fatalf("expected over-limit unknown selection to be invalid")
	}

	ballot, err := module.Handler.SubmitVoteHandler(context.Background(), instanceID, "member-3", "unit-test", httptransport.SubmitVoteRequest{
		SelectedProposalIDs: []string{second.ID, first.ID},
	})
	if err != nil {
		t.Fatalf("submit vote failed: %v", err)
	}
	if ballot.SubmittedByProfileID != "member-3" || len(ballot.SelectedProposalIDs) != 2 {
		t.Fatalf("unexpected ballot %+v", ballot)
	}
	assertSignature(t, ballot, "member-3", []string{first.ID, second.ID})

	_, err = module.Handler.SubmitVoteHandler(context.Background(), instanceID, "member-3", "unit-test", httptransport.SubmitVoteRequest{
		SelectedProposalIDs: []string{first.ID},
	})
	if !errors.Is(err, domainerrors.ErrAlreadyVoted) {
		t.Fatalf("expected already voted on second ballot, got %v", err)
	}

	status, err = module.Handler.VotingStatusHandler(context.Background(), instanceID, "member-3")
	if err != nil {
		t.Fatalf("voting status after ballot failed: %v", err)
	}
	if !status.HasVoted || !status.ReadOnly {
		t.Fatalf("expected read-only status after ballot, got %+v", status)
	}

	results, err := module.Handler.ResultsHandler(context.Background(), instanceID)
	if err != nil {
		t.Fatalf("results failed: %v", err)
	}
	if len(results.Tallies) != 2 {
		t.Fatalf("expected two tallies, got %v", results.Tallies)
	}
	for _, tally := range results.Tallies {
		if tally.Selections != 1 {
			t.Fatalf("expected one selection per proposal, got %+v", tally)
		}
	}

	if err := module.Relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("outbox relay failed: %v", err)
	}
	if len(publisher.events) != 1 {
		t.Fatalf("expected one published event, got %d", len(publisher.events))
	}
	if publisher.topics[0] != "governance.ballot.recorded" {
		t.Fatalf("unexpected topic %s", publisher.topics[0])
	}
	if publisher.events[0].PartitionKey != instanceID {
		t.Fatalf("expected partition key %s, got %s", instanceID, publisher.events[0].PartitionKey)
	}

	// A second run has nothing left to publish.
	if err := module.Relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("second relay run failed: %v", err)
	}
	if len(publisher.events) != 1 {
		t.Fatalf("expected relay to mark the row sent, got %d events", len(publisher.events))
	}
}

// assertSignature decodes the ballot's validation signature and checks the
// canonical payload: sorted proposal ids, the voter, and the submission
// timestamp.
func assertSignature(t *testing.T, ballot httptransport.VoteSubmissionResponse, profileID string, sortedIDs []string) {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(ballot.Signature)
	if err != nil {
		t.Fatalf("signature is not base64: %v", err)
	}
	var payload struct {
		ProposalIDs []string  `json:"proposalIds"`
		UserID      string    `json:"userId"`
		Timestamp   time.Time `json:"timestamp"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("signature payload is not JSON: %v", err)
	}
	if payload.UserID != profileID {
		t.Fatalf("expected signer %s, got %s", profileID, payload.UserID)
	}
	if len(payload.ProposalIDs) != len(sortedIDs) {
		t.Fatalf("expected %d signed ids, got %v", len(sortedIDs), payload.ProposalIDs)
	}
	for i := range sortedIDs {
		if payload.ProposalIDs[i] != sortedIDs[i] {
			t.Fatalf("expected sorted signed ids %v, got %v", sortedIDs, payload.ProposalIDs)
		}
	}
	if !payload.Timestamp.Equal(ballot.VoteData.SubmissionMetadata.Timestamp) {
		t.Fatalf("signature timestamp %v does not match submission %v", payload.Timestamp, ballot.VoteData.SubmissionMetadata.Timestamp)
	}
	if ballot.VoteData.ValidationSignature != ballot.Signature {
		t.Fatalf("vote data signature diverges from envelope signature")
	}
}

func TestProposalValidationAgainstTemplate(t *testing.T) {
	module := decisionservice.NewInMemoryModule(&capturePublisher{}, nil)
	_, instanceID := newProcessWithInstance(t, module)

	_, err := module.Handler.SubmitProposalHandler(context.Background(), instanceID, "member-1", httptransport.SubmitProposalRequest{
		ProposalData: map[string]any{"summary": "no title"},
	})
	var validation *domainerrors.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error for missing title, got %v", err)
	}
	if len(validation.Fields["title"]) == 0 {
		t.Fatalf("expected title field error, got %v", validation.Fields)
	}

	_, err = module.Handler.SubmitProposalHandler(context.Background(), instanceID, "member-1", httptransport.SubmitProposalRequest{
		ProposalData: map[string]any{"title": "ab"},
	})
	if !errors.As(err, &validation) {
		t.Fatalf("expected minLength violation, got %v", err)
	}
}

func TestCancelInstance(t *testing.T) {
	module := decisionservice.NewInMemoryModule(&capturePublisher{}, nil)
	processID, instanceID := newProcessWithInstance(t, module)

	// A fresh instance with no transition history is removed outright.
	if err := module.Handler.CancelInstanceHandler(context.Background(), instanceID); err != nil {
		t.Fatalf("cancel fresh instance failed: %v", err)
	}
	if _, err := module.Store.GetInstance(context.Background(), instanceID); !errors.Is(err, domainerrors.ErrInstanceNotFound) {
		t.Fatalf("expected fresh instance to be deleted, got %v", err)
	}

	instance, err := module.Handler.LaunchInstanceHandler(context.Background(), processID, "owner-1", httptransport.LaunchInstanceRequest{})
	if err != nil {
		t.Fatalf("relaunch failed: %v", err)
	}
	if _, err := module.Handler.AdvanceStateHandler(context.Background(), instance.ID, httptransport.AdvanceStateRequest{
		ToStateID: "voting",
	}); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	if err := module.Handler.CancelInstanceHandler(context.Background(), instance.ID); err != nil {
		t.Fatalf("cancel advanced instance failed: %v", err)
	}
	stored, err := module.Store.GetInstance(context.Background(), instance.ID)
	if err != nil {
		t.Fatalf("expected advanced instance to survive cancellation: %v", err)
	}
	if string(stored.Status) != "cancelled" {
		t.Fatalf("expected cancelled status, got %s", stored.Status)
	}

	_, err = module.Handler.SubmitVoteHandler(context.Background(), instance.ID, "member-1", "unit-test", httptransport.SubmitVoteRequest{
		SelectedProposalIDs: []string{"p-1"},
	})
	if !errors.Is(err, domainerrors.ErrInstanceCancelled) {
		t.Fatalf("expected cancelled instance to refuse ballots, got %v", err)
	}
}

func TestProposalAndRubricForms(t *testing.T) {
	module := decisionservice.NewInMemoryModule(&capturePublisher{}, nil)
	processID, _ := newProcessWithInstance(t, module)

	form, err := module.Handler.ProposalFormHandler(context.Background(), processID)
	if err != nil {
		t.Fatalf("proposal form failed: %v", err)
	}
	if len(form.Fields) != 2 {
		t.Fatalf("expected two form fields, got %v", form.Fields)
	}
	if form.Fields[0].Key != "title" || !form.Fields[0].IsSystem {
		t.Fatalf("expected title first and flagged system, got %+v", form.Fields[0])
	}
	if form.Fields[1].Format != "long-text" {
		t.Fatalf("expected long-text summary, got %+v", form.Fields[1])
	}

	rubric, err := module.Handler.RubricFormHandler(context.Background(), processID)
	if err != nil {
		t.Fatalf("rubric form failed: %v", err)
	}
	if len(rubric.Fields) != 0 {
		t.Fatalf("expected empty rubric for process without rubric template, got %v", rubric.Fields)
	}
}

func TestNextStepsQuery(t *testing.T) {
	module := decisionservice.NewInMemoryModule(&capturePublisher{}, nil)
	_, instanceID := newProcessWithInstance(t, module)

	steps, err := module.Handler.NextStepsHandler(context.Background(), instanceID)
	if err != nil {
		t.Fatalf("next steps failed: %v", err)
	}
	if len(steps.NextSteps) != 1 || steps.NextSteps[0].ID != "voting" {
		t.Fatalf("expected only the dated voting phase as next step, got %+v", steps.NextSteps)
	}
}
