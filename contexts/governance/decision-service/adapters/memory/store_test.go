package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"agora/contexts/governance/decision-service/domain/entities"
	domainerrors "agora/contexts/governance/decision-service/domain/errors"
	"agora/contexts/governance/decision-service/ports"
)

func TestRecordBallotConflict(t *testing.T) {
	store := NewStore()
	now := time.Now().UTC()

	first := entities.VoteSubmission{
		SubmissionID:         "sub-1",
		InstanceID:           "instance-1",
		SubmittedByProfileID: "member-1",
		CreatedAt:            now,
	}
	err := store.RecordBallot(context.Background(), first,
		[]entities.VoteProposalSelection{{SubmissionID: "sub-1", ProposalID: "p-1"}},
		ports.OutboxMessage{OutboxID: "out-1", EventType: "governance.ballot.recorded", CreatedAt: now},
	)
	if err != nil {
		t.Fatalf("first ballot failed: %v", err)
	}

	second := entities.VoteSubmission{
		SubmissionID:         "sub-2",
		InstanceID:           "instance-1",
		SubmittedByProfileID: "member-1",
		CreatedAt:            now,
	}
	err = store.RecordBallot(context.Background(), second,
		[]entities.VoteProposalSelection{{SubmissionID: "sub-2", ProposalID: "p-2"}},
		ports.OutboxMessage{OutboxID: "out-2", EventType: "governance.ballot.recorded", CreatedAt: now},
	)
	if !errors.Is(err, domainerrors.ErrAlreadyVoted) {
		t.Fatalf("expected already-voted conflict, got %v", err)
	}

	// The rejected ballot must leave no partial writes behind.
	selections, err := store.ListSelectionsByInstance(context.Background(), "instance-1")
	if err != nil {
		t.Fatalf("list selections failed: %v", err)
	}
	if len(selections) != 1 || selections[0].SubmissionID != "sub-1" {
		t.Fatalf("expected only the first ballot's selection, got %v", selections)
	}
	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(pending) != 1 || pending[0].OutboxID != "out-1" {
		t.Fatalf("expected a single pending outbox row, got %v", pending)
	}

	ballot, found, err := store.GetBallotByVoter(context.Background(), "instance-1", "member-1")
	if err != nil || !found {
		t.Fatalf("expected recorded ballot, found=%v err=%v", found, err)
	}
	if ballot.SubmissionID != "sub-1" {
		t.Fatalf("expected first submission to win, got %s", ballot.SubmissionID)
	}
}

func TestRecordBallotSelectionFailureRollsBack(t *testing.T) {
	store := NewStore()
	now := time.Now().UTC()
	writeErr := errors.New("selection write failed")
	store.FailSelectionWrites(writeErr)

	submission := entities.VoteSubmission{
		SubmissionID:         "sub-1",
		InstanceID:           "instance-1",
		SubmittedByProfileID: "member-1",
		CreatedAt:            now,
	}
	err := store.RecordBallot(context.Background(), submission,
		[]entities.VoteProposalSelection{{SubmissionID: "sub-1", ProposalID: "p-1"}},
		ports.OutboxMessage{OutboxID: "out-1", EventType: "governance.ballot.recorded", CreatedAt: now},
	)
	if !errors.Is(err, writeErr) {
		t.Fatalf("expected injected write error, got %v", err)
	}

	// The failed write must leave no submission, selection or outbox row.
	_, found, err := store.GetBallotByVoter(context.Background(), "instance-1", "member-1")
	if err != nil {
		t.Fatalf("ballot lookup failed: %v", err)
	}
	if found {
		t.Fatal("expected no ballot after failed selection write")
	}
	selections, err := store.ListSelectionsByInstance(context.Background(), "instance-1")
	if err != nil {
		t.Fatalf("list selections failed: %v", err)
	}
	if len(selections) != 0 {
		t.Fatalf("expected no selections, got %v", selections)
	}
	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending outbox rows, got %v", pending)
	}

	// Clearing the fault lets the same ballot land intact.
	store.FailSelectionWrites(nil)
	if err := store.RecordBallot(context.Background(), submission,
		[]entities.VoteProposalSelection{{SubmissionID: "sub-1", ProposalID: "p-1"}},
		ports.OutboxMessage{OutboxID: "out-1", EventType: "governance.ballot.recorded", CreatedAt: now},
	); err != nil {
		t.Fatalf("retry after clearing fault failed: %v", err)
	}
	_, found, err = store.GetBallotByVoter(context.Background(), "instance-1", "member-1")
	if err != nil || !found {
		t.Fatalf("expected recorded ballot after retry, found=%v err=%v", found, err)
	}
}

func TestMarkOutboxSent(t *testing.T) {
	store := NewStore()
	now := time.Now().UTC()
	submission := entities.VoteSubmission{
		SubmissionID:         "sub-1",
		InstanceID:           "instance-1",
		SubmittedByProfileID: "member-1",
		CreatedAt:            now,
	}
	if err := store.RecordBallot(context.Background(), submission, nil, ports.OutboxMessage{
		OutboxID:  "out-1",
		EventType: "governance.ballot.recorded",
		CreatedAt: now,
	}); err != nil {
		t.Fatalf("record ballot failed: %v", err)
	}

	if err := store.MarkOutboxSent(context.Background(), "out-1", now); err != nil {
		t.Fatalf("mark sent failed: %v", err)
	}
	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending rows after send, got %v", pending)
	}
}
