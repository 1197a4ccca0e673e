package ports

import (
	"context"
	"time"

	"agora/contexts/governance/decision-service/domain/entities"
	"agora/internal/shared/events"
)

type ProcessRepository interface {
	SaveProcess(ctx context.Context, process entities.Process) error
	GetProcess(ctx context.Context, processID string) (entities.Process, error)
	ListProcessesByOrganization(ctx context.Context, organizationID string) ([]entities.Process, error)
	SaveInstance(ctx context.Context, instance entities.ProcessInstance) error
	GetInstance(ctx context.Context, instanceID string) (entities.ProcessInstance, error)
	DeleteInstance(ctx context.Context, instanceID string) error
}

type ProposalRepository interface {
	SaveProposal(ctx context.Context, proposal entities.Proposal) error
	GetProposal(ctx context.Context, proposalID string) (entities.Proposal, error)
	ListProposalsByInstance(ctx context.Context, instanceID string) ([]entities.Proposal, error)
}

// BallotRepository owns the single multi-row write of the engine: the ballot
// plus its selections plus the outbox row, committed atomically.
type BallotRepository interface {
	GetBallotByVoter(ctx context.Context, instanceID string, profileID string) (entities.VoteSubmission, bool, error)
	ListSelectionsByInstance(ctx context.Context, instanceID string) ([]entities.VoteProposalSelection, error)
	RecordBallot(ctx context.Context, submission entities.VoteSubmission, selections []entities.VoteProposalSelection, outbox OutboxMessage) error
}

// OutboxMessage is a row ready to relay from the module outbox.
type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

// OutboxRepository models worker-side outbox polling/acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error
}

// EventEnvelope reuses the canonical cross-service envelope.
type EventEnvelope = events.Envelope

// EventPublisher publishes canonical envelopes to a topic.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
