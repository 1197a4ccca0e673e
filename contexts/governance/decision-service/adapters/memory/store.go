package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"agora/contexts/governance/decision-service/domain/entities"
	domainerrors "agora/contexts/governance/decision-service/domain/errors"
	"agora/contexts/governance/decision-service/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message ports.OutboxMessage
	sent    bool
}

// Store is the in-memory adapter used as the unit-test fake and the local
// runtime. It enforces the same one-ballot-per-member invariant the postgres
// unique index backs.
type Store struct {
	mu sync.RWMutex

	processes  map[string]entities.Process
	instances  map[string]entities.ProcessInstance
	proposals  map[string]entities.Proposal
	ballots    map[string]entities.VoteSubmission
	selections map[string][]entities.VoteProposalSelection
	outbox     map[string]outboxRecord

	selectionWriteErr error
}

func NewStore() *Store {
	return &Store{
		processes:  make(map[string]entities.Process),
		instances:  make(map[string]entities.ProcessInstance),
		proposals:  make(map[string]entities.Proposal),
		ballots:    make(map[string]entities.VoteSubmission),
		selections: make(map[string][]entities.VoteProposalSelection),
		outbox:     make(map[string]outboxRecord),
	}
}

func (s *Store) SaveProcess(_ context.Context, process entities.Process) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processes[process.ProcessID] = process
	return nil
}

func (s *Store) GetProcess(_ context.Context, processID string) (entities.Process, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	process, ok := s.processes[strings.TrimSpace(processID)]
	if !ok {
		return entities.Process{}, domainerrors.ErrProcessNotFound
	}
	return process, nil
}

func (s *Store) ListProcessesByOrganization(_ context.Context, organizationID string) ([]entities.Process, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []entities.Process
	for _, process := range s.processes {
		if organizationID == "" || process.OrganizationID == organizationID {
			items = append(items, process)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ProcessID < items[j].ProcessID })
	return items, nil
}

func (s *Store) SaveInstance(_ context.Context, instance entities.ProcessInstance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instances[instance.InstanceID] = instance
	return nil
}

func (s *Store) GetInstance(_ context.Context, instanceID string) (entities.ProcessInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	instance, ok := s.instances[strings.TrimSpace(instanceID)]
	if !ok {
		return entities.ProcessInstance{}, domainerrors.ErrInstanceNotFound
	}
	return instance, nil
}

func (s *Store) DeleteInstance(_ context.Context, instanceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.instances[instanceID]; !ok {
		return domainerrors.ErrInstanceNotFound
	}
	delete(s.instances, instanceID)
	return nil
}

func (s *Store) SaveProposal(_ context.Context, proposal entities.Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proposals[proposal.ProposalID] = proposal
	return nil
}

func (s *Store) GetProposal(_ context.Context, proposalID string) (entities.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	proposal, ok := s.proposals[strings.TrimSpace(proposalID)]
	if !ok {
		return entities.Proposal{}, domainerrors.ErrProposalNotFound
	}
	return proposal, nil
}

func (s *Store) ListProposalsByInstance(_ context.Context, instanceID string) ([]entities.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []entities.Proposal
	for _, proposal := range s.proposals {
		if proposal.InstanceID == instanceID {
			items = append(items, proposal)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ProposalID < items[j].ProposalID })
	return items, nil
}

func (s *Store) GetBallotByVoter(_ context.Context, instanceID string, profileID string) (entities.VoteSubmission, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ballot, ok := s.ballots[ballotKey(instanceID, profileID)]
	if !ok {
		return entities.VoteSubmission{}, false, nil
	}
	return ballot, true, nil
}

func (s *Store) ListSelectionsByInstance(_ context.Context, instanceID string) ([]entities.VoteProposalSelection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []entities.VoteProposalSelection
	for _, ballot := range s.ballots {
		if ballot.InstanceID != instanceID {
			continue
		}
		items = append(items, s.selections[ballot.SubmissionID]...)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].SubmissionID == items[j].SubmissionID {
			return items[i].ProposalID < items[j].ProposalID
		}
		return items[i].SubmissionID < items[j].SubmissionID
	})
	return items, nil
}

// RecordBallot writes the submission, its selections and the outbox row
// all-or-nothing; a second ballot for the same (instance, profile) is a
// conflict, mirroring the storage unique index.
func (s *Store) RecordBallot(
	_ context.Context,
	submission entities.VoteSubmission,
	selections []entities.VoteProposalSelection,
	outbox ports.OutboxMessage,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := ballotKey(submission.InstanceID, submission.SubmittedByProfileID)
	if _, exists := s.ballots[key]; exists {
		return domainerrors.ErrAlreadyVoted
	}
	s.ballots[key] = submission
	if s.selectionWriteErr != nil {
		delete(s.ballots, key)
		return s.selectionWriteErr
	}
	s.selections[submission.SubmissionID] = append([]entities.VoteProposalSelection(nil), selections...)
	s.outbox[outbox.OutboxID] = outboxRecord{message: outbox}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []ports.OutboxMessage
	for _, record := range s.outbox {
		if !record.sent {
			items = append(items, record.message)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxSent(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.outbox[outboxID]
	if !ok {
		return nil
	}
	record.sent = true
	s.outbox[outboxID] = record
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// Test seeding helpers.

func (s *Store) SetProcess(process entities.Process) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processes[process.ProcessID] = process
}

func (s *Store) SetInstance(instance entities.ProcessInstance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instances[instance.InstanceID] = instance
}

func (s *Store) SetProposal(proposal entities.Proposal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proposals[proposal.ProposalID] = proposal
}

// FailSelectionWrites makes RecordBallot fail at the selection write step,
// simulating a mid-transaction storage error. Pass nil to clear.
func (s *Store) FailSelectionWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectionWriteErr = err
}

func ballotKey(instanceID string, profileID string) string {
	return strings.TrimSpace(instanceID) + "/" + strings.TrimSpace(profileID)
}

var _ ports.ProcessRepository = (*Store)(nil)
var _ ports.ProposalRepository = (*Store)(nil)
var _ ports.BallotRepository = (*Store)(nil)
var _ ports.OutboxRepository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
