package entities

import "time"

type ProposalStatus string

const (
	ProposalStatusDraft     ProposalStatus = "draft"
	ProposalStatusSubmitted ProposalStatus = "submitted"
	ProposalStatusAccepted  ProposalStatus = "accepted"
	ProposalStatusRejected  ProposalStatus = "rejected"
	ProposalStatusWithdrawn ProposalStatus = "withdrawn"
)

// Proposal is a member submission into one process instance.
type Proposal struct {
	ProposalID           string
	InstanceID           string
	SubmittedByProfileID string
	Status               ProposalStatus
	ProposalData         map[string]any
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// VoteEligible reports whether the proposal can appear on a ballot. Drafts and
// withdrawn proposals never collect votes.
func (p Proposal) VoteEligible() bool {
	return p.Status == ProposalStatusSubmitted || p.Status == ProposalStatusAccepted
}
