package entities

import "time"

// SubmissionMetadata is captured at ballot time for audit reads.
type SubmissionMetadata struct {
	Timestamp time.Time `json:"timestamp"`
	UserAgent string    `json:"userAgent,omitempty"`
}

// VoteData is the persisted ballot payload.
type VoteData struct {
	SchemaVersion       string             `json:"schemaVersion"`
	SchemaType          string             `json:"schemaType"`
	SubmissionMetadata  SubmissionMetadata `json:"submissionMetadata"`
	ValidationSignature string             `json:"validationSignature"`
}

// VoteSubmission is one member's final, immutable ballot for a process
// instance. At most one row exists per (instance, profile); the storage layer
// backs that with a unique index.
type VoteSubmission struct {
	SubmissionID         string
	InstanceID           string
	SubmittedByProfileID string
	VoteData             VoteData
	CustomData           map[string]any
	Signature            string
	CreatedAt            time.Time
}

// VoteProposalSelection is one selected proposal on a ballot. Rows are only
// ever written inside the same transaction as their parent submission.
type VoteProposalSelection struct {
	SubmissionID string
	ProposalID   string
}

// SelectionValidation is the structured outcome of checking a member's
// proposal selection. Errors are keyed by input field name.
type SelectionValidation struct {
	IsValid bool
	Errors  map[string][]string
}

// ProposalTally is the aggregated result for one proposal. Ordering of
// tallies is deterministic: selection count descending, proposal id ascending
// on ties, so result reads never depend on scan order.
type ProposalTally struct {
	ProposalID string
	Selections int
}
