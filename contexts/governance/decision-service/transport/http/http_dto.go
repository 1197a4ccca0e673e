package http

import (
	"encoding/json"
	"time"
)

type ErrorResponse struct {
	Code        string              `json:"code"`
	Message     string              `json:"message"`
	FieldErrors map[string][]string `json:"fieldErrors,omitempty"`
}

type StateConfigDTO struct {
	AllowProposals bool `json:"allowProposals"`
	AllowDecisions bool `json:"allowDecisions"`
}

type PhaseWindowDTO struct {
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

type StateDefinitionDTO struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Config      StateConfigDTO  `json:"config"`
	Phase       *PhaseWindowDTO `json:"phase,omitempty"`
}

type CreateProcessRequest struct {
	OrganizationID   string               `json:"organizationId"`
	Name             string               `json:"name"`
	Description      string               `json:"description,omitempty"`
	SchemaType       string               `json:"schemaType,omitempty"`
	States           []StateDefinitionDTO `json:"states"`
	// Templates stay raw so property declaration order survives decoding.
	ProposalTemplate json.RawMessage `json:"proposalTemplate,omitempty"`
	RubricTemplate   json.RawMessage `json:"rubricTemplate,omitempty"`
}

type ProcessResponse struct {
	ID             string               `json:"id"`
	OrganizationID string               `json:"organizationId"`
	Name           string               `json:"name"`
	Description    string               `json:"description,omitempty"`
	SchemaType     string               `json:"schemaType,omitempty"`
	States         []StateDefinitionDTO `json:"states"`
	CreatedAt      time.Time            `json:"createdAt"`
}

type LaunchInstanceRequest struct {
	MaxVotesPerMember int    `json:"maxVotesPerMember,omitempty"`
	ProfileID         string `json:"profileId,omitempty"`
}

type InstanceResponse struct {
	ID                string    `json:"id"`
	ProcessID         string    `json:"processId"`
	OrganizationID    string    `json:"organizationId"`
	OwnerProfileID    string    `json:"ownerProfileId"`
	Status            string    `json:"status"`
	CurrentStateID    string    `json:"currentStateId"`
	MaxVotesPerMember int       `json:"maxVotesPerMember,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

type AdvanceStateRequest struct {
	ToStateID string `json:"toStateId"`
}

type SubmitProposalRequest struct {
	ProposalData map[string]any `json:"proposalData"`
}

type ProposalResponse struct {
	ID                   string         `json:"id"`
	ProcessInstanceID    string         `json:"processInstanceId"`
	SubmittedByProfileID string         `json:"submittedByProfileId"`
	Status               string         `json:"status"`
	ProposalData         map[string]any `json:"proposalData"`
	CreatedAt            time.Time      `json:"createdAt"`
}

type SubmitVoteRequest struct {
	SelectedProposalIDs []string `json:"selectedProposalIds"`
}

type SubmissionMetadataDTO struct {
	Timestamp time.Time `json:"timestamp"`
	UserAgent string    `json:"userAgent,omitempty"`
}

type VoteDataDTO struct {
	SchemaVersion       string                `json:"schemaVersion"`
	SchemaType          string                `json:"schemaType"`
	SubmissionMetadata  SubmissionMetadataDTO `json:"submissionMetadata"`
	ValidationSignature string                `json:"validationSignature"`
}

type VoteSubmissionResponse struct {
	ID                   string         `json:"id"`
	ProcessInstanceID    string         `json:"processInstanceId"`
	SubmittedByProfileID string         `json:"submittedByProfileId"`
	VoteData             VoteDataDTO    `json:"voteData"`
	CustomData           map[string]any `json:"customData,omitempty"`
	Signature            string         `json:"signature"`
	SelectedProposalIDs  []string       `json:"selectedProposalIds"`
	CreatedAt            time.Time      `json:"createdAt"`
}

type VotingConfigDTO struct {
	AllowDecisions    bool           `json:"allowDecisions"`
	MaxVotesPerMember int            `json:"maxVotesPerMember"`
	AdditionalConfig  map[string]any `json:"additionalConfig,omitempty"`
}

type VotingStatusResponse struct {
	InstanceID          string               `json:"instanceId"`
	CurrentState        StateDefinitionDTO   `json:"currentState"`
	VotingConfig        VotingConfigDTO      `json:"votingConfig"`
	HasVoted            bool                 `json:"hasVoted"`
	ReadOnly            bool                 `json:"readOnly"`
	EligibleProposalIDs []string             `json:"eligibleProposalIds"`
	NextSteps           []StateDefinitionDTO `json:"nextSteps"`
}

type ValidateSelectionRequest struct {
	SelectedProposalIDs []string `json:"selectedProposalIds"`
}

type ValidateSelectionResponse struct {
	IsValid bool                `json:"isValid"`
	Errors  map[string][]string `json:"errors"`
}

type FieldDescriptorDTO struct {
	Key      string         `json:"key"`
	Format   string         `json:"format"`
	IsSystem bool           `json:"isSystem"`
	Schema   map[string]any `json:"schema"`
}

type FormResponse struct {
	Fields []FieldDescriptorDTO `json:"fields"`
}

type ProposalTallyDTO struct {
	ProposalID string `json:"proposalId"`
	Selections int    `json:"selections"`
}

type ResultsResponse struct {
	InstanceID string             `json:"instanceId"`
	Tallies    []ProposalTallyDTO `json:"tallies"`
}

type NextStepsResponse struct {
	InstanceID string               `json:"instanceId"`
	NextSteps  []StateDefinitionDTO `json:"nextSteps"`
}
