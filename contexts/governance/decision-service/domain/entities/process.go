package entities

import "time"

// StateConfig captures what a phase currently allows.
type StateConfig struct {
	AllowProposals bool `json:"allowProposals"`
	AllowDecisions bool `json:"allowDecisions"`
}

// PhaseWindow is an optional scheduled window for a state. States without a
// start date are not surfaced as upcoming phases.
type PhaseWindow struct {
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

// StateDefinition is one phase of a decision process. Array order on the
// process is the canonical phase ordering; there is no separate sort key.
type StateDefinition struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Config      StateConfig  `json:"config"`
	Phase       *PhaseWindow `json:"phase,omitempty"`
}

// Process is a reusable decision-process definition owned by an organization.
type Process struct {
	ProcessID        string
	OrganizationID   string
	Name             string
	Description      string
	SchemaType       string
	States           []StateDefinition
	ProposalTemplate *TemplateDocument
	RubricTemplate   *TemplateDocument
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type InstanceStatus string

const (
	InstanceStatusActive    InstanceStatus = "active"
	InstanceStatusCancelled InstanceStatus = "cancelled"
	InstanceStatusCompleted InstanceStatus = "completed"
)

// StateTransition records one advance of an instance through its phases.
type StateTransition struct {
	FromStateID  string    `json:"fromStateId"`
	ToStateID    string    `json:"toStateId"`
	TransitionAt time.Time `json:"transitionAt"`
}

// InstanceData holds per-instance overrides and the running phase pointer.
type InstanceData struct {
	CurrentStateID    string            `json:"currentStateId"`
	MaxVotesPerMember int               `json:"maxVotesPerMember,omitempty"`
	Transitions       []StateTransition `json:"transitions,omitempty"`
	AdditionalConfig  map[string]any    `json:"additionalConfig,omitempty"`
}

// ProcessInstance is one running execution of a process for an organization.
type ProcessInstance struct {
	InstanceID     string
	ProcessID      string
	OrganizationID string
	OwnerProfileID string
	ProfileID      string
	Status         InstanceStatus
	InstanceData   InstanceData
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasTransitionHistory decides the cancellation mode: instances that already
// advanced through at least one phase are soft-cancelled, fresh instances are
// hard-deleted.
func (i ProcessInstance) HasTransitionHistory() bool {
	return len(i.InstanceData.Transitions) > 0
}
