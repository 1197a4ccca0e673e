package entities

// SchemaTypeUnknown is returned by detection when no registered dialect
// recognizes the configuration blob.
const SchemaTypeUnknown = "unknown"

// VotingConfig is derived per request from the process configuration; it is
// never persisted.
type VotingConfig struct {
	AllowDecisions    bool           `json:"allowDecisions"`
	MaxVotesPerMember int            `json:"maxVotesPerMember"`
	AdditionalConfig  map[string]any `json:"additionalConfig,omitempty"`
}

// ProposalConfig is derived per request from the process configuration.
// RequiredFields/OptionalFields carry set semantics; FieldConstraints is a
// shallow key map where the dialect-specific value wins.
type ProposalConfig struct {
	RequiredFields   []string       `json:"requiredFields"`
	OptionalFields   []string       `json:"optionalFields"`
	FieldConstraints map[string]any `json:"fieldConstraints"`
}

// SchemaResult is the outcome of classifying and validating a configuration
// blob. Malformed input yields IsValid=false with errors; classification
// itself never fails.
type SchemaResult struct {
	SchemaType     string
	IsValid        bool
	Errors         []string
	VotingConfig   VotingConfig
	ProposalConfig ProposalConfig
}
