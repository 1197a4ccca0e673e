package errors

import "errors"

var (
	ErrProcessNotFound      = errors.New("decision process not found")
	ErrInstanceNotFound     = errors.New("process instance not found")
	ErrProposalNotFound     = errors.New("proposal not found")
	ErrCurrentStateNotFound = errors.New("current state not found")
	ErrInvalidInput         = errors.New("invalid decision input")
	ErrInvalidProcessSchema = errors.New("invalid process schema configuration")
	ErrProposalsClosed      = errors.New("proposals are closed for the current phase")
	ErrVotingClosed         = errors.New("voting is closed for the current phase")
	ErrAlreadyVoted         = errors.New("member has already voted in this process instance")
	ErrInstanceCancelled    = errors.New("process instance is cancelled")
	ErrForbidden            = errors.New("actor lacks the required decision capability")
)

// ValidationError carries field-scoped messages so transports can attach
// errors to the right input instead of a flat list.
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a field-scoped validation failure.
func NewValidationError(message string, fields map[string][]string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

// AsValidation unwraps err into a *ValidationError when one is present.
func AsValidation(err error) (*ValidationError, bool) {
	var validation *ValidationError
	if errors.As(err, &validation) {
		return validation, true
	}
	return nil, false
}
