package entities

import (
	"time"

	"agora/contexts/identity-access/role-service/domain/valueobjects"
)

// DecisionRole bundles the capabilities a member holds inside one zone of an
// organization. Permissions travel decoded; the packed integer is a storage
// detail of the repositories.
type DecisionRole struct {
	RoleID      string
	Zone        string
	Name        string
	Description string
	Permissions valueobjects.PermissionSet
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RoleBinding links a profile to a role.
type RoleBinding struct {
	ProfileID string
	RoleID    string
	CreatedAt time.Time
}

// AccessDecision is the outcome of an access check, including why.
type AccessDecision struct {
	ProfileID string
	Zone      string
	Allowed   bool
	Reason    string
	Granted   valueobjects.PermissionSet
	CheckedAt time.Time
}
