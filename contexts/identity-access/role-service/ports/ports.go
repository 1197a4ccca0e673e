package ports

import (
	"context"
	"time"

	"agora/contexts/identity-access/role-service/domain/entities"
)

// RoleRepository persists decision roles and their profile bindings.
type RoleRepository interface {
	SaveRole(ctx context.Context, role entities.DecisionRole) error
	GetRole(ctx context.Context, roleID string) (entities.DecisionRole, error)
	ListRolesByZone(ctx context.Context, zone string) ([]entities.DecisionRole, error)
	BindRole(ctx context.Context, binding entities.RoleBinding) error
	ListRolesByProfile(ctx context.Context, zone string, profileID string) ([]entities.DecisionRole, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
