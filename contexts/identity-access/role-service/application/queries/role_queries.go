package queries

import (
	"context"
	"strings"

	"agora/contexts/identity-access/role-service/domain/entities"
	"agora/contexts/identity-access/role-service/ports"
)

// RoleQueryUseCase serves role reads.
type RoleQueryUseCase struct {
	Roles ports.RoleRepository
}

func (uc RoleQueryUseCase) GetRole(ctx context.Context, roleID string) (entities.DecisionRole, error) {
	return uc.Roles.GetRole(ctx, strings.TrimSpace(roleID))
}

func (uc RoleQueryUseCase) ListRoles(ctx context.Context, zone string) ([]entities.DecisionRole, error) {
	return uc.Roles.ListRolesByZone(ctx, strings.TrimSpace(zone))
}

func (uc RoleQueryUseCase) ListProfileRoles(ctx context.Context, zone string, profileID string) ([]entities.DecisionRole, error) {
	return uc.Roles.ListRolesByProfile(ctx, strings.TrimSpace(zone), strings.TrimSpace(profileID))
}
