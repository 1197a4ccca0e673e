package commands

import (
	"context"

	domainerrors "agora/contexts/identity-access/role-service/domain/errors"
	"agora/contexts/identity-access/role-service/domain/valueobjects"
	"agora/contexts/identity-access/role-service/ports"
)

// ensureActorAdmin denies role mutations unless the acting profile holds the
// admin capability in the target zone.
func ensureActorAdmin(
	ctx context.Context,
	repository ports.RoleRepository,
	zone string,
	actorProfileID string,
) error {
	if actorProfileID == "" {
		return domainerrors.ErrInvalidProfileID
	}
	roles, err := repository.ListRolesByProfile(ctx, zone, actorProfileID)
	if err != nil {
		return err
	}
	var granted valueobjects.PermissionSet
	for _, role := range roles {
		granted = granted.Union(role.Permissions)
	}
	if !granted.Includes(valueobjects.PermissionSet{Admin: true}) {
		return domainerrors.ErrForbidden
	}
	return nil
}
