package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "agora/contexts/identity-access/role-service/application"
	"agora/contexts/identity-access/role-service/domain/entities"
	domainerrors "agora/contexts/identity-access/role-service/domain/errors"
	"agora/contexts/identity-access/role-service/domain/valueobjects"
	"agora/contexts/identity-access/role-service/ports"
)

// CreateDecisionRoleCommand is transport-agnostic input for role creation.
type CreateDecisionRoleCommand struct {
	ActorProfileID string
	Zone           string
	Name           string
	Description    string
	Permissions    valueobjects.PermissionSet
}

// UpdateDecisionPermissionsCommand replaces a role's decision capabilities.
// The role's CRUD bits are never touched by this command.
type UpdateDecisionPermissionsCommand struct {
	ActorProfileID string
	RoleID         string
	Permissions    valueobjects.PermissionSet
}

// BindRoleCommand attaches a role to a profile.
type BindRoleCommand struct {
	ActorProfileID string
	RoleID         string
	ProfileID      string
}

// RoleUseCase owns decision-role lifecycle. Every mutation is guarded by the
// actor's admin capability in the role's zone.
type RoleUseCase struct {
	Roles  ports.RoleRepository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func (uc RoleUseCase) CreateDecisionRole(ctx context.Context, cmd CreateDecisionRoleCommand) (entities.DecisionRole, error) {
	logger := application.ResolveLogger(uc.Logger)
	zone := strings.TrimSpace(cmd.Zone)
	name := strings.TrimSpace(cmd.Name)
	if zone == "" || name == "" {
		return entities.DecisionRole{}, domainerrors.ErrInvalidRole
	}
	if err := ensureActorAdmin(ctx, uc.Roles, zone, strings.TrimSpace(cmd.ActorProfileID)); err != nil {
		return entities.DecisionRole{}, err
	}

	roleID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.DecisionRole{}, err
	}
	now := uc.now()
	role := entities.DecisionRole{
		RoleID:      roleID,
		Zone:        zone,
		Name:        name,
		Description: strings.TrimSpace(cmd.Description),
		Permissions: valueobjects.ForDecisionRole(cmd.Permissions),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.Roles.SaveRole(ctx, role); err != nil {
		return entities.DecisionRole{}, err
	}

	logger.Info("decision role created",
		"event", "role_created",
		"module", "identity-access/role-service",
		"layer", "application",
		"role_id", roleID,
		"zone", zone,
		"permissions", role.Permissions.Encode(),
	)
	return role, nil
}

func (uc RoleUseCase) UpdateDecisionPermissions(ctx context.Context, cmd UpdateDecisionPermissionsCommand) (entities.DecisionRole, error) {
	logger := application.ResolveLogger(uc.Logger)
	role, err := uc.Roles.GetRole(ctx, strings.TrimSpace(cmd.RoleID))
	if err != nil {
		return entities.DecisionRole{}, err
	}
	if err := ensureActorAdmin(ctx, uc.Roles, role.Zone, strings.TrimSpace(cmd.ActorProfileID)); err != nil {
		return entities.DecisionRole{}, err
	}

	packed := valueobjects.ApplyDecisionBits(role.Permissions.Encode(), cmd.Permissions)
	role.Permissions = valueobjects.DecodePermissions(packed)
	role.UpdatedAt = uc.now()
	if err := uc.Roles.SaveRole(ctx, role); err != nil {
		return entities.DecisionRole{}, err
	}

	logger.Info("decision role permissions updated",
		"event", "role_permissions_updated",
		"module", "identity-access/role-service",
		"layer", "application",
		"role_id", role.RoleID,
		"zone", role.Zone,
		"permissions", packed,
	)
	return role, nil
}

func (uc RoleUseCase) BindRole(ctx context.Context, cmd BindRoleCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	profileID := strings.TrimSpace(cmd.ProfileID)
	if profileID == "" {
		return domainerrors.ErrInvalidProfileID
	}
	role, err := uc.Roles.GetRole(ctx, strings.TrimSpace(cmd.RoleID))
	if err != nil {
		return err
	}
	if err := ensureActorAdmin(ctx, uc.Roles, role.Zone, strings.TrimSpace(cmd.ActorProfileID)); err != nil {
		return err
	}

	if err := uc.Roles.BindRole(ctx, entities.RoleBinding{
		ProfileID: profileID,
		RoleID:    role.RoleID,
		CreatedAt: uc.now(),
	}); err != nil {
		return err
	}

	logger.Info("role bound to profile",
		"event", "role_bound",
		"module", "identity-access/role-service",
		"layer", "application",
		"role_id", role.RoleID,
		"profile_id", profileID,
	)
	return nil
}

func (uc RoleUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
