package queries

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

// CheckAccessQuery asks whether a profile holds every capability in Required
// across its roles in a zone.
type CheckAccessQuery struct {
	ProfileID string
	Zone      string
	Required  valueobjects.PermissionSet
}

// CheckAccessUseCase evaluates capability checks, deny-by-default on lookup
// failures.
type CheckAccessUseCase struct {
	Roles  ports.RoleRepository
	Clock  ports.Clock
	Logger *slog.Logger
}

func (uc CheckAccessUseCase) Execute(ctx context.Context, query CheckAccessQuery) (entities.AccessDecision, error) {
	profileID := strings.TrimSpace(query.ProfileID)
	if profileID == "" {
		return entities.AccessDecision{}, domainerrors.ErrInvalidProfileID
	}
	logger := application.ResolveLogger(uc.Logger)
	now := uc.now()

	roles, err := uc.Roles.ListRolesByProfile(ctx, strings.TrimSpace(query.Zone), profileID)
	if err != nil {
		logger.Error("capability lookup failed, deny by default",
			"event", "role_access_lookup_failed",
			"module", "identity-access/role-service",
			"layer", "application",
			"profile_id", profileID,
			"zone", query.Zone,
			"error", err.Error(),
		)
		return entities.AccessDecision{
			ProfileID: profileID,
			Zone:      query.Zone,
			Allowed:   false,
			Reason:    "deny_by_default",
			CheckedAt: now,
		}, nil
	}

	var granted valueobjects.PermissionSet
	for _, role := range roles {
		granted = granted.Union(role.Permissions)
	}

	allowed := granted.Includes(query.Required)
	reason := "capability_granted"
	if !allowed {
		reason = "capability_missing"
		logger.Warn("access check denied",
			"event", "role_access_denied",
			"module", "identity-access/role-service",
			"layer", "application",
			"profile_id", profileID,
			"zone", query.Zone,
			"required", query.Required.Encode(),
			"granted", granted.Encode(),
		)
	}

	return entities.AccessDecision{
		ProfileID: profileID,
		Zone:      query.Zone,
		Allowed:   allowed,
		Reason:    reason,
		Granted:   granted,
		CheckedAt: now,
	}, nil
}

func (uc CheckAccessUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
