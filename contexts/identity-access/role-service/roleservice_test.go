package roleservice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	roleservice "agora/contexts/identity-access/role-service"
	"agora/contexts/identity-access/role-service/domain/entities"
	domainerrors "agora/contexts/identity-access/role-service/domain/errors"
	"agora/contexts/identity-access/role-service/domain/valueobjects"
	httptransport "agora/contexts/identity-access/role-service/transport/http"
)

func seedAdmin(module roleservice.Module, zone string, profileID string) {
	module.Store.SetRole(entities.DecisionRole{
		RoleID:      "role-admin",
		Zone:        zone,
		Name:        "Zone Admin",
		Permissions: valueobjects.DecodePermissions(valueobjects.BitAdmin | valueobjects.BitRead),
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	})
	module.Store.SetBinding(profileID, "role-admin")
}

func TestRoleLifecycle(t *testing.T) {
	module := roleservice.NewInMemoryModule(nil)
	seedAdmin(module, "zone-1", "admin-1")

	role, err := module.Handler.CreateRoleHandler(context.Background(), "admin-1", httptransport.CreateRoleRequest{
		Zone: "zone-1",
		Name: "Voter",
		Permissions: httptransport.PermissionSetDTO{
			Vote:            true,
			SubmitProposals: true,
		},
	})
	if err != nil {
		t.Fatalf("create role failed: %v", err)
	}
	if !role.Permissions.Read {
		t.Fatalf("expected read forced on for decision roles, got %+v", role.Permissions)
	}
	if !role.Permissions.Vote || !role.Permissions.SubmitProposals {
		t.Fatalf("expected requested capabilities, got %+v", role.Permissions)
	}

	// Capability update must not disturb the CRUD bits.
	updated, err := module.Handler.UpdatePermissionsHandler(context.Background(), "admin-1", role.ID, httptransport.UpdatePermissionsRequest{
		Permissions: httptransport.PermissionSetDTO{
			Review: true,
			// CRUD fields in the request are ignored by the update.
			Delete: true,
		},
	})
	if err != nil {
		t.Fatalf("update permissions failed: %v", err)
	}
	if !updated.Permissions.Read {
		t.Fatalf("expected read bit preserved, got %+v", updated.Permissions)
	}
	if updated.Permissions.Delete {
		t.Fatalf("expected delete bit untouched by capability update, got %+v", updated.Permissions)
	}
	if !updated.Permissions.Review || updated.Permissions.Vote {
		t.Fatalf("expected capabilities replaced, got %+v", updated.Permissions)
	}

	if err := module.Handler.BindRoleHandler(context.Background(), "admin-1", role.ID, httptransport.BindRoleRequest{
		ProfileID: "member-1",
	}); err != nil {
		t.Fatalf("bind role failed: %v", err)
	}
	err = module.Handler.BindRoleHandler(context.Background(), "admin-1", role.ID, httptransport.BindRoleRequest{
		ProfileID: "member-1",
	})
	if !errors.Is(err, domainerrors.ErrRoleAlreadyBound) {
		t.Fatalf("expected duplicate binding conflict, got %v", err)
	}

	roles, err := module.Handler.ListRolesHandler(context.Background(), "zone-1")
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	if len(roles) != 2 {
		t.Fatalf("expected admin and voter roles, got %d", len(roles))
	}
}

func TestRoleMutationsRequireAdmin(t *testing.T) {
	module := roleservice.NewInMemoryModule(nil)
	seedAdmin(module, "zone-1", "admin-1")

	_, err := module.Handler.CreateRoleHandler(context.Background(), "member-1", httptransport.CreateRoleRequest{
		Zone:        "zone-1",
		Name:        "Rogue",
		Permissions: httptransport.PermissionSetDTO{Admin: true},
	})
	if !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden for non-admin actor, got %v", err)
	}

	// Admin in another zone does not carry over.
	_, err = module.Handler.CreateRoleHandler(context.Background(), "admin-1", httptransport.CreateRoleRequest{
		Zone:        "zone-2",
		Name:        "Stranger",
		Permissions: httptransport.PermissionSetDTO{Vote: true},
	})
	if !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden outside admin zone, got %v", err)
	}
}

func TestCheckAccess(t *testing.T) {
	module := roleservice.NewInMemoryModule(nil)
	seedAdmin(module, "zone-1", "admin-1")

	role, err := module.Handler.CreateRoleHandler(context.Background(), "admin-1", httptransport.CreateRoleRequest{
		Zone:        "zone-1",
		Name:        "Voter",
		Permissions: httptransport.PermissionSetDTO{Vote: true},
	})
	if err != nil {
		t.Fatalf("create role failed: %v", err)
	}
	if err := module.Handler.BindRoleHandler(context.Background(), "admin-1", role.ID, httptransport.BindRoleRequest{
		ProfileID: "member-1",
	}); err != nil {
		t.Fatalf("bind role failed: %v", err)
	}

	decision, err := module.Handler.CheckAccessHandler(context.Background(), httptransport.CheckAccessRequest{
		ProfileID: "member-1",
		Zone:      "zone-1",
		Required:  httptransport.PermissionSetDTO{Vote: true, Read: true},
	})
	if err != nil {
		t.Fatalf("check access failed: %v", err)
	}
	if !decision.Allowed {
		t.Fatalf("expected access allowed, got %+v", decision)
	}

	decision, err = module.Handler.CheckAccessHandler(context.Background(), httptransport.CheckAccessRequest{
		ProfileID: "member-1",
		Zone:      "zone-1",
		Required:  httptransport.PermissionSetDTO{Admin: true},
	})
	if err != nil {
		t.Fatalf("check access failed: %v", err)
	}
	if decision.Allowed || decision.Reason != "capability_missing" {
		t.Fatalf("expected denial with capability_missing, got %+v", decision)
	}

	// Unknown profile: no roles, deny.
	decision, err = module.Handler.CheckAccessHandler(context.Background(), httptransport.CheckAccessRequest{
		ProfileID: "ghost",
		Zone:      "zone-1",
		Required:  httptransport.PermissionSetDTO{Read: true},
	})
	if err != nil {
		t.Fatalf("check access failed: %v", err)
	}
	if decision.Allowed {
		t.Fatalf("expected denial for profile without roles")
	}
}
