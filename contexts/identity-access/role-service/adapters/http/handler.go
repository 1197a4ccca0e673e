package httpadapter

import (
	"context"
	"log/slog"

	"agora/contexts/identity-access/role-service/application/commands"
	"agora/contexts/identity-access/role-service/application/queries"
	"agora/contexts/identity-access/role-service/domain/entities"
	"agora/contexts/identity-access/role-service/domain/valueobjects"
	httptransport "agora/contexts/identity-access/role-service/transport/http"
)

type Handler struct {
	Roles  commands.RoleUseCase
	Access queries.CheckAccessUseCase
	Reads  queries.RoleQueryUseCase
	Logger *slog.Logger
}

func (h Handler) CreateRoleHandler(ctx context.Context, actorProfileID string, req httptransport.CreateRoleRequest) (httptransport.RoleResponse, error) {
	role, err := h.Roles.CreateDecisionRole(ctx, commands.CreateDecisionRoleCommand{
		ActorProfileID: actorProfileID,
		Zone:           req.Zone,
		Name:           req.Name,
		Description:    req.Description,
		Permissions:    permissionsFromDTO(req.Permissions),
	})
	if err != nil {
		return httptransport.RoleResponse{}, err
	}
	return roleResponse(role), nil
}

func (h Handler) UpdatePermissionsHandler(ctx context.Context, actorProfileID string, roleID string, req httptransport.UpdatePermissionsRequest) (httptransport.RoleResponse, error) {
	role, err := h.Roles.UpdateDecisionPermissions(ctx, commands.UpdateDecisionPermissionsCommand{
		ActorProfileID: actorProfileID,
		RoleID:         roleID,
		Permissions:    permissionsFromDTO(req.Permissions),
	})
	if err != nil {
		return httptransport.RoleResponse{}, err
	}
	return roleResponse(role), nil
}

func (h Handler) BindRoleHandler(ctx context.Context, actorProfileID string, roleID string, req httptransport.BindRoleRequest) error {
	return h.Roles.BindRole(ctx, commands.BindRoleCommand{
		ActorProfileID: actorProfileID,
		RoleID:         roleID,
		ProfileID:      req.ProfileID,
	})
}

func (h Handler) GetRoleHandler(ctx context.Context, roleID string) (httptransport.RoleResponse, error) {
	role, err := h.Reads.GetRole(ctx, roleID)
	if err != nil {
		return httptransport.RoleResponse{}, err
	}
	return roleResponse(role), nil
}

func (h Handler) ListRolesHandler(ctx context.Context, zone string) ([]httptransport.RoleResponse, error) {
	roles, err := h.Reads.ListRoles(ctx, zone)
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.RoleResponse, 0, len(roles))
	for _, role := range roles {
		items = append(items, roleResponse(role))
	}
	return items, nil
}

func (h Handler) CheckAccessHandler(ctx context.Context, req httptransport.CheckAccessRequest) (httptransport.CheckAccessResponse, error) {
	decision, err := h.Access.Execute(ctx, queries.CheckAccessQuery{
		ProfileID: req.ProfileID,
		Zone:      req.Zone,
		Required:  permissionsFromDTO(req.Required),
	})
	if err != nil {
		return httptransport.CheckAccessResponse{}, err
	}
	return httptransport.CheckAccessResponse{
		Allowed:   decision.Allowed,
		Reason:    decision.Reason,
		Granted:   permissionsDTO(decision.Granted),
		CheckedAt: decision.CheckedAt,
	}, nil
}

func permissionsFromDTO(dto httptransport.PermissionSetDTO) valueobjects.PermissionSet {
	return valueobjects.PermissionSet{
		Delete:          dto.Delete,
		Update:          dto.Update,
		Read:            dto.Read,
		Create:          dto.Create,
		Admin:           dto.Admin,
		InviteMembers:   dto.InviteMembers,
		Review:          dto.Review,
		SubmitProposals: dto.SubmitProposals,
		Vote:            dto.Vote,
	}
}

func permissionsDTO(set valueobjects.PermissionSet) httptransport.PermissionSetDTO {
	return httptransport.PermissionSetDTO{
		Delete:          set.Delete,
		Update:          set.Update,
		Read:            set.Read,
		Create:          set.Create,
		Admin:           set.Admin,
		InviteMembers:   set.InviteMembers,
		Review:          set.Review,
		SubmitProposals: set.SubmitProposals,
		Vote:            set.Vote,
	}
}

func roleResponse(role entities.DecisionRole) httptransport.RoleResponse {
	return httptransport.RoleResponse{
		ID:          role.RoleID,
		Zone:        role.Zone,
		Name:        role.Name,
		Description: role.Description,
		Permissions: permissionsDTO(role.Permissions),
		CreatedAt:   role.CreatedAt,
		UpdatedAt:   role.UpdatedAt,
	}
}
