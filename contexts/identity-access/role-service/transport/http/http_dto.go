package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PermissionSetDTO is the only wire form of a permission value. Packed
// integers never cross the API boundary.
type PermissionSetDTO struct {
	Delete          bool `json:"delete"`
	Update          bool `json:"update"`
	Read            bool `json:"read"`
	Create          bool `json:"create"`
	Admin           bool `json:"admin"`
	InviteMembers   bool `json:"inviteMembers"`
	Review          bool `json:"review"`
	SubmitProposals bool `json:"submitProposals"`
	Vote            bool `json:"vote"`
}

type CreateRoleRequest struct {
	Zone        string           `json:"zone"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Permissions PermissionSetDTO `json:"permissions"`
}

type UpdatePermissionsRequest struct {
	Permissions PermissionSetDTO `json:"permissions"`
}

type BindRoleRequest struct {
	ProfileID string `json:"profileId"`
}

type RoleResponse struct {
	ID          string           `json:"id"`
	Zone        string           `json:"zone"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Permissions PermissionSetDTO `json:"permissions"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

type CheckAccessRequest struct {
	ProfileID string           `json:"profileId"`
	Zone      string           `json:"zone"`
	Required  PermissionSetDTO `json:"required"`
}

type CheckAccessResponse struct {
	Allowed   bool             `json:"allowed"`
	Reason    string           `json:"reason"`
	Granted   PermissionSetDTO `json:"granted"`
	CheckedAt time.Time        `json:"checkedAt"`
}
