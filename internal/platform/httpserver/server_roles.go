package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	roleerrors "agora/contexts/identity-access/role-service/domain/errors"
	rolehttp "agora/contexts/identity-access/role-service/transport/http"
)

func (s *Server) handleCreateRole(w http.ResponseWriter, r *http.Request) {
	actorID := resolveProfileID(r)
	if actorID == "" {
		writeRoleError(w, http.StatusUnauthorized, "missing_profile", "X-Profile-Id header is required")
		return
	}
	var req rolehttp.CreateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRoleError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.roles.Handler.CreateRoleHandler(r.Context(), actorID, req)
	if err != nil {
		writeRoleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListRoles(w http.ResponseWriter, r *http.Request) {
	resp, err := s.roles.Handler.ListRolesHandler(r.Context(), r.URL.Query().Get("zone"))
	if err != nil {
		writeRoleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetRole(w http.ResponseWriter, r *http.Request) {
	resp, err := s.roles.Handler.GetRoleHandler(r.Context(), r.PathValue("role_id"))
	if err != nil {
		writeRoleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdatePermissions(w http.ResponseWriter, r *http.Request) {
	actorID := resolveProfileID(r)
	if actorID == "" {
		writeRoleError(w, http.StatusUnauthorized, "missing_profile", "X-Profile-Id header is required")
		return
	}
	var req rolehttp.UpdatePermissionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRoleError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.roles.Handler.UpdatePermissionsHandler(r.Context(), actorID, r.PathValue("role_id"), req)
	if err != nil {
		writeRoleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBindRole(w http.ResponseWriter, r *http.Request) {
	actorID := resolveProfileID(r)
	if actorID == "" {
		writeRoleError(w, http.StatusUnauthorized, "missing_profile", "X-Profile-Id header is required")
		return
	}
	var req rolehttp.BindRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRoleError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.roles.Handler.BindRoleHandler(r.Context(), actorID, r.PathValue("role_id"), req); err != nil {
		writeRoleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCheckAccess(w http.ResponseWriter, r *http.Request) {
	var req rolehttp.CheckAccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRoleError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if req.ProfileID == "" {
		req.ProfileID = resolveProfileID(r)
	}
	resp, err := s.roles.Handler.CheckAccessHandler(r.Context(), req)
	if err != nil {
		writeRoleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeRoleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, roleerrors.ErrRoleNotFound):
		writeRoleError(w, http.StatusNotFound, "role_not_found", err.Error())
	case errors.Is(err, roleerrors.ErrRoleAlreadyBound):
		writeRoleError(w, http.StatusConflict, "role_already_bound", err.Error())
	case errors.Is(err, roleerrors.ErrForbidden):
		writeRoleError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, roleerrors.ErrInvalidRole),
		errors.Is(err, roleerrors.ErrInvalidProfileID):
		writeRoleError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeRoleError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeRoleError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, rolehttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
