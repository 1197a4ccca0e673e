package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	decisionservice "agora/contexts/governance/decision-service"
	roleservice "agora/contexts/identity-access/role-service"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "agora/internal/platform/httpserver/docs"
)

type Server struct {
	mux       *http.ServeMux
	logger    *slog.Logger
	addr      string
	decisions decisionservice.Module
	roles     roleservice.Module
}

func New(
	decisions decisionservice.Module,
	roles roleservice.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:       http.NewServeMux(),
		logger:    logger,
		addr:      addr,
		decisions: decisions,
		roles:     roles,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/governance/v1/processes", s.handleCreateProcess)
	s.mux.HandleFunc("GET /api/governance/v1/processes/{process_id}", s.handleGetProcess)
	s.mux.HandleFunc("GET /api/governance/v1/processes/{process_id}/proposal-form", s.handleProposalForm)
	s.mux.HandleFunc("GET /api/governance/v1/processes/{process_id}/rubric-form", s.handleRubricForm)
	s.mux.HandleFunc("POST /api/governance/v1/processes/{process_id}/instances", s.handleLaunchInstance)
	s.mux.HandleFunc("POST /api/governance/v1/instances/{instance_id}/advance", s.handleAdvanceState)
	s.mux.HandleFunc("DELETE /api/governance/v1/instances/{instance_id}", s.handleCancelInstance)
	s.mux.HandleFunc("GET /api/governance/v1/instances/{instance_id}/next-steps", s.handleNextSteps)
	s.mux.HandleFunc("POST /api/governance/v1/instances/{instance_id}/proposals", s.handleSubmitProposal)
	s.mux.HandleFunc("GET /api/governance/v1/instances/{instance_id}/proposals", s.handleListProposals)
	s.mux.HandleFunc("POST /api/governance/v1/instances/{instance_id}/votes", s.handleSubmitVote)
	s.mux.HandleFunc("POST /api/governance/v1/instances/{instance_id}/votes/validate", s.handleValidateSelection)
	s.mux.HandleFunc("GET /api/governance/v1/instances/{instance_id}/voting-status", s.handleVotingStatus)
	s.mux.HandleFunc("GET /api/governance/v1/instances/{instance_id}/results", s.handleResults)

	s.mux.HandleFunc("POST /api/roles/v1/roles", s.handleCreateRole)
	s.mux.HandleFunc("GET /api/roles/v1/roles", s.handleListRoles)
	s.mux.HandleFunc("GET /api/roles/v1/roles/{role_id}", s.handleGetRole)
	s.mux.HandleFunc("PUT /api/roles/v1/roles/{role_id}/permissions", s.handleUpdatePermissions)
	s.mux.HandleFunc("POST /api/roles/v1/roles/{role_id}/bindings", s.handleBindRole)
	s.mux.HandleFunc("POST /api/roles/v1/check-access", s.handleCheckAccess)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// resolveProfileID identifies the acting member. The gateway in front of this
// service injects the header after authentication.
func resolveProfileID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Profile-Id"))
}
