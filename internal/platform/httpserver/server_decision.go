package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	decisionerrors "agora/contexts/governance/decision-service/domain/errors"
	decisionhttp "agora/contexts/governance/decision-service/transport/http"
)

func (s *Server) handleCreateProcess(w http.ResponseWriter, r *http.Request) {
	var req decisionhttp.CreateProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecisionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
		return
	}
	resp, err := s.decisions.Handler.CreateProcessHandler(r.Context(), req)
	if err != nil {
		writeDecisionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetProcess(w http.ResponseWriter, r *http.Request) {
	resp, err := s.decisions.Handler.GetProcessHandler(r.Context(), r.PathValue("process_id"))
	if err != nil {
		writeDecisionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProposalForm(w http.ResponseWriter, r *http.Request) {
	resp, err := s.decisions.Handler.ProposalFormHandler(r.Context(), r.PathValue("process_id"))
	if err != nil {
		writeDecisionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRubricForm(w http.ResponseWriter, r *http.Request) {
	resp, err := s.decisions.Handler.RubricFormHandler(r.Context(), r.PathValue("process_id"))
	if err != nil {
		writeDecisionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLaunchInstance(w http.ResponseWriter, r *http.Request) {
	profileID := resolveProfileID(r)
	if profileID == "" {
		writeDecisionError(w, http.StatusUnauthorized, "missing_profile", "X-Profile-Id header is required", nil)
		return
	}
	var req decisionhttp.LaunchInstanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecisionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
		return
	}
	resp, err := s.decisions.Handler.LaunchInstanceHandler(r.Context(), r.PathValue("process_id"), profileID, req)
	if err != nil {
		writeDecisionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleAdvanceState(w http.ResponseWriter, r *http.Request) {
	var req decisionhttp.AdvanceStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecisionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
		return
	}
	resp, err := s.decisions.Handler.AdvanceStateHandler(r.Context(), r.PathValue("instance_id"), req)
	if err != nil {
		writeDecisionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCancelInstance(w http.ResponseWriter, r *http.Request) {
	if err := s.decisions.Handler.CancelInstanceHandler(r.Context(), r.PathValue("instance_id")); err != nil {
		writeDecisionDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleNextSteps(w http.ResponseWriter, r *http.Request) {
	resp, err := s.decisions.Handler.NextStepsHandler(r.Context(), r.PathValue("instance_id"))
	if err != nil {
		writeDecisionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSubmitProposal(w http.ResponseWriter, r *http.Request) {
	profileID := resolveProfileID(r)
	if profileID == "" {
		writeDecisionError(w, http.StatusUnauthorized, "missing_profile", "X-Profile-Id header is required", nil)
		return
	}
	var req decisionhttp.SubmitProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecisionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
		return
	}
	resp, err := s.decisions.Handler.SubmitProposalHandler(r.Context(), r.PathValue("instance_id"), profileID, req)
	if err != nil {
		writeDecisionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListProposals(w http.ResponseWriter, r *http.Request) {
	resp, err := s.decisions.Handler.ListProposalsHandler(r.Context(), r.PathValue("instance_id"))
	if err != nil {
		writeDecisionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSubmitVote(w http.ResponseWriter, r *http.Request) {
	profileID := resolveProfileID(r)
	if profileID == "" {
		writeDecisionError(w, http.StatusUnauthorized, "missing_profile", "X-Profile-Id header is required", nil)
		return
	}
	var req decisionhttp.SubmitVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecisionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
		return
	}
	resp, err := s.decisions.Handler.SubmitVoteHandler(r.Context(), r.PathValue("instance_id"), profileID, r.UserAgent(), req)
	if err != nil {
		writeDecisionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleValidateSelection(w http.ResponseWriter, r *http.Request) {
	var req decisionhttp.ValidateSelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecisionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
		return
	}
	resp, err := s.decisions.Handler.ValidateSelectionHandler(r.Context(), r.PathValue("instance_id"), req)
	if err != nil {
		writeDecisionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVotingStatus(w http.ResponseWriter, r *http.Request) {
	profileID := resolveProfileID(r)
	if profileID == "" {
		writeDecisionError(w, http.StatusUnauthorized, "missing_profile", "X-Profile-Id header is required", nil)
		return
	}
	resp, err := s.decisions.Handler.VotingStatusHandler(r.Context(), r.PathValue("instance_id"), profileID)
	if err != nil {
		writeDecisionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	resp, err := s.decisions.Handler.ResultsHandler(r.Context(), r.PathValue("instance_id"))
	if err != nil {
		writeDecisionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeDecisionDomainError(w http.ResponseWriter, err error) {
	var validation *decisionerrors.ValidationError
	switch {
	case errors.As(err, &validation):
		writeDecisionError(w, http.StatusBadRequest, "validation_failed", validation.Message, validation.Fields)
	case errors.Is(err, decisionerrors.ErrProcessNotFound),
		errors.Is(err, decisionerrors.ErrInstanceNotFound),
		errors.Is(err, decisionerrors.ErrProposalNotFound):
		writeDecisionError(w, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, decisionerrors.ErrCurrentStateNotFound):
		writeDecisionError(w, http.StatusBadRequest, "validation_failed", err.Error(), nil)
	case errors.Is(err, decisionerrors.ErrAlreadyVoted):
		writeDecisionError(w, http.StatusConflict, "already_voted", err.Error(), nil)
	case errors.Is(err, decisionerrors.ErrVotingClosed):
		writeDecisionError(w, http.StatusBadRequest, "voting_closed", err.Error(), nil)
	case errors.Is(err, decisionerrors.ErrProposalsClosed):
		writeDecisionError(w, http.StatusBadRequest, "proposals_closed", err.Error(), nil)
	case errors.Is(err, decisionerrors.ErrInstanceCancelled):
		writeDecisionError(w, http.StatusConflict, "instance_cancelled", err.Error(), nil)
	case errors.Is(err, decisionerrors.ErrForbidden):
		writeDecisionError(w, http.StatusForbidden, "forbidden", err.Error(), nil)
	case errors.Is(err, decisionerrors.ErrInvalidInput),
		errors.Is(err, decisionerrors.ErrInvalidProcessSchema):
		writeDecisionError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
	default:
		writeDecisionError(w, http.StatusInternalServerError, "internal_error", "internal server error", nil)
	}
}

func writeDecisionError(w http.ResponseWriter, status int, code string, message string, fieldErrors map[string][]string) {
	writeJSON(w, status, decisionhttp.ErrorResponse{
		Code:        code,
		Message:     message,
		FieldErrors: fieldErrors,
	})
}
