package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	decisionerrors "agora/contexts/governance/decision-service/domain/errors"
	decisionhttp "agora/contexts/governance/decision-service/transport/http"
)

func TestWriteDecisionDomainErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{decisionerrors.NewValidationError("bad input", map[string][]string{"title": {"title is required"}}), 400, "validation_failed"},
		{decisionerrors.ErrProcessNotFound, 404, "not_found"},
		{decisionerrors.ErrInstanceNotFound, 404, "not_found"},
		{decisionerrors.ErrProposalNotFound, 404, "not_found"},
		{decisionerrors.ErrCurrentStateNotFound, 400, "validation_failed"},
		{decisionerrors.ErrVotingClosed, 400, "voting_closed"},
		{decisionerrors.ErrProposalsClosed, 400, "proposals_closed"},
		{decisionerrors.ErrAlreadyVoted, 409, "already_voted"},
		{decisionerrors.ErrInstanceCancelled, 409, "instance_cancelled"},
		{decisionerrors.ErrForbidden, 403, "forbidden"},
		{decisionerrors.ErrInvalidInput, 400, "invalid_request"},
		{decisionerrors.ErrInvalidProcessSchema, 400, "invalid_request"},
		{fmt.Errorf("connection reset"), 500, "internal_error"},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeDecisionDomainError(rec, tc.err)
		if rec.Code != tc.wantStatus {
			t.Fatalf("error %v: expected status %d, got %d", tc.err, tc.wantStatus, rec.Code)
		}
		var body decisionhttp.ErrorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("error %v: decode response body: %v", tc.err, err)
		}
		if body.Code != tc.wantCode {
			t.Fatalf("error %v: expected code %q, got %q", tc.err, tc.wantCode, body.Code)
		}
	}
}

func TestWriteDecisionDomainErrorValidationFields(t *testing.T) {
	rec := httptest.NewRecorder()
	writeDecisionDomainError(rec, decisionerrors.NewValidationError(
		"selection rejected",
		map[string][]string{"selectedProposalIds": {"too many proposals selected"}},
	))
	if rec.Code != 400 {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	var body decisionhttp.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	if len(body.FieldErrors["selectedProposalIds"]) != 1 {
		t.Fatalf("expected field errors for selectedProposalIds, got %v", body.FieldErrors)
	}
}
