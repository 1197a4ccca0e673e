package services

import (
	"strings"
	"testing"
)

func TestValidateSelectionAcceptsWithinLimit(t *testing.T) {
	eligible := []string{"p-1", "p-2", "p-3", "p-4"}
	validation := ValidateSelection([]string{"p-1", "p-3", "p-4"}, eligible, 3)
	if !validation.IsValid {
		t.Fatalf("expected valid selection, got %v", validation.Errors)
	}
}

func TestValidateSelectionRejectsEmpty(t *testing.T) {
	validation := ValidateSelection(nil, []string{"p-1"}, 3)
	if validation.IsValid {
		t.Fatalf("expected empty selection to fail")
	}
	if len(validation.Errors["selectedProposalIds"]) != 1 {
		t.Fatalf("expected one field error, got %v", validation.Errors)
	}
}

func TestValidateSelectionRejectsOverLimit(t *testing.T) {
	eligible := []string{"p-1", "p-2", "p-3", "p-4"}
	validation := ValidateSelection([]string{"p-1", "p-2", "p-3", "p-4"}, eligible, 3)
	if validation.IsValid {
		t.Fatalf("expected over-limit selection to fail")
	}
	if !strings.Contains(validation.Errors["selectedProposalIds"][0], "limit of 3") {
		t.Fatalf("expected limit error, got %v", validation.Errors)
	}
}

func TestValidateSelectionRejectsUnknownAndDuplicate(t *testing.T) {
	eligible := []string{"p-1", "p-2"}

	validation := ValidateSelection([]string{"p-1", "p-9"}, eligible, 3)
	if validation.IsValid {
		t.Fatalf("expected unknown proposal to fail")
	}
	if !strings.Contains(validation.Errors["selectedProposalIds"][0], "p-9") {
		t.Fatalf("expected membership error for p-9, got %v", validation.Errors)
	}

	validation = ValidateSelection([]string{"p-1", "p-1"}, eligible, 3)
	if validation.IsValid {
		t.Fatalf("expected duplicate selection to fail")
	}
	if !strings.Contains(validation.Errors["selectedProposalIds"][0], "more than once") {
		t.Fatalf("expected duplicate error, got %v", validation.Errors)
	}
}
