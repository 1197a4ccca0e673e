package services

import (
	"testing"
	"time"

	"agora/contexts/governance/decision-service/domain/entities"
)

func phasedStates() []entities.StateDefinition {
	votingStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	resultsStart := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	return []entities.StateDefinition{
		{
			ID:     "submission",
			Name:   "Submission",
			Config: entities.StateConfig{AllowProposals: true},
		},
		{
			ID:   "review",
			Name: "Review",
		},
		{
			ID:     "voting",
			Name:   "Voting",
			Config: entities.StateConfig{AllowDecisions: true},
			Phase:  &entities.PhaseWindow{StartDate: &votingStart},
		},
		{
			ID:    "results",
			Name:  "Results",
			Phase: &entities.PhaseWindow{StartDate: &resultsStart},
		},
	}
}

func TestCurrentState(t *testing.T) {
	states := phasedStates()

	state, found := CurrentState(states, "voting")
	if !found {
		t.Fatalf("expected to find voting state")
	}
	if !state.Config.AllowDecisions {
		t.Fatalf("expected voting state to allow decisions")
	}

	if _, found := CurrentState(states, "archived"); found {
		t.Fatalf("expected unknown state id to miss")
	}
	if _, found := CurrentState(nil, "voting"); found {
		t.Fatalf("expected empty state list to miss")
	}
}

func TestNextStepsOnlyDatedLaterPhases(t *testing.T) {
	states := phasedStates()

	steps := NextSteps(states, "submission")
	if len(steps) != 2 {
		t.Fatalf("expected voting and results as next steps, got %d", len(steps))
	}
	if steps[0].ID != "voting" || steps[1].ID != "results" {
		t.Fatalf("unexpected steps %s, %s", steps[0].ID, steps[1].ID)
	}

	steps = NextSteps(states, "voting")
	if len(steps) != 1 || steps[0].ID != "results" {
		t.Fatalf("expected only results after voting, got %v", steps)
	}

	if steps := NextSteps(states, "results"); len(steps) != 0 {
		t.Fatalf("expected no steps after the last state, got %v", steps)
	}
	if steps := NextSteps(states, "archived"); len(steps) != 0 {
		t.Fatalf("expected no steps for unknown state, got %v", steps)
	}
}
