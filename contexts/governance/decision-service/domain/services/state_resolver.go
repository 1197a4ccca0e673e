package services

import "agora/contexts/governance/decision-service/domain/entities"

// CurrentState looks up the active state by id. Callers decide whether a
// missing current state is fatal.
func CurrentState(states []entities.StateDefinition, currentStateID string) (entities.StateDefinition, bool) {
	for _, state := range states {
		if state.ID == currentStateID {
			return state, true
		}
	}
	return entities.StateDefinition{}, false
}

// NextSteps returns every state strictly after the current one that has a
// scheduled start date, preserving array order. Array order is the canonical
// phase ordering and is shown to end users as "what happens next". An unknown
// current id yields an empty list.
func NextSteps(states []entities.StateDefinition, currentStateID string) []entities.StateDefinition {
	currentIndex := -1
	for index, state := range states {
		if state.ID == currentStateID {
			currentIndex = index
			break
		}
	}
	if currentIndex < 0 {
		return []entities.StateDefinition{}
	}

	upcoming := make([]entities.StateDefinition, 0, len(states)-currentIndex-1)
	for _, state := range states[currentIndex+1:] {
		if state.Phase == nil || state.Phase.StartDate == nil {
			continue
		}
		upcoming = append(upcoming, state)
	}
	return upcoming
}
