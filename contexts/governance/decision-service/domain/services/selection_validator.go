package services

import (
	"fmt"

	"agora/contexts/governance/decision-service/domain/entities"
)

// ValidateSelection checks a member's proposal selection against the set of
// proposals eligible for voting in the instance and the per-member vote
// limit. A single bad id fails the whole selection; nothing is silently
// dropped. Errors are keyed by input field so transports can attach them.
func ValidateSelection(selectedIDs []string, eligibleIDs []string, maxVotesPerMember int) entities.SelectionValidation {
	fieldErrors := map[string][]string{}

	if len(selectedIDs) == 0 {
		fieldErrors["selectedProposalIds"] = append(fieldErrors["selectedProposalIds"],
			"at least one proposal must be selected")
	}
	if maxVotesPerMember > 0 && len(selectedIDs) > maxVotesPerMember {
		fieldErrors["selectedProposalIds"] = append(fieldErrors["selectedProposalIds"],
			fmt.Sprintf("selection exceeds the limit of %d votes per member", maxVotesPerMember))
	}

	eligible := make(map[string]bool, len(eligibleIDs))
	for _, id := range eligibleIDs {
		eligible[id] = true
	}

	seen := make(map[string]bool, len(selectedIDs))
	for _, id := range selectedIDs {
		if seen[id] {
			fieldErrors["selectedProposalIds"] = append(fieldErrors["selectedProposalIds"],
				fmt.Sprintf("proposal %s is selected more than once", id))
			continue
		}
		seen[id] = true
		if !eligible[id] {
			fieldErrors["selectedProposalIds"] = append(fieldErrors["selectedProposalIds"],
				fmt.Sprintf("proposal %s does not belong to this process instance", id))
		}
	}

	return entities.SelectionValidation{
		IsValid: len(fieldErrors) == 0,
		Errors:  fieldErrors,
	}
}
