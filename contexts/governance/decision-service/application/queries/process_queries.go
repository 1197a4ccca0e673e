package queries

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"agora/contexts/governance/decision-service/domain/entities"
	domainerrors "agora/contexts/governance/decision-service/domain/errors"
	"agora/contexts/governance/decision-service/domain/services"
	"agora/contexts/governance/decision-service/ports"
)

// ProcessUseCase serves process/instance reads and compiled form templates.
type ProcessUseCase struct {
	Processes ports.ProcessRepository
	Proposals ports.ProposalRepository
	Ballots   ports.BallotRepository
	Logger    *slog.Logger
}

func (uc ProcessUseCase) GetProcess(ctx context.Context, processID string) (entities.Process, error) {
	return uc.Processes.GetProcess(ctx, strings.TrimSpace(processID))
}

func (uc ProcessUseCase) ListProcesses(ctx context.Context, organizationID string) ([]entities.Process, error) {
	return uc.Processes.ListProcessesByOrganization(ctx, strings.TrimSpace(organizationID))
}

func (uc ProcessUseCase) GetInstance(ctx context.Context, instanceID string) (entities.ProcessInstance, error) {
	return uc.Processes.GetInstance(ctx, strings.TrimSpace(instanceID))
}

func (uc ProcessUseCase) ListProposals(ctx context.Context, instanceID string) ([]entities.Proposal, error) {
	return uc.Proposals.ListProposalsByInstance(ctx, strings.TrimSpace(instanceID))
}

// NextSteps reports the upcoming scheduled phases for an instance. An
// unknown current state yields an empty list; whether that is fatal is the
// caller's call, not this read's.
func (uc ProcessUseCase) NextSteps(ctx context.Context, instanceID string) ([]entities.StateDefinition, error) {
	instance, err := uc.Processes.GetInstance(ctx, strings.TrimSpace(instanceID))
	if err != nil {
		return nil, err
	}
	process, err := uc.Processes.GetProcess(ctx, instance.ProcessID)
	if err != nil {
		return nil, err
	}
	return services.NextSteps(process.States, instance.InstanceData.CurrentStateID), nil
}

// ProposalForm compiles the process's proposal template into renderable
// field descriptors.
func (uc ProcessUseCase) ProposalForm(ctx context.Context, processID string) ([]entities.FieldDescriptor, error) {
	process, err := uc.Processes.GetProcess(ctx, strings.TrimSpace(processID))
	if err != nil {
		return nil, err
	}
	return services.CompileProposalTemplate(process.ProposalTemplate, uc.Logger), nil
}

// RubricForm compiles the process's rubric template.
func (uc ProcessUseCase) RubricForm(ctx context.Context, processID string) ([]entities.FieldDescriptor, error) {
	process, err := uc.Processes.GetProcess(ctx, strings.TrimSpace(processID))
	if err != nil {
		return nil, err
	}
	return services.CompileRubricTemplate(process.RubricTemplate), nil
}

// Results tallies recorded selections per proposal. Ordering is
// deterministic and tie-break-free: selection count descending, proposal id
// ascending on equal counts.
func (uc ProcessUseCase) Results(ctx context.Context, instanceID string) ([]entities.ProposalTally, error) {
	instanceID = strings.TrimSpace(instanceID)
	if instanceID == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	if _, err := uc.Processes.GetInstance(ctx, instanceID); err != nil {
		return nil, err
	}

	selections, err := uc.Ballots.ListSelectionsByInstance(ctx, instanceID)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(selections))
	for _, selection := range selections {
		counts[selection.ProposalID]++
	}
	tallies := make([]entities.ProposalTally, 0, len(counts))
	for proposalID, count := range counts {
		tallies = append(tallies, entities.ProposalTally{ProposalID: proposalID, Selections: count})
	}
	sort.Slice(tallies, func(i, j int) bool {
		if tallies[i].Selections == tallies[j].Selections {
			return tallies[i].ProposalID < tallies[j].ProposalID
		}
		return tallies[i].Selections > tallies[j].Selections
	})
	return tallies, nil
}
