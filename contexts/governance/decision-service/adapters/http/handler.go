package httpadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"agora/contexts/governance/decision-service/application/commands"
	"agora/contexts/governance/decision-service/application/queries"
	"agora/contexts/governance/decision-service/domain/entities"
	domainerrors "agora/contexts/governance/decision-service/domain/errors"
	httptransport "agora/contexts/governance/decision-service/transport/http"
)

type Handler struct {
	Processes commands.ProcessUseCase
	Proposals commands.ProposalUseCase
	Votes     commands.VoteUseCase
	Status    queries.VotingStatusUseCase
	Reads     queries.ProcessUseCase
	Logger    *slog.Logger
}

func (h Handler) CreateProcessHandler(ctx context.Context, req httptransport.CreateProcessRequest) (httptransport.ProcessResponse, error) {
	proposalTemplate, err := decodeTemplate(req.ProposalTemplate, "proposalTemplate")
	if err != nil {
		return httptransport.ProcessResponse{}, err
	}
	rubricTemplate, err := decodeTemplate(req.RubricTemplate, "rubricTemplate")
	if err != nil {
		return httptransport.ProcessResponse{}, err
	}

	process, err := h.Processes.CreateProcess(ctx, commands.CreateProcessCommand{
		OrganizationID:   req.OrganizationID,
		Name:             req.Name,
		Description:      req.Description,
		SchemaType:       req.SchemaType,
		States:           statesFromDTO(req.States),
		ProposalTemplate: proposalTemplate,
		RubricTemplate:   rubricTemplate,
	})
	if err != nil {
		return httptransport.ProcessResponse{}, err
	}
	return processResponse(process), nil
}

func (h Handler) GetProcessHandler(ctx context.Context, processID string) (httptransport.ProcessResponse, error) {
	process, err := h.Reads.GetProcess(ctx, processID)
	if err != nil {
		return httptransport.ProcessResponse{}, err
	}
	return processResponse(process), nil
}

func (h Handler) LaunchInstanceHandler(
	ctx context.Context,
	processID string,
	ownerProfileID string,
	req httptransport.LaunchInstanceRequest,
) (httptransport.InstanceResponse, error) {
	instance, err := h.Processes.LaunchInstance(ctx, commands.LaunchInstanceCommand{
		ProcessID:         processID,
		OwnerProfileID:    ownerProfileID,
		ProfileID:         req.ProfileID,
		MaxVotesPerMember: req.MaxVotesPerMember,
	})
	if err != nil {
		return httptransport.InstanceResponse{}, err
	}
	return instanceResponse(instance), nil
}

func (h Handler) AdvanceStateHandler(
	ctx context.Context,
	instanceID string,
	req httptransport.AdvanceStateRequest,
) (httptransport.InstanceResponse, error) {
	instance, err := h.Processes.AdvanceState(ctx, commands.AdvanceStateCommand{
		InstanceID: instanceID,
		ToStateID:  req.ToStateID,
	})
	if err != nil {
		return httptransport.InstanceResponse{}, err
	}
	return instanceResponse(instance), nil
}

func (h Handler) CancelInstanceHandler(ctx context.Context, instanceID string) error {
	return h.Processes.CancelInstance(ctx, instanceID)
}

func (h Handler) SubmitProposalHandler(
	ctx context.Context,
	instanceID string,
	profileID string,
	req httptransport.SubmitProposalRequest,
) (httptransport.ProposalResponse, error) {
	proposal, err := h.Proposals.SubmitProposal(ctx, commands.SubmitProposalCommand{
		InstanceID:   instanceID,
		ProfileID:    profileID,
		ProposalData: req.ProposalData,
	})
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	return proposalResponse(proposal), nil
}

func (h Handler) ListProposalsHandler(ctx context.Context, instanceID string) ([]httptransport.ProposalResponse, error) {
	proposals, err := h.Reads.ListProposals(ctx, instanceID)
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.ProposalResponse, 0, len(proposals))
	for _, proposal := range proposals {
		items = append(items, proposalResponse(proposal))
	}
	return items, nil
}

func (h Handler) SubmitVoteHandler(
	ctx context.Context,
	instanceID string,
	profileID string,
	userAgent string,
	req httptransport.SubmitVoteRequest,
) (httptransport.VoteSubmissionResponse, error) {
	result, err := h.Votes.SubmitVote(ctx, commands.SubmitVoteCommand{
		InstanceID:          instanceID,
		ProfileID:           profileID,
		SelectedProposalIDs: req.SelectedProposalIDs,
		UserAgent:           userAgent,
	})
	if err != nil {
		return httptransport.VoteSubmissionResponse{}, err
	}

	selected := make([]string, 0, len(result.Selections))
	for _, selection := range result.Selections {
		selected = append(selected, selection.ProposalID)
	}
	submission := result.Submission
	return httptransport.VoteSubmissionResponse{
		ID:                   submission.SubmissionID,
		ProcessInstanceID:    submission.InstanceID,
		SubmittedByProfileID: submission.SubmittedByProfileID,
		VoteData: httptransport.VoteDataDTO{
			SchemaVersion: submission.VoteData.SchemaVersion,
			SchemaType:    submission.VoteData.SchemaType,
			SubmissionMetadata: httptransport.SubmissionMetadataDTO{
				Timestamp: submission.VoteData.SubmissionMetadata.Timestamp,
				UserAgent: submission.VoteData.SubmissionMetadata.UserAgent,
			},
			ValidationSignature: submission.VoteData.ValidationSignature,
		},
		CustomData:          submission.CustomData,
		Signature:           submission.Signature,
		SelectedProposalIDs: selected,
		CreatedAt:           submission.CreatedAt,
	}, nil
}

func (h Handler) VotingStatusHandler(ctx context.Context, instanceID string, profileID string) (httptransport.VotingStatusResponse, error) {
	status, err := h.Status.GetVotingStatus(ctx, instanceID, profileID)
	if err != nil {
		return httptransport.VotingStatusResponse{}, err
	}
	return httptransport.VotingStatusResponse{
		InstanceID:   status.InstanceID,
		CurrentState: stateDTO(status.CurrentState),
		VotingConfig: httptransport.VotingConfigDTO{
			AllowDecisions:    status.VotingConfig.AllowDecisions,
			MaxVotesPerMember: status.VotingConfig.MaxVotesPerMember,
			AdditionalConfig:  status.VotingConfig.AdditionalConfig,
		},
		HasVoted:            status.HasVoted,
		ReadOnly:            status.ReadOnly,
		EligibleProposalIDs: status.EligibleProposalIDs,
		NextSteps:           statesDTO(status.NextSteps),
	}, nil
}

func (h Handler) ValidateSelectionHandler(
	ctx context.Context,
	instanceID string,
	req httptransport.ValidateSelectionRequest,
) (httptransport.ValidateSelectionResponse, error) {
	validation, err := h.Status.ValidateVoteSelection(ctx, instanceID, req.SelectedProposalIDs)
	if err != nil {
		return httptransport.ValidateSelectionResponse{}, err
	}
	return httptransport.ValidateSelectionResponse{
		IsValid: validation.IsValid,
		Errors:  validation.Errors,
	}, nil
}

func (h Handler) NextStepsHandler(ctx context.Context, instanceID string) (httptransport.NextStepsResponse, error) {
	steps, err := h.Reads.NextSteps(ctx, instanceID)
	if err != nil {
		return httptransport.NextStepsResponse{}, err
	}
	return httptransport.NextStepsResponse{
		InstanceID: instanceID,
		NextSteps:  statesDTO(steps),
	}, nil
}

func (h Handler) ProposalFormHandler(ctx context.Context, processID string) (httptransport.FormResponse, error) {
	fields, err := h.Reads.ProposalForm(ctx, processID)
	if err != nil {
		return httptransport.FormResponse{}, err
	}
	return httptransport.FormResponse{Fields: fieldDTOs(fields)}, nil
}

func (h Handler) RubricFormHandler(ctx context.Context, processID string) (httptransport.FormResponse, error) {
	fields, err := h.Reads.RubricForm(ctx, processID)
	if err != nil {
		return httptransport.FormResponse{}, err
	}
	return httptransport.FormResponse{Fields: fieldDTOs(fields)}, nil
}

func (h Handler) ResultsHandler(ctx context.Context, instanceID string) (httptransport.ResultsResponse, error) {
	tallies, err := h.Reads.Results(ctx, instanceID)
	if err != nil {
		return httptransport.ResultsResponse{}, err
	}
	items := make([]httptransport.ProposalTallyDTO, 0, len(tallies))
	for _, tally := range tallies {
		items = append(items, httptransport.ProposalTallyDTO{
			ProposalID: tally.ProposalID,
			Selections: tally.Selections,
		})
	}
	return httptransport.ResultsResponse{InstanceID: instanceID, Tallies: items}, nil
}

func decodeTemplate(raw json.RawMessage, field string) (*entities.TemplateDocument, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var template entities.TemplateDocument
	if err := json.Unmarshal(raw, &template); err != nil {
		return nil, domainerrors.NewValidationError("invalid template document", map[string][]string{
			field: {fmt.Sprintf("%s must be a JSON-Schema object: %v", field, err)},
		})
	}
	return &template, nil
}

func statesFromDTO(states []httptransport.StateDefinitionDTO) []entities.StateDefinition {
	items := make([]entities.StateDefinition, 0, len(states))
	for _, state := range states {
		item := entities.StateDefinition{
			ID:          state.ID,
			Name:        state.Name,
			Description: state.Description,
			Config: entities.StateConfig{
				AllowProposals: state.Config.AllowProposals,
				AllowDecisions: state.Config.AllowDecisions,
			},
		}
		if state.Phase != nil {
			item.Phase = &entities.PhaseWindow{
				StartDate: state.Phase.StartDate,
				EndDate:   state.Phase.EndDate,
			}
		}
		items = append(items, item)
	}
	return items
}

func stateDTO(state entities.StateDefinition) httptransport.StateDefinitionDTO {
	dto := httptransport.StateDefinitionDTO{
		ID:          state.ID,
		Name:        state.Name,
		Description: state.Description,
		Config: httptransport.StateConfigDTO{
			AllowProposals: state.Config.AllowProposals,
			AllowDecisions: state.Config.AllowDecisions,
		},
	}
	if state.Phase != nil {
		dto.Phase = &httptransport.PhaseWindowDTO{
			StartDate: state.Phase.StartDate,
			EndDate:   state.Phase.EndDate,
		}
	}
	return dto
}

func statesDTO(states []entities.StateDefinition) []httptransport.StateDefinitionDTO {
	items := make([]httptransport.StateDefinitionDTO, 0, len(states))
	for _, state := range states {
		items = append(items, stateDTO(state))
	}
	return items
}

func fieldDTOs(fields []entities.FieldDescriptor) []httptransport.FieldDescriptorDTO {
	items := make([]httptransport.FieldDescriptorDTO, 0, len(fields))
	for _, field := range fields {
		items = append(items, httptransport.FieldDescriptorDTO{
			Key:      field.Key,
			Format:   field.Format,
			IsSystem: field.IsSystem,
			Schema:   field.Schema,
		})
	}
	return items
}

func processResponse(process entities.Process) httptransport.ProcessResponse {
	return httptransport.ProcessResponse{
		ID:             process.ProcessID,
		OrganizationID: process.OrganizationID,
		Name:           process.Name,
		Description:    process.Description,
		SchemaType:     process.SchemaType,
		States:         statesDTO(process.States),
		CreatedAt:      process.CreatedAt,
	}
}

func instanceResponse(instance entities.ProcessInstance) httptransport.InstanceResponse {
	return httptransport.InstanceResponse{
		ID:                instance.InstanceID,
		ProcessID:         instance.ProcessID,
		OrganizationID:    instance.OrganizationID,
		OwnerProfileID:    instance.OwnerProfileID,
		Status:            string(instance.Status),
		CurrentStateID:    instance.InstanceData.CurrentStateID,
		MaxVotesPerMember: instance.InstanceData.MaxVotesPerMember,
		CreatedAt:         instance.CreatedAt,
	}
}

func proposalResponse(proposal entities.Proposal) httptransport.ProposalResponse {
	return httptransport.ProposalResponse{
		ID:                   proposal.ProposalID,
		ProcessInstanceID:    proposal.InstanceID,
		SubmittedByProfileID: proposal.SubmittedByProfileID,
		Status:               string(proposal.Status),
		ProposalData:         proposal.ProposalData,
		CreatedAt:            proposal.CreatedAt,
	}
}
