package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"agora/contexts/governance/decision-service/domain/entities"
	domainerrors "agora/contexts/governance/decision-service/domain/errors"
	"agora/contexts/governance/decision-service/ports"
	"agora/internal/shared/outbox"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) SaveProcess(ctx context.Context, process entities.Process) error {
	row, err := processModelFromEntity(process)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
		return r.logError("decision_repo_save_process_failed", err, "process_id", process.ProcessID)
	}
	return nil
}

func (r *Repository) GetProcess(ctx context.Context, processID string) (entities.Process, error) {
	var row processModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(processID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Process{}, domainerrors.ErrProcessNotFound
		}
		return entities.Process{}, r.logError("decision_repo_get_process_failed", err, "process_id", strings.TrimSpace(processID))
	}
	return row.toEntity()
}

func (r *Repository) ListProcessesByOrganization(ctx context.Context, organizationID string) ([]entities.Process, error) {
	tx := r.db.WithContext(ctx).Model(&processModel{})
	if strings.TrimSpace(organizationID) != "" {
		tx = tx.Where("organization_id = ?", strings.TrimSpace(organizationID))
	}
	var rows []processModel
	if err := tx.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, r.logError("decision_repo_list_processes_failed", err, "organization_id", strings.TrimSpace(organizationID))
	}
	items := make([]entities.Process, 0, len(rows))
	for _, row := range rows {
		process, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, process)
	}
	return items, nil
}

func (r *Repository) SaveInstance(ctx context.Context, instance entities.ProcessInstance) error {
	row, err := instanceModelFromEntity(instance)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
		return r.logError("decision_repo_save_instance_failed", err, "instance_id", instance.InstanceID)
	}
	return nil
}

func (r *Repository) GetInstance(ctx context.Context, instanceID string) (entities.ProcessInstance, error) {
	var row instanceModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(instanceID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.ProcessInstance{}, domainerrors.ErrInstanceNotFound
		}
		return entities.ProcessInstance{}, r.logError("decision_repo_get_instance_failed", err, "instance_id", strings.TrimSpace(instanceID))
	}
	return row.toEntity()
}

func (r *Repository) DeleteInstance(ctx context.Context, instanceID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(instanceID)).
		Delete(&instanceModel{})
	if result.Error != nil {
		return r.logError("decision_repo_delete_instance_failed", result.Error, "instance_id", strings.TrimSpace(instanceID))
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrInstanceNotFound
	}
	return nil
}

func (r *Repository) SaveProposal(ctx context.Context, proposal entities.Proposal) error {
	row, err := proposalModelFromEntity(proposal)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
		return r.logError("decision_repo_save_proposal_failed", err, "proposal_id", proposal.ProposalID)
	}
	return nil
}

func (r *Repository) GetProposal(ctx context.Context, proposalID string) (entities.Proposal, error) {
	var row proposalModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(proposalID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Proposal{}, domainerrors.ErrProposalNotFound
		}
		return entities.Proposal{}, r.logError("decision_repo_get_proposal_failed", err, "proposal_id", strings.TrimSpace(proposalID))
	}
	return row.toEntity()
}

func (r *Repository) ListProposalsByInstance(ctx context.Context, instanceID string) ([]entities.Proposal, error) {
	var rows []proposalModel
	if err := r.db.WithContext(ctx).
		Where("instance_id = ?", strings.TrimSpace(instanceID)).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("decision_repo_list_proposals_failed", err, "instance_id", strings.TrimSpace(instanceID))
	}
	items := make([]entities.Proposal, 0, len(rows))
	for _, row := range rows {
		proposal, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, proposal)
	}
	return items, nil
}

func (r *Repository) GetBallotByVoter(ctx context.Context, instanceID string, profileID string) (entities.VoteSubmission, bool, error) {
	var row voteSubmissionModel
	err := r.db.WithContext(ctx).
		Where("instance_id = ?", strings.TrimSpace(instanceID)).
		Where("submitted_by_profile_id = ?", strings.TrimSpace(profileID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.VoteSubmission{}, false, nil
		}
		return entities.VoteSubmission{}, false, r.logError("decision_repo_get_ballot_failed", err,
			"instance_id", strings.TrimSpace(instanceID),
			"profile_id", strings.TrimSpace(profileID),
		)
	}
	ballot, err := row.toEntity()
	if err != nil {
		return entities.VoteSubmission{}, false, err
	}
	return ballot, true, nil
}

func (r *Repository) ListSelectionsByInstance(ctx context.Context, instanceID string) ([]entities.VoteProposalSelection, error) {
	var rows []voteSelectionModel
	err := r.db.WithContext(ctx).
		Table("vote_proposal_selections AS sel").
		Select("sel.*").
		Joins("JOIN vote_submissions AS sub ON sub.id = sel.vote_submission_id").
		Where("sub.instance_id = ?", strings.TrimSpace(instanceID)).
		Order("sel.vote_submission_id ASC, sel.proposal_id ASC").
		Scan(&rows).
		Error
	if err != nil {
		return nil, r.logError("decision_repo_list_selections_failed", err, "instance_id", strings.TrimSpace(instanceID))
	}
	items := make([]entities.VoteProposalSelection, 0, len(rows))
	for _, row := range rows {
		items = append(items, entities.VoteProposalSelection{
			SubmissionID: row.VoteSubmissionID,
			ProposalID:   row.ProposalID,
		})
	}
	return items, nil
}

// RecordBallot writes the ballot, its selections and the outbox row in one
// transaction. The unique index on (instance_id, submitted_by_profile_id) is
// the authoritative one-ballot guarantee; its violation comes back as the
// already-voted conflict, never as a raw database error.
func (r *Repository) RecordBallot(
	ctx context.Context,
	submission entities.VoteSubmission,
	selections []entities.VoteProposalSelection,
	message ports.OutboxMessage,
) error {
	submissionRow, err := voteSubmissionModelFromEntity(submission)
	if err != nil {
		return err
	}
	selectionRows := make([]voteSelectionModel, 0, len(selections))
	for _, selection := range selections {
		selectionRows = append(selectionRows, voteSelectionModel{
			VoteSubmissionID: selection.SubmissionID,
			ProposalID:       selection.ProposalID,
		})
	}
	outboxRow := outboxModel{
		OutboxID:     message.OutboxID,
		EventType:    message.EventType,
		PartitionKey: message.PartitionKey,
		Payload:      message.Payload,
		Status:       outbox.StatusPending,
		CreatedAt:    message.CreatedAt.UTC(),
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&submissionRow).Error; err != nil {
			return err
		}
		if len(selectionRows) > 0 {
			if err := tx.Create(&selectionRows).Error; err != nil {
				return err
			}
		}
		return tx.Create(&outboxRow).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyVoted
		}
		return r.logError("decision_repo_record_ballot_failed", err,
			"submission_id", submission.SubmissionID,
			"instance_id", submission.InstanceID,
			"profile_id", submission.SubmittedByProfileID,
		)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outbox.StatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("decision_repo_list_outbox_failed", err)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      row.Payload,
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error {
	sent := sentAt.UTC()
	err := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{
			"status":  outbox.StatusSent,
			"sent_at": &sent,
		}).Error
	if err != nil {
		return r.logError("decision_repo_mark_outbox_sent_failed", err, "outbox_id", outboxID)
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "governance/decision-service",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("decision repository operation failed", fields...)
	return fmt.Errorf("decision repository: %w", err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type processModel struct {
	ID               string         `gorm:"column:id;primaryKey"`
	OrganizationID   string         `gorm:"column:organization_id;index"`
	Name             string         `gorm:"column:name"`
	Description      string         `gorm:"column:description"`
	SchemaType       string         `gorm:"column:schema_type"`
	States           datatypes.JSON `gorm:"column:states"`
	ProposalTemplate datatypes.JSON `gorm:"column:proposal_template"`
	RubricTemplate   datatypes.JSON `gorm:"column:rubric_template"`
	CreatedAt        time.Time      `gorm:"column:created_at"`
	UpdatedAt        time.Time      `gorm:"column:updated_at"`
}

func (processModel) TableName() string {
	return "decision_processes"
}

type instanceModel struct {
	ID             string         `gorm:"column:id;primaryKey"`
	ProcessID      string         `gorm:"column:process_id;index"`
	OrganizationID string         `gorm:"column:organization_id;index"`
	OwnerProfileID string         `gorm:"column:owner_profile_id"`
	ProfileID      string         `gorm:"column:profile_id"`
	Status         string         `gorm:"column:status"`
	InstanceData   datatypes.JSON `gorm:"column:instance_data"`
	CreatedAt      time.Time      `gorm:"column:created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at"`
}

func (instanceModel) TableName() string {
	return "process_instances"
}

type proposalModel struct {
	ID                   string         `gorm:"column:id;primaryKey"`
	InstanceID           string         `gorm:"column:instance_id;index"`
	SubmittedByProfileID string         `gorm:"column:submitted_by_profile_id"`
	Status               string         `gorm:"column:status"`
	ProposalData         datatypes.JSON `gorm:"column:proposal_data"`
	CreatedAt            time.Time      `gorm:"column:created_at"`
	UpdatedAt            time.Time      `gorm:"column:updated_at"`
}

func (proposalModel) TableName() string {
	return "proposals"
}

type voteSubmissionModel struct {
	ID                   string         `gorm:"column:id;primaryKey"`
	InstanceID           string         `gorm:"column:instance_id;uniqueIndex:uq_vote_submissions_voter,priority:1"`
	SubmittedByProfileID string         `gorm:"column:submitted_by_profile_id;uniqueIndex:uq_vote_submissions_voter,priority:2"`
	VoteData             datatypes.JSON `gorm:"column:vote_data"`
	CustomData           datatypes.JSON `gorm:"column:custom_data"`
	Signature            string         `gorm:"column:signature"`
	CreatedAt            time.Time      `gorm:"column:created_at"`
}

func (voteSubmissionModel) TableName() string {
	return "vote_submissions"
}

type voteSelectionModel struct {
	VoteSubmissionID string `gorm:"column:vote_submission_id;primaryKey"`
	ProposalID       string `gorm:"column:proposal_id;primaryKey"`
}

func (voteSelectionModel) TableName() string {
	return "vote_proposal_selections"
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	SentAt       *time.Time `gorm:"column:sent_at"`
}

func (outboxModel) TableName() string {
	return "governance_outbox"
}

func processModelFromEntity(process entities.Process) (processModel, error) {
	states, err := json.Marshal(process.States)
	if err != nil {
		return processModel{}, err
	}
	row := processModel{
		ID:             process.ProcessID,
		OrganizationID: process.OrganizationID,
		Name:           process.Name,
		Description:    process.Description,
		SchemaType:     process.SchemaType,
		States:         datatypes.JSON(states),
		CreatedAt:      process.CreatedAt.UTC(),
		UpdatedAt:      process.UpdatedAt.UTC(),
	}
	if process.ProposalTemplate != nil {
		template, err := json.Marshal(process.ProposalTemplate)
		if err != nil {
			return processModel{}, err
		}
		row.ProposalTemplate = datatypes.JSON(template)
	}
	if process.RubricTemplate != nil {
		template, err := json.Marshal(process.RubricTemplate)
		if err != nil {
			return processModel{}, err
		}
		row.RubricTemplate = datatypes.JSON(template)
	}
	return row, nil
}

func (m processModel) toEntity() (entities.Process, error) {
	process := entities.Process{
		ProcessID:      m.ID,
		OrganizationID: m.OrganizationID,
		Name:           m.Name,
		Description:    m.Description,
		SchemaType:     m.SchemaType,
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
	if len(m.States) > 0 {
		if err := json.Unmarshal(m.States, &process.States); err != nil {
			return entities.Process{}, fmt.Errorf("decode process states: %w", err)
		}
	}
	if len(m.ProposalTemplate) > 0 {
		var template entities.TemplateDocument
		if err := json.Unmarshal(m.ProposalTemplate, &template); err != nil {
			return entities.Process{}, fmt.Errorf("decode proposal template: %w", err)
		}
		process.ProposalTemplate = &template
	}
	if len(m.RubricTemplate) > 0 {
		var template entities.TemplateDocument
		if err := json.Unmarshal(m.RubricTemplate, &template); err != nil {
			return entities.Process{}, fmt.Errorf("decode rubric template: %w", err)
		}
		process.RubricTemplate = &template
	}
	return process, nil
}

func instanceModelFromEntity(instance entities.ProcessInstance) (instanceModel, error) {
	data, err := json.Marshal(instance.InstanceData)
	if err != nil {
		return instanceModel{}, err
	}
	return instanceModel{
		ID:             instance.InstanceID,
		ProcessID:      instance.ProcessID,
		OrganizationID: instance.OrganizationID,
		OwnerProfileID: instance.OwnerProfileID,
		ProfileID:      instance.ProfileID,
		Status:         string(instance.Status),
		InstanceData:   datatypes.JSON(data),
		CreatedAt:      instance.CreatedAt.UTC(),
		UpdatedAt:      instance.UpdatedAt.UTC(),
	}, nil
}

func (m instanceModel) toEntity() (entities.ProcessInstance, error) {
	instance := entities.ProcessInstance{
		InstanceID:     m.ID,
		ProcessID:      m.ProcessID,
		OrganizationID: m.OrganizationID,
		OwnerProfileID: m.OwnerProfileID,
		ProfileID:      m.ProfileID,
		Status:         entities.InstanceStatus(m.Status),
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
	if len(m.InstanceData) > 0 {
		if err := json.Unmarshal(m.InstanceData, &instance.InstanceData); err != nil {
			return entities.ProcessInstance{}, fmt.Errorf("decode instance data: %w", err)
		}
	}
	return instance, nil
}

func proposalModelFromEntity(proposal entities.Proposal) (proposalModel, error) {
	data, err := json.Marshal(proposal.ProposalData)
	if err != nil {
		return proposalModel{}, err
	}
	return proposalModel{
		ID:                   proposal.ProposalID,
		InstanceID:           proposal.InstanceID,
		SubmittedByProfileID: proposal.SubmittedByProfileID,
		Status:               string(proposal.Status),
		ProposalData:         datatypes.JSON(data),
		CreatedAt:            proposal.CreatedAt.UTC(),
		UpdatedAt:            proposal.UpdatedAt.UTC(),
	}, nil
}

func (m proposalModel) toEntity() (entities.Proposal, error) {
	proposal := entities.Proposal{
		ProposalID:           m.ID,
		InstanceID:           m.InstanceID,
		SubmittedByProfileID: m.SubmittedByProfileID,
		Status:               entities.ProposalStatus(m.Status),
		CreatedAt:            m.CreatedAt.UTC(),
		UpdatedAt:            m.UpdatedAt.UTC(),
	}
	if len(m.ProposalData) > 0 {
		if err := json.Unmarshal(m.ProposalData, &proposal.ProposalData); err != nil {
			return entities.Proposal{}, fmt.Errorf("decode proposal data: %w", err)
		}
	}
	return proposal, nil
}

func voteSubmissionModelFromEntity(submission entities.VoteSubmission) (voteSubmissionModel, error) {
	voteData, err := json.Marshal(submission.VoteData)
	if err != nil {
		return voteSubmissionModel{}, err
	}
	row := voteSubmissionModel{
		ID:                   submission.SubmissionID,
		InstanceID:           submission.InstanceID,
		SubmittedByProfileID: submission.SubmittedByProfileID,
		VoteData:             datatypes.JSON(voteData),
		Signature:            submission.Signature,
		CreatedAt:            submission.CreatedAt.UTC(),
	}
	if len(submission.CustomData) > 0 {
		customData, err := json.Marshal(submission.CustomData)
		if err != nil {
			return voteSubmissionModel{}, err
		}
		row.CustomData = datatypes.JSON(customData)
	}
	return row, nil
}

func (m voteSubmissionModel) toEntity() (entities.VoteSubmission, error) {
	submission := entities.VoteSubmission{
		SubmissionID:         m.ID,
		InstanceID:           m.InstanceID,
		SubmittedByProfileID: m.SubmittedByProfileID,
		Signature:            m.Signature,
		CreatedAt:            m.CreatedAt.UTC(),
	}
	if len(m.VoteData) > 0 {
		if err := json.Unmarshal(m.VoteData, &submission.VoteData); err != nil {
			return entities.VoteSubmission{}, fmt.Errorf("decode vote data: %w", err)
		}
	}
	if len(m.CustomData) > 0 {
		if err := json.Unmarshal(m.CustomData, &submission.CustomData); err != nil {
			return entities.VoteSubmission{}, fmt.Errorf("decode custom data: %w", err)
		}
	}
	return submission, nil
}

var _ ports.ProcessRepository = (*Repository)(nil)
var _ ports.ProposalRepository = (*Repository)(nil)
var _ ports.BallotRepository = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
