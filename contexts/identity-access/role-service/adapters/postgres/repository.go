package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"agora/contexts/identity-access/role-service/domain/entities"
	domainerrors "agora/contexts/identity-access/role-service/domain/errors"
	"agora/contexts/identity-access/role-service/domain/valueobjects"
	"agora/contexts/identity-access/role-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
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

func (r *Repository) SaveRole(ctx context.Context, role entities.DecisionRole) error {
	row := roleModelFromEntity(role)
	if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
		return r.logError("role_repo_save_failed", err, "role_id", role.RoleID)
	}
	return nil
}

func (r *Repository) GetRole(ctx context.Context, roleID string) (entities.DecisionRole, error) {
	var row roleModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(roleID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.DecisionRole{}, domainerrors.ErrRoleNotFound
		}
		return entities.DecisionRole{}, r.logError("role_repo_get_failed", err, "role_id", strings.TrimSpace(roleID))
	}
	return row.toEntity(), nil
}

func (r *Repository) ListRolesByZone(ctx context.Context, zone string) ([]entities.DecisionRole, error) {
	var rows []roleModel
	err := r.db.WithContext(ctx).
		Where("zone = ?", strings.TrimSpace(zone)).
		Order("id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("role_repo_list_zone_failed", err, "zone", strings.TrimSpace(zone))
	}
	items := make([]entities.DecisionRole, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) BindRole(ctx context.Context, binding entities.RoleBinding) error {
	row := bindingModel{
		ProfileID: binding.ProfileID,
		RoleID:    binding.RoleID,
		CreatedAt: binding.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrRoleAlreadyBound
		}
		return r.logError("role_repo_bind_failed", err,
			"role_id", binding.RoleID,
			"profile_id", binding.ProfileID,
		)
	}
	return nil
}

func (r *Repository) ListRolesByProfile(ctx context.Context, zone string, profileID string) ([]entities.DecisionRole, error) {
	tx := r.db.WithContext(ctx).
		Model(&roleModel{}).
		Joins("JOIN decision_role_bindings ON decision_role_bindings.role_id = decision_roles.id").
		Where("decision_role_bindings.profile_id = ?", strings.TrimSpace(profileID))
	if strings.TrimSpace(zone) != "" {
		tx = tx.Where("decision_roles.zone = ?", strings.TrimSpace(zone))
	}
	var rows []roleModel
	if err := tx.Order("decision_roles.id ASC").Find(&rows).Error; err != nil {
		return nil, r.logError("role_repo_list_profile_failed", err,
			"profile_id", strings.TrimSpace(profileID),
			"zone", strings.TrimSpace(zone),
		)
	}
	items := make([]entities.DecisionRole, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "identity-access/role-service",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("role repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type roleModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	Zone        string    `gorm:"column:zone;index"`
	Name        string    `gorm:"column:name"`
	Description string    `gorm:"column:description"`
	Permissions int       `gorm:"column:permissions"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (roleModel) TableName() string { return "decision_roles" }

func (m roleModel) toEntity() entities.DecisionRole {
	return entities.DecisionRole{
		RoleID:      m.ID,
		Zone:        m.Zone,
		Name:        m.Name,
		Description: m.Description,
		Permissions: valueobjects.DecodePermissions(m.Permissions),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func roleModelFromEntity(role entities.DecisionRole) roleModel {
	return roleModel{
		ID:          role.RoleID,
		Zone:        role.Zone,
		Name:        role.Name,
		Description: role.Description,
		Permissions: role.Permissions.Encode(),
		CreatedAt:   role.CreatedAt,
		UpdatedAt:   role.UpdatedAt,
	}
}

type bindingModel struct {
	ProfileID string    `gorm:"column:profile_id;primaryKey"`
	RoleID    string    `gorm:"column:role_id;primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (bindingModel) TableName() string { return "decision_role_bindings" }

var _ ports.RoleRepository = (*Repository)(nil)
