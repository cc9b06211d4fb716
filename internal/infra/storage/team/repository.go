package team

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

// Repository репозиторий участников команды владельца
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория команды
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetMember получает активного участника команды владельца по ID пользователя
func (r *Repository) GetMember(ctx context.Context, ownerID, userID string) (*domain.TeamMember, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"owner_id",
		"user_id",
		"role",
		"can_manage_bookings",
		"can_manage_services",
		"can_manage_staff",
		"can_manage_settings",
		"can_view_reports",
		"can_manage_billing",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("team_members").
		Where(squirrel.Eq{"owner_id": ownerID, "user_id": userID, "is_active": true}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetMember - build select query: %v", ErrBuildQuery, err)
	}

	var member domain.TeamMember
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&member.ID,
		&member.OwnerID,
		&member.UserID,
		&member.Role,
		&member.Permissions.CanManageBookings,
		&member.Permissions.CanManageServices,
		&member.Permissions.CanManageStaff,
		&member.Permissions.CanManageSettings,
		&member.Permissions.CanViewReports,
		&member.Permissions.CanManageBilling,
		&member.IsActive,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetMember - scan member: %v", ErrScanRow, err)
	}

	member.CreatedAt = createdAt.Time
	member.UpdatedAt = updatedAt.Time

	return &member, nil
}
