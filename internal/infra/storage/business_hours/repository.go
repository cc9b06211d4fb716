package business_hours

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

// Repository репозиторий часов работы
// Часы хранятся в колонке hours (JSONB) и разбираются в domain.WeekHours
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория часов работы
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByOwnerAndLocation получает конфигурацию ровно указанного уровня
// locationID == nil - конфигурация для всех филиалов владельца
func (r *Repository) GetByOwnerAndLocation(ctx context.Context, ownerID string, locationID *string) (*domain.BusinessHoursConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"owner_id",
		"location_id",
		"hours",
		"created_at",
		"updated_at",
	).
		From("business_hours").
		Where(squirrel.Eq{"owner_id": ownerID})

	// Фильтрация по location_id (NULL или конкретное значение)
	if locationID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"location_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"location_id": *locationID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOwnerAndLocation - build select query: %v", ErrBuildQuery, err)
	}

	var config domain.BusinessHoursConfig
	var rawHours []byte
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&config.ID,
		&config.OwnerID,
		&config.LocationID,
		&rawHours,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOwnerAndLocation - scan config: %v", ErrScanRow, err)
	}

	if len(rawHours) > 0 {
		if err := json.Unmarshal(rawHours, &config.Hours); err != nil {
			return nil, fmt.Errorf("%w: owner=%s: %v", ErrDecodeHours, ownerID, err)
		}
	}

	config.CreatedAt = createdAt.Time
	config.UpdatedAt = updatedAt.Time

	return &config, nil
}

// GetWithHierarchy получает конфигурацию с учетом иерархии приоритетов
// Приоритет:
// 1. Конфигурация конкретного филиала (если locationID указан)
// 2. Конфигурация владельца для всех филиалов
//
// Если конфигурация не найдена ни на одном уровне, возвращает ErrConfigNotFound
func (r *Repository) GetWithHierarchy(ctx context.Context, ownerID string, locationID *string) (*domain.BusinessHoursConfig, error) {
	// 1. Пробуем получить конфигурацию филиала
	if locationID != nil {
		config, err := r.GetByOwnerAndLocation(ctx, ownerID, locationID)
		if err == nil {
			return config, nil
		}
		if !errors.Is(err, ErrConfigNotFound) {
			return nil, err
		}
	}

	// 2. Пробуем получить конфигурацию владельца
	return r.GetByOwnerAndLocation(ctx, ownerID, nil)
}

// Upsert сохраняет часы работы для уровня (ownerID, locationID)
// Сначала пробует обновить существующую запись, затем вставляет новую.
// Для атомарности вызывать внутри транзакции
func (r *Repository) Upsert(ctx context.Context, config *domain.BusinessHoursConfig) (*domain.BusinessHoursConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	rawHours, err := json.Marshal(config.Hours)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - encode hours: %v", ErrBuildQuery, err)
	}

	updateBuilder := psqlbuilder.Update("business_hours").
		Set("hours", rawHours).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"owner_id": config.OwnerID})

	if config.LocationID == nil {
		updateBuilder = updateBuilder.Where(squirrel.Eq{"location_id": nil})
	} else {
		updateBuilder = updateBuilder.Where(squirrel.Eq{"location_id": *config.LocationID})
	}

	query, args, err := updateBuilder.Suffix("RETURNING id, created_at, updated_at").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build update query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&config.ID, &createdAt, &updatedAt)
	if err == nil {
		config.CreatedAt = createdAt.Time
		config.UpdatedAt = updatedAt.Time
		return config, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: Upsert - execute update: %v", ErrExecQuery, err)
	}

	// Записи ещё нет - создаём
	query, args, err = psqlbuilder.Insert("business_hours").
		Columns("owner_id", "location_id", "hours").
		Values(config.OwnerID, config.LocationID, rawHours).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&config.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	config.CreatedAt = createdAt.Time
	config.UpdatedAt = updatedAt.Time

	return config, nil
}
