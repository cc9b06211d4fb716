package business_hours

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// BusinessHoursRepository интерфейс репозитория часов работы
type BusinessHoursRepository interface {
	GetWithHierarchy(ctx context.Context, ownerID string, locationID *string) (*domain.BusinessHoursConfig, error)
	Upsert(ctx context.Context, config *domain.BusinessHoursConfig) (*domain.BusinessHoursConfig, error)
}

// PermissionChecker проверка прав пользователя у владельца
type PermissionChecker interface {
	Require(ctx context.Context, ownerID, userID string, allowed func(domain.Permissions) bool) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
