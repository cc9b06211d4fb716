package permissions

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// TeamRepository интерфейс репозитория сотрудников
type TeamRepository interface {
	GetMember(ctx context.Context, ownerID, userID string) (*domain.TeamMember, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
