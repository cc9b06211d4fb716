package get_available_slots

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetByOwnerWithFilter получает бронирования владельца, пересекающие интервал фильтра
	GetByOwnerWithFilter(ctx context.Context, filter domain.OwnerBookingsFilter) ([]*domain.Booking, error)
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Service, error)
}

// BusinessHoursRepository интерфейс репозитория рабочих часов
type BusinessHoursRepository interface {
	// GetWithHierarchy получает часы локации, а при их отсутствии часы владельца
	GetWithHierarchy(ctx context.Context, ownerID string, locationID *string) (*domain.BusinessHoursConfig, error)
}

// SlotsRecorder метрики выдачи слотов
type SlotsRecorder interface {
	ObserveAvailableSlots(count int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
