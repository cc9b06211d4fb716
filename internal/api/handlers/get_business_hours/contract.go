package get_business_hours

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/service/business_hours/models"
)

type BusinessHoursService interface {
	Get(ctx context.Context, ownerID string, locationID *string) (*models.BusinessHoursResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
