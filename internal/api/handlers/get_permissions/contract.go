package get_permissions

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/service/permissions/models"
)

type PermissionsService interface {
	GetUserPermissions(ctx context.Context, ownerID, userID string) (*models.PermissionsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
