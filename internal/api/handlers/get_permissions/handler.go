package get_permissions

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/service/permissions"
)

const (
	msgMissingUserID = "Missing user ID"
	msgForbidden     = "Access denied"
)

type Handler struct {
	service PermissionsService
	logger  Logger
}

func NewHandler(service PermissionsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/owners/{ownerId}/permissions
// Права текущего пользователя (X-User-ID) у владельца
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ownerID := mux.Vars(r)["ownerId"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /owners/{id}/permissions - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.GetUserPermissions(r.Context(), ownerID, userID)
	if err != nil {
		switch {
		case errors.Is(err, permissions.ErrAccessDenied), errors.Is(err, permissions.ErrInvalidInput):
			h.logger.Warn("GET /owners/{id}/permissions - Access denied: owner_id=%s, user_id=%s", ownerID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /owners/{id}/permissions - Failed to resolve permissions: owner_id=%s, user_id=%s, error=%v",
				ownerID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
