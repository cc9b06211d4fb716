package update_business_hours

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	businessHours "github.com/m04kA/SMC-SalonBooking/internal/service/business_hours"
	"github.com/m04kA/SMC-SalonBooking/internal/service/business_hours/models"
)

const (
	msgMissingUserID      = "Missing user ID"
	msgInvalidRequestBody = "Invalid request body"
	msgInvalidHours       = "Invalid business hours"
	msgForbidden          = "Access denied"
)

type Handler struct {
	service BusinessHoursService
	logger  Logger
}

func NewHandler(service BusinessHoursService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/owners/{ownerId}/business-hours
// Query params: locationId (опционально)
// Заменяет недельное расписание целиком
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ownerID := mux.Vars(r)["ownerId"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /owners/{id}/business-hours - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.UpdateBusinessHoursRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /owners/{id}/business-hours - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	req.UserID = userID
	req.OwnerID = ownerID
	if v := r.URL.Query().Get("locationId"); v != "" {
		req.LocationID = &v
	}

	// Сервис сам проверит право CanManageSettings
	result, err := h.service.Update(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, businessHours.ErrAccessDenied):
			h.logger.Warn("PUT /owners/{id}/business-hours - Access denied: owner_id=%s, user_id=%s", ownerID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, businessHours.ErrInvalidHours), errors.Is(err, businessHours.ErrInvalidInput):
			h.logger.Warn("PUT /owners/{id}/business-hours - Invalid hours: owner_id=%s, error=%v", ownerID, err)
			handlers.RespondBadRequest(w, msgInvalidHours)

		default:
			h.logger.Error("PUT /owners/{id}/business-hours - Failed to update business hours: owner_id=%s, error=%v",
				ownerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /owners/{id}/business-hours - Business hours updated successfully: owner_id=%s, user_id=%s",
		ownerID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
