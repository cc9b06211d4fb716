package get_business_hours

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
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

// Handle GET /api/v1/owners/{ownerId}/business-hours
// Query params: locationId (опционально)
// Публичный endpoint - без авторизации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ownerID := mux.Vars(r)["ownerId"]

	var locationID *string
	if v := r.URL.Query().Get("locationId"); v != "" {
		locationID = &v
	}

	// Если расписание не сохранено, сервис вернет неделю по умолчанию
	result, err := h.service.Get(r.Context(), ownerID, locationID)
	if err != nil {
		h.logger.Error("GET /owners/{id}/business-hours - Failed to get business hours: owner_id=%s, error=%v",
			ownerID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /owners/{id}/business-hours - Business hours retrieved successfully: owner_id=%s, is_default=%t",
		ownerID, result.IsDefault)
	handlers.RespondJSON(w, http.StatusOK, result)
}
