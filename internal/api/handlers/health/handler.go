package health

import (
	"context"
	"net/http"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
)

const msgDatabaseUnavailable = "Database unavailable"

// Pinger проверка доступности базы
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Logger interface {
	Warn(format string, v ...interface{})
}

type Handler struct {
	db      Pinger
	timeout time.Duration
	logger  Logger
}

func NewHandler(db Pinger, timeout time.Duration, logger Logger) *Handler {
	return &Handler{
		db:      db,
		timeout: timeout,
		logger:  logger,
	}
}

// Live GET /health
// Процесс жив и принимает запросы
func (h *Handler) Live(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// Ready GET /ready
// Сервис готов обслуживать запросы: база отвечает
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Warn("GET /ready - Database ping failed: %v", err)
		handlers.RespondError(w, http.StatusServiceUnavailable, msgDatabaseUnavailable)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
