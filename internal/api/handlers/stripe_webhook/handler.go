package stripe_webhook

import (
	"errors"
	"io"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/service/bookings"
)

// SignatureHeader заголовок с подписью вебхука Stripe
const SignatureHeader = "Stripe-Signature"

// События Stripe не больше 512 КБ
const maxPayloadBytes = 1 << 20

const (
	msgInvalidPayload   = "Invalid payload"
	msgInvalidSignature = "Invalid signature"
)

type Handler struct {
	service WebhookService
	logger  Logger
}

func NewHandler(service WebhookService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/webhooks/stripe
// Подпись проверяется по сырому телу, поэтому тело не декодируется до сервиса
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil {
		h.logger.Warn("POST /webhooks/stripe - Failed to read body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPayload)
		return
	}

	err = h.service.HandlePaymentWebhook(r.Context(), payload, r.Header.Get(SignatureHeader))
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidSignature):
			h.logger.Warn("POST /webhooks/stripe - Rejected: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSignature)

		default:
			// 5xx: Stripe повторит доставку
			h.logger.Error("POST /webhooks/stripe - Failed to process event: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]bool{"received": true})
}
