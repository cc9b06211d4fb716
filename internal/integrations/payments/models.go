package payments

import "github.com/shopspring/decimal"

// Типы событий Stripe, которые обрабатывает сервис
const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventCheckoutExpired   = "checkout.session.expired"
)

// Ключи metadata checkout-сессии
const (
	MetadataBookingID = "booking_id"
	MetadataOwnerID   = "owner_id"
)

// CheckoutRequest данные для открытия checkout-сессии по бронированию
type CheckoutRequest struct {
	BookingID     string
	OwnerID       string
	ServiceName   string
	Amount        decimal.Decimal
	Currency      string
	CustomerEmail *string
}

// CheckoutSession открытая checkout-сессия
type CheckoutSession struct {
	ID  string
	URL string
}

// WebhookEvent проверенное событие вебхука
// BookingID/OwnerID берутся из metadata сессии и могут быть пустыми для чужих событий
type WebhookEvent struct {
	ID        string
	Type      string
	SessionID string
	BookingID string
	OwnerID   string
}
