package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v79"
	checkoutsession "github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/webhook"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// sessionCreator создание checkout-сессий (*checkoutsession.Client)
type sessionCreator interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// Config настройки клиента Stripe
type Config struct {
	SecretKey        string
	WebhookSecret    string
	WebhookTolerance time.Duration
	SuccessURL       string
	CancelURL        string
}

// Client клиент Stripe Checkout
// Собственный checkoutsession.Client вместо глобального stripe.Key
type Client struct {
	sessions      sessionCreator
	webhookSecret string
	tolerance     time.Duration
	successURL    string
	cancelURL     string
	log           Logger
}

// NewClient создает новый экземпляр клиента Stripe
func NewClient(cfg Config, log Logger) *Client {
	return &Client{
		sessions: &checkoutsession.Client{
			B:   stripe.GetBackend(stripe.APIBackend),
			Key: cfg.SecretKey,
		},
		webhookSecret: cfg.WebhookSecret,
		tolerance:     cfg.WebhookTolerance,
		successURL:    cfg.SuccessURL,
		cancelURL:     cfg.CancelURL,
		log:           log,
	}
}

// CreateCheckoutSession открывает checkout-сессию на оплату бронирования
// В metadata сессии кладутся booking_id и owner_id, по ним вебхук находит бронирование
func (c *Client) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	currency := strings.ToLower(req.Currency)

	amount, err := ToMinorUnits(req.Amount, currency)
	if err != nil {
		return nil, err
	}

	metadata := map[string]string{
		MetadataBookingID: req.BookingID,
		MetadataOwnerID:   req.OwnerID,
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(c.successURL),
		CancelURL:         stripe.String(c.cancelURL),
		ClientReferenceID: stripe.String(req.BookingID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(currency),
					UnitAmount: stripe.Int64(amount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.ServiceName),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: metadata,
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: metadata,
		},
	}
	if req.CustomerEmail != nil && *req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(*req.CustomerEmail)
	}
	params.Context = ctx
	// Повторный запрос по тому же бронированию вернёт ту же сессию
	params.SetIdempotencyKey("booking-checkout-" + req.BookingID)

	sess, err := c.sessions.New(params)
	if err != nil {
		c.log.Error("Stripe checkout session create failed for booking=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: booking=%s: %v", ErrCheckoutFailed, req.BookingID, err)
	}

	c.log.Info("Stripe checkout session %s created for booking=%s, amount=%d %s", sess.ID, req.BookingID, amount, currency)

	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// ParseWebhookEvent проверяет подпись вебхука и достает из события данные checkout-сессии
func (c *Client) ParseWebhookEvent(payload []byte, signature string) (*WebhookEvent, error) {
	evt, err := webhook.ConstructEventWithOptions(payload, signature, c.webhookSecret, webhook.ConstructEventOptions{
		Tolerance:                c.tolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	result := &WebhookEvent{
		ID:   evt.ID,
		Type: string(evt.Type),
	}

	switch result.Type {
	case EventCheckoutCompleted, EventCheckoutExpired:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(evt.Data.Raw, &session); err != nil {
			return nil, fmt.Errorf("%w: event=%s: %v", ErrInvalidPayload, evt.ID, err)
		}
		result.SessionID = session.ID
		result.BookingID = strings.TrimSpace(session.Metadata[MetadataBookingID])
		result.OwnerID = strings.TrimSpace(session.Metadata[MetadataOwnerID])
	}

	return result, nil
}

// zeroDecimalCurrencies валюты без дробной части (сумма передаётся как есть)
var zeroDecimalCurrencies = map[string]struct{}{
	"bif": {}, "clp": {}, "djf": {}, "gnf": {}, "jpy": {}, "kmf": {}, "krw": {}, "mga": {},
	"pyg": {}, "rwf": {}, "ugx": {}, "vnd": {}, "vuv": {}, "xaf": {}, "xof": {}, "xpf": {},
}

// ToMinorUnits переводит сумму в минимальные единицы валюты (центы и т.п.)
func ToMinorUnits(amount decimal.Decimal, currency string) (int64, error) {
	if !amount.IsPositive() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidAmount, amount.String())
	}

	exp := int32(2)
	if _, ok := zeroDecimalCurrencies[strings.ToLower(currency)]; ok {
		exp = 0
	}

	return amount.Shift(exp).Round(0).IntPart(), nil
}
