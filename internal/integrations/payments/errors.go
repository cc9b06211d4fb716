package payments

import "errors"

var (
	// ErrCheckoutFailed возвращается, когда Stripe не создал checkout-сессию
	ErrCheckoutFailed = errors.New("payments client: failed to create checkout session")

	// ErrInvalidSignature возвращается, когда подпись вебхука не прошла проверку
	ErrInvalidSignature = errors.New("payments client: invalid webhook signature")

	// ErrInvalidPayload возвращается, когда тело события не удалось разобрать
	ErrInvalidPayload = errors.New("payments client: invalid webhook payload")

	// ErrInvalidAmount возвращается при отрицательной или нулевой сумме оплаты
	ErrInvalidAmount = errors.New("payments client: invalid amount")
)
