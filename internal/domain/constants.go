package domain

import "github.com/m04kA/SMC-SalonBooking/pkg/types"

// Default availability values
const (
	DefaultOpenTime          types.TimeString = "09:00"
	DefaultCloseTime         types.TimeString = "17:00"
	DefaultSlotStrideMinutes int              = 30
)

// Business validation constants
const (
	MinServiceDurationMinutes   = 5
	MaxServiceDurationMinutes   = 480 // 8 hours
	MaxCustomerNameLength       = 200
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Причины отмены, которые выставляет сама система
const (
	CancelReasonCheckoutFailed = "checkout_failed"
	CancelReasonPaymentExpired = "payment_expired"
	CancelReasonByCustomer     = "cancelled_by_customer"
	CancelReasonByStaff        = "cancelled_by_staff"
)
