package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// IsValid returns true for one of the known statuses
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// Booking represents an appointment of a customer for a service of an owner
type Booking struct {
	ID            string
	OwnerID       string
	ServiceID     string
	StaffID       *string // nil = любой мастер
	LocationID    *string
	CustomerID    string
	CustomerName  string
	CustomerEmail *string

	// Интервал [StartTime, EndTime)
	StartTime time.Time
	EndTime   time.Time
	Status    BookingStatus

	// Цена фиксируется на момент бронирования
	PriceAmount decimal.Decimal
	Currency    string

	CheckoutSessionID  *string
	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still occupies its time interval
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsAwaitingPayment returns true if the booking waits for the checkout to complete
func (b *Booking) IsAwaitingPayment() bool {
	return b.Status == StatusPending
}

// Overlaps проверяет пересечение полуинтервалов [start, end) и [b.StartTime, b.EndTime)
// Касание границ пересечением не считается
func (b *Booking) Overlaps(start, end time.Time) bool {
	return start.Before(b.EndTime) && end.After(b.StartTime)
}

// DurationMinutes длительность бронирования в минутах
func (b *Booking) DurationMinutes() int {
	return int(b.EndTime.Sub(b.StartTime) / time.Minute)
}

// OwnerBookingsFilter фильтр для получения бронирований владельца
type OwnerBookingsFilter struct {
	OwnerID          string         // Обязательный параметр
	StaffID          *string        // Фильтр по мастеру (nil - все мастера)
	LocationID       *string        // Фильтр по филиалу (nil - все филиалы)
	From             *time.Time     // start_time >= From (опционально)
	To               *time.Time     // start_time < To (опционально)
	Status           *BookingStatus // Фильтр по статусу (опционально)
	IncludeCancelled bool           // Включать ли отменённые бронирования
	ForUpdate        bool           // Блокировать строки (имеет смысл только внутри транзакции)
}
