package events

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// EventType тип события жизненного цикла бронирования
type EventType string

const (
	EventBookingCreated   EventType = "booking.created"
	EventBookingConfirmed EventType = "booking.confirmed"
	EventBookingCancelled EventType = "booking.cancelled"
)

// BookingEvent сообщение в топике бронирований (ключ - ownerId)
type BookingEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	BookingID  string    `json:"bookingId"`
	OwnerID    string    `json:"ownerId"`
	ServiceID  string    `json:"serviceId"`
	StaffID    *string   `json:"staffId,omitempty"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	Status     string    `json:"status"`
	Reason     *string   `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewBookingEvent собирает событие из текущего состояния бронирования
func NewBookingEvent(eventType EventType, booking *domain.Booking, occurredAt time.Time) BookingEvent {
	return BookingEvent{
		Type:       eventType,
		BookingID:  booking.ID,
		OwnerID:    booking.OwnerID,
		ServiceID:  booking.ServiceID,
		StaffID:    booking.StaffID,
		StartTime:  booking.StartTime.UTC(),
		EndTime:    booking.EndTime.UTC(),
		Status:     string(booking.Status),
		Reason:     booking.CancellationReason,
		OccurredAt: occurredAt.UTC(),
	}
}
