package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidPeriod возвращается, когда конец периода раньше начала
	ErrInvalidPeriod = errors.New("invalid period")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	UserID string `json:"-"`
	Reason string `json:"reason"`
}

// GetCustomerBookingsRequest запрос на получение бронирований клиента
type GetCustomerBookingsRequest struct {
	UserID     string  `json:"-"`
	CustomerID string  `json:"-"`
	Status     *string `json:"status,omitempty"`
}

// GetOwnerBookingsRequest запрос на получение бронирований владельца
type GetOwnerBookingsRequest struct {
	UserID           string     `json:"-"`
	OwnerID          string     `json:"-"`
	StaffID          *string    `json:"staffId,omitempty"`          // Фильтр по мастеру (опционально)
	LocationID       *string    `json:"locationId,omitempty"`       // Фильтр по филиалу (опционально)
	StartDate        *time.Time `json:"startDate,omitempty"`        // Начало периода, включительно
	EndDate          *time.Time `json:"endDate,omitempty"`          // Последний день периода, включительно
	Status           *string    `json:"status,omitempty"`           // Фильтр по статусу (опционально)
	IncludeCancelled bool       `json:"includeCancelled,omitempty"` // Включить отменённые бронирования
}

// ToDomainFilter конвертирует request в domain фильтр
// EndDate включительно: фильтр берёт интервал до начала следующего дня
func (r *GetOwnerBookingsRequest) ToDomainFilter() (domain.OwnerBookingsFilter, error) {
	filter := domain.OwnerBookingsFilter{
		OwnerID:          r.OwnerID,
		StaffID:          r.StaffID,
		LocationID:       r.LocationID,
		From:             r.StartDate,
		IncludeCancelled: r.IncludeCancelled,
	}

	if r.EndDate != nil {
		to := r.EndDate.AddDate(0, 0, 1)
		filter.To = &to
	}

	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return filter, ErrInvalidPeriod
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID                 string          `json:"id"`
	OwnerID            string          `json:"ownerId"`
	ServiceID          string          `json:"serviceId"`
	StaffID            *string         `json:"staffId,omitempty"`
	LocationID         *string         `json:"locationId,omitempty"`
	CustomerID         string          `json:"customerId"`
	CustomerName       string          `json:"customerName"`
	CustomerEmail      *string         `json:"customerEmail,omitempty"`
	StartTime          time.Time       `json:"startTime"`
	EndTime            time.Time       `json:"endTime"`
	DurationMinutes    int             `json:"durationMinutes"`
	Status             string          `json:"status"`
	PriceAmount        decimal.Decimal `json:"priceAmount"`
	Currency           string          `json:"currency"`
	CancellationReason *string         `json:"cancellationReason,omitempty"`
	CancelledAt        *string         `json:"cancelledAt,omitempty"` // ISO 8601 format
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		OwnerID:            b.OwnerID,
		ServiceID:          b.ServiceID,
		StaffID:            b.StaffID,
		LocationID:         b.LocationID,
		CustomerID:         b.CustomerID,
		CustomerName:       b.CustomerName,
		CustomerEmail:      b.CustomerEmail,
		StartTime:          b.StartTime,
		EndTime:            b.EndTime,
		DurationMinutes:    b.DurationMinutes(),
		Status:             string(b.Status),
		PriceAmount:        b.PriceAmount,
		Currency:           b.Currency,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
