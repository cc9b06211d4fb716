package create_booking

import (
	"github.com/m04kA/SMC-SalonBooking/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ServiceID     string  `json:"serviceId"`
	Date          string  `json:"date"`      // "2025-10-15"
	StartTime     string  `json:"startTime"` // "10:00"
	StaffID       *string `json:"staffId,omitempty"`
	LocationID    *string `json:"locationId,omitempty"`
	CustomerName  string  `json:"customerName"`
	CustomerEmail *string `json:"customerEmail,omitempty"`
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	Booking     *models.BookingResponse `json:"booking"`
	CheckoutURL *string                 `json:"checkoutUrl,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Клиентом бронирования всегда становится пользователь из X-User-ID
func (r *CreateBookingRequest) ToUseCaseRequest(customerID string) *createBooking.Request {
	return &createBooking.Request{
		CustomerID:    customerID,
		ServiceID:     r.ServiceID,
		Date:          r.Date,
		StartTime:     r.StartTime,
		StaffID:       r.StaffID,
		LocationID:    r.LocationID,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	return &CreateBookingResponse{
		Booking:     models.FromDomainBooking(resp.Booking),
		CheckoutURL: resp.CheckoutURL,
	}
}
