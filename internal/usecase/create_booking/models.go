package create_booking

import (
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	CustomerID    string  // ID пользователя из X-User-ID
	ServiceID     string  // ID услуги
	Date          string  // Дата в формате YYYY-MM-DD
	StartTime     string  // Время начала "HH:MM"
	StaffID       *string // Мастер (опционально)
	LocationID    *string // Филиал (опционально)
	CustomerName  string
	CustomerEmail *string
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking     *domain.Booking
	CheckoutURL *string // Ссылка на оплату, если бронирование ждёт оплаты
}
