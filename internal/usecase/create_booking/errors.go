package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInvalidDate возвращается при некорректном формате даты
	ErrInvalidDate = errors.New("create_booking: invalid date format")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrClosed возвращается, когда салон закрыт в указанную дату
	ErrClosed = errors.New("create_booking: closed on this date")

	// ErrInvalidTimeSlot возвращается, когда время не попадает в сетку слотов или выходит за рабочие часы
	ErrInvalidTimeSlot = errors.New("create_booking: invalid time slot")

	// ErrBookingInPast возвращается при попытке забронировать прошедшее время
	ErrBookingInPast = errors.New("create_booking: slot is in the past")

	// ErrSlotNotAvailable возвращается, когда слот пересекается с другим бронированием
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrPaymentUnavailable возвращается, когда не удалось открыть checkout-сессию
	ErrPaymentUnavailable = errors.New("create_booking: payment provider unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
