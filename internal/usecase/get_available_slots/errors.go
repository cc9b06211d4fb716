package get_available_slots

import "errors"

var (
	// ErrMissingParameters возвращается, когда не передана дата или услуга
	ErrMissingParameters = errors.New("missing required parameters")

	// ErrInvalidDate возвращается при некорректном формате даты
	ErrInvalidDate = errors.New("invalid date format")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
