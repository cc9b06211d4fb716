package business_hours

import "errors"

var (
	// ErrAccessDenied возвращается, когда у пользователя нет права менять настройки
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidHours возвращается, когда расписание дня некорректно
	ErrInvalidHours = errors.New("invalid business hours")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
