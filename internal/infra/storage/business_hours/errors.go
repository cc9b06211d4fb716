package business_hours

import "errors"

var (
	// ErrConfigNotFound возвращается, когда часы работы не настроены
	ErrConfigNotFound = errors.New("business_hours.repository: config not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("business_hours.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("business_hours.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("business_hours.repository: failed to scan row")

	// ErrDecodeHours возвращается, когда сохранённый JSON не удалось разобрать
	ErrDecodeHours = errors.New("business_hours.repository: failed to decode hours")
)
