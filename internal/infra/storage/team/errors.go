package team

import "errors"

var (
	// ErrMemberNotFound возвращается, когда пользователь не состоит в команде владельца
	ErrMemberNotFound = errors.New("team.repository: team member not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("team.repository: failed to build query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("team.repository: failed to scan row")
)
