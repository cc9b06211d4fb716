package get_available_slots

import (
	"strings"
)

// validateRequest проверяет обязательные параметры
func validateRequest(req *Request) error {
	if req == nil || strings.TrimSpace(req.Date) == "" || strings.TrimSpace(req.ServiceID) == "" {
		return ErrMissingParameters
	}
	return nil
}

// normalizeOptional превращает пустую строку в nil
func normalizeOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
