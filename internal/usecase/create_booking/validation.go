package create_booking

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/availability"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// validateRequest валидирует входные данные запроса и нормализует строки
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: empty request", ErrInvalidInput)
	}

	req.CustomerID = strings.TrimSpace(req.CustomerID)
	req.ServiceID = strings.TrimSpace(req.ServiceID)
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.StaffID = normalizeOptional(req.StaffID)
	req.LocationID = normalizeOptional(req.LocationID)
	req.CustomerEmail = normalizeOptional(req.CustomerEmail)

	if req.CustomerID == "" {
		return fmt.Errorf("%w: customer is required", ErrInvalidInput)
	}

	if req.ServiceID == "" {
		return fmt.Errorf("%w: serviceId is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.Date) == "" {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.StartTime) == "" {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if req.CustomerName == "" {
		return fmt.Errorf("%w: customerName is required", ErrInvalidInput)
	}

	if len(req.CustomerName) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: customerName is longer than %d", ErrInvalidInput, domain.MaxCustomerNameLength)
	}

	if req.CustomerEmail != nil {
		if _, err := mail.ParseAddress(*req.CustomerEmail); err != nil {
			return fmt.Errorf("%w: invalid customerEmail: %v", ErrInvalidInput, err)
		}
	}

	return nil
}

// parseStartTime разбирает время начала в формате HH:MM
func parseStartTime(value string) (types.TimeString, error) {
	start, err := types.NewTimeStringFromString(strings.TrimSpace(value))
	if err != nil {
		return "", fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}
	return start, nil
}

// validateSlot проверяет, что слот лежит на сетке и успевает закончиться до закрытия
func validateSlot(start types.TimeString, hours domain.OpeningHours, durationMinutes, strideMinutes int) error {
	if !availability.IsOnGrid(start, hours.Open, strideMinutes) {
		return fmt.Errorf("%w: %s is not aligned to %d minutes from %s", ErrInvalidTimeSlot, start, strideMinutes, hours.Open)
	}

	if len(availability.FitWithin([]types.TimeString{start}, durationMinutes, hours.Close)) == 0 {
		return fmt.Errorf("%w: %s + %d min does not fit before %s", ErrInvalidTimeSlot, start, durationMinutes, hours.Close)
	}

	return nil
}

// findConflict возвращает первое активное бронирование, пересекающееся с [start, end)
func findConflict(start, end time.Time, bookings []*domain.Booking) *domain.Booking {
	for _, b := range bookings {
		if b.IsActive() && b.Overlaps(start, end) {
			return b
		}
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
