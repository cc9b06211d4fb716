package availability

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// ErrInvalidDate возвращается, когда дата не в формате YYYY-MM-DD
var ErrInvalidDate = errors.New("availability: invalid date format")

// Settings параметры расчёта, постоянные на всё время жизни процесса
type Settings struct {
	DefaultOpen     types.TimeString
	DefaultClose    types.TimeString
	StrideMinutes   int
	Location        *time.Location // часовой пояс салона, nil = UTC
	HonorClosedDays bool           // учитывать флаг closed у дня недели
}

// DefaultSettings 09:00-17:00, шаг 30 минут, UTC, флаг closed игнорируется
func DefaultSettings() Settings {
	return Settings{
		DefaultOpen:   domain.DefaultOpenTime,
		DefaultClose:  domain.DefaultCloseTime,
		StrideMinutes: domain.DefaultSlotStrideMinutes,
		Location:      time.UTC,
	}
}

func (s Settings) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

// ParseDate разбирает календарную дату YYYY-MM-DD в часовом поясе салона
func (s Settings) ParseDate(value string) (time.Time, error) {
	date, err := time.ParseInLocation(domain.DateFormat, strings.TrimSpace(value), s.location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return date, nil
}

// DayBounds возвращает полуинтервал [начало дня, начало следующего дня)
func (s Settings) DayBounds(date time.Time) (time.Time, time.Time) {
	loc := s.location()
	y, m, d := date.In(loc).Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 0, 1)
}

// ResolveHours определяет окно работы на дату
// Нет конфигурации, день не настроен или пуст - окно по умолчанию.
// Отсутствующая или некорректная половина заменяется значением по умолчанию.
// Флаг closed только переносится в результат, решение о нём принимает вызывающий код
func (s Settings) ResolveHours(week *domain.WeekHours, date time.Time) domain.OpeningHours {
	hours := domain.OpeningHours{Open: s.DefaultOpen, Close: s.DefaultClose}
	if week == nil {
		return hours
	}

	day := week.Day(date.Weekday())
	if day.IsEmpty() {
		return hours
	}

	if day.Open != nil && day.Open.Validate() == nil {
		hours.Open = *day.Open
	}
	if day.Close != nil && day.Close.Validate() == nil {
		hours.Close = *day.Close
	}
	hours.Closed = day.Closed

	return hours
}

// IsClosed true, если день закрыт и флаг closed учитывается
func (s Settings) IsClosed(hours domain.OpeningHours) bool {
	return s.HonorClosedDays && hours.Closed
}

// GenerateSlots шагает от open (включительно) до close (не включительно) с шагом stride
// При open >= close, stride <= 0 или некорректных границах возвращает пустой список
func GenerateSlots(open, closeTime types.TimeString, strideMinutes int) []types.TimeString {
	slots := make([]types.TimeString, 0)
	if strideMinutes <= 0 {
		return slots
	}

	openMin, err := open.Minutes()
	if err != nil {
		return slots
	}
	closeMin, err := closeTime.Minutes()
	if err != nil {
		return slots
	}

	for m := openMin; m < closeMin; m += strideMinutes {
		slot, err := types.NewTimeStringFromMinutes(m)
		if err != nil {
			break
		}
		slots = append(slots, slot)
	}

	return slots
}

// FitWithin оставляет слоты, которые целиком помещаются до закрытия: start+duration <= close
func FitWithin(slots []types.TimeString, durationMinutes int, closeTime types.TimeString) []types.TimeString {
	result := make([]types.TimeString, 0, len(slots))

	closeMin, err := closeTime.Minutes()
	if err != nil {
		return result
	}

	for _, slot := range slots {
		startMin, err := slot.Minutes()
		if err != nil {
			continue
		}
		if startMin+durationMinutes <= closeMin {
			result = append(result, slot)
		}
	}

	return result
}

// FilterConflicts убирает слоты, чей интервал [start, start+duration) пересекается
// хотя бы с одним неотменённым бронированием. Касание границ пересечением не считается.
// Сложность O(slots × bookings), обе величины ограничены одним днём
func (s Settings) FilterConflicts(date time.Time, slots []types.TimeString, durationMinutes int, bookings []*domain.Booking) []types.TimeString {
	result := make([]types.TimeString, 0, len(slots))
	loc := s.location()
	duration := time.Duration(durationMinutes) * time.Minute

	for _, slot := range slots {
		start, err := slot.OnDate(date, loc)
		if err != nil {
			continue
		}
		end := start.Add(duration)

		if !overlapsAny(start, end, bookings) {
			result = append(result, slot)
		}
	}

	return result
}

// IsOnGrid проверяет, что start совпадает с одним из шагов сетки, начинающейся в open
func IsOnGrid(start, open types.TimeString, strideMinutes int) bool {
	if strideMinutes <= 0 {
		return false
	}
	startMin, err := start.Minutes()
	if err != nil {
		return false
	}
	openMin, err := open.Minutes()
	if err != nil {
		return false
	}
	return startMin >= openMin && (startMin-openMin)%strideMinutes == 0
}

func overlapsAny(start, end time.Time, bookings []*domain.Booking) bool {
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		if b.Overlaps(start, end) {
			return true
		}
	}
	return false
}
