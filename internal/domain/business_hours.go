package domain

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// DayHours часы работы в один день недели
// Open/Close могут отсутствовать: недостающая половина берётся из значений по умолчанию
type DayHours struct {
	Open   *types.TimeString `json:"open,omitempty"`
	Close  *types.TimeString `json:"close,omitempty"`
	Closed bool              `json:"closed,omitempty"`
}

// IsEmpty returns true if neither half nor the closed flag is set
func (d *DayHours) IsEmpty() bool {
	return d == nil || (d.Open == nil && d.Close == nil && !d.Closed)
}

// WeekHours расписание на неделю, по одному полю на день
// nil-поле означает, что день не настроен
type WeekHours struct {
	Monday    *DayHours `json:"monday,omitempty"`
	Tuesday   *DayHours `json:"tuesday,omitempty"`
	Wednesday *DayHours `json:"wednesday,omitempty"`
	Thursday  *DayHours `json:"thursday,omitempty"`
	Friday    *DayHours `json:"friday,omitempty"`
	Saturday  *DayHours `json:"saturday,omitempty"`
	Sunday    *DayHours `json:"sunday,omitempty"`
}

// Day возвращает настройки для дня недели (nil, если день не настроен)
func (w *WeekHours) Day(weekday time.Weekday) *DayHours {
	switch weekday {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	case time.Sunday:
		return w.Sunday
	default:
		return nil
	}
}

// SetDay задает настройки для дня недели
func (w *WeekHours) SetDay(weekday time.Weekday, day *DayHours) {
	switch weekday {
	case time.Monday:
		w.Monday = day
	case time.Tuesday:
		w.Tuesday = day
	case time.Wednesday:
		w.Wednesday = day
	case time.Thursday:
		w.Thursday = day
	case time.Friday:
		w.Friday = day
	case time.Saturday:
		w.Saturday = day
	case time.Sunday:
		w.Sunday = day
	}
}

// Weekdays дни недели в порядке понедельник-воскресенье
var Weekdays = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

// DefaultWeekHours неделя, в которой каждый день работает с open до close
func DefaultWeekHours(open, closeTime types.TimeString) WeekHours {
	var w WeekHours
	for _, wd := range Weekdays {
		o, c := open, closeTime
		w.SetDay(wd, &DayHours{Open: &o, Close: &c})
	}
	return w
}

// BusinessHoursConfig хранимая конфигурация часов работы
// Иерархия:
// 1. Конкретный филиал (owner_id, location_id)
// 2. Все филиалы владельца (owner_id, NULL)
type BusinessHoursConfig struct {
	ID         int64
	OwnerID    string
	LocationID *string // NULL = для всех филиалов
	Hours      WeekHours
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsLocationSpecific returns true if this configuration is bound to a specific location
func (c *BusinessHoursConfig) IsLocationSpecific() bool {
	return c.LocationID != nil
}

// OpeningHours итоговое окно работы на конкретную дату
type OpeningHours struct {
	Open   types.TimeString
	Close  types.TimeString
	Closed bool
}
