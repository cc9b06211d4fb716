package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	Date       string  // Дата в формате YYYY-MM-DD
	ServiceID  string  // ID услуги
	LocationID *string // ID локации (опционально, выбирает часы локации)
	StaffID    *string // ID сотрудника (опционально, сужает набор бронирований)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date      time.Time          // Дата в часовом поясе салона
	OwnerID   string             // Владелец услуги
	ServiceID string             // ID услуги
	Open      types.TimeString   // Начало рабочего окна
	Close     types.TimeString   // Конец рабочего окна
	Slots     []types.TimeString // Свободные времена начала по возрастанию
}
