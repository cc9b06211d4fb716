package get_available_slots

import (
	"net/url"
	"strings"

	getAvailableSlots "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Slots []string `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
// Пустой список сериализуется как [], а не null
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]string, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = slot.String()
	}

	return &AvailableSlotsResponse{Slots: slots}
}

// ToUseCaseRequest создает запрос use case из query параметров
// Проверка обязательных параметров и формата даты выполняется в use case
func ToUseCaseRequest(query url.Values) *getAvailableSlots.Request {
	return &getAvailableSlots.Request{
		Date:       strings.TrimSpace(query.Get("date")),
		ServiceID:  strings.TrimSpace(query.Get("serviceId")),
		LocationID: optional(query, "locationId"),
		StaffID:    optional(query, "staffId"),
	}
}

func optional(query url.Values, key string) *string {
	value := strings.TrimSpace(query.Get(key))
	if value == "" {
		return nil
	}
	return &value
}
