package models

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Request модели

// UpdateBusinessHoursRequest запрос на замену недельного расписания
type UpdateBusinessHoursRequest struct {
	UserID     string           `json:"-"`
	OwnerID    string           `json:"-"`
	LocationID *string          `json:"-"` // nil = для всех филиалов
	Hours      domain.WeekHours `json:"hours"`
}

// ToDomainConfig конвертирует request в domain модель
func (r *UpdateBusinessHoursRequest) ToDomainConfig() *domain.BusinessHoursConfig {
	return &domain.BusinessHoursConfig{
		OwnerID:    r.OwnerID,
		LocationID: r.LocationID,
		Hours:      r.Hours,
	}
}

// Response модели

// BusinessHoursResponse расписание владельца или филиала
type BusinessHoursResponse struct {
	OwnerID    string           `json:"ownerId"`
	LocationID *string          `json:"locationId,omitempty"`
	Hours      domain.WeekHours `json:"hours"`
	IsDefault  bool             `json:"isDefault"` // расписание не сохранено, показаны значения по умолчанию
	UpdatedAt  *time.Time       `json:"updatedAt,omitempty"`
}

// FromDomainConfig конвертирует domain модель в DTO
func FromDomainConfig(c *domain.BusinessHoursConfig) *BusinessHoursResponse {
	if c == nil {
		return nil
	}

	resp := &BusinessHoursResponse{
		OwnerID:    c.OwnerID,
		LocationID: c.LocationID,
		Hours:      c.Hours,
	}

	if !c.UpdatedAt.IsZero() {
		updatedAt := c.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}

	return resp
}
