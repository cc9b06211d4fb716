package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service услуга салона
type Service struct {
	ID              string
	OwnerID         string
	Name            string
	DurationMinutes int
	PriceAmount     decimal.Decimal
	Currency        string
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsPaid returns true if the service requires an online payment
func (s *Service) IsPaid() bool {
	return s.PriceAmount.IsPositive()
}
