package get_owner_bookings

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
// startDate и endDate в формате YYYY-MM-DD, оба включительно
func ToServiceRequest(ownerID, userID string, query url.Values) (*models.GetOwnerBookingsRequest, error) {
	req := &models.GetOwnerBookingsRequest{
		UserID:           userID,
		OwnerID:          ownerID,
		IncludeCancelled: false, // По умолчанию только активные
	}

	if v := query.Get("staffId"); v != "" {
		req.StaffID = &v
	}

	if v := query.Get("locationId"); v != "" {
		req.LocationID = &v
	}

	if v := query.Get("status"); v != "" {
		req.Status = &v
	}

	var err error
	if req.StartDate, err = parseDate(query.Get("startDate")); err != nil {
		return nil, fmt.Errorf("invalid startDate: %w", err)
	}
	if req.EndDate, err = parseDate(query.Get("endDate")); err != nil {
		return nil, fmt.Errorf("invalid endDate: %w", err)
	}

	if v := query.Get("includeCancelled"); v != "" {
		includeCancelled, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid includeCancelled value: %w", err)
		}
		req.IncludeCancelled = includeCancelled
	}

	return req, nil
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	date, err := time.Parse(domain.DateFormat, value)
	if err != nil {
		return nil, err
	}

	return &date, nil
}
