package get_owner_bookings

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/service/bookings"
	"github.com/m04kA/SMC-SalonBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

type fakeService struct {
	err error
	got *models.GetOwnerBookingsRequest
}

func (f *fakeService) GetOwnerBookings(_ context.Context, req *models.GetOwnerBookingsRequest) (*models.BookingListResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingListResponse{Bookings: []models.BookingResponse{{ID: "b-1"}}}, nil
}

func serve(svc *fakeService, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/owners/owner-1/bookings?"+query, nil)
	req = mux.SetURLVars(req, map[string]string{"ownerId": "owner-1"})
	req = req.WithContext(middleware.WithUserID(req.Context(), "staff-1"))
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle_OK(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, "startDate=2025-03-10&endDate=2025-03-16&staffId=staff-7&includeCancelled=true")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"b-1"`)

	require.NotNil(t, svc.got)
	assert.Equal(t, "owner-1", svc.got.OwnerID)
	assert.Equal(t, "staff-1", svc.got.UserID)
	assert.Equal(t, "staff-7", *svc.got.StaffID)
	assert.True(t, svc.got.IncludeCancelled)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), *svc.got.StartDate)
	assert.Equal(t, time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC), *svc.got.EndDate)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		err        error
		wantStatus int
	}{
		{name: "bad start date", query: "startDate=10.03.2025", wantStatus: http.StatusBadRequest},
		{name: "bad flag", query: "includeCancelled=maybe", wantStatus: http.StatusBadRequest},
		{name: "service rejects filter", err: bookings.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "forbidden", err: bookings.ErrAccessDenied, wantStatus: http.StatusForbidden},
		{name: "internal", err: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.query)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestToServiceRequest_Defaults(t *testing.T) {
	req, err := ToServiceRequest("owner-1", "user-1", url.Values{})
	require.NoError(t, err)

	assert.Nil(t, req.StartDate)
	assert.Nil(t, req.EndDate)
	assert.Nil(t, req.Status)
	assert.False(t, req.IncludeCancelled)
}
