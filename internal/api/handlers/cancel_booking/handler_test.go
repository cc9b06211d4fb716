package cancel_booking

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

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
	got *models.CancelBookingRequest
}

func (f *fakeService) Cancel(_ context.Context, bookingID string, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingResponse{ID: bookingID, Status: "cancelled"}, nil
}

func serve(svc *fakeService, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/b-1/cancel", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"bookingId": "b-1"})
	req = req.WithContext(middleware.WithUserID(req.Context(), "cust-1"))
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle_WithReason(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, `{"reason":"changed plans"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"cancelled"`)
	require.NotNil(t, svc.got)
	assert.Equal(t, "cust-1", svc.got.UserID)
	assert.Equal(t, "changed plans", svc.got.Reason)
}

func TestHandle_EmptyBody(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.got)
	assert.Empty(t, svc.got.Reason)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{name: "malformed body", body: `{"reason":`, wantStatus: http.StatusBadRequest},
		{name: "reason too long", err: bookings.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "not found", err: bookings.ErrBookingNotFound, wantStatus: http.StatusNotFound},
		{name: "forbidden", err: bookings.ErrAccessDenied, wantStatus: http.StatusForbidden},
		{name: "already cancelled", err: bookings.ErrCannotCancel, wantStatus: http.StatusConflict},
		{name: "internal", err: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
