package stripe_webhook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SalonBooking/internal/service/bookings"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

type fakeService struct {
	err          error
	gotPayload   string
	gotSignature string
}

func (f *fakeService) HandlePaymentWebhook(_ context.Context, payload []byte, signature string) error {
	f.gotPayload, f.gotSignature = string(payload), signature
	return f.err
}

func serve(svc *fakeService) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/stripe", strings.NewReader(`{"id":"evt_1"}`))
	req.Header.Set(SignatureHeader, "t=1,v1=abc")
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle_OK(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received":true}`, rec.Body.String())
	assert.Equal(t, `{"id":"evt_1"}`, svc.gotPayload)
	assert.Equal(t, "t=1,v1=abc", svc.gotSignature)
}

func TestHandle_Errors(t *testing.T) {
	rec := serve(&fakeService{err: fmt.Errorf("%w: bad", bookings.ErrInvalidSignature)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(&fakeService{err: errors.New("db down")})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
