package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

func TestLive(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(fakePinger{}, time.Second, logger.NewNop()).Live(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestReady(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(fakePinger{}, time.Second, logger.NewNop()).Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	NewHandler(fakePinger{err: errors.New("down")}, time.Second, logger.NewNop()).Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error":"Database unavailable"}`, rec.Body.String())
}
