package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
)

func TestAuth(t *testing.T) {
	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = GetUserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("header present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(UserIDHeader, " user-1 ")
		rec := httptest.NewRecorder()

		Auth(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "user-1", gotUserID)
	})

	t.Run("header missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		Auth(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Missing user ID"}`, rec.Body.String())
	})
}

func TestGetUserID_Empty(t *testing.T) {
	_, ok := GetUserID(context.Background())
	assert.False(t, ok)

	_, ok = GetUserID(WithUserID(context.Background(), ""))
	assert.False(t, ok)
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	m := metrics.NewWithRegistry("test", prometheus.NewRegistry())

	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.HandleFunc("/api/v1/bookings/{bookingId}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/bookings/"+id, nil))
	}

	counter := m.HTTPRequestsTotal.WithLabelValues("test", http.MethodGet, "/api/v1/bookings/{bookingId}", "404")
	assert.Equal(t, float64(2), testutil.ToFloat64(counter))
}

func TestRecover(t *testing.T) {
	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	rec := httptest.NewRecorder()

	Recover(logger.NewNop())(panicking).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}

func TestAccessLog_PassesThrough(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	rec := httptest.NewRecorder()

	AccessLog(logger.NewNop())(next).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
}

type fakeLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (f *fakeLimiter) Allow(_ context.Context, key string) (bool, error) {
	f.keys = append(f.keys, key)
	return f.allowed, f.err
}

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name       string
		limiter    *fakeLimiter
		wantStatus int
	}{
		{name: "allowed", limiter: &fakeLimiter{allowed: true}, wantStatus: http.StatusOK},
		{name: "limited", limiter: &fakeLimiter{allowed: false}, wantStatus: http.StatusTooManyRequests},
		{name: "limiter down", limiter: &fakeLimiter{err: errors.New("redis down")}, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			req := httptest.NewRequest(http.MethodGet, "/availability", nil)
			req.RemoteAddr = "203.0.113.7:51000"
			rec := httptest.NewRecorder()

			RateLimit(tt.limiter, nil, logger.NewNop())(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, []string{"203.0.113.7"}, tt.limiter.keys)
		})
	}
}

func TestRateLimit_RotatingForwardedForIsStillLimited(t *testing.T) {
	limiter := NewLocalLimiter(2, time.Minute)
	keys, err := NewClientKeyResolver(nil)
	require.NoError(t, err)

	h := RateLimit(limiter, keys, logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	allowed := 0
	for i := 0; i < 100; i++ {
		req := httptest.NewRequest(http.MethodGet, "/availability", nil)
		req.RemoteAddr = "203.0.113.7:51000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i))
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)
		if rec.Code == http.StatusOK {
			allowed++
		}
	}

	assert.Equal(t, 2, allowed)
	assert.Equal(t, 1, limiter.Len())
}

func TestLocalLimiter(t *testing.T) {
	limiter := NewLocalLimiter(2, time.Hour)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, _ := limiter.Allow(ctx, "10.0.0.1")
	assert.False(t, ok)

	ok, _ = limiter.Allow(ctx, "10.0.0.2")
	assert.True(t, ok, "clients are limited independently")
}

func TestLocalLimiter_EvictsIdleClients(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	limiter := NewLocalLimiter(2, time.Minute)
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		_, err := limiter.Allow(ctx, fmt.Sprintf("10.0.0.%d", i))
		require.NoError(t, err)
	}
	assert.Equal(t, 50, limiter.Len())

	now = now.Add(30 * time.Second)
	_, _ = limiter.Allow(ctx, "10.0.0.1")
	assert.Equal(t, 50, limiter.Len(), "nothing is idle for a full window yet")

	now = now.Add(61 * time.Second)
	_, _ = limiter.Allow(ctx, "10.0.0.200")
	assert.Equal(t, 1, limiter.Len())
}

func TestClientKeyResolver(t *testing.T) {
	keys, err := NewClientKeyResolver([]string{"10.0.0.0/8", "172.16.0.1"})
	require.NoError(t, err)

	tests := []struct {
		name      string
		remote    string
		forwarded string
		want      string
	}{
		{name: "direct client ignores header", remote: "203.0.113.7:51000", forwarded: "1.2.3.4", want: "203.0.113.7"},
		{name: "trusted proxy", remote: "10.1.2.3:443", forwarded: "198.51.100.9", want: "198.51.100.9"},
		{name: "spoofed prefix is skipped", remote: "10.1.2.3:443", forwarded: "1.2.3.4, 198.51.100.9", want: "198.51.100.9"},
		{name: "proxy chain", remote: "10.1.2.3:443", forwarded: "198.51.100.9, 172.16.0.1", want: "198.51.100.9"},
		{name: "garbage header", remote: "10.1.2.3:443", forwarded: "not-an-ip", want: "10.1.2.3"},
		{name: "no header", remote: "10.1.2.3:443", want: "10.1.2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, keys.Key(req))
		})
	}
}

func TestNewClientKeyResolver_InvalidProxy(t *testing.T) {
	_, err := NewClientKeyResolver([]string{"10.0.0.0/33"})
	assert.Error(t, err)

	_, err = NewClientKeyResolver([]string{"proxy.local"})
	assert.Error(t, err)
}
