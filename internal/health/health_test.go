package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(context.Context) error { return nil }

func failing(context.Context) error { return errors.New("connection refused") }

func TestCheck_AllHealthy(t *testing.T) {
	c := NewChecker("restaurant-backend", time.Second)
	c.Register("database", ok, true)
	c.Register("redis", ok, false)

	report := c.Check(context.Background())
	assert.Equal(t, StatusHealthy, report.Status)
	assert.Len(t, report.Components, 2)
	assert.Equal(t, "restaurant-backend", report.Service)
}

func TestCheck_OptionalFailureDegrades(t *testing.T) {
	c := NewChecker("restaurant-backend", time.Second)
	c.Register("database", ok, true)
	c.Register("kafka", failing, false)

	report := c.Check(context.Background())
	assert.Equal(t, StatusDegraded, report.Status)
	assert.Equal(t, StatusUnhealthy, report.Components["kafka"].Status)
	assert.Equal(t, "connection refused", report.Components["kafka"].Error)
}

func TestCheck_CriticalFailure(t *testing.T) {
	c := NewChecker("restaurant-backend", time.Second)
	c.Register("database", failing, true)
	c.Register("redis", failing, false)

	assert.Equal(t, StatusUnhealthy, c.Check(context.Background()).Status)
}

func TestCheck_ProbeTimeout(t *testing.T) {
	c := NewChecker("restaurant-backend", 20*time.Millisecond)
	c.Register("database", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}, true)

	report := c.Check(context.Background())
	assert.Equal(t, StatusUnhealthy, report.Status)
	assert.Contains(t, report.Components["database"].Error, "deadline exceeded")
}

func TestHandler(t *testing.T) {
	c := NewChecker("restaurant-backend", time.Second)
	c.Register("database", ok, true)

	rec := httptest.NewRecorder()
	c.Handler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var report Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, StatusHealthy, report.Status)

	c.Register("database", failing, true)
	rec = httptest.NewRecorder()
	c.Handler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	c.Live(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
