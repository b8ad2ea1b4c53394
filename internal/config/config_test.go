package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Service.HTTPPort)
	assert.Equal(t, "development-secret", cfg.JWT.Secret)
	assert.Equal(t, 120*time.Minute, cfg.Reservation.DefaultDuration)
	assert.Equal(t, []string{"received", "preparing", "ready", "served", "paid"}, cfg.OrderStatus.Statuses)
	assert.Equal(t, "paid", cfg.OrderStatus.Paid)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("ORDER_STATUSES", "принят, готовится ,оплачен")
	t.Setenv("ORDER_STATUS_INITIAL", "принят")
	t.Setenv("ORDER_STATUS_PAID", "оплачен")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("RESERVATION_DEFAULT_DURATION", "90m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"принят", "готовится", "оплачен"}, cfg.OrderStatus.Statuses)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 90*time.Minute, cfg.Reservation.DefaultDuration)
}

func TestLoad_RejectsBadVocabulary(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("ORDER_STATUS_PAID", "settled")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RequiresSecretOutsideDevelopment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}
