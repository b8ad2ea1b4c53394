package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/payment/domain"
)

func TestPaymentLifecycle(t *testing.T) {
	now := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)

	p := &domain.Payment{ID: 1, Status: domain.StatusPending}
	require.NoError(t, p.MarkPaid("TX-1", now))
	assert.Equal(t, domain.StatusPaid, p.Status)
	assert.Equal(t, "TX-1", p.TransactionID)
	require.NotNil(t, p.PaidAt)
	assert.True(t, p.PaidAt.Equal(now))

	err := p.MarkPaid("TX-2", now)
	assert.True(t, apperror.IsConflict(err))
	assert.True(t, apperror.IsConflict(p.MarkFailed("late")))

	require.NoError(t, p.MarkRefunded("guest complaint"))
	assert.Equal(t, domain.StatusRefunded, p.Status)
	assert.True(t, apperror.IsConflict(p.MarkRefunded("again")))
}

func TestMarkFailed(t *testing.T) {
	p := &domain.Payment{ID: 2, Status: domain.StatusPending}
	require.NoError(t, p.MarkFailed("card declined"))
	assert.Equal(t, domain.StatusFailed, p.Status)
	assert.Equal(t, "card declined", p.FailureReason)

	assert.True(t, apperror.IsConflict(p.MarkPaid("TX", time.Now())))
	assert.True(t, apperror.IsConflict(p.MarkRefunded("no")))
}

func TestMethodValid(t *testing.T) {
	for _, m := range []domain.Method{domain.MethodCash, domain.MethodCard, domain.MethodOnline} {
		assert.True(t, m.Valid(), m)
	}
	assert.False(t, domain.Method("barter").Valid())
	assert.False(t, domain.Method("").Valid())
}
