package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tair/restaurant-backend/internal/apperror"
)

func TestWindowOverlaps(t *testing.T) {
	base := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)
	booked := NewWindow(base, 90)

	tests := []struct {
		name  string
		other Window
		want  bool
	}{
		{"inside", NewWindow(base.Add(30*time.Minute), 60), true},
		{"covering", NewWindow(base.Add(-time.Hour), 240), true},
		{"touching end", NewWindow(base.Add(90*time.Minute), 30), false},
		{"touching start", NewWindow(base.Add(-time.Hour), 60), false},
		{"after", NewWindow(base.Add(105*time.Minute), 45), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, booked.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(booked))
		})
	}
}

func TestWindowValidate(t *testing.T) {
	start := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)
	assert.NoError(t, NewWindow(start, 1).Validate())
	assert.True(t, apperror.IsValidation(NewWindow(start, 0).Validate()))
	assert.True(t, apperror.IsValidation(Window{End: start}.Validate()))
}

func TestTransitions(t *testing.T) {
	r := &Reservation{Status: StatusPending}
	assert.Error(t, r.Complete())
	assert.NoError(t, r.Confirm())
	assert.NoError(t, r.Confirm())
	assert.Equal(t, StatusConfirmed, r.Status)

	r.Cancel()
	assert.True(t, apperror.IsConflict(r.Confirm()))
	assert.False(t, r.Status.IsActive())
}

func TestConfirm_OnlyFromPendingOrConfirmed(t *testing.T) {
	done := &Reservation{Status: StatusConfirmed}
	assert.NoError(t, done.Complete())
	assert.True(t, apperror.IsConflict(done.Confirm()))
	assert.Equal(t, StatusCompleted, done.Status)

	dropped := &Reservation{Status: StatusPending}
	dropped.Cancel()
	assert.True(t, apperror.IsConflict(dropped.Confirm()))
	assert.Equal(t, StatusCancelled, dropped.Status)
}
