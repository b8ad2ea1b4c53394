package query

import (
	"context"
	"strings"
	"time"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/reservation/domain"
)

// ListReservationsQuery selects reservations by exactly one criterion
type ListReservationsQuery struct {
	Date       time.Time
	Status     domain.Status
	GuestPhone string
	GuestName  string
}

// ListReservationsHandler handles list reservations query
type ListReservationsHandler struct {
	repo domain.ReservationRepository
}

// NewListReservationsHandler creates a new list reservations handler
func NewListReservationsHandler(repo domain.ReservationRepository) *ListReservationsHandler {
	return &ListReservationsHandler{repo: repo}
}

// Handle executes the list query
func (h *ListReservationsHandler) Handle(ctx context.Context, query ListReservationsQuery) ([]domain.Reservation, error) {
	var (
		reservations []domain.Reservation
		err          error
	)

	switch {
	case !query.Date.IsZero():
		reservations, err = h.repo.FindByDate(ctx, query.Date)
	case query.Status != "":
		if !query.Status.Valid() {
			return nil, apperror.Validation("unknown reservation status %q", query.Status)
		}
		reservations, err = h.repo.FindByStatus(ctx, query.Status)
	case strings.TrimSpace(query.GuestPhone) != "":
		reservations, err = h.repo.FindByGuestPhone(ctx, strings.TrimSpace(query.GuestPhone))
	case strings.TrimSpace(query.GuestName) != "":
		reservations, err = h.repo.FindByGuestName(ctx, strings.TrimSpace(query.GuestName))
	default:
		return nil, apperror.Validation("one of date, status, phone or name is required")
	}
	if err != nil {
		return nil, err
	}

	if reservations == nil {
		reservations = []domain.Reservation{}
	}
	return reservations, nil
}
