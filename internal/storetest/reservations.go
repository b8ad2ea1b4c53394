package storetest

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/tair/restaurant-backend/internal/apperror"
	resdomain "github.com/tair/restaurant-backend/internal/reservation/domain"
)

// ReservationRepository is an in-memory resdomain.ReservationRepository
type ReservationRepository struct {
	s *Store
}

func (s *Store) Reservations() *ReservationRepository {
	return &ReservationRepository{s: s}
}

func (r *ReservationRepository) Create(_ context.Context, reservation *resdomain.Reservation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.tables[reservation.TableID]; !ok {
		return apperror.Validation("reservation references a missing record")
	}
	reservation.ID = r.s.nextID()
	r.s.stamp(&reservation.CreatedAt, &reservation.UpdatedAt)
	r.s.data.reservations[reservation.ID] = stripTable(*reservation)
	return nil
}

func (r *ReservationRepository) Update(_ context.Context, reservation *resdomain.Reservation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.reservations[reservation.ID]; !ok {
		return apperror.NotFound("reservation not found")
	}
	r.s.stamp(&reservation.CreatedAt, &reservation.UpdatedAt)
	r.s.data.reservations[reservation.ID] = stripTable(*reservation)
	return nil
}

func (r *ReservationRepository) FindByID(_ context.Context, id uint) (*resdomain.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	res, ok := r.s.data.reservations[id]
	if !ok {
		return nil, apperror.NotFound("reservation not found")
	}
	r.preload(&res)
	return &res, nil
}

func (r *ReservationRepository) FindConflicting(_ context.Context, tableID uint, window resdomain.Window, excludeID uint) ([]resdomain.Reservation, error) {
	return r.filter(func(res resdomain.Reservation) bool {
		return res.TableID == tableID && res.ID != excludeID &&
			res.Status.IsActive() && res.Window().Overlaps(window)
	}), nil
}

func (r *ReservationRepository) FindReservedTableIDs(_ context.Context, window resdomain.Window) ([]uint, error) {
	seen := map[uint]bool{}
	var ids []uint
	for _, res := range r.filter(func(res resdomain.Reservation) bool {
		return res.Status.IsActive() && res.Window().Overlaps(window)
	}) {
		if !seen[res.TableID] {
			seen[res.TableID] = true
			ids = append(ids, res.TableID)
		}
	}
	return ids, nil
}

func (r *ReservationRepository) FindByDate(_ context.Context, day time.Time) ([]resdomain.Reservation, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to := from.AddDate(0, 0, 1)
	return r.filter(func(res resdomain.Reservation) bool {
		return !res.StartTime.Before(from) && res.StartTime.Before(to)
	}), nil
}

func (r *ReservationRepository) FindByStatus(_ context.Context, status resdomain.Status) ([]resdomain.Reservation, error) {
	return r.filter(func(res resdomain.Reservation) bool { return res.Status == status }), nil
}

func (r *ReservationRepository) FindByGuestPhone(_ context.Context, phone string) ([]resdomain.Reservation, error) {
	return r.filter(func(res resdomain.Reservation) bool { return res.GuestPhone == phone }), nil
}

func (r *ReservationRepository) FindByGuestName(_ context.Context, name string) ([]resdomain.Reservation, error) {
	name = strings.ToLower(name)
	return r.filter(func(res resdomain.Reservation) bool {
		return strings.Contains(strings.ToLower(res.GuestName), name)
	}), nil
}

func (r *ReservationRepository) filter(keep func(resdomain.Reservation) bool) []resdomain.Reservation {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []resdomain.Reservation
	for _, res := range r.s.data.reservations {
		if keep(res) {
			r.preload(&res)
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}

func (r *ReservationRepository) preload(res *resdomain.Reservation) {
	if t, ok := r.s.data.tables[res.TableID]; ok {
		res.Table = &t
	}
}

func stripTable(res resdomain.Reservation) resdomain.Reservation {
	res.Table = nil
	return res
}
