package domain

import (
	"context"
	"strings"
	"time"

	"github.com/tair/restaurant-backend/internal/apperror"
	tabledomain "github.com/tair/restaurant-backend/internal/table/domain"
)

// DefaultDurationMinutes applies when a request leaves the duration out
const DefaultDurationMinutes = 120

// Status is the lifecycle state of a reservation
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// IsActive reports whether a reservation in this state holds its table
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Window is a half-open time interval [Start, End)
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow builds the window covering durationMinutes from start
func NewWindow(start time.Time, durationMinutes int) Window {
	return Window{Start: start, End: start.Add(time.Duration(durationMinutes) * time.Minute)}
}

// Validate requires a non-empty window
func (w Window) Validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return apperror.Validation("start and end time are required")
	}
	if !w.End.After(w.Start) {
		return apperror.Validation("end time must be after start time")
	}
	return nil
}

// Overlaps reports whether the two half-open windows share an instant.
// Back-to-back windows do not overlap.
func (w Window) Overlaps(o Window) bool {
	return w.Start.Before(o.End) && w.End.After(o.Start)
}

// Reservation books one table for a party over a time window
type Reservation struct {
	ID              uint                         `json:"id" gorm:"primaryKey"`
	GuestName       string                       `json:"guest_name" gorm:"not null"`
	GuestPhone      string                       `json:"guest_phone" gorm:"index"`
	GuestEmail      string                       `json:"guest_email,omitempty"`
	StartTime       time.Time                    `json:"start_time" gorm:"not null;index:idx_reservation_table_window,priority:2"`
	EndTime         time.Time                    `json:"end_time" gorm:"not null;index:idx_reservation_table_window,priority:3"`
	DurationMinutes int                          `json:"duration_minutes" gorm:"not null"`
	PartySize       int                          `json:"party_size" gorm:"not null;check:party_size > 0"`
	TableID         uint                         `json:"table_id" gorm:"not null;index:idx_reservation_table_window,priority:1"`
	Table           *tabledomain.RestaurantTable `json:"table,omitempty" gorm:"foreignKey:TableID"`
	Status          Status                       `json:"status" gorm:"type:varchar(20);not null;index"`
	SpecialRequests string                       `json:"special_requests,omitempty"`
	CreatedBy       string                       `json:"created_by,omitempty"`
	CreatedAt       time.Time                    `json:"created_at"`
	UpdatedAt       time.Time                    `json:"updated_at"`
}

// TableName specifies the table name
func (Reservation) TableName() string {
	return "reservations"
}

// Window returns the occupied interval
func (r *Reservation) Window() Window {
	return Window{Start: r.StartTime, End: r.EndTime}
}

// Schedule sets start, duration and the derived end time
func (r *Reservation) Schedule(start time.Time, durationMinutes int) {
	r.StartTime = start
	r.DurationMinutes = durationMinutes
	r.EndTime = NewWindow(start, durationMinutes).End
}

// Confirm moves a pending reservation to confirmed. Confirming twice is a no-op.
func (r *Reservation) Confirm() error {
	switch r.Status {
	case StatusPending:
		r.Status = StatusConfirmed
		return nil
	case StatusConfirmed:
		return nil
	}
	return apperror.Conflict("reservation is %s and cannot be confirmed", r.Status)
}

// Cancel is always permitted and idempotent
func (r *Reservation) Cancel() {
	r.Status = StatusCancelled
}

// Complete closes a confirmed reservation once the party has been seated and served
func (r *Reservation) Complete() error {
	if r.Status == StatusCompleted {
		return nil
	}
	if r.Status != StatusConfirmed {
		return apperror.Conflict("only confirmed reservations can be completed")
	}
	r.Status = StatusCompleted
	return nil
}

// Guest is the contact data supplied with a reservation
type Guest struct {
	Name  string
	Phone string
	Email string
}

// Validate requires a name and trims the fields
func (g *Guest) Validate() error {
	g.Name = strings.TrimSpace(g.Name)
	g.Phone = strings.TrimSpace(g.Phone)
	g.Email = strings.TrimSpace(g.Email)
	if g.Name == "" {
		return apperror.Validation("guest name is required")
	}
	return nil
}

// ReservationRepository defines the contract for reservation data access
type ReservationRepository interface {
	Create(ctx context.Context, reservation *Reservation) error
	Update(ctx context.Context, reservation *Reservation) error
	FindByID(ctx context.Context, id uint) (*Reservation, error)
	// FindConflicting returns active reservations of tableID overlapping window,
	// leaving out excludeID (0 excludes nothing)
	FindConflicting(ctx context.Context, tableID uint, window Window, excludeID uint) ([]Reservation, error)
	// FindReservedTableIDs returns the ids of tables with an active reservation overlapping window
	FindReservedTableIDs(ctx context.Context, window Window) ([]uint, error)
	FindByDate(ctx context.Context, day time.Time) ([]Reservation, error)
	FindByStatus(ctx context.Context, status Status) ([]Reservation, error)
	FindByGuestPhone(ctx context.Context, phone string) ([]Reservation, error)
	// FindByGuestName matches a case-insensitive substring of the guest name
	FindByGuestName(ctx context.Context, name string) ([]Reservation, error)
}
