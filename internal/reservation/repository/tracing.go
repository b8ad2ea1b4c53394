package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tair/restaurant-backend/internal/reservation/domain"
)

var tracer = otel.Tracer("reservation-repository")

// GormReservationRepositoryWithTracing wraps GormReservationRepository with tracing
type GormReservationRepositoryWithTracing struct {
	*GormReservationRepository
}

// NewGormReservationRepositoryWithTracing creates a new repository with tracing
func NewGormReservationRepositoryWithTracing(db *gorm.DB) *GormReservationRepositoryWithTracing {
	return &GormReservationRepositoryWithTracing{
		GormReservationRepository: NewGormReservationRepository(db),
	}
}

// Create with tracing
func (r *GormReservationRepositoryWithTracing) Create(ctx context.Context, reservation *domain.Reservation) error {
	ctx, span := tracer.Start(ctx, "repository.Create",
		trace.WithAttributes(
			attribute.Int("reservation.table_id", int(reservation.TableID)),
			attribute.Int("reservation.party_size", reservation.PartySize),
			attribute.String("reservation.start", reservation.StartTime.String()),
		),
	)
	defer span.End()

	if err := r.GormReservationRepository.Create(ctx, reservation); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(attribute.Int("reservation.id", int(reservation.ID)))
	return nil
}

// FindConflicting with tracing
func (r *GormReservationRepositoryWithTracing) FindConflicting(ctx context.Context, tableID uint, window domain.Window, excludeID uint) ([]domain.Reservation, error) {
	ctx, span := tracer.Start(ctx, "repository.FindConflicting",
		trace.WithAttributes(
			attribute.Int("table.id", int(tableID)),
			attribute.String("window.start", window.Start.String()),
			attribute.String("window.end", window.End.String()),
			attribute.Int("reservation.exclude_id", int(excludeID)),
		),
	)
	defer span.End()

	conflicts, err := r.GormReservationRepository.FindConflicting(ctx, tableID, window, excludeID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(conflicts)))
	return conflicts, nil
}

// FindReservedTableIDs with tracing
func (r *GormReservationRepositoryWithTracing) FindReservedTableIDs(ctx context.Context, window domain.Window) ([]uint, error) {
	ctx, span := tracer.Start(ctx, "repository.FindReservedTableIDs",
		trace.WithAttributes(
			attribute.String("window.start", window.Start.String()),
			attribute.String("window.end", window.End.String()),
		),
	)
	defer span.End()

	ids, err := r.GormReservationRepository.FindReservedTableIDs(ctx, window)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(ids)))
	return ids, nil
}
