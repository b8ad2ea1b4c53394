package command

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/inventory/domain"
	"github.com/tair/restaurant-backend/kafka"
	"github.com/tair/restaurant-backend/pkg/database"
	"github.com/tair/restaurant-backend/pkg/logger"
)

// EventPublisher is satisfied by *kafka.Publisher and kafka.NopPublisher
type EventPublisher interface {
	PublishStockEvent(ctx context.Context, event kafka.StockEvent) error
}

// RecordMovementCommand represents one stock movement to apply
type RecordMovementCommand struct {
	IngredientID uint
	Quantity     decimal.Decimal
	Type         domain.MovementType
	Reason       domain.MovementReason
	Notes        string
	OrderID      *uint
	PerformedBy  string
	MovementDate time.Time
}

func (c RecordMovementCommand) validate() error {
	if !c.Quantity.IsPositive() {
		return apperror.Validation("quantity must be positive")
	}
	if !domain.FitsQuantityScale(c.Quantity) {
		return apperror.Validation("quantity supports at most %d decimal places", domain.QuantityPlaces)
	}
	if !c.Type.Valid() {
		return apperror.Validation("invalid movement type: %s", c.Type)
	}
	if !c.Reason.Valid() {
		return apperror.Validation("invalid movement reason: %s", c.Reason)
	}
	return nil
}

// RecordMovementHandler applies movements to ingredient stock
type RecordMovementHandler struct {
	tx          database.Transactor
	ingredients domain.IngredientRepository
	movements   domain.MovementRepository
	events      EventPublisher
	now         func() time.Time
}

func NewRecordMovementHandler(tx database.Transactor, ingredients domain.IngredientRepository, movements domain.MovementRepository, events EventPublisher) *RecordMovementHandler {
	return &RecordMovementHandler{
		tx:          tx,
		ingredients: ingredients,
		movements:   movements,
		events:      events,
		now:         time.Now,
	}
}

// Handle executes the record movement command. The ingredient row is locked, the
// movement applied and both rows written in one transaction.
func (h *RecordMovementHandler) Handle(ctx context.Context, cmd RecordMovementCommand) (*domain.StockMovement, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	var movement *domain.StockMovement
	err := h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		movement, err = h.record(ctx, cmd)
		return err
	})
	if err != nil {
		return nil, err
	}

	h.publish(ctx, movement)
	return movement, nil
}

// record must run inside a transaction
func (h *RecordMovementHandler) record(ctx context.Context, cmd RecordMovementCommand) (*domain.StockMovement, error) {
	ingredient, err := h.ingredients.FindByIDForUpdate(ctx, cmd.IngredientID)
	if err != nil {
		return nil, err
	}

	movement := &domain.StockMovement{
		IngredientID: ingredient.ID,
		Type:         cmd.Type,
		Reason:       cmd.Reason,
		Quantity:     cmd.Quantity,
		OrderID:      cmd.OrderID,
		PerformedBy:  cmd.PerformedBy,
		Notes:        cmd.Notes,
		MovementDate: cmd.MovementDate,
	}
	if movement.MovementDate.IsZero() {
		movement.MovementDate = h.now()
	}

	if err := ingredient.Apply(cmd.Type, cmd.Quantity); err != nil {
		return nil, err
	}
	if err := h.ingredients.Update(ctx, ingredient); err != nil {
		return nil, err
	}
	if err := h.movements.Create(ctx, movement); err != nil {
		return nil, err
	}

	movement.Ingredient = ingredient
	return movement, nil
}

func (h *RecordMovementHandler) publish(ctx context.Context, movement *domain.StockMovement) {
	ingredient := movement.Ingredient
	events := []kafka.StockEvent{{
		EventType:      kafka.EventTypeStockMovementRecorded,
		IngredientID:   ingredient.ID,
		IngredientName: ingredient.Name,
		MovementType:   string(movement.Type),
		Reason:         string(movement.Reason),
		Quantity:       movement.Quantity.String(),
		CurrentStock:   ingredient.CurrentStock.String(),
		MinStockLevel:  ingredient.MinStockLevel.String(),
	}}
	if movement.Type == domain.MovementOutcome && ingredient.IsStockLow() {
		events = append(events, kafka.StockEvent{
			EventType:      kafka.EventTypeStockLow,
			IngredientID:   ingredient.ID,
			IngredientName: ingredient.Name,
			CurrentStock:   ingredient.CurrentStock.String(),
			MinStockLevel:  ingredient.MinStockLevel.String(),
		})
	}

	for _, event := range events {
		if err := h.events.PublishStockEvent(ctx, event); err != nil {
			logger.Warn(ctx).
				Err(err).
				Uint("ingredient_id", ingredient.ID).
				Str("event_type", event.EventType).
				Msg("Failed to publish stock event")
		}
	}
}
