package command

import (
	"context"
	"fmt"
	"sort"

	"github.com/tair/restaurant-backend/internal/inventory/domain"
	"github.com/tair/restaurant-backend/kafka"
	"github.com/tair/restaurant-backend/pkg/database"
	"github.com/tair/restaurant-backend/pkg/logger"
)

const productionActor = "system"

// ProduceOrderHandler writes off the ingredients of a paid order
type ProduceOrderHandler struct {
	tx        database.Transactor
	recipes   domain.RecipeRepository
	movements domain.MovementRepository
	ledger    *RecordMovementHandler
}

func NewProduceOrderHandler(tx database.Transactor, recipes domain.RecipeRepository, movements domain.MovementRepository, ledger *RecordMovementHandler) *ProduceOrderHandler {
	return &ProduceOrderHandler{tx: tx, recipes: recipes, movements: movements, ledger: ledger}
}

// Handle records one production outcome movement per ingredient of the order, all
// in one transaction. An order already produced is skipped, so redelivery is harmless.
// Ingredients are locked in id order.
func (h *ProduceOrderHandler) Handle(ctx context.Context, event kafka.OrderEvent) error {
	if event.EventType != kafka.EventTypeOrderPaid || len(event.Items) == 0 {
		return nil
	}

	lines := make([]domain.PortionLine, 0, len(event.Items))
	dishIDs := make([]uint, 0, len(event.Items))
	for _, item := range event.Items {
		lines = append(lines, domain.PortionLine{DishID: item.DishID, Portions: item.Quantity})
		dishIDs = append(dishIDs, item.DishID)
	}

	var (
		produced []*domain.StockMovement
		failedAt uint
	)
	err := h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		done, err := h.movements.ExistsForOrder(ctx, event.OrderID, domain.ReasonProduction)
		if err != nil {
			return err
		}
		if done {
			logger.Info(ctx).Uint("order_id", event.OrderID).Msg("Order already produced, skipping")
			return nil
		}

		recipes, err := h.recipes.FindByDishes(ctx, dishIDs)
		if err != nil {
			return err
		}
		required := domain.RequiredQuantities(recipes, lines)

		ingredientIDs := make([]uint, 0, len(required))
		for id := range required {
			ingredientIDs = append(ingredientIDs, id)
		}
		sort.Slice(ingredientIDs, func(i, j int) bool { return ingredientIDs[i] < ingredientIDs[j] })

		orderID := event.OrderID
		for _, id := range ingredientIDs {
			movement, err := h.ledger.record(ctx, RecordMovementCommand{
				IngredientID: id,
				Quantity:     required[id],
				Type:         domain.MovementOutcome,
				Reason:       domain.ReasonProduction,
				OrderID:      &orderID,
				PerformedBy:  productionActor,
				Notes:        fmt.Sprintf("order %s", event.OrderNumber),
			})
			if err != nil {
				failedAt = id
				return fmt.Errorf("produce order %s: %w", event.OrderNumber, err)
			}
			produced = append(produced, movement)
		}
		return nil
	})
	if err != nil {
		h.reportFailure(ctx, event, failedAt, err)
		return err
	}

	for _, movement := range produced {
		h.ledger.publish(ctx, movement)
	}
	if len(produced) > 0 {
		logger.Info(ctx).
			Uint("order_id", event.OrderID).
			Int("movements", len(produced)).
			Msg("Order ingredients written off")
	}
	return nil
}

// reportFailure publishes the rolled back write-off; the consumer acknowledges the
// message regardless, so this event is the only durable trace of the failure.
func (h *ProduceOrderHandler) reportFailure(ctx context.Context, event kafka.OrderEvent, ingredientID uint, cause error) {
	failure := kafka.StockEvent{
		EventType:    kafka.EventTypeStockProductionFailed,
		IngredientID: ingredientID,
		Reason:       string(domain.ReasonProduction),
		OrderID:      event.OrderID,
		OrderNumber:  event.OrderNumber,
		Error:        cause.Error(),
	}
	if err := h.ledger.events.PublishStockEvent(ctx, failure); err != nil {
		logger.Warn(ctx).
			Err(err).
			Uint("order_id", event.OrderID).
			Str("event_type", failure.EventType).
			Msg("Failed to publish stock event")
	}
}
