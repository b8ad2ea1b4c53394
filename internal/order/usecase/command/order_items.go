package command

import (
	"context"

	"github.com/tair/restaurant-backend/internal/apperror"
	menudomain "github.com/tair/restaurant-backend/internal/menu/domain"
	"github.com/tair/restaurant-backend/internal/order/domain"
	"github.com/tair/restaurant-backend/kafka"
	"github.com/tair/restaurant-backend/pkg/database"
)

// AddOrderItemCommand appends a line to an open order
type AddOrderItemCommand struct {
	OrderID uint
	Item    ItemRequest
}

// RemoveOrderItemCommand drops a line from an open order
type RemoveOrderItemCommand struct {
	OrderID uint
	ItemID  uint
}

// OrderItemsHandler mutates the lines of an order under the order row lock
type OrderItemsHandler struct {
	tx     database.Transactor
	dishes menudomain.DishRepository
	repo   domain.OrderRepository
	events EventPublisher
}

func NewOrderItemsHandler(tx database.Transactor, dishes menudomain.DishRepository, repo domain.OrderRepository, events EventPublisher) *OrderItemsHandler {
	return &OrderItemsHandler{tx: tx, dishes: dishes, repo: repo, events: events}
}

// lockModifiable loads the order FOR UPDATE and rejects paid orders
func (h *OrderItemsHandler) lockModifiable(ctx context.Context, id uint) (*domain.Order, error) {
	order, err := h.repo.FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.CanBeModified() {
		return nil, apperror.Conflict("cannot modify paid order %s", order.OrderNumber)
	}
	return order, nil
}

// Add executes the add item command
func (h *OrderItemsHandler) Add(ctx context.Context, cmd AddOrderItemCommand) (*domain.Order, error) {
	if err := cmd.Item.validate(); err != nil {
		return nil, err
	}

	var order *domain.Order
	err := h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		order, err = h.lockModifiable(ctx, cmd.OrderID)
		if err != nil {
			return err
		}

		item, err := priceItem(ctx, h.dishes, cmd.Item)
		if err != nil {
			return err
		}
		item.OrderID = order.ID
		if err := h.repo.AddItem(ctx, &item); err != nil {
			return err
		}

		order.AddItem(item)
		return h.repo.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	Publish(ctx, h.events, kafka.EventTypeOrderItemAdded, order)
	return order, nil
}

// Remove executes the remove item command. The last item cannot be removed.
func (h *OrderItemsHandler) Remove(ctx context.Context, cmd RemoveOrderItemCommand) (*domain.Order, error) {
	var order *domain.Order
	err := h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		order, err = h.lockModifiable(ctx, cmd.OrderID)
		if err != nil {
			return err
		}

		if !hasItem(order, cmd.ItemID) {
			return apperror.NotFound("order item not found")
		}
		if len(order.Items) == 1 {
			return apperror.Validation("cannot remove the last item of an order")
		}

		if err := h.repo.DeleteItem(ctx, order.ID, cmd.ItemID); err != nil {
			return err
		}
		order.RemoveItem(cmd.ItemID)
		return h.repo.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	Publish(ctx, h.events, kafka.EventTypeOrderItemRemoved, order)
	return order, nil
}

func hasItem(order *domain.Order, itemID uint) bool {
	for _, item := range order.Items {
		if item.ID == itemID {
			return true
		}
	}
	return false
}
