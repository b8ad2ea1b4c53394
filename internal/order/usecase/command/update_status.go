package command

import (
	"context"

	"github.com/tair/restaurant-backend/internal/order/domain"
	"github.com/tair/restaurant-backend/kafka"
	"github.com/tair/restaurant-backend/pkg/database"
)

// UpdateOrderStatusCommand moves an order to a named status
type UpdateOrderStatusCommand struct {
	OrderID    uint
	StatusName string
}

// UpdateOrderStatusHandler handles status changes. Any status may follow any other.
type UpdateOrderStatusHandler struct {
	tx       database.Transactor
	statuses domain.StatusRepository
	repo     domain.OrderRepository
	events   EventPublisher
}

func NewUpdateOrderStatusHandler(tx database.Transactor, statuses domain.StatusRepository, repo domain.OrderRepository, events EventPublisher) *UpdateOrderStatusHandler {
	return &UpdateOrderStatusHandler{tx: tx, statuses: statuses, repo: repo, events: events}
}

// Handle executes the update status command. Moving into the paid status also
// publishes order.paid.
func (h *UpdateOrderStatusHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (*domain.Order, error) {
	var (
		order      *domain.Order
		becamePaid bool
	)
	err := h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		order, err = h.repo.FindByIDForUpdate(ctx, cmd.OrderID)
		if err != nil {
			return err
		}
		status, err := h.statuses.FindByName(ctx, cmd.StatusName)
		if err != nil {
			return err
		}

		becamePaid = status.IsPaid && !order.IsPaid()
		order.StatusID = status.ID
		order.Status = status
		return h.repo.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	Publish(ctx, h.events, kafka.EventTypeOrderStatusChanged, order)
	if becamePaid {
		Publish(ctx, h.events, kafka.EventTypeOrderPaid, order)
	}
	return order, nil
}
