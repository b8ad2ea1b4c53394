package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tair/restaurant-backend/internal/apperror"
	orderdomain "github.com/tair/restaurant-backend/internal/order/domain"
	ordercommand "github.com/tair/restaurant-backend/internal/order/usecase/command"
	"github.com/tair/restaurant-backend/internal/payment/domain"
	"github.com/tair/restaurant-backend/kafka"
	"github.com/tair/restaurant-backend/pkg/database"
)

// ProcessPaymentCommand settles a pending payment. An empty TransactionID is generated.
type ProcessPaymentCommand struct {
	PaymentID     uint
	TransactionID string
}

// ProcessPaymentHandler marks the payment paid and moves its order to the paid
// status in the same transaction
type ProcessPaymentHandler struct {
	tx       database.Transactor
	repo     domain.PaymentRepository
	orders   orderdomain.OrderRepository
	statuses orderdomain.StatusRepository
	events   ordercommand.EventPublisher
	now      func() time.Time
}

// NewProcessPaymentHandler creates a new process payment handler
func NewProcessPaymentHandler(
	tx database.Transactor,
	repo domain.PaymentRepository,
	orders orderdomain.OrderRepository,
	statuses orderdomain.StatusRepository,
	events ordercommand.EventPublisher,
) *ProcessPaymentHandler {
	return &ProcessPaymentHandler{
		tx:       tx,
		repo:     repo,
		orders:   orders,
		statuses: statuses,
		events:   events,
		now:      time.Now,
	}
}

// Handle executes the process payment command. order.status_changed and
// order.paid are published after commit.
func (h *ProcessPaymentHandler) Handle(ctx context.Context, cmd ProcessPaymentCommand) (*domain.Payment, error) {
	transactionID := strings.TrimSpace(cmd.TransactionID)
	if transactionID == "" {
		transactionID = fmt.Sprintf("TXN-%s", uuid.NewString())
	}

	var (
		payment *domain.Payment
		order   *orderdomain.Order
	)
	err := h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		payment, err = h.repo.FindByIDForUpdate(ctx, cmd.PaymentID)
		if err != nil {
			return err
		}
		order, err = h.orders.FindByIDForUpdate(ctx, payment.OrderID)
		if err != nil {
			return err
		}
		if order.IsPaid() {
			return apperror.Conflict("order %s is already paid", order.OrderNumber)
		}
		// items may have been added since the payment was created
		if payment.Amount.LessThan(order.TotalAmount) {
			return apperror.Conflict("payment amount %s does not cover order total %s",
				payment.Amount.StringFixed(2), order.TotalAmount.StringFixed(2))
		}

		if err := payment.MarkPaid(transactionID, h.now()); err != nil {
			return err
		}
		if err := h.repo.Update(ctx, payment); err != nil {
			return err
		}

		paid, err := h.statuses.FindPaid(ctx)
		if err != nil {
			return err
		}
		order.StatusID = paid.ID
		order.Status = paid
		return h.orders.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	ordercommand.Publish(ctx, h.events, kafka.EventTypeOrderStatusChanged, order)
	ordercommand.Publish(ctx, h.events, kafka.EventTypeOrderPaid, order)
	return payment, nil
}
