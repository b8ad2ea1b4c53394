package command

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tair/restaurant-backend/internal/apperror"
	orderdomain "github.com/tair/restaurant-backend/internal/order/domain"
	"github.com/tair/restaurant-backend/internal/payment/domain"
)

// CreatePaymentCommand represents the command to open a payment for an order.
// A nil Amount charges the order total.
type CreatePaymentCommand struct {
	OrderID   uint
	Amount    *decimal.Decimal
	Method    domain.Method
	CreatedBy string
}

// CreatePaymentHandler handles create payment command
type CreatePaymentHandler struct {
	orders orderdomain.OrderRepository
	repo   domain.PaymentRepository
}

// NewCreatePaymentHandler creates a new create payment handler
func NewCreatePaymentHandler(orders orderdomain.OrderRepository, repo domain.PaymentRepository) *CreatePaymentHandler {
	return &CreatePaymentHandler{orders: orders, repo: repo}
}

// Handle executes the create payment command
func (h *CreatePaymentHandler) Handle(ctx context.Context, cmd CreatePaymentCommand) (*domain.Payment, error) {
	if !cmd.Method.Valid() {
		return nil, apperror.Validation("unknown payment method %q", cmd.Method)
	}

	order, err := h.orders.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if order.IsPaid() {
		return nil, apperror.Conflict("order %s is already paid", order.OrderNumber)
	}

	amount := order.TotalAmount
	if cmd.Amount != nil {
		amount = *cmd.Amount
	}
	if !amount.IsPositive() {
		return nil, apperror.Validation("amount must be greater than 0")
	}

	payment := &domain.Payment{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Amount:      amount.Round(2),
		Method:      cmd.Method,
		Status:      domain.StatusPending,
		CreatedBy:   cmd.CreatedBy,
	}
	if err := h.repo.Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}
