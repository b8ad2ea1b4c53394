package command

import (
	"context"
	"strings"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/payment/domain"
	"github.com/tair/restaurant-backend/pkg/database"
)

// UpdateStatusCommand moves a payment to failed or refunded
type UpdateStatusCommand struct {
	PaymentID uint
	Status    domain.Status
	Reason    string
}

// UpdateStatusHandler handles the non-settling status changes
type UpdateStatusHandler struct {
	tx   database.Transactor
	repo domain.PaymentRepository
}

// NewUpdateStatusHandler creates a new update status handler
func NewUpdateStatusHandler(tx database.Transactor, repo domain.PaymentRepository) *UpdateStatusHandler {
	return &UpdateStatusHandler{tx: tx, repo: repo}
}

// Handle executes the update status command
func (h *UpdateStatusHandler) Handle(ctx context.Context, cmd UpdateStatusCommand) (*domain.Payment, error) {
	reason := strings.TrimSpace(cmd.Reason)

	var payment *domain.Payment
	err := h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		payment, err = h.repo.FindByIDForUpdate(ctx, cmd.PaymentID)
		if err != nil {
			return err
		}

		switch cmd.Status {
		case domain.StatusFailed:
			err = payment.MarkFailed(reason)
		case domain.StatusRefunded:
			err = payment.MarkRefunded(reason)
		default:
			err = apperror.Validation("payment cannot be moved to %q", cmd.Status)
		}
		if err != nil {
			return err
		}
		return h.repo.Update(ctx, payment)
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}
