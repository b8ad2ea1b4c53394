package command

import (
	"context"
	"strings"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/order/domain"
	"github.com/tair/restaurant-backend/pkg/database"
	"github.com/tair/restaurant-backend/pkg/logger"
)

// CreateStatusCommand adds a status to the vocabulary. Added statuses are never the paid one.
type CreateStatusCommand struct {
	Name         string
	Description  string
	DisplayOrder int
}

// StatusHandler maintains the status vocabulary
type StatusHandler struct {
	tx         database.Transactor
	repo       domain.StatusRepository
	vocabulary domain.Vocabulary
}

func NewStatusHandler(tx database.Transactor, repo domain.StatusRepository, vocabulary domain.Vocabulary) *StatusHandler {
	return &StatusHandler{tx: tx, repo: repo, vocabulary: vocabulary}
}

// Create executes the create status command; a duplicate name is a Conflict
func (h *StatusHandler) Create(ctx context.Context, cmd CreateStatusCommand) (*domain.OrderStatus, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, apperror.Validation("status name is required")
	}

	status := &domain.OrderStatus{
		Name:         name,
		Description:  cmd.Description,
		DisplayOrder: cmd.DisplayOrder,
	}
	if err := h.repo.Create(ctx, status); err != nil {
		return nil, err
	}
	return status, nil
}

// Seed makes the stored vocabulary contain every configured status and ensures
// exactly the configured paid status carries the paid flag. Existing rows keep
// their ids so orders referencing them stay valid.
func (h *StatusHandler) Seed(ctx context.Context) error {
	return h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := h.repo.FindAll(ctx)
		if err != nil {
			return err
		}
		byName := make(map[string]domain.OrderStatus, len(existing))
		for _, s := range existing {
			byName[s.Name] = s
		}

		for i, name := range h.vocabulary.Statuses {
			status, ok := byName[name]
			if !ok {
				status = domain.OrderStatus{Name: name, DisplayOrder: i + 1, IsPaid: name == h.vocabulary.Paid}
				if err := h.repo.Create(ctx, &status); err != nil {
					return err
				}
				logger.Info(ctx).Str("status", name).Msg("Order status seeded")
				continue
			}
			if status.IsPaid != (name == h.vocabulary.Paid) {
				status.IsPaid = name == h.vocabulary.Paid
				if err := h.repo.Update(ctx, &status); err != nil {
					return err
				}
			}
			delete(byName, name)
		}

		// statuses no longer configured stay for history but lose the paid flag
		for _, status := range byName {
			if status.IsPaid {
				status.IsPaid = false
				if err := h.repo.Update(ctx, &status); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
