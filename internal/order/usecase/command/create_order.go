package command

import (
	"context"
	"time"

	"github.com/tair/restaurant-backend/internal/apperror"
	menudomain "github.com/tair/restaurant-backend/internal/menu/domain"
	"github.com/tair/restaurant-backend/internal/order/domain"
	resdomain "github.com/tair/restaurant-backend/internal/reservation/domain"
	tabledomain "github.com/tair/restaurant-backend/internal/table/domain"
	userdomain "github.com/tair/restaurant-backend/internal/user/domain"
	"github.com/tair/restaurant-backend/kafka"
	"github.com/tair/restaurant-backend/pkg/database"
)

// ReservationFinder resolves the reservation an order is seated from
type ReservationFinder interface {
	FindByID(ctx context.Context, id uint) (*resdomain.Reservation, error)
}

// WaiterDirectory resolves the waiter serving an order
type WaiterDirectory interface {
	FindByUsername(ctx context.Context, username string) (*userdomain.User, error)
}

// ItemRequest is one requested order line
type ItemRequest struct {
	DishID   uint
	Quantity int
	Notes    string
}

func (r ItemRequest) validate() error {
	if r.Quantity < 1 {
		return apperror.Validation("quantity must be at least 1")
	}
	return nil
}

// CreateOrderCommand represents the command to open an order
type CreateOrderCommand struct {
	TableID        uint
	ReservationID  *uint
	WaiterUsername string
	Notes          string
	Items          []ItemRequest
}

// CreateOrderHandler handles order creation
type CreateOrderHandler struct {
	tx           database.Transactor
	tables       tabledomain.TableRepository
	reservations ReservationFinder
	waiters      WaiterDirectory
	statuses     domain.StatusRepository
	dishes       menudomain.DishRepository
	repo         domain.OrderRepository
	events       EventPublisher
	vocabulary   domain.Vocabulary
	now          func() time.Time
}

// NewCreateOrderHandler creates a new create order handler
func NewCreateOrderHandler(
	tx database.Transactor,
	tables tabledomain.TableRepository,
	reservations ReservationFinder,
	waiters WaiterDirectory,
	statuses domain.StatusRepository,
	dishes menudomain.DishRepository,
	repo domain.OrderRepository,
	events EventPublisher,
	vocabulary domain.Vocabulary,
) *CreateOrderHandler {
	return &CreateOrderHandler{
		tx:           tx,
		tables:       tables,
		reservations: reservations,
		waiters:      waiters,
		statuses:     statuses,
		dishes:       dishes,
		repo:         repo,
		events:       events,
		vocabulary:   vocabulary,
		now:          time.Now,
	}
}

// Handle executes the create order command. The order and its items are written
// in one transaction.
func (h *CreateOrderHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error) {
	if len(cmd.Items) == 0 {
		return nil, apperror.Validation("order must contain at least one item")
	}
	for _, item := range cmd.Items {
		if err := item.validate(); err != nil {
			return nil, err
		}
	}

	order := &domain.Order{
		ReservationID: cmd.ReservationID,
		TableID:       cmd.TableID,
		Notes:         cmd.Notes,
	}

	err := h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		table, err := h.tables.FindByID(ctx, cmd.TableID)
		if err != nil {
			return err
		}
		order.Table = table

		if cmd.ReservationID != nil {
			if _, err := h.reservations.FindByID(ctx, *cmd.ReservationID); err != nil {
				return err
			}
		}
		if cmd.WaiterUsername != "" {
			waiter, err := h.waiters.FindByUsername(ctx, cmd.WaiterUsername)
			if err != nil {
				return err
			}
			order.WaiterUsername = waiter.Username
		}

		status, err := h.statuses.FindByName(ctx, h.vocabulary.Initial)
		if err != nil {
			return err
		}
		order.StatusID = status.ID
		order.Status = status

		for _, req := range cmd.Items {
			item, err := priceItem(ctx, h.dishes, req)
			if err != nil {
				return err
			}
			order.AddItem(item)
		}

		order.OrderNumber = domain.NewOrderNumber(h.now())
		return h.repo.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	Publish(ctx, h.events, kafka.EventTypeOrderCreated, order)
	return order, nil
}

// priceItem resolves the dish and freezes its current effective price on the line
func priceItem(ctx context.Context, dishes menudomain.DishRepository, req ItemRequest) (domain.OrderItem, error) {
	dish, err := dishes.FindByID(ctx, req.DishID)
	if err != nil {
		return domain.OrderItem{}, err
	}
	if !dish.IsActive {
		return domain.OrderItem{}, apperror.Validation("dish is not available: %s", dish.Name)
	}
	return domain.OrderItem{
		DishID:    dish.ID,
		DishName:  dish.Name,
		Quantity:  req.Quantity,
		UnitPrice: dish.EffectivePrice(),
		Notes:     req.Notes,
	}, nil
}
