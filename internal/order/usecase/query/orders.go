package query

import (
	"context"
	"time"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/order/domain"
)

const popularDishesLimit = 10

// GetOrderQuery finds an order by id or, when ID is zero, by number
type GetOrderQuery struct {
	ID     uint
	Number string
}

// ListOrdersQuery lists orders. Exactly one criterion is used, in field order.
type ListOrdersQuery struct {
	StatusName     string
	TableNumber    int
	WaiterUsername string
	Kitchen        bool
}

// StatisticsQuery covers orders created in [From, To)
type StatisticsQuery struct {
	From time.Time
	To   time.Time
}

// Statistics summarizes a period
type Statistics struct {
	From          time.Time               `json:"from"`
	To            time.Time               `json:"to"`
	PaidOrders    int64                   `json:"paid_orders"`
	PopularDishes []domain.DishPopularity `json:"popular_dishes"`
}

// OrderQueryHandler answers order reads
type OrderQueryHandler struct {
	repo       domain.OrderRepository
	statuses   domain.StatusRepository
	vocabulary domain.Vocabulary
}

func NewOrderQueryHandler(repo domain.OrderRepository, statuses domain.StatusRepository, vocabulary domain.Vocabulary) *OrderQueryHandler {
	return &OrderQueryHandler{repo: repo, statuses: statuses, vocabulary: vocabulary}
}

// Get executes the get order query
func (h *OrderQueryHandler) Get(ctx context.Context, query GetOrderQuery) (*domain.Order, error) {
	if query.ID != 0 {
		return h.repo.FindByID(ctx, query.ID)
	}
	if query.Number == "" {
		return nil, apperror.Validation("order id or number is required")
	}
	return h.repo.FindByNumber(ctx, query.Number)
}

// List executes the list orders query
func (h *OrderQueryHandler) List(ctx context.Context, query ListOrdersQuery) ([]domain.Order, error) {
	var filter domain.OrderFilter
	switch {
	case query.StatusName != "":
		if _, err := h.statuses.FindByName(ctx, query.StatusName); err != nil {
			return nil, err
		}
		filter.StatusNames = []string{query.StatusName}
	case query.TableNumber != 0:
		filter.TableNumber = query.TableNumber
	case query.WaiterUsername != "":
		filter.WaiterUsername = query.WaiterUsername
	case query.Kitchen:
		if len(h.vocabulary.Kitchen) == 0 {
			return []domain.Order{}, nil
		}
		filter.StatusNames = h.vocabulary.Kitchen
	default:
		return nil, apperror.Validation("a status, table number or waiter is required")
	}

	orders, err := h.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

// Statistics executes the statistics query
func (h *OrderQueryHandler) Statistics(ctx context.Context, query StatisticsQuery) (*Statistics, error) {
	if !query.To.After(query.From) {
		return nil, apperror.Validation("end must be after start")
	}

	paid, err := h.repo.CountPaidBetween(ctx, query.From, query.To)
	if err != nil {
		return nil, err
	}
	popular, err := h.repo.PopularDishes(ctx, query.From, query.To, popularDishesLimit)
	if err != nil {
		return nil, err
	}
	if popular == nil {
		popular = []domain.DishPopularity{}
	}

	return &Statistics{
		From:          query.From,
		To:            query.To,
		PaidOrders:    paid,
		PopularDishes: popular,
	}, nil
}

// ListStatuses returns the vocabulary in display order
func (h *OrderQueryHandler) ListStatuses(ctx context.Context) ([]domain.OrderStatus, error) {
	statuses, err := h.statuses.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if statuses == nil {
		statuses = []domain.OrderStatus{}
	}
	return statuses, nil
}
