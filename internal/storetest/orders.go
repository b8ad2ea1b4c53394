package storetest

import (
	"context"
	"sort"
	"time"

	"github.com/tair/restaurant-backend/internal/apperror"
	orderdomain "github.com/tair/restaurant-backend/internal/order/domain"
)

// OrderRepository is an in-memory orderdomain.OrderRepository
type OrderRepository struct {
	s *Store
}

func (s *Store) Orders() *OrderRepository {
	return &OrderRepository{s: s}
}

func (r *OrderRepository) Create(_ context.Context, order *orderdomain.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.tables[order.TableID]; !ok {
		return apperror.Validation("order references a missing record")
	}
	if _, ok := r.s.data.statuses[order.StatusID]; !ok {
		return apperror.Validation("order references a missing record")
	}
	for _, o := range r.s.data.orders {
		if o.OrderNumber == order.OrderNumber {
			return apperror.Conflict("order conflicts with an existing record")
		}
	}

	order.ID = r.s.nextID()
	r.s.stamp(&order.CreatedAt, &order.UpdatedAt)
	for i := range order.Items {
		item := &order.Items[i]
		item.ID = r.s.nextID()
		item.OrderID = order.ID
		if item.CreatedAt.IsZero() {
			item.CreatedAt = order.CreatedAt
		}
		r.s.data.orderItems[item.ID] = *item
	}
	r.s.data.orders[order.ID] = stripOrder(*order)
	return nil
}

// Update writes the order row only; items are written through AddItem and DeleteItem
func (r *OrderRepository) Update(_ context.Context, order *orderdomain.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.orders[order.ID]; !ok {
		return apperror.NotFound("order not found")
	}
	if _, ok := r.s.data.statuses[order.StatusID]; !ok {
		return apperror.Validation("order references a missing record")
	}
	r.s.stamp(&order.CreatedAt, &order.UpdatedAt)
	r.s.data.orders[order.ID] = stripOrder(*order)
	return nil
}

func (r *OrderRepository) AddItem(_ context.Context, item *orderdomain.OrderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.orders[item.OrderID]; !ok {
		return apperror.Validation("order item references a missing record")
	}
	item.ID = r.s.nextID()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = r.s.Now()
	}
	r.s.data.orderItems[item.ID] = *item
	return nil
}

func (r *OrderRepository) DeleteItem(_ context.Context, orderID, itemID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item, ok := r.s.data.orderItems[itemID]
	if !ok || item.OrderID != orderID {
		return apperror.NotFound("order item not found")
	}
	delete(r.s.data.orderItems, itemID)
	return nil
}

func (r *OrderRepository) FindByID(_ context.Context, id uint) (*orderdomain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.data.orders[id]
	if !ok {
		return nil, apperror.NotFound("order not found")
	}
	r.preload(&o)
	return &o, nil
}

func (r *OrderRepository) FindByIDForUpdate(ctx context.Context, id uint) (*orderdomain.Order, error) {
	return r.FindByID(ctx, id)
}

func (r *OrderRepository) FindByNumber(_ context.Context, number string) (*orderdomain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.data.orders {
		if o.OrderNumber == number {
			r.preload(&o)
			return &o, nil
		}
	}
	return nil, apperror.NotFound("order not found")
}

func (r *OrderRepository) FindAll(_ context.Context, filter orderdomain.OrderFilter) ([]orderdomain.Order, error) {
	statusNames := map[string]bool{}
	for _, name := range filter.StatusNames {
		statusNames[name] = true
	}
	return r.filter(func(o orderdomain.Order) bool {
		if len(statusNames) > 0 && !statusNames[r.s.data.statuses[o.StatusID].Name] {
			return false
		}
		if filter.TableNumber != 0 && r.s.data.tables[o.TableID].Number != filter.TableNumber {
			return false
		}
		if filter.WaiterUsername != "" && o.WaiterUsername != filter.WaiterUsername {
			return false
		}
		if filter.ReservationID != 0 && (o.ReservationID == nil || *o.ReservationID != filter.ReservationID) {
			return false
		}
		return true
	}), nil
}

func (r *OrderRepository) CountPaidBetween(_ context.Context, from, to time.Time) (int64, error) {
	return int64(len(r.filter(func(o orderdomain.Order) bool {
		return r.s.data.statuses[o.StatusID].IsPaid && inRange(o.CreatedAt, from, to)
	}))), nil
}

func (r *OrderRepository) PopularDishes(_ context.Context, from, to time.Time, limit int) ([]orderdomain.DishPopularity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	byDish := map[uint]*orderdomain.DishPopularity{}
	for _, item := range r.s.data.orderItems {
		o := r.s.data.orders[item.OrderID]
		if !inRange(o.CreatedAt, from, to) {
			continue
		}
		p, ok := byDish[item.DishID]
		if !ok {
			p = &orderdomain.DishPopularity{DishID: item.DishID, DishName: item.DishName}
			byDish[item.DishID] = p
		}
		p.Quantity += int64(item.Quantity)
	}

	out := make([]orderdomain.DishPopularity, 0, len(byDish))
	for _, p := range byDish {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity == out[j].Quantity {
			return out[i].DishID < out[j].DishID
		}
		return out[i].Quantity > out[j].Quantity
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *OrderRepository) filter(keep func(orderdomain.Order) bool) []orderdomain.Order {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []orderdomain.Order{}
	for _, o := range r.s.data.orders {
		if keep(o) {
			r.preload(&o)
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r *OrderRepository) preload(o *orderdomain.Order) {
	if t, ok := r.s.data.tables[o.TableID]; ok {
		o.Table = &t
	}
	if st, ok := r.s.data.statuses[o.StatusID]; ok {
		o.Status = &st
	}
	o.Items = []orderdomain.OrderItem{}
	for _, item := range r.s.data.orderItems {
		if item.OrderID == o.ID {
			o.Items = append(o.Items, item)
		}
	}
	sort.Slice(o.Items, func(i, j int) bool { return o.Items[i].ID < o.Items[j].ID })
}

func stripOrder(o orderdomain.Order) orderdomain.Order {
	o.Table = nil
	o.Status = nil
	o.Items = nil
	return o
}

// inRange reports whether t lies in the half-open range [from, to)
func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

// StatusRepository is an in-memory orderdomain.StatusRepository
type StatusRepository struct {
	s *Store
}

func (s *Store) Statuses() *StatusRepository {
	return &StatusRepository{s: s}
}

func (r *StatusRepository) Create(_ context.Context, status *orderdomain.OrderStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, st := range r.s.data.statuses {
		if st.Name == status.Name {
			return apperror.Conflict("order status conflicts with an existing record")
		}
	}
	status.ID = r.s.nextID()
	if status.CreatedAt.IsZero() {
		status.CreatedAt = r.s.Now()
	}
	r.s.data.statuses[status.ID] = *status
	return nil
}

func (r *StatusRepository) Update(_ context.Context, status *orderdomain.OrderStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.statuses[status.ID]; !ok {
		return apperror.NotFound("order status not found")
	}
	r.s.data.statuses[status.ID] = *status
	return nil
}

func (r *StatusRepository) FindByName(_ context.Context, name string) (*orderdomain.OrderStatus, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, st := range r.s.data.statuses {
		if st.Name == name {
			return &st, nil
		}
	}
	return nil, apperror.NotFound("order status not found")
}

func (r *StatusRepository) FindPaid(_ context.Context) (*orderdomain.OrderStatus, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, st := range r.s.data.statuses {
		if st.IsPaid {
			return &st, nil
		}
	}
	return nil, apperror.NotFound("order status not found")
}

func (r *StatusRepository) FindAll(_ context.Context) ([]orderdomain.OrderStatus, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]orderdomain.OrderStatus, 0, len(r.s.data.statuses))
	for _, st := range r.s.data.statuses {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder == out[j].DisplayOrder {
			return out[i].ID < out[j].ID
		}
		return out[i].DisplayOrder < out[j].DisplayOrder
	})
	return out, nil
}
