package storetest

import (
	invdomain "github.com/tair/restaurant-backend/internal/inventory/domain"
	menudomain "github.com/tair/restaurant-backend/internal/menu/domain"
	orderdomain "github.com/tair/restaurant-backend/internal/order/domain"
	paydomain "github.com/tair/restaurant-backend/internal/payment/domain"
	resdomain "github.com/tair/restaurant-backend/internal/reservation/domain"
	tabledomain "github.com/tair/restaurant-backend/internal/table/domain"
	userdomain "github.com/tair/restaurant-backend/internal/user/domain"
)

// state is one snapshot of every table. Rows are stored by value without
// their preloaded associations.
type state struct {
	seq          uint
	tables       map[uint]tabledomain.RestaurantTable
	reservations map[uint]resdomain.Reservation
	categories   map[uint]menudomain.MenuCategory
	dishes       map[uint]menudomain.Dish
	users        map[uint]userdomain.User
	statuses     map[uint]orderdomain.OrderStatus
	orders       map[uint]orderdomain.Order
	orderItems   map[uint]orderdomain.OrderItem
	ingredients  map[uint]invdomain.Ingredient
	movements    map[uint]invdomain.StockMovement
	recipes      map[uint]invdomain.DishRecipe
	payments     map[uint]paydomain.Payment
}

func newState() *state {
	return &state{
		tables:       map[uint]tabledomain.RestaurantTable{},
		reservations: map[uint]resdomain.Reservation{},
		categories:   map[uint]menudomain.MenuCategory{},
		dishes:       map[uint]menudomain.Dish{},
		users:        map[uint]userdomain.User{},
		statuses:     map[uint]orderdomain.OrderStatus{},
		orders:       map[uint]orderdomain.Order{},
		orderItems:   map[uint]orderdomain.OrderItem{},
		ingredients:  map[uint]invdomain.Ingredient{},
		movements:    map[uint]invdomain.StockMovement{},
		recipes:      map[uint]invdomain.DishRecipe{},
		payments:     map[uint]paydomain.Payment{},
	}
}

func (st *state) clone() *state {
	return &state{
		seq:          st.seq,
		tables:       copyMap(st.tables),
		reservations: copyMap(st.reservations),
		categories:   copyMap(st.categories),
		dishes:       copyMap(st.dishes),
		users:        copyMap(st.users),
		statuses:     copyMap(st.statuses),
		orders:       copyMap(st.orders),
		orderItems:   copyMap(st.orderItems),
		ingredients:  copyMap(st.ingredients),
		movements:    copyMap(st.movements),
		recipes:      copyMap(st.recipes),
		payments:     copyMap(st.payments),
	}
}
