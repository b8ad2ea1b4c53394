package command_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/tair/restaurant-backend/internal/apperror"
	menudomain "github.com/tair/restaurant-backend/internal/menu/domain"
	"github.com/tair/restaurant-backend/internal/order/domain"
	"github.com/tair/restaurant-backend/internal/order/usecase/command"
	"github.com/tair/restaurant-backend/internal/storetest"
	tabledomain "github.com/tair/restaurant-backend/internal/table/domain"
	userdomain "github.com/tair/restaurant-backend/internal/user/domain"
	"github.com/tair/restaurant-backend/kafka"
)

var vocabulary = domain.Vocabulary{
	Statuses: []string{"received", "preparing", "ready", "served", "paid"},
	Initial:  "received",
	Paid:     "paid",
	Kitchen:  []string{"received", "preparing"},
}

type OrderCommandSuite struct {
	suite.Suite
	ctx      context.Context
	store    *storetest.Store
	events   *storetest.Events
	create   *command.CreateOrderHandler
	items    *command.OrderItemsHandler
	status   *command.UpdateOrderStatusHandler
	statuses *command.StatusHandler
	table    *tabledomain.RestaurantTable
	soup     *menudomain.Dish
	tea      *menudomain.Dish
}

func TestOrderCommandSuite(t *testing.T) {
	suite.Run(t, new(OrderCommandSuite))
}

func (s *OrderCommandSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = storetest.New()
	s.events = &storetest.Events{}

	orders := s.store.Orders()
	statuses := s.store.Statuses()
	dishes := s.store.Dishes()

	s.create = command.NewCreateOrderHandler(s.store, s.store.Tables(), s.store.Reservations(), s.store.Users(), statuses, dishes, orders, s.events, vocabulary)
	s.items = command.NewOrderItemsHandler(s.store, dishes, orders, s.events)
	s.status = command.NewUpdateOrderStatusHandler(s.store, statuses, orders, s.events)
	s.statuses = command.NewStatusHandler(s.store, statuses, vocabulary)
	s.Require().NoError(s.statuses.Seed(s.ctx))

	s.table = &tabledomain.RestaurantTable{Number: 5, Capacity: 4, Type: tabledomain.TypeStandard, IsActive: true}
	s.Require().NoError(s.store.Tables().Create(s.ctx, s.table))
	s.Require().NoError(s.store.Users().Create(s.ctx, &userdomain.User{Username: "dana", FullName: "Dana", Role: "waiter", IsActive: true}))

	category := &menudomain.MenuCategory{Name: "Main", IsActive: true}
	s.Require().NoError(s.store.Categories().Create(s.ctx, category))
	s.soup = s.addDish(category.ID, "Soup", "10.00", true)
	s.tea = s.addDish(category.ID, "Tea", "5.50", true)
}

func (s *OrderCommandSuite) addDish(categoryID uint, name, price string, active bool) *menudomain.Dish {
	d := &menudomain.Dish{Name: name, CategoryID: categoryID, Price: decimal.RequireFromString(price), IsActive: active}
	s.Require().NoError(s.store.Dishes().Create(s.ctx, d))
	return d
}

func (s *OrderCommandSuite) open() *domain.Order {
	order, err := s.create.Handle(s.ctx, command.CreateOrderCommand{
		TableID:        s.table.ID,
		WaiterUsername: "dana",
		Items: []command.ItemRequest{
			{DishID: s.soup.ID, Quantity: 2},
			{DishID: s.tea.ID, Quantity: 1},
		},
	})
	s.Require().NoError(err)
	return order
}

func (s *OrderCommandSuite) TestCreate_TotalsAndInitialStatus() {
	order := s.open()

	s.Equal("25.5", order.TotalAmount.String())
	s.Equal("received", order.Status.Name)
	s.Equal("dana", order.WaiterUsername)
	s.Regexp(`^ORD-\d+-[0-9A-F]{8}$`, order.OrderNumber)
	s.Len(order.Items, 2)
	s.Equal("Soup", order.Items[0].DishName)
	s.Equal([]string{kafka.EventTypeOrderCreated}, s.events.OrderEventTypes())

	stored, err := s.store.Orders().FindByID(s.ctx, order.ID)
	s.Require().NoError(err)
	s.True(stored.TotalAmount.Equal(decimal.RequireFromString("25.50")))
	s.Len(stored.Items, 2)
}

func (s *OrderCommandSuite) TestCreate_FreezesPromotionPrice() {
	s.tea.IsOnPromotion = true
	s.tea.PromotionPrice = decimal.NewNullDecimal(decimal.RequireFromString("4.00"))
	s.Require().NoError(s.store.Dishes().Update(s.ctx, s.tea))

	order := s.open()
	s.Equal("24", order.TotalAmount.String())

	s.tea.IsOnPromotion = false
	s.Require().NoError(s.store.Dishes().Update(s.ctx, s.tea))

	stored, err := s.store.Orders().FindByID(s.ctx, order.ID)
	s.Require().NoError(err)
	s.Equal("4", stored.Items[1].UnitPrice.String())
}

func (s *OrderCommandSuite) TestCreate_Rejections() {
	_, err := s.create.Handle(s.ctx, command.CreateOrderCommand{TableID: s.table.ID})
	s.True(apperror.IsValidation(err))

	_, err = s.create.Handle(s.ctx, command.CreateOrderCommand{
		TableID: s.table.ID,
		Items:   []command.ItemRequest{{DishID: s.soup.ID, Quantity: 0}},
	})
	s.True(apperror.IsValidation(err))

	_, err = s.create.Handle(s.ctx, command.CreateOrderCommand{
		TableID: 999,
		Items:   []command.ItemRequest{{DishID: s.soup.ID, Quantity: 1}},
	})
	s.True(apperror.IsNotFound(err))

	_, err = s.create.Handle(s.ctx, command.CreateOrderCommand{
		TableID: s.table.ID,
		Items:   []command.ItemRequest{{DishID: 999, Quantity: 1}},
	})
	s.True(apperror.IsNotFound(err))

	_, err = s.create.Handle(s.ctx, command.CreateOrderCommand{
		TableID:        s.table.ID,
		WaiterUsername: "ghost",
		Items:          []command.ItemRequest{{DishID: s.soup.ID, Quantity: 1}},
	})
	s.True(apperror.IsNotFound(err))

	s.Empty(s.events.Orders)
}

func (s *OrderCommandSuite) TestCreate_InactiveDishRollsBack() {
	gone := s.addDish(s.soup.CategoryID, "Seasonal", "7.00", false)

	_, err := s.create.Handle(s.ctx, command.CreateOrderCommand{
		TableID: s.table.ID,
		Items: []command.ItemRequest{
			{DishID: s.soup.ID, Quantity: 1},
			{DishID: gone.ID, Quantity: 1},
		},
	})
	s.True(apperror.IsValidation(err))

	orders, err := s.store.Orders().FindAll(s.ctx, domain.OrderFilter{})
	s.Require().NoError(err)
	s.Empty(orders)
}

func (s *OrderCommandSuite) TestAddAndRemoveItems() {
	order := s.open()

	updated, err := s.items.Add(s.ctx, command.AddOrderItemCommand{
		OrderID: order.ID,
		Item:    command.ItemRequest{DishID: s.tea.ID, Quantity: 2, Notes: "no sugar"},
	})
	s.Require().NoError(err)
	s.Len(updated.Items, 3)
	s.Equal("36.5", updated.TotalAmount.String())

	updated, err = s.items.Remove(s.ctx, command.RemoveOrderItemCommand{OrderID: order.ID, ItemID: order.Items[0].ID})
	s.Require().NoError(err)
	s.Len(updated.Items, 2)
	s.Equal("16.5", updated.TotalAmount.String())

	stored, err := s.store.Orders().FindByID(s.ctx, order.ID)
	s.Require().NoError(err)
	s.Len(stored.Items, 2)
	s.Equal("16.5", stored.TotalAmount.String())

	s.Equal([]string{
		kafka.EventTypeOrderCreated,
		kafka.EventTypeOrderItemAdded,
		kafka.EventTypeOrderItemRemoved,
	}, s.events.OrderEventTypes())
}

func (s *OrderCommandSuite) TestRemove_UnknownAndLastItem() {
	order := s.open()

	_, err := s.items.Remove(s.ctx, command.RemoveOrderItemCommand{OrderID: order.ID, ItemID: 999})
	s.True(apperror.IsNotFound(err))

	_, err = s.items.Remove(s.ctx, command.RemoveOrderItemCommand{OrderID: order.ID, ItemID: order.Items[0].ID})
	s.Require().NoError(err)

	_, err = s.items.Remove(s.ctx, command.RemoveOrderItemCommand{OrderID: order.ID, ItemID: order.Items[1].ID})
	s.True(apperror.IsValidation(err))
}

func (s *OrderCommandSuite) TestPaidOrderIsFrozen() {
	order := s.open()

	paid, err := s.status.Handle(s.ctx, command.UpdateOrderStatusCommand{OrderID: order.ID, StatusName: "paid"})
	s.Require().NoError(err)
	s.True(paid.IsPaid())

	_, err = s.items.Add(s.ctx, command.AddOrderItemCommand{
		OrderID: order.ID,
		Item:    command.ItemRequest{DishID: s.tea.ID, Quantity: 1},
	})
	s.True(apperror.IsConflict(err))

	_, err = s.items.Remove(s.ctx, command.RemoveOrderItemCommand{OrderID: order.ID, ItemID: order.Items[0].ID})
	s.True(apperror.IsConflict(err))

	s.Equal([]string{
		kafka.EventTypeOrderCreated,
		kafka.EventTypeOrderStatusChanged,
		kafka.EventTypeOrderPaid,
	}, s.events.OrderEventTypes())
}

func (s *OrderCommandSuite) TestUpdateStatus_Permissive() {
	order := s.open()

	updated, err := s.status.Handle(s.ctx, command.UpdateOrderStatusCommand{OrderID: order.ID, StatusName: "served"})
	s.Require().NoError(err)
	s.Equal("served", updated.Status.Name)

	updated, err = s.status.Handle(s.ctx, command.UpdateOrderStatusCommand{OrderID: order.ID, StatusName: "received"})
	s.Require().NoError(err)
	s.Equal("received", updated.Status.Name)

	_, err = s.status.Handle(s.ctx, command.UpdateOrderStatusCommand{OrderID: order.ID, StatusName: "lost"})
	s.True(apperror.IsNotFound(err))
}

func (s *OrderCommandSuite) TestPublishFailureDoesNotFailCommand() {
	s.events.Err = context.DeadlineExceeded
	order := s.open()
	s.NotZero(order.ID)
}

func (s *OrderCommandSuite) TestSeed_IsIdempotentAndMovesPaidFlag() {
	s.Require().NoError(s.statuses.Seed(s.ctx))
	all, err := s.store.Statuses().FindAll(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 5)

	moved := vocabulary
	moved.Statuses = []string{"received", "preparing", "ready", "served", "settled"}
	moved.Paid = "settled"
	s.Require().NoError(command.NewStatusHandler(s.store, s.store.Statuses(), moved).Seed(s.ctx))

	all, err = s.store.Statuses().FindAll(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 6)

	paid, err := s.store.Statuses().FindPaid(s.ctx)
	s.Require().NoError(err)
	s.Equal("settled", paid.Name)

	old, err := s.store.Statuses().FindByName(s.ctx, "paid")
	s.Require().NoError(err)
	s.False(old.IsPaid)
}

func (s *OrderCommandSuite) TestCreateStatus() {
	status, err := s.statuses.Create(s.ctx, command.CreateStatusCommand{Name: " delayed ", DisplayOrder: 9})
	s.Require().NoError(err)
	s.Equal("delayed", status.Name)
	s.False(status.IsPaid)

	_, err = s.statuses.Create(s.ctx, command.CreateStatusCommand{Name: "delayed"})
	s.True(apperror.IsConflict(err))

	_, err = s.statuses.Create(s.ctx, command.CreateStatusCommand{Name: "  "})
	s.True(apperror.IsValidation(err))
}

