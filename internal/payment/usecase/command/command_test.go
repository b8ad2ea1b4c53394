package command_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/tair/restaurant-backend/internal/apperror"
	menudomain "github.com/tair/restaurant-backend/internal/menu/domain"
	orderdomain "github.com/tair/restaurant-backend/internal/order/domain"
	ordercommand "github.com/tair/restaurant-backend/internal/order/usecase/command"
	"github.com/tair/restaurant-backend/internal/payment/domain"
	"github.com/tair/restaurant-backend/internal/payment/usecase/command"
	"github.com/tair/restaurant-backend/internal/storetest"
	tabledomain "github.com/tair/restaurant-backend/internal/table/domain"
	"github.com/tair/restaurant-backend/kafka"
)

var vocabulary = orderdomain.Vocabulary{
	Statuses: []string{"received", "preparing", "ready", "served", "paid"},
	Initial:  "received",
	Paid:     "paid",
	Kitchen:  []string{"received", "preparing"},
}

type PaymentCommandSuite struct {
	suite.Suite
	ctx     context.Context
	store   *storetest.Store
	events  *storetest.Events
	create  *command.CreatePaymentHandler
	process *command.ProcessPaymentHandler
	status  *command.UpdateStatusHandler
	order   *orderdomain.Order
}

func TestPaymentCommandSuite(t *testing.T) {
	suite.Run(t, new(PaymentCommandSuite))
}

func (s *PaymentCommandSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = storetest.New()
	s.events = &storetest.Events{}

	orders := s.store.Orders()
	statuses := s.store.Statuses()
	payments := s.store.Payments()

	s.Require().NoError(ordercommand.NewStatusHandler(s.store, statuses, vocabulary).Seed(s.ctx))

	table := &tabledomain.RestaurantTable{Number: 3, Capacity: 2, Type: tabledomain.TypeStandard, IsActive: true}
	s.Require().NoError(s.store.Tables().Create(s.ctx, table))
	category := &menudomain.MenuCategory{Name: "Desserts", IsActive: true}
	s.Require().NoError(s.store.Categories().Create(s.ctx, category))
	cake := &menudomain.Dish{Name: "Cake", CategoryID: category.ID, Price: decimal.RequireFromString("7.25"), IsActive: true}
	s.Require().NoError(s.store.Dishes().Create(s.ctx, cake))

	openOrder := ordercommand.NewCreateOrderHandler(s.store, s.store.Tables(), s.store.Reservations(), s.store.Users(), statuses, s.store.Dishes(), orders, s.events, vocabulary)
	var err error
	s.order, err = openOrder.Handle(s.ctx, ordercommand.CreateOrderCommand{
		TableID: table.ID,
		Items:   []ordercommand.ItemRequest{{DishID: cake.ID, Quantity: 2}},
	})
	s.Require().NoError(err)
	s.events.Orders = nil

	s.create = command.NewCreatePaymentHandler(orders, payments)
	s.process = command.NewProcessPaymentHandler(s.store, payments, orders, statuses, s.events)
	s.status = command.NewUpdateStatusHandler(s.store, payments)
}

func (s *PaymentCommandSuite) pending(method domain.Method) *domain.Payment {
	payment, err := s.create.Handle(s.ctx, command.CreatePaymentCommand{OrderID: s.order.ID, Method: method, CreatedBy: "dana"})
	s.Require().NoError(err)
	return payment
}

func (s *PaymentCommandSuite) TestCreate_DefaultsToOrderTotal() {
	payment := s.pending(domain.MethodCard)

	s.Equal(domain.StatusPending, payment.Status)
	s.Equal("14.50", payment.Amount.StringFixed(2))
	s.Equal(s.order.OrderNumber, payment.OrderNumber)
	s.Empty(payment.TransactionID)
	s.Nil(payment.PaidAt)
}

func (s *PaymentCommandSuite) TestCreate_ExplicitAmount() {
	amount := decimal.RequireFromString("10.005")
	payment, err := s.create.Handle(s.ctx, command.CreatePaymentCommand{OrderID: s.order.ID, Amount: &amount, Method: domain.MethodCash})
	s.Require().NoError(err)
	s.Equal("10.01", payment.Amount.StringFixed(2))
}

func (s *PaymentCommandSuite) TestCreate_Rejections() {
	zero := decimal.Zero
	_, err := s.create.Handle(s.ctx, command.CreatePaymentCommand{OrderID: s.order.ID, Amount: &zero, Method: domain.MethodCash})
	s.True(apperror.IsValidation(err))

	negative := decimal.NewFromInt(-5)
	_, err = s.create.Handle(s.ctx, command.CreatePaymentCommand{OrderID: s.order.ID, Amount: &negative, Method: domain.MethodCash})
	s.True(apperror.IsValidation(err))

	_, err = s.create.Handle(s.ctx, command.CreatePaymentCommand{OrderID: s.order.ID, Method: "cheque"})
	s.True(apperror.IsValidation(err))

	_, err = s.create.Handle(s.ctx, command.CreatePaymentCommand{OrderID: 999, Method: domain.MethodCash})
	s.True(apperror.IsNotFound(err))
}

func (s *PaymentCommandSuite) TestProcess_PaysOrderAndPublishes() {
	payment := s.pending(domain.MethodCard)

	processed, err := s.process.Handle(s.ctx, command.ProcessPaymentCommand{PaymentID: payment.ID, TransactionID: " TX-42 "})
	s.Require().NoError(err)
	s.Equal(domain.StatusPaid, processed.Status)
	s.Equal("TX-42", processed.TransactionID)
	s.NotNil(processed.PaidAt)

	order, err := s.store.Orders().FindByID(s.ctx, s.order.ID)
	s.Require().NoError(err)
	s.True(order.IsPaid())
	s.Equal("paid", order.Status.Name)

	s.Equal([]string{kafka.EventTypeOrderStatusChanged, kafka.EventTypeOrderPaid}, s.events.OrderEventTypes())
	paidEvent := s.events.Orders[1]
	s.Equal(s.order.ID, paidEvent.OrderID)
	s.Equal("14.50", paidEvent.TotalAmount)
	s.Require().Len(paidEvent.Items, 1)
	s.Equal(2, paidEvent.Items[0].Quantity)

	_, err = s.create.Handle(s.ctx, command.CreatePaymentCommand{OrderID: s.order.ID, Method: domain.MethodCash})
	s.True(apperror.IsConflict(err))
}

func (s *PaymentCommandSuite) TestProcess_GeneratesTransactionID() {
	payment := s.pending(domain.MethodOnline)

	processed, err := s.process.Handle(s.ctx, command.ProcessPaymentCommand{PaymentID: payment.ID})
	s.Require().NoError(err)
	s.Regexp(`^TXN-[0-9a-f-]{36}$`, processed.TransactionID)
}

func (s *PaymentCommandSuite) TestProcess_ItemAddedAfterCreateIsNotSettled() {
	payment := s.pending(domain.MethodCard)

	items := ordercommand.NewOrderItemsHandler(s.store, s.store.Dishes(), s.store.Orders(), s.events)
	grown, err := items.Add(s.ctx, ordercommand.AddOrderItemCommand{
		OrderID: s.order.ID,
		Item:    ordercommand.ItemRequest{DishID: s.order.Items[0].DishID, Quantity: 1},
	})
	s.Require().NoError(err)
	s.Equal("21.75", grown.TotalAmount.StringFixed(2))
	s.events.Orders = nil

	_, err = s.process.Handle(s.ctx, command.ProcessPaymentCommand{PaymentID: payment.ID, TransactionID: "TX-OLD"})
	s.True(apperror.IsConflict(err))

	stored, err := s.store.Payments().FindByID(s.ctx, payment.ID)
	s.Require().NoError(err)
	s.Equal(domain.StatusPending, stored.Status)
	order, err := s.store.Orders().FindByID(s.ctx, s.order.ID)
	s.Require().NoError(err)
	s.False(order.IsPaid())
	s.Empty(s.events.Orders)

	fresh := s.pending(domain.MethodCard)
	s.Equal("21.75", fresh.Amount.StringFixed(2))
	_, err = s.process.Handle(s.ctx, command.ProcessPaymentCommand{PaymentID: fresh.ID})
	s.Require().NoError(err)
}

func (s *PaymentCommandSuite) TestProcess_ShortExplicitAmountRejected() {
	short := decimal.RequireFromString("10.00")
	payment, err := s.create.Handle(s.ctx, command.CreatePaymentCommand{OrderID: s.order.ID, Amount: &short, Method: domain.MethodCash})
	s.Require().NoError(err)

	_, err = s.process.Handle(s.ctx, command.ProcessPaymentCommand{PaymentID: payment.ID})
	s.True(apperror.IsConflict(err))
}

func (s *PaymentCommandSuite) TestProcess_SecondPaymentForPaidOrderRollsBack() {
	first := s.pending(domain.MethodCard)
	second := s.pending(domain.MethodCash)

	_, err := s.process.Handle(s.ctx, command.ProcessPaymentCommand{PaymentID: first.ID, TransactionID: "TX-1"})
	s.Require().NoError(err)

	_, err = s.process.Handle(s.ctx, command.ProcessPaymentCommand{PaymentID: second.ID, TransactionID: "TX-2"})
	s.True(apperror.IsConflict(err))

	stored, err := s.store.Payments().FindByID(s.ctx, second.ID)
	s.Require().NoError(err)
	s.Equal(domain.StatusPending, stored.Status)
	s.Len(s.events.Orders, 2)
}

func (s *PaymentCommandSuite) TestProcess_ConcurrentPaymentsSettleOnce() {
	ids := make([]uint, 6)
	for i := range ids {
		ids[i] = s.pending(domain.MethodCard).ID
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			_, err := s.process.Handle(s.ctx, command.ProcessPaymentCommand{PaymentID: id})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case apperror.IsConflict(err):
				conflicts++
			}
		}(id)
	}
	wg.Wait()

	s.Equal(1, succeeded)
	s.Equal(len(ids)-1, conflicts)

	payments, err := s.store.Payments().FindByOrder(s.ctx, s.order.ID)
	s.Require().NoError(err)
	paid := 0
	for _, p := range payments {
		if p.Status == domain.StatusPaid {
			paid++
		}
	}
	s.Equal(1, paid)
}

func (s *PaymentCommandSuite) TestProcess_MissingPaidStatusRollsBack() {
	paid, err := s.store.Statuses().FindPaid(s.ctx)
	s.Require().NoError(err)
	paid.IsPaid = false
	s.Require().NoError(s.store.Statuses().Update(s.ctx, paid))

	payment := s.pending(domain.MethodCard)
	_, err = s.process.Handle(s.ctx, command.ProcessPaymentCommand{PaymentID: payment.ID})
	s.True(apperror.IsNotFound(err))

	stored, err := s.store.Payments().FindByID(s.ctx, payment.ID)
	s.Require().NoError(err)
	s.Equal(domain.StatusPending, stored.Status)
	s.Empty(s.events.Orders)
}

func (s *PaymentCommandSuite) TestProcess_PublishFailureDoesNotFail() {
	s.events.Err = errors.New("broker down")
	payment := s.pending(domain.MethodCard)

	processed, err := s.process.Handle(s.ctx, command.ProcessPaymentCommand{PaymentID: payment.ID})
	s.Require().NoError(err)
	s.Equal(domain.StatusPaid, processed.Status)
}

func (s *PaymentCommandSuite) TestFailAndRefund() {
	declined := s.pending(domain.MethodCard)
	failed, err := s.status.Handle(s.ctx, command.UpdateStatusCommand{PaymentID: declined.ID, Status: domain.StatusFailed, Reason: " card declined "})
	s.Require().NoError(err)
	s.Equal(domain.StatusFailed, failed.Status)
	s.Equal("card declined", failed.FailureReason)

	_, err = s.process.Handle(s.ctx, command.ProcessPaymentCommand{PaymentID: declined.ID})
	s.True(apperror.IsConflict(err))

	settled := s.pending(domain.MethodCash)
	_, err = s.process.Handle(s.ctx, command.ProcessPaymentCommand{PaymentID: settled.ID})
	s.Require().NoError(err)

	refunded, err := s.status.Handle(s.ctx, command.UpdateStatusCommand{PaymentID: settled.ID, Status: domain.StatusRefunded})
	s.Require().NoError(err)
	s.Equal(domain.StatusRefunded, refunded.Status)

	order, err := s.store.Orders().FindByID(s.ctx, s.order.ID)
	s.Require().NoError(err)
	s.True(order.IsPaid())

	_, err = s.status.Handle(s.ctx, command.UpdateStatusCommand{PaymentID: settled.ID, Status: domain.StatusPending})
	s.True(apperror.IsValidation(err))

	_, err = s.status.Handle(s.ctx, command.UpdateStatusCommand{PaymentID: 999, Status: domain.StatusFailed})
	s.True(apperror.IsNotFound(err))
}
