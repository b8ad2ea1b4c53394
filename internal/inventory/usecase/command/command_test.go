package command_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/inventory/domain"
	"github.com/tair/restaurant-backend/internal/inventory/usecase/command"
	menudomain "github.com/tair/restaurant-backend/internal/menu/domain"
	"github.com/tair/restaurant-backend/internal/storetest"
	"github.com/tair/restaurant-backend/kafka"
)

func qty(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type InventoryCommandSuite struct {
	suite.Suite
	ctx         context.Context
	store       *storetest.Store
	events      *storetest.Events
	ledger      *command.RecordMovementHandler
	produce     *command.ProduceOrderHandler
	ingredients *command.IngredientHandler
	recipes     *command.RecipeHandler
	flour       *domain.Ingredient
	dish        *menudomain.Dish
}

func TestInventoryCommandSuite(t *testing.T) {
	suite.Run(t, new(InventoryCommandSuite))
}

func (s *InventoryCommandSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = storetest.New()
	s.events = &storetest.Events{}

	s.ledger = command.NewRecordMovementHandler(s.store, s.store.Ingredients(), s.store.Movements(), s.events)
	s.produce = command.NewProduceOrderHandler(s.store, s.store.Recipes(), s.store.Movements(), s.ledger)
	s.ingredients = command.NewIngredientHandler(s.store.Ingredients())
	s.recipes = command.NewRecipeHandler(s.store.Dishes(), s.store.Ingredients(), s.store.Recipes())

	var err error
	s.flour, err = s.ingredients.Create(s.ctx, command.CreateIngredientCommand{Details: command.IngredientDetails{
		Name: "flour", Unit: "kg", MinStockLevel: qty("5"), CostPerUnit: qty("1.20"),
	}})
	s.Require().NoError(err)

	category := &menudomain.MenuCategory{Name: "Bakery", IsActive: true}
	s.Require().NoError(s.store.Categories().Create(s.ctx, category))
	s.dish = &menudomain.Dish{Name: "Bread", CategoryID: category.ID, Price: qty("3.00"), IsActive: true}
	s.Require().NoError(s.store.Dishes().Create(s.ctx, s.dish))
}

func (s *InventoryCommandSuite) move(ingredientID uint, amount string, t domain.MovementType, reason domain.MovementReason) (*domain.StockMovement, error) {
	return s.ledger.Handle(s.ctx, command.RecordMovementCommand{
		IngredientID: ingredientID,
		Quantity:     qty(amount),
		Type:         t,
		Reason:       reason,
		PerformedBy:  "aliya",
	})
}

func (s *InventoryCommandSuite) stock(id uint) decimal.Decimal {
	ingredient, err := s.store.Ingredients().FindByID(s.ctx, id)
	s.Require().NoError(err)
	return ingredient.CurrentStock
}

func (s *InventoryCommandSuite) TestFlourScenario() {
	_, err := s.move(s.flour.ID, "5", domain.MovementIncome, domain.ReasonPurchase)
	s.Require().NoError(err)
	s.True(s.stock(s.flour.ID).Equal(qty("5")))

	movement, err := s.move(s.flour.ID, "1", domain.MovementOutcome, domain.ReasonWriteOff)
	s.Require().NoError(err)
	s.True(movement.Ingredient.CurrentStock.Equal(qty("4")))
	s.True(movement.Ingredient.IsStockLow())
	s.False(movement.MovementDate.IsZero())

	_, err = s.move(s.flour.ID, "10", domain.MovementOutcome, domain.ReasonWriteOff)
	s.True(apperror.IsValidation(err))
	s.Contains(err.Error(), "insufficient stock")
	s.True(s.stock(s.flour.ID).Equal(qty("4")))

	history, err := s.store.Movements().FindByIngredient(s.ctx, s.flour.ID, 10)
	s.Require().NoError(err)
	s.Len(history, 2)
}

func (s *InventoryCommandSuite) TestStockEvents() {
	_, err := s.move(s.flour.ID, "6", domain.MovementIncome, domain.ReasonPurchase)
	s.Require().NoError(err)
	_, err = s.move(s.flour.ID, "2", domain.MovementOutcome, domain.ReasonWriteOff)
	s.Require().NoError(err)

	s.Require().Len(s.events.Stock, 3)
	s.Equal(kafka.EventTypeStockMovementRecorded, s.events.Stock[0].EventType)
	s.Equal(kafka.EventTypeStockMovementRecorded, s.events.Stock[1].EventType)
	s.Equal(kafka.EventTypeStockLow, s.events.Stock[2].EventType)
	s.Equal("4", s.events.Stock[2].CurrentStock)
}

func (s *InventoryCommandSuite) TestRecordMovement_Validation() {
	_, err := s.move(s.flour.ID, "0", domain.MovementIncome, domain.ReasonPurchase)
	s.True(apperror.IsValidation(err))

	_, err = s.move(s.flour.ID, "-1", domain.MovementIncome, domain.ReasonPurchase)
	s.True(apperror.IsValidation(err))

	_, err = s.move(s.flour.ID, "1", "sideways", domain.ReasonPurchase)
	s.True(apperror.IsValidation(err))

	_, err = s.move(s.flour.ID, "1", domain.MovementIncome, "gift")
	s.True(apperror.IsValidation(err))

	_, err = s.move(999, "1", domain.MovementIncome, domain.ReasonPurchase)
	s.True(apperror.IsNotFound(err))

	s.Empty(s.events.Stock)
}

func (s *InventoryCommandSuite) TestQuantitiesFinerThanStorageRejected() {
	_, err := s.move(s.flour.ID, "0.0004", domain.MovementIncome, domain.ReasonPurchase)
	s.True(apperror.IsValidation(err))
	_, err = s.move(s.flour.ID, "1.2345", domain.MovementIncome, domain.ReasonPurchase)
	s.True(apperror.IsValidation(err))
	s.True(s.stock(s.flour.ID).IsZero())
	history, err := s.store.Movements().FindByIngredient(s.ctx, s.flour.ID, 10)
	s.Require().NoError(err)
	s.Empty(history)
	s.Empty(s.events.Stock)

	_, err = s.move(s.flour.ID, "1.2340", domain.MovementIncome, domain.ReasonPurchase)
	s.Require().NoError(err)
	s.Equal("1.234", s.stock(s.flour.ID).String())

	_, err = s.recipes.Set(s.ctx, command.SetRecipeCommand{DishID: s.dish.ID, IngredientID: s.flour.ID, QuantityRequired: qty("0.0004")})
	s.True(apperror.IsValidation(err))
	rows, err := s.store.Recipes().FindByDish(s.ctx, s.dish.ID)
	s.Require().NoError(err)
	s.Empty(rows)

	_, err = s.ingredients.Create(s.ctx, command.CreateIngredientCommand{Details: command.IngredientDetails{
		Name: "yeast", Unit: "kg", MinStockLevel: qty("0.0005"),
	}})
	s.True(apperror.IsValidation(err))
	_, err = s.ingredients.Update(s.ctx, command.UpdateIngredientCommand{ID: s.flour.ID, Details: command.IngredientDetails{
		Name: "flour", Unit: "kg", MinStockLevel: qty("2.0001"),
	}})
	s.True(apperror.IsValidation(err))
}

func (s *InventoryCommandSuite) TestConcurrentOutcomesNeverOverdraw() {
	_, err := s.move(s.flour.ID, "10", domain.MovementIncome, domain.ReasonPurchase)
	s.Require().NoError(err)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.move(s.flour.ID, "3", domain.MovementOutcome, domain.ReasonWriteOff); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.Equal(3, succeeded)
	s.True(s.stock(s.flour.ID).Equal(qty("1")))
}

func (s *InventoryCommandSuite) TestProduceOrder_WritesOffOnce() {
	butter, err := s.ingredients.Create(s.ctx, command.CreateIngredientCommand{Details: command.IngredientDetails{
		Name: "butter", Unit: "kg", MinStockLevel: qty("0.5"),
	}})
	s.Require().NoError(err)

	_, err = s.move(s.flour.ID, "10", domain.MovementIncome, domain.ReasonPurchase)
	s.Require().NoError(err)
	_, err = s.move(butter.ID, "2", domain.MovementIncome, domain.ReasonPurchase)
	s.Require().NoError(err)

	_, err = s.recipes.Set(s.ctx, command.SetRecipeCommand{DishID: s.dish.ID, IngredientID: s.flour.ID, QuantityRequired: qty("0.5")})
	s.Require().NoError(err)
	_, err = s.recipes.Set(s.ctx, command.SetRecipeCommand{DishID: s.dish.ID, IngredientID: butter.ID, QuantityRequired: qty("0.1")})
	s.Require().NoError(err)

	event := kafka.OrderEvent{
		EventType:   kafka.EventTypeOrderPaid,
		OrderID:     42,
		OrderNumber: "ORD-1-0000ABCD",
		Items:       []kafka.OrderEventItem{{DishID: s.dish.ID, Quantity: 2}, {DishID: s.dish.ID, Quantity: 1}},
	}
	s.Require().NoError(s.produce.Handle(s.ctx, event))
	s.True(s.stock(s.flour.ID).Equal(qty("8.5")))
	s.True(s.stock(butter.ID).Equal(qty("1.7")))

	s.Require().NoError(s.produce.Handle(s.ctx, event))
	s.True(s.stock(s.flour.ID).Equal(qty("8.5")))

	history, err := s.store.Movements().FindByIngredient(s.ctx, s.flour.ID, 10)
	s.Require().NoError(err)
	s.Require().Len(history, 2)
	s.Equal(domain.ReasonProduction, history[0].Reason)
	s.Equal(uint(42), *history[0].OrderID)
}

func (s *InventoryCommandSuite) TestProduceOrder_ShortageRollsBackEverything() {
	butter, err := s.ingredients.Create(s.ctx, command.CreateIngredientCommand{Details: command.IngredientDetails{Name: "butter", Unit: "kg"}})
	s.Require().NoError(err)

	_, err = s.move(s.flour.ID, "10", domain.MovementIncome, domain.ReasonPurchase)
	s.Require().NoError(err)
	_, err = s.recipes.Set(s.ctx, command.SetRecipeCommand{DishID: s.dish.ID, IngredientID: s.flour.ID, QuantityRequired: qty("1")})
	s.Require().NoError(err)
	_, err = s.recipes.Set(s.ctx, command.SetRecipeCommand{DishID: s.dish.ID, IngredientID: butter.ID, QuantityRequired: qty("1")})
	s.Require().NoError(err)

	s.events.Stock = nil

	err = s.produce.Handle(s.ctx, kafka.OrderEvent{
		EventType:   kafka.EventTypeOrderPaid,
		OrderID:     7,
		OrderNumber: "ORD-7",
		Items:       []kafka.OrderEventItem{{DishID: s.dish.ID, Quantity: 1}},
	})
	s.True(apperror.IsValidation(err))
	s.True(s.stock(s.flour.ID).Equal(qty("10")))

	s.Require().Len(s.events.Stock, 1)
	failure := s.events.Stock[0]
	s.Equal(kafka.EventTypeStockProductionFailed, failure.EventType)
	s.Equal(uint(7), failure.OrderID)
	s.Equal("ORD-7", failure.OrderNumber)
	s.Equal(butter.ID, failure.IngredientID)
	s.Contains(failure.Error, "insufficient stock")

	done, err := s.store.Movements().ExistsForOrder(s.ctx, 7, domain.ReasonProduction)
	s.Require().NoError(err)
	s.False(done)
}

func (s *InventoryCommandSuite) TestProduceOrder_IgnoresOtherEvents() {
	s.NoError(s.produce.Handle(s.ctx, kafka.OrderEvent{
		EventType: kafka.EventTypeOrderCreated,
		OrderID:   1,
		Items:     []kafka.OrderEventItem{{DishID: s.dish.ID, Quantity: 1}},
	}))
}

func (s *InventoryCommandSuite) TestIngredientCatalog() {
	_, err := s.ingredients.Create(s.ctx, command.CreateIngredientCommand{Details: command.IngredientDetails{Name: "flour", Unit: "kg"}})
	s.True(apperror.IsConflict(err))

	_, err = s.ingredients.Create(s.ctx, command.CreateIngredientCommand{Details: command.IngredientDetails{Name: "salt"}})
	s.True(apperror.IsValidation(err))

	_, err = s.ingredients.Create(s.ctx, command.CreateIngredientCommand{Details: command.IngredientDetails{
		Name: "salt", Unit: "kg", MinStockLevel: qty("-1"),
	}})
	s.True(apperror.IsValidation(err))

	_, err = s.move(s.flour.ID, "3", domain.MovementIncome, domain.ReasonPurchase)
	s.Require().NoError(err)

	updated, err := s.ingredients.Update(s.ctx, command.UpdateIngredientCommand{ID: s.flour.ID, Details: command.IngredientDetails{
		Name: "wheat flour", Unit: "kg", MinStockLevel: qty("2"), CostPerUnit: qty("1.50"),
	}})
	s.Require().NoError(err)
	s.Equal("wheat flour", updated.Name)
	s.True(updated.CurrentStock.Equal(qty("3")))
	s.False(updated.IsStockLow())
}

func (s *InventoryCommandSuite) TestRecipes() {
	_, err := s.recipes.Set(s.ctx, command.SetRecipeCommand{DishID: s.dish.ID, IngredientID: s.flour.ID, QuantityRequired: qty("0")})
	s.True(apperror.IsValidation(err))

	_, err = s.recipes.Set(s.ctx, command.SetRecipeCommand{DishID: 999, IngredientID: s.flour.ID, QuantityRequired: qty("1")})
	s.True(apperror.IsNotFound(err))

	_, err = s.recipes.Set(s.ctx, command.SetRecipeCommand{DishID: s.dish.ID, IngredientID: 999, QuantityRequired: qty("1")})
	s.True(apperror.IsNotFound(err))

	first, err := s.recipes.Set(s.ctx, command.SetRecipeCommand{DishID: s.dish.ID, IngredientID: s.flour.ID, QuantityRequired: qty("1")})
	s.Require().NoError(err)
	second, err := s.recipes.Set(s.ctx, command.SetRecipeCommand{DishID: s.dish.ID, IngredientID: s.flour.ID, QuantityRequired: qty("2")})
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID)

	rows, err := s.store.Recipes().FindByDish(s.ctx, s.dish.ID)
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal("2", rows[0].QuantityRequired.String())

	s.Require().NoError(s.recipes.Remove(s.ctx, command.RemoveRecipeCommand{DishID: s.dish.ID, IngredientID: s.flour.ID}))
	s.True(apperror.IsNotFound(s.recipes.Remove(s.ctx, command.RemoveRecipeCommand{DishID: s.dish.ID, IngredientID: s.flour.ID})))
}
