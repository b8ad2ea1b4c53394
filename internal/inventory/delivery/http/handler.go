package http

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/tair/restaurant-backend/internal/inventory/domain"
	"github.com/tair/restaurant-backend/internal/inventory/usecase/command"
	"github.com/tair/restaurant-backend/internal/inventory/usecase/query"
	"github.com/tair/restaurant-backend/pkg/auth"
	"github.com/tair/restaurant-backend/pkg/httpx"
	"github.com/tair/restaurant-backend/pkg/logger"
)

// InventoryHandler handles HTTP requests for the stock ledger using CQRS pattern
type InventoryHandler struct {
	// Command handlers
	ledgerHandler     *command.RecordMovementHandler
	ingredientHandler *command.IngredientHandler
	recipeHandler     *command.RecipeHandler

	// Query handlers
	queryHandler *query.StockQueryHandler

	movementsTotal *prometheus.CounterVec
	lowStock       prometheus.Gauge
}

// NewInventoryHandler creates a new inventory handler; used by Wire
func NewInventoryHandler(
	ledgerHandler *command.RecordMovementHandler,
	ingredientHandler *command.IngredientHandler,
	recipeHandler *command.RecipeHandler,
	queryHandler *query.StockQueryHandler,
) *InventoryHandler {
	return &InventoryHandler{
		ledgerHandler:     ledgerHandler,
		ingredientHandler: ingredientHandler,
		recipeHandler:     recipeHandler,
		queryHandler:      queryHandler,
	}
}

type ingredientRequest struct {
	Name          string          `json:"name"`
	Unit          string          `json:"unit"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
	CostPerUnit   decimal.Decimal `json:"cost_per_unit"`
}

func (r ingredientRequest) details() command.IngredientDetails {
	return command.IngredientDetails{
		Name:          r.Name,
		Unit:          r.Unit,
		MinStockLevel: r.MinStockLevel,
		CostPerUnit:   r.CostPerUnit,
	}
}

type movementRequest struct {
	IngredientID uint                  `json:"ingredient_id"`
	Quantity     decimal.Decimal       `json:"quantity"`
	Type         domain.MovementType   `json:"type"`
	Reason       domain.MovementReason `json:"reason"`
	Notes        string                `json:"notes"`
	OrderID      *uint                 `json:"order_id"`
}

type recipeRequest struct {
	QuantityRequired decimal.Decimal `json:"quantity_required"`
}

type requiredRequest struct {
	Items []query.RequiredItem `json:"items"`
}

// RegisterRoutes mounts the inventory endpoints
func (h *InventoryHandler) RegisterRoutes(router *mux.Router, m *httpx.Metrics, a *httpx.Authenticator) {
	h.movementsTotal = m.NewCounterVec("stock_movements_total", "Stock movements recorded by type and reason", "type", "reason")
	h.lowStock = m.NewGauge("low_stock_ingredients", "Ingredients at or below their minimum stock level")

	stock := a.RequireRoles(auth.RoleStorekeeper, auth.RoleManager)
	viewers := a.RequireRoles(auth.RoleStorekeeper, auth.RoleManager, auth.RoleChef)
	kitchen := a.RequireRoles(auth.RoleChef, auth.RoleManager)
	manager := a.RequireRoles(auth.RoleManager)

	router.HandleFunc("/api/inventory/ingredients", m.Wrap("/api/inventory/ingredients", viewers(h.ListIngredients))).Methods("GET")
	router.HandleFunc("/api/inventory/ingredients/{id:[0-9]+}", m.Wrap("/api/inventory/ingredients/{id}", viewers(h.GetIngredient))).Methods("GET")
	router.HandleFunc("/api/inventory/ingredients/{id:[0-9]+}/movements", m.Wrap("/api/inventory/ingredients/{id}/movements", stock(h.History))).Methods("GET")
	router.HandleFunc("/api/inventory/low-stock", m.Wrap("/api/inventory/low-stock", viewers(h.LowStock))).Methods("GET")

	router.HandleFunc("/api/inventory/ingredients", m.Wrap("/api/inventory/ingredients", stock(h.CreateIngredient))).Methods("POST")
	router.HandleFunc("/api/inventory/ingredients/{id:[0-9]+}", m.Wrap("/api/inventory/ingredients/{id}", stock(h.UpdateIngredient))).Methods("PUT")
	router.HandleFunc("/api/inventory/movement", m.Wrap("/api/inventory/movement", stock(h.RecordMovement))).Methods("POST")

	router.HandleFunc("/api/inventory/recipes/{dishId:[0-9]+}", m.Wrap("/api/inventory/recipes/{dishId}", kitchen(h.Recipe))).Methods("GET")
	router.HandleFunc("/api/inventory/recipes/{dishId:[0-9]+}/ingredients/{ingredientId:[0-9]+}", m.Wrap("/api/inventory/recipes/{dishId}/ingredients/{ingredientId}", kitchen(h.SetRecipe))).Methods("PUT")
	router.HandleFunc("/api/inventory/recipes/{dishId:[0-9]+}/ingredients/{ingredientId:[0-9]+}", m.Wrap("/api/inventory/recipes/{dishId}/ingredients/{ingredientId}", kitchen(h.RemoveRecipe))).Methods("DELETE")
	router.HandleFunc("/api/inventory/can-produce/{dishId:[0-9]+}", m.Wrap("/api/inventory/can-produce/{dishId}", kitchen(h.CanProduce))).Methods("GET")
	router.HandleFunc("/api/inventory/required-ingredients", m.Wrap("/api/inventory/required-ingredients", kitchen(h.RequiredIngredients))).Methods("POST")
	router.HandleFunc("/api/inventory/orders/{orderId:[0-9]+}/required-ingredients", m.Wrap("/api/inventory/orders/{orderId}/required-ingredients", kitchen(h.RequiredForOrder))).Methods("GET")

	router.HandleFunc("/api/inventory/statistics/consumption", m.Wrap("/api/inventory/statistics/consumption", manager(h.Consumption))).Methods("GET")
	router.HandleFunc("/api/inventory/statistics/value", m.Wrap("/api/inventory/statistics/value", manager(h.Value))).Methods("GET")
}

// RecordMovement godoc
// @Summary Record a stock movement
// @Description Applies an income or outcome movement to an ingredient; outcomes beyond current stock are rejected
// @Tags Inventory
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{ingredient_id=int,quantity=number,type=string,reason=string,notes=string,order_id=int} true "Movement"
// @Success 201 {object} httpx.Response
// @Failure 400 {object} httpx.Response
// @Failure 404 {object} httpx.Response
// @Router /api/inventory/movement [post]
func (h *InventoryHandler) RecordMovement(w http.ResponseWriter, r *http.Request) {
	var req movementRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	p, _ := httpx.PrincipalFrom(r.Context())
	movement, err := h.ledgerHandler.Handle(r.Context(), command.RecordMovementCommand{
		IngredientID: req.IngredientID,
		Quantity:     req.Quantity,
		Type:         req.Type,
		Reason:       req.Reason,
		Notes:        req.Notes,
		OrderID:      req.OrderID,
		PerformedBy:  p.Username,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	h.movementsTotal.WithLabelValues(string(movement.Type), string(movement.Reason)).Inc()
	h.refreshLowStock(r.Context())
	logger.Info(r.Context()).
		Uint("ingredient_id", movement.IngredientID).
		Str("type", string(movement.Type)).
		Str("quantity", movement.Quantity.String()).
		Str("current_stock", movement.Ingredient.CurrentStock.String()).
		Msg("Stock movement recorded")
	httpx.OK(w, http.StatusCreated, "Stock movement recorded", movement)
}

func (h *InventoryHandler) refreshLowStock(ctx context.Context) {
	low, err := h.queryHandler.ListIngredients(ctx, query.ListIngredientsQuery{LowStockOnly: true})
	if err != nil {
		logger.Warn(ctx).Err(err).Msg("Failed to refresh low stock gauge")
		return
	}
	h.lowStock.Set(float64(len(low)))
}

// CreateIngredient handles POST /api/inventory/ingredients
func (h *InventoryHandler) CreateIngredient(w http.ResponseWriter, r *http.Request) {
	var req ingredientRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	ingredient, err := h.ingredientHandler.Create(r.Context(), command.CreateIngredientCommand{Details: req.details()})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	h.refreshLowStock(r.Context())
	httpx.OK(w, http.StatusCreated, "Ingredient created successfully", ingredient)
}

// UpdateIngredient handles PUT /api/inventory/ingredients/{id}
func (h *InventoryHandler) UpdateIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	var req ingredientRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	ingredient, err := h.ingredientHandler.Update(r.Context(), command.UpdateIngredientCommand{ID: id, Details: req.details()})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	h.refreshLowStock(r.Context())
	httpx.OK(w, http.StatusOK, "Ingredient updated successfully", ingredient)
}

// GetIngredient handles GET /api/inventory/ingredients/{id}
func (h *InventoryHandler) GetIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	ingredient, err := h.queryHandler.GetIngredient(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", ingredient)
}

// ListIngredients handles GET /api/inventory/ingredients?search=
func (h *InventoryHandler) ListIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.queryHandler.ListIngredients(r.Context(), query.ListIngredientsQuery{
		Search: r.URL.Query().Get("search"),
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", ingredients)
}

// LowStock handles GET /api/inventory/low-stock
func (h *InventoryHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.queryHandler.ListIngredients(r.Context(), query.ListIngredientsQuery{LowStockOnly: true})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	h.lowStock.Set(float64(len(ingredients)))
	httpx.OK(w, http.StatusOK, "", ingredients)
}

// History handles GET /api/inventory/ingredients/{id}/movements?limit=
func (h *InventoryHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	limit, err := httpx.QueryInt(r, "limit", 0)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	movements, err := h.queryHandler.History(r.Context(), query.HistoryQuery{IngredientID: id, Limit: limit})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", movements)
}

// Recipe handles GET /api/inventory/recipes/{dishId}
func (h *InventoryHandler) Recipe(w http.ResponseWriter, r *http.Request) {
	dishID, err := httpx.PathID(r, "dishId")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	recipes, err := h.queryHandler.Recipe(r.Context(), dishID)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", recipes)
}

// SetRecipe handles PUT /api/inventory/recipes/{dishId}/ingredients/{ingredientId}
func (h *InventoryHandler) SetRecipe(w http.ResponseWriter, r *http.Request) {
	dishID, err := httpx.PathID(r, "dishId")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	ingredientID, err := httpx.PathID(r, "ingredientId")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	var req recipeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	recipe, err := h.recipeHandler.Set(r.Context(), command.SetRecipeCommand{
		DishID:           dishID,
		IngredientID:     ingredientID,
		QuantityRequired: req.QuantityRequired,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Recipe updated", recipe)
}

// RemoveRecipe handles DELETE /api/inventory/recipes/{dishId}/ingredients/{ingredientId}
func (h *InventoryHandler) RemoveRecipe(w http.ResponseWriter, r *http.Request) {
	dishID, err := httpx.PathID(r, "dishId")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	ingredientID, err := httpx.PathID(r, "ingredientId")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	if err := h.recipeHandler.Remove(r.Context(), command.RemoveRecipeCommand{DishID: dishID, IngredientID: ingredientID}); err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Recipe row removed", nil)
}

// CanProduce handles GET /api/inventory/can-produce/{dishId}?portions=
func (h *InventoryHandler) CanProduce(w http.ResponseWriter, r *http.Request) {
	dishID, err := httpx.PathID(r, "dishId")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	portions, err := httpx.QueryInt(r, "portions", 1)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	ok, err := h.queryHandler.CanProduceDish(r.Context(), query.CanProduceQuery{DishID: dishID, Portions: portions})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", map[string]interface{}{
		"dish_id":     dishID,
		"portions":    portions,
		"can_produce": ok,
	})
}

// RequiredIngredients handles POST /api/inventory/required-ingredients
func (h *InventoryHandler) RequiredIngredients(w http.ResponseWriter, r *http.Request) {
	var req requiredRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	reqs, err := h.queryHandler.CalculateRequiredIngredients(r.Context(), req.Items)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", reqs)
}

// RequiredForOrder handles GET /api/inventory/orders/{orderId}/required-ingredients
func (h *InventoryHandler) RequiredForOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := httpx.PathID(r, "orderId")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	reqs, err := h.queryHandler.RequiredForOrder(r.Context(), orderID)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", reqs)
}

// Consumption handles GET /api/inventory/statistics/consumption?start=&end=
func (h *InventoryHandler) Consumption(w http.ResponseWriter, r *http.Request) {
	from, err := httpx.QueryTime(r, "start")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	to, err := httpx.QueryTime(r, "end")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	rows, err := h.queryHandler.Consumption(r.Context(), query.ConsumptionQuery{From: from, To: to})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", rows)
}

// Value handles GET /api/inventory/statistics/value
func (h *InventoryHandler) Value(w http.ResponseWriter, r *http.Request) {
	value, err := h.queryHandler.Value(r.Context())
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", value)
}
