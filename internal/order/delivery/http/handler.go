package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/order/usecase/command"
	"github.com/tair/restaurant-backend/internal/order/usecase/query"
	"github.com/tair/restaurant-backend/pkg/auth"
	"github.com/tair/restaurant-backend/pkg/httpx"
	"github.com/tair/restaurant-backend/pkg/logger"
)

// OrderHandler handles HTTP requests for orders using CQRS pattern
type OrderHandler struct {
	// Command handlers
	createHandler *command.CreateOrderHandler
	itemsHandler  *command.OrderItemsHandler
	statusHandler *command.UpdateOrderStatusHandler
	vocabHandler  *command.StatusHandler

	// Query handlers
	queryHandler *query.OrderQueryHandler

	ordersCreated *prometheus.CounterVec
}

// NewOrderHandler creates a new order handler; used by Wire
func NewOrderHandler(
	createHandler *command.CreateOrderHandler,
	itemsHandler *command.OrderItemsHandler,
	statusHandler *command.UpdateOrderStatusHandler,
	vocabHandler *command.StatusHandler,
	queryHandler *query.OrderQueryHandler,
) *OrderHandler {
	return &OrderHandler{
		createHandler: createHandler,
		itemsHandler:  itemsHandler,
		statusHandler: statusHandler,
		vocabHandler:  vocabHandler,
		queryHandler:  queryHandler,
	}
}

type itemRequest struct {
	DishID   uint   `json:"dish_id"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes"`
}

func (r itemRequest) toCommand() command.ItemRequest {
	return command.ItemRequest{DishID: r.DishID, Quantity: r.Quantity, Notes: r.Notes}
}

type createOrderRequest struct {
	TableID       uint          `json:"table_id"`
	ReservationID *uint         `json:"reservation_id"`
	Notes         string        `json:"notes"`
	Items         []itemRequest `json:"items"`
}

type statusRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order"`
}

// RegisterRoutes mounts the order endpoints
func (h *OrderHandler) RegisterRoutes(router *mux.Router, m *httpx.Metrics, a *httpx.Authenticator) {
	h.ordersCreated = m.NewCounterVec("orders_created_total", "Orders opened by table type", "table_type")

	floor := a.RequireRoles(auth.RoleWaiter, auth.RoleManager)
	readers := a.RequireRoles(auth.RoleWaiter, auth.RoleManager, auth.RoleChef)
	kitchen := a.RequireRoles(auth.RoleChef, auth.RoleManager)
	manager := a.RequireRoles(auth.RoleManager)
	waiter := a.RequireRoles(auth.RoleWaiter)

	router.HandleFunc("/api/orders", m.Wrap("/api/orders", floor(h.CreateOrder))).Methods("POST")
	router.HandleFunc("/api/orders/{id:[0-9]+}/items", m.Wrap("/api/orders/{id}/items", floor(h.AddItem))).Methods("POST")
	router.HandleFunc("/api/orders/{id:[0-9]+}/items/{itemId:[0-9]+}", m.Wrap("/api/orders/{id}/items/{itemId}", floor(h.RemoveItem))).Methods("DELETE")
	router.HandleFunc("/api/orders/{id:[0-9]+}/status/{status}", m.Wrap("/api/orders/{id}/status/{status}", readers(h.UpdateStatus))).Methods("PUT")

	router.HandleFunc("/api/orders/{id:[0-9]+}", m.Wrap("/api/orders/{id}", readers(h.GetOrder))).Methods("GET")
	router.HandleFunc("/api/orders/number/{number}", m.Wrap("/api/orders/number/{number}", readers(h.GetOrderByNumber))).Methods("GET")
	router.HandleFunc("/api/orders/status/{status}", m.Wrap("/api/orders/status/{status}", readers(h.ListByStatus))).Methods("GET")
	router.HandleFunc("/api/orders/table/{number:[0-9]+}", m.Wrap("/api/orders/table/{number}", readers(h.ListByTable))).Methods("GET")
	router.HandleFunc("/api/orders/waiter/{username}", m.Wrap("/api/orders/waiter/{username}", manager(h.ListByWaiter))).Methods("GET")
	router.HandleFunc("/api/orders/kitchen", m.Wrap("/api/orders/kitchen", kitchen(h.ListKitchen))).Methods("GET")
	router.HandleFunc("/api/orders/my-orders", m.Wrap("/api/orders/my-orders", waiter(h.ListMine))).Methods("GET")
	router.HandleFunc("/api/orders/statistics", m.Wrap("/api/orders/statistics", manager(h.Statistics))).Methods("GET")

	router.HandleFunc("/api/order-statuses", m.Wrap("/api/order-statuses", a.Authenticate(h.ListStatuses))).Methods("GET")
	router.HandleFunc("/api/order-statuses", m.Wrap("/api/order-statuses", manager(h.CreateStatus))).Methods("POST")
}

// CreateOrder godoc
// @Summary Open an order
// @Description Creates an order for a table with at least one item; the caller is recorded as the waiter
// @Tags Orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{table_id=int,reservation_id=int,notes=string,items=[]object{dish_id=int,quantity=int,notes=string}} true "Order data"
// @Success 201 {object} httpx.Response
// @Failure 400 {object} httpx.Response
// @Failure 404 {object} httpx.Response
// @Router /api/orders [post]
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	items := make([]command.ItemRequest, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, item.toCommand())
	}

	p, _ := httpx.PrincipalFrom(r.Context())
	order, err := h.createHandler.Handle(r.Context(), command.CreateOrderCommand{
		TableID:        req.TableID,
		ReservationID:  req.ReservationID,
		WaiterUsername: p.Username,
		Notes:          req.Notes,
		Items:          items,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	tableType := "unknown"
	if order.Table != nil {
		tableType = string(order.Table.Type)
	}
	h.ordersCreated.WithLabelValues(tableType).Inc()
	logger.Info(r.Context()).
		Uint("order_id", order.ID).
		Str("order_number", order.OrderNumber).
		Str("total_amount", order.TotalAmount.StringFixed(2)).
		Msg("Order created")
	httpx.OK(w, http.StatusCreated, "Order created successfully", order)
}

// AddItem handles POST /api/orders/{id}/items
func (h *OrderHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	var req itemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	order, err := h.itemsHandler.Add(r.Context(), command.AddOrderItemCommand{OrderID: id, Item: req.toCommand()})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Item added to order", order)
}

// RemoveItem handles DELETE /api/orders/{id}/items/{itemId}
func (h *OrderHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	itemID, err := httpx.PathID(r, "itemId")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	order, err := h.itemsHandler.Remove(r.Context(), command.RemoveOrderItemCommand{OrderID: id, ItemID: itemID})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Item removed from order", order)
}

// UpdateStatus handles PUT /api/orders/{id}/status/{status}
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	order, err := h.statusHandler.Handle(r.Context(), command.UpdateOrderStatusCommand{
		OrderID:    id,
		StatusName: mux.Vars(r)["status"],
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	logger.Info(r.Context()).
		Uint("order_id", order.ID).
		Str("status", mux.Vars(r)["status"]).
		Msg("Order status updated")
	httpx.OK(w, http.StatusOK, "Order status updated", order)
}

// GetOrder handles GET /api/orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	h.get(w, r, query.GetOrderQuery{ID: id})
}

// GetOrderByNumber handles GET /api/orders/number/{number}
func (h *OrderHandler) GetOrderByNumber(w http.ResponseWriter, r *http.Request) {
	h.get(w, r, query.GetOrderQuery{Number: mux.Vars(r)["number"]})
}

func (h *OrderHandler) get(w http.ResponseWriter, r *http.Request, q query.GetOrderQuery) {
	order, err := h.queryHandler.Get(r.Context(), q)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", order)
}

// ListByStatus handles GET /api/orders/status/{status}
func (h *OrderHandler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, query.ListOrdersQuery{StatusName: mux.Vars(r)["status"]})
}

// ListByTable handles GET /api/orders/table/{number}
func (h *OrderHandler) ListByTable(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(mux.Vars(r)["number"])
	if err != nil || number <= 0 {
		httpx.RespondError(w, r, apperror.Validation("invalid table number"))
		return
	}
	h.list(w, r, query.ListOrdersQuery{TableNumber: number})
}

// ListByWaiter handles GET /api/orders/waiter/{username}
func (h *OrderHandler) ListByWaiter(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, query.ListOrdersQuery{WaiterUsername: mux.Vars(r)["username"]})
}

// ListKitchen handles GET /api/orders/kitchen
func (h *OrderHandler) ListKitchen(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, query.ListOrdersQuery{Kitchen: true})
}

// ListMine handles GET /api/orders/my-orders
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	p, _ := httpx.PrincipalFrom(r.Context())
	h.list(w, r, query.ListOrdersQuery{WaiterUsername: p.Username})
}

func (h *OrderHandler) list(w http.ResponseWriter, r *http.Request, q query.ListOrdersQuery) {
	orders, err := h.queryHandler.List(r.Context(), q)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", orders)
}

// Statistics handles GET /api/orders/statistics?start=&end= (RFC 3339)
func (h *OrderHandler) Statistics(w http.ResponseWriter, r *http.Request) {
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

	stats, err := h.queryHandler.Statistics(r.Context(), query.StatisticsQuery{From: from, To: to})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", stats)
}

// ListStatuses handles GET /api/order-statuses
func (h *OrderHandler) ListStatuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.queryHandler.ListStatuses(r.Context())
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", statuses)
}

// CreateStatus handles POST /api/order-statuses
func (h *OrderHandler) CreateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	status, err := h.vocabHandler.Create(r.Context(), command.CreateStatusCommand{
		Name:         req.Name,
		Description:  req.Description,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusCreated, "Order status created", status)
}

