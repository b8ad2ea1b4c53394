package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/tair/restaurant-backend/internal/payment/domain"
	"github.com/tair/restaurant-backend/internal/payment/usecase/command"
	"github.com/tair/restaurant-backend/internal/payment/usecase/query"
	"github.com/tair/restaurant-backend/pkg/auth"
	"github.com/tair/restaurant-backend/pkg/httpx"
	"github.com/tair/restaurant-backend/pkg/logger"
)

// PaymentHandler handles HTTP requests for payments using CQRS pattern
type PaymentHandler struct {
	// Command handlers
	createHandler  *command.CreatePaymentHandler
	processHandler *command.ProcessPaymentHandler
	statusHandler  *command.UpdateStatusHandler

	// Query handlers
	queryHandler *query.PaymentQueryHandler

	payments *prometheus.CounterVec
	revenue  *prometheus.CounterVec
}

// NewPaymentHandler creates a new payment handler; used by Wire
func NewPaymentHandler(
	createHandler *command.CreatePaymentHandler,
	processHandler *command.ProcessPaymentHandler,
	statusHandler *command.UpdateStatusHandler,
	queryHandler *query.PaymentQueryHandler,
) *PaymentHandler {
	return &PaymentHandler{
		createHandler:  createHandler,
		processHandler: processHandler,
		statusHandler:  statusHandler,
		queryHandler:   queryHandler,
	}
}

type createPaymentRequest struct {
	OrderID uint             `json:"order_id"`
	Amount  *decimal.Decimal `json:"amount"`
	Method  domain.Method    `json:"payment_method"`
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

// RegisterRoutes mounts the payment endpoints
func (h *PaymentHandler) RegisterRoutes(router *mux.Router, m *httpx.Metrics, a *httpx.Authenticator) {
	h.payments = m.NewCounterVec("payments_total", "Payment status changes by method", "method", "status")
	h.revenue = m.NewCounterVec("payments_revenue_total", "Settled amount by method", "method")

	till := a.RequireRoles(auth.RoleWaiter, auth.RoleCashier, auth.RoleManager)
	manager := a.RequireRoles(auth.RoleManager)

	router.HandleFunc("/api/payments", m.Wrap("/api/payments", till(h.CreatePayment))).Methods("POST")
	router.HandleFunc("/api/payments/{id:[0-9]+}", m.Wrap("/api/payments/{id}", till(h.GetPayment))).Methods("GET")
	router.HandleFunc("/api/payments/order/{orderId:[0-9]+}", m.Wrap("/api/payments/order/{orderId}", till(h.ListByOrder))).Methods("GET")
	router.HandleFunc("/api/payments/{id:[0-9]+}/process", m.Wrap("/api/payments/{id}/process", till(h.ProcessPayment))).Methods("POST")
	router.HandleFunc("/api/payments/{id:[0-9]+}/fail", m.Wrap("/api/payments/{id}/fail", till(h.FailPayment))).Methods("POST")
	router.HandleFunc("/api/payments/{id:[0-9]+}/refund", m.Wrap("/api/payments/{id}/refund", manager(h.RefundPayment))).Methods("POST")
	router.HandleFunc("/api/payments/statistics/revenue", m.Wrap("/api/payments/statistics/revenue", manager(h.Revenue))).Methods("GET")
}

// CreatePayment godoc
// @Summary Open a payment
// @Description Creates a pending payment; amount defaults to the order total
// @Tags Payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{order_id=int,amount=number,payment_method=string} true "Payment data"
// @Success 201 {object} httpx.Response
// @Failure 400 {object} httpx.Response
// @Failure 409 {object} httpx.Response
// @Router /api/payments [post]
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req createPaymentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	p, _ := httpx.PrincipalFrom(r.Context())
	payment, err := h.createHandler.Handle(r.Context(), command.CreatePaymentCommand{
		OrderID:   req.OrderID,
		Amount:    req.Amount,
		Method:    req.Method,
		CreatedBy: p.Username,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	h.payments.WithLabelValues(string(payment.Method), string(payment.Status)).Inc()
	httpx.OK(w, http.StatusCreated, "Payment created successfully", payment)
}

// ProcessPayment godoc
// @Summary Settle a payment
// @Description Marks the payment paid and moves its order to the paid status
// @Tags Payments
// @Security BearerAuth
// @Produce json
// @Param id path int true "Payment ID"
// @Param transactionId query string false "External transaction id"
// @Success 200 {object} httpx.Response
// @Failure 409 {object} httpx.Response
// @Router /api/payments/{id}/process [post]
func (h *PaymentHandler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	payment, err := h.processHandler.Handle(r.Context(), command.ProcessPaymentCommand{
		PaymentID:     id,
		TransactionID: r.URL.Query().Get("transactionId"),
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	amount, _ := payment.Amount.Float64()
	h.payments.WithLabelValues(string(payment.Method), string(payment.Status)).Inc()
	h.revenue.WithLabelValues(string(payment.Method)).Add(amount)

	logger.Info(r.Context()).
		Uint("payment_id", payment.ID).
		Uint("order_id", payment.OrderID).
		Str("transaction_id", payment.TransactionID).
		Msg("Payment processed")
	httpx.OK(w, http.StatusOK, "Payment processed successfully", payment)
}

// FailPayment handles POST /api/payments/{id}/fail
func (h *PaymentHandler) FailPayment(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, domain.StatusFailed, "Payment marked as failed")
}

// RefundPayment handles POST /api/payments/{id}/refund
func (h *PaymentHandler) RefundPayment(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, domain.StatusRefunded, "Payment refunded")
}

func (h *PaymentHandler) changeStatus(w http.ResponseWriter, r *http.Request, status domain.Status, message string) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	var req reasonRequest
	if r.ContentLength != 0 {
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.RespondError(w, r, err)
			return
		}
	}

	payment, err := h.statusHandler.Handle(r.Context(), command.UpdateStatusCommand{
		PaymentID: id,
		Status:    status,
		Reason:    req.Reason,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	h.payments.WithLabelValues(string(payment.Method), string(payment.Status)).Inc()
	logger.Info(r.Context()).
		Uint("payment_id", payment.ID).
		Str("status", string(payment.Status)).
		Msg("Payment status changed")
	httpx.OK(w, http.StatusOK, message, payment)
}

// GetPayment handles GET /api/payments/{id}
func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	payment, err := h.queryHandler.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", payment)
}

// ListByOrder handles GET /api/payments/order/{orderId}
func (h *PaymentHandler) ListByOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := httpx.PathID(r, "orderId")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	payments, err := h.queryHandler.ByOrder(r.Context(), orderID)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", payments)
}

// Revenue godoc
// @Summary Revenue by payment method
// @Tags Payments
// @Security BearerAuth
// @Produce json
// @Param start query string true "RFC 3339 start (inclusive)"
// @Param end query string true "RFC 3339 end (exclusive)"
// @Success 200 {object} httpx.Response
// @Router /api/payments/statistics/revenue [get]
func (h *PaymentHandler) Revenue(w http.ResponseWriter, r *http.Request) {
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

	stats, err := h.queryHandler.Revenue(r.Context(), query.RevenueQuery{From: from, To: to})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", stats)
}
