package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/reservation/domain"
	"github.com/tair/restaurant-backend/internal/reservation/usecase/command"
	"github.com/tair/restaurant-backend/internal/reservation/usecase/query"
	"github.com/tair/restaurant-backend/pkg/auth"
	"github.com/tair/restaurant-backend/pkg/httpx"
	"github.com/tair/restaurant-backend/pkg/logger"
)

const dateLayout = "2006-01-02"

// ReservationHandler handles HTTP requests for reservations using CQRS pattern
type ReservationHandler struct {
	// Command handlers
	createHandler *command.CreateReservationHandler
	updateHandler *command.UpdateReservationHandler
	statusHandler *command.ChangeStatusHandler

	// Query handlers
	getHandler          *query.GetReservationHandler
	listHandler         *query.ListReservationsHandler
	availabilityHandler *query.AvailabilityHandler

	transitions *prometheus.CounterVec
}

// NewReservationHandler creates a new reservation handler; used by Wire
func NewReservationHandler(
	createHandler *command.CreateReservationHandler,
	updateHandler *command.UpdateReservationHandler,
	statusHandler *command.ChangeStatusHandler,
	getHandler *query.GetReservationHandler,
	listHandler *query.ListReservationsHandler,
	availabilityHandler *query.AvailabilityHandler,
) *ReservationHandler {
	return &ReservationHandler{
		createHandler:       createHandler,
		updateHandler:       updateHandler,
		statusHandler:       statusHandler,
		getHandler:          getHandler,
		listHandler:         listHandler,
		availabilityHandler: availabilityHandler,
	}
}

type reservationRequest struct {
	GuestName       string    `json:"guest_name"`
	GuestPhone      string    `json:"guest_phone"`
	GuestEmail      string    `json:"guest_email"`
	StartTime       time.Time `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
	PartySize       int       `json:"party_size"`
	TableID         uint      `json:"table_id"`
	SpecialRequests string    `json:"special_requests"`
}

func (req reservationRequest) guest() domain.Guest {
	return domain.Guest{Name: req.GuestName, Phone: req.GuestPhone, Email: req.GuestEmail}
}

// RegisterRoutes mounts the reservation endpoints
func (h *ReservationHandler) RegisterRoutes(router *mux.Router, m *httpx.Metrics, a *httpx.Authenticator) {
	h.transitions = m.NewCounterVec("reservation_transitions_total", "Reservations created or moved to a new status", "status")

	staff := a.RequireRoles(auth.RoleManager, auth.RoleWaiter)
	manager := a.RequireRoles(auth.RoleManager)

	router.HandleFunc("/api/reservations", m.Wrap("/api/reservations", staff(h.ListReservations))).Methods("GET")
	router.HandleFunc("/api/reservations/available-tables", m.Wrap("/api/reservations/available-tables", staff(h.AvailableTables))).Methods("GET")
	router.HandleFunc("/api/reservations/tables/{id:[0-9]+}/availability", m.Wrap("/api/reservations/tables/{id}/availability", staff(h.TableAvailability))).Methods("GET")
	router.HandleFunc("/api/reservations/{id:[0-9]+}", m.Wrap("/api/reservations/{id}", staff(h.GetReservation))).Methods("GET")

	router.HandleFunc("/api/reservations", m.Wrap("/api/reservations", staff(h.CreateReservation))).Methods("POST")
	router.HandleFunc("/api/reservations/{id:[0-9]+}", m.Wrap("/api/reservations/{id}", staff(h.UpdateReservation))).Methods("PUT")
	router.HandleFunc("/api/reservations/{id:[0-9]+}/confirm", m.Wrap("/api/reservations/{id}/confirm", manager(h.ConfirmReservation))).Methods("POST")
	router.HandleFunc("/api/reservations/{id:[0-9]+}/cancel", m.Wrap("/api/reservations/{id}/cancel", staff(h.CancelReservation))).Methods("POST")
	router.HandleFunc("/api/reservations/{id:[0-9]+}/complete", m.Wrap("/api/reservations/{id}/complete", manager(h.CompleteReservation))).Methods("POST")
}

// CreateReservation godoc
// @Summary Book a table
// @Description Creates a pending reservation after checking availability and capacity
// @Tags Reservations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{guest_name=string,guest_phone=string,guest_email=string,start_time=string,duration_minutes=int,party_size=int,table_id=int,special_requests=string} true "Reservation data"
// @Success 201 {object} httpx.Response
// @Failure 400 {object} httpx.Response
// @Failure 404 {object} httpx.Response
// @Failure 409 {object} httpx.Response
// @Router /api/reservations [post]
func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req reservationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	p, _ := httpx.PrincipalFrom(r.Context())
	reservation, err := h.createHandler.Handle(r.Context(), command.CreateReservationCommand{
		Guest:           req.guest(),
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		PartySize:       req.PartySize,
		TableID:         req.TableID,
		SpecialRequests: req.SpecialRequests,
		RequestedBy:     p.Username,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	h.transitions.WithLabelValues(string(reservation.Status)).Inc()
	logger.Info(r.Context()).
		Uint("reservation_id", reservation.ID).
		Uint("table_id", reservation.TableID).
		Time("start_time", reservation.StartTime).
		Msg("Reservation created")
	httpx.OK(w, http.StatusCreated, "Reservation created successfully", reservation)
}

// UpdateReservation handles PUT /api/reservations/{id}
func (h *ReservationHandler) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	var req reservationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	reservation, err := h.updateHandler.Handle(r.Context(), command.UpdateReservationCommand{
		ID:              id,
		Guest:           req.guest(),
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		PartySize:       req.PartySize,
		TableID:         req.TableID,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Reservation updated successfully", reservation)
}

// ConfirmReservation handles POST /api/reservations/{id}/confirm
func (h *ReservationHandler) ConfirmReservation(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Reservation confirmed", func(id uint) (*domain.Reservation, error) {
		return h.statusHandler.Confirm(r.Context(), command.ConfirmReservationCommand{ID: id})
	})
}

// CancelReservation handles POST /api/reservations/{id}/cancel
func (h *ReservationHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Reservation cancelled", func(id uint) (*domain.Reservation, error) {
		return h.statusHandler.Cancel(r.Context(), command.CancelReservationCommand{ID: id})
	})
}

// CompleteReservation handles POST /api/reservations/{id}/complete
func (h *ReservationHandler) CompleteReservation(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Reservation completed", func(id uint) (*domain.Reservation, error) {
		return h.statusHandler.Complete(r.Context(), command.CompleteReservationCommand{ID: id})
	})
}

func (h *ReservationHandler) transition(w http.ResponseWriter, r *http.Request, message string, apply func(uint) (*domain.Reservation, error)) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	reservation, err := apply(id)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	h.transitions.WithLabelValues(string(reservation.Status)).Inc()
	httpx.OK(w, http.StatusOK, message, reservation)
}

// GetReservation handles GET /api/reservations/{id}
func (h *ReservationHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	reservation, err := h.getHandler.Handle(r.Context(), query.GetReservationQuery{ID: id})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", reservation)
}

// ListReservations godoc
// @Summary List reservations
// @Description Filter by exactly one of date (YYYY-MM-DD), status, phone or name
// @Tags Reservations
// @Security BearerAuth
// @Produce json
// @Param date query string false "Day"
// @Param status query string false "Status"
// @Param phone query string false "Guest phone"
// @Param name query string false "Guest name fragment"
// @Success 200 {object} httpx.Response
// @Router /api/reservations [get]
func (h *ReservationHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	q := query.ListReservationsQuery{
		Status:     domain.Status(values.Get("status")),
		GuestPhone: values.Get("phone"),
		GuestName:  values.Get("name"),
	}
	if raw := values.Get("date"); raw != "" {
		day, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			httpx.RespondError(w, r, apperror.Validation("date must be YYYY-MM-DD"))
			return
		}
		q.Date = day
	}

	reservations, err := h.listHandler.Handle(r.Context(), q)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", reservations)
}

// AvailableTables godoc
// @Summary Find free tables
// @Tags Reservations
// @Security BearerAuth
// @Produce json
// @Param start query string true "RFC 3339 start time"
// @Param duration query int false "Minutes, defaults to the configured reservation duration"
// @Param party_size query int true "Guests"
// @Success 200 {object} httpx.Response
// @Failure 400 {object} httpx.Response
// @Router /api/reservations/available-tables [get]
func (h *ReservationHandler) AvailableTables(w http.ResponseWriter, r *http.Request) {
	start, err := httpx.QueryTime(r, "start")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	duration, err := httpx.QueryInt(r, "duration", 0)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	partySize, err := httpx.QueryInt(r, "party_size", 0)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	tables, err := h.availabilityHandler.AvailableTables(r.Context(), query.AvailableTablesQuery{
		StartTime:       start,
		DurationMinutes: duration,
		PartySize:       partySize,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", tables)
}

// TableAvailability handles GET /api/reservations/tables/{id}/availability
func (h *ReservationHandler) TableAvailability(w http.ResponseWriter, r *http.Request) {
	tableID, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	start, err := httpx.QueryTime(r, "start")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	duration, err := httpx.QueryInt(r, "duration", 0)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	var exclude uint64
	if raw := r.URL.Query().Get("exclude"); raw != "" {
		if exclude, err = strconv.ParseUint(raw, 10, 32); err != nil {
			httpx.RespondError(w, r, apperror.Validation("invalid exclude"))
			return
		}
	}

	available, err := h.availabilityHandler.IsTableAvailable(r.Context(), query.TableAvailabilityQuery{
		TableID:              tableID,
		StartTime:            start,
		DurationMinutes:      duration,
		ExcludeReservationID: uint(exclude),
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", map[string]interface{}{
		"table_id":  tableID,
		"available": available,
	})
}
