package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/table/domain"
	"github.com/tair/restaurant-backend/internal/table/usecase/command"
	"github.com/tair/restaurant-backend/internal/table/usecase/query"
	"github.com/tair/restaurant-backend/pkg/auth"
	"github.com/tair/restaurant-backend/pkg/httpx"
	"github.com/tair/restaurant-backend/pkg/logger"
)

// TableHandler handles HTTP requests for tables using CQRS pattern
type TableHandler struct {
	// Command handlers
	createHandler    *command.CreateTableHandler
	updateHandler    *command.UpdateTableHandler
	setActiveHandler *command.SetTableActiveHandler

	// Query handlers
	getHandler  *query.GetTableHandler
	listHandler *query.ListTablesHandler
}

// NewTableHandler creates a new table handler; used by Wire
func NewTableHandler(
	createHandler *command.CreateTableHandler,
	updateHandler *command.UpdateTableHandler,
	setActiveHandler *command.SetTableActiveHandler,
	getHandler *query.GetTableHandler,
	listHandler *query.ListTablesHandler,
) *TableHandler {
	return &TableHandler{
		createHandler:    createHandler,
		updateHandler:    updateHandler,
		setActiveHandler: setActiveHandler,
		getHandler:       getHandler,
		listHandler:      listHandler,
	}
}

type tableRequest struct {
	Number   int              `json:"number"`
	Capacity int              `json:"capacity"`
	Type     domain.TableType `json:"type"`
	Location string           `json:"location"`
}

// RegisterRoutes mounts the table endpoints
func (h *TableHandler) RegisterRoutes(router *mux.Router, m *httpx.Metrics, a *httpx.Authenticator) {
	staff := a.Authenticate
	manager := a.RequireRoles(auth.RoleManager)

	router.HandleFunc("/api/tables", m.Wrap("/api/tables", staff(h.ListTables))).Methods("GET")
	router.HandleFunc("/api/tables/active", m.Wrap("/api/tables/active", h.ListActiveTables)).Methods("GET")
	router.HandleFunc("/api/tables/capacity/{capacity:[0-9]+}", m.Wrap("/api/tables/capacity/{capacity}", staff(h.ListByCapacity))).Methods("GET")
	router.HandleFunc("/api/tables/type/{type}", m.Wrap("/api/tables/type/{type}", staff(h.ListByType))).Methods("GET")
	router.HandleFunc("/api/tables/{id:[0-9]+}", m.Wrap("/api/tables/{id}", staff(h.GetTable))).Methods("GET")

	router.HandleFunc("/api/tables", m.Wrap("/api/tables", manager(h.CreateTable))).Methods("POST")
	router.HandleFunc("/api/tables/{id:[0-9]+}", m.Wrap("/api/tables/{id}", manager(h.UpdateTable))).Methods("PUT")
	router.HandleFunc("/api/tables/{id:[0-9]+}/activate", m.Wrap("/api/tables/{id}/activate", manager(h.ActivateTable))).Methods("POST")
	router.HandleFunc("/api/tables/{id:[0-9]+}", m.Wrap("/api/tables/{id}", manager(h.DeactivateTable))).Methods("DELETE")
}

// CreateTable godoc
// @Summary Create a table
// @Tags Tables
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{number=int,capacity=int,type=string,location=string} true "Table data"
// @Success 201 {object} httpx.Response
// @Failure 400 {object} httpx.Response
// @Failure 409 {object} httpx.Response
// @Router /api/tables [post]
func (h *TableHandler) CreateTable(w http.ResponseWriter, r *http.Request) {
	var req tableRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	table, err := h.createHandler.Handle(r.Context(), command.CreateTableCommand{
		Number:   req.Number,
		Capacity: req.Capacity,
		Type:     req.Type,
		Location: req.Location,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	logger.Info(r.Context()).
		Uint("table_id", table.ID).
		Int("number", table.Number).
		Msg("Table created")
	httpx.OK(w, http.StatusCreated, "Table created successfully", table)
}

// UpdateTable handles PUT /api/tables/{id}
func (h *TableHandler) UpdateTable(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	var req tableRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	table, err := h.updateHandler.Handle(r.Context(), command.UpdateTableCommand{
		ID:       id,
		Number:   req.Number,
		Capacity: req.Capacity,
		Type:     req.Type,
		Location: req.Location,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Table updated successfully", table)
}

// ActivateTable handles POST /api/tables/{id}/activate
func (h *TableHandler) ActivateTable(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true, "Table activated")
}

// DeactivateTable handles DELETE /api/tables/{id}. Tables are never removed.
func (h *TableHandler) DeactivateTable(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false, "Table deactivated")
}

func (h *TableHandler) setActive(w http.ResponseWriter, r *http.Request, active bool, message string) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	table, err := h.setActiveHandler.Handle(r.Context(), command.SetTableActiveCommand{ID: id, Active: active})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, message, table)
}

// GetTable handles GET /api/tables/{id}
func (h *TableHandler) GetTable(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	table, err := h.getHandler.Handle(r.Context(), query.GetTableQuery{ID: id})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", table)
}

// ListTables godoc
// @Summary List tables
// @Tags Tables
// @Security BearerAuth
// @Produce json
// @Success 200 {object} httpx.Response
// @Router /api/tables [get]
func (h *TableHandler) ListTables(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, query.ListTablesQuery{})
}

// ListActiveTables handles GET /api/tables/active
func (h *TableHandler) ListActiveTables(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, query.ListTablesQuery{ActiveOnly: true})
}

// ListByCapacity handles GET /api/tables/capacity/{capacity}: active tables seating at least capacity
func (h *TableHandler) ListByCapacity(w http.ResponseWriter, r *http.Request) {
	capacity, err := strconv.Atoi(mux.Vars(r)["capacity"])
	if err != nil {
		httpx.RespondError(w, r, apperror.Validation("invalid capacity"))
		return
	}
	h.list(w, r, query.ListTablesQuery{ActiveOnly: true, MinCapacity: capacity})
}

// ListByType handles GET /api/tables/type/{type}
func (h *TableHandler) ListByType(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, query.ListTablesQuery{ActiveOnly: true, Type: domain.TableType(mux.Vars(r)["type"])})
}

func (h *TableHandler) list(w http.ResponseWriter, r *http.Request, q query.ListTablesQuery) {
	tables, err := h.listHandler.Handle(r.Context(), q)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", tables)
}
