package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/user/usecase/command"
	"github.com/tair/restaurant-backend/internal/user/usecase/query"
	"github.com/tair/restaurant-backend/pkg/auth"
	"github.com/tair/restaurant-backend/pkg/httpx"
	"github.com/tair/restaurant-backend/pkg/logger"
	"github.com/tair/restaurant-backend/pkg/ratelimit"
)

// UserHandler handles HTTP requests for users and authentication
type UserHandler struct {
	// Command handlers
	registerHandler       *command.RegisterUserHandler
	loginHandler          *command.LoginUserHandler
	updateHandler         *command.UpdateUserHandler
	changePasswordHandler *command.ChangePasswordHandler
	changeRoleHandler     *command.ChangeRoleHandler
	toggleActiveHandler   *command.ToggleActiveHandler

	// Query handlers
	getUserHandler *query.GetUserHandler
	listHandler    *query.ListUsersHandler
	statsHandler   *query.GetStatsHandler

	loginLimiter *ratelimit.Limiter
	logins       *prometheus.CounterVec
}

// NewUserHandler creates a new user handler; used by Wire
func NewUserHandler(
	registerHandler *command.RegisterUserHandler,
	loginHandler *command.LoginUserHandler,
	updateHandler *command.UpdateUserHandler,
	changePasswordHandler *command.ChangePasswordHandler,
	changeRoleHandler *command.ChangeRoleHandler,
	toggleActiveHandler *command.ToggleActiveHandler,
	getUserHandler *query.GetUserHandler,
	listHandler *query.ListUsersHandler,
	statsHandler *query.GetStatsHandler,
	loginLimiter *ratelimit.Limiter,
) *UserHandler {
	return &UserHandler{
		registerHandler:       registerHandler,
		loginHandler:          loginHandler,
		updateHandler:         updateHandler,
		changePasswordHandler: changePasswordHandler,
		changeRoleHandler:     changeRoleHandler,
		toggleActiveHandler:   toggleActiveHandler,
		getUserHandler:        getUserHandler,
		listHandler:           listHandler,
		statsHandler:          statsHandler,
		loginLimiter:          loginLimiter,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type updateUserRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

// RegisterRoutes mounts the auth and user endpoints
func (h *UserHandler) RegisterRoutes(router *mux.Router, m *httpx.Metrics, a *httpx.Authenticator) {
	h.logins = m.NewCounterVec("login_attempts_total", "Login attempts by result", "result")

	admin := a.RequireRoles(auth.RoleAdmin)
	staffReader := a.RequireRoles(auth.RoleManager)

	router.HandleFunc("/api/auth/login", m.Wrap("/api/auth/login", h.loginLimiter.Middleware(h.Login))).Methods("POST")
	router.HandleFunc("/api/auth/me", m.Wrap("/api/auth/me", a.Authenticate(h.Me))).Methods("GET")
	router.HandleFunc("/api/auth/change-password", m.Wrap("/api/auth/change-password", a.Authenticate(h.ChangePassword))).Methods("POST")

	router.HandleFunc("/api/users", m.Wrap("/api/users", staffReader(h.ListUsers))).Methods("GET")
	router.HandleFunc("/api/users/stats", m.Wrap("/api/users/stats", admin(h.GetStats))).Methods("GET")
	router.HandleFunc("/api/users/{id:[0-9]+}", m.Wrap("/api/users/{id}", staffReader(h.GetUser))).Methods("GET")
	router.HandleFunc("/api/users", m.Wrap("/api/users", admin(h.Register))).Methods("POST")
	router.HandleFunc("/api/users/{id:[0-9]+}", m.Wrap("/api/users/{id}", admin(h.UpdateUser))).Methods("PUT")
	router.HandleFunc("/api/users/{id:[0-9]+}", m.Wrap("/api/users/{id}", admin(h.DeactivateUser))).Methods("DELETE")
	router.HandleFunc("/api/users/{id:[0-9]+}/activate", m.Wrap("/api/users/{id}/activate", admin(h.ActivateUser))).Methods("POST")
	router.HandleFunc("/api/users/{id:[0-9]+}/role", m.Wrap("/api/users/{id}/role", admin(h.ChangeRole))).Methods("PUT")
}

// Login godoc
// @Summary Login
// @Description Authenticate with username and password and receive a JWT
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body object{username=string,password=string} true "Credentials"
// @Success 200 {object} httpx.Response
// @Failure 401 {object} httpx.Response
// @Failure 429 {object} httpx.Response
// @Router /api/auth/login [post]
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	resp, err := h.loginHandler.Handle(r.Context(), command.LoginUserCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.logins.WithLabelValues(string(apperror.KindOf(err))).Inc()
		logger.Warn(r.Context()).
			Str("username", req.Username).
			Str("ip", ratelimit.ClientIP(r)).
			Msg("Login failed")
		httpx.RespondError(w, r, err)
		return
	}

	h.logins.WithLabelValues("success").Inc()
	logger.Info(r.Context()).
		Uint("user_id", resp.User.ID).
		Str("username", resp.User.Username).
		Msg("User logged in")
	httpx.OK(w, http.StatusOK, "Login successful", resp)
}

// Me handles GET /api/auth/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, _ := httpx.PrincipalFrom(r.Context())
	user, err := h.getUserHandler.Handle(r.Context(), query.GetUserQuery{ID: p.UserID})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", user)
}

// ChangePassword handles POST /api/auth/change-password
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	p, _ := httpx.PrincipalFrom(r.Context())
	err := h.changePasswordHandler.Handle(r.Context(), command.ChangePasswordCommand{
		UserID:          p.UserID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Password changed successfully", nil)
}

// Register godoc
// @Summary Create a staff account
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{username=string,password=string,email=string,full_name=string,role=string} true "User data"
// @Success 201 {object} httpx.Response
// @Failure 400 {object} httpx.Response
// @Failure 409 {object} httpx.Response
// @Router /api/users [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	user, err := h.registerHandler.Handle(r.Context(), command.RegisterUserCommand{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	logger.Info(r.Context()).
		Uint("user_id", user.ID).
		Str("username", user.Username).
		Str("role", user.Role).
		Msg("User registered")
	httpx.OK(w, http.StatusCreated, "User created successfully", user)
}

// ListUsers handles GET /api/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := httpx.Pagination(r)
	users, err := h.listHandler.Handle(r.Context(), query.ListUsersQuery{Limit: limit, Offset: offset})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", users)
}

// GetUser handles GET /api/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	user, err := h.getUserHandler.Handle(r.Context(), query.GetUserQuery{ID: id})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", user)
}

// GetStats handles GET /api/users/stats
func (h *UserHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsHandler.Handle(r.Context(), query.GetStatsQuery{})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", stats)
}

// UpdateUser handles PUT /api/users/{id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	var req updateUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	user, err := h.updateHandler.Handle(r.Context(), command.UpdateUserCommand{
		ID:       id,
		Email:    req.Email,
		FullName: req.FullName,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "User updated successfully", user)
}

// DeactivateUser handles DELETE /api/users/{id}. Accounts are never removed.
func (h *UserHandler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false, "User deactivated successfully")
}

// ActivateUser handles POST /api/users/{id}/activate
func (h *UserHandler) ActivateUser(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true, "User activated successfully")
}

func (h *UserHandler) setActive(w http.ResponseWriter, r *http.Request, active bool, message string) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	p, _ := httpx.PrincipalFrom(r.Context())
	user, err := h.toggleActiveHandler.Handle(r.Context(), command.ToggleActiveCommand{
		UserID:   id,
		IsActive: active,
		ActorID:  p.UserID,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, message, user)
}

// ChangeRole handles PUT /api/users/{id}/role
func (h *UserHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	var req changeRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	p, _ := httpx.PrincipalFrom(r.Context())
	user, err := h.changeRoleHandler.Handle(r.Context(), command.ChangeRoleCommand{
		UserID:  id,
		Role:    req.Role,
		ActorID: p.UserID,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	logger.Info(r.Context()).
		Uint("user_id", user.ID).
		Str("role", user.Role).
		Str("changed_by", p.Username).
		Msg("User role changed")
	httpx.OK(w, http.StatusOK, "Role updated successfully", user)
}
