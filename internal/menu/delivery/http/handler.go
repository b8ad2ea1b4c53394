package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/menu/usecase/command"
	"github.com/tair/restaurant-backend/internal/menu/usecase/query"
	"github.com/tair/restaurant-backend/pkg/auth"
	"github.com/tair/restaurant-backend/pkg/cache"
	"github.com/tair/restaurant-backend/pkg/httpx"
	"github.com/tair/restaurant-backend/pkg/logger"
)

// MenuHandler handles HTTP requests for categories and dishes
type MenuHandler struct {
	// Command handlers
	createCategoryHandler *command.CreateCategoryHandler
	dishHandler           *command.DishHandler

	// Query handlers
	queryHandler *query.MenuQueryHandler

	cache *cache.ResponseCache
}

// NewMenuHandler creates a new menu handler; used by Wire
func NewMenuHandler(
	createCategoryHandler *command.CreateCategoryHandler,
	dishHandler *command.DishHandler,
	queryHandler *query.MenuQueryHandler,
	responseCache *cache.ResponseCache,
) *MenuHandler {
	return &MenuHandler{
		createCategoryHandler: createCategoryHandler,
		dishHandler:           dishHandler,
		queryHandler:          queryHandler,
		cache:                 responseCache,
	}
}

type categoryRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order"`
}

type dishRequest struct {
	Name           string              `json:"name"`
	Description    string              `json:"description"`
	CategoryID     uint                `json:"category_id"`
	Price          decimal.Decimal     `json:"price"`
	IsOnPromotion  bool                `json:"is_on_promotion"`
	PromotionPrice decimal.NullDecimal `json:"promotion_price"`
	WeightGrams    int                 `json:"weight_grams"`
	ImageURL       string              `json:"image_url"`
	Composition    string              `json:"composition"`
	Allergens      string              `json:"allergens"`
}

func (req dishRequest) details() command.DishDetails {
	return command.DishDetails{
		Name:           req.Name,
		Description:    req.Description,
		CategoryID:     req.CategoryID,
		Price:          req.Price,
		IsOnPromotion:  req.IsOnPromotion,
		PromotionPrice: req.PromotionPrice,
		WeightGrams:    req.WeightGrams,
		ImageURL:       req.ImageURL,
		Composition:    req.Composition,
		Allergens:      req.Allergens,
	}
}

type promotionRequest struct {
	Active bool                `json:"active"`
	Price  decimal.NullDecimal `json:"price"`
}

// RegisterRoutes mounts the menu endpoints. Reads are public and cached.
func (h *MenuHandler) RegisterRoutes(router *mux.Router, m *httpx.Metrics, a *httpx.Authenticator) {
	editor := a.RequireRoles(auth.RoleManager)
	cached := h.cache.Middleware

	router.HandleFunc("/api/menu/categories", m.Wrap("/api/menu/categories", cached(h.ListCategories))).Methods("GET")
	router.HandleFunc("/api/menu/dishes", m.Wrap("/api/menu/dishes", cached(h.ListActiveDishes))).Methods("GET")
	router.HandleFunc("/api/menu/dishes/active", m.Wrap("/api/menu/dishes/active", cached(h.ListActiveDishes))).Methods("GET")
	router.HandleFunc("/api/menu/dishes/promotional", m.Wrap("/api/menu/dishes/promotional", cached(h.ListPromotionalDishes))).Methods("GET")
	router.HandleFunc("/api/menu/dishes/search", m.Wrap("/api/menu/dishes/search", cached(h.SearchDishes))).Methods("GET")
	router.HandleFunc("/api/menu/dishes/category/{id:[0-9]+}", m.Wrap("/api/menu/dishes/category/{id}", cached(h.ListDishesByCategory))).Methods("GET")
	router.HandleFunc("/api/menu/dishes/{id:[0-9]+}", m.Wrap("/api/menu/dishes/{id}", cached(h.GetDish))).Methods("GET")

	router.HandleFunc("/api/menu/dishes/all", m.Wrap("/api/menu/dishes/all", editor(h.ListAllDishes))).Methods("GET")
	router.HandleFunc("/api/menu/categories", m.Wrap("/api/menu/categories", editor(h.CreateCategory))).Methods("POST")
	router.HandleFunc("/api/menu/dishes", m.Wrap("/api/menu/dishes", editor(h.CreateDish))).Methods("POST")
	router.HandleFunc("/api/menu/dishes/{id:[0-9]+}", m.Wrap("/api/menu/dishes/{id}", editor(h.UpdateDish))).Methods("PUT")
	router.HandleFunc("/api/menu/dishes/{id:[0-9]+}/activate", m.Wrap("/api/menu/dishes/{id}/activate", editor(h.ActivateDish))).Methods("POST")
	router.HandleFunc("/api/menu/dishes/{id:[0-9]+}/deactivate", m.Wrap("/api/menu/dishes/{id}/deactivate", editor(h.DeactivateDish))).Methods("POST")
	router.HandleFunc("/api/menu/dishes/{id:[0-9]+}/promotion", m.Wrap("/api/menu/dishes/{id}/promotion", editor(h.SetPromotion))).Methods("PUT")
}

// invalidate drops cached menu responses after a mutation
func (h *MenuHandler) invalidate(ctx context.Context) {
	if err := h.cache.Invalidate(ctx); err != nil {
		logger.Warn(ctx).Err(err).Msg("Failed to invalidate menu cache")
	}
}

// CreateCategory godoc
// @Summary Create a menu category
// @Tags Menu
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{name=string,description=string,display_order=int} true "Category data"
// @Success 201 {object} httpx.Response
// @Failure 409 {object} httpx.Response
// @Router /api/menu/categories [post]
func (h *MenuHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	category, err := h.createCategoryHandler.Handle(r.Context(), command.CreateCategoryCommand{
		Name:         req.Name,
		Description:  req.Description,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	h.invalidate(r.Context())
	httpx.OK(w, http.StatusCreated, "Category created successfully", category)
}

// ListCategories handles GET /api/menu/categories
func (h *MenuHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.queryHandler.ListCategories(r.Context(), query.ListCategoriesQuery{})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", categories)
}

// CreateDish godoc
// @Summary Add a dish to the menu
// @Tags Menu
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{name=string,category_id=int,price=string,is_on_promotion=bool,promotion_price=string} true "Dish data"
// @Success 201 {object} httpx.Response
// @Failure 400 {object} httpx.Response
// @Failure 404 {object} httpx.Response
// @Router /api/menu/dishes [post]
func (h *MenuHandler) CreateDish(w http.ResponseWriter, r *http.Request) {
	var req dishRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	dish, err := h.dishHandler.Create(r.Context(), command.CreateDishCommand{DishDetails: req.details()})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	h.invalidate(r.Context())
	logger.Info(r.Context()).
		Uint("dish_id", dish.ID).
		Str("name", dish.Name).
		Str("price", dish.Price.StringFixed(2)).
		Msg("Dish created")
	httpx.OK(w, http.StatusCreated, "Dish created successfully", dish)
}

// UpdateDish handles PUT /api/menu/dishes/{id}
func (h *MenuHandler) UpdateDish(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	var req dishRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	dish, err := h.dishHandler.Update(r.Context(), command.UpdateDishCommand{ID: id, DishDetails: req.details()})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	h.invalidate(r.Context())
	httpx.OK(w, http.StatusOK, "Dish updated successfully", dish)
}

// ActivateDish handles POST /api/menu/dishes/{id}/activate
func (h *MenuHandler) ActivateDish(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true, "Dish activated")
}

// DeactivateDish handles POST /api/menu/dishes/{id}/deactivate
func (h *MenuHandler) DeactivateDish(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false, "Dish deactivated")
}

func (h *MenuHandler) setActive(w http.ResponseWriter, r *http.Request, active bool, message string) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	dish, err := h.dishHandler.SetActive(r.Context(), command.SetDishActiveCommand{ID: id, Active: active})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	h.invalidate(r.Context())
	httpx.OK(w, http.StatusOK, message, dish)
}

// SetPromotion handles PUT /api/menu/dishes/{id}/promotion
func (h *MenuHandler) SetPromotion(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	var req promotionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	dish, err := h.dishHandler.SetPromotion(r.Context(), command.SetPromotionCommand{
		ID:     id,
		Active: req.Active,
		Price:  req.Price,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	h.invalidate(r.Context())
	httpx.OK(w, http.StatusOK, "Promotion updated", dish)
}

// GetDish handles GET /api/menu/dishes/{id}
func (h *MenuHandler) GetDish(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	dish, err := h.queryHandler.GetDish(r.Context(), query.GetDishQuery{ID: id})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", dish)
}

// ListActiveDishes godoc
// @Summary List active dishes
// @Tags Menu
// @Produce json
// @Success 200 {object} httpx.Response
// @Router /api/menu/dishes [get]
func (h *MenuHandler) ListActiveDishes(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, query.ListDishesQuery{})
}

// ListAllDishes handles GET /api/menu/dishes/all, inactive dishes included
func (h *MenuHandler) ListAllDishes(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, query.ListDishesQuery{IncludeInactive: true})
}

// ListPromotionalDishes handles GET /api/menu/dishes/promotional
func (h *MenuHandler) ListPromotionalDishes(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, query.ListDishesQuery{PromotionOnly: true})
}

// ListDishesByCategory handles GET /api/menu/dishes/category/{id}
func (h *MenuHandler) ListDishesByCategory(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	h.list(w, r, query.ListDishesQuery{CategoryID: id})
}

// SearchDishes handles GET /api/menu/dishes/search?q=
func (h *MenuHandler) SearchDishes(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		httpx.RespondError(w, r, apperror.Validation("search term is required"))
		return
	}
	h.list(w, r, query.ListDishesQuery{Search: q})
}

func (h *MenuHandler) list(w http.ResponseWriter, r *http.Request, q query.ListDishesQuery) {
	dishes, err := h.queryHandler.ListDishes(r.Context(), q)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", dishes)
}
