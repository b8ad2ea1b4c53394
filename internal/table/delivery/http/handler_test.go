package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/restaurant-backend/internal/storetest"
	tablehttp "github.com/tair/restaurant-backend/internal/table/delivery/http"
	"github.com/tair/restaurant-backend/internal/table/usecase/command"
	"github.com/tair/restaurant-backend/internal/table/usecase/query"
	"github.com/tair/restaurant-backend/pkg/auth"
	"github.com/tair/restaurant-backend/pkg/httpx"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newRouter(t *testing.T) (*mux.Router, *auth.TokenManager) {
	t.Helper()
	store := storetest.New()
	repo := store.Tables()
	h := tablehttp.NewTableHandler(
		command.NewCreateTableHandler(repo),
		command.NewUpdateTableHandler(repo),
		command.NewSetTableActiveHandler(repo),
		query.NewGetTableHandler(repo),
		query.NewListTablesHandler(repo),
	)

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	router := mux.NewRouter()
	h.RegisterRoutes(router, httpx.NewMetrics("test", prometheus.NewRegistry()), httpx.NewAuthenticator(tokens))
	return router, tokens
}

func do(t *testing.T, router *mux.Router, token, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestTableEndpoints(t *testing.T) {
	router, tokens := newRouter(t)
	manager, err := tokens.GenerateToken(1, "marat", auth.RoleManager)
	require.NoError(t, err)
	waiter, err := tokens.GenerateToken(2, "dana", auth.RoleWaiter)
	require.NoError(t, err)

	rec, _ := do(t, router, "", http.MethodGet, "/api/tables", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = do(t, router, waiter, http.MethodPost, "/api/tables", `{"number":1,"capacity":4}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env := do(t, router, manager, http.MethodPost, "/api/tables", `{"number":1,"capacity":4,"location":"window"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)

	rec, env = do(t, router, manager, http.MethodPost, "/api/tables", `{"number":1,"capacity":2}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, env.Success)

	rec, _ = do(t, router, manager, http.MethodPost, "/api/tables", `{"number":2,"capacity":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, router, manager, http.MethodDelete, "/api/tables/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = do(t, router, waiter, http.MethodGet, "/api/tables/active", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(env.Data))

	rec, _ = do(t, router, manager, http.MethodPost, "/api/tables/1/activate", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = do(t, router, waiter, http.MethodGet, "/api/tables/capacity/3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var tables []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &tables))
	require.Len(t, tables, 1)
	assert.Equal(t, "standard", tables[0]["type"])

	rec, _ = do(t, router, waiter, http.MethodGet, "/api/tables/9", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
