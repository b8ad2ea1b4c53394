package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/pkg/auth"
)

type stubValidator struct {
	claims *auth.Claims
	err    error
}

func (s stubValidator) ValidateToken(string) (*auth.Claims, error) {
	return s.claims, s.err
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestRespondError_MapsKinds(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)

	rec := httptest.NewRecorder()
	RespondError(rec, req, apperror.Conflict("table not available"))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "table not available", decode(t, rec).Error)

	rec = httptest.NewRecorder()
	RespondError(rec, req, errors.New("dial tcp: refused"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decode(t, rec).Error)
}

func TestAuthenticate(t *testing.T) {
	a := NewAuthenticator(stubValidator{claims: &auth.Claims{UserID: 3, Username: "anna", Role: "waiter"}})
	var seen Principal
	h := a.Authenticate(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = PrincipalFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	rec = httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc")
	rec = httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "anna", seen.Username)
}

func TestRequireRoles(t *testing.T) {
	ok := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }
	call := func(role string) int {
		a := NewAuthenticator(stubValidator{claims: &auth.Claims{Username: "u", Role: role}})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer t")
		rec := httptest.NewRecorder()
		a.RequireRoles("manager")(ok)(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("manager"))
	assert.Equal(t, http.StatusOK, call(RoleAdmin))
	assert.Equal(t, http.StatusForbidden, call("waiter"))
}

func TestPathID(t *testing.T) {
	router := mux.NewRouter()
	var got uint
	var gotErr error
	router.HandleFunc("/t/{id}", func(w http.ResponseWriter, r *http.Request) {
		got, gotErr = PathID(r, "id")
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/t/12", nil))
	assert.NoError(t, gotErr)
	assert.Equal(t, uint(12), got)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/t/abc", nil))
	assert.True(t, apperror.IsValidation(gotErr))
}

func TestPagination(t *testing.T) {
	limit, offset := Pagination(httptest.NewRequest(http.MethodGet, "/?limit=500&offset=-3", nil))
	assert.Equal(t, 100, limit)
	assert.Equal(t, 0, offset)

	limit, _ = Pagination(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, 20, limit)
}

func TestMiddlewares(t *testing.T) {
	router := mux.NewRouter()
	cfg := DefaultMiddlewareConfig("test", 0)
	cfg.EnableTracing = false
	RegisterMiddlewares(router, cfg)
	router.HandleFunc("/panic", func(w http.ResponseWriter, r *http.Request) { panic("boom") })
	router.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMetricsWrap(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("test", reg)

	h := m.Wrap("/api/things", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/things", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestCounter.WithLabelValues("POST", "/api/things", "201")))
}
