package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/pkg/logger"
)

// Response is the envelope every endpoint answers with
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RespondJSON sends a JSON response
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// OK sends a successful envelope
func OK(w http.ResponseWriter, status int, message string, data interface{}) {
	RespondJSON(w, status, Response{Success: true, Message: message, Data: data})
}

// RespondError maps err to a status code. Internal errors are logged in full and
// answered with a generic message.
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperror.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error(r.Context()).
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Request failed")
	} else {
		logger.Debug(r.Context()).
			Err(err).
			Int("status", status).
			Str("path", r.URL.Path).
			Msg("Request rejected")
	}

	RespondJSON(w, status, Response{
		Success: false,
		Error:   apperror.PublicMessage(err),
	})
}

// DecodeJSON decodes the request body into dst
func DecodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.Validation("invalid request body")
	}
	return nil
}

// PathID parses a uint path variable
func PathID(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 32)
	if err != nil || id == 0 {
		return 0, apperror.Validation("invalid %s", name)
	}
	return uint(id), nil
}

// QueryInt returns an integer query parameter or def when absent
func QueryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.Validation("invalid %s", name)
	}
	return v, nil
}

// QueryTime parses an RFC 3339 query parameter
func QueryTime(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, apperror.Validation("%s is required", name)
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, apperror.Validation("%s must be RFC 3339", name)
	}
	return t, nil
}

// Pagination reads limit/offset with the usual bounds
func Pagination(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
