package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("create reservation: %w", Conflict("table %d not available", 3))

	assert.True(t, IsConflict(err))
	assert.False(t, IsValidation(err))
	assert.Equal(t, http.StatusConflict, HTTPStatus(err))
	assert.Equal(t, "table 3 not available", PublicMessage(err))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[int]error{
		http.StatusNotFound:            NotFound("order not found"),
		http.StatusBadRequest:          Validation("party size exceeds capacity"),
		http.StatusUnauthorized:        Unauthorized("invalid token"),
		http.StatusForbidden:           Forbidden("admin access required"),
		http.StatusInternalServerError: errors.New("driver exploded"),
	}
	for status, err := range cases {
		assert.Equal(t, status, HTTPStatus(err), err.Error())
	}
}

func TestInternalHidesDetails(t *testing.T) {
	err := Internal("failed to save order", errors.New("pq: connection reset"))

	assert.Equal(t, "internal server error", PublicMessage(err))
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, "internal server error", PublicMessage(errors.New("raw")))
}

func TestFromDB(t *testing.T) {
	assert.Nil(t, FromDB(nil, "table"))

	notFound := FromDB(gorm.ErrRecordNotFound, "table")
	assert.True(t, IsNotFound(notFound))
	assert.Equal(t, "table not found", PublicMessage(notFound))

	dup := FromDB(&pq.Error{Code: "23505"}, "table")
	assert.True(t, IsConflict(dup))

	overlap := FromDB(&pq.Error{Code: "23P01"}, "reservation")
	assert.True(t, IsConflict(overlap))

	fk := FromDB(&pq.Error{Code: "23503"}, "order item")
	assert.True(t, IsValidation(fk))

	already := Validation("quantity must be positive")
	assert.Same(t, already, FromDB(already, "movement"))

	other := FromDB(errors.New("timeout"), "ingredient")
	assert.Equal(t, KindInternal, KindOf(other))
}
