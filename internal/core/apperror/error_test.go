package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewInternal(cause)

	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("create product: %w", err)
	appErr, ok := AsAppError(wrapped)
	require.True(t, ok, "AppError must survive fmt.Errorf wrapping")
	assert.Equal(t, CodeInternal, appErr.Code)
}

func TestGetHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus(NewValidation("bad")))
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus(NewPreconditionFailed("no such product")))
	assert.Equal(t, http.StatusNotFound, GetHTTPStatus(NewNotFound("product", 3000)))
	assert.Equal(t, http.StatusConflict, GetHTTPStatus(NewDuplicate("product", "plu", 3000)))
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus(NewNegativeStock("onShelf", 5, 3)))
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(errors.New("plain")))
}

func TestNegativeStockDetails(t *testing.T) {
	err := NewNegativeStock("onShelf", 5, 3)

	assert.True(t, IsNegativeStock(err))
	assert.Equal(t, "onShelf", err.Details["field"])
	assert.Equal(t, int64(5), err.Details["requested"])
	assert.Equal(t, int64(3), err.Details["available"])
}

func TestHelpers(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFound("product", 1)))
	assert.False(t, IsNotFound(NewValidation("bad")))
	assert.False(t, IsNotFound(errors.New("plain")))

	assert.True(t, IsDuplicate(NewDuplicate("product", "plu", 1)))
	assert.False(t, IsDuplicate(NewNotFound("product", 1)))
}

func TestWithDetail(t *testing.T) {
	err := NewValidation("invalid query parameter").WithDetail("param", "plu")
	assert.Equal(t, "plu", err.Details["param"])
}
