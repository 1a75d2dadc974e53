package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	t.Run("mapped codes", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, GetHTTPStatus("NOT_FOUND"))
		assert.Equal(t, http.StatusConflict, GetHTTPStatus("DUPLICATE_SKU"))
		assert.Equal(t, http.StatusConflict, GetHTTPStatus("CONCURRENCY_CONFLICT"))
		assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus("INSUFFICIENT_STOCK"))
		assert.Equal(t, http.StatusBadRequest, GetHTTPStatus("INVALID_ORIGINATOR"))
	})

	t.Run("prefix fallback", func(t *testing.T) {
		assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus("CANNOT_SHIP_FROM_BACKORDERED"))
		assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus("HAS_STOCK_ITEMS"))
		assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus("ALREADY_ACTIVE"))
		assert.Equal(t, http.StatusBadRequest, GetHTTPStatus("INVALID_SOMETHING_NEW"))
		assert.Equal(t, http.StatusConflict, GetHTTPStatus("DUPLICATE_BIN"))
	})

	t.Run("unknown codes are internal errors", func(t *testing.T) {
		assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("WAT"))
	})
}
