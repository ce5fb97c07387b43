package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	t.Run("validation failures map to 400", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, GetHTTPStatus("INVALID_DATE"))
		assert.Equal(t, http.StatusBadRequest, GetHTTPStatus("MALFORMED_FILE"))
	})

	t.Run("missing resources map to 404", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, GetHTTPStatus("NOT_FOUND"))
	})

	t.Run("lost races map to 409", func(t *testing.T) {
		assert.Equal(t, http.StatusConflict, GetHTTPStatus("ALREADY_APPROVED"))
		assert.Equal(t, http.StatusConflict, GetHTTPStatus("ALREADY_MATCHED"))
	})

	t.Run("business rule rejections map to 422", func(t *testing.T) {
		assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus("UNBALANCED"))
		assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus("PERIOD_LOCKED"))
	})

	t.Run("unknown codes default to 422", func(t *testing.T) {
		assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus("SOMETHING_NEW"))
	})
}
