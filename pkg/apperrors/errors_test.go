package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusAndFieldErrors(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, Status(errors.New("db down")))
	assert.Equal(t, http.StatusNotFound, Status(fmt.Errorf("visit 7: %w", ErrVisitNotFound)))

	fields, ok := FieldErrors(ValidationError(map[string]string{"phone": "обязательное поле"}))
	require.True(t, ok)
	assert.Equal(t, "обязательное поле", fields["phone"])

	_, ok = FieldErrors(ErrMasterNotFound)
	assert.False(t, ok)
}

func TestWithDetails_DoesNotMutateShared(t *testing.T) {
	withDetails := ErrUnknownServices.WithDetails(map[string]string{"services": "x"})

	assert.Nil(t, ErrUnknownServices.Details)
	assert.NotNil(t, withDetails.Details)
	assert.False(t, Is(withDetails, ErrUnknownServices))
}

func TestHandleError_HidesInternalMessageOutsideDebug(t *testing.T) {
	gin.SetMode(gin.TestMode)
	Debug = false
	t.Cleanup(func() { Debug = true })

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleError(c, Wrap(errors.New("password=secret"), CodeExternalServiceError, "moderation", "classifier said: password=secret", http.StatusBadGateway))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	var resp struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "EXTERNAL_SERVICE_ERROR", resp.Error.Code)
	assert.Equal(t, "Internal server error", resp.Error.Message)
	assert.NotContains(t, w.Body.String(), "secret")
}
