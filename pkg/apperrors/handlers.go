package apperrors

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Debug - в production текст 500-х ошибок скрывается от клиента
var Debug = true

// ErrorResponse - тело JSON-ответа: {"error": {...}}
type ErrorResponse struct {
	Error *AppError `json:"error"`
}

// HandleError прерывает запрос и пишет ошибку в JSON
func HandleError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}

	status := Status(appErr)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "Request failed", "error", err, "path", c.Request.URL.Path)
		if !Debug {
			appErr = New(appErr.Code, appErr.Domain, "Internal server error", status)
		}
	}

	c.AbortWithStatusJSON(status, ErrorResponse{Error: appErr})
}
