package handlers

import (
	"strconv"

	"barber_backend/internal/logger"
	"barber_backend/internal/validator"
	"barber_backend/pkg/apperrors"
	"barber_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BaseHandler - общее для всех хэндлеров: валидатор, база из контекста, ответы об ошибках
type BaseHandler struct {
	validator *validator.Validator
}

func NewBaseHandler(v *validator.Validator) *BaseHandler {
	return &BaseHandler{validator: v}
}

// GetDB - соединение, которое положил DBMiddleware, привязанное к контексту запроса.
// Без DBMiddleware роутер собран неправильно, поэтому panic (его ловит Recovery).
func (h *BaseHandler) GetDB(c *gin.Context) *gorm.DB {
	db, ok := c.MustGet(string(contextkeys.DBContextKey)).(*gorm.DB)
	if !ok {
		panic("handlers: db in gin context is not *gorm.DB")
	}
	return db.WithContext(c.Request.Context())
}

func (h *BaseHandler) BindAndValidate_JSON(c *gin.Context, obj interface{}) bool {
	return h.bindAndValidate(c, obj, c.ShouldBindJSON(obj), "Invalid request body")
}

func (h *BaseHandler) BindAndValidate_Query(c *gin.Context, obj interface{}) bool {
	return h.bindAndValidate(c, obj, c.ShouldBindQuery(obj), "Invalid query parameters")
}

// bindAndValidate отвечает 400 сам; false - обработку запроса надо прекратить
func (h *BaseHandler) bindAndValidate(c *gin.Context, obj interface{}, bindErr error, what string) bool {
	ctx := c.Request.Context()

	if bindErr != nil {
		logger.CtxWarn(ctx, what, "error", bindErr, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError(what+": "+bindErr.Error()))
		return false
	}

	err := h.validator.Validate(obj)
	if err == nil {
		return true
	}
	if vErr, ok := err.(*validator.ValidationError); ok {
		logger.CtxWarn(ctx, "Validation failed", "errors", vErr.Errors, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.ValidationError(vErr.Errors))
		return false
	}
	logger.CtxWithError(ctx, "Validator failed", err, "path", c.Request.URL.Path)
	apperrors.HandleError(c, apperrors.InternalError(err))
	return false
}

// HandleServiceError: 4xx пишутся в лог предупреждением, остальное - ошибкой
func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		logger.CtxWithError(ctx, "Unexpected service error", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.InternalError(err))
		return
	}
	if apperrors.Status(appErr) < 500 {
		logger.CtxWarn(ctx, "Request rejected", "code", appErr.Code, "message", appErr.Message, "details", appErr.Details, "path", c.Request.URL.Path)
	}
	apperrors.HandleError(c, appErr)
}

// ParseQueryInt - defaultValue, если параметра нет или он не число
func ParseQueryInt(c *gin.Context, key string, defaultValue int) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// ParseQueryUint - 0, если параметра нет или он не число
func ParseQueryUint(c *gin.Context, key string) uint {
	value, err := strconv.ParseUint(c.Query(key), 10, 64)
	if err != nil {
		return 0
	}
	return uint(value)
}

// pathID - положительный :id из пути; при ошибке 400 уже отправлен
func (h *BaseHandler) pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Invalid id in path: must be a positive integer"))
		return 0, false
	}
	return uint(id), true
}
