package handlers

import (
	"net/http"

	"barber_backend/internal/services"
	"barber_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// ImportHandler - журнал загрузок дампа, только чтение
type ImportHandler struct {
	*BaseHandler
	importService services.ImportService
}

func NewImportHandler(base *BaseHandler, importService services.ImportService) *ImportHandler {
	return &ImportHandler{
		BaseHandler:   base,
		importService: importService,
	}
}

func (h *ImportHandler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/import-runs", h.List)
}

func (h *ImportHandler) List(c *gin.Context) {
	var query dto.ImportRunQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	runs, err := h.importService.ListRuns(h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": runs})
}
