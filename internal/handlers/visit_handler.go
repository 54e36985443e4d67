package handlers

import (
	"net/http"

	"barber_backend/internal/models"
	"barber_backend/internal/services"
	"barber_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// VisitHandler - записи в админке
type VisitHandler struct {
	*BaseHandler
	visitService services.VisitService
}

func NewVisitHandler(base *BaseHandler, visitService services.VisitService) *VisitHandler {
	return &VisitHandler{
		BaseHandler:  base,
		visitService: visitService,
	}
}

func (h *VisitHandler) RegisterRoutes(admin *gin.RouterGroup) {
	visits := admin.Group("/visits")
	{
		visits.GET("", h.List)
		visits.POST("", h.Create)
		visits.GET("/:id", h.Get)
		visits.PUT("/:id", h.Update)
		visits.PATCH("/:id/status", h.UpdateStatus)
		visits.DELETE("/:id", h.Delete)
	}
}

// List: ?master=&status=&created_from=&created_to=&price_range=&is_regular=&search=&page=
func (h *VisitHandler) List(c *gin.Context) {
	var query dto.VisitAdminQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	result, err := h.visitService.AdminListVisits(h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *VisitHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	visit, err := h.visitService.GetVisit(h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, visit)
}

func (h *VisitHandler) Create(c *gin.Context) {
	var req dto.AdminCreateVisitRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	visit, err := h.visitService.AdminCreateVisit(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, visit)
}

func (h *VisitHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateVisitRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	visit, err := h.visitService.UpdateVisit(c.Request.Context(), h.GetDB(c), id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, visit)
}

// UpdateStatus - редактирование статуса прямо из списка
func (h *VisitHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateVisitStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	visit, err := h.visitService.UpdateVisitStatus(c.Request.Context(), h.GetDB(c), id, models.VisitStatus(*req.Status))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, visit)
}

func (h *VisitHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.visitService.DeleteVisit(c.Request.Context(), h.GetDB(c), id); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Visit deleted successfully"})
}
