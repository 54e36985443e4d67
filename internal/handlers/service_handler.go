package handlers

import (
	"net/http"

	"barber_backend/internal/services"
	"barber_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// ServiceHandler - услуги (прайс-лист) в админке
type ServiceHandler struct {
	*BaseHandler
	catalogService services.CatalogService
}

func NewServiceHandler(base *BaseHandler, catalogService services.CatalogService) *ServiceHandler {
	return &ServiceHandler{
		BaseHandler:    base,
		catalogService: catalogService,
	}
}

func (h *ServiceHandler) RegisterRoutes(admin *gin.RouterGroup) {
	svc := admin.Group("/services")
	{
		svc.GET("", h.List)
		svc.POST("", h.Create)
		svc.GET("/:id", h.Get)
		svc.PUT("/:id", h.Update)
		svc.DELETE("/:id", h.Delete)
	}
}

func (h *ServiceHandler) List(c *gin.Context) {
	var query dto.ServiceListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	result, err := h.catalogService.SearchServices(h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ServiceHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	service, err := h.catalogService.GetService(h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, service)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req dto.CreateServiceRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	service, err := h.catalogService.CreateService(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, service)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateServiceRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	service, err := h.catalogService.UpdateService(c.Request.Context(), h.GetDB(c), id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, service)
}

func (h *ServiceHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.catalogService.DeleteService(c.Request.Context(), h.GetDB(c), id); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}
