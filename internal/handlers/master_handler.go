package handlers

import (
	"net/http"

	"barber_backend/internal/services"
	"barber_backend/internal/services/dto"
	"barber_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// MasterHandler - мастера в админке
type MasterHandler struct {
	*BaseHandler
	masterService services.MasterService
}

func NewMasterHandler(base *BaseHandler, masterService services.MasterService) *MasterHandler {
	return &MasterHandler{
		BaseHandler:   base,
		masterService: masterService,
	}
}

func (h *MasterHandler) RegisterRoutes(admin *gin.RouterGroup) {
	masters := admin.Group("/masters")
	{
		masters.GET("", h.List)
		masters.POST("", h.Create)
		masters.GET("/:id", h.Get)
		masters.PUT("/:id", h.Update)
		masters.DELETE("/:id", h.Delete)
		masters.POST("/:id/photo", h.UploadPhoto)
		masters.DELETE("/:id/photo", h.DeletePhoto)
	}
}

func (h *MasterHandler) List(c *gin.Context) {
	var query dto.MasterListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	result, err := h.masterService.SearchMasters(h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *MasterHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	master, err := h.masterService.GetMaster(h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, master)
}

func (h *MasterHandler) Create(c *gin.Context) {
	var req dto.CreateMasterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	master, err := h.masterService.CreateMaster(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, master)
}

func (h *MasterHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateMasterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	master, err := h.masterService.UpdateMaster(c.Request.Context(), h.GetDB(c), id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, master)
}

func (h *MasterHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.masterService.DeleteMaster(c.Request.Context(), h.GetDB(c), id); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Master deleted successfully"})
}

// UploadPhoto принимает multipart-поле "photo"
func (h *MasterHandler) UploadPhoto(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequestError("File 'photo' is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return
	}
	defer file.Close()

	master, err := h.masterService.UploadPhoto(
		c.Request.Context(), h.GetDB(c), id,
		file, fileHeader.Size, fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, master)
}

func (h *MasterHandler) DeletePhoto(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.masterService.DeletePhoto(c.Request.Context(), h.GetDB(c), id); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Photo deleted successfully"})
}
