package handlers

import (
	"net/http"

	"barber_backend/internal/services"
	"barber_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// ReviewHandler - модерация отзывов в админке
type ReviewHandler struct {
	*BaseHandler
	reviewService services.ReviewService
}

func NewReviewHandler(base *BaseHandler, reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler:   base,
		reviewService: reviewService,
	}
}

func (h *ReviewHandler) RegisterRoutes(admin *gin.RouterGroup) {
	reviews := admin.Group("/reviews")
	{
		reviews.GET("", h.List)
		reviews.POST("/bulk-status", h.BulkStatus)
		reviews.GET("/:id", h.Get)
		reviews.PATCH("/:id", h.Update)
		reviews.DELETE("/:id", h.Delete)
	}
}

func (h *ReviewHandler) List(c *gin.Context) {
	var query dto.ReviewAdminQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	result, err := h.reviewService.AdminListReviews(h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ReviewHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	review, err := h.reviewService.GetReview(h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// Update - только имя и статус, остальные поля только для чтения
func (h *ReviewHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateReviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	review, err := h.reviewService.UpdateReview(c.Request.Context(), h.GetDB(c), id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// BulkStatus: {"ids": [...], "action": "publish|unverify|approve|reject"}
func (h *ReviewHandler) BulkStatus(c *gin.Context) {
	var req dto.BulkReviewStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.reviewService.BulkUpdateStatus(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.reviewService.DeleteReview(c.Request.Context(), h.GetDB(c), id); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
}
