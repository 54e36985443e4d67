package dto

import "time"

// ======================
// Request DTOs
// ======================

// CreateReviewRequest - публичная форма отзыва
type CreateReviewRequest struct {
	Name     string `json:"name" form:"name" validate:"required,max=50"`
	Text     string `json:"text" form:"text" validate:"required,min=30,max=400"`
	MasterID uint   `json:"master" form:"master" validate:"required"`
	Rating   int    `json:"rating" form:"rating" validate:"required,is-rating"`
}

// UpdateReviewRequest - в админке редактируются только имя и статус
type UpdateReviewRequest struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=1,max=50"`
	Status *int    `json:"status,omitempty" validate:"omitempty,is-review-status"`
}

type ReviewAdminQuery struct {
	Rating      *int       `form:"rating" validate:"omitempty,is-rating"`
	MasterID    uint       `form:"master"`
	Status      *int       `form:"status" validate:"omitempty,is-review-status"`
	CreatedFrom *time.Time `form:"created_from" time_format:"2006-01-02" time_utc:"1"`
	CreatedTo   *time.Time `form:"created_to" time_format:"2006-01-02" time_utc:"1"`
	Search      string     `form:"search"`
	Page        int        `form:"page" validate:"omitempty,min=1"`
}

// Массовые действия над отзывами
const (
	ReviewActionPublish  = "publish"
	ReviewActionUnverify = "unverify"
	ReviewActionApprove  = "approve"
	ReviewActionReject   = "reject"
)

type BulkReviewStatusRequest struct {
	IDs    []uint `json:"ids" validate:"required,min=1,dive,gt=0"`
	Action string `json:"action" validate:"required,oneof=publish unverify approve reject"`
}

// ======================
// Response DTOs
// ======================

type ReviewResponse struct {
	ID          uint        `json:"id"`
	Name        string      `json:"name"`
	Text        string      `json:"text"`
	Rating      int         `json:"rating"`
	RatingLabel string      `json:"rating_label"`
	Status      int         `json:"status"`
	StatusLabel string      `json:"status_label"`
	CreatedAt   time.Time   `json:"created_at"`
	Master      MasterShort `json:"master"`
}

// ReviewInline - строка отзыва в карточке мастера
type ReviewInline struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Text      string    `json:"text"`
	Rating    int       `json:"rating"`
	Status    int       `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type BulkReviewStatusResponse struct {
	Updated int64  `json:"updated"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}
