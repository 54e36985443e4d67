package dto

import "time"

// ======================
// Request DTOs
// ======================

// CreateVisitRequest - форма записи на стрижку (HTML-форма и JSON)
type CreateVisitRequest struct {
	Name       string `json:"name" form:"name" validate:"required,max=100"`
	Phone      string `json:"phone" form:"phone" validate:"required,max=20,phone"`
	Comment    string `json:"comment" form:"comment" validate:"max=2000"`
	MasterID   uint   `json:"master" form:"master" validate:"required"`
	ServiceIDs []uint `json:"services" form:"services" validate:"required,min=1,dive,gt=0"`
}

// AdminCreateVisitRequest - запись, созданная сотрудником: статус задается сразу
type AdminCreateVisitRequest struct {
	CreateVisitRequest
	Status int `json:"status" validate:"is-visit-status"`
}

type UpdateVisitRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=20,phone"`
	Comment    *string `json:"comment,omitempty" validate:"omitempty,max=2000"`
	Status     *int    `json:"status,omitempty" validate:"omitempty,is-visit-status"`
	MasterID   *uint   `json:"master,omitempty" validate:"omitempty,gt=0"`
	ServiceIDs *[]uint `json:"services,omitempty" validate:"omitempty,min=1,dive,gt=0"`
}

type UpdateVisitStatusRequest struct {
	Status *int `json:"status" validate:"required,is-visit-status"`
}

// VisitListQuery - страница записей для сотрудников
type VisitListQuery struct {
	Q        string `form:"q"`
	MasterID uint   `form:"master"`
	Page     int    `form:"page"`
}

// VisitAdminQuery - фильтры списка записей в админке
type VisitAdminQuery struct {
	MasterID    uint       `form:"master"`
	Status      *int       `form:"status" validate:"omitempty,is-visit-status"`
	CreatedFrom *time.Time `form:"created_from" time_format:"2006-01-02" time_utc:"1"`
	CreatedTo   *time.Time `form:"created_to" time_format:"2006-01-02" time_utc:"1"`
	PriceRange  string     `form:"price_range" validate:"omitempty,oneof=low medium high"`
	IsRegular   string     `form:"is_regular" validate:"omitempty,oneof=yes no"`
	Search      string     `form:"search"`
	Page        int        `form:"page" validate:"omitempty,min=1"`
	PageSize    int        `form:"page_size" validate:"omitempty,min=1,max=100"`
}

// ======================
// Response DTOs
// ======================

type VisitResponse struct {
	ID          uint              `json:"id"`
	Name        string            `json:"name"`
	Phone       string            `json:"phone"`
	Comment     string            `json:"comment"`
	CreatedAt   time.Time         `json:"created_at"`
	Status      int               `json:"status"`
	StatusLabel string            `json:"status_label"`
	Master      MasterShort       `json:"master"`
	Services    []ServiceResponse `json:"services"`
	TotalPrice  float64           `json:"total_price"`
	// "1300.00 ₽", как в колонке админки
	TotalPriceDisplay string `json:"total_price_display"`
}

// VisitInline - строка записи в карточке мастера
type VisitInline struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	Status      int       `json:"status"`
	StatusLabel string    `json:"status_label"`
	CreatedAt   time.Time `json:"created_at"`
}
