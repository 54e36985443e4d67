package dto

// ======================
// Services (услуги)
// ======================

type CreateServiceRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0,lt=100000000"`
}

type UpdateServiceRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description,omitempty" validate:"omitempty,min=1"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0,lt=100000000"`
}

type ServiceListQuery struct {
	Search   string `form:"search"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}

type ServiceResponse struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// ======================
// Masters (мастера)
// ======================

type CreateMasterRequest struct {
	FirstName  string `json:"first_name" validate:"required,max=100"`
	LastName   string `json:"last_name" validate:"required,max=100"`
	Phone      string `json:"phone" validate:"required,max=20,phone"`
	Address    string `json:"address" validate:"required,max=255"`
	ServiceIDs []uint `json:"services" validate:"omitempty,dive,gt=0"`
}

type UpdateMasterRequest struct {
	FirstName  *string `json:"first_name,omitempty" validate:"omitempty,min=1,max=100"`
	LastName   *string `json:"last_name,omitempty" validate:"omitempty,min=1,max=100"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=20,phone"`
	Address    *string `json:"address,omitempty" validate:"omitempty,min=1,max=255"`
	ServiceIDs *[]uint `json:"services,omitempty" validate:"omitempty,dive,gt=0"`
}

type MasterListQuery struct {
	Search   string `form:"search"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}

type MasterResponse struct {
	ID        uint              `json:"id"`
	FirstName string            `json:"first_name"`
	LastName  string            `json:"last_name"`
	FullName  string            `json:"full_name"`
	Phone     string            `json:"phone"`
	Address   string            `json:"address"`
	PhotoURL  string            `json:"photo_url,omitempty"`
	Services  []ServiceResponse `json:"services"`
}

// MasterDetailResponse - карточка мастера с последними записями и отзывами
type MasterDetailResponse struct {
	MasterResponse
	LatestVisits  []VisitInline  `json:"latest_visits"`
	LatestReviews []ReviewInline `json:"latest_reviews"`
}

// MasterShort - мастер внутри записи или отзыва
type MasterShort struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
}
