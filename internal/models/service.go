package models

// Service - услуга барбершопа
type Service struct {
	BaseModel
	Name        string  `gorm:"size:200;not null" json:"name"`
	Description string  `gorm:"type:text;not null" json:"description"`
	Price       float64 `gorm:"type:decimal(10,2);not null" json:"price"`
}

func (s Service) String() string {
	return s.Name
}
