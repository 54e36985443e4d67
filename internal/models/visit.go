package models

import "fmt"

// Visit - запись на стрижку
type Visit struct {
	BaseModel
	Timestamped
	Name     string      `gorm:"size:100;not null" json:"name"`
	Phone    string      `gorm:"size:20;not null;index" json:"phone"`
	Comment  string      `gorm:"type:text" json:"comment"`
	Status   VisitStatus `gorm:"not null" json:"status"`
	MasterID uint        `gorm:"not null;index" json:"master_id"`

	// Relations
	Master   Master    `gorm:"foreignKey:MasterID;constraint:OnDelete:CASCADE" json:"master"`
	Services []Service `gorm:"many2many:visit_services;constraint:OnDelete:CASCADE" json:"services"`
}

func (v Visit) String() string {
	return fmt.Sprintf("%s - %s", v.Name, v.Phone)
}

// TotalPrice - сумма цен выбранных услуг (Services должны быть загружены)
func (v Visit) TotalPrice() float64 {
	var total float64
	for _, s := range v.Services {
		total += s.Price
	}
	return total
}
