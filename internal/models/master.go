package models

import "fmt"

type Master struct {
	BaseModel
	FirstName string  `gorm:"size:100;not null" json:"first_name"`
	LastName  string  `gorm:"size:100;not null" json:"last_name"`
	Phone     string  `gorm:"size:20;not null" json:"phone"`
	Address   string  `gorm:"size:255;not null" json:"address"`
	Photo     *string `gorm:"size:255" json:"photo,omitempty"`

	// Relations
	Services []Service `gorm:"many2many:master_services;constraint:OnDelete:CASCADE" json:"services,omitempty"`
}

func (m Master) String() string {
	return fmt.Sprintf("%s %s", m.FirstName, m.LastName)
}

func (m Master) FullName() string {
	return m.String()
}
