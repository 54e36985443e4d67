package models

import (
	"time"
)

// BaseModel - целочисленный ключ: id из дампа сохраняются при загрузке
type BaseModel struct {
	ID uint `gorm:"primaryKey" json:"id"`
}

type Timestamped struct {
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
