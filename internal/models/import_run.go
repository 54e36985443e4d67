package models

import (
	"time"

	"gorm.io/datatypes"
)

// ImportRun - журнал запусков загрузчика дампа
type ImportRun struct {
	BaseModel
	Source     string         `gorm:"size:512;not null" json:"source"`
	StartedAt  time.Time      `gorm:"not null" json:"started_at"`
	FinishedAt time.Time      `gorm:"not null" json:"finished_at"`
	Failed     bool           `gorm:"not null;default:false" json:"failed"`
	Results    datatypes.JSON `json:"results"`
}
