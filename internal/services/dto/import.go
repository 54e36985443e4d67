package dto

import (
	"encoding/json"
	"time"
)

type ImportRunQuery struct {
	Limit int `form:"limit" validate:"omitempty,min=1,max=100"`
}

type ImportRunResponse struct {
	ID         uint            `json:"id"`
	Source     string          `json:"source"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Failed     bool            `json:"failed"`
	Results    json.RawMessage `json:"results"`
}
