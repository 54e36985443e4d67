package services

import (
	"encoding/json"

	"barber_backend/internal/repositories"
	"barber_backend/internal/services/dto"
	"barber_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const defaultImportRunsLimit = 20

// ImportService - журнал загрузок дампа (cmd/loaddata)
type ImportService interface {
	ListRuns(db *gorm.DB, query *dto.ImportRunQuery) ([]dto.ImportRunResponse, error)
}

type ImportServiceImpl struct {
	runRepo repositories.ImportRunRepository
}

func NewImportService(runRepo repositories.ImportRunRepository) ImportService {
	return &ImportServiceImpl{runRepo: runRepo}
}

func (s *ImportServiceImpl) ListRuns(db *gorm.DB, query *dto.ImportRunQuery) ([]dto.ImportRunResponse, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultImportRunsLimit
	}

	runs, err := s.runRepo.FindRecent(db, limit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]dto.ImportRunResponse, 0, len(runs))
	for _, run := range runs {
		out = append(out, dto.ImportRunResponse{
			ID:         run.ID,
			Source:     run.Source,
			StartedAt:  run.StartedAt,
			FinishedAt: run.FinishedAt,
			Failed:     run.Failed,
			Results:    json.RawMessage(run.Results),
		})
	}
	return out, nil
}
