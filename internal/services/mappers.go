package services

import (
	"errors"
	"fmt"

	"barber_backend/internal/models"
	"barber_backend/internal/repositories"
	"barber_backend/internal/services/dto"
	"barber_backend/internal/storage"
	"barber_backend/internal/validator"
	"barber_backend/pkg/apperrors"

	"gorm.io/gorm"
)

func toServiceResponse(s *models.Service) dto.ServiceResponse {
	return dto.ServiceResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Price:       s.Price,
	}
}

func toServiceResponses(list []models.Service) []dto.ServiceResponse {
	out := make([]dto.ServiceResponse, 0, len(list))
	for i := range list {
		out = append(out, toServiceResponse(&list[i]))
	}
	return out
}

func toMasterResponse(m *models.Master, store storage.Storage) dto.MasterResponse {
	resp := dto.MasterResponse{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		FullName:  m.FullName(),
		Phone:     m.Phone,
		Address:   m.Address,
		Services:  toServiceResponses(m.Services),
	}
	if m.Photo != nil && *m.Photo != "" && store != nil {
		resp.PhotoURL = store.URL(*m.Photo)
	}
	return resp
}

func toMasterShort(m *models.Master) dto.MasterShort {
	return dto.MasterShort{ID: m.ID, FullName: m.FullName()}
}

func formatPrice(v float64) string {
	return fmt.Sprintf("%.2f ₽", v)
}

func toVisitResponse(v *models.Visit) dto.VisitResponse {
	total := v.TotalPrice()
	return dto.VisitResponse{
		ID:                v.ID,
		Name:              v.Name,
		Phone:             v.Phone,
		Comment:           v.Comment,
		CreatedAt:         v.CreatedAt,
		Status:            int(v.Status),
		StatusLabel:       v.Status.Label(),
		Master:            toMasterShort(&v.Master),
		Services:          toServiceResponses(v.Services),
		TotalPrice:        total,
		TotalPriceDisplay: formatPrice(total),
	}
}

func toVisitResponses(list []models.Visit) []dto.VisitResponse {
	out := make([]dto.VisitResponse, 0, len(list))
	for i := range list {
		out = append(out, toVisitResponse(&list[i]))
	}
	return out
}

func toReviewResponse(r *models.Review) dto.ReviewResponse {
	return dto.ReviewResponse{
		ID:          r.ID,
		Name:        r.Name,
		Text:        r.Text,
		Rating:      int(r.Rating),
		RatingLabel: r.Rating.Label(),
		Status:      int(r.Status),
		StatusLabel: r.Status.Label(),
		CreatedAt:   r.CreatedAt,
		Master:      toMasterShort(&r.Master),
	}
}

func toReviewResponses(list []models.Review) []dto.ReviewResponse {
	out := make([]dto.ReviewResponse, 0, len(list))
	for i := range list {
		out = append(out, toReviewResponse(&list[i]))
	}
	return out
}

// uniqueIDs убирает повторы, сохраняя порядок
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// resolveServices загружает услуги по id; все id должны существовать
func resolveServices(db *gorm.DB, repo repositories.ServiceRepository, ids []uint) ([]models.Service, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	list, err := repo.FindByIDs(db, ids)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if len(list) != len(ids) {
		return nil, apperrors.ErrUnknownServices
	}
	return list, nil
}

// validationToAppError переводит ошибку валидатора в AppError с картой полей
func validationToAppError(err error) error {
	if err == nil {
		return nil
	}
	var vErr *validator.ValidationError
	if errors.As(err, &vErr) {
		return apperrors.ValidationError(vErr.Errors)
	}
	return apperrors.InternalError(err)
}
