package services

import (
	"context"

	"barber_backend/internal/logger"
	"barber_backend/internal/models"
	"barber_backend/internal/repositories"
	"barber_backend/internal/services/dto"
	"barber_backend/pkg/apperrors"
	"barber_backend/pkg/pagination"

	"gorm.io/gorm"
)

// CatalogService - прайс-лист барбершопа (услуги)
type CatalogService interface {
	ListServices(db *gorm.DB) ([]dto.ServiceResponse, error)
	SearchServices(db *gorm.DB, query *dto.ServiceListQuery) (pagination.Result[dto.ServiceResponse], error)
	GetService(db *gorm.DB, id uint) (*dto.ServiceResponse, error)
	CreateService(ctx context.Context, db *gorm.DB, req *dto.CreateServiceRequest) (*dto.ServiceResponse, error)
	UpdateService(ctx context.Context, db *gorm.DB, id uint, req *dto.UpdateServiceRequest) (*dto.ServiceResponse, error)
	DeleteService(ctx context.Context, db *gorm.DB, id uint) error
}

type CatalogServiceImpl struct {
	serviceRepo repositories.ServiceRepository
}

func NewCatalogService(serviceRepo repositories.ServiceRepository) CatalogService {
	return &CatalogServiceImpl{serviceRepo: serviceRepo}
}

func (s *CatalogServiceImpl) ListServices(db *gorm.DB) ([]dto.ServiceResponse, error) {
	list, err := s.serviceRepo.FindAll(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return toServiceResponses(list), nil
}

func (s *CatalogServiceImpl) SearchServices(db *gorm.DB, query *dto.ServiceListQuery) (pagination.Result[dto.ServiceResponse], error) {
	params := pagination.New(query.Page, query.PageSize)
	list, total, err := s.serviceRepo.FindWithFilter(db, repositories.ServiceFilter{
		Search:   query.Search,
		Page:     params.Page,
		PageSize: params.PerPage,
	})
	if err != nil {
		return pagination.Result[dto.ServiceResponse]{}, apperrors.InternalError(err)
	}
	return pagination.NewResult(toServiceResponses(list), total, params), nil
}

func (s *CatalogServiceImpl) GetService(db *gorm.DB, id uint) (*dto.ServiceResponse, error) {
	service, err := s.serviceRepo.FindByID(db, id)
	if err != nil {
		return nil, handleServiceError(err)
	}
	resp := toServiceResponse(service)
	return &resp, nil
}

func (s *CatalogServiceImpl) CreateService(ctx context.Context, db *gorm.DB, req *dto.CreateServiceRequest) (*dto.ServiceResponse, error) {
	service := &models.Service{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	}
	if err := s.serviceRepo.Create(db, service); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Service created", "service_id", service.ID, "name", service.Name)
	resp := toServiceResponse(service)
	return &resp, nil
}

func (s *CatalogServiceImpl) UpdateService(ctx context.Context, db *gorm.DB, id uint, req *dto.UpdateServiceRequest) (*dto.ServiceResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	service, err := s.serviceRepo.FindByID(tx, id)
	if err != nil {
		return nil, handleServiceError(err)
	}

	if req.Name != nil {
		service.Name = *req.Name
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.Price != nil {
		service.Price = *req.Price
	}

	if err := s.serviceRepo.Update(tx, service); err != nil {
		return nil, handleServiceError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Service updated", "service_id", id)
	resp := toServiceResponse(service)
	return &resp, nil
}

// DeleteService удаляет услугу и ее связи с мастерами и записями
func (s *CatalogServiceImpl) DeleteService(ctx context.Context, db *gorm.DB, id uint) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.serviceRepo.Delete(tx, id); err != nil {
		return handleServiceError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Service deleted", "service_id", id)
	return nil
}

func handleServiceError(err error) error {
	if apperrors.Is(err, repositories.ErrServiceNotFound) {
		return apperrors.ErrServiceNotFound
	}
	return apperrors.InternalError(err)
}
