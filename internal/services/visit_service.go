package services

import (
	"context"

	"barber_backend/internal/config"
	"barber_backend/internal/logger"
	"barber_backend/internal/metrics"
	"barber_backend/internal/models"
	"barber_backend/internal/notify"
	"barber_backend/internal/repositories"
	"barber_backend/internal/services/dto"
	"barber_backend/internal/validator"
	"barber_backend/pkg/apperrors"
	"barber_backend/pkg/pagination"

	"gorm.io/gorm"
)

type VisitService interface {
	// Публичная форма записи
	CreateVisit(ctx context.Context, db *gorm.DB, req *dto.CreateVisitRequest) (*dto.VisitResponse, error)
	// Страница записей для сотрудников
	ListVisits(db *gorm.DB, query *dto.VisitListQuery) (pagination.Result[dto.VisitResponse], error)

	// Админка
	AdminCreateVisit(ctx context.Context, db *gorm.DB, req *dto.AdminCreateVisitRequest) (*dto.VisitResponse, error)
	AdminListVisits(db *gorm.DB, query *dto.VisitAdminQuery) (pagination.Result[dto.VisitResponse], error)
	GetVisit(db *gorm.DB, id uint) (*dto.VisitResponse, error)
	UpdateVisit(ctx context.Context, db *gorm.DB, id uint, req *dto.UpdateVisitRequest) (*dto.VisitResponse, error)
	UpdateVisitStatus(ctx context.Context, db *gorm.DB, id uint, status models.VisitStatus) (*dto.VisitResponse, error)
	DeleteVisit(ctx context.Context, db *gorm.DB, id uint) error
}

type VisitServiceImpl struct {
	visitRepo   repositories.VisitRepository
	masterRepo  repositories.MasterRepository
	serviceRepo repositories.ServiceRepository
	notifier    notify.Notifier
	validator   *validator.Validator
	cfg         *config.Config
}

func NewVisitService(
	visitRepo repositories.VisitRepository,
	masterRepo repositories.MasterRepository,
	serviceRepo repositories.ServiceRepository,
	notifier notify.Notifier,
	v *validator.Validator,
	cfg *config.Config,
) VisitService {
	return &VisitServiceImpl{
		visitRepo:   visitRepo,
		masterRepo:  masterRepo,
		serviceRepo: serviceRepo,
		notifier:    notifier,
		validator:   v,
		cfg:         cfg,
	}
}

// CreateVisit сохраняет заявку и уведомляет сотрудников.
// Ошибка уведомления не отменяет запись.
func (s *VisitServiceImpl) CreateVisit(ctx context.Context, db *gorm.DB, req *dto.CreateVisitRequest) (*dto.VisitResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, validationToAppError(err)
	}

	visit, err := s.create(db, req, models.VisitStatusNotConfirmed)
	if err != nil {
		return nil, err
	}

	metrics.VisitsCreated.Inc()
	logger.CtxInfo(ctx, "Visit created", "visit_id", visit.ID, "master_id", visit.MasterID, "services", len(visit.Services))

	if err := s.notifier.NotifyNewVisit(ctx, visit); err != nil {
		logger.CtxWithError(ctx, "Failed to notify about new visit", err, "visit_id", visit.ID)
	}

	resp := toVisitResponse(visit)
	return &resp, nil
}

// AdminCreateVisit - запись из админки, без уведомлений
func (s *VisitServiceImpl) AdminCreateVisit(ctx context.Context, db *gorm.DB, req *dto.AdminCreateVisitRequest) (*dto.VisitResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, validationToAppError(err)
	}

	visit, err := s.create(db, &req.CreateVisitRequest, models.VisitStatus(req.Status))
	if err != nil {
		return nil, err
	}

	metrics.VisitsCreated.Inc()
	logger.CtxInfo(ctx, "Visit created by staff", "visit_id", visit.ID)

	resp := toVisitResponse(visit)
	return &resp, nil
}

func (s *VisitServiceImpl) create(db *gorm.DB, req *dto.CreateVisitRequest, status models.VisitStatus) (*models.Visit, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	exists, err := s.masterRepo.Exists(tx, req.MasterID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !exists {
		return nil, apperrors.ErrMasterNotFound
	}

	services, err := resolveServices(tx, s.serviceRepo, req.ServiceIDs)
	if err != nil {
		return nil, err
	}
	if len(services) == 0 {
		return nil, apperrors.ValidationError(map[string]string{"services": "Выберите хотя бы одну услугу"})
	}

	visit := &models.Visit{
		Name:     req.Name,
		Phone:    req.Phone,
		Comment:  req.Comment,
		Status:   status,
		MasterID: req.MasterID,
	}
	if err := s.visitRepo.Create(tx, visit, services); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Мастер и услуги нужны для уведомления и ответа
	created, err := s.visitRepo.FindByID(db, visit.ID)
	if err != nil {
		return nil, handleVisitError(err)
	}
	return created, nil
}

// ListVisits - свежие записи сверху, поиск по имени или телефону
func (s *VisitServiceImpl) ListVisits(db *gorm.DB, query *dto.VisitListQuery) (pagination.Result[dto.VisitResponse], error) {
	params := pagination.New(query.Page, s.cfg.Site.VisitsPageSize)

	visits, total, err := s.visitRepo.List(db, repositories.VisitListFilter{
		Query:    query.Q,
		MasterID: query.MasterID,
		Page:     params.Page,
		PageSize: params.PerPage,
	})
	if err != nil {
		return pagination.Result[dto.VisitResponse]{}, apperrors.InternalError(err)
	}
	return pagination.NewResult(toVisitResponses(visits), total, params), nil
}

func (s *VisitServiceImpl) AdminListVisits(db *gorm.DB, query *dto.VisitAdminQuery) (pagination.Result[dto.VisitResponse], error) {
	pageSize := query.PageSize
	if pageSize == 0 {
		pageSize = s.cfg.Site.AdminPageSize
	}
	params := pagination.New(query.Page, pageSize)

	filter := repositories.VisitAdminFilter{
		MasterID:         query.MasterID,
		CreatedFrom:      query.CreatedFrom,
		CreatedTo:        query.CreatedTo,
		Search:           query.Search,
		PriceRange:       query.PriceRange,
		PriceLowMax:      s.cfg.Site.PriceLowMax,
		PriceMediumMax:   s.cfg.Site.PriceMediumMax,
		RegularMinVisits: s.cfg.Site.RegularClientMinVisits,
		Page:             params.Page,
		PageSize:         params.PerPage,
	}
	if query.Status != nil {
		status := models.VisitStatus(*query.Status)
		filter.Status = &status
	}
	switch query.IsRegular {
	case "yes":
		regular := true
		filter.IsRegular = &regular
	case "no":
		regular := false
		filter.IsRegular = &regular
	}

	visits, total, err := s.visitRepo.AdminList(db, filter)
	if err != nil {
		return pagination.Result[dto.VisitResponse]{}, apperrors.InternalError(err)
	}
	return pagination.NewResult(toVisitResponses(visits), total, params), nil
}

func (s *VisitServiceImpl) GetVisit(db *gorm.DB, id uint) (*dto.VisitResponse, error) {
	visit, err := s.visitRepo.FindByID(db, id)
	if err != nil {
		return nil, handleVisitError(err)
	}
	resp := toVisitResponse(visit)
	return &resp, nil
}

func (s *VisitServiceImpl) UpdateVisit(ctx context.Context, db *gorm.DB, id uint, req *dto.UpdateVisitRequest) (*dto.VisitResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	visit, err := s.visitRepo.FindByID(tx, id)
	if err != nil {
		return nil, handleVisitError(err)
	}

	if req.Name != nil {
		visit.Name = *req.Name
	}
	if req.Phone != nil {
		visit.Phone = *req.Phone
	}
	if req.Comment != nil {
		visit.Comment = *req.Comment
	}
	if req.Status != nil {
		visit.Status = models.VisitStatus(*req.Status)
	}
	if req.MasterID != nil && *req.MasterID != visit.MasterID {
		exists, err := s.masterRepo.Exists(tx, *req.MasterID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if !exists {
			return nil, apperrors.ErrMasterNotFound
		}
		visit.MasterID = *req.MasterID
	}

	if err := s.visitRepo.Update(tx, visit); err != nil {
		return nil, handleVisitError(err)
	}

	if req.ServiceIDs != nil {
		services, err := resolveServices(tx, s.serviceRepo, *req.ServiceIDs)
		if err != nil {
			return nil, err
		}
		if err := s.visitRepo.ReplaceServices(tx, visit, services); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Visit updated", "visit_id", id)
	return s.GetVisit(db, id)
}

// UpdateVisitStatus - быстрая смена статуса из списка записей
func (s *VisitServiceImpl) UpdateVisitStatus(ctx context.Context, db *gorm.DB, id uint, status models.VisitStatus) (*dto.VisitResponse, error) {
	if !status.Valid() {
		return nil, apperrors.ValidationError(map[string]string{"status": "Неизвестный статус записи"})
	}

	visit, err := s.visitRepo.FindByID(db, id)
	if err != nil {
		return nil, handleVisitError(err)
	}
	if visit.Status != status {
		if err := s.visitRepo.UpdateStatus(db, id, status); err != nil {
			return nil, handleVisitError(err)
		}
		logger.CtxInfo(ctx, "Visit status changed", "visit_id", id, "from", int(visit.Status), "to", int(status))
		visit.Status = status
	}

	resp := toVisitResponse(visit)
	return &resp, nil
}

func (s *VisitServiceImpl) DeleteVisit(ctx context.Context, db *gorm.DB, id uint) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.visitRepo.Delete(tx, id); err != nil {
		return handleVisitError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Visit deleted", "visit_id", id)
	return nil
}

func handleVisitError(err error) error {
	if apperrors.Is(err, repositories.ErrVisitNotFound) {
		return apperrors.ErrVisitNotFound
	}
	return apperrors.InternalError(err)
}
