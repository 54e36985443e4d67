package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"path"
	"strings"

	"barber_backend/internal/config"
	"barber_backend/internal/imageprocessor"
	"barber_backend/internal/logger"
	"barber_backend/internal/models"
	"barber_backend/internal/repositories"
	"barber_backend/internal/services/dto"
	"barber_backend/internal/storage"
	"barber_backend/pkg/apperrors"
	"barber_backend/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Каталог, в который складываются фото мастеров
const masterPhotoDir = "masters"

var errStorageNotConfigured = errors.New("storage is not configured")

type MasterService interface {
	ListMasters(db *gorm.DB) ([]dto.MasterResponse, error)
	SearchMasters(db *gorm.DB, query *dto.MasterListQuery) (pagination.Result[dto.MasterResponse], error)
	GetMaster(db *gorm.DB, id uint) (*dto.MasterDetailResponse, error)
	CreateMaster(ctx context.Context, db *gorm.DB, req *dto.CreateMasterRequest) (*dto.MasterResponse, error)
	UpdateMaster(ctx context.Context, db *gorm.DB, id uint, req *dto.UpdateMasterRequest) (*dto.MasterResponse, error)
	DeleteMaster(ctx context.Context, db *gorm.DB, id uint) error

	UploadPhoto(ctx context.Context, db *gorm.DB, id uint, file io.Reader, size int64, contentType string) (*dto.MasterResponse, error)
	DeletePhoto(ctx context.Context, db *gorm.DB, id uint) error
}

type MasterServiceImpl struct {
	masterRepo  repositories.MasterRepository
	serviceRepo repositories.ServiceRepository
	visitRepo   repositories.VisitRepository
	reviewRepo  repositories.ReviewRepository
	storage     storage.Storage
	images      *imageprocessor.Processor
	cfg         *config.Config
}

func NewMasterService(
	masterRepo repositories.MasterRepository,
	serviceRepo repositories.ServiceRepository,
	visitRepo repositories.VisitRepository,
	reviewRepo repositories.ReviewRepository,
	storage storage.Storage,
	images *imageprocessor.Processor,
	cfg *config.Config,
) MasterService {
	return &MasterServiceImpl{
		masterRepo:  masterRepo,
		serviceRepo: serviceRepo,
		visitRepo:   visitRepo,
		reviewRepo:  reviewRepo,
		storage:     storage,
		images:      images,
		cfg:         cfg,
	}
}

// ListMasters - все мастера для главной страницы и формы записи
func (s *MasterServiceImpl) ListMasters(db *gorm.DB) ([]dto.MasterResponse, error) {
	masters, err := s.masterRepo.FindAll(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	out := make([]dto.MasterResponse, 0, len(masters))
	for i := range masters {
		out = append(out, toMasterResponse(&masters[i], s.storage))
	}
	return out, nil
}

func (s *MasterServiceImpl) SearchMasters(db *gorm.DB, query *dto.MasterListQuery) (pagination.Result[dto.MasterResponse], error) {
	pageSize := query.PageSize
	if pageSize == 0 {
		pageSize = s.cfg.Site.AdminPageSize
	}
	params := pagination.New(query.Page, pageSize)

	masters, total, err := s.masterRepo.FindWithFilter(db, repositories.MasterFilter{
		Search:   query.Search,
		Page:     params.Page,
		PageSize: params.PerPage,
	})
	if err != nil {
		return pagination.Result[dto.MasterResponse]{}, apperrors.InternalError(err)
	}

	out := make([]dto.MasterResponse, 0, len(masters))
	for i := range masters {
		out = append(out, toMasterResponse(&masters[i], s.storage))
	}
	return pagination.NewResult(out, total, params), nil
}

// GetMaster - карточка мастера с последними записями и отзывами
func (s *MasterServiceImpl) GetMaster(db *gorm.DB, id uint) (*dto.MasterDetailResponse, error) {
	master, err := s.masterRepo.FindByID(db, id)
	if err != nil {
		return nil, handleMasterError(err)
	}

	limit := s.cfg.Site.InlineLimit
	visits, err := s.visitRepo.FindLatestByMaster(db, id, limit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	reviews, err := s.reviewRepo.FindLatestByMaster(db, id, limit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.MasterDetailResponse{
		MasterResponse: toMasterResponse(master, s.storage),
		LatestVisits:   make([]dto.VisitInline, 0, len(visits)),
		LatestReviews:  make([]dto.ReviewInline, 0, len(reviews)),
	}
	for _, v := range visits {
		resp.LatestVisits = append(resp.LatestVisits, dto.VisitInline{
			ID:          v.ID,
			Name:        v.Name,
			Phone:       v.Phone,
			Status:      int(v.Status),
			StatusLabel: v.Status.Label(),
			CreatedAt:   v.CreatedAt,
		})
	}
	for _, r := range reviews {
		resp.LatestReviews = append(resp.LatestReviews, dto.ReviewInline{
			ID:        r.ID,
			Name:      r.Name,
			Text:      r.Text,
			Rating:    int(r.Rating),
			Status:    int(r.Status),
			CreatedAt: r.CreatedAt,
		})
	}
	return resp, nil
}

func (s *MasterServiceImpl) CreateMaster(ctx context.Context, db *gorm.DB, req *dto.CreateMasterRequest) (*dto.MasterResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	services, err := resolveServices(tx, s.serviceRepo, req.ServiceIDs)
	if err != nil {
		return nil, err
	}

	master := &models.Master{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Address:   req.Address,
		Services:  services,
	}
	if err := s.masterRepo.Create(tx, master); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Master created", "master_id", master.ID)
	resp := toMasterResponse(master, s.storage)
	return &resp, nil
}

func (s *MasterServiceImpl) UpdateMaster(ctx context.Context, db *gorm.DB, id uint, req *dto.UpdateMasterRequest) (*dto.MasterResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	master, err := s.masterRepo.FindByID(tx, id)
	if err != nil {
		return nil, handleMasterError(err)
	}

	if req.FirstName != nil {
		master.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		master.LastName = *req.LastName
	}
	if req.Phone != nil {
		master.Phone = *req.Phone
	}
	if req.Address != nil {
		master.Address = *req.Address
	}
	if err := s.masterRepo.Update(tx, master); err != nil {
		return nil, handleMasterError(err)
	}

	if req.ServiceIDs != nil {
		services, err := resolveServices(tx, s.serviceRepo, *req.ServiceIDs)
		if err != nil {
			return nil, err
		}
		if err := s.masterRepo.ReplaceServices(tx, master, services); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Master updated", "master_id", id)
	resp := toMasterResponse(master, s.storage)
	return &resp, nil
}

// DeleteMaster удаляет мастера, его записи и отзывы, затем фото
func (s *MasterServiceImpl) DeleteMaster(ctx context.Context, db *gorm.DB, id uint) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	master, err := s.masterRepo.FindByID(tx, id)
	if err != nil {
		return handleMasterError(err)
	}
	if err := s.masterRepo.Delete(tx, id); err != nil {
		return handleMasterError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	s.removePhoto(ctx, master.Photo)
	logger.CtxInfo(ctx, "Master deleted", "master_id", id)
	return nil
}

// UploadPhoto уменьшает фото и кладет его в хранилище.
// Старое фото удаляется только после успешной записи в базу.
func (s *MasterServiceImpl) UploadPhoto(ctx context.Context, db *gorm.DB, id uint, file io.Reader, size int64, contentType string) (*dto.MasterResponse, error) {
	if s.storage == nil {
		return nil, apperrors.InternalError(errStorageNotConfigured)
	}
	if limit := s.cfg.Upload.MaxSize; limit > 0 && size > limit {
		return nil, apperrors.ErrFileTooLarge
	}
	if !s.allowedType(contentType) {
		return nil, apperrors.ErrInvalidFileType
	}

	master, err := s.masterRepo.FindByID(db, id)
	if err != nil {
		return nil, handleMasterError(err)
	}

	img, err := s.images.Process(file)
	if err != nil {
		logger.CtxWarn(ctx, "Failed to process master photo", "master_id", id, "error", err)
		return nil, apperrors.ErrInvalidFileType.WithError(err)
	}

	photoPath := path.Join(masterPhotoDir, uuid.NewString()+img.Ext)
	if err := s.storage.Save(ctx, photoPath, bytes.NewReader(img.Data), img.ContentType); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeExternalServiceError, "storage", "Failed to save photo", http.StatusBadGateway)
	}

	if err := s.masterRepo.UpdatePhoto(db, id, &photoPath); err != nil {
		s.removePhoto(ctx, &photoPath)
		return nil, handleMasterError(err)
	}

	s.removePhoto(ctx, master.Photo)
	master.Photo = &photoPath

	logger.CtxInfo(ctx, "Master photo uploaded", "master_id", id, "path", photoPath, "width", img.Width, "height", img.Height)
	resp := toMasterResponse(master, s.storage)
	return &resp, nil
}

func (s *MasterServiceImpl) DeletePhoto(ctx context.Context, db *gorm.DB, id uint) error {
	master, err := s.masterRepo.FindByID(db, id)
	if err != nil {
		return handleMasterError(err)
	}
	if master.Photo == nil {
		return nil
	}
	if err := s.masterRepo.UpdatePhoto(db, id, nil); err != nil {
		return handleMasterError(err)
	}
	s.removePhoto(ctx, master.Photo)
	return nil
}

func (s *MasterServiceImpl) allowedType(contentType string) bool {
	allowed := s.cfg.Upload.AllowedTypes
	if len(allowed) == 0 {
		return strings.HasPrefix(contentType, "image/")
	}
	for _, t := range allowed {
		if strings.EqualFold(t, contentType) {
			return true
		}
	}
	return false
}

// removePhoto - best effort, ошибка только логируется
func (s *MasterServiceImpl) removePhoto(ctx context.Context, photo *string) {
	if photo == nil || *photo == "" || s.storage == nil {
		return
	}
	if err := s.storage.Delete(ctx, *photo); err != nil {
		logger.CtxWithError(ctx, "Failed to delete photo", err, "path", *photo)
	}
}

func handleMasterError(err error) error {
	if apperrors.Is(err, repositories.ErrMasterNotFound) {
		return apperrors.ErrMasterNotFound
	}
	return apperrors.InternalError(err)
}
