package services

import (
	"context"
	"fmt"

	"barber_backend/internal/config"
	"barber_backend/internal/logger"
	"barber_backend/internal/metrics"
	"barber_backend/internal/models"
	"barber_backend/internal/moderation"
	"barber_backend/internal/repositories"
	"barber_backend/internal/services/dto"
	"barber_backend/internal/validator"
	"barber_backend/pkg/apperrors"
	"barber_backend/pkg/pagination"

	"gorm.io/gorm"
)

type ReviewService interface {
	// CreateReview сохраняет отзыв и сразу проводит его через модерацию
	CreateReview(ctx context.Context, db *gorm.DB, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	ListVisible(db *gorm.DB, limit int) ([]dto.ReviewResponse, error)

	AdminListReviews(db *gorm.DB, query *dto.ReviewAdminQuery) (pagination.Result[dto.ReviewResponse], error)
	GetReview(db *gorm.DB, id uint) (*dto.ReviewResponse, error)
	UpdateReview(ctx context.Context, db *gorm.DB, id uint, req *dto.UpdateReviewRequest) (*dto.ReviewResponse, error)
	BulkUpdateStatus(ctx context.Context, db *gorm.DB, req *dto.BulkReviewStatusRequest) (*dto.BulkReviewStatusResponse, error)
	DeleteReview(ctx context.Context, db *gorm.DB, id uint) error
}

type ReviewServiceImpl struct {
	reviewRepo repositories.ReviewRepository
	masterRepo repositories.MasterRepository
	moderator  *moderation.Moderator
	validator  *validator.Validator
	cfg        *config.Config
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	masterRepo repositories.MasterRepository,
	moderator *moderation.Moderator,
	v *validator.Validator,
	cfg *config.Config,
) ReviewService {
	return &ReviewServiceImpl{
		reviewRepo: reviewRepo,
		masterRepo: masterRepo,
		moderator:  moderator,
		validator:  v,
		cfg:        cfg,
	}
}

// bulkActions - действие -> статус и шаблон сообщения для сотрудника
var bulkActions = map[string]struct {
	status  models.ReviewStatus
	message string
}{
	dto.ReviewActionPublish:  {models.ReviewStatusPublished, "%d отзывов успешно опубликовано"},
	dto.ReviewActionUnverify: {models.ReviewStatusUnverified, "%d отзывов отмечено как непроверенные"},
	dto.ReviewActionApprove:  {models.ReviewStatusApproved, "%d отзывов одобрено"},
	dto.ReviewActionReject:   {models.ReviewStatusRejected, "%d отзывов отклонено"},
}

func (s *ReviewServiceImpl) CreateReview(ctx context.Context, db *gorm.DB, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, validationToAppError(err)
	}

	exists, err := s.masterRepo.Exists(db, req.MasterID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !exists {
		return nil, apperrors.ErrMasterNotFound
	}

	// Хук модерации: статус вычисляется до транзакции (классификатор ходит в сеть)
	// и пишется вместе с отзывом, больше при создании он не меняется.
	review := &models.Review{
		Name:     req.Name,
		Text:     req.Text,
		MasterID: req.MasterID,
		Rating:   models.Rating(req.Rating),
		Status:   s.moderator.Moderate(ctx, req.Text),
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.reviewRepo.Create(tx, review); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Review created", "review_id", review.ID, "master_id", review.MasterID, "status", review.Status.Label())

	created, err := s.reviewRepo.FindByID(db, review.ID)
	if err != nil {
		return nil, handleReviewError(err)
	}
	resp := toReviewResponse(created)
	return &resp, nil
}

// ListVisible - опубликованные и одобренные отзывы для главной
func (s *ReviewServiceImpl) ListVisible(db *gorm.DB, limit int) ([]dto.ReviewResponse, error) {
	reviews, err := s.reviewRepo.FindVisible(db, limit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return toReviewResponses(reviews), nil
}

func (s *ReviewServiceImpl) AdminListReviews(db *gorm.DB, query *dto.ReviewAdminQuery) (pagination.Result[dto.ReviewResponse], error) {
	params := pagination.New(query.Page, s.cfg.Site.ReviewsPageSize)

	filter := repositories.ReviewFilter{
		MasterID:    query.MasterID,
		CreatedFrom: query.CreatedFrom,
		CreatedTo:   query.CreatedTo,
		Search:      query.Search,
		Page:        params.Page,
		PageSize:    params.PerPage,
	}
	if query.Rating != nil {
		rating := models.Rating(*query.Rating)
		filter.Rating = &rating
	}
	if query.Status != nil {
		status := models.ReviewStatus(*query.Status)
		filter.Status = &status
	}

	reviews, total, err := s.reviewRepo.FindWithFilter(db, filter)
	if err != nil {
		return pagination.Result[dto.ReviewResponse]{}, apperrors.InternalError(err)
	}
	return pagination.NewResult(toReviewResponses(reviews), total, params), nil
}

func (s *ReviewServiceImpl) GetReview(db *gorm.DB, id uint) (*dto.ReviewResponse, error) {
	review, err := s.reviewRepo.FindByID(db, id)
	if err != nil {
		return nil, handleReviewError(err)
	}
	resp := toReviewResponse(review)
	return &resp, nil
}

// UpdateReview меняет имя автора и статус; текст, оценка и мастер не редактируются
func (s *ReviewServiceImpl) UpdateReview(ctx context.Context, db *gorm.DB, id uint, req *dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	review, err := s.reviewRepo.FindByID(tx, id)
	if err != nil {
		return nil, handleReviewError(err)
	}

	if req.Name != nil && *req.Name != review.Name {
		if err := s.reviewRepo.UpdateName(tx, id, *req.Name); err != nil {
			return nil, handleReviewError(err)
		}
		review.Name = *req.Name
	}
	if req.Status != nil {
		status := models.ReviewStatus(*req.Status)
		if !status.Valid() {
			return nil, apperrors.ErrInvalidReviewStatus
		}
		if status != review.Status {
			if err := s.reviewRepo.UpdateStatus(tx, id, status); err != nil {
				return nil, handleReviewError(err)
			}
			review.Status = status
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Review updated", "review_id", id)
	resp := toReviewResponse(review)
	return &resp, nil
}

// BulkUpdateStatus - массовые действия админки; сотрудник может переопределить модерацию
func (s *ReviewServiceImpl) BulkUpdateStatus(ctx context.Context, db *gorm.DB, req *dto.BulkReviewStatusRequest) (*dto.BulkReviewStatusResponse, error) {
	action, ok := bulkActions[req.Action]
	if !ok {
		return nil, apperrors.ErrInvalidReviewStatus
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	updated, err := s.reviewRepo.BulkUpdateStatus(tx, uniqueIDs(req.IDs), action.status)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	metrics.ReviewsModerated.WithLabelValues("manual_" + req.Action).Add(float64(updated))
	logger.CtxInfo(ctx, "Reviews status changed", "action", req.Action, "updated", updated)

	return &dto.BulkReviewStatusResponse{
		Updated: updated,
		Status:  int(action.status),
		Message: fmt.Sprintf(action.message, updated),
	}, nil
}

func (s *ReviewServiceImpl) DeleteReview(ctx context.Context, db *gorm.DB, id uint) error {
	if err := s.reviewRepo.Delete(db, id); err != nil {
		return handleReviewError(err)
	}
	logger.CtxInfo(ctx, "Review deleted", "review_id", id)
	return nil
}

func handleReviewError(err error) error {
	if apperrors.Is(err, repositories.ErrReviewNotFound) {
		return apperrors.ErrReviewNotFound
	}
	return apperrors.InternalError(err)
}
