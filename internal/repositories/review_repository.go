package repositories

import (
	"errors"
	"time"

	"barber_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrReviewNotFound = errors.New("review not found")
)

// ReviewFilter - фильтры списка отзывов в админке
type ReviewFilter struct {
	Rating      *models.Rating
	MasterID    uint
	Status      *models.ReviewStatus
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Search      string // текст, имя автора, имя мастера
	Page        int
	PageSize    int
}

type ReviewRepository interface {
	Create(db *gorm.DB, review *models.Review) error
	FindByID(db *gorm.DB, id uint) (*models.Review, error)
	FindWithFilter(db *gorm.DB, filter ReviewFilter) ([]models.Review, int64, error)
	FindVisible(db *gorm.DB, limit int) ([]models.Review, error)
	FindLatestByMaster(db *gorm.DB, masterID uint, limit int) ([]models.Review, error)
	UpdateStatus(db *gorm.DB, id uint, status models.ReviewStatus) error
	UpdateName(db *gorm.DB, id uint, name string) error
	BulkUpdateStatus(db *gorm.DB, ids []uint, status models.ReviewStatus) (int64, error)
	Delete(db *gorm.DB, id uint) error
}

type ReviewRepositoryImpl struct{}

func NewReviewRepository() ReviewRepository {
	return &ReviewRepositoryImpl{}
}

// Create вставляет отзыв; статус не подставляется базой и пишется как есть
func (r *ReviewRepositoryImpl) Create(db *gorm.DB, review *models.Review) error {
	return db.Omit(clause.Associations).Create(review).Error
}

func (r *ReviewRepositoryImpl) FindByID(db *gorm.DB, id uint) (*models.Review, error) {
	var review models.Review
	if err := db.Preload("Master").First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) FindWithFilter(db *gorm.DB, filter ReviewFilter) ([]models.Review, int64, error) {
	query := db.Model(&models.Review{})

	if filter.Rating != nil {
		query = query.Where("reviews.rating = ?", *filter.Rating)
	}
	if filter.MasterID != 0 {
		query = query.Where("reviews.master_id = ?", filter.MasterID)
	}
	if filter.Status != nil {
		query = query.Where("reviews.status = ?", *filter.Status)
	}
	query = query.Scopes(createdBetween("reviews.created_at", filter.CreatedFrom, filter.CreatedTo))

	if filter.Search != "" {
		p := containsPattern(filter.Search)
		query = query.Where(
			"LOWER(reviews.text) LIKE ? ESCAPE '!' OR LOWER(reviews.name) LIKE ? ESCAPE '!' OR reviews.master_id IN (?)",
			p, p,
			db.Model(&models.Master{}).Select("id").
				Where("LOWER(first_name) LIKE ? ESCAPE '!' OR LOWER(last_name) LIKE ? ESCAPE '!'", p, p),
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.Review
	err := query.Preload("Master").
		Scopes(paginate(filter.Page, filter.PageSize)).
		Order("reviews.created_at DESC").Order("reviews.id DESC").
		Find(&reviews).Error
	return reviews, total, err
}

// FindVisible - отзывы для главной страницы: опубликованные и одобренные
func (r *ReviewRepositoryImpl) FindVisible(db *gorm.DB, limit int) ([]models.Review, error) {
	var reviews []models.Review
	err := db.Preload("Master").
		Where("status IN ?", []models.ReviewStatus{models.ReviewStatusPublished, models.ReviewStatusApproved}).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&reviews).Error
	return reviews, err
}

func (r *ReviewRepositoryImpl) FindLatestByMaster(db *gorm.DB, masterID uint, limit int) ([]models.Review, error) {
	var reviews []models.Review
	err := db.Where("master_id = ?", masterID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&reviews).Error
	return reviews, err
}

func (r *ReviewRepositoryImpl) UpdateStatus(db *gorm.DB, id uint, status models.ReviewStatus) error {
	result := db.Model(&models.Review{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (r *ReviewRepositoryImpl) UpdateName(db *gorm.DB, id uint, name string) error {
	result := db.Model(&models.Review{}).Where("id = ?", id).Update("name", name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

// BulkUpdateStatus возвращает число обновленных строк
func (r *ReviewRepositoryImpl) BulkUpdateStatus(db *gorm.DB, ids []uint, status models.ReviewStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := db.Model(&models.Review{}).Where("id IN ?", ids).Update("status", status)
	return result.RowsAffected, result.Error
}

func (r *ReviewRepositoryImpl) Delete(db *gorm.DB, id uint) error {
	result := db.Delete(&models.Review{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}
