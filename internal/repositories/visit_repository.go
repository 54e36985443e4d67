package repositories

import (
	"errors"
	"time"

	"barber_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrVisitNotFound = errors.New("visit not found")
)

// Ценовые категории записи по сумме услуг
const (
	PriceRangeLow    = "low"
	PriceRangeMedium = "medium"
	PriceRangeHigh   = "high"
)

// VisitListFilter - фильтр страницы записей для сотрудников
type VisitListFilter struct {
	Query    string // имя ИЛИ телефон, "содержит" без учета регистра
	MasterID uint
	Page     int
	PageSize int
}

// VisitAdminFilter - фильтры списка записей в админке
type VisitAdminFilter struct {
	MasterID    uint
	Status      *models.VisitStatus
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Search      string // телефон, имя, комментарий, название услуги

	PriceRange     string // low, medium, high
	PriceLowMax    float64
	PriceMediumMax float64

	IsRegular        *bool
	RegularMinVisits int

	Page     int
	PageSize int
}

type VisitRepository interface {
	Create(db *gorm.DB, visit *models.Visit, services []models.Service) error
	FindByID(db *gorm.DB, id uint) (*models.Visit, error)
	List(db *gorm.DB, filter VisitListFilter) ([]models.Visit, int64, error)
	AdminList(db *gorm.DB, filter VisitAdminFilter) ([]models.Visit, int64, error)
	FindLatestByMaster(db *gorm.DB, masterID uint, limit int) ([]models.Visit, error)
	CountByPhone(db *gorm.DB, phone string) (int64, error)
	Update(db *gorm.DB, visit *models.Visit) error
	ReplaceServices(db *gorm.DB, visit *models.Visit, services []models.Service) error
	UpdateStatus(db *gorm.DB, id uint, status models.VisitStatus) error
	Delete(db *gorm.DB, id uint) error
}

type VisitRepositoryImpl struct{}

func NewVisitRepository() VisitRepository {
	return &VisitRepositoryImpl{}
}

func (r *VisitRepositoryImpl) Create(db *gorm.DB, visit *models.Visit, services []models.Service) error {
	if err := db.Omit(clause.Associations).Create(visit).Error; err != nil {
		return err
	}
	if err := insertLinks(db, "visit_services", "visit_id", visit.ID, services); err != nil {
		return err
	}
	visit.Services = services
	return nil
}

func (r *VisitRepositoryImpl) FindByID(db *gorm.DB, id uint) (*models.Visit, error) {
	var visit models.Visit
	err := db.Preload("Master").Preload("Services").First(&visit, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVisitNotFound
		}
		return nil, err
	}
	return &visit, nil
}

// List - свежие записи сверху; поиск по имени или телефону и фильтр по мастеру
func (r *VisitRepositoryImpl) List(db *gorm.DB, filter VisitListFilter) ([]models.Visit, int64, error) {
	query := db.Model(&models.Visit{})
	if filter.Query != "" {
		p := containsPattern(filter.Query)
		query = query.Where("LOWER(visits.name) LIKE ? ESCAPE '!' OR LOWER(visits.phone) LIKE ? ESCAPE '!'", p, p)
	}
	if filter.MasterID != 0 {
		query = query.Where("visits.master_id = ?", filter.MasterID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var visits []models.Visit
	err := query.Preload("Master").Preload("Services").
		Scopes(paginate(filter.Page, filter.PageSize)).
		Order("visits.created_at DESC").Order("visits.id DESC").
		Find(&visits).Error
	return visits, total, err
}

func (r *VisitRepositoryImpl) AdminList(db *gorm.DB, filter VisitAdminFilter) ([]models.Visit, int64, error) {
	query := db.Model(&models.Visit{})

	if filter.MasterID != 0 {
		query = query.Where("visits.master_id = ?", filter.MasterID)
	}
	if filter.Status != nil {
		query = query.Where("visits.status = ?", *filter.Status)
	}
	query = query.Scopes(createdBetween("visits.created_at", filter.CreatedFrom, filter.CreatedTo))

	if filter.Search != "" {
		p := containsPattern(filter.Search)
		query = query.Where(
			"LOWER(visits.phone) LIKE ? ESCAPE '!' OR LOWER(visits.name) LIKE ? ESCAPE '!' OR LOWER(visits.comment) LIKE ? ESCAPE '!' OR visits.id IN (?)",
			p, p, p,
			db.Table("visit_services AS vs").
				Select("vs.visit_id").
				Joins("JOIN services s ON s.id = vs.service_id").
				Where("LOWER(s.name) LIKE ? ESCAPE '!'", p),
		)
	}

	if totals := priceRangeSubquery(db, filter); totals != nil {
		query = query.Where("visits.id IN (?)", totals)
	}

	if filter.IsRegular != nil {
		minVisits := filter.RegularMinVisits
		if minVisits <= 0 {
			minVisits = 3
		}
		having := "COUNT(id) >= ?"
		if !*filter.IsRegular {
			having = "COUNT(id) < ?"
		}
		phones := db.Model(&models.Visit{}).Select("phone").Group("phone").Having(having, minVisits)
		query = query.Where("visits.phone IN (?)", phones)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var visits []models.Visit
	err := query.Preload("Master").Preload("Services").
		Scopes(paginate(filter.Page, filter.PageSize)).
		Order("visits.created_at ASC").Order("visits.master_id ASC").Order("visits.id ASC").
		Find(&visits).Error
	return visits, total, err
}

// priceRangeSubquery - id записей, у которых сумма цен услуг попадает в категорию.
// Записи без услуг не попадают ни в одну категорию.
func priceRangeSubquery(db *gorm.DB, filter VisitAdminFilter) *gorm.DB {
	low, medium := filter.PriceLowMax, filter.PriceMediumMax
	if low == 0 {
		low = 1000
	}
	if medium == 0 {
		medium = 3000
	}

	sub := db.Table("visit_services AS vs").
		Select("vs.visit_id").
		Joins("JOIN services s ON s.id = vs.service_id").
		Group("vs.visit_id")

	switch filter.PriceRange {
	case PriceRangeLow:
		return sub.Having("SUM(s.price) <= ?", low)
	case PriceRangeMedium:
		return sub.Having("SUM(s.price) > ? AND SUM(s.price) <= ?", low, medium)
	case PriceRangeHigh:
		return sub.Having("SUM(s.price) > ?", medium)
	default:
		return nil
	}
}

func (r *VisitRepositoryImpl) FindLatestByMaster(db *gorm.DB, masterID uint, limit int) ([]models.Visit, error) {
	var visits []models.Visit
	err := db.Where("master_id = ?", masterID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&visits).Error
	return visits, err
}

func (r *VisitRepositoryImpl) CountByPhone(db *gorm.DB, phone string) (int64, error) {
	var count int64
	err := db.Model(&models.Visit{}).Where("phone = ?", phone).Count(&count).Error
	return count, err
}

func (r *VisitRepositoryImpl) Update(db *gorm.DB, visit *models.Visit) error {
	result := db.Model(visit).
		Select("name", "phone", "comment", "status", "master_id").
		Updates(visit)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVisitNotFound
	}
	return nil
}

func (r *VisitRepositoryImpl) ReplaceServices(db *gorm.DB, visit *models.Visit, services []models.Service) error {
	if err := db.Exec("DELETE FROM visit_services WHERE visit_id = ?", visit.ID).Error; err != nil {
		return err
	}
	if err := insertLinks(db, "visit_services", "visit_id", visit.ID, services); err != nil {
		return err
	}
	visit.Services = services
	return nil
}

func (r *VisitRepositoryImpl) UpdateStatus(db *gorm.DB, id uint, status models.VisitStatus) error {
	result := db.Model(&models.Visit{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVisitNotFound
	}
	return nil
}

func (r *VisitRepositoryImpl) Delete(db *gorm.DB, id uint) error {
	if err := db.Exec("DELETE FROM visit_services WHERE visit_id = ?", id).Error; err != nil {
		return err
	}
	result := db.Delete(&models.Visit{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVisitNotFound
	}
	return nil
}
