package repositories

import (
	"errors"

	"barber_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrServiceNotFound = errors.New("service not found")
)

type ServiceFilter struct {
	Search   string
	Page     int
	PageSize int
}

type ServiceRepository interface {
	Create(db *gorm.DB, service *models.Service) error
	FindByID(db *gorm.DB, id uint) (*models.Service, error)
	FindByIDs(db *gorm.DB, ids []uint) ([]models.Service, error)
	FindAll(db *gorm.DB) ([]models.Service, error)
	FindWithFilter(db *gorm.DB, filter ServiceFilter) ([]models.Service, int64, error)
	Update(db *gorm.DB, service *models.Service) error
	Delete(db *gorm.DB, id uint) error
}

type ServiceRepositoryImpl struct{}

func NewServiceRepository() ServiceRepository {
	return &ServiceRepositoryImpl{}
}

func (r *ServiceRepositoryImpl) Create(db *gorm.DB, service *models.Service) error {
	return db.Create(service).Error
}

func (r *ServiceRepositoryImpl) FindByID(db *gorm.DB, id uint) (*models.Service, error) {
	var service models.Service
	if err := db.First(&service, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	return &service, nil
}

// FindByIDs возвращает найденные услуги; отсутствующие id просто не попадают в результат
func (r *ServiceRepositoryImpl) FindByIDs(db *gorm.DB, ids []uint) ([]models.Service, error) {
	var services []models.Service
	if len(ids) == 0 {
		return services, nil
	}
	err := db.Where("id IN ?", ids).Order("id").Find(&services).Error
	return services, err
}

func (r *ServiceRepositoryImpl) FindAll(db *gorm.DB) ([]models.Service, error) {
	var services []models.Service
	err := db.Order("id").Find(&services).Error
	return services, err
}

func (r *ServiceRepositoryImpl) FindWithFilter(db *gorm.DB, filter ServiceFilter) ([]models.Service, int64, error) {
	query := db.Model(&models.Service{})
	if filter.Search != "" {
		p := containsPattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!'", p, p)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var services []models.Service
	err := query.Scopes(paginate(filter.Page, filter.PageSize)).Order("id").Find(&services).Error
	return services, total, err
}

func (r *ServiceRepositoryImpl) Update(db *gorm.DB, service *models.Service) error {
	result := db.Model(service).Select("name", "description", "price").Updates(service)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrServiceNotFound
	}
	return nil
}

func (r *ServiceRepositoryImpl) Delete(db *gorm.DB, id uint) error {
	if err := db.Exec("DELETE FROM master_services WHERE service_id = ?", id).Error; err != nil {
		return err
	}
	if err := db.Exec("DELETE FROM visit_services WHERE service_id = ?", id).Error; err != nil {
		return err
	}
	result := db.Delete(&models.Service{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrServiceNotFound
	}
	return nil
}
