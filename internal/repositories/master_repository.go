package repositories

import (
	"errors"

	"barber_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrMasterNotFound = errors.New("master not found")
)

type MasterFilter struct {
	Search   string
	Page     int
	PageSize int
}

type MasterRepository interface {
	Create(db *gorm.DB, master *models.Master) error
	FindByID(db *gorm.DB, id uint) (*models.Master, error)
	Exists(db *gorm.DB, id uint) (bool, error)
	FindAll(db *gorm.DB) ([]models.Master, error)
	FindWithFilter(db *gorm.DB, filter MasterFilter) ([]models.Master, int64, error)
	Update(db *gorm.DB, master *models.Master) error
	ReplaceServices(db *gorm.DB, master *models.Master, services []models.Service) error
	UpdatePhoto(db *gorm.DB, id uint, photo *string) error
	Delete(db *gorm.DB, id uint) error
}

type MasterRepositoryImpl struct{}

func NewMasterRepository() MasterRepository {
	return &MasterRepositoryImpl{}
}

// Create сохраняет мастера и связи с уже существующими услугами
func (r *MasterRepositoryImpl) Create(db *gorm.DB, master *models.Master) error {
	services := master.Services
	master.Services = nil
	if err := db.Omit(clause.Associations).Create(master).Error; err != nil {
		return err
	}
	return r.ReplaceServices(db, master, services)
}

func (r *MasterRepositoryImpl) FindByID(db *gorm.DB, id uint) (*models.Master, error) {
	var master models.Master
	if err := db.Preload("Services", func(db *gorm.DB) *gorm.DB {
		return db.Order("services.id")
	}).First(&master, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMasterNotFound
		}
		return nil, err
	}
	return &master, nil
}

func (r *MasterRepositoryImpl) Exists(db *gorm.DB, id uint) (bool, error) {
	var count int64
	err := db.Model(&models.Master{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *MasterRepositoryImpl) FindAll(db *gorm.DB) ([]models.Master, error) {
	var masters []models.Master
	err := db.Preload("Services").Order("id").Find(&masters).Error
	return masters, err
}

func (r *MasterRepositoryImpl) FindWithFilter(db *gorm.DB, filter MasterFilter) ([]models.Master, int64, error) {
	query := db.Model(&models.Master{})
	if filter.Search != "" {
		p := containsPattern(filter.Search)
		query = query.Where("LOWER(first_name) LIKE ? ESCAPE '!' OR LOWER(last_name) LIKE ? ESCAPE '!' OR LOWER(phone) LIKE ? ESCAPE '!'", p, p, p)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var masters []models.Master
	err := query.Preload("Services").
		Scopes(paginate(filter.Page, filter.PageSize)).
		Order("id").
		Find(&masters).Error
	return masters, total, err
}

func (r *MasterRepositoryImpl) Update(db *gorm.DB, master *models.Master) error {
	result := db.Model(master).
		Select("first_name", "last_name", "phone", "address").
		Updates(master)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMasterNotFound
	}
	return nil
}

// ReplaceServices перезаписывает m2m связь master_services
func (r *MasterRepositoryImpl) ReplaceServices(db *gorm.DB, master *models.Master, services []models.Service) error {
	if err := db.Exec("DELETE FROM master_services WHERE master_id = ?", master.ID).Error; err != nil {
		return err
	}
	if err := insertLinks(db, "master_services", "master_id", master.ID, services); err != nil {
		return err
	}
	master.Services = services
	return nil
}

func (r *MasterRepositoryImpl) UpdatePhoto(db *gorm.DB, id uint, photo *string) error {
	result := db.Model(&models.Master{}).Where("id = ?", id).Update("photo", photo)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMasterNotFound
	}
	return nil
}

// Delete удаляет мастера вместе с его записями и отзывами
func (r *MasterRepositoryImpl) Delete(db *gorm.DB, id uint) error {
	statements := []string{
		"DELETE FROM visit_services WHERE visit_id IN (SELECT id FROM visits WHERE master_id = ?)",
		"DELETE FROM visits WHERE master_id = ?",
		"DELETE FROM reviews WHERE master_id = ?",
		"DELETE FROM master_services WHERE master_id = ?",
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt, id).Error; err != nil {
			return err
		}
	}

	result := db.Delete(&models.Master{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMasterNotFound
	}
	return nil
}

// insertLinks вставляет строки m2m таблицы (owner_id, service_id)
func insertLinks(db *gorm.DB, table, ownerColumn string, ownerID uint, services []models.Service) error {
	if len(services) == 0 {
		return nil
	}
	rows := make([]map[string]interface{}, 0, len(services))
	for _, s := range services {
		rows = append(rows, map[string]interface{}{ownerColumn: ownerID, "service_id": s.ID})
	}
	return db.Table(table).Create(rows).Error
}
