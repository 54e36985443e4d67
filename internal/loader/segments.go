package loader

import (
	"fmt"

	"barber_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Segment - загрузчик записей одной модели дампа
type Segment struct {
	// Table - таблица с автоинкрементным id, для сдвига последовательности
	Table string
	Load  func(tx *gorm.DB, records []Record) error
}

// DefaultSegments - загрузчики моделей, которые есть в схеме.
// auth.permission и contenttypes.contenttype в схеме не хранятся.
func DefaultSegments() map[string]Segment {
	return map[string]Segment{
		"auth.user":    {Table: "users", Load: loadUsers},
		"core.service": {Table: "services", Load: loadServices},
		"core.master":  {Table: "masters", Load: loadMasters},
		"core.visit":   {Table: "visits", Load: loadVisits},
		"core.review":  {Table: "reviews", Load: loadReviews},
	}
}

// upsert - повторная загрузка того же дампа обновляет строки, а не падает
func upsert(tx *gorm.DB, value interface{}) error {
	return tx.Omit(clause.Associations).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(value).Error
}

func validatePK(rec Record) error {
	if rec.PK == 0 {
		return fmt.Errorf("%s: missing pk", rec.Model)
	}
	return nil
}

// requireIDs проверяет, что все id есть в таблице
func requireIDs(tx *gorm.DB, table string, ids []uint) error {
	unique := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	if len(unique) == 0 {
		return nil
	}
	list := make([]uint, 0, len(unique))
	for id := range unique {
		list = append(list, id)
	}

	var count int64
	if err := tx.Table(table).Where("id IN ?", list).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(list)) {
		return fmt.Errorf("%d of %d referenced %s rows do not exist", int64(len(list))-count, len(list), table)
	}
	return nil
}

// replaceLinks пересобирает m2m-связи владельцев
func replaceLinks(tx *gorm.DB, table, ownerColumn string, links map[uint][]uint) error {
	if len(links) == 0 {
		return nil
	}
	owners := make([]uint, 0, len(links))
	var rows []map[string]interface{}
	for owner, serviceIDs := range links {
		owners = append(owners, owner)
		seen := make(map[uint]bool, len(serviceIDs))
		for _, sid := range serviceIDs {
			if seen[sid] {
				continue
			}
			seen[sid] = true
			rows = append(rows, map[string]interface{}{ownerColumn: owner, "service_id": sid})
		}
	}

	if err := tx.Exec("DELETE FROM "+table+" WHERE "+ownerColumn+" IN ?", owners).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Table(table).Create(rows).Error
}

// ---------------------------------------------------------------------------

type userFields struct {
	Username    string    `json:"username"`
	Password    string    `json:"password"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	IsStaff     bool      `json:"is_staff"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
	LastLogin   timestamp `json:"last_login"`
	DateJoined  timestamp `json:"date_joined"`
}

// loadUsers переносит хеши паролей как есть: pbkdf2 перехешируется при первом входе
func loadUsers(tx *gorm.DB, records []Record) error {
	for _, rec := range records {
		if err := validatePK(rec); err != nil {
			return err
		}
		var f userFields
		if err := decodeFields(rec, &f); err != nil {
			return err
		}
		if f.Username == "" || f.Password == "" {
			return fmt.Errorf("%s pk=%d: username and password are required", rec.Model, rec.PK)
		}

		user := models.User{
			BaseModel:    models.BaseModel{ID: rec.PK},
			Username:     f.Username,
			Email:        f.Email,
			FirstName:    f.FirstName,
			LastName:     f.LastName,
			PasswordHash: f.Password,
			IsStaff:      f.IsStaff,
			IsActive:     f.IsActive,
			IsSuperuser:  f.IsSuperuser,
			LastLogin:    f.LastLogin.ptr(),
		}
		if f.DateJoined.Valid {
			user.DateJoined = f.DateJoined.Time
		}
		if err := upsert(tx, &user); err != nil {
			return fmt.Errorf("%s pk=%d: %w", rec.Model, rec.PK, err)
		}
	}
	return nil
}

type serviceFields struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       decimal `json:"price"`
}

func loadServices(tx *gorm.DB, records []Record) error {
	for _, rec := range records {
		if err := validatePK(rec); err != nil {
			return err
		}
		var f serviceFields
		if err := decodeFields(rec, &f); err != nil {
			return err
		}
		if f.Name == "" {
			return fmt.Errorf("%s pk=%d: name is required", rec.Model, rec.PK)
		}

		service := models.Service{
			BaseModel:   models.BaseModel{ID: rec.PK},
			Name:        f.Name,
			Description: f.Description,
			Price:       float64(f.Price),
		}
		if err := upsert(tx, &service); err != nil {
			return fmt.Errorf("%s pk=%d: %w", rec.Model, rec.PK, err)
		}
	}
	return nil
}

type masterFields struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Photo     string `json:"photo"`
	Services  []uint `json:"services"`
}

func loadMasters(tx *gorm.DB, records []Record) error {
	links := make(map[uint][]uint, len(records))
	var referenced []uint

	for _, rec := range records {
		if err := validatePK(rec); err != nil {
			return err
		}
		var f masterFields
		if err := decodeFields(rec, &f); err != nil {
			return err
		}
		if f.FirstName == "" || f.LastName == "" {
			return fmt.Errorf("%s pk=%d: first_name and last_name are required", rec.Model, rec.PK)
		}

		master := models.Master{
			BaseModel: models.BaseModel{ID: rec.PK},
			FirstName: f.FirstName,
			LastName:  f.LastName,
			Phone:     f.Phone,
			Address:   f.Address,
		}
		if f.Photo != "" {
			photo := f.Photo
			master.Photo = &photo
		}
		if err := upsert(tx, &master); err != nil {
			return fmt.Errorf("%s pk=%d: %w", rec.Model, rec.PK, err)
		}
		links[rec.PK] = f.Services
		referenced = append(referenced, f.Services...)
	}

	if err := requireIDs(tx, "services", referenced); err != nil {
		return err
	}
	return replaceLinks(tx, "master_services", "master_id", links)
}

type visitFields struct {
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Comment   *string   `json:"comment"`
	CreatedAt timestamp `json:"created_at"`
	Status    int       `json:"status"`
	Master    uint      `json:"master"`
	Services  []uint    `json:"services"`
}

func loadVisits(tx *gorm.DB, records []Record) error {
	links := make(map[uint][]uint, len(records))
	var masters, services []uint

	for _, rec := range records {
		if err := validatePK(rec); err != nil {
			return err
		}
		var f visitFields
		if err := decodeFields(rec, &f); err != nil {
			return err
		}
		status := models.VisitStatus(f.Status)
		if !status.Valid() {
			return fmt.Errorf("%s pk=%d: unknown status %d", rec.Model, rec.PK, f.Status)
		}

		visit := models.Visit{
			BaseModel: models.BaseModel{ID: rec.PK},
			Name:      f.Name,
			Phone:     f.Phone,
			Status:    status,
			MasterID:  f.Master,
		}
		if f.Comment != nil {
			visit.Comment = *f.Comment
		}
		if f.CreatedAt.Valid {
			visit.CreatedAt = f.CreatedAt.Time
		}
		if err := upsert(tx, &visit); err != nil {
			return fmt.Errorf("%s pk=%d: %w", rec.Model, rec.PK, err)
		}
		links[rec.PK] = f.Services
		masters = append(masters, f.Master)
		services = append(services, f.Services...)
	}

	if err := requireIDs(tx, "masters", masters); err != nil {
		return err
	}
	if err := requireIDs(tx, "services", services); err != nil {
		return err
	}
	return replaceLinks(tx, "visit_services", "visit_id", links)
}

type reviewFields struct {
	Name      string    `json:"name"`
	Text      string    `json:"text"`
	Master    uint      `json:"master"`
	Rating    int       `json:"rating"`
	CreatedAt timestamp `json:"created_at"`
	Status    int       `json:"status"`
}

// loadReviews сохраняет статусы из дампа, модерация не запускается
func loadReviews(tx *gorm.DB, records []Record) error {
	var masters []uint

	for _, rec := range records {
		if err := validatePK(rec); err != nil {
			return err
		}
		var f reviewFields
		if err := decodeFields(rec, &f); err != nil {
			return err
		}
		rating := models.Rating(f.Rating)
		status := models.ReviewStatus(f.Status)
		if !rating.Valid() {
			return fmt.Errorf("%s pk=%d: rating %d out of range", rec.Model, rec.PK, f.Rating)
		}
		if !status.Valid() {
			return fmt.Errorf("%s pk=%d: unknown status %d", rec.Model, rec.PK, f.Status)
		}

		review := models.Review{
			BaseModel: models.BaseModel{ID: rec.PK},
			Name:      f.Name,
			Text:      f.Text,
			MasterID:  f.Master,
			Rating:    rating,
			Status:    status,
		}
		if f.CreatedAt.Valid {
			review.CreatedAt = f.CreatedAt.Time
		}
		if err := upsert(tx, &review); err != nil {
			return fmt.Errorf("%s pk=%d: %w", rec.Model, rec.PK, err)
		}
		masters = append(masters, f.Master)
	}

	return requireIDs(tx, "masters", masters)
}
