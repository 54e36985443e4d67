package helpers

import (
	"fmt"
	"testing"
	"time"

	"barber_backend/internal/models"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB открывает чистую in-memory sqlite и мигрирует схему
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Не удалось открыть sqlite: %v", err)
	}

	// одно соединение: у каждого соединения своя :memory: база
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Не удалось получить *sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Не удалось выполнить AutoMigrate: %v", err)
	}

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func CreateService(t *testing.T, db *gorm.DB, name string, price float64) *models.Service {
	t.Helper()
	s := &models.Service{Name: name, Description: name + " description", Price: price}
	if err := db.Create(s).Error; err != nil {
		t.Fatalf("Не удалось создать услугу: %v", err)
	}
	return s
}

func CreateMaster(t *testing.T, db *gorm.DB, firstName string, services ...*models.Service) *models.Master {
	t.Helper()
	m := &models.Master{
		FirstName: firstName,
		LastName:  "Testov",
		Phone:     "+70000000000",
		Address:   "Test street 1",
	}
	for _, s := range services {
		m.Services = append(m.Services, *s)
	}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("Не удалось создать мастера: %v", err)
	}
	return m
}

// CreateVisit создает запись; createdAt задает порядок в списках
func CreateVisit(t *testing.T, db *gorm.DB, name, phone string, master *models.Master, createdAt time.Time, services ...*models.Service) *models.Visit {
	t.Helper()
	v := &models.Visit{
		Name:     name,
		Phone:    phone,
		MasterID: master.ID,
	}
	v.CreatedAt = createdAt
	for _, s := range services {
		v.Services = append(v.Services, *s)
	}
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("Не удалось создать запись: %v", err)
	}
	return v
}

func CreateReview(t *testing.T, db *gorm.DB, master *models.Master, rating models.Rating, status models.ReviewStatus, createdAt time.Time) *models.Review {
	t.Helper()
	r := &models.Review{
		Name:     "Client",
		Text:     fmt.Sprintf("Review text long enough for validation, rating %d", rating),
		MasterID: master.ID,
		Rating:   rating,
		Status:   status,
	}
	r.CreatedAt = createdAt
	if err := db.Omit("Master").Create(r).Error; err != nil {
		t.Fatalf("Не удалось создать отзыв: %v", err)
	}
	return r
}

// CreateStaffUser создает сотрудника с захешированным паролем
func CreateStaffUser(t *testing.T, db *gorm.DB, username, password string, isStaff bool) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Не удалось хешировать пароль: %v", err)
	}
	u := &models.User{
		Username:     username,
		Email:        username + "@test.local",
		PasswordHash: string(hash),
		IsStaff:      isStaff,
		IsActive:     true,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("Не удалось создать пользователя: %v", err)
	}
	return u
}
