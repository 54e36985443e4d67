package models

import "gorm.io/gorm"

// All - модели в порядке миграции
func All() []interface{} {
	return []interface{}{
		&User{},
		&Service{},
		&Master{},
		&Visit{},
		&Review{},
		&ImportRun{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
