package repositories

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// likeEscaper экранирует служебные символы LIKE. Символ экранирования "!",
// а не обратный слеш: в строковых литералах MySQL слеш сам экранирует кавычку.
// Каждый LIKE с containsPattern должен идти с ESCAPE '!'.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern - шаблон LIKE для поиска "содержит" без учета регистра.
// Используется вместе с LOWER(колонка), чтобы работать и в postgres, и в sqlite.
func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(q))) + "%"
}

// paginate применяет LIMIT/OFFSET; pageSize <= 0 означает "без лимита"
func paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if pageSize <= 0 {
			return db
		}
		if page < 1 {
			page = 1
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}

// createdBetween фильтрует по колонке времени, nil-границы игнорируются.
// Граница to без времени (полночь) включает весь день.
func createdBetween(column string, from, to *time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if from != nil && !from.IsZero() {
			db = db.Where(column+" >= ?", *from)
		}
		if to != nil && !to.IsZero() {
			if to.Equal(to.Truncate(24 * time.Hour)) {
				db = db.Where(column+" < ?", to.AddDate(0, 0, 1))
			} else {
				db = db.Where(column+" <= ?", *to)
			}
		}
		return db
	}
}
