package models

const (
	ReviewNameMaxLen = 50
	ReviewTextMinLen = 30
	ReviewTextMaxLen = 400
)

// Review - отзыв о мастере.
// У Status нет gorm default: иначе нулевой "опубликован" из дампа
// заменялся бы значением по умолчанию при вставке.
type Review struct {
	BaseModel
	Timestamped
	Name     string       `gorm:"size:50;not null" json:"name"`
	Text     string       `gorm:"type:text;not null" json:"text"`
	MasterID uint         `gorm:"not null;index" json:"master_id"`
	Rating   Rating       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Status   ReviewStatus `gorm:"not null;index" json:"status"`

	// Relations
	Master Master `gorm:"foreignKey:MasterID;constraint:OnDelete:CASCADE" json:"master"`
}
