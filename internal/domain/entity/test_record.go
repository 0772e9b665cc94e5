package entity

import "time"

// TestRecord представляет запись в истории пройденных тестов пользователя.
// История append-only: записи никогда не изменяются после создания.
type TestRecord struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"not null;index" json:"user_id"`
	Date             time.Time `gorm:"not null" json:"date"`
	Score            int       `gorm:"not null;default:0" json:"score"`
	TotalQuestions   int       `gorm:"not null;default:0" json:"total_questions"`
	Accuracy         float64   `gorm:"not null;default:0" json:"accuracy"`
	TimeTakenSeconds int       `gorm:"not null;default:0" json:"time_taken_seconds"`
	TimeDuration     int       `gorm:"not null;default:0" json:"time_duration"` // лимит в минутах
	CreatedAt        time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (TestRecord) TableName() string {
	return "test_records"
}
