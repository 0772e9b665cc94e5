package postgres

import (
	"gorm.io/gorm"

	"github.com/yourusername/examify-api/internal/domain/entity"
)

// TestRecordRepo реализует repository.TestRecordRepository
type TestRecordRepo struct {
	db *gorm.DB
}

// NewTestRecordRepo создает новый репозиторий истории тестов
func NewTestRecordRepo(db *gorm.DB) *TestRecordRepo {
	return &TestRecordRepo{db: db}
}

// Append добавляет запись в историю
func (r *TestRecordRepo) Append(record *entity.TestRecord) error {
	return r.db.Create(record).Error
}

// ListByUser возвращает страницу истории пользователя (новые записи первыми)
// вместе с общим количеством записей
func (r *TestRecordRepo) ListByUser(userID uint, limit, offset int) ([]entity.TestRecord, int64, error) {
	var records []entity.TestRecord
	var total int64

	if err := r.db.Model(&entity.TestRecord{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Where("user_id = ?", userID).
		Order("date DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// AllByUser возвращает всю историю пользователя (для экспорта)
func (r *TestRecordRepo) AllByUser(userID uint) ([]entity.TestRecord, error) {
	var records []entity.TestRecord
	err := r.db.Where("user_id = ?", userID).Order("date DESC").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
