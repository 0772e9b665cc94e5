package repository

import (
	"github.com/yourusername/examify-api/internal/domain/entity"
)

// TestRecordRepository определяет методы для работы с историей тестов.
// История только пополняется: методов изменения или удаления записей нет.
type TestRecordRepository interface {
	Append(record *entity.TestRecord) error
	ListByUser(userID uint, limit, offset int) ([]entity.TestRecord, int64, error)
	AllByUser(userID uint) ([]entity.TestRecord, error)
}
