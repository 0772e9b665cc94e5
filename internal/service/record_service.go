package service

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/yourusername/examify-api/internal/domain/entity"
	"github.com/yourusername/examify-api/internal/domain/repository"
	apperrors "github.com/yourusername/examify-api/internal/pkg/errors"
)

// RecordService ведет append-only историю пройденных тестов пользователя
type RecordService struct {
	recordRepo repository.TestRecordRepository
}

// NewRecordService создает новый сервис истории и возвращает ошибку при проблемах
func NewRecordService(recordRepo repository.TestRecordRepository) (*RecordService, error) {
	if recordRepo == nil {
		return nil, fmt.Errorf("TestRecordRepository is required for RecordService")
	}
	return &RecordService{recordRepo: recordRepo}, nil
}

// AppendFromResult добавляет в историю запись о завершенной сессии.
// Accuracy вычисляется здесь же из результата, а не принимается снаружи.
func (s *RecordService) AppendFromResult(userID uint, result *entity.Result, timeDurationMin int) (*entity.TestRecord, error) {
	if result == nil {
		return nil, fmt.Errorf("%w: result is required", apperrors.ErrValidation)
	}
	if result.Score < 0 || result.Score > result.TotalQuestions {
		return nil, fmt.Errorf("%w: score is out of range", apperrors.ErrValidation)
	}

	metrics := DeriveMetrics(result)

	record := &entity.TestRecord{
		UserID:           userID,
		Date:             time.Now(),
		Score:            result.Score,
		TotalQuestions:   result.TotalQuestions,
		Accuracy:         metrics.Accuracy,
		TimeTakenSeconds: result.TimeTakenSeconds,
		TimeDuration:     timeDurationMin,
	}
	if err := s.recordRepo.Append(record); err != nil {
		return nil, fmt.Errorf("failed to append test record: %w", err)
	}
	return record, nil
}

// List возвращает страницу истории пользователя (новые записи первыми)
func (s *RecordService) List(userID uint, limit, offset int) ([]entity.TestRecord, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.recordRepo.ListByUser(userID, limit, offset)
}

// ExportXLSX выгружает всю историю пользователя книгой Excel
func (s *RecordService) ExportXLSX(userID uint) ([]byte, error) {
	records, err := s.recordRepo.AllByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load test records: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Test history"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Date", "Score", "Total questions", "Accuracy %", "Time taken (s)", "Time limit (min)"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, record := range records {
		values := []interface{}{
			record.Date.Format("2006-01-02 15:04"),
			record.Score,
			record.TotalQuestions,
			record.Accuracy,
			record.TimeTakenSeconds,
			record.TimeDuration,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
