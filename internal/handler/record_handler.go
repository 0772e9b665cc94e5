package handler

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/examify-api/internal/domain/entity"
	"github.com/yourusername/examify-api/internal/middleware"
	"github.com/yourusername/examify-api/internal/service"
)

// RecordHandler обрабатывает запросы истории пройденных тестов
type RecordHandler struct {
	records *service.RecordService
}

// NewRecordHandler создает новый обработчик истории
func NewRecordHandler(records *service.RecordService) *RecordHandler {
	return &RecordHandler{records: records}
}

// AppendRecordRequest представляет запись о завершенном тесте
type AppendRecordRequest struct {
	Score            int `json:"score"`
	TotalQuestions   int `json:"total_questions"`
	TimeTakenSeconds int `json:"time_taken_seconds"`
	TimeLimitSeconds int `json:"time_limit_seconds"`
	TimeDuration     int `json:"time_duration"` // лимит в минутах
}

// AppendRecord добавляет запись в историю пользователя
func (h *RecordHandler) AppendRecord(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req AppendRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	record, err := h.records.AppendFromResult(userID, &entity.Result{
		Score:            req.Score,
		TotalQuestions:   req.TotalQuestions,
		TimeTakenSeconds: req.TimeTakenSeconds,
		TimeLimitSeconds: req.TimeLimitSeconds,
	}, req.TimeDuration)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, record)
}

// ListRecords возвращает страницу истории пользователя
func (h *RecordHandler) ListRecords(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	records, total, err := h.records.List(userID, limit, offset)
	if err != nil {
		log.Printf("[RecordHandler] Ошибка чтения истории userID=%d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load test records"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"records": records,
		"total":   total,
	})
}

// ExportRecords выгружает историю пользователя книгой Excel
func (h *RecordHandler) ExportRecords(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	data, err := h.records.ExportXLSX(userID)
	if err != nil {
		log.Printf("[RecordHandler] Ошибка экспорта истории userID=%d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export test records"})
		return
	}

	filename := fmt.Sprintf("test-records-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
