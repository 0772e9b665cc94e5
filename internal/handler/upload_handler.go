package handler

import (
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yourusername/examify-api/internal/config"
	apperrors "github.com/yourusername/examify-api/internal/pkg/errors"
	"github.com/yourusername/examify-api/internal/service"
)

// UploadHandler обрабатывает загрузку PDF и запуск генерации теста
type UploadHandler struct {
	extraction *service.ExtractionService
	cfg        config.ExtractionConfig
}

// NewUploadHandler создает новый обработчик загрузки
func NewUploadHandler(extraction *service.ExtractionService, cfg config.ExtractionConfig) *UploadHandler {
	return &UploadHandler{
		extraction: extraction,
		cfg:        cfg,
	}
}

// UploadPDF принимает multipart-запрос с полем pdf и параметрами генерации.
// Запрос блокируется на время работы внешнего скрипта (ограничено таймаутом).
func (h *UploadHandler) UploadPDF(c *gin.Context) {
	file, err := c.FormFile("pdf")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No PDF file uploaded."})
		return
	}

	maxBytes := h.cfg.MaxFileSizeMB * 1024 * 1024
	if maxBytes > 0 && file.Size > maxBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "PDF file is too large."})
		return
	}

	opts := service.ExtractionOptions{
		NumQuestions: atoiOrZero(c.PostForm("numQuestions")),
		TimeDuration: atoiOrZero(c.PostForm("timeDuration")),
		Difficulty:   c.PostForm("difficulty"),
	}

	if err := os.MkdirAll(h.cfg.UploadsDir, 0o755); err != nil {
		log.Printf("[UploadHandler] Не удалось создать каталог загрузок %s: %v", h.cfg.UploadsDir, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store uploaded file."})
		return
	}

	// Уникальное имя: одновременные загрузки не затирают друг друга
	pdfPath := filepath.Join(h.cfg.UploadsDir, uuid.NewString()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, pdfPath); err != nil {
		log.Printf("[UploadHandler] Не удалось сохранить загруженный файл: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store uploaded file."})
		return
	}

	result, err := h.extraction.Run(c.Request.Context(), pdfPath, opts)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrBadPayload):
			log.Printf("[UploadHandler] Нечитаемый вывод скрипта: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse extraction script output."})
		default:
			log.Printf("[UploadHandler] Ошибка конвейера извлечения: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	// Пустой список вопросов — не ошибка: фронтенд показывает
	// предупреждение, а не сообщение об отказе
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"text":      result.Text,
		"questions": result.Questions,
	})
}

// atoiOrZero возвращает 0 для пустых и нечисловых значений формы;
// значения по умолчанию подставляет сервис
func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
