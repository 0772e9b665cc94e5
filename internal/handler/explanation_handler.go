package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yourusername/examify-api/internal/pkg/errors"
	"github.com/yourusername/examify-api/internal/service"
)

// Стабильный текст-заглушка при отказе генеративного сервиса
const explanationFailedMessage = "Failed to generate explanation. Please try again."

// ExplanationHandler обрабатывает запросы объяснений ответов
type ExplanationHandler struct {
	explanations *service.ExplanationService
}

// NewExplanationHandler создает новый обработчик объяснений
func NewExplanationHandler(explanations *service.ExplanationService) *ExplanationHandler {
	return &ExplanationHandler{explanations: explanations}
}

// ExplanationRequest представляет запрос объяснения одного вопроса
type ExplanationRequest struct {
	CacheKey      string `json:"cacheKey"`
	Question      string `json:"question"`
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
}

// Explain возвращает объяснение ответа, из кеша или от внешнего сервиса
func (h *ExplanationHandler) Explain(c *gin.Context) {
	var req ExplanationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	explanation, err := h.explanations.Explain(c.Request.Context(), service.ExplanationInput{
		CacheKey:      req.CacheKey,
		Question:      req.Question,
		UserAnswer:    req.UserAnswer,
		CorrectAnswer: req.CorrectAnswer,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("[ExplanationHandler] Ошибка генерации объяснения: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": explanationFailedMessage})
		return
	}

	c.JSON(http.StatusOK, gin.H{"explanation": explanation})
}
