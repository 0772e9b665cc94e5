package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/examify-api/internal/domain/entity"
	apperrors "github.com/yourusername/examify-api/internal/pkg/errors"
	"github.com/yourusername/examify-api/internal/service"
	"github.com/yourusername/examify-api/internal/service/quizsession"
)

// SessionHandler обрабатывает жизненный цикл сессий теста
type SessionHandler struct {
	manager *quizsession.Manager

	// appCtx — корневой контекст приложения: таймер сессии живет дольше
	// запроса, который ее создал
	appCtx context.Context
}

// NewSessionHandler создает новый обработчик сессий
func NewSessionHandler(manager *quizsession.Manager, appCtx context.Context) *SessionHandler {
	return &SessionHandler{
		manager: manager,
		appCtx:  appCtx,
	}
}

// StartSessionRequest представляет запрос на запуск теста
type StartSessionRequest struct {
	Questions    []entity.Question `json:"questions"`
	TimeDuration int               `json:"timeDuration"` // минуты
}

// AnswerRequest представляет выбор варианта ответа
type AnswerRequest struct {
	Letter string `json:"letter"`
}

// NavigateRequest представляет переход к другому вопросу
type NavigateRequest struct {
	Index int `json:"index"`
}

// StartSession запускает новую сессию теста
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	session, err := h.manager.Start(h.appCtx, req.Questions, req.TimeDuration*60)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start session"})
		return
	}

	c.JSON(http.StatusCreated, session.Snapshot())
}

// GetSession возвращает текущее состояние сессии
func (h *SessionHandler) GetSession(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// SelectAnswer записывает ответ на текущий вопрос
func (h *SessionHandler) SelectAnswer(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	session.SelectAnswer(req.Letter)
	c.JSON(http.StatusOK, session.Snapshot())
}

// ToggleReviewMark переключает отметку "на проверку" у текущего вопроса
func (h *SessionHandler) ToggleReviewMark(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	session.ToggleReviewMark()
	c.JSON(http.StatusOK, session.Snapshot())
}

// Navigate переходит к вопросу с указанным индексом
func (h *SessionHandler) Navigate(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	var req NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	session.Navigate(req.Index)
	c.JSON(http.StatusOK, session.Snapshot())
}

// SubmitSession завершает сессию и возвращает результат с метриками
func (h *SessionHandler) SubmitSession(c *gin.Context) {
	id := c.Param("id")
	result, err := h.manager.Submit(id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit session"})
		return
	}

	metrics := service.DeriveMetrics(result)
	c.JSON(http.StatusOK, gin.H{
		"result": result,
		"metrics": gin.H{
			"accuracy":        metrics.Accuracy,
			"time_management": metrics.TimeManagement,
			// Усеченные значения — только для отображения
			"accuracy_display":        service.ClampPercent(metrics.Accuracy),
			"time_management_display": service.ClampPercent(metrics.TimeManagement),
		},
	})
}

// CloseSession закрывает сессию без сабмита (уход со страницы теста)
func (h *SessionHandler) CloseSession(c *gin.Context) {
	id := c.Param("id")
	if err := h.manager.Stop(id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to close session"})
		return
	}
	c.Status(http.StatusNoContent)
}

// loadSession достает сессию по :id или пишет 404
func (h *SessionHandler) loadSession(c *gin.Context) (*quizsession.Session, bool) {
	session, err := h.manager.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return nil, false
	}
	return session, true
}
