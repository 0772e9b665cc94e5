package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/examify-api/internal/domain/repository"
	"github.com/yourusername/examify-api/internal/middleware"
	apperrors "github.com/yourusername/examify-api/internal/pkg/errors"
)

// Слоты состояния, доступные через API. Остальные ключи хранилища
// (кеш объяснений) наружу не выдаются.
var allowedSlots = map[string]bool{
	"profileImage": true,
}

// StateHandler обрабатывает чтение и запись именованных слотов
// пользовательского состояния
type StateHandler struct {
	state repository.StateRepository
}

// NewStateHandler создает новый обработчик состояния
func NewStateHandler(state repository.StateRepository) *StateHandler {
	return &StateHandler{state: state}
}

// SetStateRequest представляет запись значения слота
type SetStateRequest struct {
	Value string `json:"value"`
}

// userSlot строит ключ слота, изолированный по пользователю
func userSlot(userID uint, slot string) string {
	return fmt.Sprintf("user:%d:%s", userID, slot)
}

// GetSlot возвращает значение слота пользователя
func (h *StateHandler) GetSlot(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	slot := c.Param("slot")
	if !allowedSlots[slot] {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown state slot"})
		return
	}

	value, err := h.state.Get(c.Request.Context(), userSlot(userID, slot))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "State slot is empty"})
			return
		}
		log.Printf("[StateHandler] Ошибка чтения слота %s: %v", slot, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read state"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"slot": slot, "value": value})
}

// SetSlot записывает значение слота пользователя
func (h *StateHandler) SetSlot(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	slot := c.Param("slot")
	if !allowedSlots[slot] {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown state slot"})
		return
	}

	var req SetStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	if err := h.state.Set(c.Request.Context(), userSlot(userID, slot), req.Value, 0); err != nil {
		log.Printf("[StateHandler] Ошибка записи слота %s: %v", slot, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write state"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"slot": slot, "value": req.Value})
}
