package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	apperrors "github.com/yourusername/examify-api/internal/pkg/errors"
	"github.com/yourusername/examify-api/internal/service/quizsession"
)

const wsWriteWait = 10 * time.Second

// WSHandler транслирует события сессии (тики таймера и финальный результат)
// в открытое WebSocket-соединение
type WSHandler struct {
	manager  *quizsession.Manager
	upgrader websocket.Upgrader
}

// NewWSHandler создает новый обработчик WebSocket
func NewWSHandler(manager *quizsession.Manager) *WSHandler {
	return &WSHandler{
		manager: manager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Авторизация запроса уже проверена middleware до апгрейда
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// SessionEvents апгрейдит соединение и пишет в него события сессии.
// После финального события session:submitted соединение закрывается.
func (h *WSHandler) SessionEvents(c *gin.Context) {
	id := c.Param("id")

	events, unsubscribe, err := h.manager.Subscribe(id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to subscribe to session"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		unsubscribe()
		log.Printf("[WSHandler] Ошибка апгрейда соединения для сессии %s: %v", id, err)
		return
	}

	// Чтение нужно только чтобы заметить закрытие соединения клиентом
	go func() {
		defer unsubscribe()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	defer conn.Close()
	for event := range events {
		conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(event); err != nil {
			log.Printf("[WSHandler] Ошибка записи события сессии %s: %v", id, err)
			return
		}
		if event.Type == quizsession.EventSubmitted {
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(wsWriteWait))
			return
		}
	}
}
