package quizsession

import (
	"time"

	"github.com/yourusername/examify-api/internal/domain/entity"
)

// Статусы сессии теста
const (
	StatusInProgress = "in-progress"
	StatusExpired    = "expired"
	StatusSubmitted  = "submitted"
)

// Типы событий сессии
const (
	EventTick      = "session:tick"
	EventSubmitted = "session:submitted"
)

// Config содержит настройки менеджера сессий
type Config struct {
	// TickInterval: период обратного отсчета
	TickInterval time.Duration

	// FinishedTTL: сколько хранить завершенную сессию (только результат)
	// прежде чем окончательно удалить ее из памяти
	FinishedTTL time.Duration

	// SubscriberBuffer: размер буфера канала подписчика событий
	SubscriberBuffer int
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		TickInterval:     time.Second,
		FinishedTTL:      time.Hour,
		SubscriberBuffer: 16,
	}
}

// Event представляет событие жизненного цикла сессии, рассылаемое подписчикам
type Event struct {
	Type          string         `json:"type"`
	SessionID     string         `json:"session_id"`
	TimeRemaining int            `json:"time_remaining,omitempty"`
	Result        *entity.Result `json:"result,omitempty"`
}

// Snapshot представляет наблюдаемое состояние сессии в момент запроса
type Snapshot struct {
	ID                   string            `json:"id"`
	Questions            []entity.Question `json:"questions"`
	CurrentIndex         int               `json:"current_index"`
	Answers              map[int]string    `json:"answers"`
	MarkedForReview      []int             `json:"marked_for_review"`
	TimeLimitSeconds     int               `json:"time_limit_seconds"`
	TimeRemainingSeconds int               `json:"time_remaining_seconds"`
	Status               string            `json:"status"`
}
