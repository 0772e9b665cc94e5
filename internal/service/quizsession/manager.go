package quizsession

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/examify-api/internal/domain/entity"
	apperrors "github.com/yourusername/examify-api/internal/pkg/errors"
)

// Manager создает сессии теста и владеет их таймерами.
//
// На каждую сессию запускается одна горутина обратного отсчета с собственным
// контекстом; функция отмены хранится рядом с сессией, так что таймер
// освобождается на любом пути завершения: сабмит, авто-сабмит по истечении
// времени, явное закрытие сессии.
type Manager struct {
	config   *Config
	sessions sync.Map // map[string]*sessionRuntime
}

// sessionRuntime связывает сессию с ее таймером и подписчиками событий
type sessionRuntime struct {
	session *Session
	cancel  context.CancelFunc

	mu       sync.Mutex
	subs     map[chan Event]struct{}
	finished bool
}

// NewManager создает новый менеджер сессий
func NewManager(config *Config) *Manager {
	if config == nil {
		config = DefaultConfig()
	}
	return &Manager{config: config}
}

// Start создает новую сессию и запускает ее обратный отсчет.
// Пустой список вопросов и неположительный лимит времени отвергаются.
func (m *Manager) Start(ctx context.Context, questions []entity.Question, timeLimitSec int) (*Session, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: questions list is empty", apperrors.ErrValidation)
	}
	if timeLimitSec <= 0 {
		return nil, fmt.Errorf("%w: time limit must be positive", apperrors.ErrValidation)
	}

	session := NewSession(uuid.NewString(), questions, timeLimitSec)

	sessionCtx, cancel := context.WithCancel(ctx)
	rt := &sessionRuntime{
		session: session,
		cancel:  cancel,
		subs:    make(map[chan Event]struct{}),
	}
	m.sessions.Store(session.ID(), rt)

	go m.runCountdown(sessionCtx, rt)

	log.Printf("[SessionManager] Сессия %s запущена: %d вопросов, лимит %d сек",
		session.ID(), len(questions), timeLimitSec)
	return session, nil
}

// Get возвращает сессию по идентификатору
func (m *Manager) Get(id string) (*Session, error) {
	rt, ok := m.sessions.Load(id)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return rt.(*sessionRuntime).session, nil
}

// Submit завершает сессию вручную. Идемпотентен: повторный вызов возвращает
// тот же результат, таймер к этому моменту уже остановлен.
func (m *Manager) Submit(id string) (*entity.Result, error) {
	loaded, ok := m.sessions.Load(id)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	rt := loaded.(*sessionRuntime)

	result := rt.session.Submit()
	m.finish(rt, result)
	return result, nil
}

// Stop закрывает сессию без сабмита (уход со страницы теста).
// Таймер освобождается, сессия удаляется из памяти.
func (m *Manager) Stop(id string) error {
	loaded, ok := m.sessions.LoadAndDelete(id)
	if !ok {
		return apperrors.ErrNotFound
	}
	rt := loaded.(*sessionRuntime)
	rt.cancel()
	rt.closeSubscribers()
	log.Printf("[SessionManager] Сессия %s закрыта без сабмита", id)
	return nil
}

// Subscribe подписывает на события сессии (тики и финальный результат).
// Возвращает канал событий и функцию отписки.
func (m *Manager) Subscribe(id string) (<-chan Event, func(), error) {
	loaded, ok := m.sessions.Load(id)
	if !ok {
		return nil, nil, apperrors.ErrNotFound
	}
	rt := loaded.(*sessionRuntime)

	ch := make(chan Event, m.config.SubscriberBuffer)

	rt.mu.Lock()
	if rt.finished {
		rt.mu.Unlock()
		// Сессия уже завершена: сразу отдаем финальное событие и закрываем канал
		ch <- Event{Type: EventSubmitted, SessionID: id, Result: rt.session.Result()}
		close(ch)
		return ch, func() {}, nil
	}
	rt.subs[ch] = struct{}{}
	rt.mu.Unlock()

	unsubscribe := func() {
		rt.mu.Lock()
		defer rt.mu.Unlock()
		if _, stillThere := rt.subs[ch]; stillThere {
			delete(rt.subs, ch)
			close(ch)
		}
	}
	return ch, unsubscribe, nil
}

// runCountdown ведет обратный отсчет сессии до отмены контекста или истечения
// времени. Работает строго с периодом TickInterval.
func (m *Manager) runCountdown(ctx context.Context, rt *sessionRuntime) {
	ticker := time.NewTicker(m.config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			result := rt.session.Tick()
			if result != nil {
				// Время вышло: этот тик выполнил авто-сабмит
				log.Printf("[SessionManager] Сессия %s завершена по таймеру", rt.session.ID())
				m.finish(rt, result)
				return
			}
			rt.broadcast(Event{
				Type:          EventTick,
				SessionID:     rt.session.ID(),
				TimeRemaining: rt.session.TimeRemaining(),
			})
		}
	}
}

// finish останавливает таймер, рассылает финальное событие и планирует
// удаление завершенной сессии из памяти. Выполняется не более одного раза.
func (m *Manager) finish(rt *sessionRuntime, result *entity.Result) {
	rt.mu.Lock()
	if rt.finished {
		rt.mu.Unlock()
		return
	}
	rt.finished = true
	rt.mu.Unlock()

	rt.cancel()
	rt.broadcast(Event{
		Type:      EventSubmitted,
		SessionID: rt.session.ID(),
		Result:    result,
	})
	rt.closeSubscribers()

	id := rt.session.ID()
	time.AfterFunc(m.config.FinishedTTL, func() {
		m.sessions.Delete(id)
	})
}

// broadcast рассылает событие всем подписчикам без блокировки:
// медленный подписчик теряет тики, но не тормозит отсчет
func (rt *sessionRuntime) broadcast(event Event) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	for ch := range rt.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// closeSubscribers закрывает каналы всех подписчиков
func (rt *sessionRuntime) closeSubscribers() {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	for ch := range rt.subs {
		close(ch)
		delete(rt.subs, ch)
	}
}
