package quizsession

import (
	"sort"
	"sync"

	"github.com/yourusername/examify-api/internal/domain/entity"
)

// Session управляет одной попыткой прохождения теста: навигацией, ответами,
// отметками "на проверку", обратным отсчетом и подсчетом результата.
//
// Все изменяемое состояние принадлежит сессии и защищено мьютексом: тикер и
// HTTP-обработчики никогда не видят его в промежуточном виде. После перехода
// в submitted состояние больше не меняется, поэтому поздний тик не может ни
// уменьшить счетчик, ни повторно запустить авто-сабмит.
type Session struct {
	id string

	mu              sync.Mutex
	questions       []entity.Question
	currentIndex    int
	answers         map[int]string
	markedForReview map[int]bool
	timeLimitSec    int
	timeRemaining   int
	status          string
	result          *entity.Result
}

// NewSession создает сессию в состоянии in-progress.
// Список вопросов должен быть непустым, лимит времени положительным.
func NewSession(id string, questions []entity.Question, timeLimitSec int) *Session {
	return &Session{
		id:              id,
		questions:       questions,
		answers:         make(map[int]string),
		markedForReview: make(map[int]bool),
		timeLimitSec:    timeLimitSec,
		timeRemaining:   timeLimitSec,
		status:          StatusInProgress,
	}
}

// ID возвращает идентификатор сессии
func (s *Session) ID() string {
	return s.id
}

// SelectAnswer записывает ответ на текущий вопрос и снимает с него отметку
// "на проверку". Вне состояния in-progress вызов игнорируется.
func (s *Session) SelectAnswer(letter string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusInProgress {
		return
	}
	q := &s.questions[s.currentIndex]
	if !q.IsValidLetter(letter) {
		return
	}
	s.answers[s.currentIndex] = letter
	delete(s.markedForReview, s.currentIndex)
}

// ToggleReviewMark переключает отметку "на проверку" у текущего вопроса.
// Ответы при этом не затрагиваются.
func (s *Session) ToggleReviewMark() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusInProgress {
		return
	}
	if s.markedForReview[s.currentIndex] {
		delete(s.markedForReview, s.currentIndex)
	} else {
		s.markedForReview[s.currentIndex] = true
	}
}

// Navigate переходит к вопросу с указанным индексом.
// Индекс вне диапазона молча игнорируется: кнопки "назад/вперед" и палитра
// вопросов в интерфейсе не считают выход за край ошибкой.
func (s *Session) Navigate(targetIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusInProgress {
		return
	}
	if targetIndex < 0 || targetIndex >= len(s.questions) {
		return
	}
	s.currentIndex = targetIndex
}

// Tick уменьшает оставшееся время на секунду. При достижении нуля сессия
// переходит в expired и немедленно авто-сабмитится. Возвращает результат,
// если именно этот тик завершил сессию.
func (s *Session) Tick() *entity.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusInProgress {
		return nil
	}
	if s.timeRemaining > 0 {
		s.timeRemaining--
	}
	if s.timeRemaining == 0 {
		s.status = StatusExpired
		return s.submitLocked()
	}
	return nil
}

// Submit завершает сессию и возвращает результат. Повторный вызов
// идемпотентен: возвращается тот же результат без пересчета.
func (s *Session) Submit() *entity.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusSubmitted {
		return s.result
	}
	return s.submitLocked()
}

// submitLocked подсчитывает очки и фиксирует результат. Вызывать под мьютексом.
func (s *Session) submitLocked() *entity.Result {
	score := 0
	for i := range s.questions {
		answer, ok := s.answers[i]
		if !ok {
			continue // неотвеченный вопрос считается неверным
		}
		if s.questions[i].IsCorrect(answer) {
			score++
		}
	}

	answers := make(map[int]string, len(s.answers))
	for k, v := range s.answers {
		answers[k] = v
	}

	s.status = StatusSubmitted
	s.result = &entity.Result{
		Questions:        s.questions,
		Answers:          answers,
		Score:            score,
		TotalQuestions:   len(s.questions),
		TimeTakenSeconds: s.timeLimitSec - s.timeRemaining,
		TimeLimitSeconds: s.timeLimitSec,
	}
	return s.result
}

// Result возвращает результат завершенной сессии, nil если сессия еще идет
func (s *Session) Result() *entity.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Status возвращает текущий статус сессии
func (s *Session) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// TimeRemaining возвращает оставшееся время в секундах
func (s *Session) TimeRemaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeRemaining
}

// Snapshot возвращает копию наблюдаемого состояния сессии
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	answers := make(map[int]string, len(s.answers))
	for k, v := range s.answers {
		answers[k] = v
	}

	marked := make([]int, 0, len(s.markedForReview))
	for idx := range s.markedForReview {
		marked = append(marked, idx)
	}
	sort.Ints(marked)

	return Snapshot{
		ID:                   s.id,
		Questions:            s.questions,
		CurrentIndex:         s.currentIndex,
		Answers:              answers,
		MarkedForReview:      marked,
		TimeLimitSeconds:     s.timeLimitSec,
		TimeRemainingSeconds: s.timeRemaining,
		Status:               s.status,
	}
}
