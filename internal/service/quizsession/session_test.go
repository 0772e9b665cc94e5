package quizsession

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/examify-api/internal/domain/entity"
)

// ============================================================================
// Вспомогательные функции
// ============================================================================

func twoQuestions() []entity.Question {
	return []entity.Question{
		{
			Text:          "Question one",
			Options:       []string{"opt a", "opt b", "opt c", "opt d"},
			CorrectAnswer: "A",
		},
		{
			Text:          "Question two",
			Options:       []string{"opt a", "opt b", "opt c", "opt d"},
			CorrectAnswer: "B",
		},
	}
}

func newTestSession(timeLimitSec int) *Session {
	return NewSession("test-session", twoQuestions(), timeLimitSec)
}

// ============================================================================
// Навигация, ответы, отметки
// ============================================================================

func TestSession_InitialState(t *testing.T) {
	s := newTestSession(60)
	snap := s.Snapshot()

	assert.Equal(t, StatusInProgress, snap.Status)
	assert.Equal(t, 0, snap.CurrentIndex)
	assert.Empty(t, snap.Answers)
	assert.Empty(t, snap.MarkedForReview)
	assert.Equal(t, 60, snap.TimeLimitSeconds)
	assert.Equal(t, 60, snap.TimeRemainingSeconds)
}

func TestSession_SelectAnswer_RoundTrip(t *testing.T) {
	s := newTestSession(60)

	s.SelectAnswer("B")

	snap := s.Snapshot()
	assert.Equal(t, "B", snap.Answers[snap.CurrentIndex])
}

func TestSession_SelectAnswer_ClearsReviewMark(t *testing.T) {
	s := newTestSession(60)

	s.ToggleReviewMark()
	require.Equal(t, []int{0}, s.Snapshot().MarkedForReview)

	s.SelectAnswer("A")
	assert.Empty(t, s.Snapshot().MarkedForReview, "выбор ответа снимает отметку с текущего вопроса")
}

func TestSession_SelectAnswer_RejectsUnknownLetter(t *testing.T) {
	s := newTestSession(60)

	s.SelectAnswer("E")
	s.SelectAnswer("")

	assert.Empty(t, s.Snapshot().Answers)
}

func TestSession_ToggleReviewMark_Twice(t *testing.T) {
	s := newTestSession(60)

	s.ToggleReviewMark()
	s.ToggleReviewMark()

	assert.Empty(t, s.Snapshot().MarkedForReview, "двойное переключение возвращает исходное состояние")
}

func TestSession_ToggleReviewMark_DoesNotTouchAnswers(t *testing.T) {
	s := newTestSession(60)

	s.SelectAnswer("C")
	s.ToggleReviewMark()

	assert.Equal(t, "C", s.Snapshot().Answers[0])
}

func TestSession_Navigate(t *testing.T) {
	s := newTestSession(60)

	s.Navigate(1)
	assert.Equal(t, 1, s.Snapshot().CurrentIndex)

	s.Navigate(0)
	assert.Equal(t, 0, s.Snapshot().CurrentIndex)
}

func TestSession_Navigate_OutOfRangeIgnored(t *testing.T) {
	s := newTestSession(60)
	s.Navigate(1)

	s.Navigate(-1)
	assert.Equal(t, 1, s.Snapshot().CurrentIndex)

	s.Navigate(2)
	assert.Equal(t, 1, s.Snapshot().CurrentIndex)

	s.Navigate(100)
	assert.Equal(t, 1, s.Snapshot().CurrentIndex)
}

// ============================================================================
// Обратный отсчет
// ============================================================================

func TestSession_Tick_Decrements(t *testing.T) {
	s := newTestSession(3)

	require.Nil(t, s.Tick())
	assert.Equal(t, 2, s.TimeRemaining())
}

func TestSession_Tick_NeverNegative_AutoSubmitsOnce(t *testing.T) {
	s := newTestSession(2)

	require.Nil(t, s.Tick())

	result := s.Tick()
	require.NotNil(t, result, "тик, обнуливший таймер, выполняет авто-сабмит")
	assert.Equal(t, StatusSubmitted, s.Status())
	assert.Equal(t, 2, result.TimeTakenSeconds)

	// Поздние тики после сабмита ничего не меняют
	for i := 0; i < 5; i++ {
		assert.Nil(t, s.Tick())
	}
	assert.Equal(t, 0, s.TimeRemaining())
	assert.Same(t, result, s.Result(), "повторного авто-сабмита не происходит")
}

func TestSession_OperationsIgnoredAfterSubmit(t *testing.T) {
	s := newTestSession(60)
	s.Submit()

	s.SelectAnswer("A")
	s.ToggleReviewMark()
	s.Navigate(1)

	snap := s.Snapshot()
	assert.Empty(t, snap.Answers)
	assert.Empty(t, snap.MarkedForReview)
	assert.Equal(t, 0, snap.CurrentIndex)
}

// ============================================================================
// Сабмит и подсчет результата
// ============================================================================

func TestSession_Submit_ScoringScenario(t *testing.T) {
	// Два вопроса с правильными ответами A и B; отвечен только первый
	s := newTestSession(60)
	s.SelectAnswer("A")

	result := s.Submit()

	require.NotNil(t, result)
	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 2, result.TotalQuestions)
	assert.Equal(t, StatusSubmitted, s.Status())
}

func TestSession_Submit_CaseInsensitiveScoring(t *testing.T) {
	s := newTestSession(60)
	s.SelectAnswer("a")
	s.Navigate(1)
	s.SelectAnswer("b")

	result := s.Submit()

	assert.Equal(t, 2, result.Score)
}

func TestSession_Submit_Idempotent(t *testing.T) {
	s := newTestSession(10)
	s.SelectAnswer("A")
	require.Nil(t, s.Tick())

	first := s.Submit()
	second := s.Submit()

	assert.Same(t, first, second, "повторный сабмит возвращает тот же результат без пересчета")
	assert.Equal(t, 1, first.TimeTakenSeconds)
}

func TestSession_Submit_ScoreWithinBounds(t *testing.T) {
	s := newTestSession(60)
	s.SelectAnswer("D")
	s.Navigate(1)
	s.SelectAnswer("C")

	result := s.Submit()

	assert.GreaterOrEqual(t, result.Score, 0)
	assert.LessOrEqual(t, result.Score, result.TotalQuestions)
}

func TestSession_Submit_TimeTaken(t *testing.T) {
	s := newTestSession(10)
	for i := 0; i < 4; i++ {
		require.Nil(t, s.Tick())
	}

	result := s.Submit()

	assert.Equal(t, 4, result.TimeTakenSeconds)
	assert.Equal(t, 10, result.TimeLimitSeconds)
}

func TestSession_ResultAnswersAreCopied(t *testing.T) {
	s := newTestSession(60)
	s.SelectAnswer("A")

	result := s.Submit()
	result.Answers[1] = "D"

	// Внутреннее состояние сессии не зависит от мутаций результата
	assert.NotContains(t, s.Snapshot().Answers, 1)
}
