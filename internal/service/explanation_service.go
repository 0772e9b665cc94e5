package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/yourusername/examify-api/internal/domain/repository"
	apperrors "github.com/yourusername/examify-api/internal/pkg/errors"
)

// Время жизни закешированного объяснения
const explanationTTL = 24 * time.Hour

// chatCompleter покрывает используемую часть клиента OpenAI (для тестов)
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ExplanationInput содержит данные одного вопроса для объяснения
type ExplanationInput struct {
	CacheKey      string
	Question      string
	UserAnswer    string // пусто, если вопрос остался без ответа
	CorrectAnswer string
}

// ExplanationService запрашивает у генеративного сервиса короткое объяснение
// ответа на вопрос. Ответы кешируются по ключу вопроса: повторное открытие
// объяснения не порождает новый запрос к внешнему API.
type ExplanationService struct {
	client chatCompleter
	model  string
	state  repository.StateRepository
}

// NewExplanationService создает новый сервис объяснений и возвращает ошибку при проблемах
func NewExplanationService(apiKey, model string, state repository.StateRepository) (*ExplanationService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required for ExplanationService")
	}
	if state == nil {
		return nil, fmt.Errorf("StateRepository is required for ExplanationService")
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &ExplanationService{
		client: openai.NewClient(apiKey),
		model:  model,
		state:  state,
	}, nil
}

// Explain возвращает объяснение для вопроса, из кеша или от внешнего сервиса
func (s *ExplanationService) Explain(ctx context.Context, input ExplanationInput) (string, error) {
	if strings.TrimSpace(input.Question) == "" || strings.TrimSpace(input.CorrectAnswer) == "" {
		return "", fmt.Errorf("%w: question and correctAnswer are required", apperrors.ErrValidation)
	}
	if input.CacheKey == "" {
		return "", fmt.Errorf("%w: cacheKey is required", apperrors.ErrValidation)
	}

	slot := "explanations:" + input.CacheKey
	if cached, err := s.state.Get(ctx, slot); err == nil {
		return cached, nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		log.Printf("[Explanation] Ошибка чтения кеша для %s: %v", input.CacheKey, err)
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a helpful tutor explaining multiple choice quiz answers to a learner.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildExplanationPrompt(input),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: explanation request failed: %v", apperrors.ErrProcessing, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: explanation service returned no choices", apperrors.ErrProcessing)
	}

	explanation := strings.TrimSpace(resp.Choices[0].Message.Content)

	if err := s.state.Set(ctx, slot, explanation, explanationTTL); err != nil {
		// Кеш — оптимизация; его отказ не делает ответ хуже
		log.Printf("[Explanation] Ошибка записи кеша для %s: %v", input.CacheKey, err)
	}

	return explanation, nil
}

// buildExplanationPrompt собирает запрос к генеративному сервису
func buildExplanationPrompt(input ExplanationInput) string {
	userAnswer := input.UserAnswer
	if userAnswer == "" {
		userAnswer = "Not answered"
	}
	return fmt.Sprintf(`Question: %s
User Answer: %s
Correct Answer: %s

Task:
- If the user's answer is correct, explain why this answer is correct.
- If the user's answer is incorrect, explain why the user's answer is wrong and then explain why the correct answer is right.
- Give a short, clear, and helpful explanation so the learner understands the concept better.
- Do not use markdown formatting like ** or bullet points. Keep it as a simple paragraph.`,
		input.Question, userAnswer, input.CorrectAnswer)
}
