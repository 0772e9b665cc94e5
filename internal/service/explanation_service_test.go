package service

import (
	"context"
	"errors"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yourusername/examify-api/internal/pkg/errors"
)

// ============================================================================
// Тестовые заглушки: клиент генеративного сервиса и хранилище состояния
// ============================================================================

type fakeChatCompleter struct {
	calls    int
	response string
	err      error
	lastReq  openai.ChatCompletionRequest
}

func (f *fakeChatCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.response}},
		},
	}, nil
}

type memoryStateRepo struct {
	values map[string]string
}

func newMemoryStateRepo() *memoryStateRepo {
	return &memoryStateRepo{values: make(map[string]string)}
}

func (r *memoryStateRepo) Get(_ context.Context, slot string) (string, error) {
	v, ok := r.values[slot]
	if !ok {
		return "", apperrors.ErrNotFound
	}
	return v, nil
}

func (r *memoryStateRepo) Set(_ context.Context, slot, value string, _ time.Duration) error {
	r.values[slot] = value
	return nil
}

func (r *memoryStateRepo) Append(_ context.Context, slot, value string) error {
	r.values[slot] += value
	return nil
}

func (r *memoryStateRepo) Delete(_ context.Context, slot string) error {
	delete(r.values, slot)
	return nil
}

func newTestExplanationService(client chatCompleter, state *memoryStateRepo) *ExplanationService {
	return &ExplanationService{
		client: client,
		model:  openai.GPT4oMini,
		state:  state,
	}
}

func validExplanationInput() ExplanationInput {
	return ExplanationInput{
		CacheKey:      "q-1",
		Question:      "What is the capital of France?",
		UserAnswer:    "B",
		CorrectAnswer: "A",
	}
}

// ============================================================================
// Тесты
// ============================================================================

func TestExplain_CallsProviderAndCaches(t *testing.T) {
	client := &fakeChatCompleter{response: "  Paris is the capital of France.  "}
	state := newMemoryStateRepo()
	svc := newTestExplanationService(client, state)

	explanation, err := svc.Explain(context.Background(), validExplanationInput())

	require.NoError(t, err)
	assert.Equal(t, "Paris is the capital of France.", explanation)
	assert.Equal(t, 1, client.calls)
	assert.Equal(t, "Paris is the capital of France.", state.values["explanations:q-1"])
}

func TestExplain_CacheHitSkipsProvider(t *testing.T) {
	client := &fakeChatCompleter{response: "fresh explanation"}
	state := newMemoryStateRepo()
	state.values["explanations:q-1"] = "cached explanation"
	svc := newTestExplanationService(client, state)

	explanation, err := svc.Explain(context.Background(), validExplanationInput())

	require.NoError(t, err)
	assert.Equal(t, "cached explanation", explanation)
	assert.Zero(t, client.calls, "закешированное объяснение не порождает запрос к внешнему API")
}

func TestExplain_RepeatedCallUsesCache(t *testing.T) {
	client := &fakeChatCompleter{response: "stable explanation"}
	svc := newTestExplanationService(client, newMemoryStateRepo())

	first, err := svc.Explain(context.Background(), validExplanationInput())
	require.NoError(t, err)
	second, err := svc.Explain(context.Background(), validExplanationInput())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, client.calls)
}

func TestExplain_ProviderFailure(t *testing.T) {
	client := &fakeChatCompleter{err: errors.New("rate limited")}
	svc := newTestExplanationService(client, newMemoryStateRepo())

	_, err := svc.Explain(context.Background(), validExplanationInput())

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrProcessing)
}

func TestExplain_ValidationErrors(t *testing.T) {
	client := &fakeChatCompleter{response: "unused"}
	svc := newTestExplanationService(client, newMemoryStateRepo())

	cases := []struct {
		name  string
		patch func(*ExplanationInput)
	}{
		{"empty question", func(i *ExplanationInput) { i.Question = " " }},
		{"empty correct answer", func(i *ExplanationInput) { i.CorrectAnswer = "" }},
		{"empty cache key", func(i *ExplanationInput) { i.CacheKey = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validExplanationInput()
			tc.patch(&input)

			_, err := svc.Explain(context.Background(), input)

			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
	assert.Zero(t, client.calls)
}

func TestExplain_UnansweredQuestionPrompt(t *testing.T) {
	client := &fakeChatCompleter{response: "some explanation"}
	svc := newTestExplanationService(client, newMemoryStateRepo())

	input := validExplanationInput()
	input.UserAnswer = ""

	_, err := svc.Explain(context.Background(), input)

	require.NoError(t, err)
	require.Len(t, client.lastReq.Messages, 2)
	assert.Contains(t, client.lastReq.Messages[1].Content, "User Answer: Not answered")
}

func TestNewExplanationService_Validation(t *testing.T) {
	_, err := NewExplanationService("", "", newMemoryStateRepo())
	assert.Error(t, err, "пустой ключ API недопустим")

	_, err = NewExplanationService("sk-test", "", nil)
	assert.Error(t, err, "хранилище состояния обязательно")

	svc, err := NewExplanationService("sk-test", "", newMemoryStateRepo())
	require.NoError(t, err)
	assert.Equal(t, openai.GPT4oMini, svc.model)
}
