package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/examify-api/internal/config"
	"github.com/yourusername/examify-api/internal/domain/entity"
	apperrors "github.com/yourusername/examify-api/internal/pkg/errors"
)

// Допустимые уровни сложности генерируемых вопросов
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Значения параметров генерации по умолчанию
const (
	DefaultNumQuestions = 10
	DefaultTimeDuration = 15
)

// Сколько байт диагностического вывода скрипта попадает в сообщение об ошибке
const maxDiagnosticOutput = 2000

// ExtractionOptions содержит параметры генерации теста из PDF
type ExtractionOptions struct {
	NumQuestions int
	TimeDuration int // минуты
	Difficulty   string
}

// Normalize подставляет значения по умолчанию и проверяет уровень сложности
func (o *ExtractionOptions) Normalize() error {
	if o.NumQuestions <= 0 {
		o.NumQuestions = DefaultNumQuestions
	}
	if o.TimeDuration <= 0 {
		o.TimeDuration = DefaultTimeDuration
	}
	if o.Difficulty == "" {
		o.Difficulty = DifficultyMedium
	}
	switch o.Difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return nil
	default:
		return fmt.Errorf("%w: difficulty must be one of easy, medium, hard", apperrors.ErrValidation)
	}
}

// ExtractionResult представляет успешный ответ внешнего процесса
type ExtractionResult struct {
	Text      string
	Questions []entity.Question
}

// scriptPayload — сырой JSON-ответ скрипта. Поле error превращает весь ответ
// в отказ; questions разбирается отдельно, потому что скрипт может вернуть
// там что угодно, и это не должно ронять весь запрос.
type scriptPayload struct {
	Text      string          `json:"text"`
	Questions json.RawMessage `json:"questions"`
	Error     string          `json:"error"`
}

// ExtractionService запускает внешний скрипт извлечения текста и генерации
// вопросов из PDF. Скрипт — черный ящик: общение только через аргументы
// командной строки, окружение процесса и JSON в stdout.
type ExtractionService struct {
	cfg config.ExtractionConfig
}

// NewExtractionService создает новый сервис извлечения
func NewExtractionService(cfg config.ExtractionConfig) *ExtractionService {
	if cfg.PythonCommand == "" {
		cfg.PythonCommand = "python3"
	}
	if cfg.TimeoutSec <= 0 {
		cfg.TimeoutSec = 120
	}
	return &ExtractionService{cfg: cfg}
}

// Run выполняет скрипт извлечения для загруженного PDF.
// Временный файл удаляется на любом пути выхода: успех, отказ, таймаут.
func (s *ExtractionService) Run(ctx context.Context, pdfPath string, opts ExtractionOptions) (*ExtractionResult, error) {
	// Удаление загруженного PDF — обязательный побочный эффект
	defer func() {
		if err := os.Remove(pdfPath); err != nil && !os.IsNotExist(err) {
			log.Printf("[Extraction] Ошибка удаления временного PDF %s: %v", pdfPath, err)
		}
	}()

	if err := (&opts).Normalize(); err != nil {
		return nil, err
	}

	if _, err := os.Stat(s.cfg.ScriptPath); err != nil {
		return nil, fmt.Errorf("extraction script is not available at %s: %w", s.cfg.ScriptPath, err)
	}

	runCtx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.TimeoutSec)*time.Second)
	defer cancel()

	cmd := exec.CommandContext(runCtx, s.cfg.PythonCommand,
		s.cfg.ScriptPath,
		pdfPath,
		strconv.Itoa(opts.NumQuestions),
		strconv.Itoa(opts.TimeDuration),
		opts.Difficulty,
	)
	// Скрипту нужно окружение процесса: в нем лежат ключи генеративного API
	cmd.Env = os.Environ()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Printf("[Extraction] Запуск %s %s (%d вопросов, %d минут, %s)",
		s.cfg.PythonCommand, s.cfg.ScriptPath, opts.NumQuestions, opts.TimeDuration, opts.Difficulty)

	err := cmd.Run()
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: extraction script timed out after %ds: %s",
				apperrors.ErrProcessing, s.cfg.TimeoutSec, diagnostic(&stderr))
		}
		return nil, fmt.Errorf("%w: extraction script failed: %s",
			apperrors.ErrProcessing, diagnostic(&stderr))
	}

	return decodePayload(stdout.Bytes())
}

// decodePayload разбирает stdout скрипта один раз на границе.
// Ответ — tagged variant: наличие поля error делает его отказом.
func decodePayload(raw []byte) (*ExtractionResult, error) {
	var payload scriptPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: failed to parse extraction script output: %v", apperrors.ErrBadPayload, err)
	}

	if payload.Error != "" {
		return nil, fmt.Errorf("%w: extraction script error: %s", apperrors.ErrProcessing, payload.Error)
	}

	// Отсутствующее или не-массивное поле questions превращается в пустой
	// список, а не в ошибку всего запроса
	var questions []entity.Question
	if len(payload.Questions) > 0 {
		if err := json.Unmarshal(payload.Questions, &questions); err != nil {
			log.Printf("[Extraction] Поле questions не является массивом вопросов, возвращаю пустой список: %v", err)
			questions = []entity.Question{}
		}
	}
	if questions == nil {
		questions = []entity.Question{}
	}

	return &ExtractionResult{
		Text:      payload.Text,
		Questions: questions,
	}, nil
}

// diagnostic возвращает усеченный stderr скрипта для сообщения об ошибке
func diagnostic(stderr *bytes.Buffer) string {
	out := strings.TrimSpace(stderr.String())
	if out == "" {
		return "no diagnostic output"
	}
	if len(out) > maxDiagnosticOutput {
		out = out[:maxDiagnosticOutput]
	}
	return out
}
