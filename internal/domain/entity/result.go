package entity

// Result представляет итог одной завершенной сессии теста.
// Создается ровно один раз при сабмите; производные метрики (accuracy,
// time management) не хранятся, а каждый раз вычисляются из этих полей.
type Result struct {
	Questions        []Question     `json:"questions"`
	Answers          map[int]string `json:"answers"`
	Score            int            `json:"score"`
	TotalQuestions   int            `json:"total_questions"`
	TimeTakenSeconds int            `json:"time_taken_seconds"`
	TimeLimitSeconds int            `json:"time_limit_seconds"`
}

// Metrics содержит производные показатели результата в процентах
type Metrics struct {
	Accuracy       float64 `json:"accuracy"`
	TimeManagement float64 `json:"time_management"`
}
