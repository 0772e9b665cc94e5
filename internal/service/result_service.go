package service

import (
	"github.com/yourusername/examify-api/internal/domain/entity"
)

// DeriveMetrics вычисляет производные показатели результата.
// Это чистая функция: метрики никогда не хранятся рядом с результатом,
// чтобы им не из чего было разойтись с исходными полями.
func DeriveMetrics(result *entity.Result) entity.Metrics {
	var metrics entity.Metrics

	if result.TotalQuestions > 0 {
		metrics.Accuracy = 100 * float64(result.Score) / float64(result.TotalQuestions)
	}
	if result.TimeLimitSeconds > 0 {
		metrics.TimeManagement = 100 * float64(result.TimeTakenSeconds) / float64(result.TimeLimitSeconds)
	}

	return metrics
}

// ClampPercent ограничивает процент диапазоном [0, 100] для отображения.
// Хранится всегда неусеченное значение.
func ClampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
