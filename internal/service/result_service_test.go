package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/examify-api/internal/domain/entity"
)

func TestDeriveMetrics(t *testing.T) {
	cases := []struct {
		name               string
		result             entity.Result
		wantAccuracy       float64
		wantTimeManagement float64
	}{
		{
			name: "half correct, half time used",
			result: entity.Result{
				Score: 1, TotalQuestions: 2,
				TimeTakenSeconds: 300, TimeLimitSeconds: 600,
			},
			wantAccuracy:       50,
			wantTimeManagement: 50,
		},
		{
			name: "perfect score, full time",
			result: entity.Result{
				Score: 10, TotalQuestions: 10,
				TimeTakenSeconds: 900, TimeLimitSeconds: 900,
			},
			wantAccuracy:       100,
			wantTimeManagement: 100,
		},
		{
			name:               "empty question set does not divide by zero",
			result:             entity.Result{Score: 0, TotalQuestions: 0, TimeTakenSeconds: 10, TimeLimitSeconds: 60},
			wantAccuracy:       0,
			wantTimeManagement: 10.0 / 60.0 * 100,
		},
		{
			name:               "zero time limit does not divide by zero",
			result:             entity.Result{Score: 1, TotalQuestions: 4, TimeTakenSeconds: 0, TimeLimitSeconds: 0},
			wantAccuracy:       25,
			wantTimeManagement: 0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			metrics := DeriveMetrics(&tc.result)
			assert.InDelta(t, tc.wantAccuracy, metrics.Accuracy, 1e-9)
			assert.InDelta(t, tc.wantTimeManagement, metrics.TimeManagement, 1e-9)
		})
	}
}

func TestDeriveMetrics_IsStateless(t *testing.T) {
	result := entity.Result{Score: 3, TotalQuestions: 4, TimeTakenSeconds: 30, TimeLimitSeconds: 60}

	first := DeriveMetrics(&result)
	second := DeriveMetrics(&result)

	assert.Equal(t, first, second)
}

func TestClampPercent(t *testing.T) {
	assert.Equal(t, 0.0, ClampPercent(-5))
	assert.Equal(t, 0.0, ClampPercent(0))
	assert.Equal(t, 42.5, ClampPercent(42.5))
	assert.Equal(t, 100.0, ClampPercent(100))
	assert.Equal(t, 100.0, ClampPercent(117.3))
}
