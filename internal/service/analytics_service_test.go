package service

import (
	"testing"

	"meded_backend/internal/model"
	"meded_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnalyticsService(t *testing.T) *AnalyticsService {
	db := newTestDB(t)
	return NewAnalyticsService(repository.NewAnalyticsRepository(db), db)
}

func TestFoldAttemptOnlineMean(t *testing.T) {
	// 4 次提交平均 70 分，第 5 次 50 分 → 66
	analytics := &model.QuizAnalytics{
		QuizID:         1,
		TotalAttempts:  4,
		AverageScore:   70,
		CompletionRate: 100,
	}

	err := foldAttempt(analytics, AttemptSample{Completed: true, ScorePercent: 50, TimeSpent: 120})
	require.NoError(t, err)

	assert.Equal(t, 5, analytics.TotalAttempts)
	assert.InDelta(t, 66, analytics.AverageScore, 0.001)
	assert.InDelta(t, 100, analytics.CompletionRate, 0.001)
	assert.InDelta(t, 24, analytics.AverageTimeSpent, 0.001) // (0*4+120)/5
}

func TestRecordAttemptQuestionStats(t *testing.T) {
	svc := newAnalyticsService(t)

	err := svc.RecordAttempt(7, AttemptSample{
		Completed:    true,
		ScorePercent: 50,
		TimeSpent:    60,
		Questions: []QuestionSample{
			{QuestionID: 1, Answered: true, Correct: true, TimeSpent: 40},
			{QuestionID: 2, Answered: false}, // 跳过
		},
	})
	require.NoError(t, err)

	err = svc.RecordAttempt(7, AttemptSample{
		Completed:    true,
		ScorePercent: 100,
		TimeSpent:    30,
		Questions: []QuestionSample{
			{QuestionID: 1, Answered: true, Correct: false, TimeSpent: 20},
			{QuestionID: 2, Answered: true, Correct: true, TimeSpent: 10},
		},
	})
	require.NoError(t, err)

	resp, err := svc.GetQuizAnalytics(7)
	require.NoError(t, err)

	assert.Equal(t, 2, resp.TotalAttempts)
	assert.InDelta(t, 75, resp.AverageScore, 0.001)
	assert.InDelta(t, 45, resp.AverageTimeSpent, 0.001)

	q1 := resp.QuestionStats["1"]
	assert.Equal(t, 2, q1.Attempts)
	assert.InDelta(t, 50, q1.SuccessRate, 0.001)
	assert.InDelta(t, 0, q1.SkipRate, 0.001)
	assert.InDelta(t, 30, q1.AverageTimeSpent, 0.001)

	q2 := resp.QuestionStats["2"]
	assert.Equal(t, 2, q2.Attempts)
	assert.InDelta(t, 50, q2.SuccessRate, 0.001)
	assert.InDelta(t, 50, q2.SkipRate, 0.001)
}

func TestGetQuizAnalyticsNoAttempts(t *testing.T) {
	svc := newAnalyticsService(t)

	resp, err := svc.GetQuizAnalytics(99)
	require.NoError(t, err)
	assert.Equal(t, uint(99), resp.QuizID)
	assert.Equal(t, 0, resp.TotalAttempts)
	assert.NotNil(t, resp.QuestionStats)
	assert.Empty(t, resp.QuestionStats)
}

func TestRecordAttemptSerializesPerQuiz(t *testing.T) {
	svc := newAnalyticsService(t)

	done := make(chan error, 10)
	for i := 0; i < 10; i++ {
		go func() {
			done <- svc.RecordAttempt(3, AttemptSample{Completed: true, ScorePercent: 80})
		}()
	}
	for i := 0; i < 10; i++ {
		require.NoError(t, <-done)
	}

	resp, err := svc.GetQuizAnalytics(3)
	require.NoError(t, err)
	assert.Equal(t, 10, resp.TotalAttempts)
	assert.InDelta(t, 80, resp.AverageScore, 0.001)
}
