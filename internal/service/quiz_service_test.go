package service

import (
	"encoding/json"
	"testing"

	"meded_backend/internal/model"
	"meded_backend/internal/repository"
	"meded_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newQuizService(t *testing.T) (*QuizService, *gorm.DB) {
	db := newTestDB(t)
	progressSvc := NewProgressService(
		repository.NewProgressRepository(db),
		repository.NewAchievementRepository(db),
		db,
		nil,
	)
	analyticsSvc := NewAnalyticsService(repository.NewAnalyticsRepository(db), db)
	svc := NewQuizService(
		repository.NewQuizRepository(db),
		repository.NewQuizResultRepository(db),
		progressSvc,
		analyticsSvc,
	)
	return svc, db
}

func seedQuiz(t *testing.T, svc *QuizService) *model.Quiz {
	t.Helper()
	quiz, err := svc.CreateQuiz(1, QuizRequest{
		Title:    "心血管基础",
		Category: "anatomy",
		Questions: []QuizQuestionRequest{
			{Type: model.QuestionMultipleChoice, Content: "人体最大的动脉？", Options: []string{"Aorta", "Vena Cava"}, CorrectAnswer: json.RawMessage(`"Aorta"`)},
			{Type: model.QuestionTrueFalse, Content: "心脏有四个腔", CorrectAnswer: json.RawMessage(`true`)},
			{Type: model.QuestionShortAnswer, Content: "输送血液离开心脏的血管统称？", CorrectAnswer: json.RawMessage(`["artery", "arteries"]`)},
			{Type: model.QuestionShortAnswer, Content: "心率的英文缩写？", CorrectAnswer: json.RawMessage(`"HR"`)},
		},
	})
	require.NoError(t, err)
	require.Len(t, quiz.Questions, 4)
	return quiz
}

func TestSubmitQuizScoresAnswers(t *testing.T) {
	svc, _ := newQuizService(t)
	quiz := seedQuiz(t, svc)
	q := quiz.Questions

	outcome, err := svc.SubmitQuiz(2, quiz.ID, QuizSubmissionRequest{
		Answers: []SubmittedAnswer{
			{QuestionID: q[0].ID, SelectedOptionIDs: []string{"Aorta"}, TimeSpent: 12},
			{QuestionID: q[1].ID, SelectedOptionIDs: []string{"false"}, TimeSpent: 5},
			{QuestionID: q[2].ID, ShortAnswer: "Arteries", TimeSpent: 20},
			// 第 4 题漏答
		},
	})
	require.NoError(t, err)
	require.NotNil(t, outcome.Result)

	assert.Equal(t, 2, outcome.Result.Score)
	assert.Equal(t, 4, outcome.Result.TotalQuestions)
	assert.Equal(t, 37, outcome.Result.TimeSpent)
	assert.Nil(t, outcome.Result.Improvement) // 首次提交
	assert.Equal(t, 1, outcome.Result.Streak)
	assert.NotEmpty(t, outcome.Result.ID) // UUID 主键

	var evaluated []model.EvaluatedAnswer
	require.NoError(t, json.Unmarshal(outcome.Result.Answers, &evaluated))
	assert.Len(t, evaluated, 3) // 漏答的题不产生判分记录

	// 下游更新一并完成
	require.NotNil(t, outcome.Gamification)
	assert.Equal(t, 25, outcome.Gamification.XPEarned) // 50% → 25 XP
	assert.Empty(t, outcome.Warning)

	analytics, err := svc.AnalyticsSvc.GetQuizAnalytics(quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, analytics.TotalAttempts)
	assert.InDelta(t, 50, analytics.AverageScore, 0.001)
}

func TestSubmitQuizImprovement(t *testing.T) {
	svc, _ := newQuizService(t)
	quiz := seedQuiz(t, svc)
	q := quiz.Questions

	_, err := svc.SubmitQuiz(3, quiz.ID, QuizSubmissionRequest{
		Answers: []SubmittedAnswer{
			{QuestionID: q[0].ID, SelectedOptionIDs: []string{"Aorta"}},
		},
	})
	require.NoError(t, err) // 1/4 = 25%

	outcome, err := svc.SubmitQuiz(3, quiz.ID, QuizSubmissionRequest{
		Answers: []SubmittedAnswer{
			{QuestionID: q[0].ID, SelectedOptionIDs: []string{"Aorta"}},
			{QuestionID: q[1].ID, SelectedOptionIDs: []string{"true"}},
			{QuestionID: q[2].ID, ShortAnswer: "artery"},
			{QuestionID: q[3].ID, ShortAnswer: "hr"},
		},
	})
	require.NoError(t, err) // 4/4 = 100%

	require.NotNil(t, outcome.Result.Improvement)
	assert.Equal(t, "+75%", *outcome.Result.Improvement)
	// 同一天重复提交，卷内连击不变
	assert.Equal(t, 1, outcome.Result.Streak)
}

func TestSubmitQuizDuplicateAndForeignAnswers(t *testing.T) {
	svc, _ := newQuizService(t)
	quiz := seedQuiz(t, svc)
	q := quiz.Questions

	outcome, err := svc.SubmitQuiz(4, quiz.ID, QuizSubmissionRequest{
		Answers: []SubmittedAnswer{
			{QuestionID: q[0].ID, SelectedOptionIDs: []string{"Aorta"}},
			{QuestionID: q[0].ID, SelectedOptionIDs: []string{"Vena Cava"}}, // 重复，以首个为准
			{QuestionID: 9999, ShortAnswer: "ignored"},                      // 不属于该测验
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, outcome.Result.Score)

	var evaluated []model.EvaluatedAnswer
	require.NoError(t, json.Unmarshal(outcome.Result.Answers, &evaluated))
	assert.Len(t, evaluated, 1)
}

func TestSubmitQuizNotFound(t *testing.T) {
	svc, _ := newQuizService(t)

	_, err := svc.SubmitQuiz(1, 424242, QuizSubmissionRequest{
		Answers: []SubmittedAnswer{{QuestionID: 1}},
	})
	assert.ErrorIs(t, err, util.ErrQuizNotFound)
}

func TestSubmitQuizExplicitTimeSpent(t *testing.T) {
	svc, _ := newQuizService(t)
	quiz := seedQuiz(t, svc)

	outcome, err := svc.SubmitQuiz(5, quiz.ID, QuizSubmissionRequest{
		TimeSpent: 300,
		Answers: []SubmittedAnswer{
			{QuestionID: quiz.Questions[0].ID, SelectedOptionIDs: []string{"Aorta"}, TimeSpent: 12},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 300, outcome.Result.TimeSpent) // 整卷耗时优先于逐题求和
}

func TestSubmitQuizDownstreamFailurePartialSuccess(t *testing.T) {
	db := newTestDB(t)
	downstream := newTestDB(t)

	progressSvc := NewProgressService(
		repository.NewProgressRepository(downstream),
		repository.NewAchievementRepository(downstream),
		downstream,
		nil,
	)
	analyticsSvc := NewAnalyticsService(repository.NewAnalyticsRepository(downstream), downstream)
	svc := NewQuizService(
		repository.NewQuizRepository(db),
		repository.NewQuizResultRepository(db),
		progressSvc,
		analyticsSvc,
	)
	quiz := seedQuiz(t, svc)

	// 进度与统计所在的库失联，判分主流程不受影响
	sqlDB, err := downstream.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	outcome, err := svc.SubmitQuiz(7, quiz.ID, QuizSubmissionRequest{
		Answers: []SubmittedAnswer{
			{QuestionID: quiz.Questions[0].ID, SelectedOptionIDs: []string{"Aorta"}},
		},
	})
	require.NoError(t, err) // 部分成功不升级为错误

	require.NotNil(t, outcome.Result)
	assert.Nil(t, outcome.Gamification)
	assert.Contains(t, outcome.Warning, "progress update delayed")
	assert.Contains(t, outcome.Warning, "analytics update delayed")

	// 判分结果已落库且未被下游失败回滚
	var count int64
	db.Model(&model.QuizResult{}).Where("quiz_id = ? AND user_id = ?", quiz.ID, 7).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGetQuizHidesAnswers(t *testing.T) {
	svc, _ := newQuizService(t)
	quiz := seedQuiz(t, svc)

	got, err := svc.GetQuiz(quiz.ID)
	require.NoError(t, err)

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "correctAnswer")
	assert.NotContains(t, string(raw), "arteries") // 文本题答案别名不出现在序列化里
}

func TestGetUserResultsOrdering(t *testing.T) {
	svc, _ := newQuizService(t)
	quiz := seedQuiz(t, svc)
	q := quiz.Questions

	for i := 0; i < 3; i++ {
		_, err := svc.SubmitQuiz(6, quiz.ID, QuizSubmissionRequest{
			Answers: []SubmittedAnswer{{QuestionID: q[0].ID, SelectedOptionIDs: []string{"Aorta"}}},
		})
		require.NoError(t, err)
	}

	results, err := svc.GetUserResults(quiz.ID, 6)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestFormatImprovement(t *testing.T) {
	got := formatImprovement(8, 10, 6, 10)
	require.NotNil(t, got)
	assert.Equal(t, "+20%", *got)

	got = formatImprovement(5, 10, 7, 10)
	require.NotNil(t, got)
	assert.Equal(t, "-20%", *got)

	got = formatImprovement(5, 10, 5, 10)
	require.NotNil(t, got)
	assert.Equal(t, "0%", *got)

	// 不同总题数按百分点比较
	got = formatImprovement(3, 4, 1, 2)
	require.NotNil(t, got)
	assert.Equal(t, "+25%", *got)

	assert.Nil(t, formatImprovement(5, 0, 5, 10))
}
