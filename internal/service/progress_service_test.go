package service

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"meded_backend/internal/model"
	"meded_backend/internal/repository"
	"meded_backend/internal/util"
	"meded_backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newProgressService(t *testing.T) (*ProgressService, *gorm.DB) {
	db := newTestDB(t)
	svc := NewProgressService(
		repository.NewProgressRepository(db),
		repository.NewAchievementRepository(db),
		db,
		nil, // 排行榜在 Redis 不可用时静默跳过
	)
	return svc, db
}

func boolPtr(b bool) *bool { return &b }
func intPtr(n int) *int    { return &n }

func TestRecordFlashcardActivity(t *testing.T) {
	svc, _ := newProgressService(t)

	result, err := svc.RecordActivity(1, ActivityRequest{
		ActivityType: ActivityFlashcard,
		IsCorrect:    boolPtr(true),
	})
	require.NoError(t, err)

	assert.Equal(t, 10, result.XPEarned)
	assert.Equal(t, 1, result.NewLevel)
	require.NotNil(t, result.StreakUpdated)
	assert.Equal(t, 1, result.StreakUpdated.CurrentStreak)

	progress, err := svc.GetProgress(1)
	require.NoError(t, err)
	assert.Equal(t, 1, progress.TotalCardsStudied)
	assert.Equal(t, 1, progress.DailyProgress)
	assert.Equal(t, 1, progress.TotalCorrectAnswers)
	assert.InDelta(t, 100, progress.AverageAccuracy, 0.001)
}

func TestRecordQuizActivityXPAndLevel(t *testing.T) {
	svc, _ := newProgressService(t)

	// 连续满分测验把经验值推过升级阈值
	for i := 0; i < 3; i++ {
		_, err := svc.RecordActivity(2, ActivityRequest{
			ActivityType:   ActivityQuiz,
			CorrectAnswers: intPtr(10),
			TotalQuestions: intPtr(10),
		})
		require.NoError(t, err)
	}

	progress, err := svc.GetProgress(2)
	require.NoError(t, err)
	assert.Equal(t, 150, progress.XP)
	assert.Equal(t, 2, progress.Level) // 1 + 150/100
	assert.Equal(t, 3, progress.TotalQuizzesTaken)
}

func TestRecordActivityUnknownType(t *testing.T) {
	svc, _ := newProgressService(t)

	_, err := svc.RecordActivity(3, ActivityRequest{ActivityType: "meditation"})
	assert.Error(t, err)
}

func TestQuizMilestoneUnlockedOnce(t *testing.T) {
	svc, db := newProgressService(t)

	result, err := svc.RecordActivity(4, ActivityRequest{
		ActivityType:   ActivityQuiz,
		CorrectAnswers: intPtr(5),
		TotalQuestions: intPtr(10),
	})
	require.NoError(t, err)

	keys := make(map[string]bool)
	for _, a := range result.NewAchievements {
		keys[a.Key] = true
	}
	assert.True(t, keys["quizzes-1"])

	// 再来一次，不重复解锁
	result, err = svc.RecordActivity(4, ActivityRequest{
		ActivityType:   ActivityQuiz,
		CorrectAnswers: intPtr(5),
		TotalQuestions: intPtr(10),
	})
	require.NoError(t, err)
	for _, a := range result.NewAchievements {
		assert.NotEqual(t, "quizzes-1", a.Key)
	}

	var count int64
	db.Model(&model.Achievement{}).Where("user_id = ? AND `key` = ?", 4, "quizzes-1").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestStreakMilestoneAcrossDays(t *testing.T) {
	svc, db := newProgressService(t)

	// 先造出昨天之前已连学 6 天的进度
	twoDaysStreakStart := time.Now().AddDate(0, 0, -1)
	seed := model.UserProgress{
		UserID:         5,
		Level:          1,
		DailyGoal:      20,
		CurrentStreak:  6,
		LongestStreak:  6,
		LastActiveDate: &twoDaysStreakStart,
	}
	require.NoError(t, db.Create(&seed).Error)

	result, err := svc.RecordActivity(5, ActivityRequest{
		ActivityType: ActivityFlashcard,
		IsCorrect:    boolPtr(true),
	})
	require.NoError(t, err)

	require.NotNil(t, result.StreakUpdated)
	assert.Equal(t, 7, result.StreakUpdated.CurrentStreak)
	assert.Equal(t, 7, result.StreakUpdated.LongestStreak)

	keys := make(map[string]bool)
	for _, a := range result.NewAchievements {
		keys[a.Key] = true
	}
	assert.True(t, keys["streak-3"])
	assert.True(t, keys["streak-7"])
}

func TestSameDayActivityKeepsStreak(t *testing.T) {
	svc, _ := newProgressService(t)

	first, err := svc.RecordActivity(6, ActivityRequest{
		ActivityType: ActivityFlashcard,
		IsCorrect:    boolPtr(false),
	})
	require.NoError(t, err)
	require.NotNil(t, first.StreakUpdated)

	// 同一天再学，连击不变
	second, err := svc.RecordActivity(6, ActivityRequest{
		ActivityType: ActivityFlashcard,
		IsCorrect:    boolPtr(false),
	})
	require.NoError(t, err)
	assert.Nil(t, second.StreakUpdated)
}

func TestDailyGoalMet(t *testing.T) {
	svc, _ := newProgressService(t)

	require.NoError(t, func() error {
		_, err := svc.RecordActivity(7, ActivityRequest{
			ActivityType: ActivityFlashcard,
			IsCorrect:    boolPtr(true),
		})
		return err
	}())
	require.NoError(t, svc.UpdateDailyGoal(7, 2))

	result, err := svc.RecordActivity(7, ActivityRequest{
		ActivityType: ActivityFlashcard,
		IsCorrect:    boolPtr(true),
	})
	require.NoError(t, err)
	assert.True(t, result.DailyGoalMet)
}

func TestUpdateDailyGoalValidation(t *testing.T) {
	svc, _ := newProgressService(t)
	assert.Error(t, svc.UpdateDailyGoal(8, 0))
	assert.Error(t, svc.UpdateDailyGoal(8, -5))
}

func TestGetProgressInitializesRecord(t *testing.T) {
	svc, _ := newProgressService(t)

	progress, err := svc.GetProgress(9)
	require.NoError(t, err)
	assert.Equal(t, uint(9), progress.UserID)
	assert.Equal(t, 1, progress.Level)
	assert.Equal(t, 20, progress.DailyGoal)
}

func TestConcurrentActivitiesSameUser(t *testing.T) {
	svc, _ := newProgressService(t)

	const n = 10
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RecordActivity(10, ActivityRequest{
				ActivityType: ActivityFlashcard,
				IsCorrect:    boolPtr(true),
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	progress, err := svc.GetProgress(10)
	require.NoError(t, err)
	assert.Equal(t, n, progress.TotalCardsStudied)
	assert.Equal(t, n*10, progress.XP)

	// cards-10 恰好解锁一次
	unlocked := 0
	for _, a := range progress.Achievements {
		if a.Key == "cards-10" {
			unlocked++
		}
	}
	assert.Equal(t, 1, unlocked)
}

func TestDuplicateAchievementKeyTranslated(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewAchievementRepository(db)

	achievement := func() []model.Achievement {
		return []model.Achievement{{
			UserID:     11,
			Key:        "streak-3",
			Name:       "连学三天",
			Category:   "streak",
			UnlockedAt: time.Now(),
		}}
	}
	require.NoError(t, repo.CreateAll(db, achievement()))

	// 唯一键 (user_id, key) 冲突必须被翻译成 gorm.ErrDuplicatedKey，
	// 否则冲突重试识别不到驱动原生错误
	err := repo.CreateAll(db, achievement())
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestConflictRetryBehaviour(t *testing.T) {
	logger.Log = zap.NewNop()

	// 持续冲突：重试满次数后以 ErrConflictRetryExhausted 收尾
	attempts := 0
	err := withConflictRetry(func() error {
		attempts++
		return gorm.ErrDuplicatedKey
	})
	assert.Equal(t, maxConflictRetries, attempts)
	assert.ErrorIs(t, err, util.ErrConflictRetryExhausted)

	// 冲突一次后成功：包装过的冲突错误同样触发重试
	attempts = 0
	err = withConflictRetry(func() error {
		attempts++
		if attempts == 1 {
			return fmt.Errorf("create achievement: %w", gorm.ErrDuplicatedKey)
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, attempts)

	// 非冲突错误不重试
	attempts = 0
	err = withConflictRetry(func() error {
		attempts++
		return errors.New("connection refused")
	})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, util.ErrConflictRetryExhausted)
	assert.Equal(t, 1, attempts)
}
