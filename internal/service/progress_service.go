package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"meded_backend/internal/model"
	"meded_backend/internal/repository"
	"meded_backend/internal/util"
	"meded_backend/pkg/logger"
	"meded_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const LeaderboardKey = "leaderboard:xp"

// 活动类型
const (
	ActivityFlashcard = "flashcard"
	ActivityQuiz      = "quiz"
)

// 读-改-写冲突的有限重试次数
const maxConflictRetries = 3

// ActivityRequest 一次学习活动事件
type ActivityRequest struct {
	ActivityType   string `json:"activityType" binding:"required,oneof=flashcard quiz"`
	IsCorrect      *bool  `json:"isCorrect,omitempty"`
	CorrectAnswers *int   `json:"correctAnswers,omitempty"`
	TotalQuestions *int   `json:"totalQuestions,omitempty"`
}

type StreakInfo struct {
	CurrentStreak int `json:"currentStreak"`
	LongestStreak int `json:"longestStreak"`
}

// ActivityResult 活动事件的响应载荷
type ActivityResult struct {
	XPEarned        int                 `json:"xpEarned"`
	NewLevel        int                 `json:"newLevel"`
	DailyGoalMet    bool                `json:"dailyGoalMet"`
	StreakUpdated   *StreakInfo         `json:"streakUpdated,omitempty"`
	NewAchievements []model.Achievement `json:"newAchievements,omitempty"`
}

// ProgressService 负责用户进度记录的读-改-写编排：
// 连击、经验值、累计计数和里程碑解锁在同一把用户锁、同一个事务内完成
type ProgressService struct {
	ProgressRepo    *repository.ProgressRepository
	AchievementRepo *repository.AchievementRepository
	DB              *gorm.DB
	Redis           *redis.Client
	locks           *entityLocks
}

func NewProgressService(
	progressRepo *repository.ProgressRepository,
	achievementRepo *repository.AchievementRepository,
	db *gorm.DB,
	rdb *redis.Client,
) *ProgressService {
	return &ProgressService{
		ProgressRepo:    progressRepo,
		AchievementRepo: achievementRepo,
		DB:              db,
		Redis:           rdb,
		locks:           newEntityLocks(),
	}
}

// RecordActivity 把一次学习活动记入用户进度。同一用户的调用串行执行
func (s *ProgressService) RecordActivity(userID uint, req ActivityRequest) (*ActivityResult, error) {
	unlock := s.locks.Lock(fmt.Sprintf("user:%d", userID))
	defer unlock()

	now := time.Now()

	var result *ActivityResult
	err := withConflictRetry(func() error {
		result = nil
		return s.DB.Transaction(func(tx *gorm.DB) error {
			progress, err := s.ProgressRepo.GetOrCreate(tx, userID)
			if err != nil {
				return err
			}

			streak := UpdateStreak(progress.LastActiveDate, now, progress.CurrentStreak, progress.LongestStreak)
			progress.CurrentStreak = streak.CurrentStreak
			progress.LongestStreak = streak.LongestStreak
			day := truncateToDay(now)
			progress.LastActiveDate = &day // 无论连击是否变化都推进到当天

			xpDelta, err := applyActivity(progress, req)
			if err != nil {
				return err
			}

			progress.XP += xpDelta
			progress.RecalculateDerived()

			unlocked, err := s.AchievementRepo.FindKeysByUser(tx, userID)
			if err != nil {
				return err
			}
			newAchievements := collectMilestones(progress, unlocked, now)
			for i := range newAchievements {
				newAchievements[i].UserID = userID
			}
			if err := s.AchievementRepo.CreateAll(tx, newAchievements); err != nil {
				return err
			}

			if err := s.ProgressRepo.Save(tx, progress); err != nil {
				return err
			}

			result = &ActivityResult{
				XPEarned:        xpDelta,
				NewLevel:        progress.Level,
				DailyGoalMet:    progress.DailyGoal > 0 && progress.DailyProgress >= progress.DailyGoal,
				NewAchievements: newAchievements,
			}
			if streak.Changed {
				result.StreakUpdated = &StreakInfo{
					CurrentStreak: streak.CurrentStreak,
					LongestStreak: streak.LongestStreak,
				}
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	monitoring.AchievementsUnlocked.Add(float64(len(result.NewAchievements)))
	s.publishLeaderboard(userID, result.XPEarned)

	return result, nil
}

// GetProgress 完整进度记录（含成就），没有记录时初始化一条
func (s *ProgressService) GetProgress(userID uint) (*model.UserProgress, error) {
	progress, err := s.ProgressRepo.FindByUser(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		var created *model.UserProgress
		err = s.DB.Transaction(func(tx *gorm.DB) error {
			created, err = s.ProgressRepo.GetOrCreate(tx, userID)
			return err
		})
		return created, err
	}
	return progress, err
}

func (s *ProgressService) UpdateDailyGoal(userID uint, goal int) error {
	if goal < 1 {
		return util.ErrInvalidDailyGoal
	}
	return s.ProgressRepo.UpdateDailyGoal(userID, goal)
}

// applyActivity 把活动折算成经验值增量并更新累计计数
func applyActivity(progress *model.UserProgress, req ActivityRequest) (int, error) {
	switch req.ActivityType {
	case ActivityFlashcard:
		correct := req.IsCorrect != nil && *req.IsCorrect
		progress.TotalCardsStudied++
		progress.DailyProgress++
		if req.IsCorrect != nil {
			if correct {
				progress.TotalCorrectAnswers++
			} else {
				progress.TotalIncorrectAnswers++
			}
		}
		return FlashcardXP(correct), nil

	case ActivityQuiz:
		progress.TotalQuizzesTaken++
		if req.CorrectAnswers != nil && req.TotalQuestions != nil && *req.TotalQuestions > 0 {
			progress.TotalCorrectAnswers += *req.CorrectAnswers
			progress.TotalIncorrectAnswers += *req.TotalQuestions - *req.CorrectAnswers
			return QuizXP(*req.CorrectAnswers, *req.TotalQuestions), nil
		}
		// 缺少得分明细时按完成奖励计
		return XPQuizCompleted, nil

	default:
		return 0, util.ErrUnknownActivityType
	}
}

// collectMilestones 对三个里程碑家族各扫描一次。
// 连击家族以更新后的当前连击为准，与历史峰值无关
func collectMilestones(progress *model.UserProgress, unlocked map[string]bool, now time.Time) []model.Achievement {
	var earned []model.Achievement
	earned = append(earned, CheckMilestones(progress.CurrentStreak, StreakMilestones, unlocked, now)...)
	earned = append(earned, CheckMilestones(progress.TotalCardsStudied, CardMilestones, unlocked, now)...)
	earned = append(earned, CheckMilestones(progress.TotalQuizzesTaken, QuizMilestones, unlocked, now)...)
	return earned
}

// withConflictRetry 对存储层的并发冲突做有限次重试（多实例部署时
// 进程内锁挡不住的写冲突以唯一键冲突的形式暴露出来）
func withConflictRetry(op func() error) error {
	var err error
	for i := 0; i < maxConflictRetries; i++ {
		err = op()
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		logger.Log.Warn("conflict on read-modify-write, retrying", zap.Int("attempt", i+1), zap.Error(err))
	}
	return fmt.Errorf("%w: %v", util.ErrConflictRetryExhausted, err)
}

// publishLeaderboard 把经验值增量写进 Redis 排行榜，失败只记日志不影响主流程
func (s *ProgressService) publishLeaderboard(userID uint, xpDelta int) {
	if s.Redis == nil || xpDelta == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	member := strconv.FormatUint(uint64(userID), 10)
	if err := s.Redis.ZIncrBy(ctx, LeaderboardKey, float64(xpDelta), member).Err(); err != nil {
		logger.Log.Warn("failed to update xp leaderboard", zap.Uint("userId", userID), zap.Error(err))
	}
}
