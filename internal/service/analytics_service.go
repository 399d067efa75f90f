package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"meded_backend/internal/model"
	"meded_backend/internal/repository"

	"gorm.io/gorm"
)

// QuestionSample 一次提交中单题的表现
type QuestionSample struct {
	QuestionID uint
	Answered   bool
	Correct    bool
	TimeSpent  int
}

// AttemptSample 折叠进聚合的单次提交样本。未作答的题目以 Answered=false
// 出现，用于跳过率统计
type AttemptSample struct {
	Completed    bool
	ScorePercent float64
	TimeSpent    int
	Questions    []QuestionSample
}

// AnalyticsService 维护每个测验的滚动聚合。所有均值按在线均值增量更新，
// 不回放历史提交；同一测验的折叠串行执行，TotalAttempts 每次提交恰好 +1
type AnalyticsService struct {
	AnalyticsRepo *repository.AnalyticsRepository
	DB            *gorm.DB
	locks         *entityLocks
}

func NewAnalyticsService(analyticsRepo *repository.AnalyticsRepository, db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{
		AnalyticsRepo: analyticsRepo,
		DB:            db,
		locks:         newEntityLocks(),
	}
}

// RecordAttempt 把一次提交折叠进测验的聚合记录
func (s *AnalyticsService) RecordAttempt(quizID uint, sample AttemptSample) error {
	unlock := s.locks.Lock(fmt.Sprintf("quiz:%d", quizID))
	defer unlock()

	return withConflictRetry(func() error {
		return s.DB.Transaction(func(tx *gorm.DB) error {
			analytics, err := s.AnalyticsRepo.GetOrCreate(tx, quizID)
			if err != nil {
				return err
			}
			if err := foldAttempt(analytics, sample); err != nil {
				return err
			}
			return s.AnalyticsRepo.Save(tx, analytics)
		})
	})
}

// QuizAnalyticsResponse 聚合记录的读侧形态，题目统计解码为 map
type QuizAnalyticsResponse struct {
	QuizID           uint                          `json:"quizId"`
	TotalAttempts    int                           `json:"totalAttempts"`
	CompletionRate   float64                       `json:"completionRate"`
	AverageScore     float64                       `json:"averageScore"`
	AverageTimeSpent float64                       `json:"averageTimeSpent"`
	QuestionStats    map[string]model.QuestionStat `json:"questionStats"`
}

func (s *AnalyticsService) GetQuizAnalytics(quizID uint) (*QuizAnalyticsResponse, error) {
	analytics, err := s.AnalyticsRepo.FindByQuiz(quizID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// 尚无任何提交
		return &QuizAnalyticsResponse{
			QuizID:        quizID,
			QuestionStats: map[string]model.QuestionStat{},
		}, nil
	}
	if err != nil {
		return nil, err
	}

	stats := make(map[string]model.QuestionStat)
	if len(analytics.QuestionStats) > 0 {
		if err := json.Unmarshal(analytics.QuestionStats, &stats); err != nil {
			return nil, err
		}
	}

	return &QuizAnalyticsResponse{
		QuizID:           analytics.QuizID,
		TotalAttempts:    analytics.TotalAttempts,
		CompletionRate:   analytics.CompletionRate,
		AverageScore:     analytics.AverageScore,
		AverageTimeSpent: analytics.AverageTimeSpent,
		QuestionStats:    stats,
	}, nil
}

// foldAttempt 把一次提交折叠进聚合。对任意滚动均值 avg（n-1 个历史样本）
// 和新样本 x：avg' = (avg*(n-1)+x)/n。题目级统计在首次出现时懒创建
func foldAttempt(analytics *model.QuizAnalytics, sample AttemptSample) error {
	n := analytics.TotalAttempts + 1

	completed := 0.0
	if sample.Completed {
		completed = 100
	}
	analytics.CompletionRate = onlineMean(analytics.CompletionRate, n, completed)
	analytics.AverageScore = onlineMean(analytics.AverageScore, n, sample.ScorePercent)
	analytics.AverageTimeSpent = onlineMean(analytics.AverageTimeSpent, n, float64(sample.TimeSpent))
	analytics.TotalAttempts = n

	stats := make(map[string]model.QuestionStat)
	if len(analytics.QuestionStats) > 0 {
		if err := json.Unmarshal(analytics.QuestionStats, &stats); err != nil {
			return err
		}
	}

	for _, q := range sample.Questions {
		key := strconv.FormatUint(uint64(q.QuestionID), 10)
		stat := stats[key]
		qn := stat.Attempts + 1

		var success, skip, spent float64
		if q.Answered {
			spent = float64(q.TimeSpent)
			if q.Correct {
				success = 100
			}
		} else {
			skip = 100
		}

		stat.SuccessRate = onlineMean(stat.SuccessRate, qn, success)
		stat.SkipRate = onlineMean(stat.SkipRate, qn, skip)
		stat.AverageTimeSpent = onlineMean(stat.AverageTimeSpent, qn, spent)
		stat.Attempts = qn
		stats[key] = stat
	}

	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	analytics.QuestionStats = raw
	return nil
}

func onlineMean(avg float64, n int, x float64) float64 {
	return (avg*float64(n-1) + x) / float64(n)
}
