package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"meded_backend/internal/model"
	"meded_backend/internal/repository"
	"meded_backend/internal/util"
	"meded_backend/pkg/logger"
	"meded_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuizService 测验的创建、查询与提交判分。提交是核心路径：
// 逐题判分 → 计算进步幅度与卷内连击 → 落库判分结果 →
// 触发进度与统计更新（失败降级为警告，判分结果不回滚）
type QuizService struct {
	QuizRepo     *repository.QuizRepository
	ResultRepo   *repository.QuizResultRepository
	ProgressSvc  *ProgressService
	AnalyticsSvc *AnalyticsService
}

func NewQuizService(
	quizRepo *repository.QuizRepository,
	resultRepo *repository.QuizResultRepository,
	progressSvc *ProgressService,
	analyticsSvc *AnalyticsService,
) *QuizService {
	return &QuizService{
		QuizRepo:     quizRepo,
		ResultRepo:   resultRepo,
		ProgressSvc:  progressSvc,
		AnalyticsSvc: analyticsSvc,
	}
}

type QuizQuestionRequest struct {
	Type          string          `json:"type" binding:"required"`
	Content       string          `json:"content" binding:"required"`
	Options       []string        `json:"options,omitempty"`
	CorrectAnswer json.RawMessage `json:"correctAnswer" binding:"required"`
	Explanation   string          `json:"explanation,omitempty"`
	Order         int             `json:"order"`
}

type QuizRequest struct {
	Title       string                `json:"title" binding:"required"`
	Description string                `json:"description"`
	Category    string                `json:"category"`
	Questions   []QuizQuestionRequest `json:"questions" binding:"required,min=1,dive"`
}

type QuizSubmissionRequest struct {
	Answers   []SubmittedAnswer `json:"answers" binding:"required,min=1,dive"`
	TimeSpent int               `json:"timeSpent,omitempty"` // 整卷耗时（秒），缺省时按各题耗时求和
}

// SubmitOutcome 提交的完整结果。Warning 非空表示判分成功但
// 部分下游更新延迟（部分成功）
type SubmitOutcome struct {
	Result       *model.QuizResult `json:"result"`
	Gamification *ActivityResult   `json:"gamification,omitempty"`
	Warning      string            `json:"warning,omitempty"`
}

func (s *QuizService) CreateQuiz(creatorID uint, req QuizRequest) (*model.Quiz, error) {
	quiz := &model.Quiz{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		CreatorID:   creatorID,
		IsPublished: true,
	}

	for i, qReq := range req.Questions {
		question := model.QuizQuestion{
			Type:          qReq.Type,
			Content:       qReq.Content,
			CorrectAnswer: []byte(qReq.CorrectAnswer),
			Explanation:   qReq.Explanation,
			Order:         qReq.Order,
		}
		if question.Order == 0 {
			question.Order = i + 1
		}
		if len(qReq.Options) > 0 {
			raw, err := json.Marshal(qReq.Options)
			if err != nil {
				return nil, err
			}
			question.Options = raw
		}
		quiz.Questions = append(quiz.Questions, question)
	}

	if err := s.QuizRepo.Create(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) ListQuizzes(page, limit int, category string) ([]model.Quiz, int64, error) {
	return s.QuizRepo.List(page, limit, category)
}

// GetQuiz 学生端测验详情。答案字段不参与序列化，不会泄露
func (s *QuizService) GetQuiz(id uint) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByIDWithQuestions(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	}
	return quiz, err
}

// SubmitQuiz 判分一次测验提交
func (s *QuizService) SubmitQuiz(userID, quizID uint, req QuizSubmissionRequest) (*SubmitOutcome, error) {
	quiz, err := s.QuizRepo.FindByIDWithQuestions(quizID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(quiz.Questions) == 0 {
		return nil, util.ErrQuizHasNoQuestions
	}

	questionByID := make(map[uint]*model.QuizQuestion, len(quiz.Questions))
	for i := range quiz.Questions {
		questionByID[quiz.Questions[i].ID] = &quiz.Questions[i]
	}

	// 只对提交过的题目判分；漏答的题不产生判分记录，隐式计 0 分
	answered := make(map[uint]model.EvaluatedAnswer, len(req.Answers))
	evaluated := make([]model.EvaluatedAnswer, 0, len(req.Answers))
	score := 0
	timeSpent := 0
	for _, sub := range req.Answers {
		question, ok := questionByID[sub.QuestionID]
		if !ok {
			// 不属于该测验的题目 ID，忽略
			continue
		}
		if _, dup := answered[sub.QuestionID]; dup {
			// 同题重复提交以首个为准，避免重复计分
			continue
		}
		ev := EvaluateAnswer(question, sub)
		answered[sub.QuestionID] = ev
		evaluated = append(evaluated, ev)
		if ev.IsCorrect {
			score++
		}
		timeSpent += ev.TimeSpent
	}
	if req.TimeSpent > 0 {
		timeSpent = req.TimeSpent
	}

	total := len(quiz.Questions)
	now := time.Now()

	result := &model.QuizResult{
		QuizID:         quizID,
		UserID:         userID,
		Score:          score,
		TotalQuestions: total,
		TimeSpent:      timeSpent,
		CompletedAt:    now,
		Streak:         1, // 首次提交的卷内连击起始值
	}

	prev, err := s.ResultRepo.FindLatest(quizID, userID)
	if err == nil {
		// 同一测验的历史提交存在：计算进步幅度，并以上一次为基准续算连击
		result.Improvement = formatImprovement(score, total, prev.Score, prev.TotalQuestions)
		streak := UpdateStreak(&prev.CompletedAt, now, prev.Streak, prev.Streak)
		result.Streak = streak.CurrentStreak
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	answersJSON, err := json.Marshal(evaluated)
	if err != nil {
		return nil, err
	}
	result.Answers = answersJSON

	if err := s.ResultRepo.Create(result); err != nil {
		return nil, err
	}
	monitoring.QuizSubmissions.Inc()

	// 判分结果已落库，是权威数据。进度与统计属于次级账务，
	// 失败时报告给调用方但不回滚判分
	outcome := &SubmitOutcome{Result: result}
	var warnings []string

	activity := ActivityRequest{
		ActivityType:   ActivityQuiz,
		CorrectAnswers: &score,
		TotalQuestions: &total,
	}
	gamification, err := s.ProgressSvc.RecordActivity(userID, activity)
	if err != nil {
		logger.Log.Error("progress update failed after quiz submission",
			zap.Uint("userId", userID), zap.Uint("quizId", quizID), zap.Error(err))
		warnings = append(warnings, "progress update delayed")
	} else {
		outcome.Gamification = gamification
	}

	if err := s.AnalyticsSvc.RecordAttempt(quizID, buildAttemptSample(quiz, answered, score, total, timeSpent)); err != nil {
		logger.Log.Error("analytics update failed after quiz submission",
			zap.Uint("quizId", quizID), zap.Error(err))
		warnings = append(warnings, "analytics update delayed")
	}

	outcome.Warning = strings.Join(warnings, "; ")
	return outcome, nil
}

func (s *QuizService) GetUserResults(quizID, userID uint) ([]model.QuizResult, error) {
	return s.ResultRepo.ListByQuizAndUser(quizID, userID)
}

// formatImprovement 两次得分率的百分点之差："+15%"、"-5%"、"0%"
func formatImprovement(score, total, prevScore, prevTotal int) *string {
	if total <= 0 || prevTotal <= 0 {
		return nil
	}
	current := float64(score) * 100 / float64(total)
	previous := float64(prevScore) * 100 / float64(prevTotal)
	delta := int(math.Round(current - previous))

	var formatted string
	if delta > 0 {
		formatted = fmt.Sprintf("+%d%%", delta)
	} else {
		formatted = fmt.Sprintf("%d%%", delta)
	}
	return &formatted
}

// buildAttemptSample 把判分结果转成统计样本，漏答题标记为跳过。
// 目前只有落库的提交会被折叠，样本恒为已完成，完成率停在 100；
// 接入弃卷/中断来源时需要为其折叠 Completed=false 的样本
func buildAttemptSample(quiz *model.Quiz, answered map[uint]model.EvaluatedAnswer, score, total, timeSpent int) AttemptSample {
	scorePercent := 0.0
	if total > 0 {
		scorePercent = float64(score) * 100 / float64(total)
	}

	sample := AttemptSample{
		Completed:    true,
		ScorePercent: scorePercent,
		TimeSpent:    timeSpent,
		Questions:    make([]QuestionSample, 0, total),
	}
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		if ev, ok := answered[q.ID]; ok {
			sample.Questions = append(sample.Questions, QuestionSample{
				QuestionID: q.ID,
				Answered:   true,
				Correct:    ev.IsCorrect,
				TimeSpent:  ev.TimeSpent,
			})
		} else {
			sample.Questions = append(sample.Questions, QuestionSample{QuestionID: q.ID})
		}
	}
	return sample
}
