package model

import (
	"time"

	"gorm.io/datatypes"
)

// EvaluatedAnswer 单题判分结果，生成后不再修改，整体以 JSON 存入 QuizResult.Answers
type EvaluatedAnswer struct {
	QuestionID uint   `json:"questionId"`
	UserAnswer string `json:"userAnswer"` // 归一化后的提交值
	IsCorrect  bool   `json:"isCorrect"`
	TimeSpent  int    `json:"timeSpent"` // 秒
}

// QuizResult 一次测验提交的判分记录。未作答的题目不产生 EvaluatedAnswer，
// 因此 Answers 长度可以小于 TotalQuestions
// swagger:model QuizResult
type QuizResult struct {
	UUIDBase
	QuizID         uint           `gorm:"index:idx_quiz_user;type:bigint unsigned;not null" json:"quizId"`
	UserID         uint           `gorm:"index:idx_quiz_user;type:bigint unsigned;not null" json:"userId"`
	Score          int            `gorm:"not null" json:"score"`
	TotalQuestions int            `gorm:"not null" json:"totalQuestions"`
	Answers        datatypes.JSON `gorm:"type:json" json:"answers"` // []EvaluatedAnswer
	TimeSpent      int            `gorm:"default:0" json:"timeSpent"`
	CompletedAt    time.Time      `gorm:"index" json:"completedAt"`
	Improvement    *string        `gorm:"size:10" json:"improvement"` // "+15%"、"-5%"、"0%"，首次为 null
	Streak         int            `gorm:"default:1" json:"streak"`
}

func (QuizResult) TableName() string {
	return "quiz_results"
}
