package model

import (
	"gorm.io/datatypes"
)

// QuestionStat 单题的滚动统计，全部为在线均值
type QuestionStat struct {
	SuccessRate      float64 `json:"successRate"`
	AverageTimeSpent float64 `json:"averageTimeSpent"`
	SkipRate         float64 `json:"skipRate"`
	Attempts         int     `json:"attempts"` // 该题参与统计的提交次数
}

// QuizAnalytics 每个测验一条聚合记录，所有均值在每次提交时增量更新，
// 不回放历史提交重算
// swagger:model QuizAnalytics
type QuizAnalytics struct {
	BaseModel
	QuizID           uint           `gorm:"uniqueIndex;type:bigint unsigned;not null" json:"quizId"`
	TotalAttempts    int            `gorm:"default:0" json:"totalAttempts"` // 只增不减
	CompletionRate   float64        `gorm:"default:0" json:"completionRate"`
	AverageScore     float64        `gorm:"default:0" json:"averageScore"`
	AverageTimeSpent float64        `gorm:"default:0" json:"averageTimeSpent"`
	QuestionStats    datatypes.JSON `gorm:"type:json" json:"questionStats"` // map[questionId]QuestionStat
}

func (QuizAnalytics) TableName() string {
	return "quiz_analytics"
}
