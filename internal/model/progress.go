package model

import "time"

// UserProgress 每个用户一条进度记录，承载经验值、连续学习天数和累计统计
// swagger:model UserProgress
type UserProgress struct {
	BaseModel
	UserID                uint       `gorm:"uniqueIndex;type:bigint unsigned;not null" json:"userId"`
	XP                    int        `gorm:"default:0" json:"xp"`
	Level                 int        `gorm:"default:1" json:"level"` // 由 XP 派生，写入时统一重算
	CurrentStreak         int        `gorm:"default:0" json:"currentStreak"`
	LongestStreak         int        `gorm:"default:0" json:"longestStreak"`
	LastActiveDate        *time.Time `json:"lastActiveDate"` // 仅保留日期部分
	DailyGoal             int        `gorm:"default:20" json:"dailyGoal"`
	DailyProgress         int        `gorm:"default:0" json:"dailyProgress"` // 每天零点由后台任务清零
	TotalCardsStudied     int        `gorm:"default:0" json:"totalCardsStudied"`
	TotalQuizzesTaken     int        `gorm:"default:0" json:"totalQuizzesTaken"`
	TotalCorrectAnswers   int        `gorm:"default:0" json:"totalCorrectAnswers"`
	TotalIncorrectAnswers int        `gorm:"default:0" json:"totalIncorrectAnswers"`
	AverageAccuracy       float64    `gorm:"default:0" json:"averageAccuracy"` // 由正误计数派生

	Achievements []Achievement `gorm:"foreignKey:UserID;references:UserID" json:"achievements,omitempty"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}

// RecalculateDerived 重算 Level 与 AverageAccuracy，两者不允许独立赋值
func (p *UserProgress) RecalculateDerived() {
	p.Level = 1 + p.XP/100
	total := p.TotalCorrectAnswers + p.TotalIncorrectAnswers
	if total > 0 {
		p.AverageAccuracy = float64(p.TotalCorrectAnswers) * 100 / float64(total)
	} else {
		p.AverageAccuracy = 0
	}
}
