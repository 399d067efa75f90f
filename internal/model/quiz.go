package model

import (
	"gorm.io/datatypes"
)

// 题型常量，未知题型在判分时按答错处理而不是报错
const (
	QuestionMultipleChoice      = "multiple-choice"
	QuestionTrueFalse           = "true-false"
	QuestionShortAnswer         = "short-answer"
	QuestionImageIdentification = "image-identification"
)

// swagger:model Quiz
type Quiz struct {
	BaseModel
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `gorm:"size:100" json:"category"` // 解剖、药理、病理等
	CreatorID   uint   `gorm:"index;type:bigint unsigned" json:"creatorId"`
	IsPublished bool   `gorm:"default:true" json:"isPublished"`

	Questions []QuizQuestion `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// QuizQuestion 测验题目。CorrectAnswer 为 JSON：字符串、布尔或字符串数组
// （数组时首个元素为标准答案，其余为可接受的别名）
// swagger:model QuizQuestion
type QuizQuestion struct {
	BaseModel
	QuizID        uint           `gorm:"index;type:bigint unsigned;not null" json:"quizId"`
	Type          string         `gorm:"size:50;not null" json:"type"`
	Content       string         `gorm:"type:text;not null" json:"content"`
	Options       datatypes.JSON `gorm:"type:json" json:"options,omitempty"` // []string，仅选择题使用
	CorrectAnswer datatypes.JSON `gorm:"type:json" json:"-"`
	Explanation   string         `gorm:"type:text" json:"explanation,omitempty"`
	Order         int            `gorm:"default:0" json:"order"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}
