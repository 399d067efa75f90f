package repository

import (
	"meded_backend/internal/model"

	"gorm.io/gorm"
)

type QuizResultRepository struct {
	DB *gorm.DB
}

func NewQuizResultRepository(db *gorm.DB) *QuizResultRepository {
	return &QuizResultRepository{DB: db}
}

func (r *QuizResultRepository) Create(result *model.QuizResult) error {
	return r.DB.Create(result).Error
}

// FindLatest 同一 (测验, 用户) 最近一次的提交，用于计算进步幅度与卷内连击
func (r *QuizResultRepository) FindLatest(quizID, userID uint) (*model.QuizResult, error) {
	var result model.QuizResult
	err := r.DB.Where("quiz_id = ? AND user_id = ?", quizID, userID).
		Order("completed_at DESC").
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *QuizResultRepository) ListByQuizAndUser(quizID, userID uint) ([]model.QuizResult, error) {
	var results []model.QuizResult
	err := r.DB.Where("quiz_id = ? AND user_id = ?", quizID, userID).
		Order("completed_at DESC").
		Find(&results).Error
	return results, err
}
