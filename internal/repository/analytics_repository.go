package repository

import (
	"errors"

	"meded_backend/internal/model"

	"gorm.io/gorm"
)

type AnalyticsRepository struct {
	DB *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{DB: db}
}

// GetOrCreate 在事务内取出测验的聚合记录，不存在则初始化一条
func (r *AnalyticsRepository) GetOrCreate(tx *gorm.DB, quizID uint) (*model.QuizAnalytics, error) {
	var analytics model.QuizAnalytics
	err := tx.Where("quiz_id = ?", quizID).First(&analytics).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		analytics = model.QuizAnalytics{QuizID: quizID}
		if err := tx.Create(&analytics).Error; err != nil {
			return nil, err
		}
		return &analytics, nil
	}
	if err != nil {
		return nil, err
	}
	return &analytics, nil
}

func (r *AnalyticsRepository) Save(tx *gorm.DB, analytics *model.QuizAnalytics) error {
	return tx.Save(analytics).Error
}

func (r *AnalyticsRepository) FindByQuiz(quizID uint) (*model.QuizAnalytics, error) {
	var analytics model.QuizAnalytics
	err := r.DB.Where("quiz_id = ?", quizID).First(&analytics).Error
	if err != nil {
		return nil, err
	}
	return &analytics, nil
}
