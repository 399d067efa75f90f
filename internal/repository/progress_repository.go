package repository

import (
	"errors"

	"meded_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// GetOrCreate 在事务内取出用户的进度记录，不存在则初始化一条
func (r *ProgressRepository) GetOrCreate(tx *gorm.DB, userID uint) (*model.UserProgress, error) {
	var progress model.UserProgress
	err := tx.Where("user_id = ?", userID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		progress = model.UserProgress{UserID: userID, Level: 1, DailyGoal: 20}
		if err := tx.Create(&progress).Error; err != nil {
			return nil, err
		}
		return &progress, nil
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *ProgressRepository) Save(tx *gorm.DB, progress *model.UserProgress) error {
	return tx.Save(progress).Error
}

// FindByUser 带成就列表的完整进度记录
func (r *ProgressRepository) FindByUser(userID uint) (*model.UserProgress, error) {
	var progress model.UserProgress
	err := r.DB.Preload("Achievements").Where("user_id = ?", userID).First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *ProgressRepository) FindTopByXP(limit int) ([]model.UserProgress, error) {
	var rows []model.UserProgress
	err := r.DB.Order("xp DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

func (r *ProgressRepository) UpdateDailyGoal(userID uint, goal int) error {
	return r.DB.Model(&model.UserProgress{}).
		Where("user_id = ?", userID).
		Update("daily_goal", goal).
		Error
}
