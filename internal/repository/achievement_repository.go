package repository

import (
	"meded_backend/internal/model"

	"gorm.io/gorm"
)

type AchievementRepository struct {
	DB *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{DB: db}
}

func (r *AchievementRepository) FindByUserID(userID uint) ([]model.Achievement, error) {
	var achievements []model.Achievement
	err := r.DB.Where("user_id = ?", userID).Order("unlocked_at ASC").Find(&achievements).Error
	return achievements, err
}

// FindKeysByUser 在事务内取出用户已解锁的成就 key 集合
func (r *AchievementRepository) FindKeysByUser(tx *gorm.DB, userID uint) (map[string]bool, error) {
	var keys []string
	err := tx.Model(&model.Achievement{}).
		Where("user_id = ?", userID).
		Pluck("`key`", &keys).Error
	if err != nil {
		return nil, err
	}
	unlocked := make(map[string]bool, len(keys))
	for _, k := range keys {
		unlocked[k] = true
	}
	return unlocked, nil
}

func (r *AchievementRepository) CreateAll(tx *gorm.DB, achievements []model.Achievement) error {
	if len(achievements) == 0 {
		return nil
	}
	return tx.Create(&achievements).Error
}
