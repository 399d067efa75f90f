package model

import "time"

// Achievement 用户解锁的里程碑成就，(user_id, key) 唯一，解锁后不再更新
// swagger:model Achievement
type Achievement struct {
	BaseModel
	UserID      uint      `gorm:"index:idx_user_achievement,unique;type:bigint unsigned;not null" json:"userId"`
	Key         string    `gorm:"index:idx_user_achievement,unique;size:50;not null" json:"key"` // 例如 streak-7、cards-100
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"size:255" json:"description"`
	Category    string    `gorm:"size:50" json:"category"` // streak / flashcards / quizzes
	Icon        string    `gorm:"size:50" json:"icon"`
	UnlockedAt  time.Time `gorm:"not null" json:"unlockedAt"`
}

func (Achievement) TableName() string {
	return "achievements"
}
