package service

import (
	"time"

	"meded_backend/internal/model"
)

// Milestone 计数器阈值与其对应的成就定义
type Milestone struct {
	Threshold   int
	Key         string
	Name        string
	Description string
	Icon        string
}

// MilestoneFamily 一组同类里程碑。Key 带家族前缀，家族之间不会冲突
type MilestoneFamily struct {
	Category string
	Table    []Milestone
}

var (
	StreakMilestones = MilestoneFamily{
		Category: "streak",
		Table: []Milestone{
			{3, "streak-3", "On a Roll", "Study 3 days in a row", "🔥"},
			{7, "streak-7", "Week Warrior", "Study 7 days in a row", "⚔️"},
			{14, "streak-14", "Fortnight Focus", "Study 14 days in a row", "🎯"},
			{30, "streak-30", "Monthly Master", "Study 30 days in a row", "🏆"},
			{100, "streak-100", "Centurion", "Study 100 days in a row", "💯"},
		},
	}

	CardMilestones = MilestoneFamily{
		Category: "flashcards",
		Table: []Milestone{
			{10, "cards-10", "First Steps", "Study 10 flashcards", "🃏"},
			{50, "cards-50", "Card Collector", "Study 50 flashcards", "📚"},
			{100, "cards-100", "Century of Cards", "Study 100 flashcards", "💪"},
			{500, "cards-500", "Flashcard Fanatic", "Study 500 flashcards", "🚀"},
			{1000, "cards-1000", "Memory Master", "Study 1000 flashcards", "🧠"},
		},
	}

	QuizMilestones = MilestoneFamily{
		Category: "quizzes",
		Table: []Milestone{
			{1, "quizzes-1", "Quiz Rookie", "Complete your first quiz", "📝"},
			{10, "quizzes-10", "Quiz Explorer", "Complete 10 quizzes", "🧭"},
			{25, "quizzes-25", "Quiz Enthusiast", "Complete 25 quizzes", "⭐"},
			{50, "quizzes-50", "Quiz Veteran", "Complete 50 quizzes", "🎖️"},
			{100, "quizzes-100", "Quiz Champion", "Complete 100 quizzes", "👑"},
		},
	}
)

// CheckMilestones 扫描一个家族的阈值表，返回达标且尚未解锁的成就。纯函数、幂等：
// 相同的计数器与已解锁集合再调一次不会产生重复。UserID 由调用方填写。
func CheckMilestones(counter int, family MilestoneFamily, unlocked map[string]bool, now time.Time) []model.Achievement {
	var earned []model.Achievement
	for _, m := range family.Table {
		if counter < m.Threshold {
			continue
		}
		if unlocked[m.Key] {
			continue
		}
		earned = append(earned, model.Achievement{
			Key:         m.Key,
			Name:        m.Name,
			Description: m.Description,
			Category:    family.Category,
			Icon:        m.Icon,
			UnlockedAt:  now,
		})
	}
	return earned
}
