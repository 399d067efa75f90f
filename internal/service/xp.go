package service

import "math"

// XP 奖励规则
const (
	XPFlashcardCorrect = 10 // 闪卡答对
	XPFlashcardStudied = 2  // 闪卡答错，复习本身也有价值
	XPQuizCompleted    = 15 // 完成测验但缺少得分明细时的固定奖励
)

// FlashcardXP 单次闪卡复习的经验值
func FlashcardXP(correct bool) int {
	if correct {
		return XPFlashcardCorrect
	}
	return XPFlashcardStudied
}

// QuizXP 按得分率计算测验经验值，四舍五入到最近的 5 的倍数，范围 0~50
func QuizXP(correctAnswers, totalQuestions int) int {
	if totalQuestions <= 0 {
		return XPQuizCompleted
	}
	pct := float64(correctAnswers) * 100 / float64(totalQuestions)
	return int(math.Round(pct/10)) * 5
}

// LevelForXP 等级只由累计经验值派生：1 + xp/100
func LevelForXP(xp int) int {
	if xp < 0 {
		return 1
	}
	return 1 + xp/100
}
