package service

import (
	"encoding/json"
	"strings"

	"meded_backend/internal/model"
)

// SubmittedAnswer 客户端提交的单题答案。选择题走 SelectedOptionIDs，
// 文本题走 ShortAnswer，两者按题型二选一
type SubmittedAnswer struct {
	QuestionID        uint     `json:"questionId" binding:"required"`
	SelectedOptionIDs []string `json:"selectedOptionIds,omitempty"`
	ShortAnswer       string   `json:"shortAnswer,omitempty"`
	TimeSpent         int      `json:"timeSpent,omitempty"` // 秒
}

// EvaluateAnswer 对单题判分。纯函数，无副作用，可并发调用。
// 未知题型、畸形提交一律按答错处理，判分本身不会失败。
func EvaluateAnswer(q *model.QuizQuestion, sub SubmittedAnswer) model.EvaluatedAnswer {
	timeSpent := sub.TimeSpent
	if timeSpent < 0 {
		timeSpent = 0
	}

	ev := model.EvaluatedAnswer{
		QuestionID: q.ID,
		TimeSpent:  timeSpent,
	}

	answers := decodeAnswerSet(q.CorrectAnswer)

	switch q.Type {
	case model.QuestionMultipleChoice, model.QuestionTrueFalse:
		// 期望恰好一个选项，0 个或多个都按答错处理
		ev.UserAnswer = strings.Join(sub.SelectedOptionIDs, ", ")
		if len(sub.SelectedOptionIDs) != 1 {
			return ev
		}
		// 选项文本与标准答案逐字符比较，区分大小写
		ev.IsCorrect = len(answers) > 0 && sub.SelectedOptionIDs[0] == answers[0]

	case model.QuestionShortAnswer, model.QuestionImageIdentification:
		normalized := strings.ToLower(strings.TrimSpace(sub.ShortAnswer))
		ev.UserAnswer = normalized
		if normalized == "" {
			return ev
		}
		for _, accepted := range answers {
			if normalized == strings.ToLower(strings.TrimSpace(accepted)) {
				ev.IsCorrect = true
				break
			}
		}

	default:
		// 未知题型：不计分，继续判其余题目
		ev.UserAnswer = sub.ShortAnswer
	}

	return ev
}

// decodeAnswerSet 解析 CorrectAnswer 字段。兼容三种存储形态：
// 单个字符串、布尔值（判断题）、字符串数组（首个为标准答案，其余为别名）
func decodeAnswerSet(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}
	}

	var flag bool
	if err := json.Unmarshal(raw, &flag); err == nil {
		if flag {
			return []string{"true"}
		}
		return []string{"false"}
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}

	return nil
}
