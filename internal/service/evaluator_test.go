package service

import (
	"testing"

	"meded_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func mcQuestion(answer string) *model.QuizQuestion {
	q := &model.QuizQuestion{
		Type:          model.QuestionMultipleChoice,
		CorrectAnswer: []byte(`"` + answer + `"`),
	}
	q.ID = 1
	return q
}

func TestEvaluateMultipleChoice(t *testing.T) {
	q := mcQuestion("Mitochondria")

	ev := EvaluateAnswer(q, SubmittedAnswer{QuestionID: 1, SelectedOptionIDs: []string{"Mitochondria"}})
	assert.True(t, ev.IsCorrect)

	ev = EvaluateAnswer(q, SubmittedAnswer{QuestionID: 1, SelectedOptionIDs: []string{"Nucleus"}})
	assert.False(t, ev.IsCorrect)

	// 选择题区分大小写
	ev = EvaluateAnswer(q, SubmittedAnswer{QuestionID: 1, SelectedOptionIDs: []string{"mitochondria"}})
	assert.False(t, ev.IsCorrect)
}

func TestEvaluateMultipleChoiceSelectionCount(t *testing.T) {
	q := mcQuestion("Aorta")

	// 未选择
	ev := EvaluateAnswer(q, SubmittedAnswer{QuestionID: 1})
	assert.False(t, ev.IsCorrect)

	// 多选，即使包含正确项也按答错
	ev = EvaluateAnswer(q, SubmittedAnswer{QuestionID: 1, SelectedOptionIDs: []string{"Aorta", "Vena Cava"}})
	assert.False(t, ev.IsCorrect)
}

func TestEvaluateTrueFalse(t *testing.T) {
	q := &model.QuizQuestion{
		Type:          model.QuestionTrueFalse,
		CorrectAnswer: []byte(`true`),
	}
	q.ID = 2

	ev := EvaluateAnswer(q, SubmittedAnswer{QuestionID: 2, SelectedOptionIDs: []string{"true"}})
	assert.True(t, ev.IsCorrect)

	ev = EvaluateAnswer(q, SubmittedAnswer{QuestionID: 2, SelectedOptionIDs: []string{"false"}})
	assert.False(t, ev.IsCorrect)
}

func TestEvaluateShortAnswer(t *testing.T) {
	q := &model.QuizQuestion{
		Type:          model.QuestionShortAnswer,
		CorrectAnswer: []byte(`["Femur", "thigh bone"]`),
	}
	q.ID = 3

	// 忽略大小写与首尾空白
	ev := EvaluateAnswer(q, SubmittedAnswer{QuestionID: 3, ShortAnswer: "  FEMUR "})
	assert.True(t, ev.IsCorrect)

	// 别名同样可接受
	ev = EvaluateAnswer(q, SubmittedAnswer{QuestionID: 3, ShortAnswer: "Thigh Bone"})
	assert.True(t, ev.IsCorrect)

	ev = EvaluateAnswer(q, SubmittedAnswer{QuestionID: 3, ShortAnswer: "tibia"})
	assert.False(t, ev.IsCorrect)

	// 空答案
	ev = EvaluateAnswer(q, SubmittedAnswer{QuestionID: 3, ShortAnswer: "   "})
	assert.False(t, ev.IsCorrect)
}

func TestEvaluateImageIdentification(t *testing.T) {
	q := &model.QuizQuestion{
		Type:          model.QuestionImageIdentification,
		CorrectAnswer: []byte(`"left ventricle"`),
	}
	q.ID = 4

	ev := EvaluateAnswer(q, SubmittedAnswer{QuestionID: 4, ShortAnswer: "Left Ventricle"})
	assert.True(t, ev.IsCorrect)
}

func TestEvaluateUnknownType(t *testing.T) {
	q := &model.QuizQuestion{
		Type:          "essay",
		CorrectAnswer: []byte(`"anything"`),
	}
	q.ID = 5

	// 未知题型不报错，按答错处理
	ev := EvaluateAnswer(q, SubmittedAnswer{QuestionID: 5, ShortAnswer: "anything"})
	assert.False(t, ev.IsCorrect)
}

func TestEvaluateClampsNegativeTime(t *testing.T) {
	q := mcQuestion("A")

	ev := EvaluateAnswer(q, SubmittedAnswer{QuestionID: 1, SelectedOptionIDs: []string{"A"}, TimeSpent: -30})
	assert.Equal(t, 0, ev.TimeSpent)
	assert.True(t, ev.IsCorrect)
}

func TestDecodeAnswerSet(t *testing.T) {
	assert.Equal(t, []string{"x"}, decodeAnswerSet([]byte(`"x"`)))
	assert.Equal(t, []string{"true"}, decodeAnswerSet([]byte(`true`)))
	assert.Equal(t, []string{"false"}, decodeAnswerSet([]byte(`false`)))
	assert.Equal(t, []string{"a", "b"}, decodeAnswerSet([]byte(`["a","b"]`)))
	assert.Nil(t, decodeAnswerSet(nil))
	assert.Nil(t, decodeAnswerSet([]byte(`{"bad": 1}`)))
}
