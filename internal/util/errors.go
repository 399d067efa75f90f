package util

import "errors"

var (
	ErrUserNotFound           = errors.New("用户不存在")
	ErrEmailRegistered        = errors.New("该邮箱已被注册")
	ErrPermissionDenied       = errors.New("permission denied")
	ErrQuizNotFound           = errors.New("quiz not found")
	ErrQuizHasNoQuestions     = errors.New("quiz has no questions")
	ErrDeckNotFound           = errors.New("deck not found")
	ErrCardNotFound           = errors.New("flashcard not found")
	ErrUnknownActivityType    = errors.New("unknown activity type")
	ErrInvalidDailyGoal       = errors.New("daily goal must be at least 1")
	ErrConflictRetryExhausted = errors.New("write conflict retries exhausted")
)
