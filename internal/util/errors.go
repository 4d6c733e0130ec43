package util

import "errors"

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrCourseNotFound     = errors.New("course not found")
	ErrModuleOutOfRange   = errors.New("module index out of range")
	ErrNoPlayableModules  = errors.New("course has no playable modules")
	ErrQuizGated          = errors.New("quiz module can only be completed through the quiz flow")
	ErrQuizHasNoQuestions = errors.New("quiz module has no questions")
	ErrNoActiveQuiz       = errors.New("no active quiz for this session")
	ErrAlreadyAnswered    = errors.New("question already answered")
	ErrAnswerOutOfRange   = errors.New("answer index out of range")
	ErrNotRevealed        = errors.New("current question not yet answered")
	ErrCourseNotCompleted = errors.New("course not completed yet")
	ErrSessionNotFound    = errors.New("no active playback session")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrPostNotFound       = errors.New("post not found")
)
