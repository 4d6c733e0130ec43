package service

import "welearn_backend/internal/model"

// 播放与进度链路只依赖下面这组记录型端口，不直接触达全局数据库句柄；
// 仓储层是生产实现，测试里用内存假实现替换。

// CourseStore 课程读取端口
type CourseStore interface {
	FindByID(id string) (*model.Course, error)
}

// ProgressStore 进度记录端口
type ProgressStore interface {
	Find(userID uint, courseID string) (*model.UserProgress, error)
	Upsert(progress *model.UserProgress) error
}

// AchievementRecorder 成就发放端口，进度侧只管触发，失败不回滚进度
type AchievementRecorder interface {
	RecordAchievement(userID uint, courseID, kind string) error
}

// XPAwarder 积分奖励端口
type XPAwarder interface {
	UpdateXP(userID uint, xp int) error
}

// AttemptStore 测验留痕端口
type AttemptStore interface {
	Create(attempt *model.QuizAttempt) error
	FindByUserAndCourse(userID uint, courseID string) ([]model.QuizAttempt, error)
	AverageScore(userID uint, courseID string) (float64, error)
}
