package model

import (
	"time"

	"gorm.io/datatypes"
)

// QuizAttempt 一次完整测验流程的留痕，进度更新成功后异步落库
type QuizAttempt struct {
	BaseModel
	UserID           uint           `gorm:"index;type:bigint unsigned" json:"userId"`
	CourseID         string         `gorm:"index;type:varchar(36)" json:"courseId"`
	ModuleID         string         `gorm:"size:64" json:"moduleId"`
	Answers          datatypes.JSON `gorm:"type:json" json:"answers"` // 题目下标 -> 所选选项(-1 表示超时未答)
	Score            int            `gorm:"default:0" json:"score"`   // 正确率百分比
	Points           int            `gorm:"default:0" json:"points"`  // 累计得分
	TimeTakenSeconds int            `gorm:"default:0" json:"timeTakenSeconds"`
	CompletedAt      time.Time      `json:"completedAt"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
