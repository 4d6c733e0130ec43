package model

import "time"

// 成就类型
const (
	AchievementCourseCompleted = "course_completed"
	AchievementQuizMaster      = "quiz_master" // 单次测验满分
	AchievementFirstModule     = "first_module"
)

type Achievement struct {
	BaseModel
	UserID      uint      `gorm:"index;type:bigint unsigned" json:"userId"`
	CourseID    string    `gorm:"index;type:varchar(36)" json:"courseId,omitempty"`
	Kind        string    `gorm:"size:50;not null" json:"kind"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Description string    `gorm:"size:255" json:"description,omitempty"`
	Icon        string    `gorm:"size:255" json:"icon,omitempty"`
	EarnedXP    int       `gorm:"default:0" json:"earnedXp"`
	EarnedAt    time.Time `json:"earnedAt"`
}

func (Achievement) TableName() string {
	return "achievements"
}
