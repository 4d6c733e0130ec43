package model

import "time"

// Certificate 完课证书，课程进度达到 100% 后签发一次
type Certificate struct {
	UUIDBase
	UserID      uint      `gorm:"uniqueIndex:idx_cert_user_course;type:bigint unsigned" json:"userId"`
	CourseID    string    `gorm:"uniqueIndex:idx_cert_user_course;type:varchar(36)" json:"courseId"`
	StudentName string    `gorm:"size:100" json:"studentName"`
	CourseName  string    `gorm:"size:255" json:"courseName"`
	Score       int       `gorm:"default:0" json:"score"` // 各测验模块的平均分
	Duration    string    `gorm:"size:50" json:"duration"`
	IssuedAt    time.Time `json:"issuedAt"`
}

func (Certificate) TableName() string {
	return "certificates"
}
