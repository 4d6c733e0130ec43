package model

import "gorm.io/datatypes"

type NotificationType string

const (
	NotificationInfo        NotificationType = "info"
	NotificationAchievement NotificationType = "achievement"
	NotificationCourse      NotificationType = "course"
	NotificationPayment     NotificationType = "payment"
	NotificationAdmin       NotificationType = "admin"
)

type Notification struct {
	BaseModel
	UserID   uint             `gorm:"index;type:bigint unsigned" json:"userId"`
	Title    string           `gorm:"size:255;not null" json:"title"`
	Message  string           `gorm:"type:text;not null" json:"message"`
	Type     NotificationType `gorm:"size:50;default:'info'" json:"type"`
	Metadata datatypes.JSON   `gorm:"type:json" json:"metadata,omitempty"`
	IsRead   bool             `gorm:"default:false" json:"isRead"`
}

func (Notification) TableName() string {
	return "notifications"
}
