package model

import (
	"time"
)

type UserRole string

const (
	Student   UserRole = "student"
	Teacher   UserRole = "teacher"
	Moderator UserRole = "moderator"
	Admin     UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;unique;not null" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	Role      UserRole  `gorm:"type:enum('student','teacher','moderator','admin');default:'student'" json:"role"`
	XP        int       `gorm:"default:0" json:"xp"` // 学习积分，完成模块/课程时累加
	Language  string    `gorm:"size:10;default:'fr'" json:"language"`
	Region    string    `gorm:"size:100" json:"region,omitempty"`
	Avatar    string    `gorm:"size:255" json:"avatar,omitempty"`
	Disabled  bool      `gorm:"default:false" json:"disabled"`
	LastLogin time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
	LastSeen  time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
