package model

import "time"

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Payment 付费课程的支付记录
type Payment struct {
	UUIDBase
	UserID     uint          `gorm:"index;type:bigint unsigned" json:"userId"`
	CourseID   string        `gorm:"index;type:varchar(36)" json:"courseId"`
	AmountFCFA int           `gorm:"not null" json:"amountFcfa"`
	Method     string        `gorm:"size:50" json:"method"` // orange_money, mtn_momo, card
	Status     PaymentStatus `gorm:"size:20;default:'pending'" json:"status"`
	Reference  string        `gorm:"size:100;uniqueIndex" json:"reference"`
	PaidAt     *time.Time    `json:"paidAt,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}
