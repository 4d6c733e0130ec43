package repository

import (
	"time"
	"welearn_backend/internal/model"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	DB *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

func (r *PaymentRepository) Create(payment *model.Payment) error {
	return r.DB.Create(payment).Error
}

func (r *PaymentRepository) FindByID(id string) (*model.Payment, error) {
	var payment model.Payment
	err := r.DB.Where("id = ?", id).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) FindByUser(userID uint) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&payments).Error
	return payments, err
}

func (r *PaymentRepository) List(page, limit int) ([]model.Payment, int64, error) {
	var payments []model.Payment
	var total int64

	if err := r.DB.Model(&model.Payment{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&payments).Error
	return payments, total, err
}

func (r *PaymentRepository) UpdateStatus(id string, status model.PaymentStatus) error {
	updates := map[string]interface{}{"status": status}
	if status == model.PaymentCompleted {
		now := time.Now()
		updates["paid_at"] = &now
	}
	return r.DB.Model(&model.Payment{}).Where("id = ?", id).Updates(updates).Error
}

// HasPaidFor 学员是否已购买某付费课程
func (r *PaymentRepository) HasPaidFor(userID uint, courseID string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Payment{}).
		Where("user_id = ? AND course_id = ? AND status = ?", userID, courseID, model.PaymentCompleted).
		Count(&count).Error
	return count > 0, err
}

// TotalRevenue 已完成支付的总金额
func (r *PaymentRepository) TotalRevenue() (int64, error) {
	var total int64
	err := r.DB.Model(&model.Payment{}).
		Where("status = ?", model.PaymentCompleted).
		Select("COALESCE(SUM(amount_fcfa), 0)").
		Scan(&total).Error
	return total, err
}

// MonthlyRevenue 最近 N 个月的月度营收
func (r *PaymentRepository) MonthlyRevenue(months int) (map[string]int64, error) {
	type row struct {
		Month string
		Total int64
	}
	since := time.Now().AddDate(0, -months, 0)
	var rows []row
	err := r.DB.Model(&model.Payment{}).
		Where("status = ? AND paid_at >= ?", model.PaymentCompleted, since).
		Select("DATE_FORMAT(paid_at, '%Y-%m') as month, COALESCE(SUM(amount_fcfa), 0) as total").
		Group("month").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Month] = row.Total
	}
	return result, nil
}
