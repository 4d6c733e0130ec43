package service

import (
	"errors"
	"fmt"
	"time"
	"welearn_backend/internal/model"
	"welearn_backend/internal/repository"
	"welearn_backend/internal/util"

	"gorm.io/gorm"
)

// PaymentService 付费课程的支付留痕。不对接真实支付网关，
// 渠道回调由管理端确认接口代替。
type PaymentService struct {
	Repo             *repository.PaymentRepository
	CourseRepo       *repository.CourseRepository
	NotificationRepo *repository.NotificationRepository
}

func NewPaymentService(
	repo *repository.PaymentRepository,
	courseRepo *repository.CourseRepository,
	notificationRepo *repository.NotificationRepository,
) *PaymentService {
	return &PaymentService{
		Repo:             repo,
		CourseRepo:       courseRepo,
		NotificationRepo: notificationRepo,
	}
}

// Initiate 发起支付，金额以课程标价为准
func (s *PaymentService) Initiate(userID uint, courseID, method string) (*model.Payment, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if !course.IsPremium {
		return nil, errors.New("course is free")
	}

	switch method {
	case "orange_money", "mtn_momo", "card":
	default:
		return nil, errors.New("unsupported payment method")
	}

	payment := &model.Payment{
		UserID:     userID,
		CourseID:   courseID,
		AmountFCFA: course.PriceFCFA,
		Method:     method,
		Status:     model.PaymentPending,
		Reference:  fmt.Sprintf("WL-%d-%s", time.Now().Unix(), util.GenerateRandomString(6)),
	}
	if err := s.Repo.Create(payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// Confirm 管理端确认到账
func (s *PaymentService) Confirm(paymentID string) (*model.Payment, error) {
	payment, err := s.Repo.FindByID(paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPaymentNotFound
		}
		return nil, err
	}
	if payment.Status == model.PaymentCompleted {
		return payment, nil
	}

	if err := s.Repo.UpdateStatus(paymentID, model.PaymentCompleted); err != nil {
		return nil, err
	}
	now := time.Now()
	payment.Status = model.PaymentCompleted
	payment.PaidAt = &now

	if s.NotificationRepo != nil {
		_ = s.NotificationRepo.Create(&model.Notification{
			UserID:  payment.UserID,
			Title:   "Paiement confirmé",
			Message: fmt.Sprintf("Votre paiement de %d FCFA a été confirmé.", payment.AmountFCFA),
			Type:    model.NotificationPayment,
		})
	}
	return payment, nil
}

// HasAccess 免费课程人人可学，付费课程要有已完成的支付
func (s *PaymentService) HasAccess(userID uint, course *model.Course) (bool, error) {
	if !course.IsPremium {
		return true, nil
	}
	return s.Repo.HasPaidFor(userID, course.ID)
}

func (s *PaymentService) ListForUser(userID uint) ([]model.Payment, error) {
	return s.Repo.FindByUser(userID)
}

func (s *PaymentService) List(page, limit int) ([]model.Payment, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.Repo.List(page, limit)
}

// RevenueStats 管理端营收概览
type RevenueStats struct {
	TotalFCFA   int64            `json:"totalFcfa"`
	ByMonth     map[string]int64 `json:"byMonth"`
	RecentCount int              `json:"recentCount"`
}

func (s *PaymentService) Revenue() (*RevenueStats, error) {
	total, err := s.Repo.TotalRevenue()
	if err != nil {
		return nil, err
	}
	monthly, err := s.Repo.MonthlyRevenue(6)
	if err != nil {
		return nil, err
	}
	return &RevenueStats{TotalFCFA: total, ByMonth: monthly, RecentCount: len(monthly)}, nil
}
