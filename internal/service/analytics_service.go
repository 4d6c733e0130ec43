package service

import (
	"welearn_backend/internal/repository"
)

// AnalyticsService 管理端平台统计
type AnalyticsService struct {
	UserRepo        *repository.UserRepository
	CourseRepo      *repository.CourseRepository
	ProgressRepo    *repository.ProgressRepository
	PaymentRepo     *repository.PaymentRepository
	CertificateRepo *repository.CertificateRepository
}

func NewAnalyticsService(
	userRepo *repository.UserRepository,
	courseRepo *repository.CourseRepository,
	progressRepo *repository.ProgressRepository,
	paymentRepo *repository.PaymentRepository,
	certificateRepo *repository.CertificateRepository,
) *AnalyticsService {
	return &AnalyticsService{
		UserRepo:        userRepo,
		CourseRepo:      courseRepo,
		ProgressRepo:    progressRepo,
		PaymentRepo:     paymentRepo,
		CertificateRepo: certificateRepo,
	}
}

// PlatformStats 平台总览
type PlatformStats struct {
	TotalUsers        int64              `json:"totalUsers"`
	TotalCourses      int64              `json:"totalCourses"`
	ActiveLearners    int64              `json:"activeLearners"`
	CertificatesCount int64              `json:"certificatesCount"`
	RevenueFCFA       int64              `json:"revenueFcfa"`
	CoursesByCategory map[string]int64   `json:"coursesByCategory"`
	AverageProgress   map[string]float64 `json:"averageProgress"`
	MonthlyRevenue    map[string]int64   `json:"monthlyRevenue"`
}

func (s *AnalyticsService) PlatformOverview() (*PlatformStats, error) {
	users, err := s.UserRepo.CountAll()
	if err != nil {
		return nil, err
	}
	courses, err := s.CourseRepo.CountAll()
	if err != nil {
		return nil, err
	}
	active, err := s.ProgressRepo.CountActiveLearners()
	if err != nil {
		return nil, err
	}
	certificates, err := s.CertificateRepo.CountAll()
	if err != nil {
		return nil, err
	}
	revenue, err := s.PaymentRepo.TotalRevenue()
	if err != nil {
		return nil, err
	}
	byCategory, err := s.CourseRepo.CountByCategory()
	if err != nil {
		return nil, err
	}
	avgProgress, err := s.ProgressRepo.AverageProgressByCourse()
	if err != nil {
		return nil, err
	}
	monthly, err := s.PaymentRepo.MonthlyRevenue(6)
	if err != nil {
		return nil, err
	}

	return &PlatformStats{
		TotalUsers:        users,
		TotalCourses:      courses,
		ActiveLearners:    active,
		CertificatesCount: certificates,
		RevenueFCFA:       revenue,
		CoursesByCategory: byCategory,
		AverageProgress:   avgProgress,
		MonthlyRevenue:    monthly,
	}, nil
}
