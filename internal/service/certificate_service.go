package service

import (
	"errors"
	"fmt"
	"math"
	"time"
	"welearn_backend/internal/model"
	"welearn_backend/internal/repository"
	"welearn_backend/internal/util"

	"gorm.io/gorm"
)

// CertificateService 完课证书。只有进度记录带 CompletedAt 的课程可以签发，
// 重复请求返回已有证书。
type CertificateService struct {
	Repo         *repository.CertificateRepository
	ProgressRepo *repository.ProgressRepository
	CourseRepo   *repository.CourseRepository
	UserRepo     *repository.UserRepository
}

func NewCertificateService(
	repo *repository.CertificateRepository,
	progressRepo *repository.ProgressRepository,
	courseRepo *repository.CourseRepository,
	userRepo *repository.UserRepository,
) *CertificateService {
	return &CertificateService{
		Repo:         repo,
		ProgressRepo: progressRepo,
		CourseRepo:   courseRepo,
		UserRepo:     userRepo,
	}
}

// Issue 签发证书。证书分数取各测验模块得分的平均值，
// 没有测验的课程按 100 分签发。
func (s *CertificateService) Issue(userID uint, courseID string) (*model.Certificate, error) {
	if existing, err := s.Repo.FindByUserAndCourse(userID, courseID); err == nil {
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	progress, err := s.ProgressRepo.Find(userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotCompleted
		}
		return nil, err
	}
	if progress.CompletedAt == nil {
		return nil, util.ErrCourseNotCompleted
	}

	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	certificate := &model.Certificate{
		UserID:      userID,
		CourseID:    courseID,
		StudentName: user.Name,
		CourseName:  course.Title,
		Score:       certificateScore(progress),
		Duration:    formatDuration(course.DurationMinutes),
		IssuedAt:    time.Now(),
	}
	if err := s.Repo.Create(certificate); err != nil {
		return nil, err
	}
	return certificate, nil
}

func (s *CertificateService) Get(id string) (*model.Certificate, error) {
	return s.Repo.FindByID(id)
}

func (s *CertificateService) ListForUser(userID uint) ([]model.Certificate, error) {
	return s.Repo.FindByUser(userID)
}

func certificateScore(progress *model.UserProgress) int {
	scores := progress.QuizScoreMap()
	if len(scores) == 0 {
		return 100
	}
	sum := 0
	for _, score := range scores {
		sum += score
	}
	return int(math.Round(float64(sum) / float64(len(scores))))
}

func formatDuration(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%dh%02d", minutes/60, minutes%60)
}
