package service

import (
	"welearn_backend/internal/model"
	"welearn_backend/internal/repository"
	"welearn_backend/pkg/logger"

	"go.uber.org/zap"
)

// DashboardService 学员仪表盘聚合：在学课程、完成数、累计时长、积分等级
type DashboardService struct {
	UserRepo        *repository.UserRepository
	CourseRepo      *repository.CourseRepository
	ProgressRepo    *repository.ProgressRepository
	AchievementRepo *repository.AchievementRepository
}

func NewDashboardService(
	userRepo *repository.UserRepository,
	courseRepo *repository.CourseRepository,
	progressRepo *repository.ProgressRepository,
	achievementRepo *repository.AchievementRepository,
) *DashboardService {
	return &DashboardService{
		UserRepo:        userRepo,
		CourseRepo:      courseRepo,
		ProgressRepo:    progressRepo,
		AchievementRepo: achievementRepo,
	}
}

// CourseProgressItem 在学课程条目
type CourseProgressItem struct {
	CourseID           string `json:"courseId"`
	Title              string `json:"title"`
	Category           string `json:"category"`
	Level              string `json:"level"`
	ThumbnailURL       string `json:"thumbnailUrl,omitempty"`
	ProgressPercentage int    `json:"progressPercentage"`
	Completed          bool   `json:"completed"`
	TimeSpentMinutes   int    `json:"timeSpentMinutes"`
}

// Overview 仪表盘首屏数据
type Overview struct {
	Name             string               `json:"name"`
	XP               int                  `json:"xp"`
	Level            int                  `json:"level"`
	CompletedCourses int64                `json:"completedCourses"`
	TotalTimeMinutes int                  `json:"totalTimeMinutes"`
	Courses          []CourseProgressItem `json:"courses"`
	Achievements     []model.Achievement  `json:"achievements"`
}

func (s *DashboardService) Overview(userID uint) (*Overview, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	records, err := s.ProgressRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	courses := make([]CourseProgressItem, 0, len(records))
	for _, record := range records {
		item := CourseProgressItem{
			CourseID:           record.CourseID,
			Title:              record.CourseID,
			ProgressPercentage: record.ProgressPercentage,
			Completed:          record.CompletedAt != nil,
			TimeSpentMinutes:   record.TimeSpentMinutes,
		}
		// 课程被下架后进度记录仍然保留，标题退化为课程 id
		if course, err := s.CourseRepo.FindByID(record.CourseID); err == nil {
			item.Title = course.Title
			item.Category = course.Category
			item.Level = course.Level
			item.ThumbnailURL = course.ThumbnailURL
		}
		courses = append(courses, item)
	}

	completed, err := s.ProgressRepo.CountCompletedCourses(userID)
	if err != nil {
		return nil, err
	}

	totalTime, err := s.ProgressRepo.TotalTimeSpent(userID)
	if err != nil {
		return nil, err
	}

	achievements, err := s.AchievementRepo.FindByUserID(userID)
	if err != nil {
		logger.Log.Warn("dashboard achievements load failed", zap.Uint("user_id", userID), zap.Error(err))
		achievements = nil
	}
	if len(achievements) > 5 {
		achievements = achievements[:5]
	}

	return &Overview{
		Name:             user.Name,
		XP:               user.XP,
		Level:            calculateLevel(user.XP),
		CompletedCourses: completed,
		TotalTimeMinutes: totalTime,
		Courses:          courses,
		Achievements:     achievements,
	}, nil
}
