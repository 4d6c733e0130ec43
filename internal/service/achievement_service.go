package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"welearn_backend/internal/config"
	"welearn_backend/internal/model"
	"welearn_backend/internal/repository"
	"welearn_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const leaderboardCacheKey = "welearn:leaderboard"
const leaderboardCacheTTL = 5 * time.Minute

// AchievementService 成就与排行榜。完课信号到达时由进度服务调用
// RecordAchievement，这里负责去重、发放奖励积分并推送站内通知。
type AchievementService struct {
	Repo             *repository.AchievementRepository
	UserRepo         *repository.UserRepository
	CourseRepo       *repository.CourseRepository
	NotificationRepo *repository.NotificationRepository
	Redis            *redis.Client
	Cfg              *config.Config
}

func NewAchievementService(
	repo *repository.AchievementRepository,
	userRepo *repository.UserRepository,
	courseRepo *repository.CourseRepository,
	notificationRepo *repository.NotificationRepository,
	redisClient *redis.Client,
	cfg *config.Config,
) *AchievementService {
	return &AchievementService{
		Repo:             repo,
		UserRepo:         userRepo,
		CourseRepo:       courseRepo,
		NotificationRepo: notificationRepo,
		Redis:            redisClient,
		Cfg:              cfg,
	}
}

// RecordAchievement 同一 (用户, 课程, 类型) 只记一次
func (s *AchievementService) RecordAchievement(userID uint, courseID, kind string) error {
	exists, err := s.Repo.Exists(userID, courseID, kind)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	achievement := &model.Achievement{
		UserID:   userID,
		CourseID: courseID,
		Kind:     kind,
		EarnedAt: time.Now(),
	}

	switch kind {
	case model.AchievementCourseCompleted:
		courseName := courseID
		if course, err := s.CourseRepo.FindByID(courseID); err == nil {
			courseName = course.Title
		}
		achievement.Title = "Cours terminé"
		achievement.Description = fmt.Sprintf("Vous avez terminé le cours « %s »", courseName)
		achievement.Icon = "🎓"
		achievement.EarnedXP = s.Cfg.Rewards.CourseCompletionXP
	case model.AchievementQuizMaster:
		achievement.Title = "Maître du quiz"
		achievement.Description = "Score parfait à un quiz"
		achievement.Icon = "🏆"
		achievement.EarnedXP = s.Cfg.Rewards.ModuleXP
	case model.AchievementFirstModule:
		achievement.Title = "Premier pas"
		achievement.Description = "Premier module terminé"
		achievement.Icon = "⭐"
		achievement.EarnedXP = 10
	default:
		achievement.Title = kind
	}

	if err := s.Repo.Create(achievement); err != nil {
		return err
	}

	if achievement.EarnedXP > 0 {
		if err := s.UserRepo.UpdateXP(userID, achievement.EarnedXP); err != nil {
			logger.Log.Warn("achievement xp award failed", zap.Uint("user_id", userID), zap.Error(err))
		}
	}

	if s.NotificationRepo != nil {
		notification := &model.Notification{
			UserID:  userID,
			Title:   achievement.Title,
			Message: achievement.Description,
			Type:    model.NotificationAchievement,
		}
		if err := s.NotificationRepo.Create(notification); err != nil {
			logger.Log.Warn("achievement notification failed", zap.Uint("user_id", userID), zap.Error(err))
		}
	}

	s.invalidateLeaderboard()
	return nil
}

func (s *AchievementService) ListForUser(userID uint) ([]model.Achievement, error) {
	return s.Repo.FindByUserID(userID)
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	UserID uint   `json:"userId"`
	Name   string `json:"name"`
	XP     int    `json:"xp"`
	Level  int    `json:"level"`
}

// Leaderboard 按积分排名，结果在 redis 缓存 5 分钟
func (s *AchievementService) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	ctx := context.Background()
	if s.Redis != nil {
		cached, err := s.Redis.Get(ctx, leaderboardCacheKey).Result()
		if err == nil {
			var entries []LeaderboardEntry
			if json.Unmarshal([]byte(cached), &entries) == nil && len(entries) >= limit {
				return entries[:limit], nil
			}
		} else if !errors.Is(err, redis.Nil) {
			logger.Log.Warn("leaderboard cache read failed", zap.Error(err))
		}
	}

	users, err := s.UserRepo.FindTopByXP(100)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for i, user := range users {
		entries = append(entries, LeaderboardEntry{
			Rank:   i + 1,
			UserID: user.ID,
			Name:   user.Name,
			XP:     user.XP,
			Level:  calculateLevel(user.XP),
		})
	}

	if s.Redis != nil {
		if data, err := json.Marshal(entries); err == nil {
			if err := s.Redis.Set(ctx, leaderboardCacheKey, data, leaderboardCacheTTL).Err(); err != nil {
				logger.Log.Warn("leaderboard cache write failed", zap.Error(err))
			}
		}
	}

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *AchievementService) invalidateLeaderboard() {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(context.Background(), leaderboardCacheKey).Err(); err != nil {
		logger.Log.Warn("leaderboard cache invalidation failed", zap.Error(err))
	}
}

// calculateLevel 每 200 积分升一级，从 1 级起
func calculateLevel(xp int) int {
	if xp < 0 {
		return 1
	}
	return xp/200 + 1
}
