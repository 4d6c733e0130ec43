package service

import (
	"welearn_backend/internal/model"
	"welearn_backend/internal/repository"
)

// NotificationService 站内通知
type NotificationService struct {
	Repo     *repository.NotificationRepository
	UserRepo *repository.UserRepository
}

func NewNotificationService(repo *repository.NotificationRepository, userRepo *repository.UserRepository) *NotificationService {
	return &NotificationService{Repo: repo, UserRepo: userRepo}
}

func (s *NotificationService) List(userID uint, limit int) ([]model.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.Repo.FindByUser(userID, limit)
}

func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	return s.Repo.CountUnread(userID)
}

func (s *NotificationService) MarkRead(userID, notificationID uint) error {
	return s.Repo.MarkRead(userID, notificationID)
}

func (s *NotificationService) MarkAllRead(userID uint) error {
	return s.Repo.MarkAllRead(userID)
}

// Broadcast 管理端向全部启用账号群发
func (s *NotificationService) Broadcast(title, message string) (int, error) {
	ids, err := s.UserRepo.AllIDs()
	if err != nil {
		return 0, err
	}

	notifications := make([]model.Notification, 0, len(ids))
	for _, id := range ids {
		notifications = append(notifications, model.Notification{
			UserID:  id,
			Title:   title,
			Message: message,
			Type:    model.NotificationAdmin,
		})
	}
	if len(notifications) == 0 {
		return 0, nil
	}
	if err := s.Repo.CreateBatch(notifications); err != nil {
		return 0, err
	}
	return len(notifications), nil
}
