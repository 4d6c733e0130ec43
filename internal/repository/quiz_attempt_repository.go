package repository

import (
	"welearn_backend/internal/model"

	"gorm.io/gorm"
)

type QuizAttemptRepository struct {
	DB *gorm.DB
}

func NewQuizAttemptRepository(db *gorm.DB) *QuizAttemptRepository {
	return &QuizAttemptRepository{DB: db}
}

func (r *QuizAttemptRepository) Create(attempt *model.QuizAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *QuizAttemptRepository) FindByUserAndCourse(userID uint, courseID string) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("completed_at DESC").
		Find(&attempts).Error
	return attempts, err
}

func (r *QuizAttemptRepository) AverageScore(userID uint, courseID string) (float64, error) {
	var avg float64
	err := r.DB.Model(&model.QuizAttempt{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Select("COALESCE(AVG(score), 0)").
		Scan(&avg).Error
	return avg, err
}
