package repository

import (
	"welearn_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// Find 查询某学员在某课程下的进度，不存在时返回 gorm.ErrRecordNotFound
func (r *ProgressRepository) Find(userID uint, courseID string) (*model.UserProgress, error) {
	var progress model.UserProgress
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// Upsert 按 (user_id, course_id) 唯一键写入：不存在则创建，存在则覆盖
func (r *ProgressRepository) Upsert(progress *model.UserProgress) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"completed_modules",
			"progress_percentage",
			"quiz_scores",
			"time_spent_minutes",
			"last_accessed_at",
			"completed_at",
			"updated_at",
		}),
	}).Create(progress).Error
}

func (r *ProgressRepository) FindByUser(userID uint) ([]model.UserProgress, error) {
	var records []model.UserProgress
	err := r.DB.Where("user_id = ?", userID).Find(&records).Error
	return records, err
}

func (r *ProgressRepository) CountCompletedCourses(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.UserProgress{}).
		Where("user_id = ? AND completed_at IS NOT NULL", userID).
		Count(&count).Error
	return count, err
}

// TotalTimeSpent 学员累计学习时长（分钟）
func (r *ProgressRepository) TotalTimeSpent(userID uint) (int, error) {
	var total int
	err := r.DB.Model(&model.UserProgress{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(time_spent_minutes), 0)").
		Scan(&total).Error
	return total, err
}

// AverageProgressByCourse 各课程的平均完成度，供管理端分析
func (r *ProgressRepository) AverageProgressByCourse() (map[string]float64, error) {
	type row struct {
		CourseID string
		Avg      float64
	}
	var rows []row
	err := r.DB.Model(&model.UserProgress{}).
		Select("course_id, AVG(progress_percentage) as avg").
		Group("course_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string]float64, len(rows))
	for _, row := range rows {
		result[row.CourseID] = row.Avg
	}
	return result, nil
}

func (r *ProgressRepository) CountActiveLearners() (int64, error) {
	var count int64
	err := r.DB.Model(&model.UserProgress{}).
		Distinct("user_id").
		Count(&count).Error
	return count, err
}
