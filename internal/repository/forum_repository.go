package repository

import (
	"welearn_backend/internal/model"

	"gorm.io/gorm"
)

type ForumRepository struct {
	DB *gorm.DB
}

func NewForumRepository(db *gorm.DB) *ForumRepository {
	return &ForumRepository{DB: db}
}

func (r *ForumRepository) CreatePost(post *model.Post) error {
	return r.DB.Create(post).Error
}

func (r *ForumRepository) FindPostByID(id uint) (*model.Post, error) {
	var post model.Post
	err := r.DB.Preload("Replies").First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *ForumRepository) ListPosts(category string, page, limit int) ([]model.Post, int64, error) {
	query := r.DB.Model(&model.Post{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []model.Post
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&posts).Error
	return posts, total, err
}

func (r *ForumRepository) DeletePost(id, userID uint) error {
	return r.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Post{}).Error
}

func (r *ForumRepository) CreateReply(reply *model.Reply) error {
	return r.DB.Create(reply).Error
}

func (r *ForumRepository) LikePost(id uint) error {
	return r.DB.Model(&model.Post{}).
		Where("id = ?", id).
		Update("likes", gorm.Expr("likes + 1")).
		Error
}

func (r *ForumRepository) LikeReply(id uint) error {
	return r.DB.Model(&model.Reply{}).
		Where("id = ?", id).
		Update("likes", gorm.Expr("likes + 1")).
		Error
}
