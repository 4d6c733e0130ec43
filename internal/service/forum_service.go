package service

import (
	"errors"
	"strings"
	"welearn_backend/internal/model"
	"welearn_backend/internal/repository"
	"welearn_backend/internal/util"

	"gorm.io/gorm"
)

// ForumService 学习社区：发帖、回帖、点赞
type ForumService struct {
	Repo *repository.ForumRepository
}

func NewForumService(repo *repository.ForumRepository) *ForumService {
	return &ForumService{Repo: repo}
}

type PostRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	Category string `json:"category"`
}

func (s *ForumService) CreatePost(userID uint, req *PostRequest) (*model.Post, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return nil, errors.New("title and content are required")
	}

	post := &model.Post{
		UserID:   userID,
		Title:    strings.TrimSpace(req.Title),
		Content:  req.Content,
		Category: req.Category,
	}
	if err := s.Repo.CreatePost(post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *ForumService) GetPost(id uint) (*model.Post, error) {
	post, err := s.Repo.FindPostByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

func (s *ForumService) ListPosts(category string, page, limit int) ([]model.Post, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}
	return s.Repo.ListPosts(category, page, limit)
}

// DeletePost 作者本人或管理员可删
func (s *ForumService) DeletePost(id, userID uint, role model.UserRole) error {
	post, err := s.GetPost(id)
	if err != nil {
		return err
	}
	if post.UserID != userID && role != model.Admin && role != model.Moderator {
		return util.ErrPermissionDenied
	}
	return s.Repo.DeletePost(id, post.UserID)
}

func (s *ForumService) Reply(postID, userID uint, content string) (*model.Reply, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.New("content is required")
	}
	if _, err := s.GetPost(postID); err != nil {
		return nil, err
	}

	reply := &model.Reply{
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}
	if err := s.Repo.CreateReply(reply); err != nil {
		return nil, err
	}
	return reply, nil
}

func (s *ForumService) LikePost(id uint) error {
	if _, err := s.GetPost(id); err != nil {
		return err
	}
	return s.Repo.LikePost(id)
}

func (s *ForumService) LikeReply(id uint) error {
	return s.Repo.LikeReply(id)
}
