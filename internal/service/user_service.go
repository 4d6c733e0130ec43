package service

import (
	"errors"
	"welearn_backend/internal/model"
	"welearn_backend/internal/repository"
	"welearn_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	UserRepo     *repository.UserRepository
	ProgressRepo *repository.ProgressRepository
}

func NewUserService(userRepo *repository.UserRepository, progressRepo *repository.ProgressRepository) *UserService {
	return &UserService{
		UserRepo:     userRepo,
		ProgressRepo: progressRepo,
	}
}

// ProfileUpdate 学员可自行修改的资料字段
type ProfileUpdate struct {
	Name     string `json:"name"`
	Language string `json:"language"`
	Region   string `json:"region"`
	Avatar   string `json:"avatar"`
}

func (s *UserService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateProfile(userID uint, update *ProfileUpdate) (*model.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if update.Name != "" {
		user.Name = update.Name
	}
	if update.Language != "" {
		user.Language = update.Language
	}
	if update.Region != "" {
		user.Region = update.Region
	}
	if update.Avatar != "" {
		user.Avatar = update.Avatar
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.GetProfile(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return errors.New("invalid credentials")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	return s.UserRepo.Update(user)
}

// ListUsers 管理端用户列表
func (s *UserService) ListUsers(page, limit int) ([]model.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.UserRepo.List(page, limit)
}

// ChangeRole 管理端调整角色，不能把最后一个管理员降级的约束交给调用方自查
func (s *UserService) ChangeRole(userID uint, role model.UserRole) error {
	switch role {
	case model.Student, model.Teacher, model.Moderator, model.Admin:
	default:
		return errors.New("unknown role")
	}

	if _, err := s.GetProfile(userID); err != nil {
		return err
	}
	return s.UserRepo.UpdateRole(userID, role)
}

// SetDisabled 停用/启用账号，停用后登录被拒
func (s *UserService) SetDisabled(userID uint, disabled bool) error {
	if _, err := s.GetProfile(userID); err != nil {
		return err
	}
	return s.UserRepo.SetDisabled(userID, disabled)
}
