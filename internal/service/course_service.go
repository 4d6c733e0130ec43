package service

import (
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
	"welearn_backend/internal/config"
	"welearn_backend/internal/model"
	"welearn_backend/internal/repository"
	"welearn_backend/internal/util"
	"welearn_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CourseService struct {
	CourseRepo     *repository.CourseRepository
	StorageService *StorageService
	Cfg            *config.Config
}

func NewCourseService(courseRepo *repository.CourseRepository, storageService *StorageService, cfg *config.Config) *CourseService {
	return &CourseService{
		CourseRepo:     courseRepo,
		StorageService: storageService,
		Cfg:            cfg,
	}
}

// GetCourse 加载课程并规范化模块列表。
// content 列的负载可能是结构化 JSON 或二次编码字符串，解析失败退化为空模块列表，
// 只有课程本身不存在才算错误。
func (s *CourseService) GetCourse(id string) (*model.Course, []model.Module, error) {
	course, err := s.CourseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrCourseNotFound
		}
		return nil, nil, err
	}

	return course, model.DecodeModules(course.Content), nil
}

func (s *CourseService) ListCourses(filter repository.CourseFilter) ([]model.Course, int64, error) {
	return s.CourseRepo.List(filter)
}

type CourseRequest struct {
	Title           string         `json:"title" binding:"required"`
	Description     string         `json:"description"`
	Category        string         `json:"category" binding:"required"`
	Level           string         `json:"level" binding:"required"`
	DurationMinutes int            `json:"durationMinutes"`
	IsPremium       bool           `json:"isPremium"`
	PriceFCFA       int            `json:"priceFcfa"`
	ThumbnailURL    string         `json:"thumbnailUrl"`
	Modules         []model.Module `json:"modules"`
}

// ValidateModules 创作侧校验：测验模块必须带题目，且正确答案下标有效。
// 播放侧的容错解析不依赖这里，但新内容不允许带着坏数据入库。
func ValidateModules(modules []model.Module) error {
	for i, m := range modules {
		if m.Title == "" {
			return fmt.Errorf("module %d: title is required", i)
		}
		if m.Type == model.ModuleQuiz {
			if len(m.Questions) == 0 {
				return fmt.Errorf("module %d (%s): quiz module needs at least one question", i, m.Title)
			}
			for j, q := range m.Questions {
				if !q.Valid() {
					return fmt.Errorf("module %d question %d: correct answer index out of range", i, j)
				}
			}
		}
	}
	return nil
}

func (s *CourseService) CreateCourse(creatorID uint, req CourseRequest) (*model.Course, error) {
	if err := ValidateModules(req.Modules); err != nil {
		return nil, err
	}

	content, err := model.EncodeModules(req.Modules)
	if err != nil {
		return nil, err
	}

	course := &model.Course{
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		Level:           req.Level,
		DurationMinutes: req.DurationMinutes,
		IsPremium:       req.IsPremium,
		PriceFCFA:       req.PriceFCFA,
		ThumbnailURL:    req.ThumbnailURL,
		CreatedBy:       creatorID,
		Content:         content,
	}

	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}

	logger.Log.Info("course created",
		zap.String("course_id", course.ID),
		zap.String("title", course.Title),
		zap.Uint("created_by", creatorID))

	return course, nil
}

func (s *CourseService) UpdateCourse(id string, req CourseRequest) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	if err := ValidateModules(req.Modules); err != nil {
		return nil, err
	}

	content, err := model.EncodeModules(req.Modules)
	if err != nil {
		return nil, err
	}

	course.Title = req.Title
	course.Description = req.Description
	course.Category = req.Category
	course.Level = req.Level
	course.DurationMinutes = req.DurationMinutes
	course.IsPremium = req.IsPremium
	course.PriceFCFA = req.PriceFCFA
	if req.ThumbnailURL != "" {
		course.ThumbnailURL = req.ThumbnailURL
	}
	course.Content = content

	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) DeleteCourse(id string) error {
	if _, err := s.CourseRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCourseNotFound
		}
		return err
	}
	return s.CourseRepo.Delete(id)
}

// MediaUploadResult 模块媒体上传结果，视频/音频回填探测到的时长
type MediaUploadResult struct {
	URL             string `json:"url"`
	DurationMinutes int    `json:"durationMinutes,omitempty"`
}

// UploadMedia 上传课程模块的媒体文件（视频/音频/图片）
func (s *CourseService) UploadMedia(c *gin.Context, file *multipart.FileHeader) (*MediaUploadResult, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	allowedTypes := []string{util.MimeVideo, util.MimeAudio, util.MimeImage}
	mimeType, err := util.ValidateMimeType(src, allowedTypes)
	if err != nil {
		return nil, fmt.Errorf("非法的文件内容: %v", err)
	}
	src.Seek(0, 0)

	ext := filepath.Ext(file.Filename)
	filename := "media/" + time.Now().Format("20060102150405") + "_" + util.GenerateRandomString(6) + ext

	url, err := s.StorageService.Upload(c, filename, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	result := &MediaUploadResult{URL: url}

	// 音视频落地后探测时长，创作端拿它回填模块 duration
	if util.IsVideo(mimeType) || util.IsAudio(mimeType) {
		if local := s.localPathFor(filename); local != "" {
			if info, err := util.ProbeMedia(local); err == nil {
				result.DurationMinutes = int(info.Duration+59) / 60
			} else {
				logger.Log.Warn("media probe failed", zap.String("file", filename), zap.Error(err))
			}
		}
	}

	return result, nil
}

// DeleteMedia 删除已上传的媒体对象，替换模块素材后清理旧文件用。
// 只接受 media/ 前缀的对象键，拒绝路径穿越。
func (s *CourseService) DeleteMedia(c *gin.Context, path string) error {
	if !strings.HasPrefix(path, "media/") || strings.Contains(path, "..") {
		return fmt.Errorf("非法的媒体路径: %s", path)
	}
	return s.StorageService.Delete(c, path)
}

// localPathFor 本地存储时返回磁盘路径，对象存储返回空（不再探测）
func (s *CourseService) localPathFor(filename string) string {
	if s.Cfg.Storage.Type != util.StorageLocal {
		return ""
	}
	path := filepath.Join(s.Cfg.Storage.LocalPath, filename)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
