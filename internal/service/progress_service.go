package service

import (
	"errors"
	"math"
	"time"
	"welearn_backend/internal/config"
	"welearn_backend/internal/model"
	"welearn_backend/internal/util"
	"welearn_backend/pkg/logger"
	"welearn_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProgressService 维护学员 × 课程的进度记录。
// 完成集合是模块 id 的集合（幂等），百分比在每次变更时按当前模块总数重算并夹在 [0,100]，
// 首次到达 100% 时落库 CompletedAt，完课信号只触发一次。
type ProgressService struct {
	Courses      CourseStore
	Store        ProgressStore
	Achievements AchievementRecorder
	XP           XPAwarder
	Cfg          *config.Config

	now func() time.Time
}

func NewProgressService(
	courses CourseStore,
	store ProgressStore,
	achievements AchievementRecorder,
	xp XPAwarder,
	cfg *config.Config,
) *ProgressService {
	return &ProgressService{
		Courses:      courses,
		Store:        store,
		Achievements: achievements,
		XP:           xp,
		Cfg:          cfg,
		now:          time.Now,
	}
}

// CompletionEvent MarkComplete 的结果：更新后的记录，以及本次调用是否触发了完课信号
type CompletionEvent struct {
	Progress        *model.UserProgress `json:"progress"`
	CourseCompleted bool                `json:"courseCompleted"`
}

// Load 读取进度记录；还没有任何进度不是错误，返回零值记录
func (s *ProgressService) Load(userID uint, courseID string) (*model.UserProgress, error) {
	progress, err := s.Store.Find(userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			zero := &model.UserProgress{
				UserID:   userID,
				CourseID: courseID,
			}
			zero.SetCompletedList([]string{})
			return zero, nil
		}
		return nil, err
	}
	return progress, nil
}

// MarkComplete 把一个非测验模块计入完成集合
func (s *ProgressService) MarkComplete(userID uint, courseID, moduleID string) (*CompletionEvent, error) {
	return s.markComplete(userID, courseID, moduleID, nil)
}

// MarkQuizComplete 测验流程结束后的完成入口，同时记录测验得分。
// 这是测验模块进入完成集合的唯一路径。
func (s *ProgressService) MarkQuizComplete(userID uint, courseID, moduleID string, score int) (*CompletionEvent, error) {
	return s.markComplete(userID, courseID, moduleID, &score)
}

func (s *ProgressService) markComplete(userID uint, courseID, moduleID string, quizScore *int) (*CompletionEvent, error) {
	course, err := s.Courses.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	modules := model.DecodeModules(course.Content)

	prior, err := s.Load(userID, courseID)
	if err != nil {
		return nil, err
	}

	now := s.now()

	// 幂等：重复完成同一模块不改变集合和百分比
	if prior.HasCompleted(moduleID) {
		if quizScore == nil {
			return &CompletionEvent{Progress: prior, CourseCompleted: false}, nil
		}
		// 重考已完成的测验模块：只刷新得分，不动完成集合
		updated := *prior
		if err := updated.SetQuizScore(moduleID, *quizScore); err != nil {
			return nil, err
		}
		updated.LastAccessedAt = now
		if err := s.Store.Upsert(&updated); err != nil {
			return nil, err
		}
		return &CompletionEvent{Progress: &updated, CourseCompleted: false}, nil
	}

	updated := *prior
	ids := append(prior.CompletedList(), moduleID)
	if err := updated.SetCompletedList(ids); err != nil {
		return nil, err
	}
	updated.ProgressPercentage = computePercentage(len(ids), len(modules))
	updated.LastAccessedAt = now
	if quizScore != nil {
		if err := updated.SetQuizScore(moduleID, *quizScore); err != nil {
			return nil, err
		}
	}

	courseCompleted := updated.ProgressPercentage == 100 && prior.CompletedAt == nil
	if courseCompleted {
		completedAt := now
		updated.CompletedAt = &completedAt
	}

	// 写失败时本地状态不推进：调用方拿到的还是写前的记录，可安全重试
	if err := s.Store.Upsert(&updated); err != nil {
		logger.Log.Error("progress upsert failed",
			zap.Uint("user_id", userID),
			zap.String("course_id", courseID),
			zap.String("module_id", moduleID),
			zap.Error(err))
		return nil, err
	}

	monitoring.ModuleCompletions.WithLabelValues(string(moduleTypeOf(modules, moduleID))).Inc()

	// 积分奖励是附带效果，失败只记日志
	if s.XP != nil {
		if err := s.XP.UpdateXP(userID, s.Cfg.Rewards.ModuleXP); err != nil {
			logger.Log.Warn("xp award failed", zap.Uint("user_id", userID), zap.Error(err))
		}
	}

	if courseCompleted {
		monitoring.CourseCompletions.Inc()
		logger.Log.Info("course completed",
			zap.Uint("user_id", userID),
			zap.String("course_id", courseID))

		// 完课信号：成就/证书解锁由协作方处理，失败不回滚进度
		if s.Achievements != nil {
			if err := s.Achievements.RecordAchievement(userID, courseID, model.AchievementCourseCompleted); err != nil {
				logger.Log.Warn("record achievement failed",
					zap.Uint("user_id", userID),
					zap.String("course_id", courseID),
					zap.Error(err))
			}
		}
	}

	return &CompletionEvent{Progress: &updated, CourseCompleted: courseCompleted}, nil
}

// AddTimeSpent 累计学习时长，供仪表盘统计
func (s *ProgressService) AddTimeSpent(userID uint, courseID string, minutes int) error {
	if minutes <= 0 {
		return nil
	}

	progress, err := s.Load(userID, courseID)
	if err != nil {
		return err
	}

	updated := *progress
	updated.TimeSpentMinutes += minutes
	updated.LastAccessedAt = s.now()
	return s.Store.Upsert(&updated)
}

// computePercentage 完成度 = round(100·已完成/总数)，夹在 [0,100]。
// 完成集合里混入过期/外来模块 id 时朴素公式会超过 100，这里强制封顶。
func computePercentage(completed, total int) int {
	if total <= 0 {
		total = 1
	}
	pct := int(math.Round(float64(completed) / float64(total) * 100))
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	return pct
}

func moduleTypeOf(modules []model.Module, moduleID string) model.ModuleType {
	for _, m := range modules {
		if m.ID == moduleID {
			return m.Type
		}
	}
	return "unknown"
}
