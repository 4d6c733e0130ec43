package service

import (
	"errors"
	"fmt"
	"welearn_backend/internal/config"
	"welearn_backend/internal/model"
	"welearn_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	logger.Log = zap.NewNop()
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Quiz.QuestionSeconds = 30
	cfg.Rewards.ModuleXP = 50
	cfg.Rewards.CourseCompletionXP = 200
	return cfg
}

// fakeCourseStore 内存课程表
type fakeCourseStore struct {
	courses map[string]*model.Course
}

func newFakeCourseStore() *fakeCourseStore {
	return &fakeCourseStore{courses: make(map[string]*model.Course)}
}

func (f *fakeCourseStore) add(id string, modules []model.Module) *model.Course {
	content, err := model.EncodeModules(modules)
	if err != nil {
		panic(err)
	}
	course := &model.Course{Title: "Cours " + id, Content: content}
	course.ID = id
	f.courses[id] = course
	return course
}

func (f *fakeCourseStore) FindByID(id string) (*model.Course, error) {
	course, ok := f.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return course, nil
}

// fakeProgressStore 内存进度表，可注入写失败
type fakeProgressStore struct {
	records    map[string]*model.UserProgress
	upserts    int
	failUpsert bool
}

func newFakeProgressStore() *fakeProgressStore {
	return &fakeProgressStore{records: make(map[string]*model.UserProgress)}
}

func progressKey(userID uint, courseID string) string {
	return fmt.Sprintf("%d/%s", userID, courseID)
}

func (f *fakeProgressStore) Find(userID uint, courseID string) (*model.UserProgress, error) {
	record, ok := f.records[progressKey(userID, courseID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *record
	return &copied, nil
}

func (f *fakeProgressStore) Upsert(progress *model.UserProgress) error {
	if f.failUpsert {
		return errors.New("datastore unavailable")
	}
	f.upserts++
	copied := *progress
	f.records[progressKey(progress.UserID, progress.CourseID)] = &copied
	return nil
}

// fakeAchievements 记录完课信号
type fakeAchievements struct {
	recorded []string
}

func (f *fakeAchievements) RecordAchievement(userID uint, courseID, kind string) error {
	f.recorded = append(f.recorded, courseID+":"+kind)
	return nil
}

// fakeXP 累计发放的积分
type fakeXP struct {
	total int
}

func (f *fakeXP) UpdateXP(userID uint, xp int) error {
	f.total += xp
	return nil
}

// fakeAttempts 测验作答留痕
type fakeAttempts struct {
	attempts []*model.QuizAttempt
}

func (f *fakeAttempts) Create(attempt *model.QuizAttempt) error {
	f.attempts = append(f.attempts, attempt)
	return nil
}

func (f *fakeAttempts) FindByUserAndCourse(userID uint, courseID string) ([]model.QuizAttempt, error) {
	var out []model.QuizAttempt
	for _, a := range f.attempts {
		if a.UserID == userID && a.CourseID == courseID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAttempts) AverageScore(userID uint, courseID string) (float64, error) {
	sum, n := 0, 0
	for _, a := range f.attempts {
		if a.UserID == userID && a.CourseID == courseID {
			sum += a.Score
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return float64(sum) / float64(n), nil
}
