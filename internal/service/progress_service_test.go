package service

import (
	"testing"
	"time"
	"welearn_backend/internal/model"
	"welearn_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeTextModules() []model.Module {
	return []model.Module{
		{ID: "m1", Title: "Un", Type: model.ModuleText},
		{ID: "m2", Title: "Deux", Type: model.ModuleText},
		{ID: "m3", Title: "Trois", Type: model.ModuleText},
	}
}

func newProgressFixture(modules []model.Module) (*ProgressService, *fakeCourseStore, *fakeProgressStore, *fakeAchievements, *fakeXP) {
	courses := newFakeCourseStore()
	courses.add("c1", modules)
	store := newFakeProgressStore()
	achievements := &fakeAchievements{}
	xp := &fakeXP{}

	svc := NewProgressService(courses, store, achievements, xp, testConfig())
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc, courses, store, achievements, xp
}

func TestProgress_LoadWithoutRecordReturnsZeroValue(t *testing.T) {
	svc, _, _, _, _ := newProgressFixture(threeTextModules())

	progress, err := svc.Load(7, "c1")
	require.NoError(t, err)
	assert.Empty(t, progress.CompletedList())
	assert.Equal(t, 0, progress.ProgressPercentage)
	assert.Nil(t, progress.CompletedAt)
}

func TestProgress_MarkCompleteAdvancesPercentage(t *testing.T) {
	svc, _, _, _, xp := newProgressFixture(threeTextModules())

	event, err := svc.MarkComplete(7, "c1", "m1")
	require.NoError(t, err)
	assert.Equal(t, 33, event.Progress.ProgressPercentage)
	assert.False(t, event.CourseCompleted)
	assert.Equal(t, 50, xp.total)

	event, err = svc.MarkComplete(7, "c1", "m2")
	require.NoError(t, err)
	assert.Equal(t, 67, event.Progress.ProgressPercentage)
	assert.False(t, event.CourseCompleted)
}

func TestProgress_MarkCompleteIsIdempotent(t *testing.T) {
	svc, _, store, _, xp := newProgressFixture(threeTextModules())

	_, err := svc.MarkComplete(7, "c1", "m1")
	require.NoError(t, err)
	writesAfterFirst := store.upserts

	event, err := svc.MarkComplete(7, "c1", "m1")
	require.NoError(t, err)
	assert.Equal(t, []string{"m1"}, event.Progress.CompletedList())
	assert.Equal(t, 33, event.Progress.ProgressPercentage)
	assert.Equal(t, writesAfterFirst, store.upserts, "repeat completion must not write")
	assert.Equal(t, 50, xp.total, "repeat completion must not re-award xp")
}

func TestProgress_UnknownCourse(t *testing.T) {
	svc, _, _, _, _ := newProgressFixture(threeTextModules())

	_, err := svc.MarkComplete(7, "missing", "m1")
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestProgress_PercentageClampedWithStaleModuleIDs(t *testing.T) {
	// 课程缩减后，进度记录里可能带着已不存在的模块 id
	svc, _, store, _, _ := newProgressFixture([]model.Module{
		{ID: "m1", Type: model.ModuleText},
		{ID: "m2", Type: model.ModuleText},
	})

	seeded := &model.UserProgress{UserID: 7, CourseID: "c1"}
	require.NoError(t, seeded.SetCompletedList([]string{"old-1", "old-2"}))
	require.NoError(t, store.Upsert(seeded))

	event, err := svc.MarkComplete(7, "c1", "m1")
	require.NoError(t, err)
	assert.Equal(t, 100, event.Progress.ProgressPercentage, "percentage must clamp at 100")
}

func TestProgress_UpsertFailureLeavesPriorStateVisible(t *testing.T) {
	svc, _, store, _, _ := newProgressFixture(threeTextModules())

	_, err := svc.MarkComplete(7, "c1", "m1")
	require.NoError(t, err)

	store.failUpsert = true
	_, err = svc.MarkComplete(7, "c1", "m2")
	require.Error(t, err)

	store.failUpsert = false
	progress, err := svc.Load(7, "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"m1"}, progress.CompletedList(), "failed write must not advance state")
	assert.Equal(t, 33, progress.ProgressPercentage)

	// 重试同一次完成可以成功
	event, err := svc.MarkComplete(7, "c1", "m2")
	require.NoError(t, err)
	assert.Equal(t, 67, event.Progress.ProgressPercentage)
}

func TestProgress_CourseCompletionSignalsExactlyOnce(t *testing.T) {
	svc, _, _, achievements, xp := newProgressFixture([]model.Module{
		{ID: "m1", Type: model.ModuleText},
		{ID: "m2", Type: model.ModuleText},
	})

	_, err := svc.MarkComplete(7, "c1", "m1")
	require.NoError(t, err)
	assert.Empty(t, achievements.recorded)

	event, err := svc.MarkComplete(7, "c1", "m2")
	require.NoError(t, err)
	assert.True(t, event.CourseCompleted)
	require.NotNil(t, event.Progress.CompletedAt)
	assert.Equal(t, []string{"c1:course_completed"}, achievements.recorded)

	// 完课后重复完成任一模块都不再触发信号
	event, err = svc.MarkComplete(7, "c1", "m1")
	require.NoError(t, err)
	assert.False(t, event.CourseCompleted)
	assert.Len(t, achievements.recorded, 1, "terminal signal must fire exactly once")
	assert.Equal(t, 100, xp.total)
}

func TestProgress_MarkQuizCompleteRecordsScore(t *testing.T) {
	svc, _, _, _, _ := newProgressFixture([]model.Module{
		{ID: "m1", Type: model.ModuleText},
		{ID: "quiz-1", Type: model.ModuleQuiz},
	})

	event, err := svc.MarkQuizComplete(7, "c1", "quiz-1", 75)
	require.NoError(t, err)
	assert.Equal(t, 50, event.Progress.ProgressPercentage)
	assert.Equal(t, 75, event.Progress.QuizScoreMap()["quiz-1"])
}

func TestProgress_QuizRetakeRefreshesScoreWithoutRecount(t *testing.T) {
	svc, _, _, _, _ := newProgressFixture([]model.Module{
		{ID: "quiz-1", Type: model.ModuleQuiz},
		{ID: "m2", Type: model.ModuleText},
	})

	_, err := svc.MarkQuizComplete(7, "c1", "quiz-1", 40)
	require.NoError(t, err)

	event, err := svc.MarkQuizComplete(7, "c1", "quiz-1", 90)
	require.NoError(t, err)
	assert.Equal(t, []string{"quiz-1"}, event.Progress.CompletedList())
	assert.Equal(t, 50, event.Progress.ProgressPercentage)
	assert.Equal(t, 90, event.Progress.QuizScoreMap()["quiz-1"])
	assert.False(t, event.CourseCompleted)
}

func TestProgress_AddTimeSpentAccumulates(t *testing.T) {
	svc, _, _, _, _ := newProgressFixture(threeTextModules())

	require.NoError(t, svc.AddTimeSpent(7, "c1", 10))
	require.NoError(t, svc.AddTimeSpent(7, "c1", 5))
	require.NoError(t, svc.AddTimeSpent(7, "c1", 0)) // 非正数忽略

	progress, err := svc.Load(7, "c1")
	require.NoError(t, err)
	assert.Equal(t, 15, progress.TimeSpentMinutes)
}

func TestComputePercentage(t *testing.T) {
	assert.Equal(t, 0, computePercentage(0, 3))
	assert.Equal(t, 33, computePercentage(1, 3))
	assert.Equal(t, 67, computePercentage(2, 3))
	assert.Equal(t, 100, computePercentage(3, 3))
	assert.Equal(t, 100, computePercentage(5, 3), "stale ids clamp at 100")
	assert.Equal(t, 100, computePercentage(1, 0), "zero modules uses denominator 1")
	assert.Equal(t, 0, computePercentage(0, 0))
}
