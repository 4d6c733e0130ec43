package service

import (
	"testing"
	"time"
	"welearn_backend/internal/model"
	"welearn_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type playbackFixture struct {
	svc      *PlaybackService
	progress *ProgressService
	store    *fakeProgressStore
	attempts *fakeAttempts
	now      time.Time
}

func newPlaybackFixture(t *testing.T, modules []model.Module) *playbackFixture {
	t.Helper()

	courses := newFakeCourseStore()
	courses.add("c1", modules)
	store := newFakeProgressStore()
	attempts := &fakeAttempts{}

	cfg := testConfig()
	progress := NewProgressService(courses, store, &fakeAchievements{}, &fakeXP{}, cfg)
	svc := NewPlaybackService(courses, progress, attempts, cfg)

	f := &playbackFixture{
		svc:      svc,
		progress: progress,
		store:    store,
		attempts: attempts,
		now:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return f.now }
	svc.now = clock
	progress.now = clock
	return f
}

func (f *playbackFixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func mixedModules() []model.Module {
	return []model.Module{
		{ID: "intro", Title: "Intro", Type: model.ModuleVideo},
		{ID: "lesson", Title: "Leçon", Type: model.ModuleText},
		{ID: "quiz", Title: "Quiz", Type: model.ModuleQuiz, Questions: []model.Question{
			{Question: "Q1", Options: []string{"A", "B", "C"}, CorrectAnswer: 1, Points: 2},
			{Question: "Q2", Options: []string{"Vrai", "Faux"}, CorrectAnswer: 0, Points: 1},
		}},
	}
}

func TestPlayback_StartAlwaysBeginsAtFirstModule(t *testing.T) {
	f := newPlaybackFixture(t, mixedModules())

	// 已有进度也从头开始
	seeded := &model.UserProgress{UserID: 7, CourseID: "c1", ProgressPercentage: 67}
	require.NoError(t, seeded.SetCompletedList([]string{"intro", "lesson"}))
	require.NoError(t, f.store.Upsert(seeded))

	state, err := f.svc.Start(7, "c1")
	require.NoError(t, err)
	assert.Equal(t, 0, state.Index)
	assert.Equal(t, 3, state.Total)
	require.NotNil(t, state.Current)
	assert.Equal(t, "intro", state.Current.ID)
	assert.True(t, state.Current.Completed)
	assert.Equal(t, 67, state.ProgressPercentage)
}

func TestPlayback_StartUnknownCourse(t *testing.T) {
	f := newPlaybackFixture(t, mixedModules())

	_, err := f.svc.Start(7, "missing")
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestPlayback_StateWithoutSession(t *testing.T) {
	f := newPlaybackFixture(t, mixedModules())

	_, err := f.svc.State(7, "c1")
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}

func TestPlayback_NavigationClampsAtBounds(t *testing.T) {
	f := newPlaybackFixture(t, mixedModules())
	_, err := f.svc.Start(7, "c1")
	require.NoError(t, err)

	// 起点再往前是无操作
	state, err := f.svc.Previous(7, "c1")
	require.NoError(t, err)
	assert.Equal(t, 0, state.Index)

	_, err = f.svc.Next(7, "c1")
	require.NoError(t, err)
	_, err = f.svc.Next(7, "c1")
	require.NoError(t, err)
	state, err = f.svc.Next(7, "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, state.Index, "must stay at last module")
}

func TestPlayback_JumpToValidatesIndex(t *testing.T) {
	f := newPlaybackFixture(t, mixedModules())
	_, err := f.svc.Start(7, "c1")
	require.NoError(t, err)

	state, err := f.svc.JumpTo(7, "c1", 2)
	require.NoError(t, err)
	assert.Equal(t, "quiz", state.Current.ID)

	_, err = f.svc.JumpTo(7, "c1", 3)
	assert.ErrorIs(t, err, util.ErrModuleOutOfRange)
	_, err = f.svc.JumpTo(7, "c1", -1)
	assert.ErrorIs(t, err, util.ErrModuleOutOfRange)
}

func TestPlayback_EmptyCourseIsInertState(t *testing.T) {
	f := newPlaybackFixture(t, nil)

	state, err := f.svc.Start(7, "c1")
	require.NoError(t, err)
	assert.Equal(t, 0, state.Total)
	assert.Nil(t, state.Current)

	// 所有导航都是无操作，不报错
	state, err = f.svc.Next(7, "c1")
	require.NoError(t, err)
	assert.Nil(t, state.Current)
	state, err = f.svc.Previous(7, "c1")
	require.NoError(t, err)
	assert.Nil(t, state.Current)

	_, _, err = f.svc.CompleteCurrent(7, "c1")
	assert.ErrorIs(t, err, util.ErrNoPlayableModules)
	_, err = f.svc.StartQuiz(7, "c1")
	assert.ErrorIs(t, err, util.ErrNoPlayableModules)
}

func TestPlayback_CompleteCurrentRejectsQuizModules(t *testing.T) {
	f := newPlaybackFixture(t, mixedModules())
	_, err := f.svc.Start(7, "c1")
	require.NoError(t, err)

	_, err = f.svc.JumpTo(7, "c1", 2)
	require.NoError(t, err)

	_, _, err = f.svc.CompleteCurrent(7, "c1")
	assert.ErrorIs(t, err, util.ErrQuizGated)

	progress, err := f.progress.Load(7, "c1")
	require.NoError(t, err)
	assert.False(t, progress.HasCompleted("quiz"))
}

func TestPlayback_CompleteCurrentMarksNonQuizModules(t *testing.T) {
	f := newPlaybackFixture(t, mixedModules())
	_, err := f.svc.Start(7, "c1")
	require.NoError(t, err)

	event, state, err := f.svc.CompleteCurrent(7, "c1")
	require.NoError(t, err)
	assert.Equal(t, 33, event.Progress.ProgressPercentage)
	assert.True(t, state.Current.Completed)
	assert.False(t, event.CourseCompleted)
}

func TestPlayback_QuizFlowHappyPath(t *testing.T) {
	f := newPlaybackFixture(t, mixedModules())
	_, err := f.svc.Start(7, "c1")
	require.NoError(t, err)
	_, err = f.svc.JumpTo(7, "c1", 2)
	require.NoError(t, err)

	question, err := f.svc.StartQuiz(7, "c1")
	require.NoError(t, err)
	assert.Equal(t, 0, question.Index)
	assert.Equal(t, 2, question.Total)
	assert.Equal(t, 30, question.SecondsLeft)

	// 第一题答对
	result, err := f.svc.AnswerQuiz(7, "c1", 1)
	require.NoError(t, err)
	assert.True(t, result.Correct)
	assert.False(t, result.TimedOut)
	assert.Equal(t, 1, result.CorrectAnswer)

	advance, err := f.svc.NextQuizQuestion(7, "c1")
	require.NoError(t, err)
	assert.False(t, advance.Finished)
	assert.Equal(t, 1, advance.Question.Index)

	// 第二题答错
	result, err = f.svc.AnswerQuiz(7, "c1", 1)
	require.NoError(t, err)
	assert.False(t, result.Correct)

	advance, err = f.svc.NextQuizQuestion(7, "c1")
	require.NoError(t, err)
	require.True(t, advance.Finished)
	require.NotNil(t, advance.Result)
	assert.Equal(t, 50, advance.Result.Score)
	assert.Equal(t, 1, advance.Result.Correct)
	assert.Equal(t, 2, advance.Result.Points)
	assert.Equal(t, 3, advance.Result.TotalPoints)

	// 测验完成把模块计入进度
	progress, err := f.progress.Load(7, "c1")
	require.NoError(t, err)
	assert.True(t, progress.HasCompleted("quiz"))
	assert.Equal(t, 50, progress.QuizScoreMap()["quiz"])

	// 作答留痕
	require.Len(t, f.attempts.attempts, 1)
	assert.Equal(t, 50, f.attempts.attempts[0].Score)
	assert.Equal(t, "quiz", f.attempts.attempts[0].ModuleID)
}

func TestPlayback_QuizHistory(t *testing.T) {
	f := newPlaybackFixture(t, mixedModules())
	_, err := f.svc.Start(7, "c1")
	require.NoError(t, err)
	_, err = f.svc.JumpTo(7, "c1", 2)
	require.NoError(t, err)

	_, err = f.svc.StartQuiz(7, "c1")
	require.NoError(t, err)
	_, err = f.svc.AnswerQuiz(7, "c1", 1)
	require.NoError(t, err)
	_, err = f.svc.NextQuizQuestion(7, "c1")
	require.NoError(t, err)
	_, err = f.svc.AnswerQuiz(7, "c1", 0)
	require.NoError(t, err)
	_, err = f.svc.NextQuizQuestion(7, "c1")
	require.NoError(t, err)

	history, err := f.svc.QuizHistory(7, "c1")
	require.NoError(t, err)
	require.Len(t, history.Attempts, 1)
	assert.Equal(t, 100, history.Attempts[0].Score)
	assert.Equal(t, float64(100), history.AverageScore)

	// 别人的记录互不可见
	other, err := f.svc.QuizHistory(8, "c1")
	require.NoError(t, err)
	assert.Empty(t, other.Attempts)

	_, err = f.svc.QuizHistory(7, "missing")
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestPlayback_QuizAnswerAfterDeadlineIsTimedOut(t *testing.T) {
	f := newPlaybackFixture(t, mixedModules())
	_, err := f.svc.Start(7, "c1")
	require.NoError(t, err)
	_, err = f.svc.JumpTo(7, "c1", 2)
	require.NoError(t, err)
	_, err = f.svc.StartQuiz(7, "c1")
	require.NoError(t, err)

	f.advance(31 * time.Second)

	result, err := f.svc.AnswerQuiz(7, "c1", 1)
	require.NoError(t, err)
	assert.False(t, result.Correct, "late answer scores as incorrect even if right")
	assert.True(t, result.TimedOut)
	assert.Equal(t, 1, result.CorrectAnswer, "reveal still carries the correct index")
}

func TestPlayback_QuizExplicitTimeout(t *testing.T) {
	f := newPlaybackFixture(t, mixedModules())
	_, err := f.svc.Start(7, "c1")
	require.NoError(t, err)
	_, err = f.svc.JumpTo(7, "c1", 2)
	require.NoError(t, err)
	_, err = f.svc.StartQuiz(7, "c1")
	require.NoError(t, err)

	result, err := f.svc.TimeoutQuiz(7, "c1")
	require.NoError(t, err)
	assert.True(t, result.TimedOut)
	assert.False(t, result.Correct)

	// 超时后本题已判定，不能再作答
	_, err = f.svc.AnswerQuiz(7, "c1", 0)
	assert.ErrorIs(t, err, util.ErrAlreadyAnswered)
}

func TestPlayback_QuizGuards(t *testing.T) {
	f := newPlaybackFixture(t, mixedModules())
	_, err := f.svc.Start(7, "c1")
	require.NoError(t, err)

	// 非测验模块上开始测验
	_, err = f.svc.StartQuiz(7, "c1")
	assert.ErrorIs(t, err, util.ErrNoActiveQuiz)

	// 没有进行中的测验
	_, err = f.svc.AnswerQuiz(7, "c1", 0)
	assert.ErrorIs(t, err, util.ErrNoActiveQuiz)
	_, err = f.svc.NextQuizQuestion(7, "c1")
	assert.ErrorIs(t, err, util.ErrNoActiveQuiz)

	_, err = f.svc.JumpTo(7, "c1", 2)
	require.NoError(t, err)
	_, err = f.svc.StartQuiz(7, "c1")
	require.NoError(t, err)

	// 未作答不能推进
	_, err = f.svc.NextQuizQuestion(7, "c1")
	assert.ErrorIs(t, err, util.ErrNotRevealed)

	// 选项越界
	_, err = f.svc.AnswerQuiz(7, "c1", 3)
	assert.ErrorIs(t, err, util.ErrAnswerOutOfRange)

	// 作答一次后重复作答被拒
	_, err = f.svc.AnswerQuiz(7, "c1", 0)
	require.NoError(t, err)
	_, err = f.svc.AnswerQuiz(7, "c1", 1)
	assert.ErrorIs(t, err, util.ErrAlreadyAnswered)
}

func TestPlayback_QuizWithoutQuestionsRejected(t *testing.T) {
	f := newPlaybackFixture(t, []model.Module{
		{ID: "empty-quiz", Type: model.ModuleQuiz},
	})
	_, err := f.svc.Start(7, "c1")
	require.NoError(t, err)

	_, err = f.svc.StartQuiz(7, "c1")
	assert.ErrorIs(t, err, util.ErrQuizHasNoQuestions)
}

func TestPlayback_NavigationCancelsActiveQuiz(t *testing.T) {
	f := newPlaybackFixture(t, mixedModules())
	_, err := f.svc.Start(7, "c1")
	require.NoError(t, err)
	_, err = f.svc.JumpTo(7, "c1", 2)
	require.NoError(t, err)
	_, err = f.svc.StartQuiz(7, "c1")
	require.NoError(t, err)

	_, err = f.svc.Previous(7, "c1")
	require.NoError(t, err)

	_, err = f.svc.AnswerQuiz(7, "c1", 0)
	assert.ErrorIs(t, err, util.ErrNoActiveQuiz)
}

func TestPlayback_CompletingLastModuleFinishesCourseAndKeepsNavigation(t *testing.T) {
	f := newPlaybackFixture(t, []model.Module{
		{ID: "a", Type: model.ModuleText},
		{ID: "b", Type: model.ModuleText},
	})
	_, err := f.svc.Start(7, "c1")
	require.NoError(t, err)

	_, _, err = f.svc.CompleteCurrent(7, "c1")
	require.NoError(t, err)
	_, err = f.svc.Next(7, "c1")
	require.NoError(t, err)

	event, state, err := f.svc.CompleteCurrent(7, "c1")
	require.NoError(t, err)
	assert.True(t, event.CourseCompleted)
	assert.True(t, state.CourseCompleted)

	// 完课后仍可自由浏览
	state, err = f.svc.Previous(7, "c1")
	require.NoError(t, err)
	assert.Equal(t, 0, state.Index)
	assert.True(t, state.CourseCompleted)
}
