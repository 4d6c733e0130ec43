package service

import (
	"encoding/json"
	"errors"
	"math"
	"sync"
	"time"
	"welearn_backend/internal/config"
	"welearn_backend/internal/model"
	"welearn_backend/internal/util"
	"welearn_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PlaybackService 课程播放会话。每个 (学员, 课程) 同时只有一个会话，
// 会话内的导航和测验状态都在内存里，重新进入课程总是从第一个模块开始。
type PlaybackService struct {
	Courses  CourseStore
	Progress *ProgressService
	Attempts AttemptStore
	Cfg      *config.Config

	mu       sync.Mutex
	sessions map[sessionKey]*playbackSession

	now func() time.Time
}

type sessionKey struct {
	userID   uint
	courseID string
}

type playbackSession struct {
	mu       sync.Mutex
	courseID string
	modules  []model.Module
	index    int
	quiz     *quizRun
}

// quizRun 当前测验模块的一次作答。计时不开协程：
// 每题记录下发时刻，提交时对照截止时间判定是否超时。
type quizRun struct {
	moduleID  string
	questions []model.Question
	index     int
	answers   []int // 每题选项下标，-1 表示超时
	correct   int
	points    int
	answered  bool
	startedAt time.Time
	askedAt   time.Time
}

func NewPlaybackService(courses CourseStore, progress *ProgressService, attempts AttemptStore, cfg *config.Config) *PlaybackService {
	return &PlaybackService{
		Courses:  courses,
		Progress: progress,
		Attempts: attempts,
		Cfg:      cfg,
		sessions: make(map[sessionKey]*playbackSession),
		now:      time.Now,
	}
}

// ModuleView 下发给前端的模块视图。测验模块的题目不在这里展开，
// 需要进入测验流程逐题领取，避免把正确答案整包发给客户端。
type ModuleView struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Type            model.ModuleType `json:"type"`
	Content         string           `json:"content,omitempty"`
	VideoURL        string           `json:"videoUrl,omitempty"`
	AudioURL        string           `json:"audioUrl,omitempty"`
	DurationMinutes int              `json:"duration,omitempty"`
	QuestionCount   int              `json:"questionCount,omitempty"`
	Completed       bool             `json:"completed"`
}

// PlaybackState 会话快照
type PlaybackState struct {
	CourseID           string      `json:"courseId"`
	Index              int         `json:"index"`
	Total              int         `json:"total"`
	Current            *ModuleView `json:"current,omitempty"`
	CompletedModules   []string    `json:"completedModules"`
	ProgressPercentage int         `json:"progressPercentage"`
	CourseCompleted    bool        `json:"courseCompleted"`
	QuizActive         bool        `json:"quizActive"`
}

// QuestionView 单题视图，不含正确答案和解析
type QuestionView struct {
	Index       int      `json:"index"`
	Total       int      `json:"total"`
	Text        string   `json:"text"`
	Options     []string `json:"options"`
	Points      int      `json:"points"`
	SecondsLeft int      `json:"secondsLeft"`
}

// AnswerResult 作答判定，此时才揭示正确选项与解析
type AnswerResult struct {
	Correct       bool   `json:"correct"`
	TimedOut      bool   `json:"timedOut"`
	CorrectAnswer int    `json:"correctAnswer"`
	Explanation   string `json:"explanation,omitempty"`
}

// QuizResult 整场测验的结果
type QuizResult struct {
	Score       int              `json:"score"`
	Correct     int              `json:"correct"`
	Total       int              `json:"total"`
	Points      int              `json:"points"`
	TotalPoints int              `json:"totalPoints"`
	TimeSeconds int              `json:"timeSeconds"`
	Completion  *CompletionEvent `json:"completion"`
}

// QuizAdvance 确认判定后推进测验：要么是下一题，要么整场结束
type QuizAdvance struct {
	Finished bool          `json:"finished"`
	Question *QuestionView `json:"question,omitempty"`
	Result   *QuizResult   `json:"result,omitempty"`
}

// Start 进入课程播放。会覆盖同一 (学员, 课程) 的旧会话。
func (s *PlaybackService) Start(userID uint, courseID string) (*PlaybackState, error) {
	course, err := s.Courses.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	session := &playbackSession{
		courseID: courseID,
		modules:  model.DecodeModules(course.Content),
		index:    0,
	}

	s.mu.Lock()
	s.sessions[sessionKey{userID, courseID}] = session
	s.mu.Unlock()

	return s.snapshot(userID, session)
}

// State 读取当前会话快照
func (s *PlaybackService) State(userID uint, courseID string) (*PlaybackState, error) {
	session, err := s.session(userID, courseID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	return s.snapshot(userID, session)
}

// Previous 上一个模块，已在开头时原地不动
func (s *PlaybackService) Previous(userID uint, courseID string) (*PlaybackState, error) {
	return s.navigate(userID, courseID, func(sess *playbackSession) {
		if sess.index > 0 {
			sess.index--
		}
	})
}

// Next 下一个模块，已在末尾时原地不动
func (s *PlaybackService) Next(userID uint, courseID string) (*PlaybackState, error) {
	return s.navigate(userID, courseID, func(sess *playbackSession) {
		if sess.index < len(sess.modules)-1 {
			sess.index++
		}
	})
}

// JumpTo 跳到任意模块，不要求前面的模块已完成
func (s *PlaybackService) JumpTo(userID uint, courseID string, index int) (*PlaybackState, error) {
	session, err := s.session(userID, courseID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	if index < 0 || index >= len(session.modules) {
		return nil, util.ErrModuleOutOfRange
	}
	session.index = index
	session.quiz = nil
	return s.snapshot(userID, session)
}

func (s *PlaybackService) navigate(userID uint, courseID string, move func(*playbackSession)) (*PlaybackState, error) {
	session, err := s.session(userID, courseID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	move(session)
	session.quiz = nil
	return s.snapshot(userID, session)
}

// CompleteCurrent 把当前模块记为完成。测验模块不能走这里，
// 只能通过测验流程交卷后完成。
func (s *PlaybackService) CompleteCurrent(userID uint, courseID string) (*CompletionEvent, *PlaybackState, error) {
	session, err := s.session(userID, courseID)
	if err != nil {
		return nil, nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	module, ok := session.current()
	if !ok {
		return nil, nil, util.ErrNoPlayableModules
	}
	if module.IsQuiz() {
		return nil, nil, util.ErrQuizGated
	}

	event, err := s.Progress.MarkComplete(userID, courseID, module.ID)
	if err != nil {
		return nil, nil, err
	}

	state, err := s.snapshot(userID, session)
	if err != nil {
		return nil, nil, err
	}
	return event, state, nil
}

// StartQuiz 进入当前测验模块的作答流程，下发第一题并开始计时
func (s *PlaybackService) StartQuiz(userID uint, courseID string) (*QuestionView, error) {
	session, err := s.session(userID, courseID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	module, ok := session.current()
	if !ok {
		return nil, util.ErrNoPlayableModules
	}
	if !module.IsQuiz() {
		return nil, util.ErrNoActiveQuiz
	}
	if len(module.Questions) == 0 {
		return nil, util.ErrQuizHasNoQuestions
	}

	now := s.now()
	session.quiz = &quizRun{
		moduleID:  module.ID,
		questions: module.Questions,
		answers:   make([]int, 0, len(module.Questions)),
		startedAt: now,
		askedAt:   now,
	}
	return s.questionView(session.quiz), nil
}

// AnswerQuiz 提交当前题的选项。截止时间已过的提交按超时判错。
func (s *PlaybackService) AnswerQuiz(userID uint, courseID string, answer int) (*AnswerResult, error) {
	session, err := s.session(userID, courseID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	quiz := session.quiz
	if quiz == nil {
		return nil, util.ErrNoActiveQuiz
	}
	if quiz.answered {
		return nil, util.ErrAlreadyAnswered
	}

	question := quiz.questions[quiz.index]
	if answer < 0 || answer >= len(question.Options) {
		return nil, util.ErrAnswerOutOfRange
	}

	if s.now().After(quiz.deadline(s.Cfg.Quiz.QuestionSeconds)) {
		return quiz.record(-1, question), nil
	}
	return quiz.record(answer, question), nil
}

// TimeoutQuiz 客户端倒计时走完时上报，当前题按答错处理
func (s *PlaybackService) TimeoutQuiz(userID uint, courseID string) (*AnswerResult, error) {
	session, err := s.session(userID, courseID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	quiz := session.quiz
	if quiz == nil {
		return nil, util.ErrNoActiveQuiz
	}
	if quiz.answered {
		return nil, util.ErrAlreadyAnswered
	}
	return quiz.record(-1, quiz.questions[quiz.index]), nil
}

// NextQuizQuestion 确认本题判定后推进。最后一题确认后整场结束：
// 计分、落库作答记录、把测验模块计入课程完成集合。
func (s *PlaybackService) NextQuizQuestion(userID uint, courseID string) (*QuizAdvance, error) {
	session, err := s.session(userID, courseID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	quiz := session.quiz
	if quiz == nil {
		return nil, util.ErrNoActiveQuiz
	}
	if !quiz.answered {
		return nil, util.ErrNotRevealed
	}

	if quiz.index < len(quiz.questions)-1 {
		quiz.index++
		quiz.answered = false
		quiz.askedAt = s.now()
		return &QuizAdvance{Question: s.questionView(quiz)}, nil
	}

	result, err := s.finishQuiz(userID, session, quiz)
	if err != nil {
		return nil, err
	}
	session.quiz = nil
	return &QuizAdvance{Finished: true, Result: result}, nil
}

func (s *PlaybackService) finishQuiz(userID uint, session *playbackSession, quiz *quizRun) (*QuizResult, error) {
	total := len(quiz.questions)
	score := int(math.Round(float64(quiz.correct) / float64(total) * 100))
	totalPoints := 0
	for _, q := range quiz.questions {
		totalPoints += q.Points
	}
	elapsed := int(s.now().Sub(quiz.startedAt).Seconds())

	if s.Attempts != nil {
		answers, _ := json.Marshal(quiz.answers)
		attempt := &model.QuizAttempt{
			UserID:           userID,
			CourseID:         session.courseID,
			ModuleID:         quiz.moduleID,
			Answers:          answers,
			Score:            score,
			Points:           quiz.points,
			TimeTakenSeconds: elapsed,
			CompletedAt:      s.now(),
		}
		if err := s.Attempts.Create(attempt); err != nil {
			// 作答明细丢失不阻断交卷，进度仍要推进
			logger.Log.Warn("save quiz attempt failed",
				zap.Uint("user_id", userID),
				zap.String("course_id", session.courseID),
				zap.Error(err))
		}
	}

	event, err := s.Progress.MarkQuizComplete(userID, session.courseID, quiz.moduleID, score)
	if err != nil {
		return nil, err
	}

	return &QuizResult{
		Score:       score,
		Correct:     quiz.correct,
		Total:       total,
		Points:      quiz.points,
		TotalPoints: totalPoints,
		TimeSeconds: elapsed,
		Completion:  event,
	}, nil
}

// QuizHistory 该课程的历史作答记录与平均分
type QuizHistory struct {
	Attempts     []model.QuizAttempt `json:"attempts"`
	AverageScore float64             `json:"averageScore"`
}

func (s *PlaybackService) QuizHistory(userID uint, courseID string) (*QuizHistory, error) {
	if _, err := s.Courses.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	if s.Attempts == nil {
		return &QuizHistory{Attempts: []model.QuizAttempt{}}, nil
	}

	attempts, err := s.Attempts.FindByUserAndCourse(userID, courseID)
	if err != nil {
		return nil, err
	}
	average, err := s.Attempts.AverageScore(userID, courseID)
	if err != nil {
		return nil, err
	}
	return &QuizHistory{Attempts: attempts, AverageScore: average}, nil
}

func (s *PlaybackService) session(userID uint, courseID string) (*playbackSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionKey{userID, courseID}]
	if !ok {
		return nil, util.ErrSessionNotFound
	}
	return session, nil
}

// snapshot 组装会话快照，进度部分总是取最新落库状态。
// 调用方需已持有 session.mu。
func (s *PlaybackService) snapshot(userID uint, session *playbackSession) (*PlaybackState, error) {
	progress, err := s.Progress.Load(userID, session.courseID)
	if err != nil {
		return nil, err
	}

	state := &PlaybackState{
		CourseID:           session.courseID,
		Index:              session.index,
		Total:              len(session.modules),
		CompletedModules:   progress.CompletedList(),
		ProgressPercentage: progress.ProgressPercentage,
		CourseCompleted:    progress.CompletedAt != nil,
		QuizActive:         session.quiz != nil,
	}

	if module, ok := session.current(); ok {
		state.Current = &ModuleView{
			ID:              module.ID,
			Title:           module.Title,
			Type:            module.Type,
			Content:         module.Content,
			VideoURL:        module.VideoURL,
			AudioURL:        module.AudioURL,
			DurationMinutes: module.DurationMinutes,
			QuestionCount:   len(module.Questions),
			Completed:       progress.HasCompleted(module.ID),
		}
	}
	return state, nil
}

func (s *PlaybackService) questionView(quiz *quizRun) *QuestionView {
	question := quiz.questions[quiz.index]
	return &QuestionView{
		Index:       quiz.index,
		Total:       len(quiz.questions),
		Text:        question.Question,
		Options:     question.Options,
		Points:      question.Points,
		SecondsLeft: s.Cfg.Quiz.QuestionSeconds,
	}
}

// current 空模块列表的课程没有可播放内容，返回 false
func (sess *playbackSession) current() (model.Module, bool) {
	if len(sess.modules) == 0 || sess.index < 0 || sess.index >= len(sess.modules) {
		return model.Module{}, false
	}
	return sess.modules[sess.index], true
}

func (q *quizRun) deadline(questionSeconds int) time.Time {
	return q.askedAt.Add(time.Duration(questionSeconds) * time.Second)
}

// record 记录一次判定（answer 为 -1 表示超时）并返回揭示内容
func (q *quizRun) record(answer int, question model.Question) *AnswerResult {
	q.answers = append(q.answers, answer)
	q.answered = true

	correct := answer >= 0 && question.Valid() && answer == question.CorrectAnswer
	if correct {
		q.correct++
		q.points += question.Points
	}

	return &AnswerResult{
		Correct:       correct,
		TimedOut:      answer < 0,
		CorrectAnswer: question.CorrectAnswer,
		Explanation:   question.Explanation,
	}
}
