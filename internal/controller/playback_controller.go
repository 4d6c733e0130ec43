package controller

import (
	"errors"
	"strconv"
	"welearn_backend/internal/service"
	"welearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// PlaybackController 课程播放与测验流程的 HTTP 入口
type PlaybackController struct {
	PlaybackService *service.PlaybackService
	ProgressService *service.ProgressService
}

func NewPlaybackController(playbackService *service.PlaybackService, progressService *service.ProgressService) *PlaybackController {
	return &PlaybackController{
		PlaybackService: playbackService,
		ProgressService: progressService,
	}
}

// StartPlayback godoc
// @Summary 进入课程播放
// @Description 创建播放会话，总是从第一个模块开始
// @Tags 播放
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "课程ID"
// @Success 200 {object} util.Response{data=service.PlaybackState} "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{id}/playback [post]
func (c *PlaybackController) StartPlayback(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	state, err := c.PlaybackService.Start(claims.UserID, ctx.Param("id"))
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, state)
}

// GetPlaybackState godoc
// @Summary 当前播放状态
// @Tags 播放
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "课程ID"
// @Success 200 {object} util.Response{data=service.PlaybackState} "成功"
// @Failure 404 {object} util.Response "会话不存在"
// @Router /api/courses/{id}/playback [get]
func (c *PlaybackController) GetPlaybackState(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	state, err := c.PlaybackService.State(claims.UserID, ctx.Param("id"))
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, state)
}

// NextModule godoc
// @Summary 下一个模块
// @Description 已在末尾时原地不动
// @Tags 播放
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "课程ID"
// @Success 200 {object} util.Response{data=service.PlaybackState} "成功"
// @Router /api/courses/{id}/playback/next [post]
func (c *PlaybackController) NextModule(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	state, err := c.PlaybackService.Next(claims.UserID, ctx.Param("id"))
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, state)
}

// PreviousModule godoc
// @Summary 上一个模块
// @Description 已在开头时原地不动
// @Tags 播放
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "课程ID"
// @Success 200 {object} util.Response{data=service.PlaybackState} "成功"
// @Router /api/courses/{id}/playback/previous [post]
func (c *PlaybackController) PreviousModule(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	state, err := c.PlaybackService.Previous(claims.UserID, ctx.Param("id"))
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, state)
}

// JumpToModule godoc
// @Summary 跳转到指定模块
// @Description 自由导航，不要求按顺序完成
// @Tags 播放
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "课程ID"
// @Param   index path int true "模块下标"
// @Success 200 {object} util.Response{data=service.PlaybackState} "成功"
// @Failure 400 {object} util.Response "下标越界"
// @Router /api/courses/{id}/playback/jump/{index} [post]
func (c *PlaybackController) JumpToModule(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		util.BadRequest(ctx, "模块下标不合法")
		return
	}

	state, err := c.PlaybackService.JumpTo(claims.UserID, ctx.Param("id"), index)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, state)
}

// CompleteModule godoc
// @Summary 完成当前模块
// @Description 测验模块不能直接标记完成，必须走测验流程
// @Tags 播放
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "课程ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "测验模块需要先通过测验"
// @Router /api/courses/{id}/playback/complete [post]
func (c *PlaybackController) CompleteModule(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	event, state, err := c.PlaybackService.CompleteCurrent(claims.UserID, ctx.Param("id"))
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"completion": event,
		"state":      state,
	})
}

// GetProgress godoc
// @Summary 课程学习进度
// @Description 没有任何进度时返回零值记录
// @Tags 播放
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "课程ID"
// @Success 200 {object} util.Response{data=model.UserProgress} "成功"
// @Router /api/courses/{id}/progress [get]
func (c *PlaybackController) GetProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	progress, err := c.ProgressService.Load(claims.UserID, ctx.Param("id"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

type TimeSpentRequest struct {
	Minutes int `json:"minutes" binding:"required,min=1"`
}

// AddTimeSpent godoc
// @Summary 上报学习时长
// @Tags 播放
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "课程ID"
// @Param   body body TimeSpentRequest true "分钟数"
// @Success 200 {object} util.Response "成功"
// @Router /api/courses/{id}/progress/time [post]
func (c *PlaybackController) AddTimeSpent(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req TimeSpentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ProgressService.AddTimeSpent(claims.UserID, ctx.Param("id"), req.Minutes); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// StartQuiz godoc
// @Summary 开始当前模块的测验
// @Description 下发第一题并开始计时，每题限时见服务端配置
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "课程ID"
// @Success 200 {object} util.Response{data=service.QuestionView} "成功"
// @Failure 400 {object} util.Response "当前模块不是测验或没有题目"
// @Router /api/courses/{id}/quiz/start [post]
func (c *PlaybackController) StartQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	question, err := c.PlaybackService.StartQuiz(claims.UserID, ctx.Param("id"))
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

type QuizAnswerRequest struct {
	Answer *int `json:"answer" binding:"required"`
}

// AnswerQuiz godoc
// @Summary 提交当前题答案
// @Description 超过限时的提交按超时判错；返回判定与解析
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "课程ID"
// @Param   body body QuizAnswerRequest true "所选选项下标"
// @Success 200 {object} util.Response{data=service.AnswerResult} "成功"
// @Failure 400 {object} util.Response "重复作答或选项越界"
// @Router /api/courses/{id}/quiz/answer [post]
func (c *PlaybackController) AnswerQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req QuizAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.PlaybackService.AnswerQuiz(claims.UserID, ctx.Param("id"), *req.Answer)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// TimeoutQuiz godoc
// @Summary 上报当前题超时
// @Description 倒计时走完未作答，按答错处理并揭示答案
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "课程ID"
// @Success 200 {object} util.Response{data=service.AnswerResult} "成功"
// @Router /api/courses/{id}/quiz/timeout [post]
func (c *PlaybackController) TimeoutQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	result, err := c.PlaybackService.TimeoutQuiz(claims.UserID, ctx.Param("id"))
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// NextQuizQuestion godoc
// @Summary 进入下一题或交卷
// @Description 最后一题确认后整场结束，返回总分并把模块计入完成集合
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "课程ID"
// @Success 200 {object} util.Response{data=service.QuizAdvance} "成功"
// @Failure 400 {object} util.Response "当前题还未作答"
// @Router /api/courses/{id}/quiz/next [post]
func (c *PlaybackController) NextQuizQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	advance, err := c.PlaybackService.NextQuizQuestion(claims.UserID, ctx.Param("id"))
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, advance)
}

// QuizAttemptHistory godoc
// @Summary 历史作答记录
// @Description 当前用户在该课程下的测验作答记录与平均分
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "课程ID"
// @Success 200 {object} util.Response{data=service.QuizHistory} "成功"
// @Router /api/courses/{id}/quiz/attempts [get]
func (c *PlaybackController) QuizAttemptHistory(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	history, err := c.PlaybackService.QuizHistory(claims.UserID, ctx.Param("id"))
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, history)
}

// respondError 播放链路的领域错误映射
func (c *PlaybackController) respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrCourseNotFound):
		util.NotFound(ctx, "课程不存在")
	case errors.Is(err, util.ErrSessionNotFound):
		util.NotFound(ctx, "播放会话不存在，请先进入课程")
	case errors.Is(err, util.ErrModuleOutOfRange):
		util.BadRequest(ctx, "模块下标越界")
	case errors.Is(err, util.ErrNoPlayableModules):
		util.BadRequest(ctx, "课程没有可播放的模块")
	case errors.Is(err, util.ErrQuizGated):
		util.BadRequest(ctx, "测验模块需要通过测验才能完成")
	case errors.Is(err, util.ErrQuizHasNoQuestions):
		util.BadRequest(ctx, "该测验没有题目")
	case errors.Is(err, util.ErrNoActiveQuiz):
		util.BadRequest(ctx, "当前没有进行中的测验")
	case errors.Is(err, util.ErrAlreadyAnswered):
		util.BadRequest(ctx, "本题已作答")
	case errors.Is(err, util.ErrAnswerOutOfRange):
		util.BadRequest(ctx, "选项下标越界")
	case errors.Is(err, util.ErrNotRevealed):
		util.BadRequest(ctx, "请先提交本题答案")
	default:
		util.LogInternalError(ctx, err)
	}
}
