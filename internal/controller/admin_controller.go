package controller

import (
	"errors"
	"strconv"
	"welearn_backend/internal/model"
	"welearn_backend/internal/service"
	"welearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AdminController 管理端：用户管理、广播、支付确认、平台统计、内容生成
type AdminController struct {
	UserService         *service.UserService
	NotificationService *service.NotificationService
	PaymentService      *service.PaymentService
	AnalyticsService    *service.AnalyticsService
	GeneratorService    *service.GeneratorService
}

func NewAdminController(
	userService *service.UserService,
	notificationService *service.NotificationService,
	paymentService *service.PaymentService,
	analyticsService *service.AnalyticsService,
	generatorService *service.GeneratorService,
) *AdminController {
	return &AdminController{
		UserService:         userService,
		NotificationService: notificationService,
		PaymentService:      paymentService,
		AnalyticsService:    analyticsService,
		GeneratorService:    generatorService,
	}
}

// ListUsers godoc
// @Summary 用户列表
// @Tags 管理端
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.PageResponse{data=[]model.User} "成功"
// @Router /api/admin/users [get]
func (c *AdminController) ListUsers(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	users, total, err := c.UserService.ListUsers(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Page(ctx, users, total, page, limit)
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=student teacher moderator admin"`
}

// ChangeRole godoc
// @Summary 调整用户角色
// @Tags 管理端
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "用户ID"
// @Param   body body ChangeRoleRequest true "目标角色"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/admin/users/{id}/role [put]
func (c *AdminController) ChangeRole(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "用户ID不合法")
		return
	}

	var req ChangeRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserService.ChangeRole(uint(id), model.UserRole(req.Role)); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, "用户不存在")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

type SetDisabledRequest struct {
	Disabled *bool `json:"disabled" binding:"required"`
}

// SetDisabled godoc
// @Summary 停用/启用账号
// @Description 停用后该账号无法登录
// @Tags 管理端
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "用户ID"
// @Param   body body SetDisabledRequest true "停用标志"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/users/{id}/disabled [put]
func (c *AdminController) SetDisabled(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "用户ID不合法")
		return
	}

	var req SetDisabledRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserService.SetDisabled(uint(id), *req.Disabled); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, "用户不存在")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

type BroadcastRequest struct {
	Title   string `json:"title" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// Broadcast godoc
// @Summary 全员广播通知
// @Tags 管理端
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body BroadcastRequest true "通知内容"
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/admin/notifications/broadcast [post]
func (c *AdminController) Broadcast(ctx *gin.Context) {
	var req BroadcastRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	count, err := c.NotificationService.Broadcast(req.Title, req.Message)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"sent": count})
}

// ListPayments godoc
// @Summary 全部支付记录
// @Tags 管理端
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.PageResponse{data=[]model.Payment} "成功"
// @Router /api/admin/payments [get]
func (c *AdminController) ListPayments(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	payments, total, err := c.PaymentService.List(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Page(ctx, payments, total, page, limit)
}

// ConfirmPayment godoc
// @Summary 确认支付到账
// @Tags 管理端
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "支付单ID"
// @Success 200 {object} util.Response{data=model.Payment} "成功"
// @Failure 404 {object} util.Response "支付单不存在"
// @Router /api/admin/payments/{id}/confirm [post]
func (c *AdminController) ConfirmPayment(ctx *gin.Context) {
	payment, err := c.PaymentService.Confirm(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrPaymentNotFound) {
			util.NotFound(ctx, "支付单不存在")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, payment)
}

// Revenue godoc
// @Summary 营收概览
// @Tags 管理端
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.RevenueStats} "成功"
// @Router /api/admin/revenue [get]
func (c *AdminController) Revenue(ctx *gin.Context) {
	stats, err := c.PaymentService.Revenue()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// PlatformStats godoc
// @Summary 平台统计
// @Description 用户/课程/活跃学员/证书/营收等聚合数据
// @Tags 管理端
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.PlatformStats} "成功"
// @Router /api/admin/analytics [get]
func (c *AdminController) PlatformStats(ctx *gin.Context) {
	stats, err := c.AnalyticsService.PlatformOverview()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

type GenerateCourseRequest struct {
	Topic string `json:"topic" binding:"required"`
	Level string `json:"level"`
}

// GenerateCourse godoc
// @Summary 生成课程草稿
// @Description 按主题模板生成课程骨架，供编辑器继续加工
// @Tags 管理端
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body GenerateCourseRequest true "主题"
// @Success 200 {object} util.Response{data=service.GeneratedCourse} "成功"
// @Router /api/admin/generate/course [post]
func (c *AdminController) GenerateCourse(ctx *gin.Context) {
	var req GenerateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, c.GeneratorService.GenerateCourse(req.Topic, req.Level))
}

type GenerateQuizRequest struct {
	Topic string `json:"topic" binding:"required"`
	Count int    `json:"count"`
}

// GenerateQuiz godoc
// @Summary 生成测验题草稿
// @Tags 管理端
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body GenerateQuizRequest true "主题与题数"
// @Success 200 {object} util.Response{data=[]model.Question} "成功"
// @Router /api/admin/generate/quiz [post]
func (c *AdminController) GenerateQuiz(ctx *gin.Context) {
	var req GenerateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, c.GeneratorService.GenerateQuiz(req.Topic, req.Count))
}
