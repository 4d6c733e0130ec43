package controller

import (
	"errors"
	"strconv"
	"welearn_backend/internal/repository"
	"welearn_backend/internal/service"
	"welearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService  *service.CourseService
	PaymentService *service.PaymentService
}

func NewCourseController(courseService *service.CourseService, paymentService *service.PaymentService) *CourseController {
	return &CourseController{
		CourseService:  courseService,
		PaymentService: paymentService,
	}
}

// ListCourses godoc
// @Summary 课程目录
// @Description 按分类/难度分页浏览课程
// @Tags 课程
// @Produce  json
// @Param   category query string false "分类"
// @Param   level query string false "难度"
// @Param   premium query bool false "是否付费课程"
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.PageResponse{data=[]model.Course} "成功"
// @Router /api/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	filter := repository.CourseFilter{
		Category: ctx.Query("category"),
		Level:    ctx.Query("level"),
	}
	if premium := ctx.Query("premium"); premium != "" {
		value := premium == "true"
		filter.Premium = &value
	}
	filter.Page, _ = strconv.Atoi(ctx.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	courses, total, err := c.CourseService.ListCourses(filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Page(ctx, courses, total, filter.Page, filter.Limit)
}

// GetCourse godoc
// @Summary 课程详情
// @Description 返回课程信息和规范化后的模块列表
// @Tags 课程
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "课程ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	course, modules, err := c.CourseService.GetCourse(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx, "课程不存在")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	hasAccess := true
	if claims := util.GetUserFromContext(ctx); claims != nil && course.IsPremium {
		hasAccess, _ = c.PaymentService.HasAccess(claims.UserID, course)
	} else if course.IsPremium {
		hasAccess = false
	}

	util.Success(ctx, gin.H{
		"course":    course,
		"modules":   modules,
		"hasAccess": hasAccess,
	})
}

// CreateCourse godoc
// @Summary 创建课程
// @Description 教师/管理员创建课程，模块负载先经过校验
// @Tags 课程管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.CourseRequest true "课程内容"
// @Success 201 {object} util.Response{data=model.Course} "创建成功"
// @Failure 400 {object} util.Response "模块负载不合法"
// @Router /api/admin/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.CreateCourse(claims.UserID, req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, course)
}

// UpdateCourse godoc
// @Summary 更新课程
// @Tags 课程管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "课程ID"
// @Param   body body service.CourseRequest true "课程内容"
// @Success 200 {object} util.Response{data=model.Course} "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/admin/courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	var req service.CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.UpdateCourse(ctx.Param("id"), req)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx, "课程不存在")
			return
		}
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, course)
}

// DeleteCourse godoc
// @Summary 删除课程
// @Tags 课程管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "课程ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/admin/courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	if err := c.CourseService.DeleteCourse(ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx, "课程不存在")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// UploadMedia godoc
// @Summary 上传课程媒体
// @Description 上传视频/音频/图片，返回可填入模块的 URL
// @Tags 课程管理
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "媒体文件"
// @Success 200 {object} util.Response{data=service.MediaUploadResult} "成功"
// @Failure 400 {object} util.Response "文件类型不支持"
// @Router /api/admin/courses/media [post]
func (c *CourseController) UploadMedia(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "缺少文件")
		return
	}

	result, err := c.CourseService.UploadMedia(ctx, file)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, result)
}

// DeleteMedia godoc
// @Summary 删除课程媒体
// @Description 模块素材被替换后清理旧对象
// @Tags 课程管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   path query string true "对象键，media/ 前缀"
// @Success 200 {object} util.Response "成功"
// @Failure 400 {object} util.Response "路径不合法"
// @Router /api/admin/courses/media [delete]
func (c *CourseController) DeleteMedia(ctx *gin.Context) {
	path := ctx.Query("path")
	if path == "" {
		util.BadRequest(ctx, "缺少 path 参数")
		return
	}

	if err := c.CourseService.DeleteMedia(ctx, path); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, nil)
}
