package controller

import (
	"errors"
	"strconv"
	"welearn_backend/internal/service"
	"welearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ForumController struct {
	ForumService *service.ForumService
}

func NewForumController(forumService *service.ForumService) *ForumController {
	return &ForumController{ForumService: forumService}
}

// ListPosts godoc
// @Summary 帖子列表
// @Tags 社区
// @Produce  json
// @Param   category query string false "分类"
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.PageResponse{data=[]model.Post} "成功"
// @Router /api/forum/posts [get]
func (c *ForumController) ListPosts(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	posts, total, err := c.ForumService.ListPosts(ctx.Query("category"), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Page(ctx, posts, total, page, limit)
}

// GetPost godoc
// @Summary 帖子详情（含回复）
// @Tags 社区
// @Produce  json
// @Param   id path int true "帖子ID"
// @Success 200 {object} util.Response{data=model.Post} "成功"
// @Failure 404 {object} util.Response "帖子不存在"
// @Router /api/forum/posts/{id} [get]
func (c *ForumController) GetPost(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "帖子ID不合法")
		return
	}

	post, err := c.ForumService.GetPost(uint(id))
	if err != nil {
		if errors.Is(err, util.ErrPostNotFound) {
			util.NotFound(ctx, "帖子不存在")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, post)
}

// CreatePost godoc
// @Summary 发帖
// @Tags 社区
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.PostRequest true "帖子内容"
// @Success 201 {object} util.Response{data=model.Post} "创建成功"
// @Router /api/forum/posts [post]
func (c *ForumController) CreatePost(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req service.PostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	post, err := c.ForumService.CreatePost(claims.UserID, &req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, post)
}

// DeletePost godoc
// @Summary 删帖
// @Description 作者本人或版主/管理员可删
// @Tags 社区
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "帖子ID"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/forum/posts/{id} [delete]
func (c *ForumController) DeletePost(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "帖子ID不合法")
		return
	}

	if err := c.ForumService.DeletePost(uint(id), claims.UserID, claims.Role); err != nil {
		switch {
		case errors.Is(err, util.ErrPostNotFound):
			util.NotFound(ctx, "帖子不存在")
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

type ReplyRequest struct {
	Content string `json:"content" binding:"required"`
}

// ReplyPost godoc
// @Summary 回帖
// @Tags 社区
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "帖子ID"
// @Param   body body ReplyRequest true "回复内容"
// @Success 201 {object} util.Response{data=model.Reply} "创建成功"
// @Router /api/forum/posts/{id}/replies [post]
func (c *ForumController) ReplyPost(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "帖子ID不合法")
		return
	}

	var req ReplyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	reply, err := c.ForumService.Reply(uint(id), claims.UserID, req.Content)
	if err != nil {
		if errors.Is(err, util.ErrPostNotFound) {
			util.NotFound(ctx, "帖子不存在")
			return
		}
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, reply)
}

// LikePost godoc
// @Summary 点赞帖子
// @Tags 社区
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "帖子ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/forum/posts/{id}/like [post]
func (c *ForumController) LikePost(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "帖子ID不合法")
		return
	}

	if err := c.ForumService.LikePost(uint(id)); err != nil {
		if errors.Is(err, util.ErrPostNotFound) {
			util.NotFound(ctx, "帖子不存在")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// LikeReply godoc
// @Summary 点赞回复
// @Tags 社区
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "回复ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/forum/replies/{id}/like [post]
func (c *ForumController) LikeReply(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "回复ID不合法")
		return
	}

	if err := c.ForumService.LikeReply(uint(id)); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
