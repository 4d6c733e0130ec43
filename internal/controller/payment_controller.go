package controller

import (
	"errors"
	"welearn_backend/internal/service"
	"welearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PaymentController struct {
	PaymentService *service.PaymentService
}

func NewPaymentController(paymentService *service.PaymentService) *PaymentController {
	return &PaymentController{PaymentService: paymentService}
}

type PaymentRequest struct {
	CourseID string `json:"courseId" binding:"required"`
	Method   string `json:"method" binding:"required,oneof=orange_money mtn_momo card"`
}

// InitiatePayment godoc
// @Summary 发起课程支付
// @Description 金额以课程标价为准，返回待确认的支付单
// @Tags 支付
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body PaymentRequest true "支付请求"
// @Success 201 {object} util.Response{data=model.Payment} "创建成功"
// @Failure 400 {object} util.Response "免费课程或渠道不支持"
// @Router /api/payments [post]
func (c *PaymentController) InitiatePayment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req PaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	payment, err := c.PaymentService.Initiate(claims.UserID, req.CourseID, req.Method)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx, "课程不存在")
			return
		}
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, payment)
}

// ListMyPayments godoc
// @Summary 我的支付记录
// @Tags 支付
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Payment} "成功"
// @Router /api/payments [get]
func (c *PaymentController) ListMyPayments(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	payments, err := c.PaymentService.ListForUser(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, payments)
}
