package controller

import (
	"errors"
	"welearn_backend/internal/service"
	"welearn_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CertificateController struct {
	CertificateService *service.CertificateService
}

func NewCertificateController(certificateService *service.CertificateService) *CertificateController {
	return &CertificateController{CertificateService: certificateService}
}

// IssueCertificate godoc
// @Summary 签发完课证书
// @Description 课程进度达到 100% 后可签发，重复请求返回已有证书
// @Tags 证书
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "课程ID"
// @Success 200 {object} util.Response{data=model.Certificate} "成功"
// @Failure 400 {object} util.Response "课程尚未完成"
// @Router /api/courses/{id}/certificate [post]
func (c *CertificateController) IssueCertificate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	certificate, err := c.CertificateService.Issue(claims.UserID, ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotCompleted):
			util.BadRequest(ctx, "课程尚未完成")
		case errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx, "课程不存在")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, certificate)
}

// GetCertificate godoc
// @Summary 查看证书
// @Description 证书可凭 id 公开核验
// @Tags 证书
// @Produce  json
// @Param   id path string true "证书ID"
// @Success 200 {object} util.Response{data=model.Certificate} "成功"
// @Failure 404 {object} util.Response "证书不存在"
// @Router /api/certificates/{id} [get]
func (c *CertificateController) GetCertificate(ctx *gin.Context) {
	certificate, err := c.CertificateService.Get(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx, "证书不存在")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, certificate)
}

// ListCertificates godoc
// @Summary 我的证书
// @Tags 证书
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Certificate} "成功"
// @Router /api/certificates [get]
func (c *CertificateController) ListCertificates(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	certificates, err := c.CertificateService.ListForUser(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, certificates)
}
