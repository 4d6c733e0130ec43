package app

import (
	"welearn_backend/docs"
	"welearn_backend/internal/config"
	"welearn_backend/internal/middleware"
	"welearn_backend/internal/model"
	"welearn_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)

	// 公共路由
	public := router.Group("/api")
	{
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/courses", c.course.ListCourses)
		public.GET("/leaderboard", c.achievement.Leaderboard)
		public.GET("/certificates/:id", c.certificate.GetCertificate)
		public.GET("/forum/posts", c.forum.ListPosts)
		public.GET("/forum/posts/:id", c.forum.GetPost)
	}

	// 登录后的路由
	authed := router.Group("/api")
	authed.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authed.GET("/profile", c.auth.GetProfile)
		authed.PUT("/profile", c.auth.UpdateProfile)
		authed.PUT("/profile/password", c.auth.ChangePassword)

		authed.GET("/dashboard", c.dashboard.Overview)
		authed.GET("/achievements", c.achievement.ListAchievements)
		authed.GET("/certificates", c.certificate.ListCertificates)

		authed.GET("/courses/:id", c.course.GetCourse)
		authed.GET("/courses/:id/progress", c.playback.GetProgress)
		authed.POST("/courses/:id/progress/time", c.playback.AddTimeSpent)
		authed.POST("/courses/:id/certificate", c.certificate.IssueCertificate)

		// 播放会话
		authed.POST("/courses/:id/playback", c.playback.StartPlayback)
		authed.GET("/courses/:id/playback", c.playback.GetPlaybackState)
		authed.POST("/courses/:id/playback/next", c.playback.NextModule)
		authed.POST("/courses/:id/playback/previous", c.playback.PreviousModule)
		authed.POST("/courses/:id/playback/jump/:index", c.playback.JumpToModule)
		authed.POST("/courses/:id/playback/complete", c.playback.CompleteModule)

		// 测验流程
		authed.POST("/courses/:id/quiz/start", c.playback.StartQuiz)
		authed.POST("/courses/:id/quiz/answer", c.playback.AnswerQuiz)
		authed.POST("/courses/:id/quiz/timeout", c.playback.TimeoutQuiz)
		authed.POST("/courses/:id/quiz/next", c.playback.NextQuizQuestion)
		authed.GET("/courses/:id/quiz/attempts", c.playback.QuizAttemptHistory)

		// 通知
		authed.GET("/notifications", c.notification.ListNotifications)
		authed.POST("/notifications/:id/read", c.notification.MarkRead)
		authed.POST("/notifications/read-all", c.notification.MarkAllRead)

		// 支付
		authed.POST("/payments", c.payment.InitiatePayment)
		authed.GET("/payments", c.payment.ListMyPayments)

		// 社区
		authed.POST("/forum/posts", c.forum.CreatePost)
		authed.DELETE("/forum/posts/:id", c.forum.DeletePost)
		authed.POST("/forum/posts/:id/replies", c.forum.ReplyPost)
		authed.POST("/forum/posts/:id/like", c.forum.LikePost)
		authed.POST("/forum/replies/:id/like", c.forum.LikeReply)
	}

	// 教师与管理员
	teaching := router.Group("/api/admin")
	teaching.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Teacher))
	{
		teaching.POST("/courses", c.course.CreateCourse)
		teaching.PUT("/courses/:id", c.course.UpdateCourse)
		teaching.DELETE("/courses/:id", c.course.DeleteCourse)
		teaching.POST("/courses/media", c.course.UploadMedia)
		teaching.DELETE("/courses/media", c.course.DeleteMedia)
		teaching.POST("/generate/course", c.admin.GenerateCourse)
		teaching.POST("/generate/quiz", c.admin.GenerateQuiz)
	}

	// 仅管理员
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/users", c.admin.ListUsers)
		admin.PUT("/users/:id/role", c.admin.ChangeRole)
		admin.PUT("/users/:id/disabled", c.admin.SetDisabled)
		admin.POST("/notifications/broadcast", c.admin.Broadcast)
		admin.GET("/payments", c.admin.ListPayments)
		admin.POST("/payments/:id/confirm", c.admin.ConfirmPayment)
		admin.GET("/revenue", c.admin.Revenue)
		admin.GET("/analytics", c.admin.PlatformStats)
	}
}
