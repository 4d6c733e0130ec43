package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"welearn_backend/internal/config"
	"welearn_backend/internal/controller"
	"welearn_backend/internal/repository"
	"welearn_backend/internal/service"
	"welearn_backend/pkg/database"
	"welearn_backend/pkg/logger"
	"welearn_backend/pkg/monitoring"
	"welearn_backend/pkg/security"
	"welearn_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user         *repository.UserRepository
	course       *repository.CourseRepository
	progress     *repository.ProgressRepository
	quizAttempt  *repository.QuizAttemptRepository
	achievement  *repository.AchievementRepository
	certificate  *repository.CertificateRepository
	notification *repository.NotificationRepository
	payment      *repository.PaymentRepository
	forum        *repository.ForumRepository
}

type services struct {
	auth         *service.AuthService
	user         *service.UserService
	storage      *service.StorageService
	course       *service.CourseService
	progress     *service.ProgressService
	playback     *service.PlaybackService
	achievement  *service.AchievementService
	certificate  *service.CertificateService
	dashboard    *service.DashboardService
	notification *service.NotificationService
	payment      *service.PaymentService
	forum        *service.ForumService
	analytics    *service.AnalyticsService
	generator    *service.GeneratorService
}

type controllers struct {
	auth         *controller.AuthController
	course       *controller.CourseController
	playback     *controller.PlaybackController
	dashboard    *controller.DashboardController
	achievement  *controller.AchievementController
	certificate  *controller.CertificateController
	notification *controller.NotificationController
	forum        *controller.ForumController
	payment      *controller.PaymentController
	admin        *controller.AdminController
	health       *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig 热更新可以安全替换的配置段（测验时限、积分奖励）。
// 服务层共享同一个 Config 指针，改字段即生效。
func (a *App) ReloadConfig(newCfg *config.Config) {
	a.Config.Quiz = newCfg.Quiz
	a.Config.Rewards = newCfg.Rewards
	for _, callback := range a.configCallbacks {
		callback(newCfg)
	}
	logger.Log.Info("configuration reloaded",
		zap.Int("quiz_question_seconds", newCfg.Quiz.QuestionSeconds),
		zap.Int("module_xp", newCfg.Rewards.ModuleXP))
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		course:       repository.NewCourseRepository(db),
		progress:     repository.NewProgressRepository(db),
		quizAttempt:  repository.NewQuizAttemptRepository(db),
		achievement:  repository.NewAchievementRepository(db),
		certificate:  repository.NewCertificateRepository(db),
		notification: repository.NewNotificationRepository(db),
		payment:      repository.NewPaymentRepository(db),
		forum:        repository.NewForumRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, repos.progress)
	s.course = service.NewCourseService(repos.course, s.storage, cfg)
	s.achievement = service.NewAchievementService(repos.achievement, repos.user, repos.course, repos.notification, rdb, cfg)
	s.progress = service.NewProgressService(repos.course, repos.progress, s.achievement, repos.user, cfg)
	s.playback = service.NewPlaybackService(repos.course, s.progress, repos.quizAttempt, cfg)
	s.certificate = service.NewCertificateService(repos.certificate, repos.progress, repos.course, repos.user)
	s.dashboard = service.NewDashboardService(repos.user, repos.course, repos.progress, repos.achievement)
	s.notification = service.NewNotificationService(repos.notification, repos.user)
	s.payment = service.NewPaymentService(repos.payment, repos.course, repos.notification)
	s.forum = service.NewForumService(repos.forum)
	s.analytics = service.NewAnalyticsService(repos.user, repos.course, repos.progress, repos.payment, repos.certificate)
	s.generator = service.NewGeneratorService()

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth, s.user),
		course:       controller.NewCourseController(s.course, s.payment),
		playback:     controller.NewPlaybackController(s.playback, s.progress),
		dashboard:    controller.NewDashboardController(s.dashboard),
		achievement:  controller.NewAchievementController(s.achievement),
		certificate:  controller.NewCertificateController(s.certificate),
		notification: controller.NewNotificationController(s.notification),
		forum:        controller.NewForumController(s.forum),
		payment:      controller.NewPaymentController(s.payment),
		admin:        controller.NewAdminController(s.user, s.notification, s.payment, s.analytics, s.generator),
		health:       controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("welearn-platform", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
