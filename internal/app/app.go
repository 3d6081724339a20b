package app

import (
	"audit_survey_backend/internal/config"
	"audit_survey_backend/internal/controller"
	"audit_survey_backend/internal/model"
	"audit_survey_backend/internal/repository"
	"audit_survey_backend/internal/repository/fixtures"
	"audit_survey_backend/internal/repository/memory"
	"audit_survey_backend/internal/service"
	"audit_survey_backend/pkg/database"
	"audit_survey_backend/pkg/logger"
	"audit_survey_backend/pkg/monitoring"
	"audit_survey_backend/pkg/security"
	"audit_survey_backend/pkg/tracing"
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	// 仅 memory 驱动时非空
	Memory *memory.Store

	services        *services
	limiter         *security.Limiter
	cron            *cron.Cron
	tracer          *sdktrace.TracerProvider
	cancel          context.CancelFunc
	configCallbacks []func(*config.Config)
}

type services struct {
	auth          *service.AuthService
	templates     *service.TemplateService
	notifications *service.NotificationService
	surveys       *service.SurveyService
	results       *service.ResultsService
	hub           *service.ResultsHub
	sessions      *service.SessionService
	exports       *service.ExportService
}

type controllers struct {
	auth   *controller.AuthController
	admin  *controller.SurveyAdminController
	user   *controller.UserSurveyController
	health *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// initStores memory 驱动使用演示数据并模拟网络延迟；其余驱动走 gorm
func (a *App) initStores(ctx context.Context, cfg *config.Config, templates []model.SurveyTemplate) (service.Stores, error) {
	if cfg.Database.Driver == "memory" {
		ds, err := fixtures.Build(templates, time.Now())
		if err != nil {
			return service.Stores{}, err
		}
		store := memory.NewStore(ds)
		store.SetLatency(cfg.Mock.FetchLatency(), cfg.Mock.MutateLatency())
		a.Memory = store
		a.RegisterConfigCallback(func(c *config.Config) {
			store.SetLatency(c.Mock.FetchLatency(), c.Mock.MutateLatency())
		})
		logger.Log.Info("Using in-memory data source",
			zap.Duration("fetchDelay", cfg.Mock.FetchLatency()),
			zap.Duration("mutateDelay", cfg.Mock.MutateLatency()),
		)
		return service.Stores{Surveys: store, Questions: store, Assignments: store, Responses: store, Users: store}, nil
	}

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == "debug")
	if err != nil {
		return service.Stores{}, fmt.Errorf("init database: %w", err)
	}
	a.DB = db

	// release 模式默认不迁移，需 --migrate 显式开启
	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			return service.Stores{}, fmt.Errorf("migrate: %w", err)
		}
	}
	if cfg.Database.SeedDemo && !cfg.MigrateOnly {
		ds, err := fixtures.Build(templates, time.Now())
		if err != nil {
			return service.Stores{}, err
		}
		if err := database.SeedDemo(ctx, db, ds); err != nil {
			return service.Stores{}, fmt.Errorf("seed demo data: %w", err)
		}
	}

	surveys := repository.NewSurveyRepository(db)
	return service.Stores{
		Surveys:     surveys,
		Questions:   surveys,
		Assignments: repository.NewAssignmentRepository(db),
		Responses:   repository.NewResponseRepository(db),
		Users:       repository.NewUserRepository(db),
	}, nil
}

func (a *App) initServices(ctx context.Context, stores service.Stores, templates []model.SurveyTemplate, cfg *config.Config) (*services, error) {
	s := &services{}

	s.templates = service.NewTemplateService(templates)
	if a.Memory != nil {
		s.templates.SetDelay(cfg.Mock.TemplateLatency())
	}
	a.RegisterConfigCallback(func(c *config.Config) {
		if a.Memory != nil {
			s.templates.SetDelay(c.Mock.TemplateLatency())
		}
		tpls, err := service.LoadTemplates(c.Templates.Path)
		if err != nil {
			logger.Log.Error("Failed to reload templates", zap.Error(err))
			return
		}
		s.templates.Replace(tpls)
	})

	s.auth = service.NewAuthService(stores.Users, cfg)
	s.notifications = service.NewNotificationService(service.NewNotifier(&cfg.Email), cfg.Notifications.Enabled)
	s.surveys = service.NewSurveyService(stores, s.templates, s.notifications, cfg.Survey.OverdueDays)

	s.hub = service.NewResultsHub(a.Redis)
	go s.hub.Run(ctx)

	cache := service.NewResultsCache(a.Redis, time.Duration(cfg.Redis.ResultsTTL)*time.Second)
	s.results = service.NewResultsService(stores.Surveys, stores.Questions, stores.Assignments, stores.Responses, cache, s.hub)
	s.surveys.AddListener(s.results)

	s.sessions = service.NewSessionService(s.surveys, time.Duration(cfg.Survey.SessionTTL)*time.Minute)

	archive, err := service.NewArchiveStore(&cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("init archive storage: %w", err)
	}
	s.exports = service.NewExportService(s.surveys, s.results, archive)
	return s, nil
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		auth:   controller.NewAuthController(s.auth),
		admin:  controller.NewSurveyAdminController(s.surveys, s.results, s.exports, s.templates, s.hub),
		user:   controller.NewUserSurveyController(s.surveys, s.sessions),
		health: controller.NewHealthController(a.DB, a.Redis),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(a.limiter.Middleware())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// NewApp 组装数据源、服务与路由；调用方负责 Close
func NewApp(cfg *config.Config) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{Config: cfg, cancel: cancel}

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	app.RegisterConfigCallback(func(c *config.Config) {
		logger.SetMode(c.Server.Mode)
	})

	templates, err := service.LoadTemplates(cfg.Templates.Path)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("load templates: %w", err)
	}

	stores, err := app.initStores(ctx, cfg, templates)
	if err != nil {
		cancel()
		return nil, err
	}
	if cfg.MigrateOnly {
		return app, nil
	}

	if cfg.Redis.Enabled {
		rdb, err := database.InitRedis(ctx, &cfg.Redis)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("init redis: %w", err)
		}
		app.Redis = rdb
	}

	services, err := app.initServices(ctx, stores, templates, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.services = services
	controllers := app.initControllers(services)

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("init tracing: %w", err)
		}
		app.tracer = tp
	}

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	app.limiter = security.NewLimiter(cfg.RateLimit.MaxRequests, window)

	router := gin.Default()
	app.Router = router
	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/exports", cfg.Storage.LocalPath)
	}

	return app, nil
}

// Close 停止后台任务并释放连接
func (a *App) Close() {
	a.cancel()
	if a.cron != nil {
		<-a.cron.Stop().Done()
	}
	if a.tracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
		cancel()
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
}

func (a *App) Run() error {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.startBackgroundTasks(ctx); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	select {
	case <-ctx.Done():
	case err := <-errCh:
		a.Close()
		return fmt.Errorf("listen: %w", err)
	}
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	a.Close()
	if err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Log.Info("Server exiting")
	return nil
}

// Exports 供命令行导出使用
func (a *App) Exports() *service.ExportService {
	return a.services.exports
}

func (a *App) Templates() *service.TemplateService {
	return a.services.templates
}
