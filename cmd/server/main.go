package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	identityapp "github.com/bizledger/backend/internal/application/identity"
	ledgerapp "github.com/bizledger/backend/internal/application/ledger"
	"github.com/bizledger/backend/internal/application/notification"
	projectapp "github.com/bizledger/backend/internal/application/project"
	recurrenceapp "github.com/bizledger/backend/internal/application/recurrence"
	reportapp "github.com/bizledger/backend/internal/application/report"
	workforceapp "github.com/bizledger/backend/internal/application/workforce"
	"github.com/bizledger/backend/internal/domain/recurrence"
	"github.com/bizledger/backend/internal/infrastructure/auth"
	"github.com/bizledger/backend/internal/infrastructure/cache"
	"github.com/bizledger/backend/internal/infrastructure/config"
	"github.com/bizledger/backend/internal/infrastructure/event"
	"github.com/bizledger/backend/internal/infrastructure/logger"
	"github.com/bizledger/backend/internal/infrastructure/mail"
	"github.com/bizledger/backend/internal/infrastructure/persistence"
	"github.com/bizledger/backend/internal/infrastructure/scheduler"
	"github.com/bizledger/backend/internal/infrastructure/storage"
	"github.com/bizledger/backend/internal/infrastructure/telemetry"
	"github.com/bizledger/backend/internal/interfaces/http/handler"
	"github.com/bizledger/backend/internal/interfaces/http/middleware"
	"github.com/bizledger/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/bizledger/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const version = "1.0.0"

//	@title			BizLedger API
//	@version		1.0
//	@description	Multi-tenant ledger, recurring billing and project workflow backend

//	@contact.name	API Support
//	@contact.url	https://github.com/bizledger/backend

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

//	@securityDefinitions.apikey	CronSecret
//	@in							header
//	@name						Authorization
//	@description				Shared scheduler secret. Format: "Bearer {secret}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	rootCtx := context.Background()

	// Bootstrap logger; replaced once the OTLP log bridge is known
	bootLog, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	logProvider, err := telemetry.NewLoggerProvider(rootCtx, cfg.Telemetry, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	log, err := logger.New(cfg.Log, logProvider.Core(logger.ParseLevel(cfg.Log.Level)))
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting BizLedger backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Telemetry providers
	tracerProvider, err := telemetry.NewTracerProvider(rootCtx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(rootCtx, cfg.Telemetry, 0, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && tracerProvider.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}
	meter := meterProvider.Meter("bizledger")

	// Database
	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh, cfg.Telemetry.DBLogFullSQL)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	dbTracing := telemetry.NewDBTracing(cfg.Telemetry, log)
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := dbTracing.Register(db.DB); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	} else if err := dbTracing.RegisterSlowQueryCallbacks(db.DB); err != nil {
		log.Fatal("Failed to register slow query detection", zap.Error(err))
	}

	var poolMetrics *telemetry.DBPoolMetrics
	if meterProvider.IsEnabled() {
		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatal("Failed to access connection pool", zap.Error(err))
		}
		poolMetrics, err = telemetry.NewDBPoolMetrics(meter, sqlDB, 0, log)
		if err != nil {
			log.Fatal("Failed to create pool metrics", zap.Error(err))
		}
		poolMetrics.Start(rootCtx)
	}

	// Redis backs the token blacklist, reminder idempotency and rate limits.
	// It is optional outside production.
	var redisClient redis.UniversalClient
	if rc, err := cache.NewRedisClient(rootCtx, cfg.Redis); err != nil {
		if cfg.App.Env == "production" {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		log.Warn("Redis unavailable, using in-process fallbacks", zap.Error(err))
	} else {
		redisClient = rc
		defer func() {
			if err := rc.Close(); err != nil {
				log.Error("Error closing Redis", zap.Error(err))
			}
		}()
	}

	// Repositories
	companyRepo := persistence.NewGormCompanyRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	tagRepo := persistence.NewGormTagRepository(db.DB)
	expenditureRepo := persistence.NewGormExpenditureRepository(db.DB)
	incomeRepo := persistence.NewGormIncomeRepository(db.DB)
	employeeRepo := persistence.NewGormEmployeeRepository(db.DB)
	recurringRepo := persistence.NewGormRecurringTransactionRepository(db.DB)
	projectRepo := persistence.NewGormProjectRepository(db.DB)
	memberRepo := persistence.NewGormMemberRepository(db.DB)
	moduleRepo := persistence.NewGormModuleRepository(db.DB)
	taskRepo := persistence.NewGormTaskRepository(db.DB)
	dailyLogRepo := persistence.NewGormDailyLogRepository(db.DB)
	documentRepo := persistence.NewGormDocumentRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)
	txScopes := persistence.NewGormTransactionScope(db.DB)

	// Outbound email
	notifier := newNotifier(cfg, log)

	// Object storage for documents and report exports
	objectStorage := newObjectStorage(rootCtx, cfg, log)

	// Auth
	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
	}

	// Application services
	authService := identityapp.NewAuthService(companyRepo, userRepo, jwtService, blacklist, txScopes.IdentityScope(), log)
	clientService := identityapp.NewClientService(userRepo, companyRepo, txScopes.IdentityScope(), notifier, identityapp.ClientServiceConfig{
		MagicLinkTTL: cfg.JWT.MagicLinkExpiration,
		AppURL:       cfg.Notification.AppURL,
	}, log)

	accountService := ledgerapp.NewAccountService(accountRepo, log)
	categoryService := ledgerapp.NewCategoryService(categoryRepo, txScopes.LedgerScope(), log)
	tagService := ledgerapp.NewTagService(tagRepo, log)
	entryService := ledgerapp.NewEntryService(ledgerapp.EntryRepositories{
		Accounts:     accountRepo,
		Categories:   categoryRepo,
		Tags:         tagRepo,
		Expenditures: expenditureRepo,
		Incomes:      incomeRepo,
		Employees:    employeeRepo,
	}, txScopes.LedgerScope(), log)

	policy, err := recurrence.ParseCatchUpPolicy(cfg.Recurrence.CatchUpPolicy)
	if err != nil {
		log.Fatal("Invalid recurrence catch-up policy", zap.Error(err))
	}
	recurringService := recurrenceapp.NewService(recurringRepo, accountRepo, categoryRepo, employeeRepo, log)
	recurringProcessor := recurrenceapp.NewProcessor(recurringRepo, companyRepo, txScopes.RecurrenceScope(), recurrenceapp.ProcessorConfig{
		Policy:            policy,
		MaxCatchUpPeriods: cfg.Recurrence.MaxCatchUpPeriods,
	}, log)

	employeeService := workforceapp.NewEmployeeService(employeeRepo, txScopes.WorkforceScope(), log)

	attributor := projectapp.NewAttributor(employeeRepo, cfg.Attribution.Strict)
	projectService := projectapp.NewProjectService(projectRepo, tagRepo, txScopes.ProjectScope(), log)
	teamService := projectapp.NewTeamService(projectRepo, memberRepo, employeeRepo, log)
	moduleService := projectapp.NewModuleService(projectRepo, moduleRepo, log)
	taskService := projectapp.NewTaskService(projectapp.TaskRepositories{
		Projects:  projectRepo,
		Tasks:     taskRepo,
		Modules:   moduleRepo,
		Employees: employeeRepo,
	}, txScopes.ProjectScope(), attributor, log)
	approvalService := projectapp.NewApprovalService(taskRepo, txScopes.ProjectScope(), attributor, log)
	timelineService := projectapp.NewTimelineService(projectRepo, taskRepo, dailyLogRepo, attributor, log)
	documentService := projectapp.NewDocumentService(projectRepo, documentRepo, objectStorage, log)
	documentService.SetConfig(projectapp.DocumentServiceConfig{
		UploadURLExpiry:   cfg.Storage.UploadExpiry,
		DownloadURLExpiry: cfg.Storage.DownloadExpiry,
	})

	reportService := reportapp.NewReportService(reportRepo, objectStorage, reportapp.ExportConfig{
		DownloadURLExpiry: cfg.Storage.DownloadExpiry,
	}, log)

	idempotencyStore, err := cache.NewIdempotencyStoreFactory(redisClient,
		cache.WithLogger(log),
		cache.WithKeyPrefix("bizledger:reminder:"),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	).CreateStore()
	if err != nil {
		log.Fatal("Failed to create reminder idempotency store", zap.Error(err))
	}
	reminderService := notification.NewReminderService(taskRepo, employeeRepo, notifier, idempotencyStore, cfg.Scheduler.ReminderWindowDays, log)

	// Event bus: notifications, metrics and an audit log of every event
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(notification.NewTaskEventHandler(taskRepo, projectRepo, employeeRepo, notifier, cfg.Notification.AdminEmail, log))
	eventBus.Subscribe(notification.NewRecurringEntryHandler(recurringRepo, employeeRepo, notifier, cfg.Notification.AdminEmail, log))
	eventBus.Subscribe(event.NewLogHandler(log))

	var ledgerMetrics *telemetry.LedgerMetrics
	if meterProvider.IsEnabled() {
		ledgerMetrics, err = telemetry.NewLedgerMetrics(meter, log)
		if err != nil {
			log.Fatal("Failed to create ledger metrics", zap.Error(err))
		}
		eventBus.Subscribe(ledgerMetrics)
	}
	if err := eventBus.Start(rootCtx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	entryService.SetEventPublisher(eventBus)
	recurringProcessor.SetEventPublisher(eventBus)
	taskService.SetEventPublisher(eventBus)
	approvalService.SetEventPublisher(eventBus)

	// In-process scheduler; the external cron endpoints stay authoritative
	var cronTrigger *scheduler.CronTrigger
	if cfg.Scheduler.Enabled {
		cronTrigger, err = newCronTrigger(cfg, recurringProcessor, reminderService, ledgerMetrics, log)
		if err != nil {
			log.Fatal("Failed to configure scheduler", zap.Error(err))
		}
		if err := cronTrigger.Start(rootCtx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
	}

	// Handlers
	probes := map[string]handler.Probe{"database": db.PingContext}
	if redisClient != nil {
		probes["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	handlers := router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Client:    handler.NewClientHandler(clientService),
		Account:   handler.NewAccountHandler(accountService),
		Category:  handler.NewCategoryHandler(categoryService),
		Tag:       handler.NewTagHandler(tagService),
		Entry:     handler.NewEntryHandler(entryService),
		Recurring: handler.NewRecurringHandler(recurringService, recurringProcessor),
		Employee:  handler.NewEmployeeHandler(employeeService),
		Report:    handler.NewReportHandler(reportService),
		Project:   handler.NewProjectHandler(projectService, teamService, moduleService),
		Task:      handler.NewTaskHandler(taskService, approvalService),
		Timeline:  handler.NewTimelineHandler(timelineService),
		Document:  handler.NewDocumentHandler(documentService),
		Cron:      handler.NewCronHandler(recurringProcessor, reminderService),
		System:    handler.NewSystemHandler(cfg.App.Name, version, probes),
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	// Global middleware; tracing first so every later layer sees the span
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tracerProvider.IsEnabled(),
	}))
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(meter, log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(corsConfig(cfg)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.HTTP.RateLimitEnabled {
		engine.Use(middleware.RateLimit(middleware.RateLimitConfig{
			Limiter: newLimiter(redisClient, "bizledger:ratelimit:", cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow),
			KeyFunc: middleware.ClientIPKey,
			Logger:  log,
		}))
	}

	// Probes stay outside /api/v1 and outside authentication
	router.RegisterProbes(engine, handlers.System)

	jwtMiddleware := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		Logger:         log,
	})

	// Swagger documentation
	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any",
			middleware.SwaggerProtection(cfg.Swagger, jwtMiddleware),
			ginSwagger.WrapHandler(swaggerFiles.Handler),
		)
		log.Info("Swagger UI enabled", zap.Bool("require_auth", cfg.Swagger.RequireAuth))
	}

	guards := router.Guards{
		Auth:  jwtMiddleware,
		Admin: middleware.RequireAdmin(),
		Cron:  middleware.CronSecret(cfg.Cron.Secret, log),
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		guards.Credentials = middleware.RateLimit(middleware.RateLimitConfig{
			Limiter: newLimiter(redisClient, "bizledger:ratelimit:auth:", cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow),
			KeyFunc: middleware.ClientIPKey,
			Logger:  log,
		})
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.TracingAttributeInjector())
	if profiler.IsEnabled() {
		r.Use(middleware.Profiling(middleware.DefaultProfilingConfig()))
	}
	r.Register(handlers.Groups(guards)...)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if cronTrigger != nil {
		if err := cronTrigger.Stop(ctx); err != nil {
			log.Error("Error stopping scheduler", zap.Error(err))
		}
	}
	if err := eventBus.Stop(ctx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	if poolMetrics != nil {
		poolMetrics.Stop()
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	if err := meterProvider.Shutdown(ctx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(ctx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := logProvider.Shutdown(ctx); err != nil {
		log.Error("Error shutting down log exporter", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// objectStorage is what documents and report exports need from a bucket
type objectStorage interface {
	projectapp.ObjectStorageService
	reportapp.ReportStorage
}

// newObjectStorage returns the S3 backend when configured, otherwise an
// in-process store whose URLs only work for local development
func newObjectStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) objectStorage {
	if !cfg.Storage.Enabled {
		log.Warn("Object storage disabled, documents are kept in memory")
		return storage.NewMemoryObjectStorage("http://localhost:" + cfg.App.Port + "/storage")
	}
	s3, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to create S3 storage", zap.Error(err))
	}
	if err := s3.EnsureBucket(ctx); err != nil {
		log.Fatal("Failed to prepare storage bucket", zap.Error(err), zap.String("bucket", s3.Bucket()))
	}
	return s3
}

// newNotifier returns the SMTP notifier when email is enabled, otherwise a
// notifier that only logs rendered messages
func newNotifier(cfg *config.Config, log *zap.Logger) notification.Notifier {
	if cfg.Notification.Enabled {
		n, err := mail.NewSMTPNotifier(cfg.Notification, log)
		if err != nil {
			log.Fatal("Failed to create SMTP notifier", zap.Error(err))
		}
		return n
	}
	n, err := mail.NewLogNotifier(cfg.Notification.AppURL, log)
	if err != nil {
		log.Fatal("Failed to create log notifier", zap.Error(err))
	}
	log.Info("Email disabled, notifications are logged only")
	return n
}

// newLimiter prefers the shared Redis window so limits hold across replicas
func newLimiter(client redis.UniversalClient, prefix string, limit int, window time.Duration) middleware.Limiter {
	if client != nil {
		return middleware.NewRedisRateLimiter(client, prefix, limit, window)
	}
	return middleware.NewRateLimiter(limit, window)
}

func newCronTrigger(
	cfg *config.Config,
	processor scheduler.RecurringProcessor,
	reminders scheduler.ReminderSender,
	metrics *telemetry.LedgerMetrics,
	log *zap.Logger,
) (*scheduler.CronTrigger, error) {
	recurringAt, err := scheduler.ParseCronSchedule(cfg.Scheduler.RecurringSchedule)
	if err != nil {
		return nil, err
	}
	remindersAt, err := scheduler.ParseCronSchedule(cfg.Scheduler.RemindersSchedule)
	if err != nil {
		return nil, err
	}

	triggerCfg := scheduler.DefaultCronTriggerConfig()
	if cfg.Scheduler.JobTimeout > 0 {
		triggerCfg.JobTimeout = cfg.Scheduler.JobTimeout
	}
	trigger := scheduler.NewCronTrigger(triggerCfg, log)

	for _, job := range []scheduler.Job{
		scheduler.RecurringJob(recurringAt, processor, log),
		scheduler.ReminderJob(remindersAt, reminders, log),
	} {
		if metrics != nil {
			job.Run = metrics.ObserveJob(job.Name, job.Run)
		}
		if err := trigger.Register(job); err != nil {
			return nil, err
		}
	}
	return trigger, nil
}

func corsConfig(cfg *config.Config) middleware.CORSConfig {
	c := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		c.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		c.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		c.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	return c
}
