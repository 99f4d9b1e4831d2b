package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adminapp "github.com/d8nd8/python-final-diplom/internal/application/admin"
	catalogapp "github.com/d8nd8/python-final-diplom/internal/application/catalog"
	identityapp "github.com/d8nd8/python-final-diplom/internal/application/identity"
	tradeapp "github.com/d8nd8/python-final-diplom/internal/application/trade"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/auth"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/avatar"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/cache"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/config"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/feed"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/logger"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/migration"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/notify"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/persistence"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/scheduler"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/storage"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/telemetry"
	"github.com/d8nd8/python-final-diplom/internal/interfaces/http/handler"
	"github.com/d8nd8/python-final-diplom/internal/interfaces/http/middleware"
	"github.com/d8nd8/python-final-diplom/internal/interfaces/http/router"
	"github.com/d8nd8/python-final-diplom/migrations"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/d8nd8/python-final-diplom/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Marketplace API
//	@version		1.0
//	@description	Multi-vendor marketplace: partner price list imports, catalog search, carts and orders
//	@termsOfService	http://swagger.io/terms/

//	@contact.name	API Support
//	@contact.url	https://github.com/d8nd8/python-final-diplom

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting marketplace API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	rootCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	// Telemetry: tracer first so the DB plugin and HTTP middleware pick it up
	tracerProvider, err := telemetry.NewTracerProvider(rootCtx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()
	meterProvider, err := telemetry.NewMeterProvider(rootCtx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()
	meter := meterProvider.Meter(cfg.Telemetry.ServiceName)
	marketMetrics, err := telemetry.NewMarketMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create marketplace metrics", zap.Error(err))
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := prepareSchema(cfg, db, log); err != nil {
		log.Fatal("Failed to prepare database schema", zap.Error(err))
	}
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBName:          cfg.Database.DBName,
		SlowQueryThresh: cfg.Database.SlowThreshold,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

	// Cache: Redis when configured, process memory otherwise
	cacheFactory := cache.NewFactory(cfg.Redis, cache.WithLogger(log))
	if err := cacheFactory.Connect(); err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := cacheFactory.Close(); err != nil {
			log.Error("Error closing Redis", zap.Error(err))
		}
	}()

	var blacklist auth.TokenBlacklist
	var purgeTasks []scheduler.Task
	if client := cacheFactory.Client(); client != nil {
		blacklist = auth.NewRedisTokenBlacklist(client)
	} else {
		memBlacklist := auth.NewInMemoryTokenBlacklist()
		blacklist = memBlacklist
		purgeTasks = append(purgeTasks, scheduler.NewPurgeTask("token_blacklist_purge", memBlacklist))
	}
	avatarJobCache := cacheFactory.CreateStore("avatar:job:")
	if purger, ok := avatarJobCache.(scheduler.Purger); ok {
		purgeTasks = append(purgeTasks, scheduler.NewPurgeTask("avatar_jobs_purge", purger))
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	confirmTokenRepo := persistence.NewGormEmailConfirmTokenRepository(db.DB)
	contactRepo := persistence.NewGormContactRepository(db.DB)
	shopRepo := persistence.NewGormShopRepository(db.DB)
	productInfoRepo := persistence.NewGormProductInfoRepository(db.DB)
	listingQueryRepo := persistence.NewGormListingQueryRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	adminQueryRepo := persistence.NewGormAdminQueryRepository(db.DB)

	// Infrastructure services
	jwtService := auth.NewJWTService(cfg.JWT)
	notifier := notify.NewLogNotifier(log)
	feedLoader := feed.NewLoader(feed.NewFetcher(cfg.Feed, log))

	objectStore, err := storage.New(cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}
	avatarPool := avatar.NewPool(
		cfg.Avatar,
		avatar.NewJobStore(avatarJobCache, cfg.Avatar.JobTTL),
		objectStore,
		identityapp.NewAvatarRecorder(userRepo),
		log,
	)
	avatarPool.Start(rootCtx)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := avatarPool.Stop(ctx); err != nil {
			log.Error("Error stopping avatar workers", zap.Error(err))
		}
	}()

	// Application services
	authService := identityapp.NewAuthService(
		userRepo,
		confirmTokenRepo,
		jwtService,
		blacklist,
		notifier,
		identityapp.AuthServiceConfig{
			ConfirmTokenTTL:    cfg.Auth.ConfirmTokenTTL,
			ExposeConfirmToken: cfg.Auth.ExposeConfirmToken,
		},
		log,
	)
	contactService := identityapp.NewContactService(contactRepo)
	avatarService := identityapp.NewAvatarService(avatarPool, cfg.Avatar.MaxSize, marketMetrics, log)
	importService := catalogapp.NewImportService(feedLoader, persistence.NewGormCatalogTransactionScope(db.DB), marketMetrics, log)
	listingService := catalogapp.NewListingService(listingQueryRepo, shopRepo)
	cartService := tradeapp.NewCartService(cartRepo, productInfoRepo)
	orderService := tradeapp.NewOrderService(
		persistence.NewGormTradeTransactionScope(db.DB),
		orderRepo,
		contactRepo,
		userRepo,
		notifier,
		marketMetrics,
		log,
	)
	adminRegistry, err := adminapp.DefaultRegistry()
	if err != nil {
		log.Fatal("Invalid admin registry", zap.Error(err))
	}
	adminService := adminapp.NewService(adminRegistry, adminQueryRepo)

	// Maintenance scheduler
	if cfg.Scheduler.Enabled {
		tasks := append([]scheduler.Task{scheduler.NewExpiredTokenCleanup(confirmTokenRepo)}, purgeTasks...)
		maintenance, err := scheduler.NewScheduler(cfg.Scheduler.CleanupSchedule, log, tasks...)
		if err != nil {
			log.Fatal("Invalid scheduler configuration", zap.Error(err))
		}
		if err := maintenance.Start(); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer func() {
			if err := maintenance.Stop(context.Background()); err != nil {
				log.Error("Error stopping scheduler", zap.Error(err))
			}
		}()
		log.Info("Maintenance scheduler started",
			zap.String("schedule", cfg.Scheduler.CleanupSchedule),
			zap.Int("tasks", len(tasks)),
		)
	}

	// HTTP handlers
	handlers := router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Product: handler.NewProductHandler(listingService),
		Partner: handler.NewPartnerHandler(importService, listingService),
		Contact: handler.NewContactHandler(contactService),
		Cart:    handler.NewCartHandler(cartService, orderService),
		Order:   handler.NewOrderHandler(orderService),
		Avatar:  handler.NewAvatarHandler(avatarService, cfg.Avatar.MaxSize),
		Admin:   handler.NewAdminHandler(adminService, orderService),
	}
	healthHandler := handler.NewHealthHandler(healthChecks(db, cacheFactory))

	// Set Gin mode based on environment
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order: request id, logging and recovery first so every later
	// failure is logged with the id; tracing wraps the rest of the chain.
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(meter, log))
	securityCfg := middleware.DefaultSecurityConfig()
	if cfg.App.IsProduction() {
		securityCfg = middleware.ProductionSecurityConfig()
	}
	engine.Use(middleware.SecureWithConfig(securityCfg))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	var loginLimit gin.HandlerFunc
	if cfg.HTTP.RateLimitEnabled {
		engine.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)))
		// Credential endpoints get a tenth of the general budget
		authLimit := max(cfg.HTTP.RateLimitRequests/10, 5)
		loginLimit = middleware.AuthRateLimit(middleware.NewRateLimiter(authLimit, cfg.HTTP.RateLimitWindow))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Int("auth_requests", authLimit),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoints (outside and inside API versioning)
	engine.GET("/health", healthHandler.Health)
	engine.GET("/api/v1/health", healthHandler.Health)

	// Swagger documentation endpoint
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(cfg.Swagger),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = blacklist
	jwtConfig.Logger = log

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	for _, group := range router.MarketGroups(handlers, router.Guards{
		Authenticate:  middleware.JWTAuthMiddlewareWithConfig(jwtConfig),
		LoginLimit:    loginLimit,
		Authenticated: middleware.TracingAttributeInjector(),
	}) {
		r.Register(group)
	}
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

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
	stopWorkers()

	log.Info("Server exited gracefully")
}

// prepareSchema applies the embedded SQL migrations on postgres and
// falls back to model auto-migration for sqlite and mysql development setups.
func prepareSchema(cfg *config.Config, db *persistence.Database, log *zap.Logger) error {
	if cfg.Database.Driver != "postgres" {
		if !cfg.Database.AutoMigrate {
			return nil
		}
		log.Info("Auto-migrating models", zap.String("driver", cfg.Database.Driver))
		return db.AutoMigrate()
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.NewFromFS(sqlDB, migrations.FS, log)
	if err != nil {
		return err
	}
	return m.Up()
}

func healthChecks(db *persistence.Database, cacheFactory *cache.Factory) map[string]handler.HealthCheck {
	checks := map[string]handler.HealthCheck{
		"database": func(context.Context) error { return db.Ping() },
	}
	if client := cacheFactory.Client(); client != nil {
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	}
	return checks
}
