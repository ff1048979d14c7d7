package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	auditapp "github.com/billmaster/backend/internal/application/audit"
	billingapp "github.com/billmaster/backend/internal/application/billing"
	inventoryapp "github.com/billmaster/backend/internal/application/inventory"
	partnerapp "github.com/billmaster/backend/internal/application/partner"
	printingapp "github.com/billmaster/backend/internal/application/printing"
	reportapp "github.com/billmaster/backend/internal/application/report"
	settingsapp "github.com/billmaster/backend/internal/application/settings"
	"github.com/billmaster/backend/internal/domain/identity"
	"github.com/billmaster/backend/internal/infrastructure/auth"
	"github.com/billmaster/backend/internal/infrastructure/cache"
	"github.com/billmaster/backend/internal/infrastructure/config"
	"github.com/billmaster/backend/internal/infrastructure/logger"
	"github.com/billmaster/backend/internal/infrastructure/persistence"
	"github.com/billmaster/backend/internal/infrastructure/printing"
	"github.com/billmaster/backend/internal/infrastructure/storage"
	"github.com/billmaster/backend/internal/infrastructure/telemetry"
	"github.com/billmaster/backend/internal/interfaces/http/handler"
	"github.com/billmaster/backend/internal/interfaces/http/middleware"
	"github.com/billmaster/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version is set at build time with -ldflags "-X main.Version=..."
var Version = "dev"

//	@title			Bill Master API
//	@version		1.0
//	@description	Invoicing, stock and credit tracking for a single retail shop

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.NewForEnvironment(cfg.App.Env, logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	serviceName := cfg.Telemetry.ServiceName
	if serviceName == "" {
		serviceName = cfg.App.Name
	}

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       serviceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       serviceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}

	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       serviceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	log = loggerProvider.Bridge(log, serviceName, zapcore.InfoLevel)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.PyroscopeAddress,
		ApplicationName: serviceName,
		Environment:     cfg.App.Env,
	}, log)
	if err != nil {
		log.Warn("Continuous profiling unavailable", zap.Error(err))
	} else if profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	log.Info("Starting Bill Master",
		zap.String("version", Version),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithFullSQL(cfg.Telemetry.DBLogFullSQL),
	)
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	dbSystem := cfg.Database.Driver
	if dbSystem == "" {
		dbSystem = "postgresql"
	}
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBSystem:        dbSystem,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
	}, log); err != nil {
		log.Warn("Database tracing unavailable", zap.Error(err))
	}

	if db.Driver() == "sqlite" {
		if err := db.AutoMigrate(ctx); err != nil {
			log.Fatal("Failed to create sqlite schema", zap.Error(err))
		}
	}

	// Repositories
	itemRepo := persistence.NewGormItemRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	auditRepo := persistence.NewGormAuditRepository(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	policy := identity.DefaultPolicy()

	idempotency := cache.NewIdempotencyStore(ctx, cfg.Redis, log)
	defer func() { _ = idempotency.Close() }()

	var objectStorage settingsapp.ObjectStorage
	if cfg.Storage.Enabled {
		s3, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			log.Warn("Object storage bucket check failed", zap.String("bucket", s3.GetBucket()), zap.Error(err))
		}
		objectStorage = s3
	} else {
		log.Info("Object storage disabled, uploads are kept in memory")
		objectStorage = storage.NewStubObjectStorage()
	}

	var renderer printing.PDFRenderer
	if cfg.Chrome.Enabled {
		chrome, err := printing.NewChromedpRenderer(&printing.ChromedpConfig{
			DefaultTimeout: cfg.Chrome.Timeout,
			RemoteURL:      cfg.Chrome.RemoteURL,
			NoSandbox:      cfg.Chrome.NoSandbox,
			Logger:         log,
		})
		if err != nil {
			log.Warn("PDF rendering unavailable", zap.Error(err))
		} else {
			renderer = chrome
			defer func() { _ = chrome.Close() }()
		}
	}

	// Services
	invoiceService := billingapp.NewInvoiceService(txScope, invoiceRepo, settingsRepo, policy, idempotency, billingapp.Options{
		AllowNegativeStock: cfg.Billing.AllowNegativeStock,
		IdempotencyTTL:     cfg.Billing.IdempotencyTTL,
	}, log)
	meter := meterProvider.Meter(serviceName)
	if meterProvider.IsEnabled() {
		billingMetrics, err := telemetry.NewBillingMetrics(meter, reportRepo, log)
		if err != nil {
			log.Warn("Billing metrics unavailable", zap.Error(err))
		} else {
			invoiceService.SetBusinessMetrics(billingMetrics)
		}
	}
	printService := printingapp.NewInvoicePrintService(invoiceService, settingsRepo, printing.NewTemplateEngine(), renderer, log)
	reportService := reportapp.NewReportService(reportRepo, itemRepo, customerRepo, policy, log)
	auditService := auditapp.NewAuditService(auditRepo, policy, log)
	settingsService := settingsapp.NewSettingsService(settingsRepo, auditRepo, objectStorage, policy, log)
	itemService := inventoryapp.NewItemService(itemRepo, categoryRepo, auditRepo, policy, log)
	categoryService := inventoryapp.NewCategoryService(categoryRepo, auditRepo, policy, log)
	customerService := partnerapp.NewCustomerService(customerRepo, auditRepo, policy, log)

	checks := map[string]handler.Pinger{"database": db}
	if pinger, ok := idempotency.(handler.Pinger); ok {
		checks["redis"] = pinger
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	httpMeter := meter
	if !meterProvider.IsEnabled() {
		httpMeter = nil
	}

	engine, err := router.New(router.Options{
		ServiceName:    serviceName,
		Logger:         log,
		Verifier:       auth.NewTokenVerifier(cfg.JWT),
		Meter:          httpMeter,
		TracingEnabled: tracerProvider.IsEnabled(),
		CORS:           cors,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		TrustedProxies: cfg.HTTP.TrustedProxies,
	}, router.Handlers{
		Invoice:  handler.NewInvoiceHandler(invoiceService, printService),
		Report:   handler.NewReportHandler(reportService, auditService),
		Settings: handler.NewSettingsHandler(settingsService),
		Item:     handler.NewItemHandler(itemService),
		Category: handler.NewCategoryHandler(categoryService),
		Customer: handler.NewCustomerHandler(customerService),
		Health:   handler.NewHealthHandler(Version, checks),
	})
	if err != nil {
		log.Fatal("Failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if profiler != nil {
		if err := profiler.Stop(); err != nil {
			log.Warn("Failed to stop profiler", zap.Error(err))
		}
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Failed to shutdown meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Failed to shutdown tracer provider", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Failed to shutdown logger provider", zap.Error(err))
	}

	log.Info("Server exited")
}
