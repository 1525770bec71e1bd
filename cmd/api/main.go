package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/editmelo/studio-platform/cmd/mainconfig"
	"github.com/editmelo/studio-platform/internal/api/router"
	"github.com/editmelo/studio-platform/internal/captcha"
	appconfig "github.com/editmelo/studio-platform/internal/config"
	"github.com/editmelo/studio-platform/internal/http/handlers"
	httpmiddleware "github.com/editmelo/studio-platform/internal/http/middleware"
	"github.com/editmelo/studio-platform/internal/intake"
	"github.com/editmelo/studio-platform/internal/leads"
	"github.com/editmelo/studio-platform/internal/notify"
	"github.com/editmelo/studio-platform/internal/observability/metrics"
	"github.com/editmelo/studio-platform/internal/ratelimit"
	"github.com/editmelo/studio-platform/internal/uploads"
	"github.com/editmelo/studio-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting studio-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	funnelMetrics := metrics.NewFunnelMetrics(registry)

	// Rate limit store
	var limitStore ratelimit.Store
	if cfg.RateLimitBackend == "redis" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Error("redis ping failed, falling back to in-memory rate limiting", "error", err)
			limitStore = ratelimit.NewMemoryStore()
		} else {
			limitStore = ratelimit.NewRedisStore(client)
			logger.Info("rate limiting backed by redis", "addr", cfg.RedisAddr)
		}
	} else {
		limitStore = ratelimit.NewMemoryStore()
	}
	leadLimiter := ratelimit.New(limitStore, "leads", cfg.LeadRateMax, cfg.LeadRateWindow, logger)
	gateLimiter := ratelimit.New(limitStore, "gate", cfg.GateRateMax, cfg.GateRateWindow, logger)

	// Captcha
	var verifier captcha.Verifier
	if cfg.RecaptchaSecretKey != "" {
		v, err := captcha.NewGoogleVerifier(captcha.Config{
			SecretKey: cfg.RecaptchaSecretKey,
			VerifyURL: cfg.RecaptchaVerifyURL,
			Logger:    logger,
		})
		if err != nil {
			logger.Error("failed to configure captcha verifier", "error", err)
			os.Exit(1)
		}
		verifier = v
	} else {
		logger.Warn("RECAPTCHA_SECRET_KEY not set, captcha-bearing submissions will be rejected")
	}

	// Storage
	var leadsRepo leads.Repository
	var intakeRepo intake.Repository
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		var err error
		pool, err = pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create pgx pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		leadsRepo = leads.NewPostgresRepository(pool)
		intakeRepo = intake.NewPostgresRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory storage")
		leadsRepo = leads.NewInMemoryRepository()
		intakeRepo = intake.NewInMemoryRepository()
	}

	// AWS clients (S3 uploads + optional SES email)
	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}
	s3Client := s3.NewFromConfig(awsCfg)
	assetStore := uploads.NewStore(uploads.StoreConfig{
		Bucket:     cfg.AssetsBucket,
		S3Client:   s3Client,
		Presigner:  s3.NewPresignClient(s3Client),
		PreviewTTL: cfg.PreviewURLTTL,
		MaxBytes:   cfg.UploadMaxBytes,
		Metrics:    funnelMetrics,
		Logger:     logger,
	})

	// Email
	var sender notify.EmailSender
	switch cfg.EmailProvider {
	case "sendgrid":
		sender = notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
	case "ses":
		sender = notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger)
	default:
		sender = notify.NewStubEmailSender(logger)
	}
	notifier := notify.NewService(sender, cfg.NotifyEmails, logger)

	// Domain services and handlers
	guard := leads.NewGuard(leads.GuardConfig{
		Limiter:  leadLimiter,
		Verifier: verifier,
		Repo:     leadsRepo,
		Notifier: notifier,
		MinScore: cfg.RecaptchaMinScore,
		Metrics:  funnelMetrics,
		Logger:   logger,
	})
	intakeService := intake.NewService(intake.ServiceConfig{
		Repo:     intakeRepo,
		Notifier: notifier,
		Metrics:  funnelMetrics,
		Logger:   logger,
	})

	routerCfg := &router.Config{
		Logger:             logger,
		LeadsHandler:       leads.NewHandler(guard, logger),
		IntakeHandler:      intake.NewHandler(intakeService, logger),
		IntakeGate:         intake.NewGate(cfg.IntakePassword, gateLimiter, logger),
		UploadsHandler:     uploads.NewHandler(assetStore, cfg.AdminURLTTL, logger),
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}

	// Admin review API needs database/sql for its read queries.
	if cfg.AdminJWTSecret != "" && cfg.AdminDatabaseURL != "" {
		adminDB, err := sql.Open("postgres", cfg.AdminDatabaseURL)
		if err != nil {
			logger.Error("failed to open admin db", "error", err)
			os.Exit(1)
		}
		defer func() { _ = adminDB.Close() }()
		routerCfg.AdminLeads = handlers.NewAdminLeadsHandler(adminDB, logger)
		routerCfg.AdminIntakes = handlers.NewAdminIntakesHandler(adminDB, logger)
		routerCfg.AdminAuthSecret = cfg.AdminJWTSecret
		routerCfg.RoleChecker = httpmiddleware.NewUserRoleStore(adminDB)
	} else {
		logger.Warn("admin API disabled, set ADMIN_JWT_SECRET and ADMIN_DATABASE_URL to enable")
	}

	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
