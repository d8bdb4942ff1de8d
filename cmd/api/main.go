// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/carterperez-dev/salescrm/internal/auth"
	"github.com/carterperez-dev/salescrm/internal/config"
	"github.com/carterperez-dev/salescrm/internal/contact"
	"github.com/carterperez-dev/salescrm/internal/core"
	"github.com/carterperez-dev/salescrm/internal/deal"
	"github.com/carterperez-dev/salescrm/internal/event"
	"github.com/carterperez-dev/salescrm/internal/file"
	"github.com/carterperez-dev/salescrm/internal/health"
	"github.com/carterperez-dev/salescrm/internal/importer"
	"github.com/carterperez-dev/salescrm/internal/middleware"
	"github.com/carterperez-dev/salescrm/internal/organization"
	"github.com/carterperez-dev/salescrm/internal/outreach"
	"github.com/carterperez-dev/salescrm/internal/pipeline"
	"github.com/carterperez-dev/salescrm/internal/report"
	"github.com/carterperez-dev/salescrm/internal/server"
	"github.com/carterperez-dev/salescrm/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not read .env file", "error", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		configPath = ""
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	core.RegisterPoolMetrics(prometheus.DefaultRegisterer, db.Stats, redis.PoolStats)

	generated, err := auth.EnsureSigningKey(cfg.JWT.PrivateKeyPath)
	if err != nil {
		return err
	}
	if generated {
		logger.Warn("generated new JWT signing key", "path", cfg.JWT.PrivateKeyPath)
	}

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	blobs, err := file.NewDiskStore(cfg.Storage.UploadDir)
	if err != nil {
		return err
	}

	orgRepo := organization.NewRepository(db.DB)
	orgAuth := organization.NewAuthorizer(orgRepo)

	fileRepo := file.NewRepository(db.DB)
	fileSvc := file.NewService(fileRepo, blobs, orgAuth)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo, orgRepo, fileSvc)
	userHandler := user.NewHandler(userSvc)

	authRepo := auth.NewRepository(db.DB)
	authSvc := auth.NewService(authRepo, jwtManager, userSvc, auth.NewRedisBlacklist(redis.Client))
	authHandler := auth.NewHandler(authSvc)

	contactRepo := contact.NewRepository(db.DB)
	contactSvc := contact.NewService(contactRepo, orgAuth)

	dealRepo := deal.NewRepository(db.DB)

	pipelineSvc := pipeline.NewService(pipeline.NewRepository(db.DB), dealRepo, db)

	dealSvc := deal.NewService(deal.Deps{
		Repo:     dealRepo,
		Tx:       db,
		Orgs:     orgAuth,
		Contacts: contactSvc,
		Stages:   pipelineSvc,
		FollowUp: contactSvc,
	})

	eventSvc := event.NewService(event.NewRepository(db.DB), orgAuth)

	orgSvc := organization.NewService(orgRepo, organization.Sources{
		Contacts:    contactRepo,
		Deals:       dealRepo,
		Files:       fileRepo,
		Attendances: eventSvc,
		Blobs:       fileSvc,
	})

	reportSvc := report.NewService(report.NewRepository(db.DB))
	importSvc := importer.NewService(orgRepo, db)

	var drafter outreach.Drafter
	if cfg.Drafting.APIKey != "" {
		gemini, err := outreach.NewGeminiDrafter(ctx, cfg.Drafting)
		if err != nil {
			return err
		}
		drafter = gemini
	} else {
		logger.Warn("GOOGLE_API_KEY not set, email drafting disabled")
	}

	var mailer outreach.Mailer
	if cfg.Mail.Configured() {
		mailer = outreach.NewSMTPMailer(cfg.Mail)
	} else {
		logger.Warn("email credentials not set, sending disabled")
	}

	outreachSvc := outreach.NewService(outreach.Deps{
		Contacts: contactSvc,
		Orgs:     orgAuth,
		Drafter:  drafter,
		Mailer:   mailer,
		Sender: outreach.Sender{
			Name:    cfg.Drafting.SenderName,
			Company: cfg.Drafting.SenderCompany,
		},
	})

	healthHandler := health.NewHandler(
		health.Dependency{Name: "database", Checker: db},
		health.Dependency{Name: "redis", Checker: redis},
		health.Dependency{Name: "uploads", Checker: blobs},
	)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
		Tracing:       telemetry != nil,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics)
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.App.Environment == "production"))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	if cfg.Metrics.Enabled {
		router.Handle(cfg.Metrics.Path, promhttp.Handler())
	}

	authenticator := middleware.Authenticator(authSvc)
	credentialLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit:   middleware.PerMinute(10, 5),
		KeyFunc: middleware.ClientIP,
	}).Handler

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator, credentialLimiter)
		userHandler.RegisterRoutes(r, authenticator)

		organization.NewHandler(orgSvc).RegisterRoutes(r, authenticator)
		contact.NewHandler(contactSvc).RegisterRoutes(r, authenticator)
		deal.NewHandler(dealSvc).RegisterRoutes(r, authenticator)
		pipeline.NewHandler(pipelineSvc).RegisterRoutes(r, authenticator)
		event.NewHandler(eventSvc).RegisterRoutes(r, authenticator)
		file.NewHandler(fileSvc, cfg.Storage.MaxUploadBytes).RegisterRoutes(r, authenticator)
		report.NewHandler(reportSvc).RegisterRoutes(r, authenticator)
		importer.NewHandler(importSvc, cfg.Storage.MaxUploadBytes).RegisterRoutes(r, authenticator)
		outreach.NewHandler(outreachSvc).RegisterRoutes(r, authenticator)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := blobs.Close(); err != nil {
		logger.Error("upload store close error", "error", err)
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
