package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"agridynamic/docs"
	"agridynamic/internal/auth"
	"agridynamic/internal/cache"
	"agridynamic/internal/config"
	"agridynamic/internal/db"
	"agridynamic/internal/handler"
	"agridynamic/internal/logging"
	"agridynamic/internal/media"
	"agridynamic/internal/notify"
	"agridynamic/internal/repository"
	"agridynamic/internal/router"
	"agridynamic/internal/service"
	"agridynamic/internal/worker"
)

const shutdownTimeout = 10 * time.Second

// @title AgriDynamic Content API
// @version 1.0
// @description Articles, partners, volunteers and enquiries for the AgriDynamic site.
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.
func main() {
	// .env is optional; real environment variables take precedence.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.IsProduction(), os.Stderr)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return err
	}

	if cfg.ResetDB {
		logger.Warn("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			return err
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if !cfg.CacheEnabled() {
		logger.Info("redis not configured, list caching disabled")
	}

	pool := worker.NewPool(logger, worker.DefaultConfig())
	pool.Start(context.WithoutCancel(ctx))
	defer pool.Stop()

	// Media host
	var host media.Host
	if cfg.MediaEnabled() {
		client, err := media.NewS3Client(ctx, media.S3Options{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.MediaPublicURL,
		})
		if err != nil {
			return err
		}
		host = media.NewS3Host(client, cfg.S3Bucket, cfg.MediaPublicURL)
	} else {
		logger.Warn("media host not configured, file uploads will be rejected")
	}
	inspector := media.NewInspector(cfg.MediaMaxUploadBytes, cfg.MediaMaxDimension)
	resolver := media.NewResolver(host, inspector, pool, logger)

	// Outbound mail
	var sender notify.Sender
	if cfg.MailEnabled() {
		smtpSender, err := notify.NewSMTPSender(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.Sender(),
		})
		if err != nil {
			return err
		}
		sender = smtpSender
	}
	notifier := notify.NewNotifier(sender, pool, logger)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	articleRepo := repository.NewArticleRepository(gormDB)
	partnerRepo := repository.NewPartnerRepository(gormDB)
	volunteerRepo := repository.NewVolunteerRepository(gormDB)
	enquiryRepo := repository.NewEnquiryRepository(gormDB)

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)

	// Initialize services
	authService := service.NewAuthService(userRepo, tokens)
	userService := service.NewUserService(userRepo)
	articleService := service.NewArticleService(articleRepo, resolver, cacheClient)
	partnerService := service.NewPartnerService(partnerRepo, resolver, cacheClient)
	volunteerService := service.NewVolunteerService(volunteerRepo)
	enquiryService := service.NewEnquiryService(enquiryRepo, notifier, cfg.AdminNotifyEmail)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	router.Register(e, cfg, logger, tokens, userRepo, router.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Users:      handler.NewUserHandler(userService),
		Articles:   handler.NewArticleHandler(articleService),
		Partners:   handler.NewPartnerHandler(partnerService),
		Volunteers: handler.NewVolunteerHandler(volunteerService),
		Enquiries:  handler.NewEnquiryHandler(enquiryService),
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", cfg.ServerAddr()), slog.String("env", cfg.Env))
		if err := e.Start(cfg.ServerAddr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
