package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"tender_backend/internal/app/di"
	"tender_backend/internal/app/router"
	adminadapters "tender_backend/internal/feature/admin/adapters"
	adminhandler "tender_backend/internal/feature/admin/transport/handler"
	adminusecase "tender_backend/internal/feature/admin/usecase"
	assistanthandler "tender_backend/internal/feature/assistant/transport/handler"
	assistantusecase "tender_backend/internal/feature/assistant/usecase"
	authadapters "tender_backend/internal/feature/auth/adapters"
	authhandler "tender_backend/internal/feature/auth/transport/handler"
	authusecase "tender_backend/internal/feature/auth/usecase"
	tenderadapters "tender_backend/internal/feature/tender/adapters"
	tenderhandler "tender_backend/internal/feature/tender/transport/handler"
	tenderusecase "tender_backend/internal/feature/tender/usecase"
	"tender_backend/internal/platform/config"
	platformdb "tender_backend/internal/platform/db"
	"tender_backend/internal/platform/http/handler"
	jwtmw "tender_backend/internal/platform/jwt"
	"tender_backend/internal/platform/mail"
	platformredis "tender_backend/internal/platform/redis"
	"tender_backend/internal/platform/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	cfg := config.Load()
	gin.SetMode(config.String("GIN_MODE", gin.ReleaseMode))

	// db
	dbCfg := platformdb.LoadConfigFromEnv()
	db, err := openDB(dbCfg, dbCfg.RunMigrations)
	if err != nil {
		return err
	}
	defer closeDB(db)

	// Redis
	var rdb *redisv9.Client
	if redisCfg := platformredis.LoadConfigFromEnv(); redisCfg.Enabled() {
		if tmp, err := platformredis.NewRedisClient(ctx, redisCfg); err != nil {
			log.Warn("Redis unavailable. Running without cache and AI rate limiting.")
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					log.Error("Failed to close Redis client", "error", err)
				}
			}()
		}
	}

	// Storage and external services
	storageCfg := storage.LoadConfigFromEnv()
	files, err := storage.New(ctx, storageCfg)
	if err != nil {
		return fmt.Errorf("failed to create file storage: %w", err)
	}
	extractor, extractorCloser := di.NewExtractor(ctx, cfg.Extractor)
	defer extractorCloser.Close()
	generator := di.NewGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.AITimeout)
	mailer := mail.New(mail.LoadConfigFromEnv(), log)

	// JWT_SECRET check
	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET is not set. Authenticated routes will answer 500 until it is set.")
	}

	// Repository
	tx := platformdb.NewTransactor(db)
	userRepo := authadapters.NewUserRepository(db)
	tokenRepo := authadapters.NewTokenRepository(db)
	tenderRepo := tenderadapters.NewTenderRepository(db)
	cachedTenderRepo := di.NewTenderRepository(rdb, db)
	auditRepo := adminadapters.NewAuditLogRepository(db)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, tokenRepo, tx, jwtmw.NewGenerator(cfg.JWTSecret, cfg.JWTExpiration), mailer,
		authusecase.Config{AppBaseURL: cfg.AppBaseURL, FrontendBaseURL: cfg.FrontendBaseURL, ConfirmationTTL: cfg.ConfirmationTTL, InvitationTTL: cfg.InvitationTTL})
	tenderUC := tenderusecase.NewTenderUsecase(cachedTenderRepo, files, extractor)
	assistantUC := assistantusecase.NewAssistantUsecase(generator, tenderRepo, userRepo, cfg.AITimeout)
	adminUC := adminusecase.NewAdminUsecase(userRepo, tenderRepo, auditRepo, tx)

	// Handler
	checks := map[string]handler.Check{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	handlers := router.Handlers{
		Health:    handler.NewHealthHandler(checks),
		Auth:      authhandler.NewAuthHandler(authUC),
		Tenders:   tenderhandler.NewTenderHandler(tenderUC),
		Assistant: assistanthandler.NewAssistantHandler(assistantUC),
		Admin:     adminhandler.NewAdminHandler(adminUC),
	}

	opts := router.Options{
		Logger:      log,
		CORSOrigins: cfg.CORSOrigins,
		JWTSecret:   cfg.JWTSecret,
		Users:       userRepo,
		AILimiter:   di.NewAILimiter(rdb, cfg.AIRateLimit),
	}
	if storageCfg.Driver == storage.DriverLocal {
		opts.UploadPrefix, opts.UploadDir = storageCfg.PublicPrefix, storageCfg.UploadDir
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.NewRouter(handlers, opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "addr", srv.Addr, "version", version)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("server stopped")
	return nil
}
