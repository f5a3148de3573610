package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"sigmat-api/config"
	"sigmat-api/database"
	"sigmat-api/jobs"
	"sigmat-api/logger"
	"sigmat-api/middleware"
	"sigmat-api/repositories"
	"sigmat-api/routes"
	"sigmat-api/services"
	"sigmat-api/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(cfg, zl)
	if err != nil {
		zl.Fatal("failed to open store", zap.Error(err))
	}

	var cache services.SettingsCache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			zl.Warn("redis unavailable, settings will not be cached", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			cache = services.NewRedisSettingsCache(client, cfg.SettingsTTL, zl)
		}
	}

	media, err := openMedia(ctx, cfg)
	if err != nil {
		zl.Fatal("failed to set up media storage", zap.Error(err))
	}

	tokens := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	settings := services.NewSettingsService(store.Settings, cache, zl)
	points := services.NewPointsService(store.Payments, store.Users, settings, zl)
	notifications := services.NewNotificationService(store.Notifications, store.Friends, zl)
	svc := routes.Services{
		Users:         store.Users,
		Tokens:        tokens,
		Accounts:      services.NewAccountService(store.Users, services.NewBcryptHasher(bcrypt.DefaultCost), tokens, media, cfg.StartingPoints, zl),
		Friends:       services.NewFriendService(store.Friends, store.Users, zl),
		Points:        points,
		Chat:          services.NewChatService(store.Messages, store.Users, store.Friends, points, settings, media, zl),
		Stories:       services.NewStoryService(store.Stories, store.Users, store.Friends, media, zl),
		Notifications: notifications,
		Settings:      settings,
		Admin: services.NewAdminService(store, settings, tokens, media, services.NewEmailService(cfg),
			services.AdminCredentials{Username: cfg.AdminUsername, Password: cfg.AdminPassword}, zl),
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := utils.RegisterValidators(); err != nil {
		zl.Fatal("failed to register validators", zap.Error(err))
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	router := routes.NewRouter(cfg, svc, limiter, zl)

	scheduler := jobs.NewScheduler(zl)
	if err := scheduler.AddBroadcastExpiry(cfg.BroadcastSchedule, notifications, cfg.BroadcastTTL); err != nil {
		zl.Fatal("failed to schedule broadcast expiry", zap.Error(err))
	}
	scheduler.AddLimiterCleanup(5*time.Minute, limiter, 10*time.Minute)
	scheduler.Start()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zl.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env),
			zap.String("database", cfg.DatabaseDriver), zap.String("media", cfg.MediaDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
	scheduler.Stop(shutdownCtx)
}

func openStore(cfg *config.Config, zl *zap.Logger) (*repositories.Store, error) {
	if cfg.DatabaseDriver == "memory" {
		zl.Warn("using in-memory store, data is lost on restart")
		return repositories.NewMemoryStore(), nil
	}

	db, err := database.Initialize(cfg.DatabaseDriver, cfg.DatabaseURL, cfg.IsProduction())
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db, zl); err != nil {
		return nil, err
	}
	if err := database.SeedData(db, zl); err != nil {
		zl.Warn("failed to seed database", zap.Error(err))
	}
	return repositories.NewGormStore(db), nil
}

func openMedia(ctx context.Context, cfg *config.Config) (services.MediaStore, error) {
	if cfg.MediaDriver != "minio" {
		return services.DataURLStore{}, nil
	}
	return services.NewMinioStore(ctx, services.MinioOptions{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
		PublicURL: cfg.MediaPublicURL,
	})
}
