package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"sigmat-api/apperrors"
	"sigmat-api/models"
	"sigmat-api/repositories"
)

// SettingsSource yields the current global settings. The ledger and the chat
// service receive one at construction instead of reading a global.
type SettingsSource interface {
	Load(ctx context.Context) (models.Settings, error)
}

// SettingsCache is an optional read-through cache in front of the settings record.
type SettingsCache interface {
	Get(ctx context.Context) (models.Settings, bool)
	Set(ctx context.Context, settings models.Settings)
	Invalidate(ctx context.Context)
}

type SettingsService struct {
	repo   repositories.SettingsRepository
	cache  SettingsCache
	logger *zap.Logger
}

func NewSettingsService(repo repositories.SettingsRepository, cache SettingsCache, logger *zap.Logger) *SettingsService {
	return &SettingsService{repo: repo, cache: cache, logger: logger}
}

// Load returns the settings record, creating it with defaults on first read.
func (s *SettingsService) Load(ctx context.Context) (models.Settings, error) {
	if s.cache != nil {
		if settings, ok := s.cache.Get(ctx); ok {
			return settings, nil
		}
	}

	stored, err := s.repo.Get(ctx)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		defaults := models.DefaultSettings()
		if err := s.repo.Save(ctx, &defaults); err != nil {
			return models.Settings{}, apperrors.Internal("failed to initialize settings", err)
		}
		s.logger.Info("initialized default settings")
		stored = &defaults
	case err != nil:
		return models.Settings{}, apperrors.Internal("failed to load settings", err)
	}

	if s.cache != nil {
		s.cache.Set(ctx, *stored)
	}
	return *stored, nil
}

func (s *SettingsService) Update(ctx context.Context, update models.SettingsUpdate) (models.Settings, error) {
	if update.PaymentMode != nil && !update.PaymentMode.Valid() {
		return models.Settings{}, apperrors.InvalidInput("payment_mode must be free or paid")
	}

	settings, err := s.Load(ctx)
	if err != nil {
		return models.Settings{}, err
	}
	update.Apply(&settings)

	if err := s.repo.Save(ctx, &settings); err != nil {
		return models.Settings{}, apperrors.Internal("failed to save settings", err)
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	return settings, nil
}

const settingsCacheKey = "sigmat:settings"

// RedisSettingsCache keeps the settings record as JSON under one key.
type RedisSettingsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisSettingsCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisSettingsCache {
	return &RedisSettingsCache{client: client, ttl: ttl, logger: logger}
}

func (c *RedisSettingsCache) Get(ctx context.Context) (models.Settings, bool) {
	raw, err := c.client.Get(ctx, settingsCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("settings cache read failed", zap.Error(err))
		}
		return models.Settings{}, false
	}

	var settings models.Settings
	if err := json.Unmarshal(raw, &settings); err != nil {
		c.logger.Warn("settings cache entry is corrupt", zap.Error(err))
		return models.Settings{}, false
	}
	settings.ID = models.SettingsID
	return settings, true
}

func (c *RedisSettingsCache) Set(ctx context.Context, settings models.Settings) {
	raw, err := json.Marshal(settings)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, settingsCacheKey, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("settings cache write failed", zap.Error(err))
	}
}

func (c *RedisSettingsCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, settingsCacheKey).Err(); err != nil {
		c.logger.Warn("settings cache invalidation failed", zap.Error(err))
	}
}
