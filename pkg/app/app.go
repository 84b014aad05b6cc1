// Package app wires configuration, stores and services into the HTTP handler
// shared by the long-running server and the serverless entrypoint.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/wadjakorntonsri/booking-bridge/pkg/adapters/cache"
	"github.com/wadjakorntonsri/booking-bridge/pkg/adapters/handler"
	"github.com/wadjakorntonsri/booking-bridge/pkg/adapters/repository"
	"github.com/wadjakorntonsri/booking-bridge/pkg/config"
	"github.com/wadjakorntonsri/booking-bridge/pkg/core/services"
	"github.com/wadjakorntonsri/booking-bridge/pkg/ports"
)

type App struct {
	Handler http.Handler
	Repo    ports.PlaceRepository

	redis *redis.Client
}

// New opens the configured store and, when REDIS_URL is set, Redis. Without
// Redis the cache always misses and visitors are not rate limited.
func New(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*App, error) {
	repo, err := repository.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.WithField("backend", repository.Backend(cfg.DatabaseURL)).Info("database connected")

	a := &App{Repo: repo}

	var (
		placeCache ports.PlaceCache  = cache.NopCache{}
		limiter    ports.RateLimiter = cache.AllowAll{}
	)
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			repo.Close()
			return nil, err
		}
		a.redis = client
		placeCache = cache.NewRedisCache(client, cfg.CacheTTL)
		limiter = cache.NewRedisRateLimiter(client, cfg.RateLimitRPM)
		log.Info("redis cache and rate limiter enabled")
	} else {
		log.Warn("REDIS_URL not set, running without cache and rate limiting")
	}

	places := services.NewPlaceService(repo, placeCache, log)
	subscribers := services.NewSubscriberService(repo, places, log)
	a.Handler = handler.NewRouter(cfg, handler.Services{
		Places:      places,
		Tracking:    services.NewTrackingService(repo, places, cfg.TrackingTimeout, log),
		Analytics:   services.NewAnalyticsService(repo, places, cfg.Analytics.Location(), cfg.Analytics.DefaultDays, log),
		Subscribers: subscribers,
		Limiter:     limiter,
	}, log)
	return a, nil
}

// Close releases the store and the Redis client.
func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	errs = append(errs, a.Repo.Close())
	return errors.Join(errs...)
}
