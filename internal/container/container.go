package container

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/patrickmn/go-cache"

	database "github.com/wonderapp/wonder-api/app/db"
	"github.com/wonderapp/wonder-api/config"
	"github.com/wonderapp/wonder-api/internal/api/activities"
	"github.com/wonderapp/wonder-api/internal/api/generative"
	"github.com/wonderapp/wonder-api/internal/api/geocode"
	"github.com/wonderapp/wonder-api/internal/api/recommendation"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	Pool   *pgxpool.Pool

	GeocodeHandler        *geocode.Handler
	RecommendationHandler *recommendation.Handler
	ActivityHandler       *activities.Handler
}

// NewContainer wires repositories, services, and handlers. The generative
// backend and the durable store are both optional: without a credential the
// pipeline runs on the seed list, and without a database nothing is
// persisted.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	var repo recommendation.Repository
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Warn("No usable database configuration, continuing without durable store", slog.Any("error", err))
	} else {
		if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
			return nil, err
		}
		pool, err := database.Init(dbConfig.ConnectionURL, logger)
		if err != nil {
			return nil, err
		}
		c.Pool = pool
		repo = recommendation.NewRepository(pool, logger)
	}

	aiClient, err := generative.NewAIClient(ctx, cfg.Recommendation.Model)
	if err != nil {
		return nil, err
	}
	if aiClient == nil {
		logger.Info("No generative backend credential configured, running on seed activities")
	}

	activityTTL := cfg.Recommendation.ActivityCacheTTL
	if activityTTL <= 0 {
		activityTTL = 24 * time.Hour
	}
	recTTL := cfg.Recommendation.RecCacheTTL
	if recTTL <= 0 {
		recTTL = time.Hour
	}
	activityCache := cache.New(activityTTL, time.Hour)
	recCache := cache.New(recTTL, 10*time.Minute)

	recService := recommendation.NewServiceImpl(clientOrNil(aiClient), repo, activityCache, recCache, recommendation.Config{
		GenerationTimeout: cfg.Recommendation.GenerationTimeout,
		RerankTimeout:     cfg.Recommendation.RerankTimeout,
		RerankTopN:        cfg.Recommendation.RerankTopN,
	}, logger)
	c.RecommendationHandler = recommendation.NewHandler(recService, logger)

	geocodeService := geocode.NewServiceImpl(&http.Client{Timeout: 10 * time.Second}, cfg.Geocoder.BaseURL, logger)
	c.GeocodeHandler = geocode.NewHandler(geocodeService, logger)

	if repo != nil {
		activityService := activities.NewServiceImpl(repo, clientOrNil(aiClient), logger)
		c.ActivityHandler = activities.NewHandler(activityService, logger)
	}

	return c, nil
}

// clientOrNil avoids storing a typed nil *AIClient in the Client interface,
// which would defeat the == nil checks in the services.
func clientOrNil(ai *generative.AIClient) generative.Client {
	if ai == nil {
		return nil
	}
	return ai
}

// Close releases all resources held by the container.
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// WaitForDB waits for the database to be ready.
func (c *Container) WaitForDB(ctx context.Context) bool {
	if c.Pool == nil {
		return true
	}
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}
