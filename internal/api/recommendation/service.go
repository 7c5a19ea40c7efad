package recommendation

import (
	"context"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/wonderapp/wonder-api/internal/api/generative"
	"github.com/wonderapp/wonder-api/internal/types"
)

// Config bounds the external calls and sizes the re-rank window.
type Config struct {
	GenerationTimeout time.Duration
	RerankTimeout     time.Duration
	RerankTopN        int
}

// DefaultConfig mirrors the production settings: 7 second call budgets and a
// ten-candidate re-rank window.
func DefaultConfig() Config {
	return Config{
		GenerationTimeout: 7 * time.Second,
		RerankTimeout:     7 * time.Second,
		RerankTopN:        10,
	}
}

var _ Service = (*ServiceImpl)(nil)

// Service is the business logic contract for activity recommendations.
type Service interface {
	Recommend(ctx context.Context, loc types.Location, prefs types.UserPreferences, query string) ([]types.ActivityMatch, error)
}

// ServiceImpl runs the recommendation pipeline: candidate generation (cache,
// generative backend, or seed fallback), deterministic scoring, then a
// best-effort generative re-rank. The generative stages degrade to the
// deterministic ones on any failure; only bad input fails a request.
type ServiceImpl struct {
	logger        *slog.Logger
	aiClient      generative.Client
	repo          Repository
	activityCache *cache.Cache
	recCache      *cache.Cache
	cfg           Config

	// Coalesces concurrent generation misses for the same cache key so a
	// burst of requests for one location costs one backend call.
	group singleflight.Group
}

// NewServiceImpl creates the recommendation service. aiClient and repo may be
// nil; the pipeline then runs on the seed list and skips persistence.
func NewServiceImpl(aiClient generative.Client, repo Repository, activityCache, recCache *cache.Cache, cfg Config, logger *slog.Logger) *ServiceImpl {
	if cfg.RerankTopN <= 0 {
		cfg.RerankTopN = DefaultConfig().RerankTopN
	}
	if cfg.GenerationTimeout <= 0 {
		cfg.GenerationTimeout = DefaultConfig().GenerationTimeout
	}
	if cfg.RerankTimeout <= 0 {
		cfg.RerankTimeout = DefaultConfig().RerankTimeout
	}
	return &ServiceImpl{
		logger:        logger,
		aiClient:      aiClient,
		repo:          repo,
		activityCache: activityCache,
		recCache:      recCache,
		cfg:           cfg,
	}
}

// Recommend produces a ranked, reasoned activity list for a location. The
// caller is responsible for validating the location.
func (s *ServiceImpl) Recommend(ctx context.Context, loc types.Location, prefs types.UserPreferences, query string) ([]types.ActivityMatch, error) {
	ctx, span := otel.Tracer("RecommendationService").Start(ctx, "Recommend", trace.WithAttributes(
		attribute.Float64("location.lat", loc.Lat),
		attribute.Float64("location.lng", loc.Lng),
	))
	defer span.End()

	query = normalizeQuery(query)

	activities := s.generateActivities(ctx, activityCacheKey(loc, query), loc, query)
	span.SetAttributes(attribute.Int("candidates.count", len(activities)))

	matches := rankActivities(prefs, loc, activities)
	if len(matches) == 0 {
		// Every candidate lacked a usable location; the seed list always
		// scores, so rank that instead.
		matches = rankActivities(prefs, loc, SeedActivities())
	}

	result := s.rerank(ctx, recommendationCacheKey(prefs, loc, query), loc, prefs, query, matches)

	span.SetStatus(codes.Ok, "Recommendations produced")
	return result, nil
}
