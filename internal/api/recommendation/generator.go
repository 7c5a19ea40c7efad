package recommendation

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/wonderapp/wonder-api/app/observability/metrics"
	"github.com/wonderapp/wonder-api/internal/types"
)

// generateActivities returns a non-empty candidate list for a location. It
// consults the 24h activity cache, then the generative backend, and degrades
// to the seed list on any failure. It never returns an error to its caller.
func (s *ServiceImpl) generateActivities(ctx context.Context, cacheKey string, loc types.Location, query string) []types.Activity {
	ctx, span := otel.Tracer("RecommendationService").Start(ctx, "generateActivities", trace.WithAttributes(
		attribute.String("cache.key", cacheKey),
	))
	defer span.End()

	l := s.logger.With(slog.String("cache_key", cacheKey))

	if cached, found := s.activityCache.Get(cacheKey); found {
		if acts, ok := cached.([]types.Activity); ok {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			metrics.Get().CacheHitsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("tier", "activity")))
			l.DebugContext(ctx, "Returning activities from cache", slog.Int("count", len(acts)))
			return acts
		}
	}
	metrics.Get().CacheMissesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("tier", "activity")))

	if s.aiClient == nil {
		l.DebugContext(ctx, "No generation backend configured, returning seed activities")
		return SeedActivities()
	}

	// Concurrent misses for the same key share one backend call. The shared
	// call runs on a detached context so one waiter's disconnect cannot
	// cancel it for the rest; generateFromBackend applies its own timeout.
	result, _, _ := s.group.Do(cacheKey, func() (any, error) {
		return s.generateFromBackend(context.WithoutCancel(ctx), cacheKey, loc, query), nil
	})
	acts := result.([]types.Activity)
	span.SetAttributes(attribute.Int("activities.count", len(acts)))
	return acts
}

func (s *ServiceImpl) generateFromBackend(ctx context.Context, cacheKey string, loc types.Location, query string) []types.Activity {
	ctx, span := otel.Tracer("RecommendationService").Start(ctx, "generateFromBackend")
	defer span.End()

	l := s.logger.With(slog.String("cache_key", cacheKey))

	prompt := getActivityGenerationPrompt(loc, query)
	span.SetAttributes(attribute.Int("prompt.length", len(prompt)))

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.GenerationTimeout)
	defer cancel()

	startTime := time.Now()
	raw, err := s.aiClient.GenerateContent(callCtx, prompt, &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.7),
		MaxOutputTokens: 700,
	})
	metrics.Get().LLMCallDurationSeconds.Record(ctx, time.Since(startTime).Seconds(),
		metric.WithAttributes(attribute.String("stage", "generate")))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Generation backend call failed")
		metrics.Get().LLMFallbacksTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", "generate")))
		l.WarnContext(ctx, "Generation backend failed, returning seed activities", slog.Any("error", err))
		return SeedActivities()
	}

	acts, err := decodeActivities(raw)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to decode generated activities")
		metrics.Get().LLMFallbacksTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", "generate")))
		l.WarnContext(ctx, "Could not decode generated activities, returning seed activities",
			slog.Any("error", err), slog.Int("raw_length", len(raw)))
		return SeedActivities()
	}

	s.persistActivities(ctx, acts)

	s.activityCache.Set(cacheKey, acts, cache.DefaultExpiration)
	span.SetStatus(codes.Ok, "Activities generated")
	l.InfoContext(ctx, "Generated activities from backend", slog.Int("count", len(acts)))
	return acts
}

// persistActivities upserts store-eligible candidates into the durable store,
// assigning a fresh UUID when a synthesized id is not one and propagating it
// back into the slice. Upsert failures are logged and do not abort the
// request; a partial batch is accepted.
func (s *ServiceImpl) persistActivities(ctx context.Context, acts []types.Activity) {
	if s.repo == nil {
		return
	}
	for i := range acts {
		if !acts[i].StoreEligible() {
			continue
		}
		if _, err := uuid.Parse(acts[i].ID); err != nil {
			acts[i].ID = uuid.New().String()
		}
		if err := s.repo.UpsertActivity(ctx, acts[i]); err != nil {
			s.logger.WarnContext(ctx, "Failed to persist generated activity",
				slog.String("activity_id", acts[i].ID), slog.Any("error", err))
		}
	}
}
