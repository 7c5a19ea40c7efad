package recommendation

import (
	"context"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"google.golang.org/genai"

	"github.com/wonderapp/wonder-api/app/observability/metrics"
	"github.com/wonderapp/wonder-api/internal/types"
)

// rerank asks the generative backend to reorder and justify the top scored
// candidates. Strictly best-effort: the scorer's ordering is returned on any
// failure. The 1h recommendation cache is consulted before anything else,
// including the backend-configured check.
func (s *ServiceImpl) rerank(ctx context.Context, cacheKey string, loc types.Location, prefs types.UserPreferences, query string, matches []types.ActivityMatch) []types.ActivityMatch {
	ctx, span := otel.Tracer("RecommendationService").Start(ctx, "rerank")
	defer span.End()

	l := s.logger.With(slog.String("handler", "rerank"))

	if cached, found := s.recCache.Get(cacheKey); found {
		if recs, ok := cached.([]types.ActivityMatch); ok {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			metrics.Get().CacheHitsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("tier", "recommendation")))
			return recs
		}
	}
	metrics.Get().CacheMissesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("tier", "recommendation")))

	if s.aiClient == nil {
		return matches
	}

	topN := s.cfg.RerankTopN
	if topN > len(matches) {
		topN = len(matches)
	}
	if topN == 0 {
		return matches
	}
	topActivities := make([]types.Activity, 0, topN)
	for _, m := range matches[:topN] {
		topActivities = append(topActivities, m.Activity)
	}

	prompt := getRerankPrompt(loc, prefs, query, topActivities)
	span.SetAttributes(attribute.Int("prompt.length", len(prompt)), attribute.Int("candidates.count", topN))

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.RerankTimeout)
	defer cancel()

	startTime := time.Now()
	raw, err := s.aiClient.GenerateContent(callCtx, prompt, &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.2),
		MaxOutputTokens: 250,
	})
	metrics.Get().LLMCallDurationSeconds.Record(ctx, time.Since(startTime).Seconds(),
		metric.WithAttributes(attribute.String("stage", "rerank")))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Re-rank backend call failed")
		metrics.Get().LLMFallbacksTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", "rerank")))
		l.WarnContext(ctx, "Re-rank failed, falling back to scored ordering", slog.Any("error", err))
		return matches
	}

	ranking, err := decodeRanking(raw)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to decode re-rank response")
		metrics.Get().LLMFallbacksTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", "rerank")))
		l.WarnContext(ctx, "Could not decode re-rank response, falling back to scored ordering", slog.Any("error", err))
		return matches
	}

	// Map ids back to candidates; an unknown id keeps its slot by borrowing
	// the top candidate rather than dropping the entry.
	reranked := make([]types.ActivityMatch, 0, len(ranking))
	for _, r := range ranking {
		activity := topActivities[0]
		for _, candidate := range topActivities {
			if candidate.ID == r.ActivityID {
				activity = candidate
				break
			}
		}
		reranked = append(reranked, types.ActivityMatch{
			Activity:     activity,
			Score:        r.Score,
			MatchReasons: r.Reasons,
		})
	}

	s.recCache.Set(cacheKey, reranked, cache.DefaultExpiration)
	span.SetStatus(codes.Ok, "Re-rank applied")
	return reranked
}
