package recommendation

import (
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/wonderapp/wonder-api/app/observability/metrics"
	"github.com/wonderapp/wonder-api/internal/api"
	"github.com/wonderapp/wonder-api/internal/types"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RecommendRequest is the body of POST /activities/recommend.
type RecommendRequest struct {
	Location *types.Location `json:"location"`
	Query    string          `json:"query,omitempty"`
}

// Recommend handles POST /activities/recommend.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RecommendationHandler").Start(r.Context(), "Recommend", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/activities/recommend"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Recommend"))
	l.DebugContext(ctx, "Recommend handler invoked")

	startTime := time.Now()
	defer func() {
		metrics.Get().RecommendRequestsTotal.Add(ctx, 1)
		metrics.Get().RecommendDurationSeconds.Record(ctx, time.Since(startTime).Seconds())
	}()

	var req RecommendRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		span.RecordError(err)
		api.ErrorResponse(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid request format: %s", err.Error()))
		return
	}

	if req.Location == nil || !isFinite(req.Location.Lat) || !isFinite(req.Location.Lng) {
		l.ErrorContext(ctx, "Invalid location in request", slog.Any("location", req.Location))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid location format")
		return
	}

	// The preference profile is a fixed request-time configuration for now;
	// a persisted per-user profile slots in here without touching the
	// pipeline.
	prefs := types.DefaultPreferences()

	matches, err := h.service.Recommend(ctx, *req.Location, prefs, req.Query)
	if err != nil {
		l.ErrorContext(ctx, "Failed to get recommendations", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to get recommendations: "+err.Error())
		return
	}

	l.InfoContext(ctx, "Recommendations produced", slog.Int("count", len(matches)))
	api.WriteJSONResponse(w, r, http.StatusOK, matches)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
