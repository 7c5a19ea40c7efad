package geocode

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/wonderapp/wonder-api/app/observability/metrics"
	"github.com/wonderapp/wonder-api/internal/api"
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

type geocodeRequest struct {
	City  string `json:"city"`
	State string `json:"state"`
}

// Geocode handles POST /geocode.
func (h *Handler) Geocode(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("GeocodeHandler").Start(r.Context(), "Geocode", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/geocode"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Geocode"))
	l.DebugContext(ctx, "Geocode handler invoked")
	metrics.Get().GeocodeRequestsTotal.Add(ctx, 1)

	var req geocodeRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		span.RecordError(err)
		api.ErrorResponse(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid request format: %s", err.Error()))
		return
	}

	if req.City == "" || req.State == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "City and state are required")
		return
	}

	loc, err := h.service.Geocode(ctx, req.City, req.State)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Location not found")
			return
		}
		l.ErrorContext(ctx, "Failed to geocode location", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadGateway, "Failed to geocode location")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, loc)
}
