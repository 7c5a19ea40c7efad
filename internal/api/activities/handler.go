package activities

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/wonderapp/wonder-api/internal/api"
	"github.com/wonderapp/wonder-api/internal/api/recommendation"
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

// GetActivityDetail handles GET /activities/{id}.
func (h *Handler) GetActivityDetail(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ActivityHandler").Start(r.Context(), "GetActivityDetail", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/activities/{id}"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetActivityDetail"))

	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Activity ID is required")
		return
	}

	activity, err := h.service.GetActivityDetail(ctx, id)
	if err != nil {
		if errors.Is(err, recommendation.ErrActivityNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Activity not found")
			return
		}
		if errors.Is(err, ErrMalformedLocation) {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Activity location missing or malformed")
			return
		}
		l.ErrorContext(ctx, "Failed to get activity detail", slog.String("activity_id", id), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to get activity details")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, activity)
}
