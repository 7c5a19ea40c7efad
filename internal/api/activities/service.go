package activities

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/wonderapp/wonder-api/internal/api/generative"
	"github.com/wonderapp/wonder-api/internal/api/recommendation"
	"github.com/wonderapp/wonder-api/internal/types"
)

const augmentTimeout = 10 * time.Second

// ErrMalformedLocation flags a stored record whose location cannot be used.
var ErrMalformedLocation = errors.New("activity location missing or malformed")

var _ Service = (*ServiceImpl)(nil)

// Service serves single-activity detail lookups.
type Service interface {
	GetActivityDetail(ctx context.Context, id string) (*types.Activity, error)
}

// ServiceImpl reads an activity from the durable store and fills in derived
// and narrative detail: a maps link, and generated directions/tips/context
// when the stored record lacks them. Augmentation is best-effort.
type ServiceImpl struct {
	logger   *slog.Logger
	repo     recommendation.Repository
	aiClient generative.Client
}

func NewServiceImpl(repo recommendation.Repository, aiClient generative.Client, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		repo:     repo,
		aiClient: aiClient,
	}
}

func (s *ServiceImpl) GetActivityDetail(ctx context.Context, id string) (*types.Activity, error) {
	ctx, span := otel.Tracer("ActivityService").Start(ctx, "GetActivityDetail", trace.WithAttributes(
		attribute.String("activity.id", id),
	))
	defer span.End()

	activity, err := s.repo.GetActivity(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if !activity.HasValidLocation() {
		err := fmt.Errorf("activity %s: %w", id, ErrMalformedLocation)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Malformed stored location")
		return nil, err
	}

	if activity.MapURL == "" {
		activity.MapURL = types.GoogleMapsURL(activity.Location.Lat, activity.Location.Lng)
	}

	if activity.Directions == "" || activity.LocalTips == "" || activity.ContextDetails == "" {
		s.augmentDetails(ctx, activity)
	}

	span.SetStatus(codes.Ok, "Activity detail assembled")
	return activity, nil
}

// augmentDetails fills missing narrative fields from the generative backend.
// Any failure leaves the fields empty; the lookup itself still succeeds.
func (s *ServiceImpl) augmentDetails(ctx context.Context, activity *types.Activity) {
	if s.aiClient == nil {
		return
	}
	ctx, span := otel.Tracer("ActivityService").Start(ctx, "augmentDetails")
	defer span.End()

	callCtx, cancel := context.WithTimeout(ctx, augmentTimeout)
	defer cancel()

	raw, err := s.aiClient.GenerateContent(callCtx, getDetailPrompt(*activity), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.5),
		MaxOutputTokens: 700,
	})
	if err != nil {
		span.RecordError(err)
		s.logger.WarnContext(ctx, "Activity detail augmentation failed",
			slog.String("activity_id", activity.ID), slog.Any("error", err))
		return
	}

	details, err := decodeDetails(raw)
	if err != nil {
		span.RecordError(err)
		s.logger.WarnContext(ctx, "Could not decode activity detail augmentation",
			slog.String("activity_id", activity.ID), slog.Any("error", err))
		return
	}

	if activity.Directions == "" {
		activity.Directions = details.Directions
	}
	if activity.LocalTips == "" {
		activity.LocalTips = details.LocalTips
	}
	if activity.ContextDetails == "" {
		activity.ContextDetails = details.ContextDetails
	}
	span.SetStatus(codes.Ok, "Details augmented")
}
