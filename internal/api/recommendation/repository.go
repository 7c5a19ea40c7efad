package recommendation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wonderapp/wonder-api/internal/types"
)

// ErrActivityNotFound is returned on a point lookup for an unknown id.
var ErrActivityNotFound = errors.New("activity not found")

var _ Repository = (*RepositoryImpl)(nil)

// Repository is the durable-store contract the pipeline needs: idempotent
// upsert-by-id and point lookup.
type Repository interface {
	UpsertActivity(ctx context.Context, activity types.Activity) error
	GetActivity(ctx context.Context, id string) (*types.Activity, error)
}

// DB is the subset of pgxpool.Pool the repository uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type RepositoryImpl struct {
	logger *slog.Logger
	db     DB
}

func NewRepository(db DB, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		db:     db,
	}
}

const upsertActivityQuery = `
        INSERT INTO activities (
            id, name, description, categories, location, price_level, activity_level,
            duration_minutes, best_times, image_url, address, action_items,
            directions, local_tips, context_details, map_url, rating, website
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
        ON CONFLICT (id) DO UPDATE SET
            name = EXCLUDED.name,
            description = EXCLUDED.description,
            categories = EXCLUDED.categories,
            location = EXCLUDED.location,
            price_level = EXCLUDED.price_level,
            activity_level = EXCLUDED.activity_level,
            duration_minutes = EXCLUDED.duration_minutes,
            best_times = EXCLUDED.best_times,
            image_url = EXCLUDED.image_url,
            address = EXCLUDED.address,
            action_items = EXCLUDED.action_items,
            directions = EXCLUDED.directions,
            local_tips = EXCLUDED.local_tips,
            context_details = EXCLUDED.context_details,
            map_url = EXCLUDED.map_url,
            rating = EXCLUDED.rating,
            website = EXCLUDED.website,
            updated_at = NOW()`

// UpsertActivity inserts or overwrites an activity record by id.
func (r *RepositoryImpl) UpsertActivity(ctx context.Context, activity types.Activity) error {
	ctx, span := otel.Tracer("RecommendationRepository").Start(ctx, "UpsertActivity", trace.WithAttributes(
		attribute.String("activity.id", activity.ID),
	))
	defer span.End()

	if !activity.HasValidLocation() {
		return fmt.Errorf("invalid location for activity %s", activity.ID)
	}

	categories, err := json.Marshal(activity.Categories)
	if err != nil {
		return fmt.Errorf("failed to marshal categories: %w", err)
	}
	location, err := json.Marshal(activity.Location)
	if err != nil {
		return fmt.Errorf("failed to marshal location: %w", err)
	}
	bestTimes, err := json.Marshal(activity.BestTimes)
	if err != nil {
		return fmt.Errorf("failed to marshal best times: %w", err)
	}
	actionItems, err := json.Marshal(activity.ActionItems)
	if err != nil {
		return fmt.Errorf("failed to marshal action items: %w", err)
	}

	_, err = r.db.Exec(ctx, upsertActivityQuery,
		activity.ID, activity.Name, activity.Description, categories, location,
		string(activity.PriceLevel), string(activity.ActivityLevel), activity.Duration,
		bestTimes, activity.ImageURL, activity.Address, actionItems,
		activity.Directions, activity.LocalTips, activity.ContextDetails,
		activity.MapURL, activity.Rating, activity.Website,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Upsert failed")
		return fmt.Errorf("failed to upsert activity %s: %w", activity.ID, err)
	}

	span.SetStatus(codes.Ok, "Activity upserted")
	return nil
}

const getActivityQuery = `
        SELECT id, name, description, categories, location, price_level, activity_level,
               duration_minutes, best_times, image_url, address, action_items,
               directions, local_tips, context_details, map_url, rating, website
        FROM activities
        WHERE id = $1`

// GetActivity fetches one activity by id, or ErrActivityNotFound.
func (r *RepositoryImpl) GetActivity(ctx context.Context, id string) (*types.Activity, error) {
	ctx, span := otel.Tracer("RecommendationRepository").Start(ctx, "GetActivity", trace.WithAttributes(
		attribute.String("activity.id", id),
	))
	defer span.End()

	var (
		a           types.Activity
		categories  []byte
		location    []byte
		bestTimes   []byte
		actionItems []byte
	)
	err := r.db.QueryRow(ctx, getActivityQuery, id).Scan(
		&a.ID, &a.Name, &a.Description, &categories, &location, &a.PriceLevel,
		&a.ActivityLevel, &a.Duration, &bestTimes, &a.ImageURL, &a.Address,
		&actionItems, &a.Directions, &a.LocalTips, &a.ContextDetails,
		&a.MapURL, &a.Rating, &a.Website,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrActivityNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Lookup failed")
		return nil, fmt.Errorf("failed to get activity %s: %w", id, err)
	}

	if err := json.Unmarshal(categories, &a.Categories); err != nil {
		return nil, fmt.Errorf("failed to unmarshal categories for %s: %w", id, err)
	}
	loc, err := decodeStoredLocation(location)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal location for %s: %w", id, err)
	}
	a.Location = loc
	if len(bestTimes) > 0 {
		if err := json.Unmarshal(bestTimes, &a.BestTimes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal best times for %s: %w", id, err)
		}
	}
	if len(actionItems) > 0 {
		if err := json.Unmarshal(actionItems, &a.ActionItems); err != nil {
			return nil, fmt.Errorf("failed to unmarshal action items for %s: %w", id, err)
		}
	}

	span.SetStatus(codes.Ok, "Activity retrieved")
	return &a, nil
}

// decodeStoredLocation accepts both stored location shapes: the canonical
// {"lat","lng"} object and the legacy [lat, lng] pair.
func decodeStoredLocation(raw []byte) (*types.Location, error) {
	var loc types.Location
	if err := json.Unmarshal(raw, &loc); err == nil {
		return &loc, nil
	}
	var pair [2]float64
	if err := json.Unmarshal(raw, &pair); err != nil {
		return nil, err
	}
	return &types.Location{Lat: pair[0], Lng: pair[1]}, nil
}
