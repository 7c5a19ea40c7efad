package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wonderapp/wonder-api/internal/types"
)

const defaultBaseURL = "https://nominatim.openstreetmap.org"

// Nominatim requires a valid identifying User-Agent.
const userAgent = "wonder-travel-app/1.0 (contact: team@wonderapp.dev)"

// ErrNotFound is returned when the geocoder has no match for the place.
var ErrNotFound = errors.New("location not found")

var _ Service = (*ServiceImpl)(nil)

// Service resolves a free-text place description to a coordinate pair.
type Service interface {
	Geocode(ctx context.Context, city, state string) (*types.Location, error)
}

// ServiceImpl is a Nominatim-backed geocoder adapter.
type ServiceImpl struct {
	logger  *slog.Logger
	client  *http.Client
	baseURL string
}

func NewServiceImpl(client *http.Client, baseURL string, logger *slog.Logger) *ServiceImpl {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &ServiceImpl{
		logger:  logger,
		client:  client,
		baseURL: baseURL,
	}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode returns the best-match coordinates for "<city>, <state>".
func (s *ServiceImpl) Geocode(ctx context.Context, city, state string) (*types.Location, error) {
	ctx, span := otel.Tracer("GeocodeService").Start(ctx, "Geocode", trace.WithAttributes(
		attribute.String("geocode.city", city),
		attribute.String("geocode.state", state),
	))
	defer span.End()

	query := url.QueryEscape(fmt.Sprintf("%s, %s", city, state))
	reqURL := fmt.Sprintf("%s/search?format=json&q=%s&limit=1", s.baseURL, query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocode request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Geocoder request failed")
		return nil, fmt.Errorf("geocoder request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("geocoder returned status %d", resp.StatusCode)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Geocoder returned non-OK status")
		return nil, err
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to decode geocoder response: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("geocoder returned malformed latitude %q: %w", results[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("geocoder returned malformed longitude %q: %w", results[0].Lon, err)
	}

	span.SetAttributes(attribute.Float64("geocode.lat", lat), attribute.Float64("geocode.lng", lng))
	span.SetStatus(codes.Ok, "Location resolved")
	return &types.Location{Lat: lat, Lng: lng}, nil
}
