package geocode

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupGeocodeServiceTest(t *testing.T, handler http.HandlerFunc) *ServiceImpl {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServiceImpl(server.Client(), server.URL, logger)
}

func TestServiceImpl_Geocode(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		service := setupGeocodeServiceTest(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/search", r.URL.Path)
			assert.Equal(t, "json", r.URL.Query().Get("format"))
			assert.Equal(t, "Denver, CO", r.URL.Query().Get("q"))
			assert.Equal(t, "1", r.URL.Query().Get("limit"))
			assert.NotEmpty(t, r.Header.Get("User-Agent"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"lat":"39.7392364","lon":"-104.9848623"}]`))
		})

		loc, err := service.Geocode(ctx, "Denver", "CO")
		require.NoError(t, err)
		assert.InDelta(t, 39.7392364, loc.Lat, 1e-9)
		assert.InDelta(t, -104.9848623, loc.Lng, 1e-9)
	})

	t.Run("no results", func(t *testing.T) {
		service := setupGeocodeServiceTest(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		})

		_, err := service.Geocode(ctx, "Nowhereville", "ZZ")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("upstream error status", func(t *testing.T) {
		service := setupGeocodeServiceTest(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "slow down", http.StatusTooManyRequests)
		})

		_, err := service.Geocode(ctx, "Denver", "CO")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
	})

	t.Run("malformed coordinate strings", func(t *testing.T) {
		service := setupGeocodeServiceTest(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[{"lat":"not-a-number","lon":"-104.98"}]`))
		})

		_, err := service.Geocode(ctx, "Denver", "CO")
		require.Error(t, err)
	})

	t.Run("malformed response body", func(t *testing.T) {
		service := setupGeocodeServiceTest(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>gateway error</html>`))
		})

		_, err := service.Geocode(ctx, "Denver", "CO")
		require.Error(t, err)
	})
}
