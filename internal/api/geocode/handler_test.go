package geocode

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wonderapp/wonder-api/internal/types"
)

// MockGeocodeService is a mock implementation of Service
type MockGeocodeService struct {
	mock.Mock
}

func (m *MockGeocodeService) Geocode(ctx context.Context, city, state string) (*types.Location, error) {
	args := m.Called(ctx, city, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Location), args.Error(1)
}

func setupGeocodeHandlerTest() (*Handler, *MockGeocodeService) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockService := new(MockGeocodeService)
	return NewHandler(mockService, logger), mockService
}

func TestHandler_Geocode(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		handler, mockService := setupGeocodeHandlerTest()
		mockService.On("Geocode", mock.Anything, "Denver", "CO").
			Return(&types.Location{Lat: 39.7392, Lng: -104.9903}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/geocode", strings.NewReader(`{"city":"Denver","state":"CO"}`))
		rr := httptest.NewRecorder()

		handler.Geocode(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "39.7392")
		mockService.AssertExpectations(t)
	})

	t.Run("malformed body", func(t *testing.T) {
		handler, mockService := setupGeocodeHandlerTest()

		req := httptest.NewRequest(http.MethodPost, "/geocode", strings.NewReader("{"))
		rr := httptest.NewRecorder()

		handler.Geocode(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Invalid request format")
		mockService.AssertNotCalled(t, "Geocode")
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		handler, mockService := setupGeocodeHandlerTest()

		req := httptest.NewRequest(http.MethodPost, "/geocode", strings.NewReader(`{"city":"Denver","state":"CO","zip":"80202"}`))
		rr := httptest.NewRecorder()

		handler.Geocode(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "unknown key")
		mockService.AssertNotCalled(t, "Geocode")
	})

	t.Run("missing city or state", func(t *testing.T) {
		handler, mockService := setupGeocodeHandlerTest()

		req := httptest.NewRequest(http.MethodPost, "/geocode", strings.NewReader(`{"city":"Denver"}`))
		rr := httptest.NewRecorder()

		handler.Geocode(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "City and state are required")
		mockService.AssertNotCalled(t, "Geocode")
	})

	t.Run("place not found", func(t *testing.T) {
		handler, mockService := setupGeocodeHandlerTest()
		mockService.On("Geocode", mock.Anything, "Nowhereville", "ZZ").
			Return(nil, ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodPost, "/geocode", strings.NewReader(`{"city":"Nowhereville","state":"ZZ"}`))
		rr := httptest.NewRecorder()

		handler.Geocode(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("upstream failure", func(t *testing.T) {
		handler, mockService := setupGeocodeHandlerTest()
		mockService.On("Geocode", mock.Anything, "Denver", "CO").
			Return(nil, errors.New("upstream timeout")).Once()

		req := httptest.NewRequest(http.MethodPost, "/geocode", strings.NewReader(`{"city":"Denver","state":"CO"}`))
		rr := httptest.NewRecorder()

		handler.Geocode(rr, req)

		assert.Equal(t, http.StatusBadGateway, rr.Code)
		mockService.AssertExpectations(t)
	})
}
