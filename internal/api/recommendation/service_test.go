package recommendation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/wonderapp/wonder-api/internal/api/generative"
	"github.com/wonderapp/wonder-api/internal/types"
)

// MockGenerativeClient is a mock implementation of generative.Client
type MockGenerativeClient struct {
	mock.Mock
}

func (m *MockGenerativeClient) GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	args := m.Called(ctx, prompt, config)
	return args.String(0), args.Error(1)
}

// MockActivityRepository is a mock implementation of Repository
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) UpsertActivity(ctx context.Context, activity types.Activity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *MockActivityRepository) GetActivity(ctx context.Context, id string) (*types.Activity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Activity), args.Error(1)
}

func setupRecommendationServiceTest(client generative.Client, repo Repository) *ServiceImpl {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServiceImpl(client, repo,
		cache.New(time.Minute, time.Minute), cache.New(time.Minute, time.Minute),
		DefaultConfig(), logger)
}

var testLocation = types.Location{Lat: 39.7392, Lng: -104.9903}

const generatedPayload = `[
	{"id":"a1","name":"Kayak Rental","categories":["outdoor_adventure"],
	 "location":{"lat":39.75,"lng":-104.99},"priceLevel":"low","activityLevel":"medium",
	 "duration":90,"bestTimes":["morning"],
	 "address":"123 River Rd, Denver, CO","actionItems":["Book a slot online"]},
	{"id":"a2","name":"Night Market","categories":["food_drink"],
	 "location":{"lat":39.76,"lng":-104.98},"priceLevel":"free","activityLevel":"low",
	 "duration":120,"bestTimes":["evening"]}
]`

func TestServiceImpl_GenerateActivities(t *testing.T) {
	ctx := context.Background()
	prefs := testPreferences()

	t.Run("nil backend falls back to seed list", func(t *testing.T) {
		service := setupRecommendationServiceTest(nil, nil)

		matches, err := service.Recommend(ctx, testLocation, prefs, "")
		require.NoError(t, err)
		assert.Len(t, matches, len(seedActivities))
	})

	t.Run("cache hit skips the backend entirely", func(t *testing.T) {
		mockClient := new(MockGenerativeClient)
		service := setupRecommendationServiceTest(mockClient, nil)

		cached := []types.Activity{{
			ID:       "cached-1",
			Name:     "Cached Walk",
			Location: &types.Location{Lat: 39.74, Lng: -104.99},
		}}
		service.activityCache.Set(activityCacheKey(testLocation, ""), cached, cache.DefaultExpiration)

		acts := service.generateActivities(ctx, activityCacheKey(testLocation, ""), testLocation, "")
		assert.Equal(t, cached, acts)
		mockClient.AssertNotCalled(t, "GenerateContent")
	})

	t.Run("expired cache entry re-invokes the backend", func(t *testing.T) {
		mockClient := new(MockGenerativeClient)
		mockClient.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
			Return(generatedPayload, nil).Once()
		service := setupRecommendationServiceTest(mockClient, nil)

		key := activityCacheKey(testLocation, "")
		stale := []types.Activity{{
			ID:       "stale-1",
			Name:     "Closed Museum",
			Location: &types.Location{Lat: 39.74, Lng: -104.99},
		}}
		service.activityCache.Set(key, stale, time.Nanosecond)
		time.Sleep(time.Millisecond)

		acts := service.generateActivities(ctx, key, testLocation, "")
		require.Len(t, acts, 2)
		assert.Equal(t, "Kayak Rental", acts[0].Name)
		mockClient.AssertExpectations(t)
	})

	t.Run("backend error falls back to seed list", func(t *testing.T) {
		mockClient := new(MockGenerativeClient)
		mockClient.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
			Return("", errors.New("model unavailable")).Once()
		service := setupRecommendationServiceTest(mockClient, nil)

		acts := service.generateActivities(ctx, activityCacheKey(testLocation, ""), testLocation, "")
		assert.Len(t, acts, len(seedActivities))
		mockClient.AssertExpectations(t)

		// Failures must not poison the cache.
		_, found := service.activityCache.Get(activityCacheKey(testLocation, ""))
		assert.False(t, found)
	})

	t.Run("undecodable response falls back to seed list", func(t *testing.T) {
		mockClient := new(MockGenerativeClient)
		mockClient.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
			Return("Sorry, I cannot help with that.", nil).Once()
		service := setupRecommendationServiceTest(mockClient, nil)

		acts := service.generateActivities(ctx, activityCacheKey(testLocation, ""), testLocation, "")
		assert.Len(t, acts, len(seedActivities))
		mockClient.AssertExpectations(t)
	})

	t.Run("successful generation is cached", func(t *testing.T) {
		mockClient := new(MockGenerativeClient)
		mockClient.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
			Return(generatedPayload, nil).Once()
		service := setupRecommendationServiceTest(mockClient, nil)

		key := activityCacheKey(testLocation, "")
		acts := service.generateActivities(ctx, key, testLocation, "")
		require.Len(t, acts, 2)
		assert.Equal(t, "Kayak Rental", acts[0].Name)

		cached, found := service.activityCache.Get(key)
		require.True(t, found)
		assert.Equal(t, acts, cached.([]types.Activity))

		// Second call is served from cache.
		again := service.generateActivities(ctx, key, testLocation, "")
		assert.Equal(t, acts, again)
		mockClient.AssertExpectations(t)
	})

	t.Run("store-eligible candidates are persisted with real ids", func(t *testing.T) {
		mockClient := new(MockGenerativeClient)
		mockClient.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
			Return(generatedPayload, nil).Once()

		mockRepo := new(MockActivityRepository)
		mockRepo.On("UpsertActivity", mock.Anything, mock.MatchedBy(func(a types.Activity) bool {
			_, err := uuid.Parse(a.ID)
			return err == nil && a.Name == "Kayak Rental"
		})).Return(nil).Once()

		service := setupRecommendationServiceTest(mockClient, mockRepo)

		acts := service.generateActivities(ctx, activityCacheKey(testLocation, ""), testLocation, "")
		require.Len(t, acts, 2)

		// The synthesized "a1" id was replaced in the returned slice too; the
		// incomplete "a2" was skipped and kept its id.
		_, err := uuid.Parse(acts[0].ID)
		assert.NoError(t, err)
		assert.Equal(t, "a2", acts[1].ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("caller cancellation does not cancel the shared backend call", func(t *testing.T) {
		mockClient := new(MockGenerativeClient)
		mockClient.On("GenerateContent",
			mock.MatchedBy(func(callCtx context.Context) bool { return callCtx.Err() == nil }),
			mock.Anything, mock.Anything).
			Return(generatedPayload, nil).Once()
		service := setupRecommendationServiceTest(mockClient, nil)

		canceledCtx, cancel := context.WithCancel(ctx)
		cancel()

		acts := service.generateActivities(canceledCtx, activityCacheKey(testLocation, ""), testLocation, "")
		require.Len(t, acts, 2)
		mockClient.AssertExpectations(t)
	})

	t.Run("persistence failure does not abort generation", func(t *testing.T) {
		mockClient := new(MockGenerativeClient)
		mockClient.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
			Return(generatedPayload, nil).Once()

		mockRepo := new(MockActivityRepository)
		mockRepo.On("UpsertActivity", mock.Anything, mock.Anything).
			Return(errors.New("connection refused")).Once()

		service := setupRecommendationServiceTest(mockClient, mockRepo)

		acts := service.generateActivities(ctx, activityCacheKey(testLocation, ""), testLocation, "")
		assert.Len(t, acts, 2)
		mockRepo.AssertExpectations(t)
	})
}

func TestServiceImpl_Rerank(t *testing.T) {
	ctx := context.Background()
	prefs := testPreferences()

	t.Run("cache hit wins even without a backend", func(t *testing.T) {
		service := setupRecommendationServiceTest(nil, nil)
		key := recommendationCacheKey(prefs, testLocation, "")

		cached := []types.ActivityMatch{{
			Activity: types.Activity{ID: "cached"},
			Score:    99,
		}}
		service.recCache.Set(key, cached, cache.DefaultExpiration)

		scored := rankActivities(prefs, testLocation, SeedActivities())
		result := service.rerank(ctx, key, testLocation, prefs, "", scored)
		assert.Equal(t, cached, result)
	})

	t.Run("expired result re-invokes the backend", func(t *testing.T) {
		mockClient := new(MockGenerativeClient)
		mockClient.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
			Return(`{"recommendations":[{"activityId":"1","score":81,"reasons":["fresh"]}]}`, nil).Once()
		service := setupRecommendationServiceTest(mockClient, nil)

		key := recommendationCacheKey(prefs, testLocation, "")
		stale := []types.ActivityMatch{{Activity: types.Activity{ID: "stale"}, Score: 1}}
		service.recCache.Set(key, stale, time.Nanosecond)
		time.Sleep(time.Millisecond)

		scored := rankActivities(prefs, testLocation, SeedActivities())
		result := service.rerank(ctx, key, testLocation, prefs, "", scored)
		require.Len(t, result, 1)
		assert.Equal(t, "1", result[0].Activity.ID)
		assert.Equal(t, []string{"fresh"}, result[0].MatchReasons)
		mockClient.AssertExpectations(t)
	})

	t.Run("nil backend returns scored ordering", func(t *testing.T) {
		service := setupRecommendationServiceTest(nil, nil)
		scored := rankActivities(prefs, testLocation, SeedActivities())

		result := service.rerank(ctx, recommendationCacheKey(prefs, testLocation, ""), testLocation, prefs, "", scored)
		assert.Equal(t, scored, result)
	})

	t.Run("backend error returns scored ordering", func(t *testing.T) {
		mockClient := new(MockGenerativeClient)
		mockClient.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
			Return("", errors.New("timeout")).Once()
		service := setupRecommendationServiceTest(mockClient, nil)

		scored := rankActivities(prefs, testLocation, SeedActivities())
		result := service.rerank(ctx, recommendationCacheKey(prefs, testLocation, ""), testLocation, prefs, "", scored)
		assert.Equal(t, scored, result)
		mockClient.AssertExpectations(t)
	})

	t.Run("undecodable ranking returns scored ordering", func(t *testing.T) {
		mockClient := new(MockGenerativeClient)
		mockClient.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
			Return("definitely not json", nil).Once()
		service := setupRecommendationServiceTest(mockClient, nil)

		scored := rankActivities(prefs, testLocation, SeedActivities())
		result := service.rerank(ctx, recommendationCacheKey(prefs, testLocation, ""), testLocation, prefs, "", scored)
		assert.Equal(t, scored, result)
	})

	t.Run("valid ranking reorders and is cached", func(t *testing.T) {
		mockClient := new(MockGenerativeClient)
		mockClient.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
			Return(`{"recommendations":[
				{"activityId":"3","score":92,"reasons":["culture fits you"]},
				{"activityId":"1","score":88,"reasons":["great trail"]}
			]}`, nil).Once()
		service := setupRecommendationServiceTest(mockClient, nil)

		scored := rankActivities(prefs, testLocation, SeedActivities())
		key := recommendationCacheKey(prefs, testLocation, "")
		result := service.rerank(ctx, key, testLocation, prefs, "", scored)

		require.Len(t, result, 2)
		assert.Equal(t, "3", result[0].Activity.ID)
		assert.Equal(t, 92.0, result[0].Score)
		assert.Equal(t, []string{"culture fits you"}, result[0].MatchReasons)
		assert.Equal(t, "1", result[1].Activity.ID)

		cached, found := service.recCache.Get(key)
		require.True(t, found)
		assert.Equal(t, result, cached.([]types.ActivityMatch))
	})

	t.Run("unknown activity id borrows the top candidate", func(t *testing.T) {
		mockClient := new(MockGenerativeClient)
		mockClient.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
			Return(`{"recommendations":[{"activityId":"made-up","score":77,"reasons":["?"]}]}`, nil).Once()
		service := setupRecommendationServiceTest(mockClient, nil)

		scored := rankActivities(prefs, testLocation, SeedActivities())
		result := service.rerank(ctx, recommendationCacheKey(prefs, testLocation, ""), testLocation, prefs, "", scored)

		require.Len(t, result, 1)
		assert.Equal(t, scored[0].Activity.ID, result[0].Activity.ID)
		assert.Equal(t, 77.0, result[0].Score)
	})
}

func TestServiceImpl_Recommend(t *testing.T) {
	ctx := context.Background()
	prefs := testPreferences()

	t.Run("full pipeline with generation and rerank", func(t *testing.T) {
		mockClient := new(MockGenerativeClient)
		mockClient.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
			Return(generatedPayload, nil).Once()
		mockClient.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
			Return(`{"recommendations":[
				{"activityId":"a2","score":90,"reasons":["free evening fun"]},
				{"activityId":"a1","score":85,"reasons":["on the water"]}
			]}`, nil).Once()

		service := setupRecommendationServiceTest(mockClient, nil)

		matches, err := service.Recommend(ctx, testLocation, prefs, "")
		require.NoError(t, err)
		require.Len(t, matches, 2)
		assert.Equal(t, "a2", matches[0].Activity.ID)
		assert.Equal(t, 90.0, matches[0].Score)
		mockClient.AssertExpectations(t)
	})

	t.Run("query is normalized before caching", func(t *testing.T) {
		service := setupRecommendationServiceTest(nil, nil)

		cached := []types.Activity{{
			ID:       "q1",
			Name:     "Jazz Bar",
			Location: &types.Location{Lat: 39.74, Lng: -104.99},
		}}
		service.activityCache.Set(activityCacheKey(testLocation, "live jazz"), cached, cache.DefaultExpiration)

		matches, err := service.Recommend(ctx, testLocation, prefs, "  Live JAZZ ")
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "q1", matches[0].Activity.ID)
	})

	t.Run("candidates without locations fall back to seed ranking", func(t *testing.T) {
		service := setupRecommendationServiceTest(nil, nil)

		service.activityCache.Set(activityCacheKey(testLocation, ""),
			[]types.Activity{{ID: "broken"}}, cache.DefaultExpiration)

		matches, err := service.Recommend(ctx, testLocation, prefs, "")
		require.NoError(t, err)
		assert.Len(t, matches, len(seedActivities))
	})
}
