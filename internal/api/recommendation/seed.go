package recommendation

import "github.com/wonderapp/wonder-api/internal/types"

// seedActivities is the static fallback candidate set used whenever the
// generative backend is unconfigured, errors, times out, or returns nothing
// usable. The generator must never surface a hard failure, so this list is
// the floor of the pipeline.
var seedActivities = []types.Activity{
	{
		ID:            "1",
		Name:          "Mountain Trail Hike",
		Description:   "A beautiful 3-mile hiking trail with scenic mountain views. Perfect for nature enthusiasts and photographers.",
		Categories:    []types.Category{types.CategoryOutdoorAdventure},
		Location:      &types.Location{Lat: 39.7392, Lng: -104.9903},
		PriceLevel:    types.PriceFree,
		ActivityLevel: types.ActivityLevelHigh,
		Duration:      180,
		BestTimes:     []string{"morning", "afternoon"},
		ImageURL:      "https://images.unsplash.com/photo-1551632811-561732d1e306?q=80&w=1000",
	},
	{
		ID:            "2",
		Name:          "Downtown Food Tour",
		Description:   "Explore local cuisine with this guided food tour featuring 5 unique restaurants and cultural insights.",
		Categories:    []types.Category{types.CategoryFoodDrink, types.CategoryLocalExperiences},
		Location:      &types.Location{Lat: 39.7456, Lng: -104.9989},
		PriceLevel:    types.PriceMedium,
		ActivityLevel: types.ActivityLevelLow,
		Duration:      180,
		BestTimes:     []string{"afternoon", "evening"},
		ImageURL:      "https://images.unsplash.com/photo-1414235077428-338989a2e8c0?q=80&w=1000",
	},
	{
		ID:            "3",
		Name:          "Art Museum Visit",
		Description:   "Immerse yourself in contemporary and classical art with special exhibitions and guided tours available.",
		Categories:    []types.Category{types.CategoryArtsCulture},
		Location:      &types.Location{Lat: 39.7374, Lng: -104.9656},
		PriceLevel:    types.PriceLow,
		ActivityLevel: types.ActivityLevelLow,
		Duration:      120,
		BestTimes:     []string{"morning", "afternoon"},
		ImageURL:      "https://images.unsplash.com/photo-1553877522-43269d4ea984?q=80&w=1000",
	},
	{
		ID:            "4",
		Name:          "Rock Climbing Gym",
		Description:   "Indoor climbing facility with routes for all skill levels, equipment rental, and beginner lessons.",
		Categories:    []types.Category{types.CategorySports, types.CategoryOutdoorAdventure},
		Location:      &types.Location{Lat: 39.7559, Lng: -104.9901},
		PriceLevel:    types.PriceMedium,
		ActivityLevel: types.ActivityLevelHigh,
		Duration:      120,
		BestTimes:     []string{"morning", "afternoon", "evening"},
		ImageURL:      "https://images.unsplash.com/photo-1522163182402-834f871fd851?q=80&w=1000",
	},
	{
		ID:            "5",
		Name:          "Sunset Yoga in the Park",
		Description:   "Outdoor yoga session suitable for all levels with amazing sunset views and peaceful atmosphere.",
		Categories:    []types.Category{types.CategoryWellness},
		Location:      &types.Location{Lat: 39.7616, Lng: -104.9622},
		PriceLevel:    types.PriceLow,
		ActivityLevel: types.ActivityLevelMedium,
		Duration:      60,
		BestTimes:     []string{"evening"},
		ImageURL:      "https://images.unsplash.com/photo-1506126613408-eca07ce68773?q=80&w=1000",
	},
	{
		ID:            "6",
		Name:          "Local Craft Brewery Tour",
		Description:   "Visit multiple craft breweries, learn about the brewing process, and enjoy tastings of local beers.",
		Categories:    []types.Category{types.CategoryFoodDrink, types.CategoryNightlife},
		Location:      &types.Location{Lat: 39.7599, Lng: -104.9853},
		PriceLevel:    types.PriceMedium,
		ActivityLevel: types.ActivityLevelLow,
		Duration:      180,
		BestTimes:     []string{"afternoon", "evening"},
		ImageURL:      "https://images.unsplash.com/photo-1559526324-593bc073d938?q=80&w=1000",
	},
}

// SeedActivities returns a copy of the static fallback list.
func SeedActivities() []types.Activity {
	out := make([]types.Activity, len(seedActivities))
	copy(out, seedActivities)
	return out
}
