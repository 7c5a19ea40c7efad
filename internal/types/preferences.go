package types

import "math"

// Category is one of the fixed activity category tags.
type Category string

const (
	CategoryFoodDrink        Category = "food_drink"
	CategoryOutdoorAdventure Category = "outdoor_adventure"
	CategorySports           Category = "sports"
	CategoryArtsCulture      Category = "arts_culture"
	CategoryNightlife        Category = "nightlife"
	CategoryShopping         Category = "shopping"
	CategoryWellness         Category = "wellness"
	CategoryLocalExperiences Category = "local_experiences"
)

// InterestLevel is how strongly a user cares about a category.
type InterestLevel string

const (
	NotInterested      InterestLevel = "not_interested"
	SomewhatInterested InterestLevel = "somewhat_interested"
	VeryInterested     InterestLevel = "very_interested"
)

// Budget is the user's overall spending appetite.
type Budget string

const (
	BudgetTight    Budget = "budget"
	BudgetModerate Budget = "moderate"
	BudgetLuxury   Budget = "luxury"
)

// UserPreferences is the profile the scorer matches candidates against. It is
// injected per request; today it is a fixed default, but the scoring pipeline
// treats it as configuration so a persisted profile can be swapped in later.
type UserPreferences struct {
	Categories     map[Category]InterestLevel `json:"categories"`
	Budget         Budget                     `json:"budget"`
	ActivityLevel  ActivityLevel              `json:"activityLevel"`
	PreferredTime  []string                   `json:"preferredTime"`
	TravelDistance float64                    `json:"travelDistance"` // miles
}

// DefaultPreferences returns the fixed profile used when no persisted profile
// is available.
func DefaultPreferences() UserPreferences {
	return UserPreferences{
		Categories: map[Category]InterestLevel{
			CategoryOutdoorAdventure: VeryInterested,
			CategoryFoodDrink:        SomewhatInterested,
			CategoryArtsCulture:      SomewhatInterested,
			CategorySports:           VeryInterested,
			CategoryWellness:         SomewhatInterested,
			CategoryNightlife:        SomewhatInterested,
		},
		Budget:         BudgetModerate,
		ActivityLevel:  ActivityLevelMedium,
		PreferredTime:  []string{"morning", "afternoon"},
		TravelDistance: 10,
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
