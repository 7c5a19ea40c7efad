package types

import "fmt"

// Location is a WGS84 coordinate pair. It doubles as the user position on a
// recommendation request and the position of a candidate activity.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PriceLevel buckets how expensive an activity is.
type PriceLevel string

const (
	PriceFree   PriceLevel = "free"
	PriceLow    PriceLevel = "low"
	PriceMedium PriceLevel = "medium"
	PriceHigh   PriceLevel = "high"
	PriceLuxury PriceLevel = "luxury"
)

// ActivityLevel describes how physically demanding an activity is.
type ActivityLevel string

const (
	ActivityLevelLow    ActivityLevel = "low"
	ActivityLevelMedium ActivityLevel = "medium"
	ActivityLevelHigh   ActivityLevel = "high"
)

// Activity is a candidate entity proposed for a location. Candidates come from
// the static seed list, the activity cache, or a generative call whose output
// has been repaired and validated.
type Activity struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Categories    []Category    `json:"categories"`
	Location      *Location     `json:"location"`
	PriceLevel    PriceLevel    `json:"priceLevel"`
	ActivityLevel ActivityLevel `json:"activityLevel"`
	Duration      int           `json:"duration"` // minutes
	BestTimes     []string      `json:"bestTimes"`
	ImageURL      string        `json:"imageUrl,omitempty"`
	Address       string        `json:"address,omitempty"`
	ActionItems   []string      `json:"actionItems,omitempty"`
	Rating        float64       `json:"rating,omitempty"`
	Website       string        `json:"website,omitempty"`

	// Narrative detail fields, filled lazily by the detail endpoint.
	Directions     string `json:"directions,omitempty"`
	LocalTips      string `json:"localTips,omitempty"`
	ContextDetails string `json:"contextDetails,omitempty"`
	MapURL         string `json:"mapUrl,omitempty"`
}

// HasValidLocation reports whether the activity carries a usable coordinate
// pair. Candidates without one are excluded from scoring entirely.
func (a *Activity) HasValidLocation() bool {
	return a.Location != nil && isFinite(a.Location.Lat) && isFinite(a.Location.Lng)
}

// StoreEligible reports whether a synthesized activity is complete enough to
// persist: location plus a real-world address and at least one action item.
func (a *Activity) StoreEligible() bool {
	return a.HasValidLocation() && a.Address != "" && len(a.ActionItems) > 0
}

// ActivityMatch pairs a candidate with its score and the reasons it was
// recommended. Derived per request, never persisted.
type ActivityMatch struct {
	Activity     Activity `json:"activity"`
	Score        float64  `json:"score"`
	MatchReasons []string `json:"matchReasons"`
}

// GoogleMapsURL builds a maps search link for a coordinate pair.
func GoogleMapsURL(lat, lng float64) string {
	return fmt.Sprintf("https://www.google.com/maps/search/?api=1&query=%v,%v", lat, lng)
}
