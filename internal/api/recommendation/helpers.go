package recommendation

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/wonderapp/wonder-api/internal/types"
)

// Coordinates are rounded to two decimals (~1km) so nearby requests share
// cache entries.
func roundCoord(v float64) float64 {
	return math.Round(v*100) / 100
}

func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

func activityCacheKey(loc types.Location, query string) string {
	key := fmt.Sprintf("activities:%.2f,%.2f", roundCoord(loc.Lat), roundCoord(loc.Lng))
	if query != "" {
		key += ":q=" + query
	}
	return key
}

func recommendationCacheKey(prefs types.UserPreferences, loc types.Location, query string) string {
	payload, _ := json.Marshal(struct {
		Prefs types.UserPreferences `json:"prefs"`
		Lat   float64               `json:"lat"`
		Lng   float64               `json:"lng"`
		Query string                `json:"query,omitempty"`
	}{prefs, roundCoord(loc.Lat), roundCoord(loc.Lng), query})
	return "recs:" + string(payload)
}
