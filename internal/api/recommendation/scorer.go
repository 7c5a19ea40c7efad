package recommendation

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/wonderapp/wonder-api/internal/types"
)

const earthRadiusMiles = 3959

// haversineMiles returns the great-circle distance between two coordinate
// pairs in miles.
func haversineMiles(a, b types.Location) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)
	lat1 := toRad(a.Lat)
	lat2 := toRad(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(lat1)*math.Cos(lat2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusMiles * c
}

func toRad(deg float64) float64 {
	return deg * (math.Pi / 180)
}

// calculateScore computes a 0-100 match score for one activity against the
// preference profile, with human-readable reasons for each contribution.
// Pure and order-independent across contributions.
func calculateScore(activity types.Activity, prefs types.UserPreferences, distanceMiles float64) (float64, []string) {
	var reasons []string
	score := 50.0

	// Distance: up to 30 points, 3 per mile off.
	score += math.Max(0, 30-distanceMiles*3)
	if distanceMiles <= 5 {
		reasons = append(reasons, "Very close to your location")
	} else if distanceMiles <= 10 {
		reasons = append(reasons, "Within reasonable distance")
	}

	// Category interest: 20 per strong match, 10 per mild one, uncapped.
	for _, category := range activity.Categories {
		label := strings.ReplaceAll(string(category), "_", " ")
		switch prefs.Categories[category] {
		case types.VeryInterested:
			score += 20
			reasons = append(reasons, fmt.Sprintf("Matches your strong interest in %s", label))
		case types.SomewhatInterested:
			score += 10
			reasons = append(reasons, fmt.Sprintf("Aligns with your interest in %s", label))
		}
	}

	// Activity level: 20 for an exact match, 10 when a medium-preference user
	// gets a non-high activity. The low/low disjunct is subsumed by the exact
	// match above and never fires.
	if activity.ActivityLevel == prefs.ActivityLevel {
		score += 20
		reasons = append(reasons, fmt.Sprintf("Matches your preferred activity level: %s", activity.ActivityLevel))
	} else if (prefs.ActivityLevel == types.ActivityLevelMedium && activity.ActivityLevel != types.ActivityLevelHigh) ||
		(prefs.ActivityLevel == types.ActivityLevelLow && activity.ActivityLevel == types.ActivityLevelLow) {
		score += 10
		reasons = append(reasons, "Activity level is manageable for you")
	}

	// Budget: 10 when the price fits the declared appetite. Luxury matches
	// everything.
	if budgetMatches(prefs.Budget, activity.PriceLevel) {
		score += 10
		reasons = append(reasons, "Fits within your budget")
	}

	score = math.Min(100, math.Max(0, score))
	return score, reasons
}

func budgetMatches(budget types.Budget, price types.PriceLevel) bool {
	switch budget {
	case types.BudgetTight:
		return price == types.PriceFree
	case types.BudgetModerate:
		return price == types.PriceFree || price == types.PriceLow || price == types.PriceMedium
	case types.BudgetLuxury:
		return true
	}
	return false
}

// rankActivities scores every candidate with a usable location and returns
// them in descending score order. Tie order is whatever the sort produces.
func rankActivities(prefs types.UserPreferences, userLocation types.Location, activities []types.Activity) []types.ActivityMatch {
	matches := make([]types.ActivityMatch, 0, len(activities))
	for _, activity := range activities {
		if !activity.HasValidLocation() {
			continue
		}
		distance := haversineMiles(userLocation, *activity.Location)
		score, reasons := calculateScore(activity, prefs, distance)
		matches = append(matches, types.ActivityMatch{
			Activity:     activity,
			Score:        score,
			MatchReasons: reasons,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}
