package recommendation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wonderapp/wonder-api/internal/types"
)

func getActivityGenerationPrompt(loc types.Location, query string) string {
	var b strings.Builder
	b.WriteString(`You are a helpful travel guide that creates concise, structured JSON.
Suggest up to 8 unique, interesting activities near the given location. For each, return a JSON object with:
- id (string, unique)
- name (string)
- description (1-2 sentences)
- categories (array of strings, from: food_drink, outdoor_adventure, sports, arts_culture, nightlife, shopping, wellness, local_experiences)
- location (object: { "lat": number, "lng": number })
- address (string, full street address)
- priceLevel (free, low, medium, high)
- activityLevel (low, medium, high)
- duration (minutes)
- bestTimes (array: morning, afternoon, evening, night)
- actionItems (array of 2-3 short instructions for a visitor, e.g. "Book tickets online")
- imageUrl (Unsplash or relevant stock photo URL)
Respond with a JSON array ONLY, no extra text, no explanation.`)

	if query != "" {
		fmt.Fprintf(&b, "\nThe user asked specifically for: %q. Only suggest activities matching this request; return an empty array if none fit.", query)
	}
	fmt.Fprintf(&b, "\nLocation: {\"lat\": %v, \"lng\": %v}", loc.Lat, loc.Lng)
	return b.String()
}

func getRerankPrompt(loc types.Location, prefs types.UserPreferences, query string, candidates []types.Activity) string {
	prefCategories, _ := json.Marshal(prefs.Categories)
	prefTimes, _ := json.Marshal(prefs.PreferredTime)
	serialized, _ := json.MarshalIndent(candidates, "", "  ")

	var b strings.Builder
	b.WriteString("You are a travel activity recommender. Your job is to suggest unique, local activities that fit the user's preferences and current location. Avoid generic or touristy suggestions. Each activity should be tailored to the user's interests, budget, activity level, and time of day. Respond ONLY with valid JSON as described.\n\n")
	fmt.Fprintf(&b, "User location: %v, %v\n", loc.Lat, loc.Lng)
	fmt.Fprintf(&b, "User preferences:\n- Categories: %s\n- Budget: %s\n- Activity Level: %s\n- Preferred Time: %s\n- Max Travel Distance: %v miles\n",
		prefCategories, prefs.Budget, prefs.ActivityLevel, prefTimes, prefs.TravelDistance)
	if query != "" {
		fmt.Fprintf(&b, "- Specific request: %q\n", query)
	}
	fmt.Fprintf(&b, "\nHere are some candidate activities nearby:\n%s\n\n", serialized)
	b.WriteString("Rank the activities in order of best fit for this user. For each, explain specifically WHY it matches the user's interests and location. Avoid repeating generic reasons. If none are a good fit, say so.\n\n")
	b.WriteString(`Respond ONLY with JSON matching this schema:
{
  "recommendations": [
    { "activityId": string, "score": number, "reasons": string[] }
  ]
}`)
	return b.String()
}
