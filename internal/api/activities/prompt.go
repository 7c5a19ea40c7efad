package activities

import (
	"fmt"

	"github.com/wonderapp/wonder-api/internal/api/recommendation"
	"github.com/wonderapp/wonder-api/internal/types"
)

func getDetailPrompt(activity types.Activity) string {
	return fmt.Sprintf(`You are a helpful local expert and travel assistant.
Given the following activity, provide (1) step-by-step directions for a visitor, (2) 2-3 local tips, and (3) a short paragraph of rich context (history, what to bring, accessibility, etc).

Activity: %s
Description: %s
Location: lat %v, lng %v

Respond STRICTLY as a JSON object: { "directions": string, "localTips": string, "contextDetails": string }`,
		activity.Name, activity.Description, activity.Location.Lat, activity.Location.Lng)
}

type activityDetails struct {
	Directions     string `json:"directions"`
	LocalTips      string `json:"localTips"`
	ContextDetails string `json:"contextDetails"`
}

func decodeDetails(raw string) (*activityDetails, error) {
	var details activityDetails
	if err := recommendation.DecodeJSONPayload(raw, &details); err != nil {
		return nil, err
	}
	return &details, nil
}
