package recommendation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/wonderapp/wonder-api/internal/types"
)

// DecodeError reports that a model response could not be turned into usable
// records, even after repair. Callers fall back to deterministic data.
type DecodeError struct {
	Stage string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Stage, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

var trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

// extractJSON pulls a JSON payload out of raw model text: strips Markdown code
// fences, slices from the first '{' or '[' to the matching last close, and
// removes trailing commas before closing brackets. It does not guarantee the
// result parses; structural repair happens later.
func extractJSON(raw string) string {
	txt := strings.TrimSpace(raw)

	if strings.HasPrefix(txt, "```") {
		if idx := strings.IndexByte(txt, '\n'); idx != -1 {
			txt = txt[idx+1:]
		} else {
			txt = strings.TrimPrefix(txt, "```json")
			txt = strings.TrimPrefix(txt, "```")
		}
		txt = strings.TrimSuffix(strings.TrimSpace(txt), "```")
		txt = strings.TrimSpace(txt)
	}

	firstBrace := strings.IndexByte(txt, '{')
	firstBracket := strings.IndexByte(txt, '[')

	switch {
	case firstBracket != -1 && (firstBrace == -1 || firstBracket < firstBrace):
		if last := strings.LastIndexByte(txt, ']'); last > firstBracket {
			txt = txt[firstBracket : last+1]
		}
	case firstBrace != -1:
		if last := strings.LastIndexByte(txt, '}'); last > firstBrace {
			txt = txt[firstBrace : last+1]
		}
	}

	txt = trailingCommaRe.ReplaceAllString(txt, "$1")
	return strings.TrimSpace(txt)
}

// DecodeJSONPayload extracts a JSON payload from raw model text and parses it
// into dst, repairing near-valid output when needed.
func DecodeJSONPayload(raw string, dst any) error {
	return unmarshalRepaired(extractJSON(raw), dst)
}

// unmarshalRepaired parses cleaned JSON into dst, attempting structural repair
// of near-valid output (unquoted keys, unbalanced brackets) when the first
// parse fails.
func unmarshalRepaired(cleaned string, dst any) error {
	if err := json.Unmarshal([]byte(cleaned), dst); err == nil {
		return nil
	}
	repaired, err := jsonrepair.JSONRepair(cleaned)
	if err != nil {
		return &DecodeError{Stage: "repair", Err: err}
	}
	if err := json.Unmarshal([]byte(repaired), dst); err != nil {
		return &DecodeError{Stage: "parse", Err: err}
	}
	return nil
}

// decodeActivities turns raw model text into a validated candidate list. The
// payload may be a bare array or an object wrapping the list in an
// "activities" or "recommendations" field. Candidates without an id or a
// numeric location are dropped; an empty result after validation is an error
// so the caller can fall back.
func decodeActivities(raw string) ([]types.Activity, error) {
	cleaned := extractJSON(raw)

	var acts []types.Activity
	if err := unmarshalRepaired(cleaned, &acts); err != nil {
		var wrapper struct {
			Activities      []types.Activity `json:"activities"`
			Recommendations []types.Activity `json:"recommendations"`
		}
		if wrapErr := unmarshalRepaired(cleaned, &wrapper); wrapErr != nil {
			return nil, wrapErr
		}
		acts = wrapper.Activities
		if len(acts) == 0 {
			acts = wrapper.Recommendations
		}
	}

	valid := make([]types.Activity, 0, len(acts))
	for _, a := range acts {
		if a.ID == "" || !a.HasValidLocation() {
			continue
		}
		valid = append(valid, a)
	}
	if len(valid) == 0 {
		return nil, &DecodeError{Stage: "validate", Err: fmt.Errorf("no structurally valid activities in payload")}
	}
	return valid, nil
}

type rankedRecommendation struct {
	ActivityID string   `json:"activityId"`
	Score      float64  `json:"score"`
	Reasons    []string `json:"reasons"`
}

// decodeRanking parses the re-ranker's strict JSON contract:
// {"recommendations":[{"activityId","score","reasons"}]}.
func decodeRanking(raw string) ([]rankedRecommendation, error) {
	cleaned := extractJSON(raw)
	var payload struct {
		Recommendations []rankedRecommendation `json:"recommendations"`
	}
	if err := unmarshalRepaired(cleaned, &payload); err != nil {
		return nil, err
	}
	if len(payload.Recommendations) == 0 {
		return nil, &DecodeError{Stage: "validate", Err: fmt.Errorf("no recommendations in payload")}
	}
	return payload.Recommendations, nil
}
