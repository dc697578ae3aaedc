package providers

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/match-engine/internal/types"
)

// responseSchema is the shape contract for raw provider responses. It is
// validated before any coercion, so it accepts the drift we deliberately
// tolerate (camelCase keys, skills as strings or objects, slightly
// out-of-range scores) but rejects responses with a missing or non-numeric
// score or mistyped skill lists, instead of letting the loose decoder
// silently zero them.
const responseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "definitions": {
    "skillList": {
      "type": "array",
      "items": {"anyOf": [{"type": "string"}, {"type": "object"}]}
    }
  },
  "properties": {
    "match_percentage": {"type": "number"},
    "matchPercentage": {"type": "number"},
    "matched_skills": {"$ref": "#/definitions/skillList"},
    "matchedSkills": {"$ref": "#/definitions/skillList"},
    "missing_skills": {"$ref": "#/definitions/skillList"},
    "missingSkills": {"$ref": "#/definitions/skillList"},
    "strengths": {"type": "array", "items": {"type": "string"}},
    "weaknesses": {"type": "array", "items": {"type": "string"}},
    "recommendations": {"type": "array", "items": {"type": "string"}},
    "confidence": {"type": "number"}
  },
  "anyOf": [
    {"required": ["match_percentage"]},
    {"required": ["matchPercentage"]}
  ]
}`

var responseSchemaLoader = gojsonschema.NewStringLoader(responseSchema)

// looseResult tolerates the shape drift seen across provider models:
// camelCase vs snake_case keys, skills as strings or objects, and scores
// slightly out of range. It exists only inside NormalizeResponse.
type looseResult struct {
	MatchPercentage      *float64          `json:"match_percentage"`
	MatchPercentageCamel *float64          `json:"matchPercentage"`
	MatchedSkills        []json.RawMessage `json:"matched_skills"`
	MatchedSkillsCamel   []json.RawMessage `json:"matchedSkills"`
	MissingSkills        []json.RawMessage `json:"missing_skills"`
	MissingSkillsCamel   []json.RawMessage `json:"missingSkills"`
	Strengths            []string          `json:"strengths"`
	Weaknesses           []string          `json:"weaknesses"`
	Recommendations      []string          `json:"recommendations"`
	Confidence           *float64          `json:"confidence"`
}

// NormalizeResponse parses a raw provider response into the canonical
// RawProviderResult. The cleaned response is first validated against the
// response schema; any shape the schema rejects is a malformed-response
// provider failure, surfaced before coercion can mask it.
func NormalizeResponse(provider, raw string) (*types.RawProviderResult, error) {
	cleaned := cleanJSONBlock(raw)

	validation, err := gojsonschema.Validate(responseSchemaLoader, gojsonschema.NewStringLoader(cleaned))
	if err != nil {
		return nil, NewProviderError(provider, KindMalformedResponse, fmt.Errorf("parse response: %w", err))
	}
	if !validation.Valid() {
		return nil, NewProviderError(provider, KindMalformedResponse,
			fmt.Errorf("response violates schema: %v", validation.Errors()))
	}

	var loose looseResult
	if err := json.Unmarshal([]byte(cleaned), &loose); err != nil {
		return nil, NewProviderError(provider, KindMalformedResponse, fmt.Errorf("parse response: %w", err))
	}

	return &types.RawProviderResult{
		MatchPercentage: clampScore(firstFloat(loose.MatchPercentage, loose.MatchPercentageCamel)),
		MatchedSkills:   skillNames(firstRaw(loose.MatchedSkills, loose.MatchedSkillsCamel)),
		MissingSkills:   skillNames(firstRaw(loose.MissingSkills, loose.MissingSkillsCamel)),
		Strengths:       nonNil(loose.Strengths),
		Weaknesses:      nonNil(loose.Weaknesses),
		Recommendations: nonNil(loose.Recommendations),
		Confidence:      clampUnit(firstFloat(loose.Confidence, nil)),
	}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func firstFloat(values ...*float64) float64 {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return 0
}

func firstRaw(a, b []json.RawMessage) []json.RawMessage {
	if len(a) > 0 {
		return a
	}
	return b
}

// skillNames coerces skill entries that arrive either as plain strings or
// as objects with a name field.
func skillNames(entries []json.RawMessage) []string {
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		var s string
		if err := json.Unmarshal(entry, &s); err == nil {
			if s != "" {
				names = append(names, s)
			}
			continue
		}
		var obj struct {
			Name  string `json:"name"`
			Skill string `json:"skill"`
		}
		if err := json.Unmarshal(entry, &obj); err == nil {
			switch {
			case obj.Name != "":
				names = append(names, obj.Name)
			case obj.Skill != "":
				names = append(names, obj.Skill)
			}
		}
	}
	return names
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
