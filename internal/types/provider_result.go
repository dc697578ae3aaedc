package types

// RawProviderResult is the canonical, normalized shape of a successful LLM
// provider analysis. Adapters produce exactly this shape; downstream
// components never re-inspect provider-specific formats.
type RawProviderResult struct {
	MatchPercentage float64  `json:"match_percentage"`
	MatchedSkills   []string `json:"matched_skills"`
	MissingSkills   []string `json:"missing_skills"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
	Confidence      float64  `json:"confidence"` // Provider self-reported confidence in [0,1]
}

// IsEmpty reports whether the result carries no usable signal. A parsed but
// logically empty response counts as a provider failure.
func (r *RawProviderResult) IsEmpty() bool {
	if r == nil {
		return true
	}
	return r.MatchPercentage == 0 && len(r.MatchedSkills) == 0 && len(r.MissingSkills) == 0
}
