package types

// ConfidenceLevel buckets the overall confidence score.
type ConfidenceLevel string

// Confidence levels, lowest to highest.
const (
	ConfidenceLow       ConfidenceLevel = "low"
	ConfidenceMedium    ConfidenceLevel = "medium"
	ConfidenceHigh      ConfidenceLevel = "high"
	ConfidenceExcellent ConfidenceLevel = "excellent"
)

// AnalysisMethod identifies which scoring paths contributed to a result.
type AnalysisMethod string

// Analysis methods.
const (
	MethodHybrid  AnalysisMethod = "hybrid"
	MethodMLOnly  AnalysisMethod = "ml_only"
	MethodLLMOnly AnalysisMethod = "llm_only"
)

// MatchQuality is the caller-facing quality band derived from the final
// match percentage.
type MatchQuality string

// Quality bands.
const (
	QualityExcellent MatchQuality = "excellent"
	QualityStrong    MatchQuality = "strong"
	QualityModerate  MatchQuality = "moderate"
	QualityWeak      MatchQuality = "weak"
	QualityPoor      MatchQuality = "poor"
)

// QualityForScore maps a match percentage to its quality band.
func QualityForScore(score float64) MatchQuality {
	switch {
	case score >= 85:
		return QualityExcellent
	case score >= 70:
		return QualityStrong
	case score >= 55:
		return QualityModerate
	case score >= 40:
		return QualityWeak
	default:
		return QualityPoor
	}
}

// SkillMatch describes a single skill comparison between resume and job.
type SkillMatch struct {
	Name     string  `json:"name"`
	Matched  bool    `json:"matched"`
	Required bool    `json:"required"`
	Score    float64 `json:"score"`
}

// BiasAdjustment records an applied bias penalty for auditability.
type BiasAdjustment struct {
	OriginalScore float64 `json:"original_score"`
	AdjustedScore float64 `json:"adjusted_score"`
	BiasScore     float64 `json:"bias_score"`
}

// BiasDetection is the output of the external bias-detection collaborator.
type BiasDetection struct {
	BiasScore           float64  `json:"bias_score"`           // 0-100
	DetectionConfidence float64  `json:"detection_confidence"` // 0-1
	Categories          []string `json:"categories,omitempty"`
}

// MatchResult is the final outcome of one match request. Constructed once
// per request and immutable once returned to the caller.
type MatchResult struct {
	MatchPercentage float64         `json:"match_percentage"`
	MatchedSkills   []SkillMatch    `json:"matched_skills"`
	MissingSkills   []string        `json:"missing_skills"`
	Strengths       []string        `json:"strengths,omitempty"`
	Weaknesses      []string        `json:"weaknesses,omitempty"`
	Recommendations []string        `json:"recommendations,omitempty"`
	Explanation     string          `json:"explanation,omitempty"`
	Confidence      float64         `json:"confidence"`
	ConfidenceLevel ConfidenceLevel `json:"confidence_level"`
	AnalysisMethod  AnalysisMethod  `json:"analysis_method"`
	BiasAdjustment  *BiasAdjustment `json:"bias_adjustment,omitempty"`
	MatchQuality    MatchQuality    `json:"match_quality"`
}

// OutcomeStatus tags how a pipeline run concluded.
type OutcomeStatus string

// Outcome statuses.
const (
	StatusOK       OutcomeStatus = "ok"
	StatusDegraded OutcomeStatus = "degraded"
	StatusFallback OutcomeStatus = "fallback"
)

// Outcome wraps a MatchResult with a status tag so callers can distinguish
// "succeeded with caveats" from a full fallback.
type Outcome struct {
	Status OutcomeStatus `json:"status"`
	Reason string        `json:"reason,omitempty"`
	Result *MatchResult  `json:"result"`
}
