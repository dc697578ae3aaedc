package types

import "fmt"

// weightSumTolerance is the allowed deviation from 1.0 for weight sets.
const weightSumTolerance = 1e-3

// DimensionScores holds the per-dimension rubric scores (0-100) produced by
// the external deterministic scorer. Immutable once computed for a
// (resume, job) pair.
type DimensionScores struct {
	Skills     float64 `json:"skills"`
	Experience float64 `json:"experience"`
	Education  float64 `json:"education"`
	Semantic   float64 `json:"semantic"`
}

// ScoringWeights controls how the four dimension scores combine into a
// single ML score. Weights must sum to 1.0 within tolerance.
type ScoringWeights struct {
	Skills     float64 `json:"skills" validate:"gte=0,lte=1"`
	Experience float64 `json:"experience" validate:"gte=0,lte=1"`
	Education  float64 `json:"education" validate:"gte=0,lte=1"`
	Semantic   float64 `json:"semantic" validate:"gte=0,lte=1"`
}

// Validate checks that the weights sum to 1.0 within tolerance.
func (w ScoringWeights) Validate() error {
	sum := w.Skills + w.Experience + w.Education + w.Semantic
	if sum < 1.0-weightSumTolerance || sum > 1.0+weightSumTolerance {
		return fmt.Errorf("scoring weights must sum to 1.0, got %.4f", sum)
	}
	return nil
}

// DefaultScoringWeights returns the standard dimension weighting.
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		Skills:     0.40,
		Experience: 0.30,
		Education:  0.10,
		Semantic:   0.20,
	}
}

// EnsembleWeights describes how ML and LLM scores blend into one number.
// ML + LLM always sums to 1.0; Reason is diagnostic only.
type EnsembleWeights struct {
	ML     float64 `json:"ml"`
	LLM    float64 `json:"llm"`
	Reason string  `json:"reason"`
}

// ConfidenceFactors are the four inputs to the overall confidence score,
// each in [0,1].
type ConfidenceFactors struct {
	DataQuality        float64 `json:"data_quality"`
	SkillMatchAccuracy float64 `json:"skill_match_accuracy"`
	Parseability       float64 `json:"parseability"`
	SemanticAlignment  float64 `json:"semantic_alignment"`
}
