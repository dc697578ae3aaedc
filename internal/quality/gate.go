// Package quality computes multi-factor confidence, applies the
// conservative quality gate, and adjusts scores for detected bias.
package quality

import (
	"github.com/jonathan/match-engine/internal/types"
)

// Confidence thresholds.
const (
	// MinimumViableConfidence is the floor below which results are
	// conservatively downgraded.
	MinimumViableConfidence = 0.75
	HighConfidence          = 0.85
	ExcellentConfidence     = 0.90
	PerfectConfidence       = 0.95
)

// Fixed factor weights; they sum to 1.0.
const (
	dataQualityWeight       = 0.25
	skillMatchWeight        = 0.35
	parseabilityWeight      = 0.25
	semanticAlignmentWeight = 0.15
)

// LowConfidenceCaution is prepended to recommendations when the gate
// downgrades a result.
const LowConfidenceCaution = "Caution: confidence in this analysis is low; treat the match score as indicative only."

// Confidence folds the four factors into one weighted score in [0,1].
func Confidence(f types.ConfidenceFactors) float64 {
	c := f.DataQuality*dataQualityWeight +
		f.SkillMatchAccuracy*skillMatchWeight +
		f.Parseability*parseabilityWeight +
		f.SemanticAlignment*semanticAlignmentWeight
	return clamp01(c)
}

// LevelFor maps a confidence score to its level: the highest threshold met,
// else low.
func LevelFor(confidence float64) types.ConfidenceLevel {
	switch {
	case confidence >= ExcellentConfidence:
		return types.ConfidenceExcellent
	case confidence >= HighConfidence:
		return types.ConfidenceHigh
	case confidence >= MinimumViableConfidence:
		return types.ConfidenceMedium
	default:
		return types.ConfidenceLow
	}
}

// Apply runs the quality gate over a result in place: out-of-range fields
// are auto-corrected, the confidence level is assigned, and low-confidence
// results are conservatively downgraded. The gate never increases a score.
func Apply(result *types.MatchResult, factors types.ConfidenceFactors) {
	result.MatchPercentage = clampScore(result.MatchPercentage)
	result.Confidence = Confidence(factors)
	result.ConfidenceLevel = LevelFor(result.Confidence)

	if result.Confidence < MinimumViableConfidence {
		if result.MatchPercentage > 70 {
			excess := result.MatchPercentage - 70
			result.MatchPercentage -= 0.3 * excess
		}
		result.ConfidenceLevel = types.ConfidenceLow
		result.Recommendations = append([]string{LowConfidenceCaution}, result.Recommendations...)
	}

	result.MatchQuality = types.QualityForScore(result.MatchPercentage)
}

// DeriveFactors estimates the four confidence factors from what the
// pipeline observed while producing the result.
func DeriveFactors(resume *types.ResumeProfile, job *types.JobProfile, matched []types.SkillMatch, missing []string, llmParsed bool, semanticScore float64) types.ConfidenceFactors {
	dataQuality := 0.4
	if len(resume.Skills) > 0 {
		dataQuality += 0.2
	}
	if resume.HasFullText() {
		dataQuality += 0.2
	}
	if job.HasFullText() {
		dataQuality += 0.2
	}

	skillAccuracy := 0.5
	if total := len(matched) + len(missing); total > 0 {
		skillAccuracy = float64(len(matched)) / float64(total)
	}

	parseability := 0.5
	if llmParsed {
		parseability = 1.0
	}

	return types.ConfidenceFactors{
		DataQuality:        clamp01(dataQuality),
		SkillMatchAccuracy: clamp01(skillAccuracy),
		Parseability:       parseability,
		SemanticAlignment:  clamp01(semanticScore / 100),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
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
