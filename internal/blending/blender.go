// Package blending merges the deterministic ML score and the LLM provider
// score into a single match result using failure-aware adaptive weights.
package blending

import (
	"math"

	"github.com/jonathan/match-engine/internal/scoring"
	"github.com/jonathan/match-engine/internal/types"
)

// Blend tuning.
const (
	// DefaultFailureThreshold marks a source score at or below this value
	// as a degraded or failed analysis.
	DefaultFailureThreshold = 50.0
	// baseMLWeight is the ML share when both sources succeed and their
	// confidence self-reports agree. Semantic understanding from the LLM
	// is weighted higher than raw dimension math.
	baseMLWeight = 0.30
	// confidenceGapThreshold is the self-reported confidence disagreement
	// beyond which calibration is considered suspect.
	confidenceGapThreshold = 0.20
	// distrustMLWeight is the ML share used when the confidence gap is too
	// large to trust the self-reports: the reproducible source takes the
	// majority share, at the 0.6/0.4 boundary.
	distrustMLWeight = 0.60
)

// Result is the blended outcome handed to the quality gate.
type Result struct {
	Score           float64
	Weights         types.EnsembleWeights
	MatchedSkills   []types.SkillMatch
	MissingSkills   []string
	Strengths       []string
	Weaknesses      []string
	Recommendations []string
}

// Blender combines ML and LLM analyses. The skill normalizer is injected at
// construction so union and de-duplication compare canonical identities.
type Blender struct {
	normalizer       SkillNormalizer
	failureThreshold float64
}

// NewBlender creates a blender with the given normalizer and the default
// failure threshold.
func NewBlender(normalizer SkillNormalizer) *Blender {
	return &Blender{
		normalizer:       normalizer,
		failureThreshold: DefaultFailureThreshold,
	}
}

// WithFailureThreshold overrides the degraded-score heuristic threshold.
func (b *Blender) WithFailureThreshold(threshold float64) *Blender {
	b.failureThreshold = threshold
	return b
}

// Weights computes failure-aware ensemble weights. ML + LLM always sums
// to 1.0.
func (b *Blender) Weights(mlScore, mlConfidence, llmScore, llmConfidence float64) types.EnsembleWeights {
	mlFailed := mlScore <= b.failureThreshold
	llmFailed := llmScore <= b.failureThreshold

	switch {
	case mlFailed && !llmFailed:
		return types.EnsembleWeights{ML: 0, LLM: 1, Reason: "ml analysis degraded"}
	case llmFailed && !mlFailed:
		return types.EnsembleWeights{ML: 1, LLM: 0, Reason: "llm analysis degraded"}
	case mlFailed && llmFailed:
		return types.EnsembleWeights{ML: 0.5, LLM: 0.5, Reason: "both analyses degraded"}
	}

	ml := baseMLWeight
	reason := "both sources healthy, llm-favored base weights"
	if math.Abs(llmConfidence-mlConfidence) > confidenceGapThreshold {
		// The sources disagree sharply about their own confidence, so the
		// self-reports are treated as uncalibrated and the deterministic
		// score takes the majority share.
		ml = distrustMLWeight
		reason = "confidence gap too wide, deterministic-majority weights"
	}
	return types.EnsembleWeights{ML: ml, LLM: 1 - ml, Reason: reason}
}

// Blend merges one ML result and one LLM result into a blended score with
// unioned skills and narrative.
func (b *Blender) Blend(ml *scoring.MLResult, llm *types.RawProviderResult) *Result {
	weights := b.Weights(ml.Score, ml.Confidence, llm.MatchPercentage, llm.Confidence)
	score := math.Round(ml.Score*weights.ML + llm.MatchPercentage*weights.LLM)

	matched, missing := b.unionSkills(ml, llm)

	return &Result{
		Score:           score,
		Weights:         weights,
		MatchedSkills:   matched,
		MissingSkills:   missing,
		Strengths:       dedupeStrings(llm.Strengths),
		Weaknesses:      dedupeStrings(llm.Weaknesses),
		Recommendations: dedupeStrings(llm.Recommendations),
	}
}

// unionSkills builds the matched-skill union (case-insensitive via the
// normalizer) and the missing-skill union minus anything now matched.
func (b *Blender) unionSkills(ml *scoring.MLResult, llm *types.RawProviderResult) ([]types.SkillMatch, []string) {
	matched := make([]types.SkillMatch, 0, len(ml.Skills)+len(llm.MatchedSkills))
	matchedSet := make(map[string]bool)

	for _, skill := range ml.Skills {
		if !skill.Matched {
			continue
		}
		key := b.normalizer.Normalize(skill.Name)
		if matchedSet[key] {
			continue
		}
		matchedSet[key] = true
		matched = append(matched, skill)
	}
	for _, name := range llm.MatchedSkills {
		key := b.normalizer.Normalize(name)
		if matchedSet[key] {
			continue
		}
		matchedSet[key] = true
		matched = append(matched, types.SkillMatch{Name: name, Matched: true, Score: 100})
	}

	missing := make([]string, 0, len(ml.Skills)+len(llm.MissingSkills))
	missingSet := make(map[string]bool)
	addMissing := func(name string) {
		key := b.normalizer.Normalize(name)
		if matchedSet[key] || missingSet[key] {
			return
		}
		missingSet[key] = true
		missing = append(missing, name)
	}
	for _, skill := range ml.Skills {
		if !skill.Matched {
			addMissing(skill.Name)
		}
	}
	for _, name := range llm.MissingSkills {
		addMissing(name)
	}

	return matched, missing
}

// dedupeStrings removes duplicates preserving insertion order. De-dup is
// case-sensitive: narrative text is kept verbatim.
func dedupeStrings(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
