// Package scoring wraps the deterministic dimension scorer and folds its
// per-dimension output into a single weighted ML score.
package scoring

import (
	"context"
	"fmt"

	"github.com/jonathan/match-engine/internal/types"
)

// DimensionScoreFn is the external deterministic scorer: given a resume and
// job profile it returns per-dimension scores (0-100), a per-skill
// breakdown, and a short explanation. It must be a pure function of its
// inputs.
type DimensionScoreFn func(ctx context.Context, resume *types.ResumeProfile, job *types.JobProfile) (*types.DimensionScores, []types.SkillMatch, string, error)

// MLResult is the normalized output of one ML scoring pass.
type MLResult struct {
	Score       float64
	Dimensions  types.DimensionScores
	Skills      []types.SkillMatch
	Confidence  float64
	Explanation string
}

// Adapter applies configured scoring weights to the external dimension
// scorer. It performs no network calls and is always available.
type Adapter struct {
	scoreFn DimensionScoreFn
	weights types.ScoringWeights
}

// NewAdapter creates an adapter around scoreFn. The weights are validated
// once here; a weight set that does not sum to 1.0 is a configuration error.
func NewAdapter(scoreFn DimensionScoreFn, weights types.ScoringWeights) (*Adapter, error) {
	if scoreFn == nil {
		return nil, fmt.Errorf("dimension score function is required")
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Adapter{scoreFn: scoreFn, weights: weights}, nil
}

// Score runs the dimension scorer and combines its output into one weighted
// ML score.
func (a *Adapter) Score(ctx context.Context, resume *types.ResumeProfile, job *types.JobProfile) (*MLResult, error) {
	dims, skills, explanation, err := a.scoreFn(ctx, resume, job)
	if err != nil {
		return nil, fmt.Errorf("dimension scoring failed: %w", err)
	}

	score := dims.Skills*a.weights.Skills +
		dims.Experience*a.weights.Experience +
		dims.Education*a.weights.Education +
		dims.Semantic*a.weights.Semantic

	return &MLResult{
		Score:       score,
		Dimensions:  *dims,
		Skills:      skills,
		Confidence:  mlConfidence(resume, job),
		Explanation: explanation,
	}, nil
}

// mlConfidence estimates how much to trust the rubric score from input
// completeness. The rubric itself is deterministic; uncertainty comes from
// thin inputs, not from the math.
func mlConfidence(resume *types.ResumeProfile, job *types.JobProfile) float64 {
	confidence := 0.9
	if !resume.HasFullText() || !job.HasFullText() {
		confidence -= 0.2 // semantic dimension degrades without full text
	}
	if len(job.RequiredSkills) == 0 {
		confidence -= 0.2
	}
	if len(resume.Skills) == 0 {
		confidence -= 0.1
	}
	if confidence < 0.3 {
		confidence = 0.3
	}
	return confidence
}
