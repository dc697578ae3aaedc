package quality

import (
	"math"

	"github.com/jonathan/match-engine/internal/types"
)

// Bias adjustment policy.
const (
	// biasDetectionMinConfidence gates adjustment on the detector's own
	// confidence.
	biasDetectionMinConfidence = 0.7
	// biasScoreThreshold is the detector score above which a penalty applies.
	biasScoreThreshold = 60.0
	// maxBiasPenalty bounds the penalty fraction.
	maxBiasPenalty = 0.10
)

// AdjustForBias applies a bounded penalty to the result score when the
// external bias detector reports bias above threshold with sufficient
// confidence. Both scores are recorded for auditability. Runs strictly
// after blending and before the quality gate consumes the score.
func AdjustForBias(result *types.MatchResult, detection *types.BiasDetection) {
	if detection == nil || detection.DetectionConfidence < biasDetectionMinConfidence {
		return
	}
	if detection.BiasScore <= biasScoreThreshold {
		return
	}

	penalty := detection.BiasScore / 100 * maxBiasPenalty
	if penalty > maxBiasPenalty {
		penalty = maxBiasPenalty
	}

	original := result.MatchPercentage
	adjusted := math.Round(original * (1 - penalty))

	result.MatchPercentage = adjusted
	result.BiasAdjustment = &types.BiasAdjustment{
		OriginalScore: original,
		AdjustedScore: adjusted,
		BiasScore:     detection.BiasScore,
	}
}
