package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/match-engine/internal/types"
)

func TestAdjustForBias_AppliesBoundedPenalty(t *testing.T) {
	result := &types.MatchResult{MatchPercentage: 80}
	detection := &types.BiasDetection{BiasScore: 80, DetectionConfidence: 0.9}

	AdjustForBias(result, detection)

	// penalty = min(0.8*0.10, 0.10) = 0.08 -> round(80*0.92) = 74
	assert.Equal(t, 74.0, result.MatchPercentage)
	require.NotNil(t, result.BiasAdjustment)
	assert.Equal(t, 80.0, result.BiasAdjustment.OriginalScore)
	assert.Equal(t, 74.0, result.BiasAdjustment.AdjustedScore)
	assert.Equal(t, 80.0, result.BiasAdjustment.BiasScore)
}

func TestAdjustForBias_PenaltyCapped(t *testing.T) {
	result := &types.MatchResult{MatchPercentage: 90}
	detection := &types.BiasDetection{BiasScore: 100, DetectionConfidence: 1.0}

	AdjustForBias(result, detection)

	// penalty capped at 0.10 -> round(90*0.90) = 81
	assert.Equal(t, 81.0, result.MatchPercentage)
}

func TestAdjustForBias_SkipsLowDetectionConfidence(t *testing.T) {
	result := &types.MatchResult{MatchPercentage: 80}
	detection := &types.BiasDetection{BiasScore: 95, DetectionConfidence: 0.6}

	AdjustForBias(result, detection)

	assert.Equal(t, 80.0, result.MatchPercentage)
	assert.Nil(t, result.BiasAdjustment)
}

func TestAdjustForBias_SkipsLowBiasScore(t *testing.T) {
	result := &types.MatchResult{MatchPercentage: 80}
	detection := &types.BiasDetection{BiasScore: 60, DetectionConfidence: 0.95}

	AdjustForBias(result, detection)

	assert.Equal(t, 80.0, result.MatchPercentage, "bias score at threshold does not trigger adjustment")
	assert.Nil(t, result.BiasAdjustment)
}

func TestAdjustForBias_NilDetection(t *testing.T) {
	result := &types.MatchResult{MatchPercentage: 80}

	AdjustForBias(result, nil)

	assert.Equal(t, 80.0, result.MatchPercentage)
}
