package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQualityForScore_Bands(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		expected MatchQuality
	}{
		{"excellent at boundary", 85, QualityExcellent},
		{"excellent above", 92.5, QualityExcellent},
		{"strong at boundary", 70, QualityStrong},
		{"strong below excellent", 84.9, QualityStrong},
		{"moderate at boundary", 55, QualityModerate},
		{"weak at boundary", 40, QualityWeak},
		{"poor below weak", 39.9, QualityPoor},
		{"poor at zero", 0, QualityPoor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, QualityForScore(tt.score))
		})
	}
}

func TestScoringWeights_Validate(t *testing.T) {
	valid := ScoringWeights{Skills: 0.4, Experience: 0.3, Education: 0.1, Semantic: 0.2}
	assert.NoError(t, valid.Validate())

	assert.NoError(t, DefaultScoringWeights().Validate())

	invalid := ScoringWeights{Skills: 0.5, Experience: 0.5, Education: 0.5, Semantic: 0.5}
	assert.Error(t, invalid.Validate())

	// Within tolerance of 1e-3
	nearlyValid := ScoringWeights{Skills: 0.4004, Experience: 0.3, Education: 0.1, Semantic: 0.2}
	assert.NoError(t, nearlyValid.Validate())
}

func TestRawProviderResult_IsEmpty(t *testing.T) {
	var nilResult *RawProviderResult
	assert.True(t, nilResult.IsEmpty())

	empty := &RawProviderResult{}
	assert.True(t, empty.IsEmpty())

	withScore := &RawProviderResult{MatchPercentage: 72}
	assert.False(t, withScore.IsEmpty())

	withSkills := &RawProviderResult{MatchedSkills: []string{"Go"}}
	assert.False(t, withSkills.IsEmpty())
}

func TestProfiles_HasFullText(t *testing.T) {
	resume := &ResumeProfile{Skills: []string{"Go"}}
	assert.False(t, resume.HasFullText())

	resume.RawText = "Senior engineer with 10 years of Go experience."
	assert.True(t, resume.HasFullText())

	var nilJob *JobProfile
	assert.False(t, nilJob.HasFullText())
}
