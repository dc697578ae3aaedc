package scoring

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/match-engine/internal/types"
)

func fixedScorer(dims types.DimensionScores) DimensionScoreFn {
	return func(_ context.Context, _ *types.ResumeProfile, _ *types.JobProfile) (*types.DimensionScores, []types.SkillMatch, string, error) {
		return &dims, nil, "fixed", nil
	}
}

func TestAdapter_AppliesWeights(t *testing.T) {
	weights := types.ScoringWeights{Skills: 0.4, Experience: 0.3, Education: 0.1, Semantic: 0.2}
	adapter, err := NewAdapter(fixedScorer(types.DimensionScores{
		Skills: 80, Experience: 60, Education: 100, Semantic: 50,
	}), weights)
	require.NoError(t, err)

	result, err := adapter.Score(context.Background(), &types.ResumeProfile{}, &types.JobProfile{})
	require.NoError(t, err)

	// 80*0.4 + 60*0.3 + 100*0.1 + 50*0.2 = 70
	assert.InDelta(t, 70.0, result.Score, 1e-9)
}

func TestAdapter_RejectsInvalidWeights(t *testing.T) {
	_, err := NewAdapter(fixedScorer(types.DimensionScores{}), types.ScoringWeights{Skills: 1, Experience: 1})
	assert.Error(t, err)
}

func TestAdapter_PropagatesScorerError(t *testing.T) {
	failing := func(_ context.Context, _ *types.ResumeProfile, _ *types.JobProfile) (*types.DimensionScores, []types.SkillMatch, string, error) {
		return nil, nil, "", fmt.Errorf("scorer exploded")
	}
	adapter, err := NewAdapter(failing, types.DefaultScoringWeights())
	require.NoError(t, err)

	_, err = adapter.Score(context.Background(), &types.ResumeProfile{}, &types.JobProfile{})
	assert.ErrorContains(t, err, "scorer exploded")
}

func TestAdapter_ConfidenceReflectsInputCompleteness(t *testing.T) {
	adapter, err := NewAdapter(fixedScorer(types.DimensionScores{}), types.DefaultScoringWeights())
	require.NoError(t, err)

	full := &types.ResumeProfile{Skills: []string{"Go"}, RawText: "text"}
	fullJob := &types.JobProfile{RequiredSkills: []string{"Go"}, RawText: "text"}
	rich, err := adapter.Score(context.Background(), full, fullJob)
	require.NoError(t, err)

	thin, err := adapter.Score(context.Background(), &types.ResumeProfile{}, &types.JobProfile{})
	require.NoError(t, err)

	assert.Greater(t, rich.Confidence, thin.Confidence)
	assert.GreaterOrEqual(t, thin.Confidence, 0.3)
}

func TestRubricScore_Deterministic(t *testing.T) {
	resume := &types.ResumeProfile{
		Skills:         []string{"Go", "PostgreSQL", "Docker"},
		ExperienceText: "Senior backend engineer for 8 years",
		EducationText:  "Bachelor of Science in Computer Science",
		RawText:        "Senior backend engineer building distributed systems in Go with PostgreSQL and Docker",
	}
	job := &types.JobProfile{
		RequiredSkills:  []string{"Go", "Kubernetes"},
		ExperienceLevel: "senior",
		RawText:         "Looking for a senior engineer with Go and Kubernetes experience building distributed systems",
	}

	first, firstSkills, _, err := RubricScore(context.Background(), resume, job)
	require.NoError(t, err)
	second, secondSkills, _, err := RubricScore(context.Background(), resume, job)
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical inputs yield identical dimensions")
	assert.Equal(t, firstSkills, secondSkills)
}

func TestRubricScore_SkillCoverage(t *testing.T) {
	resume := &types.ResumeProfile{Skills: []string{"go", "docker"}}
	job := &types.JobProfile{RequiredSkills: []string{"Go", "Kubernetes", "Docker", "Terraform"}}

	dims, skills, _, err := RubricScore(context.Background(), resume, job)
	require.NoError(t, err)

	assert.InDelta(t, 50.0, dims.Skills, 1e-9, "2 of 4 required skills matched")
	require.Len(t, skills, 4)
	assert.True(t, skills[0].Matched, "Go matches case-insensitively")
	assert.False(t, skills[1].Matched)
}

func TestRubricScore_ExperienceLevels(t *testing.T) {
	job := &types.JobProfile{ExperienceLevel: "senior"}

	over := &types.ResumeProfile{ExperienceText: "Principal engineer"}
	dims, _, _, err := RubricScore(context.Background(), over, job)
	require.NoError(t, err)
	assert.Equal(t, 100.0, dims.Experience, "above target level scores full")

	under := &types.ResumeProfile{ExperienceText: "Mid-level engineer"}
	dims, _, _, err = RubricScore(context.Background(), under, job)
	require.NoError(t, err)
	assert.Equal(t, 70.0, dims.Experience, "one level under target")
}

func TestRubricScore_NilProfiles(t *testing.T) {
	_, _, _, err := RubricScore(context.Background(), nil, nil)
	assert.Error(t, err)
}
