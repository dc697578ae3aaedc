package scoring

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/match-engine/internal/types"
)

// Experience-level keywords recognized by the rubric scorer.
var experienceLevels = map[string]int{
	"intern":    0,
	"junior":    1,
	"entry":     1,
	"mid":       2,
	"senior":    3,
	"staff":     4,
	"principal": 4,
	"lead":      4,
}

// RubricScore is the default DimensionScoreFn: a deterministic rubric over
// skill overlap, experience level, education signals, and raw-text token
// overlap. Identical inputs always produce identical output.
func RubricScore(_ context.Context, resume *types.ResumeProfile, job *types.JobProfile) (*types.DimensionScores, []types.SkillMatch, string, error) {
	if resume == nil || job == nil {
		return nil, nil, "", fmt.Errorf("resume and job profiles are required")
	}

	skillScore, skillMatches := scoreSkills(resume, job)
	dims := &types.DimensionScores{
		Skills:     skillScore,
		Experience: scoreExperience(resume, job),
		Education:  scoreEducation(resume),
		Semantic:   scoreSemantic(resume, job),
	}

	explanation := fmt.Sprintf(
		"rubric: skills %.0f, experience %.0f, education %.0f, semantic %.0f",
		dims.Skills, dims.Experience, dims.Education, dims.Semantic,
	)
	return dims, skillMatches, explanation, nil
}

// scoreSkills measures required-skill coverage. Returns the 0-100 score and
// the per-skill breakdown.
func scoreSkills(resume *types.ResumeProfile, job *types.JobProfile) (float64, []types.SkillMatch) {
	if len(job.RequiredSkills) == 0 {
		return 50, nil // Neutral score when the job lists no skills
	}

	resumeSkills := make(map[string]bool, len(resume.Skills))
	for _, skill := range resume.Skills {
		resumeSkills[normalizeSkill(skill)] = true
	}

	matches := make([]types.SkillMatch, 0, len(job.RequiredSkills))
	matched := 0
	for _, required := range job.RequiredSkills {
		hit := resumeSkills[normalizeSkill(required)]
		if hit {
			matched++
		}
		score := 0.0
		if hit {
			score = 100
		}
		matches = append(matches, types.SkillMatch{
			Name:     required,
			Matched:  hit,
			Required: true,
			Score:    score,
		})
	}

	return 100 * float64(matched) / float64(len(job.RequiredSkills)), matches
}

// scoreExperience compares the job's stated level against level keywords
// found in the resume's experience text.
func scoreExperience(resume *types.ResumeProfile, job *types.JobProfile) float64 {
	wanted, ok := experienceLevels[strings.ToLower(strings.TrimSpace(job.ExperienceLevel))]
	if !ok {
		return 50 // Unknown target level: neutral
	}

	text := strings.ToLower(resume.ExperienceText)
	best := -1
	for keyword, level := range experienceLevels {
		if strings.Contains(text, keyword) && level > best {
			best = level
		}
	}
	if best < 0 {
		return 40 // No level signal in the resume
	}

	gap := best - wanted
	switch {
	case gap >= 0:
		return 100
	case gap == -1:
		return 70
	case gap == -2:
		return 40
	default:
		return 20
	}
}

// scoreEducation looks for degree signals in the education text.
func scoreEducation(resume *types.ResumeProfile) float64 {
	text := strings.ToLower(resume.EducationText)
	switch {
	case strings.Contains(text, "phd") || strings.Contains(text, "doctorate"):
		return 100
	case strings.Contains(text, "master"):
		return 90
	case strings.Contains(text, "bachelor") || strings.Contains(text, "b.s") || strings.Contains(text, "b.a"):
		return 80
	case text == "":
		return 50 // No signal: neutral
	default:
		return 60
	}
}

// scoreSemantic is a token-overlap proxy for semantic alignment between the
// raw texts. Falls back to neutral when either text is missing.
func scoreSemantic(resume *types.ResumeProfile, job *types.JobProfile) float64 {
	if resume.RawText == "" || job.RawText == "" {
		return 50
	}

	jobTokens := tokenSet(job.RawText)
	if len(jobTokens) == 0 {
		return 50
	}
	resumeTokens := tokenSet(resume.RawText)

	overlap := 0
	for token := range jobTokens {
		if resumeTokens[token] {
			overlap++
		}
	}
	return 100 * float64(overlap) / float64(len(jobTokens))
}

func tokenSet(text string) map[string]bool {
	tokens := make(map[string]bool)
	for _, field := range strings.Fields(strings.ToLower(text)) {
		token := strings.Trim(field, ".,;:()[]\"'")
		if len(token) > 3 { // skip stopword-sized tokens
			tokens[token] = true
		}
	}
	return tokens
}

func normalizeSkill(skill string) string {
	return strings.ToLower(strings.TrimSpace(skill))
}
