package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/match-engine/internal/types"
)

// callTimeout bounds each external provider call. A timeout is treated
// identically to a thrown error: it counts as a provider failure. The
// underlying call is abandoned, not cancelled.
const callTimeout = 30 * time.Second

// Provider is a single LLM provider capable of analyzing a resume against
// a job posting. Implementations return the canonical RawProviderResult
// shape; no downstream component re-inspects provider-specific formats.
type Provider interface {
	// Name identifies the provider for health tracking and logs.
	Name() string
	// Analyze runs one resume-vs-job analysis call.
	Analyze(ctx context.Context, resume *types.ResumeProfile, job *types.JobProfile) (*types.RawProviderResult, error)
}

// buildAnalysisPrompt constructs the analysis prompt shared by all
// provider adapters, so differences between providers come from the model,
// not the instructions.
func buildAnalysisPrompt(resume *types.ResumeProfile, job *types.JobProfile) string {
	var sb strings.Builder

	sb.WriteString("Compare the following resume against the job posting and respond with JSON only, using this shape:\n")
	sb.WriteString(`{"match_percentage": 0-100, "matched_skills": [], "missing_skills": [], "strengths": [], "weaknesses": [], "recommendations": [], "confidence": 0.0-1.0}`)
	sb.WriteString("\n\nResume skills: ")
	sb.WriteString(strings.Join(resume.Skills, ", "))
	if resume.ExperienceText != "" {
		sb.WriteString("\nExperience: ")
		sb.WriteString(resume.ExperienceText)
	}
	if resume.EducationText != "" {
		sb.WriteString("\nEducation: ")
		sb.WriteString(resume.EducationText)
	}
	if resume.RawText != "" {
		sb.WriteString("\n\nFull resume:\n")
		sb.WriteString(resume.RawText)
	}

	sb.WriteString("\n\nRequired skills: ")
	sb.WriteString(strings.Join(job.RequiredSkills, ", "))
	if job.ExperienceLevel != "" {
		sb.WriteString(fmt.Sprintf("\nExperience level: %s", job.ExperienceLevel))
	}
	if job.RawText != "" {
		sb.WriteString("\n\nFull job posting:\n")
		sb.WriteString(job.RawText)
	}

	return sb.String()
}

// cleanJSONBlock removes markdown code block wrappers from JSON.
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
