// Package types provides type definitions for structured data used throughout the match-engine system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ResumeProfile represents a structured candidate resume produced by the
// upstream resume analysis collaborator.
type ResumeProfile struct {
	Skills         []string `json:"skills"`
	ExperienceText string   `json:"experience_text"`
	EducationText  string   `json:"education_text"`
	RawText        string   `json:"raw_text,omitempty"` // Full resume text when available
}

// HasFullText reports whether the profile carries the complete raw resume text.
func (r *ResumeProfile) HasFullText() bool {
	return r != nil && r.RawText != ""
}

// JobProfile represents a structured job posting produced by the upstream
// job analysis collaborator.
type JobProfile struct {
	RequiredSkills  []string `json:"required_skills"`
	ExperienceLevel string   `json:"experience_level"`
	RawText         string   `json:"raw_text,omitempty"` // Full job posting text when available
}

// HasFullText reports whether the profile carries the complete raw posting text.
func (j *JobProfile) HasFullText() bool {
	return j != nil && j.RawText != ""
}
