package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/match-engine/internal/cache"
	"github.com/jonathan/match-engine/internal/health"
	"github.com/jonathan/match-engine/internal/types"
)

// llmAnalysisKind tags cache keys for raw provider analyses.
const llmAnalysisKind = "llm_analysis"

// Selector tries providers in a configured preference order, skipping any
// whose circuit is open, recording success and failure against each
// provider's health tracker, and caching successful results so identical
// inputs never hit a provider twice within the TTL.
type Selector struct {
	providers []Provider
	trackers  map[string]*health.Tracker
	cache     *cache.Cache
	logger    *zap.Logger

	now func() time.Time // injectable clock for tests
}

// NewSelector creates a selector over providers in preference order. Each
// provider gets its own fresh health tracker.
func NewSelector(providers []Provider, c *cache.Cache, logger *zap.Logger) *Selector {
	trackers := make(map[string]*health.Tracker, len(providers))
	for _, p := range providers {
		trackers[p.Name()] = health.NewTracker(p.Name())
	}
	return &Selector{
		providers: providers,
		trackers:  trackers,
		cache:     c,
		logger:    logger,
		now:       time.Now,
	}
}

// Analyze invokes the first eligible provider and returns its normalized
// result. Failed providers are recorded and skipped; when no provider
// remains, a typed ErrNoProviderAvailable is returned. This layer never
// fabricates a score.
func (s *Selector) Analyze(ctx context.Context, resume *types.ResumeProfile, job *types.JobProfile) (*types.RawProviderResult, error) {
	key := cache.Key(profileText(resume), jobText(job), llmAnalysisKind)
	if cached, ok := s.cache.Get(key); ok {
		if result, ok := cached.(*types.RawProviderResult); ok {
			return result, nil
		}
	}

	var lastErr error
	for _, p := range s.providers {
		tracker := s.trackers[p.Name()]
		if !tracker.Eligible(s.now()) {
			s.logger.Debug("skipping circuit-open provider", zap.String("provider", p.Name()))
			continue
		}

		result, err := p.Analyze(ctx, resume, job)
		if err != nil {
			tracker.RecordFailure(s.now())
			s.logger.Warn("provider call failed",
				zap.String("provider", p.Name()),
				zap.Error(err),
			)
			lastErr = err
			continue
		}
		if result.IsEmpty() {
			// A parsed but logically empty response is a failure too.
			tracker.RecordFailure(s.now())
			s.logger.Warn("provider returned empty analysis", zap.String("provider", p.Name()))
			lastErr = NewProviderError(p.Name(), KindMalformedResponse, fmt.Errorf("empty analysis"))
			continue
		}

		tracker.RecordSuccess()
		s.cache.Set(key, result, cache.IntermediateTTL)
		return result, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: last failure: %v", ErrNoProviderAvailable, lastErr)
	}
	return nil, ErrNoProviderAvailable
}

// AnyHealthy reports whether at least one provider could accept a call,
// without consuming any recovery probe.
func (s *Selector) AnyHealthy(now time.Time) bool {
	for _, p := range s.providers {
		if s.trackers[p.Name()].DueForRecovery(now) {
			return true
		}
	}
	return false
}

// HealthSnapshots returns the current health state of every provider for
// the introspection surface.
func (s *Selector) HealthSnapshots() map[string]health.Snapshot {
	snapshots := make(map[string]health.Snapshot, len(s.trackers))
	for name, tracker := range s.trackers {
		snapshots[name] = tracker.Snapshot()
	}
	return snapshots
}

// profileText flattens a resume profile into the text hashed for cache keys.
func profileText(resume *types.ResumeProfile) string {
	if resume.RawText != "" {
		return resume.RawText
	}
	return strings.Join(resume.Skills, ",") + "|" + resume.ExperienceText + "|" + resume.EducationText
}

// jobText flattens a job profile into the text hashed for cache keys.
func jobText(job *types.JobProfile) string {
	if job.RawText != "" {
		return job.RawText
	}
	return strings.Join(job.RequiredSkills, ",") + "|" + job.ExperienceLevel
}
