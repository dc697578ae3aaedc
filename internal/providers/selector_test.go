package providers

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/match-engine/internal/cache"
	"github.com/jonathan/match-engine/internal/types"
)

// stubProvider is a scriptable Provider for selector tests.
type stubProvider struct {
	name   string
	result *types.RawProviderResult
	err    error
	calls  int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Analyze(_ context.Context, _ *types.ResumeProfile, _ *types.JobProfile) (*types.RawProviderResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func goodResult(score float64) *types.RawProviderResult {
	return &types.RawProviderResult{
		MatchPercentage: score,
		MatchedSkills:   []string{"Go"},
		MissingSkills:   []string{"Kubernetes"},
		Confidence:      0.8,
	}
}

func testProfiles() (*types.ResumeProfile, *types.JobProfile) {
	resume := &types.ResumeProfile{
		Skills:         []string{"Go", "PostgreSQL"},
		ExperienceText: "8 years backend",
		RawText:        "Full resume text",
	}
	job := &types.JobProfile{
		RequiredSkills: []string{"Go", "Kubernetes"},
		RawText:        "Full job text",
	}
	return resume, job
}

func newTestSelector(providers ...Provider) *Selector {
	return NewSelector(providers, cache.New(), zap.NewNop())
}

func TestSelector_PrefersFirstHealthyProvider(t *testing.T) {
	first := &stubProvider{name: "gemini", result: goodResult(80)}
	second := &stubProvider{name: "openai", result: goodResult(75)}
	s := newTestSelector(first, second)

	resume, job := testProfiles()
	result, err := s.Analyze(context.Background(), resume, job)
	require.NoError(t, err)

	assert.Equal(t, 80.0, result.MatchPercentage)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls, "later providers are not invoked on success")
}

func TestSelector_FailsOverOnError(t *testing.T) {
	first := &stubProvider{name: "gemini", err: NewProviderError("gemini", KindTimeout, errors.New("deadline"))}
	second := &stubProvider{name: "openai", result: goodResult(75)}
	s := newTestSelector(first, second)

	resume, job := testProfiles()
	result, err := s.Analyze(context.Background(), resume, job)
	require.NoError(t, err)

	assert.Equal(t, 75.0, result.MatchPercentage)
	assert.Equal(t, 1, s.HealthSnapshots()["gemini"].ConsecutiveFailures)
	assert.Equal(t, 0, s.HealthSnapshots()["openai"].ConsecutiveFailures)
}

func TestSelector_EmptyResponseCountsAsFailure(t *testing.T) {
	first := &stubProvider{name: "gemini", result: &types.RawProviderResult{}}
	second := &stubProvider{name: "openai", result: goodResult(70)}
	s := newTestSelector(first, second)

	resume, job := testProfiles()
	result, err := s.Analyze(context.Background(), resume, job)
	require.NoError(t, err)

	assert.Equal(t, 70.0, result.MatchPercentage)
	assert.Equal(t, 1, s.HealthSnapshots()["gemini"].ConsecutiveFailures)
}

func TestSelector_AllProvidersFailing(t *testing.T) {
	first := &stubProvider{name: "gemini", err: fmt.Errorf("network down")}
	second := &stubProvider{name: "openai", err: fmt.Errorf("network down")}
	s := newTestSelector(first, second)

	resume, job := testProfiles()
	_, err := s.Analyze(context.Background(), resume, job)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoProviderAvailable))
}

func TestSelector_SkipsCircuitOpenProvider(t *testing.T) {
	failing := &stubProvider{name: "gemini", err: fmt.Errorf("down")}
	healthy := &stubProvider{name: "openai", result: goodResult(68)}
	s := newTestSelector(failing, healthy)

	resume, job := testProfiles()

	// Three failing rounds open gemini's circuit; vary the job so the
	// cache does not absorb the calls.
	for i := 0; i < 3; i++ {
		variant := &types.JobProfile{RawText: fmt.Sprintf("job variant %d", i)}
		_, err := s.Analyze(context.Background(), resume, variant)
		require.NoError(t, err, "openai still serves the request")
	}
	require.False(t, s.HealthSnapshots()["gemini"].Available)

	callsBefore := failing.calls
	_, err := s.Analyze(context.Background(), resume, job)
	require.NoError(t, err)
	assert.Equal(t, callsBefore, failing.calls, "circuit-open provider is skipped")
}

func TestSelector_CachesSuccessfulResults(t *testing.T) {
	p := &stubProvider{name: "gemini", result: goodResult(80)}
	s := newTestSelector(p)

	resume, job := testProfiles()
	first, err := s.Analyze(context.Background(), resume, job)
	require.NoError(t, err)
	second, err := s.Analyze(context.Background(), resume, job)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, p.calls, "second request is served from cache")
}

func TestSelector_AnyHealthy(t *testing.T) {
	failing := &stubProvider{name: "gemini", err: fmt.Errorf("down")}
	s := newTestSelector(failing)
	now := time.Now()

	assert.True(t, s.AnyHealthy(now))

	resume, _ := testProfiles()
	for i := 0; i < 3; i++ {
		variant := &types.JobProfile{RawText: fmt.Sprintf("job variant %d", i)}
		_, err := s.Analyze(context.Background(), resume, variant)
		require.Error(t, err)
	}

	assert.False(t, s.AnyHealthy(now.Add(time.Second)))
	assert.True(t, s.AnyHealthy(now.Add(time.Hour)), "due for recovery counts as healthy")
}
