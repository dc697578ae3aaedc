// Package engine sequences the match pipeline: strategy selection,
// concurrent ML and LLM analysis, blending, bias adjustment, and the
// quality gate. The pipeline never returns an error for well-formed input;
// partial failure surfaces as degraded confidence, total failure as a
// fixed fallback result.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/match-engine/internal/blending"
	"github.com/jonathan/match-engine/internal/cache"
	"github.com/jonathan/match-engine/internal/health"
	"github.com/jonathan/match-engine/internal/providers"
	"github.com/jonathan/match-engine/internal/quality"
	"github.com/jonathan/match-engine/internal/scoring"
	"github.com/jonathan/match-engine/internal/store"
	"github.com/jonathan/match-engine/internal/types"
)

// fullAnalysisKind tags cache keys for final blended outcomes.
const fullAnalysisKind = "full_analysis"

// Fallback result constants: the fixed, clearly-marked low-confidence
// result returned on total pipeline failure.
const (
	fallbackScore      = 50.0
	fallbackConfidence = 0.3
)

// ErrNoAnalysisPossible marks total failure of both scoring paths. It never
// escapes Match; it is recorded as the fallback reason.
var ErrNoAnalysisPossible = errors.New("no analysis possible")

// LLMAnalyzer is the provider-selection surface the engine depends on.
// *providers.Selector implements it.
type LLMAnalyzer interface {
	Analyze(ctx context.Context, resume *types.ResumeProfile, job *types.JobProfile) (*types.RawProviderResult, error)
	AnyHealthy(now time.Time) bool
	HealthSnapshots() map[string]health.Snapshot
}

// BiasDetectionFn is the external bias detector. Failures are swallowed;
// the pipeline proceeds without an adjustment.
type BiasDetectionFn func(ctx context.Context, resume *types.ResumeProfile, job *types.JobProfile, matchPercentage float64, dims types.DimensionScores) (*types.BiasDetection, error)

// Deps holds the engine's constructor-injected collaborators. ML, LLM and
// Blender are required; the rest default to safe no-ops.
type Deps struct {
	ML      *scoring.Adapter
	LLM     LLMAnalyzer
	Blender *blending.Blender
	Cache   *cache.Cache     // optional, defaults to a fresh cache
	BiasFn  BiasDetectionFn  // optional
	Store   store.MatchStore // optional
	Logger  *zap.Logger      // optional, defaults to no-op
}

// Engine is the match orchestrator.
type Engine struct {
	ml      *scoring.Adapter
	llm     LLMAnalyzer
	blender *blending.Blender
	cache   *cache.Cache
	biasFn  BiasDetectionFn
	store   store.MatchStore
	logger  *zap.Logger

	now func() time.Time // injectable clock for tests
}

// New creates an engine from its dependencies.
func New(deps Deps) (*Engine, error) {
	if deps.ML == nil {
		return nil, fmt.Errorf("ML adapter is required")
	}
	if deps.LLM == nil {
		return nil, fmt.Errorf("LLM analyzer is required")
	}
	if deps.Blender == nil {
		return nil, fmt.Errorf("blender is required")
	}
	if deps.Cache == nil {
		deps.Cache = cache.New()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Engine{
		ml:      deps.ML,
		llm:     deps.LLM,
		blender: deps.Blender,
		cache:   deps.Cache,
		biasFn:  deps.BiasFn,
		store:   deps.Store,
		logger:  deps.Logger,
		now:     time.Now,
	}, nil
}

// Match runs the full pipeline for one resume/job pair. It always returns
// a well-formed outcome; callers read Status to distinguish clean success,
// degraded success, and fallback.
func (e *Engine) Match(ctx context.Context, resume *types.ResumeProfile, job *types.JobProfile) *types.Outcome {
	if resume == nil || job == nil {
		e.logger.Error("match called with missing input profile")
		return fallbackOutcome("missing input profile")
	}

	requestID := uuid.New()
	logger := e.logger.With(zap.String("request_id", requestID.String()))

	key := cache.Key(resumeCacheText(resume), jobCacheText(job), fullAnalysisKind)
	if cached, ok := e.cache.Get(key); ok {
		if outcome, ok := cached.(*types.Outcome); ok {
			logger.Debug("serving blended result from cache")
			return outcome
		}
	}

	method := e.selectStrategy(resume, job)
	logger.Info("strategy selected", zap.String("method", string(method)))

	mlResult, llmResult := e.runAnalyses(ctx, logger, method, resume, job)

	outcome := e.assemble(ctx, logger, method, resume, job, mlResult, llmResult)

	// Degraded and fallback outcomes reflect transient conditions; caching
	// them would pin a wrong answer past provider recovery.
	if outcome.Status == types.StatusOK {
		e.cache.Set(key, outcome, cache.FullAnalysisTTL)
	}
	e.persist(ctx, logger, requestID, outcome)
	return outcome
}

// selectStrategy picks hybrid when full text and a healthy provider are
// both available, llm_only when only a provider is, and ml_only otherwise.
func (e *Engine) selectStrategy(resume *types.ResumeProfile, job *types.JobProfile) types.AnalysisMethod {
	fullText := resume.HasFullText() && job.HasFullText()
	llmHealthy := e.llm.AnyHealthy(e.now())

	switch {
	case fullText && llmHealthy:
		return types.MethodHybrid
	case llmHealthy:
		return types.MethodLLMOnly
	default:
		return types.MethodMLOnly
	}
}

// runAnalyses fans out to the ML and LLM adapters. In hybrid mode both run
// concurrently so latency is bounded by the slower branch, not the sum.
// Branch failures are captured, not propagated; blending always observes
// completed branches only.
func (e *Engine) runAnalyses(ctx context.Context, logger *zap.Logger, method types.AnalysisMethod, resume *types.ResumeProfile, job *types.JobProfile) (*scoring.MLResult, *types.RawProviderResult) {
	needML := method == types.MethodHybrid || method == types.MethodMLOnly
	needLLM := method == types.MethodHybrid || method == types.MethodLLMOnly

	var (
		mlResult  *scoring.MLResult
		llmResult *types.RawProviderResult
	)

	g, gCtx := errgroup.WithContext(ctx)
	if needML {
		g.Go(func() error {
			result, err := e.ml.Score(gCtx, resume, job)
			if err != nil {
				logger.Warn("ml scoring failed", zap.Error(err))
				return nil // captured, not propagated: the other branch may still succeed
			}
			mlResult = result
			return nil
		})
	}
	if needLLM {
		g.Go(func() error {
			result, err := e.llm.Analyze(gCtx, resume, job)
			if err != nil {
				logger.Warn("llm analysis failed", zap.Error(err))
				return nil
			}
			llmResult = result
			return nil
		})
	}
	_ = g.Wait() // branches never return errors

	return mlResult, llmResult
}

// assemble turns whatever the analyses produced into a final outcome,
// applying bias adjustment and then the quality gate.
func (e *Engine) assemble(ctx context.Context, logger *zap.Logger, method types.AnalysisMethod, resume *types.ResumeProfile, job *types.JobProfile, mlResult *scoring.MLResult, llmResult *types.RawProviderResult) *types.Outcome {
	status := types.StatusOK
	reason := ""

	var result *types.MatchResult
	switch {
	case mlResult != nil && llmResult != nil:
		blended := e.blender.Blend(mlResult, llmResult)
		result = &types.MatchResult{
			MatchPercentage: blended.Score,
			MatchedSkills:   blended.MatchedSkills,
			MissingSkills:   blended.MissingSkills,
			Strengths:       blended.Strengths,
			Weaknesses:      blended.Weaknesses,
			Recommendations: blended.Recommendations,
			Explanation:     mlResult.Explanation,
			AnalysisMethod:  types.MethodHybrid,
		}
		logger.Debug("blended ml and llm scores",
			zap.Float64("ml_weight", blended.Weights.ML),
			zap.Float64("llm_weight", blended.Weights.LLM),
			zap.String("weight_reason", blended.Weights.Reason),
		)

	case mlResult != nil:
		result = resultFromML(mlResult)
		if method == types.MethodHybrid {
			status = types.StatusDegraded
			reason = "llm analysis unavailable"
		}

	case llmResult != nil:
		result = resultFromLLM(llmResult)
		if method == types.MethodHybrid {
			status = types.StatusDegraded
			reason = "ml scoring unavailable"
		}

	default:
		logger.Error("no analysis path produced a result, returning fallback")
		return fallbackOutcome(ErrNoAnalysisPossible.Error())
	}

	e.adjustForBias(ctx, logger, resume, job, result, mlResult)

	factors := e.deriveFactors(resume, job, result, mlResult, llmResult)
	quality.Apply(result, factors)

	if status == types.StatusOK && result.ConfidenceLevel == types.ConfidenceLow {
		status = types.StatusDegraded
		reason = "confidence below minimum viable threshold"
	}

	return &types.Outcome{Status: status, Reason: reason, Result: result}
}

// adjustForBias consults the external detector when configured. Detector
// failures are non-critical and swallowed.
func (e *Engine) adjustForBias(ctx context.Context, logger *zap.Logger, resume *types.ResumeProfile, job *types.JobProfile, result *types.MatchResult, mlResult *scoring.MLResult) {
	if e.biasFn == nil {
		return
	}

	var dims types.DimensionScores
	if mlResult != nil {
		dims = mlResult.Dimensions
	}
	detection, err := e.biasFn(ctx, resume, job, result.MatchPercentage, dims)
	if err != nil {
		logger.Warn("bias detection failed, continuing without adjustment", zap.Error(err))
		return
	}
	quality.AdjustForBias(result, detection)
	if result.BiasAdjustment != nil {
		logger.Info("applied bias adjustment",
			zap.Float64("original", result.BiasAdjustment.OriginalScore),
			zap.Float64("adjusted", result.BiasAdjustment.AdjustedScore),
		)
	}
}

func (e *Engine) deriveFactors(resume *types.ResumeProfile, job *types.JobProfile, result *types.MatchResult, mlResult *scoring.MLResult, llmResult *types.RawProviderResult) types.ConfidenceFactors {
	semantic := 50.0
	if mlResult != nil {
		semantic = mlResult.Dimensions.Semantic
	}
	return quality.DeriveFactors(resume, job, result.MatchedSkills, result.MissingSkills, llmResult != nil, semantic)
}

// persist hands the outcome to the storage collaborator. Storage failures
// never affect the caller-visible result.
func (e *Engine) persist(ctx context.Context, logger *zap.Logger, requestID uuid.UUID, outcome *types.Outcome) {
	if e.store == nil {
		return
	}
	record := store.MatchRecord{
		ID:        requestID,
		CreatedAt: e.now(),
		Method:    string(outcome.Result.AnalysisMethod),
		Status:    string(outcome.Status),
		Outcome:   outcome,
	}
	if err := e.store.SaveMatch(ctx, record); err != nil {
		logger.Warn("failed to persist match record", zap.Error(err))
	}
}

// ProviderHealth exposes per-provider circuit state for monitoring.
func (e *Engine) ProviderHealth() map[string]health.Snapshot {
	return e.llm.HealthSnapshots()
}

// CacheStats exposes cache effectiveness for monitoring.
func (e *Engine) CacheStats() cache.Stats {
	return e.cache.Stats()
}

// resultFromML builds a single-source result from the deterministic rubric.
func resultFromML(ml *scoring.MLResult) *types.MatchResult {
	matched := make([]types.SkillMatch, 0, len(ml.Skills))
	missing := make([]string, 0)
	for _, skill := range ml.Skills {
		if skill.Matched {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill.Name)
		}
	}
	return &types.MatchResult{
		MatchPercentage: ml.Score,
		MatchedSkills:   matched,
		MissingSkills:   missing,
		Explanation:     ml.Explanation,
		AnalysisMethod:  types.MethodMLOnly,
	}
}

// resultFromLLM builds a single-source result from a provider analysis.
func resultFromLLM(llm *types.RawProviderResult) *types.MatchResult {
	matched := make([]types.SkillMatch, 0, len(llm.MatchedSkills))
	for _, name := range llm.MatchedSkills {
		matched = append(matched, types.SkillMatch{Name: name, Matched: true, Score: 100})
	}
	return &types.MatchResult{
		MatchPercentage: llm.MatchPercentage,
		MatchedSkills:   matched,
		MissingSkills:   llm.MissingSkills,
		Strengths:       llm.Strengths,
		Weaknesses:      llm.Weaknesses,
		Recommendations: llm.Recommendations,
		AnalysisMethod:  types.MethodLLMOnly,
	}
}

// fallbackOutcome is the terminal FALLBACK state: a fixed, clearly-marked
// low-confidence result instead of an error.
func fallbackOutcome(reason string) *types.Outcome {
	return &types.Outcome{
		Status: types.StatusFallback,
		Reason: reason,
		Result: &types.MatchResult{
			MatchPercentage: fallbackScore,
			MatchedSkills:   []types.SkillMatch{},
			MissingSkills:   []string{},
			Recommendations: []string{quality.LowConfidenceCaution},
			Confidence:      fallbackConfidence,
			ConfidenceLevel: types.ConfidenceLow,
			AnalysisMethod:  types.MethodMLOnly,
			MatchQuality:    types.QualityForScore(fallbackScore),
		},
	}
}

// resumeCacheText flattens a resume profile for cache hashing.
func resumeCacheText(resume *types.ResumeProfile) string {
	if resume.RawText != "" {
		return resume.RawText
	}
	return fmt.Sprintf("%v|%s|%s", resume.Skills, resume.ExperienceText, resume.EducationText)
}

// jobCacheText flattens a job profile for cache hashing.
func jobCacheText(job *types.JobProfile) string {
	if job.RawText != "" {
		return job.RawText
	}
	return fmt.Sprintf("%v|%s", job.RequiredSkills, job.ExperienceLevel)
}

// Ensure Selector satisfies the analyzer surface.
var _ LLMAnalyzer = (*providers.Selector)(nil)
