package pipeline

import (
	"errors"
	"fmt"
	"sync"

	"affect/internal/sentiment"
)

// Fallback levels.
const (
	LevelNone                  = 0
	LevelPartialReconstruction = 1
	LevelKeywordOnly           = 2
	LevelNeutralDefault        = 3
)

// FallbackResult always carries a well-formed sentiment result, even when
// every strategy failed.
type FallbackResult struct {
	Success      bool             `json:"success"`
	Result       sentiment.Result `json:"result"`
	Level        int              `json:"fallback_level"`
	ErrorKind    string           `json:"error_kind,omitempty"`
	ErrorMessage string           `json:"error_message,omitempty"`
	Strategy     string           `json:"strategy"`
}

// Stats is a snapshot of the orchestrator counters.
type Stats struct {
	TotalAttempts      int            `json:"total_attempts"`
	SuccessfulAttempts int            `json:"successful_attempts"`
	SuccessRate        float64        `json:"success_rate"`
	PerLevel           map[int]int    `json:"per_level"`
	PerErrorKind       map[string]int `json:"per_error_kind"`
}

// Rescorer is the narrow capability the keyword-only fallback needs.
type Rescorer interface {
	Score(text string) sentiment.Result
}

// Orchestrator degrades progressively on pipeline failure: partial-result
// reconstruction, then keyword-only re-scoring, then a fixed neutral
// default. Counter access is serialized; everything else is per-call.
type Orchestrator struct {
	scorer Rescorer

	mu         sync.Mutex
	total      int
	successful int
	perLevel   map[int]int
	perError   map[string]int
}

func NewOrchestrator(scorer Rescorer) *Orchestrator {
	if scorer == nil {
		scorer = sentiment.NewScorer()
	}
	return &Orchestrator{
		scorer:   scorer,
		perLevel: make(map[int]int),
		perError: make(map[string]int),
	}
}

// Run executes attempt and degrades on failure. The attempt may return a
// partial ContextResult alongside its error; its raw sentiment then feeds
// level-1 reconstruction with discounted confidence.
func (o *Orchestrator) Run(text string, attempt func() (*ContextResult, error)) (FallbackResult, *ContextResult) {
	partial, err := safeAttempt(attempt)

	if err == nil && partial != nil {
		o.record(LevelNone, "")
		return FallbackResult{
			Success:  true,
			Result:   finalResult(partial),
			Level:    LevelNone,
			Strategy: "full_pipeline",
		}, partial
	}
	if err == nil {
		err = errors.New("pipeline returned no result")
	}

	kind := string(ErrorKindInternal)
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		kind = string(stageErr.Kind)
	}

	if partial != nil {
		result := partial.Raw
		result.Confidence = clamp(result.Confidence*0.5, 0, 1)
		o.record(LevelPartialReconstruction, kind)
		return FallbackResult{
			Success:      true,
			Result:       result,
			Level:        LevelPartialReconstruction,
			ErrorKind:    kind,
			ErrorMessage: err.Error(),
			Strategy:     "partial_reconstruction",
		}, partial
	}

	if result, scoreErr := safeScore(o.scorer, text); scoreErr == nil {
		o.record(LevelKeywordOnly, kind)
		return FallbackResult{
			Success:      true,
			Result:       result,
			Level:        LevelKeywordOnly,
			ErrorKind:    kind,
			ErrorMessage: err.Error(),
			Strategy:     "keyword_only",
		}, nil
	}

	neutral := sentiment.Neutral()
	neutral.Confidence = 0.1
	o.record(LevelNeutralDefault, kind)
	return FallbackResult{
		Success:      false,
		Result:       neutral,
		Level:        LevelNeutralDefault,
		ErrorKind:    kind,
		ErrorMessage: err.Error(),
		Strategy:     "neutral_default",
	}, nil
}

// finalResult builds the outward sentiment result from the fully adjusted
// pipeline output. Sexual and hostile classifications survive contradiction
// overrides; everything else is re-derived from the adjusted score when a
// contradiction flipped it.
func finalResult(res *ContextResult) sentiment.Result {
	out := res.Raw
	out.Score = res.AdjustedScore
	out.AffectionDelta = res.AdjustedDelta
	out.Confidence = res.Confidence
	if len(res.Contradictions) > 0 &&
		out.Interaction != sentiment.InteractionSexual &&
		out.Interaction != sentiment.InteractionHostile {
		out.Interaction = sentiment.InteractionFromScore(res.AdjustedScore)
	}
	return out
}

func safeAttempt(attempt func() (*ContextResult, error)) (res *ContextResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = &StageError{Kind: ErrorKindInternal, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return attempt()
}

func safeScore(scorer Rescorer, text string) (res sentiment.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &StageError{Kind: ErrorKindKeyword, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return scorer.Score(text), nil
}

func (o *Orchestrator) record(level int, errorKind string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.total++
	if level < LevelNeutralDefault {
		o.successful++
	}
	o.perLevel[level]++
	if errorKind != "" {
		o.perError[errorKind]++
	}
}

// Stats returns a copy of the counters.
func (o *Orchestrator) Stats() Stats {
	o.mu.Lock()
	defer o.mu.Unlock()
	perLevel := make(map[int]int, len(o.perLevel))
	for k, v := range o.perLevel {
		perLevel[k] = v
	}
	perError := make(map[string]int, len(o.perError))
	for k, v := range o.perError {
		perError[k] = v
	}
	rate := 0.0
	if o.total > 0 {
		rate = float64(o.successful) / float64(o.total)
	}
	return Stats{
		TotalAttempts:      o.total,
		SuccessfulAttempts: o.successful,
		SuccessRate:        rate,
		PerLevel:           perLevel,
		PerErrorKind:       perError,
	}
}

// Reset zeroes all counters.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.total = 0
	o.successful = 0
	o.perLevel = make(map[int]int)
	o.perError = make(map[string]int)
}
