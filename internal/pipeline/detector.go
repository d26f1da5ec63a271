package pipeline

import (
	"fmt"
	"log/slog"
	"math"
	"regexp"

	"affect/internal/contextual"
	"affect/internal/history"
	"affect/internal/intensity"
	"affect/internal/mixed"
	"affect/internal/sentiment"
)

// ContextAnalyzer is the injected contextual-emotion collaborator.
type ContextAnalyzer interface {
	Analyze(text string) (contextual.Analysis, error)
}

// Contradiction kinds, ordered by resolution priority.
const (
	KindNegatedPositive     = "negated_positive"
	KindNegatedNegative     = "negated_negative"
	KindSarcasticPositive   = "sarcastic_positive"
	KindLikelySarcasticPos  = "likely_sarcastic_positive"
	KindLikelySarcasticNeg  = "likely_sarcastic_negative"
	KindConditional         = "conditional_sentiment"
	KindPositiveKeywordsNeg = "positive_keywords_negative_context"
	KindNegativeKeywordsPos = "negative_keywords_positive_context"
)

// Contradiction is one detected keyword/context disagreement.
type Contradiction struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail,omitempty"`
}

// ContextResult aggregates every stage's output for one message. Built
// fresh per call, never persisted here.
type ContextResult struct {
	Raw              sentiment.Result    `json:"raw"`
	Context          contextual.Analysis `json:"context"`
	Pattern          *history.Pattern    `json:"pattern,omitempty"`
	Shift            *history.Shift      `json:"shift,omitempty"`
	AdjustedScore    float64             `json:"adjusted_score"`
	AdjustedDelta    int                 `json:"adjusted_delta"`
	Confidence       float64             `json:"confidence"`
	Contradictions   []Contradiction     `json:"contradictions,omitempty"`
	Intensity        intensity.Result    `json:"intensity"`
	Mixed            mixed.Result        `json:"mixed"`
	SmoothingApplied bool                `json:"smoothing_applied"`
}

// ErrorKind tags a stage failure for the fallback orchestrator.
type ErrorKind string

const (
	ErrorKindContext  ErrorKind = "context_analysis"
	ErrorKindKeyword  ErrorKind = "keyword_scoring"
	ErrorKindInternal ErrorKind = "internal"
)

// StageError wraps a stage failure with its kind so the orchestrator can
// switch on it instead of string-matching.
type StageError struct {
	Kind ErrorKind
	Err  error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Detector runs the full contextual pipeline. Read-only after construction
// apart from the embedded orchestrator counters.
type Detector struct {
	scorer       *sentiment.Scorer
	intensity    *intensity.Analyzer
	mixed        *mixed.Resolver
	context      ContextAnalyzer
	history      *history.Analyzer
	smoother     *Smoother
	orchestrator *Orchestrator
	logger       *slog.Logger

	negatedPositive []*regexp.Regexp
	negatedNegative []*regexp.Regexp
	sarcastic       []*regexp.Regexp
	conditional     []*regexp.Regexp
}

// NewDetector wires the pipeline. A nil scorer, context analyzer, or logger
// falls back to the package defaults.
func NewDetector(scorer *sentiment.Scorer, context ContextAnalyzer, logger *slog.Logger) *Detector {
	if scorer == nil {
		scorer = sentiment.NewScorer()
	}
	if context == nil {
		context = contextual.NewAnalyzer()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{
		scorer:       scorer,
		intensity:    intensity.NewAnalyzer(),
		mixed:        mixed.NewResolver(),
		context:      context,
		history:      history.NewAnalyzer(),
		smoother:     NewSmoother(),
		orchestrator: NewOrchestrator(scorer),
		logger:       logger,
		negatedPositive: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:not|never|hardly|no longer)\b[\s\w']{0,20}\b(?:good|great|happy|nice|fine|fun|love|like|excited)`),
			regexp.MustCompile(`(?:良く|よく|嬉しく|楽しく)ない`),
			regexp.MustCompile(`好き(?:じゃ|では)ない`),
		},
		negatedNegative: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:not|never|no longer)\b[\s\w']{0,20}\b(?:bad|terrible|sad|awful|angry|mad|upset|worried)`),
			regexp.MustCompile(`(?:悪く|怖く|悲しく)ない`),
			regexp.MustCompile(`嫌い(?:じゃ|では)ない`),
		},
		sarcastic: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:oh|yeah|sure)\b[,!]?\s*(?:great|wonderful|perfect|fantastic|awesome)\b`),
			regexp.MustCompile(`(?i)just what i (?:needed|wanted)`),
			regexp.MustCompile(`(?i)yeah,? right\b`),
		},
		conditional: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:if|unless)\b.{0,40}\b(?:good|great|nice|happy|better|fine)\b`),
			regexp.MustCompile(`(?i)\bwould be (?:good|great|nice|better)\b`),
			regexp.MustCompile(`もし.{0,20}(?:なら|たら)`),
			regexp.MustCompile(`(?:だっ)?たらいいのに`),
		},
	}
}

// AnalyzeWithContext reconciles keyword sentiment against the contextual
// signal, then applies intensity scaling, mixed-emotion blending, and
// history smoothing. On stage failure the partial result (raw sentiment
// populated) is returned alongside the error for level-1 reconstruction.
func (d *Detector) AnalyzeWithContext(text string, turns []history.Turn) (*ContextResult, error) {
	raw := d.scorer.Score(text)
	partial := &ContextResult{
		Raw:           raw,
		AdjustedScore: raw.Score,
		AdjustedDelta: raw.AffectionDelta,
		Confidence:    raw.Confidence,
	}

	ctx, err := d.context.Analyze(text)
	if err != nil {
		return partial, &StageError{Kind: ErrorKindContext, Err: err}
	}

	res := &ContextResult{
		Raw:       raw,
		Context:   ctx,
		Intensity: d.intensity.Detect(text),
		Mixed:     d.mixed.Resolve(text, nil),
	}

	res.Contradictions = d.detectContradictions(text, raw, ctx)

	score := raw.Score
	delta := raw.AffectionDelta
	confidence := 0.5*raw.Confidence + 0.5*ctx.EmotionConfidence

	score, delta, confidence = d.resolveContradictions(res, score, delta, confidence)

	// Intensity-word modifiers from the contextual analysis.
	mult := 1.0
	for _, m := range ctx.Modifiers {
		switch m.Kind {
		case mixed.ModIntensifier:
			mult *= 1.3
		case mixed.ModDiminisher:
			mult *= 0.7
		}
	}
	mult = clamp(mult, 0.4, 1.7)
	score = clamp(score*mult, -1, 1)
	delta = clampInt(roundInt(float64(delta)*mult), -10, 10)

	score, delta = applyIntensityScaling(res.Intensity, score, delta)
	score, delta = blendMixedEmotions(res.Mixed, score, delta, len(res.Contradictions) > 0)

	if len(turns) > 0 {
		if pattern, herr := d.history.Analyze(turns); herr == nil {
			res.Pattern = &pattern
		}
		shift := d.history.DetectShift(score, turns)
		res.Shift = &shift
		score, delta, res.SmoothingApplied = d.smoother.Apply(score, delta, turns[len(turns)-1], shift, res.Pattern)
	}

	res.AdjustedScore = clamp(score, -1, 1)
	res.AdjustedDelta = clampInt(delta, -10, 10)
	res.Confidence = clamp(confidence, 0, 1)
	return res, nil
}

func (d *Detector) detectContradictions(text string, raw sentiment.Result, ctx contextual.Analysis) []Contradiction {
	var out []Contradiction
	add := func(kind, detail string) {
		out = append(out, Contradiction{Kind: kind, Detail: detail})
	}

	if raw.Score > 0 && matchAny(d.negatedPositive, text) {
		add(KindNegatedPositive, "negator precedes positive keyword")
	}
	if raw.Score < 0 && matchAny(d.negatedNegative, text) {
		add(KindNegatedNegative, "negator precedes negative keyword")
	}
	if raw.Score > 0 && matchAny(d.sarcastic, text) {
		add(KindSarcasticPositive, "sarcasm cue around positive keyword")
	}
	if ctx.SarcasmProbability > 0.6 || ctx.IronyProbability > 0.6 {
		if raw.Score > 0 {
			add(KindLikelySarcasticPos, "high sarcasm probability")
		} else if raw.Score < 0 {
			add(KindLikelySarcasticNeg, "high sarcasm probability")
		}
	}
	if matchAny(d.conditional, text) {
		add(KindConditional, "sentiment under a conditional")
	}
	if raw.Score > 0.2 && ctx.EmotionCategory == mixed.CategoryNegative && ctx.EmotionConfidence > 0.6 {
		add(KindPositiveKeywordsNeg, "contextual emotion "+ctx.DominantEmotion)
	}
	if raw.Score < -0.2 && ctx.EmotionCategory == mixed.CategoryPositive && ctx.EmotionConfidence > 0.6 {
		add(KindNegativeKeywordsPos, "contextual emotion "+ctx.DominantEmotion)
	}
	return out
}

// resolveContradictions applies the first matching branch in priority
// order. With no contradiction, a confident contextual signal is blended
// 60/40 with the keyword score.
func (d *Detector) resolveContradictions(res *ContextResult, score float64, delta int, confidence float64) (float64, int, float64) {
	has := func(kind string) bool {
		for _, c := range res.Contradictions {
			if c.Kind == kind {
				return true
			}
		}
		return false
	}
	ctx := res.Context

	switch {
	case has(KindNegatedPositive):
		score = -score * 0.7
		delta = -floorDiv(delta, 2)
	case has(KindNegatedNegative):
		score = -score * 0.5
		delta = -floorDiv(delta, 3)
	case has(KindSarcasticPositive) || has(KindLikelySarcasticPos):
		score = -score * 0.8
		delta = -delta
		confidence *= 0.7
	case has(KindLikelySarcasticNeg):
		score *= 0.5
		delta = floorDiv(delta, 2)
		confidence *= 0.7
	case has(KindConditional):
		score *= 0.3
		delta = floorDiv(delta, 3)
		confidence *= 0.5
	case has(KindPositiveKeywordsNeg):
		extra := 0.0
		if ctx.DominantEmotion == res.Mixed.Dominant {
			extra = 0.3
		}
		score = -0.3 - extra
		delta = minInt(-1, floorDiv(delta, 2))
	case has(KindNegativeKeywordsPos):
		extra := 0.0
		if ctx.DominantEmotion == res.Mixed.Dominant {
			extra = 0.3
		}
		score = 0.3 + extra
		delta = maxInt(1, -floorDiv(delta, 2))
	case ctx.EmotionConfidence > 0.7:
		contextualSentiment := 0.0
		switch ctx.EmotionCategory {
		case mixed.CategoryPositive:
			contextualSentiment = 0.5 + 0.5*ctx.EmotionConfidence
		case mixed.CategoryNegative:
			contextualSentiment = -(0.5 + 0.5*ctx.EmotionConfidence)
		}
		score = 0.6*score + 0.4*contextualSentiment
		delta = roundInt(0.6*float64(delta) + 0.4*contextualSentiment*10)
	}

	return clamp(score, -1, 1), clampInt(delta, -10, 10), confidence
}

var intensityFactors = map[intensity.Category]float64{
	intensity.CategoryMild:     0.7,
	intensity.CategoryModerate: 1.0,
	intensity.CategoryStrong:   1.5,
	intensity.CategoryExtreme:  2.0,
}

// applyIntensityScaling scales the working score/delta by the intensity
// category factor, weighted toward 1.0 by the intensity confidence. Extreme
// intensity bumps a nonzero delta one further step.
func applyIntensityScaling(res intensity.Result, score float64, delta int) (float64, int) {
	factor := intensityFactors[res.Category]
	if factor == 0 {
		factor = 1
	}
	effective := 1 + (factor-1)*(0.5+0.5*res.Confidence)
	score = clamp(score*effective, -1, 1)
	delta = roundInt(float64(delta) * effective)
	if res.Category == intensity.CategoryExtreme && delta != 0 {
		if delta > 0 {
			delta++
		} else {
			delta--
		}
	}
	return score, clampInt(delta, -10, 10)
}

// blendMixedEmotions folds the mixed-emotion recommendation into the
// working score. Ambivalence blends toward the mixed impact, complexity
// discounts, and a confident dominant emotion pulls the sign into
// agreement. The sign pull is skipped after a contradiction override:
// the mixed stage reads the same surface keywords the override just
// discounted.
func blendMixedEmotions(res mixed.Result, score float64, delta int, contradicted bool) (float64, int) {
	switch {
	case res.Category == mixed.CategoryAmbivalent:
		impact := mixed.AffectionImpact(res)
		w := clamp(0.3+0.4*res.Ambivalence, 0.3, 0.7)
		score = (1-w)*score + w*impact.Score
		delta = roundInt((1-w)*float64(delta) + w*float64(impact.Delta))
	case res.Complexity > 0.5:
		discount := 1 - 0.3*res.Complexity
		score *= discount
		delta = roundInt(float64(delta) * discount)
	case res.Confidence > 0.7 && res.Dominant != "" && !contradicted:
		sign := 0.0
		switch res.Category {
		case mixed.CategoryPositive:
			sign = 1
		case mixed.CategoryNegative:
			sign = -1
		}
		if sign != 0 && score*sign < 0 {
			score = -score * 0.5
			delta = -floorDiv(delta, 2)
		}
		if res.Secondary != "" && res.Emotions[res.Secondary] > 0.2 {
			score *= 0.8
			delta = roundInt(float64(delta) * 0.8)
		}
	}
	return clamp(score, -1, 1), clampInt(delta, -10, 10)
}

func matchAny(patterns []*regexp.Regexp, text string) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// floorDiv matches floor division semantics for negative operands.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func roundInt(x float64) int {
	return int(math.Round(x))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
