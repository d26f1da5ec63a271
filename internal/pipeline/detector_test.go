package pipeline

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"affect/internal/contextual"
	"affect/internal/history"
	"affect/internal/mixed"
)

type fixedContext struct {
	analysis contextual.Analysis
	err      error
}

func (f fixedContext) Analyze(string) (contextual.Analysis, error) {
	return f.analysis, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNegatedPositiveFlipsScore(t *testing.T) {
	d := NewDetector(nil, nil, testLogger())

	res, err := d.AnalyzeWithContext("This is not good at all.", nil)
	if err != nil {
		t.Fatalf("AnalyzeWithContext: %v", err)
	}
	if res.Raw.Score <= 0 {
		t.Fatalf("keyword stage should see 'good' as positive, got %v", res.Raw.Score)
	}
	found := false
	for _, c := range res.Contradictions {
		if c.Kind == KindNegatedPositive {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected negated_positive contradiction, got %v", res.Contradictions)
	}
	if res.AdjustedScore >= 0 {
		t.Fatalf("negated positive should end up negative, got %v", res.AdjustedScore)
	}
}

func TestSarcasmOverridesPositiveKeyword(t *testing.T) {
	d := NewDetector(nil, nil, testLogger())

	res, err := d.AnalyzeWithContext("Oh great, another error message. Just what I needed.", nil)
	if err != nil {
		t.Fatalf("AnalyzeWithContext: %v", err)
	}
	hasGreat := false
	for _, k := range res.Raw.Keywords {
		if k == "great" {
			hasGreat = true
		}
	}
	if !hasGreat {
		t.Fatalf("keyword stage should pick up 'great', got %v", res.Raw.Keywords)
	}
	if len(res.Contradictions) == 0 {
		t.Fatal("expected a sarcasm contradiction")
	}
	if res.AdjustedScore >= 0 {
		t.Fatalf("sarcastic praise should score negative, got %v", res.AdjustedScore)
	}
}

func TestEmptyInputStaysNeutral(t *testing.T) {
	d := NewDetector(nil, nil, testLogger())

	got := d.Analyze("", nil)
	if got.Score != 0 || got.AffectionDelta != 0 {
		t.Fatalf("empty input should stay neutral, got score=%v delta=%d", got.Score, got.AffectionDelta)
	}
}

func TestBoundsHoldUnderExtremeInput(t *testing.T) {
	d := NewDetector(nil, nil, testLogger())

	inputs := []string{
		"最高!!! I'm SO HAPPY!!! 大好き!!! love love love extremely happy!!!",
		"I HATE this!!! 死ね 消えろ クズ 最悪 大嫌い terrible awful worst!!!",
		strings.Repeat("嬉しい楽しい大好き", 40),
		strings.Repeat("x", 500),
	}
	for _, in := range inputs {
		res, err := d.AnalyzeWithContext(in, nil)
		if err != nil {
			t.Fatalf("AnalyzeWithContext(%q): %v", in[:20], err)
		}
		if res.AdjustedScore < -1 || res.AdjustedScore > 1 {
			t.Fatalf("score out of range for %q: %v", in[:20], res.AdjustedScore)
		}
		if res.AdjustedDelta < -10 || res.AdjustedDelta > 10 {
			t.Fatalf("delta out of range for %q: %d", in[:20], res.AdjustedDelta)
		}
		if res.Confidence < 0 || res.Confidence > 1 {
			t.Fatalf("confidence out of range for %q: %v", in[:20], res.Confidence)
		}
	}
}

func TestConfidentContextBlendsIn(t *testing.T) {
	ctx := fixedContext{analysis: contextual.Analysis{
		DominantEmotion:   "joy",
		EmotionCategory:   mixed.CategoryPositive,
		EmotionConfidence: 0.9,
		Compound:          0.7,
	}}
	d := NewDetector(nil, ctx, testLogger())

	res, err := d.AnalyzeWithContext("that was nice", nil)
	if err != nil {
		t.Fatalf("AnalyzeWithContext: %v", err)
	}
	if len(res.Contradictions) != 0 {
		t.Fatalf("no contradiction expected, got %v", res.Contradictions)
	}
	if res.AdjustedScore <= res.Raw.Score {
		t.Fatalf("confident positive context should pull score up: raw=%v adjusted=%v",
			res.Raw.Score, res.AdjustedScore)
	}
}

func TestPositiveKeywordsNegativeContext(t *testing.T) {
	ctx := fixedContext{analysis: contextual.Analysis{
		DominantEmotion:   "anger",
		EmotionCategory:   mixed.CategoryNegative,
		EmotionConfidence: 0.8,
		Compound:          -0.6,
	}}
	d := NewDetector(nil, ctx, testLogger())

	res, err := d.AnalyzeWithContext("素晴らしい 最高 perfect amazing", nil)
	if err != nil {
		t.Fatalf("AnalyzeWithContext: %v", err)
	}
	found := false
	for _, c := range res.Contradictions {
		if c.Kind == KindPositiveKeywordsNeg {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected positive_keywords_negative_context, got %v", res.Contradictions)
	}
	if res.AdjustedScore >= 0 || res.AdjustedDelta > -1 {
		t.Fatalf("negative context should override keywords, got score=%v delta=%d",
			res.AdjustedScore, res.AdjustedDelta)
	}
}

func TestContextFailureReturnsPartial(t *testing.T) {
	ctx := fixedContext{err: io.ErrUnexpectedEOF}
	d := NewDetector(nil, ctx, testLogger())

	partial, err := d.AnalyzeWithContext("happy", nil)
	if err == nil {
		t.Fatal("expected stage error")
	}
	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Kind != ErrorKindContext {
		t.Fatalf("expected context_analysis stage error, got %v", err)
	}
	if partial == nil || partial.Raw.Score <= 0 {
		t.Fatalf("partial result should carry raw sentiment, got %+v", partial)
	}
}

func TestSmoothingDampsSuddenFlip(t *testing.T) {
	ctx := fixedContext{analysis: contextual.Analysis{
		DominantEmotion:   "anger",
		EmotionCategory:   mixed.CategoryNegative,
		EmotionConfidence: 0.6,
		Compound:          -0.6,
	}}
	d := NewDetector(nil, ctx, testLogger())

	turns := []history.Turn{
		{Score: 0.5, Delta: 5, Emotion: "joy", Intensity: 0.5, Keywords: []string{"happy"}},
		{Score: 0.52, Delta: 5, Emotion: "joy", Intensity: 0.5, Keywords: []string{"happy"}},
		{Score: 0.55, Delta: 5, Emotion: "joy", Intensity: 0.5, Keywords: []string{"happy"}},
	}
	res, err := d.AnalyzeWithContext("大嫌い 最悪 消えろ", turns)
	if err != nil {
		t.Fatalf("AnalyzeWithContext: %v", err)
	}
	if !res.SmoothingApplied {
		t.Fatal("category flip against a consistent history should be smoothed")
	}
	if res.Shift == nil || !res.Shift.CategoryChanged {
		t.Fatalf("expected category-changed shift, got %+v", res.Shift)
	}
	if res.AdjustedScore < -0.4 {
		t.Fatalf("smoothing should damp the swing, got %v", res.AdjustedScore)
	}
}

func TestHistoryPatternAttached(t *testing.T) {
	d := NewDetector(nil, nil, testLogger())

	turns := []history.Turn{
		{Score: 0.1, Delta: 1},
		{Score: 0.3, Delta: 3},
		{Score: 0.5, Delta: 5},
		{Score: 0.7, Delta: 7},
	}
	res, err := d.AnalyzeWithContext("thanks, that helps", turns)
	if err != nil {
		t.Fatalf("AnalyzeWithContext: %v", err)
	}
	if res.Pattern == nil {
		t.Fatal("expected a conversation pattern with enough history")
	}
	if res.Pattern.Type != history.PatternEscalating {
		t.Fatalf("steadily rising scores should read escalating, got %v", res.Pattern.Type)
	}
}

func TestExplainCoversStages(t *testing.T) {
	d := NewDetector(nil, nil, testLogger())

	res, err := d.AnalyzeWithContext("This is not good at all.", nil)
	if err != nil {
		t.Fatalf("AnalyzeWithContext: %v", err)
	}
	line := Explain(res)
	for _, want := range []string{"score=", "delta=", "confidence=", KindNegatedPositive} {
		if !strings.Contains(line, want) {
			t.Fatalf("explain line missing %q: %s", want, line)
		}
	}
}
