package pipeline

import (
	"errors"
	"testing"

	"affect/internal/sentiment"
)

type panicScorer struct{}

func (panicScorer) Score(string) sentiment.Result { panic("lexicon corrupted") }

func TestRunFullPipeline(t *testing.T) {
	o := NewOrchestrator(nil)

	fb, res := o.Run("happy", func() (*ContextResult, error) {
		return &ContextResult{
			Raw:           sentiment.Result{Score: 0.2, AffectionDelta: 2, Confidence: 0.2, Interaction: sentiment.InteractionPositive},
			AdjustedScore: 0.2,
			AdjustedDelta: 2,
			Confidence:    0.2,
		}, nil
	})
	if !fb.Success || fb.Level != LevelNone {
		t.Fatalf("expected level 0 success, got %+v", fb)
	}
	if res == nil {
		t.Fatal("full pipeline should return the context result")
	}
	if fb.Result.Score != 0.2 || fb.Result.AffectionDelta != 2 {
		t.Fatalf("result should carry adjusted values, got %+v", fb.Result)
	}
}

func TestRunPartialReconstruction(t *testing.T) {
	o := NewOrchestrator(nil)

	partial := &ContextResult{
		Raw: sentiment.Result{Score: 0.4, AffectionDelta: 4, Confidence: 0.6, Interaction: sentiment.InteractionPositive},
	}
	fb, _ := o.Run("happy", func() (*ContextResult, error) {
		return partial, &StageError{Kind: ErrorKindContext, Err: errors.New("vader unavailable")}
	})
	if !fb.Success || fb.Level != LevelPartialReconstruction {
		t.Fatalf("expected level 1, got %+v", fb)
	}
	if fb.Result.Score != 0.4 {
		t.Fatalf("level 1 should keep raw score, got %v", fb.Result.Score)
	}
	if fb.Result.Confidence != 0.3 {
		t.Fatalf("level 1 should halve confidence, got %v", fb.Result.Confidence)
	}
	if fb.ErrorKind != string(ErrorKindContext) {
		t.Fatalf("expected context_analysis error kind, got %q", fb.ErrorKind)
	}
}

func TestRunKeywordOnly(t *testing.T) {
	o := NewOrchestrator(nil)

	fb, _ := o.Run("ありがとう、助かったよ", func() (*ContextResult, error) {
		return nil, errors.New("stage blew up")
	})
	if !fb.Success || fb.Level != LevelKeywordOnly {
		t.Fatalf("expected level 2, got %+v", fb)
	}
	if fb.Result.Score <= 0 {
		t.Fatalf("keyword-only rescoring should still read gratitude, got %+v", fb.Result)
	}
}

func TestRunPanicInsideAttempt(t *testing.T) {
	o := NewOrchestrator(nil)

	fb, _ := o.Run("hello", func() (*ContextResult, error) {
		panic("boom")
	})
	if fb.Level != LevelKeywordOnly {
		t.Fatalf("panic should degrade to keyword-only, got level %d", fb.Level)
	}
	if fb.ErrorKind != string(ErrorKindInternal) {
		t.Fatalf("panic should report internal error kind, got %q", fb.ErrorKind)
	}
}

func TestRunNeutralDefault(t *testing.T) {
	o := NewOrchestrator(panicScorer{})

	fb, _ := o.Run("anything", func() (*ContextResult, error) {
		return nil, errors.New("stage blew up")
	})
	if fb.Success {
		t.Fatal("neutral default is not a success")
	}
	if fb.Level != LevelNeutralDefault {
		t.Fatalf("expected level 3, got %d", fb.Level)
	}
	if fb.Result.Score != 0 || fb.Result.AffectionDelta != 0 {
		t.Fatalf("neutral default must be zeroed, got %+v", fb.Result)
	}
	if fb.Result.Confidence != 0.1 {
		t.Fatalf("neutral default confidence should be 0.1, got %v", fb.Result.Confidence)
	}
	if fb.Result.Interaction != sentiment.InteractionNeutral {
		t.Fatalf("neutral default interaction, got %v", fb.Result.Interaction)
	}
}

func TestStatsTrackLevels(t *testing.T) {
	o := NewOrchestrator(nil)

	o.Run("ok", func() (*ContextResult, error) {
		return &ContextResult{Raw: sentiment.Neutral()}, nil
	})
	o.Run("ok", func() (*ContextResult, error) {
		return nil, errors.New("fail")
	})
	o.Run("ok", func() (*ContextResult, error) {
		return &ContextResult{Raw: sentiment.Neutral()},
			&StageError{Kind: ErrorKindContext, Err: errors.New("fail")}
	})

	stats := o.Stats()
	if stats.TotalAttempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", stats.TotalAttempts)
	}
	if stats.SuccessfulAttempts != 3 {
		t.Fatalf("levels 0-2 all count as successful, got %d", stats.SuccessfulAttempts)
	}
	if stats.SuccessRate != 1 {
		t.Fatalf("success rate should be 1, got %v", stats.SuccessRate)
	}
	if stats.PerLevel[LevelNone] != 1 || stats.PerLevel[LevelKeywordOnly] != 1 || stats.PerLevel[LevelPartialReconstruction] != 1 {
		t.Fatalf("per-level counters wrong: %v", stats.PerLevel)
	}
	if stats.PerErrorKind[string(ErrorKindContext)] != 1 || stats.PerErrorKind[string(ErrorKindInternal)] != 1 {
		t.Fatalf("per-error counters wrong: %v", stats.PerErrorKind)
	}

	o.Reset()
	stats = o.Stats()
	if stats.TotalAttempts != 0 || len(stats.PerLevel) != 0 {
		t.Fatalf("reset should clear counters, got %+v", stats)
	}
}

func TestFallbackGuaranteeAlwaysValid(t *testing.T) {
	d := NewDetector(nil, fixedContext{err: errors.New("always down")}, testLogger())

	inputs := []string{"", "happy", "死ね", "Oh great.", "x"}
	for _, in := range inputs {
		fb, _ := d.AnalyzeDetailed(in, nil)
		if fb.Level != LevelPartialReconstruction {
			t.Fatalf("context failure with partial should land on level 1, got %d for %q", fb.Level, in)
		}
		r := fb.Result
		if r.Score < -1 || r.Score > 1 || r.AffectionDelta < -10 || r.AffectionDelta > 10 {
			t.Fatalf("degraded result out of bounds for %q: %+v", in, r)
		}
		if r.Confidence < 0 || r.Confidence > 1 {
			t.Fatalf("degraded confidence out of bounds for %q: %v", in, r.Confidence)
		}
	}
}
