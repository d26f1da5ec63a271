package history

import (
	"errors"
	"testing"
)

func turnsFromScores(scores ...float64) []Turn {
	out := make([]Turn, len(scores))
	for i, s := range scores {
		out[i] = Turn{Score: s}
	}
	return out
}

func TestAnalyzeRequiresTwoTurns(t *testing.T) {
	a := NewAnalyzer()
	if _, err := a.Analyze([]Turn{{Score: 0.5}}); !errors.Is(err, ErrInsufficientHistory) {
		t.Fatalf("err=%v, want ErrInsufficientHistory", err)
	}
}

func TestAnalyzeConsistentPattern(t *testing.T) {
	a := NewAnalyzer()
	got, err := a.Analyze(turnsFromScores(0.4, 0.45, 0.5, 0.42, 0.48))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Type != PatternConsistent {
		t.Fatalf("type=%s, want consistent", got.Type)
	}
	if got.Stability < 0.8 {
		t.Fatalf("stability=%.2f, want high", got.Stability)
	}
}

func TestAnalyzeEscalatingPattern(t *testing.T) {
	a := NewAnalyzer()
	got, err := a.Analyze(turnsFromScores(-0.8, -0.3, 0.2, 0.7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Type != PatternEscalating {
		t.Fatalf("type=%s, want escalating", got.Type)
	}
}

func TestAnalyzeDeescalatingPattern(t *testing.T) {
	a := NewAnalyzer()
	got, err := a.Analyze(turnsFromScores(0.8, 0.3, -0.2, -0.7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Type != PatternDeescalating {
		t.Fatalf("type=%s, want de-escalating", got.Type)
	}
}

func TestAnalyzeFluctuatingPattern(t *testing.T) {
	a := NewAnalyzer()
	got, err := a.Analyze(turnsFromScores(0.8, -0.7, 0.75, -0.8, 0.7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Type != PatternFluctuating {
		t.Fatalf("type=%s, want fluctuating", got.Type)
	}
}

func TestAnalyzeIntensityTrend(t *testing.T) {
	a := NewAnalyzer()
	turns := []Turn{
		{Score: 0.6, Intensity: 0.2},
		{Score: 0.7, Intensity: 0.5},
		{Score: 0.6, Intensity: 0.9},
	}
	got, err := a.Analyze(turns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.IntensityTrend != "rising" {
		t.Fatalf("trend=%s, want rising", got.IntensityTrend)
	}
}

func TestAnalyzeDominantEmotions(t *testing.T) {
	a := NewAnalyzer()
	turns := []Turn{
		{Score: 0.2, Emotion: "joy"},
		{Score: 0.3, Emotion: "joy"},
		{Score: -0.1, Emotion: "sadness"},
	}
	got, err := a.Analyze(turns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.DominantEmotions) == 0 || got.DominantEmotions[0] != "joy" {
		t.Fatalf("dominant=%v, want joy first", got.DominantEmotions)
	}
}

func TestTopicContinuity(t *testing.T) {
	a := NewAnalyzer()
	turns := []Turn{
		{Score: 0.2, Keywords: []string{"work", "tired"}},
		{Score: 0.1, Keywords: []string{"work", "boss"}},
	}
	got, err := a.Analyze(turns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// One shared keyword of three distinct.
	if got.TopicContinuity < 0.3 || got.TopicContinuity > 0.34 {
		t.Fatalf("continuity=%.3f, want ~1/3", got.TopicContinuity)
	}
}

func TestDetectShift(t *testing.T) {
	a := NewAnalyzer()
	shift := a.DetectShift(-0.6, turnsFromScores(0.1, 0.5))
	if shift.Direction != "negative" {
		t.Fatalf("direction=%s, want negative", shift.Direction)
	}
	if shift.Magnitude < 1.09 || shift.Magnitude > 1.11 {
		t.Fatalf("magnitude=%.2f, want 1.1", shift.Magnitude)
	}
	if !shift.CategoryChanged {
		t.Fatalf("category_changed=false, want true")
	}
}

func TestDetectShiftNoHistory(t *testing.T) {
	a := NewAnalyzer()
	shift := a.DetectShift(0.5, nil)
	if shift.Direction != "none" || shift.Magnitude != 0 || shift.CategoryChanged {
		t.Fatalf("got %+v, want empty shift", shift)
	}
}
