package sentiment

import (
	"reflect"
	"strings"
	"testing"
)

func TestScoreEmptyInput(t *testing.T) {
	s := NewScorer()
	for _, text := range []string{"", "   ", "\n\t"} {
		got := s.Score(text)
		if got.Score != 0 || got.AffectionDelta != 0 || got.Confidence != 0 {
			t.Fatalf("empty input %q: got %+v, want zero result", text, got)
		}
		if len(got.Tags) != 1 || got.Tags[0] != TypeNeutral {
			t.Fatalf("empty input %q: tags=%v, want [neutral]", text, got.Tags)
		}
		if got.Interaction != InteractionNeutral {
			t.Fatalf("empty input %q: interaction=%s", text, got.Interaction)
		}
	}
}

func TestScoreClampsBarrageOfNegatives(t *testing.T) {
	s := NewScorer()
	got := s.Score("死ね 消えろ クズ 最悪 大嫌い hate terrible worst")
	if got.AffectionDelta != -10 {
		t.Fatalf("delta=%d, want -10", got.AffectionDelta)
	}
	if got.Score != -1 {
		t.Fatalf("score=%.2f, want -1", got.Score)
	}
	if !got.HasTag(TypeHostile) || !got.HasTag(TypeNegative) {
		t.Fatalf("tags=%v, want hostile and negative", got.Tags)
	}
	if got.Interaction != InteractionHostile {
		t.Fatalf("interaction=%s, want hostile", got.Interaction)
	}
}

func TestScoreIdempotent(t *testing.T) {
	s := NewScorer()
	text := "今日は最高に楽しい一日だった！ thanks"
	first := s.Score(text)
	second := s.Score(text)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ:\n%+v\n%+v", first, second)
	}
}

func TestScorePositiveSimple(t *testing.T) {
	s := NewScorer()
	got := s.Score("happy")
	if got.AffectionDelta != 2 || got.Score != 0.2 {
		t.Fatalf("got delta=%d score=%.2f, want 2/0.2", got.AffectionDelta, got.Score)
	}
	if got.Confidence != 0.2 {
		t.Fatalf("confidence=%.2f, want 0.2", got.Confidence)
	}
	if got.Interaction != InteractionPositive {
		t.Fatalf("interaction=%s, want positive", got.Interaction)
	}
}

func TestScoreAppreciativePriority(t *testing.T) {
	s := NewScorer()
	got := s.Score("ありがとう、大好きだよ")
	if !got.HasTag(TypeAppreciative) || !got.HasTag(TypePositive) {
		t.Fatalf("tags=%v, want appreciative and positive", got.Tags)
	}
	if got.Interaction != InteractionAppreciative {
		t.Fatalf("interaction=%s, want appreciative", got.Interaction)
	}
	if got.AffectionDelta <= 0 {
		t.Fatalf("delta=%d, want positive", got.AffectionDelta)
	}
}

func TestScoreHostileBeatsAppreciative(t *testing.T) {
	s := NewScorer()
	got := s.Score("thanks idiot")
	if got.Interaction != InteractionHostile {
		t.Fatalf("interaction=%s, want hostile", got.Interaction)
	}
}

func TestScoreCaring(t *testing.T) {
	s := NewScorer()
	got := s.Score("無理しないで、ゆっくり休んでね")
	if got.Interaction != InteractionCaring {
		t.Fatalf("interaction=%s, want caring", got.Interaction)
	}
	if got.AffectionDelta <= 0 {
		t.Fatalf("delta=%d, want positive", got.AffectionDelta)
	}
}

func TestScoreSexualPenalty(t *testing.T) {
	s := NewScorer()
	got := s.Score("sexy")
	if !got.HasTag(TypeSexual) {
		t.Fatalf("tags=%v, want sexual", got.Tags)
	}
	if got.Interaction != InteractionSexual {
		t.Fatalf("interaction=%s, want sexual", got.Interaction)
	}
	// -3*1 plus the length penalty floor of -1.
	if got.AffectionDelta != -4 {
		t.Fatalf("delta=%d, want -4", got.AffectionDelta)
	}
}

func TestScoreSexualLengthPenaltyGrows(t *testing.T) {
	s := NewScorer()
	long := "sexy " + strings.Repeat("and then some more words ", 8)
	short := s.Score("sexy")
	longer := s.Score(long)
	if longer.AffectionDelta >= short.AffectionDelta {
		t.Fatalf("long text delta=%d, want below %d", longer.AffectionDelta, short.AffectionDelta)
	}
}

func TestScoreSexualLengthPenaltyFloorsOverRunes(t *testing.T) {
	s := NewScorer()

	// 121 runes: -3 for the term plus floor(-121/50) = -3.
	ascii := "sexy" + strings.Repeat(" zz", 39)
	if got := s.Score(ascii); got.AffectionDelta != -6 {
		t.Fatalf("ascii delta=%d, want -6", got.AffectionDelta)
	}

	// 44 runes but 132 bytes: the penalty counts runes, so the floor of -1
	// applies, not a byte-length -2.
	ja := "えっち" + strings.Repeat("ね", 41)
	if got := s.Score(ja); got.AffectionDelta != -4 {
		t.Fatalf("japanese delta=%d, want -4", got.AffectionDelta)
	}
}

func TestScoreKeywordOrderDeterministic(t *testing.T) {
	s := NewScorer()
	text := "happy good nice fun cool"
	want := s.Score(text).Keywords
	for i := 0; i < 10; i++ {
		if got := s.Score(text).Keywords; !reflect.DeepEqual(got, want) {
			t.Fatalf("keyword order changed: %v vs %v", got, want)
		}
	}
}

func TestScoreOverlayOverridesWeight(t *testing.T) {
	s := NewScorerWithOverlay(Overlay{"positive": {"happy": 8}})
	got := s.Score("happy")
	if got.AffectionDelta != 8 {
		t.Fatalf("delta=%d, want 8 from overlay", got.AffectionDelta)
	}
	removed := NewScorerWithOverlay(Overlay{"positive": {"happy": 0}})
	if got := removed.Score("happy"); got.AffectionDelta != 0 {
		t.Fatalf("delta=%d, want 0 after removal", got.AffectionDelta)
	}
}
