package intensity

import "testing"

func TestDetectMonotonicity(t *testing.T) {
	a := NewAnalyzer()
	plain := a.Detect("I'm happy about this.")
	boosted := a.Detect("I'm very happy about this.")
	extreme := a.Detect("I'm extremely happy about this!!!")

	if !(plain.Score < boosted.Score) {
		t.Fatalf("plain=%.3f boosted=%.3f, want strictly increasing", plain.Score, boosted.Score)
	}
	if !(boosted.Score < extreme.Score) {
		t.Fatalf("boosted=%.3f extreme=%.3f, want strictly increasing", boosted.Score, extreme.Score)
	}
}

func TestDetectEmptyInput(t *testing.T) {
	a := NewAnalyzer()
	got := a.Detect("   ")
	if got.Score != 0 || got.Category != CategoryMild {
		t.Fatalf("got %+v, want zero mild result", got)
	}
}

func TestDetectNoEmotionalContentDefaultsToMild(t *testing.T) {
	a := NewAnalyzer()
	got := a.Detect("the meeting is at three")
	if got.Category != CategoryMild {
		t.Fatalf("category=%s score=%.3f, want mild", got.Category, got.Score)
	}
	if got.Score != 0.3 {
		t.Fatalf("score=%.3f, want default base 0.3", got.Score)
	}
}

func TestDetectQualifierSoftens(t *testing.T) {
	a := NewAnalyzer()
	plain := a.Detect("I'm sad today")
	softened := a.Detect("I'm slightly sad today")
	if !(softened.Score < plain.Score) {
		t.Fatalf("softened=%.3f plain=%.3f, want softened lower", softened.Score, plain.Score)
	}
	if len(softened.Qualifiers) != 1 || softened.Qualifiers[0] != "slightly" {
		t.Fatalf("qualifiers=%v, want [slightly]", softened.Qualifiers)
	}
}

func TestDetectScoreBounded(t *testing.T) {
	a := NewAnalyzer()
	got := a.Detect("EXTREMELY furious!!! REALLY REALLY hate this!!!! 😡😡 absolutely devastated!!!")
	if got.Score < 0 || got.Score > 1 {
		t.Fatalf("score=%.3f out of [0,1]", got.Score)
	}
	if got.Category != CategoryExtreme {
		t.Fatalf("category=%s, want extreme", got.Category)
	}
	if got.Confidence < 0 || got.Confidence > 1 {
		t.Fatalf("confidence=%.3f out of [0,1]", got.Confidence)
	}
}

func TestDetectJapaneseIntensifier(t *testing.T) {
	a := NewAnalyzer()
	plain := a.Detect("嬉しいです")
	boosted := a.Detect("めっちゃ嬉しいです！！")
	if !(plain.Score < boosted.Score) {
		t.Fatalf("plain=%.3f boosted=%.3f, want strictly increasing", plain.Score, boosted.Score)
	}
}

func TestCategoryThresholds(t *testing.T) {
	cases := []struct {
		score float64
		want  Category
	}{
		{0.0, CategoryMild},
		{0.3, CategoryMild},
		{0.31, CategoryModerate},
		{0.6, CategoryModerate},
		{0.61, CategoryStrong},
		{0.85, CategoryStrong},
		{0.86, CategoryExtreme},
		{1.0, CategoryExtreme},
	}
	for _, c := range cases {
		if got := categorize(c.score); got != c.want {
			t.Fatalf("categorize(%.2f)=%s, want %s", c.score, got, c.want)
		}
	}
}
