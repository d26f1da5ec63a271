package intensity

import (
	"regexp"
	"sort"
	"strings"
)

// Category buckets the intensity score.
type Category string

const (
	CategoryMild     Category = "mild"
	CategoryModerate Category = "moderate"
	CategoryStrong   Category = "strong"
	CategoryExtreme  Category = "extreme"
)

// Result is the per-message intensity estimate. Stateless, derived solely
// from text.
type Result struct {
	Score        float64  `json:"intensity_score"`
	Category     Category `json:"category"`
	Intensifiers []string `json:"intensifiers,omitempty"`
	Qualifiers   []string `json:"qualifiers,omitempty"`
	Confidence   float64  `json:"confidence"`
}

// Word-level multipliers. Intensifiers amplify (1.3-1.8), qualifiers
// soften (0.4-0.8).
var intensifierWords = map[string]float64{
	"とても":        1.5,
	"すごく":        1.6,
	"めっちゃ":       1.7,
	"超":          1.6,
	"本当に":        1.5,
	"マジで":        1.6,
	"絶対":         1.6,
	"very":       1.4,
	"really":     1.5,
	"extremely":  1.8,
	"incredibly": 1.8,
	"totally":    1.5,
	"absolutely": 1.7,
	"completely": 1.6,
	"utterly":    1.7,
}

var qualifierWords = map[string]float64{
	"ちょっと":     0.6,
	"少し":       0.6,
	"たぶん":      0.7,
	"多分":       0.7,
	"なんとなく":    0.7,
	"somewhat": 0.7,
	"slightly": 0.5,
	"barely":   0.4,
	"kinda":    0.6,
	"maybe":    0.7,
	"perhaps":  0.7,
	"mildly":   0.5,
}

// Emotion-indicator words with inherent intensity. The base signal is a
// 70/30 weighted average of the strongest match and the mean of all matches.
var indicatorWords = map[string]float64{
	"ecstatic":   0.95,
	"furious":    0.9,
	"devastated": 0.9,
	"thrilled":   0.85,
	"terrified":  0.85,
	"amazing":    0.8,
	"terrible":   0.75,
	"awful":      0.75,
	"excited":    0.7,
	"hate":       0.7,
	"love":       0.65,
	"angry":      0.65,
	"scared":     0.6,
	"happy":      0.55,
	"sad":        0.55,
	"annoyed":    0.5,
	"worried":    0.5,
	"tired":      0.4,
	"fine":       0.3,
	"okay":       0.25,
	"最高":         0.8,
	"最悪":         0.8,
	"大好き":        0.75,
	"大嫌い":        0.75,
	"嬉しい":        0.55,
	"悲しい":        0.55,
	"怖い":         0.6,
	"楽しい":        0.55,
	"疲れた":        0.4,
}

const (
	defaultBase        = 0.3
	intensifierCap     = 2.5
	qualifierFloor     = 0.3
	patternBoostCap    = 0.5
	patternBoostWeight = 0.7
)

// Stylistic patterns run over the original, case-preserving text.
type stylePattern struct {
	name  string
	re    *regexp.Regexp
	boost float64
}

// Analyzer detects emotional intensity markers. Read-only after
// construction; safe for concurrent use.
type Analyzer struct {
	patterns []stylePattern
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{
		patterns: []stylePattern{
			{name: "repeated_punctuation", re: regexp.MustCompile(`[!?！？]{2,}`), boost: 0.15},
			{name: "caps_run", re: regexp.MustCompile(`[A-Z]{3,}`), boost: 0.15},
			{name: "emphasis_markup", re: regexp.MustCompile(`[*_]{1,2}[^*_\s][^*_]*[*_]{1,2}`), boost: 0.1},
			{name: "elongation", re: regexp.MustCompile(`[ー〜~]{2,}`), boost: 0.1},
			{name: "emoji_strong", re: regexp.MustCompile(`[\x{1F600}-\x{1F64F}\x{1F680}-\x{1F6FF}\x{2764}\x{1F493}-\x{1F49F}]`), boost: 0.12},
		},
	}
}

// Detect estimates the emotional intensity of text.
func (a *Analyzer) Detect(text string) Result {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Result{Score: 0, Category: CategoryMild, Confidence: 0.5}
	}

	norm := strings.ToLower(trimmed)
	tokens := strings.Fields(norm)

	intensifiers, intMult := matchMultipliers(tokens, intensifierWords)
	if intMult > intensifierCap {
		intMult = intensifierCap
	}
	qualifiers, qualMult := matchMultipliers(tokens, qualifierWords)
	if qualMult < qualifierFloor {
		qualMult = qualifierFloor
	}

	base := baseEmotionalContent(tokens)
	boost := a.patternBoost(trimmed, tokens)

	score := clamp(base*intMult*qualMult+patternBoostWeight*boost, 0, 1)

	confidence := 0.5
	if base > 0.6 {
		confidence += 0.1
	}
	modifierCount := len(intensifiers) + len(qualifiers)
	if modifierCount > 2 {
		modifierCount = 2
	}
	confidence += 0.1 * float64(modifierCount)
	if boost > 0 {
		confidence += 0.2 * clamp(boost/patternBoostCap, 0, 1)
	}

	return Result{
		Score:        score,
		Category:     categorize(score),
		Intensifiers: intensifiers,
		Qualifiers:   qualifiers,
		Confidence:   clamp(confidence, 0, 1),
	}
}

func matchMultipliers(tokens []string, table map[string]float64) ([]string, float64) {
	words := make([]string, 0, len(table))
	for w := range table {
		words = append(words, w)
	}
	sort.Strings(words)

	var matched []string
	mult := 1.0
	for _, w := range words {
		for _, tok := range tokens {
			if strings.Contains(tok, w) {
				matched = append(matched, w)
				mult *= table[w]
				break
			}
		}
	}
	return matched, mult
}

func baseEmotionalContent(tokens []string) float64 {
	words := make([]string, 0, len(indicatorWords))
	for w := range indicatorWords {
		words = append(words, w)
	}
	sort.Strings(words)

	var matches []float64
	for _, w := range words {
		for _, tok := range tokens {
			if strings.Contains(tok, w) {
				matches = append(matches, indicatorWords[w])
				break
			}
		}
	}
	if len(matches) == 0 {
		return defaultBase
	}

	highest := matches[0]
	sum := 0.0
	for _, v := range matches {
		if v > highest {
			highest = v
		}
		sum += v
	}
	mean := sum / float64(len(matches))
	return 0.7*highest + 0.3*mean
}

// patternBoost sums stylistic boosts with diminishing returns per pattern,
// capped overall.
func (a *Analyzer) patternBoost(original string, tokens []string) float64 {
	total := 0.0
	for _, p := range a.patterns {
		count := len(p.re.FindAllString(original, -1))
		if count == 0 {
			continue
		}
		if count > 3 {
			count = 3
		}
		total += p.boost * float64(count) / 3
	}

	// Word repetition cannot be a single RE2 pattern (no backreferences);
	// scan consecutive tokens instead.
	repeats := 0
	for i := 1; i < len(tokens); i++ {
		if tokens[i] == tokens[i-1] && len(tokens[i]) > 1 {
			repeats++
		}
	}
	if repeats > 0 {
		if repeats > 3 {
			repeats = 3
		}
		total += 0.1 * float64(repeats) / 3
	}

	return clamp(total, 0, patternBoostCap)
}

func categorize(score float64) Category {
	switch {
	case score <= 0.3:
		return CategoryMild
	case score <= 0.6:
		return CategoryModerate
	case score <= 0.85:
		return CategoryStrong
	default:
		return CategoryExtreme
	}
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
