package mixed

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Ratio is the positive/negative/neutral mass split, summing to 1 when any
// emotion fired.
type Ratio struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
}

// Result is the mixed-emotion analysis for one message.
type Result struct {
	Emotions    map[string]float64 `json:"emotions"`
	Dominant    string             `json:"dominant_emotion,omitempty"`
	Secondary   string             `json:"secondary_emotion,omitempty"`
	Confidence  float64            `json:"emotion_confidence"`
	Category    Category           `json:"category"`
	IsMixed     bool               `json:"is_mixed"`
	Ratio       Ratio              `json:"emotion_ratio"`
	Conflicting bool               `json:"conflicting_emotions"`
	Complexity  float64            `json:"complexity"`
	Ambivalence float64            `json:"ambivalence"`
	Patterns    []string           `json:"patterns,omitempty"`
	Modifiers   []Modifier         `json:"modifiers,omitempty"`
}

type mixedPattern struct {
	name string
	re   *regexp.Regexp
}

// Resolver scores text against the emotion phrase lexicon and detects
// multi-emotion and contradiction structure. Read-only after construction.
type Resolver struct {
	patterns []mixedPattern
}

func NewResolver() *Resolver {
	return &Resolver{
		patterns: []mixedPattern{
			{name: "contrast_pos_neg", re: regexp.MustCompile(
				`(?i)(happy|glad|joy|love|excited|嬉しい|楽しい|好き).*?(but|however|yet|though|でも|だけど|けど|しかし).*?(sad|unhappy|sorry|worried|scared|angry|悲しい|寂しい|不安|つらい)`)},
			{name: "contrast_neg_pos", re: regexp.MustCompile(
				`(?i)(sad|unhappy|worried|scared|angry|悲しい|寂しい|不安|つらい).*?(but|however|yet|though|でも|だけど|けど|しかし).*?(happy|glad|relieved|better|嬉しい|楽しい|良かった|ほっとした)`)},
			{name: "explicit_mixed", re: regexp.MustCompile(
				`(?i)mixed feelings|bittersweet|love[- ]hate|laughing and crying|複雑な気持ち|嬉しいような悲しいような|泣き笑い`)},
		},
	}
}

// Resolve analyzes text. When precomputed is non-nil it replaces the lexicon
// scan (each value clamped to [0,1]) and the negation scan is skipped; the
// modifier pass and all derived metrics still run.
func (r *Resolver) Resolve(text string, precomputed map[string]float64) Result {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" && precomputed == nil {
		return neutralResult()
	}
	norm := strings.ToLower(trimmed)

	raw := make(map[string]float64, len(emotionLexicon))
	if precomputed != nil {
		for _, def := range emotionLexicon {
			raw[def.name] = clamp(precomputed[def.name], 0, 1)
		}
	} else {
		for _, def := range emotionLexicon {
			raw[def.name] = scoreEmotion(norm, def)
		}
		applyNegation(norm, raw)
	}

	modifiers := DetectModifiers(norm)
	// The targeted negation scan already injected opposite-valence mass on
	// the lexicon path; only the precomputed path needs it here.
	weighted := applyModifierWeights(raw, modifiers, precomputed != nil)
	normalized, total := normalize(weighted)

	ratio := categoryRatio(normalized)
	patterns := r.matchPatterns(trimmed)

	significant := countOver(normalized, 0.2)
	isMixed := len(patterns) > 0 || significant >= 2 || distinctPairPresent(normalized)

	conflicting := (ratio.Positive > 0.3 && ratio.Negative > 0.3) || conflictingPairPresent(normalized)

	complexity := complexityOf(countOver(normalized, 0.1))
	ambivalence := 0.0
	if ratio.Positive > 0 && ratio.Negative > 0 {
		smaller := math.Min(ratio.Positive, ratio.Negative)
		ambivalence = clamp(2*smaller/(ratio.Positive+ratio.Negative), 0, 1)
	}

	dominant, secondary := rankEmotions(raw, normalized)
	confidence := deriveConfidence(normalized, dominant, secondary, significant)

	category := CategoryNeutral
	switch {
	case total == 0:
		category = CategoryNeutral
	case conflicting && ratio.Positive > 0.3 && ratio.Negative > 0.3:
		category = CategoryAmbivalent
	case ratio.Positive > ratio.Negative && ratio.Positive > ratio.Neutral:
		category = CategoryPositive
	case ratio.Negative > ratio.Positive && ratio.Negative > ratio.Neutral:
		category = CategoryNegative
	}

	return Result{
		Emotions:    normalized,
		Dominant:    dominant,
		Secondary:   secondary,
		Confidence:  confidence,
		Category:    category,
		IsMixed:     isMixed,
		Ratio:       ratio,
		Conflicting: conflicting,
		Complexity:  complexity,
		Ambivalence: ambivalence,
		Patterns:    patterns,
		Modifiers:   modifiers,
	}
}

func neutralResult() Result {
	emotions := map[string]float64{"neutral": 1}
	return Result{
		Emotions:   emotions,
		Dominant:   "neutral",
		Confidence: 0.3,
		Category:   CategoryNeutral,
		Ratio:      Ratio{Neutral: 1},
	}
}

// scoreEmotion sums per-phrase contributions: 0.3 per occurrence, 1.2x when
// the phrase anchors the start or end of the text, and a length factor in
// [1.0,1.5]. Capped at 1 per emotion.
func scoreEmotion(norm string, def emotionDef) float64 {
	total := 0.0
	for _, phrase := range def.phrases {
		count := strings.Count(norm, phrase)
		if count == 0 {
			continue
		}
		s := 0.3 * float64(count)
		if strings.HasPrefix(norm, phrase) || strings.HasSuffix(norm, phrase) {
			s *= 1.2
		}
		length := float64(utf8.RuneCountInString(phrase))
		s *= 1.0 + math.Min(0.5, length/20)
		total += s
	}
	return clamp(total, 0, 1)
}

var englishNegators = []string{"not ", "never ", "don't ", "can't ", "no "}

// applyNegation halves a negated emotion's score and injects 0.3 into the
// opposite-valence default emotion (sadness for negated positive, joy for
// negated negative). English negators precede the phrase; Japanese negation
// inflects the phrase itself (嬉しい -> 嬉しくない).
func applyNegation(norm string, raw map[string]float64) {
	for _, def := range emotionLexicon {
		negated := false
		for _, phrase := range def.phrases {
			if idx := strings.Index(norm, phrase); idx >= 0 {
				lo := idx - 12
				if lo < 0 {
					lo = 0
				}
				window := norm[lo:idx]
				for _, neg := range englishNegators {
					if strings.Contains(window, neg) {
						negated = true
					}
				}
			}
			if strings.HasSuffix(phrase, "い") {
				stem := strings.TrimSuffix(phrase, "い")
				if strings.Contains(norm, stem+"くない") {
					if raw[def.name] == 0 {
						raw[def.name] = 0.3
					}
					negated = true
				}
			}
		}
		if !negated || raw[def.name] == 0 {
			continue
		}
		raw[def.name] *= 0.5
		switch def.category {
		case CategoryPositive:
			raw["sadness"] = clamp(raw["sadness"]+0.3, 0, 1)
		case CategoryNegative:
			raw["joy"] = clamp(raw["joy"]+0.3, 0, 1)
		}
	}
}

// DetectModifiers scans lowercased text for contextual modifier words and
// returns the tagged sequence in deterministic order.
func DetectModifiers(norm string) []Modifier {
	var out []Modifier
	for _, group := range modifierWords {
		words := append([]string(nil), group.words...)
		sort.Strings(words)
		for _, w := range words {
			if strings.Contains(norm, w) {
				out = append(out, Modifier{Kind: group.kind, Word: strings.TrimSpace(w)})
			}
		}
	}
	return out
}

// applyModifierWeights scales every firing emotion by the weight of each
// detected modifier kind (one application per kind), then the caller
// renormalizes. Because the scale is uniform across emotions, it cancels
// under renormalization; only the negator injection changes the ratios,
// and on the lexicon path (injectOnNegate false) the pass is a no-op since
// scoreEmotion/applyNegation already handled negation there.
func applyModifierWeights(raw map[string]float64, modifiers []Modifier, injectOnNegate bool) map[string]float64 {
	out := make(map[string]float64, len(raw))
	for k, v := range raw {
		out[k] = v
	}
	seen := map[ModifierKind]bool{}
	for _, m := range modifiers {
		if seen[m.Kind] {
			continue
		}
		seen[m.Kind] = true
		w := modifierWeights[m.Kind]
		for k := range out {
			out[k] *= w
		}
		if m.Kind == ModNegator && injectOnNegate {
			lead, _ := rankEmotions(raw, raw)
			switch emotionCategory(lead) {
			case CategoryPositive:
				out["sadness"] = clamp(out["sadness"]+0.3, 0, 1)
			case CategoryNegative:
				out["joy"] = clamp(out["joy"]+0.3, 0, 1)
			}
		}
	}
	return out
}

func normalize(scores map[string]float64) (map[string]float64, float64) {
	total := 0.0
	for _, v := range scores {
		total += v
	}
	out := make(map[string]float64, len(scores))
	if total == 0 {
		return out, 0
	}
	for k, v := range scores {
		if v > 0 {
			out[k] = v / total
		}
	}
	return out, total
}

func categoryRatio(normalized map[string]float64) Ratio {
	var r Ratio
	for _, def := range emotionLexicon {
		v := normalized[def.name]
		switch def.category {
		case CategoryPositive:
			r.Positive += v
		case CategoryNegative:
			r.Negative += v
		default:
			r.Neutral += v
		}
	}
	return r
}

func (r *Resolver) matchPatterns(text string) []string {
	var out []string
	for _, p := range r.patterns {
		if p.re.MatchString(text) {
			out = append(out, p.name)
		}
	}
	return out
}

func countOver(scores map[string]float64, threshold float64) int {
	n := 0
	for _, v := range scores {
		if v > threshold {
			n++
		}
	}
	return n
}

// Pairs that mark a message as mixed even when both members share a valence
// category.
var distinctPairs = [][2]string{
	{"anger", "fear"},
	{"sadness", "anger"},
	{"surprise", "confusion"},
}

func distinctPairPresent(normalized map[string]float64) bool {
	for _, p := range distinctPairs {
		if normalized[p[0]] > 0.15 && normalized[p[1]] > 0.15 {
			return true
		}
	}
	return false
}

var conflictingPairs = [][2]string{
	{"joy", "sadness"},
	{"trust", "disgust"},
	{"love", "anger"},
	{"anticipation", "fear"},
}

func conflictingPairPresent(normalized map[string]float64) bool {
	for _, p := range conflictingPairs {
		if normalized[p[0]] > 0.2 && normalized[p[1]] > 0.2 {
			return true
		}
	}
	return false
}

// complexityOf is a step function over the count of emotions scoring above
// the significance floor.
func complexityOf(count int) float64 {
	switch {
	case count <= 1:
		return 0
	case count == 2:
		return 0.35
	case count == 3:
		return 0.6
	case count == 4:
		return 0.8
	default:
		return 1
	}
}

// rankEmotions orders by the mean of raw and normalized score, breaking ties
// alphabetically for determinism.
func rankEmotions(raw, normalized map[string]float64) (string, string) {
	type ranked struct {
		name  string
		score float64
	}
	var all []ranked
	for _, def := range emotionLexicon {
		s := (raw[def.name] + normalized[def.name]) / 2
		if s > 0 {
			all = append(all, ranked{name: def.name, score: s})
		}
	}
	if len(all) == 0 {
		return "", ""
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].score != all[j].score {
			return all[i].score > all[j].score
		}
		return all[i].name < all[j].name
	})
	if len(all) == 1 {
		return all[0].name, ""
	}
	return all[0].name, all[1].name
}

func deriveConfidence(normalized map[string]float64, dominant, secondary string, significant int) float64 {
	if dominant == "" {
		return 0.3
	}
	conf := clamp(0.4+0.6*normalized[dominant], 0, 1)
	if secondary != "" && normalized[dominant] > 0 && normalized[secondary] >= 0.8*normalized[dominant] {
		conf *= 0.75
	}
	if significant > 2 {
		conf *= 0.85
	}
	if secondary != "" && emotionCategory(dominant) != emotionCategory(secondary) {
		conf *= 0.9
	}
	return clamp(conf, 0, 1)
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
