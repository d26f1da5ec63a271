package sentiment

import (
	"strings"
	"unicode/utf8"
)

// Scorer performs lexicon-based sentiment scoring over one message.
// Read-only after construction; safe for concurrent use.
type Scorer struct {
	positive     []entry
	negative     []entry
	caring       []entry
	dismissive   []entry
	appreciative []entry
	hostile      []entry
	sexual       []string
}

// Overlay maps lexicon name (positive, negative, caring, dismissive,
// appreciative, hostile) to word-weight overrides merged on top of the
// built-in tables.
type Overlay map[string]map[string]int

// NewScorer returns a scorer over the built-in lexicons.
func NewScorer() *Scorer {
	return NewScorerWithOverlay(nil)
}

// NewScorerWithOverlay returns a scorer with per-lexicon weight overrides
// applied. A zero override weight removes the word.
func NewScorerWithOverlay(overlay Overlay) *Scorer {
	merge := func(base map[string]int, name string) []entry {
		if len(overlay[name]) == 0 {
			return sortedEntries(base)
		}
		merged := make(map[string]int, len(base))
		for w, n := range base {
			merged[w] = n
		}
		for w, n := range overlay[name] {
			if n == 0 {
				delete(merged, w)
				continue
			}
			merged[w] = n
		}
		return sortedEntries(merged)
	}
	return &Scorer{
		positive:     merge(positiveWords, "positive"),
		negative:     merge(negativeWords, "negative"),
		caring:       merge(caringWords, "caring"),
		dismissive:   merge(dismissiveWords, "dismissive"),
		appreciative: merge(appreciativeWords, "appreciative"),
		hostile:      merge(hostileWords, "hostile"),
		sexual:       sexualTerms,
	}
}

// Score scores one message. Empty or whitespace-only input returns the
// neutral result. All outputs are clamped before returning.
func (s *Scorer) Score(text string) Result {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Neutral()
	}

	norm := strings.ToLower(trimmed)
	tokens := strings.Fields(norm)

	var keywords []string
	subtotal := func(lex []entry) int {
		total := 0
		for _, e := range lex {
			count := 0
			for _, tok := range tokens {
				if strings.Contains(tok, e.word) {
					count++
				}
			}
			if count > 0 {
				total += e.weight * count
				keywords = append(keywords, e.word)
			}
		}
		return total
	}

	posSub := subtotal(s.positive)
	negSub := subtotal(s.negative)
	carSub := subtotal(s.caring)
	disSub := subtotal(s.dismissive)
	appSub := subtotal(s.appreciative)
	hosSub := subtotal(s.hostile)

	penalty := 0
	termCount := 0
	for _, term := range s.sexual {
		c := strings.Count(norm, term)
		if c > 0 {
			termCount += c
			keywords = append(keywords, term)
		}
	}
	if termCount > 0 {
		// Penalty grows with message length, floored over rune count so
		// multibyte text is not over-penalized.
		lengthPenalty := floorDiv(-utf8.RuneCountInString(trimmed), 50)
		if lengthPenalty > -1 {
			lengthPenalty = -1
		}
		penalty = -3*termCount + lengthPenalty
	}

	rawSum := posSub + negSub + carSub + disSub + appSub + hosSub + penalty

	var tags []Type
	if posSub > 0 {
		tags = append(tags, TypePositive)
	}
	if negSub < 0 {
		tags = append(tags, TypeNegative)
	}
	if carSub > 0 {
		tags = append(tags, TypeCaring)
	}
	if disSub < 0 {
		tags = append(tags, TypeDismissive)
	}
	if appSub > 0 {
		tags = append(tags, TypeAppreciative)
	}
	if hosSub < 0 {
		tags = append(tags, TypeHostile)
	}
	if penalty != 0 {
		tags = append(tags, TypeSexual)
	}
	if len(tags) == 0 {
		tags = append(tags, TypeNeutral)
	}

	score := clamp(float64(rawSum)/10, -1, 1)
	delta := clampInt(rawSum, -10, 10)
	confidence := clamp(0.2*float64(len(keywords)), 0, 1)

	return Result{
		Score:          score,
		Interaction:    resolveInteraction(tags, score),
		AffectionDelta: delta,
		Confidence:     confidence,
		Keywords:       keywords,
		Tags:           tags,
	}
}

// resolveInteraction applies the fixed priority order over tags before
// falling back to score thresholds.
func resolveInteraction(tags []Type, score float64) Interaction {
	has := func(t Type) bool {
		for _, tag := range tags {
			if tag == t {
				return true
			}
		}
		return false
	}
	switch {
	case has(TypeSexual):
		return InteractionSexual
	case has(TypeHostile):
		return InteractionHostile
	case has(TypeAppreciative):
		return InteractionAppreciative
	case has(TypeCaring):
		return InteractionCaring
	case has(TypeDismissive):
		return InteractionDismissive
	case has(TypePositive):
		return InteractionPositive
	case has(TypeNegative):
		return InteractionNegative
	case score > 0.3:
		return InteractionPositive
	case score < -0.3:
		return InteractionNegative
	default:
		return InteractionNeutral
	}
}

// InteractionFromScore maps an adjusted score back to an interaction type
// when a contradiction override invalidated the keyword-level resolution.
func InteractionFromScore(score float64) Interaction {
	switch {
	case score > 0.3:
		return InteractionPositive
	case score < -0.3:
		return InteractionNegative
	default:
		return InteractionNeutral
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

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
