package sentiment

// Type is a sentiment tag assigned per lexicon. Tags are not mutually
// exclusive; a single message can carry several.
type Type string

const (
	TypePositive     Type = "positive"
	TypeNegative     Type = "negative"
	TypeNeutral      Type = "neutral"
	TypeCaring       Type = "caring"
	TypeDismissive   Type = "dismissive"
	TypeAppreciative Type = "appreciative"
	TypeHostile      Type = "hostile"
	TypeSexual       Type = "sexual"
)

// Interaction classifies the overall message for the affection tracker.
type Interaction string

const (
	InteractionPositive     Interaction = "positive"
	InteractionNegative     Interaction = "negative"
	InteractionNeutral      Interaction = "neutral"
	InteractionCaring       Interaction = "caring"
	InteractionDismissive   Interaction = "dismissive"
	InteractionAppreciative Interaction = "appreciative"
	InteractionHostile      Interaction = "hostile"
	InteractionSexual       Interaction = "sexual"
)

// Interactions lists every interaction label, for surfaces that expose
// the taxonomy.
func Interactions() []Interaction {
	return []Interaction{
		InteractionPositive,
		InteractionNegative,
		InteractionNeutral,
		InteractionCaring,
		InteractionDismissive,
		InteractionAppreciative,
		InteractionHostile,
		InteractionSexual,
	}
}

// Result is the scorer output for one message. Immutable once produced.
type Result struct {
	Score          float64     `json:"score"`
	Interaction    Interaction `json:"interaction"`
	AffectionDelta int         `json:"affection_delta"`
	Confidence     float64     `json:"confidence"`
	Keywords       []string    `json:"keywords,omitempty"`
	Tags           []Type      `json:"tags"`
}

// HasTag reports whether t is among the result tags.
func (r Result) HasTag(t Type) bool {
	for _, tag := range r.Tags {
		if tag == t {
			return true
		}
	}
	return false
}

// Neutral returns the zero/neutral result used for empty input and as the
// terminal fallback default.
func Neutral() Result {
	return Result{
		Score:          0,
		Interaction:    InteractionNeutral,
		AffectionDelta: 0,
		Confidence:     0,
		Tags:           []Type{TypeNeutral},
	}
}
