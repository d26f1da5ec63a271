package affection

import (
	"time"

	"affect/internal/sentiment"
)

// Mood labels derived from the affection level and the incoming signal.
const (
	MoodHappy   = "happy"
	MoodContent = "content"
	MoodNeutral = "neutral"
	MoodSad     = "sad"
	MoodAngry   = "angry"
)

const (
	minMoodTurns      = 2
	positiveThreshold = 2
	negativeThreshold = 2

	// DefaultLevel is the starting affection for a fresh session.
	DefaultLevel = 50
)

// State is the per-session affection record. Level stays within [0,100].
type State struct {
	SessionID string    `json:"session_id"`
	Level     int       `json:"level"`
	Mood      string    `json:"mood"`
	MoodTurns int       `json:"mood_turns"`
	LastLabel string    `json:"last_label"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewState returns a fresh state at the default level.
func NewState(sessionID string) State {
	return State{
		SessionID: sessionID,
		Level:     DefaultLevel,
		Mood:      MoodNeutral,
	}
}

// Tracker folds analyzed sentiment into an affection level and mood. Mood
// only flips after a streak of same-signed signals so a single message
// cannot whipsaw it.
type Tracker struct{}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Update applies one analyzed message to the state and returns the new
// state. The caller persists it.
func (t *Tracker) Update(state State, res sentiment.Result, now time.Time) State {
	state.Level = ClampLevel(state.Level + res.AffectionDelta)

	label := labelFor(res)
	streak := 1
	if state.LastLabel == label {
		streak = state.MoodTurns + 1
	}

	desired := deriveMood(state.Level, label, state.Mood)
	switch label {
	case "positive":
		if desired != state.Mood && streak >= positiveThreshold && streak >= minMoodTurns {
			state.Mood = desired
		}
	case "negative":
		if desired != state.Mood && streak >= negativeThreshold && streak >= minMoodTurns {
			state.Mood = desired
		}
	default:
		// Neutral signals keep the current mood to stabilize.
	}

	state.LastLabel = label
	state.MoodTurns = streak
	state.UpdatedAt = now
	return state
}

func labelFor(res sentiment.Result) string {
	switch res.Interaction {
	case sentiment.InteractionHostile, sentiment.InteractionSexual, sentiment.InteractionDismissive:
		return "negative"
	case sentiment.InteractionCaring, sentiment.InteractionAppreciative:
		return "positive"
	}
	switch {
	case res.Score > 0:
		return "positive"
	case res.Score < 0:
		return "negative"
	default:
		return "neutral"
	}
}

func deriveMood(level int, label, current string) string {
	switch label {
	case "negative":
		if level <= 30 {
			return MoodAngry
		}
		return MoodSad
	case "positive":
		if level >= 70 {
			return MoodHappy
		}
		return MoodContent
	default:
		if current != "" {
			return current
		}
		return MoodNeutral
	}
}

// ClampLevel bounds an affection level to [0,100].
func ClampLevel(level int) int {
	switch {
	case level < 0:
		return 0
	case level > 100:
		return 100
	default:
		return level
	}
}
