package pipeline

import "affect/internal/history"

// Smoother damps abrupt sentiment swings between turns so a single message
// cannot whipsaw the affection level when the surrounding context is
// stable.
type Smoother struct {
	threshold float64
	damping   float64
}

// NewSmoother returns the default smoothing policy: damp when the emotion
// category flipped and the score moved by more than 0.5, pulling 60% of the
// way back toward the previous turn.
func NewSmoother() *Smoother {
	return &Smoother{threshold: 0.5, damping: 0.6}
}

// Apply returns the possibly damped score/delta and whether smoothing
// actually fired. A fluctuating conversation pattern disables smoothing:
// swings are already the norm there, not spikes.
func (s *Smoother) Apply(score float64, delta int, last history.Turn, shift history.Shift, pattern *history.Pattern) (float64, int, bool) {
	if !shift.CategoryChanged || shift.Magnitude <= s.threshold {
		return score, delta, false
	}
	if pattern != nil && pattern.Type == history.PatternFluctuating {
		return score, delta, false
	}

	keep := 1 - s.damping
	smoothedScore := last.Score + keep*(score-last.Score)
	smoothedDelta := roundInt(float64(last.Delta) + keep*float64(delta-last.Delta))

	return clamp(smoothedScore, -1, 1), clampInt(smoothedDelta, -10, 10), true
}
