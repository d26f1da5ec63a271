package history

import (
	"errors"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Turn is one prior message's sentiment, as recorded by the caller.
type Turn struct {
	Score       float64  `json:"score"`
	Delta       int      `json:"delta"`
	Emotion     string   `json:"emotion,omitempty"`
	Interaction string   `json:"interaction,omitempty"`
	Intensity   float64  `json:"intensity"`
	Keywords    []string `json:"keywords,omitempty"`
}

// PatternType classifies the conversation's sentiment trajectory.
type PatternType string

const (
	PatternConsistent   PatternType = "consistent"
	PatternEscalating   PatternType = "escalating"
	PatternDeescalating PatternType = "de-escalating"
	PatternFluctuating  PatternType = "fluctuating"
)

// Pattern summarizes the supplied history.
type Pattern struct {
	Type             PatternType `json:"type"`
	Stability        float64     `json:"stability"`
	IntensityTrend   string      `json:"intensity_trend"`
	TopicContinuity  float64     `json:"topic_continuity"`
	DominantEmotions []string    `json:"dominant_emotions,omitempty"`
}

// Shift is the sentiment movement between the newest turn and the current
// message.
type Shift struct {
	Magnitude       float64 `json:"magnitude"`
	Direction       string  `json:"direction"`
	CategoryChanged bool    `json:"category_changed"`
}

// ErrInsufficientHistory is returned when fewer than two turns are supplied.
var ErrInsufficientHistory = errors.New("history: need at least two turns")

// Analyzer classifies conversation patterns. Stateless.
type Analyzer struct{}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

const (
	stabilityStdDev = 0.15
	trendSlope      = 0.1
	intensitySlope  = 0.05
)

// Analyze classifies the trajectory of the supplied turns, oldest first.
func (a *Analyzer) Analyze(turns []Turn) (Pattern, error) {
	if len(turns) < 2 {
		return Pattern{}, ErrInsufficientHistory
	}

	scores := make([]float64, len(turns))
	intensities := make([]float64, len(turns))
	xs := make([]float64, len(turns))
	for i, t := range turns {
		scores[i] = t.Score
		intensities[i] = t.Intensity
		xs[i] = float64(i)
	}

	sd := stat.StdDev(scores, nil)
	_, beta := stat.LinearRegression(xs, scores, nil, false)

	var patternType PatternType
	switch {
	case sd < stabilityStdDev:
		patternType = PatternConsistent
	case beta > trendSlope:
		patternType = PatternEscalating
	case beta < -trendSlope:
		patternType = PatternDeescalating
	default:
		patternType = PatternFluctuating
	}

	_, intensityBeta := stat.LinearRegression(xs, intensities, nil, false)
	trend := "flat"
	if intensityBeta > intensitySlope {
		trend = "rising"
	} else if intensityBeta < -intensitySlope {
		trend = "falling"
	}

	return Pattern{
		Type:             patternType,
		Stability:        clamp(1-sd, 0, 1),
		IntensityTrend:   trend,
		TopicContinuity:  topicContinuity(turns),
		DominantEmotions: dominantEmotions(turns),
	}, nil
}

// DetectShift compares the current score against the most recent turn.
func (a *Analyzer) DetectShift(current float64, turns []Turn) Shift {
	if len(turns) == 0 {
		return Shift{Direction: "none"}
	}
	last := turns[len(turns)-1]
	magnitude := current - last.Score
	if magnitude < 0 {
		magnitude = -magnitude
	}

	direction := "none"
	if current > last.Score+1e-9 {
		direction = "positive"
	} else if current < last.Score-1e-9 {
		direction = "negative"
	}

	return Shift{
		Magnitude:       magnitude,
		Direction:       direction,
		CategoryChanged: scoreBucket(current) != scoreBucket(last.Score),
	}
}

func scoreBucket(score float64) int {
	switch {
	case score > 0.1:
		return 1
	case score < -0.1:
		return -1
	default:
		return 0
	}
}

// topicContinuity is the mean Jaccard overlap of consecutive keyword sets.
func topicContinuity(turns []Turn) float64 {
	pairs := 0
	total := 0.0
	for i := 1; i < len(turns); i++ {
		prev, curr := turns[i-1].Keywords, turns[i].Keywords
		if len(prev) == 0 && len(curr) == 0 {
			continue
		}
		pairs++
		total += jaccard(prev, curr)
	}
	if pairs == 0 {
		return 0
	}
	return total / float64(pairs)
}

func jaccard(a, b []string) float64 {
	set := make(map[string]bool, len(a))
	for _, w := range a {
		set[w] = true
	}
	inter := 0
	union := len(set)
	seen := make(map[string]bool, len(b))
	for _, w := range b {
		if seen[w] {
			continue
		}
		seen[w] = true
		if set[w] {
			inter++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func dominantEmotions(turns []Turn) []string {
	counts := map[string]int{}
	for _, t := range turns {
		if t.Emotion != "" {
			counts[t.Emotion]++
		}
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > 3 {
		names = names[:3]
	}
	return names
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
