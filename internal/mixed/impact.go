package mixed

import "math"

// Impact is the recommended affection adjustment derived from a mixed
// emotion result.
type Impact struct {
	Score      float64 `json:"score"`
	Delta      int     `json:"delta"`
	Confidence float64 `json:"confidence"`
}

// AffectionImpact maps a mixed-emotion result to a bounded affection
// recommendation. The category base is successively discounted by
// complexity, ambivalence, and low confidence.
func AffectionImpact(res Result) Impact {
	var baseScore float64
	var baseDelta float64
	switch res.Category {
	case CategoryPositive:
		baseScore, baseDelta = 0.5, 3
	case CategoryNegative:
		baseScore, baseDelta = -0.5, -3
	case CategoryAmbivalent:
		switch {
		case res.Ratio.Positive > res.Ratio.Negative:
			baseScore, baseDelta = 0.2, 1
		case res.Ratio.Negative > res.Ratio.Positive:
			baseScore, baseDelta = -0.2, -1
		}
	}

	discount := (1 - 0.3*res.Complexity) * (1 - 0.4*res.Ambivalence)
	if res.Confidence < 0.7 {
		discount *= res.Confidence
	}

	score := clamp(baseScore*discount, -1, 1)
	delta := int(math.Round(baseDelta * discount))
	if delta < -10 {
		delta = -10
	}
	if delta > 10 {
		delta = 10
	}

	confidence := res.Confidence
	lowConfidenceAmbivalent := res.Category == CategoryAmbivalent && res.Confidence < 0.5
	if !lowConfidenceAmbivalent && confidence < 0.75 {
		confidence = 0.75
	}

	return Impact{Score: score, Delta: delta, Confidence: confidence}
}
