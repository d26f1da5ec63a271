package pipeline

import (
	"fmt"
	"strings"
)

// Explain renders a deterministic pipe-delimited summary of one analysis
// for logs and debugging. Not machine-parsed.
func Explain(res *ContextResult) string {
	if res == nil {
		return "no result"
	}

	sign := "neutral"
	if res.AdjustedScore > 0 {
		sign = "positive"
	} else if res.AdjustedScore < 0 {
		sign = "negative"
	}

	parts := []string{
		fmt.Sprintf("sign=%s", sign),
		fmt.Sprintf("score=%.2f", res.AdjustedScore),
		fmt.Sprintf("delta=%d", res.AdjustedDelta),
		fmt.Sprintf("confidence=%.2f", res.Confidence),
		fmt.Sprintf("interaction=%s", res.Raw.Interaction),
	}

	if len(res.Raw.Keywords) > 0 {
		parts = append(parts, "keywords="+strings.Join(res.Raw.Keywords, ","))
	}
	if res.Context.DominantEmotion != "" {
		parts = append(parts, "emotion="+res.Context.DominantEmotion)
	}
	if len(res.Contradictions) > 0 {
		kinds := make([]string, len(res.Contradictions))
		for i, c := range res.Contradictions {
			kinds[i] = c.Kind
		}
		parts = append(parts, "contradictions="+strings.Join(kinds, ","))
	}
	if res.Intensity.Category != "" {
		parts = append(parts, fmt.Sprintf("intensity=%s(%.2f)", res.Intensity.Category, res.Intensity.Score))
	}
	if res.Mixed.IsMixed {
		parts = append(parts, fmt.Sprintf("mixed=%s(ambivalence=%.2f)", res.Mixed.Category, res.Mixed.Ambivalence))
	}
	if res.SmoothingApplied {
		parts = append(parts, "smoothed=true")
	}

	return strings.Join(parts, " | ")
}
