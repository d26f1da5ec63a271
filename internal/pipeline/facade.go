package pipeline

import (
	"affect/internal/history"
	"affect/internal/sentiment"
)

// Analyze is the single stable entry point. It never returns an error and
// never panics: any stage failure degrades through the fallback
// orchestrator and a well-formed result comes back regardless.
func (d *Detector) Analyze(text string, turns []history.Turn) sentiment.Result {
	fb, _ := d.AnalyzeDetailed(text, turns)
	return fb.Result
}

// AnalyzeDetailed exposes the fallback outcome and, when the full pipeline
// ran, the aggregated context result.
func (d *Detector) AnalyzeDetailed(text string, turns []history.Turn) (FallbackResult, *ContextResult) {
	fb, res := d.orchestrator.Run(text, func() (*ContextResult, error) {
		return d.AnalyzeWithContext(text, turns)
	})
	if fb.Level > LevelNone {
		d.logger.Warn("sentiment pipeline degraded",
			"level", fb.Level,
			"strategy", fb.Strategy,
			"error_kind", fb.ErrorKind,
			"error", fb.ErrorMessage)
	}
	return fb, res
}

// FallbackStats returns a snapshot of the orchestrator counters.
func (d *Detector) FallbackStats() Stats {
	return d.orchestrator.Stats()
}

// ResetFallbackStats zeroes the orchestrator counters.
func (d *Detector) ResetFallbackStats() {
	d.orchestrator.Reset()
}
