package progress

import "math"

const (
	// ViewThresholdSeconds is how long a single play segment must last for the watch to count as a view.
	ViewThresholdSeconds = 50
	// CompletionThresholdPercent is the watched percentage at which a video is automatically complete.
	CompletionThresholdPercent = 95
)

// Decision is the outcome of the threshold policy for one sample.
// CountsAsView and IsAutoComplete are independent of each other.
type Decision struct {
	CountsAsView   bool `json:"counts_as_view"`
	IsAutoComplete bool `json:"is_auto_complete"`
}

// Evaluate applies the threshold policy to a sample.
func Evaluate(watchedPercentage, elapsedSeconds float64) Decision {
	return Decision{
		CountsAsView:   nonNegative(elapsedSeconds) >= ViewThresholdSeconds,
		IsAutoComplete: ClampPercentage(watchedPercentage) >= CompletionThresholdPercent,
	}
}

// IsAutoComplete reports whether watchedPercentage reaches the completion threshold.
func IsAutoComplete(watchedPercentage float64) bool {
	return Evaluate(watchedPercentage, 0).IsAutoComplete
}

// ClampPercentage bounds p to [0, 100]. NaN and negative values become 0.
func ClampPercentage(p float64) float64 {
	p = nonNegative(p)
	if p > 100 {
		return 100
	}
	return p
}

// Percentage returns round(currentTime/duration*100) clamped to [0, 100].
// ok is false when the duration is unknown (NaN, infinite or not positive); the percentage is then 0 and
// must not drive any decision.
func Percentage(currentTime, duration float64) (pct float64, ok bool) {
	if math.IsNaN(duration) || math.IsInf(duration, 0) || duration <= 0 {
		return 0, false
	}
	return ClampPercentage(math.Round(nonNegative(currentTime) / duration * 100)), true
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
