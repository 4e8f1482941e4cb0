package score

import "github.com/you/signal-scout/internal/core"

// Thresholds are the tier cut-offs applied to a total score.
type Thresholds struct {
	High   int
	Medium int
}

// DefaultThresholds returns the shipped cut-offs.
func DefaultThresholds() Thresholds {
	return Thresholds{High: 70, Medium: 50}
}

// PriorityFor buckets a total score into a tier. The mapping is monotone in
// total under the ordering low < medium < high.
func PriorityFor(total int, t Thresholds) core.Priority {
	switch {
	case total >= t.High:
		return core.PriorityHigh
	case total >= t.Medium:
		return core.PriorityMedium
	default:
		return core.PriorityLow
	}
}
