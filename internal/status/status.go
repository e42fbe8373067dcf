// Package status derives a display health category from ECS service task counts.
package status

import "fmt"

// Status is an icon/label pair describing how a service's running tasks
// relate to its desired count.
type Status struct {
	Icon  string
	Label string
}

var (
	Healthy    = Status{Icon: "✅", Label: "HEALTHY"}
	Scaling    = Status{Icon: "⚠️", Label: "SCALING"}
	OverScaled = Status{Icon: "🔴", Label: "OVER_SCALED"}
)

// Classify maps (running, desired, pending) task counts to a health status.
// running == desired with pending tasks still counts as SCALING: the service
// has not reached steady state until the pending tasks settle.
func Classify(running, desired, pending int32) Status {
	switch {
	case running == desired && pending == 0:
		return Healthy
	case running < desired:
		return Scaling
	case running > desired:
		return OverScaled
	default:
		return Scaling
	}
}

// FormatCounts renders "(running/desired)" with pending appended when non-zero.
func FormatCounts(running, desired, pending int32) string {
	if pending > 0 {
		return fmt.Sprintf("(%d/%d, %d pending)", running, desired, pending)
	}
	return fmt.Sprintf("(%d/%d)", running, desired)
}
