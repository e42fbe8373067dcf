// Package nav models the drill-down navigation flow as an explicit state
// machine so screen transitions can be tested without driving a terminal.
package nav

// Screen enumerates the navigation levels.
type Screen int

const (
	Clusters Screen = iota
	Services
	ServiceActions
	Tasks
	TaskDetail
	Containers
	ContainerDetail
)

func (s Screen) String() string {
	switch s {
	case Clusters:
		return "clusters"
	case Services:
		return "services"
	case ServiceActions:
		return "service actions"
	case Tasks:
		return "tasks"
	case TaskDetail:
		return "task detail"
	case Containers:
		return "containers"
	case ContainerDetail:
		return "container detail"
	default:
		return "unknown"
	}
}

// Stack tracks the current screen plus the trail of prior screens so Back
// can ascend without re-deriving where the user came from.
type Stack struct {
	current Screen
	history []Screen
}

// NewStack starts navigation at the given root screen.
func NewStack(root Screen) *Stack {
	return &Stack{current: root}
}

// Current returns the active screen.
func (s *Stack) Current() Screen {
	return s.current
}

// Depth returns how many screens are beneath the current one.
func (s *Stack) Depth() int {
	return len(s.history)
}

// Push descends to the given screen, remembering the current one for Back.
func (s *Stack) Push(next Screen) {
	s.history = append(s.history, s.current)
	s.current = next
}

// Back ascends one level. It reports false when already at the root.
func (s *Stack) Back() bool {
	if len(s.history) == 0 {
		return false
	}
	s.current = s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	return true
}

// Reset returns to the root screen and clears the trail.
func (s *Stack) Reset(root Screen) {
	s.current = root
	s.history = nil
}

// AutoSelect reports whether a freshly fetched list of n children should be
// descended into without prompting. Only a single-child list qualifies, and
// callers must still announce the chosen item; chaining is the caller's
// responsibility to avoid (one fetch, one auto-descent).
func AutoSelect(n int) bool {
	return n == 1
}
