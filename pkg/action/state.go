package action

// State is the lifecycle of an action as tracked by the view. Pending only
// exists when confirmation is required; Finished and Canceled are terminal.
type State int

const (
	StatePending State = iota
	StateRunning
	StateFinished
	StateCanceled
)

func (s State) Terminal() bool {
	return s == StateFinished || s == StateCanceled
}

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	case StateCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Stateful pairs an action with its lifecycle state.
type Stateful struct {
	Action Action
	State  State
}
