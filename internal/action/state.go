package action

import "fmt"

// Status is the phase of an action.
type Status int

const (
	Idle Status = iota
	Running
	Succeeded
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Terminal reports whether s ends a Running period.
func (s Status) Terminal() bool { return s == Succeeded || s == Failed }

// State is a snapshot of an action. Value is set only when Succeeded, Err
// only when Failed.
type State[T any] struct {
	Status Status
	Value  T
	Err    error
}

func (s State[T]) String() string {
	switch s.Status {
	case Succeeded:
		return fmt.Sprintf("succeeded(%v)", s.Value)
	case Failed:
		return fmt.Sprintf("failed(%v)", s.Err)
	default:
		return s.Status.String()
	}
}
