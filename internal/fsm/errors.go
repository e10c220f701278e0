package fsm

import (
	"errors"
	"fmt"
)

var (
	// ErrNilState is returned when registering a nil state.
	ErrNilState = errors.New("fsm: state cannot be nil")
	// ErrTransitionInExit is returned when a state requests a transition from its own Exit.
	ErrTransitionInExit = errors.New("fsm: transition requested during exit")
	// ErrStateAttached is returned when a state already belongs to another machine.
	ErrStateAttached = errors.New("fsm: state is attached to another machine")
)

// DuplicateStateError is returned by Register when the name is taken.
type DuplicateStateError struct {
	Name string
}

func (e *DuplicateStateError) Error() string {
	return fmt.Sprintf("fsm: state %q already registered", e.Name)
}

// UnknownStateError is returned when a name has no registered state.
type UnknownStateError struct {
	Name string
}

func (e *UnknownStateError) Error() string {
	return fmt.Sprintf("fsm: unknown state %q", e.Name)
}

// TransitionDepthError is returned when chained transitions from Enter
// exceed the configured limit, which almost always means two states keep
// handing control back and forth.
type TransitionDepthError struct {
	Name  string
	Limit int
}

func (e *TransitionDepthError) Error() string {
	return fmt.Sprintf("fsm: transition to %q exceeds chain limit %d", e.Name, e.Limit)
}

// IsDuplicateState reports whether err is a *DuplicateStateError.
func IsDuplicateState(err error) bool {
	var e *DuplicateStateError
	return errors.As(err, &e)
}

// IsUnknownState reports whether err is an *UnknownStateError.
func IsUnknownState(err error) bool {
	var e *UnknownStateError
	return errors.As(err, &e)
}
