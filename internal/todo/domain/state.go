package domain

import (
	"errors"

	apperrors "github.com/allisson/todos/internal/errors"
)

// CommandState is a state of a single create todo command.
//
// A command moves Received -> Persisted -> Published -> Acknowledged. It leaves early through
// ValidationFailed before any side effect, through PersistenceFailed when the write did not
// commit, and through PublishFailed when the write committed but the event was not delivered.
type CommandState string

// Command states.
const (
	StateReceived          CommandState = "received"
	StatePersisted         CommandState = "persisted"
	StatePublished         CommandState = "published"
	StateAcknowledged      CommandState = "acknowledged"
	StateValidationFailed  CommandState = "validation_failed"
	StatePersistenceFailed CommandState = "persistence_failed"
	StatePublishFailed     CommandState = "publish_failed"
)

// String returns the state name.
func (s CommandState) String() string {
	return string(s)
}

// Terminal reports whether no further transition can happen from s.
func (s CommandState) Terminal() bool {
	switch s {
	case StateAcknowledged, StateValidationFailed, StatePersistenceFailed, StatePublishFailed:
		return true
	default:
		return false
	}
}

// OutcomeOf maps the result of a create todo command to its terminal state.
func OutcomeOf(err error) CommandState {
	var publishErr *PublishFailedError
	switch {
	case err == nil:
		return StateAcknowledged
	case errors.Is(err, apperrors.ErrInvalidInput):
		return StateValidationFailed
	case errors.As(err, &publishErr), errors.Is(err, apperrors.ErrPublish):
		return StatePublishFailed
	default:
		return StatePersistenceFailed
	}
}
