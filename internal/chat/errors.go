package chat

import "errors"

// Error strings below are part of the API contract and are relayed to
// clients verbatim.
var (
	ErrRoomNotFound = errors.New("Room not found")
	ErrNotCreator   = errors.New("Only the room creator can delete this room")
	ErrNotMember    = errors.New("You are not a member of this room")
)

// ValidationError reports a missing required field.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func newValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}
