package service

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the services wraps exactly one of them.
var (
	// ErrNotAuthenticated is returned when no valid actor is attached to the call.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrNotAuthorized is returned when the actor lacks the rights for the operation.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrNotFound is returned when an entity is absent or hidden from the actor.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when the operation would duplicate existing state.
	ErrConflict = errors.New("conflict")
	// ErrInvalid is returned for malformed input.
	ErrInvalid = errors.New("invalid")
)

var (
	ErrEventNotFound      = fmt.Errorf("%w: event not found", ErrNotFound)
	ErrInvitationNotFound = fmt.Errorf("%w: invitation not found", ErrNotFound)

	ErrAlreadyInvited = fmt.Errorf("%w: email already invited to this event", ErrConflict)
	ErrAlreadyJoined  = fmt.Errorf("%w: already participating in this event", ErrConflict)
	ErrEmailTaken     = fmt.Errorf("%w: email already registered", ErrConflict)

	ErrNotEventOwner   = fmt.Errorf("%w: only the creator can modify this event", ErrNotAuthorized)
	ErrNotEventAdmin   = fmt.Errorf("%w: only event admins can invite", ErrNotAuthorized)
	ErrCannotJoin      = fmt.Errorf("%w: event is private", ErrNotAuthorized)
	ErrNotAParticipant = fmt.Errorf("%w: not a participant of this event", ErrNotAuthorized)

	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrNotAuthenticated)
	ErrInvalidStatus      = fmt.Errorf("%w: status must be one of pending, yes, no, maybe", ErrInvalid)
)

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}
