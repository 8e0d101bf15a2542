package models

import (
	"encoding"
	"errors"
	"strings"
)

// Visibility is who may see an event.
type Visibility string

const (
	// VisibilityPublic events are visible to everyone, anonymous callers included.
	VisibilityPublic Visibility = "public"
	// VisibilityPrivate events are visible to their creator, participants and invitees.
	VisibilityPrivate Visibility = "private"
)

// VisibilityOf maps the wire-level private flag to a Visibility.
func VisibilityOf(private bool) Visibility {
	if private {
		return VisibilityPrivate
	}
	return VisibilityPublic
}

// RsvpStatus is a participant's answer to an event.
type RsvpStatus string

const (
	RsvpPending RsvpStatus = "pending"
	RsvpYes     RsvpStatus = "yes"
	RsvpNo      RsvpStatus = "no"
	RsvpMaybe   RsvpStatus = "maybe"
)

// ErrInvalidRsvpStatus is returned when a status is not one of the canonical values.
var ErrInvalidRsvpStatus = errors.New("invalid rsvp status")

var (
	_ encoding.TextMarshaler   = RsvpStatus("")
	_ encoding.TextUnmarshaler = (*RsvpStatus)(nil)
)

// ParseRsvpStatus parses a status string. Surrounding spaces and case are ignored.
func ParseRsvpStatus(s string) (RsvpStatus, error) {
	st := RsvpStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", ErrInvalidRsvpStatus
	}
	return st, nil
}

// Valid reports whether s is one of pending, yes, no or maybe.
func (s RsvpStatus) Valid() bool {
	switch s {
	case RsvpPending, RsvpYes, RsvpNo, RsvpMaybe:
		return true
	default:
		return false
	}
}

// String returns the string representation of the status.
func (s RsvpStatus) String() string {
	return string(s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *RsvpStatus) UnmarshalText(text []byte) error {
	st, err := ParseRsvpStatus(string(text))
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (s RsvpStatus) MarshalText() ([]byte, error) {
	return []byte(s), nil
}
