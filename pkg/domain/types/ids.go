package types

import "github.com/google/uuid"

// SessionID identifies one continuous multi-turn conversation.
// It is opaque to callers and never reused.
type SessionID string

// NewSessionID generates a new UUID v7 SessionID
func NewSessionID() SessionID {
	return SessionID(uuid.Must(uuid.NewV7()).String())
}

// String returns the string representation of the session ID
func (s SessionID) String() string {
	return string(s)
}

// AvailabilityID identifies one bookable availability slot in the
// scheduling system.
type AvailabilityID int64

// AppointmentID identifies a confirmed appointment.
type AppointmentID int64
