package model

import (
	"time"

	"github.com/google/uuid"
)

// Audit event types emitted by the assistant
const (
	AuditEventSessionStarted       = "AI_CHATBOT_SESSION_STARTED"
	AuditEventAppointmentConfirmed = "AI_CHATBOT_APPOINTMENT_CONFIRMED"
)

// AuditEventID is a UUID-based identifier for AuditEvent
type AuditEventID string

// NewAuditEventID generates a new UUID v4 AuditEventID
func NewAuditEventID() AuditEventID {
	return AuditEventID(uuid.New().String())
}

// AuditEvent records one traceable action taken through the assistant.
// Failures to record an audit event never fail the primary operation.
type AuditEvent struct {
	ID          AuditEventID
	Type        string
	ActorID     int64
	Description string
	Category    string
	TargetID    *string
	Metadata    map[string]any
	CreatedAt   time.Time
}
