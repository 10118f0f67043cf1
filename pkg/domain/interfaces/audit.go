package interfaces

import (
	"context"

	"github.com/cenate-lab/citabot/pkg/domain/model"
)

// ListAuditOption narrows an audit event listing
type ListAuditOption func(*ListAuditFilter)

// ListAuditFilter holds the effective listing filters
type ListAuditFilter struct {
	ActorID  *int64
	Category string
	Limit    int
}

// WithActorID filters events by the acting user
func WithActorID(actorID int64) ListAuditOption {
	return func(f *ListAuditFilter) {
		f.ActorID = &actorID
	}
}

// WithCategory filters events by category
func WithCategory(category string) ListAuditOption {
	return func(f *ListAuditFilter) {
		f.Category = category
	}
}

// WithLimit caps the number of returned events
func WithLimit(limit int) ListAuditOption {
	return func(f *ListAuditFilter) {
		f.Limit = limit
	}
}

// AuditRepository records traceable events. Recording failures must be
// logged and swallowed by callers; they never fail a primary operation.
type AuditRepository interface {
	// RecordEvent persists one event. The ID and CreatedAt fields are
	// assigned when empty.
	RecordEvent(ctx context.Context, event *model.AuditEvent) (*model.AuditEvent, error)

	// List retrieves events newest-first, optionally filtered.
	List(ctx context.Context, opts ...ListAuditOption) ([]*model.AuditEvent, error)
}
