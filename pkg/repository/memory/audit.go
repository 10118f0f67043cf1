package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cenate-lab/citabot/pkg/domain/interfaces"
	"github.com/cenate-lab/citabot/pkg/domain/model"
)

// AuditRepository is an in-memory audit event log for development and
// tests.
type AuditRepository struct {
	mu     sync.RWMutex
	events []*model.AuditEvent
}

var _ interfaces.AuditRepository = &AuditRepository{}

// NewAuditRepository creates an empty in-memory audit repository
func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

func copyAuditEvent(e *model.AuditEvent) *model.AuditEvent {
	copied := *e
	if e.Metadata != nil {
		copied.Metadata = make(map[string]any, len(e.Metadata))
		for k, v := range e.Metadata {
			copied.Metadata[k] = v
		}
	}
	if e.TargetID != nil {
		target := *e.TargetID
		copied.TargetID = &target
	}
	return &copied
}

func (r *AuditRepository) RecordEvent(ctx context.Context, event *model.AuditEvent) (*model.AuditEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyAuditEvent(event)
	if created.ID == "" {
		created.ID = model.NewAuditEventID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	r.events = append(r.events, created)
	return copyAuditEvent(created), nil
}

func (r *AuditRepository) List(ctx context.Context, opts ...interfaces.ListAuditOption) ([]*model.AuditEvent, error) {
	var filter interfaces.ListAuditFilter
	for _, opt := range opts {
		opt(&filter)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.AuditEvent, 0, len(r.events))
	for _, e := range r.events {
		if filter.ActorID != nil && e.ActorID != *filter.ActorID {
			continue
		}
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		result = append(result, copyAuditEvent(e))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}

	return result, nil
}
