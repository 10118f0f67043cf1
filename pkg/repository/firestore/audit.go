package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/cenate-lab/citabot/pkg/domain/interfaces"
	"github.com/cenate-lab/citabot/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

// auditEventDoc is the Firestore document representation of model.AuditEvent.
type auditEventDoc struct {
	ID          model.AuditEventID `firestore:"ID"`
	Type        string             `firestore:"Type"`
	ActorID     int64              `firestore:"ActorID"`
	Description string             `firestore:"Description"`
	Category    string             `firestore:"Category"`
	TargetID    *string            `firestore:"TargetID"`
	Metadata    map[string]any     `firestore:"Metadata"`
	CreatedAt   time.Time          `firestore:"CreatedAt"`
}

func toAuditEventDoc(e *model.AuditEvent) *auditEventDoc {
	return &auditEventDoc{
		ID:          e.ID,
		Type:        e.Type,
		ActorID:     e.ActorID,
		Description: e.Description,
		Category:    e.Category,
		TargetID:    e.TargetID,
		Metadata:    e.Metadata,
		CreatedAt:   e.CreatedAt,
	}
}

func fromAuditEventDoc(d *auditEventDoc) *model.AuditEvent {
	return &model.AuditEvent{
		ID:          d.ID,
		Type:        d.Type,
		ActorID:     d.ActorID,
		Description: d.Description,
		Category:    d.Category,
		TargetID:    d.TargetID,
		Metadata:    d.Metadata,
		CreatedAt:   d.CreatedAt,
	}
}

func (r *AuditRepository) events() *firestore.CollectionRef {
	return r.client.Collection(r.collection)
}

func (r *AuditRepository) RecordEvent(ctx context.Context, event *model.AuditEvent) (*model.AuditEvent, error) {
	if event == nil {
		return nil, goerr.New("audit event is nil")
	}

	recorded := *event
	if recorded.ID == "" {
		recorded.ID = model.NewAuditEventID()
	}
	if recorded.CreatedAt.IsZero() {
		recorded.CreatedAt = time.Now().UTC()
	}

	docRef := r.events().Doc(string(recorded.ID))
	if _, err := docRef.Set(ctx, toAuditEventDoc(&recorded)); err != nil {
		return nil, goerr.Wrap(err, "failed to record audit event",
			goerr.V("eventType", recorded.Type),
			goerr.V("actorID", recorded.ActorID),
		)
	}

	return &recorded, nil
}

func (r *AuditRepository) List(ctx context.Context, opts ...interfaces.ListAuditOption) ([]*model.AuditEvent, error) {
	var filter interfaces.ListAuditFilter
	for _, opt := range opts {
		opt(&filter)
	}

	query := r.events().Query
	if filter.ActorID != nil {
		query = query.Where("ActorID", "==", *filter.ActorID)
	}
	if filter.Category != "" {
		query = query.Where("Category", "==", filter.Category)
	}
	query = query.OrderBy("CreatedAt", firestore.Desc)
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	events := make([]*model.AuditEvent, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate audit events")
		}

		var d auditEventDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal audit event")
		}
		events = append(events, fromAuditEventDoc(&d))
	}

	return events, nil
}
