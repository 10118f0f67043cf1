package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/cenate-lab/citabot/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

const defaultAuditCollection = "audit_events"

// AuditRepository persists audit events to Firestore.
type AuditRepository struct {
	client     *firestore.Client
	collection string
}

var _ interfaces.AuditRepository = &AuditRepository{}

type Option func(*AuditRepository)

// WithCollection overrides the audit event collection name
func WithCollection(name string) Option {
	return func(r *AuditRepository) {
		r.collection = name
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*AuditRepository, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID),
		)
	}

	r := &AuditRepository{
		client:     client,
		collection: defaultAuditCollection,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *AuditRepository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
