package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/cenate-lab/citabot/pkg/domain/interfaces"
	"github.com/cenate-lab/citabot/pkg/domain/model"
	"github.com/cenate-lab/citabot/pkg/repository/firestore"
	"github.com/cenate-lab/citabot/pkg/repository/memory"
	"github.com/m-mizutani/gt"
)

func runAuditRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.AuditRepository) {
	t.Helper()

	t.Run("RecordEvent assigns ID and timestamp", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		recorded, err := repo.RecordEvent(ctx, &model.AuditEvent{
			Type:        model.AuditEventSessionStarted,
			ActorID:     42,
			Description: "Sesión de chatbot iniciada",
			Category:    "CHATBOT",
		})
		gt.NoError(t, err).Required()
		gt.Value(t, recorded).NotNil().Required()

		gt.String(t, string(recorded.ID)).NotEqual("")
		gt.Value(t, recorded.Type).Equal(model.AuditEventSessionStarted)
		gt.Value(t, recorded.ActorID).Equal(int64(42))
		gt.Bool(t, recorded.CreatedAt.IsZero()).False()
	})

	t.Run("List returns newest first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, desc := range []string{"primero", "segundo", "tercero"} {
			_, err := repo.RecordEvent(ctx, &model.AuditEvent{
				Type:        model.AuditEventSessionStarted,
				ActorID:     7,
				Description: desc,
				Category:    "CHATBOT",
			})
			gt.NoError(t, err).Required()
		}

		events, err := repo.List(ctx, interfaces.WithActorID(7))
		gt.NoError(t, err).Required()
		gt.Array(t, events).Length(3)
		gt.Value(t, events[0].Description).Equal("tercero")
		gt.Value(t, events[2].Description).Equal("primero")
	})

	t.Run("List filters by actor and category", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		targetID := "appointment-555"
		_, err := repo.RecordEvent(ctx, &model.AuditEvent{
			Type:        model.AuditEventAppointmentConfirmed,
			ActorID:     100,
			Description: "Cita confirmada",
			Category:    "APPOINTMENT",
			TargetID:    &targetID,
		})
		gt.NoError(t, err).Required()

		_, err = repo.RecordEvent(ctx, &model.AuditEvent{
			Type:        model.AuditEventSessionStarted,
			ActorID:     200,
			Description: "Sesión iniciada",
			Category:    "CHATBOT",
		})
		gt.NoError(t, err).Required()

		events, err := repo.List(ctx,
			interfaces.WithActorID(100),
			interfaces.WithCategory("APPOINTMENT"),
		)
		gt.NoError(t, err).Required()
		gt.Array(t, events).Length(1)
		gt.Value(t, events[0].Type).Equal(model.AuditEventAppointmentConfirmed)
		gt.Value(t, events[0].TargetID).NotNil().Required()
		gt.Value(t, *events[0].TargetID).Equal("appointment-555")
	})

	t.Run("List honors limit", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for i := 0; i < 5; i++ {
			_, err := repo.RecordEvent(ctx, &model.AuditEvent{
				Type:     model.AuditEventSessionStarted,
				ActorID:  300,
				Category: "CHATBOT",
			})
			gt.NoError(t, err).Required()
		}

		events, err := repo.List(ctx, interfaces.WithActorID(300), interfaces.WithLimit(2))
		gt.NoError(t, err).Required()
		gt.Array(t, events).Length(2)
	})
}

func TestMemoryAuditRepository(t *testing.T) {
	runAuditRepositoryTest(t, func(t *testing.T) interfaces.AuditRepository {
		return memory.NewAuditRepository()
	})
}

func TestFirestoreAuditRepository(t *testing.T) {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	runAuditRepositoryTest(t, func(t *testing.T) interfaces.AuditRepository {
		ctx := context.Background()
		repo, err := firestore.New(ctx, projectID, databaseID,
			firestore.WithCollection("audit_events_test"),
		)
		gt.NoError(t, err).Required()
		t.Cleanup(func() {
			_ = repo.Close()
		})
		return repo
	})
}
