package config

import (
	"context"
	"log/slog"

	"github.com/cenate-lab/citabot/pkg/domain/interfaces"
	"github.com/cenate-lab/citabot/pkg/repository/firestore"
	"github.com/cenate-lab/citabot/pkg/repository/memory"
	"github.com/cenate-lab/citabot/pkg/utils/logging"
	"github.com/cenate-lab/citabot/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Audit holds CLI flags for the audit event backend
type Audit struct {
	backend    string
	projectID  string
	databaseID string
}

// Flags returns CLI flags for audit configuration
func (a *Audit) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "audit-backend",
			Usage:       "Audit event backend (memory or firestore)",
			Value:       "memory",
			Sources:     cli.EnvVars("CITABOT_AUDIT_BACKEND"),
			Destination: &a.backend,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore Project ID (required when using firestore backend)",
			Sources:     cli.EnvVars("CITABOT_FIRESTORE_PROJECT_ID"),
			Destination: &a.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore Database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("CITABOT_FIRESTORE_DATABASE_ID"),
			Destination: &a.databaseID,
		},
	}
}

// LogAttrs returns log attributes for the audit configuration
func (a *Audit) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("backend", a.backend),
		slog.String("project_id", a.projectID),
		slog.String("database_id", a.databaseID),
	}
}

// Configure initializes the audit repository. The returned closer
// releases the Firestore client when that backend is selected.
func (a *Audit) Configure(ctx context.Context) (interfaces.AuditRepository, func(), error) {
	switch a.backend {
	case "firestore":
		if a.projectID == "" {
			return nil, nil, goerr.New("firestore-project-id is required when using firestore backend")
		}
		repo, err := firestore.New(ctx, a.projectID, a.databaseID)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to initialize firestore audit repository")
		}
		logging.Default().Info("Using Firestore audit repository",
			"project_id", a.projectID,
			"database_id", a.databaseID,
		)
		closer := func() {
			safe.Close(ctx, repo)
		}
		return repo, closer, nil

	case "memory", "":
		logging.Default().Info("Using in-memory audit repository (development mode)")
		return memory.NewAuditRepository(), func() {}, nil

	default:
		return nil, nil, goerr.New("invalid audit backend", goerr.V("backend", a.backend))
	}
}
