package interfaces

import (
	"context"
	"time"

	"github.com/cenate-lab/citabot/pkg/domain/model"
	"github.com/cenate-lab/citabot/pkg/domain/types"
)

// SessionStore holds conversation state keyed by session ID with sliding
// expiration. Backends are interchangeable (in-process map or a networked
// cache); expired and absent sessions are indistinguishable to callers.
type SessionStore interface {
	// Save persists the context, overwriting any prior value for the key
	// (last-write-wins) and arming the given TTL.
	Save(ctx context.Context, conversation *model.ConversationContext, ttl time.Duration) error

	// Get retrieves a context by session ID. Returns (nil, nil) when the
	// session is absent or expired.
	Get(ctx context.Context, sessionID types.SessionID) (*model.ConversationContext, error)

	// AddMessage atomically appends a message to an existing session.
	// Fails with types.ErrContextInvalid if the session is unknown.
	AddMessage(ctx context.Context, sessionID types.SessionID, msg model.Message) error

	// GetRecentMessages returns at most limit messages, oldest-first,
	// as a suffix of the full history.
	GetRecentMessages(ctx context.Context, sessionID types.SessionID, limit int) ([]model.Message, error)

	// Clear removes the session. Removing an unknown session is a no-op.
	Clear(ctx context.Context, sessionID types.SessionID) error

	// UpdateTTL re-arms the expiration deadline (sliding expiration).
	UpdateTTL(ctx context.Context, sessionID types.SessionID, ttl time.Duration) error

	// Exists reports whether the session is currently reachable.
	Exists(ctx context.Context, sessionID types.SessionID) (bool, error)
}
