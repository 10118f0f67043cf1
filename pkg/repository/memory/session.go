package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cenate-lab/citabot/pkg/domain/interfaces"
	"github.com/cenate-lab/citabot/pkg/domain/model"
	"github.com/cenate-lab/citabot/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	gocache "github.com/patrickmn/go-cache"
)

const cleanupInterval = 5 * time.Minute

// SessionStore is an in-process session store backed by an expiring
// cache. All values are deep-copied on the way in and out, and a single
// store mutex makes read-modify-write operations atomic.
type SessionStore struct {
	mu    sync.Mutex
	cache *gocache.Cache
}

var _ interfaces.SessionStore = &SessionStore{}

// NewSessionStore creates a session store whose entries expire after
// defaultTTL without interaction.
func NewSessionStore(defaultTTL time.Duration) *SessionStore {
	return &SessionStore{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

func (s *SessionStore) Save(ctx context.Context, conversation *model.ConversationContext, ttl time.Duration) error {
	if conversation == nil {
		return goerr.New("conversation context is nil")
	}
	if conversation.SessionID == "" {
		return goerr.New("session ID is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Set(conversation.SessionID.String(), conversation.Clone(), ttl)
	return nil
}

func (s *SessionStore) Get(ctx context.Context, sessionID types.SessionID) (*model.ConversationContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversation, found := s.lookup(sessionID)
	if !found {
		return nil, nil
	}
	return conversation.Clone(), nil
}

func (s *SessionStore) AddMessage(ctx context.Context, sessionID types.SessionID, msg model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversation, found := s.lookup(sessionID)
	if !found {
		return goerr.Wrap(types.ErrContextInvalid, "cannot append message to unknown session",
			goerr.V("sessionID", sessionID),
		)
	}

	updated := conversation.Clone()
	updated.AddMessage(msg.Clone())
	s.cache.Set(sessionID.String(), updated, s.remainingTTL(sessionID))
	return nil
}

func (s *SessionStore) GetRecentMessages(ctx context.Context, sessionID types.SessionID, limit int) ([]model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversation, found := s.lookup(sessionID)
	if !found {
		return nil, goerr.Wrap(types.ErrContextInvalid, "cannot read messages of unknown session",
			goerr.V("sessionID", sessionID),
		)
	}

	msgs := conversation.Messages
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}

	result := make([]model.Message, len(msgs))
	for i, m := range msgs {
		result[i] = m.Clone()
	}
	return result, nil
}

func (s *SessionStore) Clear(ctx context.Context, sessionID types.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Delete(sessionID.String())
	return nil
}

func (s *SessionStore) UpdateTTL(ctx context.Context, sessionID types.SessionID, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversation, found := s.lookup(sessionID)
	if !found {
		return goerr.Wrap(types.ErrContextInvalid, "cannot refresh TTL of unknown session",
			goerr.V("sessionID", sessionID),
		)
	}

	s.cache.Set(sessionID.String(), conversation, ttl)
	return nil
}

func (s *SessionStore) Exists(ctx context.Context, sessionID types.SessionID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, found := s.lookup(sessionID)
	return found, nil
}

// lookup fetches the stored context without copying. Callers must hold
// the store mutex.
func (s *SessionStore) lookup(sessionID types.SessionID) (*model.ConversationContext, bool) {
	raw, found := s.cache.Get(sessionID.String())
	if !found {
		return nil, false
	}
	conversation, ok := raw.(*model.ConversationContext)
	if !ok {
		return nil, false
	}
	return conversation, true
}

// remainingTTL preserves the current deadline when rewriting an entry.
// Callers must hold the store mutex.
func (s *SessionStore) remainingTTL(sessionID types.SessionID) time.Duration {
	_, expiration, found := s.cache.GetWithExpiration(sessionID.String())
	if !found || expiration.IsZero() {
		return gocache.DefaultExpiration
	}
	remaining := time.Until(expiration)
	if remaining <= 0 {
		return gocache.DefaultExpiration
	}
	return remaining
}
