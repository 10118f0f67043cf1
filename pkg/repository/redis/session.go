package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cenate-lab/citabot/pkg/domain/interfaces"
	"github.com/cenate-lab/citabot/pkg/domain/model"
	"github.com/cenate-lab/citabot/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	goredis "github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "citabot:session:"

// SessionStore is a Redis-backed session store. The context header and
// the message list live under separate keys so that message appends are
// atomic server-side; both keys share one sliding TTL.
type SessionStore struct {
	client    *goredis.Client
	keyPrefix string
}

var _ interfaces.SessionStore = &SessionStore{}

// Option configures the SessionStore
type Option func(*SessionStore)

// WithKeyPrefix overrides the key namespace
func WithKeyPrefix(prefix string) Option {
	return func(s *SessionStore) {
		s.keyPrefix = prefix
	}
}

// NewSessionStore creates a session store on the given Redis client.
// The caller owns the client lifecycle.
func NewSessionStore(client *goredis.Client, opts ...Option) *SessionStore {
	s := &SessionStore{
		client:    client,
		keyPrefix: defaultKeyPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SessionStore) headerKey(sessionID types.SessionID) string {
	return s.keyPrefix + sessionID.String()
}

func (s *SessionStore) messagesKey(sessionID types.SessionID) string {
	return s.keyPrefix + sessionID.String() + ":messages"
}

func (s *SessionStore) Save(ctx context.Context, conversation *model.ConversationContext, ttl time.Duration) error {
	if conversation == nil {
		return goerr.New("conversation context is nil")
	}
	if conversation.SessionID == "" {
		return goerr.New("session ID is empty")
	}

	header := conversation.Clone()
	messages := header.Messages
	header.Messages = nil

	headerData, err := json.Marshal(header)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal conversation context",
			goerr.V("sessionID", conversation.SessionID),
		)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.headerKey(conversation.SessionID), headerData, ttl)
	pipe.Del(ctx, s.messagesKey(conversation.SessionID))
	for _, msg := range messages {
		msgData, err := json.Marshal(msg)
		if err != nil {
			return goerr.Wrap(err, "failed to marshal message",
				goerr.V("sessionID", conversation.SessionID),
			)
		}
		pipe.RPush(ctx, s.messagesKey(conversation.SessionID), msgData)
	}
	pipe.Expire(ctx, s.messagesKey(conversation.SessionID), ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return goerr.Wrap(err, "failed to save conversation context",
			goerr.V("sessionID", conversation.SessionID),
		)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, sessionID types.SessionID) (*model.ConversationContext, error) {
	headerData, err := s.client.Get(ctx, s.headerKey(sessionID)).Result()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get conversation context",
			goerr.V("sessionID", sessionID),
		)
	}

	var conversation model.ConversationContext
	if err := json.Unmarshal([]byte(headerData), &conversation); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal conversation context",
			goerr.V("sessionID", sessionID),
		)
	}

	rawMessages, err := s.client.LRange(ctx, s.messagesKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list conversation messages",
			goerr.V("sessionID", sessionID),
		)
	}

	conversation.Messages = make([]model.Message, 0, len(rawMessages))
	for _, raw := range rawMessages {
		var msg model.Message
		if err := json.Unmarshal([]byte(raw), &msg); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal message",
				goerr.V("sessionID", sessionID),
			)
		}
		conversation.Messages = append(conversation.Messages, msg)
	}

	return &conversation, nil
}

func (s *SessionStore) AddMessage(ctx context.Context, sessionID types.SessionID, msg model.Message) error {
	exists, err := s.Exists(ctx, sessionID)
	if err != nil {
		return err
	}
	if !exists {
		return goerr.Wrap(types.ErrContextInvalid, "cannot append message to unknown session",
			goerr.V("sessionID", sessionID),
		)
	}

	msgData, err := json.Marshal(msg)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal message",
			goerr.V("sessionID", sessionID),
		)
	}

	// The append may create the list key, so it must inherit the
	// header's remaining lifetime or it would outlive the session.
	remaining, err := s.client.TTL(ctx, s.headerKey(sessionID)).Result()
	if err != nil {
		return goerr.Wrap(err, "failed to read session TTL",
			goerr.V("sessionID", sessionID),
		)
	}

	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, s.messagesKey(sessionID), msgData)
	if remaining > 0 {
		pipe.Expire(ctx, s.messagesKey(sessionID), remaining)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return goerr.Wrap(err, "failed to append message",
			goerr.V("sessionID", sessionID),
		)
	}
	return nil
}

func (s *SessionStore) GetRecentMessages(ctx context.Context, sessionID types.SessionID, limit int) ([]model.Message, error) {
	exists, err := s.Exists(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, goerr.Wrap(types.ErrContextInvalid, "cannot read messages of unknown session",
			goerr.V("sessionID", sessionID),
		)
	}

	start := int64(0)
	if limit > 0 {
		start = int64(-limit)
	}

	rawMessages, err := s.client.LRange(ctx, s.messagesKey(sessionID), start, -1).Result()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list recent messages",
			goerr.V("sessionID", sessionID),
		)
	}

	messages := make([]model.Message, 0, len(rawMessages))
	for _, raw := range rawMessages {
		var msg model.Message
		if err := json.Unmarshal([]byte(raw), &msg); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal message",
				goerr.V("sessionID", sessionID),
			)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (s *SessionStore) Clear(ctx context.Context, sessionID types.SessionID) error {
	if err := s.client.Del(ctx, s.headerKey(sessionID), s.messagesKey(sessionID)).Err(); err != nil {
		return goerr.Wrap(err, "failed to clear session",
			goerr.V("sessionID", sessionID),
		)
	}
	return nil
}

func (s *SessionStore) UpdateTTL(ctx context.Context, sessionID types.SessionID, ttl time.Duration) error {
	refreshed, err := s.client.Expire(ctx, s.headerKey(sessionID), ttl).Result()
	if err != nil {
		return goerr.Wrap(err, "failed to refresh session TTL",
			goerr.V("sessionID", sessionID),
		)
	}
	if !refreshed {
		return goerr.Wrap(types.ErrContextInvalid, "cannot refresh TTL of unknown session",
			goerr.V("sessionID", sessionID),
		)
	}

	// The message list may legitimately be absent for a context without
	// any persisted turns yet.
	if err := s.client.Expire(ctx, s.messagesKey(sessionID), ttl).Err(); err != nil {
		return goerr.Wrap(err, "failed to refresh message list TTL",
			goerr.V("sessionID", sessionID),
		)
	}
	return nil
}

func (s *SessionStore) Exists(ctx context.Context, sessionID types.SessionID) (bool, error) {
	count, err := s.client.Exists(ctx, s.headerKey(sessionID)).Result()
	if err != nil {
		return false, goerr.Wrap(err, "failed to check session existence",
			goerr.V("sessionID", sessionID),
		)
	}
	return count > 0, nil
}
