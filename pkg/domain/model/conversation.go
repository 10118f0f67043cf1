package model

import (
	"encoding/json"
	"time"

	"github.com/cenate-lab/citabot/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// MetadataKeySuggestions is the context metadata key holding the latest
// availability suggestions extracted from the tool round trip.
const MetadataKeySuggestions = "currentSuggestions"

// ConversationContext holds the full state of one multi-turn dialogue.
// Messages are append-only; their order is the chronological turn order.
type ConversationContext struct {
	SessionID         types.SessionID         `json:"sessionId"`
	SubjectID         string                  `json:"subjectId,omitempty"`
	ActorID           int64                   `json:"actorId,omitempty"`
	Kind              types.ConversationKind  `json:"kind"`
	Messages          []Message               `json:"messages"`
	StartedAt         time.Time               `json:"startedAt"`
	LastInteractionAt time.Time               `json:"lastInteractionAt"`
	Metadata          map[string]any          `json:"metadata,omitempty"`
	State             types.ConversationState `json:"state"`
}

// NewConversationContext creates an ACTIVE context with a fresh session ID.
// SubjectID correlates the patient document; ActorID the operator.
func NewConversationContext(kind types.ConversationKind, subjectID string, actorID int64) *ConversationContext {
	now := time.Now().UTC()
	return &ConversationContext{
		SessionID:         types.NewSessionID(),
		SubjectID:         subjectID,
		ActorID:           actorID,
		Kind:              kind,
		StartedAt:         now,
		LastInteractionAt: now,
		Metadata:          make(map[string]any),
		State:             types.StateActive,
	}
}

// AddMessage appends a turn and refreshes the interaction timestamp
func (c *ConversationContext) AddMessage(msg Message) {
	c.Messages = append(c.Messages, msg)
	c.LastInteractionAt = time.Now().UTC()
}

// TransitionTo moves the conversation to the given state. Transitions out
// of a terminal state are rejected.
func (c *ConversationContext) TransitionTo(next types.ConversationState) error {
	if !c.State.CanTransitionTo(next) {
		return goerr.New("invalid conversation state transition",
			goerr.V("sessionID", c.SessionID),
			goerr.V("from", c.State),
			goerr.V("to", next),
		)
	}
	c.State = next
	return nil
}

// SetSuggestions stores the latest availability suggestions in the
// metadata bag, replacing any previous list.
func (c *ConversationContext) SetSuggestions(suggestions []AvailabilitySuggestion) {
	if c.Metadata == nil {
		c.Metadata = make(map[string]any)
	}
	c.Metadata[MetadataKeySuggestions] = suggestions
}

// Suggestions returns the availability suggestions currently held in the
// metadata bag. The bag may hold either the typed slice or the generic
// JSON shape produced by a store round trip; both decode to the same
// result.
func (c *ConversationContext) Suggestions() []AvailabilitySuggestion {
	raw, ok := c.Metadata[MetadataKeySuggestions]
	if !ok || raw == nil {
		return nil
	}

	if typed, ok := raw.([]AvailabilitySuggestion); ok {
		return typed
	}

	// Re-encode through JSON for values deserialized from a store
	data, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var suggestions []AvailabilitySuggestion
	if err := json.Unmarshal(data, &suggestions); err != nil {
		return nil
	}
	return suggestions
}

// Clone returns a deep copy of the context
func (c *ConversationContext) Clone() *ConversationContext {
	copied := *c

	if c.Messages != nil {
		copied.Messages = make([]Message, len(c.Messages))
		for i, m := range c.Messages {
			copied.Messages[i] = m.Clone()
		}
	}

	if c.Metadata != nil {
		copied.Metadata = make(map[string]any, len(c.Metadata))
		for k, v := range c.Metadata {
			copied.Metadata[k] = v
		}
	}

	return &copied
}
