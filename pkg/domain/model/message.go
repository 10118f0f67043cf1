package model

import (
	"time"

	"github.com/cenate-lab/citabot/pkg/domain/types"
)

// Message represents one conversational turn. The Metadata bag carries
// provider-reported facts (token usage, latency, model id) and is never
// used for control flow.
type Message struct {
	Role      types.MessageRole `json:"role"`
	Content   string            `json:"content"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]any    `json:"metadata,omitempty"`
}

// NewUserMessage creates a USER message timestamped now
func NewUserMessage(content string) Message {
	return Message{
		Role:      types.RoleUser,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// NewAssistantMessage creates an ASSISTANT message timestamped now
func NewAssistantMessage(content string) Message {
	return Message{
		Role:      types.RoleAssistant,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// NewSystemMessage creates a SYSTEM message timestamped now
func NewSystemMessage(content string) Message {
	return Message{
		Role:      types.RoleSystem,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// Clone returns a deep copy of the message
func (m Message) Clone() Message {
	copied := m
	if m.Metadata != nil {
		copied.Metadata = make(map[string]any, len(m.Metadata))
		for k, v := range m.Metadata {
			copied.Metadata[k] = v
		}
	}
	return copied
}
