package types

import "fmt"

// MessageRole represents who authored a conversational turn.
// SYSTEM messages are sent to the model but never shown to the end user.
type MessageRole string

const (
	RoleUser      MessageRole = "USER"
	RoleAssistant MessageRole = "ASSISTANT"
	RoleSystem    MessageRole = "SYSTEM"
)

// AllMessageRoles returns all valid message roles
func AllMessageRoles() []MessageRole {
	return []MessageRole{
		RoleUser,
		RoleAssistant,
		RoleSystem,
	}
}

// IsValid checks if the message role is valid
func (r MessageRole) IsValid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	default:
		return false
	}
}

// String returns the string representation of the message role
func (r MessageRole) String() string {
	return string(r)
}

// ParseMessageRole parses a string into a MessageRole
func ParseMessageRole(s string) (MessageRole, error) {
	role := MessageRole(s)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid message role: %s", s)
	}
	return role, nil
}
