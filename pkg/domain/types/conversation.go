package types

import "fmt"

// ConversationKind represents the purpose of a conversation.
// It is fixed at creation and immutable for the session's lifetime.
type ConversationKind string

const (
	KindAvailabilitySearch ConversationKind = "AVAILABILITY_SEARCH"
	KindDiagnosticAssist   ConversationKind = "DIAGNOSTIC_ASSIST"
	KindImageAnalysis      ConversationKind = "IMAGE_ANALYSIS"
	KindReportGeneration   ConversationKind = "REPORT_GENERATION"
	KindGeneral            ConversationKind = "GENERAL"
)

// AllConversationKinds returns all valid conversation kinds
func AllConversationKinds() []ConversationKind {
	return []ConversationKind{
		KindAvailabilitySearch,
		KindDiagnosticAssist,
		KindImageAnalysis,
		KindReportGeneration,
		KindGeneral,
	}
}

// IsValid checks if the conversation kind is valid
func (k ConversationKind) IsValid() bool {
	switch k {
	case KindAvailabilitySearch,
		KindDiagnosticAssist,
		KindImageAnalysis,
		KindReportGeneration,
		KindGeneral:
		return true
	default:
		return false
	}
}

// String returns the string representation of the conversation kind
func (k ConversationKind) String() string {
	return string(k)
}

// ConversationState represents the lifecycle state of a conversation.
// ACTIVE is the initial state; the other three are terminal and mutually
// exclusive. No transition out of a terminal state is permitted.
type ConversationState string

const (
	StateActive    ConversationState = "ACTIVE"
	StateCompleted ConversationState = "COMPLETED"
	StateTimeout   ConversationState = "TIMEOUT"
	StateError     ConversationState = "ERROR"
)

// AllConversationStates returns all valid conversation states
func AllConversationStates() []ConversationState {
	return []ConversationState{
		StateActive,
		StateCompleted,
		StateTimeout,
		StateError,
	}
}

// IsValid checks if the conversation state is valid
func (s ConversationState) IsValid() bool {
	switch s {
	case StateActive, StateCompleted, StateTimeout, StateError:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the state admits no further transitions
func (s ConversationState) IsTerminal() bool {
	switch s {
	case StateCompleted, StateTimeout, StateError:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether a transition from s to next is permitted
func (s ConversationState) CanTransitionTo(next ConversationState) bool {
	if !next.IsValid() || s.IsTerminal() {
		return false
	}
	return s == StateActive && next != StateActive
}

// String returns the string representation of the conversation state
func (s ConversationState) String() string {
	return string(s)
}

// ParseConversationState parses a string into a ConversationState
func ParseConversationState(s string) (ConversationState, error) {
	state := ConversationState(s)
	if !state.IsValid() {
		return "", fmt.Errorf("invalid conversation state: %s", s)
	}
	return state, nil
}

// AttentionChannel represents how a proposed appointment is attended.
type AttentionChannel string

const (
	ChannelInPerson      AttentionChannel = "IN_PERSON"
	ChannelRemoteVisit   AttentionChannel = "REMOTE_VISIT"
	ChannelRemoteImaging AttentionChannel = "REMOTE_IMAGING"
)

// IsValid checks if the attention channel is valid
func (c AttentionChannel) IsValid() bool {
	switch c {
	case ChannelInPerson, ChannelRemoteVisit, ChannelRemoteImaging:
		return true
	default:
		return false
	}
}

// String returns the string representation of the attention channel
func (c AttentionChannel) String() string {
	return string(c)
}
