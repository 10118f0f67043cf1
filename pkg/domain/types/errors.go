package types

import "errors"

// Error taxonomy for the assistant core. Every layer wraps one of these
// sentinels with goerr so that callers can classify failures with
// errors.Is regardless of where they originated.
var (
	// ErrContextInvalid marks a session that is absent or expired.
	// Recoverable by the caller: start a new conversation.
	ErrContextInvalid = errors.New("conversation context not found or expired")

	// ErrLLMService marks a provider communication or response-parsing
	// failure. Not retried by this layer.
	ErrLLMService = errors.New("LLM service failure")

	// ErrFunctionCall marks an unknown function name or an executor
	// failure during a tool round trip.
	ErrFunctionCall = errors.New("function call failure")

	// ErrPromptValidation marks a missing template or a missing
	// substitution variable.
	ErrPromptValidation = errors.New("prompt validation failure")
)
