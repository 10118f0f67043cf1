package interfaces

import (
	"context"

	"github.com/cenate-lab/citabot/pkg/domain/model"
)

// ChatOptions carries the per-call generation knobs of the gateway
// contract.
type ChatOptions struct {
	Temperature float64
	MaxTokens   int
}

// ToolInvocation records one function execution performed during a tool
// round trip: the arguments the model supplied and the JSON result fed
// back to it. Error holds the executor failure message when the call did
// not succeed.
type ToolInvocation struct {
	Name   string
	Args   map[string]any
	Result string
	Error  string
}

// ToolChatResult is the outcome of a tool-enabled chat turn.
type ToolChatResult struct {
	Text        string
	Invocations []ToolInvocation
}

// LLMGateway abstracts synchronous communication with a language-model
// provider. Implementations perform at most one attempt per call and wrap
// every transport, authentication, or malformed-response failure as
// types.ErrLLMService carrying the provider name.
type LLMGateway interface {
	// Chat runs one plain conversational turn over the given message
	// window and returns the assistant reply text.
	Chat(ctx context.Context, messages []model.Message, systemPrompt string, opts ChatOptions) (string, error)

	// ChatWithTools runs one turn with the given functions advertised to
	// the model. When the model requests a function, the gateway executes
	// it, feeds the JSON result back, and returns the final reply along
	// with the recorded invocations.
	ChatWithTools(ctx context.Context, messages []model.Message, systemPrompt string, defs []model.FunctionDefinition, opts ChatOptions) (*ToolChatResult, error)

	// AnalyzeImage analyzes a base64-encoded image with the given prompt.
	// Gateways without vision support fail with types.ErrLLMService
	// rather than returning a stubbed reply.
	AnalyzeImage(ctx context.Context, imageBase64 string, prompt string, maxTokens int) (string, error)

	// IsAvailable is a best-effort liveness probe; failures collapse to
	// false.
	IsAvailable(ctx context.Context) bool

	// ModelName identifies the backing provider and model.
	ModelName() string

	// SupportsTools reports whether the tool round trip is wired.
	SupportsTools() bool

	// SupportsVision reports whether AnalyzeImage is backed by a real
	// multimodal capability.
	SupportsVision() bool
}
