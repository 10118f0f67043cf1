package llm

import (
	"context"
	"strings"

	"github.com/cenate-lab/citabot/pkg/domain/interfaces"
	"github.com/cenate-lab/citabot/pkg/domain/model"
	"github.com/cenate-lab/citabot/pkg/domain/types"
	"github.com/cenate-lab/citabot/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// Gateway adapts a gollem.LLMClient to the LLMGateway contract. The
// client decides the actual provider; the gateway owns transcript
// rendering, the tool round trip and error taxonomy.
type Gateway struct {
	client    gollem.LLMClient
	registry  interfaces.FunctionRegistry
	modelName string
}

var _ interfaces.LLMGateway = &Gateway{}

type Option func(*Gateway)

// WithModelName sets the reported provider/model identifier.
func WithModelName(name string) Option {
	return func(g *Gateway) {
		g.modelName = name
	}
}

// New creates a gateway. The registry executes the functions advertised
// during tool round trips.
func New(client gollem.LLMClient, registry interfaces.FunctionRegistry, opts ...Option) *Gateway {
	g := &Gateway{
		client:    client,
		registry:  registry,
		modelName: "gemini",
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gateway) Chat(ctx context.Context, messages []model.Message, systemPrompt string, opts interfaces.ChatOptions) (string, error) {
	current, history, err := splitCurrentTurn(messages)
	if err != nil {
		return "", err
	}

	logging.From(ctx).Debug("chat turn",
		"model", g.modelName,
		"historyLen", len(history),
		"temperature", opts.Temperature,
		"maxTokens", opts.MaxTokens,
	)

	session, err := g.client.NewSession(ctx,
		gollem.WithSessionSystemPrompt(renderSystemPrompt(systemPrompt, history)),
	)
	if err != nil {
		return "", goerr.Wrap(types.ErrLLMService, "failed to create LLM session",
			goerr.V("model", g.modelName),
			goerr.V("cause", err.Error()),
		)
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(current.Content))
	if err != nil {
		return "", goerr.Wrap(types.ErrLLMService, "failed to generate content",
			goerr.V("model", g.modelName),
			goerr.V("cause", err.Error()),
		)
	}
	if len(resp.Texts) == 0 {
		return "", goerr.Wrap(types.ErrLLMService, "model returned empty response",
			goerr.V("model", g.modelName),
		)
	}

	return strings.Join(resp.Texts, "\n"), nil
}

func (g *Gateway) ChatWithTools(ctx context.Context, messages []model.Message, systemPrompt string, defs []model.FunctionDefinition, opts interfaces.ChatOptions) (*interfaces.ToolChatResult, error) {
	current, history, err := splitCurrentTurn(messages)
	if err != nil {
		return nil, err
	}

	logger := logging.From(ctx)
	logger.Debug("tool chat turn",
		"model", g.modelName,
		"historyLen", len(history),
		"functions", len(defs),
		"temperature", opts.Temperature,
		"maxTokens", opts.MaxTokens,
	)

	recorder := &invocationRecorder{}
	tools := make([]gollem.Tool, 0, len(defs))
	for _, def := range defs {
		tools = append(tools, &registryTool{
			def:      def,
			registry: g.registry,
			recorder: recorder,
		})
	}

	agent := gollem.New(g.client,
		gollem.WithSystemPrompt(renderSystemPrompt(systemPrompt, history)),
		gollem.WithTools(tools...),
		gollem.WithToolMiddleware(
			func(next gollem.ToolHandler) gollem.ToolHandler {
				return func(ctx context.Context, req *gollem.ToolExecRequest) (*gollem.ToolExecResponse, error) {
					logger.Info("model requested function", "name", req.Tool.Name)
					resp, err := next(ctx, req)
					if resp != nil && resp.Error != nil {
						logger.Warn("function execution failed",
							"name", req.Tool.Name,
							"error", resp.Error.Error(),
						)
					}
					return resp, err
				}
			},
		),
	)

	resp, err := agent.Execute(ctx, gollem.Text(current.Content))
	if err != nil {
		return nil, goerr.Wrap(types.ErrLLMService, "failed to execute tool round trip",
			goerr.V("model", g.modelName),
			goerr.V("cause", err.Error()),
		)
	}

	text := strings.Join(resp.Texts, "\n")
	if text == "" {
		return nil, goerr.Wrap(types.ErrLLMService, "model returned empty response",
			goerr.V("model", g.modelName),
		)
	}

	return &interfaces.ToolChatResult{
		Text:        text,
		Invocations: recorder.invocations(),
	}, nil
}

func (g *Gateway) AnalyzeImage(ctx context.Context, imageBase64 string, prompt string, maxTokens int) (string, error) {
	return "", goerr.Wrap(types.ErrLLMService, "image analysis is not supported by this gateway",
		goerr.V("model", g.modelName),
	)
}

func (g *Gateway) IsAvailable(ctx context.Context) bool {
	if _, err := g.client.NewSession(ctx); err != nil {
		logging.From(ctx).Warn("LLM liveness probe failed",
			"model", g.modelName,
			"error", err.Error(),
		)
		return false
	}
	return true
}

func (g *Gateway) ModelName() string {
	return g.modelName
}

func (g *Gateway) SupportsTools() bool {
	return true
}

func (g *Gateway) SupportsVision() bool {
	return false
}

func splitCurrentTurn(messages []model.Message) (model.Message, []model.Message, error) {
	if len(messages) == 0 {
		return model.Message{}, nil, goerr.New("message window is empty")
	}

	current := messages[len(messages)-1]
	if current.Role != types.RoleUser {
		return model.Message{}, nil, goerr.New("last message of the window must be the user turn",
			goerr.V("role", current.Role),
		)
	}
	return current, messages[:len(messages)-1], nil
}

// renderSystemPrompt folds the prior conversation into the system
// instructions so a stateless session still sees the window.
func renderSystemPrompt(systemPrompt string, history []model.Message) string {
	if len(history) == 0 {
		return systemPrompt
	}

	var sb strings.Builder
	sb.WriteString(systemPrompt)
	sb.WriteString("\n\n# Conversación previa\n")
	for _, msg := range history {
		switch msg.Role {
		case types.RoleUser:
			sb.WriteString("Paciente: ")
		case types.RoleAssistant:
			sb.WriteString("Asistente: ")
		default:
			sb.WriteString("Sistema: ")
		}
		sb.WriteString(msg.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}
