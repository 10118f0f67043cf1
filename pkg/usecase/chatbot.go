package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cenate-lab/citabot/pkg/domain/interfaces"
	"github.com/cenate-lab/citabot/pkg/domain/model"
	"github.com/cenate-lab/citabot/pkg/domain/types"
	"github.com/cenate-lab/citabot/pkg/service/functions"
	"github.com/cenate-lab/citabot/pkg/utils/async"
	"github.com/cenate-lab/citabot/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// ChatbotConfig carries the orchestration knobs. Zero values fall back
// to the defaults at construction.
type ChatbotConfig struct {
	TemplateID  string
	WindowSize  int
	SessionTTL  time.Duration
	Temperature float64
	MaxTokens   int
}

// DefaultChatbotConfig returns the production defaults.
func DefaultChatbotConfig() ChatbotConfig {
	return ChatbotConfig{
		TemplateID:  "availability-system-v1",
		WindowSize:  10,
		SessionTTL:  30 * time.Minute,
		Temperature: 0.7,
		MaxTokens:   1500,
	}
}

// ChatResponse is the outcome of one conversational turn.
type ChatResponse struct {
	SessionID      types.SessionID                `json:"sessionId"`
	Reply          string                         `json:"reply"`
	Suggestions    []model.AvailabilitySuggestion `json:"suggestions,omitempty"`
	ActionRequired bool                           `json:"actionRequired"`
	State          types.ConversationState        `json:"state"`
}

// ConfirmResponse is the outcome of booking a suggested slot.
type ConfirmResponse struct {
	SessionID     types.SessionID         `json:"sessionId"`
	AppointmentID types.AppointmentID     `json:"appointmentId"`
	Message       string                  `json:"message"`
	FollowUpNote  string                  `json:"followUpNote"`
	State         types.ConversationState `json:"state"`
}

// followUpNote accompanies every confirmed booking.
const followUpNote = "Revise su correo electrónico para las indicaciones de la teleconsulta."

// Chatbot orchestrates the conversational appointment assistant: session
// lifecycle, prompt resolution, the LLM turn with its tool round trip,
// suggestion extraction and audit emission.
type Chatbot struct {
	sessions interfaces.SessionStore
	gateway  interfaces.LLMGateway
	registry interfaces.FunctionRegistry
	prompts  interfaces.PromptResolver
	audit    interfaces.AuditRepository
	config   ChatbotConfig

	mu    sync.Mutex
	locks map[types.SessionID]*sync.Mutex
}

type Option func(*Chatbot)

// WithConfig overrides the default orchestration knobs.
func WithConfig(config ChatbotConfig) Option {
	return func(uc *Chatbot) {
		uc.config = config
	}
}

// NewChatbot wires the orchestrator. All collaborators are required.
func NewChatbot(
	sessions interfaces.SessionStore,
	gateway interfaces.LLMGateway,
	registry interfaces.FunctionRegistry,
	prompts interfaces.PromptResolver,
	audit interfaces.AuditRepository,
	opts ...Option,
) *Chatbot {
	uc := &Chatbot{
		sessions: sessions,
		gateway:  gateway,
		registry: registry,
		prompts:  prompts,
		audit:    audit,
		config:   DefaultChatbotConfig(),
		locks:    map[types.SessionID]*sync.Mutex{},
	}
	for _, opt := range opts {
		opt(uc)
	}
	if uc.config.WindowSize <= 0 {
		uc.config.WindowSize = DefaultChatbotConfig().WindowSize
	}
	if uc.config.SessionTTL <= 0 {
		uc.config.SessionTTL = DefaultChatbotConfig().SessionTTL
	}
	if uc.config.TemplateID == "" {
		uc.config.TemplateID = DefaultChatbotConfig().TemplateID
	}
	return uc
}

// StartConversation opens a session and runs the first turn.
func (uc *Chatbot) StartConversation(ctx context.Context, kind types.ConversationKind, subjectID string, actorID int64, message string) (*ChatResponse, error) {
	if !kind.IsValid() {
		return nil, goerr.Wrap(types.ErrContextInvalid, "invalid conversation kind",
			goerr.V("kind", kind),
		)
	}
	if subjectID == "" {
		return nil, goerr.Wrap(types.ErrContextInvalid, "subject ID is required")
	}
	if message == "" {
		return nil, goerr.Wrap(types.ErrContextInvalid, "message is empty")
	}

	conv := model.NewConversationContext(kind, subjectID, actorID)
	conv.AddMessage(model.NewUserMessage(message))

	reply, suggestions, err := uc.runTurn(ctx, conv, conv.Messages)
	if err != nil {
		return nil, err
	}

	conv.AddMessage(model.NewAssistantMessage(reply))
	conv.SetSuggestions(suggestions)

	if err := uc.sessions.Save(ctx, conv, uc.config.SessionTTL); err != nil {
		return nil, goerr.Wrap(err, "failed to persist new session")
	}

	uc.emitAudit(ctx, &model.AuditEvent{
		Type:        model.AuditEventSessionStarted,
		ActorID:     actorID,
		Description: fmt.Sprintf("Sesión de chatbot iniciada (%s)", kind),
		Category:    "CHATBOT",
		TargetID:    targetID(conv.SessionID.String()),
		Metadata: map[string]any{
			"subjectId": subjectID,
			"kind":      kind.String(),
		},
	})

	return &ChatResponse{
		SessionID:      conv.SessionID,
		Reply:          reply,
		Suggestions:    suggestions,
		ActionRequired: len(suggestions) > 0,
		State:          conv.State,
	}, nil
}

// ContinueConversation runs one more turn against an active session.
func (uc *Chatbot) ContinueConversation(ctx context.Context, sessionID types.SessionID, message string) (*ChatResponse, error) {
	if message == "" {
		return nil, goerr.Wrap(types.ErrContextInvalid, "message is empty")
	}

	unlock := uc.lockSession(sessionID)
	defer unlock()

	conv, err := uc.loadActive(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	userMsg := model.NewUserMessage(message)
	conv.AddMessage(userMsg)
	if err := uc.sessions.AddMessage(ctx, sessionID, userMsg); err != nil {
		return nil, err
	}
	if err := uc.sessions.UpdateTTL(ctx, sessionID, uc.config.SessionTTL); err != nil {
		return nil, err
	}

	// The store owns the truncation policy; it hands back the trailing
	// window including the message just appended.
	window, err := uc.sessions.GetRecentMessages(ctx, sessionID, uc.config.WindowSize)
	if err != nil {
		return nil, err
	}

	reply, suggestions, err := uc.runTurn(ctx, conv, window)
	if err != nil {
		return nil, err
	}

	conv.AddMessage(model.NewAssistantMessage(reply))
	if len(suggestions) > 0 {
		conv.SetSuggestions(suggestions)
	} else {
		suggestions = conv.Suggestions()
	}

	if err := uc.sessions.Save(ctx, conv, uc.config.SessionTTL); err != nil {
		return nil, goerr.Wrap(err, "failed to persist session turn")
	}

	return &ChatResponse{
		SessionID:      conv.SessionID,
		Reply:          reply,
		Suggestions:    suggestions,
		ActionRequired: len(suggestions) > 0,
		State:          conv.State,
	}, nil
}

// ConfirmAppointment books a suggested slot, closes the session and
// reports the booking details.
func (uc *Chatbot) ConfirmAppointment(ctx context.Context, sessionID types.SessionID, availabilityID types.AvailabilityID) (*ConfirmResponse, error) {
	unlock := uc.lockSession(sessionID)
	defer unlock()

	conv, err := uc.loadActive(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result, err := uc.registry.Execute(ctx, functions.FuncConfirmAppointment, map[string]any{
		"availabilityId": int64(availabilityID),
		"subjectId":      conv.SubjectID,
	})
	if err != nil {
		return nil, err
	}

	confirmation, err := parseConfirmation(result)
	if err != nil {
		return nil, err
	}

	conv.AddMessage(model.NewAssistantMessage(confirmation.Message + " " + followUpNote))

	if err := conv.TransitionTo(types.StateCompleted); err != nil {
		return nil, err
	}
	if err := uc.sessions.Save(ctx, conv, uc.config.SessionTTL); err != nil {
		return nil, goerr.Wrap(err, "failed to persist confirmed session")
	}

	uc.emitAudit(ctx, &model.AuditEvent{
		Type:        model.AuditEventAppointmentConfirmed,
		ActorID:     conv.ActorID,
		Description: "Cita confirmada por el asistente",
		Category:    "APPOINTMENT",
		TargetID:    targetID(fmt.Sprintf("%d", confirmation.AppointmentID)),
		Metadata: map[string]any{
			"sessionId":      sessionID.String(),
			"availabilityId": int64(availabilityID),
			"subjectId":      conv.SubjectID,
		},
	})

	return &ConfirmResponse{
		SessionID:     sessionID,
		AppointmentID: confirmation.AppointmentID,
		Message:       confirmation.Message,
		FollowUpNote:  followUpNote,
		State:         conv.State,
	}, nil
}

// GetHistory returns the full message transcript of a session.
func (uc *Chatbot) GetHistory(ctx context.Context, sessionID types.SessionID) ([]model.Message, error) {
	conv, err := uc.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return conv.Messages, nil
}

// EndConversation discards a session. Ending an absent session is a
// no-op.
func (uc *Chatbot) EndConversation(ctx context.Context, sessionID types.SessionID) error {
	unlock := uc.lockSession(sessionID)
	defer unlock()

	if err := uc.sessions.Clear(ctx, sessionID); err != nil {
		return goerr.Wrap(err, "failed to clear session",
			goerr.V("sessionID", sessionID),
		)
	}

	uc.mu.Lock()
	delete(uc.locks, sessionID)
	uc.mu.Unlock()
	return nil
}

// runTurn resolves the prompt, executes one LLM turn over the given
// message window and extracts slot suggestions from the recorded
// invocations.
func (uc *Chatbot) runTurn(ctx context.Context, conv *model.ConversationContext, window []model.Message) (string, []model.AvailabilitySuggestion, error) {
	systemPrompt, err := uc.prompts.Fill(uc.templateID(conv.Kind), map[string]string{
		"subjectId":   conv.SubjectID,
		"currentDate": time.Now().UTC().Format("2006-01-02"),
	})
	if err != nil {
		return "", nil, err
	}

	opts := interfaces.ChatOptions{
		Temperature: uc.config.Temperature,
		MaxTokens:   uc.config.MaxTokens,
	}

	if !uc.gateway.SupportsTools() {
		reply, err := uc.gateway.Chat(ctx, window, systemPrompt, opts)
		return reply, nil, err
	}

	result, err := uc.gateway.ChatWithTools(ctx, window, systemPrompt, uc.registry.Definitions(), opts)
	if err != nil {
		return "", nil, err
	}

	return result.Text, suggestionsFromInvocations(ctx, result.Invocations), nil
}

func (uc *Chatbot) templateID(kind types.ConversationKind) string {
	switch kind {
	case types.KindDiagnosticAssist:
		return "diagnostic-assist-v1"
	case types.KindImageAnalysis:
		return "image-analysis-v1"
	case types.KindReportGeneration:
		return "report-generation-v1"
	case types.KindGeneral:
		return "general-assistant-v1"
	default:
		return uc.config.TemplateID
	}
}

func (uc *Chatbot) load(ctx context.Context, sessionID types.SessionID) (*model.ConversationContext, error) {
	conv, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load session",
			goerr.V("sessionID", sessionID),
		)
	}
	if conv == nil {
		return nil, goerr.Wrap(types.ErrContextInvalid, "session not found or expired",
			goerr.V("sessionID", sessionID),
		)
	}
	return conv, nil
}

// loadActive additionally rejects sessions that reached a terminal
// state.
func (uc *Chatbot) loadActive(ctx context.Context, sessionID types.SessionID) (*model.ConversationContext, error) {
	conv, err := uc.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if conv.State.IsTerminal() {
		return nil, goerr.Wrap(types.ErrContextInvalid, "session is no longer active",
			goerr.V("sessionID", sessionID),
			goerr.V("state", conv.State),
		)
	}
	return conv, nil
}

func (uc *Chatbot) lockSession(sessionID types.SessionID) func() {
	uc.mu.Lock()
	lock, ok := uc.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		uc.locks[sessionID] = lock
	}
	uc.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// emitAudit records an event without blocking or failing the caller.
func (uc *Chatbot) emitAudit(ctx context.Context, event *model.AuditEvent) {
	async.Dispatch(ctx, func(ctx context.Context) error {
		if _, err := uc.audit.RecordEvent(ctx, event); err != nil {
			logging.From(ctx).Warn("failed to record audit event",
				"type", event.Type,
				"error", err.Error(),
			)
		}
		return nil
	})
}

func targetID(id string) *string {
	return &id
}
