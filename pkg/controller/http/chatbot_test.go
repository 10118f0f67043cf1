package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	controller "github.com/cenate-lab/citabot/pkg/controller/http"
	"github.com/cenate-lab/citabot/pkg/domain/model"
	"github.com/cenate-lab/citabot/pkg/domain/types"
	"github.com/cenate-lab/citabot/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

// mockChatbot is a scriptable ChatbotUseCase for controller tests
type mockChatbot struct {
	startFn    func(ctx context.Context, kind types.ConversationKind, subjectID string, actorID int64, message string) (*usecase.ChatResponse, error)
	continueFn func(ctx context.Context, sessionID types.SessionID, message string) (*usecase.ChatResponse, error)
	confirmFn  func(ctx context.Context, sessionID types.SessionID, availabilityID types.AvailabilityID) (*usecase.ConfirmResponse, error)
	historyFn  func(ctx context.Context, sessionID types.SessionID) ([]model.Message, error)
	endFn      func(ctx context.Context, sessionID types.SessionID) error
}

func (m *mockChatbot) StartConversation(ctx context.Context, kind types.ConversationKind, subjectID string, actorID int64, message string) (*usecase.ChatResponse, error) {
	if m.startFn != nil {
		return m.startFn(ctx, kind, subjectID, actorID, message)
	}
	return &usecase.ChatResponse{SessionID: "session-1", Reply: "hola", State: types.StateActive}, nil
}

func (m *mockChatbot) ContinueConversation(ctx context.Context, sessionID types.SessionID, message string) (*usecase.ChatResponse, error) {
	if m.continueFn != nil {
		return m.continueFn(ctx, sessionID, message)
	}
	return &usecase.ChatResponse{SessionID: sessionID, Reply: "sigo aquí", State: types.StateActive}, nil
}

func (m *mockChatbot) ConfirmAppointment(ctx context.Context, sessionID types.SessionID, availabilityID types.AvailabilityID) (*usecase.ConfirmResponse, error) {
	if m.confirmFn != nil {
		return m.confirmFn(ctx, sessionID, availabilityID)
	}
	return &usecase.ConfirmResponse{SessionID: sessionID, AppointmentID: 1, Message: "confirmada", State: types.StateCompleted}, nil
}

func (m *mockChatbot) GetHistory(ctx context.Context, sessionID types.SessionID) ([]model.Message, error) {
	if m.historyFn != nil {
		return m.historyFn(ctx, sessionID)
	}
	return []model.Message{model.NewUserMessage("hola")}, nil
}

func (m *mockChatbot) EndConversation(ctx context.Context, sessionID types.SessionID) error {
	if m.endFn != nil {
		return m.endFn(ctx, sessionID)
	}
	return nil
}

type mockHealthGateway struct {
	available bool
}

func (m *mockHealthGateway) IsAvailable(ctx context.Context) bool { return m.available }
func (m *mockHealthGateway) ModelName() string                    { return "mock-model" }

func doJSON(t *testing.T, server *controller.Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		gt.NoError(t, json.NewEncoder(&buf).Encode(body)).Required()
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func TestStartConversationEndpoint(t *testing.T) {
	t.Run("creates a session", func(t *testing.T) {
		var gotKind types.ConversationKind
		var gotSubject string
		uc := &mockChatbot{
			startFn: func(ctx context.Context, kind types.ConversationKind, subjectID string, actorID int64, message string) (*usecase.ChatResponse, error) {
				gotKind = kind
				gotSubject = subjectID
				return &usecase.ChatResponse{SessionID: "session-9", Reply: "bienvenido", State: types.StateActive}, nil
			},
		}
		server := controller.New(uc)

		w := doJSON(t, server, http.MethodPost, "/api/chatbot/conversations", map[string]any{
			"subjectId": "12345678",
			"actorId":   42,
			"message":   "necesito una cita",
		})

		gt.Value(t, w.Code).Equal(http.StatusCreated)
		gt.Value(t, gotKind).Equal(types.KindAvailabilitySearch)
		gt.Value(t, gotSubject).Equal("12345678")

		var resp usecase.ChatResponse
		gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp)).Required()
		gt.Value(t, resp.SessionID).Equal(types.SessionID("session-9"))
		gt.Value(t, resp.Reply).Equal("bienvenido")
	})

	t.Run("honors an explicit kind", func(t *testing.T) {
		var gotKind types.ConversationKind
		uc := &mockChatbot{
			startFn: func(ctx context.Context, kind types.ConversationKind, subjectID string, actorID int64, message string) (*usecase.ChatResponse, error) {
				gotKind = kind
				return &usecase.ChatResponse{SessionID: "s", State: types.StateActive}, nil
			},
		}
		server := controller.New(uc)

		w := doJSON(t, server, http.MethodPost, "/api/chatbot/conversations", map[string]any{
			"kind":      "GENERAL",
			"subjectId": "1",
			"message":   "hola",
		})
		gt.Value(t, w.Code).Equal(http.StatusCreated)
		gt.Value(t, gotKind).Equal(types.KindGeneral)
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		server := controller.New(&mockChatbot{})

		req := httptest.NewRequest(http.MethodPost, "/api/chatbot/conversations", bytes.NewBufferString("{not json"))
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)
		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
	})
}

func TestErrorTaxonomyMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		expected int
	}{
		{"unknown session maps to 404", goerr.Wrap(types.ErrContextInvalid, "not found"), http.StatusNotFound},
		{"provider outage maps to 503", goerr.Wrap(types.ErrLLMService, "down"), http.StatusServiceUnavailable},
		{"function failure maps to 400", goerr.Wrap(types.ErrFunctionCall, "bad slot"), http.StatusBadRequest},
		{"prompt failure maps to 500", goerr.Wrap(types.ErrPromptValidation, "bad template"), http.StatusInternalServerError},
		{"unclassified failure maps to 500", goerr.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := &mockChatbot{
				continueFn: func(ctx context.Context, sessionID types.SessionID, message string) (*usecase.ChatResponse, error) {
					return nil, tc.err
				},
			}
			server := controller.New(uc)

			w := doJSON(t, server, http.MethodPost, "/api/chatbot/conversations/abc/messages", map[string]any{
				"message": "hola",
			})
			gt.Value(t, w.Code).Equal(tc.expected)
		})
	}
}

func TestConfirmEndpoint(t *testing.T) {
	var gotSession types.SessionID
	var gotSlot types.AvailabilityID
	uc := &mockChatbot{
		confirmFn: func(ctx context.Context, sessionID types.SessionID, availabilityID types.AvailabilityID) (*usecase.ConfirmResponse, error) {
			gotSession = sessionID
			gotSlot = availabilityID
			return &usecase.ConfirmResponse{
				SessionID:     sessionID,
				AppointmentID: 77,
				Message:       "Su cita fue confirmada",
				FollowUpNote:  "Revise su correo electrónico para las indicaciones de la teleconsulta.",
				State:         types.StateCompleted,
			}, nil
		},
	}
	server := controller.New(uc)

	w := doJSON(t, server, http.MethodPost, "/api/chatbot/conversations/sess-7/confirm", map[string]any{
		"availabilityId": 1001,
	})

	gt.Value(t, w.Code).Equal(http.StatusOK)
	gt.Value(t, gotSession).Equal(types.SessionID("sess-7"))
	gt.Value(t, gotSlot).Equal(types.AvailabilityID(1001))

	var resp usecase.ConfirmResponse
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp)).Required()
	gt.Value(t, resp.AppointmentID).Equal(types.AppointmentID(77))
	gt.String(t, resp.FollowUpNote).NotEqual("")
	gt.Value(t, resp.State).Equal(types.StateCompleted)
}

func TestHistoryEndpoint(t *testing.T) {
	uc := &mockChatbot{
		historyFn: func(ctx context.Context, sessionID types.SessionID) ([]model.Message, error) {
			return []model.Message{
				model.NewUserMessage("hola"),
				model.NewAssistantMessage("buenos días"),
			}, nil
		},
	}
	server := controller.New(uc)

	w := doJSON(t, server, http.MethodGet, "/api/chatbot/conversations/sess-1/history", nil)
	gt.Value(t, w.Code).Equal(http.StatusOK)

	var resp struct {
		SessionID string          `json:"sessionId"`
		Messages  []model.Message `json:"messages"`
	}
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp)).Required()
	gt.Value(t, resp.SessionID).Equal("sess-1")
	gt.Array(t, resp.Messages).Length(2)
}

func TestEndConversationEndpoint(t *testing.T) {
	var ended types.SessionID
	uc := &mockChatbot{
		endFn: func(ctx context.Context, sessionID types.SessionID) error {
			ended = sessionID
			return nil
		},
	}
	server := controller.New(uc)

	w := doJSON(t, server, http.MethodDelete, "/api/chatbot/conversations/sess-3", nil)
	gt.Value(t, w.Code).Equal(http.StatusNoContent)
	gt.Value(t, ended).Equal(types.SessionID("sess-3"))
}

func TestHealthEndpoint(t *testing.T) {
	t.Run("healthy when the gateway responds", func(t *testing.T) {
		server := controller.New(&mockChatbot{},
			controller.WithHealthGateway(&mockHealthGateway{available: true}),
		)

		w := doJSON(t, server, http.MethodGet, "/api/chatbot/health", nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)

		var resp map[string]any
		gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp)).Required()
		gt.Value(t, resp["status"]).Equal("ok")
		gt.Value(t, resp["model"]).Equal("mock-model")
		gt.Value(t, resp["llmAvailable"]).Equal(true)
	})

	t.Run("degraded when the gateway is down", func(t *testing.T) {
		server := controller.New(&mockChatbot{},
			controller.WithHealthGateway(&mockHealthGateway{available: false}),
		)

		w := doJSON(t, server, http.MethodGet, "/api/chatbot/health", nil)
		gt.Value(t, w.Code).Equal(http.StatusServiceUnavailable)

		var resp map[string]any
		gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp)).Required()
		gt.Value(t, resp["status"]).Equal("degraded")
	})
}
