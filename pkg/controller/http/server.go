package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cenate-lab/citabot/pkg/domain/model"
	"github.com/cenate-lab/citabot/pkg/domain/types"
	"github.com/cenate-lab/citabot/pkg/usecase"
	"github.com/cenate-lab/citabot/pkg/utils/logging"
)

// ChatbotUseCase is the orchestrator surface the controller depends on.
type ChatbotUseCase interface {
	StartConversation(ctx context.Context, kind types.ConversationKind, subjectID string, actorID int64, message string) (*usecase.ChatResponse, error)
	ContinueConversation(ctx context.Context, sessionID types.SessionID, message string) (*usecase.ChatResponse, error)
	ConfirmAppointment(ctx context.Context, sessionID types.SessionID, availabilityID types.AvailabilityID) (*usecase.ConfirmResponse, error)
	GetHistory(ctx context.Context, sessionID types.SessionID) ([]model.Message, error)
	EndConversation(ctx context.Context, sessionID types.SessionID) error
}

// HealthGateway is the gateway surface of the health endpoint.
type HealthGateway interface {
	IsAvailable(ctx context.Context) bool
	ModelName() string
}

type Server struct {
	router  *chi.Mux
	uc      ChatbotUseCase
	gateway HealthGateway
}

type Options func(*Server)

// WithHealthGateway wires the LLM gateway into the health endpoint.
func WithHealthGateway(gateway HealthGateway) Options {
	return func(s *Server) {
		s.gateway = gateway
	}
}

func New(uc ChatbotUseCase, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api/chatbot", func(r chi.Router) {
		r.Post("/conversations", s.handleStartConversation)
		r.Route("/conversations/{sessionID}", func(r chi.Router) {
			r.Post("/messages", s.handleContinueConversation)
			r.Post("/confirm", s.handleConfirmAppointment)
			r.Get("/history", s.handleGetHistory)
			r.Delete("/", s.handleEndConversation)
		})
		r.Get("/health", s.handleHealth)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
