package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cenate-lab/citabot/pkg/domain/types"
	"github.com/cenate-lab/citabot/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
)

type startConversationRequest struct {
	Kind      string `json:"kind"`
	SubjectID string `json:"subjectId"`
	ActorID   int64  `json:"actorId"`
	Message   string `json:"message"`
}

type continueConversationRequest struct {
	Message string `json:"message"`
}

type confirmAppointmentRequest struct {
	AvailabilityID int64 `json:"availabilityId"`
}

func (s *Server) handleStartConversation(w http.ResponseWriter, r *http.Request) {
	var req startConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	kind := types.ConversationKind(req.Kind)
	if req.Kind == "" {
		kind = types.KindAvailabilitySearch
	}

	resp, err := s.uc.StartConversation(r.Context(), kind, req.SubjectID, req.ActorID, req.Message)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusCreated, resp)
}

func (s *Server) handleContinueConversation(w http.ResponseWriter, r *http.Request) {
	sessionID := types.SessionID(chi.URLParam(r, "sessionID"))

	var req continueConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	resp, err := s.uc.ContinueConversation(r.Context(), sessionID, req.Message)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleConfirmAppointment(w http.ResponseWriter, r *http.Request) {
	sessionID := types.SessionID(chi.URLParam(r, "sessionID"))

	var req confirmAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	resp, err := s.uc.ConfirmAppointment(r.Context(), sessionID, types.AvailabilityID(req.AvailabilityID))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := types.SessionID(chi.URLParam(r, "sessionID"))

	messages, err := s.uc.GetHistory(r.Context(), sessionID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, map[string]any{
		"sessionId": sessionID,
		"messages":  messages,
	})
}

func (s *Server) handleEndConversation(w http.ResponseWriter, r *http.Request) {
	sessionID := types.SessionID(chi.URLParam(r, "sessionID"))

	if err := s.uc.EndConversation(r.Context(), sessionID); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status": "ok",
	}
	status := http.StatusOK

	if s.gateway != nil {
		available := s.gateway.IsAvailable(r.Context())
		resp["model"] = s.gateway.ModelName()
		resp["llmAvailable"] = available
		if !available {
			resp["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}
	}

	s.respondJSON(w, r, status, resp)
}

func (s *Server) respondJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		_ = errutil.Handle(r.Context(), err, "failed to encode response")
	}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	errutil.HandleHTTP(r.Context(), w, err, statusForError(err))
}

// statusForError maps the domain error taxonomy to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, types.ErrContextInvalid):
		return http.StatusNotFound
	case errors.Is(err, types.ErrLLMService):
		return http.StatusServiceUnavailable
	case errors.Is(err, types.ErrFunctionCall):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrPromptValidation):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
