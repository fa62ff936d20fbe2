package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bubi/quizpro/internal/logger"
	"github.com/bubi/quizpro/internal/services"
)

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req services.CreateSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	session, err := s.Sessions.CreateSession(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusCreated, session)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	session, err := s.Sessions.GetSession(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, session)
}

func (s *Server) handleNextQuestion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	log := logger.FromContext(r.Context())

	question, err := s.Sessions.NextQuestion(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if question == nil {
		log.Debug("session %s exhausted", id)
		respondJSON(w, r, http.StatusOK, map[string]any{"done": true})
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{"done": false, "question": question})
}

func (s *Server) handleFinishSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	summary, err := s.Sessions.FinishSession(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, summary)
}
