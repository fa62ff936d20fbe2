package api

import (
	"net/http"

	"github.com/bubi/quizpro/internal/services"
)

func (s *Server) handleRecordAttempt(w http.ResponseWriter, r *http.Request) {
	var input services.AttemptInput
	if err := decodeJSON(r, &input); err != nil {
		handleError(w, r, err)
		return
	}

	outcome, err := s.Reviews.RecordAttempt(r.Context(), input)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusCreated, outcome)
}
