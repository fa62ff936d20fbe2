package api

import (
	"net/http"
)

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := s.Questions.Topics(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string][]string{"topics": topics})
}

func (s *Server) handleSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := s.Questions.Subjects(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string][]string{"subjects": subjects})
}
