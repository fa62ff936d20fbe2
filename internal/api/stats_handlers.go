package api

import (
	"net/http"
	"time"

	"github.com/bubi/quizpro/internal/errors"
	"github.com/bubi/quizpro/internal/models"
)

func scopeFromQuery(r *http.Request) models.StatsScope {
	q := r.URL.Query()
	return models.StatsScope{
		Topic:      q.Get("topic"),
		Difficulty: models.Difficulty(q.Get("difficulty")),
		SessionID:  q.Get("session_id"),
	}
}

func filterFromQuery(r *http.Request) models.QuestionFilter {
	q := r.URL.Query()
	return models.QuestionFilter{
		Subject:    q.Get("subject"),
		Topic:      q.Get("topic"),
		Difficulty: models.Difficulty(q.Get("difficulty")),
		Type:       models.QuestionType(q.Get("type")),
	}
}

// timeRangeFromQuery parses optional RFC 3339 from/to bounds.
func timeRangeFromQuery(r *http.Request) (models.TimeRange, error) {
	var tr models.TimeRange
	q := r.URL.Query()
	if v := q.Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return tr, errors.NewValidationError("from", "must be an RFC 3339 timestamp")
		}
		tr.From = t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return tr, errors.NewValidationError("to", "must be an RFC 3339 timestamp")
		}
		tr.To = t
	}
	return tr, nil
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	tr, err := timeRangeFromQuery(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	summary, err := s.Stats.Summary(r.Context(), scopeFromQuery(r), tr)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, summary)
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	pools, err := s.Sessions.ClassifyPools(r.Context(), filterFromQuery(r))
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, pools)
}
