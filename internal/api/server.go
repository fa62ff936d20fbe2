package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bubi/quizpro/internal/db"
	"github.com/bubi/quizpro/internal/services"
)

// Server bundles the HTTP handlers and their dependencies.
type Server struct {
	DB        *db.DB
	Sessions  services.SessionService
	Reviews   services.ReviewService
	Stats     services.StatsService
	Imports   services.ImportService
	Questions services.QuestionService
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Post("/sessions", s.handleCreateSession)
	r.Get("/sessions/{id}", s.handleGetSession)
	r.Get("/sessions/{id}/next", s.handleNextQuestion)
	r.Post("/sessions/{id}/finish", s.handleFinishSession)

	r.Post("/attempts", s.handleRecordAttempt)

	r.Get("/classify", s.handleClassify)
	r.Get("/stats", s.handleStats)

	r.Get("/topics", s.handleTopics)
	r.Get("/subjects", s.handleSubjects)

	r.Post("/import", s.handleImport)
	r.Post("/import/scan", s.handleImportScan)

	return r
}
