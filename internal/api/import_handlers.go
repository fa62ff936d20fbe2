package api

import (
	"io"
	"net/http"

	"github.com/bubi/quizpro/internal/errors"
)

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("cannot read request body: "+err.Error()))
		return
	}

	count, err := s.Imports.ImportPayload(r.Context(), raw)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusCreated, map[string]any{"imported": count})
}

func (s *Server) handleImportScan(w http.ResponseWriter, r *http.Request) {
	if err := s.Imports.ScanQuestionsDir(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusAccepted, map[string]any{"status": "scan queued"})
}
