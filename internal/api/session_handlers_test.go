package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bubi/quizpro/internal/errors"
	"github.com/bubi/quizpro/internal/models"
	"github.com/bubi/quizpro/internal/scheduler"
	"github.com/bubi/quizpro/internal/services"
)

// stubSessionService returns canned values for handler tests.
type stubSessionService struct {
	session  *models.Session
	question *models.Question
	summary  *models.SessionSummary
	pools    scheduler.Pools
	err      error
}

func (s *stubSessionService) CreateSession(ctx context.Context, req services.CreateSessionRequest) (*models.Session, error) {
	return s.session, s.err
}

func (s *stubSessionService) GetSession(ctx context.Context, id string) (*models.Session, error) {
	return s.session, s.err
}

func (s *stubSessionService) NextQuestion(ctx context.Context, id string) (*models.Question, error) {
	return s.question, s.err
}

func (s *stubSessionService) FinishSession(ctx context.Context, id string) (*models.SessionSummary, error) {
	return s.summary, s.err
}

func (s *stubSessionService) ClassifyPools(ctx context.Context, filter models.QuestionFilter) (scheduler.Pools, error) {
	return s.pools, s.err
}

func newTestServer(sessions services.SessionService) *Server {
	return &Server{Sessions: sessions}
}

func TestHandleCreateSession_Created(t *testing.T) {
	srv := newTestServer(&stubSessionService{
		session: &models.Session{ID: "s1", Mode: models.ModeNormal, QuestionIDs: []string{"q1"}},
	})

	body := bytes.NewBufferString(`{"mode": "normal"}`)
	req := httptest.NewRequest(http.MethodPost, "/sessions", body)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var got models.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "s1", got.ID)
	assert.Equal(t, []string{"q1"}, got.QuestionIDs)
}

func TestHandleCreateSession_EmptyPoolMapsTo409(t *testing.T) {
	srv := newTestServer(&stubSessionService{err: errors.NewEmptyPoolError("spaced_repetition")})

	body := bytes.NewBufferString(`{"mode": "spaced_repetition"}`)
	req := httptest.NewRequest(http.MethodPost, "/sessions", body)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)

	var payload struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, errors.ErrCodeEmptyPool, payload.Error.Code)
	assert.NotEmpty(t, payload.Error.Message)
}

func TestHandleCreateSession_RejectsUnknownFields(t *testing.T) {
	srv := newTestServer(&stubSessionService{})

	body := bytes.NewBufferString(`{"mode": "normal", "bogus": 1}`)
	req := httptest.NewRequest(http.MethodPost, "/sessions", body)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleNextQuestion_ServesQuestion(t *testing.T) {
	srv := newTestServer(&stubSessionService{
		question: &models.Question{ID: "q1", Type: models.TypeText, Question: "Warum?"},
	})

	req := httptest.NewRequest(http.MethodGet, "/sessions/s1/next", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Done     bool            `json:"done"`
		Question models.Question `json:"question"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.False(t, payload.Done)
	assert.Equal(t, "q1", payload.Question.ID)
}

func TestHandleNextQuestion_Exhausted(t *testing.T) {
	srv := newTestServer(&stubSessionService{question: nil})

	req := httptest.NewRequest(http.MethodGet, "/sessions/s1/next", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Done bool `json:"done"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.True(t, payload.Done)
}

func TestHandleNextQuestion_MissingQuestionMapsTo500(t *testing.T) {
	srv := newTestServer(&stubSessionService{err: errors.NewMissingQuestionError("ghost")})

	req := httptest.NewRequest(http.MethodGet, "/sessions/s1/next", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), errors.ErrCodeMissingQuestion)
}

func TestHandleGetSession_NotFound(t *testing.T) {
	srv := newTestServer(&stubSessionService{err: errors.NewNotFoundError("session", "nope")})

	req := httptest.NewRequest(http.MethodGet, "/sessions/nope", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleFinishSession_ReturnsSummary(t *testing.T) {
	srv := newTestServer(&stubSessionService{
		summary: &models.SessionSummary{SessionID: "s1", Answered: 4, Correct: 3, Accuracy: 0.75},
	})

	req := httptest.NewRequest(http.MethodPost, "/sessions/s1/finish", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got models.SessionSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 4, got.Answered)
	assert.InDelta(t, 0.75, got.Accuracy, 1e-9)
}

func TestHandleClassify_ReturnsPools(t *testing.T) {
	srv := newTestServer(&stubSessionService{
		pools: scheduler.Pools{New: []string{"q1"}, Due: []string{"q2"}},
	})

	req := httptest.NewRequest(http.MethodGet, "/classify?topic=algebra", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var pools scheduler.Pools
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pools))
	assert.Equal(t, []string{"q1"}, pools.New)
	assert.Equal(t, []string{"q2"}, pools.Due)
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(&stubSessionService{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
