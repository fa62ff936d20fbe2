package services

import (
	"context"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/bubi/quizpro/internal/config"
	"github.com/bubi/quizpro/internal/errors"
	"github.com/bubi/quizpro/internal/logger"
	"github.com/bubi/quizpro/internal/models"
	"github.com/bubi/quizpro/internal/repository"
	"github.com/bubi/quizpro/internal/scheduler"
	"github.com/bubi/quizpro/internal/srs"
)

// CreateSessionRequest carries the parameters for building a session.
type CreateSessionRequest struct {
	Mode              models.SessionMode    `json:"mode"`
	Filter            models.QuestionFilter `json:"filter"`
	Limit             int                   `json:"limit,omitempty"`
	TimeBudgetSeconds int                   `json:"time_budget_seconds,omitempty"`
	Seed              int64                 `json:"seed,omitempty"`
}

// SessionService builds and tracks quiz sessions. Sessions live in
// memory only; answered questions are already durable, so losing a
// session loses just the cursor position.
type SessionService interface {
	CreateSession(ctx context.Context, req CreateSessionRequest) (*models.Session, error)
	GetSession(ctx context.Context, id string) (*models.Session, error)
	// NextQuestion returns nil when the session is exhausted.
	NextQuestion(ctx context.Context, id string) (*models.Question, error)
	FinishSession(ctx context.Context, id string) (*models.SessionSummary, error)
	ClassifyPools(ctx context.Context, filter models.QuestionFilter) (scheduler.Pools, error)
}

type sessionService struct {
	questions repository.QuestionRepository
	progress  repository.ProgressRepository
	cfg       config.Config
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*models.Session
}

// NewSessionService creates a new SessionService
func NewSessionService(questions repository.QuestionRepository, progress repository.ProgressRepository, cfg config.Config) SessionService {
	return &sessionService{
		questions: questions,
		progress:  progress,
		cfg:       cfg,
		now:       time.Now,
		sessions:  make(map[string]*models.Session),
	}
}

func (s *sessionService) CreateSession(ctx context.Context, req CreateSessionRequest) (*models.Session, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating session: mode=%s filter=%+v limit=%d", req.Mode, req.Filter, req.Limit)

	if req.Mode == "" {
		req.Mode = models.ModeNormal
	}
	if !req.Mode.Valid() {
		return nil, errors.NewValidationError("mode", "unknown session mode")
	}
	if req.Limit < 0 {
		return nil, errors.NewValidationError("limit", "must not be negative")
	}
	if req.TimeBudgetSeconds < 0 {
		return nil, errors.NewValidationError("time_budget_seconds", "must not be negative")
	}

	candidates, states, err := s.loadCandidates(ctx, req.Filter)
	if err != nil {
		return nil, err
	}

	now := s.now()
	budget := time.Duration(req.TimeBudgetSeconds) * time.Second

	in := scheduler.BuildInput{
		Mode:            req.Mode,
		Candidates:      candidates,
		States:          states,
		Now:             now,
		Limit:           req.Limit,
		TimeBudget:      budget,
		Seed:            req.Seed,
		IncludeMastered: s.cfg.ExamIncludeMastered,
	}
	if req.Mode == models.ModeExam && budget > 0 {
		cost, err := s.costEstimator(ctx, candidates)
		if err != nil {
			return nil, err
		}
		in.Cost = cost
	}

	result, err := scheduler.Build(in, s.thresholds())
	if err != nil {
		return nil, err
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	session := &models.Session{
		ID:          id,
		Mode:        req.Mode,
		Filter:      req.Filter,
		QuestionIDs: result.QuestionIDs,
		TimeBudget:  budget,
		Deadline:    result.Deadline,
		CreatedAt:   now,
	}

	s.mu.Lock()
	s.sessions[id] = session
	s.mu.Unlock()

	log.Info("session created: id=%s mode=%s questions=%d", id, req.Mode, len(result.QuestionIDs))
	return snapshot(session), nil
}

func (s *sessionService) GetSession(ctx context.Context, id string) (*models.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.NewNotFoundError("session", id)
	}
	return snapshot(session), nil
}

func (s *sessionService) NextQuestion(ctx context.Context, id string) (*models.Question, error) {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	session, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return nil, errors.NewNotFoundError("session", id)
	}
	if session.Expired(s.now()) {
		s.mu.Unlock()
		return nil, errors.NewBadRequestError("session time budget exhausted")
	}
	if session.Cursor >= len(session.QuestionIDs) {
		s.mu.Unlock()
		log.Debug("session exhausted: id=%s", id)
		return nil, nil
	}
	cursor := session.Cursor
	questionID := session.QuestionIDs[cursor]
	s.mu.Unlock()

	question, err := s.questions.Get(ctx, questionID)
	if err != nil {
		// The slot is not consumed; a retry serves the same question.
		log.Error("failed to load scheduled question: %v", err)
		return nil, errors.NewInternalError(err)
	}

	s.advanceCursor(id, cursor)

	if question == nil {
		// Scheduling state referenced a question the store no longer has.
		// Surfaced as a data-integrity error, never silently skipped.
		log.Error("scheduled question missing from store: id=%s", questionID)
		return nil, errors.NewMissingQuestionError(questionID)
	}
	return question, nil
}

// advanceCursor consumes one slot, unless a concurrent call already did.
func (s *sessionService) advanceCursor(id string, from int) {
	s.mu.Lock()
	if session, ok := s.sessions[id]; ok && session.Cursor == from {
		session.Cursor = from + 1
	}
	s.mu.Unlock()
}

func (s *sessionService) FinishSession(ctx context.Context, id string) (*models.SessionSummary, error) {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	session, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()
	if !ok {
		return nil, errors.NewNotFoundError("session", id)
	}

	attempts, err := s.progress.ListAttempts(ctx, models.TimeRange{From: session.CreatedAt})
	if err != nil {
		log.Error("failed to load session attempts: %v", err)
		return nil, errors.NewInternalError(err)
	}

	summary := &models.SessionSummary{
		SessionID:      session.ID,
		Mode:           session.Mode,
		QuestionsTotal: len(session.QuestionIDs),
		Remaining:      session.Remaining(),
	}
	for _, a := range attempts {
		if a.SessionID != session.ID {
			continue
		}
		summary.Answered++
		if a.Correct {
			summary.Correct++
		}
	}
	if summary.Answered > 0 {
		summary.Accuracy = float64(summary.Correct) / float64(summary.Answered)
	}
	summary.DurationSeconds = s.now().Sub(session.CreatedAt).Seconds()

	log.Info("session finished: id=%s answered=%d correct=%d", id, summary.Answered, summary.Correct)
	return summary, nil
}

func (s *sessionService) ClassifyPools(ctx context.Context, filter models.QuestionFilter) (scheduler.Pools, error) {
	candidates, states, err := s.loadCandidates(ctx, filter)
	if err != nil {
		return scheduler.Pools{}, err
	}
	return scheduler.Classify(candidates, states, s.now(), s.thresholds()), nil
}

// loadCandidates resolves the filter and reloads mastery states at
// classification time so concurrent attempts are picked up.
func (s *sessionService) loadCandidates(ctx context.Context, filter models.QuestionFilter) ([]string, map[string]models.MasteryState, error) {
	log := logger.FromContext(ctx)

	candidates, err := s.questions.Find(ctx, filter)
	if err != nil {
		return nil, nil, errors.NewInternalError(err)
	}
	states, err := s.progress.StatesFor(ctx, candidates)
	if err != nil {
		return nil, nil, errors.NewInternalError(err)
	}

	now := s.now()
	for id, state := range states {
		clean, verr := srs.Sanitize(state, now, s.params())
		if verr != nil {
			// The row classifies as new until the next recorded attempt
			// rewrites it.
			log.Warn("treating invalid mastery state as new: %v", verr)
			delete(states, id)
			continue
		}
		states[id] = clean
	}
	return candidates, states, nil
}

func (s *sessionService) params() srs.Params {
	return srs.Params{
		EaseIncrement: s.cfg.EaseIncrement,
		EaseDecrement: s.cfg.EaseDecrement,
		MinEase:       s.cfg.MinEase,
		MaxEase:       s.cfg.MaxEase,
	}
}

func (s *sessionService) costEstimator(ctx context.Context, candidates []string) (func(string) time.Duration, error) {
	types := make(map[string]models.QuestionType, len(candidates))
	for _, id := range candidates {
		q, err := s.questions.Get(ctx, id)
		if err != nil {
			return nil, errors.NewInternalError(err)
		}
		if q != nil {
			types[id] = q.Type
		}
	}

	mc := time.Duration(s.cfg.MultipleChoiceSeconds) * time.Second
	text := time.Duration(s.cfg.TextSeconds) * time.Second
	return func(id string) time.Duration {
		if types[id] == models.TypeText {
			return text
		}
		return mc
	}, nil
}

func (s *sessionService) thresholds() scheduler.Thresholds {
	return scheduler.Thresholds{
		WeakThreshold:     s.cfg.WeakThreshold,
		MasteredThreshold: s.cfg.MasteredThreshold,
	}
}

// snapshot copies a session so callers never share the mutable registry
// entry.
func snapshot(s *models.Session) *models.Session {
	copied := *s
	copied.QuestionIDs = append([]string(nil), s.QuestionIDs...)
	return &copied
}
