package services

import (
	"context"
	"time"

	"github.com/bubi/quizpro/internal/config"
	"github.com/bubi/quizpro/internal/errors"
	"github.com/bubi/quizpro/internal/grader"
	"github.com/bubi/quizpro/internal/logger"
	"github.com/bubi/quizpro/internal/models"
	"github.com/bubi/quizpro/internal/repository"
	"github.com/bubi/quizpro/internal/srs"
)

// AttemptInput is one submitted answer. Correct, when set, records an
// externally graded outcome and bypasses the built-in grader; otherwise
// Response is graded against the question.
type AttemptInput struct {
	QuestionID  string  `json:"question_id"`
	SessionID   string  `json:"session_id,omitempty"`
	Response    string  `json:"response"`
	Correct     *bool   `json:"correct,omitempty"`
	TimeSeconds float64 `json:"time_seconds,omitempty"`
}

// AttemptOutcome reports the graded answer and the updated scheduling
// state.
type AttemptOutcome struct {
	Result      grader.Result       `json:"result"`
	State       models.MasteryState `json:"state"`
	Explanation string              `json:"explanation,omitempty"`
	ModelAnswer string              `json:"model_answer,omitempty"`
}

// ReviewService grades answers and advances mastery state
type ReviewService interface {
	RecordAttempt(ctx context.Context, input AttemptInput) (*AttemptOutcome, error)
}

type reviewService struct {
	questions repository.QuestionRepository
	progress  repository.ProgressRepository
	grader    grader.Grader
	params    srs.Params
	now       func() time.Time
}

// NewReviewService creates a new ReviewService
func NewReviewService(questions repository.QuestionRepository, progress repository.ProgressRepository, cfg config.Config) ReviewService {
	return &reviewService{
		questions: questions,
		progress:  progress,
		grader:    grader.New(),
		params: srs.Params{
			EaseIncrement: cfg.EaseIncrement,
			EaseDecrement: cfg.EaseDecrement,
			MinEase:       cfg.MinEase,
			MaxEase:       cfg.MaxEase,
		},
		now: time.Now,
	}
}

func (s *reviewService) RecordAttempt(ctx context.Context, input AttemptInput) (*AttemptOutcome, error) {
	log := logger.FromContext(ctx)
	log.Debug("recording attempt: question_id=%s session_id=%s", input.QuestionID, input.SessionID)

	if input.QuestionID == "" {
		return nil, errors.NewValidationError("question_id", "cannot be empty")
	}
	if input.TimeSeconds < 0 {
		return nil, errors.NewValidationError("time_seconds", "must not be negative")
	}

	question, err := s.questions.Get(ctx, input.QuestionID)
	if err != nil {
		log.Error("failed to load question: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if question == nil {
		return nil, errors.NewNotFoundError("question", input.QuestionID)
	}

	var result grader.Result
	if input.Correct != nil {
		result = grader.Result{Correct: *input.Correct}
		if result.Correct {
			result.Score = 1
		}
	} else {
		result, err = s.grader.Grade(*question, input.Response)
		if err != nil {
			return nil, err
		}
	}

	now := s.now()

	prev, err := s.progress.GetState(ctx, input.QuestionID)
	if err != nil {
		log.Error("failed to load mastery state: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if prev != nil {
		clean, verr := srs.Sanitize(*prev, now, s.params)
		if verr != nil {
			// Corrupted state resets to new instead of blocking the study flow.
			log.Warn("resetting invalid mastery state for %s: %v", input.QuestionID, verr)
			prev = nil
		} else {
			prev = &clean
		}
	}

	state := srs.Apply(prev, input.QuestionID, result.Correct, now, s.params)
	attempt := models.AttemptRecord{
		QuestionID:  input.QuestionID,
		SessionID:   input.SessionID,
		Correct:     result.Correct,
		Response:    input.Response,
		TimeSeconds: input.TimeSeconds,
		AnsweredAt:  now,
	}

	if err := s.progress.RecordOutcome(ctx, state, attempt); err != nil {
		log.Error("failed to persist attempt outcome: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Debug("attempt recorded: correct=%t repetitions=%d due_at=%s", result.Correct, state.Repetitions, state.DueAt.Format(time.RFC3339))

	outcome := &AttemptOutcome{Result: result, State: state, Explanation: question.Explanation}
	if question.Type == models.TypeText {
		outcome.ModelAnswer = question.ModelAnswer
	}
	return outcome, nil
}
