package srs

import (
	"fmt"
	"time"

	"github.com/bubi/quizpro/internal/errors"
	"github.com/bubi/quizpro/internal/models"
)

// Params tunes the SM-2 family transition. Thresholds and ease deltas are
// configuration; the original balance was never hardcoded here.
type Params struct {
	EaseIncrement float64
	EaseDecrement float64
	MinEase       float64
	MaxEase       float64
}

// DefaultParams returns the standard SM-2 tuning.
func DefaultParams() Params {
	return Params{
		EaseIncrement: 0.1,
		EaseDecrement: 0.2,
		MinEase:       1.3,
		MaxEase:       3.0,
	}
}

const initialEase = 2.5

// NewState initializes scheduling state for a question with no prior
// attempts. The question is immediately due.
func NewState(questionID string, now time.Time) models.MasteryState {
	return models.MasteryState{
		QuestionID:   questionID,
		Repetitions:  0,
		EaseFactor:   initialEase,
		IntervalDays: 0,
		DueAt:        now,
		LapseCount:   0,
		LastCorrect:  false,
		LastSeenAt:   now,
	}
}

// Apply computes the next scheduling state for one answer outcome.
// prev may be nil for a first attempt. Pure and deterministic: identical
// inputs always produce identical output.
func Apply(prev *models.MasteryState, questionID string, correct bool, now time.Time, p Params) models.MasteryState {
	var s models.MasteryState
	if prev != nil {
		s = *prev
	} else {
		s = NewState(questionID, now)
	}

	if correct {
		s.Repetitions++
		s.EaseFactor += p.EaseIncrement
		if s.EaseFactor > p.MaxEase {
			s.EaseFactor = p.MaxEase
		}

		switch {
		case s.Repetitions == 1:
			s.IntervalDays = 1
		case s.Repetitions == 2:
			s.IntervalDays = 6
		default:
			s.IntervalDays = int(float64(s.IntervalDays) * s.EaseFactor)
		}
	} else {
		s.Repetitions = 0
		s.LapseCount++
		// Short interval so the item reappears soon.
		s.IntervalDays = 1
		s.EaseFactor -= p.EaseDecrement
		if s.EaseFactor < p.MinEase {
			s.EaseFactor = p.MinEase
		}
	}

	s.DueAt = now.AddDate(0, 0, s.IntervalDays)
	s.LastCorrect = correct
	s.LastSeenAt = now
	return s
}

// Validate checks a persisted state against its invariants. A violation
// means the stored row was corrupted or hand-edited and is reported as
// an INVALID_STATE error.
func Validate(s models.MasteryState, p Params) error {
	if s.Repetitions < 0 {
		return errors.NewInvalidStateError(s.QuestionID, fmt.Sprintf("repetitions %d is negative", s.Repetitions))
	}
	if s.IntervalDays < 0 {
		return errors.NewInvalidStateError(s.QuestionID, fmt.Sprintf("interval %d days is negative", s.IntervalDays))
	}
	if s.LapseCount < 0 {
		return errors.NewInvalidStateError(s.QuestionID, fmt.Sprintf("lapse count %d is negative", s.LapseCount))
	}
	if s.EaseFactor < p.MinEase || s.EaseFactor > p.MaxEase {
		return errors.NewInvalidStateError(s.QuestionID, fmt.Sprintf("ease factor %.2f outside [%.2f, %.2f]", s.EaseFactor, p.MinEase, p.MaxEase))
	}
	if s.DueAt.IsZero() || s.LastSeenAt.IsZero() {
		return errors.NewInvalidStateError(s.QuestionID, "missing due or last-seen timestamp")
	}
	return nil
}

// Sanitize returns the state unchanged when valid, or a fresh new-question
// state when an invariant is violated. Losing scheduling optimality is
// preferable to blocking study on corrupted state.
func Sanitize(s models.MasteryState, now time.Time, p Params) (models.MasteryState, error) {
	if err := Validate(s, p); err != nil {
		return NewState(s.QuestionID, now), err
	}
	return s, nil
}
