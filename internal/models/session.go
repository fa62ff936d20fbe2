package models

import "time"

// SessionMode selects the question-selection policy.
type SessionMode string

const (
	ModeNormal           SessionMode = "normal"
	ModeWeakSpots        SessionMode = "weak_spots"
	ModeSpacedRepetition SessionMode = "spaced_repetition"
	ModeExam             SessionMode = "exam"
)

// Valid reports whether m is a known session mode.
func (m SessionMode) Valid() bool {
	switch m {
	case ModeNormal, ModeWeakSpots, ModeSpacedRepetition, ModeExam:
		return true
	}
	return false
}

// Session is the transient state of one built question sequence.
// Answered questions are already durable; losing a session loses only
// the cursor position.
type Session struct {
	ID          string         `json:"id"`
	Mode        SessionMode    `json:"mode"`
	Filter      QuestionFilter `json:"filter"`
	QuestionIDs []string       `json:"question_ids"`
	Cursor      int            `json:"cursor"`
	TimeBudget  time.Duration  `json:"-"`
	Deadline    *time.Time     `json:"deadline,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Remaining returns how many questions have not been served yet.
func (s *Session) Remaining() int {
	if s.Cursor >= len(s.QuestionIDs) {
		return 0
	}
	return len(s.QuestionIDs) - s.Cursor
}

// Expired reports whether the session deadline has passed.
func (s *Session) Expired(now time.Time) bool {
	return s.Deadline != nil && now.After(*s.Deadline)
}

// SessionSummary is reported when a session finishes. Remaining counts
// scheduled questions that were never served.
type SessionSummary struct {
	SessionID       string      `json:"session_id"`
	Mode            SessionMode `json:"mode"`
	QuestionsTotal  int         `json:"questions_total"`
	Remaining       int         `json:"remaining"`
	Answered        int         `json:"answered"`
	Correct         int         `json:"correct"`
	Accuracy        float64     `json:"accuracy"`
	DurationSeconds float64     `json:"duration_seconds"`
}
