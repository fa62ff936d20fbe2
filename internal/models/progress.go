package models

import "time"

// MasteryState is the per-question scheduling state. A question with no
// attempts has no row; the first recorded attempt creates one.
type MasteryState struct {
	QuestionID   string    `json:"question_id"`
	Repetitions  int       `json:"repetitions"`
	EaseFactor   float64   `json:"ease_factor"`
	IntervalDays int       `json:"interval_days"`
	DueAt        time.Time `json:"due_at"`
	LapseCount   int       `json:"lapse_count"`
	LastCorrect  bool      `json:"last_correct"`
	LastSeenAt   time.Time `json:"last_seen_at"`
}

// AttemptRecord is the append-only history entry for one answered question.
type AttemptRecord struct {
	ID          int64     `json:"id"`
	QuestionID  string    `json:"question_id"`
	SessionID   string    `json:"session_id,omitempty"`
	Correct     bool      `json:"correct"`
	Response    string    `json:"response,omitempty"`
	TimeSeconds float64   `json:"time_seconds"`
	AnsweredAt  time.Time `json:"answered_at"`
}

// TimeRange bounds a ListAttempts query. Zero values are open-ended.
type TimeRange struct {
	From time.Time
	To   time.Time
}
