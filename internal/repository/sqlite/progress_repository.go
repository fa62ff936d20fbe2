package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/bubi/quizpro/internal/logger"
	"github.com/bubi/quizpro/internal/models"
	"github.com/bubi/quizpro/internal/repository"
)

type progressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a new ProgressRepository implementation
func NewProgressRepository(db *sql.DB) repository.ProgressRepository {
	return &progressRepository{db: db}
}

const stateColumns = `question_id, repetitions, ease_factor, interval_days, due_at, lapse_count, last_correct, last_seen_at`

func (r *progressRepository) GetState(ctx context.Context, questionID string) (*models.MasteryState, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("getting mastery state: question_id=%s", questionID)

	var s models.MasteryState
	err := r.db.QueryRowContext(ctx, `
SELECT `+stateColumns+`
FROM mastery_state
WHERE question_id = ?
`, questionID).Scan(&s.QuestionID, &s.Repetitions, &s.EaseFactor, &s.IntervalDays,
		&s.DueAt, &s.LapseCount, &s.LastCorrect, &s.LastSeenAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get mastery state: %v", err)
		return nil, err
	}
	return &s, nil
}

func (r *progressRepository) PutState(ctx context.Context, s models.MasteryState) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("putting mastery state: question_id=%s, repetitions=%d, interval=%d", s.QuestionID, s.Repetitions, s.IntervalDays)

	_, err := r.db.ExecContext(ctx, putStateSQL, s.QuestionID, s.Repetitions, s.EaseFactor,
		s.IntervalDays, s.DueAt, s.LapseCount, s.LastCorrect, s.LastSeenAt)
	if err != nil {
		log.Error("failed to put mastery state: %v", err)
	}
	return err
}

const putStateSQL = `
INSERT INTO mastery_state (question_id, repetitions, ease_factor, interval_days, due_at, lapse_count, last_correct, last_seen_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(question_id) DO UPDATE SET
    repetitions = excluded.repetitions,
    ease_factor = excluded.ease_factor,
    interval_days = excluded.interval_days,
    due_at = excluded.due_at,
    lapse_count = excluded.lapse_count,
    last_correct = excluded.last_correct,
    last_seen_at = excluded.last_seen_at
`

func (r *progressRepository) StatesFor(ctx context.Context, questionIDs []string) (map[string]models.MasteryState, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("loading mastery states for %d questions", len(questionIDs))

	states := make(map[string]models.MasteryState, len(questionIDs))
	if len(questionIDs) == 0 {
		return states, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(questionIDs)), ",")
	args := make([]any, len(questionIDs))
	for i, id := range questionIDs {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT `+stateColumns+`
FROM mastery_state
WHERE question_id IN (`+placeholders+`)
`, args...)
	if err != nil {
		log.Error("failed to load mastery states: %v", err)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var s models.MasteryState
		if err := rows.Scan(&s.QuestionID, &s.Repetitions, &s.EaseFactor, &s.IntervalDays,
			&s.DueAt, &s.LapseCount, &s.LastCorrect, &s.LastSeenAt); err != nil {
			log.Error("failed to scan mastery state row: %v", err)
			return nil, err
		}
		states[s.QuestionID] = s
	}
	return states, rows.Err()
}

func (r *progressRepository) AppendAttempt(ctx context.Context, a models.AttemptRecord) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("appending attempt: question_id=%s, correct=%t", a.QuestionID, a.Correct)

	_, err := r.db.ExecContext(ctx, appendAttemptSQL,
		a.QuestionID, a.SessionID, a.Correct, a.Response, a.TimeSeconds, a.AnsweredAt)
	if err != nil {
		log.Error("failed to append attempt: %v", err)
	}
	return err
}

const appendAttemptSQL = `
INSERT INTO attempts (question_id, session_id, correct, response, time_seconds, answered_at)
VALUES (?, ?, ?, ?, ?, ?)
`

// RecordOutcome writes the updated state and the attempt atomically so a
// crash between the two writes cannot leave a half-recorded answer.
func (r *progressRepository) RecordOutcome(ctx context.Context, s models.MasteryState, a models.AttemptRecord) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("recording outcome: question_id=%s, correct=%t", s.QuestionID, a.Correct)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction: %v", err)
		return err
	}

	if _, err := tx.ExecContext(ctx, putStateSQL, s.QuestionID, s.Repetitions, s.EaseFactor,
		s.IntervalDays, s.DueAt, s.LapseCount, s.LastCorrect, s.LastSeenAt); err != nil {
		_ = tx.Rollback()
		log.Error("failed to put mastery state in transaction: %v", err)
		return err
	}
	if _, err := tx.ExecContext(ctx, appendAttemptSQL,
		a.QuestionID, a.SessionID, a.Correct, a.Response, a.TimeSeconds, a.AnsweredAt); err != nil {
		_ = tx.Rollback()
		log.Error("failed to append attempt in transaction: %v", err)
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit outcome: %v", err)
		return err
	}
	return nil
}

func (r *progressRepository) ListAttempts(ctx context.Context, tr models.TimeRange) ([]models.AttemptRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")

	var conditions []string
	var args []any
	if !tr.From.IsZero() {
		conditions = append(conditions, "answered_at >= ?")
		args = append(args, tr.From)
	}
	if !tr.To.IsZero() {
		conditions = append(conditions, "answered_at <= ?")
		args = append(args, tr.To)
	}

	query := `SELECT id, question_id, session_id, correct, response, time_seconds, answered_at FROM attempts`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY answered_at ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list attempts: %v", err)
		return nil, err
	}
	defer rows.Close()

	var attempts []models.AttemptRecord
	for rows.Next() {
		var a models.AttemptRecord
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.SessionID, &a.Correct, &a.Response, &a.TimeSeconds, &a.AnsweredAt); err != nil {
			log.Error("failed to scan attempt row: %v", err)
			return nil, err
		}
		attempts = append(attempts, a)
	}
	log.Debug("listed %d attempts", len(attempts))
	return attempts, rows.Err()
}
