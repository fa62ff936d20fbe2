package repository

import (
	"context"

	"github.com/bubi/quizpro/internal/models"
)

// QuestionRepository handles question bank data access
type QuestionRepository interface {
	Get(ctx context.Context, id string) (*models.Question, error)
	// Find returns the ids of questions matching the filter, in stable
	// insertion order.
	Find(ctx context.Context, filter models.QuestionFilter) ([]string, error)
	Count(ctx context.Context, filter models.QuestionFilter) (int, error)
	Upsert(ctx context.Context, q models.Question) error
	UpsertBatch(ctx context.Context, qs []models.Question) (int, error)
	Topics(ctx context.Context) ([]string, error)
	Subjects(ctx context.Context) ([]string, error)
}

// ProgressRepository handles durable per-question history and
// scheduling state
type ProgressRepository interface {
	// GetState returns nil when the question has never been attempted.
	GetState(ctx context.Context, questionID string) (*models.MasteryState, error)
	PutState(ctx context.Context, state models.MasteryState) error
	// StatesFor loads current states for the given ids; ids with no state
	// are simply absent from the result.
	StatesFor(ctx context.Context, questionIDs []string) (map[string]models.MasteryState, error)
	AppendAttempt(ctx context.Context, attempt models.AttemptRecord) error
	// RecordOutcome persists the new state and the attempt in one
	// transaction so a mastery update is all-or-nothing.
	RecordOutcome(ctx context.Context, state models.MasteryState, attempt models.AttemptRecord) error
	ListAttempts(ctx context.Context, tr models.TimeRange) ([]models.AttemptRecord, error)
}
