package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bubi/quizpro/internal/models"
)

// MockProgressRepository is a mock implementation of repository.ProgressRepository
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) GetState(ctx context.Context, questionID string) (*models.MasteryState, error) {
	args := m.Called(ctx, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MasteryState), args.Error(1)
}

func (m *MockProgressRepository) PutState(ctx context.Context, state models.MasteryState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *MockProgressRepository) StatesFor(ctx context.Context, questionIDs []string) (map[string]models.MasteryState, error) {
	args := m.Called(ctx, questionIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]models.MasteryState), args.Error(1)
}

func (m *MockProgressRepository) AppendAttempt(ctx context.Context, attempt models.AttemptRecord) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockProgressRepository) RecordOutcome(ctx context.Context, state models.MasteryState, attempt models.AttemptRecord) error {
	args := m.Called(ctx, state, attempt)
	return args.Error(0)
}

func (m *MockProgressRepository) ListAttempts(ctx context.Context, tr models.TimeRange) ([]models.AttemptRecord, error) {
	args := m.Called(ctx, tr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AttemptRecord), args.Error(1)
}
