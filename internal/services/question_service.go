package services

import (
	"context"

	"github.com/bubi/quizpro/internal/errors"
	"github.com/bubi/quizpro/internal/repository"
)

// QuestionService exposes the question bank catalog. Topic and subject
// lists feed filter selection when building sessions.
type QuestionService interface {
	Topics(ctx context.Context) ([]string, error)
	Subjects(ctx context.Context) ([]string, error)
}

type questionService struct {
	questions repository.QuestionRepository
}

// NewQuestionService creates a new QuestionService
func NewQuestionService(questions repository.QuestionRepository) QuestionService {
	return &questionService{questions: questions}
}

func (s *questionService) Topics(ctx context.Context) ([]string, error) {
	topics, err := s.questions.Topics(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return topics, nil
}

func (s *questionService) Subjects(ctx context.Context) ([]string, error) {
	subjects, err := s.questions.Subjects(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return subjects, nil
}
