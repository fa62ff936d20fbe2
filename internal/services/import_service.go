package services

import (
	"context"
	"os"
	"time"

	"github.com/bubi/quizpro/internal/config"
	"github.com/bubi/quizpro/internal/errors"
	"github.com/bubi/quizpro/internal/logger"
	"github.com/bubi/quizpro/internal/questionfile"
	"github.com/bubi/quizpro/internal/repository"
	"github.com/bubi/quizpro/internal/worker"
)

// ImportService loads exchange files into the question store
type ImportService interface {
	// ImportPayload imports a raw exchange document, returning the number
	// of questions stored.
	ImportPayload(ctx context.Context, raw []byte) (int, error)
	// ImportFile imports one exchange file from disk.
	ImportFile(ctx context.Context, path string) (int, error)
	// ScanQuestionsDir enqueues a background scan of the questions
	// directory and returns immediately.
	ScanQuestionsDir(ctx context.Context) error
}

type importService struct {
	questions repository.QuestionRepository
	pool      *worker.Pool
	cfg       config.Config
	now       func() time.Time
}

// NewImportService creates a new ImportService
func NewImportService(questions repository.QuestionRepository, pool *worker.Pool, cfg config.Config) ImportService {
	return &importService{questions: questions, pool: pool, cfg: cfg, now: time.Now}
}

func (s *importService) ImportPayload(ctx context.Context, raw []byte) (int, error) {
	log := logger.FromContext(ctx)

	file, err := questionfile.Parse(raw, s.now())
	if err != nil {
		return 0, err
	}

	count, err := s.questions.UpsertBatch(ctx, file.Questions)
	if err != nil {
		log.Error("failed to store imported questions: %v", err)
		return 0, errors.NewInternalError(err)
	}

	log.Info("imported %d questions from %q", count, file.Metadata.Source)
	return count, nil
}

func (s *importService) ImportFile(ctx context.Context, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, errors.NewBadRequestError("cannot read question file: " + err.Error())
	}
	return s.ImportPayload(ctx, raw)
}

func (s *importService) ScanQuestionsDir(ctx context.Context) error {
	if _, err := os.Stat(s.cfg.QuestionsDir); err != nil {
		return errors.NewBadRequestError("questions directory not accessible: " + err.Error())
	}

	s.pool.Submit(&worker.ScanQuestionsDirJob{
		Importer: s,
		Dir:      s.cfg.QuestionsDir,
		Pool:     s.pool,
	})
	return nil
}
