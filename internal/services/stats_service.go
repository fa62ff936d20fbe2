package services

import (
	"context"
	"time"

	"github.com/bubi/quizpro/internal/config"
	"github.com/bubi/quizpro/internal/errors"
	"github.com/bubi/quizpro/internal/logger"
	"github.com/bubi/quizpro/internal/models"
	"github.com/bubi/quizpro/internal/repository"
	"github.com/bubi/quizpro/internal/scheduler"
	"github.com/bubi/quizpro/internal/stats"
)

// StatsService computes progress summaries over the attempt history
type StatsService interface {
	Summary(ctx context.Context, scope models.StatsScope, tr models.TimeRange) (*models.StatsSummary, error)
}

type statsService struct {
	questions repository.QuestionRepository
	progress  repository.ProgressRepository
	cfg       config.Config
	now       func() time.Time
}

// NewStatsService creates a new StatsService
func NewStatsService(questions repository.QuestionRepository, progress repository.ProgressRepository, cfg config.Config) StatsService {
	return &statsService{questions: questions, progress: progress, cfg: cfg, now: time.Now}
}

func (s *statsService) Summary(ctx context.Context, scope models.StatsScope, tr models.TimeRange) (*models.StatsSummary, error) {
	log := logger.FromContext(ctx)
	log.Debug("computing stats summary: scope=%+v", scope)

	attempts, err := s.progress.ListAttempts(ctx, tr)
	if err != nil {
		log.Error("failed to load attempt history: %v", err)
		return nil, errors.NewInternalError(err)
	}

	ids, err := s.questions.Find(ctx, models.QuestionFilter{
		Topic:      scope.Topic,
		Difficulty: scope.Difficulty,
	})
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	questions := make(map[string]models.Question, len(ids))
	for _, id := range ids {
		q, err := s.questions.Get(ctx, id)
		if err != nil {
			return nil, errors.NewInternalError(err)
		}
		if q != nil {
			questions[id] = *q
		}
	}

	filtered := stats.Filter(attempts, questions, scope)
	summary := stats.Aggregate(filtered, questions, scope)

	states, err := s.progress.StatesFor(ctx, ids)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	pools := scheduler.Classify(ids, states, s.now(), scheduler.Thresholds{
		WeakThreshold:     s.cfg.WeakThreshold,
		MasteredThreshold: s.cfg.MasteredThreshold,
	})
	summary.Distribution = stats.Distribution(pools)

	return &summary, nil
}
