package stats

import (
	"sort"

	"github.com/bubi/quizpro/internal/models"
	"github.com/bubi/quizpro/internal/scheduler"
)

// Filter keeps the attempts that match the scope. Topic and difficulty
// are resolved through the question metadata; attempts whose question is
// unknown only survive an unscoped filter.
func Filter(attempts []models.AttemptRecord, questions map[string]models.Question, scope models.StatsScope) []models.AttemptRecord {
	if scope.Topic == "" && scope.Difficulty == "" && scope.SessionID == "" {
		return attempts
	}

	out := make([]models.AttemptRecord, 0, len(attempts))
	for _, a := range attempts {
		if scope.SessionID != "" && a.SessionID != scope.SessionID {
			continue
		}
		if scope.Topic != "" || scope.Difficulty != "" {
			q, ok := questions[a.QuestionID]
			if !ok {
				continue
			}
			if scope.Difficulty != "" && q.Difficulty != scope.Difficulty {
				continue
			}
			if scope.Topic != "" && !hasTopic(q, scope.Topic) {
				continue
			}
		}
		out = append(out, a)
	}
	return out
}

// Aggregate folds an attempt history into a summary. It is a pure
// function of its inputs: no clocks, no randomness, and running it twice
// over the same history yields the same summary. The mastery
// distribution is classifier territory and is filled in by the caller.
func Aggregate(attempts []models.AttemptRecord, questions map[string]models.Question, scope models.StatsScope) models.StatsSummary {
	summary := models.StatsSummary{Scope: scope}
	if len(attempts) == 0 {
		return summary
	}

	ordered := make([]models.AttemptRecord, len(attempts))
	copy(ordered, attempts)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].AnsweredAt.Equal(ordered[j].AnsweredAt) {
			return ordered[i].AnsweredAt.Before(ordered[j].AnsweredAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	byTopic := make(map[string]models.AccuracyStat)
	byDifficulty := make(map[string]models.AccuracyStat)
	byDay := make(map[string]models.TrendPoint)

	streak := 0
	for _, a := range ordered {
		summary.TotalAttempts++
		if a.Correct {
			summary.Correct++
			streak++
			if streak > summary.BestStreak {
				summary.BestStreak = streak
			}
		} else {
			streak = 0
		}

		day := a.AnsweredAt.UTC().Format("2006-01-02")
		point := byDay[day]
		point.Date = day
		point.Attempts++
		if a.Correct {
			point.Correct++
		}
		byDay[day] = point

		if q, ok := questions[a.QuestionID]; ok {
			for _, topic := range q.Topics {
				byTopic[topic] = bump(byTopic[topic], a.Correct)
			}
			if q.Difficulty != "" {
				byDifficulty[string(q.Difficulty)] = bump(byDifficulty[string(q.Difficulty)], a.Correct)
			}
		}
	}
	summary.CurrentStreak = streak
	summary.Accuracy = ratio(summary.Correct, summary.TotalAttempts)

	for key, stat := range byTopic {
		stat.Accuracy = ratio(stat.Correct, stat.Attempts)
		byTopic[key] = stat
	}
	for key, stat := range byDifficulty {
		stat.Accuracy = ratio(stat.Correct, stat.Attempts)
		byDifficulty[key] = stat
	}
	if len(byTopic) > 0 {
		summary.ByTopic = byTopic
	}
	if len(byDifficulty) > 0 {
		summary.ByDifficulty = byDifficulty
	}

	summary.Trend = make([]models.TrendPoint, 0, len(byDay))
	for _, point := range byDay {
		point.Accuracy = ratio(point.Correct, point.Attempts)
		summary.Trend = append(summary.Trend, point)
	}
	sort.Slice(summary.Trend, func(i, j int) bool {
		return summary.Trend[i].Date < summary.Trend[j].Date
	})

	first := ordered[0].AnsweredAt
	last := ordered[len(ordered)-1].AnsweredAt
	summary.FirstAttemptAt = &first
	summary.LastAttemptAt = &last
	return summary
}

// Distribution converts classifier pools into the summary shape.
func Distribution(p scheduler.Pools) models.MasteryDistribution {
	return models.MasteryDistribution{
		New:       len(p.New),
		Due:       len(p.Due),
		Weak:      len(p.Weak),
		Mastered:  len(p.Mastered),
		Scheduled: len(p.Scheduled),
	}
}

func bump(stat models.AccuracyStat, correct bool) models.AccuracyStat {
	stat.Attempts++
	if correct {
		stat.Correct++
	}
	return stat
}

func ratio(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total)
}

func hasTopic(q models.Question, topic string) bool {
	for _, t := range q.Topics {
		if t == topic {
			return true
		}
	}
	return false
}
