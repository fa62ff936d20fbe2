package scheduler

import (
	"math/rand"
	"sort"
	"time"

	"github.com/bubi/quizpro/internal/errors"
	"github.com/bubi/quizpro/internal/models"
)

// BuildInput carries everything the builder needs to order one session.
// Candidates are the question store filter result in stable insertion
// order; States are the freshly loaded mastery states for those ids.
type BuildInput struct {
	Mode       models.SessionMode
	Candidates []string
	States     map[string]models.MasteryState
	Now        time.Time
	Limit      int

	// Exam mode only.
	TimeBudget      time.Duration
	Seed            int64 // fixed seed for reproducible shuffles; 0 derives one from Now
	IncludeMastered bool
	// Cost estimates the answer time for a question. Required when
	// TimeBudget is set.
	Cost func(questionID string) time.Duration
}

// BuildResult is the ordered, deduplicated sequence plus the exam
// deadline when a time budget applies.
type BuildResult struct {
	QuestionIDs []string
	Deadline    *time.Time
}

// Build assembles the ordered question sequence for a session. The
// returned sequence never repeats an id and never exceeds the limit;
// fewer candidates than the limit is not an error. An empty candidate
// set after mode filtering fails with an EMPTY_POOL error.
func Build(in BuildInput, th Thresholds) (BuildResult, error) {
	pools := Classify(in.Candidates, in.States, in.Now, th)
	membership := pools.Membership()

	var ordered []string
	switch in.Mode {
	case models.ModeWeakSpots:
		ordered = orderWeak(in, membership)
	case models.ModeSpacedRepetition:
		ordered = orderDue(in, membership)
	case models.ModeExam:
		ordered = orderExam(in, membership)
	default:
		ordered = orderNormal(in, membership)
	}

	if len(ordered) == 0 {
		return BuildResult{}, errors.NewEmptyPoolError(string(in.Mode))
	}

	var deadline *time.Time
	if in.Mode == models.ModeExam && in.TimeBudget > 0 {
		ordered = trimToBudget(ordered, in.TimeBudget, in.Cost)
		if len(ordered) == 0 {
			return BuildResult{}, errors.NewEmptyPoolError(string(in.Mode))
		}
		d := in.Now.Add(in.TimeBudget)
		deadline = &d
	}

	if in.Limit > 0 && len(ordered) > in.Limit {
		ordered = ordered[:in.Limit]
	}
	return BuildResult{QuestionIDs: ordered, Deadline: deadline}, nil
}

// orderNormal serves new questions first in insertion order, then due
// ones earliest-overdue first so no item drifts further behind, then
// not-yet-due scheduled ones by ascending due date.
func orderNormal(in BuildInput, membership map[string]Pool) []string {
	var fresh, due, scheduled []string
	for _, id := range dedupe(in.Candidates) {
		switch membership[id] {
		case PoolNew:
			fresh = append(fresh, id)
		case PoolDue:
			due = append(due, id)
		case PoolScheduled:
			scheduled = append(scheduled, id)
		}
	}

	sortByDueAt(due, in.States)
	sortByDueAt(scheduled, in.States)

	ordered := make([]string, 0, len(fresh)+len(due)+len(scheduled))
	ordered = append(ordered, fresh...)
	ordered = append(ordered, due...)
	return append(ordered, scheduled...)
}

// orderWeak ranks weak questions worst-first: most lapses, then stalest.
func orderWeak(in BuildInput, membership map[string]Pool) []string {
	var weak []string
	for _, id := range dedupe(in.Candidates) {
		if membership[id] == PoolWeak {
			weak = append(weak, id)
		}
	}

	sort.SliceStable(weak, func(i, j int) bool {
		a, b := in.States[weak[i]], in.States[weak[j]]
		if a.LapseCount != b.LapseCount {
			return a.LapseCount > b.LapseCount
		}
		if !a.LastSeenAt.Equal(b.LastSeenAt) {
			return a.LastSeenAt.Before(b.LastSeenAt)
		}
		return weak[i] < weak[j]
	})
	return weak
}

// orderDue is strictly "what's due now": no backfill from other pools.
func orderDue(in BuildInput, membership map[string]Pool) []string {
	var due []string
	for _, id := range dedupe(in.Candidates) {
		if membership[id] == PoolDue {
			due = append(due, id)
		}
	}
	sortByDueAt(due, in.States)
	return due
}

// orderExam shuffles all candidate pools except mastered (unless
// configured in), seeded for reproducibility.
func orderExam(in BuildInput, membership map[string]Pool) []string {
	var exam []string
	for _, id := range dedupe(in.Candidates) {
		if membership[id] == PoolMastered && !in.IncludeMastered {
			continue
		}
		exam = append(exam, id)
	}

	seed := in.Seed
	if seed == 0 {
		seed = in.Now.UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(exam), func(i, j int) {
		exam[i], exam[j] = exam[j], exam[i]
	})
	return exam
}

// trimToBudget keeps questions while the cumulative estimated answer
// time stays within the budget.
func trimToBudget(ids []string, budget time.Duration, cost func(string) time.Duration) []string {
	if cost == nil {
		return ids
	}
	var spent time.Duration
	for i, id := range ids {
		spent += cost(id)
		if spent > budget {
			return ids[:i]
		}
	}
	return ids
}

func sortByDueAt(ids []string, states map[string]models.MasteryState) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := states[ids[i]], states[ids[j]]
		if !a.DueAt.Equal(b.DueAt) {
			return a.DueAt.Before(b.DueAt)
		}
		return ids[i] < ids[j]
	})
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
