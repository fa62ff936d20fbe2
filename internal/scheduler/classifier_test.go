package scheduler_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bubi/quizpro/internal/models"
	"github.com/bubi/quizpro/internal/scheduler"
)

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func state(reps, lapses int, due time.Time, lastCorrect bool) models.MasteryState {
	return models.MasteryState{
		Repetitions:  reps,
		EaseFactor:   2.5,
		IntervalDays: 1,
		DueAt:        due,
		LapseCount:   lapses,
		LastCorrect:  lastCorrect,
		LastSeenAt:   now.AddDate(0, 0, -1),
	}
}

func TestClassify_PartitionIsStrict(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}
	states := map[string]models.MasteryState{
		"b": state(1, 0, now.AddDate(0, 0, -1), true),  // due
		"c": state(0, 3, now.AddDate(0, 0, 2), false),  // weak, not yet due
		"d": state(7, 0, now.AddDate(0, 0, 10), true),  // mastered
		"e": state(2, 0, now.AddDate(0, 0, 3), true),   // scheduled
	}

	pools := scheduler.Classify(ids, states, now, scheduler.DefaultThresholds())

	require.Equal(t, len(ids), pools.Size(), "every id must land in exactly one pool")

	membership := pools.Membership()
	assert.Equal(t, scheduler.PoolNew, membership["a"])
	assert.Equal(t, scheduler.PoolDue, membership["b"])
	assert.Equal(t, scheduler.PoolWeak, membership["c"])
	assert.Equal(t, scheduler.PoolMastered, membership["d"])
	assert.Equal(t, scheduler.PoolScheduled, membership["e"])
}

func TestClassify_NoStateIsNew(t *testing.T) {
	pools := scheduler.Classify([]string{"q1"}, nil, now, scheduler.DefaultThresholds())

	assert.Equal(t, []string{"q1"}, pools.New)
}

func TestClassify_WeakTakesPrecedenceOverDue(t *testing.T) {
	// Both weak and due at once: three lapses, last answer wrong, overdue.
	states := map[string]models.MasteryState{
		"q1": state(0, 3, now.AddDate(0, 0, -2), false),
	}

	pools := scheduler.Classify([]string{"q1"}, states, now, scheduler.DefaultThresholds())

	assert.Equal(t, []string{"q1"}, pools.Weak)
	assert.Empty(t, pools.Due)
}

func TestClassify_LapsedButRecoveredIsNotWeak(t *testing.T) {
	// Many lifetime lapses but the last answer was correct.
	states := map[string]models.MasteryState{
		"q1": state(1, 4, now.AddDate(0, 0, 2), true),
	}

	pools := scheduler.Classify([]string{"q1"}, states, now, scheduler.DefaultThresholds())

	assert.Empty(t, pools.Weak)
	assert.Equal(t, []string{"q1"}, pools.Scheduled)
}

func TestClassify_DueAtExactlyNowIsDue(t *testing.T) {
	states := map[string]models.MasteryState{
		"q1": state(1, 0, now, true),
	}

	pools := scheduler.Classify([]string{"q1"}, states, now, scheduler.DefaultThresholds())

	assert.Equal(t, []string{"q1"}, pools.Due)
}

func TestClassify_MasteredOnlyWhenNotDue(t *testing.T) {
	// High repetition count but overdue: review beats the mastered label.
	states := map[string]models.MasteryState{
		"q1": state(9, 0, now.AddDate(0, 0, -1), true),
	}

	pools := scheduler.Classify([]string{"q1"}, states, now, scheduler.DefaultThresholds())

	assert.Equal(t, []string{"q1"}, pools.Due)
	assert.Empty(t, pools.Mastered)
}

func TestClassify_DeduplicatesInput(t *testing.T) {
	pools := scheduler.Classify([]string{"q1", "q1", "q1"}, nil, now, scheduler.DefaultThresholds())

	assert.Equal(t, 1, pools.Size())
}

func TestClassify_Deterministic(t *testing.T) {
	ids := []string{"z", "m", "a"}
	states := map[string]models.MasteryState{}

	a := scheduler.Classify(ids, states, now, scheduler.DefaultThresholds())
	b := scheduler.Classify([]string{"a", "z", "m"}, states, now, scheduler.DefaultThresholds())

	assert.Equal(t, a, b, "pool contents must not depend on input order")
}

func TestClassify_ThresholdBoundaries(t *testing.T) {
	th := scheduler.Thresholds{WeakThreshold: 2, MasteredThreshold: 5}
	states := map[string]models.MasteryState{
		"one-lapse":  state(0, 1, now.AddDate(0, 0, 1), false),
		"two-lapses": state(0, 2, now.AddDate(0, 0, 1), false),
		"four-reps":  state(4, 0, now.AddDate(0, 0, 1), true),
		"five-reps":  state(5, 0, now.AddDate(0, 0, 1), true),
	}

	pools := scheduler.Classify([]string{"one-lapse", "two-lapses", "four-reps", "five-reps"}, states, now, th)

	assert.Equal(t, []string{"two-lapses"}, pools.Weak)
	assert.Equal(t, []string{"five-reps"}, pools.Mastered)
	assert.ElementsMatch(t, []string{"one-lapse", "four-reps"}, pools.Scheduled)
}
