package scheduler

import (
	"sort"
	"time"

	"github.com/bubi/quizpro/internal/models"
)

// Pool names a selection pool.
type Pool string

const (
	PoolNew       Pool = "new"
	PoolWeak      Pool = "weak"
	PoolDue       Pool = "due"
	PoolMastered  Pool = "mastered"
	PoolScheduled Pool = "scheduled"
)

// Thresholds configure pool boundaries.
type Thresholds struct {
	// Weak questions must have at least this many lifetime lapses.
	WeakThreshold int
	// Mastered questions need at least this many consecutive correct answers.
	MasteredThreshold int
}

// DefaultThresholds mirror the default configuration.
func DefaultThresholds() Thresholds {
	return Thresholds{WeakThreshold: 2, MasteredThreshold: 5}
}

// Pools partitions a set of question ids. Each id appears in exactly one
// slice; the union equals the input. Slices are sorted by id for
// deterministic output.
type Pools struct {
	New       []string `json:"new"`
	Weak      []string `json:"weak"`
	Due       []string `json:"due"`
	Mastered  []string `json:"mastered"`
	Scheduled []string `json:"scheduled"`
}

// Size returns the total number of classified ids.
func (p Pools) Size() int {
	return len(p.New) + len(p.Weak) + len(p.Due) + len(p.Mastered) + len(p.Scheduled)
}

// Membership returns a pool lookup by question id.
func (p Pools) Membership() map[string]Pool {
	m := make(map[string]Pool, p.Size())
	for _, id := range p.New {
		m[id] = PoolNew
	}
	for _, id := range p.Weak {
		m[id] = PoolWeak
	}
	for _, id := range p.Due {
		m[id] = PoolDue
	}
	for _, id := range p.Mastered {
		m[id] = PoolMastered
	}
	for _, id := range p.Scheduled {
		m[id] = PoolScheduled
	}
	return m
}

// Classify assigns each question id to a pool based on its mastery state
// at the reference time. Precedence per question:
//
//  1. no state: new
//  2. lapses >= weak threshold and last answer incorrect: weak,
//     even when not yet due; repeated lapses need earlier reinforcement
//     than the raw interval implies
//  3. due_at <= now: due
//  4. repetitions >= mastered threshold: mastered, else scheduled
func Classify(questionIDs []string, states map[string]models.MasteryState, now time.Time, th Thresholds) Pools {
	var p Pools
	seen := make(map[string]bool, len(questionIDs))

	for _, id := range questionIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		state, ok := states[id]
		switch {
		case !ok:
			p.New = append(p.New, id)
		case state.LapseCount >= th.WeakThreshold && !state.LastCorrect:
			p.Weak = append(p.Weak, id)
		case !state.DueAt.After(now):
			p.Due = append(p.Due, id)
		case state.Repetitions >= th.MasteredThreshold:
			p.Mastered = append(p.Mastered, id)
		default:
			p.Scheduled = append(p.Scheduled, id)
		}
	}

	sort.Strings(p.New)
	sort.Strings(p.Weak)
	sort.Strings(p.Due)
	sort.Strings(p.Mastered)
	sort.Strings(p.Scheduled)
	return p
}
