package models

import "time"

// StatsScope narrows a summary to a slice of the history.
// Zero-valued fields mean global scope.
type StatsScope struct {
	Topic      string     `json:"topic,omitempty"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
	SessionID  string     `json:"session_id,omitempty"`
}

// AccuracyStat is a correct/total pair for one grouping key.
type AccuracyStat struct {
	Attempts int     `json:"attempts"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// TrendPoint is one day bucket of the accuracy-over-time series.
type TrendPoint struct {
	Date     string  `json:"date"`
	Attempts int     `json:"attempts"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// MasteryDistribution counts questions per classifier pool.
type MasteryDistribution struct {
	New       int `json:"new"`
	Due       int `json:"due"`
	Weak      int `json:"weak"`
	Mastered  int `json:"mastered"`
	Scheduled int `json:"scheduled"`
}

// StatsSummary is the metrics bundle returned by the aggregator.
// An empty history yields a zeroed, well-formed summary.
type StatsSummary struct {
	Scope          StatsScope              `json:"scope"`
	TotalAttempts  int                     `json:"total_attempts"`
	Correct        int                     `json:"correct"`
	Accuracy       float64                 `json:"accuracy"`
	CurrentStreak  int                     `json:"current_streak"`
	BestStreak     int                     `json:"best_streak"`
	ByTopic        map[string]AccuracyStat `json:"by_topic,omitempty"`
	ByDifficulty   map[string]AccuracyStat `json:"by_difficulty,omitempty"`
	Distribution   MasteryDistribution     `json:"mastery_distribution"`
	Trend          []TrendPoint            `json:"trend,omitempty"`
	FirstAttemptAt *time.Time              `json:"first_attempt_at,omitempty"`
	LastAttemptAt  *time.Time              `json:"last_attempt_at,omitempty"`
}
