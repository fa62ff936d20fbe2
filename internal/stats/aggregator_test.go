package stats_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bubi/quizpro/internal/models"
	"github.com/bubi/quizpro/internal/stats"
)

var day0 = time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)

func attempt(id int64, questionID string, correct bool, at time.Time) models.AttemptRecord {
	return models.AttemptRecord{ID: id, QuestionID: questionID, Correct: correct, AnsweredAt: at}
}

func sampleQuestions() map[string]models.Question {
	return map[string]models.Question{
		"q1": {ID: "q1", Topics: []string{"algebra"}, Difficulty: models.DifficultyLeicht},
		"q2": {ID: "q2", Topics: []string{"algebra", "geometry"}, Difficulty: models.DifficultySchwer},
		"q3": {ID: "q3", Topics: []string{"geometry"}, Difficulty: models.DifficultyMittel},
	}
}

func TestAggregate_EmptyHistory(t *testing.T) {
	summary := stats.Aggregate(nil, sampleQuestions(), models.StatsScope{})

	assert.Equal(t, 0, summary.TotalAttempts)
	assert.Equal(t, 0.0, summary.Accuracy)
	assert.Equal(t, 0, summary.CurrentStreak)
	assert.Nil(t, summary.FirstAttemptAt)
	assert.Nil(t, summary.Trend)
}

func TestAggregate_GlobalAccuracy(t *testing.T) {
	attempts := []models.AttemptRecord{
		attempt(1, "q1", true, day0),
		attempt(2, "q2", false, day0.Add(time.Hour)),
		attempt(3, "q3", true, day0.Add(2*time.Hour)),
		attempt(4, "q1", true, day0.Add(3*time.Hour)),
	}

	summary := stats.Aggregate(attempts, sampleQuestions(), models.StatsScope{})

	assert.Equal(t, 4, summary.TotalAttempts)
	assert.Equal(t, 3, summary.Correct)
	assert.InDelta(t, 0.75, summary.Accuracy, 1e-9)
}

func TestAggregate_Streaks(t *testing.T) {
	outcomes := []bool{true, true, true, false, true, true}
	attempts := make([]models.AttemptRecord, len(outcomes))
	for i, correct := range outcomes {
		attempts[i] = attempt(int64(i+1), "q1", correct, day0.Add(time.Duration(i)*time.Minute))
	}

	summary := stats.Aggregate(attempts, sampleQuestions(), models.StatsScope{})

	assert.Equal(t, 3, summary.BestStreak)
	assert.Equal(t, 2, summary.CurrentStreak)
}

func TestAggregate_ByTopicCountsMultiTopicQuestionsInEach(t *testing.T) {
	attempts := []models.AttemptRecord{
		attempt(1, "q1", true, day0),
		attempt(2, "q2", false, day0.Add(time.Hour)),
	}

	summary := stats.Aggregate(attempts, sampleQuestions(), models.StatsScope{})

	require.Contains(t, summary.ByTopic, "algebra")
	require.Contains(t, summary.ByTopic, "geometry")
	assert.Equal(t, 2, summary.ByTopic["algebra"].Attempts)
	assert.Equal(t, 1, summary.ByTopic["algebra"].Correct)
	assert.Equal(t, 1, summary.ByTopic["geometry"].Attempts)
	assert.Equal(t, 0, summary.ByTopic["geometry"].Correct)
}

func TestAggregate_TrendBucketsByDay(t *testing.T) {
	attempts := []models.AttemptRecord{
		attempt(1, "q1", true, day0),
		attempt(2, "q1", false, day0.Add(2*time.Hour)),
		attempt(3, "q1", true, day0.AddDate(0, 0, 2)),
	}

	summary := stats.Aggregate(attempts, sampleQuestions(), models.StatsScope{})

	require.Len(t, summary.Trend, 2)
	assert.Equal(t, "2025-04-01", summary.Trend[0].Date)
	assert.Equal(t, 2, summary.Trend[0].Attempts)
	assert.InDelta(t, 0.5, summary.Trend[0].Accuracy, 1e-9)
	assert.Equal(t, "2025-04-03", summary.Trend[1].Date)
	assert.InDelta(t, 1.0, summary.Trend[1].Accuracy, 1e-9)
}

func TestAggregate_Idempotent(t *testing.T) {
	attempts := []models.AttemptRecord{
		attempt(1, "q1", true, day0),
		attempt(2, "q2", false, day0.Add(time.Hour)),
	}

	a := stats.Aggregate(attempts, sampleQuestions(), models.StatsScope{})
	b := stats.Aggregate(attempts, sampleQuestions(), models.StatsScope{})

	assert.Equal(t, a, b)
}

func TestAggregate_UnknownQuestionStillCounts(t *testing.T) {
	attempts := []models.AttemptRecord{
		attempt(1, "deleted-question", true, day0),
	}

	summary := stats.Aggregate(attempts, sampleQuestions(), models.StatsScope{})

	assert.Equal(t, 1, summary.TotalAttempts)
	assert.Nil(t, summary.ByTopic, "no topic attribution without question metadata")
}

func TestFilter_ByTopic(t *testing.T) {
	attempts := []models.AttemptRecord{
		attempt(1, "q1", true, day0),
		attempt(2, "q3", true, day0),
	}

	got := stats.Filter(attempts, sampleQuestions(), models.StatsScope{Topic: "geometry"})

	require.Len(t, got, 1)
	assert.Equal(t, "q3", got[0].QuestionID)
}

func TestFilter_ByDifficulty(t *testing.T) {
	attempts := []models.AttemptRecord{
		attempt(1, "q1", true, day0),
		attempt(2, "q2", true, day0),
	}

	got := stats.Filter(attempts, sampleQuestions(), models.StatsScope{Difficulty: models.DifficultySchwer})

	require.Len(t, got, 1)
	assert.Equal(t, "q2", got[0].QuestionID)
}

func TestFilter_BySession(t *testing.T) {
	a := attempt(1, "q1", true, day0)
	a.SessionID = "s1"
	b := attempt(2, "q1", true, day0)
	b.SessionID = "s2"

	got := stats.Filter([]models.AttemptRecord{a, b}, sampleQuestions(), models.StatsScope{SessionID: "s1"})

	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestFilter_UnscopedReturnsEverything(t *testing.T) {
	attempts := []models.AttemptRecord{
		attempt(1, "unknown", true, day0),
		attempt(2, "q1", false, day0),
	}

	got := stats.Filter(attempts, sampleQuestions(), models.StatsScope{})

	assert.Len(t, got, 2)
}
