package grader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bubi/quizpro/internal/errors"
	"github.com/bubi/quizpro/internal/models"
)

// DefaultThreshold is the keyword coverage a free-text answer needs to
// count as correct.
const DefaultThreshold = 0.6

// Result reports one graded answer. Score is the keyword coverage for
// text questions and 0 or 1 for multiple choice.
type Result struct {
	Correct         bool     `json:"correct"`
	Score           float64  `json:"score"`
	MatchedKeywords []string `json:"matched_keywords,omitempty"`
}

// Grader scores submitted answers against question payloads.
type Grader struct {
	Threshold float64
}

// New returns a grader with the default keyword threshold.
func New() Grader {
	return Grader{Threshold: DefaultThreshold}
}

// Grade dispatches on the question type. Multiple choice responses are
// the zero-based option index; text responses are the raw answer.
func (g Grader) Grade(q models.Question, response string) (Result, error) {
	switch q.Type {
	case models.TypeMultipleChoice:
		return g.gradeChoice(q, response)
	case models.TypeText:
		return g.gradeText(q, response), nil
	default:
		return Result{}, errors.NewValidationError("type", fmt.Sprintf("unknown question type %q", q.Type))
	}
}

func (g Grader) gradeChoice(q models.Question, response string) (Result, error) {
	idx, err := strconv.Atoi(strings.TrimSpace(response))
	if err != nil {
		return Result{}, errors.NewValidationError("response", "multiple choice response must be an option index")
	}
	if idx < 0 || idx >= len(q.Options) {
		return Result{}, errors.NewValidationError("response", "option index out of range")
	}
	if idx == q.CorrectAnswer {
		return Result{Correct: true, Score: 1}, nil
	}
	return Result{}, nil
}

// gradeText matches answer keywords case-insensitively. Without
// keywords the answer must equal the model answer up to case and
// surrounding whitespace.
func (g Grader) gradeText(q models.Question, response string) Result {
	answer := strings.ToLower(strings.TrimSpace(response))

	if len(q.Keywords) == 0 {
		model := strings.ToLower(strings.TrimSpace(q.ModelAnswer))
		if model != "" && answer == model {
			return Result{Correct: true, Score: 1}
		}
		return Result{}
	}

	var matched []string
	for _, kw := range q.Keywords {
		if strings.Contains(answer, strings.ToLower(strings.TrimSpace(kw))) {
			matched = append(matched, kw)
		}
	}

	threshold := g.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	score := float64(len(matched)) / float64(len(q.Keywords))
	return Result{
		Correct:         score >= threshold,
		Score:           score,
		MatchedKeywords: matched,
	}
}
