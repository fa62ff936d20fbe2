package models

import "time"

// QuestionType discriminates the two question payload variants.
type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeText           QuestionType = "text"
)

// Valid reports whether t is a known question type.
func (t QuestionType) Valid() bool {
	return t == TypeMultipleChoice || t == TypeText
}

// Difficulty levels keep the source material's German naming.
type Difficulty string

const (
	DifficultyLeicht Difficulty = "leicht"
	DifficultyMittel Difficulty = "mittel"
	DifficultySchwer Difficulty = "schwer"
)

// Question is a direct structural mapping of the exchange format entry.
// Type decides which payload fields are meaningful: Options/CorrectAnswer
// for multiple_choice, ModelAnswer/Keywords for text.
type Question struct {
	ID              string       `json:"id"`
	Type            QuestionType `json:"type"`
	Difficulty      Difficulty   `json:"difficulty"`
	Topics          []string     `json:"topics"`
	Question        string       `json:"question"`
	Options         []string     `json:"options,omitempty"`
	CorrectAnswer   int          `json:"correct_answer,omitempty"`
	ModelAnswer     string       `json:"model_answer,omitempty"`
	Keywords        []string     `json:"keywords,omitempty"`
	Explanation     string       `json:"explanation,omitempty"`
	Subject         string       `json:"subject,omitempty"`
	SourceReference string       `json:"source_reference,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
}

// QuestionFilter narrows the candidate set for session building.
// Zero-valued fields match everything.
type QuestionFilter struct {
	Subject    string       `json:"subject,omitempty"`
	Topic      string       `json:"topic,omitempty"`
	Difficulty Difficulty   `json:"difficulty,omitempty"`
	Type       QuestionType `json:"type,omitempty"`
}
