package questionfile_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bubi/quizpro/internal/errors"
	"github.com/bubi/quizpro/internal/models"
	"github.com/bubi/quizpro/internal/questionfile"
)

var importedAt = time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

const validFile = `{
	"metadata": {
		"source": "Biologie Skript 3",
		"created": "2025-04-20",
		"description": "Zellbiologie Grundlagen"
	},
	"questions": [
		{
			"id": "bio-001",
			"type": "multiple_choice",
			"difficulty": "leicht",
			"topics": ["Zellbiologie"],
			"question": "Welches Organell produziert ATP?",
			"options": ["Ribosom", "Mitochondrium", "Golgi-Apparat"],
			"correct_answer": 1,
			"explanation": "Mitochondrien sind die Kraftwerke der Zelle."
		},
		{
			"type": "text",
			"difficulty": "mittel",
			"topics": ["Zellbiologie"],
			"question": "Beschreibe die Funktion der Zellmembran.",
			"model_answer": "Die Zellmembran grenzt die Zelle ab und steuert den Stoffaustausch.",
			"keywords": ["Membran", "Stoffaustausch", "Barriere"]
		}
	]
}`

func TestParse_ValidFile(t *testing.T) {
	f, err := questionfile.Parse([]byte(validFile), importedAt)
	require.NoError(t, err)

	require.Len(t, f.Questions, 2)
	assert.Equal(t, "Biologie Skript 3", f.Metadata.Source)
	assert.Equal(t, "Biologie", f.Metadata.Subject())

	first := f.Questions[0]
	assert.Equal(t, "bio-001", first.ID)
	assert.Equal(t, models.TypeMultipleChoice, first.Type)
	assert.Equal(t, 1, first.CorrectAnswer)
	assert.Equal(t, "Biologie", first.Subject)
	assert.Equal(t, "Biologie Skript 3", first.SourceReference)
	assert.Equal(t, importedAt, first.CreatedAt)
}

func TestParse_GeneratesMissingIDs(t *testing.T) {
	f, err := questionfile.Parse([]byte(validFile), importedAt)
	require.NoError(t, err)

	second := f.Questions[1]
	assert.NotEmpty(t, second.ID)
	assert.True(t, second.ID[0] == 'q', "generated ids carry the q prefix")
	assert.NotEqual(t, f.Questions[0].ID, second.ID)
}

func TestParse_InvalidJSON(t *testing.T) {
	_, err := questionfile.Parse([]byte("{not json"), importedAt)

	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestParse_MissingQuestionsArray(t *testing.T) {
	_, err := questionfile.Parse([]byte(`{"metadata": {}}`), importedAt)

	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestParse_ChoiceWithoutOptionsFails(t *testing.T) {
	raw := `{"questions": [{"type": "multiple_choice", "question": "Hauptstadt?", "correct_answer": 0}]}`

	_, err := questionfile.Parse([]byte(raw), importedAt)

	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestParse_TextWithoutModelAnswerFails(t *testing.T) {
	raw := `{"questions": [{"type": "text", "question": "Warum?"}]}`

	_, err := questionfile.Parse([]byte(raw), importedAt)

	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestParse_CorrectAnswerOutOfRangeFails(t *testing.T) {
	raw := `{"questions": [{
		"id": "x1",
		"type": "multiple_choice",
		"question": "Hauptstadt?",
		"options": ["Berlin", "Paris"],
		"correct_answer": 5
	}]}`

	_, err := questionfile.Parse([]byte(raw), importedAt)

	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestParse_UnknownTypeFails(t *testing.T) {
	raw := `{"questions": [{"type": "essay", "question": "Erkläre alles."}]}`

	_, err := questionfile.Parse([]byte(raw), importedAt)

	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestParse_KeepsExistingCreatedAt(t *testing.T) {
	raw := `{"questions": [{
		"id": "x1",
		"type": "text",
		"question": "Warum?",
		"model_answer": "Darum.",
		"created_at": "2024-01-15T10:00:00Z"
	}]}`

	f, err := questionfile.Parse([]byte(raw), importedAt)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC), f.Questions[0].CreatedAt)
}
