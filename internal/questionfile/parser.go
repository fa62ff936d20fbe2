// Package questionfile reads the JSON exchange format used to move
// question banks in and out of the system: a metadata header plus a
// questions array.
package questionfile

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/bubi/quizpro/internal/errors"
	"github.com/bubi/quizpro/internal/models"
)

//go:embed schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// Metadata is the exchange file header. Source conventionally starts
// with the subject name, e.g. "Biologie Skript 3".
type Metadata struct {
	Source      string `json:"source,omitempty"`
	Created     string `json:"created,omitempty"`
	Description string `json:"description,omitempty"`
}

// File is one parsed exchange file.
type File struct {
	Metadata  Metadata          `json:"metadata"`
	Questions []models.Question `json:"questions"`
}

// Subject derives the subject from the first word of the source field.
func (m Metadata) Subject() string {
	fields := strings.Fields(m.Source)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Parse validates raw bytes against the exchange schema and decodes
// them. Questions without an id get a generated one; empty subject and
// source reference fields are filled from the metadata header.
func Parse(raw []byte, now time.Time) (File, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return File{}, errors.NewValidationError("file", "invalid JSON: "+err.Error())
	}

	compiled, err := compiledSchema()
	if err != nil {
		return File{}, errors.NewInternalError(err)
	}
	if err := compiled.Validate(parsed); err != nil {
		return File{}, errors.NewValidationError("file", err.Error())
	}

	var f File
	if err := json.Unmarshal(raw, &f); err != nil {
		return File{}, errors.NewValidationError("file", err.Error())
	}

	subject := f.Metadata.Subject()
	for i := range f.Questions {
		q := &f.Questions[i]
		if q.ID == "" {
			id, err := gonanoid.Generate("0123456789abcdef", 8)
			if err != nil {
				return File{}, errors.NewInternalError(err)
			}
			q.ID = "q" + id
		}
		if q.Type == models.TypeMultipleChoice && q.CorrectAnswer >= len(q.Options) {
			return File{}, errors.NewValidationError(q.ID, "correct_answer index out of range")
		}
		if q.Subject == "" {
			q.Subject = subject
		}
		if q.SourceReference == "" {
			q.SourceReference = f.Metadata.Source
		}
		if q.CreatedAt.IsZero() {
			q.CreatedAt = now
		}
	}
	return f, nil
}

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		var def any
		if err := json.Unmarshal(schemaJSON, &def); err != nil {
			schemaErr = fmt.Errorf("parse embedded schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const url = "schema://questionfile.json"
		if err := c.AddResource(url, def); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		schema, schemaErr = c.Compile(url)
	})
	return schema, schemaErr
}
