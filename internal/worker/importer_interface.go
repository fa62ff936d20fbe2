package worker

import "context"

// QuestionImporter imports one exchange file into the question store.
// This avoids import cycles by not importing the services package.
type QuestionImporter interface {
	ImportFile(ctx context.Context, path string) (int, error)
}
