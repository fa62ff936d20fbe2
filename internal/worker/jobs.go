package worker

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bubi/quizpro/internal/logger"
)

// ImportQuestionFileJob imports a single exchange file.
type ImportQuestionFileJob struct {
	Importer QuestionImporter
	Path     string
}

func (j *ImportQuestionFileJob) Name() string { return "import_question_file" }

func (j *ImportQuestionFileJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("path", j.Path)

	count, err := j.Importer.ImportFile(ctx, j.Path)
	if err != nil {
		log.Error("import failed: %v", err)
		return err
	}
	log.Info("imported %d questions", count)
	return nil
}

// ScanQuestionsDirJob walks the questions directory and enqueues one
// import job per JSON file. Unreadable entries are logged and skipped so
// a single bad file never blocks the rest of the scan.
type ScanQuestionsDirJob struct {
	Importer QuestionImporter
	Dir      string
	Pool     *Pool
}

func (j *ScanQuestionsDirJob) Name() string { return "scan_questions_dir" }

func (j *ScanQuestionsDirJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("dir", j.Dir)
	log.Info("scanning for question files")

	var found int
	err := filepath.WalkDir(j.Dir, func(path string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			log.Warn("skipping %s: %v", path, err)
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".json") {
			return nil
		}

		found++
		j.Pool.Submit(&ImportQuestionFileJob{Importer: j.Importer, Path: path})
		return nil
	})
	if err != nil {
		log.Error("scan aborted: %v", err)
		return err
	}

	log.Info("queued %d question files", found)
	return nil
}
