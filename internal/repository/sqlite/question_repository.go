package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/Masterminds/squirrel"

	"github.com/bubi/quizpro/internal/logger"
	"github.com/bubi/quizpro/internal/models"
	"github.com/bubi/quizpro/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type questionRepository struct {
	db *sql.DB
}

// NewQuestionRepository creates a new QuestionRepository implementation
func NewQuestionRepository(db *sql.DB) repository.QuestionRepository {
	return &questionRepository{db: db}
}

const questionColumns = `id, type, difficulty, question, topics, options, correct_answer, model_answer, keywords, explanation, subject, source_reference, created_at`

func (r *questionRepository) Get(ctx context.Context, id string) (*models.Question, error) {
	log := logger.FromContext(ctx).WithPrefix("question_repo")
	log.Debug("getting question: id=%s", id)

	row := r.db.QueryRowContext(ctx, `
SELECT `+questionColumns+`
FROM questions
WHERE id = ?
`, id)

	q, err := scanQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("question not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get question: %v", err)
		return nil, err
	}
	return q, nil
}

// filterQuery builds the shared WHERE clauses for Find and Count.
// Topics are a JSON array column, so topic matching uses the quoted
// element as a LIKE pattern.
func filterQuery(base squirrel.SelectBuilder, filter models.QuestionFilter) squirrel.SelectBuilder {
	if filter.Subject != "" {
		base = base.Where(squirrel.Eq{"subject": filter.Subject})
	}
	if filter.Topic != "" {
		base = base.Where(squirrel.Like{"topics": fmt.Sprintf("%%%q%%", filter.Topic)})
	}
	if filter.Difficulty != "" {
		base = base.Where(squirrel.Eq{"difficulty": string(filter.Difficulty)})
	}
	if filter.Type != "" {
		base = base.Where(squirrel.Eq{"type": string(filter.Type)})
	}
	return base
}

func (r *questionRepository) Find(ctx context.Context, filter models.QuestionFilter) ([]string, error) {
	log := logger.FromContext(ctx).WithPrefix("question_repo")
	log.Debug("finding questions: subject=%s, topic=%s, difficulty=%s, type=%s",
		filter.Subject, filter.Topic, filter.Difficulty, filter.Type)

	query := filterQuery(sqlBuilder.Select("id").From("questions"), filter).
		OrderBy("rowid ASC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to find questions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			log.Error("failed to scan question id: %v", err)
			return nil, err
		}
		ids = append(ids, id)
	}
	log.Debug("found %d matching questions", len(ids))
	return ids, rows.Err()
}

func (r *questionRepository) Count(ctx context.Context, filter models.QuestionFilter) (int, error) {
	query := filterQuery(sqlBuilder.Select("COUNT(*)").From("questions"), filter)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *questionRepository) Upsert(ctx context.Context, q models.Question) error {
	log := logger.FromContext(ctx).WithPrefix("question_repo")
	log.Debug("upserting question: id=%s, type=%s", q.ID, q.Type)

	topics, err := json.Marshal(q.Topics)
	if err != nil {
		return err
	}
	options, err := json.Marshal(q.Options)
	if err != nil {
		return err
	}
	keywords, err := json.Marshal(q.Keywords)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO questions (id, type, difficulty, question, topics, options, correct_answer, model_answer, keywords, explanation, subject, source_reference)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    type = excluded.type,
    difficulty = excluded.difficulty,
    question = excluded.question,
    topics = excluded.topics,
    options = excluded.options,
    correct_answer = excluded.correct_answer,
    model_answer = excluded.model_answer,
    keywords = excluded.keywords,
    explanation = excluded.explanation,
    subject = excluded.subject,
    source_reference = excluded.source_reference
`, q.ID, string(q.Type), string(q.Difficulty), q.Question, string(topics), string(options),
		q.CorrectAnswer, q.ModelAnswer, string(keywords), q.Explanation, q.Subject, q.SourceReference)
	if err != nil {
		log.Error("failed to upsert question: %v", err)
	}
	return err
}

func (r *questionRepository) UpsertBatch(ctx context.Context, qs []models.Question) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("question_repo")
	log.Debug("upserting %d questions", len(qs))

	count := 0
	for _, q := range qs {
		if err := r.Upsert(ctx, q); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (r *questionRepository) Topics(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT topics FROM questions`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seen := make(map[string]bool)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var topics []string
		if err := json.Unmarshal([]byte(raw), &topics); err != nil {
			continue
		}
		for _, t := range topics {
			seen[t] = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]string, 0, len(seen))
	for t := range seen {
		result = append(result, t)
	}
	sort.Strings(result)
	return result, nil
}

func (r *questionRepository) Subjects(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT subject FROM questions WHERE subject != '' ORDER BY subject`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

// scanner matches both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row scanner) (*models.Question, error) {
	var q models.Question
	var topics, options, keywords sql.NullString
	var correctAnswer sql.NullInt64
	var modelAnswer, explanation sql.NullString

	err := row.Scan(&q.ID, &q.Type, &q.Difficulty, &q.Question, &topics, &options,
		&correctAnswer, &modelAnswer, &keywords, &explanation, &q.Subject, &q.SourceReference, &q.CreatedAt)
	if err != nil {
		return nil, err
	}

	if topics.Valid && topics.String != "" {
		if err := json.Unmarshal([]byte(topics.String), &q.Topics); err != nil {
			return nil, fmt.Errorf("decode topics for %s: %w", q.ID, err)
		}
	}
	if options.Valid && options.String != "" {
		if err := json.Unmarshal([]byte(options.String), &q.Options); err != nil {
			return nil, fmt.Errorf("decode options for %s: %w", q.ID, err)
		}
	}
	if keywords.Valid && keywords.String != "" {
		if err := json.Unmarshal([]byte(keywords.String), &q.Keywords); err != nil {
			return nil, fmt.Errorf("decode keywords for %s: %w", q.ID, err)
		}
	}
	if correctAnswer.Valid {
		q.CorrectAnswer = int(correctAnswer.Int64)
	}
	if modelAnswer.Valid {
		q.ModelAnswer = modelAnswer.String
	}
	if explanation.Valid {
		q.Explanation = explanation.String
	}
	return &q, nil
}
