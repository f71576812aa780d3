package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq" // PostgreSQL driver

	"mockprep/internal/model"
)

// answersSchema is applied on startup; Insert relies on the (owner_id, question) key
const answersSchema = `
CREATE TABLE IF NOT EXISTS user_answers (
	id             UUID PRIMARY KEY,
	interview_id   TEXT NOT NULL,
	question       TEXT NOT NULL,
	correct_answer TEXT NOT NULL,
	user_answer    TEXT NOT NULL,
	rating         INTEGER NOT NULL,
	feedback       TEXT NOT NULL,
	owner_id       TEXT NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (owner_id, question)
);
CREATE INDEX IF NOT EXISTS user_answers_interview_idx ON user_answers (interview_id, owner_id, created_at);
`

type postgresAnswerRepo struct {
	db *sql.DB
}

// OpenPostgres opens and pings a pooled connection
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// NewPostgresAnswerRepo creates the answers table if needed
func NewPostgresAnswerRepo(ctx context.Context, db *sql.DB) (AnswerRepo, error) {
	if _, err := db.ExecContext(ctx, answersSchema); err != nil {
		return nil, err
	}
	return &postgresAnswerRepo{db: db}, nil
}

const answerColumns = `id, interview_id, question, correct_answer, user_answer, rating, feedback, owner_id, created_at`

func (r *postgresAnswerRepo) FindExisting(ctx context.Context, ownerID, question string) (*model.StoredAnswer, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+answerColumns+` FROM user_answers WHERE owner_id = $1 AND question = $2`,
		ownerID, question)

	answer, err := scanAnswer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return answer, err
}

func (r *postgresAnswerRepo) Insert(ctx context.Context, answer *model.StoredAnswer) (bool, error) {
	id := uuid.New()
	if answer.CreatedAt.IsZero() {
		answer.CreatedAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO user_answers (`+answerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (owner_id, question) DO NOTHING`,
		id, answer.InterviewID, answer.Question, answer.CorrectAnswer, answer.UserAnswer,
		answer.Rating, answer.Feedback, answer.OwnerID, answer.CreatedAt)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	answer.ID = id.String()
	return true, nil
}

func (r *postgresAnswerRepo) ListByInterview(ctx context.Context, ownerID, interviewID string) ([]*model.StoredAnswer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+answerColumns+` FROM user_answers WHERE owner_id = $1 AND interview_id = $2 ORDER BY created_at`,
		ownerID, interviewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	answers := []*model.StoredAnswer{}
	for rows.Next() {
		answer, err := scanAnswer(rows)
		if err != nil {
			return nil, err
		}
		answers = append(answers, answer)
	}
	return answers, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnswer(row rowScanner) (*model.StoredAnswer, error) {
	var a model.StoredAnswer
	err := row.Scan(&a.ID, &a.InterviewID, &a.Question, &a.CorrectAnswer, &a.UserAnswer,
		&a.Rating, &a.Feedback, &a.OwnerID, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
