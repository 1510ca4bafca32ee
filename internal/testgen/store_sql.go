package testgen

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

const insertQuestionSQL = `INSERT INTO questions (id,text,type,options_json,difficulty,topic,metadata_json,created_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

func (s *SQLStore) InsertQuestions(ctx context.Context, qs []Question) ([]Question, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UnixMilli()
	out := make([]Question, 0, len(qs))
	for _, q := range qs {
		q, err := prepareQuestion(q, now)
		if err != nil {
			return nil, err
		}
		oj, mj, err := questionJSON(q)
		if err != nil {
			return nil, err
		}
		if _, err := tx.ExecContext(ctx, insertQuestionSQL,
			q.ID, q.Text, string(q.Type), oj, q.Difficulty, q.Topic, mj, q.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLStore) CreateQuestion(ctx context.Context, q Question) (Question, error) {
	q, err := prepareQuestion(q, time.Now().UnixMilli())
	if err != nil {
		return Question{}, err
	}
	oj, mj, err := questionJSON(q)
	if err != nil {
		return Question{}, err
	}
	if _, err := s.db.ExecContext(ctx, insertQuestionSQL,
		q.ID, q.Text, string(q.Type), oj, q.Difficulty, q.Topic, mj, q.CreatedAt); err != nil {
		return Question{}, err
	}
	return q, nil
}

func (s *SQLStore) GetQuestions(ctx context.Context, ids []string) ([]Question, error) {
	out := make([]Question, 0, len(ids))
	for _, id := range ids {
		q, err := s.getQuestion(ctx, id)
		if errors.Is(err, ErrQuestionNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

func (s *SQLStore) getQuestion(ctx context.Context, id string) (Question, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,text,type,options_json,difficulty,topic,metadata_json,created_at FROM questions WHERE id=$1`, id)
	var (
		q      Question
		kind   string
		oj, mj string
	)
	if err := row.Scan(&q.ID, &q.Text, &kind, &oj, &q.Difficulty, &q.Topic, &mj, &q.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Question{}, ErrQuestionNotFound
		}
		return Question{}, err
	}
	q.Type = Kind(kind)
	if err := json.Unmarshal([]byte(oj), &q.Options); err != nil {
		return Question{}, err
	}
	if err := json.Unmarshal([]byte(mj), &q.Metadata); err != nil {
		q.Metadata = map[string]any{}
	}
	return q, nil
}

func (s *SQLStore) CreateTest(ctx context.Context, t Test) (Test, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Questions == nil {
		t.Questions = []string{}
	}
	t.CreatedAt = time.Now().UnixMilli()
	ids, err := json.Marshal(t.Questions)
	if err != nil {
		return Test{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO tests (id,title,description,created_by,question_ids_json,time_limit_min,shuffle_questions,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		t.ID, t.Title, t.Description, t.CreatedBy, string(ids),
		t.Settings.TimeLimitMin, t.Settings.ShuffleQuestions, t.CreatedAt)
	if err != nil {
		return Test{}, err
	}
	return t, nil
}

const selectTestSQL = `SELECT id,title,description,created_by,question_ids_json,time_limit_min,shuffle_questions,created_at FROM tests`

func (s *SQLStore) GetTest(ctx context.Context, id string) (Test, error) {
	row := s.db.QueryRowContext(ctx, selectTestSQL+` WHERE id=$1`, id)
	t, err := scanTest(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Test{}, ErrTestNotFound
	}
	return t, err
}

func (s *SQLStore) ListTests(ctx context.Context, limit int) ([]TestSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.id,t.title,t.description,t.created_by,t.question_ids_json,t.time_limit_min,t.shuffle_questions,t.created_at,
			COALESCE(u.name,''), COALESCE(u.email,'')
		FROM tests t LEFT JOIN users u ON u.id = t.created_by
		ORDER BY t.created_at DESC, t.id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []TestSummary{}
	for rows.Next() {
		var ts TestSummary
		t, err := scanTest(func(dest ...any) error {
			return rows.Scan(append(dest, &ts.CreatorName, &ts.CreatorEmail)...)
		})
		if err != nil {
			return nil, err
		}
		ts.Test = t
		out = append(out, ts)
	}
	return out, rows.Err()
}

func (s *SQLStore) AppendQuestion(ctx context.Context, testID, questionID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var ij string
	if err := tx.QueryRowContext(ctx, `SELECT question_ids_json FROM tests WHERE id=$1`, testID).Scan(&ij); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTestNotFound
		}
		return err
	}
	var ids []string
	if err := json.Unmarshal([]byte(ij), &ids); err != nil {
		return err
	}
	ids = append(ids, questionID)
	buf, _ := json.Marshal(ids)
	if _, err := tx.ExecContext(ctx, `UPDATE tests SET question_ids_json=$1 WHERE id=$2`, string(buf), testID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLStore) DeleteTest(ctx context.Context, id string) (Test, error) {
	t, err := s.GetTest(ctx, id)
	if err != nil {
		return Test{}, err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tests WHERE id=$1`, id); err != nil {
		return Test{}, err
	}
	return t, nil
}

func scanTest(scan func(dest ...any) error) (Test, error) {
	var (
		t  Test
		ij string
	)
	if err := scan(&t.ID, &t.Title, &t.Description, &t.CreatedBy, &ij,
		&t.Settings.TimeLimitMin, &t.Settings.ShuffleQuestions, &t.CreatedAt); err != nil {
		return Test{}, err
	}
	if err := json.Unmarshal([]byte(ij), &t.Questions); err != nil {
		return Test{}, err
	}
	if t.Questions == nil {
		t.Questions = []string{}
	}
	return t, nil
}

func prepareQuestion(q Question, now int64) (Question, error) {
	if q.Text == "" {
		return Question{}, ErrEmptyQuestionText
	}
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if q.Options == nil {
		q.Options = []Option{}
	}
	if q.Metadata == nil {
		q.Metadata = map[string]any{}
	}
	if q.Difficulty == "" {
		q.Difficulty = "medium"
	}
	q.CreatedAt = now
	return q, nil
}

func questionJSON(q Question) (options, metadata string, err error) {
	ob, err := json.Marshal(q.Options)
	if err != nil {
		return "", "", err
	}
	mb, err := json.Marshal(q.Metadata)
	if err != nil {
		return "", "", err
	}
	return string(ob), string(mb), nil
}
