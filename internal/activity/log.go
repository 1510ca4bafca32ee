package activity

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	ActionDeleteUser = "delete_user"
	ActionDeleteTest = "delete_test"
	ActionCreateTest = "create_test"
	ActionUpdateRole = "update_role"
)

type Entry struct {
	ID          string         `json:"id"`
	Action      string         `json:"action"`
	PerformedBy string         `json:"performedBy"`
	Details     map[string]any `json:"details"`
	CreatedAt   int64          `json:"createdAt"`
}

// Performer is the user row joined onto an entry; empty when the user was deleted.
type Performer struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

type EntryView struct {
	Entry
	Performer Performer `json:"performer"`
}

type Repo struct{ db *sql.DB }

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Append(ctx context.Context, action, performedBy string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	buf, err := json.Marshal(details)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO activity_logs (id, action, performed_by, details_json, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		uuid.NewString(), action, performedBy, string(buf), time.Now().UnixMilli())
	return err
}

// Recent returns the newest entries first.
func (r *Repo) Recent(ctx context.Context, limit int) ([]EntryView, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT a.id, a.action, a.performed_by, a.details_json, a.created_at,
			COALESCE(u.name,''), COALESCE(u.email,''), COALESCE(u.role,'')
		 FROM activity_logs a LEFT JOIN users u ON u.id = a.performed_by
		 ORDER BY a.created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []EntryView{}
	for rows.Next() {
		var (
			e  EntryView
			dj string
		)
		if err := rows.Scan(&e.ID, &e.Action, &e.PerformedBy, &dj, &e.CreatedAt,
			&e.Performer.Name, &e.Performer.Email, &e.Performer.Role); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(dj), &e.Details); err != nil || e.Details == nil {
			e.Details = map[string]any{}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
