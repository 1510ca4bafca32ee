package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// HashCost is the bcrypt cost for new password hashes.
var HashCost = 12

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

const userColumns = `id,name,email,role,preferences_json,created_at`

func (s *SQLStore) Create(ctx context.Context, nu NewUser) (User, error) {
	email := NormalizeEmail(nu.Email)
	role := strings.ToLower(strings.TrimSpace(nu.Role))
	if role == "" {
		role = RoleStudent
	}
	if !ValidRole(role) {
		return User{}, ErrInvalidRole
	}
	name := strings.TrimSpace(nu.Name)
	if name == "" {
		name = "User"
	}

	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE email=$1`, email).Scan(&exists)
	if err == nil {
		return User{}, ErrEmailTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), HashCost)
	if err != nil {
		return User{}, err
	}
	u := User{
		ID:          uuid.NewString(),
		Name:        name,
		Email:       email,
		Role:        role,
		Preferences: map[string]any{},
		CreatedAt:   time.Now().UnixMilli(),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id,name,email,password_hash,role,preferences_json,created_at) VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		u.ID, u.Name, u.Email, string(hash), u.Role, "{}", u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return u, nil
}

func (s *SQLStore) Authenticate(ctx context.Context, email, password string) (User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+`,password_hash FROM users WHERE email=$1`, NormalizeEmail(email))
	var hash string
	u, err := scanUser(row.Scan, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
	u, err := scanUser(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

// List returns users newest first, optionally filtered by role.
func (s *SQLStore) List(ctx context.Context, role string) ([]User, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if role == "" {
		rows, err = s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	} else {
		rows, err = s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users WHERE role=$1 ORDER BY created_at DESC`, role)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []User{}
	for rows.Next() {
		u, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *SQLStore) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return User{}, err
	}
	if upd.Name != nil && strings.TrimSpace(*upd.Name) != "" {
		u.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Preferences != nil {
		u.Preferences = upd.Preferences
	}
	pj, err := json.Marshal(u.Preferences)
	if err != nil {
		return User{}, err
	}
	if _, err := s.db.ExecContext(ctx,
		`UPDATE users SET name=$1, preferences_json=$2 WHERE id=$3`, u.Name, string(pj), id); err != nil {
		return User{}, err
	}
	return u, nil
}

// SetRole changes a user's role. The last admin cannot be demoted.
func (s *SQLStore) SetRole(ctx context.Context, id, role string) error {
	role = strings.ToLower(strings.TrimSpace(role))
	if !ValidRole(role) {
		return ErrInvalidRole
	}
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if u.Role == RoleAdmin && role != RoleAdmin {
		var adminCount int
		if err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(1) FROM users WHERE role='admin'`).Scan(&adminCount); err != nil {
			return err
		}
		if adminCount <= 1 {
			return ErrLastAdmin
		}
	}
	_, err = s.db.ExecContext(ctx, `UPDATE users SET role=$1 WHERE id=$2`, role, id)
	return err
}

func (s *SQLStore) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	var storedHash string
	err := s.db.QueryRowContext(ctx, `SELECT password_hash FROM users WHERE id=$1`, id).Scan(&storedHash)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(oldPassword)) != nil {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), HashCost)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `UPDATE users SET password_hash=$1 WHERE id=$2`, string(hash), id)
	return err
}

func (s *SQLStore) Delete(ctx context.Context, id string) (User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return User{}, err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id=$1`, id); err != nil {
		return User{}, err
	}
	return u, nil
}

// EnsureAdmin creates an admin account for email unless one with that email exists.
func (s *SQLStore) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	_, err := s.Create(ctx, NewUser{Name: "Admin", Email: email, Password: password, Role: RoleAdmin})
	if errors.Is(err, ErrEmailTaken) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func scanUser(scan func(dest ...any) error, extra ...any) (User, error) {
	var (
		u  User
		pj string
	)
	dest := append([]any{&u.ID, &u.Name, &u.Email, &u.Role, &pj, &u.CreatedAt}, extra...)
	if err := scan(dest...); err != nil {
		return User{}, err
	}
	if err := json.Unmarshal([]byte(pj), &u.Preferences); err != nil || u.Preferences == nil {
		u.Preferences = map[string]any{}
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || // sqlite
		strings.Contains(msg, "duplicate key") // postgres
}
