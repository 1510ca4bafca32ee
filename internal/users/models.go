package users

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role")
	ErrLastAdmin          = errors.New("cannot demote the last admin")
)

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

type User struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Role        string         `json:"role"`
	Preferences map[string]any `json:"preferences"`
	CreatedAt   int64          `json:"createdAt"`
}

type NewUser struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// ProfileUpdate carries the self-service fields; nil means unchanged.
type ProfileUpdate struct {
	Name        *string        `json:"name,omitempty"`
	Preferences map[string]any `json:"preferences,omitempty"`
}

type Store interface {
	Create(ctx context.Context, u NewUser) (User, error)
	Authenticate(ctx context.Context, email, password string) (User, error)
	Get(ctx context.Context, id string) (User, error)
	List(ctx context.Context, role string) ([]User, error)
	UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (User, error)
	SetRole(ctx context.Context, id, role string) error
	ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error
	Delete(ctx context.Context, id string) (User, error)
}

func ValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// NormalizeEmail lowercases and trims; emails are stored this way.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
