package users_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mind-engage/mindengage-testgen/internal/db"
	"github.com/mind-engage/mindengage-testgen/internal/users"
)

func newStore(t *testing.T) (*users.SQLStore, *sql.DB) {
	t.Helper()
	users.HashCost = bcrypt.MinCost
	dsn := "file:" + filepath.Join(t.TempDir(), "users.db") + "?_pragma=busy_timeout(5000)"
	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbh.Close() })
	return users.NewSQLStore(dbh), dbh
}

func TestCreateAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	s, dbh := newStore(t)

	u, err := s.Create(ctx, users.NewUser{Email: "  Ada@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, "User", u.Name)
	assert.Equal(t, users.RoleStudent, u.Role)

	var hash string
	require.NoError(t, dbh.QueryRow(`SELECT password_hash FROM users WHERE id=$1`, u.ID).Scan(&hash))
	assert.NotEqual(t, "secret1", hash)

	got, err := s.Authenticate(ctx, "ADA@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.Authenticate(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, users.ErrInvalidCredentials)
	_, err = s.Authenticate(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, users.ErrInvalidCredentials)

	_, err = s.Create(ctx, users.NewUser{Email: "ada@example.com", Password: "other12"})
	assert.ErrorIs(t, err, users.ErrEmailTaken)
	_, err = s.Create(ctx, users.NewUser{Email: "x@example.com", Password: "other12", Role: "owner"})
	assert.ErrorIs(t, err, users.ErrInvalidRole)
}

func TestProfileAndPassword(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	u, err := s.Create(ctx, users.NewUser{Name: "Bo", Email: "bo@example.com", Password: "secret1", Role: "teacher"})
	require.NoError(t, err)

	name := "Bo Peep"
	upd, err := s.UpdateProfile(ctx, u.ID, users.ProfileUpdate{Name: &name, Preferences: map[string]any{"theme": "dark"}})
	require.NoError(t, err)
	assert.Equal(t, "Bo Peep", upd.Name)

	got, err := s.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "dark", got.Preferences["theme"])

	blank := "  "
	upd, err = s.UpdateProfile(ctx, u.ID, users.ProfileUpdate{Name: &blank})
	require.NoError(t, err)
	assert.Equal(t, "Bo Peep", upd.Name)
	assert.Equal(t, "dark", upd.Preferences["theme"])

	assert.ErrorIs(t, s.ChangePassword(ctx, u.ID, "nope", "newpass"), users.ErrInvalidCredentials)
	require.NoError(t, s.ChangePassword(ctx, u.ID, "secret1", "newpass"))
	_, err = s.Authenticate(ctx, "bo@example.com", "newpass")
	assert.NoError(t, err)
	assert.ErrorIs(t, s.ChangePassword(ctx, "missing", "a", "b"), users.ErrNotFound)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, users.ErrNotFound)
}

func TestRolesAndDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	created, err := s.EnsureAdmin(ctx, "root@example.com", "rootpw")
	require.NoError(t, err)
	assert.True(t, created)
	created, err = s.EnsureAdmin(ctx, "root@example.com", "rootpw")
	require.NoError(t, err)
	assert.False(t, created)

	admin, err := s.Authenticate(ctx, "root@example.com", "rootpw")
	require.NoError(t, err)
	assert.Equal(t, users.RoleAdmin, admin.Role)

	assert.ErrorIs(t, s.SetRole(ctx, admin.ID, "teacher"), users.ErrLastAdmin)
	assert.ErrorIs(t, s.SetRole(ctx, admin.ID, "boss"), users.ErrInvalidRole)

	st, err := s.Create(ctx, users.NewUser{Email: "st@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.NoError(t, s.SetRole(ctx, st.ID, "Admin"))
	require.NoError(t, s.SetRole(ctx, admin.ID, "teacher"))

	admins, err := s.List(ctx, users.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, st.ID, admins[0].ID)

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	deleted, err := s.Delete(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "root@example.com", deleted.Email)
	_, err = s.Delete(ctx, admin.ID)
	assert.ErrorIs(t, err, users.ErrNotFound)
}
