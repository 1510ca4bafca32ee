package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/mind-engage/mindengage-testgen/internal/auth/middleware"
	"github.com/mind-engage/mindengage-testgen/internal/rbac"
	"github.com/mind-engage/mindengage-testgen/internal/users"
)

type seen struct {
	sub, email, role string
}

func capture(s *seen) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.sub = auth.SubjectFromContext(r.Context())
		s.email = auth.EmailFromContext(r.Context())
		s.role = rbac.RoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func call(h http.Handler, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestIssueAndParse(t *testing.T) {
	a := auth.NewAuthService("secret", time.Hour)
	tok, err := a.IssueJWT("u1", "teacher", "t@example.com")
	require.NoError(t, err)

	c, err := a.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", c.ID)
	assert.Equal(t, "teacher", c.Role)
	assert.Equal(t, "t@example.com", c.Email)

	_, err = auth.NewAuthService("other", time.Hour).Parse(tok)
	assert.Error(t, err)
}

func TestParseRejectsExpiredAndForeignAlg(t *testing.T) {
	a := auth.NewAuthService("secret", time.Hour)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &auth.Claims{
		ID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	s, err := expired.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = a.Parse(s)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, &auth.Claims{ID: "u1"})
	s, err = hs512.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = a.Parse(s)
	assert.Error(t, err)
}

func TestJWTMiddleware(t *testing.T) {
	a := auth.NewAuthService("secret", time.Hour)
	var got seen
	h := auth.JWTMiddleware(a)(capture(&got))

	rec := call(h, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "No token provided", errorBody(t, rec))

	rec = call(h, "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid token", errorBody(t, rec))

	tok, err := a.IssueJWT("u1", "student", "s@example.com")
	require.NoError(t, err)
	rec = call(h, "Bearer "+tok)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, seen{sub: "u1", email: "s@example.com", role: "student"}, got)
}

func TestAttachRoleFromStore(t *testing.T) {
	a := auth.NewAuthService("secret", time.Hour)
	tok, err := a.IssueJWT("u1", "student", "s@example.com")
	require.NoError(t, err)

	chain := func(lookup auth.RoleLookup, fallback bool, s *seen) http.Handler {
		return auth.JWTMiddleware(a)(auth.AttachRoleFromStore(lookup, fallback)(capture(s)))
	}

	var got seen
	rec := call(chain(func(context.Context, string) (string, error) { return "admin", nil }, false, &got), "Bearer "+tok)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", got.role)

	rec = call(chain(func(context.Context, string) (string, error) { return "", users.ErrNotFound }, true, &got), "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	dbDown := func(context.Context, string) (string, error) { return "", errors.New("db down") }
	got = seen{}
	rec = call(chain(dbDown, true, &got), "Bearer "+tok)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "student", got.role)

	rec = call(chain(dbDown, false, &got), "Bearer "+tok)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
