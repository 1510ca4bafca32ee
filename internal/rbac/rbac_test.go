package rbac_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mind-engage/mindengage-testgen/internal/rbac"
)

func TestCheckerDefaults(t *testing.T) {
	c := rbac.NewChecker(nil)

	assert.True(t, c.Has("student", "test:generate"))
	assert.False(t, c.Has("student", "question:create"))
	assert.True(t, c.Has("Teacher", "question:create"))
	assert.True(t, c.Has("admin", "anything:at-all"))
	assert.False(t, c.Has("guest", "test:view"))
	assert.False(t, c.Has("", "test:view"))
}

func TestCheckerWildcardsAndSets(t *testing.T) {
	c := rbac.NewChecker(map[string][]string{"editor": {"test:*", "user:view_self"}})

	assert.True(t, c.Has("editor", "test:delete"))
	assert.False(t, c.Has("editor", "user:delete"))
	assert.True(t, c.Has("editor", "user:view_self"))
	assert.False(t, c.Has("editor", "tests:view"))
}

func serve(mw func(http.Handler) http.Handler, role string) int {
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if role != "" {
		req = req.WithContext(rbac.WithRole(context.Background(), role))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestRequireMiddleware(t *testing.T) {
	assert.Equal(t, http.StatusOK, serve(rbac.Require("test:generate"), "student"))
	assert.Equal(t, http.StatusForbidden, serve(rbac.Require("question:create"), "student"))
	assert.Equal(t, http.StatusForbidden, serve(rbac.Require("test:view"), ""))

	assert.Equal(t, http.StatusOK, serve(rbac.RequireRole("admin"), "ADMIN"))
	assert.Equal(t, http.StatusForbidden, serve(rbac.RequireRole("admin"), "teacher"))
	assert.Equal(t, http.StatusForbidden, serve(rbac.RequireRole("admin"), ""))
}
