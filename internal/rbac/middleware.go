package rbac

import (
	"encoding/json"
	"net/http"
)

var defaultChecker = NewChecker(nil)

// Require enforces a single permission.
func Require(perm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if role == "" || !defaultChecker.Has(role, perm) {
				forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole admits only the listed roles, regardless of permissions.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			for _, allowed := range roles {
				if role != "" && role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}
			forbidden(w)
		})
	}
}

func forbidden(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "Forbidden"})
}
