// internal/auth/middleware/attach_role.go
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/mind-engage/mindengage-testgen/internal/rbac"
	"github.com/mind-engage/mindengage-testgen/internal/users"
)

// RoleLookup returns the stored role for a user id.
type RoleLookup func(ctx context.Context, userID string) (string, error)

// UserRoleLookup adapts a users.Store.
func UserRoleLookup(store users.Store) RoleLookup {
	return func(ctx context.Context, id string) (string, error) {
		u, err := store.Get(ctx, id)
		if err != nil {
			return "", err
		}
		return u.Role, nil
	}
}

// AttachRoleFromStore replaces the token's role claim with the stored role, so role changes
// and deletions take effect before the token expires. Must run after JWTMiddleware.
// allowClaimFallback=true keeps the claim when the lookup fails for reasons other than a
// missing user (dev/offline); false denies.
func AttachRoleFromStore(lookup RoleLookup, allowClaimFallback bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			role, err := lookup(ctx, SubjectFromContext(ctx))
			switch {
			case err == nil && role != "":
				next.ServeHTTP(w, r.WithContext(rbac.WithRole(ctx, role)))
			case errors.Is(err, users.ErrNotFound):
				writeError(w, http.StatusUnauthorized, "Invalid token")
			case allowClaimFallback && rbac.RoleFromContext(ctx) != "":
				next.ServeHTTP(w, r)
			default:
				writeError(w, http.StatusForbidden, "Forbidden")
			}
		})
	}
}
