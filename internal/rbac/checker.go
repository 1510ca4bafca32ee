package rbac

import (
	"context"
	"strings"
)

// Checker answers permission questions against a role → permissions table. Permissions are
// "resource:action"; a trailing "*" in a granted permission matches any suffix.
type Checker struct {
	RolePermissions map[string][]string
}

// NewChecker uses RolePermissions when rp is nil.
func NewChecker(rp map[string][]string) *Checker {
	if rp == nil {
		rp = RolePermissions
	}
	return &Checker{RolePermissions: rp}
}

// Has reports whether role holds perm. Role names are matched case-insensitively.
func (c *Checker) Has(role, perm string) bool {
	for _, granted := range c.RolePermissions[normalizeRole(role)] {
		if matchPerm(granted, perm) {
			return true
		}
	}
	return false
}

func matchPerm(granted, perm string) bool {
	if granted == "*" || granted == perm {
		return true
	}
	if prefix, ok := strings.CutSuffix(granted, "*"); ok {
		return strings.HasPrefix(perm, prefix)
	}
	return false
}

func normalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

type ctxKey struct{}

// WithRole stores the caller's role, normalized, for Require and friends.
func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, ctxKey{}, normalizeRole(role))
}

func RoleFromContext(ctx context.Context) string {
	s, _ := ctx.Value(ctxKey{}).(string)
	return s
}
