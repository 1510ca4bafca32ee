package http

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/mind-engage/mindengage-testgen/internal/activity"
	authmw "github.com/mind-engage/mindengage-testgen/internal/auth/middleware"
)

// ActivityLog is the audit trail written by mutating handlers. *activity.Repo satisfies it.
type ActivityLog interface {
	Append(ctx context.Context, action, performedBy string, details map[string]any) error
	Recent(ctx context.Context, limit int) ([]activity.EntryView, error)
}

// record appends an entry for the calling user. The mutation already happened, so a failed
// write is logged and the request still succeeds.
func record(r *http.Request, logs ActivityLog, log *zap.Logger, action string, details map[string]any) {
	performer := authmw.SubjectFromContext(r.Context())
	if err := logs.Append(r.Context(), action, performer, details); err != nil {
		log.Warn("activity log append failed",
			zap.String("action", action), zap.String("performed_by", performer), zap.Error(err))
	}
}
