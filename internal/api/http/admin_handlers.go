package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mind-engage/mindengage-testgen/internal/activity"
	authmw "github.com/mind-engage/mindengage-testgen/internal/auth/middleware"
	"github.com/mind-engage/mindengage-testgen/internal/testgen"
	"github.com/mind-engage/mindengage-testgen/internal/users"
)

const logsPageSize = 200

type updateUserRoleReq struct {
	Role string `json:"role" validate:"required,oneof=student teacher admin"`
}

func AdminDeleteUserHandler(store users.Store, logs ActivityLog, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == authmw.SubjectFromContext(r.Context()) {
			writeError(w, http.StatusBadRequest, "cannot delete your own account")
			return
		}
		deleted, err := store.Delete(r.Context(), id)
		if !writeUserErr(w, err) {
			return
		}
		record(r, logs, log, activity.ActionDeleteUser, map[string]any{
			"userId": id,
			"email":  deleted.Email,
		})
		writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
	}
}

// AdminUpdateUserRoleHandler changes a user's role. Demoting the last admin is refused.
func AdminUpdateUserRoleHandler(store users.Store, logs ActivityLog, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var req updateUserRoleReq
		if !decode(w, r, &req) {
			return
		}
		if !writeUserErr(w, store.SetRole(r.Context(), id, req.Role)) {
			return
		}
		record(r, logs, log, activity.ActionUpdateRole, map[string]any{
			"userId": id,
			"role":   req.Role,
		})
		w.WriteHeader(http.StatusNoContent)
	}
}

func AdminLogsHandler(logs ActivityLog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := logs.Recent(r.Context(), logsPageSize)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func AdminDeleteTestHandler(svc *testgen.Service, logs ActivityLog, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		deleted, err := svc.DeleteTest(r.Context(), id)
		if errors.Is(err, testgen.ErrTestNotFound) {
			writeError(w, http.StatusNotFound, "Test not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		record(r, logs, log, activity.ActionDeleteTest, map[string]any{
			"testId": id,
			"title":  deleted.Title,
		})
		writeJSON(w, http.StatusOK, map[string]string{"message": "Test deleted successfully"})
	}
}
