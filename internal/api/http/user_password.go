// internal/api/http/user_password.go
package http

import (
	"errors"
	"net/http"

	authmw "github.com/mind-engage/mindengage-testgen/internal/auth/middleware"
	"github.com/mind-engage/mindengage-testgen/internal/users"
)

type changePasswordReq struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

func ChangePasswordHandler(store users.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		if userID == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req changePasswordReq
		if !decode(w, r, &req) {
			return
		}

		err := store.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword)
		if errors.Is(err, users.ErrInvalidCredentials) {
			writeError(w, http.StatusForbidden, "incorrect old password")
			return
		}
		if !writeUserErr(w, err) {
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
