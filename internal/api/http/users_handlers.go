package http

import (
	"errors"
	"net/http"

	authmw "github.com/mind-engage/mindengage-testgen/internal/auth/middleware"
	"github.com/mind-engage/mindengage-testgen/internal/users"
)

type updateMeReq struct {
	Name        *string        `json:"name" validate:"omitempty,min=1,max=100"`
	Preferences map[string]any `json:"preferences"`
}

func MeHandler(store users.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := store.Get(r.Context(), authmw.SubjectFromContext(r.Context()))
		if !writeUserErr(w, err) {
			return
		}
		writeJSON(w, http.StatusOK, u)
	}
}

func UpdateMeHandler(store users.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateMeReq
		if !decode(w, r, &req) {
			return
		}
		u, err := store.UpdateProfile(r.Context(), authmw.SubjectFromContext(r.Context()), users.ProfileUpdate{
			Name:        req.Name,
			Preferences: req.Preferences,
		})
		if !writeUserErr(w, err) {
			return
		}
		writeJSON(w, http.StatusOK, u)
	}
}

// AdminListUsersHandler lists every user newest first; ?role= narrows the list.
func AdminListUsersHandler(store users.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.List(r.Context(), r.URL.Query().Get("role"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// writeUserErr writes the response for a non-nil users error and reports whether err was nil.
func writeUserErr(w http.ResponseWriter, err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, users.ErrNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, users.ErrInvalidRole):
		writeError(w, http.StatusBadRequest, "invalid role")
	case errors.Is(err, users.ErrLastAdmin):
		writeError(w, http.StatusBadRequest, "cannot demote the last admin")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
	return false
}
