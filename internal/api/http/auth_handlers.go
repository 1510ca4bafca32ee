package http

import (
	"errors"
	"net/http"

	authmw "github.com/mind-engage/mindengage-testgen/internal/auth/middleware"
	"github.com/mind-engage/mindengage-testgen/internal/users"
)

type registerReq struct {
	Name     string `json:"name" validate:"omitempty,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	// Admins are seeded or promoted, never self-registered.
	Role string `json:"role" validate:"omitempty,oneof=student teacher"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type publicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func toPublic(u users.User) publicUser {
	return publicUser{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

func RegisterHandler(store users.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerReq
		if !decode(w, r, &req) {
			return
		}
		u, err := store.Create(r.Context(), users.NewUser{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			Role:     req.Role,
		})
		switch {
		case errors.Is(err, users.ErrEmailTaken):
			writeError(w, http.StatusBadRequest, "Email already registered")
			return
		case errors.Is(err, users.ErrInvalidRole):
			writeError(w, http.StatusBadRequest, "invalid role")
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"user":    toPublic(u),
			"message": "Registration successful!",
		})
	}
}

func LoginHandler(store users.Store, a *authmw.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginReq
		if !decode(w, r, &req) {
			return
		}
		u, err := store.Authenticate(r.Context(), req.Email, req.Password)
		if errors.Is(err, users.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		tok, err := a.IssueJWT(u.ID, u.Role, u.Email)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "token issue failed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"token": tok, "user": toPublic(u)})
	}
}
