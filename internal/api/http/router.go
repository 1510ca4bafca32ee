package http

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	authmw "github.com/mind-engage/mindengage-testgen/internal/auth/middleware"
	"github.com/mind-engage/mindengage-testgen/internal/rbac"
	"github.com/mind-engage/mindengage-testgen/internal/testgen"
	"github.com/mind-engage/mindengage-testgen/internal/users"
)

type Deps struct {
	Users    users.Store
	Tests    *testgen.Service
	Activity ActivityLog
	Auth     *authmw.AuthService
	Log      *zap.Logger

	CORSOrigins []string
	Timeout     time.Duration
	StaticDir   string // optional frontend build served at /
}

// NewRouter wires the public API: JWT → stored role in context → RBAC.
func NewRouter(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Timeout <= 0 {
		d.Timeout = 120 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(d.Timeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	r.Route("/api", func(ar chi.Router) {
		ar.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"message": "API is working"})
		})

		ar.Post("/auth/register", RegisterHandler(d.Users))
		ar.Post("/auth/login", LoginHandler(d.Users, d.Auth))

		ar.Group(func(pr chi.Router) {
			pr.Use(authmw.JWTMiddleware(d.Auth))
			pr.Use(authmw.AttachRoleFromStore(authmw.UserRoleLookup(d.Users), false))

			pr.With(rbac.Require("test:generate")).
				Post("/tests/generate", GenerateTestHandler(d.Tests, d.Activity, d.Log))
			pr.With(rbac.Require("question:create")).
				Post("/tests/question", AddQuestionHandler(d.Tests))
			pr.With(rbac.Require("test:view")).Get("/tests", ListTestsHandler(d.Tests))
			pr.With(rbac.Require("test:view")).Get("/tests/{id}", GetTestHandler(d.Tests))

			pr.With(rbac.Require("user:view_self")).Get("/users/me", MeHandler(d.Users))
			pr.With(rbac.Require("user:update_self")).Put("/users/me", UpdateMeHandler(d.Users))
			pr.With(rbac.Require("user:change_password")).
				Post("/users/change-password", ChangePasswordHandler(d.Users))

			pr.Route("/admin", func(adm chi.Router) {
				adm.Use(rbac.RequireRole(users.RoleAdmin))
				adm.Get("/users", AdminListUsersHandler(d.Users))
				adm.Delete("/users/{id}", AdminDeleteUserHandler(d.Users, d.Activity, d.Log))
				adm.Put("/users/{id}/role", AdminUpdateUserRoleHandler(d.Users, d.Activity, d.Log))
				adm.Get("/logs", AdminLogsHandler(d.Activity))
				adm.Delete("/tests/{id}", AdminDeleteTestHandler(d.Tests, d.Activity, d.Log))
			})
		})
	})

	if d.StaticDir != "" {
		r.Handle("/*", spaHandler(d.StaticDir))
	}
	return r
}

// spaHandler serves files from dir and falls back to index.html so client-side routes resolve.
func spaHandler(dir string) http.Handler {
	fs := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := filepath.Join(dir, filepath.FromSlash(filepath.Clean("/"+r.URL.Path)))
		if _, err := os.Stat(p); err != nil {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}
		fs.ServeHTTP(w, r)
	})
}
