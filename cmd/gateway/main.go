package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mind-engage/mindengage-testgen/internal/activity"
	api "github.com/mind-engage/mindengage-testgen/internal/api/http"
	auth "github.com/mind-engage/mindengage-testgen/internal/auth/middleware"
	"github.com/mind-engage/mindengage-testgen/internal/config"
	"github.com/mind-engage/mindengage-testgen/internal/db"
	"github.com/mind-engage/mindengage-testgen/internal/logger"
	"github.com/mind-engage/mindengage-testgen/internal/testgen"
	"github.com/mind-engage/mindengage-testgen/internal/users"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- DB ---
	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	dbh, err := db.Open(openCtx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	cancel()
	if err != nil {
		log.Fatal("db open failed", zap.Error(err))
	}
	defer dbh.Close()

	userStore := users.NewSQLStore(dbh)
	if cfg.DefaultAdminEmail != "" && cfg.DefaultAdminPassword != "" {
		created, err := userStore.EnsureAdmin(ctx, cfg.DefaultAdminEmail, cfg.DefaultAdminPassword)
		if err != nil {
			log.Fatal("admin seed failed", zap.Error(err))
		}
		if created {
			log.Info("default admin created", zap.String("email", cfg.DefaultAdminEmail))
		}
	}

	// --- AI provider ---
	provider, models, closeProvider, err := newProvider(ctx, cfg)
	if err != nil {
		log.Fatal("ai provider init failed", zap.String("provider", cfg.AIProvider), zap.Error(err))
	}
	defer closeProvider()

	gen := testgen.NewGenerator(provider, models, log.Named("generator"))
	svc := testgen.NewService(gen, testgen.NewSQLStore(dbh), log.Named("tests"))

	router := api.NewRouter(api.Deps{
		Users:       userStore,
		Tests:       svc,
		Activity:    activity.NewRepo(dbh),
		Auth:        auth.NewAuthService(cfg.JWTSecret, cfg.JWTExpiresIn),
		Log:         log,
		CORSOrigins: cfg.CORSOrigins,
		Timeout:     cfg.Timeout,
		StaticDir:   cfg.StaticDir,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("listening",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("mode", string(cfg.Mode)),
		zap.String("db", cfg.DBDriver),
		zap.String("ai_provider", cfg.AIProvider),
		zap.Strings("models", gen.Models()))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server failed", zap.Error(err))
	}
}
