package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"reflect"
	"strings"
	"syscall"
	"time"

	"arxivo_backend/internal/auth"
	"arxivo_backend/internal/config"
	"arxivo_backend/internal/http_server/handlers/login"
	"arxivo_backend/internal/http_server/handlers/logout"
	notiflist "arxivo_backend/internal/http_server/handlers/notifications/list"
	notifsend "arxivo_backend/internal/http_server/handlers/notifications/send"
	"arxivo_backend/internal/http_server/handlers/refresh"
	register "arxivo_backend/internal/http_server/handlers/register"
	searchhandler "arxivo_backend/internal/http_server/handlers/search"
	authmw "arxivo_backend/internal/http_server/middleware/auth"
	csrfmw "arxivo_backend/internal/http_server/middleware/csrf"
	"arxivo_backend/internal/lib/passwordpolicy"
	rateLimit "arxivo_backend/internal/middleware/ratelimit"
	"arxivo_backend/internal/notifications"
	"arxivo_backend/internal/rabbitmq"
	"arxivo_backend/internal/search"
	"arxivo_backend/internal/storage/migration"
	"arxivo_backend/internal/storage/postgres"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator/v10"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustLoad("./config/config.yaml")

	log := setupLogger(cfg.Env)

	log.Info("starting arxivo backend", slog.String("env", cfg.Env))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Info("Shutdown signal received")
		cancel()
	}()

	if err := migration.New(cfg, migration.DefaultEngine).Up(); err != nil {
		log.Error("failed to apply migrations", slog.String("err", err.Error()))
		os.Exit(1)
	}

	storage, err := postgres.New(ctx, cfg)
	if err != nil {
		log.Error("failed to connect postgres", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer storage.Close()

	msgBroker, err := rabbitmq.New(cfg.RabbitMQ.URL, cfg.RabbitMQ.QueueName)
	if err != nil {
		log.Error("failed to connect rabbitmq", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer msgBroker.Close()

	authService := auth.New(log, storage, storage, cfg.Tokens.Secret, cfg.Tokens.AccessTokenTTL, cfg.Tokens.RefreshTokenTTL)
	searchService := search.New(log, storage)
	notifService := notifications.New(log, storage, storage, msgBroker)

	router := setupRouter(log, cfg, authService, searchService, notifService)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server is running")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed", slog.String("err", err.Error()))
			cancel()
		}
	}()

	<-ctx.Done()

	log.Info("Shutting down HTTP server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", slog.String("err", err.Error()))
	} else {
		log.Info("Server stopped gracefully")
	}

	log.Info("Main service stopped")
}

func setupRouter(
	log *slog.Logger,
	cfg *config.Config,
	authService *auth.Auth,
	searchService *search.Search,
	notifService *notifications.Notifications,
) *chi.Mux {
	validate := newValidator()
	policy := passwordpolicy.Default()
	secure := cfg.Tokens.SecureCookies()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.With(rateLimit.Register()).Post("/register",
		register.New(log, validate, authService, policy, cfg.Tokens.RefreshTokenTTL, secure),
	)
	r.With(rateLimit.Login()).Post("/login",
		login.New(log, validate, authService, secure),
	)

	r.Group(func(r chi.Router) {
		r.Use(authmw.New(log, authService))
		r.Use(csrfmw.New(log))

		r.With(rateLimit.Refresh()).Post("/refresh",
			refresh.New(log, authService, secure),
		)
		r.With(rateLimit.Logout()).Post("/logout",
			logout.New(log, secure),
		)
		r.With(rateLimit.Search()).Post("/search",
			searchhandler.New(log, searchService),
		)
		r.With(rateLimit.SendNotification()).Post("/notifications/send",
			notifsend.New(log, validate, notifService),
		)
		r.Get("/notifications",
			notiflist.New(log, notifService),
		)
	})

	return r
}

// newValidator настраивает валидатор так, чтобы в ошибках фигурировали
// json-имена полей, а не имена полей структуры.
func newValidator() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}
