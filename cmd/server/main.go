package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/janisto/greeting-service/internal/config"
	"github.com/janisto/greeting-service/internal/http/v1/routes"
	applog "github.com/janisto/greeting-service/internal/platform/logging"
	appmiddleware "github.com/janisto/greeting-service/internal/platform/middleware"
	"github.com/janisto/greeting-service/internal/platform/respond"
	greetingsvc "github.com/janisto/greeting-service/internal/service/greeting"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

const apiTitle = "Greeting API"

// exit is replaced in tests.
var exit = os.Exit

// fatal logs err, flushes the logger and exits with status 1. Deferred calls in
// main do not run after os.Exit, so the flush happens here.
func fatal(msg string, err error, fields ...zap.Field) {
	applog.LogError(context.Background(), msg, err, fields...)
	_ = applog.Sync()
	exit(1)
}

func main() {
	defer func() {
		_ = applog.Sync()
	}()
	if err := applog.Err(); err != nil {
		applog.LogError(context.Background(), "logger init error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("config load failed", err)
	}
	if len(os.Args) > 1 {
		if err := cfg.SetAddr(os.Args[1]); err != nil {
			fatal("invalid listen address argument", err)
		}
	}
	if err := applog.SetLevel(cfg.LogLevel); err != nil {
		fatal("invalid log level", err)
	}
	applog.Sugar().Infow("config loaded",
		"addr", cfg.Addr(),
		"logLevel", cfg.LogLevel,
		"docsEnabled", cfg.DocsEnabled,
		"shutdownTimeout", cfg.ShutdownTimeout.String(),
	)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newRouter(cfg, greetingsvc.NewStore()),
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10, // 64 KB
	}

	listenErr := make(chan error, 1)
	go func() {
		applog.LogInfo(context.Background(), "server listening", zap.String("addr", srv.Addr), zap.String("version", Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-listenErr:
		fatal("listen failed", err, zap.String("addr", srv.Addr))
	case <-stop:
		applog.LogInfo(context.Background(), "shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		applog.LogError(ctx, "server shutdown error", err)
	}
	applog.LogInfo(context.Background(), "server exited")
}

// newRouter assembles the middleware stack and the greeting API around svc.
func newRouter(cfg *config.Config, svc greetingsvc.Service) http.Handler {
	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	router.Use(
		appmiddleware.Headers(routes.DocsPath),
		appmiddleware.CORS(cfg.CORSOrigins...),
		appmiddleware.RequestID(),
		// RealIP trusts X-Forwarded-For / X-Real-IP; only safe behind a trusted proxy.
		chimiddleware.RealIP,
		chimiddleware.RequestSize(1<<20), // 1 MB limit
		appmiddleware.DefaultContentType(),
		applog.RequestLogger(),
		applog.AccessLogger(),
		respond.Recoverer(),
	)

	api := humachi.New(router, routes.Config(apiTitle, Version, cfg.DocsEnabled))
	routes.Register(api, svc)
	return router
}
