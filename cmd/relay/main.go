package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/app"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/config"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/observability/logger"
)

var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded (%v), using process environment", err)
	}

	configPath := flag.String("config", envOr("CONFIG_PATH", "configs/config.yaml"), "path to YAML config (env CONFIG_PATH)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.App.LogLevel,
		ServiceName: "auth-relay",
		Version:     version,
	})
	defer func() { _ = logger.Sync() }()
	lg := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg)
	if err != nil {
		lg.Fatal("app wiring failed", logger.Err(err))
	}
	defer a.Close()

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      a.Handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("relay listening",
			logger.String("addr", cfg.Server.Addr),
			logger.Bool("tls", cfg.TLSEnabled()),
		)
		if cfg.TLSEnabled() {
			errCh <- srv.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
			return
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error("server stopped", logger.Err(err))
		}
	case <-ctx.Done():
		lg.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("graceful shutdown failed", logger.Err(err))
	}
	lg.Info("relay stopped")
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
