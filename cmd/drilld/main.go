// Command drilld runs the interview practice backend.
//
// Usage:
//
//	drilld [flags]
//
// Flags:
//
//	-addr string   HTTP listen address (overrides DRILL_ADDR)
//
// All other settings come from the environment; see the config package for
// the full list of DRILL_* variables.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"drill/config"
	"drill/ollama"
	"drill/scorer"
	"drill/store"
	"drill/stt"
	"drill/ws"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "drilld: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "", "HTTP listen address (overrides DRILL_ADDR)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gen := ollama.New(
		ollama.WithBaseURL(cfg.OllamaURL),
		ollama.WithModel(cfg.Model),
		ollama.WithTimeout(cfg.GenerateTimeout),
	)

	// Confirm the model backend is reachable. The service still starts when
	// it is not; sessions fall back to canned questions until it comes up.
	if models, err := gen.Models(ctx); err != nil {
		logger.Warn("model backend unreachable", "url", cfg.OllamaURL, "error", err)
	} else {
		logger.Info("model backend connected", "url", cfg.OllamaURL, "models", len(models))
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	sc := scorer.New(gen, logger)
	transcriber := stt.New(cfg.WhisperBin, logger)
	resolver := ws.StaticResolver{Token: cfg.APIToken, UserID: "local-user"}

	server := ws.NewServer(gen, sc, st, transcriber, resolver, logger)

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: server.Handler(),
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr)
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
