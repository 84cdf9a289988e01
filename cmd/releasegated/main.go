package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/scx-platform/releasegate/internal/config"
	"github.com/scx-platform/releasegate/internal/dispatch"
	"github.com/scx-platform/releasegate/internal/web"
)

func main() {
	cfgPath := flag.String("config", "/etc/releasegate/server.yaml", "Path to server config")
	flag.Parse()

	cfg, err := config.LoadServerConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.LogDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "error creating log dir: %v\n", err)
		os.Exit(1)
	}

	logFile, err := os.OpenFile(filepath.Join(cfg.LogDir, "releasegated.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	logger := slog.New(slog.NewTextHandler(io.MultiWriter(os.Stdout, logFile), nil))
	slog.SetDefault(logger)

	// The dispatch credential is separate from the form's own token and
	// comes from the environment, never from the config file.
	ciToken := os.Getenv("RELEASEGATE_CI_TOKEN")
	if ciToken == "" {
		slog.Error("RELEASEGATE_CI_TOKEN is not set")
		os.Exit(1)
	}

	handler := web.NewHandler(web.Options{
		ManifestSource: cfg.Manifest,
		Dispatcher:     dispatch.NewClient(cfg.Dispatch, ciToken),
		Ref:            cfg.Ref,
		Token:          cfg.Token,
		SessionTTL:     time.Duration(cfg.SessionTTL) * time.Minute,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:    cfg.Listen,
		Handler: handler,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("releasegated starting", "listen", cfg.Listen, "manifest", cfg.Manifest)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		slog.Error("server error", "err", err)
		os.Exit(1)
	case sig := <-shutdown:
		slog.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("graceful shutdown failed", "err", err)
			srv.Close()
		}
	}
}
