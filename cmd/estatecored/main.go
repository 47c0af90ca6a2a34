// Command estatecored runs the real-estate lifecycle daemon: it opens the
// configured store, starts the notification dispatcher, and serves the ops
// endpoints (health, metrics, expvar).
package main

import (
	"context"
	"encoding/json"
	"errors"
	"expvar"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"estatecore/internal/config"
	"estatecore/internal/core"
	"estatecore/internal/notify"
)

func main() {
	if err := run(); err != nil {
		slog.Error("estatecored exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	store, err := core.OpenPersistentStore(core.StorageDriver(cfg.StorageDriver), cfg.SQLitePath, cfg.PostgresDSN, core.NewDefaultRulesEngine())
	if err != nil {
		return err
	}
	if closer, ok := store.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	center := notify.NewCenter(256)
	dispatcher := notify.NewDispatcher(
		center,
		notify.LogMailer{Logger: logger},
		notify.NewStoreDirectory(store),
		notify.WithQueueSize(cfg.QueueSize),
		notify.WithLogger(logger),
	)
	dispatcher.Start()

	registry := prometheus.NewRegistry()
	service := core.NewService(store,
		core.WithLogger(logger),
		core.WithEventSink(dispatcher),
		core.WithMetricsRecorder(core.NewPrometheusMetricsRecorder(registry)),
	)

	router := mux.NewRouter()
	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	router.HandleFunc("/statsz", func(w http.ResponseWriter, r *http.Request) {
		stats, err := service.Stats(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(stats)
	}).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	router.Handle("/debug/vars", expvar.Handler()).Methods(http.MethodGet)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("estatecored listening", "addr", cfg.ListenAddr, "driver", cfg.StorageDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown", "error", err)
	}
	if err := dispatcher.Stop(shutdownCtx); err != nil {
		logger.Warn("dispatcher drain", "error", err)
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
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
