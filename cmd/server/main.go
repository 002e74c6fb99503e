// Command server exposes the conversion pipeline over HTTP.
//
// Usage:
//
//	go run ./cmd/server --addr :8080 --db dmforge.db --data data
//
// Environment variables override the flags: DMFORGE_ADDR,
// DMFORGE_DB_PATH, DMFORGE_DATA_DIR. DMFORGE_API_KEY enables bearer
// auth and DMFORGE_CORS_ORIGINS restricts cross-origin access.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/brunobiangulo/dmforge"
	"github.com/brunobiangulo/dmforge/store"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (YAML)")
	addr := flag.String("addr", ":8080", "Listen address")
	dbPath := flag.String("db", "dmforge.db", "SQLite registry path")
	dataDir := flag.String("data", "data", "Directory holding per-run output")
	flag.Parse()

	// Structured JSON logging.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// Override from environment variables.
	if v := os.Getenv("DMFORGE_ADDR"); v != "" {
		*addr = v
	}
	if v := os.Getenv("DMFORGE_DB_PATH"); v != "" {
		*dbPath = v
	}
	if v := os.Getenv("DMFORGE_DATA_DIR"); v != "" {
		*dataDir = v
	}
	apiKey := os.Getenv("DMFORGE_API_KEY")
	corsOrigins := []string{"*"}
	if v := os.Getenv("DMFORGE_CORS_ORIGINS"); v != "" {
		corsOrigins = strings.Split(v, ",")
	}

	cfg := dmforge.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = dmforge.Load(*configPath)
		if err != nil {
			slog.Error("loading config", "error", err)
			os.Exit(1)
		}
	}

	pipeline, err := dmforge.New(cfg)
	if err != nil {
		slog.Error("building pipeline", "error", err)
		os.Exit(1)
	}

	st, err := store.New(*dbPath)
	if err != nil {
		slog.Error("opening store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := os.MkdirAll(*dataDir, 0755); err != nil {
		slog.Error("creating data dir", "error", err)
		os.Exit(1)
	}

	h := newHandler(pipeline, st, *dataDir)
	mux := newMux(h)

	// Middleware chain: recovery -> cors -> auth -> logging -> mux
	var handler http.Handler = mux
	handler = logMiddleware(handler)
	handler = authMiddleware(apiKey, handler)
	handler = corsMiddleware(corsOrigins, handler)
	handler = recoveryMiddleware(handler)

	srv := &http.Server{
		Addr:         *addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // conversions and archive downloads can be long
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown on SIGTERM/SIGINT.
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", *addr, "db", *dbPath, "data", *dataDir)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("server stopped")
}

func newMux(h *handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /convert", h.handleConvert)
	mux.HandleFunc("GET /runs", h.handleListRuns)
	mux.HandleFunc("GET /runs/{id}", h.handleGetRun)
	mux.HandleFunc("DELETE /runs/{id}", h.handleDeleteRun)
	mux.HandleFunc("GET /runs/{id}/modules", h.handleListModules)
	mux.HandleFunc("GET /runs/{id}/modules/{filename}", h.handleGetModule)
	mux.HandleFunc("GET /runs/{id}/archive", h.handleArchive)
	mux.HandleFunc("GET /health", h.handleHealth)
	return mux
}
