package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gridaudit/gridaudit/internal/api"
	"github.com/gridaudit/gridaudit/internal/catalog"
	"github.com/gridaudit/gridaudit/internal/config"
	"github.com/gridaudit/gridaudit/internal/promexport"
	"github.com/gridaudit/gridaudit/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	uiDir := flag.String("ui-dir", "", "serve the dashboard UI static files from this directory; leave empty to disable")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("gridaudit starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"stations", len(cfg.Stations),
		"threshold_overrides", len(cfg.Thresholds),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load, enrich and assess every station up front; source files are static
	// so this is the only load until a config change.
	cat := catalog.New()
	if err := cat.Rebuild(cfg); err != nil {
		slog.Error("failed to build station catalog", "err", err)
		os.Exit(1)
	}

	// Threshold tuning without restart: rebuild the catalog on config edits.
	// The hub then pushes the re-rated snapshot to connected dashboards.
	go func() {
		err := config.Watch(ctx, *configPath, func(next *config.Config) {
			if err := cat.Rebuild(next); err != nil {
				slog.Error("catalog rebuild failed, keeping previous data", "err", err)
			}
		})
		if err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	hub := ws.New(cat)
	go hub.Run(ctx)

	httpMux := http.NewServeMux()
	httpMux.Handle("/api/", api.New(cat))
	httpMux.Handle("/metrics", promexport.Handler(cat))
	httpMux.Handle("/ws/stream", hub)

	// Optional: serve the pre-built dashboard UI from a local directory.
	// The "/" catch-all serves index.html for any unknown path (SPA routing).
	if *uiDir != "" {
		fs := http.FileServer(http.Dir(*uiDir))
		httpMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			path := *uiDir + r.URL.Path
			if _, err := os.Stat(path); os.IsNotExist(err) {
				http.ServeFile(w, r, *uiDir+"/index.html")
				return
			}
			fs.ServeHTTP(w, r)
		})
		slog.Info("serving UI static files", "dir", *uiDir)
	}

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: httpMux,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("gridaudit shutting down")
	httpSrv.Shutdown(context.Background()) //nolint:errcheck
}
