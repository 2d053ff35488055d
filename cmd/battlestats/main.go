package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/use-agent/battlestats/api"
	"github.com/use-agent/battlestats/config"
	"github.com/use-agent/battlestats/extractor"
	"github.com/use-agent/battlestats/internal/logging"
	"github.com/use-agent/battlestats/scraper"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	logging.Init(cfg.Log, os.Stdout)
	slog.Info("battlestats starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"env", cfg.Browser.Env,
		"maxPages", cfg.Browser.MaxPages,
	)

	// ── 3. Compile selectors ────────────────────────────────────────
	ex, err := extractor.New(extractor.SelectorsFrom(cfg.Selectors))
	if err != nil {
		slog.Error("invalid selector configuration", "error", err)
		os.Exit(1)
	}

	// ── 4. Initialise scraper (launches browser) ────────────────────
	sc, err := scraper.NewScraper(cfg.Browser, cfg.Scraper)
	if err != nil {
		slog.Error("failed to initialise scraper", "error", err)
		os.Exit(1)
	}
	defer sc.Close()

	// ── 5. Setup router ─────────────────────────────────────────────
	router := api.NewRouter(sc, ex, cfg, time.Now())

	// ── 6. Start HTTP server ────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 7. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// In-flight requests get the full navigation + ready budget to finish.
	drain := cfg.Scraper.NavigationTimeout + cfg.Scraper.ReadyTimeout
	ctx, cancel := context.WithTimeout(context.Background(), drain)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	// sc.Close() runs via defer: drains the page pool and kills Chrome.
	slog.Info("battlestats stopped")
}
