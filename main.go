// ABOUTME: Entry point for the capacity planner backend service
// ABOUTME: Provides an HTTP API for allocation plans, metrics, and history

package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/planwise/capacity-planner/cache"
	"github.com/planwise/capacity-planner/config"
	"github.com/planwise/capacity-planner/handlers"
	"github.com/planwise/capacity-planner/logger"
	"github.com/planwise/capacity-planner/middleware"
	"github.com/planwise/capacity-planner/store"
)

func main() {
	// Initialize structured logging
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting Capacity Planner Backend")

	// Initialize cache
	cacheTTL := time.Duration(cfg.CacheTTL) * time.Second
	c := cache.New(cacheTTL)
	slog.Info("Cache initialized", "ttl", cacheTTL)

	// History store is optional; the API runs without persistence when it
	// is not configured or fails to open.
	var history *store.Store
	if cfg.HistoryConfigured() {
		history, err = store.Open(cfg.HistoryDBPath)
		if err != nil {
			slog.Warn("History store unavailable, running without persistence", "error", err)
			history = nil
		} else {
			defer history.Close()
			slog.Info("History store opened", "path", cfg.HistoryDBPath)
		}
	} else {
		slog.Info("History not configured, runs will not be recorded")
	}

	// Initialize handlers
	h := handlers.NewHandler(cfg, c, history)

	// Register routes with CORS and logging middleware
	cors := middleware.CORS(cfg.CORSAllowedOrigins)
	mux := http.NewServeMux()
	for _, route := range h.Routes() {
		pattern := fmt.Sprintf("%s %s", route.Method, route.Path)
		mux.HandleFunc(pattern, cors(middleware.LogRequest(route.Handler)))
		// Preflight requests arrive as OPTIONS and must reach the CORS layer.
		if route.Method != http.MethodGet {
			mux.HandleFunc(fmt.Sprintf("OPTIONS %s", route.Path), cors(middleware.LogRequest(noContent)))
		}
	}

	// Start server
	addr := ":" + cfg.Port
	slog.Info("Server listening", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func noContent(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
