package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/youruser/frycards/internal/api"
	"github.com/youruser/frycards/internal/cards"
	"github.com/youruser/frycards/internal/config"
	"github.com/youruser/frycards/internal/gateway"
	"github.com/youruser/frycards/internal/prefs"
	"github.com/youruser/frycards/internal/state"
	"github.com/youruser/frycards/internal/util"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Load cards at startup (best-effort)
	catalog, err := cards.LoadCatalog(cfg.DataDir)
	if err != nil {
		logger.Warn("failed to load card catalog", slog.String("dir", cfg.DataDir), slog.String("error", err.Error()))
	} else {
		logger.Info("card catalog loaded", slog.Int("cards", len(catalog)))
	}

	if err := util.EnsureParentDir(cfg.PrefsPath); err != nil {
		logger.Error("prefs directory", slog.String("error", err.Error()))
		os.Exit(1)
	}
	store, err := prefs.Open(cfg.PrefsPath)
	if err != nil {
		logger.Error("open prefs store", slog.String("path", cfg.PrefsPath), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	gw := gateway.New(gateway.Config{
		BaseURL: cfg.BackendURL,
		AnonKey: cfg.BackendAnonKey,
		Timeout: cfg.GatewayTimeout,
		Logger:  logger,
	}, nil)

	server := &api.Server{
		Catalog:  catalog,
		Gateway:  gw,
		Prefs:    store,
		Realtime: api.RealtimeConfig{BaseURL: cfg.BackendURL, AnonKey: cfg.BackendAnonKey},
		Assets:   state.NewPreloader(state.FetchHTTP, 0),
		Log:      logger,
	}
	defer server.Close()
	r := api.NewEngine(server)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting server", slog.String("addr", "http://localhost:"+cfg.Port), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", slog.String("error", err.Error()))
	}
	logger.Info("server stopped")
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
