package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zabbixmcp/zabbixmcp/internal/api"
	"github.com/zabbixmcp/zabbixmcp/internal/auth"
	"github.com/zabbixmcp/zabbixmcp/internal/config"
	"github.com/zabbixmcp/zabbixmcp/internal/mcp"
	"github.com/zabbixmcp/zabbixmcp/internal/tools"
	"github.com/zabbixmcp/zabbixmcp/internal/users"
	"github.com/zabbixmcp/zabbixmcp/internal/zabbix"
)

const (
	serverName    = "zabbix-mcp"
	serverVersion = "1.0.0"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	mode := flag.String("mode", "stdio", "serving mode: stdio or http")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logger. In stdio mode stdout belongs to the
	// protocol stream, so logs always go to stderr there.
	logger := initLogger(cfg.Logging, *mode == "stdio")
	logger.Info("Starting Zabbix MCP Server",
		"version", serverVersion,
		"mode", *mode,
		"zabbix_url", cfg.Zabbix.BaseURL(),
	)

	// Initialize Zabbix client and establish a session up front. A bad
	// endpoint or bad credentials should fail fast, not on first tool use.
	client := zabbix.New(cfg.Zabbix.BaseURL(), cfg.Zabbix.Username, cfg.Zabbix.Password, zabbix.Options{
		Timeout:       cfg.Zabbix.GetTimeout(),
		SkipVerifySSL: cfg.Zabbix.SkipVerifySSL(),
		Logger:        logger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	authCtx, authCancel := context.WithTimeout(ctx, cfg.Zabbix.GetTimeout())
	err = client.Authenticate(authCtx)
	authCancel()
	if err != nil {
		log.Fatalf("Failed to authenticate with Zabbix: %v", err)
	}
	logger.Info("Authenticated with Zabbix", "user", cfg.Zabbix.Username)

	// Wire the tool surface
	userManager := users.NewManager(client, logger)
	registry := tools.NewRegistry(client, userManager, logger)

	switch *mode {
	case "stdio":
		runStdio(ctx, registry, logger)
	case "http":
		runHTTP(ctx, cancel, cfg, registry, logger)
	default:
		log.Fatalf("Unknown mode %q (expected stdio or http)", *mode)
	}
}

// runStdio serves the tool catalog over line-delimited JSON-RPC on
// stdin/stdout until EOF or interrupt.
func runStdio(ctx context.Context, registry *tools.Registry, logger *slog.Logger) {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := mcp.NewServer(registry, os.Stdin, os.Stdout, logger, serverName, serverVersion)
	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Stdio server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Stdio server stopped")
}

// runHTTP serves the tool catalog behind the authenticated REST surface.
func runHTTP(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, registry *tools.Registry, logger *slog.Logger) {
	authService, err := auth.NewService(
		cfg.Auth.JWTSecret,
		cfg.Auth.AdminUsername,
		cfg.Auth.AdminPasswordHash,
		cfg.Auth.GetJWTExpiry(),
	)
	if err != nil {
		log.Fatalf("Failed to initialize auth service: %v", err)
	}

	deps := &api.Dependencies{
		Auth:     authService,
		Registry: registry,
		Logger:   logger,
		Ready:    func() bool { return true },
	}
	router := api.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.GetReadTimeout(),
		WriteTimeout: cfg.Server.GetWriteTimeout(),
	}

	go func() {
		logger.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server stopped gracefully")
}

func initLogger(cfg config.LoggingConfig, forceStderr bool) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	out := os.Stderr
	if !forceStderr && cfg.Output == "stdout" {
		out = os.Stdout
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(handler)
}
