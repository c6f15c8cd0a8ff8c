package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/89534449434inside-eng/ai-platform/internal/api"
	"github.com/89534449434inside-eng/ai-platform/internal/assistant"
	"github.com/89534449434inside-eng/ai-platform/internal/chat"
	"github.com/89534449434inside-eng/ai-platform/internal/config"
	"github.com/89534449434inside-eng/ai-platform/internal/log"
	"github.com/89534449434inside-eng/ai-platform/internal/observability"
	"github.com/89534449434inside-eng/ai-platform/internal/session"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve [addr]",
	Short: "Start the HTTP API server",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Server address (host:port), overrides PORT")
	rootCmd.AddCommand(serveCmd)
}

// Server timeout configuration.
const (
	readHeaderTimeout = 10 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 2 * time.Minute // completion round-trips can take a while
	idleTimeout       = 2 * time.Minute
	shutdownTimeout   = 30 * time.Second
)

// parseRateBurst reads AIP_RATE_BURST from the environment.
// Returns 0 (use default) if unset or invalid.
func parseRateBurst() int {
	v := os.Getenv("AIP_RATE_BURST")
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// logLevel reads AIP_LOG_LEVEL (debug, info, warn, error) from the
// environment. Invalid or unset values fall back to info.
func logLevel() slog.Level {
	var lvl slog.Level
	v := os.Getenv("AIP_LOG_LEVEL")
	if v == "" {
		return slog.LevelInfo
	}
	if err := lvl.UnmarshalText([]byte(v)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// runServe initializes and starts the HTTP API server.
func runServe(_ *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err = cfg.ValidateServe(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	addr := serveAddr
	if len(args) > 0 {
		addr = args[0]
	}
	if addr == "" {
		addr = defaultServeAddr()
	}
	if err = validateAddr(addr); err != nil {
		return fmt.Errorf("invalid address %q: %w", addr, err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := log.New(log.Config{Level: logLevel(), JSON: true})
	logger.Info("starting HTTP API server", "version", AppVersion)

	if cfg.Datadog.Enabled {
		shutdownTracing, terr := observability.Setup(ctx, observability.Config{
			AgentHost:   cfg.Datadog.AgentHost,
			Environment: cfg.Datadog.Environment,
			ServiceName: cfg.Datadog.ServiceName,
		})
		if terr != nil {
			return fmt.Errorf("initializing tracing: %w", terr)
		}
		defer func() {
			flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer flushCancel()
			if ferr := shutdownTracing(flushCtx); ferr != nil {
				logger.Warn("trace flush failed", "error", ferr)
			}
		}()
	}

	store := session.New(cfg.MaxHistoryTurns, logger)

	tokens := assistant.NewTokenSource(assistant.TokenConfig{
		URL:                cfg.AuthURL,
		Credential:         cfg.APIKey,
		Scope:              cfg.Scope,
		Timeout:            time.Duration(cfg.AuthTimeoutSec) * time.Second,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}, logger)

	client := assistant.NewClient(assistant.ClientConfig{
		URL:                cfg.CompletionURL,
		Model:              cfg.ModelName,
		Temperature:        cfg.Temperature,
		MaxTokens:          cfg.MaxTokens,
		HistoryWindow:      cfg.HistoryWindow,
		Timeout:            time.Duration(cfg.CompleteTimeoutSec) * time.Second,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}, tokens, logger)

	service := chat.NewService(store, client, logger)

	apiServer, err := api.NewServer(api.ServerConfig{
		Logger:      logger,
		Service:     service,
		Store:       store,
		CORSOrigins: cfg.CORSOrigins,
		TrustProxy:  cfg.TrustProxy,
		RateBurst:   parseRateBurst(),
		StaticDir:   cfg.StaticDir,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	logger.Info("HTTP server ready",
		"addr", addr,
		"api", "/api/*",
		"health", "/api/health",
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down HTTP server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down server: %w", err)
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTP server: %w", err)
	}
}
