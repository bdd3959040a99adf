package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/natbkgift/flowbiz-infra-n8n/internal/config"
	"github.com/natbkgift/flowbiz-infra-n8n/internal/observability"
	"github.com/natbkgift/flowbiz-infra-n8n/internal/server"
	"github.com/natbkgift/flowbiz-infra-n8n/internal/server/handlers"
	"github.com/natbkgift/flowbiz-infra-n8n/pkg/auditstore"
	"github.com/natbkgift/flowbiz-infra-n8n/pkg/n8n"
	"github.com/natbkgift/flowbiz-infra-n8n/pkg/ratelimit"
	"github.com/natbkgift/flowbiz-infra-n8n/pkg/registry"
	"github.com/natbkgift/flowbiz-infra-n8n/pkg/signature"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bridge HTTP server",
	Long: `Run the bridge HTTP server.

The workflow registry is loaded once at startup; a load failure is fatal.
The server drains in-flight requests on SIGINT/SIGTERM.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg.Logging.Level, cfg.Logging.Profile)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// Fail fast: no partial registry is ever served.
	reg, err := registry.Load(cfg.Registry.Path)
	if err != nil {
		logger.Error("registry load failed",
			zap.String("path", cfg.Registry.Path),
			zap.Error(err))
		return err
	}
	logger.Info("registry loaded",
		zap.String("path", cfg.Registry.Path),
		zap.Int("workflows", reg.Len()))

	policy := signature.Disabled()
	if cfg.Callback.SigningSecret != "" {
		policy = signature.Enforced(cfg.Callback.SigningSecret)
		logger.Info("callback signature enforcement enabled")
	} else {
		logger.Warn("callback signature enforcement disabled (no secret configured)")
	}

	var audit handlers.AuditSink
	if cfg.Audit.Enabled {
		store, err := auditstore.Open(ctx, cfg.Audit.DBPath)
		if err != nil {
			logger.Error("audit store open failed",
				zap.String("path", cfg.Audit.DBPath),
				zap.Error(err))
			return err
		}
		defer func() { _ = store.Close() }()
		audit = store
		logger.Info("audit store opened", zap.String("path", cfg.Audit.DBPath))
	}

	srv := server.New(cfg.Server.Host, cfg.Server.Port, server.Options{
		Registry:          reg,
		MaxTimeoutSeconds: cfg.Jobs.MaxTimeoutSeconds,
		RateLimiter:       ratelimit.NewPerClient(cfg.Jobs.RateLimitPerMinute),
		SignaturePolicy:   policy,
		Dispatcher:        n8n.NewClient(cfg.N8N.WebhookBaseURL, cfg.N8N.APIKey),
		AuditSink:         audit,
		BuildInfo: handlers.BuildInfo{
			Service:     cfg.Service.Name,
			Environment: cfg.Service.Environment,
			Version:     cfg.Service.Version,
			BuildSHA:    cfg.Service.BuildSHA,
		},
		Logger:       logger,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr()))
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown incomplete", zap.Error(err))
		return err
	}

	logger.Info("server stopped")
	return nil
}
