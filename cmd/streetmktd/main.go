// Command streetmktd boots the settlement engine as a standalone process:
// it loads configuration, wires structured logging and telemetry, builds
// the administrator set and initial tunables, and constructs the engine.
// Transport (how callers actually reach these methods) is a host concern
// left to the embedding service.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"streetmkt/config"
	"streetmkt/crypto"
	"streetmkt/engine"
	"streetmkt/observability"
	"streetmkt/observability/logging"
	telemetry "streetmkt/observability/otel"
)

func main() {
	configFile := flag.String("config", "./streetmktd.toml", "Path to the configuration file")
	treasuryFlag := flag.String("treasury", "", "Bech32 treasury account address")
	adminFlag := flag.String("admin", "", "Bech32 address of the initial (sole) administrator")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.ServiceName, cfg.Environment)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    cfg.OTLPInsecure,
		Metrics:     cfg.EnableMetrics,
		Traces:      cfg.EnableTraces,
	})
	if err != nil {
		logger.Error("failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Error("telemetry shutdown failed", "error", err)
		}
	}()

	treasury, administrators := mustParseAccounts(logger, *treasuryFlag, *adminFlag)
	tunables := config.DefaultTunables(treasury, administrators)
	if err := tunables.Validate(); err != nil {
		logger.Error("invalid default tunables", "error", err)
		os.Exit(1)
	}

	eng := engine.New(engine.Config{
		Tunables:  tunables,
		Metrics:   observability.Metrics(),
		ActionTTL: time.Duration(cfg.ActionExpirySeconds) * time.Second,
	})

	logger.Info("streetmktd ready",
		"service", cfg.ServiceName,
		"environment", cfg.Environment,
		"administrators", len(administrators),
		"paused", eng.Admin.Tunables().Paused,
	)

	<-ctx.Done()
	logger.Info("streetmktd shutting down")
}

func mustParseAccounts(logger *slog.Logger, treasuryStr, adminStr string) (crypto.Address, []crypto.Address) {
	if treasuryStr == "" || adminStr == "" {
		logger.Error("both -treasury and -admin are required on first boot")
		os.Exit(1)
	}
	treasury, err := crypto.DecodeAddress(treasuryStr)
	if err != nil {
		logger.Error("invalid treasury address", "error", err)
		os.Exit(1)
	}
	adminAddr, err := crypto.DecodeAddress(adminStr)
	if err != nil {
		logger.Error("invalid administrator address", "error", err)
		os.Exit(1)
	}
	return treasury, []crypto.Address{adminAddr}
}
