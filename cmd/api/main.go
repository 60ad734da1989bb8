package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/deedhub/land-registry/internal/adapter"
	"github.com/deedhub/land-registry/internal/api/middleware"
	"github.com/deedhub/land-registry/internal/api/server"
	"github.com/deedhub/land-registry/internal/chain"
	"github.com/deedhub/land-registry/internal/config"
	"github.com/deedhub/land-registry/internal/history"
	"github.com/deedhub/land-registry/internal/logger"
	"github.com/deedhub/land-registry/internal/messaging"
	"github.com/deedhub/land-registry/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:     cfg.Debug,
		SentryDSN: cfg.SentryDSN,
		Tags: map[string]string{
			"service": "api-server",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Land Registry API")

	// Connect to database
	dataStore, err := store.NewPGStore(cfg.Database)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)

	// Initialize adapters
	jsonAdapter := adapter.NewJSON()
	clock := adapter.NewClock()
	httpClient := adapter.NewHTTPClient(30 * time.Second)

	// Connect to NATS and ensure the job stream exists
	queue, err := messaging.NewJetStreamQueue(ctx, adapter.NewNatsJetStream(), jsonAdapter, cfg.NATS)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to NATS", zap.Error(err))
	}
	defer queue.Close()
	logger.InfoCtx(ctx, "Connected to NATS", zap.String("stream", cfg.NATS.StreamName))

	// Connect to the chain RPC node
	ethClient, err := adapter.NewEthClientDialer().Dial(ctx, cfg.Ethereum.RPCURL)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to RPC node", zap.Error(err))
	}
	chainClient, err := chain.NewClient(ctx, ethClient, clock,
		cfg.Ethereum.ContractAddress,
		cfg.Ethereum.PrivateKey,
		cfg.Ethereum.ConfirmInterval,
		cfg.Ethereum.ConfirmTimeout)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create chain client", zap.Error(err))
	}
	defer chainClient.Close()
	logger.InfoCtx(ctx, "Connected to chain",
		zap.String("contract", cfg.Ethereum.ContractAddress),
		zap.String("wallet", chainClient.WalletAddress()))

	// History reads go through the indexing API with a live-owner fallback
	indexerClient := history.NewHTTPIndexerClient(cfg.Indexer.APIURL, cfg.Indexer.APIKey, httpClient)
	reconciler := history.NewReconciler(dataStore, indexerClient, chainClient, cfg.Ethereum.ContractAddress)

	serverConfig := server.Config{
		Debug:        cfg.Debug,
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		Auth: middleware.AuthConfig{
			JWTPublicKey: cfg.Auth.JWTPublicKey,
			APIKeys:      cfg.Auth.APIKeys,
		},
	}

	srv := server.New(serverConfig, dataStore, queue, reconciler, chainClient, clock)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.FatalCtx(shutdownCtx, "Server forced to shutdown", zap.Error(err))
	}

	logger.Info("API server stopped")
}
