package main

import (
	"context"
	"flag"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/deedhub/land-registry/internal/adapter"
	"github.com/deedhub/land-registry/internal/balance"
	"github.com/deedhub/land-registry/internal/chain"
	"github.com/deedhub/land-registry/internal/config"
	"github.com/deedhub/land-registry/internal/ipfs"
	"github.com/deedhub/land-registry/internal/logger"
	"github.com/deedhub/land-registry/internal/messaging"
	"github.com/deedhub/land-registry/internal/notify"
	"github.com/deedhub/land-registry/internal/registrar"
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
	cfg, err := config.LoadWorkerConfig(*configFile, *envPath)
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
			"service": "registrar-worker",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Land Registry worker")

	// Connect to database
	dataStore, err := store.NewPGStore(cfg.Database)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err))
	}

	// Initialize adapters
	jsonAdapter := adapter.NewJSON()
	clock := adapter.NewClock()
	httpClient := adapter.NewHTTPClient(30 * time.Second)
	downloadClient := adapter.NewHTTPClient(cfg.Uploader.DownloadTimeout)

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

	// Build the pipeline: uploader, balance guard, executor
	pinClient := ipfs.NewPinataClient(cfg.Pinata.BaseURL, cfg.Pinata.JWT, httpClient)
	uploader := ipfs.NewUploader(pinClient, downloadClient, clock,
		cfg.Uploader.MaxBatchSize,
		cfg.Uploader.MaxFileSize,
		cfg.Uploader.DownloadTimeout,
		cfg.Uploader.UploadConcurrency,
		cfg.Uploader.AllowedExtensions)

	minBalance, ok := new(big.Int).SetString(cfg.Ethereum.MinBalanceWei, 10)
	if !ok {
		logger.FatalCtx(ctx, "Invalid minimum balance", zap.String("min_balance_wei", cfg.Ethereum.MinBalanceWei))
	}
	guard := balance.NewGuard(chainClient, dataStore, minBalance)

	notifier := notify.NewWebhookNotifier(cfg.Notifier.WebhookURL, httpClient)

	executor := registrar.NewExecutor(dataStore, uploader, guard, chainClient, notifier,
		cfg.Ethereum.ExplorerURL, cfg.Notifier.ActionURL)

	// Connect to NATS and start the dispatcher loop
	conn, js, err := messaging.Connect(adapter.NewNatsJetStream(), cfg.NATS)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to NATS", zap.Error(err))
	}
	defer conn.Close()
	logger.InfoCtx(ctx, "Connected to NATS",
		zap.String("stream", cfg.NATS.StreamName),
		zap.String("consumer", cfg.NATS.ConsumerName))

	dispatcher := messaging.NewDispatcher(js, jsonAdapter, clock, executor, cfg.NATS)

	errCh := make(chan error, 1)
	go func() {
		if err := dispatcher.Start(ctx); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal, then let the loop finish its current job
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "dispatcher"))
	}

	dispatcher.Stop()
	cancel()

	logger.Info("Worker stopped")
}
