package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/deedhub/land-registry/internal/config"
)

func TestLoadWorkerConfigDefaults(t *testing.T) {
	cfg, err := config.LoadWorkerConfig("", t.TempDir())
	assert.NoError(t, err)

	assert.Equal(t, "REGISTRATION_JOBS", cfg.NATS.StreamName)
	assert.Equal(t, "registrar-worker", cfg.NATS.ConsumerName)
	assert.Equal(t, 5*time.Minute, cfg.NATS.AckWait)
	assert.Equal(t, 3, cfg.NATS.MaxDeliver)
	assert.Equal(t, 1, cfg.NATS.FetchBatchSize)
	assert.Equal(t, 10*time.Second, cfg.NATS.FetchMaxWait)

	assert.Equal(t, 3*time.Second, cfg.Ethereum.ConfirmInterval)
	assert.Equal(t, 5*time.Minute, cfg.Ethereum.ConfirmTimeout)
	assert.Equal(t, "10000000000000000", cfg.Ethereum.MinBalanceWei)

	assert.Equal(t, "https://api.pinata.cloud", cfg.Pinata.BaseURL)
	assert.Equal(t, 20, cfg.Uploader.MaxBatchSize)
	assert.Equal(t, int64(10*1024*1024), cfg.Uploader.MaxFileSize)
	assert.Equal(t, 120*time.Second, cfg.Uploader.DownloadTimeout)
	assert.Equal(t, 5, cfg.Uploader.UploadConcurrency)
	assert.Contains(t, cfg.Uploader.AllowedExtensions, "pdf")

	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
}

func TestLoadWorkerConfigEnvOverride(t *testing.T) {
	t.Setenv("LAND_REGISTRY_DATABASE_HOST", "db.internal")
	t.Setenv("LAND_REGISTRY_NATS_URL", "nats://queue.internal:4222")
	t.Setenv("LAND_REGISTRY_ETHEREUM_RPC_URL", "https://rpc.internal")
	t.Setenv("LAND_REGISTRY_PINATA_JWT", "env-jwt")
	t.Setenv("LAND_REGISTRY_UPLOADER_MAX_BATCH_SIZE", "7")

	cfg, err := config.LoadWorkerConfig("", t.TempDir())
	assert.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "nats://queue.internal:4222", cfg.NATS.URL)
	assert.Equal(t, "https://rpc.internal", cfg.Ethereum.RPCURL)
	assert.Equal(t, "env-jwt", cfg.Pinata.JWT)
	assert.Equal(t, 7, cfg.Uploader.MaxBatchSize)
}

func TestLoadAPIConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
debug: true
server:
  port: 9090
database:
  host: localhost
  user: registry
  dbname: land_registry
nats:
  url: nats://localhost:4222
ethereum:
  rpc_url: https://rpc.sepolia.org
  contract_address: "0x5FbDB2315678afecb367f032d93F642f64180aa3"
indexer:
  api_url: https://indexer.example.com
  api_key: file-key
auth:
  api_keys:
    - key-one
    - key-two
`
	assert.NoError(t, os.WriteFile(configFile, []byte(content), 0o600))

	cfg, err := config.LoadAPIConfig(configFile, dir)
	assert.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Defaults still apply for keys the file omits
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 10, cfg.Server.ReadTimeout)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "https://indexer.example.com", cfg.Indexer.APIURL)
	assert.Equal(t, []string{"key-one", "key-two"}, cfg.Auth.APIKeys)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "registry",
		Password: "secret",
		DBName:   "land_registry",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		"host=localhost port=5432 user=registry password=secret dbname=land_registry sslmode=disable",
		cfg.DSN())
}
