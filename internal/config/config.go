package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// BaseConfig holds base configuration shared by all binaries
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	ConsumerName   string        `mapstructure:"consumer_name"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
	AckWait        time.Duration `mapstructure:"ack_wait"`
	MaxDeliver     int           `mapstructure:"max_deliver"`
	FetchBatchSize int           `mapstructure:"fetch_batch_size"`
	FetchMaxWait   time.Duration `mapstructure:"fetch_max_wait"`
}

// EthereumConfig holds chain client configuration
type EthereumConfig struct {
	RPCURL          string        `mapstructure:"rpc_url"`
	PrivateKey      string        `mapstructure:"private_key"` // hex, no 0x prefix
	ContractAddress string        `mapstructure:"contract_address"`
	ConfirmInterval time.Duration `mapstructure:"confirm_interval"`
	ConfirmTimeout  time.Duration `mapstructure:"confirm_timeout"`
	MinBalanceWei   string        `mapstructure:"min_balance_wei"` // threshold for update actions
	ExplorerURL     string        `mapstructure:"explorer_url"`
}

// PinataConfig holds pinning provider configuration
type PinataConfig struct {
	BaseURL string `mapstructure:"base_url"`
	JWT     string `mapstructure:"jwt"`
	Gateway string `mapstructure:"gateway"`
}

// UploaderConfig bounds document downloads and batch sizes
type UploaderConfig struct {
	MaxBatchSize      int           `mapstructure:"max_batch_size"`
	MaxFileSize       int64         `mapstructure:"max_file_size"`
	DownloadTimeout   time.Duration `mapstructure:"download_timeout"`
	AllowedExtensions []string      `mapstructure:"allowed_extensions"`
	UploadConcurrency int           `mapstructure:"upload_concurrency"`
}

// IndexerConfig holds the chain-indexing API configuration
type IndexerConfig struct {
	APIURL string `mapstructure:"api_url"`
	APIKey string `mapstructure:"api_key"`
}

// NotifierConfig holds the notification-service webhook configuration
type NotifierConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
	ActionURL  string `mapstructure:"action_url"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string   `mapstructure:"jwt_public_key"`
	APIKeys      []string `mapstructure:"api_keys"`
}

// APIConfig holds configuration for the API server
type APIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig   `mapstructure:"server"`
	Database   DatabaseConfig `mapstructure:"database"`
	NATS       NATSConfig     `mapstructure:"nats"`
	Ethereum   EthereumConfig `mapstructure:"ethereum"`
	Indexer    IndexerConfig  `mapstructure:"indexer"`
	Auth       AuthConfig     `mapstructure:"auth"`
}

// WorkerConfig holds configuration for the registrar worker
type WorkerConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig `mapstructure:"database"`
	NATS       NATSConfig     `mapstructure:"nats"`
	Ethereum   EthereumConfig `mapstructure:"ethereum"`
	Pinata     PinataConfig   `mapstructure:"pinata"`
	Uploader   UploaderConfig `mapstructure:"uploader"`
	Notifier   NotifierConfig `mapstructure:"notifier"`
}

// LoadAPIConfig loads configuration for the API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.idle_timeout", 120)
	setDatabaseDefaults(v)
	setNATSDefaults(v)
	setEthereumDefaults(v)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config APIConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// LoadWorkerConfig loads configuration for the registrar worker
func LoadWorkerConfig(configFile string, envPath string) (*WorkerConfig, error) {
	v := configureViper("worker", configFile, envPath)

	setDatabaseDefaults(v)
	setNATSDefaults(v)
	setEthereumDefaults(v)
	v.SetDefault("pinata.base_url", "https://api.pinata.cloud")
	v.SetDefault("pinata.gateway", "https://gateway.pinata.cloud/ipfs")
	v.SetDefault("uploader.max_batch_size", 20)
	v.SetDefault("uploader.max_file_size", 10*1024*1024) // 10MB
	v.SetDefault("uploader.download_timeout", "120s")
	v.SetDefault("uploader.upload_concurrency", 5)
	v.SetDefault("uploader.allowed_extensions", []string{"pdf", "jpg", "jpeg", "png", "doc", "docx"})

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config WorkerConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDatabaseDefaults(v *viper.Viper) {
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "5m")
	v.SetDefault("database.conn_max_idle_time", "10m")
}

func setNATSDefaults(v *viper.Viper) {
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.stream_name", "REGISTRATION_JOBS")
	v.SetDefault("nats.consumer_name", "registrar-worker")
	v.SetDefault("nats.ack_wait", "5m")
	v.SetDefault("nats.max_deliver", 3)
	v.SetDefault("nats.fetch_batch_size", 1)
	v.SetDefault("nats.fetch_max_wait", "10s")
}

func setEthereumDefaults(v *viper.Viper) {
	v.SetDefault("ethereum.confirm_interval", "3s")
	v.SetDefault("ethereum.confirm_timeout", "5m")
	v.SetDefault("ethereum.min_balance_wei", "10000000000000000") // 0.01 ETH
	v.SetDefault("ethereum.explorer_url", "https://sepolia.etherscan.io")
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found, use environment variables
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	loadEnv(envPath, service)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix("LAND_REGISTRY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables.
// Required for viper to map env vars to config struct fields when no config
// file exists.
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.consumer_name",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		"nats.ack_wait",
		"nats.max_deliver",
		"nats.fetch_batch_size",
		"nats.fetch_max_wait",
		// Ethereum
		"ethereum.rpc_url",
		"ethereum.private_key",
		"ethereum.contract_address",
		"ethereum.confirm_interval",
		"ethereum.confirm_timeout",
		"ethereum.min_balance_wei",
		"ethereum.explorer_url",
		// Pinata
		"pinata.base_url",
		"pinata.jwt",
		"pinata.gateway",
		// Uploader
		"uploader.max_batch_size",
		"uploader.max_file_size",
		"uploader.download_timeout",
		"uploader.allowed_extensions",
		"uploader.upload_concurrency",
		// Indexer
		"indexer.api_url",
		"indexer.api_key",
		// Notifier
		"notifier.webhook_url",
		"notifier.action_url",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		// Auth
		"auth.jwt_public_key",
		"auth.api_keys",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
