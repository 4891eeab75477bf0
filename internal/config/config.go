package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	NATS     NATSConfig     `yaml:"nats"`
	MinIO    MinIOConfig    `yaml:"minio"`
	Vision   VisionConfig   `yaml:"vision"`
	Telegram TelegramConfig `yaml:"telegram"`
	Gateway  GatewayConfig  `yaml:"gateway"`
	Retry    RetryConfig    `yaml:"retry"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port        int `yaml:"port"`
	MetricsPort int `yaml:"metrics_port"`
}

// DatabaseConfig carries the combined "host:port/dbname" endpoint form the
// deployment tooling hands out, plus credentials.
type DatabaseConfig struct {
	Endpoint string `yaml:"endpoint"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	MaxConns int    `yaml:"max_conns"`
}

// DSN splits the combined endpoint on its first "/" into host:port and
// database name and builds a postgres connection string from them.
func (d DatabaseConfig) DSN() string {
	hostPort, name, _ := strings.Cut(d.Endpoint, "/")
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable",
		d.User, d.Password, hostPort, name)
}

type NATSConfig struct {
	URL string `yaml:"url"`
}

type MinIOConfig struct {
	Endpoint     string `yaml:"endpoint"`
	AccessKey    string `yaml:"access_key"`
	SecretKey    string `yaml:"secret_key"`
	PhotosBucket string `yaml:"photos_bucket"`
	FacesBucket  string `yaml:"faces_bucket"`
	UseSSL       bool   `yaml:"use_ssl"`
}

type VisionConfig struct {
	BaseURL  string `yaml:"base_url"`
	Token    string `yaml:"token"`
	FolderID string `yaml:"folder_id"`
}

type TelegramConfig struct {
	Token         string `yaml:"token"`
	WebhookSecret string `yaml:"webhook_secret"`
}

// GatewayConfig names the host Telegram fetches photos from. The bot hands
// Telegram URLs pointing back at this host instead of uploading bytes.
type GatewayConfig struct {
	Host string `yaml:"host"`
}

type RetryConfig struct {
	Attempts int           `yaml:"attempts"`
	Backoff  time.Duration `yaml:"backoff"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads config from YAML file and applies environment variable overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(cfg)
	setDefaults(cfg)

	return cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.MetricsPort == 0 {
		cfg.Server.MetricsPort = 8082
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = 20
	}
	if cfg.MinIO.PhotosBucket == "" {
		cfg.MinIO.PhotosBucket = "photos"
	}
	if cfg.MinIO.FacesBucket == "" {
		cfg.MinIO.FacesBucket = "faces"
	}
	if cfg.Retry.Attempts == 0 {
		cfg.Retry.Attempts = 3
	}
	if cfg.Retry.Backoff == 0 {
		cfg.Retry.Backoff = 200 * time.Millisecond
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FACETAG_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("FACETAG_METRICS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = port
		}
	}
	if v := os.Getenv("FACETAG_DATABASE_ENDPOINT"); v != "" {
		cfg.Database.Endpoint = v
	}
	if v := os.Getenv("FACETAG_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("FACETAG_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("FACETAG_NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("FACETAG_MINIO_ENDPOINT"); v != "" {
		cfg.MinIO.Endpoint = v
	}
	if v := os.Getenv("FACETAG_ACCESS_KEY"); v != "" {
		cfg.MinIO.AccessKey = v
	}
	if v := os.Getenv("FACETAG_SECRET_KEY"); v != "" {
		cfg.MinIO.SecretKey = v
	}
	if v := os.Getenv("FACETAG_PHOTOS_BUCKET"); v != "" {
		cfg.MinIO.PhotosBucket = v
	}
	if v := os.Getenv("FACETAG_FACES_BUCKET"); v != "" {
		cfg.MinIO.FacesBucket = v
	}
	if v := os.Getenv("FACETAG_VISION_URL"); v != "" {
		cfg.Vision.BaseURL = v
	}
	if v := os.Getenv("FACETAG_VISION_TOKEN"); v != "" {
		cfg.Vision.Token = v
	}
	if v := os.Getenv("FACETAG_VISION_FOLDER_ID"); v != "" {
		cfg.Vision.FolderID = v
	}
	if v := os.Getenv("FACETAG_TGKEY"); v != "" {
		cfg.Telegram.Token = v
	}
	if v := os.Getenv("FACETAG_WEBHOOK_SECRET"); v != "" {
		cfg.Telegram.WebhookSecret = v
	}
	if v := os.Getenv("FACETAG_GATEWAY_HOST"); v != "" {
		cfg.Gateway.Host = v
	}
	if v := os.Getenv("FACETAG_RETRY_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Retry.Attempts = n
		}
	}
}
