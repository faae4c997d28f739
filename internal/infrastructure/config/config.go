package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env        string
	HTTPServer HTTPServer
	Database   Database
	Upload     Upload
	Avatar     Avatar
	Prometheus Prometheus
	Tracing    Tracing
	Events     Events
}

type HTTPServer struct {
	Address         string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

type Database struct {
	Driver         string
	Username       string
	Password       string
	Host           string
	Port           string
	DbName         string
	SSLMode        string
	MigrationsPath string
	MaxConns       int32
}

type Upload struct {
	Path           string
	MaxFileSize    int64
	MaxImagePixels int64
}

type Avatar struct {
	FetchTimeout time.Duration
}

type Prometheus struct {
	Address string
	Port    int
}

type Tracing struct {
	Endpoint string
}

// Events.NatsURL left empty disables publishing.
type Events struct {
	NatsURL string
}

func (d Database) DSN() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		d.Username,
		d.Password,
		d.Host,
		d.Port,
		d.DbName,
		d.SSLMode)
}

func MustLoad() *Config {
	cfg, err := Load("./config")
	if err != nil {
		log.Printf("Error reading config: %s", err)
		os.Exit(1)
	}
	return cfg
}

// Load reads config.yaml from dir, then applies APP_-prefixed environment
// overrides, e.g. APP_DATABASE__HOST.
func Load(dir string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	v.AutomaticEnv()

	v.SetDefault("env", "dev")

	v.SetDefault("http_server.address", "0.0.0.0")
	v.SetDefault("http_server.port", 8000)
	v.SetDefault("http_server.read_timeout", "15s")
	v.SetDefault("http_server.write_timeout", "30s")
	v.SetDefault("http_server.idle_timeout", "60s")
	v.SetDefault("http_server.shutdown_timeout", "30s")
	v.SetDefault("http_server.allowed_origins", []string{"*"})

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.username", "postgres")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.db_name", "blog")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.migrations_path", "migrations")
	v.SetDefault("database.max_conns", 10)

	v.SetDefault("upload.path", "uploads")
	v.SetDefault("upload.max_file_size", 5*1024*1024)
	v.SetDefault("upload.max_image_pixels", 25_000_000)

	v.SetDefault("avatar.fetch_timeout", "10s")

	v.SetDefault("prometheus.address", "0.0.0.0")
	v.SetDefault("prometheus.port", 9104)

	v.SetDefault("tracing.endpoint", "")

	v.SetDefault("events.nats_url", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{
		Env: v.GetString("env"),
		HTTPServer: HTTPServer{
			Address:         v.GetString("http_server.address"),
			Port:            v.GetInt("http_server.port"),
			ReadTimeout:     v.GetDuration("http_server.read_timeout"),
			WriteTimeout:    v.GetDuration("http_server.write_timeout"),
			IdleTimeout:     v.GetDuration("http_server.idle_timeout"),
			ShutdownTimeout: v.GetDuration("http_server.shutdown_timeout"),
			AllowedOrigins:  v.GetStringSlice("http_server.allowed_origins"),
		},
		Database: Database{
			Driver:         v.GetString("database.driver"),
			Username:       v.GetString("database.username"),
			Password:       v.GetString("database.password"),
			Host:           v.GetString("database.host"),
			Port:           v.GetString("database.port"),
			DbName:         v.GetString("database.db_name"),
			SSLMode:        v.GetString("database.ssl_mode"),
			MigrationsPath: v.GetString("database.migrations_path"),
			MaxConns:       v.GetInt32("database.max_conns"),
		},
		Upload: Upload{
			Path:           v.GetString("upload.path"),
			MaxFileSize:    v.GetInt64("upload.max_file_size"),
			MaxImagePixels: v.GetInt64("upload.max_image_pixels"),
		},
		Avatar: Avatar{
			FetchTimeout: v.GetDuration("avatar.fetch_timeout"),
		},
		Prometheus: Prometheus{
			Address: v.GetString("prometheus.address"),
			Port:    v.GetInt("prometheus.port"),
		},
		Tracing: Tracing{
			Endpoint: v.GetString("tracing.endpoint"),
		},
		Events: Events{
			NatsURL: v.GetString("events.nats_url"),
		},
	}

	if cfg.Upload.MaxFileSize <= 0 {
		return nil, fmt.Errorf("upload.max_file_size must be positive, got %d", cfg.Upload.MaxFileSize)
	}
	if cfg.Upload.MaxImagePixels <= 0 {
		return nil, fmt.Errorf("upload.max_image_pixels must be positive, got %d", cfg.Upload.MaxImagePixels)
	}
	if cfg.Upload.Path == "" {
		return nil, errors.New("upload.path is required")
	}

	return cfg, nil
}
