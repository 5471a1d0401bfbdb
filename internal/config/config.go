package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	DB        DBConfig
	S3        S3Config
	CORS      CORSConfig
	Log       LogConfig
	Highlight HighlightConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// StorageConfig selects where postings and extraction records live.
type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	DataDir string `mapstructure:"data_dir"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// HighlightConfig holds the marker strings wrapped around matched spans.
type HighlightConfig struct {
	Open  string `mapstructure:"open"`
	Close string `mapstructure:"close"`
}

// Load reads configuration from environment variables with the LABELER_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LABELER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// Storage defaults
	v.SetDefault("storage.backend", BackendFile)
	v.SetDefault("storage.data_dir", ".")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "labeler")
	v.SetDefault("db.password", "labeler_secret")
	v.SetDefault("db.name", "labeler_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 10)
	v.SetDefault("db.max_idle", 5)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "labeler-data")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.prefix", "")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Highlight defaults
	v.SetDefault("highlight.open", "<mark>")
	v.SetDefault("highlight.close", "</mark>")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":          "LABELER_SERVER_PORT",
		"server.read_timeout":  "LABELER_SERVER_READ_TIMEOUT",
		"server.write_timeout": "LABELER_SERVER_WRITE_TIMEOUT",
		"server.environment":   "LABELER_SERVER_ENVIRONMENT",
		"storage.backend":      "LABELER_STORAGE_BACKEND",
		"storage.data_dir":     "LABELER_STORAGE_DATA_DIR",
		"db.host":              "LABELER_DB_HOST",
		"db.port":              "LABELER_DB_PORT",
		"db.user":              "LABELER_DB_USER",
		"db.password":          "LABELER_DB_PASSWORD",
		"db.name":              "LABELER_DB_NAME",
		"db.sslmode":           "LABELER_DB_SSLMODE",
		"db.max_open":          "LABELER_DB_MAX_OPEN",
		"db.max_idle":          "LABELER_DB_MAX_IDLE",
		"s3.region":            "LABELER_S3_REGION",
		"s3.bucket":            "LABELER_S3_BUCKET",
		"s3.endpoint":          "LABELER_S3_ENDPOINT",
		"s3.access_key":        "LABELER_S3_ACCESS_KEY",
		"s3.secret_key":        "LABELER_S3_SECRET_KEY",
		"s3.prefix":            "LABELER_S3_PREFIX",
		"cors.allowed_origins": "LABELER_CORS_ALLOWED_ORIGINS",
		"log.level":            "LABELER_LOG_LEVEL",
		"log.format":           "LABELER_LOG_FORMAT",
		"highlight.open":       "LABELER_HIGHLIGHT_OPEN",
		"highlight.close":      "LABELER_HIGHLIGHT_CLOSE",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set PORT. Use it if LABELER_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("LABELER_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Storage = StorageConfig{
		Backend: strings.ToLower(strings.TrimSpace(v.GetString("storage.backend"))),
		DataDir: v.GetString("storage.data_dir"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
		Prefix:    v.GetString("s3.prefix"),
	}
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Highlight = HighlightConfig{
		Open:  v.GetString("highlight.open"),
		Close: v.GetString("highlight.close"),
	}

	switch cfg.Storage.Backend {
	case BackendFile, BackendPostgres, BackendS3:
	default:
		return nil, fmt.Errorf("unsupported storage backend %q (want file, postgres or s3)", cfg.Storage.Backend)
	}
	if cfg.Highlight.Open == "" || cfg.Highlight.Close == "" {
		return nil, fmt.Errorf("highlight markers must not be empty")
	}

	return cfg, nil
}
