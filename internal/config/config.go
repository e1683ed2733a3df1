// Package config loads the server and CLI settings.
//
// Values are layered: struct tag defaults, then an optional YAML file
// named by CONFIG_FILE, then environment variables. Load validates the
// result so a bad deployment fails at startup instead of on first use.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config is the complete configuration tree.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Import   ImportConfig   `yaml:"import"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	CORS     CORSConfig     `yaml:"cors"`
	Security SecurityConfig `yaml:"security"`
	Rate     RateConfig     `yaml:"rateLimit"`
	Logging  LoggingConfig  `yaml:"logging"`
	History  HistoryConfig  `yaml:"history"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host        string        `yaml:"host" env:"SERVER_HOST" default:"0.0.0.0"`
	Port        int           `yaml:"port" env:"SERVER_PORT" envAlt:"PORT" default:"8000"`
	ReadTimeout time.Duration `yaml:"readTimeout" env:"SERVER_READ_TIMEOUT" default:"30s"`

	// WriteTimeout stays 0 by default; a non-zero value cuts off
	// WebSocket and SSE progress streams.
	WriteTimeout time.Duration `yaml:"writeTimeout" env:"SERVER_WRITE_TIMEOUT" default:"0s"`

	IdleTimeout     time.Duration `yaml:"idleTimeout" env:"SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// Addr returns host:port for http.Server.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// DatabaseConfig holds the Postgres pool settings.
type DatabaseConfig struct {
	// URL wins when set. Otherwise it is built from the DB_* parts, which
	// is how the docker-compose file passes credentials.
	URL string `yaml:"url" env:"DATABASE_URL" envAlt:"DB_URL"`

	User     string `yaml:"user" env:"DB_USER" default:"postgres"`
	Password string `yaml:"password" env:"DB_PASSWORD" default:"postgres"`
	Host     string `yaml:"host" env:"DB_HOST" default:"localhost"`
	DBPort   int    `yaml:"port" env:"DB_PORT" default:"5432"`
	Name     string `yaml:"name" env:"DB_NAME" default:"taller_db"`

	MaxConns        int           `yaml:"maxConns" env:"DB_MAX_CONNS" default:"10"`
	MinConns        int           `yaml:"minConns" env:"DB_MIN_CONNS" default:"2"`
	MaxConnLifetime time.Duration `yaml:"maxConnLifetime" env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"maxConnIdleTime" env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`

	// ConnectAttempts and ConnectDelay bound the wait for the database
	// at startup.
	ConnectAttempts int           `yaml:"connectAttempts" env:"DB_CONNECT_ATTEMPTS" default:"30"`
	ConnectDelay    time.Duration `yaml:"connectDelay" env:"DB_CONNECT_DELAY" default:"2s"`
}

// ImportConfig controls spreadsheet uploads and import jobs.
type ImportConfig struct {
	MaxFileSize   int64         `yaml:"maxFileSize" env:"IMPORT_MAX_FILE_SIZE" default:"33554432"`
	MaxConcurrent int           `yaml:"maxConcurrent" env:"IMPORT_MAX_CONCURRENT" default:"4"`
	MaxWaitTime   time.Duration `yaml:"maxWaitTime" env:"IMPORT_MAX_WAIT_TIME" default:"30s"`

	// BatchSize is the number of processed rows per commit.
	BatchSize int `yaml:"batchSize" env:"IMPORT_BATCH_SIZE" default:"10"`

	// Timeout bounds one job. It is not tied to the request that started it.
	Timeout time.Duration `yaml:"timeout" env:"IMPORT_TIMEOUT" default:"10m"`

	// ColumnSpecFile replaces the built-in column list with a YAML file.
	ColumnSpecFile string `yaml:"columnSpecFile" env:"IMPORT_COLUMN_SPEC_FILE"`
}

// RedisConfig points job history at Redis. Leave Addr empty to keep
// history in memory.
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" default:"0"`
}

// KafkaConfig turns on job events. No brokers, no events.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS"`
	Topic   string   `yaml:"topic" env:"KAFKA_TOPIC" default:"taller.import.jobs"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins" env:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

// SecurityConfig covers proxy trust and API keys for mutating routes.
type SecurityConfig struct {
	TrustedProxies []string `yaml:"trustedProxies" env:"TRUSTED_PROXIES"`
	RequireAPIKey  bool     `yaml:"requireApiKey" env:"REQUIRE_API_KEY" default:"false"`
	APIKeys        []string `yaml:"apiKeys" env:"API_KEYS"`
}

// RateConfig controls the per-IP request limiter.
type RateConfig struct {
	Enabled  bool          `yaml:"enabled" env:"RATE_LIMIT_ENABLED" default:"true"`
	Requests int           `yaml:"requests" env:"RATE_LIMIT_REQUESTS" default:"300"`
	Window   time.Duration `yaml:"window" env:"RATE_LIMIT_WINDOW" default:"1m"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" default:"text"`
}

// HistoryConfig controls how long finished job records are kept.
type HistoryConfig struct {
	TTL           time.Duration `yaml:"ttl" env:"JOB_HISTORY_TTL" default:"24h"`
	SweepInterval time.Duration `yaml:"sweepInterval" env:"JOB_HISTORY_SWEEP_INTERVAL" default:"10m"`
}
