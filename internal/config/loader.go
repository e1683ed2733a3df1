package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileEnv names the environment variable holding the optional YAML
// config file path.
const FileEnv = "CONFIG_FILE"

var durationType = reflect.TypeOf(time.Duration(0))

// Load builds the configuration from defaults, the file named by
// CONFIG_FILE (if any) and the environment, in that order, and validates it.
func Load() (*Config, error) {
	return LoadFile(os.Getenv(FileEnv))
}

// LoadFile is Load with an explicit file path. An empty path skips the
// file layer.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{}
	root := reflect.ValueOf(cfg).Elem()

	if err := eachField(root, applyDefault); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	if err := eachField(root, applyEnv); err != nil {
		return nil, fmt.Errorf("config env: %w", err)
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = cfg.Database.assembleURL()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// eachField calls fn for every settable leaf field below v.
func eachField(v reflect.Value, fn func(reflect.StructField, reflect.Value) error) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf, fv := t.Field(i), v.Field(i)
		if !fv.CanSet() {
			continue
		}
		if sf.Type.Kind() == reflect.Struct {
			if err := eachField(fv, fn); err != nil {
				return err
			}
			continue
		}
		if err := fn(sf, fv); err != nil {
			return err
		}
	}
	return nil
}

func applyDefault(sf reflect.StructField, fv reflect.Value) error {
	def, ok := sf.Tag.Lookup("default")
	if !ok || def == "" {
		return nil
	}
	if err := parseInto(fv, def); err != nil {
		return fmt.Errorf("default for %s: %w", sf.Name, err)
	}
	return nil
}

func applyEnv(sf reflect.StructField, fv reflect.Value) error {
	for _, name := range []string{sf.Tag.Get("env"), sf.Tag.Get("envAlt")} {
		if name == "" {
			continue
		}
		raw, ok := os.LookupEnv(name)
		if !ok || raw == "" {
			continue
		}
		if err := parseInto(fv, raw); err != nil {
			return fmt.Errorf("%s=%q: %w", name, raw, err)
		}
		return nil
	}
	return nil
}

// parseInto converts raw to the field's type. Durations use
// time.ParseDuration and string slices are comma separated.
func parseInto(fv reflect.Value, raw string) error {
	if fv.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		fv.SetInt(int64(d))
		return nil
	}

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(raw)
	case reflect.Int, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		fv.SetBool(b)
	case reflect.Slice:
		if fv.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice of %s", fv.Type().Elem())
		}
		var items []string
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				items = append(items, p)
			}
		}
		fv.Set(reflect.ValueOf(items))
	default:
		return fmt.Errorf("unsupported kind %s", fv.Kind())
	}
	return nil
}

func (d *DatabaseConfig) assembleURL() string {
	if d.Host == "" || d.Name == "" {
		return ""
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.DBPort)),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Validate reports every invalid setting at once, joined into one error.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	db := c.Database
	check(db.URL != "", "DATABASE_URL (or DB_HOST and DB_NAME) is required")
	check(db.MaxConns > 0, "DB_MAX_CONNS must be positive")
	check(db.MinConns >= 0, "DB_MIN_CONNS must be non-negative")
	check(db.MaxConns >= db.MinConns, "DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)", db.MaxConns, db.MinConns)
	check(db.ConnectAttempts > 0, "DB_CONNECT_ATTEMPTS must be positive")

	srv := c.Server
	check(srv.Port > 0 && srv.Port <= 65535, "SERVER_PORT (%d) must be 1-65535", srv.Port)
	check(srv.ReadTimeout >= 0, "SERVER_READ_TIMEOUT must be non-negative")
	check(srv.ShutdownTimeout > 0, "SERVER_SHUTDOWN_TIMEOUT must be positive")

	imp := c.Import
	check(imp.MaxFileSize > 0, "IMPORT_MAX_FILE_SIZE must be positive")
	check(imp.MaxConcurrent > 0, "IMPORT_MAX_CONCURRENT must be positive")
	check(imp.BatchSize > 0, "IMPORT_BATCH_SIZE must be positive")
	check(imp.MaxWaitTime > 0, "IMPORT_MAX_WAIT_TIME must be positive")
	check(imp.Timeout > 0, "IMPORT_TIMEOUT must be positive")

	check(len(c.Kafka.Brokers) == 0 || c.Kafka.Topic != "", "KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	check(c.History.TTL > 0, "JOB_HISTORY_TTL must be positive")
	check(c.History.SweepInterval > 0, "JOB_HISTORY_SWEEP_INTERVAL must be positive")
	check(!c.Rate.Enabled || (c.Rate.Requests > 0 && c.Rate.Window > 0),
		"RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive when rate limiting is enabled")
	check(!c.Security.RequireAPIKey || len(c.Security.APIKeys) > 0,
		"REQUIRE_API_KEY is set but API_KEYS is empty")

	check(oneOf(c.Logging.Level, logLevels), "LOG_LEVEL (%q) must be one of: %s", c.Logging.Level, strings.Join(logLevels, ", "))
	check(oneOf(c.Logging.Format, logFormats), "LOG_FORMAT (%q) must be one of: %s", c.Logging.Format, strings.Join(logFormats, ", "))

	return errors.Join(errs...)
}

func oneOf(v string, allowed []string) bool {
	v = strings.ToLower(v)
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// LogValue implements slog.LogValuer. Credentials and API keys are
// left out.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", c.Server.Addr()),
		slog.Group("database",
			slog.String("url", "[MASKED]"),
			slog.Int("max_conns", c.Database.MaxConns),
			slog.Int("min_conns", c.Database.MinConns),
		),
		slog.Group("import",
			slog.Int64("max_file_size", c.Import.MaxFileSize),
			slog.Int("max_concurrent", c.Import.MaxConcurrent),
			slog.Int("batch_size", c.Import.BatchSize),
			slog.Duration("timeout", c.Import.Timeout),
		),
		slog.Bool("redis", c.Redis.Addr != ""),
		slog.Bool("kafka", len(c.Kafka.Brokers) > 0),
		slog.Bool("api_keys", c.Security.RequireAPIKey),
		slog.String("log_level", c.Logging.Level),
	)
}
