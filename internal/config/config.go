// Package config provides configuration management for the greet service.
package config

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Supported database drivers
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RateLimit       int64         `mapstructure:"rate_limit"`        // Requests per RateLimitPeriod per IP
	RateLimitPeriod time.Duration `mapstructure:"rate_limit_period"` // Window for RateLimit
	AllowOrigins    []string      `mapstructure:"allow_origins"`
	TrustedProxies  []string      `mapstructure:"trusted_proxies"` // IPs or CIDRs allowed to set X-Forwarded-For
	Version         string        `mapstructure:"version"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver                string        `mapstructure:"driver"` // "sqlite3" or "postgres"
	Path                  string        `mapstructure:"path"`   // SQLite file path
	URL                   string        `mapstructure:"url"`
	Host                  string        `mapstructure:"host"`
	Port                  string        `mapstructure:"port"`
	Name                  string        `mapstructure:"name"`
	User                  string        `mapstructure:"user"`
	Password              string        `mapstructure:"password"`
	SSLMode               string        `mapstructure:"sslmode"`
	MaxConnections        int           `mapstructure:"max_connections"`
	MaxIdleConnections    int           `mapstructure:"max_idle_connections"`
	ConnectionMaxLifetime time.Duration `mapstructure:"connection_max_lifetime"`
	AutoMigrate           bool          `mapstructure:"auto_migrate"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// defaults maps each config key to its environment variable and default value
var defaults = []struct {
	key   string
	env   string
	value any
}{
	{"server.port", "PORT", "8080"},
	{"server.read_timeout", "SERVER_READ_TIMEOUT", "15s"},
	{"server.write_timeout", "SERVER_WRITE_TIMEOUT", "15s"},
	{"server.shutdown_timeout", "SERVER_SHUTDOWN_TIMEOUT", "10s"},
	{"server.rate_limit", "RATE_LIMIT", 100},
	{"server.rate_limit_period", "RATE_LIMIT_PERIOD", "1m"},
	{"server.allow_origins", "CORS_ALLOW_ORIGINS", []string{"*"}},
	{"server.trusted_proxies", "TRUSTED_PROXIES", []string{}},
	{"server.version", "APP_VERSION", "1.0.0"},
	{"database.driver", "DB_DRIVER", DriverSQLite},
	{"database.path", "DB_PATH", "./data/greet.db"},
	{"database.url", "DATABASE_URL", ""},
	{"database.host", "DB_HOST", "localhost"},
	{"database.port", "DB_PORT", "5432"},
	{"database.name", "DB_NAME", "greet_dev"},
	{"database.user", "DB_USER", "greet_user"},
	{"database.password", "", "greet_pass"},
	{"database.sslmode", "DB_SSLMODE", "disable"},
	{"database.max_connections", "DB_MAX_CONNECTIONS", 25},
	{"database.max_idle_connections", "DB_MAX_IDLE_CONNECTIONS", 5},
	{"database.connection_max_lifetime", "DB_CONNECTION_MAX_LIFETIME", "5m"},
	{"database.auto_migrate", "DB_AUTO_MIGRATE", true},
	{"log.level", "LOG_LEVEL", "info"},
	{"log.format", "LOG_FORMAT", "json"},
}

// Load loads configuration from defaults, an optional config file and the environment.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	v := viper.New()

	for _, d := range defaults {
		v.SetDefault(d.key, d.value)
		if d.env != "" {
			if err := v.BindEnv(d.key, d.env); err != nil {
				return nil, fmt.Errorf("failed to bind %s: %w", d.env, err)
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Password may come from DB_PASSWORD or DB_PASSWORD_FILE
	cfg.Database.Password = GetSecret("DB_PASSWORD", cfg.Database.Password)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return errors.New("DB_PATH is required when DB_DRIVER=sqlite3")
		}
	case DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", c.Log.Level, err)
	}

	if c.Server.RateLimit <= 0 {
		return errors.New("RATE_LIMIT must be positive")
	}
	if c.Server.RateLimitPeriod <= 0 {
		return errors.New("RATE_LIMIT_PERIOD must be positive")
	}

	for _, proxy := range c.Server.TrustedProxies {
		if !isIPOrCIDR(proxy) {
			return fmt.Errorf("invalid TRUSTED_PROXIES entry %q", proxy)
		}
	}

	return nil
}

func isIPOrCIDR(s string) bool {
	if _, err := netip.ParsePrefix(s); err == nil {
		return true
	}
	_, err := netip.ParseAddr(s)
	return err == nil
}

// ConnectionString returns the database connection string
func (d *DatabaseConfig) ConnectionString() string {
	if d.Driver == DriverSQLite {
		return d.Path + "?_foreign_keys=on&_busy_timeout=5000"
	}
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}
