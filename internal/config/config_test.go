package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cleanEnv clears every environment variable Load reads
func cleanEnv(t *testing.T) {
	t.Helper()
	for _, d := range defaults {
		if d.env != "" {
			t.Setenv(d.env, "")
		}
	}
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("DB_PASSWORD_FILE", "")
}

func TestLoad_Defaults(t *testing.T) {
	cleanEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	server := cfg.Server
	assert.Empty(t, server.TrustedProxies)
	server.TrustedProxies = nil

	assert.Equal(t, ServerConfig{
		Port:            "8080",
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		RateLimit:       100,
		RateLimitPeriod: time.Minute,
		AllowOrigins:    []string{"*"},
		Version:         "1.0.0",
	}, server)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "./data/greet.db", cfg.Database.Path)
	assert.Equal(t, "greet_pass", cfg.Database.Password)
	assert.Equal(t, 25, cfg.Database.MaxConnections)
	assert.Equal(t, 5, cfg.Database.MaxIdleConnections)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnectionMaxLifetime)
	assert.True(t, cfg.Database.AutoMigrate)

	assert.Equal(t, LogConfig{Level: "info", Format: "json"}, cfg.Log)
}

func TestLoad_EnvOverrides(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name:    "port",
			envVars: map[string]string{"PORT": "9090"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "9090", cfg.Server.Port)
			},
		},
		{
			name: "postgres database",
			envVars: map[string]string{
				"DB_DRIVER":          "postgres",
				"DB_HOST":            "db.internal",
				"DB_NAME":            "greet",
				"DB_MAX_CONNECTIONS": "50",
				"DB_AUTO_MIGRATE":    "false",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DriverPostgres, cfg.Database.Driver)
				assert.Equal(t, "db.internal", cfg.Database.Host)
				assert.Equal(t, "greet", cfg.Database.Name)
				assert.Equal(t, 50, cfg.Database.MaxConnections)
				assert.False(t, cfg.Database.AutoMigrate)
			},
		},
		{
			name: "rate limit and cors",
			envVars: map[string]string{
				"RATE_LIMIT":         "10",
				"RATE_LIMIT_PERIOD":  "30s",
				"CORS_ALLOW_ORIGINS": "https://a.example.com,https://b.example.com",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, int64(10), cfg.Server.RateLimit)
				assert.Equal(t, 30*time.Second, cfg.Server.RateLimitPeriod)
				assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.AllowOrigins)
			},
		},
		{
			name:    "trusted proxies",
			envVars: map[string]string{"TRUSTED_PROXIES": "10.0.0.0/8,127.0.0.1"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.Server.TrustedProxies)
			},
		},
		{
			name:    "log level",
			envVars: map[string]string{"LOG_LEVEL": "debug", "LOG_FORMAT": "console"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.Log.Level)
				assert.Equal(t, "console", cfg.Log.Format)
			},
		},
		{
			name:    "password from env",
			envVars: map[string]string{"DB_PASSWORD": "from-env"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "from-env", cfg.Database.Password)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanEnv(t)
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			cfg, err := Load("")
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	cleanEnv(t)

	path := filepath.Join(t.TempDir(), "greet.yaml")
	content := []byte(`
server:
  port: "7070"
database:
  driver: postgres
  url: postgres://u:p@localhost:5432/greet
log:
  level: warn
`)
	require.NoError(t, os.WriteFile(path, content, 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "postgres://u:p@localhost:5432/greet", cfg.Database.ConnectionString())
	assert.Equal(t, "warn", cfg.Log.Level)

	t.Run("environment wins over file", func(t *testing.T) {
		t.Setenv("PORT", "6060")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "6060", cfg.Server.Port)
	})
}

func TestLoad_MissingConfigFile(t *testing.T) {
	cleanEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		errMsg  string
	}{
		{
			name:    "unknown driver",
			envVars: map[string]string{"DB_DRIVER": "mysql"},
			errMsg:  `unsupported DB_DRIVER "mysql"`,
		},
		{
			name:    "zero rate limit",
			envVars: map[string]string{"RATE_LIMIT": "0"},
			errMsg:  "RATE_LIMIT must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanEnv(t)
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			_, err := Load("")
			require.Error(t, err)
			assert.Equal(t, tt.errMsg, err.Error())
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server: ServerConfig{RateLimit: 100, RateLimitPeriod: time.Minute},
			Database: DatabaseConfig{
				Driver: DriverSQLite,
				Path:   "greet.db",
			},
			Log: LogConfig{Level: "info"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:    "valid sqlite config",
			mutate:  func(_ *Config) {},
			wantErr: false,
		},
		{
			name:    "valid postgres config",
			mutate:  func(c *Config) { c.Database.Driver = DriverPostgres },
			wantErr: false,
		},
		{
			name:    "sqlite without path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: true,
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Log.Level = "loud" },
			wantErr: true,
		},
		{
			name:    "upper case log level",
			mutate:  func(c *Config) { c.Log.Level = "DEBUG" },
			wantErr: false,
		},
		{
			name:    "zero rate limit period",
			mutate:  func(c *Config) { c.Server.RateLimitPeriod = 0 },
			wantErr: true,
		},
		{
			name:    "trusted proxy ip and cidr",
			mutate:  func(c *Config) { c.Server.TrustedProxies = []string{"10.0.0.1", "192.168.0.0/16", "::1"} },
			wantErr: false,
		},
		{
			name:    "trusted proxy hostname",
			mutate:  func(c *Config) { c.Server.TrustedProxies = []string{"proxy.internal"} },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConnectionString(t *testing.T) {
	tests := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{
			name: "sqlite path",
			cfg:  DatabaseConfig{Driver: DriverSQLite, Path: "/tmp/greet.db"},
			want: "/tmp/greet.db?_foreign_keys=on&_busy_timeout=5000",
		},
		{
			name: "postgres url wins",
			cfg:  DatabaseConfig{Driver: DriverPostgres, URL: "postgres://x", Host: "ignored"},
			want: "postgres://x",
		},
		{
			name: "postgres fields",
			cfg: DatabaseConfig{
				Driver:   DriverPostgres,
				Host:     "localhost",
				Port:     "5432",
				User:     "u",
				Password: "p",
				Name:     "greet",
				SSLMode:  "disable",
			},
			want: "host=localhost port=5432 user=u password=p dbname=greet sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.ConnectionString())
		})
	}
}
