package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for tzvec
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Localize LocalizeConfig
	Auth     AuthConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json or console
}

// LocalizeConfig holds batch engine tuning
type LocalizeConfig struct {
	Workers      int // goroutines for parallel localization (0 = NumCPU)
	MaxBatchSize int // per-request element cap
}

// AuthConfig holds the optional static API key.
// APIKeyHash is a bcrypt hash; an empty value disables auth.
type AuthConfig struct {
	Enabled    bool
	APIKeyHash string
}

// Load loads configuration from defaults, an optional tzvec.toml, and
// TZVEC_* environment variables (e.g. TZVEC_SERVER_PORT).
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("TZVEC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("tzvec")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/tzvec/")
	v.AddConfigPath("$HOME/.tzvec/")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:         v.GetString("server.host"),
			Port:         v.GetInt("server.port"),
			ReadTimeout:  v.GetInt("server.read_timeout"),
			WriteTimeout: v.GetInt("server.write_timeout"),
			IdleTimeout:  v.GetInt("server.idle_timeout"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Localize: LocalizeConfig{
			Workers:      v.GetInt("localize.workers"),
			MaxBatchSize: v.GetInt("localize.max_batch_size"),
		},
		Auth: AuthConfig{
			Enabled:    v.GetBool("auth.enabled"),
			APIKeyHash: v.GetString("auth.api_key_hash"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port: %d", c.Server.Port)
	}
	if c.Localize.MaxBatchSize <= 0 {
		return fmt.Errorf("invalid localize.max_batch_size: %d", c.Localize.MaxBatchSize)
	}
	if c.Auth.Enabled && c.Auth.APIKeyHash == "" {
		return fmt.Errorf("auth.enabled requires auth.api_key_hash")
	}
	if c.Localize.Workers == 0 {
		c.Localize.Workers = getDefaultWorkers()
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8100)
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.idle_timeout", 120)

	// Logging defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Engine defaults
	v.SetDefault("localize.workers", getDefaultWorkers())
	v.SetDefault("localize.max_batch_size", 10_000_000)

	// Auth defaults
	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.api_key_hash", "")
}

// getDefaultWorkers sizes the parallel localization pool to the machine
func getDefaultWorkers() int {
	return runtime.NumCPU()
}
