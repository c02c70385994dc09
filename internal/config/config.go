// Package config loads runtime configuration from defaults, an optional YAML
// file, a .env file and INSIGHTS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"clickstream-insights/internal/common"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. INSIGHTS_POSTGRES_DSN.
const EnvPrefix = "INSIGHTS"

type Config struct {
	Server     ServerConfig
	Postgres   PostgresConfig
	ClickHouse ClickHouseConfig
	Analysis   AnalysisConfig
	Logging    LoggingConfig
}

type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

type PostgresConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type ClickHouseConfig struct {
	Addr     string
	Database string
	Username string
	Password string
	Table    string
}

type AnalysisConfig struct {
	SearchK          int
	TopK             int
	SummaryTopN      int
	MaxPatternLength int
	Workers          int
	Timezone         string
	FilterBeforeTopK bool
}

type LoggingConfig struct {
	Level  string
	Format string
}

// SetDefaults registers every key with its default so that AutomaticEnv can
// resolve env overrides for keys that are absent from the config file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.max_open_conns", 20)
	v.SetDefault("postgres.max_idle_conns", 10)
	v.SetDefault("postgres.conn_max_lifetime", 30*time.Minute)

	v.SetDefault("clickhouse.addr", "")
	v.SetDefault("clickhouse.database", "default")
	v.SetDefault("clickhouse.username", "default")
	v.SetDefault("clickhouse.password", "")
	v.SetDefault("clickhouse.table", "clickstream_events")

	v.SetDefault("analysis.search_k", 500)
	v.SetDefault("analysis.top_k", 10)
	v.SetDefault("analysis.summary_top_n", 5)
	v.SetDefault("analysis.max_pattern_length", 0)
	v.SetDefault("analysis.workers", 1)
	v.SetDefault("analysis.timezone", "UTC")
	v.SetDefault("analysis.filter_before_top_k", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// LoadDotEnv loads a .env file if one exists. A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ReadFile points v at cfgFile, or at config.yaml in the working directory and
// $HOME/.config/insights when cfgFile is empty.
func ReadFile(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "insights"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// Load resolves the full configuration from v. Environment variables are
// bound here so callers only need SetDefaults + ReadFile beforehand.
func Load(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Addr:            v.GetString("server.addr"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Postgres: PostgresConfig{
			DSN:             v.GetString("postgres.dsn"),
			MaxOpenConns:    v.GetInt("postgres.max_open_conns"),
			MaxIdleConns:    v.GetInt("postgres.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("postgres.conn_max_lifetime"),
		},
		ClickHouse: ClickHouseConfig{
			Addr:     v.GetString("clickhouse.addr"),
			Database: v.GetString("clickhouse.database"),
			Username: v.GetString("clickhouse.username"),
			Password: v.GetString("clickhouse.password"),
			Table:    v.GetString("clickhouse.table"),
		},
		Analysis: AnalysisConfig{
			SearchK:          v.GetInt("analysis.search_k"),
			TopK:             v.GetInt("analysis.top_k"),
			SummaryTopN:      v.GetInt("analysis.summary_top_n"),
			MaxPatternLength: v.GetInt("analysis.max_pattern_length"),
			Workers:          v.GetInt("analysis.workers"),
			Timezone:         v.GetString("analysis.timezone"),
			FilterBeforeTopK: v.GetBool("analysis.filter_before_top_k"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	a := c.Analysis
	switch {
	case a.SearchK <= 0:
		return fmt.Errorf("%w: analysis.search_k must be positive", common.ErrInvalidConfig)
	case a.TopK <= 0:
		return fmt.Errorf("%w: analysis.top_k must be positive", common.ErrInvalidConfig)
	case a.SummaryTopN <= 0:
		return fmt.Errorf("%w: analysis.summary_top_n must be positive", common.ErrInvalidConfig)
	case a.MaxPatternLength < 0:
		return fmt.Errorf("%w: analysis.max_pattern_length cannot be negative", common.ErrInvalidConfig)
	case a.Workers <= 0:
		return fmt.Errorf("%w: analysis.workers must be positive", common.ErrInvalidConfig)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves analysis.timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Analysis.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: analysis.timezone %q: %v", common.ErrInvalidConfig, c.Analysis.Timezone, err)
	}
	return loc, nil
}

// RequirePostgres returns ErrMissingConfig when no DSN is configured.
func (c *Config) RequirePostgres() error {
	if c.Postgres.DSN == "" {
		return fmt.Errorf("%w: postgres.dsn (or %s_POSTGRES_DSN) is not set", common.ErrMissingConfig, EnvPrefix)
	}
	return nil
}

// RequireClickHouse returns ErrMissingConfig when no ClickHouse address is configured.
func (c *Config) RequireClickHouse() error {
	if c.ClickHouse.Addr == "" {
		return fmt.Errorf("%w: clickhouse.addr (or %s_CLICKHOUSE_ADDR) is not set", common.ErrMissingConfig, EnvPrefix)
	}
	return nil
}
