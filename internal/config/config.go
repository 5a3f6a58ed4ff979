// Package config loads gmock settings from defaults, an optional config
// file and GMOCK_* environment variables, in increasing precedence.
package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. GMOCK_SERVER_ADDR.
const EnvPrefix = "GMOCK"

// Fixture source kinds.
const (
	SourceNone     = "none"
	SourceBlob     = "blob"
	SourceSQLite   = "sqlite"
	SourcePostgres = "postgres"
)

// Config is the complete gmock configuration.
type Config struct {
	App      App      `mapstructure:"app"`
	Server   Server   `mapstructure:"server"`
	Log      Log      `mapstructure:"log"`
	Metrics  Metrics  `mapstructure:"metrics"`
	Fixtures Fixtures `mapstructure:"fixtures"`
	Blob     Blob     `mapstructure:"blob"`
}

// App identifies the mock application.
type App struct {
	Name string `mapstructure:"name"`
}

// Server configures the HTTP view.
type Server struct {
	Addr string `mapstructure:"addr"`
}

// Log configures the zap logger.
type Log struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// Metrics toggles the Prometheus endpoint.
type Metrics struct {
	Enabled bool `mapstructure:"enabled"`
}

// Fixtures selects where the store is seeded from at startup.
type Fixtures struct {
	Source      string `mapstructure:"source"`
	Key         string `mapstructure:"key"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
}

// Blob selects the blob backend fixture documents are read from.
type Blob struct {
	Driver string `mapstructure:"driver"`
	FSRoot string `mapstructure:"fs_root"`
	S3     S3     `mapstructure:"s3"`
}

// S3 holds bucket settings for the s3 blob driver.
type S3 struct {
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	PathStyle       bool   `mapstructure:"path_style"`
}

// SetDefaults registers the built-in values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "genologics_mock")
	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("fixtures.source", SourceNone)
	v.SetDefault("fixtures.key", "seed.json")
	v.SetDefault("fixtures.sqlite_path", "fixtures.db")
	v.SetDefault("fixtures.postgres_dsn", "")
	v.SetDefault("blob.driver", "fs")
	v.SetDefault("blob.fs_root", "./fixtures")
	v.SetDefault("blob.s3.bucket", "")
	v.SetDefault("blob.s3.region", "us-east-1")
	v.SetDefault("blob.s3.endpoint", "")
	v.SetDefault("blob.s3.access_key_id", "")
	v.SetDefault("blob.s3.secret_access_key", "")
	v.SetDefault("blob.s3.path_style", false)
}

// NewViper returns a viper instance with defaults and environment binding.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads configuration. path may be empty, in which case only defaults
// and environment variables apply. The file format follows its extension.
func Load(path string) (*Config, error) {
	v := NewViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
	}
	return FromViper(v)
}

// FromViper decodes and validates the settings held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings that cannot be acted upon.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.App.Name) == "" {
		return errors.New("app.name must not be empty")
	}
	switch c.Fixtures.Source {
	case SourceNone, SourceBlob:
	case SourceSQLite:
		if c.Fixtures.SQLitePath == "" {
			return errors.New("fixtures.sqlite_path required for sqlite source")
		}
	case SourcePostgres:
		if c.Fixtures.PostgresDSN == "" {
			return errors.New("fixtures.postgres_dsn required for postgres source")
		}
	default:
		return errors.Newf("unknown fixtures.source %q", c.Fixtures.Source)
	}
	return nil
}
