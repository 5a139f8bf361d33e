// Package config loads runtime configuration from an optional config file,
// a .env file and the process environment.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ConfigError represents a configuration error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: field %q: %s", e.Field, e.Message)
}

type Config struct {
	Server     ServerConfig
	DB         DBConfig
	Source     SourceConfig
	Geometry   GeometryConfig
	Migrations MigrationsConfig
}

type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DBConfig struct {
	User            string
	Password        string
	DBName          string
	SSLMode         string
	Host            string
	Port            string
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// SourceConfig describes the external trip-data API.
type SourceConfig struct {
	APIURL  string        `mapstructure:"api_url"`
	Timeout time.Duration // zero disables the client timeout
}

// GeometryConfig selects how point columns are written and read:
// "geojson" (ST_GeomFromGeoJSON / ST_AsGeoJSON) or "wkt" (ST_GeomFromText / ST_AsText).
type GeometryConfig struct {
	Encoding string
}

type MigrationsConfig struct {
	Path string
	Auto bool
}

var defaults = map[string]interface{}{
	"server.port":             8080,
	"server.shutdown_timeout": 10 * time.Second,

	"db.user":              "postgres",
	"db.password":          "postgres",
	"db.dbname":            "taxi",
	"db.sslmode":           "disable",
	"db.host":              "localhost",
	"db.port":              "5432",
	"db.max_open_conns":    20,
	"db.max_idle_conns":    5,
	"db.conn_max_lifetime": 30 * time.Minute,

	"source.api_url": "",
	"source.timeout": 60 * time.Second,

	"geometry.encoding": "geojson",

	"migrations.path": "file://database/migrations",
	"migrations.auto": true,
}

// Load reads configuration. When path is empty a config.yaml in the working
// directory is used if it exists. Environment variables override file values
// using upper-case keys with "." replaced by "_" (DB_HOST, SERVER_PORT, ...);
// API_URL is accepted for source.api_url.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Println("config: loaded .env")
	}

	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("source.api_url", "API_URL", "SOURCE_API_URL"); err != nil {
		return nil, fmt.Errorf("config: bind API_URL: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	cfg.Geometry.Encoding = strings.ToLower(strings.TrimSpace(cfg.Geometry.Encoding))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required fields on an already-constructed Config.
func (c *Config) Validate() error {
	var errs []error
	if c.Source.APIURL == "" {
		errs = append(errs, &ConfigError{Field: "API_URL", Message: "required but not set"})
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, &ConfigError{Field: "SERVER_PORT", Message: "must be between 1 and 65535"})
	}
	if c.Geometry.Encoding != "geojson" && c.Geometry.Encoding != "wkt" {
		errs = append(errs, &ConfigError{Field: "GEOMETRY_ENCODING", Message: `must be "geojson" or "wkt"`})
	}
	if c.DB.MaxOpenConns < 1 {
		errs = append(errs, &ConfigError{Field: "DB_MAX_OPEN_CONNS", Message: "must be positive"})
	}
	if c.DB.Host == "" || c.DB.DBName == "" {
		errs = append(errs, &ConfigError{Field: "DB_HOST", Message: "database host and name are required"})
	}
	return errors.Join(errs...)
}
