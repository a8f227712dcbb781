// Package config loads SkyPulse settings from a YAML file, .env files and
// SKYPULSE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/lox/skypulse/internal/geo"
	"github.com/lox/skypulse/internal/ingest"
	"github.com/lox/skypulse/internal/store"
)

const EnvPrefix = "SKYPULSE"

type Config struct {
	Port         string
	GeocodingURL string
	ForecastURL  string
	HTTPTimeout  time.Duration
	Timezone     *time.Location
	StorePath    string
	Development  bool

	// Location is the configured device position, nil when unset.
	Location *geo.Position
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("geocoding.base_url", ingest.DefaultGeocodingURL)
	v.SetDefault("forecast.base_url", ingest.DefaultForecastURL)
	v.SetDefault("http.timeout", "30s")
	v.SetDefault("clock.timezone", "Local")
	v.SetDefault("store.path", store.MemoryPath)
	v.SetDefault("log.development", false)
}

// Load reads configuration. An empty path looks for config.yaml in the
// working directory and tolerates its absence; an explicit path must exist.
// envFiles are loaded into the process environment first; with none given,
// a .env in the working directory is used if present.
func Load(path string, envFiles ...string) (*Config, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, fmt.Errorf("load env files: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	timeout, err := time.ParseDuration(v.GetString("http.timeout"))
	if err != nil {
		return nil, fmt.Errorf("http.timeout: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("http.timeout: must be positive, got %s", timeout)
	}

	tz, err := time.LoadLocation(v.GetString("clock.timezone"))
	if err != nil {
		return nil, fmt.Errorf("clock.timezone: %w", err)
	}

	cfg := &Config{
		Port:         v.GetString("server.port"),
		GeocodingURL: v.GetString("geocoding.base_url"),
		ForecastURL:  v.GetString("forecast.base_url"),
		HTTPTimeout:  timeout,
		Timezone:     tz,
		StorePath:    v.GetString("store.path"),
		Development:  v.GetBool("log.development"),
	}

	if v.IsSet("location.latitude") && v.IsSet("location.longitude") {
		pos := geo.Position{
			Latitude:  v.GetFloat64("location.latitude"),
			Longitude: v.GetFloat64("location.longitude"),
		}
		if !pos.Valid() {
			return nil, fmt.Errorf("location: coordinates out of range: %v,%v", pos.Latitude, pos.Longitude)
		}
		cfg.Location = &pos
	}

	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// NewLogger builds the application logger: JSON in production, a coloured
// console encoder in development.
func NewLogger(development bool) (*zap.SugaredLogger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if development {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return l.Sugar(), nil
}
