// Package config loads resolver settings from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"trip-route-resolver/internal/adapters/geocoding"
	"trip-route-resolver/internal/adapters/routing"
	"trip-route-resolver/internal/services"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrInvalidInputDriver = errors.New("input.driver must be one of: csv, xlsx, sqlite, postgres")
	ErrMissingInputPath   = errors.New("input.path is required for csv, xlsx and sqlite input")
	ErrMissingInputDSN    = errors.New("input.dsn is required for postgres input")
	ErrMissingOutputPath  = errors.New("output.path is required")
	ErrMissingKafkaTopic  = errors.New("output.kafka.topic is required when brokers are set")
	ErrMissingRedisStream = errors.New("output.redis.stream is required when addr is set")
	ErrMissingBaseURL     = errors.New("base_url is required")
	ErrInvalidChunkSize   = errors.New("geocoding.chunk_size must be at least 1")
	ErrInvalidConcurrency = errors.New("max_concurrent must be at least 1")
	ErrInvalidDelay       = errors.New("delay_ms must be non-negative")
	ErrInvalidTimeout     = errors.New("timeout_sec must be non-negative")
	ErrInvalidSpeed       = errors.New("routing speeds must be positive")
	ErrInvalidLogLevel    = errors.New("log.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat   = errors.New("log.format must be 'json' or 'console'")
	ErrInvalidServerPort  = errors.New("server.port must be a number")
)

const (
	DriverCSV      = "csv"
	DriverXLSX     = "xlsx"
	DriverSqlite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Input     InputConfig     `yaml:"input"`
	Output    OutputConfig    `yaml:"output"`
	Geocoding GeocodingConfig `yaml:"geocoding"`
	Routing   RoutingConfig   `yaml:"routing"`
	Log       LogConfig       `yaml:"log"`
	Server    ServerConfig    `yaml:"server"`
}

// InputConfig selects the trip source.
type InputConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	DSN    string `yaml:"dsn"`
	Sheet  string `yaml:"sheet"`
}

type OutputConfig struct {
	Path         string      `yaml:"path"`
	PrintSummary bool        `yaml:"print_summary"`
	Kafka        KafkaConfig `yaml:"kafka"`
	Redis        RedisConfig `yaml:"redis"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

type RedisConfig struct {
	Addr   string `yaml:"addr"`
	Stream string `yaml:"stream"`
}

func (r RedisConfig) Enabled() bool { return r.Addr != "" }

type GeocodingConfig struct {
	BaseURL         string `yaml:"base_url"`
	Email           string `yaml:"email"`
	UserAgent       string `yaml:"user_agent"`
	ChunkSize       int    `yaml:"chunk_size"`
	DelayMs         int    `yaml:"delay_ms"`
	MaxConcurrent   int    `yaml:"max_concurrent"`
	TimeoutSec      int    `yaml:"timeout_sec"`
	PhaseTimeoutSec int    `yaml:"phase_timeout_sec"`
}

type RoutingConfig struct {
	BaseURL         string `yaml:"base_url"`
	UserAgent       string `yaml:"user_agent"`
	Costing         string `yaml:"costing"`
	FixedSpeed      int    `yaml:"fixed_speed"`
	TopSpeed        int    `yaml:"top_speed"`
	DelayMs         int    `yaml:"delay_ms"`
	MaxConcurrent   int    `yaml:"max_concurrent"`
	TimeoutSec      int    `yaml:"timeout_sec"`
	PhaseTimeoutSec int    `yaml:"phase_timeout_sec"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

const defaultUserAgent = "trip-route-resolver/1.0"

// Default returns the settings used when no file overrides them.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Driver: DriverCSV,
			Path:   "data/trips.csv",
		},
		Output: OutputConfig{
			Path: "data/trips_resolved.csv",
		},
		Geocoding: GeocodingConfig{
			BaseURL:       "https://nominatim.openstreetmap.org",
			UserAgent:     defaultUserAgent,
			ChunkSize:     2,
			DelayMs:       150,
			MaxConcurrent: 4,
			TimeoutSec:    10,
		},
		Routing: RoutingConfig{
			BaseURL:       "https://valhalla1.openstreetmap.de",
			UserAgent:     defaultUserAgent,
			Costing:       "auto",
			FixedSpeed:    41,
			TopSpeed:      59,
			DelayMs:       150,
			MaxConcurrent: 4,
			TimeoutSec:    15,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Server: ServerConfig{
			Port: "8080",
		},
	}
}

// Load reads the YAML file at path over the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("load config: parse YAML: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func (c *Config) applyEnv() {
	c.Input.Driver = Get("TRIPS_INPUT_DRIVER", c.Input.Driver)
	c.Input.Path = Get("TRIPS_INPUT_PATH", c.Input.Path)
	c.Input.DSN = Get("DATABASE_URL", c.Input.DSN)
	c.Output.Path = Get("TRIPS_OUTPUT_PATH", c.Output.Path)

	if v := Get("KAFKA_BROKERS", ""); v != "" {
		c.Output.Kafka.Brokers = splitList(v)
	}
	c.Output.Kafka.Topic = Get("KAFKA_TOPIC", c.Output.Kafka.Topic)
	c.Output.Redis.Addr = Get("REDIS_ADDR", c.Output.Redis.Addr)
	c.Output.Redis.Stream = Get("REDIS_STREAM", c.Output.Redis.Stream)

	c.Geocoding.BaseURL = Get("NOMINATIM_URL", c.Geocoding.BaseURL)
	c.Geocoding.Email = Get("NOMINATIM_EMAIL", c.Geocoding.Email)
	c.Routing.BaseURL = Get("VALHALLA_URL", c.Routing.BaseURL)

	c.Log.Level = Get("LOG_LEVEL", c.Log.Level)
	c.Log.Format = Get("LOG_FORMAT", c.Log.Format)
	c.Server.Port = Get("PORT", c.Server.Port)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Input.Driver {
	case DriverCSV, DriverXLSX, DriverSqlite:
		if c.Input.Path == "" {
			return ErrMissingInputPath
		}
	case DriverPostgres:
		if c.Input.DSN == "" {
			return ErrMissingInputDSN
		}
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidInputDriver, c.Input.Driver)
	}

	if c.Output.Path == "" {
		return ErrMissingOutputPath
	}
	if c.Output.Kafka.Enabled() && c.Output.Kafka.Topic == "" {
		return ErrMissingKafkaTopic
	}
	if c.Output.Redis.Enabled() && c.Output.Redis.Stream == "" {
		return ErrMissingRedisStream
	}

	g := c.Geocoding
	if g.BaseURL == "" {
		return fmt.Errorf("geocoding: %w", ErrMissingBaseURL)
	}
	if g.ChunkSize < 1 {
		return ErrInvalidChunkSize
	}
	if g.MaxConcurrent < 1 {
		return fmt.Errorf("geocoding: %w", ErrInvalidConcurrency)
	}
	if g.DelayMs < 0 {
		return fmt.Errorf("geocoding: %w", ErrInvalidDelay)
	}
	if g.TimeoutSec < 0 || g.PhaseTimeoutSec < 0 {
		return fmt.Errorf("geocoding: %w", ErrInvalidTimeout)
	}

	r := c.Routing
	if r.BaseURL == "" {
		return fmt.Errorf("routing: %w", ErrMissingBaseURL)
	}
	if r.MaxConcurrent < 1 {
		return fmt.Errorf("routing: %w", ErrInvalidConcurrency)
	}
	if r.DelayMs < 0 {
		return fmt.Errorf("routing: %w", ErrInvalidDelay)
	}
	if r.TimeoutSec < 0 || r.PhaseTimeoutSec < 0 {
		return fmt.Errorf("routing: %w", ErrInvalidTimeout)
	}
	if r.FixedSpeed <= 0 || r.TopSpeed <= 0 {
		return ErrInvalidSpeed
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Log.Level] {
		return ErrInvalidLogLevel
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return ErrInvalidLogFormat
	}

	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return ErrInvalidServerPort
	}

	return nil
}

func millis(n int) time.Duration  { return time.Duration(n) * time.Millisecond }
func seconds(n int) time.Duration { return time.Duration(n) * time.Second }

func (c *Config) GeocodeOptions() services.GeocodeOptions {
	return services.GeocodeOptions{
		ChunkSize:     c.Geocoding.ChunkSize,
		Delay:         millis(c.Geocoding.DelayMs),
		MaxConcurrent: c.Geocoding.MaxConcurrent,
		PhaseTimeout:  seconds(c.Geocoding.PhaseTimeoutSec),
	}
}

func (c *Config) RouteOptions() services.RouteOptions {
	return services.RouteOptions{
		Delay:         millis(c.Routing.DelayMs),
		MaxConcurrent: c.Routing.MaxConcurrent,
		PhaseTimeout:  seconds(c.Routing.PhaseTimeoutSec),
	}
}

func (c *Config) NominatimOptions() geocoding.NominatimOptions {
	return geocoding.NominatimOptions{
		BaseURL:   c.Geocoding.BaseURL,
		Email:     c.Geocoding.Email,
		UserAgent: c.Geocoding.UserAgent,
		Timeout:   seconds(c.Geocoding.TimeoutSec),
	}
}

func (c *Config) ValhallaOptions() routing.ValhallaOptions {
	return routing.ValhallaOptions{
		BaseURL:    c.Routing.BaseURL,
		UserAgent:  c.Routing.UserAgent,
		Costing:    c.Routing.Costing,
		FixedSpeed: c.Routing.FixedSpeed,
		TopSpeed:   c.Routing.TopSpeed,
		Timeout:    seconds(c.Routing.TimeoutSec),
	}
}
