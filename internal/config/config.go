// SPDX-License-Identifier: MIT

// Package config resolves the daemon configuration with the precedence
// ENV > YAML file > defaults. Every lookup is logged with its source so a
// misconfigured deployment can be diagnosed from the debug log alone.
package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Cache backends accepted by CacheConfig.Backend.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheBadger = "badger"
)

// CacheConfig selects the frame cache backend.
type CacheConfig struct {
	// Backend is one of "none", "memory", "redis", "badger"
	Backend string `yaml:"backend"`

	// TTL is how long cached slices stay valid
	TTL time.Duration `yaml:"ttl"`

	// RedisAddr is the host:port of the Redis server (backend=redis)
	RedisAddr string `yaml:"redisAddr"`

	// BadgerPath is the on-disk database directory (backend=badger)
	BadgerPath string `yaml:"badgerPath"`
}

// MatchConfig carries the default core-to-log matching parameters.
// All depth values are centimeters.
type MatchConfig struct {
	Mnemonic  string `yaml:"mnemonic"`
	MaxShift  int64  `yaml:"maxShiftCm"`
	DeltaFrom int64  `yaml:"deltaFromCm"`
	DeltaTo   int64  `yaml:"deltaToCm"`
	DeltaStep int64  `yaml:"deltaStepCm"`
}

// TelemetryConfig configures the OTLP trace exporter.
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"` // grpc|http
	Endpoint     string  `yaml:"endpoint"`
	Environment  string  `yaml:"environment"`
	SamplingRate float64 `yaml:"samplingRate"`
}

// AppConfig is the resolved daemon configuration.
type AppConfig struct {
	// DataDir is the root directory holding one subdirectory per well
	DataDir string `yaml:"dataDir"`

	// CatalogPath is where the scan job writes the well catalog CSV
	CatalogPath string `yaml:"catalogPath"`

	// StorePath is the SQLite database file for wells and match reports
	StorePath string `yaml:"storePath"`

	// APIListenAddr is the HTTP API listen address
	APIListenAddr string `yaml:"listenAddr"`

	// MetricsAddr serves Prometheus metrics; empty disables the endpoint
	MetricsAddr string `yaml:"metricsAddr"`

	// APIToken protects mutating endpoints; empty disables auth
	APIToken string `yaml:"apiToken"`

	// LogLevel overrides the zerolog level (debug, info, warn, error)
	LogLevel string `yaml:"logLevel"`

	// Workers is the scan concurrency (well directories parsed in parallel)
	Workers int `yaml:"workers"`

	// ScanOnStart runs a catalog scan before the API starts serving
	ScanOnStart bool `yaml:"scanOnStart"`

	// ScanInterval re-scans periodically; 0 disables the ticker
	ScanInterval time.Duration `yaml:"scanInterval"`

	// Watch triggers rescans when the data directory changes on disk
	Watch bool `yaml:"watch"`

	// RateLimit is requests per minute per client IP; 0 disables limiting
	RateLimit int `yaml:"rateLimit"`

	Cache     CacheConfig     `yaml:"cache"`
	Match     MatchConfig     `yaml:"match"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Server    ServerConfig    `yaml:"server"`
}

// Default returns the built-in configuration.
func Default() AppConfig {
	return AppConfig{
		DataDir:       "./data",
		CatalogPath:   "./data/catalog.csv",
		StorePath:     "./data/wellcore.db",
		APIListenAddr: ":8080",
		Workers:       4,
		ScanOnStart:   true,
		RateLimit:     60,
		Cache: CacheConfig{
			Backend: CacheMemory,
			TTL:     5 * time.Minute,
		},
		Match: MatchConfig{
			Mnemonic:  "GK",
			MaxShift:  400,
			DeltaFrom: -300,
			DeltaTo:   300,
			DeltaStep: 10,
		},
		Telemetry: TelemetryConfig{
			Exporter:     "grpc",
			Endpoint:     "localhost:4317",
			Environment:  "development",
			SamplingRate: 1.0,
		},
		Server: defaultServerConfig(),
	}
}

// Load resolves the configuration: defaults, then the YAML file at path
// (skipped when path is empty), then environment overrides, then validation.
func Load(path string) (AppConfig, error) {
	cfg := Default()

	if path != "" {
		if err := overlayFile(&cfg, path); err != nil {
			return AppConfig{}, err
		}
	}
	overlayEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func overlayFile(cfg *AppConfig, path string) error {
	raw, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func overlayEnv(cfg *AppConfig) {
	cfg.DataDir = ParseString("WELLCORE_DATA", cfg.DataDir)
	cfg.CatalogPath = ParseString("WELLCORE_CATALOG", cfg.CatalogPath)
	cfg.StorePath = ParseString("WELLCORE_STORE", cfg.StorePath)
	cfg.APIListenAddr = ParseString("WELLCORE_LISTEN", cfg.APIListenAddr)
	cfg.MetricsAddr = ParseString("WELLCORE_METRICS_LISTEN", cfg.MetricsAddr)
	cfg.APIToken = ParseString("WELLCORE_API_TOKEN", cfg.APIToken)
	cfg.LogLevel = ParseString("WELLCORE_LOG_LEVEL", cfg.LogLevel)
	cfg.Workers = ParseInt("WELLCORE_WORKERS", cfg.Workers)
	cfg.ScanOnStart = ParseBool("WELLCORE_SCAN_ON_START", cfg.ScanOnStart)
	cfg.ScanInterval = ParseDuration("WELLCORE_SCAN_INTERVAL", cfg.ScanInterval)
	cfg.Watch = ParseBool("WELLCORE_WATCH", cfg.Watch)
	cfg.RateLimit = ParseInt("WELLCORE_RATE_LIMIT", cfg.RateLimit)

	cfg.Cache.Backend = ParseString("WELLCORE_CACHE_BACKEND", cfg.Cache.Backend)
	cfg.Cache.TTL = ParseDuration("WELLCORE_CACHE_TTL", cfg.Cache.TTL)
	cfg.Cache.RedisAddr = ParseString("WELLCORE_REDIS_ADDR", cfg.Cache.RedisAddr)
	cfg.Cache.BadgerPath = ParseString("WELLCORE_BADGER_PATH", cfg.Cache.BadgerPath)

	cfg.Match.Mnemonic = ParseString("WELLCORE_MATCH_MNEMONIC", cfg.Match.Mnemonic)
	cfg.Match.MaxShift = ParseInt64("WELLCORE_MATCH_MAX_SHIFT_CM", cfg.Match.MaxShift)
	cfg.Match.DeltaFrom = ParseInt64("WELLCORE_MATCH_DELTA_FROM_CM", cfg.Match.DeltaFrom)
	cfg.Match.DeltaTo = ParseInt64("WELLCORE_MATCH_DELTA_TO_CM", cfg.Match.DeltaTo)
	cfg.Match.DeltaStep = ParseInt64("WELLCORE_MATCH_DELTA_STEP_CM", cfg.Match.DeltaStep)

	cfg.Telemetry.Enabled = ParseBool("WELLCORE_OTEL_ENABLED", cfg.Telemetry.Enabled)
	cfg.Telemetry.Exporter = ParseString("WELLCORE_OTEL_EXPORTER", cfg.Telemetry.Exporter)
	cfg.Telemetry.Endpoint = ParseString("WELLCORE_OTEL_ENDPOINT", cfg.Telemetry.Endpoint)
	cfg.Telemetry.Environment = ParseString("WELLCORE_OTEL_ENVIRONMENT", cfg.Telemetry.Environment)
	cfg.Telemetry.SamplingRate = ParseFloat("WELLCORE_OTEL_SAMPLING_RATE", cfg.Telemetry.SamplingRate)

	overlayServerEnv(&cfg.Server)
}

// Validate rejects configurations the daemon cannot run with.
func (c AppConfig) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("dataDir must be set")
	}
	if c.CatalogPath == "" {
		return fmt.Errorf("catalogPath must be set")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rateLimit must not be negative, got %d", c.RateLimit)
	}
	if c.ScanInterval < 0 {
		return fmt.Errorf("scanInterval must not be negative, got %s", c.ScanInterval)
	}

	switch c.Cache.Backend {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("cache.redisAddr must be set for the redis backend")
		}
	case CacheBadger:
		if c.Cache.BadgerPath == "" {
			return fmt.Errorf("cache.badgerPath must be set for the badger backend")
		}
	default:
		return fmt.Errorf("unknown cache backend %q (supported: none, memory, redis, badger)", c.Cache.Backend)
	}
	if c.Cache.Backend != CacheNone && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got %s", c.Cache.TTL)
	}

	if c.Match.MaxShift <= 0 {
		return fmt.Errorf("match.maxShiftCm must be positive, got %d", c.Match.MaxShift)
	}
	if c.Match.DeltaStep <= 0 {
		return fmt.Errorf("match.deltaStepCm must be positive, got %d", c.Match.DeltaStep)
	}
	if c.Match.DeltaFrom > c.Match.DeltaTo {
		return fmt.Errorf("match.deltaFromCm %d exceeds match.deltaToCm %d", c.Match.DeltaFrom, c.Match.DeltaTo)
	}

	if c.Telemetry.Enabled {
		if c.Telemetry.Exporter != "grpc" && c.Telemetry.Exporter != "http" {
			return fmt.Errorf("telemetry.exporter must be grpc or http, got %q", c.Telemetry.Exporter)
		}
		if c.Telemetry.Endpoint == "" {
			return fmt.Errorf("telemetry.endpoint must be set when telemetry is enabled")
		}
	}

	return nil
}
