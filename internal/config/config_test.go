// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, ":8080", cfg.APIListenAddr)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, CacheMemory, cfg.Cache.Backend)
	assert.Equal(t, "GK", cfg.Match.Mnemonic)
	assert.Equal(t, int64(400), cfg.Match.MaxShift)
	assert.Equal(t, defaultShutdownTimeout, cfg.Server.ShutdownTimeout)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wellcore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
dataDir: /srv/wells
workers: 8
scanInterval: 10m
cache:
  backend: badger
  badgerPath: /tmp/cache
  ttl: 1m
match:
  mnemonic: GR
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/wells", cfg.DataDir)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 10*time.Minute, cfg.ScanInterval)
	assert.Equal(t, CacheBadger, cfg.Cache.Backend)
	assert.Equal(t, "GR", cfg.Match.Mnemonic)
	// untouched keys keep their defaults
	assert.Equal(t, int64(400), cfg.Match.MaxShift)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wellcore.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dataDir: /srv/wells\nworkers: 8\n"), 0o644))

	t.Setenv("WELLCORE_DATA", "/env/wells")
	t.Setenv("WELLCORE_WORKERS", "2")
	t.Setenv("WELLCORE_MATCH_MAX_SHIFT_CM", "250")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/env/wells", cfg.DataDir)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, int64(250), cfg.Match.MaxShift)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wellcore.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dataDirr: /typo\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"empty data dir", func(c *AppConfig) { c.DataDir = "" }},
		{"zero workers", func(c *AppConfig) { c.Workers = 0 }},
		{"negative rate limit", func(c *AppConfig) { c.RateLimit = -1 }},
		{"unknown cache backend", func(c *AppConfig) { c.Cache.Backend = "memcached" }},
		{"redis without addr", func(c *AppConfig) { c.Cache.Backend = CacheRedis }},
		{"badger without path", func(c *AppConfig) { c.Cache.Backend = CacheBadger }},
		{"zero cache ttl", func(c *AppConfig) { c.Cache.TTL = 0 }},
		{"zero delta step", func(c *AppConfig) { c.Match.DeltaStep = 0 }},
		{"inverted delta range", func(c *AppConfig) { c.Match.DeltaFrom, c.Match.DeltaTo = 10, -10 }},
		{"telemetry without endpoint", func(c *AppConfig) {
			c.Telemetry.Enabled = true
			c.Telemetry.Endpoint = ""
		}},
		{"telemetry bad exporter", func(c *AppConfig) {
			c.Telemetry.Enabled = true
			c.Telemetry.Exporter = "udp"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, Default().Validate())
}

func TestParseHelpers(t *testing.T) {
	t.Setenv("WELLCORE_TEST_STR", "hello")
	t.Setenv("WELLCORE_TEST_INT", "42")
	t.Setenv("WELLCORE_TEST_BAD_INT", "forty-two")
	t.Setenv("WELLCORE_TEST_DUR", "90s")
	t.Setenv("WELLCORE_TEST_BOOL", "yes")
	t.Setenv("WELLCORE_TEST_FLOAT", "0.25")
	t.Setenv("WELLCORE_TEST_EMPTY", "")

	assert.Equal(t, "hello", ParseString("WELLCORE_TEST_STR", "def"))
	assert.Equal(t, "def", ParseString("WELLCORE_TEST_EMPTY", "def"))
	assert.Equal(t, "def", ParseString("WELLCORE_TEST_MISSING", "def"))

	assert.Equal(t, 42, ParseInt("WELLCORE_TEST_INT", 1))
	assert.Equal(t, 1, ParseInt("WELLCORE_TEST_BAD_INT", 1))
	assert.Equal(t, int64(42), ParseInt64("WELLCORE_TEST_INT", 1))

	assert.Equal(t, 90*time.Second, ParseDuration("WELLCORE_TEST_DUR", time.Second))
	assert.Equal(t, time.Second, ParseDuration("WELLCORE_TEST_MISSING", time.Second))

	assert.True(t, ParseBool("WELLCORE_TEST_BOOL", false))
	assert.False(t, ParseBool("WELLCORE_TEST_MISSING", false))

	assert.Equal(t, 0.25, ParseFloat("WELLCORE_TEST_FLOAT", 1.0))
	assert.Equal(t, 1.0, ParseFloat("WELLCORE_TEST_MISSING", 1.0))
}

func TestHolderReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wellcore.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dataDir: /v1\n"), 0o644))

	initial, err := Load(path)
	require.NoError(t, err)

	h := NewHolder(initial, path)
	assert.Equal(t, "/v1", h.Get().DataDir)

	ch := make(chan AppConfig, 1)
	h.RegisterListener(ch)

	require.NoError(t, os.WriteFile(path, []byte("dataDir: /v2\n"), 0o644))
	require.NoError(t, h.Reload(t.Context()))
	assert.Equal(t, "/v2", h.Get().DataDir)

	select {
	case got := <-ch:
		assert.Equal(t, "/v2", got.DataDir)
	default:
		t.Fatal("listener was not notified")
	}

	// a broken file keeps the old config
	require.NoError(t, os.WriteFile(path, []byte("workers: 0\n"), 0o644))
	assert.Error(t, h.Reload(t.Context()))
	assert.Equal(t, "/v2", h.Get().DataDir)
}
