// SPDX-License-Identifier: MIT

// Command wellcored serves a catalog of well directories over HTTP: it scans
// the data directory, validates the wells it finds and exposes depth-sliced
// log data, core samples and core-to-log matching.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/petrolab/wellcore/internal/api"
	"github.com/petrolab/wellcore/internal/cache"
	"github.com/petrolab/wellcore/internal/config"
	"github.com/petrolab/wellcore/internal/daemon"
	"github.com/petrolab/wellcore/internal/health"
	"github.com/petrolab/wellcore/internal/jobs"
	"github.com/petrolab/wellcore/internal/log"
	"github.com/petrolab/wellcore/internal/store"
	"github.com/petrolab/wellcore/internal/telemetry"
	"github.com/petrolab/wellcore/internal/version"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("wellcored %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		os.Exit(0)
	}

	// safe defaults until the config is loaded
	log.Configure(log.Config{
		Level:   "info",
		Service: "wellcored",
		Version: version.Version,
	})
	logger := log.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// config path: explicit via --config, otherwise ${WELLCORE_DATA}/config.yaml
	// when it exists
	effectiveConfigPath := strings.TrimSpace(*configPath)
	if effectiveConfigPath == "" {
		dataDir := strings.TrimSpace(config.ParseString("WELLCORE_DATA", ""))
		if dataDir != "" {
			autoPath := filepath.Join(dataDir, "config.yaml")
			if _, err := os.Stat(autoPath); err == nil {
				effectiveConfigPath = autoPath
			}
		}
	}

	cfg, err := config.Load(effectiveConfigPath)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str(log.FieldEvent, "config.load_failed").
			Str("config_path", effectiveConfigPath).
			Msg("failed to load configuration")
	}

	// re-configure with the loaded level
	log.Configure(log.Config{
		Level:   cfg.LogLevel,
		Service: "wellcored",
		Version: version.Version,
	})

	if effectiveConfigPath != "" {
		logger.Info().
			Str(log.FieldEvent, "config.loaded").
			Str("source", "file").
			Str("path", effectiveConfigPath).
			Msg("loaded configuration from file")
	} else {
		logger.Info().
			Str(log.FieldEvent, "config.loaded").
			Str("source", "env+defaults").
			Msg("loaded configuration from environment and defaults")
	}

	holder := config.NewHolder(cfg, effectiveConfigPath)

	tracer, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "wellcored",
		ServiceVersion: version.Version,
		Environment:    cfg.Telemetry.Environment,
		ExporterType:   cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		logger.Fatal().
			Err(err).
			Str(log.FieldEvent, "telemetry.init_failed").
			Msg("failed to initialise tracing")
	}

	st, err := store.New(cfg.StorePath)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str(log.FieldEvent, "store.open_failed").
			Str("path", cfg.StorePath).
			Msg("failed to open catalog store")
	}

	c, err := cache.Open(cfg.Cache, log.WithComponent("cache"))
	if err != nil {
		logger.Fatal().
			Err(err).
			Str(log.FieldEvent, "cache.open_failed").
			Str("backend", cfg.Cache.Backend).
			Msg("failed to open slice cache")
	}

	scans := jobs.NewManager(func() jobs.Config {
		cur := holder.Get()
		return jobs.Config{
			DataDir:     cur.DataDir,
			CatalogPath: cur.CatalogPath,
			Workers:     cur.Workers,
		}
	}, st, c)

	hm := health.NewManager(version.Version)
	hm.RegisterChecker(health.NewDirChecker("data_dir", cfg.DataDir))
	hm.RegisterChecker(health.NewLastScanChecker(scans.LastScan))

	apiServer := api.New(holder.Get, st, c, scans, hm)

	var metricsHandler http.Handler
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsHandler = mux
	}

	mgr, err := daemon.NewManager(cfg.Server, daemon.Deps{
		Logger:         logger,
		APIHandler:     apiServer.Router(),
		APIAddr:        cfg.APIListenAddr,
		MetricsHandler: metricsHandler,
		MetricsAddr:    cfg.MetricsAddr,
	})
	if err != nil {
		logger.Fatal().
			Err(err).
			Str(log.FieldEvent, "daemon.init_failed").
			Msg("failed to create daemon manager")
	}

	mgr.RegisterShutdownHook("telemetry", func(ctx context.Context) error {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tracer.Shutdown(shutdownCtx)
	})
	mgr.RegisterShutdownHook("store", func(context.Context) error { return st.Close() })
	mgr.RegisterShutdownHook("cache", func(context.Context) error { return c.Close() })
	mgr.RegisterShutdownHook("scans", func(context.Context) error {
		scans.Stop()
		return nil
	})
	mgr.RegisterShutdownHook("config_watcher", func(context.Context) error {
		holder.Stop()
		return nil
	})

	app := daemon.NewApp(logger, mgr, holder, scans)

	logger.Info().
		Str(log.FieldEvent, "daemon.starting").
		Str("data_dir", cfg.DataDir).
		Str("listen", cfg.APIListenAddr).
		Str("cache_backend", cfg.Cache.Backend).
		Msg("wellcored starting")

	if err := app.Run(ctx); err != nil {
		logger.Error().
			Err(err).
			Str(log.FieldEvent, "daemon.failed").
			Msg("wellcored exited with error")
		os.Exit(1)
	}
	logger.Info().Str(log.FieldEvent, "daemon.stopped").Msg("wellcored stopped")
}
