// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/petrolab/wellcore/internal/log"
	"github.com/petrolab/wellcore/internal/metrics"
	"github.com/petrolab/wellcore/internal/store"
	"github.com/petrolab/wellcore/internal/well"
)

// Scan walks cfg.DataDir, validates every well directory and writes the
// catalog CSV. It returns the scan status together with the per-well records
// so the caller can persist them.
func Scan(ctx context.Context, cfg Config) (*Status, []store.WellRecord, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, nil, err
	}

	logger := log.WithComponentFromContext(ctx, "jobs")
	logger.Info().
		Str(log.FieldEvent, "scan.start").
		Str(log.FieldDataDir, cfg.DataDir).
		Msg("starting catalog scan")

	started := time.Now()

	entries, err := os.ReadDir(cfg.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("read data dir: %w", err)
	}

	var dirs []string
	for _, e := range entries {
		if !e.IsDir() || e.Name()[0] == '.' {
			continue
		}
		// a well directory is recognized by its meta.json
		if _, err := os.Stat(filepath.Join(cfg.DataDir, e.Name(), well.MetaFile)); err != nil {
			continue
		}
		dirs = append(dirs, e.Name())
	}

	var mu sync.Mutex
	records := make([]store.WellRecord, 0, len(dirs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for _, name := range dirs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec := scanWell(gctx, filepath.Join(cfg.DataDir, name))
			mu.Lock()
			records = append(records, rec)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Slug < records[j].Slug })
	dedupeSlugs(records)

	failures := 0
	for _, r := range records {
		if r.Status != store.StatusOK {
			failures++
		}
	}

	if err := writeCatalog(ctx, cfg.CatalogPath, records); err != nil {
		metrics.IncCatalogWriteError()
		return nil, nil, fmt.Errorf("write catalog: %w", err)
	}

	elapsed := time.Since(started)
	metrics.RecordWellsCount(len(records) - failures)
	metrics.ObserveScanDuration(elapsed.Seconds())

	status := &Status{
		LastRun:  time.Now(),
		Duration: elapsed.Round(time.Millisecond).String(),
		Wells:    len(records) - failures,
		Failures: failures,
	}
	logger.Info().
		Str(log.FieldEvent, "scan.success").
		Int("wells", status.Wells).
		Int("failures", status.Failures).
		Dur("elapsed", elapsed).
		Msg("catalog scan completed")
	return status, records, nil
}

// scanWell validates one well directory and turns it into a catalog record.
func scanWell(ctx context.Context, dir string) store.WellRecord {
	logger := log.WithComponentFromContext(ctx, "jobs")
	rec := store.WellRecord{
		Path:     dir,
		ScanTime: time.Now(),
		Status:   store.StatusOK,
	}

	s, err := well.Open(dir)
	if err != nil {
		logger.Warn().
			Err(err).
			Str(log.FieldPath, dir).
			Str(log.FieldEvent, "scan.well_failed").
			Msg("well metadata rejected")
		metrics.IncScanFailure("meta")
		rec.Slug = slugify(filepath.Base(dir))
		rec.Name = filepath.Base(dir)
		rec.Status = store.StatusFailed
		rec.Error = err.Error()
		return rec
	}

	rec.Slug = slugify(s.Meta().Name)
	rec.Name = s.Meta().Name
	rec.Field = s.Meta().Field
	rec.DepthFrom = s.DepthFrom()
	rec.DepthTo = s.DepthTo()
	rec.Attrs = s.Attrs()

	if err := well.Check(dir); err != nil {
		logger.Warn().
			Err(err).
			Str(log.FieldWell, rec.Name).
			Str(log.FieldEvent, "scan.well_failed").
			Msg("well data rejected")
		metrics.IncScanFailure(failureReason(err))
		rec.Status = store.StatusFailed
		rec.Error = err.Error()
		return rec
	}

	logger.Debug().
		Str(log.FieldWell, rec.Name).
		Str(log.FieldField, rec.Field).
		Str(log.FieldEvent, "scan.well_ok").
		Msg("well cataloged")
	return rec
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, well.ErrCoreOverlap):
		return "overlap"
	case errors.Is(err, well.ErrAttrNotFound):
		return "logs"
	default:
		return "attrs"
	}
}

// dedupeSlugs suffixes duplicate slugs so every record stays addressable.
// Records are already sorted, so duplicates are adjacent.
func dedupeSlugs(records []store.WellRecord) {
	seen := make(map[string]int, len(records))
	for i := range records {
		slug := records[i].Slug
		if n, ok := seen[slug]; ok {
			seen[slug] = n + 1
			records[i].Slug = slug + "-" + strconv.Itoa(n+1)
		} else {
			seen[slug] = 1
		}
	}
}

func validateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return fmt.Errorf("data directory is empty")
	}
	info, err := os.Stat(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("data directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data directory %s is not a directory", cfg.DataDir)
	}
	if cfg.CatalogPath == "" {
		return fmt.Errorf("catalog path is empty")
	}
	if cfg.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	return nil
}
