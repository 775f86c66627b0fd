// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/petrolab/wellcore/internal/cache"
	"github.com/petrolab/wellcore/internal/log"
	"github.com/petrolab/wellcore/internal/store"
)

// ErrScanInFlight is returned when a scan is already running.
var ErrScanInFlight = errors.New("scan already in flight")

// Manager serializes catalog scans and keeps the latest status. It also owns
// the optional periodic ticker and the data directory watcher.
type Manager struct {
	provider func() Config
	st       *store.Store
	cache    cache.Cache

	mu       sync.Mutex
	running  bool
	status   Status
	hasRun   bool
	lastScan time.Time
	lastErr  string

	watcher *fsnotify.Watcher
}

// NewManager creates a scan manager. st and c may be nil when persistence or
// caching is disabled.
func NewManager(provider func() Config, st *store.Store, c cache.Cache) *Manager {
	return &Manager{
		provider: provider,
		st:       st,
		cache:    c,
	}
}

// Run executes one scan. Concurrent calls fail fast with ErrScanInFlight
// instead of queueing; the catalog is a full snapshot, so a queued rescan
// would only repeat the work.
func (m *Manager) Run(ctx context.Context) (*Status, error) {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil, ErrScanInFlight
	}
	m.running = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.running = false
		m.mu.Unlock()
	}()

	jobID := uuid.NewString()
	ctx = log.ContextWithJobID(ctx, jobID)
	logger := log.WithComponentFromContext(ctx, "jobs")

	status, records, err := Scan(ctx, m.provider())
	if err != nil {
		m.mu.Lock()
		m.lastScan = time.Now()
		m.lastErr = err.Error()
		m.status.JobID = jobID
		m.status.Error = err.Error()
		m.mu.Unlock()
		return nil, err
	}
	status.JobID = jobID

	if m.st != nil {
		if err := m.st.ReplaceWells(ctx, records); err != nil {
			logger.Error().
				Err(err).
				Str(log.FieldEvent, "scan.persist_failed").
				Msg("failed to persist catalog to store")
			return nil, err
		}
	}
	if m.cache != nil {
		// cached slices may refer to replaced data
		m.cache.Clear()
	}

	m.mu.Lock()
	m.status = *status
	m.hasRun = true
	m.lastScan = status.LastRun
	m.lastErr = ""
	m.mu.Unlock()

	return status, nil
}

// Status returns the latest scan status.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// LastScan reports the readiness view: when the last scan finished and the
// error it ended with, empty on success.
func (m *Manager) LastScan() (time.Time, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasRun && m.lastErr == "" {
		return time.Time{}, ""
	}
	return m.lastScan, m.lastErr
}

// StartTicker rescans every interval until ctx is canceled.
func (m *Manager) StartTicker(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	logger := log.WithComponent("jobs")

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := m.Run(ctx); err != nil && !errors.Is(err, ErrScanInFlight) {
					logger.Error().
						Err(err).
						Str(log.FieldEvent, "scan.periodic_failed").
						Msg("periodic scan failed")
				}
			}
		}
	}()
}

// StartWatcher rescans when the data directory changes on disk. Events are
// debounced and additionally rate limited so a bulk copy of a field dataset
// triggers a handful of scans, not thousands.
func (m *Manager) StartWatcher(ctx context.Context) error {
	logger := log.WithComponent("jobs")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	m.watcher = watcher

	dataDir := m.provider().DataDir
	if err := watcher.Add(dataDir); err != nil {
		_ = watcher.Close()
		return err
	}

	logger.Info().
		Str(log.FieldEvent, "watch.started").
		Str(log.FieldDataDir, dataDir).
		Msg("watching data directory for changes")

	go m.watchLoop(ctx, logger)
	return nil
}

func (m *Manager) watchLoop(ctx context.Context, logger zerolog.Logger) {
	limiter := rate.NewLimiter(rate.Every(30*time.Second), 2)
	var debounce *time.Timer
	const debounceDelay = 2 * time.Second

	trigger := func() {
		if !limiter.Allow() {
			logger.Debug().
				Str(log.FieldEvent, "watch.rate_limited").
				Msg("rescan suppressed by rate limit")
			return
		}
		if _, err := m.Run(ctx); err != nil && !errors.Is(err, ErrScanInFlight) {
			logger.Error().
				Err(err).
				Str(log.FieldEvent, "watch.rescan_failed").
				Msg("rescan after fs change failed")
		}
	}

	for {
		select {
		case <-ctx.Done():
			_ = m.watcher.Close()
			return

		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(debounceDelay, trigger)
			}

		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			logger.Error().
				Err(err).
				Str(log.FieldEvent, "watch.error").
				Msg("data directory watcher error")
		}
	}
}

// Stop closes the data directory watcher (if running).
func (m *Manager) Stop() {
	if m.watcher != nil {
		_ = m.watcher.Close()
	}
}
