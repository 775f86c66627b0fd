// SPDX-License-Identifier: MIT

package jobs

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrolab/wellcore/internal/cache"
	"github.com/petrolab/wellcore/internal/store"
)

func newTestManager(t *testing.T, dataDir string) (*Manager, *store.Store, cache.Cache) {
	t.Helper()

	st, err := store.New(filepath.Join(t.TempDir(), "wellcore.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	c := cache.NewMemory(0)
	t.Cleanup(func() { _ = c.Close() })

	cfg := Config{
		DataDir:     dataDir,
		CatalogPath: filepath.Join(dataDir, "catalog.csv"),
		Workers:     2,
	}
	return NewManager(func() Config { return cfg }, st, c), st, c
}

func TestManagerRun(t *testing.T) {
	root := testDataDir(t)
	m, st, c := newTestManager(t, root)

	// stale cache entries must not survive a scan
	c.Set("wells/12-a/logs", []byte("stale"), time.Minute)

	status, err := m.Run(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, status.Wells)
	assert.Equal(t, 1, status.Failures)
	assert.NotEmpty(t, status.JobID)

	wells, err := st.GetWells(t.Context())
	require.NoError(t, err)
	assert.Len(t, wells, 3)

	_, ok := c.Get("wells/12-a/logs")
	assert.False(t, ok)

	got := m.Status()
	assert.Equal(t, status.JobID, got.JobID)

	lastScan, lastErr := m.LastScan()
	assert.False(t, lastScan.IsZero())
	assert.Empty(t, lastErr)
}

func TestManagerRunFailure(t *testing.T) {
	m := NewManager(func() Config {
		return Config{DataDir: "/does/not/exist", CatalogPath: "c.csv", Workers: 1}
	}, nil, nil)

	_, err := m.Run(t.Context())
	require.Error(t, err)

	lastScan, lastErr := m.LastScan()
	assert.False(t, lastScan.IsZero())
	assert.NotEmpty(t, lastErr)
}

func TestManagerNoRunYet(t *testing.T) {
	m := NewManager(func() Config { return Config{} }, nil, nil)

	lastScan, lastErr := m.LastScan()
	assert.True(t, lastScan.IsZero())
	assert.Empty(t, lastErr)
}

func TestManagerWatcherRescans(t *testing.T) {
	root := testDataDir(t)
	m, st, _ := newTestManager(t, root)

	_, err := m.Run(t.Context())
	require.NoError(t, err)

	require.NoError(t, m.StartWatcher(t.Context()))
	defer m.Stop()

	writeWell(t, root, "33-D", "33-D")

	assert.Eventually(t, func() bool {
		wells, err := st.GetWells(t.Context())
		return err == nil && len(wells) == 4
	}, 15*time.Second, 100*time.Millisecond)
}
