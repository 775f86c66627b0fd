// SPDX-License-Identifier: MIT

package store

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "wellcore.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestReplaceWells(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()

	now := time.Now().UTC().Truncate(time.Second)
	wells := []WellRecord{
		{Slug: "12-a", Name: "12-A", Field: "Vostochnoe", Path: "/data/12-A",
			DepthFrom: 100000, DepthTo: 100300, Attrs: []string{"logs", "samples"},
			ScanTime: now, Status: "ok"},
		{Slug: "7-b", Name: "7-B", Path: "/data/7-B",
			DepthFrom: 50000, DepthTo: 90000, ScanTime: now,
			Status: "failed", Error: "missing logs"},
	}
	require.NoError(t, s.ReplaceWells(ctx, wells))

	got, err := s.GetWells(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "12-a", got[0].Slug)
	assert.Equal(t, []string{"logs", "samples"}, got[0].Attrs)
	assert.Equal(t, now, got[0].ScanTime)
	assert.Equal(t, "failed", got[1].Status)
	assert.Nil(t, got[1].Attrs)

	n, err := s.CountWells(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// a subsequent scan replaces the catalog wholesale
	require.NoError(t, s.ReplaceWells(ctx, wells[:1]))
	got, err = s.GetWells(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestGetWell(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()

	require.NoError(t, s.ReplaceWells(ctx, []WellRecord{
		{Slug: "12-a", Name: "12-A", Path: "/data/12-A", ScanTime: time.Now(), Status: "ok"},
	}))

	w, err := s.GetWell(ctx, "12-a")
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.Equal(t, "12-A", w.Name)

	w, err = s.GetWell(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, w)
}

func TestMatchReports(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()

	report, err := json.Marshal(map[string]any{"segments": 1, "r2": 0.98})
	require.NoError(t, err)

	first := MatchRecord{
		ID:        uuid.NewString(),
		WellSlug:  "12-a",
		Mnemonic:  "GK",
		CreatedAt: time.Now().Add(-time.Hour),
		Report:    report,
	}
	second := MatchRecord{
		ID:        uuid.NewString(),
		WellSlug:  "12-a",
		Mnemonic:  "GK",
		CreatedAt: time.Now(),
		Report:    report,
	}
	require.NoError(t, s.SaveMatchReport(ctx, first))
	require.NoError(t, s.SaveMatchReport(ctx, second))

	recs, err := s.GetMatchReports(ctx, "12-a", 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, second.ID, recs[0].ID) // newest first
	assert.JSONEq(t, string(report), string(recs[0].Report))

	recs, err = s.GetMatchReports(ctx, "12-a", 1)
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	recs, err = s.GetMatchReports(ctx, "other", 10)
	require.NoError(t, err)
	assert.Empty(t, recs)
}
