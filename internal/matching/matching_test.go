// SPDX-License-Identifier: MIT

package matching

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrolab/wellcore/internal/units"
	"github.com/petrolab/wellcore/internal/well"
)

// gamma is a synthetic, clearly non-linear gamma-ray response.
func gamma(depthM float64) float64 {
	return 50 + 10*math.Sin(2*depthM) + depthM
}

// writeMatchWell builds a well whose core log was recorded 0.5m too deep:
// the value stored at depth d was actually measured at d-0.5m.
func writeMatchWell(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	var logs strings.Builder
	logs.WriteString("DEPTH,GK\n")
	for d := 10.0; d <= 30.001; d += 0.1 {
		fmt.Fprintf(&logs, "%.1f,%.6f\n", d, gamma(d))
	}

	var core strings.Builder
	core.WriteString("DEPTH,GK\n")
	for d := 15.0; d < 20.0; d += 0.1 {
		fmt.Fprintf(&core, "%.1f,%.6f\n", d, gamma(d-0.5))
	}

	files := map[string]string{
		"meta.json":            `{"name":"m-1","field":"f","depth_from":10.0,"depth_to":30.0}`,
		"logs.csv":             logs.String(),
		"core_logs.csv":        core.String(),
		"boring_intervals.csv": "DEPTH_FROM,DEPTH_TO,CORE_RECOVERY\n15.0,20.0,0.95\n",
		"core_lithology.csv":   "DEPTH_FROM,DEPTH_TO,LITHOLOGY\n15.0,20.0,sandstone\n",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestMatchRecoversShift(t *testing.T) {
	s, err := well.Open(writeMatchWell(t))
	require.NoError(t, err)

	report, err := Match(s, Params{
		Mnemonic:  "GK",
		MaxShift:  100,
		DeltaFrom: -100,
		DeltaTo:   100,
		DeltaStep: 10,
	})
	require.NoError(t, err)

	require.Len(t, report.Segments, 1)
	sr := report.Segments[0]
	assert.Equal(t, units.Cm(-50), sr.Delta)
	assert.Greater(t, sr.R2, 0.99)
	assert.Equal(t, 1, sr.Intervals)
	assert.Greater(t, sr.Points, 40)
}

func TestMatchAppliesShift(t *testing.T) {
	s, err := well.Open(writeMatchWell(t))
	require.NoError(t, err)

	_, err = Match(s, Params{Mnemonic: "GK", MaxShift: 100, DeltaFrom: -100, DeltaTo: 100, DeltaStep: 10})
	require.NoError(t, err)

	boring, err := s.BoringIntervals()
	require.NoError(t, err)
	require.Equal(t, 1, boring.Len())
	assert.Equal(t, units.Cm(1450), boring.Rows[0].Top)
	assert.Equal(t, units.Cm(1950), boring.Rows[0].Bottom)

	lith, err := s.CoreLithology()
	require.NoError(t, err)
	assert.Equal(t, units.Cm(1450), lith.Rows[0].Top)

	coreLogs, err := s.CoreLogs()
	require.NoError(t, err)
	assert.Equal(t, units.Cm(1450), coreLogs.Depths()[0])

	// after the shift, core and well logs agree at equal depths
	v, err := coreLogs.Column("GK")
	require.NoError(t, err)
	logsFr, err := s.Logs()
	require.NoError(t, err)
	w, err := logsFr.At("GK", coreLogs.Depths()[0])
	require.NoError(t, err)
	assert.InDelta(t, w, v[0], 1e-6)
}

func TestMatchMissingCurve(t *testing.T) {
	s, err := well.Open(writeMatchWell(t))
	require.NoError(t, err)

	_, err = Match(s, Params{Mnemonic: "SP", MaxShift: 100, DeltaFrom: -100, DeltaTo: 100, DeltaStep: 10})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestMatchParamValidation(t *testing.T) {
	s, err := well.Open(writeMatchWell(t))
	require.NoError(t, err)

	_, err = Match(s, Params{MaxShift: 0, DeltaStep: 10})
	assert.Error(t, err)
	_, err = Match(s, Params{MaxShift: 100, DeltaStep: 0})
	assert.Error(t, err)
	_, err = Match(s, Params{MaxShift: 100, DeltaStep: 10, DeltaFrom: 50, DeltaTo: -50})
	assert.Error(t, err)
}

func TestMatchTooFewPoints(t *testing.T) {
	dir := writeMatchWell(t)
	// a single core reading cannot be regressed
	require.NoError(t, os.WriteFile(filepath.Join(dir, "core_logs.csv"),
		[]byte("DEPTH,GK\n15.0,55.0\n"), 0o644))
	s, err := well.Open(dir)
	require.NoError(t, err)

	report, err := Match(s, Params{Mnemonic: "GK", MaxShift: 100, DeltaFrom: -100, DeltaTo: 100, DeltaStep: 10})
	require.NoError(t, err)
	require.Len(t, report.Segments, 1)
	assert.Equal(t, units.Cm(0), report.Segments[0].Delta)
	assert.True(t, math.IsNaN(report.Segments[0].R2))
}

func TestRSquared(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	assert.InDelta(t, 1.0, RSquared(x, []float64{2, 4, 6, 8}), 1e-12)
	assert.True(t, math.IsNaN(RSquared(x[:1], []float64{1})))
	assert.True(t, math.IsNaN(RSquared(x, []float64{5, 5, 5, 5})))
	assert.Less(t, RSquared([]float64{1, 2, 1, 2}, []float64{5, 1, 1, 5}), 0.5)
}
