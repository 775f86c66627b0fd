// SPDX-License-Identifier: MIT

package well

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrolab/wellcore/internal/units"
)

const testLogs = `~Version
 VERS.   2.0 :
 WRAP.   NO  :
~Well
 NULL.  -999.25 :
 WELL.  12-A :
 FLD .  Vostochnoe :
~Curve
 DEPT.M   : depth
 GK  .API : gamma ray
~ASCII
999.0 50.0
1000.0 55.2
1001.0 56.1
1002.0 57.0
1003.0 58.3
1050.0 60.0
`

func writeTestWell(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"meta.json": `{"name":"12-A","field":"Vostochnoe","depth_from":1000.0,"depth_to":1003.0}`,
		"logs.las":  testLogs,
		"samples.csv": "DEPTH_FROM,DEPTH_TO,SAMPLE\n" +
			"1000.0,1001.0,s1\n" +
			"1001.0,1002.0,s2\n" +
			"1002.5,1003.0,s3\n",
		"core_lithology.csv": "DEPTH_FROM,DEPTH_TO,LITHOLOGY\n1000.0,1002.0,sandstone\n",
		"inclination.csv":    "MD,INCL\n0,0\n1000,1.5\n",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestOpenReadsMeta(t *testing.T) {
	dir := writeTestWell(t)
	s, err := Open(dir)
	require.NoError(t, err)

	assert.Equal(t, "12-A", s.Meta().Name)
	assert.Equal(t, "Vostochnoe", s.Meta().Field)
	assert.Equal(t, units.Cm(100000), s.DepthFrom())
	assert.Equal(t, units.Cm(100300), s.DepthTo())
}

func TestOpenErrors(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.Error(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "meta.json"),
		[]byte(`{"name":"x","depth_from":10,"depth_to":5}`), 0o644))
	_, err = Open(dir)
	assert.Error(t, err)
}

func TestLogsLoadFilteredToWindow(t *testing.T) {
	s, err := Open(writeTestWell(t))
	require.NoError(t, err)

	logs, err := s.Logs()
	require.NoError(t, err)

	// rows at 999.0m and 1050.0m fall outside [1000m, 1003m]
	assert.Equal(t, []units.Cm{100000, 100100, 100200, 100300}, logs.Depths())

	// second access returns the cached frame
	again, err := s.Logs()
	require.NoError(t, err)
	assert.Same(t, logs, again)
}

func TestAttrLoadsCounted(t *testing.T) {
	s, err := Open(writeTestWell(t))
	require.NoError(t, err)

	_, err = s.Logs()
	require.NoError(t, err)
	_, err = s.Samples()
	require.NoError(t, err)

	n, err := testutil.GatherAndCount(prometheus.DefaultGatherer, "wellcore_attr_loads_total")
	require.NoError(t, err)
	assert.Positive(t, n)
}

func TestAttrModTime(t *testing.T) {
	dir := writeTestWell(t)
	s, err := Open(dir)
	require.NoError(t, err)

	stamp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "logs.las"), stamp, stamp))

	mtime, err := s.AttrModTime(AttrLogs)
	require.NoError(t, err)
	assert.True(t, mtime.Equal(stamp))

	_, err = s.AttrModTime(AttrCoreLogs)
	assert.ErrorIs(t, err, ErrAttrNotFound)
}

func TestMissingAndConflictingAttrs(t *testing.T) {
	dir := writeTestWell(t)
	s, err := Open(dir)
	require.NoError(t, err)

	_, err = s.CoreLogs()
	assert.ErrorIs(t, err, ErrAttrNotFound)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "core_logs.csv"), []byte("DEPTH,GK\n1000.0,1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "core_logs.las"), []byte(testLogs), 0o644))
	_, err = s.CoreLogs()
	assert.ErrorIs(t, err, ErrAttrConflict)
}

func TestUnknownFormat(t *testing.T) {
	dir := writeTestWell(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "core_logs.feather"), []byte("x"), 0o644))
	s, err := Open(dir)
	require.NoError(t, err)

	_, err = s.CoreLogs()
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestSlice(t *testing.T) {
	s, err := Open(writeTestWell(t))
	require.NoError(t, err)

	_, err = s.Logs()
	require.NoError(t, err)
	_, err = s.Samples()
	require.NoError(t, err)

	sub := s.Slice(100100, 100200)
	assert.Equal(t, units.Cm(100100), sub.DepthFrom())

	logs, err := sub.Logs()
	require.NoError(t, err)
	assert.Equal(t, []units.Cm{100100, 100200}, logs.Depths())

	// only s2 [1001m, 1002m) intersects the half-open window
	samples, err := sub.Samples()
	require.NoError(t, err)
	assert.Equal(t, 1, samples.Len())

	// the source segment is untouched
	logs0, err := s.Logs()
	require.NoError(t, err)
	assert.Equal(t, 4, logs0.Len())
}

func TestKeepDropRenameLogs(t *testing.T) {
	s, err := Open(writeTestWell(t))
	require.NoError(t, err)

	kept, err := s.KeepLogs("GK")
	require.NoError(t, err)
	logs, err := kept.Logs()
	require.NoError(t, err)
	assert.Equal(t, []string{"GK"}, logs.Columns())

	_, err = s.KeepLogs("MISSING")
	assert.Error(t, err)

	renamed, err := s.RenameLogs(map[string]string{"GK": "GR"})
	require.NoError(t, err)
	logs, err = renamed.Logs()
	require.NoError(t, err)
	assert.Equal(t, []string{"GR"}, logs.Columns())

	dropped, err := s.DropLogs("GK")
	require.NoError(t, err)
	logs, err = dropped.Logs()
	require.NoError(t, err)
	assert.Empty(t, logs.Columns())
}

func TestCoreChunks(t *testing.T) {
	s, err := Open(writeTestWell(t))
	require.NoError(t, err)

	chunks, err := s.CoreChunks()
	require.NoError(t, err)
	// s1+s2 are contiguous, s3 stands alone
	require.Len(t, chunks, 2)
	assert.Equal(t, Chunk{Top: 100000, Bottom: 100200}, chunks[0])
	assert.Equal(t, Chunk{Top: 100250, Bottom: 100300}, chunks[1])
}

func TestCoreChunksOverlap(t *testing.T) {
	dir := writeTestWell(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "samples.csv"),
		[]byte("DEPTH_FROM,DEPTH_TO,SAMPLE\n1000.0,1001.5,s1\n1001.0,1002.0,s2\n"), 0o644))
	s, err := Open(dir)
	require.NoError(t, err)

	_, err = s.CoreChunks()
	assert.ErrorIs(t, err, ErrCoreOverlap)
}

func TestSplitByCore(t *testing.T) {
	s, err := Open(writeTestWell(t))
	require.NoError(t, err)

	segments, err := s.SplitByCore()
	require.NoError(t, err)
	require.Len(t, segments, 2)
	assert.Equal(t, units.Cm(100000), segments[0].DepthFrom())
	assert.Equal(t, units.Cm(100200), segments[0].DepthTo())
	assert.Equal(t, units.Cm(100250), segments[1].DepthFrom())
}

func TestCheck(t *testing.T) {
	dir := writeTestWell(t)
	assert.NoError(t, Check(dir))

	// a present but broken optional attribute fails the check
	require.NoError(t, os.WriteFile(filepath.Join(dir, "layers.csv"), []byte("A,B\n1,2\n"), 0o644))
	assert.Error(t, Check(dir))
}
