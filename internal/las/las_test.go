// SPDX-License-Identifier: MIT

package las

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrolab/wellcore/internal/units"
)

const sampleLAS = `~Version
# produced by a logging unit
 VERS.   2.0 : CWLS log ASCII Standard - Version 2.0
 WRAP.   NO  : One line per depth step
~Well
 STRT.M 1000.0 :
 STOP.M 1000.2 :
 NULL.  -999.25 :
 WELL.  12-A : well name
 FLD .  Vostochnoe : field
~Curve
 DEPT.M   : depth
 GK  .API : gamma ray
 NKT .    : neutron
~ASCII
1000.0 55.2 1.1
1000.1 -999.25 1.2
1000.2 57.0 1.3
`

func TestParse(t *testing.T) {
	f, err := Parse(strings.NewReader(sampleLAS))
	require.NoError(t, err)

	assert.Equal(t, "2.0", f.Version)
	assert.False(t, f.Wrap)
	assert.Equal(t, -999.25, f.Null)
	assert.Equal(t, "12-A", f.Well["WELL"])
	assert.Equal(t, "Vostochnoe", f.Well["FLD"])

	require.Len(t, f.Curves, 3)
	assert.Equal(t, "GK", f.Curves[1].Mnemonic)
	assert.Equal(t, "API", f.Curves[1].Unit)
	assert.Equal(t, "gamma ray", f.Curves[1].Description)

	require.Len(t, f.Data, 3)
	assert.True(t, math.IsNaN(f.Data[1][1]), "NULL reading must become NaN")
}

func TestParseRejectsWrapped(t *testing.T) {
	wrapped := strings.Replace(sampleLAS, "WRAP.   NO", "WRAP.   YES", 1)
	_, err := Parse(strings.NewReader(wrapped))
	assert.ErrorIs(t, err, ErrWrapped)
}

func TestParseRejectsMissingCurves(t *testing.T) {
	_, err := Parse(strings.NewReader("~Version\n VERS. 2.0 :\n"))
	assert.ErrorIs(t, err, ErrNoCurves)
}

func TestParseRejectsShortRow(t *testing.T) {
	broken := sampleLAS + "1000.3 58.0\n"
	_, err := Parse(strings.NewReader(broken))
	assert.Error(t, err)
}

func TestFrameConversion(t *testing.T) {
	f, err := Parse(strings.NewReader(sampleLAS))
	require.NoError(t, err)

	fr, err := f.Frame()
	require.NoError(t, err)

	assert.Equal(t, []units.Cm{100000, 100010, 100020}, fr.Depths())
	assert.Equal(t, []string{"GK", "NKT"}, fr.Columns())

	gk, err := fr.Column("GK")
	require.NoError(t, err)
	assert.Equal(t, 55.2, gk[0])
	assert.True(t, math.IsNaN(gk[1]))
}

func TestWriteRoundTrip(t *testing.T) {
	f, err := Parse(strings.NewReader(sampleLAS))
	require.NoError(t, err)
	fr, err := f.Frame()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, fr, Header{Well: "12-A", Field: "Vostochnoe"}))

	back, err := Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, "12-A", back.Well["WELL"])

	fr2, err := back.Frame()
	require.NoError(t, err)
	assert.Equal(t, fr.Depths(), fr2.Depths())
	assert.Equal(t, fr.Columns(), fr2.Columns())

	gk, err := fr2.Column("GK")
	require.NoError(t, err)
	assert.InDelta(t, 55.2, gk[0], 1e-9)
	assert.True(t, math.IsNaN(gk[1]))
}

func TestReadDepthCSV(t *testing.T) {
	csvData := "DEPTH,POROSITY,PERM\n1000.0,0.21,\n1000.5,0.19,12.5\n"
	fr, err := ReadDepthCSV(strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, []units.Cm{100000, 100050}, fr.Depths())
	perm, err := fr.Column("PERM")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(perm[0]))
	assert.Equal(t, 12.5, perm[1])

	_, err = ReadDepthCSV(strings.NewReader("A,B\n1,2\n"))
	assert.ErrorIs(t, err, ErrMissingDepthColumn)
}

func TestReadIntervalCSV(t *testing.T) {
	csvData := "DEPTH_FROM,DEPTH_TO,LITHOLOGY\n1000.0,1001.0,sandstone\n1001.0,1002.5,shale\n"
	tbl, err := ReadIntervalCSV(strings.NewReader(csvData))
	require.NoError(t, err)

	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, units.Cm(100000), tbl.Rows[0].Top)
	assert.Equal(t, units.Cm(100250), tbl.Rows[1].Bottom)
	assert.Equal(t, "shale", tbl.Rows[1].Values["LITHOLOGY"])

	_, err = ReadIntervalCSV(strings.NewReader("DEPTH,LITHOLOGY\n1,x\n"))
	assert.ErrorIs(t, err, ErrMissingDepthColumn)
}

func TestReadPlainCSV(t *testing.T) {
	header, records, err := ReadPlainCSV(strings.NewReader("MD,INCL,AZIM\n0,0,0\n100,1.2,45\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"MD", "INCL", "AZIM"}, header)
	require.Len(t, records, 2)
	assert.Equal(t, "1.2", records[1][1])
}
