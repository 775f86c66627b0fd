// SPDX-License-Identifier: MIT

package las

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/petrolab/wellcore/internal/frame"
	"github.com/petrolab/wellcore/internal/units"
)

// Header carries the well identification written to the ~Well section.
type Header struct {
	Well  string
	Field string
	Null  float64 // zero means DefaultNull
}

// Write renders a frame as an unwrapped LAS 2.0 document. The depth index is
// written in meters as the DEPT curve; NaNs become the NULL reading.
func Write(w io.Writer, fr *frame.Frame, hdr Header) error {
	null := hdr.Null
	if null == 0 {
		null = DefaultNull
	}

	buf := &bytes.Buffer{}
	buf.WriteString("~Version\n")
	buf.WriteString(" VERS.   2.0 : CWLS log ASCII Standard - Version 2.0\n")
	buf.WriteString(" WRAP.   NO  : One line per depth step\n")

	buf.WriteString("~Well\n")
	depths := fr.Depths()
	if len(depths) > 0 {
		fmt.Fprintf(buf, " STRT.M %.4f :\n", units.CmToMeters(depths[0]))
		fmt.Fprintf(buf, " STOP.M %.4f :\n", units.CmToMeters(depths[len(depths)-1]))
	}
	fmt.Fprintf(buf, " NULL.  %.2f :\n", null)
	fmt.Fprintf(buf, " WELL.  %s :\n", hdr.Well)
	fmt.Fprintf(buf, " FLD .  %s :\n", hdr.Field)

	buf.WriteString("~Curve\n")
	buf.WriteString(" DEPT.M : depth\n")
	for _, name := range fr.Columns() {
		fmt.Fprintf(buf, " %s. :\n", name)
	}

	buf.WriteString("~ASCII\n")
	cols := make([][]float64, 0, len(fr.Columns()))
	for _, name := range fr.Columns() {
		col, err := fr.Column(name)
		if err != nil {
			return err
		}
		cols = append(cols, col)
	}
	for i, d := range depths {
		fmt.Fprintf(buf, "%.4f", units.CmToMeters(d))
		for _, col := range cols {
			v := col[i]
			if math.IsNaN(v) {
				v = null
			}
			fmt.Fprintf(buf, " %.4f", v)
		}
		buf.WriteByte('\n')
	}

	_, err := io.Copy(w, buf)
	return err
}
