// SPDX-License-Identifier: MIT

// Package las reads and writes LAS 2.0 well-log files and the CSV tables
// that accompany them in a well directory.
package las

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/petrolab/wellcore/internal/frame"
	"github.com/petrolab/wellcore/internal/units"
)

var (
	// ErrWrapped is returned for WRAP=YES files, which are not supported.
	ErrWrapped = errors.New("wrapped LAS files are not supported")
	// ErrNoCurves is returned when the ~Curve section is missing or empty.
	ErrNoCurves = errors.New("LAS file defines no curves")
)

// DefaultNull is the customary LAS null reading.
const DefaultNull = -999.25

// Curve describes one column of the ~ASCII data section.
type Curve struct {
	Mnemonic    string
	Unit        string
	Description string
}

// File is a parsed LAS 2.0 file.
type File struct {
	Version string
	Wrap    bool
	Null    float64
	Well    map[string]string // raw ~Well section values keyed by mnemonic
	Curves  []Curve
	Data    [][]float64 // rows; NULL readings already replaced by NaN
}

// Parse reads a LAS 2.0 document. Only unwrapped files are accepted.
func Parse(r io.Reader) (*File, error) {
	f := &File{Null: DefaultNull, Well: map[string]string{}}
	section := ""

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "~") {
			section = sectionKey(line)
			continue
		}

		switch section {
		case "V":
			mnem, _, value, err := parseHeaderLine(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			switch mnem {
			case "VERS":
				f.Version = value
			case "WRAP":
				f.Wrap = strings.EqualFold(value, "YES")
			}
		case "W":
			mnem, _, value, err := parseHeaderLine(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			f.Well[mnem] = value
			if mnem == "NULL" && value != "" {
				null, err := strconv.ParseFloat(value, 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: NULL value %q: %w", lineNo, value, err)
				}
				f.Null = null
			}
		case "C":
			mnem, unit, _, err := parseHeaderLine(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			desc := ""
			if i := strings.LastIndex(line, ":"); i >= 0 {
				desc = strings.TrimSpace(line[i+1:])
			}
			f.Curves = append(f.Curves, Curve{Mnemonic: mnem, Unit: unit, Description: desc})
		case "A":
			if f.Wrap {
				return nil, ErrWrapped
			}
			if len(f.Curves) == 0 {
				return nil, ErrNoCurves
			}
			row, err := parseDataLine(line, len(f.Curves), f.Null)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			f.Data = append(f.Data, row)
		default:
			// ~Parameter and ~Other sections are carried by files we read
			// but have no consumer here; skip them.
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read LAS: %w", err)
	}
	if f.Wrap {
		return nil, ErrWrapped
	}
	if len(f.Curves) == 0 {
		return nil, ErrNoCurves
	}
	return f, nil
}

// Frame converts the data section to a depth-indexed frame. The first curve
// is the depth index in meters; remaining curves become columns.
func (f *File) Frame() (*frame.Frame, error) {
	depths := make([]units.Cm, 0, len(f.Data))
	columns := make([]string, 0, len(f.Curves)-1)
	data := make(map[string][]float64, len(f.Curves)-1)
	for _, c := range f.Curves[1:] {
		columns = append(columns, c.Mnemonic)
		data[c.Mnemonic] = make([]float64, 0, len(f.Data))
	}
	for _, row := range f.Data {
		if math.IsNaN(row[0]) {
			return nil, fmt.Errorf("null depth reading in data section")
		}
		depths = append(depths, units.MetersToCm(row[0]))
		for i, c := range f.Curves[1:] {
			data[c.Mnemonic] = append(data[c.Mnemonic], row[i+1])
		}
	}
	return frame.New(depths, columns, data)
}

func sectionKey(line string) string {
	rest := strings.TrimPrefix(line, "~")
	if rest == "" {
		return ""
	}
	return strings.ToUpper(rest[:1])
}

// parseHeaderLine splits "MNEM.UNIT  VALUE : DESCRIPTION".
func parseHeaderLine(line string) (mnem, unit, value string, err error) {
	dot := strings.Index(line, ".")
	if dot < 0 {
		return "", "", "", fmt.Errorf("malformed header line %q", line)
	}
	mnem = strings.TrimSpace(line[:dot])
	rest := line[dot+1:]

	// unit runs from the dot to the first whitespace
	end := strings.IndexAny(rest, " \t")
	if end < 0 {
		end = len(rest)
	}
	unit = strings.TrimSpace(rest[:end])
	rest = rest[end:]

	if i := strings.LastIndex(rest, ":"); i >= 0 {
		rest = rest[:i]
	}
	value = strings.TrimSpace(rest)
	return mnem, unit, value, nil
}

func parseDataLine(line string, want int, null float64) ([]float64, error) {
	fields := strings.Fields(line)
	if len(fields) != want {
		return nil, fmt.Errorf("data row has %d values, want %d", len(fields), want)
	}
	row := make([]float64, want)
	for i, s := range fields {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("data value %q: %w", s, err)
		}
		if v == null {
			v = math.NaN()
		}
		row[i] = v
	}
	return row, nil
}
