// SPDX-License-Identifier: MIT

package las

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/petrolab/wellcore/internal/frame"
	"github.com/petrolab/wellcore/internal/interval"
	"github.com/petrolab/wellcore/internal/units"
)

// Canonical CSV column names for depth-keyed tables.
const (
	ColDepth     = "DEPTH"
	ColDepthFrom = "DEPTH_FROM"
	ColDepthTo   = "DEPTH_TO"
)

// ErrMissingDepthColumn is returned when a CSV table lacks its depth key.
var ErrMissingDepthColumn = errors.New("missing depth column")

// ReadDepthCSV parses a CSV table keyed by a DEPTH column (meters) into a
// depth-indexed frame. Empty cells become NaN.
func ReadDepthCSV(r io.Reader) (*frame.Frame, error) {
	header, records, err := readAll(r)
	if err != nil {
		return nil, err
	}
	depthIdx := -1
	for i, name := range header {
		if name == ColDepth {
			depthIdx = i
			break
		}
	}
	if depthIdx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingDepthColumn, ColDepth)
	}

	columns := make([]string, 0, len(header)-1)
	data := make(map[string][]float64, len(header)-1)
	for i, name := range header {
		if i == depthIdx {
			continue
		}
		columns = append(columns, name)
		data[name] = make([]float64, 0, len(records))
	}

	depths := make([]units.Cm, 0, len(records))
	for line, rec := range records {
		m, err := strconv.ParseFloat(rec[depthIdx], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: depth %q: %w", line+2, rec[depthIdx], err)
		}
		depths = append(depths, units.MetersToCm(m))
		for i, name := range header {
			if i == depthIdx {
				continue
			}
			v := math.NaN()
			if rec[i] != "" {
				v, err = strconv.ParseFloat(rec[i], 64)
				if err != nil {
					return nil, fmt.Errorf("row %d: column %s: %w", line+2, name, err)
				}
			}
			data[name] = append(data[name], v)
		}
	}
	return frame.New(depths, columns, data)
}

// ReadIntervalCSV parses a CSV table keyed by DEPTH_FROM/DEPTH_TO columns
// (meters) into an interval table. Remaining columns are kept as strings.
func ReadIntervalCSV(r io.Reader) (*interval.Table, error) {
	header, records, err := readAll(r)
	if err != nil {
		return nil, err
	}
	fromIdx, toIdx := -1, -1
	for i, name := range header {
		switch name {
		case ColDepthFrom:
			fromIdx = i
		case ColDepthTo:
			toIdx = i
		}
	}
	if fromIdx < 0 || toIdx < 0 {
		return nil, fmt.Errorf("%w: %s/%s", ErrMissingDepthColumn, ColDepthFrom, ColDepthTo)
	}

	columns := make([]string, 0, len(header)-2)
	for i, name := range header {
		if i != fromIdx && i != toIdx {
			columns = append(columns, name)
		}
	}

	rows := make([]interval.Row, 0, len(records))
	for line, rec := range records {
		from, err := strconv.ParseFloat(rec[fromIdx], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: %s %q: %w", line+2, ColDepthFrom, rec[fromIdx], err)
		}
		to, err := strconv.ParseFloat(rec[toIdx], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: %s %q: %w", line+2, ColDepthTo, rec[toIdx], err)
		}
		values := make(map[string]string, len(columns))
		for i, name := range header {
			if i != fromIdx && i != toIdx {
				values[name] = rec[i]
			}
		}
		rows = append(rows, interval.Row{
			Top:    units.MetersToCm(from),
			Bottom: units.MetersToCm(to),
			Values: values,
		})
	}
	return interval.New(columns, rows)
}

// ReadPlainCSV parses a CSV table with no depth key (e.g. inclination) into
// its header and string records.
func ReadPlainCSV(r io.Reader) (header []string, records [][]string, err error) {
	return readAll(r)
}

func readAll(r io.Reader) (header []string, records [][]string, err error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	all, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	if len(all) == 0 {
		return nil, nil, errors.New("csv table is empty")
	}
	return all[0], all[1:], nil
}
