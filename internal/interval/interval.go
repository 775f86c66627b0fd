// SPDX-License-Identifier: MIT

// Package interval implements tables keyed by [top, bottom) depth intervals,
// used for layers, boring intervals, core lithology and sample bookkeeping.
package interval

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/petrolab/wellcore/internal/units"
)

// ErrColumnNotFound is returned when a requested attribute column is absent.
var ErrColumnNotFound = errors.New("interval column not found")

// Row is a single depth interval with its attribute values.
type Row struct {
	Top    units.Cm          `json:"depth_from"`
	Bottom units.Cm          `json:"depth_to"`
	Values map[string]string `json:"values,omitempty"`
}

// Float parses one attribute value of the row as a float64.
func (r Row) Float(column string) (float64, error) {
	v, ok := r.Values[column]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrColumnNotFound, column)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("interval value %q in column %q: %w", v, column, err)
	}
	return f, nil
}

// Table is an ordered set of interval rows.
type Table struct {
	Columns []string
	Rows    []Row
}

// New builds a table, sorting rows by top depth.
func New(columns []string, rows []Row) (*Table, error) {
	for _, r := range rows {
		if r.Bottom < r.Top {
			return nil, fmt.Errorf("interval [%d, %d) has negative extent", r.Top, r.Bottom)
		}
	}
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Top < sorted[j].Top })
	return &Table{Columns: columns, Rows: sorted}, nil
}

// Len returns the number of intervals.
func (t *Table) Len() int { return len(t.Rows) }

// Copy returns a deep copy of the table.
func (t *Table) Copy() *Table {
	columns := make([]string, len(t.Columns))
	copy(columns, t.Columns)
	rows := make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		values := make(map[string]string, len(r.Values))
		for k, v := range r.Values {
			values[k] = v
		}
		rows[i] = Row{Top: r.Top, Bottom: r.Bottom, Values: values}
	}
	return &Table{Columns: columns, Rows: rows}
}

// FilterOverlap returns the rows that intersect the window [from, to).
func (t *Table) FilterOverlap(from, to units.Cm) *Table {
	out := &Table{Columns: t.Columns}
	for _, r := range t.Rows {
		if r.Top < to && from < r.Bottom {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// ContiguousGroups splits the rows into runs where the gap between one
// interval's bottom and the next interval's top does not exceed maxGap.
func (t *Table) ContiguousGroups(maxGap units.Cm) []*Table {
	var groups []*Table
	var current []Row
	for i, r := range t.Rows {
		if i > 0 && r.Top-current[len(current)-1].Bottom > maxGap {
			groups = append(groups, &Table{Columns: t.Columns, Rows: current})
			current = nil
		}
		current = append(current, r)
	}
	if len(current) > 0 {
		groups = append(groups, &Table{Columns: t.Columns, Rows: current})
	}
	return groups
}

// Shift returns a table with every interval moved by delta.
func (t *Table) Shift(delta units.Cm) *Table {
	out := t.Copy()
	for i := range out.Rows {
		out.Rows[i].Top += delta
		out.Rows[i].Bottom += delta
	}
	return out
}

// Span returns the overall [top, bottom) extent of the table.
func (t *Table) Span() (top, bottom units.Cm, ok bool) {
	if len(t.Rows) == 0 {
		return 0, 0, false
	}
	top = t.Rows[0].Top
	bottom = t.Rows[0].Bottom
	for _, r := range t.Rows[1:] {
		if r.Top < top {
			top = r.Top
		}
		if r.Bottom > bottom {
			bottom = r.Bottom
		}
	}
	return top, bottom, true
}

// FillNumeric rasterises one numeric column onto a per-centimeter array
// covering [from, to). Cells not covered by any interval are NaN; later
// intervals overwrite earlier ones.
func (t *Table) FillNumeric(from, to units.Cm, column string) ([]float64, error) {
	if to < from {
		return nil, fmt.Errorf("fill window [%d, %d) has negative extent", from, to)
	}
	out := make([]float64, to-from)
	for i := range out {
		out[i] = math.NaN()
	}
	for _, r := range t.Rows {
		v, err := r.Float(column)
		if err != nil {
			return nil, err
		}
		start, end := clip(r.Top-from, r.Bottom-from, int64(len(out)))
		for i := start; i < end; i++ {
			out[i] = v
		}
	}
	return out, nil
}

// FillLabels rasterises one string column onto a per-centimeter array
// covering [from, to). Cells not covered by any interval are empty.
func (t *Table) FillLabels(from, to units.Cm, column string) ([]string, error) {
	if to < from {
		return nil, fmt.Errorf("fill window [%d, %d) has negative extent", from, to)
	}
	out := make([]string, to-from)
	for _, r := range t.Rows {
		v, ok := r.Values[column]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, column)
		}
		start, end := clip(r.Top-from, r.Bottom-from, int64(len(out)))
		for i := start; i < end; i++ {
			out[i] = v
		}
	}
	return out, nil
}

func clip(start, end, n int64) (int64, int64) {
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if start > end {
		return 0, 0
	}
	return start, end
}
