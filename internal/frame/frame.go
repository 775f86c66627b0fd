// SPDX-License-Identifier: MIT

// Package frame implements a depth-indexed table of log curves.
//
// A Frame holds a strictly increasing depth index (whole centimeters) and a
// set of named float64 columns of equal length. Missing readings are NaN.
package frame

import (
	"errors"
	"fmt"
	"sort"

	"github.com/petrolab/wellcore/internal/units"
)

var (
	// ErrColumnNotFound is returned when a requested mnemonic is absent.
	ErrColumnNotFound = errors.New("column not found")
	// ErrColumnExists is returned when a rename would produce duplicate columns.
	ErrColumnExists = errors.New("column already exists")
	// ErrEmpty is returned by operations that need at least one row.
	ErrEmpty = errors.New("frame is empty")
	// ErrDepthOrder is returned when the depth index is not strictly increasing.
	ErrDepthOrder = errors.New("depth index must be strictly increasing")
)

// Frame is a depth-indexed curve table.
type Frame struct {
	depths  []units.Cm
	columns []string
	data    map[string][]float64
}

// New builds a frame from a depth index and columns. The column order is
// preserved as given.
func New(depths []units.Cm, columns []string, data map[string][]float64) (*Frame, error) {
	for i := 1; i < len(depths); i++ {
		if depths[i] <= depths[i-1] {
			return nil, fmt.Errorf("%w: depth %d after %d", ErrDepthOrder, depths[i], depths[i-1])
		}
	}
	for _, name := range columns {
		col, ok := data[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
		}
		if len(col) != len(depths) {
			return nil, fmt.Errorf("column %q has %d values for %d depths", name, len(col), len(depths))
		}
	}
	return &Frame{depths: depths, columns: columns, data: data}, nil
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.depths) }

// Depths returns the depth index. The slice must not be mutated.
func (f *Frame) Depths() []units.Cm { return f.depths }

// Columns returns the ordered column names. The slice must not be mutated.
func (f *Frame) Columns() []string { return f.columns }

// Column returns the values of a single column. The slice must not be mutated.
func (f *Frame) Column(name string) ([]float64, error) {
	col, ok := f.data[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	return col, nil
}

// HasColumn reports whether the mnemonic exists.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.data[name]
	return ok
}

// Copy returns a deep copy of the frame.
func (f *Frame) Copy() *Frame {
	depths := make([]units.Cm, len(f.depths))
	copy(depths, f.depths)
	columns := make([]string, len(f.columns))
	copy(columns, f.columns)
	data := make(map[string][]float64, len(f.data))
	for name, col := range f.data {
		dup := make([]float64, len(col))
		copy(dup, col)
		data[name] = dup
	}
	return &Frame{depths: depths, columns: columns, data: data}
}

// Slice returns the rows with from <= depth <= to. Bounds are inclusive,
// matching label-based depth slicing of the source data files.
func (f *Frame) Slice(from, to units.Cm) *Frame {
	lo := sort.Search(len(f.depths), func(i int) bool { return f.depths[i] >= from })
	hi := sort.Search(len(f.depths), func(i int) bool { return f.depths[i] > to })

	depths := make([]units.Cm, hi-lo)
	copy(depths, f.depths[lo:hi])
	data := make(map[string][]float64, len(f.data))
	for name, col := range f.data {
		dup := make([]float64, hi-lo)
		copy(dup, col[lo:hi])
		data[name] = dup
	}
	columns := make([]string, len(f.columns))
	copy(columns, f.columns)
	return &Frame{depths: depths, columns: columns, data: data}
}

// Keep returns a frame with only the given columns, in the given order.
func (f *Frame) Keep(names ...string) (*Frame, error) {
	data := make(map[string][]float64, len(names))
	columns := make([]string, 0, len(names))
	for _, name := range names {
		col, err := f.Column(name)
		if err != nil {
			return nil, err
		}
		dup := make([]float64, len(col))
		copy(dup, col)
		data[name] = dup
		columns = append(columns, name)
	}
	depths := make([]units.Cm, len(f.depths))
	copy(depths, f.depths)
	return &Frame{depths: depths, columns: columns, data: data}, nil
}

// Drop returns a frame without the given columns. Unknown names are ignored,
// matching the forgiving behaviour of the source loaders.
func (f *Frame) Drop(names ...string) *Frame {
	dropped := make(map[string]struct{}, len(names))
	for _, name := range names {
		dropped[name] = struct{}{}
	}
	keep := make([]string, 0, len(f.columns))
	for _, name := range f.columns {
		if _, ok := dropped[name]; !ok {
			keep = append(keep, name)
		}
	}
	out, _ := f.Keep(keep...)
	return out
}

// Rename renames columns according to the mapping. Names without a mapping
// entry are kept as-is. Two columns ending up with the same name is an
// error; swapping two names in one call is fine.
func (f *Frame) Rename(mapping map[string]string) (*Frame, error) {
	out := f.Copy()
	data := make(map[string][]float64, len(out.columns))
	for i, name := range out.columns {
		to := name
		if t, ok := mapping[name]; ok {
			to = t
		}
		if _, dup := data[to]; dup {
			return nil, fmt.Errorf("rename %q to %q: %w", name, to, ErrColumnExists)
		}
		out.columns[i] = to
		data[to] = out.data[name]
	}
	out.data = data
	return out, nil
}
