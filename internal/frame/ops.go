// SPDX-License-Identifier: MIT

package frame

import (
	"fmt"
	"math"
	"sort"

	"github.com/petrolab/wellcore/internal/units"
)

// DropNaNs returns a frame without rows that contain a NaN in any column.
func (f *Frame) DropNaNs() *Frame {
	keep := make([]int, 0, len(f.depths))
rows:
	for i := range f.depths {
		for _, name := range f.columns {
			if math.IsNaN(f.data[name][i]) {
				continue rows
			}
		}
		keep = append(keep, i)
	}
	return f.takeRows(keep)
}

// FillNaNs returns a frame with every NaN replaced by value.
func (f *Frame) FillNaNs(value float64) *Frame {
	out := f.Copy()
	for _, name := range out.columns {
		col := out.data[name]
		for i, v := range col {
			if math.IsNaN(v) {
				col[i] = value
			}
		}
	}
	return out
}

// NormMeanStd standardises the given columns to zero mean and unit variance.
// NaNs are ignored when computing the statistics and left in place. With no
// names given, all columns are normalised.
func (f *Frame) NormMeanStd(names ...string) (*Frame, error) {
	if len(names) == 0 {
		names = f.columns
	}
	out := f.Copy()
	const eps = 1e-10
	for _, name := range names {
		col, err := out.Column(name)
		if err != nil {
			return nil, err
		}
		mean, std := meanStd(col)
		for i, v := range col {
			if !math.IsNaN(v) {
				col[i] = (v - mean) / (std + eps)
			}
		}
	}
	return out, nil
}

// NormMinMax scales the given columns to [0, 1]. NaNs are ignored when
// computing the bounds and left in place. With no names given, all columns
// are normalised.
func (f *Frame) NormMinMax(names ...string) (*Frame, error) {
	if len(names) == 0 {
		names = f.columns
	}
	out := f.Copy()
	for _, name := range names {
		col, err := out.Column(name)
		if err != nil {
			return nil, err
		}
		lo, hi := minMax(col)
		span := hi - lo
		if span == 0 {
			span = 1
		}
		for i, v := range col {
			if !math.IsNaN(v) {
				col[i] = (v - lo) / span
			}
		}
	}
	return out, nil
}

// At linearly interpolates a column at the given depth. The depth must lie
// within the frame's depth range and the neighbouring readings must not be
// NaN.
func (f *Frame) At(name string, depth units.Cm) (float64, error) {
	col, err := f.Column(name)
	if err != nil {
		return 0, err
	}
	if len(f.depths) == 0 {
		return 0, ErrEmpty
	}
	if depth < f.depths[0] || depth > f.depths[len(f.depths)-1] {
		return 0, fmt.Errorf("depth %d outside range [%d, %d]", depth, f.depths[0], f.depths[len(f.depths)-1])
	}
	i := sort.Search(len(f.depths), func(i int) bool { return f.depths[i] >= depth })
	if f.depths[i] == depth {
		return col[i], nil
	}
	d0, d1 := f.depths[i-1], f.depths[i]
	v0, v1 := col[i-1], col[i]
	t := float64(depth-d0) / float64(d1-d0)
	return v0 + t*(v1-v0), nil
}

// Shift returns a frame with the whole depth index moved by delta.
func (f *Frame) Shift(delta units.Cm) *Frame {
	out := f.Copy()
	for i := range out.depths {
		out.depths[i] += delta
	}
	return out
}

// Stats summarises one column, skipping NaNs.
type Stats struct {
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
}

// ColumnStats computes summary statistics for a column.
func (f *Frame) ColumnStats(name string) (Stats, error) {
	col, err := f.Column(name)
	if err != nil {
		return Stats{}, err
	}
	mean, std := meanStd(col)
	lo, hi := minMax(col)
	n := 0
	for _, v := range col {
		if !math.IsNaN(v) {
			n++
		}
	}
	return Stats{Count: n, Min: lo, Max: hi, Mean: mean, Std: std}, nil
}

func (f *Frame) takeRows(idx []int) *Frame {
	depths := make([]units.Cm, len(idx))
	data := make(map[string][]float64, len(f.data))
	for _, name := range f.columns {
		data[name] = make([]float64, len(idx))
	}
	for out, in := range idx {
		depths[out] = f.depths[in]
		for _, name := range f.columns {
			data[name][out] = f.data[name][in]
		}
	}
	columns := make([]string, len(f.columns))
	copy(columns, f.columns)
	return &Frame{depths: depths, columns: columns, data: data}
}

func meanStd(col []float64) (mean, std float64) {
	n := 0
	for _, v := range col {
		if !math.IsNaN(v) {
			mean += v
			n++
		}
	}
	if n == 0 {
		return math.NaN(), math.NaN()
	}
	mean /= float64(n)
	for _, v := range col {
		if !math.IsNaN(v) {
			d := v - mean
			std += d * d
		}
	}
	std = math.Sqrt(std / float64(n))
	return mean, std
}

func minMax(col []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range col {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		return math.NaN(), math.NaN()
	}
	return lo, hi
}
