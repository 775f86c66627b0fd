// SPDX-License-Identifier: MIT

// Package matching aligns core measurements to well logs in depth.
//
// Core is recovered from a boring run with some depth uncertainty: the
// driller's depth bookkeeping and the wireline depth disagree by up to a few
// meters. The matcher groups boring intervals into contiguous segments,
// grid-searches a per-segment depth shift that maximises the linear-fit R²
// between the well log and the core log, and applies the winning shifts to
// the core-indexed data.
package matching

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/petrolab/wellcore/internal/frame"
	"github.com/petrolab/wellcore/internal/interval"
	"github.com/petrolab/wellcore/internal/units"
	"github.com/petrolab/wellcore/internal/well"
)

// ErrNoData is returned when the segment lacks the curves needed to match.
var ErrNoData = errors.New("not enough data to match")

// Params controls the matching grid search. Depth values are centimeters.
type Params struct {
	Mnemonic  string   `json:"mnemonic"`   // curve present in both logs and core_logs
	MaxShift  units.Cm `json:"max_shift"`  // hard bound on |delta|
	DeltaFrom units.Cm `json:"delta_from"` // grid start
	DeltaTo   units.Cm `json:"delta_to"`   // grid end
	DeltaStep units.Cm `json:"delta_step"` // grid step
}

// DefaultParams mirrors the customary gamma-ray matching setup:
// shifts up to 4m, searched between -3m and +3m in 10cm steps.
func DefaultParams() Params {
	return Params{
		Mnemonic:  "GK",
		MaxShift:  400,
		DeltaFrom: -300,
		DeltaTo:   300,
		DeltaStep: 10,
	}
}

func (p *Params) normalize() error {
	if p.Mnemonic == "" {
		p.Mnemonic = "GK"
	}
	if p.MaxShift <= 0 {
		return fmt.Errorf("max_shift must be positive, got %d", p.MaxShift)
	}
	if p.DeltaStep <= 0 {
		return fmt.Errorf("delta_step must be positive, got %d", p.DeltaStep)
	}
	if p.DeltaFrom > p.DeltaTo {
		return fmt.Errorf("delta_from %d exceeds delta_to %d", p.DeltaFrom, p.DeltaTo)
	}
	return nil
}

// SegmentReport describes the outcome for one contiguous boring segment.
type SegmentReport struct {
	Top       units.Cm `json:"depth_from"`
	Bottom    units.Cm `json:"depth_to"`
	Delta     units.Cm `json:"delta"`
	R2        float64  `json:"r2"`
	Intervals int      `json:"intervals"`
	Points    int      `json:"points"`
}

// Report is the result of matching one well segment.
type Report struct {
	Well     string          `json:"well"`
	Mnemonic string          `json:"mnemonic"`
	Segments []SegmentReport `json:"segments"`
}

// Match computes and applies core-to-log depth shifts on the segment. The
// segment's boring_intervals, core_lithology, core_logs and core_properties
// are replaced by their shifted versions.
func Match(s *well.Segment, p Params) (*Report, error) {
	if err := p.normalize(); err != nil {
		return nil, err
	}

	logs, err := s.Logs()
	if err != nil {
		return nil, err
	}
	coreLogs, err := s.CoreLogs()
	if err != nil {
		return nil, err
	}
	if !logs.HasColumn(p.Mnemonic) || !coreLogs.HasColumn(p.Mnemonic) {
		return nil, fmt.Errorf("%w: curve %q missing from logs or core_logs", ErrNoData, p.Mnemonic)
	}
	boring, err := s.BoringIntervals()
	if err != nil {
		return nil, err
	}
	lithology, err := s.CoreLithology()
	if err != nil {
		return nil, err
	}

	coreDepths := coreLogs.Depths()
	coreVals, err := coreLogs.Column(p.Mnemonic)
	if err != nil {
		return nil, err
	}

	report := &Report{Well: s.Meta().Name, Mnemonic: p.Mnemonic}
	deltas := map[int]units.Cm{} // group index -> winning delta
	groups := boring.ContiguousGroups(2 * p.MaxShift)

	for gi, group := range groups {
		top, bottom, _ := group.Span()
		sr := SegmentReport{Top: top, Bottom: bottom, Intervals: group.Len(), R2: math.NaN()}

		var depths []units.Cm
		var vals []float64
		for i, d := range coreDepths {
			if d >= top && d < bottom && !math.IsNaN(coreVals[i]) {
				depths = append(depths, d)
				vals = append(vals, coreVals[i])
			}
		}
		sr.Points = len(depths)

		if len(depths) >= 2 {
			best, bestR2 := units.Cm(0), math.Inf(-1)
			for delta := p.DeltaFrom; delta <= p.DeltaTo; delta += p.DeltaStep {
				if delta < -p.MaxShift || delta > p.MaxShift {
					continue
				}
				r2 := scoreShift(logs, p.Mnemonic, depths, vals, delta)
				if !math.IsNaN(r2) && r2 > bestR2 {
					best, bestR2 = delta, r2
				}
			}
			if !math.IsInf(bestR2, -1) {
				sr.Delta = best
				sr.R2 = bestR2
			}
		}

		deltas[gi] = sr.Delta
		report.Segments = append(report.Segments, sr)
	}

	if err := apply(s, groups, lithology, deltas); err != nil {
		return nil, err
	}
	return report, nil
}

// scoreShift interpolates the well log at the core depths moved by delta and
// scores the linear fit against the core values.
func scoreShift(logs *frame.Frame, mnemonic string, depths []units.Cm, vals []float64, delta units.Cm) float64 {
	x := make([]float64, 0, len(depths))
	y := make([]float64, 0, len(depths))
	for i, d := range depths {
		v, err := logs.At(mnemonic, d+delta)
		if err != nil || math.IsNaN(v) {
			continue
		}
		x = append(x, v)
		y = append(y, vals[i])
	}
	return RSquared(x, y)
}

// apply rewrites the segment's core-indexed attributes with shifted depths.
func apply(s *well.Segment, groups []*interval.Table, lithology *interval.Table, deltas map[int]units.Cm) error {
	// shift boring intervals and lithology rows by their group's delta
	var shiftedBoring []interval.Row
	var shiftedLith []interval.Row
	deltaAt := func(d units.Cm) (units.Cm, bool) {
		for gi, group := range groups {
			top, bottom, ok := group.Span()
			if ok && d >= top && d < bottom {
				return deltas[gi], true
			}
		}
		return 0, false
	}

	var boringCols []string
	for gi, group := range groups {
		boringCols = group.Columns
		for _, r := range group.Shift(deltas[gi]).Rows {
			shiftedBoring = append(shiftedBoring, r)
		}
	}
	for _, r := range lithology.Rows {
		if delta, ok := deltaAt(r.Top); ok {
			r.Top += delta
			r.Bottom += delta
		}
		shiftedLith = append(shiftedLith, r)
	}

	newBoring, err := interval.New(boringCols, shiftedBoring)
	if err != nil {
		return fmt.Errorf("shift boring intervals: %w", err)
	}
	newLith, err := interval.New(lithology.Columns, shiftedLith)
	if err != nil {
		return fmt.Errorf("shift lithology: %w", err)
	}
	s.SetIntervals(well.AttrBoringIntervals, newBoring)
	s.SetIntervals(well.AttrCoreLithology, newLith)

	// shift the core-indexed frames row by row
	for _, attr := range []string{well.AttrCoreLogs, well.AttrCoreProperties} {
		fr, err := frameFor(s, attr)
		if err != nil {
			if errors.Is(err, well.ErrAttrNotFound) {
				continue
			}
			return err
		}
		shifted, err := shiftFrame(fr, deltaAt)
		if err != nil {
			return fmt.Errorf("shift %s: %w", attr, err)
		}
		s.SetFrame(attr, shifted)
	}
	return nil
}

func frameFor(s *well.Segment, attr string) (*frame.Frame, error) {
	switch attr {
	case well.AttrCoreLogs:
		return s.CoreLogs()
	case well.AttrCoreProperties:
		return s.CoreProperties()
	default:
		return nil, fmt.Errorf("unexpected attribute %q", attr)
	}
}

// shiftFrame moves each row by the delta of the boring group containing its
// depth. Rows outside every group keep their depth. Rows are re-sorted and
// depth collisions keep the shallower source row.
func shiftFrame(fr *frame.Frame, deltaAt func(units.Cm) (units.Cm, bool)) (*frame.Frame, error) {
	type row struct {
		depth units.Cm
		idx   int
	}
	depths := fr.Depths()
	rows := make([]row, len(depths))
	for i, d := range depths {
		nd := d
		if delta, ok := deltaAt(d); ok {
			nd = d + delta
		}
		rows[i] = row{depth: nd, idx: i}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].depth < rows[j].depth })

	newDepths := make([]units.Cm, 0, len(rows))
	pick := make([]int, 0, len(rows))
	for _, r := range rows {
		if len(newDepths) > 0 && r.depth == newDepths[len(newDepths)-1] {
			continue
		}
		newDepths = append(newDepths, r.depth)
		pick = append(pick, r.idx)
	}

	data := make(map[string][]float64, len(fr.Columns()))
	for _, name := range fr.Columns() {
		col, err := fr.Column(name)
		if err != nil {
			return nil, err
		}
		out := make([]float64, len(pick))
		for i, idx := range pick {
			out[i] = col[idx]
		}
		data[name] = out
	}
	columns := make([]string, len(fr.Columns()))
	copy(columns, fr.Columns())
	return frame.New(newDepths, columns, data)
}
