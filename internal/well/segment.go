// SPDX-License-Identifier: MIT

// Package well loads well directories and exposes their log and core data.
//
// A well directory contains meta.json plus attribute files found by basename:
// depth-indexed curves (logs, core_properties, core_logs), interval tables
// (layers, boring_intervals, core_lithology, samples) and plain tables
// (inclination). Attributes load lazily on first access and are filtered to
// the segment's depth window.
package well

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/petrolab/wellcore/internal/frame"
	"github.com/petrolab/wellcore/internal/interval"
	"github.com/petrolab/wellcore/internal/las"
	"github.com/petrolab/wellcore/internal/metrics"
	"github.com/petrolab/wellcore/internal/units"
)

// Attribute names understood by the loader.
const (
	AttrLogs            = "logs"
	AttrCoreProperties  = "core_properties"
	AttrCoreLogs        = "core_logs"
	AttrLayers          = "layers"
	AttrBoringIntervals = "boring_intervals"
	AttrCoreLithology   = "core_lithology"
	AttrSamples         = "samples"
	AttrInclination     = "inclination"
)

// DepthIndexedAttrs lists attributes stored as depth-indexed frames.
var DepthIndexedAttrs = []string{AttrLogs, AttrCoreProperties, AttrCoreLogs}

// IntervalAttrs lists attributes stored as interval tables.
var IntervalAttrs = []string{AttrLayers, AttrBoringIntervals, AttrCoreLithology, AttrSamples}

var (
	// ErrAttrNotFound is returned when no file exists for an attribute.
	ErrAttrNotFound = errors.New("attribute file not found")
	// ErrAttrConflict is returned when several files share an attribute basename.
	ErrAttrConflict = errors.New("several files exist for attribute")
	// ErrUnknownFormat is returned for attribute files in unsupported formats.
	ErrUnknownFormat = errors.New("no loader for data format")
	// ErrCoreOverlap is returned when a core sample intersects the previous one.
	ErrCoreOverlap = errors.New("core sample intersects the previous one")
)

// PlainTable is a non-indexed attribute table (e.g. inclination).
type PlainTable struct {
	Header  []string
	Records [][]string
}

// Segment is a well restricted to a [DepthFrom, DepthTo] window.
type Segment struct {
	path string
	meta Meta

	depthFrom units.Cm
	depthTo   units.Cm

	frames    map[string]*frame.Frame
	intervals map[string]*interval.Table
	plain     map[string]*PlainTable
}

// Open reads a well directory's metadata and returns a segment spanning the
// whole drilled range. Attribute data is not loaded yet.
func Open(dir string) (*Segment, error) {
	meta, err := ReadMeta(dir)
	if err != nil {
		return nil, err
	}
	return &Segment{
		path:      dir,
		meta:      meta,
		depthFrom: meta.DepthFrom,
		depthTo:   meta.DepthTo,
		frames:    map[string]*frame.Frame{},
		intervals: map[string]*interval.Table{},
		plain:     map[string]*PlainTable{},
	}, nil
}

// Path returns the well directory.
func (s *Segment) Path() string { return s.path }

// Attrs lists the attributes that have a data file in the well directory,
// in a fixed order. It does not load or validate the files.
func (s *Segment) Attrs() []string {
	known := make([]string, 0, len(DepthIndexedAttrs)+len(IntervalAttrs)+1)
	known = append(known, DepthIndexedAttrs...)
	known = append(known, IntervalAttrs...)
	known = append(known, AttrInclination)

	var out []string
	for _, attr := range known {
		if _, err := attrFile(s.path, attr); err == nil {
			out = append(out, attr)
		}
	}
	return out
}

// AttrModTime returns the modification time of the attribute's data file,
// without loading it. Callers use it to invalidate caches when the file
// changes on disk.
func (s *Segment) AttrModTime(attr string) (time.Time, error) {
	path, err := attrFile(s.path, attr)
	if err != nil {
		return time.Time{}, err
	}
	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return fi.ModTime(), nil
}

// Meta returns the well descriptor.
func (s *Segment) Meta() Meta { return s.meta }

// DepthFrom returns the top of the segment window.
func (s *Segment) DepthFrom() units.Cm { return s.depthFrom }

// DepthTo returns the bottom of the segment window.
func (s *Segment) DepthTo() units.Cm { return s.depthTo }

// Logs returns the well log curves.
func (s *Segment) Logs() (*frame.Frame, error) { return s.depthAttr(AttrLogs) }

// CoreProperties returns the laboratory core measurements.
func (s *Segment) CoreProperties() (*frame.Frame, error) { return s.depthAttr(AttrCoreProperties) }

// CoreLogs returns the core-plug log curves.
func (s *Segment) CoreLogs() (*frame.Frame, error) { return s.depthAttr(AttrCoreLogs) }

// Layers returns the stratigraphy intervals.
func (s *Segment) Layers() (*interval.Table, error) { return s.intervalAttr(AttrLayers) }

// BoringIntervals returns the coring run intervals.
func (s *Segment) BoringIntervals() (*interval.Table, error) {
	return s.intervalAttr(AttrBoringIntervals)
}

// CoreLithology returns the lithology description intervals.
func (s *Segment) CoreLithology() (*interval.Table, error) { return s.intervalAttr(AttrCoreLithology) }

// Samples returns the core sample intervals.
func (s *Segment) Samples() (*interval.Table, error) { return s.intervalAttr(AttrSamples) }

// Inclination returns the borehole inclination survey.
func (s *Segment) Inclination() (*PlainTable, error) {
	if t, ok := s.plain[AttrInclination]; ok {
		return t, nil
	}
	path, err := attrFile(s.path, AttrInclination)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	header, records, err := las.ReadPlainCSV(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", AttrInclination, err)
	}
	t := &PlainTable{Header: header, Records: records}
	s.plain[AttrInclination] = t
	return t, nil
}

// SetFrame replaces a loaded depth-indexed attribute, e.g. after matching.
func (s *Segment) SetFrame(attr string, f *frame.Frame) { s.frames[attr] = f }

// SetIntervals replaces a loaded interval attribute, e.g. after matching.
func (s *Segment) SetIntervals(attr string, t *interval.Table) { s.intervals[attr] = t }

// Slice returns a copy of the segment restricted to [from, to]. Loaded
// attributes are refiltered; unloaded ones will load against the new window.
func (s *Segment) Slice(from, to units.Cm) *Segment {
	out := &Segment{
		path:      s.path,
		meta:      s.meta,
		depthFrom: from,
		depthTo:   to,
		frames:    make(map[string]*frame.Frame, len(s.frames)),
		intervals: make(map[string]*interval.Table, len(s.intervals)),
		plain:     s.plain,
	}
	for attr, f := range s.frames {
		out.frames[attr] = f.Slice(from, to)
	}
	for attr, t := range s.intervals {
		out.intervals[attr] = t.FilterOverlap(from, to)
	}
	return out
}

// KeepLogs returns a copy whose logs contain only the given mnemonics.
func (s *Segment) KeepLogs(mnemonics ...string) (*Segment, error) {
	logs, err := s.Logs()
	if err != nil {
		return nil, err
	}
	kept, err := logs.Keep(mnemonics...)
	if err != nil {
		return nil, err
	}
	out := s.shallowCopy()
	out.frames[AttrLogs] = kept
	return out, nil
}

// DropLogs returns a copy whose logs lack the given mnemonics.
func (s *Segment) DropLogs(mnemonics ...string) (*Segment, error) {
	logs, err := s.Logs()
	if err != nil {
		return nil, err
	}
	out := s.shallowCopy()
	out.frames[AttrLogs] = logs.Drop(mnemonics...)
	return out, nil
}

// RenameLogs returns a copy with log mnemonics renamed per the mapping.
func (s *Segment) RenameLogs(mapping map[string]string) (*Segment, error) {
	logs, err := s.Logs()
	if err != nil {
		return nil, err
	}
	renamed, err := logs.Rename(mapping)
	if err != nil {
		return nil, err
	}
	out := s.shallowCopy()
	out.frames[AttrLogs] = renamed
	return out, nil
}

// Chunk is a contiguous cored stretch of the well.
type Chunk struct {
	Top    units.Cm `json:"depth_from"`
	Bottom units.Cm `json:"depth_to"`
}

// CoreChunks merges adjacent core samples into contiguous chunks. A sample
// starting above the previous sample's bottom is a data error.
func (s *Segment) CoreChunks() ([]Chunk, error) {
	samples, err := s.Samples()
	if err != nil {
		return nil, err
	}
	var chunks []Chunk
	for i, r := range samples.Rows {
		if i > 0 {
			gap := r.Top - samples.Rows[i-1].Bottom
			if gap < 0 {
				return nil, fmt.Errorf("%w: [%d, %d) after [%d, %d)", ErrCoreOverlap,
					r.Top, r.Bottom, samples.Rows[i-1].Top, samples.Rows[i-1].Bottom)
			}
			if gap == 0 {
				chunks[len(chunks)-1].Bottom = r.Bottom
				continue
			}
		}
		chunks = append(chunks, Chunk{Top: r.Top, Bottom: r.Bottom})
	}
	return chunks, nil
}

// SplitByCore returns one segment per contiguous cored chunk.
func (s *Segment) SplitByCore() ([]*Segment, error) {
	chunks, err := s.CoreChunks()
	if err != nil {
		return nil, err
	}
	segments := make([]*Segment, 0, len(chunks))
	for _, c := range chunks {
		segments = append(segments, s.Slice(c.Top, c.Bottom))
	}
	return segments, nil
}

func (s *Segment) shallowCopy() *Segment {
	out := &Segment{
		path:      s.path,
		meta:      s.meta,
		depthFrom: s.depthFrom,
		depthTo:   s.depthTo,
		frames:    make(map[string]*frame.Frame, len(s.frames)),
		intervals: make(map[string]*interval.Table, len(s.intervals)),
		plain:     s.plain,
	}
	for k, v := range s.frames {
		out.frames[k] = v
	}
	for k, v := range s.intervals {
		out.intervals[k] = v
	}
	return out
}

func (s *Segment) depthAttr(attr string) (*frame.Frame, error) {
	if f, ok := s.frames[attr]; ok {
		return f, nil
	}
	path, err := attrFile(s.path, attr)
	if err != nil {
		return nil, err
	}
	f, err := loadDepthFile(path)
	if err != nil {
		metrics.IncAttrLoad(attr, "error")
		return nil, fmt.Errorf("load %s: %w", attr, err)
	}
	metrics.IncAttrLoad(attr, "ok")
	f = f.Slice(s.depthFrom, s.depthTo)
	s.frames[attr] = f
	return f, nil
}

func (s *Segment) intervalAttr(attr string) (*interval.Table, error) {
	if t, ok := s.intervals[attr]; ok {
		return t, nil
	}
	path, err := attrFile(s.path, attr)
	if err != nil {
		return nil, err
	}
	t, err := loadIntervalFile(path)
	if err != nil {
		metrics.IncAttrLoad(attr, "error")
		return nil, fmt.Errorf("load %s: %w", attr, err)
	}
	metrics.IncAttrLoad(attr, "ok")
	t = t.FilterOverlap(s.depthFrom, s.depthTo)
	s.intervals[attr] = t
	return t, nil
}

func loadDepthFile(path string) (*frame.Frame, error) {
	switch ext(path) {
	case "las":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		parsed, err := las.Parse(f)
		if err != nil {
			return nil, err
		}
		return parsed.Frame()
	case "csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		return las.ReadDepthCSV(f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext(path))
	}
}

func loadIntervalFile(path string) (*interval.Table, error) {
	switch ext(path) {
	case "csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		return las.ReadIntervalCSV(f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext(path))
	}
}

// attrFile locates the single data file for an attribute basename.
func attrFile(dir, attr string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, attr+".*"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %s in %s", ErrAttrNotFound, attr, dir)
	}
	if len(matches) > 1 {
		return "", fmt.Errorf("%w: %s in %s", ErrAttrConflict, attr, dir)
	}
	return matches[0], nil
}

func ext(path string) string {
	return strings.TrimPrefix(filepath.Ext(path), ".")
}
