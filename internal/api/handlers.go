// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/petrolab/wellcore/internal/cache"
	"github.com/petrolab/wellcore/internal/frame"
	"github.com/petrolab/wellcore/internal/interval"
	"github.com/petrolab/wellcore/internal/jobs"
	"github.com/petrolab/wellcore/internal/log"
	"github.com/petrolab/wellcore/internal/matching"
	"github.com/petrolab/wellcore/internal/metrics"
	"github.com/petrolab/wellcore/internal/store"
	"github.com/petrolab/wellcore/internal/units"
	"github.com/petrolab/wellcore/internal/version"
	"github.com/petrolab/wellcore/internal/well"
)

// defaultSliceTTL bounds how long a served depth slice may outlive the data
// files it was read from when no cache TTL is configured. Scans clear the
// cache anyway; the TTL covers edits that no scan noticed.
const defaultSliceTTL = 5 * time.Minute

type statusResponse struct {
	Version string      `json:"version"`
	Wells   int         `json:"wells"`
	Scan    jobs.Status `json:"scan"`
	Cache   cache.Stats `json:"cache"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	count, err := s.st.CountWells(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{
		Version: version.Version,
		Wells:   count,
		Scan:    s.scans.Status(),
		Cache:   s.cache.Stats(),
	})
}

func (s *Server) handleWells(w http.ResponseWriter, r *http.Request) {
	wells, err := s.st.GetWells(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if wells == nil {
		wells = []store.WellRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"wells": wells, "count": len(wells)})
}

type wellResponse struct {
	store.WellRecord
	CoreChunks []well.Chunk `json:"core_chunks,omitempty"`
}

func (s *Server) handleWell(w http.ResponseWriter, r *http.Request) {
	rec, err := s.st.GetWell(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if rec == nil {
		writeNotFound(w)
		return
	}

	resp := wellResponse{WellRecord: *rec}
	if rec.Status == store.StatusOK {
		if seg, err := well.Open(rec.Path); err == nil {
			// core coverage is informational; a well without samples is fine
			if chunks, err := seg.CoreChunks(); err == nil {
				resp.CoreChunks = chunks
			}
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// logsResponse is the JSON shape of a depth slice. Missing readings are null.
type logsResponse struct {
	Well      string                `json:"well"`
	DepthFrom units.Cm              `json:"depth_from"`
	DepthTo   units.Cm              `json:"depth_to"`
	Depths    []units.Cm            `json:"depths"`
	Columns   []string              `json:"columns"`
	Curves    map[string][]*float64 `json:"curves"`
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	seg, ok := s.openSegment(w, r, slug)
	if !ok {
		return
	}

	from, to, err := depthWindow(r, seg)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	mnemonics := splitCSV(r.URL.Query().Get("mnemonics"))

	// the file mtime in the key invalidates cached slices when the logs file
	// changes on disk between scans
	mtime, err := seg.AttrModTime(well.AttrLogs)
	if err != nil {
		writeAttrError(w, err)
		return
	}

	key := fmt.Sprintf("wells/%s/logs@%d?from=%d&to=%d&mnemonics=%s",
		slug, mtime.UnixNano(), from, to, strings.Join(mnemonics, ","))
	if body, ok := s.cache.Get(key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
		return
	}

	seg = seg.Slice(from, to)
	logs, err := seg.Logs()
	if err != nil {
		writeAttrError(w, err)
		return
	}
	if len(mnemonics) > 0 {
		logs, err = logs.Keep(mnemonics...)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	resp := logsResponse{
		Well:      slug,
		DepthFrom: from,
		DepthTo:   to,
		Depths:    logs.Depths(),
		Columns:   logs.Columns(),
		Curves:    curvesJSON(logs),
	}
	body, err := json.Marshal(resp)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	ttl := s.cfg().Cache.TTL
	if ttl <= 0 {
		ttl = defaultSliceTTL
	}
	s.cache.Set(key, body, ttl)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

type samplesResponse struct {
	Well      string         `json:"well"`
	DepthFrom units.Cm       `json:"depth_from"`
	DepthTo   units.Cm       `json:"depth_to"`
	Columns   []string       `json:"columns"`
	Rows      []interval.Row `json:"rows"`
}

func (s *Server) handleSamples(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	seg, ok := s.openSegment(w, r, slug)
	if !ok {
		return
	}

	from, to, err := depthWindow(r, seg)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	samples, err := seg.Slice(from, to).Samples()
	if err != nil {
		writeAttrError(w, err)
		return
	}

	rows := samples.Rows
	if rows == nil {
		rows = []interval.Row{}
	}
	writeJSON(w, http.StatusOK, samplesResponse{
		Well:      slug,
		DepthFrom: from,
		DepthTo:   to,
		Columns:   samples.Columns,
		Rows:      rows,
	})
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	seg, ok := s.openSegment(w, r, slug)
	if !ok {
		return
	}

	params, err := s.matchParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	logger := log.WithComponentFromContext(r.Context(), "match")
	start := time.Now()

	report, err := matching.Match(seg, params)
	if err != nil {
		metrics.IncMatchRun("error")
		logger.Error().Err(err).
			Str(log.FieldWell, slug).
			Str(log.FieldMnemonic, params.Mnemonic).
			Msg("matching failed")
		if errors.Is(err, matching.ErrNoData) || errors.Is(err, well.ErrAttrNotFound) {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	metrics.IncMatchRun("ok")
	for _, sr := range report.Segments {
		if !math.IsNaN(sr.R2) {
			metrics.ObserveMatchR2(sr.R2)
		}
	}

	raw, err := json.Marshal(report)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	rec := store.MatchRecord{
		ID:        uuid.NewString(),
		WellSlug:  slug,
		Mnemonic:  params.Mnemonic,
		CreatedAt: time.Now().UTC(),
		Report:    raw,
	}
	if err := s.st.SaveMatchReport(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	logger.Info().
		Str(log.FieldWell, slug).
		Str(log.FieldMnemonic, params.Mnemonic).
		Int("segments", len(report.Segments)).
		Dur("elapsed", time.Since(start)).
		Msg("matching complete")
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	rec, err := s.st.GetWell(r.Context(), slug)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if rec == nil {
		writeNotFound(w)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 1 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", v))
			return
		}
	}

	reports, err := s.st.GetMatchReports(r.Context(), slug, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if reports == nil {
		reports = []store.MatchRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"well": slug, "matches": reports})
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	status, err := s.scans.Run(r.Context())
	if err != nil {
		if errors.Is(err, jobs.ErrScanInFlight) {
			writeConflict(w, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// openSegment resolves a slug through the catalog and opens the well
// directory. It writes the error response itself when resolution fails.
func (s *Server) openSegment(w http.ResponseWriter, r *http.Request, slug string) (*well.Segment, bool) {
	rec, err := s.st.GetWell(r.Context(), slug)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return nil, false
	}
	if rec == nil {
		writeNotFound(w)
		return nil, false
	}
	if rec.Status != store.StatusOK {
		writeError(w, http.StatusConflict, fmt.Errorf("well %q failed its last scan: %s", slug, rec.Error))
		return nil, false
	}
	seg, err := well.Open(rec.Path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return nil, false
	}
	return seg, true
}

// depthWindow parses optional ?from and ?to query params, defaulting to the
// segment's full drilled range. Depths accept bare centimeters or unit
// suffixes like "1250.5m".
func depthWindow(r *http.Request, seg *well.Segment) (from, to units.Cm, err error) {
	from, to = seg.DepthFrom(), seg.DepthTo()
	if v := r.URL.Query().Get("from"); v != "" {
		if from, err = units.ParseDepth(v); err != nil {
			return 0, 0, fmt.Errorf("from: %w", err)
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if to, err = units.ParseDepth(v); err != nil {
			return 0, 0, fmt.Errorf("to: %w", err)
		}
	}
	if to < from {
		return 0, 0, fmt.Errorf("window [%d, %d] has negative extent", from, to)
	}
	return from, to, nil
}

// matchParams decodes the request body over the configured defaults. An empty
// body runs with the defaults unchanged.
func (s *Server) matchParams(r *http.Request) (matching.Params, error) {
	cfg := s.cfg().Match
	params := matching.Params{
		Mnemonic:  cfg.Mnemonic,
		MaxShift:  cfg.MaxShift,
		DeltaFrom: cfg.DeltaFrom,
		DeltaTo:   cfg.DeltaTo,
		DeltaStep: cfg.DeltaStep,
	}
	if r.Body == nil || r.ContentLength == 0 {
		return params, nil
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&params); err != nil {
		return matching.Params{}, fmt.Errorf("decode match params: %w", err)
	}
	return params, nil
}

func writeAttrError(w http.ResponseWriter, err error) {
	if errors.Is(err, well.ErrAttrNotFound) {
		writeNotFound(w)
		return
	}
	writeError(w, http.StatusInternalServerError, err)
}

// curvesJSON converts frame columns to pointer slices so NaN serialises as
// JSON null.
func curvesJSON(f *frame.Frame) map[string][]*float64 {
	out := make(map[string][]*float64, len(f.Columns()))
	for _, name := range f.Columns() {
		col, err := f.Column(name)
		if err != nil {
			continue
		}
		vals := make([]*float64, len(col))
		for i := range col {
			if !math.IsNaN(col[i]) {
				v := col[i]
				vals[i] = &v
			}
		}
		out[name] = vals
	}
	return out
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
