// SPDX-License-Identifier: MIT

// Package jobs runs the catalog scan: it walks the data directory, validates
// every well it finds and publishes the result as a CSV catalog, the SQLite
// store and Prometheus metrics.
package jobs

import "time"

// Status represents the outcome of the most recent scan.
type Status struct {
	JobID    string    `json:"job_id,omitempty"`
	LastRun  time.Time `json:"last_run"`
	Duration string    `json:"duration,omitempty"`
	Wells    int       `json:"wells"`
	Failures int       `json:"failures"`
	Error    string    `json:"error,omitempty"`
}

// Config holds configuration for scan operations.
type Config struct {
	// DataDir is the directory holding one subdirectory per well
	DataDir string

	// CatalogPath is where the catalog CSV is written
	CatalogPath string

	// Workers is how many well directories are parsed concurrently
	Workers int
}
