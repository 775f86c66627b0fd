// SPDX-License-Identifier: MIT

package daemon

import "errors"

var (
	// ErrMissingLogger is returned when no logger is configured.
	ErrMissingLogger = errors.New("daemon: logger is required")

	// ErrMissingAPIHandler is returned when no API handler is configured.
	ErrMissingAPIHandler = errors.New("daemon: API handler is required")

	// ErrMissingManager is returned when App runs without a Manager.
	ErrMissingManager = errors.New("daemon: manager is required")

	// ErrManagerNotStarted is returned when Shutdown precedes Start.
	ErrManagerNotStarted = errors.New("daemon: manager not started")
)
