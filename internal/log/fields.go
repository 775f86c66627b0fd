// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID = "request_id"
	FieldJobID     = "job_id"
	FieldWell      = "well"
	FieldField     = "field"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// Curve fields
	FieldMnemonic = "mnemonic"

	// Path fields
	FieldPath        = "path"
	FieldDataDir     = "data_dir"
	FieldCatalogPath = "catalog_path"
)
