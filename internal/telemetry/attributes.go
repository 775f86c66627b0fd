// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for consistent tracing across the application.
const (
	// HTTP attributes
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"
	HTTPURLKey        = "http.url"

	// Well attributes
	WellNameKey      = "well.name"
	WellFieldKey     = "well.field"
	WellDepthFromKey = "well.depth_from_cm"
	WellDepthToKey   = "well.depth_to_cm"

	// Scan attributes
	ScanWellsKey    = "scan.wells"
	ScanFailuresKey = "scan.failures"
	ScanDataDirKey  = "scan.data_dir"

	// Matching attributes
	MatchMnemonicKey = "match.mnemonic"
	MatchSegmentsKey = "match.segments"
	MatchBestR2Key   = "match.best_r2"

	// Job attributes
	JobTypeKey     = "job.type"
	JobStatusKey   = "job.status"
	JobDurationKey = "job.duration_ms"

	// Error attributes
	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// HTTPAttributes creates common HTTP span attributes.
func HTTPAttributes(method, route, url string, statusCode int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
		attribute.String(HTTPURLKey, url),
		attribute.Int(HTTPStatusCodeKey, statusCode),
	}
}

// WellAttributes creates well-related span attributes.
func WellAttributes(name, field string, depthFrom, depthTo int64) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 4)
	if name != "" {
		attrs = append(attrs, attribute.String(WellNameKey, name))
	}
	if field != "" {
		attrs = append(attrs, attribute.String(WellFieldKey, field))
	}
	attrs = append(attrs,
		attribute.Int64(WellDepthFromKey, depthFrom),
		attribute.Int64(WellDepthToKey, depthTo),
	)
	return attrs
}

// ScanAttributes creates scan-related span attributes.
func ScanAttributes(dataDir string, wells, failures int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(ScanDataDirKey, dataDir),
		attribute.Int(ScanWellsKey, wells),
		attribute.Int(ScanFailuresKey, failures),
	}
}

// MatchAttributes creates matching-related span attributes.
func MatchAttributes(mnemonic string, segments int, bestR2 float64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(MatchMnemonicKey, mnemonic),
		attribute.Int(MatchSegmentsKey, segments),
		attribute.Float64(MatchBestR2Key, bestR2),
	}
}

// JobAttributes creates job-related span attributes.
func JobAttributes(jobType, status string, durationMS int64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(JobTypeKey, jobType),
		attribute.String(JobStatusKey, status),
		attribute.Int64(JobDurationKey, durationMS),
	}
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(_ error, errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
}
