// SPDX-License-Identifier: MIT

package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{
		Enabled:      false,
		ServiceName:  "test-service",
		ExporterType: "grpc",
	})
	require.NoError(t, err)
	assert.Nil(t, provider.tp)

	// global tracer must be noop
	tracer := otel.Tracer("test")
	_, span := tracer.Start(context.Background(), "noop-check")
	assert.False(t, span.IsRecording())
	span.End()
}

func TestNewProvider_InvalidExporter(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{
		Enabled:      true,
		ServiceName:  "test-service",
		ExporterType: "invalid",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported exporter type")
}

func TestProvider_Shutdown(t *testing.T) {
	provider := &Provider{tp: nil}
	assert.NoError(t, provider.Shutdown(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, provider.Shutdown(ctx))
}

func TestTracer(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Enabled: false, ServiceName: "test-service"})
	require.NoError(t, err)

	tracer := Tracer("test-tracer")
	require.NotNil(t, tracer)

	ctx, span := tracer.Start(context.Background(), "test-span")
	require.NotNil(t, span)
	span.End()

	assert.NotNil(t, trace.SpanFromContext(ctx))
}

func TestAttributeHelpers(t *testing.T) {
	assert.Len(t, HTTPAttributes("GET", "/api/wells", "http://x/api/wells", 200), 4)
	assert.Len(t, WellAttributes("12-A", "Vostochnoe", 100000, 100300), 4)
	assert.Len(t, WellAttributes("", "", 0, 100), 2)
	assert.Len(t, ScanAttributes("/data", 3, 1), 3)
	assert.Len(t, MatchAttributes("GK", 2, 0.98), 3)
	assert.Len(t, JobAttributes("scan", "completed", 120), 3)
	assert.Len(t, ErrorAttributes(assert.AnError, "scan"), 2)
}
