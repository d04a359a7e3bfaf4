package telemetry

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

func TestInitDisabled(t *testing.T) {
	shutdown, err := Init(context.Background(), "", "pulseq", "test", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestInitEnabled(t *testing.T) {
	// Exporters connect lazily, so an unreachable endpoint is fine here.
	shutdown, err := Init(context.Background(), "127.0.0.1:1", "pulseq", "test", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// Nothing was recorded; shutdown with a cancelled context must not hang.
	_ = shutdown(ctx)
}

func TestInitMetricExporterFailure(t *testing.T) {
	orig := newMetricExporter
	t.Cleanup(func() { newMetricExporter = orig })
	newMetricExporter = func(context.Context, ...otlpmetrichttp.Option) (sdkmetric.Exporter, error) {
		return nil, errors.New("boom")
	}

	before := otel.GetTracerProvider()
	shutdown, err := Init(context.Background(), "127.0.0.1:1", "pulseq", "test", true)
	if err == nil {
		t.Fatal("expected error")
	}
	if shutdown != nil {
		t.Error("shutdown should be nil on failure")
	}
	if !strings.Contains(err.Error(), "create metric exporter") || !strings.Contains(err.Error(), "boom") {
		t.Errorf("error = %v", err)
	}
	if otel.GetTracerProvider() != before {
		t.Error("global tracer provider was replaced despite the failure")
	}
}
