package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/donaldgifford/restock-tracker/internal/config"
)

func TestSetup_Disabled(t *testing.T) {
	t.Parallel()

	shutdown, err := Setup(context.Background(), config.TelemetryConfig{Endpoint: "localhost:4317"}, "dev")
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestResource(t *testing.T) {
	t.Parallel()

	res := Resource("restock-tracker", "v1.2.0")

	name, ok := res.Set().Value(attribute.Key("service.name"))
	require.True(t, ok)
	assert.Equal(t, "restock-tracker", name.AsString())

	version, ok := res.Set().Value(attribute.Key("service.version"))
	require.True(t, ok)
	assert.Equal(t, "v1.2.0", version.AsString())
}

func TestSampler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ratio    float64
		wantDesc string
	}{
		{ratio: 1, wantDesc: "AlwaysOnSampler"},
		{ratio: 2, wantDesc: "AlwaysOnSampler"},
		{ratio: 0, wantDesc: "AlwaysOffSampler"},
		{ratio: 0.25, wantDesc: "TraceIDRatioBased{0.25}"},
	}

	for _, tt := range tests {
		t.Run(tt.wantDesc, func(t *testing.T) {
			t.Parallel()

			s := Sampler(tt.ratio)
			assert.Contains(t, s.Description(), "ParentBased")
			assert.Contains(t, s.Description(), tt.wantDesc)
		})
	}
}

func TestSampler_ZeroRatioDropsRoots(t *testing.T) {
	t.Parallel()

	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(Sampler(0)))
	_, span := tp.Tracer(Scope).Start(context.Background(), "sweep")
	assert.False(t, span.SpanContext().IsSampled())
	span.End()
}
