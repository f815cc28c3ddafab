package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/donaldgifford/restock-tracker/internal/engine/mocks"
	"github.com/donaldgifford/restock-tracker/internal/retailer"
	notifyMocks "github.com/donaldgifford/restock-tracker/internal/notify/mocks"
	domain "github.com/donaldgifford/restock-tracker/pkg/types"
)

func spanAttr(s sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range s.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestRunSweep_Spans(t *testing.T) {
	t.Parallel()

	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))

	tr := mocks.NewMockTransport(t)
	n := notifyMocks.NewMockNotifier(t)

	vendors := []retailer.Vendor{{
		Name:      "Croma",
		Kind:      retailer.Croma{},
		Entries:   []domain.CatalogEntry{{ID: "317398", Name: "iPhone 17"}},
		Locations: []domain.Location{"400049", "122001"},
	}}

	tr.EXPECT().
		Fetch(mock.Anything, mock.Anything, retailer.Request{Location: "400049", Code: "317398"}).
		Return([]byte(cromaHomeDelivery), nil).Once()
	tr.EXPECT().
		Fetch(mock.Anything, mock.Anything, retailer.Request{Location: "122001", Code: "317398"}).
		Return(nil, errors.New("connection reset")).Once()
	n.EXPECT().Send(mock.Anything, mock.Anything).Return(nil).Once()

	eng := newTestEngine(vendors, tr, n, WithTracerProvider(tp))
	_, err := eng.RunSweep(context.Background())
	require.NoError(t, err)

	spans := rec.Ended()
	require.Len(t, spans, 3)

	sweep := spans[2]
	assert.Equal(t, "sweep", sweep.Name())
	checked, ok := spanAttr(sweep, "checked")
	require.True(t, ok)
	assert.Equal(t, int64(2), checked.AsInt64())

	hit, failed := spans[0], spans[1]
	assert.Equal(t, "check", hit.Name())
	assert.Equal(t, sweep.SpanContext().SpanID(), hit.Parent().SpanID())
	available, _ := spanAttr(hit, "available")
	assert.True(t, available.AsBool())

	loc, _ := spanAttr(failed, "location")
	assert.Equal(t, "122001", loc.AsString())
	assert.Equal(t, codes.Error, failed.Status().Code)
	require.Len(t, failed.Events(), 1)
	assert.Equal(t, "exception", failed.Events()[0].Name)
}

func TestRunSweep_CanceledSpanStatus(t *testing.T) {
	t.Parallel()

	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))

	vendors := []retailer.Vendor{{
		Name:    "Vivo",
		Kind:    retailer.KindFor("Vivo", ""),
		Entries: []domain.CatalogEntry{{ID: "2057", Name: "X300"}},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	eng := newTestEngine(vendors, mocks.NewMockTransport(t), notifyMocks.NewMockNotifier(t), WithTracerProvider(tp))
	_, err := eng.RunSweep(ctx)
	require.ErrorIs(t, err, context.Canceled)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestEngine_AlertCounter(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	tr := mocks.NewMockTransport(t)
	n := notifyMocks.NewMockNotifier(t)

	vendors := []retailer.Vendor{{
		Name:    "Vivo",
		Kind:    retailer.KindFor("Vivo", ""),
		Entries: []domain.CatalogEntry{{ID: "2057", Name: "X300"}},
	}}
	tr.EXPECT().Fetch(mock.Anything, mock.Anything, mock.Anything).Return([]byte(vivoInStock), nil).Once()
	n.EXPECT().Send(mock.Anything, mock.Anything).Return(nil).Once()

	_, err := newTestEngine(vendors, tr, n, WithMeterProvider(mp)).RunSweep(context.Background())
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	require.Len(t, rm.ScopeMetrics[0].Metrics, 1)

	m := rm.ScopeMetrics[0].Metrics[0]
	assert.Equal(t, "restock.alerts", m.Name)

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(1), sum.DataPoints[0].Value)

	vendor, _ := sum.DataPoints[0].Attributes.Value("vendor")
	assert.Equal(t, "Vivo", vendor.AsString())
}
