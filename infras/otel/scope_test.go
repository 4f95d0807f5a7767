package otel

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestScope_RecordsOnSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	o := &otelImpl{provider: trace.NewTracerProvider(trace.WithSpanProcessor(recorder))}

	_, scope := o.NewScope(context.Background(), "test", "booking.create")
	scope.SetAttributes(map[string]any{
		"booking.total_amount": 450.5,
		"booking.adults":       2,
		"booking.check_in":     time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	scope.TraceIfError(nil)
	scope.TraceError(errors.New("room unavailable"))
	scope.End()

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected one span, got %d", len(spans))
	}

	span := spans[0]
	if span.Status().Code != codes.Error || span.Status().Description != "room unavailable" {
		t.Errorf("unexpected status %+v", span.Status())
	}

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}

	if attrs["booking.total_amount"].AsFloat64() != 450.5 {
		t.Errorf("expected float attribute, got %v", attrs["booking.total_amount"])
	}

	if attrs["booking.adults"].AsInt64() != 2 {
		t.Errorf("expected int attribute, got %v", attrs["booking.adults"])
	}

	if attrs["booking.check_in"].AsString() != "2024-06-01" {
		t.Errorf("expected date attribute, got %v", attrs["booking.check_in"])
	}

	if err := o.Shutdown(context.Background()); err != nil {
		t.Errorf("unexpected shutdown error %v", err)
	}
}
