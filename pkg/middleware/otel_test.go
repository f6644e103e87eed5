package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/vango-go/navkit/pkg/protocol"
)

func TestOpenTelemetryPassesThrough(t *testing.T) {
	ic := OpenTelemetry(WithTracerName("navkit-test"))

	calls := 0
	ev := &protocol.Event{Type: protocol.EventNavigate, Location: "https://example.com/docs"}
	if err := ic(context.Background(), ev, func() error { calls++; return nil }); err != nil {
		t.Fatalf("interceptor error = %v", err)
	}
	if calls != 1 {
		t.Errorf("next called %d times, want 1", calls)
	}
}

func TestOpenTelemetryPropagatesErrors(t *testing.T) {
	ic := OpenTelemetry()

	wantErr := errors.New("no handler")
	ev := &protocol.Event{Type: protocol.EventClick, HID: "h1"}
	if err := ic(context.Background(), ev, func() error { return wantErr }); !errors.Is(err, wantErr) {
		t.Errorf("interceptor error = %v, want %v", err, wantErr)
	}
}

func TestOpenTelemetryFilter(t *testing.T) {
	ic := OpenTelemetry(WithEventFilter(func(ev *protocol.Event) bool {
		return ev.Type != protocol.EventNavigate
	}))

	// Filtered events still run; they just skip the span.
	calls := 0
	ev := &protocol.Event{Type: protocol.EventNavigate}
	if err := ic(context.Background(), ev, func() error { calls++; return nil }); err != nil {
		t.Fatalf("interceptor error = %v", err)
	}
	if calls != 1 {
		t.Errorf("next called %d times, want 1", calls)
	}
}
