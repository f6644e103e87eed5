package middleware

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-go/navkit/pkg/protocol"
	"github.com/vango-go/navkit/pkg/session"
)

// Default tracer name for navkit sessions.
const defaultTracerName = "navkit"

// OTelConfig configures the OpenTelemetry interceptor.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "navkit").
	TracerName string

	// Filter determines which events to trace. Return true to trace
	// the event. If nil, all events are traced.
	Filter func(ev *protocol.Event) bool

	// AttributeExtractor extracts custom attributes per traced event.
	AttributeExtractor func(ev *protocol.Event) []attribute.KeyValue

	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry interceptor.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) { c.TracerName = name }
}

// WithEventFilter sets a filter function for events.
func WithEventFilter(filter func(ev *protocol.Event) bool) OTelOption {
	return func(c *OTelConfig) { c.Filter = filter }
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(ev *protocol.Event) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) { c.AttributeExtractor = extractor }
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{TracerName: defaultTracerName}
}

// OpenTelemetry creates an interceptor that traces every session event.
//
// Each event gets a span named navkit.<event type> carrying the event
// type, the target hydration ID for clicks, and the destination for
// navigations. Errors from the event handler are recorded and set the
// span status.
//
// The tracer comes from the global OpenTelemetry tracer provider;
// configure it in main() before serving:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
func OpenTelemetry(opts ...OTelOption) session.EventInterceptor {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}
	config.tracer = otel.Tracer(config.TracerName)

	return func(ctx context.Context, ev *protocol.Event, next func() error) error {
		if config.Filter != nil && !config.Filter(ev) {
			return next()
		}

		attrs := []attribute.KeyValue{
			attribute.String("navkit.event_type", ev.Type.String()),
		}
		if ev.HID != "" {
			attrs = append(attrs, attribute.String("navkit.event_target", ev.HID))
		}
		if ev.Type == protocol.EventNavigate {
			attrs = append(attrs, attribute.String("navkit.location", ev.Location))
		}
		if config.AttributeExtractor != nil {
			attrs = append(attrs, config.AttributeExtractor(ev)...)
		}

		_, span := config.tracer.Start(
			ctx,
			fmt.Sprintf("navkit.%s", ev.Type),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attrs...),
			trace.WithTimestamp(time.Now()),
		)
		defer span.End()

		err := next()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		return err
	}
}
