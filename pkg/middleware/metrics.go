package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-go/navkit/pkg/protocol"
	"github.com/vango-go/navkit/pkg/session"
)

// MetricsConfig configures the Prometheus metrics interceptor.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "navkit").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for event duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics interceptor.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) { c.Namespace = namespace }
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) { c.Subsystem = subsystem }
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) { c.ConstLabels = labels }
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) { c.Buckets = buckets }
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) { c.Registry = registry }
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "navkit",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus metrics for navkit.
type metrics struct {
	eventsTotal       *prometheus.CounterVec
	eventDuration     *prometheus.HistogramVec
	navigationsTotal  prometheus.Counter
	patchesSent       prometheus.Counter
	scrollInvocations prometheus.Counter
	moduleLoads       prometheus.Counter
	moduleFailures    prometheus.Counter
	activeSessions    prometheus.Gauge
}

// globalMetrics is created by the first Prometheus() call; later calls
// reuse it so a registry sees each metric registered once.
var (
	globalMetrics   *metrics
	globalMetricsMu sync.Mutex
)

func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "events_total",
			Help:        "Total number of client events processed",
			ConstLabels: config.ConstLabels,
		}, []string{"type", "status"}),

		eventDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "event_duration_seconds",
			Help:        "Event processing duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"type"}),

		navigationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of client navigations observed",
			ConstLabels: config.ConstLabels,
		}),

		patchesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patches_sent_total",
			Help:        "Total number of patches sent to clients",
			ConstLabels: config.ConstLabels,
		}),

		scrollInvocations: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "scroll_invocations_total",
			Help:        "Total number of scroll-helper invocations",
			ConstLabels: config.ConstLabels,
		}),

		moduleLoads: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "module_loads_total",
			Help:        "Total number of client module loads",
			ConstLabels: config.ConstLabels,
		}),

		moduleFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "module_failures_total",
			Help:        "Total number of failed client module loads",
			ConstLabels: config.ConstLabels,
		}),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_sessions",
			Help:        "Number of active WebSocket sessions",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Prometheus creates an interceptor that collects Prometheus metrics
// for session events.
//
// Metrics collected:
//   - navkit_events_total: Counter of events by type and status
//   - navkit_event_duration_seconds: Histogram of event processing duration
//   - navkit_navigations_total: Counter of navigate events
//   - navkit_patches_sent_total: Counter of patches sent (via RecordPatches)
//   - navkit_scroll_invocations_total: Counter of scroll-helper calls
//   - navkit_module_loads_total / navkit_module_failures_total
//   - navkit_active_sessions: Gauge of active sessions (via session hooks)
func Prometheus(opts ...MetricsOption) session.EventInterceptor {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	globalMetricsMu.Lock()
	if globalMetrics == nil {
		globalMetrics = initMetrics(config)
	}
	m := globalMetrics
	globalMetricsMu.Unlock()

	return func(ctx context.Context, ev *protocol.Event, next func() error) error {
		start := time.Now()
		err := next()
		m.eventDuration.WithLabelValues(ev.Type.String()).Observe(time.Since(start).Seconds())

		status := "success"
		if err != nil {
			status = "error"
		}
		m.eventsTotal.WithLabelValues(ev.Type.String(), status).Inc()

		if ev.Type == protocol.EventNavigate && err == nil {
			m.navigationsTotal.Inc()
		}
		return err
	}
}

// =============================================================================
// Metrics Recording Functions
// =============================================================================

// RecordPatches records the number of patches sent to a client.
func RecordPatches(count int) {
	if globalMetrics != nil {
		globalMetrics.patchesSent.Add(float64(count))
	}
}

// RecordSessionStart records a new session.
func RecordSessionStart() {
	if globalMetrics != nil {
		globalMetrics.activeSessions.Inc()
	}
}

// RecordSessionEnd records a session teardown.
func RecordSessionEnd() {
	if globalMetrics != nil {
		globalMetrics.activeSessions.Dec()
	}
}

// RecordScrollInvocation records one scroll-helper call.
func RecordScrollInvocation() {
	if globalMetrics != nil {
		globalMetrics.scrollInvocations.Inc()
	}
}

// RecordModuleLoad records a client module load attempt.
func RecordModuleLoad(ok bool) {
	if globalMetrics == nil {
		return
	}
	globalMetrics.moduleLoads.Inc()
	if !ok {
		globalMetrics.moduleFailures.Inc()
	}
}

// Collector exposes the collected metrics for custom registrations and
// tests.
type Collector struct {
	eventsTotal       *prometheus.CounterVec
	eventDuration     *prometheus.HistogramVec
	navigationsTotal  prometheus.Counter
	patchesSent       prometheus.Counter
	scrollInvocations prometheus.Counter
	moduleLoads       prometheus.Counter
	moduleFailures    prometheus.Counter
	activeSessions    prometheus.Gauge
}

// GetMetrics returns the global metrics collector, or nil before the
// Prometheus interceptor has been initialized.
func GetMetrics() *Collector {
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	if globalMetrics == nil {
		return nil
	}
	return &Collector{
		eventsTotal:       globalMetrics.eventsTotal,
		eventDuration:     globalMetrics.eventDuration,
		navigationsTotal:  globalMetrics.navigationsTotal,
		patchesSent:       globalMetrics.patchesSent,
		scrollInvocations: globalMetrics.scrollInvocations,
		moduleLoads:       globalMetrics.moduleLoads,
		moduleFailures:    globalMetrics.moduleFailures,
		activeSessions:    globalMetrics.activeSessions,
	}
}
