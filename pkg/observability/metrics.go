package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/aretw0/rover/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rover"

// Metrics records robot activity on its own Prometheus registry.
type Metrics struct {
	registry *prometheus.Registry

	operations   *prometheus.CounterVec
	instructions *prometheus.CounterVec
	ignored      *prometheus.CounterVec
	position     *prometheus.GaugeVec
	facing       *prometheus.GaugeVec
	revision     prometheus.Gauge

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them, together with the Go
// runtime and process collectors, on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Operations applied to the shared robot by pattern and operation",
			},
			[]string{"pattern", "operation"},
		),
		instructions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "instructions_total",
				Help:      "Instructions applied by pattern and instruction",
			},
			[]string{"pattern", "instruction"},
		),
		ignored: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ignored_instructions_total",
				Help:      "Unknown instruction characters skipped",
			},
			[]string{"pattern"},
		),
		position: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "position",
				Help:      "Latest robot coordinate by axis",
			},
			[]string{"axis"},
		),
		facing: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "facing",
				Help:      "1 for the direction the robot currently faces, 0 otherwise",
			},
			[]string{"direction"},
		),
		revision: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "revision",
				Help:      "Revision of the latest published robot state",
			},
		),
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "code"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// Registry returns the registry backing the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Publish implements ports.PoseSink.
func (m *Metrics) Publish(ctx context.Context, event domain.PoseEvent) error {
	m.operations.WithLabelValues(event.Pattern, string(event.Operation)).Inc()

	if r := event.Report; r != nil {
		for ins, n := range r.Counts {
			m.instructions.WithLabelValues(event.Pattern, ins.Name()).Add(float64(n))
		}
		if r.Ignored > 0 {
			m.ignored.WithLabelValues(event.Pattern).Add(float64(r.Ignored))
		}
	}

	m.position.WithLabelValues("x").Set(float64(event.Pose.X))
	m.position.WithLabelValues("y").Set(float64(event.Pose.Y))
	for _, d := range domain.Directions() {
		v := 0.0
		if d == event.Pose.Facing {
			v = 1
		}
		m.facing.WithLabelValues(d.String()).Set(v)
	}
	m.revision.Set(float64(event.Revision))
	return nil
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, route string, code int, duration time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
