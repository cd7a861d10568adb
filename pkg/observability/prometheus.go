package observability

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "seqdraw"

// Metrics implements every hook interface on top of Prometheus collectors.
type Metrics struct {
	stageTotal    *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	diagramSize   *prometheus.HistogramVec
	cacheEvents   *prometheus.CounterVec
	cacheBytes    *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	httpErrors    *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		stageTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pipeline_stage_total",
				Help:      "Pipeline stage executions by stage, kind and outcome.",
			},
			[]string{"stage", "kind", "outcome"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "pipeline_stage_duration_seconds",
				Help:      "Pipeline stage latency.",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"stage"},
		),
		diagramSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "diagram_elements",
				Help:      "Participants and messages per parsed diagram.",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
			},
			[]string{"element"},
		),
		cacheEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_events_total",
				Help:      "Cache lookups and writes by key type.",
			},
			[]string{"key_type", "event"},
		),
		cacheBytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_written_bytes_total",
				Help:      "Bytes written to the cache by key type.",
			},
			[]string{"key_type"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Requests served by route and status code.",
			},
			[]string{"method", "route", "code"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Request latency by route.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		httpErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_errors_total",
				Help:      "Requests that failed with an error, by route.",
			},
			[]string{"method", "route"},
		),
	}
	reg.MustRegister(
		m.stageTotal, m.stageDuration, m.diagramSize,
		m.cacheEvents, m.cacheBytes,
		m.httpRequests, m.httpDuration, m.httpErrors,
	)
	return m
}

// Install registers m as the global pipeline, cache and HTTP hooks.
func (m *Metrics) Install() {
	SetPipelineHooks(m)
	SetCacheHooks(m)
	SetHTTPHooks(m)
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) OnParseStart(context.Context, string, int) {}

func (m *Metrics) OnParseComplete(_ context.Context, source string, participants, messages int, d time.Duration, err error) {
	m.stageTotal.WithLabelValues("parse", source, outcome(err)).Inc()
	m.stageDuration.WithLabelValues("parse").Observe(d.Seconds())
	if err == nil {
		m.diagramSize.WithLabelValues("participants").Observe(float64(participants))
		m.diagramSize.WithLabelValues("messages").Observe(float64(messages))
	}
}

func (m *Metrics) OnLayoutStart(context.Context, string, int) {}

func (m *Metrics) OnLayoutComplete(_ context.Context, vizType string, d time.Duration, err error) {
	m.stageTotal.WithLabelValues("layout", vizType, outcome(err)).Inc()
	m.stageDuration.WithLabelValues("layout").Observe(d.Seconds())
}

func (m *Metrics) OnRenderStart(context.Context, []string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	m.stageTotal.WithLabelValues("render", strings.Join(formats, ","), outcome(err)).Inc()
	m.stageDuration.WithLabelValues("render").Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) OnError(_ context.Context, method, route string, _ error) {
	m.httpErrors.WithLabelValues(method, route).Inc()
}

var (
	_ PipelineHooks = (*Metrics)(nil)
	_ CacheHooks    = (*Metrics)(nil)
	_ HTTPHooks     = (*Metrics)(nil)
)
