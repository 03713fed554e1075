package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestDurationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

type Manager struct {
	// counters
	CounterRequests            *prometheus.CounterVec
	CounterHandleRequestPanic  prometheus.Counter
	CounterRateLimitedRequests prometheus.Counter
	CounterLogins              *prometheus.CounterVec
	CounterWorkoutSessions     prometheus.Counter
	CounterWorkoutSets         prometheus.Counter

	// gauges
	GaugeRequests   prometheus.Gauge
	GaugeLifeSignal prometheus.Gauge

	// histograms
	HistogramRequestDuration *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("backend", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("backend", "test_server", reg), reg
}

// NewManager registers all service metrics on reg as namespace_subsystem_<name>.
func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	f := factory{
		promauto: promauto.With(reg),
		ns:       namespace,
		sub:      subsystem,
	}

	return &Manager{
		CounterRequests:            f.counterVec("request", "The total number of incoming requests", "method", "status"),
		CounterHandleRequestPanic:  f.counter("handle_request_panic", "The total number of serve request panics"),
		CounterRateLimitedRequests: f.counter("rate_limited_requests", "The total number of rate limited requests"),
		CounterLogins:              f.counterVec("logins", "The total number of login attempts by result", "result"),
		CounterWorkoutSessions:     f.counter("workout_sessions_added", "The total number of added workout sessions"),
		CounterWorkoutSets:         f.counter("workout_sets_added", "The total number of added workout sets"),

		GaugeRequests:   f.gauge("current_requests", "Current number of requests served"),
		GaugeLifeSignal: f.gauge("life_signal", "Shows whether the service is alive"),

		HistogramRequestDuration: f.promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: f.ns,
			Subsystem: f.sub,
			Name:      "request_duration_seconds",
			Help:      "Histogram of response time for requests in seconds",
			Buckets:   requestDurationBuckets,
		}, []string{"route", "method", "status_code"}),
	}
}

type factory struct {
	promauto promauto.Factory
	ns, sub  string
}

func (f factory) counter(name, help string) prometheus.Counter {
	return f.promauto.NewCounter(prometheus.CounterOpts{
		Namespace: f.ns, Subsystem: f.sub, Name: name, Help: help,
	})
}

func (f factory) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return f.promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: f.ns, Subsystem: f.sub, Name: name, Help: help,
	}, labels)
}

func (f factory) gauge(name, help string) prometheus.Gauge {
	return f.promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: f.ns, Subsystem: f.sub, Name: name, Help: help,
	})
}
