// Package observability bundles the daemon's Prometheus metrics: HTTP API
// traffic, survey and pass-prediction outcomes, and planner state.
package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the daemon's Prometheus metrics and provides helpers to
// wire them into the HTTP mux.
type Collector struct {
	gatherer prometheus.Gatherer

	HTTPRequests  *prometheus.CounterVec
	HTTPDurations *prometheus.HistogramVec

	SurveysTotal     prometheus.Counter
	SurveyVisible    prometheus.Gauge
	PassBatchesTotal *prometheus.CounterVec
	PassesUpcoming   prometheus.Gauge
	PassWarnings     *prometheus.CounterVec
	TLECacheAge      prometheus.Gauge
	PlannerState     *prometheus.GaugeVec
	WSClients        prometheus.Gauge
}

// NewCollector registers the daemon metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
// Registration tolerates collectors that already exist with the same name,
// so a config reload can rebuild the collector safely.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	requests, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "satwatch_http_requests_total",
		Help: "Total handled HTTP API requests, labeled by path and status code.",
	}, []string{"path", "code"}), "satwatch_http_requests_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "satwatch_http_request_duration_seconds",
		Help:    "HTTP API latency in seconds.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"path"}), "satwatch_http_request_duration_seconds")
	if err != nil {
		return nil, err
	}

	surveys, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "satwatch_surveys_total",
		Help: "Total GEO arc surveys completed.",
	}), "satwatch_surveys_total")
	if err != nil {
		return nil, err
	}

	visible, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "satwatch_survey_visible_targets",
		Help: "GEO targets visible above minimum elevation in the last survey.",
	}), "satwatch_survey_visible_targets")
	if err != nil {
		return nil, err
	}

	batches, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "satwatch_pass_batches_total",
		Help: "Total pass-prediction batches, labeled by outcome (complete, incomplete, failed).",
	}, []string{"outcome"}), "satwatch_pass_batches_total")
	if err != nil {
		return nil, err
	}

	upcoming, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "satwatch_passes_upcoming",
		Help: "Upcoming LEO passes found by the last prediction batch.",
	}), "satwatch_passes_upcoming")
	if err != nil {
		return nil, err
	}

	warnings, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "satwatch_pass_warnings_total",
		Help: "Pass aggregation anomalies, labeled by kind.",
	}, []string{"kind"}), "satwatch_pass_warnings_total")
	if err != nil {
		return nil, err
	}

	cacheAge, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "satwatch_tle_cache_age_seconds",
		Help: "Age of the on-disk element-set cache.",
	}), "satwatch_tle_cache_age_seconds")
	if err != nil {
		return nil, err
	}

	state, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "satwatch_planner_state",
		Help: "Planner operating state; the active state's gauge is 1.",
	}, []string{"state"}), "satwatch_planner_state")
	if err != nil {
		return nil, err
	}

	clients, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "satwatch_ws_clients",
		Help: "Connected WebSocket clients.",
	}), "satwatch_ws_clients")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:         gatherer,
		HTTPRequests:     requests,
		HTTPDurations:    durations,
		SurveysTotal:     surveys,
		SurveyVisible:    visible,
		PassBatchesTotal: batches,
		PassesUpcoming:   upcoming,
		PassWarnings:     warnings,
		TLECacheAge:      cacheAge,
		PlannerState:     state,
		WSClients:        clients,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Instrument wraps an HTTP handler, recording request count and latency
// under the given path label.
func (c *Collector) Instrument(path string, next http.Handler) http.Handler {
	if c == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)

		c.HTTPRequests.WithLabelValues(path, fmt.Sprintf("%d", sw.code)).Inc()
		c.HTTPDurations.WithLabelValues(path).Observe(time.Since(start).Seconds())
	})
}

// SetPlannerState marks the given state active and all others inactive.
func (c *Collector) SetPlannerState(active string, all []string) {
	if c == nil || c.PlannerState == nil {
		return
	}
	for _, s := range all {
		v := 0.0
		if s == active {
			v = 1.0
		}
		c.PlannerState.WithLabelValues(s).Set(v)
	}
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

func registerCounter(reg prometheus.Registerer, c prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return c, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
