package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/referralaudit/internal/referral/fraud"
)

// Config configures run metrics labels and the optional push target.
type Config struct {
	ServiceName    string
	Environment    string
	PushgatewayURL string
	PushTimeout    time.Duration
}

// RunMetrics captures the outcome of audit runs.
type RunMetrics struct {
	registry *prometheus.Registry
	cfg      Config

	records   prometheus.Counter
	valid     prometheus.Counter
	flagged   *prometheus.CounterVec
	degraded  *prometheus.CounterVec
	duration  prometheus.Histogram
	lastRun   prometheus.Gauge
	ruleCount map[string]prometheus.Counter
}

// New registers the run metrics on registry. Rule labels are pre-created so
// every rule reports zero rather than disappearing.
func New(registry *prometheus.Registry, cfg Config) *RunMetrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "referralaudit"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	records := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "referral_audit_records_total",
		Help:        "Referral records evaluated by the audit.",
		ConstLabels: constLabels,
	})
	valid := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "referral_audit_valid_total",
		Help:        "Referral records passing every check.",
		ConstLabels: constLabels,
	})
	flagged := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "referral_audit_flagged_total",
		Help:        "Referral records flagged, by the first matching rule.",
		ConstLabels: constLabels,
	}, []string{"rule"})
	degraded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "referral_audit_degraded_fields_total",
		Help:        "Fields left absent because the source value could not be interpreted.",
		ConstLabels: constLabels,
	}, []string{"field"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:        "referral_audit_run_duration_seconds",
		Help:        "Wall time of one audit run.",
		Buckets:     []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
		ConstLabels: constLabels,
	})
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "referral_audit_last_success_timestamp_seconds",
		Help:        "Unix time of the last completed audit run.",
		ConstLabels: constLabels,
	})

	registry.MustRegister(records, valid, flagged, degraded, duration, lastRun)

	ruleCount := map[string]prometheus.Counter{}
	for _, rule := range fraud.DefaultRules() {
		ruleCount[rule.Code] = flagged.WithLabelValues(rule.Code)
	}

	return &RunMetrics{
		registry:  registry,
		cfg:       cfg,
		records:   records,
		valid:     valid,
		flagged:   flagged,
		degraded:  degraded,
		duration:  duration,
		lastRun:   lastRun,
		ruleCount: ruleCount,
	}
}

// FieldDegraded counts one field that degraded to absent during assembly.
func (m *RunMetrics) FieldDegraded(field string) {
	if m == nil {
		return
	}
	m.degraded.WithLabelValues(field).Inc()
}

// ObserveRun records the verdict totals and duration of a completed run.
func (m *RunMetrics) ObserveRun(summary fraud.Summary, elapsed time.Duration, finishedAt time.Time) {
	if m == nil {
		return
	}
	m.records.Add(float64(summary.Total))
	m.valid.Add(float64(summary.Valid))
	for _, rc := range summary.ByRule {
		if rc.Count == 0 {
			continue
		}
		if counter, ok := m.ruleCount[rc.Rule.Code]; ok {
			counter.Add(float64(rc.Count))
			continue
		}
		m.flagged.WithLabelValues(rc.Rule.Code).Add(float64(rc.Count))
	}
	if elapsed < 0 {
		elapsed = 0
	}
	m.duration.Observe(elapsed.Seconds())
	m.lastRun.Set(float64(finishedAt.Unix()))
}

// Registry exposes the registry the metrics were registered on.
func (m *RunMetrics) Registry() *prometheus.Registry {
	return m.registry
}
