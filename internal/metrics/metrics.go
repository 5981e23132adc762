package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "mfred_"

	// ResultSuccess and ResultError label sink publish outcomes
	ResultSuccess = "success"
	ResultError   = "error"
)

// Metrics collects run statistics on a private registry so a batch run can
// dump them for the node_exporter textfile collector.
type Metrics struct {
	registry *prometheus.Registry

	inputRows      prometheus.Counter
	longRecords    prometheus.Counter
	summaryRecords prometheus.Counter
	sinkPublish    *prometheus.CounterVec
	stageDuration  *prometheus.GaugeVec
	lastRun        prometheus.Gauge
}

// New registers all run metrics
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		inputRows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "input_rows_total",
			Help: "Wide time series rows read",
		}),
		longRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "long_records_total",
			Help: "Per apartment group records produced by the transposer",
		}),
		summaryRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "summary_records_total",
			Help: "Time-of-day summary rows produced",
		}),
		sinkPublish: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "sink_publish_total",
				Help: "Summary publishes by sink and result",
			},
			[]string{"sink", "result"},
		),
		stageDuration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "stage_duration_seconds",
				Help: "Duration of the last run per pipeline stage",
			},
			[]string{"stage"},
		),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "last_run_timestamp_seconds",
			Help: "Unix time the last run finished",
		}),
	}

	m.registry.MustRegister(
		m.inputRows,
		m.longRecords,
		m.summaryRecords,
		m.sinkPublish,
		m.stageDuration,
		m.lastRun,
	)
	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveInputRows adds n wide rows.
func (m *Metrics) ObserveInputRows(n int) {
	m.inputRows.Add(float64(n))
}

// ObserveLongRecords adds n transposed records.
func (m *Metrics) ObserveLongRecords(n int) {
	m.longRecords.Add(float64(n))
}

// ObserveSummaryRecords adds n summary rows.
func (m *Metrics) ObserveSummaryRecords(n int) {
	m.summaryRecords.Add(float64(n))
}

// ObserveStage records how long a stage took.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	m.stageDuration.WithLabelValues(stage).Set(d.Seconds())
}

// ObservePublish counts one sink publish.
func (m *Metrics) ObservePublish(sink string, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	m.sinkPublish.WithLabelValues(sink, result).Inc()
}

// MarkRunFinished stamps the completion time.
func (m *Metrics) MarkRunFinished(t time.Time) {
	m.lastRun.Set(float64(t.Unix()))
}

// WriteTextfile writes the current values in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
